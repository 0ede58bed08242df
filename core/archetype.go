package core

import (
	"encoding/binary"
	"slices"

	"github.com/BlackPhoenix134/flecs-go/native"
	"github.com/cespare/xxhash/v2"
)

// archetype stores all entities that carry exactly the same set of ids.
// Components among those ids get a column each; tags and pairs only
// contribute to identity.
type archetype struct {
	// ids is the full sorted id set, including tags and encoded pairs.
	ids []native.EntityId

	// comps are the ids backed by a column, sorted, with columns parallel.
	comps   []native.EntityId
	columns []column

	// entities maps a row back to its entity.
	entities []native.EntityId

	hash uint64
}

func newArchetype(ids []native.EntityId, layouts map[native.EntityId]layout) *archetype {
	a := &archetype{
		ids:  ids,
		hash: hashIds(ids),
	}

	for _, id := range ids {
		l, ok := layouts[id]
		if !ok {
			continue
		}

		a.comps = append(a.comps, id)
		a.columns = append(a.columns, newColumn(l.size, l.align, 0))
	}

	return a
}

func (a *archetype) len() int {
	return len(a.entities)
}

func (a *archetype) has(id native.EntityId) bool {
	_, found := slices.BinarySearch(a.ids, id)
	return found
}

// columnOf returns the column holding the given component, nil if the
// archetype does not store it.
func (a *archetype) columnOf(comp native.EntityId) *column {
	idx, found := slices.BinarySearch(a.comps, comp)
	if !found {
		return nil
	}

	return &a.columns[idx]
}

// push appends the entity with zeroed component rows and returns its row.
func (a *archetype) push(entity native.EntityId) int {
	row := len(a.entities)
	a.entities = append(a.entities, entity)

	for idx := range a.columns {
		a.columns[idx].push(nil)
	}

	return row
}

// swapRemove removes a row. It returns the entity that was moved into the
// freed row, or zero if the removed row was the last one.
func (a *archetype) swapRemove(row int) native.EntityId {
	last := len(a.entities) - 1

	var moved native.EntityId
	if row != last {
		moved = a.entities[last]
		a.entities[row] = moved
	}

	a.entities = a.entities[:last]

	for idx := range a.columns {
		a.columns[idx].swapRemove(row)
	}

	return moved
}

// matches reports whether the archetype contains every required id and none
// of the excluded ones.
func (a *archetype) matches(required, excluded []native.EntityId) bool {
	for _, id := range required {
		if !a.has(id) {
			return false
		}
	}

	for _, id := range excluded {
		if a.has(id) {
			return false
		}
	}

	return true
}

// withId returns the sorted id set extended by id. The input slice is never
// shared with the result.
func withId(ids []native.EntityId, id native.EntityId) []native.EntityId {
	idx, found := slices.BinarySearch(ids, id)
	if found {
		return slices.Clone(ids)
	}

	return slices.Insert(slices.Clone(ids), idx, id)
}

func hashIds(ids []native.EntityId) uint64 {
	var digest xxhash.Digest
	digest.Reset()

	var buf [8]byte
	for _, id := range ids {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		_, _ = digest.Write(buf[:])
	}

	return digest.Sum64()
}

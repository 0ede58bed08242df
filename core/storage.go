package core

import (
	"slices"
	"unsafe"

	"github.com/BlackPhoenix134/flecs-go/native"
)

type layout struct {
	size  uintptr
	align uintptr
}

type entityRecord struct {
	arch *archetype
	row  int
}

// storage owns every archetype of a world and tracks which archetype and row
// each entity currently lives in. Archetypes are found by an xxhash over
// their sorted id set, with a bucket list catching hash collisions.
type storage struct {
	layouts map[native.EntityId]layout
	records map[native.EntityId]*entityRecord

	index      map[uint64][]*archetype
	archetypes []*archetype
}

func newStorage(layouts map[native.EntityId]layout) *storage {
	s := &storage{
		layouts: layouts,
		records: map[native.EntityId]*entityRecord{},
		index:   map[uint64][]*archetype{},
	}

	// the empty archetype, home of freshly created entities
	s.lookup(nil)

	return s
}

// lookup returns the archetype for the given sorted id set, creating it on
// first use.
func (s *storage) lookup(ids []native.EntityId) *archetype {
	hash := hashIds(ids)

	for _, existing := range s.index[hash] {
		if slices.Equal(existing.ids, ids) {
			return existing
		}
	}

	arch := newArchetype(ids, s.layouts)
	s.index[hash] = append(s.index[hash], arch)
	s.archetypes = append(s.archetypes, arch)

	return arch
}

func (s *storage) alive(entity native.EntityId) bool {
	_, ok := s.records[entity]
	return ok
}

// spawn places a new entity into the empty archetype.
func (s *storage) spawn(entity native.EntityId) {
	arch := s.lookup(nil)

	s.records[entity] = &entityRecord{
		arch: arch,
		row:  arch.push(entity),
	}
}

func (s *storage) despawn(entity native.EntityId) bool {
	rec, ok := s.records[entity]
	if !ok {
		return false
	}

	s.removeRow(rec.arch, rec.row)
	delete(s.records, entity)

	return true
}

func (s *storage) addId(entity, id native.EntityId) bool {
	rec, ok := s.records[entity]
	if !ok {
		return false
	}

	if rec.arch.has(id) {
		return true
	}

	s.moveEntity(entity, rec, s.lookup(withId(rec.arch.ids, id)))
	return true
}

func (s *storage) hasId(entity, id native.EntityId) bool {
	rec, ok := s.records[entity]
	return ok && rec.arch.has(id)
}

// componentPtr returns the storage address of the component on the entity,
// nil if the entity does not carry it.
func (s *storage) componentPtr(entity, comp native.EntityId) unsafe.Pointer {
	rec, ok := s.records[entity]
	if !ok {
		return nil
	}

	col := rec.arch.columnOf(comp)
	if col == nil {
		return nil
	}

	return col.ptr(rec.row)
}

// setComponent copies one component value into the entity, adding the
// component first if it is missing. It reports false when the entity is dead
// or the copy size does not match the registered layout.
func (s *storage) setComponent(entity, comp native.EntityId, size uintptr, src unsafe.Pointer) bool {
	l, ok := s.layouts[comp]
	if !ok || l.size != size {
		return false
	}

	if !s.addId(entity, comp) {
		return false
	}

	rec := s.records[entity]
	rec.arch.columnOf(comp).set(rec.row, src)

	return true
}

// moveEntity transfers an entity into the target archetype, carrying over the
// columns both archetypes share. Rows of components new to the target stay
// zeroed.
func (s *storage) moveEntity(entity native.EntityId, rec *entityRecord, target *archetype) {
	source, sourceRow := rec.arch, rec.row

	targetRow := target.push(entity)

	for idx, comp := range target.comps {
		sourceCol := source.columnOf(comp)
		if sourceCol == nil {
			continue
		}

		target.columns[idx].set(targetRow, sourceCol.ptr(sourceRow))
	}

	s.removeRow(source, sourceRow)

	rec.arch = target
	rec.row = targetRow
}

// removeRow drops a row from an archetype and patches the record of the
// entity that swap-remove moved into its place.
func (s *storage) removeRow(arch *archetype, row int) {
	if moved := arch.swapRemove(row); moved != 0 {
		s.records[moved].row = row
	}
}

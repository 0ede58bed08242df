package core

import (
	"errors"
	"slices"
	"unsafe"

	"github.com/BlackPhoenix134/flecs-go/native"
	"golang.org/x/sync/errgroup"
)

// systemRecord is the scheduled form of a registered system. Callback and ctx
// are stored verbatim from the descriptor; the engine never looks behind
// them.
type systemRecord struct {
	entity   native.EntityId
	name     string
	phase    native.EntityId
	terms    []boundTerm
	callback native.Callback
	ctx      uintptr
	multi    bool
}

// task reports whether the system runs without a filter, once per tick.
func (s *systemRecord) task() bool {
	return len(s.terms) == 0
}

// phaseOrder sorts the given phase entities so that every phase runs after
// the phase its DependsOn edge points to. Ties resolve by entity id, which
// makes the order deterministic.
func phaseOrder(phases []native.EntityId, edgeOf func(native.EntityId) native.EntityId) ([]native.EntityId, error) {
	phases = slices.Clone(phases)
	slices.Sort(phases)

	graph := map[native.EntityId][]native.EntityId{}
	inDegree := map[native.EntityId]int{}

	for _, phase := range phases {
		inDegree[phase] = 0
	}

	for _, phase := range phases {
		target := edgeOf(phase)
		if _, known := inDegree[target]; !known {
			// edge points outside the phase set, nothing to order against
			continue
		}

		graph[target] = append(graph[target], phase)
		inDegree[phase] += 1
	}

	var queue []native.EntityId
	for _, phase := range phases {
		if inDegree[phase] == 0 {
			queue = append(queue, phase)
		}
	}

	var result []native.EntityId
	for idx := 0; idx < len(queue); idx++ {
		curr := queue[idx]
		result = append(result, curr)

		for _, next := range graph[curr] {
			inDegree[next] -= 1

			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(result) != len(phases) {
		return nil, errors.New("cycle in phase dependencies")
	}

	return result, nil
}

// collectBatches builds one iterator per non-empty archetype the system
// matches. Iterators alias engine memory and are handed to the callback
// without copying.
func (e *Engine) collectBatches(sys *systemRecord, deltaTime float32) []native.Iter {
	if sys.task() {
		return []native.Iter{{Ctx: sys.ctx, DeltaTime: deltaTime}}
	}

	var required, excluded []native.EntityId
	for _, t := range sys.terms {
		if t.exclude {
			excluded = append(excluded, t.id)
		} else {
			required = append(required, t.id)
		}
	}

	var batches []native.Iter
	for _, arch := range e.store.archetypes {
		if arch.len() == 0 || !arch.matches(required, excluded) {
			continue
		}

		it := native.Iter{
			Ctx:       sys.ctx,
			DeltaTime: deltaTime,
			Entities:  arch.entities,
			Columns:   make([]unsafe.Pointer, 0, len(sys.terms)),
			Sizes:     make([]uintptr, 0, len(sys.terms)),
		}

		for _, t := range sys.terms {
			col := arch.columnOf(t.id)
			if t.exclude || col == nil {
				it.Columns = append(it.Columns, nil)
				it.Sizes = append(it.Sizes, 0)
				continue
			}

			it.Columns = append(it.Columns, col.base)
			it.Sizes = append(it.Sizes, col.size)
		}

		batches = append(batches, it)
	}

	return batches
}

// runSystem dispatches all batches of one system. Multi threaded systems fan
// their batches out over a bounded errgroup; everything else runs inline on
// the driving goroutine.
func (e *Engine) runSystem(sys *systemRecord, deltaTime float32) {
	batches := e.collectBatches(sys, deltaTime)

	if sys.multi && len(batches) > 1 {
		var group errgroup.Group
		group.SetLimit(e.threads)

		for idx := range batches {
			it := &batches[idx]
			group.Go(func() error {
				sys.callback(it)
				return nil
			})
		}

		_ = group.Wait()
		return
	}

	for idx := range batches {
		sys.callback(&batches[idx])
	}
}

// tick runs every scheduled system once, phase by phase.
func (e *Engine) tick(deltaTime float32) {
	phases := make([]native.EntityId, 0, len(e.slots))
	for phase := range e.slots {
		phases = append(phases, phase)
	}

	ordered, err := phaseOrder(phases, e.dependsOnTarget)
	if err != nil {
		panic(err)
	}

	for _, phase := range ordered {
		for _, sys := range e.slots[phase] {
			e.runSystem(sys, deltaTime)
		}
	}
}

// dependsOnTarget returns the phase the entity's DependsOn pair points to,
// zero if it has none.
func (e *Engine) dependsOnTarget(entity native.EntityId) native.EntityId {
	rec, ok := e.store.records[entity]
	if !ok {
		return 0
	}

	for _, id := range rec.arch.ids {
		if id&pairFlag != 0 && pairRelation(id) == e.consts.DependsOn {
			return pairTarget(id)
		}
	}

	return 0
}

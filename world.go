// Package flecs is a Go front end for a flecs style ECS engine living behind
// an opaque native boundary. The bridge validates component layouts, keeps
// system callbacks alive and reachable from the engine's trampoline, and
// encodes the 64 bit entity and relationship pair identifiers shared with
// the native side.
//
// By default a world runs on the embedded engine from the core package; any
// implementation of native.Engine can be substituted with WithEngine.
package flecs

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/BlackPhoenix134/flecs-go/core"
	"github.com/BlackPhoenix134/flecs-go/native"
	"go.uber.org/zap"
)

// Phases are the builtin pipeline phases of a world, in execution order.
type Phases struct {
	OnLoad     EntityId
	PostLoad   EntityId
	PreUpdate  EntityId
	OnUpdate   EntityId
	OnValidate EntityId
	PostUpdate EntityId
	PreStore   EntityId
	OnStore    EntityId
}

// World owns exactly one engine instance. All calls must come from a single
// driving goroutine; the engine may fan system callbacks out to workers
// during Progress, but never anything else.
type World struct {
	noCopy noCopy

	engine native.Engine
	log    *zap.Logger

	codec  pairCodec
	consts native.Constants

	// components caches the engine id per Go type, so every type is
	// registered with the engine at most once per world.
	components map[reflect.Type]ComponentId

	// handles tracks the binding context handle per system entity, released
	// on RemoveSystem and Fini.
	handles map[EntityId]Handle

	alive bool
}

// NewWorld creates a world, initializes its engine and captures the engine
// constants the id codec needs. Constants are read once and cached for the
// world's lifetime.
func NewWorld(opts ...Option) (*World, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	engine := options.engine
	if engine == nil {
		engine = core.New(core.Config{
			Logger:  options.logger,
			Threads: options.threads,
		})
	}

	if err := engine.Init(options.args); err != nil {
		return nil, fmt.Errorf("engine init: %w", err)
	}

	w := &World{
		engine:     engine,
		log:        options.logger,
		components: map[reflect.Type]ComponentId{},
		handles:    map[EntityId]Handle{},
		alive:      true,
	}

	w.consts = engine.Constants()
	w.codec = pairCodec{flag: w.consts.PairFlag}

	return w, nil
}

// Progress advances the engine by exactly one tick. A deltaTime of zero or
// less lets the engine measure the step itself. It reports whether the world
// should keep running.
func (w *World) Progress(deltaTime float32) bool {
	w.ensureAlive()
	return w.engine.Progress(deltaTime)
}

// Quit asks the engine to stop. Progress reports false once the current tick
// has finished.
func (w *World) Quit() {
	w.ensureAlive()
	w.engine.Quit()
}

// Fini releases every binding context this world created, tears the engine
// down and returns its exit code. The world must not be used afterwards.
func (w *World) Fini() int {
	w.ensureAlive()

	for id, handle := range w.handles {
		bindings.release(handle)
		delete(w.handles, id)
	}

	code := w.engine.Fini()
	w.alive = false

	w.log.Debug("world finalized", zap.Int("exitCode", code))
	return code
}

// NewEntity creates an entity. A non empty name is registered with the
// engine; creating an entity under an existing name returns the existing
// entity.
func (w *World) NewEntity(name string) EntityId {
	w.ensureAlive()
	return w.engine.EntityInit(name)
}

// DeleteEntity removes an entity and everything attached to it.
func (w *World) DeleteEntity(entity EntityId) {
	w.ensureAlive()
	w.engine.DeleteEntity(entity)
}

// Lookup resolves a name to an entity id, NoEntity if nothing carries the
// name.
func (w *World) Lookup(name string) EntityId {
	w.ensureAlive()
	return w.engine.Lookup(name)
}

// Name returns the name an entity was created under, empty for anonymous
// entities.
func (w *World) Name(entity EntityId) string {
	w.ensureAlive()
	return w.engine.Name(entity)
}

// Add attaches a component, tag or encoded pair to an entity. Adding to a
// dead entity is an engine invariant violation and panics.
func (w *World) Add(entity, id EntityId) {
	w.ensureAlive()

	if !w.engine.AddID(entity, id) {
		panic(fmt.Sprintf("add %d to dead entity %d", id, entity))
	}
}

// Has reports whether the entity currently carries the id.
func (w *World) Has(entity, id EntityId) bool {
	w.ensureAlive()
	return w.engine.HasID(entity, id)
}

// Pair encodes a relationship pair from a relation and a target entity.
func (w *World) Pair(relation, target EntityId) EntityId {
	return w.codec.encode(relation, target)
}

// DecodePair recovers the relation and target a pair was encoded from, exact
// for operands that fit in 32 bits.
func (w *World) DecodePair(pair EntityId) (relation, target EntityId) {
	return w.codec.decode(pair)
}

// IsPair reports whether the id carries the engine's pair flag.
func (w *World) IsPair(id EntityId) bool {
	return w.codec.isPair(id)
}

// AddPair attaches the relationship (relation, target) to the subject
// entity.
func (w *World) AddPair(subject, relation, target EntityId) {
	w.Add(subject, w.Pair(relation, target))
}

// HasPair reports whether the subject carries the relationship
// (relation, target).
func (w *World) HasPair(subject, relation, target EntityId) bool {
	return w.Has(subject, w.Pair(relation, target))
}

// Phases returns the builtin pipeline phases of this world.
func (w *World) Phases() Phases {
	return Phases{
		OnLoad:     w.consts.OnLoad,
		PostLoad:   w.consts.PostLoad,
		PreUpdate:  w.consts.PreUpdate,
		OnUpdate:   w.consts.OnUpdate,
		OnValidate: w.consts.OnValidate,
		PostUpdate: w.consts.PostUpdate,
		PreStore:   w.consts.PreStore,
		OnStore:    w.consts.OnStore,
	}
}

// DependsOn returns the engine's dependency relation, used to chain custom
// phases into the pipeline.
func (w *World) DependsOn() EntityId {
	return w.consts.DependsOn
}

// Set writes a component value onto an entity, registering the component
// type on first use. The value is copied into engine storage.
func Set[T any](w *World, entity EntityId, value T) error {
	id, err := w.componentId(reflect.TypeFor[T]())
	if err != nil {
		return err
	}

	if w.engine.SetComponent(entity, id, unsafe.Sizeof(value), unsafe.Pointer(&value)) == NoEntity {
		return fmt.Errorf("set %s on entity %d: %w", reflect.TypeFor[T](), entity, ErrInvalidParameter)
	}

	return nil
}

// Get returns a pointer into engine storage for the component on the entity,
// nil if the entity does not carry it. The pointer is borrowed: it stays
// valid only until the next structural change of the world.
func Get[T any](w *World, entity EntityId) *T {
	w.ensureAlive()

	id := w.mustComponentId(reflect.TypeFor[T]())
	return (*T)(w.engine.GetComponentPtr(entity, id))
}

func (w *World) ensureAlive() {
	if !w.alive {
		panic("world used after Fini")
	}
}

// Package native defines the boundary between the flecs bridge and an engine
// implementation. Everything that crosses it is either a plain integer, a flat
// descriptor struct or a raw memory pointer, so a compliant engine can live
// in-process, behind purego, or behind a cgo shim without changing the bridge.
package native

import "unsafe"

// EntityId identifies an entity, a component, a relationship or an encoded
// pair. The engine issues ids, the bridge never invents them. Zero is never
// a valid id and doubles as the failure result of the register calls.
type EntityId uint64

// Callback is the function shape an engine invokes for a registered system,
// once per matching batch. Engines treat it as an opaque code pointer plus
// the Ctx slot of the descriptor, nothing else.
type Callback func(*Iter)

// Constants are the engine-defined ids the bridge must not hardcode.
// The bridge reads them exactly once, right after Init.
type Constants struct {
	// PairFlag is the bit that marks an id as an encoded relationship pair.
	PairFlag EntityId

	// DependsOn is the relationship the pipeline walks to order phases and
	// to attach systems to a phase.
	DependsOn EntityId

	// The builtin pipeline phases, each one an ordinary entity chained to
	// its predecessor via DependsOn. OnUpdate is the default slot for
	// systems registered without a phase.
	OnLoad     EntityId
	PostLoad   EntityId
	PreUpdate  EntityId
	OnUpdate   EntityId
	OnValidate EntityId
	PostUpdate EntityId
	PreStore   EntityId
	OnStore    EntityId
}

// ComponentDesc describes the memory layout of a component. The bridge
// validates it before the engine ever sees it; engines may still reject a
// descriptor, e.g. on a name collision with a different layout.
type ComponentDesc struct {
	Name      string
	Size      uintptr
	Alignment uintptr
}

// SystemDesc describes a system to register. Callback and Ctx together form
// the dispatch contract: the engine stores both verbatim and passes Ctx back
// through Iter on every invocation.
type SystemDesc struct {
	Name string

	// Expr selects the archetypes the system runs over, e.g. "Position, Velocity"
	// or "Position, !Frozen".
	Expr string

	// DependsOn is the already encoded (DependsOn, phase) pair to add to the
	// system entity, or zero for a system that runs in the default slot.
	DependsOn EntityId

	Callback Callback
	Ctx      uintptr

	// MultiThreaded allows the engine to invoke the callback from worker
	// goroutines, one batch per call.
	MultiThreaded bool
}

// Iter is the batch view an engine hands to a system callback. Columns and
// Entities alias engine-owned memory and are only valid for the duration of
// the call.
type Iter struct {
	Ctx       uintptr
	DeltaTime float32

	Entities []EntityId

	// Columns holds one base pointer per term of the system's expression, in
	// term order. Excluded terms contribute a nil pointer.
	Columns []unsafe.Pointer

	// Sizes holds the component size per term, zero for excluded terms.
	Sizes []uintptr
}

// Count returns the number of entities in the batch.
func (it *Iter) Count() int {
	return len(it.Entities)
}

// Engine is the contract a native or re-implemented core has to fulfil.
//
// Register calls return the new id or zero on failure. All calls except
// concurrent Callback invocations during Progress must come from the single
// goroutine that drives the world.
type Engine interface {
	// Init prepares the engine. Args are forwarded verbatim, in argv order.
	Init(args []string) error

	// Fini tears the engine down and returns its exit code.
	Fini() int

	// Constants returns the engine-defined ids. Only valid after Init.
	Constants() Constants

	// ComponentInit registers a component layout under a name. Registering
	// the same name with the same layout again returns the existing id.
	ComponentInit(desc ComponentDesc) EntityId

	// SystemInit registers a system entity and schedules it.
	SystemInit(desc SystemDesc) EntityId

	// EntityInit creates a named or anonymous entity. An existing name
	// resolves to the existing entity.
	EntityInit(name string) EntityId

	// DeleteEntity removes an entity and all of its components.
	DeleteEntity(entity EntityId)

	// AddID adds a component, tag or encoded pair to an entity. It reports
	// whether the entity was alive.
	AddID(entity, id EntityId) bool

	// HasID reports whether the entity currently has the given id.
	HasID(entity, id EntityId) bool

	// SetComponent copies size bytes from ptr into the entity's component
	// storage, adding the component first if needed. It returns the entity,
	// or zero if the component id is unknown.
	SetComponent(entity, component EntityId, size uintptr, ptr unsafe.Pointer) EntityId

	// GetComponentPtr returns a pointer into the engine's storage for the
	// component on the entity, or nil. The pointer stays valid until the
	// next structural change.
	GetComponentPtr(entity, component EntityId) unsafe.Pointer

	// Lookup resolves a name to an entity id, zero if unknown.
	Lookup(name string) EntityId

	// Name returns the name an entity was created under, empty for anonymous
	// or dead entities.
	Name(entity EntityId) string

	// Progress runs one tick of the pipeline. It reports false once the
	// engine wants to stop, e.g. after Quit.
	Progress(deltaTime float32) bool

	// Quit asks the engine to stop. The current tick still completes.
	Quit()
}

package flecs

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/BlackPhoenix134/flecs-go/native"
	"go.uber.org/zap"
)

// SystemCallback is invoked by the engine once per matching batch per tick.
type SystemCallback func(*Iter)

// SystemDesc configures a system registration.
type SystemDesc struct {
	// Name of the system entity. Defaults to the callback's function name.
	Name string

	// Phase the system runs in, one of the ids from Phases or a custom phase
	// entity. Zero schedules the system into the default update slot without
	// adding a phase edge.
	Phase EntityId

	// Expr filters the entities the system runs over, e.g.
	// "Position, Velocity" or "Position, !Frozen". Empty turns the system
	// into a task that runs once per tick.
	Expr string

	// MultiThreaded lets the engine invoke the callback from worker
	// goroutines, one batch at a time.
	MultiThreaded bool
}

// RegisterSystem binds the callback and registers the system with the
// engine. The engine only ever sees the bridge's trampoline plus an opaque
// handle; the callback itself stays reachable on the Go side for as long as
// the system lives.
func (w *World) RegisterSystem(callback SystemCallback, desc SystemDesc) (EntityId, error) {
	w.ensureAlive()

	if callback == nil {
		return NoEntity, fmt.Errorf("system %q has no callback: %w", desc.Name, ErrInvalidParameter)
	}

	bound := &boundSystem{world: w, callback: callback}
	handle := bindings.create(bound)

	// Distinct closures built from the same function literal share a
	// runtime name, so derived names carry the handle to stay unique.
	name := desc.Name
	if name == "" {
		name = fmt.Sprintf("%s#%d", callbackName(callback), handle)
	}
	bound.name = name

	nd := native.SystemDesc{
		Name:          name,
		Expr:          desc.Expr,
		Callback:      trampoline,
		Ctx:           uintptr(handle),
		MultiThreaded: desc.MultiThreaded,
	}

	if desc.Phase != 0 {
		nd.DependsOn = w.codec.encode(w.consts.DependsOn, desc.Phase)
	}

	id := w.engine.SystemInit(nd)
	if id == NoEntity {
		bindings.release(handle)
		return NoEntity, fmt.Errorf("system %q: %w", name, ErrInvalidParameter)
	}

	w.handles[id] = handle

	w.log.Debug("registered system",
		zap.String("name", name),
		zap.Uint64("id", uint64(id)),
	)

	return id, nil
}

// RemoveSystem deletes a system entity and releases its binding context.
// Removing an id that is not a registered system does nothing.
func (w *World) RemoveSystem(system EntityId) {
	w.ensureAlive()

	handle, ok := w.handles[system]
	if !ok {
		return
	}

	w.engine.DeleteEntity(system)
	bindings.release(handle)
	delete(w.handles, system)
}

// System registers a callback over all entities carrying the component A.
// The component is registered on first use and the filter expression is
// derived from its type name.
func System[A any](w *World, phase EntityId, callback SystemCallback) (EntityId, error) {
	expr, err := w.exprOf(reflect.TypeFor[A]())
	if err != nil {
		return NoEntity, err
	}

	return w.RegisterSystem(callback, SystemDesc{Phase: phase, Expr: expr})
}

// System2 registers a callback over all entities carrying both A and B.
func System2[A, B any](w *World, phase EntityId, callback SystemCallback) (EntityId, error) {
	expr, err := w.exprOf(reflect.TypeFor[A](), reflect.TypeFor[B]())
	if err != nil {
		return NoEntity, err
	}

	return w.RegisterSystem(callback, SystemDesc{Phase: phase, Expr: expr})
}

// System3 registers a callback over all entities carrying A, B and C.
func System3[A, B, C any](w *World, phase EntityId, callback SystemCallback) (EntityId, error) {
	expr, err := w.exprOf(reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C]())
	if err != nil {
		return NoEntity, err
	}

	return w.RegisterSystem(callback, SystemDesc{Phase: phase, Expr: expr})
}

func (w *World) exprOf(types ...reflect.Type) (string, error) {
	names := make([]string, 0, len(types))

	for _, t := range types {
		if _, err := w.componentId(t); err != nil {
			return "", err
		}

		names = append(names, t.Name())
	}

	return strings.Join(names, ", "), nil
}

// callbackName derives a system name from the callback's function name,
// without the package path.
func callbackName(callback SystemCallback) string {
	pc := reflect.ValueOf(callback).Pointer()

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "system"
	}

	name := fn.Name()
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}

	return name
}

package flecs

import (
	"fmt"
	"sync"

	"github.com/BlackPhoenix134/flecs-go/native"
)

// Handle references a bound system callback across the native boundary. The
// engine stores it as an opaque context value and hands it back on every
// invocation. Zero is never a valid handle.
type Handle uintptr

// boundSystem is what a handle resolves to: the user callback plus the world
// the system was registered on.
type boundSystem struct {
	world    *World
	callback SystemCallback
	name     string
}

// bindingTable keeps bound systems reachable while the engine holds their
// handle. Handles count up monotonically and are never reused.
//
// resolve may be called concurrently by engine workers during a tick; create
// and release must only happen between ticks, on the driving goroutine.
type bindingTable struct {
	mu    sync.RWMutex
	next  Handle
	bound map[Handle]*boundSystem
}

// bindings is the process wide table. Handles stay unique across worlds; the
// world a system belongs to rides in the bound value.
var bindings = bindingTable{
	next:  1,
	bound: map[Handle]*boundSystem{},
}

func (t *bindingTable) create(bs *boundSystem) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	handle := t.next
	t.next += 1
	t.bound[handle] = bs

	return handle
}

func (t *bindingTable) resolve(handle Handle) (*boundSystem, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	bs, ok := t.bound[handle]
	if !ok {
		return nil, fmt.Errorf("handle %d: %w", handle, ErrUnknownHandle)
	}

	return bs, nil
}

func (t *bindingTable) release(handle Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.bound, handle)
}

// trampoline is the one callback every system registers with the engine. It
// recovers the bound system from the iterator's context slot and invokes the
// user callback. A handle that fails to resolve mid tick panics.
func trampoline(it *native.Iter) {
	bs, err := bindings.resolve(Handle(it.Ctx))
	if err != nil {
		panic(err)
	}

	iter := Iter{raw: it, world: bs.world}
	bs.callback(&iter)
}

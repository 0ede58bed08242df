package flecs

import (
	"sync"
	"testing"

	"github.com/BlackPhoenix134/flecs-go/native"
	"github.com/stretchr/testify/require"
)

func TestBindingTable(t *testing.T) {
	table := bindingTable{next: 1, bound: map[Handle]*boundSystem{}}

	t.Run("create and resolve", func(t *testing.T) {
		bs := &boundSystem{name: "move"}
		handle := table.create(bs)
		require.NotZero(t, handle)

		resolved, err := table.resolve(handle)
		require.NoError(t, err)
		require.Same(t, bs, resolved)
	})

	t.Run("release makes the handle unresolvable", func(t *testing.T) {
		handle := table.create(&boundSystem{name: "doomed"})
		table.release(handle)

		_, err := table.resolve(handle)
		require.ErrorIs(t, err, ErrUnknownHandle)
	})

	t.Run("handles are never reused", func(t *testing.T) {
		first := table.create(&boundSystem{})
		table.release(first)

		second := table.create(&boundSystem{})
		require.NotEqual(t, first, second)
	})

	t.Run("releasing twice is fine", func(t *testing.T) {
		handle := table.create(&boundSystem{})
		table.release(handle)
		table.release(handle)
	})

	t.Run("concurrent resolve", func(t *testing.T) {
		handle := table.create(&boundSystem{name: "shared"})

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for range 1000 {
					bs, err := table.resolve(handle)
					require.NoError(t, err)
					require.Equal(t, "shared", bs.name)
				}
			}()
		}

		wg.Wait()
	})
}

func TestTrampoline(t *testing.T) {
	w := &World{}

	t.Run("dispatches to the bound callback", func(t *testing.T) {
		var got *Iter
		handle := bindings.create(&boundSystem{
			world: w,
			callback: func(it *Iter) {
				got = it
			},
		})
		defer bindings.release(handle)

		raw := native.Iter{
			Ctx:       uintptr(handle),
			DeltaTime: 0.25,
			Entities:  []EntityId{4, 5},
		}
		trampoline(&raw)

		require.NotNil(t, got)
		require.Equal(t, 2, got.Count())
		require.Equal(t, float32(0.25), got.DeltaTime())
		require.Equal(t, EntityId(5), got.Entity(1))
		require.Same(t, w, got.World())
	})

	t.Run("unknown handle is fatal", func(t *testing.T) {
		raw := native.Iter{Ctx: uintptr(Handle(999999))}

		require.Panics(t, func() {
			trampoline(&raw)
		})
	})
}

package flecs

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestComponentRegistration(t *testing.T) {
	t.Run("descriptor reaches the engine", func(t *testing.T) {
		fake := newFakeEngine()
		w, err := NewWorld(WithEngine(fake))
		require.NoError(t, err)

		id, err := Component[Transform](w)
		require.NoError(t, err)
		require.NotEqual(t, NoEntity, id)

		require.Len(t, fake.componentInits, 1)
		desc := fake.componentInits[0]
		require.Equal(t, "Transform", desc.Name)
		require.Equal(t, unsafe.Sizeof(Transform{}), desc.Size)
		require.Equal(t, uintptr(4), desc.Alignment)
	})

	t.Run("registered once per type per world", func(t *testing.T) {
		fake := newFakeEngine()
		w, err := NewWorld(WithEngine(fake))
		require.NoError(t, err)

		first, err := Component[Transform](w)
		require.NoError(t, err)

		second, err := Component[Transform](w)
		require.NoError(t, err)

		require.Equal(t, first, second)
		require.Len(t, fake.componentInits, 1)

		_, err = Component[Health](w)
		require.NoError(t, err)
		require.Len(t, fake.componentInits, 2)
	})

	t.Run("separate worlds register separately", func(t *testing.T) {
		fakeA, fakeB := newFakeEngine(), newFakeEngine()

		a, err := NewWorld(WithEngine(fakeA))
		require.NoError(t, err)
		b, err := NewWorld(WithEngine(fakeB))
		require.NoError(t, err)

		_, err = Component[Transform](a)
		require.NoError(t, err)
		_, err = Component[Transform](b)
		require.NoError(t, err)

		require.Len(t, fakeA.componentInits, 1)
		require.Len(t, fakeB.componentInits, 1)
	})

	t.Run("engine rejection is not cached", func(t *testing.T) {
		fake := newFakeEngine()
		w, err := NewWorld(WithEngine(fake))
		require.NoError(t, err)

		fake.rejectNext = true
		_, err = Component[Transform](w)
		require.ErrorIs(t, err, ErrInvalidParameter)

		id, err := Component[Transform](w)
		require.NoError(t, err)
		require.NotEqual(t, NoEntity, id)
	})

	t.Run("registration panics after fini", func(t *testing.T) {
		w, err := NewWorld(WithEngine(newFakeEngine()))
		require.NoError(t, err)
		w.Fini()

		require.Panics(t, func() {
			_, _ = Component[Transform](w)
		})
	})
}

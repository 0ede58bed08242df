package flecs

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/BlackPhoenix134/flecs-go/native"
)

func TestField(t *testing.T) {
	values := []Position{{X: 1}, {X: 2}, {X: 3}}

	it := &Iter{raw: &native.Iter{
		DeltaTime: 0.5,
		Entities:  []native.EntityId{4, 5, 6},
		Columns:   []unsafe.Pointer{unsafe.Pointer(&values[0]), nil},
		Sizes:     []uintptr{unsafe.Sizeof(Position{}), 0},
	}}

	require.Equal(t, 3, it.Count())
	require.Equal(t, float32(0.5), it.DeltaTime())
	require.Equal(t, EntityId(5), it.Entity(1))

	t.Run("aliases the column", func(t *testing.T) {
		field := Field[Position](it, 0)
		require.Len(t, field, 3)
		require.Equal(t, float32(2), field[1].X)

		field[1].X = 9
		require.Equal(t, float32(9), values[1].X)
	})

	t.Run("excluded terms carry no data", func(t *testing.T) {
		require.Panics(t, func() { Field[Position](it, 1) })
	})

	t.Run("size mismatch panics", func(t *testing.T) {
		require.Panics(t, func() { Field[float32](it, 0) })
	})

	t.Run("pointered types panic", func(t *testing.T) {
		require.Panics(t, func() { Field[*Position](it, 0) })
	})
}

package flecs

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/BlackPhoenix134/flecs-go/internal/assert"
	"github.com/BlackPhoenix134/flecs-go/native"
)

// Iter is the view over one batch of matching entities, handed to a system
// callback. It aliases engine owned memory and must not be used after the
// callback returns.
type Iter struct {
	raw   *native.Iter
	world *World
}

// Count returns the number of entities in the batch.
func (it *Iter) Count() int {
	return it.raw.Count()
}

// DeltaTime returns the time step of the current tick in seconds.
func (it *Iter) DeltaTime() float32 {
	return it.raw.DeltaTime
}

// Entity returns the entity at the given row of the batch.
func (it *Iter) Entity(row int) EntityId {
	return it.raw.Entities[row]
}

// World returns the world the batch belongs to.
func (it *Iter) World() *World {
	return it.world
}

// Field returns the component column of one term as a typed slice, indexed
// by the zero based position of the term in the system's filter expression.
// Writes through the slice go straight into engine storage. The slice is
// only valid for the duration of the callback.
func Field[T any](it *Iter, index int) []T {
	size := it.raw.Sizes[index]
	if size == 0 {
		panic(fmt.Sprintf("field %d carries no component data", index))
	}

	t := reflect.TypeFor[T]()
	assert.IsNonPointerType(t)
	assert.SizeOf(t, size)

	return unsafe.Slice((*T)(it.raw.Columns[index]), it.Count())
}

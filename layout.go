package flecs

import (
	"fmt"
	"reflect"

	"github.com/BlackPhoenix134/flecs-go/native"
)

// componentLayoutOf builds the native descriptor for a component type.
// Anything the engine cannot store verbatim is rejected here, before the
// engine ever sees the descriptor.
func componentLayoutOf(t reflect.Type) (native.ComponentDesc, error) {
	name := t.Name()
	if name == "" {
		return native.ComponentDesc{}, fmt.Errorf("component type %s has no name: %w", t, ErrInvalidParameter)
	}

	if t.Size() == 0 {
		return native.ComponentDesc{}, fmt.Errorf("component type %s has size zero: %w", t, ErrUnstableLayout)
	}

	if typeHasIndirection(t) {
		return native.ComponentDesc{}, fmt.Errorf("component type %s contains pointers: %w", t, ErrUnstableLayout)
	}

	return native.ComponentDesc{
		Name:      name,
		Size:      t.Size(),
		Alignment: uintptr(t.Align()),
	}, nil
}

// typeHasIndirection reports whether a value of the type contains pointers
// the garbage collector tracks, e.g. a field of pointer, string, slice or
// map type. Such values must not live in engine owned memory.
func typeHasIndirection(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.String, reflect.Slice,
		reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return true

	case reflect.Array:
		return typeHasIndirection(t.Elem())

	case reflect.Struct:
		for idx := range t.NumField() {
			if typeHasIndirection(t.Field(idx).Type) {
				return true
			}
		}
	}

	return false
}

// typeHasPadding reports whether the in-memory size of the type exceeds the
// bytes its fields define.
func typeHasPadding(t reflect.Type) bool {
	return definedBytesOf(t) != t.Size()
}

func definedBytesOf(t reflect.Type) uintptr {
	switch t.Kind() {
	case reflect.Struct:
		var sum uintptr
		for idx := range t.NumField() {
			sum += definedBytesOf(t.Field(idx).Type)
		}
		return sum

	case reflect.Array:
		return uintptr(t.Len()) * definedBytesOf(t.Elem())

	default:
		return t.Size()
	}
}

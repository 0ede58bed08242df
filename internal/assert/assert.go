package assert

import (
	"fmt"
	"reflect"
)

func PowerOfTwo(n uintptr) {
	if n == 0 || n&(n-1) != 0 {
		panic(fmt.Sprintf("expected a power of two, got %d", n))
	}
}

func SizeOf(t reflect.Type, size uintptr) {
	if t.Size() != size {
		panic(fmt.Sprintf("expected %s to have size %d, got %d", t, size, t.Size()))
	}
}

func IsNonPointerType(t reflect.Type) {
	if t.Kind() == reflect.Pointer {
		panic(fmt.Sprintf("expected non pointer type, got %s", t))
	}
}

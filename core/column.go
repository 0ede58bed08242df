package core

import (
	"unsafe"

	"github.com/BlackPhoenix134/flecs-go/internal/assert"
)

// column is the dense storage for one component within an archetype. It holds
// raw bytes only; the engine contract requires pointer-free layouts, so the
// garbage collector never needs to scan a column.
type column struct {
	size  uintptr
	align uintptr
	len   int
	cap   int

	// buf keeps the allocation alive, base is the aligned start within it.
	buf  []byte
	base unsafe.Pointer
}

func newColumn(size, align uintptr, capacity int) column {
	assert.PowerOfTwo(align)

	c := column{size: size, align: align}
	c.grow(capacity)
	return c
}

// ptr returns the address of the given row. The pointer stays valid until the
// column grows or a row is removed.
func (c *column) ptr(row int) unsafe.Pointer {
	if row < 0 || row >= c.len {
		panic("column row out of range")
	}

	return unsafe.Add(c.base, uintptr(row)*c.size)
}

// push appends one row. A nil src leaves the row zeroed.
func (c *column) push(src unsafe.Pointer) int {
	if c.len == c.cap {
		c.grow(max(c.cap*2, 8))
	}

	row := c.len
	c.len += 1

	dst := unsafe.Add(c.base, uintptr(row)*c.size)
	if src != nil {
		memCopy(dst, src, c.size)
	} else {
		clearBytes(dst, c.size)
	}

	return row
}

// set overwrites an existing row.
func (c *column) set(row int, src unsafe.Pointer) {
	memCopy(c.ptr(row), src, c.size)
}

// swapRemove removes a row by moving the last row into its place. It reports
// whether a row was moved.
func (c *column) swapRemove(row int) bool {
	last := c.len - 1
	moved := row != last

	if moved {
		memCopy(c.ptr(row), c.ptr(last), c.size)
	}

	c.len = last
	return moved
}

func (c *column) grow(capacity int) {
	if capacity <= c.cap {
		return
	}

	buf := make([]byte, uintptr(capacity)*c.size+c.align)
	base := alignPointer(unsafe.Pointer(unsafe.SliceData(buf)), c.align)

	if c.len > 0 {
		memCopy(base, c.base, uintptr(c.len)*c.size)
	}

	c.buf = buf
	c.base = base
	c.cap = capacity
}

// alignPointer rounds p up to the next multiple of align.
func alignPointer(p unsafe.Pointer, align uintptr) unsafe.Pointer {
	offset := (align - uintptr(p)%align) % align
	return unsafe.Add(p, offset)
}

func memCopy(dst, src unsafe.Pointer, size uintptr) {
	if size == 0 {
		return
	}

	copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
}

func clearBytes(dst unsafe.Pointer, size uintptr) {
	if size == 0 {
		return
	}

	clear(unsafe.Slice((*byte)(dst), size))
}

/*
Package arena provides fixed-capacity allocators over caller-sized byte buffers.

An Arena is a bump allocator: allocations are monotonic and are reclaimed all at
once with Reset. A Stack additionally supports releasing the most recent
allocation, which makes it suitable for scratch memory in recursive algorithms
where each level frees what it allocated before returning.

Neither type grows. Running out of capacity is reported as ErrExhausted, never
as a nil slice. Neither type is safe for concurrent use.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package arena

import (
	"errors"
	"unsafe"

	"github.com/npillmayer/otengine/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otengine.fonts'
func tracer() tracing.Trace {
	return tracing.Select("otengine.fonts")
}

// Errors returned by allocators. They are wrapped with a core error code, so
// errors.Is and core.Code both apply.
var (
	ErrExhausted   = errors.New("allocator capacity exhausted")
	ErrNotTop      = errors.New("free of an allocation which is not the most recent one")
	ErrInvalidSize = errors.New("invalid allocation size or alignment")
)

// DefaultAlignment is used whenever an alignment of 0 is requested.
const DefaultAlignment = 8

// Arena is a bump allocator over a fixed byte buffer.
type Arena struct {
	buf   []byte
	pos   int // offset of first free byte
	align int
}

// New creates an arena with capacity size bytes. align is the default alignment
// for allocations and must be a power of two; 0 selects DefaultAlignment.
func New(size int, align int) *Arena {
	if size < 0 {
		size = 0
	}
	if align <= 0 || !isPowerOfTwo(align) {
		align = DefaultAlignment
	}
	return &Arena{buf: make([]byte, size), align: align}
}

// Alloc returns a zeroed slice of size bytes, aligned to align bytes
// (0 = the arena's default alignment).
// If the remaining capacity is insufficient, ErrExhausted is returned and the
// arena remains unchanged.
func (a *Arena) Alloc(size, align int) ([]byte, error) {
	if size < 0 || align < 0 || (align > 0 && !isPowerOfTwo(align)) {
		return nil, core.WrapError(ErrInvalidSize, core.EINVALID, "arena alloc(%d, %d)", size, align)
	}
	if align == 0 {
		align = a.align
	}
	start := alignedOffset(a.buf, a.pos, align)
	if start+size > len(a.buf) {
		tracer().Debugf("arena exhausted: requested %d bytes, %d of %d in use", size, a.pos, len(a.buf))
		return nil, core.WrapError(ErrExhausted, core.ENOMEM,
			"arena cannot allocate %d bytes (%d of %d in use)", size, a.pos, len(a.buf))
	}
	a.pos = start + size
	b := a.buf[start:a.pos:a.pos]
	clear(b)
	return b, nil
}

// Reset reclaims all allocations at once. Memory is not released, and slices
// handed out before must not be used any longer.
func (a *Arena) Reset() {
	a.pos = 0
}

// Used returns the number of bytes in use, including alignment padding.
func (a *Arena) Used() int {
	return a.pos
}

// Cap returns the arena's fixed capacity in bytes.
func (a *Arena) Cap() int {
	return len(a.buf)
}

// Slice allocates a zeroed slice of n elements of type T from arena a.
// T must not contain pointers: the arena's memory is invisible to the garbage
// collector as far as pointers are concerned.
func Slice[T any](a *Arena, n int) ([]T, error) {
	if n < 0 {
		return nil, core.WrapError(ErrInvalidSize, core.EINVALID, "arena slice of length %d", n)
	}
	if n == 0 {
		return []T{}, nil
	}
	var zero T
	size, align := int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero))
	b, err := a.Alloc(n*size, align)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil
}

// --- Helpers ---------------------------------------------------------------

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// alignedOffset returns the smallest offset ≥ pos for which the address of
// buf[offset] is a multiple of align.
func alignedOffset(buf []byte, pos int, align int) int {
	if len(buf) == 0 {
		return pos
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	addr := base + uintptr(pos)
	mask := uintptr(align - 1)
	return pos + int((align-int(addr&mask))&int(mask))
}

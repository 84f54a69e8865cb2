package arena

import (
	"encoding/binary"
	"unsafe"

	"github.com/npillmayer/otengine/core"
)

// stackHeaderSize is the size of the header preceding each stack allocation.
// The header stores the allocator state from before the allocation:
//
//	uint32  previous top (bytes in use)
//	uint32  offset of the previous allocation (or 0xffffffff)
const stackHeaderSize = 8

const noAllocation = 0xffffffff

// Stack is a LIFO allocator over a fixed byte buffer. In addition to Reset it
// supports Free, which releases the most recent live allocation only.
type Stack struct {
	buf  []byte
	top  int // offset of first free byte
	last int // offset of the most recent allocation, -1 if none
}

// NewStack creates a stack allocator with a capacity of size bytes. Every
// allocation additionally consumes a small header plus alignment padding.
func NewStack(size int) *Stack {
	if size < 0 {
		size = 0
	}
	return &Stack{buf: make([]byte, size), last: -1}
}

// Alloc returns a zeroed slice of size bytes, aligned to align bytes
// (0 = DefaultAlignment). size must be > 0.
func (s *Stack) Alloc(size, align int) ([]byte, error) {
	if size <= 0 || align < 0 || (align > 0 && !isPowerOfTwo(align)) {
		return nil, core.WrapError(ErrInvalidSize, core.EINVALID, "stack alloc(%d, %d)", size, align)
	}
	if align == 0 {
		align = DefaultAlignment
	}
	start := alignedOffset(s.buf, s.top+stackHeaderSize, align)
	if start+size > len(s.buf) {
		return nil, core.WrapError(ErrExhausted, core.ENOMEM,
			"stack cannot allocate %d bytes (%d of %d in use)", size, s.top, len(s.buf))
	}
	h := s.buf[start-stackHeaderSize : start]
	binary.LittleEndian.PutUint32(h[0:4], uint32(s.top))
	prev := uint32(noAllocation)
	if s.last >= 0 {
		prev = uint32(s.last)
	}
	binary.LittleEndian.PutUint32(h[4:8], prev)
	s.top = start + size
	s.last = start
	b := s.buf[start:s.top:s.top]
	clear(b)
	return b, nil
}

// Free releases allocation b, which has to be the most recent live allocation
// of s. Otherwise ErrNotTop is returned and s remains unchanged.
func (s *Stack) Free(b []byte) error {
	if s.last < 0 || len(b) == 0 {
		return core.WrapError(ErrNotTop, core.EINVALID, "stack free without live allocation")
	}
	off := s.offsetOf(b)
	if off != s.last {
		return core.WrapError(ErrNotTop, core.EINVALID,
			"stack free at offset %d, most recent allocation is at %d", off, s.last)
	}
	h := s.buf[s.last-stackHeaderSize : s.last]
	s.top = int(binary.LittleEndian.Uint32(h[0:4]))
	if prev := binary.LittleEndian.Uint32(h[4:8]); prev == noAllocation {
		s.last = -1
	} else {
		s.last = int(prev)
	}
	return nil
}

// Reset releases all allocations at once.
func (s *Stack) Reset() {
	s.top = 0
	s.last = -1
}

// Used returns the number of bytes in use, including headers and padding.
func (s *Stack) Used() int {
	return s.top
}

// Cap returns the fixed capacity of s.
func (s *Stack) Cap() int {
	return len(s.buf)
}

// offsetOf returns the offset of b's first byte within s.buf, or -1 if b
// does not point into s.buf.
func (s *Stack) offsetOf(b []byte) int {
	if len(s.buf) == 0 {
		return -1
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(s.buf)))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if p < base || p >= base+uintptr(len(s.buf)) {
		return -1
	}
	return int(p - base)
}

// StackSlice allocates a zeroed slice of n elements of type T from stack
// allocator s. The same pointer restriction as for Slice applies. Release it
// with FreeSlice.
func StackSlice[T any](s *Stack, n int) ([]T, error) {
	var zero T
	size, align := int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero))
	b, err := s.Alloc(n*size, align)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil
}

// FreeSlice releases a slice allocated with StackSlice.
func FreeSlice[T any](s *Stack, t []T) error {
	if len(t) == 0 {
		return core.WrapError(ErrNotTop, core.EINVALID, "stack free of empty slice")
	}
	var zero T
	b := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(t))), len(t)*int(unsafe.Sizeof(zero)))
	return s.Free(b)
}

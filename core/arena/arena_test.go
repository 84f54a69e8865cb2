package arena

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/npillmayer/otengine/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocAligned(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	a := New(256, 0)
	b1, err := a.Alloc(3, 1)
	require.NoError(t, err)
	assert.Len(t, b1, 3)
	b2, err := a.Alloc(16, 16)
	require.NoError(t, err)
	addr := uintptr(unsafe.Pointer(&b2[0]))
	assert.Zero(t, addr%16, "allocation should be 16-byte aligned")
	assert.GreaterOrEqual(t, a.Used(), 19)
	assert.Equal(t, 256, a.Cap())
}

func TestArenaExhaustion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	a := New(32, 1)
	_, err := a.Alloc(24, 1)
	require.NoError(t, err)
	used := a.Used()
	_, err = a.Alloc(16, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.Equal(t, core.ENOMEM, core.Code(err))
	assert.Equal(t, used, a.Used(), "failed allocation must not change the arena")
}

func TestArenaReset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	a := New(16, 1)
	b, err := a.Alloc(16, 1)
	require.NoError(t, err)
	b[0] = 0xff
	a.Reset()
	assert.Zero(t, a.Used())
	b, err = a.Alloc(16, 1)
	require.NoError(t, err)
	assert.Zero(t, b[0], "memory must be zeroed on re-allocation")
}

func TestArenaInvalidAlignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	a := New(16, 1)
	_, err := a.Alloc(4, 3)
	assert.True(t, errors.Is(err, ErrInvalidSize))
}

func TestArenaSlice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	a := New(64, 0)
	s, err := Slice[uint16](a, 8)
	require.NoError(t, err)
	require.Len(t, s, 8)
	for i := range s {
		s[i] = uint16(i * 3)
	}
	assert.Equal(t, uint16(21), s[7])
	_, err = Slice[uint32](a, 100)
	assert.True(t, errors.Is(err, ErrExhausted))
	empty, err := Slice[uint16](a, 0)
	assert.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStackFreeLIFO(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	s := NewStack(256)
	b1, err := s.Alloc(10, 0)
	require.NoError(t, err)
	afterFirst := s.Used()
	b2, err := s.Alloc(20, 0)
	require.NoError(t, err)
	// freeing the older allocation first is refused
	err = s.Free(b1)
	assert.True(t, errors.Is(err, ErrNotTop))
	require.NoError(t, s.Free(b2))
	assert.Equal(t, afterFirst, s.Used())
	require.NoError(t, s.Free(b1))
	assert.Zero(t, s.Used())
	// nothing left to free
	assert.Error(t, s.Free(b1))
}

func TestStackExhaustionAndReset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	s := NewStack(64)
	_, err := s.Alloc(40, 0)
	require.NoError(t, err)
	_, err = s.Alloc(40, 0)
	assert.True(t, errors.Is(err, ErrExhausted))
	s.Reset()
	assert.Zero(t, s.Used())
	_, err = s.Alloc(40, 0)
	assert.NoError(t, err)
}

func TestStackSlice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	s := NewStack(128)
	outer, err := StackSlice[uint16](s, 4)
	require.NoError(t, err)
	inner, err := StackSlice[uint16](s, 4)
	require.NoError(t, err)
	inner[0], outer[0] = 7, 9
	assert.Error(t, FreeSlice(s, outer))
	assert.NoError(t, FreeSlice(s, inner))
	assert.NoError(t, FreeSlice(s, outer))
	assert.Zero(t, s.Used())
}

package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserReads(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	b := bin{0x7f}.u16(0xfffe).u32(0x01020304).u32(0, 42)
	p := NewParser(b)
	u8, err := p.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7f), u8)
	i16, err := p.ReadI16()
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)
	u32, err := p.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), u32)
	u64, err := p.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), u64)
	assert.Equal(t, len(b), p.Offset())
	_, err = p.ReadU8()
	assert.True(t, errors.Is(err, ErrInvalidFormat), "read beyond end must fail")
}

func TestParserPushPop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	// outer structure: 2 bytes offset to inner structure, inner structure
	// again has an offset to a value
	b := bin{}.u16(4, 0xaaaa).u16(4, 0xbbbb).u16(0x1234)
	p := NewParser(b)
	off, _ := p.ReadU16()
	require.NoError(t, p.PushState(int(off)))
	assert.Equal(t, 1, p.Depth())
	assert.Equal(t, 4, p.Base())
	inner, _ := p.ReadU16()
	require.NoError(t, p.PushState(int(inner)))
	v, err := p.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v)
	p.PopState()
	assert.Equal(t, 2, p.Offset(), "pop has to restore offset within inner structure")
	p.PopState()
	assert.Zero(t, p.Depth())
	v, _ = p.ReadU16()
	assert.Equal(t, uint16(0xaaaa), v)
}

func TestParserBulkReads(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	p := NewParser(bin{}.u16(3, 5, 7, 11))
	gg := make([]GlyphIndex, 4)
	require.NoError(t, p.ReadGlyphs(gg, 4))
	assert.Equal(t, []GlyphIndex{3, 5, 7, 11}, gg)
	require.NoError(t, p.Seek(2))
	uu := make([]uint16, 2)
	require.NoError(t, p.ReadU16s(uu, 2))
	assert.Equal(t, []uint16{5, 7}, uu)
	assert.Error(t, p.ReadU16s(uu, 2))
	assert.NoError(t, p.ReadU16s(nil, 0))
}

func TestParserBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	p := NewParser(make([]byte, 8))
	assert.Error(t, p.PushState(9))
	assert.Error(t, p.Seek(-1))
	for i := 0; i < MaxParserDepth; i++ {
		require.NoError(t, p.PushState(0))
	}
	err := p.PushState(0)
	assert.True(t, errors.Is(err, ErrInvalidFormat), "nesting beyond maximum depth must fail")
	for i := 0; i < MaxParserDepth; i++ {
		p.PopState()
	}
	assert.Zero(t, p.Depth())
	p.PopState() // unbalanced pop is traced, not fatal
	assert.Zero(t, p.Depth())
}

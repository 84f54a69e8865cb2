package ot

import (
	"encoding/binary"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/otengine/core"
)

// Reading bytes from a font's binary representation

// MaxParserDepth is the maximum nesting depth of PushState calls.
// OpenType layout structures nest at most 8 levels deep (table, list, lookup,
// extension, subtable, set, rule, coverage); the limit leaves room for that
// with a generous margin.
const MaxParserDepth = 32

// parserState is a saved position of a Parser.
type parserState struct {
	base   int // absolute offset of the structure entered
	offset int // offset relative to base
}

// Parser is a cursor over big-endian font data. Reads advance the cursor.
// Positions are always relative to the structure most recently entered with
// PushState; the initial structure starts at byte 0.
//
// Parser keeps a stack of saved positions, owned by the parser. Pushes and pops
// must nest.
//
// A Parser is not safe for concurrent use, but any number of parsers may read
// the same byte slice.
type Parser struct {
	data   []byte
	base   int
	offset int
	stack  *arraystack.Stack
}

// NewParser creates a cursor positioned at the start of b.
func NewParser(b []byte) *Parser {
	return &Parser{data: b, stack: arraystack.New()}
}

// Offset returns the cursor position relative to the current structure.
func (p *Parser) Offset() int {
	return p.offset
}

// Base returns the absolute position of the current structure within the data.
func (p *Parser) Base() int {
	return p.base
}

// Depth returns the number of currently saved states.
func (p *Parser) Depth() int {
	return p.stack.Size()
}

// Len returns the number of bytes from the start of the current structure
// to the end of data.
func (p *Parser) Len() int {
	return len(p.data) - p.base
}

// Seek positions the cursor at offset off, relative to the current structure.
func (p *Parser) Seek(off int) error {
	if off < 0 || p.base+off > len(p.data) {
		return errBounds(p.base+off, 0, len(p.data))
	}
	p.offset = off
	return nil
}

// Skip advances the cursor by n bytes.
func (p *Parser) Skip(n int) error {
	return p.Seek(p.offset + n)
}

// PushState saves the current position and enters a sub-structure at offset
// jump, relative to the current structure. The cursor is then positioned at
// offset 0 of the sub-structure.
func (p *Parser) PushState(jump int) error {
	if p.stack.Size() >= MaxParserDepth {
		return errKind(ErrInvalidFormat, "font structures nested deeper than %d levels", MaxParserDepth)
	}
	if jump < 0 || p.base+jump > len(p.data) {
		return errBounds(p.base+jump, 0, len(p.data))
	}
	p.stack.Push(parserState{base: p.base, offset: p.offset})
	p.base += jump
	p.offset = 0
	return nil
}

// PopState restores the position saved by the matching PushState.
func (p *Parser) PopState() {
	s, ok := p.stack.Pop()
	if !ok {
		tracer().Errorf("parser: pop without matching push")
		return
	}
	st := s.(parserState)
	p.base, p.offset = st.base, st.offset
}

// Bytes returns a view of n bytes at the cursor and advances the cursor.
// The slice returned is a sub-slice of the parser's data.
func (p *Parser) Bytes(n int) ([]byte, error) {
	pos := p.base + p.offset
	if n < 0 || pos+n > len(p.data) {
		return nil, errBounds(pos, n, len(p.data))
	}
	p.offset += n
	return p.data[pos : pos+n : pos+n], nil
}

// ReadU8 reads an unsigned byte.
func (p *Parser) ReadU8() (uint8, error) {
	b, err := p.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a 16-bit unsigned integer.
func (p *Parser) ReadU16() (uint16, error) {
	b, err := p.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadI16 reads a 16-bit signed integer.
func (p *Parser) ReadI16() (int16, error) {
	n, err := p.ReadU16()
	return int16(n), err
}

// ReadU32 reads a 32-bit unsigned integer.
func (p *Parser) ReadU32() (uint32, error) {
	b, err := p.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadU64 reads a 64-bit unsigned integer.
func (p *Parser) ReadU64() (uint64, error) {
	b, err := p.Bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadTag reads a 4-byte tag.
func (p *Parser) ReadTag() (Tag, error) {
	n, err := p.ReadU32()
	return Tag(n), err
}

// ReadU16s reads n 16-bit integers into dst, which must have length ≥ n.
// The block is bounds-checked once and converted in a single pass.
func (p *Parser) ReadU16s(dst []uint16, n int) error {
	if n <= 0 {
		return nil
	}
	b, err := p.Bytes(2 * n)
	if err != nil {
		return err
	}
	_ = dst[n-1] // bounds check hint to compiler
	for i := 0; i < n; i++ {
		dst[i] = binary.BigEndian.Uint16(b[2*i:])
	}
	return nil
}

// ReadGlyphs reads n glyph indices into dst, which must have length ≥ n.
func (p *Parser) ReadGlyphs(dst []GlyphIndex, n int) error {
	if n <= 0 {
		return nil
	}
	b, err := p.Bytes(2 * n)
	if err != nil {
		return err
	}
	_ = dst[n-1]
	for i := 0; i < n; i++ {
		dst[i] = GlyphIndex(binary.BigEndian.Uint16(b[2*i:]))
	}
	return nil
}

// errBounds produces a format error for reads beyond the end of data.
func errBounds(pos, n, size int) error {
	return core.WrapError(ErrInvalidFormat, core.EINVALID,
		"read of %d bytes at offset %d exceeds font data of size %d", n, pos, size)
}

// --- Helpers ---------------------------------------------------------------

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

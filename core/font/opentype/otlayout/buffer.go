package otlayout

import (
	"slices"

	"github.com/npillmayer/otengine/core/font/opentype/ot"
)

// GlyphAttribs is a bit set of glyph attributes held by a buffer.
type GlyphAttribs uint8

// Glyph attributes. Each attribute is stored in an array of its own.
const (
	AttrMetrics        GlyphAttribs = 1 << iota // positioning metrics
	AttrIndex                                   // glyph index
	AttrCodepoint                               // source codepoint
	AttrGlyphClass                              // GDEF glyph class
	AttrAttachClass                             // GDEF mark attachment class
	AttrComponentIndex                          // ligature component a glyph belongs to
)

// AttrInfo are the attributes recomputed from the face by ComputeInfo.
const AttrInfo = AttrGlyphClass | AttrAttachClass

// AttrAll is the set of all attributes.
const AttrAll = AttrMetrics | AttrIndex | AttrCodepoint | AttrInfo | AttrComponentIndex

// GlyphMetrics holds the advance and placement offset of a glyph, in font units.
type GlyphMetrics struct {
	XAdvance, YAdvance int32
	XOffset, YOffset   int32
}

// Glyph is a single glyph record. Fields for attributes a buffer does not
// hold are ignored when the glyph is added to it.
type Glyph struct {
	Index          ot.GlyphIndex
	Codepoint      rune
	Class          ot.GlyphClass
	AttachClass    uint16
	ComponentIndex uint16
	Metrics        GlyphMetrics
}

// Buffer is a sequence of glyphs, stored as parallel attribute arrays. Only
// the arrays flagged in Attribs are valid; all of them have length Len().
//
// A buffer is owned by one client at a time. Engine functions taking two
// buffers require them to be distinct.
type Buffer struct {
	Attribs          GlyphAttribs
	Glyphs           []ot.GlyphIndex
	Codepoints       []rune
	Classes          []ot.GlyphClass
	AttachClasses    []uint16
	ComponentIndices []uint16
	Metrics          []GlyphMetrics
	count            int
}

// NewBuffer creates an empty buffer holding attributes attr, with room for
// capacity glyphs.
func NewBuffer(attr GlyphAttribs, capacity int) *Buffer {
	b := &Buffer{Attribs: attr}
	b.Reserve(capacity)
	return b
}

// Len returns the number of glyphs in the buffer.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.count
}

// Has is true if the buffer holds all attributes of attr.
func (b *Buffer) Has(attr GlyphAttribs) bool {
	return b.Attribs&attr == attr
}

// Reserve makes room for n glyphs in every present attribute array.
func (b *Buffer) Reserve(n int) {
	if n <= 0 {
		return
	}
	if b.Has(AttrIndex) {
		b.Glyphs = slices.Grow(b.Glyphs, n)
	}
	if b.Has(AttrCodepoint) {
		b.Codepoints = slices.Grow(b.Codepoints, n)
	}
	if b.Has(AttrGlyphClass) {
		b.Classes = slices.Grow(b.Classes, n)
	}
	if b.Has(AttrAttachClass) {
		b.AttachClasses = slices.Grow(b.AttachClasses, n)
	}
	if b.Has(AttrComponentIndex) {
		b.ComponentIndices = slices.Grow(b.ComponentIndices, n)
	}
	if b.Has(AttrMetrics) {
		b.Metrics = slices.Grow(b.Metrics, n)
	}
}

// Glyph returns the glyph record at position i. Attributes not held by the
// buffer are zero.
func (b *Buffer) Glyph(i int) Glyph {
	var g Glyph
	if b.Has(AttrIndex) {
		g.Index = b.Glyphs[i]
	}
	if b.Has(AttrCodepoint) {
		g.Codepoint = b.Codepoints[i]
	}
	if b.Has(AttrGlyphClass) {
		g.Class = b.Classes[i]
	}
	if b.Has(AttrAttachClass) {
		g.AttachClass = b.AttachClasses[i]
	}
	if b.Has(AttrComponentIndex) {
		g.ComponentIndex = b.ComponentIndices[i]
	}
	if b.Has(AttrMetrics) {
		g.Metrics = b.Metrics[i]
	}
	return g
}

// AddGlyph appends g to every present attribute array.
func (b *Buffer) AddGlyph(g Glyph) {
	if b.Has(AttrIndex) {
		b.Glyphs = append(b.Glyphs, g.Index)
	}
	if b.Has(AttrCodepoint) {
		b.Codepoints = append(b.Codepoints, g.Codepoint)
	}
	if b.Has(AttrGlyphClass) {
		b.Classes = append(b.Classes, g.Class)
	}
	if b.Has(AttrAttachClass) {
		b.AttachClasses = append(b.AttachClasses, g.AttachClass)
	}
	if b.Has(AttrComponentIndex) {
		b.ComponentIndices = append(b.ComponentIndices, g.ComponentIndex)
	}
	if b.Has(AttrMetrics) {
		b.Metrics = append(b.Metrics, g.Metrics)
	}
	b.count++
}

// AddRange appends glyphs lo…hi (inclusive) of other. Other has to hold every
// attribute of b, otherwise nothing is copied and false is returned.
// An empty range (hi < lo) is a no-op.
func (b *Buffer) AddRange(other *Buffer, lo, hi int) bool {
	if hi < lo {
		return true
	}
	if !other.Has(b.Attribs) {
		tracer().Errorf("buffer range copy from buffer lacking attributes %06b", b.Attribs&^other.Attribs)
		return false
	}
	if lo < 0 || hi >= other.count {
		tracer().Errorf("buffer range copy [%d…%d] out of bounds (%d glyphs)", lo, hi, other.count)
		return false
	}
	hi++
	if b.Has(AttrIndex) {
		b.Glyphs = append(b.Glyphs, other.Glyphs[lo:hi]...)
	}
	if b.Has(AttrCodepoint) {
		b.Codepoints = append(b.Codepoints, other.Codepoints[lo:hi]...)
	}
	if b.Has(AttrGlyphClass) {
		b.Classes = append(b.Classes, other.Classes[lo:hi]...)
	}
	if b.Has(AttrAttachClass) {
		b.AttachClasses = append(b.AttachClasses, other.AttachClasses[lo:hi]...)
	}
	if b.Has(AttrComponentIndex) {
		b.ComponentIndices = append(b.ComponentIndices, other.ComponentIndices[lo:hi]...)
	}
	if b.Has(AttrMetrics) {
		b.Metrics = append(b.Metrics, other.Metrics[lo:hi]...)
	}
	b.count += hi - lo
	return true
}

// AddOther appends all glyphs of other.
func (b *Buffer) AddOther(other *Buffer) bool {
	return b.AddRange(other, 0, other.Len()-1)
}

// ClearAttribs drops attributes attrs from the buffer. If no attribute is
// left, the buffer is empty afterwards.
func (b *Buffer) ClearAttribs(attrs GlyphAttribs) {
	b.truncate(attrs)
	b.Attribs &^= attrs
	if b.Attribs == 0 {
		b.count = 0
	}
}

// Clear removes all glyphs from the buffer. The attribute set is kept.
func (b *Buffer) Clear() {
	b.truncate(AttrAll)
	b.count = 0
}

func (b *Buffer) truncate(attrs GlyphAttribs) {
	if attrs&AttrIndex != 0 {
		b.Glyphs = b.Glyphs[:0]
	}
	if attrs&AttrCodepoint != 0 {
		b.Codepoints = b.Codepoints[:0]
	}
	if attrs&AttrGlyphClass != 0 {
		b.Classes = b.Classes[:0]
	}
	if attrs&AttrAttachClass != 0 {
		b.AttachClasses = b.AttachClasses[:0]
	}
	if attrs&AttrComponentIndex != 0 {
		b.ComponentIndices = b.ComponentIndices[:0]
	}
	if attrs&AttrMetrics != 0 {
		b.Metrics = b.Metrics[:0]
	}
}

// ContainsRange is true if lo…hi is a non-empty range of valid positions.
func (b *Buffer) ContainsRange(lo, hi int) bool {
	return lo >= 0 && lo <= hi && hi < b.Len()
}

// CopyRange creates a new buffer with the attributes of b, holding glyphs
// lo…hi. Returns nil if the range is not contained in b.
func (b *Buffer) CopyRange(lo, hi int) *Buffer {
	if !b.ContainsRange(lo, hi) {
		return nil
	}
	c := NewBuffer(b.Attribs, hi-lo+1)
	c.AddRange(b, lo, hi)
	return c
}

// ComputeInfo sets glyph class and mark attachment class of every glyph from
// face. Attachment classes are set for marks only. Requires AttrIndex.
func (b *Buffer) ComputeInfo(face Face) {
	if !b.Has(AttrIndex) || b.count == 0 {
		return
	}
	b.Classes = slices.Grow(b.Classes[:0], b.count)[:b.count]
	b.AttachClasses = slices.Grow(b.AttachClasses[:0], b.count)[:b.count]
	for i, g := range b.Glyphs[:b.count] {
		b.Classes[i] = face.GlyphClass(g)
		b.AttachClasses[i] = 0
		if b.Classes[i]&ot.MarkGlyph != 0 {
			b.AttachClasses[i] = face.AttachmentClass(g)
		}
	}
	b.Attribs |= AttrInfo
}

// SetupMetrics initializes the metrics of every glyph with its advance from
// face and zero offsets. Requires AttrIndex.
func (b *Buffer) SetupMetrics(face Face) {
	if !b.Has(AttrIndex) {
		return
	}
	b.Metrics = slices.Grow(b.Metrics[:0], b.count)[:b.count]
	for i, g := range b.Glyphs[:b.count] {
		b.Metrics[i] = GlyphMetrics{XAdvance: face.GlyphAdvance(g)}
	}
	b.Attribs |= AttrMetrics
}

// CorrectMarkMetrics zeroes the advances of mark glyphs. Requires glyph
// classes and metrics.
func (b *Buffer) CorrectMarkMetrics() {
	if !b.Has(AttrGlyphClass | AttrMetrics) {
		return
	}
	for i, c := range b.Classes[:b.count] {
		if c&ot.MarkGlyph != 0 {
			b.Metrics[i].XAdvance = 0
			b.Metrics[i].YAdvance = 0
		}
	}
}

// FlipDirection reverses the order of glyphs, for every present attribute.
// Applying it twice restores the buffer.
func (b *Buffer) FlipDirection() {
	if b.Has(AttrIndex) {
		slices.Reverse(b.Glyphs)
	}
	if b.Has(AttrCodepoint) {
		slices.Reverse(b.Codepoints)
	}
	if b.Has(AttrGlyphClass) {
		slices.Reverse(b.Classes)
	}
	if b.Has(AttrAttachClass) {
		slices.Reverse(b.AttachClasses)
	}
	if b.Has(AttrComponentIndex) {
		slices.Reverse(b.ComponentIndices)
	}
	if b.Has(AttrMetrics) {
		slices.Reverse(b.Metrics)
	}
}

// SwapBuffers moves the glyphs of b2 into b1 and leaves b2 empty.
//
// If both buffers hold the same number of glyphs, only the attributes of b2
// are replaced in b1 and the other attributes of b1 stay valid; b1 then holds
// the union of both attribute sets. Otherwise b1 is cleared and takes over the
// attribute set of b2.
func SwapBuffers(b1, b2 *Buffer) {
	if b1 == b2 {
		panic("otlayout: swapping a buffer with itself")
	}
	if b1.count != b2.count {
		b1.Clear()
		b1.Attribs = 0
	}
	a := b2.Attribs
	b1.Attribs |= a
	if a&AttrIndex != 0 {
		b1.Glyphs, b2.Glyphs = b2.Glyphs, b1.Glyphs[:0]
	}
	if a&AttrCodepoint != 0 {
		b1.Codepoints, b2.Codepoints = b2.Codepoints, b1.Codepoints[:0]
	}
	if a&AttrGlyphClass != 0 {
		b1.Classes, b2.Classes = b2.Classes, b1.Classes[:0]
	}
	if a&AttrAttachClass != 0 {
		b1.AttachClasses, b2.AttachClasses = b2.AttachClasses, b1.AttachClasses[:0]
	}
	if a&AttrComponentIndex != 0 {
		b1.ComponentIndices, b2.ComponentIndices = b2.ComponentIndices, b1.ComponentIndices[:0]
	}
	if a&AttrMetrics != 0 {
		b1.Metrics, b2.Metrics = b2.Metrics, b1.Metrics[:0]
	}
	b1.count = b2.count
	b2.Clear()
}

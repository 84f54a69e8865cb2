package otlayout

import (
	"github.com/npillmayer/otengine/core/font/opentype/ot"
)

// testFace is a face with explicit glyph classes. Glyphs not mentioned are
// base glyphs with an advance of 500.
type testFace struct {
	classes map[ot.GlyphIndex]ot.GlyphClass
	attach  map[ot.GlyphIndex]uint16
}

func (f testFace) NumGlyphs() int { return 1000 }

func (f testFace) GlyphClass(g ot.GlyphIndex) ot.GlyphClass {
	if c, ok := f.classes[g]; ok {
		return c
	}
	return ot.BaseGlyph
}

func (f testFace) AttachmentClass(g ot.GlyphIndex) uint16 {
	return f.attach[g]
}

func (f testFace) GlyphAdvance(g ot.GlyphIndex) int32 {
	if f.GlyphClass(g) == ot.MarkGlyph {
		return 0
	}
	return 500
}

// marks is a face with glyphs 50…59 being marks and 100…109 ligatures.
func marks() testFace {
	f := testFace{classes: map[ot.GlyphIndex]ot.GlyphClass{}, attach: map[ot.GlyphIndex]uint16{}}
	for g := ot.GlyphIndex(50); g < 60; g++ {
		f.classes[g] = ot.MarkGlyph
	}
	for g := ot.GlyphIndex(100); g < 110; g++ {
		f.classes[g] = ot.LigatureGlyph
	}
	return f
}

const gsubAttrs = AttrIndex | AttrCodepoint | AttrComponentIndex

var testFeature = ot.T("test")

func glyphBuffer(glyphs ...ot.GlyphIndex) *Buffer {
	b := NewBuffer(gsubAttrs, len(glyphs))
	for _, g := range glyphs {
		b.AddGlyph(Glyph{Index: g, Codepoint: 'a' + rune(g)})
	}
	return b
}

func glyphIDs(b *Buffer) []ot.GlyphIndex {
	return append([]ot.GlyphIndex{}, b.Glyphs[:b.Len()]...)
}

func gsubEngine(face Face, cfg Config, lookups ...*ot.LookupTable) *Engine {
	return NewEngine(face, &ot.LayoutTable{Lookups: lookups}, nil, cfg)
}

func gposEngine(face Face, lookups ...*ot.LookupTable) *Engine {
	return NewEngine(face, nil, &ot.LayoutTable{Lookups: lookups}, Config{})
}

func lookup(typ ot.LayoutTableLookupType, flag ot.LayoutTableLookupFlag, subs ...ot.LookupSubtable) *ot.LookupTable {
	return &ot.LookupTable{Type: typ, Flag: flag, MarkFilteringSet: -1, Subtables: subs}
}

// substitute applies GSUB lookup number inx to all of in.
func substitute(e *Engine, in *Buffer, inx int) *Buffer {
	out := NewBuffer(gsubAttrs, in.Len())
	e.ApplyGSubLookup(testFeature, inx, in, out, 0, in.Len()-1)
	return out
}

// position applies GPOS lookup number inx to all of in and merges the
// resulting metrics into in.
func position(e *Engine, in *Buffer, inx int) {
	out := NewBuffer(AttrMetrics, in.Len())
	e.ApplyGPosLookup(testFeature, inx, in, out, 0, in.Len()-1)
	SwapBuffers(in, out)
}

func cov(glyphs ...ot.GlyphIndex) *ot.Coverage {
	return ot.NewCoverage(glyphs...)
}

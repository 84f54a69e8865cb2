package ot

// A Font serves as the face collaborator of the layout engine. The methods in
// this file answer per-glyph questions from tables maxp, hmtx and GDEF.

// NumGlyphs returns the number of glyphs in the font, as stated in table 'maxp'.
func (otf *Font) NumGlyphs() int {
	return otf.numGlyphs
}

// GlyphClass returns the GDEF glyph class of g. For fonts without a GDEF
// table, or glyphs without a class assigned, BaseGlyph is returned.
func (otf *Font) GlyphClass(g GlyphIndex) GlyphClass {
	return otf.Layout.GDef.GlyphClass(g)
}

// AttachmentClass returns the GDEF mark attachment class of g, or 0.
func (otf *Font) AttachmentClass(g GlyphIndex) uint16 {
	return otf.Layout.GDef.AttachmentClass(g)
}

// GlyphAdvance returns the horizontal advance of g in font units, or 0 if
// the font has no horizontal metrics.
func (otf *Font) GlyphAdvance(g GlyphIndex) int32 {
	if otf.hmtx == nil {
		return 0
	}
	adv, _ := otf.hmtx.HMetrics(g)
	return int32(adv)
}

// MarkFilteringSet returns GDEF mark glyph set number i, or nil.
func (otf *Font) MarkFilteringSet(i int) *Coverage {
	gdef := otf.Layout.GDef
	if gdef == nil || i < 0 || i >= len(gdef.MarkGlyphSets) {
		return nil
	}
	return gdef.MarkGlyphSets[i]
}

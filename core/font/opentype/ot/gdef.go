package ot

import (
	"github.com/npillmayer/otengine/core"
	"github.com/npillmayer/otengine/core/arena"
)

// --- GDEF table ------------------------------------------------------------

// ParseGDef parses the bytes of a GDEF table.
//
// The GDEF table begins with a header that starts with a version number. Three
// versions are defined. Version 1.0 contains an offset to a Glyph Class Definition
// table (GlyphClassDef), an offset to an Attachment List table (AttachList), an offset
// to a Ligature Caret List table (LigCaretList), and an offset to a Mark Attachment
// Class Definition table (MarkAttachClassDef). Version 1.2 also includes an offset to
// a Mark Glyph Sets Definition table (MarkGlyphSetsDef). Version 1.3 also includes an
// offset to an Item Variation Store table.
//
// We currently do not interpret the attachment list, the ligature caret list and
// the item variation store.
func ParseGDef(b []byte, opts ParseOptions) (*GDefTable, error) {
	gdef := &GDefTable{}
	p := NewParser(b)
	a := arena.New(opts.arenaSizeFor(len(b)), 0)
	var err error
	if gdef.major, err = p.ReadU16(); err != nil {
		return nil, wrapTableError(T("GDEF"), err)
	}
	if gdef.minor, err = p.ReadU16(); err != nil {
		return nil, wrapTableError(T("GDEF"), err)
	}
	if gdef.major != 1 || gdef.minor > 3 || gdef.minor == 1 {
		return nil, errKind(ErrInvalidVersion, "GDEF version %d.%d", gdef.major, gdef.minor)
	}
	hdr := make([]uint16, 5)
	n := 4
	if gdef.minor >= 2 {
		n = 5
	}
	if err = p.ReadU16s(hdr, n); err != nil {
		return nil, wrapTableError(T("GDEF"), err)
	}
	err = parseGDefClassDef(p, a, hdr[0], &gdef.GlyphClassDef, err)
	err = parseGDefClassDef(p, a, hdr[3], &gdef.MarkAttachmentClassDef, err)
	err = parseMarkGlyphSets(gdef, p, a, hdr[4], err)
	if err != nil {
		tracer().Errorf("error parsing GDEF table: %v", err)
		return nil, wrapTableError(T("GDEF"), err)
	}
	tracer().Debugf("GDEF table has version %d.%d", gdef.major, gdef.minor)
	return gdef, nil
}

// Both GlyphClassDef and MarkAttachClassDef use the same format as the Class
// Definition table (defined in the OpenType Layout Common Table Formats chapter).
func parseGDefClassDef(p *Parser, a *arena.Arena, off uint16, cd **ClassDef, err error) error {
	if err != nil || off == 0 {
		return err
	}
	if err = p.PushState(int(off)); err != nil {
		return err
	}
	defer p.PopState()
	*cd, err = parseClassDef(p, a)
	return err
}

// Mark glyph sets are defined in a MarkGlyphSets table, which contains offsets to
// individual sets each represented by a standard Coverage table.
//
//	uint16    format  1
//	uint16    markGlyphSetCount
//	Offset32  coverageOffsets[markGlyphSetCount]
func parseMarkGlyphSets(gdef *GDefTable, p *Parser, a *arena.Arena, off uint16, err error) error {
	if err != nil || off == 0 {
		return err
	}
	if err = p.PushState(int(off)); err != nil {
		return err
	}
	defer p.PopState()
	format, err := p.ReadU16()
	if err != nil {
		return err
	}
	if format != 1 {
		return errKind(ErrInvalidFormat, "GDEF mark glyph sets format %d", format)
	}
	count, err := p.ReadU16()
	if err != nil {
		return err
	}
	gdef.MarkGlyphSets = make([]*Coverage, count)
	for i := range gdef.MarkGlyphSets {
		covOffset, err := p.ReadU32()
		if err != nil {
			return err
		}
		if err = p.PushState(int(covOffset)); err != nil {
			return err
		}
		gdef.MarkGlyphSets[i], err = parseCoverage(p, a)
		p.PopState()
		if err != nil {
			return core.WrapError(err, core.Code(err), "GDEF mark glyph set #%d", i)
		}
	}
	return nil
}

// GlyphClass returns the glyph class of g. Glyphs without a class are
// treated as base glyphs.
func (t *GDefTable) GlyphClass(g GlyphIndex) GlyphClass {
	if t == nil {
		return BaseGlyph
	}
	return GlyphClassFromGDef(t.GlyphClassDef.Lookup(g))
}

// AttachmentClass returns the mark attachment class of g, or 0.
func (t *GDefTable) AttachmentClass(g GlyphIndex) uint16 {
	if t == nil {
		return 0
	}
	return t.MarkAttachmentClassDef.Lookup(g)
}

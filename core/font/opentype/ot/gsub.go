package ot

import (
	"strconv"

	"github.com/npillmayer/otengine/core/arena"
)

// GSUB Table Lookup Type
// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub#table-organization

// GSUB Lookup Type Enumeration
const (
	GSubLookupTypeSingle          LayoutTableLookupType = 1 // Replace one glyph with one glyph
	GSubLookupTypeMultiple        LayoutTableLookupType = 2 // Replace one glyph with more than one glyph
	GSubLookupTypeAlternate       LayoutTableLookupType = 3 // Replace one glyph with one of many glyphs
	GSubLookupTypeLigature        LayoutTableLookupType = 4 // Replace multiple glyphs with one glyph
	GSubLookupTypeContext         LayoutTableLookupType = 5 // Replace one or more glyphs in context
	GSubLookupTypeChainingContext LayoutTableLookupType = 6 // Replace one or more glyphs in chained context
	GSubLookupTypeExtensionSubs   LayoutTableLookupType = 7 // Extension mechanism for other substitutions
	GSubLookupTypeReverseChaining LayoutTableLookupType = 8 // Applied in reverse order, replace single glyph in chaining context
)

const gsubLookupTypeNames = "Single|Multiple|Alternate|Ligature|Context|Chaining|Extension|Reverse|"

var gsubLookupTypeInx = [...]int{0, 7, 16, 26, 35, 43, 52, 62, 70}

// GSubString interprets a layout table lookup type as a GSUB table type.
func (lt LayoutTableLookupType) GSubString() string {
	if lt >= GSubLookupTypeSingle && lt <= GSubLookupTypeReverseChaining {
		lt -= 1
		return gsubLookupTypeNames[gsubLookupTypeInx[lt] : gsubLookupTypeInx[lt+1]-1]
	}
	return strconv.Itoa(int(lt))
}

// --- GSUB subtables --------------------------------------------------------

// parseGSubSubtable parses a GSUB subtable of lookup type typ, which is not an
// extension type. The parser is positioned at the start of the subtable.
func (lp *layoutParser) parseGSubSubtable(typ LayoutTableLookupType) (LookupSubtable, error) {
	p := lp.p
	format, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	tracer().Debugf("parsing GSUB subtable type %s, format %d", typ.GSubString(), format)
	switch typ {
	case GSubLookupTypeSingle:
		return lp.parseSingleSubst(format)
	case GSubLookupTypeMultiple, GSubLookupTypeAlternate:
		return lp.parseSequenceSubst(typ, format)
	case GSubLookupTypeLigature:
		return lp.parseLigatureSubst(format)
	case GSubLookupTypeContext:
		return lp.parseSequenceContext(format)
	case GSubLookupTypeChainingContext:
		return lp.parseChainedSequenceContext(format)
	case GSubLookupTypeReverseChaining:
		return lp.parseReverseChainSubst(format)
	}
	return nil, errKind(ErrInvalidLookupType, "GSUB lookup type %d", typ)
}

// LookupType 1: Single Substitution Subtable
//
// Format 1:                          Format 2:
//
//	uint16    substFormat  1            uint16    substFormat  2
//	Offset16  coverageOffset            Offset16  coverageOffset
//	int16     deltaGlyphID              uint16    glyphCount
//	                                    uint16    substituteGlyphIDs[glyphCount]
func (lp *layoutParser) parseSingleSubst(format uint16) (LookupSubtable, error) {
	p := lp.p
	covOffset, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	cov, err := lp.coverageAt(covOffset)
	if err != nil {
		return nil, err
	}
	switch format {
	case 1:
		delta, err := p.ReadI16()
		if err != nil {
			return nil, err
		}
		return &SingleSubstFmt1{subtableFormat: 1, Coverage: cov, Delta: delta}, nil
	case 2:
		gg, err := lp.readGlyphArray()
		if err != nil {
			return nil, err
		}
		if len(gg) < cov.Len() {
			return nil, errKind(ErrUnexpectedValue,
				"single substitution has %d substitutes for %d covered glyphs", len(gg), cov.Len())
		}
		return &SingleSubstFmt2{subtableFormat: 2, Coverage: cov, Substitutes: gg}, nil
	}
	return nil, errKind(ErrInvalidSubtableFormat, "single substitution format %d", format)
}

// LookupType 2: Multiple Substitution Subtable, and
// LookupType 3: Alternate Substitution Subtable.
// Both share the same layout:
//
//	uint16    substFormat  1
//	Offset16  coverageOffset
//	uint16    count
//	Offset16  offsets[count]  to Sequence or AlternateSet tables, i.e. glyph arrays
func (lp *layoutParser) parseSequenceSubst(typ LayoutTableLookupType, format uint16) (LookupSubtable, error) {
	if format != 1 {
		return nil, errKind(ErrInvalidSubtableFormat, "%s substitution format %d", typ.GSubString(), format)
	}
	p := lp.p
	covOffset, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	offsets, err := lp.readOffsets16()
	if err != nil {
		return nil, err
	}
	cov, err := lp.coverageAt(covOffset)
	if err != nil {
		return nil, err
	}
	seqs := make([][]GlyphIndex, len(offsets))
	for i, off := range offsets {
		if err = p.PushState(int(off)); err != nil {
			return nil, err
		}
		seqs[i], err = lp.readGlyphArray()
		p.PopState()
		if err != nil {
			return nil, err
		}
	}
	if typ == GSubLookupTypeMultiple {
		return &MultipleSubst{subtableFormat: 1, Coverage: cov, Sequences: seqs}, nil
	}
	return &AlternateSubst{subtableFormat: 1, Coverage: cov, Alternates: seqs}, nil
}

// LookupType 4: Ligature Substitution Subtable
//
//	uint16    substFormat  1
//	Offset16  coverageOffset
//	uint16    ligatureSetCount
//	Offset16  ligatureSetOffsets[ligatureSetCount]
//
// LigatureSet: uint16 ligatureCount, Offset16 ligatureOffsets[ligatureCount].
// Ligature: uint16 ligatureGlyph, uint16 componentCount,
// uint16 componentGlyphIDs[componentCount - 1].
func (lp *layoutParser) parseLigatureSubst(format uint16) (LookupSubtable, error) {
	if format != 1 {
		return nil, errKind(ErrInvalidSubtableFormat, "ligature substitution format %d", format)
	}
	p := lp.p
	covOffset, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	setOffsets, err := lp.readOffsets16()
	if err != nil {
		return nil, err
	}
	cov, err := lp.coverageAt(covOffset)
	if err != nil {
		return nil, err
	}
	sets := make([][]Ligature, len(setOffsets))
	for i, off := range setOffsets {
		if err = p.PushState(int(off)); err != nil {
			return nil, err
		}
		sets[i], err = lp.parseLigatureSet()
		p.PopState()
		if err != nil {
			return nil, err
		}
	}
	return &LigatureSubst{subtableFormat: 1, Coverage: cov, LigatureSets: sets}, nil
}

func (lp *layoutParser) parseLigatureSet() ([]Ligature, error) {
	p := lp.p
	offsets, err := lp.readOffsets16()
	if err != nil {
		return nil, err
	}
	ligs := make([]Ligature, len(offsets))
	for i, off := range offsets {
		if err = p.PushState(int(off)); err != nil {
			return nil, err
		}
		err = lp.parseLigature(&ligs[i])
		p.PopState()
		if err != nil {
			return nil, err
		}
	}
	return ligs, nil
}

func (lp *layoutParser) parseLigature(lig *Ligature) error {
	p := lp.p
	g, err := p.ReadU16()
	if err != nil {
		return err
	}
	lig.Glyph = GlyphIndex(g)
	count, err := p.ReadU16()
	if err != nil {
		return err
	}
	if count == 0 {
		return errKind(ErrUnexpectedValue, "ligature %d without components", g)
	}
	if lig.Components, err = arena.Slice[GlyphIndex](lp.arena, int(count)-1); err != nil {
		return err
	}
	return p.ReadGlyphs(lig.Components, int(count)-1)
}

// LookupType 8: Reverse Chaining Contextual Single Substitution Subtable
//
//	uint16    substFormat  1
//	Offset16  coverageOffset
//	uint16    backtrackGlyphCount
//	Offset16  backtrackCoverageOffsets[backtrackGlyphCount]
//	uint16    lookaheadGlyphCount
//	Offset16  lookaheadCoverageOffsets[lookaheadGlyphCount]
//	uint16    glyphCount
//	uint16    substituteGlyphIDs[glyphCount]
func (lp *layoutParser) parseReverseChainSubst(format uint16) (LookupSubtable, error) {
	if format != 1 {
		return nil, errKind(ErrInvalidSubtableFormat, "reverse chaining substitution format %d", format)
	}
	p := lp.p
	covOffset, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	sub := &ReverseChainSingleSubst{subtableFormat: 1}
	if sub.Coverage, err = lp.coverageAt(covOffset); err != nil {
		return nil, err
	}
	if sub.Backtrack, err = lp.readCoverages(); err != nil {
		return nil, err
	}
	if sub.Lookahead, err = lp.readCoverages(); err != nil {
		return nil, err
	}
	if sub.Substitutes, err = lp.readGlyphArray(); err != nil {
		return nil, err
	}
	if len(sub.Substitutes) < sub.Coverage.Len() {
		return nil, errKind(ErrUnexpectedValue, "reverse chaining substitution lacks substitutes")
	}
	return sub, nil
}

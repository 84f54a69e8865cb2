package ot

import (
	"sort"
	"strconv"

	"github.com/npillmayer/otengine/core/arena"
)

// GPOS Table
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#table-organization

// GPOS Lookup Type Enumeration
const (
	GPosLookupTypeSingle            LayoutTableLookupType = 1 // Adjust position of a single glyph
	GPosLookupTypePair              LayoutTableLookupType = 2 // Adjust position of a pair of glyphs
	GPosLookupTypeCursive           LayoutTableLookupType = 3 // Attach cursive glyphs
	GPosLookupTypeMarkToBase        LayoutTableLookupType = 4 // Attach a combining mark to a base glyph
	GPosLookupTypeMarkToLigature    LayoutTableLookupType = 5 // Attach a combining mark to a ligature
	GPosLookupTypeMarkToMark        LayoutTableLookupType = 6 // Attach a combining mark to another mark
	GPosLookupTypeContextPos        LayoutTableLookupType = 7 // Position one or more glyphs in context
	GPosLookupTypeChainedContextPos LayoutTableLookupType = 8 // Position one or more glyphs in chained context
	GPosLookupTypeExtensionPos      LayoutTableLookupType = 9 // Extension mechanism for other positionings
)

const gposLookupTypeNames = "Single|Pair|Cursive|MarkToBase|MarkToLigature|MarkToMark|ContextPos|Chained|Ext|"

var gposLookupTypeInx = [...]int{0, 7, 12, 20, 31, 46, 57, 68, 76, 80}

// GPosString interprets a layout table lookup type as a GPOS table type.
func (lt LayoutTableLookupType) GPosString() string {
	if lt >= GPosLookupTypeSingle && lt <= GPosLookupTypeExtensionPos {
		lt -= 1
		return gposLookupTypeNames[gposLookupTypeInx[lt] : gposLookupTypeInx[lt+1]-1]
	}
	return strconv.Itoa(int(lt))
}

// --- GPOS subtables --------------------------------------------------------

// parseGPosSubtable parses a GPOS subtable of lookup type typ, which is not an
// extension type. The parser is positioned at the start of the subtable.
func (lp *layoutParser) parseGPosSubtable(typ LayoutTableLookupType) (LookupSubtable, error) {
	p := lp.p
	format, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	tracer().Debugf("parsing GPOS subtable type %s, format %d", typ.GPosString(), format)
	switch typ {
	case GPosLookupTypeSingle:
		return lp.parseSinglePos(format)
	case GPosLookupTypePair:
		return lp.parsePairPos(format)
	case GPosLookupTypeCursive:
		tracer().Infof("GPOS cursive attachment is not supported")
		return &UnsupportedSubtable{subtableFormat: subtableFormat(format), LookupType: typ}, nil
	case GPosLookupTypeMarkToBase, GPosLookupTypeMarkToMark:
		return lp.parseMarkAttachment(typ, format)
	case GPosLookupTypeMarkToLigature:
		return lp.parseMarkLigPos(format)
	case GPosLookupTypeContextPos:
		if format != 3 {
			tracer().Infof("GPOS context positioning format %d is not supported", format)
			return &UnsupportedSubtable{subtableFormat: subtableFormat(format), LookupType: typ}, nil
		}
		return lp.parseSequenceContext(format)
	case GPosLookupTypeChainedContextPos:
		return lp.parseChainedSequenceContext(format)
	}
	return nil, errKind(ErrInvalidLookupType, "GPOS lookup type %d", typ)
}

// readValueRecord reads a value record of format f. Device offsets are skipped.
func (lp *layoutParser) readValueRecord(f ValueFormat) (ValueRecord, error) {
	vr := ValueRecord{Format: f}
	b, err := lp.p.Bytes(f.Size())
	if err != nil {
		return vr, err
	}
	at := 0
	next := func() int16 {
		v := int16(u16(b[at:]))
		at += 2
		return v
	}
	if f&ValueXPlacement != 0 {
		vr.XPlacement = next()
	}
	if f&ValueYPlacement != 0 {
		vr.YPlacement = next()
	}
	if f&ValueXAdvance != 0 {
		vr.XAdvance = next()
	}
	if f&ValueYAdvance != 0 {
		vr.YAdvance = next()
	}
	return vr, nil
}

// LookupType 1: Single Adjustment Positioning Subtable
//
// Format 1:                          Format 2:
//
//	uint16       posFormat  1          uint16       posFormat  2
//	Offset16     coverageOffset        Offset16     coverageOffset
//	uint16       valueFormat           uint16       valueFormat
//	ValueRecord  valueRecord           uint16       valueCount
//	                                   ValueRecord  valueRecords[valueCount]
func (lp *layoutParser) parseSinglePos(format uint16) (LookupSubtable, error) {
	p := lp.p
	covOffset, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	vf, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	cov, err := lp.coverageAt(covOffset)
	if err != nil {
		return nil, err
	}
	switch format {
	case 1:
		vr, err := lp.readValueRecord(ValueFormat(vf))
		if err != nil {
			return nil, err
		}
		return &SinglePosFmt1{subtableFormat: 1, Coverage: cov, Value: vr}, nil
	case 2:
		count, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		vals, err := arena.Slice[ValueRecord](lp.arena, int(count))
		if err != nil {
			return nil, err
		}
		for i := range vals {
			if vals[i], err = lp.readValueRecord(ValueFormat(vf)); err != nil {
				return nil, err
			}
		}
		return &SinglePosFmt2{subtableFormat: 2, Coverage: cov, Values: vals}, nil
	}
	return nil, errKind(ErrInvalidSubtableFormat, "single positioning format %d", format)
}

// LookupType 2: Pair Adjustment Positioning Subtable
//
// Format 1:                            Format 2:
//
//	uint16    posFormat  1                uint16    posFormat  2
//	Offset16  coverageOffset              Offset16  coverageOffset
//	uint16    valueFormat1                uint16    valueFormat1
//	uint16    valueFormat2                uint16    valueFormat2
//	uint16    pairSetCount                Offset16  classDef1Offset
//	Offset16  pairSetOffsets[]            Offset16  classDef2Offset
//	                                      uint16    class1Count
//	                                      uint16    class2Count
//	                                      Class1Record class1Records[class1Count]
func (lp *layoutParser) parsePairPos(format uint16) (LookupSubtable, error) {
	p := lp.p
	covOffset, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	vf1, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	vf2, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	cov, err := lp.coverageAt(covOffset)
	if err != nil {
		return nil, err
	}
	switch format {
	case 1:
		offsets, err := lp.readOffsets16()
		if err != nil {
			return nil, err
		}
		sets := make([][]PairValueRecord, len(offsets))
		for i, off := range offsets {
			if err = p.PushState(int(off)); err != nil {
				return nil, err
			}
			sets[i], err = lp.parsePairSet(ValueFormat(vf1), ValueFormat(vf2))
			p.PopState()
			if err != nil {
				return nil, err
			}
		}
		return &PairPosFmt1{subtableFormat: 1, Coverage: cov, PairSets: sets}, nil
	case 2:
		cdOffsets, err := lp.readOffsets16N(2)
		if err != nil {
			return nil, err
		}
		c1, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		c2, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		sub := &PairPosFmt2{subtableFormat: 2, Coverage: cov, Class1Count: int(c1), Class2Count: int(c2)}
		if sub.Records, err = arena.Slice[Class2Record](lp.arena, int(c1)*int(c2)); err != nil {
			return nil, err
		}
		for i := range sub.Records {
			if sub.Records[i].Value1, err = lp.readValueRecord(ValueFormat(vf1)); err != nil {
				return nil, err
			}
			if sub.Records[i].Value2, err = lp.readValueRecord(ValueFormat(vf2)); err != nil {
				return nil, err
			}
		}
		if sub.ClassDef1, err = lp.classDefAt(cdOffsets[0]); err != nil {
			return nil, err
		}
		if sub.ClassDef2, err = lp.classDefAt(cdOffsets[1]); err != nil {
			return nil, err
		}
		return sub, nil
	}
	return nil, errKind(ErrInvalidSubtableFormat, "pair positioning format %d", format)
}

// PairSet: uint16 pairValueCount, PairValueRecord pairValueRecords[pairValueCount].
// PairValueRecord: uint16 secondGlyph, ValueRecord valueRecord1, ValueRecord valueRecord2.
func (lp *layoutParser) parsePairSet(vf1, vf2 ValueFormat) ([]PairValueRecord, error) {
	p := lp.p
	count, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	recs, err := arena.Slice[PairValueRecord](lp.arena, int(count))
	if err != nil {
		return nil, err
	}
	for i := range recs {
		g, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		recs[i].SecondGlyph = GlyphIndex(g)
		if recs[i].Value1, err = lp.readValueRecord(vf1); err != nil {
			return nil, err
		}
		if recs[i].Value2, err = lp.readValueRecord(vf2); err != nil {
			return nil, err
		}
	}
	if !sort.SliceIsSorted(recs, func(i, j int) bool { return recs[i].SecondGlyph < recs[j].SecondGlyph }) {
		sort.Slice(recs, func(i, j int) bool { return recs[i].SecondGlyph < recs[j].SecondGlyph })
	}
	return recs, nil
}

// --- Anchors and mark arrays -----------------------------------------------

// anchorAt reads the anchor table at offset off, relative to the current
// structure. All anchor formats start with x and y coordinates; contour points
// (format 2) and device tables (format 3) are ignored.
func (lp *layoutParser) anchorAt(off uint16) (Anchor, error) {
	if off == 0 {
		return Anchor{}, nil
	}
	p := lp.p
	if err := p.PushState(int(off)); err != nil {
		return Anchor{}, err
	}
	defer p.PopState()
	format, err := p.ReadU16()
	if err != nil {
		return Anchor{}, err
	}
	if format < 1 || format > 3 {
		return Anchor{}, errKind(ErrInvalidFormat, "anchor format %d", format)
	}
	x, err := p.ReadI16()
	if err != nil {
		return Anchor{}, err
	}
	y, err := p.ReadI16()
	if err != nil {
		return Anchor{}, err
	}
	return Anchor{X: x, Y: y, Valid: true}, nil
}

// parseMarkArray reads a mark array at offset off.
//
//	uint16      markCount
//	MarkRecord  markRecords[markCount]  { uint16 markClass, Offset16 markAnchorOffset }
func (lp *layoutParser) parseMarkArray(off uint16, classCount int) ([]MarkRecord, error) {
	p := lp.p
	if err := p.PushState(int(off)); err != nil {
		return nil, err
	}
	defer p.PopState()
	count, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	marks, err := arena.Slice[MarkRecord](lp.arena, int(count))
	if err != nil {
		return nil, err
	}
	for i := range marks {
		class, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		if int(class) >= classCount {
			return nil, errKind(ErrUnexpectedValue, "mark class %d ≥ class count %d", class, classCount)
		}
		anchorOffset, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		marks[i].Class = class
		if marks[i].Anchor, err = lp.anchorAt(anchorOffset); err != nil {
			return nil, err
		}
	}
	return marks, nil
}

// parseAnchorMatrix reads a base array or mark2 array at the current position:
// a count of records, each holding classCount anchor offsets.
func (lp *layoutParser) parseAnchorMatrix(classCount int) ([][]Anchor, error) {
	p := lp.p
	count, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	rows := make([][]Anchor, count)
	for i := range rows {
		offsets, err := lp.readOffsets16N(classCount)
		if err != nil {
			return nil, err
		}
		if rows[i], err = arena.Slice[Anchor](lp.arena, classCount); err != nil {
			return nil, err
		}
		for j, off := range offsets {
			if rows[i][j], err = lp.anchorAt(off); err != nil {
				return nil, err
			}
		}
	}
	return rows, nil
}

// LookupType 4: Mark-to-Base Attachment Positioning Subtable, and
// LookupType 6: Mark-to-Mark Attachment Positioning Subtable.
//
//	uint16    posFormat  1
//	Offset16  markCoverageOffset     (mark1 for type 6)
//	Offset16  baseCoverageOffset     (mark2 for type 6)
//	uint16    markClassCount
//	Offset16  markArrayOffset
//	Offset16  baseArrayOffset        (mark2 array for type 6)
func (lp *layoutParser) parseMarkAttachment(typ LayoutTableLookupType, format uint16) (LookupSubtable, error) {
	if format != 1 {
		return nil, errKind(ErrInvalidSubtableFormat, "%s positioning format %d", typ.GPosString(), format)
	}
	p := lp.p
	hdr, err := lp.readOffsets16N(5)
	if err != nil {
		return nil, err
	}
	classCount := int(hdr[2])
	markCov, err := lp.coverageAt(hdr[0])
	if err != nil {
		return nil, err
	}
	baseCov, err := lp.coverageAt(hdr[1])
	if err != nil {
		return nil, err
	}
	marks, err := lp.parseMarkArray(hdr[3], classCount)
	if err != nil {
		return nil, err
	}
	if err = p.PushState(int(hdr[4])); err != nil {
		return nil, err
	}
	anchors, err := lp.parseAnchorMatrix(classCount)
	p.PopState()
	if err != nil {
		return nil, err
	}
	if typ == GPosLookupTypeMarkToMark {
		return &MarkMarkPos{subtableFormat: 1, Mark1Coverage: markCov, Mark2Coverage: baseCov,
			ClassCount: classCount, Marks: marks, Mark2Anchors: anchors}, nil
	}
	return &MarkBasePos{subtableFormat: 1, MarkCoverage: markCov, BaseCoverage: baseCov,
		ClassCount: classCount, Marks: marks, BaseAnchors: anchors}, nil
}

// LookupType 5: Mark-to-Ligature Attachment Positioning Subtable
//
//	uint16    posFormat  1
//	Offset16  markCoverageOffset
//	Offset16  ligatureCoverageOffset
//	uint16    markClassCount
//	Offset16  markArrayOffset
//	Offset16  ligatureArrayOffset
//
// LigatureArray: uint16 ligatureCount, Offset16 ligatureAttachOffsets[ligatureCount].
// LigatureAttach: uint16 componentCount, ComponentRecord componentRecords[componentCount],
// each ComponentRecord holding markClassCount anchor offsets.
func (lp *layoutParser) parseMarkLigPos(format uint16) (LookupSubtable, error) {
	if format != 1 {
		return nil, errKind(ErrInvalidSubtableFormat, "mark-to-ligature positioning format %d", format)
	}
	p := lp.p
	hdr, err := lp.readOffsets16N(5)
	if err != nil {
		return nil, err
	}
	sub := &MarkLigPos{subtableFormat: 1, ClassCount: int(hdr[2])}
	if sub.MarkCoverage, err = lp.coverageAt(hdr[0]); err != nil {
		return nil, err
	}
	if sub.LigatureCoverage, err = lp.coverageAt(hdr[1]); err != nil {
		return nil, err
	}
	if sub.Marks, err = lp.parseMarkArray(hdr[3], sub.ClassCount); err != nil {
		return nil, err
	}
	if err = p.PushState(int(hdr[4])); err != nil {
		return nil, err
	}
	defer p.PopState()
	offsets, err := lp.readOffsets16()
	if err != nil {
		return nil, err
	}
	sub.LigatureAnchors = make([][][]Anchor, len(offsets))
	for i, off := range offsets {
		if err = p.PushState(int(off)); err != nil {
			return nil, err
		}
		sub.LigatureAnchors[i], err = lp.parseAnchorMatrix(sub.ClassCount)
		p.PopState()
		if err != nil {
			return nil, err
		}
	}
	return sub, nil
}

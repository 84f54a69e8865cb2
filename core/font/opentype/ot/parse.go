package ot

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// Parse parses an OpenType font from a byte slice, using default options.
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
func Parse(font []byte) (*Font, error) {
	return ParseWithOptions(font, ParseOptions{})
}

// ParseWithOptions parses an OpenType font from a byte slice.
//
// Tables GSUB, GPOS and GDEF are optional. If present, they are parsed
// completely, and a malformed layout table makes the whole parse fail.
func ParseWithOptions(font []byte, opts ParseOptions) (*Font, error) {
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	r := bytes.NewReader(font)
	h := FontHeader{}
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, errFontFormat("font header")
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	if !(h.FontType == 0x4f54544f || // OTTO
		h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // true
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	otf := &Font{Header: &h, tables: make(map[Tag]Table)}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	p := NewParser(font)
	if err := p.Seek(12); err != nil {
		return nil, errFontFormat("table record entries")
	}
	buf, err := p.Bytes(16 * int(h.TableCount))
	if err != nil {
		return nil, errFontFormat("table record entries")
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if !validTag(tag) {
			return nil, errKind(ErrInvalidTag, "table tag %x", uint32(tag))
		}
		if tag < prevTag {
			return nil, errFontFormat("table order")
		}
		prevTag = tag
		off, size := u32(b[8:12]), u32(b[12:16])
		if off&3 != 0 { // ignore checksums, but "all tables must begin on four byte boundries".
			return nil, errFontFormat("invalid table offset")
		}
		if uint64(off)+uint64(size) > uint64(len(font)) {
			return nil, errFontFormat(fmt.Sprintf("table %s exceeds font data", tag))
		}
		otf.tables[tag], err = parseTable(tag, font[off:off+size], off, size)
		if err != nil {
			return nil, err
		}
	}
	if err := extractLayoutInfo(otf, opts); err != nil {
		return nil, err
	}
	return otf, nil
}

// RequiredTables lists the tables that the OpenType specification requires for
// the font to function correctly. For shaping we need only a subset of them,
// see essentialTables.
var RequiredTables = []string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
}

// essentialTables have to be present for a font to be accepted.
var essentialTables = []string{"head", "maxp"}

// LayoutTables are the OpenType tables for advanced layout.
var LayoutTables = []string{
	"GSUB", "GPOS", "GDEF",
}

// Consistency check and shortcuts to essential tables, including layout tables.
func extractLayoutInfo(otf *Font, opts ParseOptions) (err error) {
	for _, tag := range essentialTables {
		if otf.tables[T(tag)] == nil {
			return errKind(ErrTableMissing, "missing required table %s", tag)
		}
	}
	for _, tag := range RequiredTables {
		if otf.tables[T(tag)] == nil {
			tracer().Infof("font lacks table %s", tag)
		}
	}
	otf.numGlyphs = otf.tables[T("maxp")].Self().AsMaxP().NumGlyphs
	if hh := otf.tables[T("hhea")]; hh != nil {
		if mx := otf.tables[T("hmtx")]; mx != nil {
			otf.hmtx = mx.Self().AsHMtx()
			otf.hmtx.NumberOfHMetrics = hh.Self().AsHHea().NumberOfHMetrics
			if len(otf.hmtx.data) < 4*otf.hmtx.NumberOfHMetrics {
				return errFontFormat("hmtx table shorter than announced in hhea")
			}
		}
	}
	if lo := otf.Table(T("loca")); lo != nil {
		loca := lo.Self().AsLoca()
		loca.long = otf.tables[T("head")].Self().AsHead().IndexToLocFormat == 1
		loca.locCnt = otf.numGlyphs + 1
	}
	// GDEF has to be parsed first, as GSUB and GPOS reference its mark glyph sets
	if t := otf.tables[T("GDEF")]; t != nil {
		g, err := ParseGDef(t.Binary(), opts)
		if err != nil {
			return err
		}
		g.tableBase = *t.Self().tableBase
		g.self = g
		otf.tables[T("GDEF")] = g
		otf.Layout.GDef = g
	}
	if t := otf.tables[T("GSUB")]; t != nil {
		gsub := &GSubTable{tableBase: *t.Self().tableBase}
		lytt, err := ParseLayoutTable(T("GSUB"), t.Binary(), otf.Layout.GDef, opts)
		if err != nil {
			return err
		}
		gsub.LayoutTable = *lytt
		gsub.self = gsub
		otf.tables[T("GSUB")] = gsub
		otf.Layout.GSub = gsub
	}
	if t := otf.tables[T("GPOS")]; t != nil {
		gpos := &GPosTable{tableBase: *t.Self().tableBase}
		lytt, err := ParseLayoutTable(T("GPOS"), t.Binary(), otf.Layout.GDef, opts)
		if err != nil {
			return err
		}
		gpos.LayoutTable = *lytt
		gpos.self = gpos
		otf.tables[T("GPOS")] = gpos
		otf.Layout.GPos = gpos
	}
	return nil
}

func parseTable(t Tag, b []byte, offset, size uint32) (Table, error) {
	switch t {
	case T("head"):
		return parseHead(t, b, offset, size)
	case T("hhea"):
		return parseHHea(t, b, offset, size)
	case T("hmtx"):
		return parseHMtx(t, b, offset, size)
	case T("loca"):
		return parseLoca(t, b, offset, size)
	case T("maxp"):
		return parseMaxP(t, b, offset, size)
	}
	// layout tables are interpreted after all tables are known
	tracer().Debugf("font contains table (%s)", t)
	return newTable(t, b, offset, size), nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b []byte, offset, size uint32) (Table, error) {
	if size < 54 {
		return nil, errFontFormat("size of head table")
	}
	t := &HeadTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.Flags = u16(b[16:])      // flags
	t.UnitsPerEm = u16(b[18:]) // units per em
	// IndexToLocFormat is needed to interpret the loca table:
	// 0 for short offsets, 1 for long
	t.IndexToLocFormat = u16(b[50:])
	return t, nil
}

// --- Loca table ------------------------------------------------------------

// Interpretation of the loca table depends on head.IndexToLocFormat, which is
// consulted after all tables are known.
func parseLoca(tag Tag, b []byte, offset, size uint32) (Table, error) {
	t := &LocaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

// This table establishes the memory requirements for this font. Fonts with CFF data
// must use Version 0.5 of this table, specifying only the numGlyphs field. Fonts
// with TrueType outlines must use Version 1.0 of this table, where all data is required.
func parseMaxP(tag Tag, b []byte, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormat("size of maxp table")
	}
	t := &MaxPTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.NumGlyphs = int(u16(b[4:]))
	return t, nil
}

// --- HHea table ------------------------------------------------------------

// This table contains information for horizontal layout.
func parseHHea(tag Tag, b []byte, offset, size uint32) (Table, error) {
	tracer().Debugf("HHea table has size %d", size)
	if size < 36 {
		return nil, errFontFormat("hhea table incomplete")
	}
	t := &HHeaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.Ascender = int16(u16(b[4:]))
	t.Descender = int16(u16(b[6:]))
	t.LineGap = int16(u16(b[8:]))
	t.AdvanceWidthMax = u16(b[10:])
	t.NumberOfHMetrics = int(u16(b[34:]))
	return t, nil
}

// --- HMtx table ------------------------------------------------------------

// Dependencies (taken from Apple Developer page about TrueType):
// The value of the numOfLongHorMetrics field is found in the 'hhea' (Horizontal Header)
// table. Fonts that lack an 'hhea' table must not have an 'hmtx' table.
func parseHMtx(tag Tag, b []byte, offset, size uint32) (Table, error) {
	t := &HMtxTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t, nil
}

package ot

import (
	"sort"

	"github.com/npillmayer/otengine/core/font"
)

// Font represents the internal structure of an OpenType font.
// It is used to navigate properties of a font for text shaping.
//
// Fonts without advanced layout tables are accepted; the corresponding
// layout stage will be skipped by clients.
type Font struct {
	F      *font.ScalableFont // may be nil if font has been parsed from bytes
	Header *FontHeader
	tables map[Tag]Table
	Layout struct { // OpenType core layout tables, each may be nil
		GSub *GSubTable // OpenType layout GSUB
		GPos *GPosTable // OpenType layout GPOS
		GDef *GDefTable // OpenType layout GDEF
	}
	numGlyphs int
	hmtx      *HMtxTable
}

// FontHeader is a directory of the top-level tables in a font. If the font file
// contains only one font, the table directory will begin at byte 0 of the file.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// No table information will be dropped: for every table contained in the font
// at least a generic table is returned. To access e.g. the 'hmtx' table, clients
// may call
//
//	hmtx := otf.Table(ot.T("hmtx")).Self().AsHMtx()
//
// Table tag names are case-sensitive, following the names in the OpenType specification.
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// in ascending order.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// TableBytes returns the raw bytes of a table, or nil if the font does not
// contain a table for tag.
func (otf *Font) TableBytes(tag Tag) []byte {
	if t := otf.Table(tag); t != nil {
		return t.Binary()
	}
	return nil
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the OpenType specification as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// validTag checks that all bytes of a tag are printable ASCII, as required
// for table, script, language and feature tags.
func validTag(t Tag) bool {
	for i := 0; i < 4; i++ {
		c := byte(t >> (8 * i))
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
//
// This package interprets the tables needed for text shaping, i.e. 'head',
// 'maxp', 'hhea', 'hmtx', 'loca', and the advanced layout tables GSUB, GPOS
// and GDEF. Every other table is available as a generic table, giving access
// to its bytes.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treatet as read-only by clients
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b []byte, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	},
	}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   []byte // a table is a slice of font data
	name   Tag    // 4-byte name as an integer
	offset uint32 // from offset
	length uint32 // to offset + length
	self   interface{}
}

func makeTableBase(tag Tag, b []byte, offset, size uint32) tableBase {
	return tableBase{data: b, name: tag, offset: offset, length: size}
}

// Extent returns offset and byte size of this table within the OpenType font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treatet as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) interface{} {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		tracer().Errorf("table has no self reference")
		return nil
	}
	return tself.tableBase.self
}

// AsGPos returns this table as a GPOS table, or nil.
func (tself TableSelf) AsGPos() *GPosTable {
	if g, ok := safeSelf(tself).(*GPosTable); ok {
		return g
	}
	return nil
}

// AsGSub returns this table as a GSUB table, or nil.
func (tself TableSelf) AsGSub() *GSubTable {
	if g, ok := safeSelf(tself).(*GSubTable); ok {
		return g
	}
	return nil
}

// AsGDef returns this table as a GDEF table, or nil.
func (tself TableSelf) AsGDef() *GDefTable {
	if g, ok := safeSelf(tself).(*GDefTable); ok {
		return g
	}
	return nil
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if h, ok := safeSelf(tself).(*HeadTable); ok {
		return h
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if m, ok := safeSelf(tself).(*MaxPTable); ok {
		return m
	}
	return nil
}

// AsHHea returns this table as a hhea table, or nil.
func (tself TableSelf) AsHHea() *HHeaTable {
	if h, ok := safeSelf(tself).(*HHeaTable); ok {
		return h
	}
	return nil
}

// AsHMtx returns this table as a hmtx table, or nil.
func (tself TableSelf) AsHMtx() *HMtxTable {
	if h, ok := safeSelf(tself).(*HMtxTable); ok {
		return h
	}
	return nil
}

// AsLoca returns this table as a loca table, or nil.
func (tself TableSelf) AsLoca() *LocaTable {
	if l, ok := safeSelf(tself).(*LocaTable); ok {
		return l
	}
	return nil
}

// --- Concrete table implementations ----------------------------------------

// HeadTable gives global information about the font.
// Only a small subset of fields are made public by HeadTable, as they are
// needed for consistency-checks and metrics. Clients may read any other field
// from the table's bytes.
type HeadTable struct {
	tableBase
	Flags            uint16 // see https://docs.microsoft.com/en-us/typography/opentype/spec/head
	UnitsPerEm       uint16 // values 16 … 16384 are valid
	IndexToLocFormat uint16 // needed to interpret loca table
}

// MaxPTable establishes the memory requirements for this font.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	Ascender         int16
	Descender        int16
	LineGap          int16
	AdvanceWidthMax  uint16
	NumberOfHMetrics int
}

// HMtxTable contains metric information for the horizontal layout each of the glyphs in
// the font. Each element in the contained hMetrics-array has two parts: the advance width
// and left side bearing. The value NumberOfHMetrics is taken from the 'hhea' table. In
// a monospaced font, only one entry is required but that entry may not be omitted.
// Optionally, an array of left side bearings follows.
// Glyphs beyond NumberOfHMetrics share the advance width of the last entry in the
// hMetrics array.
//
// NumberOfHMetrics is copied from table 'hhea' to HMtxTable for easier access.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics int
}

// HMetrics returns the advance width and left side bearing of a glyph.
func (t *HMtxTable) HMetrics(g GlyphIndex) (uint16, int16) {
	n := t.NumberOfHMetrics
	if n <= 0 || len(t.data) < 4*n {
		return 0, 0
	}
	if int(g) < n {
		at := 4 * int(g)
		return u16(t.data[at:]), int16(u16(t.data[at+2:]))
	}
	adv := u16(t.data[4*(n-1):])
	at := 4*n + 2*(int(g)-n)
	if at+2 > len(t.data) {
		return adv, 0
	}
	return adv, int16(u16(t.data[at:]))
}

// LocaTable stores the offsets to the locations of the glyphs in the font,
// relative to the beginning of the glyph data table.
// By definition, index zero points to the “missing character”, which is the character
// that appears if a character is not found in the font.
type LocaTable struct {
	tableBase
	long   bool // long offsets, from head.IndexToLocFormat
	locCnt int  // number of locations
}

// IndexToLocation offsets, indexed by glyph IDs, which provide the location of each
// glyph data block within the 'glyf' table.
func (t *LocaTable) IndexToLocation(gid GlyphIndex) uint32 {
	if int(gid) >= t.locCnt && t.locCnt > 0 {
		tracer().Errorf("requested location for glyph %d > %d", gid, t.locCnt)
		return 0
	}
	if t.long {
		if at := 4 * int(gid); at+4 <= len(t.data) {
			return u32(t.data[at:])
		}
		return 0
	}
	if at := 2 * int(gid); at+2 <= len(t.data) {
		return uint32(u16(t.data[at:])) * 2
	}
	return 0
}

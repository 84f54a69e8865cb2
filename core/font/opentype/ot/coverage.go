package ot

import (
	"sort"

	"github.com/npillmayer/otengine/core/arena"
)

// --- Coverage --------------------------------------------------------------

// RangeRecord is a range of glyphs mapping to consecutive values, starting at
// Value. For coverage tables Value is the coverage index of Start, for class
// definitions it is the class of all glyphs in the range.
type RangeRecord struct {
	Start GlyphIndex
	End   GlyphIndex
	Value uint16
}

// Coverage maps glyphs to coverage indices. Lookup subtables use coverage
// indices to access per-glyph data.
//
// From the OpenType specification:
// Each Coverage table lists a number of glyphs, or ranges of glyphs, […] Format 1 lists
// individual glyph IDs, and Format 2 lists ranges of glyph IDs. […] In a Coverage table, a
// format code specifies the format, either 1 or 2.
//
// A Coverage of format 0 is empty. It is used for absent (NULL) coverage offsets.
type Coverage struct {
	format uint16
	glyphs []GlyphIndex  // format 1, sorted ascending
	ranges []RangeRecord // format 2, sorted ascending, non-overlapping
	min    GlyphIndex
	max    GlyphIndex
}

// Format returns the coverage table's format (1 or 2), or 0 for an empty coverage.
func (c *Coverage) Format() uint16 {
	if c == nil {
		return 0
	}
	return c.format
}

// Len returns the number of glyphs covered.
func (c *Coverage) Len() int {
	if c == nil {
		return 0
	}
	switch c.format {
	case 1:
		return len(c.glyphs)
	case 2:
		n := 0
		for _, r := range c.ranges {
			n += int(r.End-r.Start) + 1
		}
		return n
	}
	return 0
}

// Search returns the coverage index of glyph g, or -1 if g is not covered.
func (c *Coverage) Search(g GlyphIndex) int {
	if c == nil || c.format == 0 || g < c.min || g > c.max {
		return -1
	}
	switch c.format {
	case 1:
		i := sort.Search(len(c.glyphs), func(i int) bool { return c.glyphs[i] >= g })
		if i < len(c.glyphs) && c.glyphs[i] == g {
			return i
		}
	case 2:
		i := sort.Search(len(c.ranges), func(i int) bool { return c.ranges[i].End >= g })
		if i < len(c.ranges) && c.ranges[i].Start <= g {
			return int(c.ranges[i].Value) + int(g-c.ranges[i].Start)
		}
	}
	return -1
}

// Contains returns true if glyph g is covered.
func (c *Coverage) Contains(g GlyphIndex) bool {
	return c.Search(g) >= 0
}

// Glyphs returns all glyphs covered, in ascending order. The result is freshly
// allocated.
func (c *Coverage) Glyphs() []GlyphIndex {
	if c == nil {
		return nil
	}
	switch c.format {
	case 1:
		return append([]GlyphIndex(nil), c.glyphs...)
	case 2:
		gg := make([]GlyphIndex, 0, c.Len())
		for _, r := range c.ranges {
			for g := int(r.Start); g <= int(r.End); g++ {
				gg = append(gg, GlyphIndex(g))
			}
		}
		return gg
	}
	return nil
}

// Bounds returns the smallest and largest glyph covered. For an empty
// coverage, ok is false.
func (c *Coverage) Bounds() (min GlyphIndex, max GlyphIndex, ok bool) {
	if c == nil || c.format == 0 {
		return 0, 0, false
	}
	return c.min, c.max, true
}

// NewCoverage creates a format 1 coverage from glyphs, which are sorted and
// de-duplicated first. Coverage indices are positions in the sorted list.
func NewCoverage(glyphs ...GlyphIndex) *Coverage {
	gg := append([]GlyphIndex(nil), glyphs...)
	sort.Slice(gg, func(i, j int) bool { return gg[i] < gg[j] })
	n := 0
	for i, g := range gg {
		if i == 0 || g != gg[n-1] {
			gg[n] = g
			n++
		}
	}
	gg = gg[:n]
	if n == 0 {
		return &Coverage{}
	}
	return &Coverage{format: 1, glyphs: gg, min: gg[0], max: gg[n-1]}
}

// NewRangeCoverage creates a format 2 coverage from range records, which have
// to be sorted and non-overlapping. Value denotes the coverage index of a
// range's start glyph.
func NewRangeCoverage(ranges ...RangeRecord) *Coverage {
	if len(ranges) == 0 {
		return &Coverage{}
	}
	rr := append([]RangeRecord(nil), ranges...)
	return &Coverage{format: 2, ranges: rr, min: rr[0].Start, max: rr[len(rr)-1].End}
}

// --- Class definitions -----------------------------------------------------

// ClassDef maps glyphs to classes.
//
// From the OpenType specification:
// For efficiency and ease of representation, a font developer can group glyph indices
// to form glyph classes. Class assignments vary in meaning from one lookup subtable to
// another. […] any glyph not included in the range of covered glyph IDs automatically
// belongs to Class 0.
type ClassDef struct {
	format     uint16
	startGlyph GlyphIndex    // format 1
	classes    []uint16      // format 1, class values of startGlyph…startGlyph+n-1
	ranges     []RangeRecord // format 2, sorted ascending
	min        GlyphIndex
	max        GlyphIndex
}

// Format returns the class definition's format (1 or 2), or 0 if it is empty.
func (cd *ClassDef) Format() uint16 {
	if cd == nil {
		return 0
	}
	return cd.format
}

// Search returns the class of glyph g, or -1 if g is not mentioned in the
// class definition.
func (cd *ClassDef) Search(g GlyphIndex) int {
	if cd == nil || cd.format == 0 || g < cd.min || g > cd.max {
		return -1
	}
	switch cd.format {
	case 1:
		return int(cd.classes[g-cd.startGlyph])
	case 2:
		i := sort.Search(len(cd.ranges), func(i int) bool { return cd.ranges[i].End >= g })
		if i < len(cd.ranges) && cd.ranges[i].Start <= g {
			return int(cd.ranges[i].Value)
		}
	}
	return -1
}

// Lookup returns the class of glyph g. Glyphs not mentioned belong to class 0.
func (cd *ClassDef) Lookup(g GlyphIndex) uint16 {
	if c := cd.Search(g); c > 0 {
		return uint16(c)
	}
	return 0
}

// NewClassDef creates a format 1 class definition, assigning classes[i] to
// glyph start+i.
func NewClassDef(start GlyphIndex, classes ...uint16) *ClassDef {
	if len(classes) == 0 {
		return &ClassDef{}
	}
	cc := append([]uint16(nil), classes...)
	return &ClassDef{format: 1, startGlyph: start, classes: cc,
		min: start, max: start + GlyphIndex(len(cc)-1)}
}

// NewRangeClassDef creates a format 2 class definition from range records, which
// have to be sorted and non-overlapping. Value denotes the class of a range.
func NewRangeClassDef(ranges ...RangeRecord) *ClassDef {
	if len(ranges) == 0 {
		return &ClassDef{}
	}
	rr := append([]RangeRecord(nil), ranges...)
	return &ClassDef{format: 2, ranges: rr, min: rr[0].Start, max: rr[len(rr)-1].End}
}

// --- Parsing ---------------------------------------------------------------

// parseCoverage reads a coverage table at the parser's current position.
// Glyph data is allocated from arena a.
func parseCoverage(p *Parser, a *arena.Arena) (*Coverage, error) {
	format, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	cov := &Coverage{format: format}
	count, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	switch format {
	case 1:
		if cov.glyphs, err = arena.Slice[GlyphIndex](a, int(count)); err != nil {
			return nil, err
		}
		if err = p.ReadGlyphs(cov.glyphs, int(count)); err != nil {
			return nil, err
		}
		for i := 1; i < len(cov.glyphs); i++ {
			if cov.glyphs[i] <= cov.glyphs[i-1] {
				return nil, errKind(ErrInvalidFormat, "coverage glyphs not sorted at index %d", i)
			}
		}
		if count > 0 {
			cov.min, cov.max = cov.glyphs[0], cov.glyphs[count-1]
		} else {
			cov.format = 0
		}
	case 2:
		if cov.ranges, err = readRangeRecords(p, a, int(count)); err != nil {
			return nil, err
		}
		if count > 0 {
			cov.min, cov.max = cov.ranges[0].Start, cov.ranges[count-1].End
		} else {
			cov.format = 0
		}
	default:
		return nil, errKind(ErrInvalidFormat, "coverage table format %d", format)
	}
	return cov, nil
}

// parseClassDef reads a class definition table at the parser's current position.
func parseClassDef(p *Parser, a *arena.Arena) (*ClassDef, error) {
	format, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	cd := &ClassDef{format: format}
	switch format {
	case 1:
		start, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		count, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		if int(start)+int(count) > 0x10000 {
			return nil, errKind(ErrInvalidFormat, "class definition exceeds glyph range")
		}
		cd.startGlyph = GlyphIndex(start)
		if cd.classes, err = arena.Slice[uint16](a, int(count)); err != nil {
			return nil, err
		}
		if err = p.ReadU16s(cd.classes, int(count)); err != nil {
			return nil, err
		}
		if count == 0 {
			cd.format = 0
		} else {
			cd.min, cd.max = cd.startGlyph, cd.startGlyph+GlyphIndex(count-1)
		}
	case 2:
		count, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		if cd.ranges, err = readRangeRecords(p, a, int(count)); err != nil {
			return nil, err
		}
		if count == 0 {
			cd.format = 0
		} else {
			cd.min, cd.max = cd.ranges[0].Start, cd.ranges[count-1].End
		}
	default:
		return nil, errKind(ErrInvalidFormat, "class definition table format %d", format)
	}
	return cd, nil
}

func readRangeRecords(p *Parser, a *arena.Arena, n int) ([]RangeRecord, error) {
	rr, err := arena.Slice[RangeRecord](a, n)
	if err != nil {
		return nil, err
	}
	b, err := p.Bytes(6 * n)
	if err != nil {
		return nil, err
	}
	for i := range rr {
		r := b[6*i:]
		rr[i] = RangeRecord{Start: GlyphIndex(u16(r)), End: GlyphIndex(u16(r[2:])), Value: u16(r[4:])}
		if rr[i].End < rr[i].Start || (i > 0 && rr[i].Start <= rr[i-1].End) {
			return nil, errKind(ErrInvalidFormat, "glyph ranges not sorted at index %d", i)
		}
	}
	return rr, nil
}

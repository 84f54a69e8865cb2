package ot

// LookupSubtable is one of the subtable variants of GSUB and GPOS lookups.
// The set of variants is closed; clients switch over the concrete types:
//
//	switch st := sub.(type) {
//	case *ot.SingleSubstFmt1:
//	    …
//	case *ot.LigatureSubst:
//	    …
//	}
//
// Extension subtables never appear, they are replaced by the subtable they wrap.
type LookupSubtable interface {
	Format() uint16 // subtable format, as stated in the font
	isLookupSubtable()
}

type subtableFormat uint16

func (f subtableFormat) Format() uint16 { return uint16(f) }
func (subtableFormat) isLookupSubtable() {}

// SequenceLookupRecord references a nested lookup to be applied at position
// SequenceIndex of a matched input sequence.
type SequenceLookupRecord struct {
	SequenceIndex uint16
	LookupIndex   uint16
}

// --- GSUB variants ---------------------------------------------------------

// SingleSubstFmt1 is GSUB lookup type 1, format 1. A covered glyph g is
// replaced by g + Delta, modulo 65536.
type SingleSubstFmt1 struct {
	subtableFormat
	Coverage *Coverage
	Delta    int16
}

// SingleSubstFmt2 is GSUB lookup type 1, format 2. A covered glyph is replaced
// by the substitute at its coverage index.
type SingleSubstFmt2 struct {
	subtableFormat
	Coverage    *Coverage
	Substitutes []GlyphIndex
}

// MultipleSubst is GSUB lookup type 2. A covered glyph is replaced by the
// sequence at its coverage index.
type MultipleSubst struct {
	subtableFormat
	Coverage  *Coverage
	Sequences [][]GlyphIndex
}

// AlternateSubst is GSUB lookup type 3. A covered glyph may be replaced by
// one of the alternates at its coverage index.
type AlternateSubst struct {
	subtableFormat
	Coverage   *Coverage
	Alternates [][]GlyphIndex
}

// Ligature is a ligature glyph together with the component glyphs it replaces.
// Components does not include the first component, which is identified by the
// coverage of the enclosing subtable.
type Ligature struct {
	Glyph      GlyphIndex
	Components []GlyphIndex
}

// LigatureSubst is GSUB lookup type 4. LigatureSets is indexed by the coverage
// index of the first component. Ligatures of a set are in preference order.
type LigatureSubst struct {
	subtableFormat
	Coverage     *Coverage
	LigatureSets [][]Ligature
}

// SequenceRule is a rule of a context subtable. Input holds glyphs (format 1)
// or classes (format 2) of the input sequence, starting with the second
// position.
type SequenceRule struct {
	Input   []uint16
	Records []SequenceLookupRecord
}

// SequenceContextFmt1 is GSUB lookup type 5 / GPOS lookup type 7, format 1:
// glyph-based context rules. RuleSets is indexed by coverage index.
type SequenceContextFmt1 struct {
	subtableFormat
	Coverage *Coverage
	RuleSets [][]SequenceRule
}

// SequenceContextFmt2 is GSUB lookup type 5 / GPOS lookup type 7, format 2:
// class-based context rules. RuleSets is indexed by the class of the first
// input glyph.
type SequenceContextFmt2 struct {
	subtableFormat
	Coverage *Coverage
	ClassDef *ClassDef
	RuleSets [][]SequenceRule
}

// SequenceContextFmt3 is GSUB lookup type 5 / GPOS lookup type 7, format 3:
// coverage-based context, one coverage per input position.
type SequenceContextFmt3 struct {
	subtableFormat
	Input   []*Coverage
	Records []SequenceLookupRecord
}

// ChainedSequenceRule is a rule of a chained context subtable.
// Backtrack is stored in the font's order, i.e. starting with the glyph closest
// to the input sequence. Input starts with the second position.
type ChainedSequenceRule struct {
	Backtrack []uint16
	Input     []uint16
	Lookahead []uint16
	Records   []SequenceLookupRecord
}

// ChainedContextFmt1 is GSUB lookup type 6 / GPOS lookup type 8, format 1:
// glyph-based chained context rules. RuleSets is indexed by coverage index.
type ChainedContextFmt1 struct {
	subtableFormat
	Coverage *Coverage
	RuleSets [][]ChainedSequenceRule
}

// ChainedContextFmt2 is GSUB lookup type 6 / GPOS lookup type 8, format 2:
// class-based chained context rules. RuleSets is indexed by the input class of
// the first input glyph.
type ChainedContextFmt2 struct {
	subtableFormat
	Coverage          *Coverage
	BacktrackClassDef *ClassDef
	InputClassDef     *ClassDef
	LookaheadClassDef *ClassDef
	RuleSets          [][]ChainedSequenceRule
}

// ChainedContextFmt3 is GSUB lookup type 6 / GPOS lookup type 8, format 3:
// coverage-based chained context. Backtrack coverages start with the glyph
// closest to the input sequence.
type ChainedContextFmt3 struct {
	subtableFormat
	Backtrack []*Coverage
	Input     []*Coverage
	Lookahead []*Coverage
	Records   []SequenceLookupRecord
}

// ReverseChainSingleSubst is GSUB lookup type 8, to be applied from the end
// of the glyph sequence to its start.
type ReverseChainSingleSubst struct {
	subtableFormat
	Coverage    *Coverage
	Backtrack   []*Coverage
	Lookahead   []*Coverage
	Substitutes []GlyphIndex
}

// --- GPOS variants ---------------------------------------------------------

// ValueFormat flags which fields are present in a value record.
type ValueFormat uint16

// Value record format flags.
const (
	ValueXPlacement       ValueFormat = 0x0001
	ValueYPlacement       ValueFormat = 0x0002
	ValueXAdvance         ValueFormat = 0x0004
	ValueYAdvance         ValueFormat = 0x0008
	ValueXPlacementDevice ValueFormat = 0x0010
	ValueYPlacementDevice ValueFormat = 0x0020
	ValueXAdvanceDevice   ValueFormat = 0x0040
	ValueYAdvanceDevice   ValueFormat = 0x0080
)

// Size returns the byte size of a value record of format f.
func (f ValueFormat) Size() int {
	n := 0
	for b := f & 0xff; b != 0; b &= b - 1 {
		n += 2
	}
	return n
}

// ValueRecord holds positioning deltas. Fields not present in the font are 0.
// Device table offsets are read past and ignored.
type ValueRecord struct {
	Format     ValueFormat
	XPlacement int16
	YPlacement int16
	XAdvance   int16
	YAdvance   int16
}

// Anchor is an attachment point in design units. Anchors referenced by a NULL
// offset are not Valid.
type Anchor struct {
	X, Y  int16
	Valid bool
}

// MarkRecord holds the mark class and the anchor of a mark glyph.
type MarkRecord struct {
	Class  uint16
	Anchor Anchor
}

// SinglePosFmt1 is GPOS lookup type 1, format 1: one value record for all
// covered glyphs.
type SinglePosFmt1 struct {
	subtableFormat
	Coverage *Coverage
	Value    ValueRecord
}

// SinglePosFmt2 is GPOS lookup type 1, format 2: one value record per
// coverage index.
type SinglePosFmt2 struct {
	subtableFormat
	Coverage *Coverage
	Values   []ValueRecord
}

// PairValueRecord holds the value records for a pair of glyphs, where the
// first glyph is given by the enclosing pair set.
type PairValueRecord struct {
	SecondGlyph GlyphIndex
	Value1      ValueRecord
	Value2      ValueRecord
}

// PairPosFmt1 is GPOS lookup type 2, format 1: literal glyph pairs.
// PairSets is indexed by the coverage index of the first glyph and is sorted
// by second glyph.
type PairPosFmt1 struct {
	subtableFormat
	Coverage *Coverage
	PairSets [][]PairValueRecord
}

// Class2Record holds the value records for a pair of glyph classes.
type Class2Record struct {
	Value1 ValueRecord
	Value2 ValueRecord
}

// PairPosFmt2 is GPOS lookup type 2, format 2: class pairs. Records is a
// Class1Count × Class2Count matrix in row-major order.
type PairPosFmt2 struct {
	subtableFormat
	Coverage    *Coverage
	ClassDef1   *ClassDef
	ClassDef2   *ClassDef
	Class1Count int
	Class2Count int
	Records     []Class2Record
}

// Record returns the value records for first class c1 and second class c2.
func (pp *PairPosFmt2) Record(c1, c2 int) (Class2Record, bool) {
	if c1 < 0 || c2 < 0 || c1 >= pp.Class1Count || c2 >= pp.Class2Count {
		return Class2Record{}, false
	}
	return pp.Records[c1*pp.Class2Count+c2], true
}

// MarkBasePos is GPOS lookup type 4. BaseAnchors is indexed by base coverage
// index and mark class.
type MarkBasePos struct {
	subtableFormat
	MarkCoverage *Coverage
	BaseCoverage *Coverage
	ClassCount   int
	Marks        []MarkRecord
	BaseAnchors  [][]Anchor
}

// MarkLigPos is GPOS lookup type 5. LigatureAnchors is indexed by ligature
// coverage index, ligature component and mark class.
type MarkLigPos struct {
	subtableFormat
	MarkCoverage     *Coverage
	LigatureCoverage *Coverage
	ClassCount       int
	Marks            []MarkRecord
	LigatureAnchors  [][][]Anchor
}

// MarkMarkPos is GPOS lookup type 6. Mark2Anchors is indexed by mark2
// coverage index and mark class.
type MarkMarkPos struct {
	subtableFormat
	Mark1Coverage *Coverage
	Mark2Coverage *Coverage
	ClassCount    int
	Marks         []MarkRecord
	Mark2Anchors  [][]Anchor
}

// UnsupportedSubtable stands in for subtables which are recognized, but not
// interpreted: cursive attachment (GPOS type 3) and context positioning of
// formats 1 and 2 (GPOS type 7). Clients skip them.
type UnsupportedSubtable struct {
	subtableFormat
	LookupType LayoutTableLookupType
}

// Compile-time check for the closed set of variants.
var (
	_ LookupSubtable = &SingleSubstFmt1{}
	_ LookupSubtable = &SingleSubstFmt2{}
	_ LookupSubtable = &MultipleSubst{}
	_ LookupSubtable = &AlternateSubst{}
	_ LookupSubtable = &LigatureSubst{}
	_ LookupSubtable = &SequenceContextFmt1{}
	_ LookupSubtable = &SequenceContextFmt2{}
	_ LookupSubtable = &SequenceContextFmt3{}
	_ LookupSubtable = &ChainedContextFmt1{}
	_ LookupSubtable = &ChainedContextFmt2{}
	_ LookupSubtable = &ChainedContextFmt3{}
	_ LookupSubtable = &ReverseChainSingleSubst{}
	_ LookupSubtable = &SinglePosFmt1{}
	_ LookupSubtable = &SinglePosFmt2{}
	_ LookupSubtable = &PairPosFmt1{}
	_ LookupSubtable = &PairPosFmt2{}
	_ LookupSubtable = &MarkBasePos{}
	_ LookupSubtable = &MarkLigPos{}
	_ LookupSubtable = &MarkMarkPos{}
	_ LookupSubtable = &UnsupportedSubtable{}
)

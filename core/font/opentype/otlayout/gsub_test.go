package otlayout

import (
	"testing"

	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleSubstDeltaRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeSingle, 0, &ot.SingleSubstFmt1{Coverage: cov(10, 11), Delta: 3}),
		lookup(ot.GSubLookupTypeSingle, 0, &ot.SingleSubstFmt1{Coverage: cov(13, 14), Delta: -3}),
	)
	in := glyphBuffer(10, 11, 12)
	out := substitute(e, in, 0)
	assert.Equal(t, []ot.GlyphIndex{13, 14, 12}, glyphIDs(out))
	assert.Equal(t, in.Codepoints, out.Codepoints, "codepoints are kept")
	back := substitute(e, out, 1)
	assert.Equal(t, []ot.GlyphIndex{10, 11, 12}, glyphIDs(back))
}

func TestSingleSubstDeltaWraps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeSingle, 0, &ot.SingleSubstFmt1{Coverage: cov(0), Delta: -1}))
	out := substitute(e, glyphBuffer(0), 0)
	assert.Equal(t, []ot.GlyphIndex{0xffff}, glyphIDs(out))
}

func TestSingleSubstArray(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeSingle, 0, &ot.SingleSubstFmt2{
			Coverage:    cov(3, 5),
			Substitutes: []ot.GlyphIndex{30, 50},
		}))
	out := substitute(e, glyphBuffer(5, 4, 3), 0)
	assert.Equal(t, []ot.GlyphIndex{50, 4, 30}, glyphIDs(out))
}

func TestSubstituteRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeSingle, 0, &ot.SingleSubstFmt1{Coverage: cov(1), Delta: 1}))
	in := glyphBuffer(1, 1, 1, 1)
	out := NewBuffer(gsubAttrs, 4)
	e.ApplyGSubLookup(testFeature, 0, in, out, 1, 2)
	assert.Equal(t, []ot.GlyphIndex{1, 2, 2, 1}, glyphIDs(out), "only glyphs 1…2 substituted")
	//
	out.Clear()
	e.ApplyGSubLookup(testFeature, 0, in, out, 3, 7)
	assert.Equal(t, glyphIDs(in), glyphIDs(out), "invalid range copies input")
	//
	out.Clear()
	e.ApplyGSubLookup(testFeature, 9, in, out, 0, 3)
	assert.Equal(t, glyphIDs(in), glyphIDs(out), "missing lookup copies input")
}

func TestMultipleSubst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeMultiple, 0, &ot.MultipleSubst{
			Coverage:  cov(5, 6),
			Sequences: [][]ot.GlyphIndex{{7, 8, 9}, {}},
		}))
	out := substitute(e, glyphBuffer(4, 5, 6, 10), 0)
	assert.Equal(t, []ot.GlyphIndex{4, 7, 8, 9, 10}, glyphIDs(out))
	assert.Equal(t, []rune{'a' + 4, 'a' + 5, 'a' + 5, 'a' + 5, 'a' + 10}, out.Codepoints)
}

func TestAlternateSubst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	alt := lookup(ot.GSubLookupTypeAlternate, 0, &ot.AlternateSubst{
		Coverage:   cov(1),
		Alternates: [][]ot.GlyphIndex{{20, 21, 22}},
	})
	first := gsubEngine(marks(), Config{}, alt)
	assert.Equal(t, []ot.GlyphIndex{20, 2}, glyphIDs(substitute(first, glyphBuffer(1, 2), 0)))
	last := gsubEngine(marks(), Config{Alternate: -1}, alt)
	assert.Equal(t, []ot.GlyphIndex{22, 2}, glyphIDs(substitute(last, glyphBuffer(1, 2), 0)))
	none := gsubEngine(marks(), Config{Alternate: 5}, alt)
	assert.Equal(t, []ot.GlyphIndex{1, 2}, glyphIDs(substitute(none, glyphBuffer(1, 2), 0)))
}

func ligatureLookup(flag ot.LayoutTableLookupFlag) *ot.LookupTable {
	return lookup(ot.GSubLookupTypeLigature, flag, &ot.LigatureSubst{
		Coverage: cov(1),
		LigatureSets: [][]ot.Ligature{{
			{Glyph: 101, Components: []ot.GlyphIndex{2, 3}},
			{Glyph: 100, Components: []ot.GlyphIndex{2}},
		}},
	})
}

func TestLigatureSubst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{}, ligatureLookup(0))
	out := substitute(e, glyphBuffer(1, 2, 4), 0)
	assert.Equal(t, []ot.GlyphIndex{100, 4}, glyphIDs(out))
	assert.Equal(t, 'a'+rune(1), out.Codepoints[0], "ligature keeps codepoint of first component")
	//
	out = substitute(e, glyphBuffer(0, 1, 2, 3), 0)
	assert.Equal(t, []ot.GlyphIndex{0, 101}, glyphIDs(out), "preferred ligature first")
	//
	out = substitute(e, glyphBuffer(1, 4, 2), 0)
	assert.Equal(t, []ot.GlyphIndex{1, 4, 2}, glyphIDs(out), "no match")
	//
	out = substitute(e, glyphBuffer(2, 1), 0)
	assert.Equal(t, []ot.GlyphIndex{2, 1}, glyphIDs(out), "components missing at end")
}

func TestLigatureSkipsMarks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{}, ligatureLookup(ot.LOOKUP_FLAG_IGNORE_MARKS))
	out := substitute(e, glyphBuffer(1, 50, 2), 0)
	require.Equal(t, []ot.GlyphIndex{100, 50}, glyphIDs(out))
	assert.Equal(t, []uint16{0, 0}, out.ComponentIndices)
	//
	out = substitute(e, glyphBuffer(1, 50, 2, 51, 3, 52), 0)
	require.Equal(t, []ot.GlyphIndex{101, 50, 51, 52}, glyphIDs(out))
	assert.Equal(t, uint16(0), out.ComponentIndices[1])
	assert.Equal(t, uint16(1), out.ComponentIndices[2])
	//
	plain := gsubEngine(marks(), Config{}, ligatureLookup(0))
	out = substitute(plain, glyphBuffer(1, 50, 2), 0)
	assert.Equal(t, []ot.GlyphIndex{1, 50, 2}, glyphIDs(out), "marks block ligature")
}

// --- Contexts --------------------------------------------------------------

func TestChainedContextCoverage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeChainingContext, 0, &ot.ChainedContextFmt3{
			Backtrack: []*ot.Coverage{cov(1)},
			Input:     []*ot.Coverage{cov(2)},
			Lookahead: []*ot.Coverage{cov(3)},
			Records:   []ot.SequenceLookupRecord{{SequenceIndex: 0, LookupIndex: 1}},
		}),
		lookup(ot.GSubLookupTypeSingle, 0, &ot.SingleSubstFmt1{Coverage: cov(2), Delta: 10}),
	)
	out := substitute(e, glyphBuffer(1, 2, 3, 2, 3), 0)
	assert.Equal(t, []ot.GlyphIndex{1, 12, 3, 2, 3}, glyphIDs(out))
}

func TestChainedContextNestedLigature(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeChainingContext, 0, &ot.ChainedContextFmt3{
			Input:   []*ot.Coverage{cov(1), cov(2)},
			Records: []ot.SequenceLookupRecord{{SequenceIndex: 0, LookupIndex: 1}},
		}),
		ligatureLookup(0),
	)
	out := substitute(e, glyphBuffer(0, 1, 2, 4), 0)
	assert.Equal(t, []ot.GlyphIndex{0, 100, 4}, glyphIDs(out))
}

func TestChainedContextGlyphRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeChainingContext, 0, &ot.ChainedContextFmt1{
			Coverage: cov(2),
			RuleSets: [][]ot.ChainedSequenceRule{{
				{Backtrack: []uint16{1}, Input: []uint16{3}, Lookahead: []uint16{4},
					Records: []ot.SequenceLookupRecord{{SequenceIndex: 1, LookupIndex: 1}}},
			}},
		}),
		lookup(ot.GSubLookupTypeSingle, 0, &ot.SingleSubstFmt1{Coverage: cov(3), Delta: 10}),
	)
	out := substitute(e, glyphBuffer(1, 2, 3, 4, 2, 3, 5), 0)
	assert.Equal(t, []ot.GlyphIndex{1, 2, 13, 4, 2, 3, 5}, glyphIDs(out))
}

func TestChainedContextClassRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	classes := ot.NewClassDef(1, 1, 2, 2) // 1 → class 1, 2 and 3 → class 2
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeChainingContext, 0, &ot.ChainedContextFmt2{
			Coverage:          cov(2, 3),
			BacktrackClassDef: classes,
			InputClassDef:     classes,
			LookaheadClassDef: classes,
			RuleSets: [][]ot.ChainedSequenceRule{
				nil, nil,
				{{Backtrack: []uint16{1}, Records: []ot.SequenceLookupRecord{{LookupIndex: 1}}}},
			},
		}),
		lookup(ot.GSubLookupTypeSingle, 0, &ot.SingleSubstFmt1{Coverage: cov(2, 3), Delta: 10}),
	)
	out := substitute(e, glyphBuffer(1, 3, 2, 1, 2), 0)
	assert.Equal(t, []ot.GlyphIndex{1, 13, 2, 1, 12}, glyphIDs(out))
}

func TestSequenceContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeContext, 0, &ot.SequenceContextFmt1{
			Coverage: cov(1),
			RuleSets: [][]ot.SequenceRule{{
				{Input: []uint16{2}, Records: []ot.SequenceLookupRecord{
					{SequenceIndex: 1, LookupIndex: 1},
					{SequenceIndex: 0, LookupIndex: 1},
				}},
			}},
		}),
		lookup(ot.GSubLookupTypeSingle, 0, &ot.SingleSubstFmt2{
			Coverage:    cov(1, 2),
			Substitutes: []ot.GlyphIndex{11, 12},
		}),
	)
	out := substitute(e, glyphBuffer(2, 1, 2, 1), 0)
	assert.Equal(t, []ot.GlyphIndex{2, 11, 12, 1}, glyphIDs(out))
	//
	e = gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeContext, 0, &ot.SequenceContextFmt3{
			Input:   []*ot.Coverage{cov(1), cov(2, 3)},
			Records: []ot.SequenceLookupRecord{{SequenceIndex: 1, LookupIndex: 1}},
		}),
		lookup(ot.GSubLookupTypeSingle, 0, &ot.SingleSubstFmt1{Coverage: cov(2, 3), Delta: 5}),
	)
	out = substitute(e, glyphBuffer(1, 3, 3), 0)
	assert.Equal(t, []ot.GlyphIndex{1, 8, 3}, glyphIDs(out))
}

func TestCyclicContextTerminates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeChainingContext, 0, &ot.ChainedContextFmt3{
			Input:   []*ot.Coverage{cov(5)},
			Records: []ot.SequenceLookupRecord{{SequenceIndex: 0, LookupIndex: 0}},
		}))
	in := glyphBuffer(4, 5, 6, 5)
	out := substitute(e, in, 0)
	assert.Equal(t, glyphIDs(in), glyphIDs(out))
	assert.Equal(t, in.Codepoints, out.Codepoints)
	assert.Equal(t, 0, e.scratch.Used(), "scratch memory released")
}

func TestRecursionBound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	lookups := []*ot.LookupTable{
		lookup(ot.GSubLookupTypeChainingContext, 0, &ot.ChainedContextFmt3{
			Input:   []*ot.Coverage{cov(1)},
			Records: []ot.SequenceLookupRecord{{SequenceIndex: 0, LookupIndex: 1}},
		}),
		lookup(ot.GSubLookupTypeSingle, 0, &ot.SingleSubstFmt1{Coverage: cov(1), Delta: 1}),
	}
	shallow := gsubEngine(marks(), Config{MaxRecursionDepth: 1}, lookups...)
	assert.Equal(t, []ot.GlyphIndex{1}, glyphIDs(substitute(shallow, glyphBuffer(1), 0)))
	deep := gsubEngine(marks(), Config{MaxRecursionDepth: 2}, lookups...)
	assert.Equal(t, []ot.GlyphIndex{2}, glyphIDs(substitute(deep, glyphBuffer(1), 0)))
}

func TestReverseChainSubst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeReverseChaining, 0, &ot.ReverseChainSingleSubst{
			Coverage:    cov(1),
			Lookahead:   []*ot.Coverage{cov(20)},
			Substitutes: []ot.GlyphIndex{20},
		}))
	out := substitute(e, glyphBuffer(1, 1, 20), 0)
	assert.Equal(t, []ot.GlyphIndex{20, 20, 20}, glyphIDs(out))
}

func TestUnsupportedSubtableIsSkipped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{},
		lookup(ot.GSubLookupTypeSingle, 0,
			&ot.UnsupportedSubtable{LookupType: ot.GSubLookupTypeSingle},
			&ot.SingleSubstFmt1{Coverage: cov(1), Delta: 1},
		))
	out := substitute(e, glyphBuffer(1, 2), 0)
	assert.Equal(t, []ot.GlyphIndex{2, 2}, glyphIDs(out))
}

func TestScratchExhaustionSkipsSubtable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	e := gsubEngine(marks(), Config{MaxRecursionDepth: 64, ScratchSize: 1},
		lookup(ot.GSubLookupTypeChainingContext, 0, &ot.ChainedContextFmt3{
			Input:   []*ot.Coverage{cov(1)},
			Records: []ot.SequenceLookupRecord{{SequenceIndex: 0, LookupIndex: 0}},
		}))
	in := glyphBuffer(1)
	out := substitute(e, in, 0)
	assert.Equal(t, glyphIDs(in), glyphIDs(out))
}

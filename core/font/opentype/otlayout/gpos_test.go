package otlayout

import (
	"testing"

	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func metricsBuffer(face Face, glyphs ...ot.GlyphIndex) *Buffer {
	b := glyphBuffer(glyphs...)
	b.SetupMetrics(face)
	return b
}

func TestSinglePos(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	face := marks()
	e := gposEngine(face,
		lookup(ot.GPosLookupTypeSingle, 0, &ot.SinglePosFmt1{
			Coverage: cov(1),
			Value:    ot.ValueRecord{XPlacement: 10, YPlacement: -5, XAdvance: 20},
		}),
		lookup(ot.GPosLookupTypeSingle, 0, &ot.SinglePosFmt2{
			Coverage: cov(1, 2),
			Values:   []ot.ValueRecord{{YAdvance: 7}, {XAdvance: -100}},
		}),
	)
	b := metricsBuffer(face, 1, 2, 3)
	position(e, b, 0)
	assert.Equal(t, GlyphMetrics{XAdvance: 520, XOffset: 10, YOffset: -5}, b.Metrics[0])
	assert.Equal(t, GlyphMetrics{XAdvance: 500}, b.Metrics[1])
	position(e, b, 1)
	assert.Equal(t, GlyphMetrics{XAdvance: 520, YAdvance: 7, XOffset: 10, YOffset: -5}, b.Metrics[0])
	assert.Equal(t, GlyphMetrics{XAdvance: 400}, b.Metrics[1])
	assert.Equal(t, GlyphMetrics{XAdvance: 500}, b.Metrics[2])
	assert.Equal(t, []ot.GlyphIndex{1, 2, 3}, glyphIDs(b), "positioning keeps glyphs")
}

func TestPairPosGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	face := marks()
	e := gposEngine(face,
		lookup(ot.GPosLookupTypePair, ot.LOOKUP_FLAG_IGNORE_MARKS, &ot.PairPosFmt1{
			Coverage: cov(1),
			PairSets: [][]ot.PairValueRecord{{
				{SecondGlyph: 2, Value1: ot.ValueRecord{XAdvance: -50}, Value2: ot.ValueRecord{XPlacement: 5}},
				{SecondGlyph: 4, Value1: ot.ValueRecord{XAdvance: -80}},
			}},
		}))
	b := metricsBuffer(face, 1, 50, 2, 1, 3, 1)
	position(e, b, 0)
	assert.Equal(t, int32(450), b.Metrics[0].XAdvance, "kerned across skipped mark")
	assert.Equal(t, int32(5), b.Metrics[2].XOffset)
	assert.Equal(t, int32(500), b.Metrics[3].XAdvance, "no pair 1-3")
	assert.Equal(t, int32(500), b.Metrics[5].XAdvance, "no second glyph")
}

func TestPairPosClasses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	face := marks()
	e := gposEngine(face,
		lookup(ot.GPosLookupTypePair, 0, &ot.PairPosFmt2{
			Coverage:    cov(1, 2),
			ClassDef1:   ot.NewClassDef(1, 1, 1),
			ClassDef2:   ot.NewClassDef(3, 1),
			Class1Count: 2,
			Class2Count: 2,
			Records: []ot.Class2Record{
				{}, {},
				{}, {Value1: ot.ValueRecord{XAdvance: -70}},
			},
		}))
	b := metricsBuffer(face, 1, 3, 2, 4, 2, 3)
	position(e, b, 0)
	assert.Equal(t, int32(430), b.Metrics[0].XAdvance)
	assert.Equal(t, int32(500), b.Metrics[2].XAdvance, "class 0 second glyph has no adjustment")
	assert.Equal(t, int32(430), b.Metrics[4].XAdvance)
}

func TestMarkToBase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	face := marks()
	e := gposEngine(face,
		lookup(ot.GPosLookupTypeSingle, 0, &ot.SinglePosFmt1{
			Coverage: cov(1),
			Value:    ot.ValueRecord{XPlacement: 10, YPlacement: 5},
		}),
		lookup(ot.GPosLookupTypeMarkToBase, 0, &ot.MarkBasePos{
			MarkCoverage: cov(50, 51),
			BaseCoverage: cov(1),
			ClassCount:   2,
			Marks: []ot.MarkRecord{
				{Class: 0, Anchor: ot.Anchor{X: 100, Y: 20, Valid: true}},
				{Class: 1, Anchor: ot.Anchor{X: 0, Y: 0, Valid: true}},
			},
			BaseAnchors: [][]ot.Anchor{{
				{X: 300, Y: 600, Valid: true},
				{}, // no anchor for class 1
			}},
		}),
	)
	b := metricsBuffer(face, 1, 50, 51)
	position(e, b, 0)
	position(e, b, 1)
	assert.Equal(t, int32(300-100+10), b.Metrics[1].XOffset)
	assert.Equal(t, int32(600-20+5), b.Metrics[1].YOffset)
	assert.Equal(t, GlyphMetrics{}, b.Metrics[2], "invalid anchor leaves mark alone")
	//
	b = metricsBuffer(face, 2, 50)
	position(e, b, 1)
	assert.Equal(t, GlyphMetrics{}, b.Metrics[1], "base not covered")
}

func TestMarkToLigature(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	face := marks()
	e := gposEngine(face,
		lookup(ot.GPosLookupTypeMarkToLigature, 0, &ot.MarkLigPos{
			MarkCoverage:     cov(50),
			LigatureCoverage: cov(100),
			ClassCount:       1,
			Marks:            []ot.MarkRecord{{Anchor: ot.Anchor{X: 50, Y: 50, Valid: true}}},
			LigatureAnchors: [][][]ot.Anchor{{
				{{X: 200, Y: 700, Valid: true}},
				{{X: 800, Y: 700, Valid: true}},
			}},
		}))
	b := metricsBuffer(face, 100, 50, 50)
	b.ComponentIndices[1] = 1
	b.ComponentIndices[2] = 7 // clamped to last component
	position(e, b, 0)
	assert.Equal(t, int32(750), b.Metrics[1].XOffset)
	assert.Equal(t, int32(650), b.Metrics[1].YOffset)
	assert.Equal(t, int32(750), b.Metrics[2].XOffset)
}

func TestMarkToMark(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	face := marks()
	e := gposEngine(face,
		lookup(ot.GPosLookupTypeMarkToMark, 0, &ot.MarkMarkPos{
			Mark1Coverage: cov(51),
			Mark2Coverage: cov(50),
			ClassCount:    1,
			Marks:         []ot.MarkRecord{{Anchor: ot.Anchor{X: 0, Y: 0, Valid: true}}},
			Mark2Anchors:  [][]ot.Anchor{{{X: 10, Y: 200, Valid: true}}},
		}))
	b := metricsBuffer(face, 1, 50, 51)
	b.Metrics[1].YOffset = 300
	position(e, b, 0)
	assert.Equal(t, int32(10), b.Metrics[2].XOffset)
	assert.Equal(t, int32(500), b.Metrics[2].YOffset)
	//
	b = metricsBuffer(face, 100, 50, 51)
	b.ComponentIndices[2] = 1
	position(e, b, 0)
	assert.Equal(t, GlyphMetrics{}, b.Metrics[2], "marks on different components")
}

func TestChainedContextPos(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	face := marks()
	e := gposEngine(face,
		lookup(ot.GPosLookupTypeChainedContextPos, 0, &ot.ChainedContextFmt3{
			Input:     []*ot.Coverage{cov(1)},
			Lookahead: []*ot.Coverage{cov(2)},
			Records:   []ot.SequenceLookupRecord{{SequenceIndex: 0, LookupIndex: 1}},
		}),
		lookup(ot.GPosLookupTypeSingle, 0, &ot.SinglePosFmt1{
			Coverage: cov(1),
			Value:    ot.ValueRecord{XAdvance: -25},
		}),
	)
	b := metricsBuffer(face, 1, 2, 1, 3)
	position(e, b, 0)
	assert.Equal(t, int32(475), b.Metrics[0].XAdvance)
	assert.Equal(t, int32(500), b.Metrics[2].XAdvance)
	assert.Equal(t, []ot.GlyphIndex{1, 2, 1, 3}, glyphIDs(b))
}

func TestPositioningNeedsMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	face := marks()
	e := gposEngine(face,
		lookup(ot.GPosLookupTypeSingle, 0, &ot.SinglePosFmt1{Coverage: cov(1)}))
	in := glyphBuffer(1)
	out := NewBuffer(AttrIndex, 1)
	e.ApplyGPosLookup(testFeature, 0, in, out, 0, 0)
	assert.Equal(t, []ot.GlyphIndex{1}, glyphIDs(out))
}

package otshaper

import (
	"testing"

	"github.com/npillmayer/otengine/core"
	"github.com/npillmayer/otengine/core/font"
	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"github.com/npillmayer/otengine/core/font/opentype/otlayout"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type ShaperTestEnviron struct {
	suite.Suite
	f    *font.ScalableFont
	cmap *font.CMap
}

// listen for 'go test' command --> run test methods
func TestShaperFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	suite.Run(t, new(ShaperTestEnviron))
}

// run once, before test suite methods
func (env *ShaperTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	env.f = font.FallbackFont()
	env.cmap = font.NewCMap(env.f)
	tracing.Select("otengine.fonts").SetTraceLevel(tracing.LevelInfo)
}

// goRegular parses the fallback font, without layout tables of its own.
func (env *ShaperTestEnviron) goRegular() *ot.Font {
	otf, err := ot.Parse(env.f.Binary)
	env.Require().NoError(err)
	otf.F = env.f
	otf.Layout.GSub, otf.Layout.GPos = nil, nil
	return otf
}

func (env *ShaperTestEnviron) glyph(r rune) ot.GlyphIndex {
	g, ok := env.cmap.GlyphIndex(r)
	env.Require().True(ok, "Go Regular must have a glyph for %#U", r)
	return ot.GlyphIndex(g)
}

func glyphs(b *otlayout.Buffer) []ot.GlyphIndex {
	return append([]ot.GlyphIndex{}, b.Glyphs[:b.Len()]...)
}

// --- Tests -----------------------------------------------------------------

func (env *ShaperTestEnviron) TestShapeLatin() {
	otf := env.goRegular()
	shaper := New(otf, env.cmap)
	buf, err := shaper.Shape("Hallo", Params{Script: ot.T("latn")})
	env.Require().NoError(err)
	env.Require().Equal(5, buf.Len())
	for i, r := range "Hallo" {
		env.Equal(env.glyph(r), buf.Glyphs[i])
		env.Equal(r, buf.Codepoints[i])
		env.Equal(otf.GlyphAdvance(buf.Glyphs[i]), buf.Metrics[i].XAdvance)
	}
	env.True(buf.Has(otlayout.AttrMetrics | otlayout.AttrGlyphClass))
}

func (env *ShaperTestEnviron) TestShapeAppliesFeatures() {
	otf := env.goRegular()
	f, i, x := env.glyph('f'), env.glyph('i'), env.glyph('x')
	gsub := &ot.GSubTable{}
	gsub.Scripts = []ot.Script{{
		Tag:            ot.DFLT,
		DefaultLangSys: &ot.LangSys{RequiredFeature: -1, FeatureIndices: []uint16{0}},
	}}
	gsub.Features = []ot.Feature{{Tag: ot.T("liga"), LookupIndices: []uint16{0}}}
	gsub.Lookups = []*ot.LookupTable{{
		Type:             ot.GSubLookupTypeLigature,
		MarkFilteringSet: -1,
		Subtables: []ot.LookupSubtable{&ot.LigatureSubst{
			Coverage:     ot.NewCoverage(f),
			LigatureSets: [][]ot.Ligature{{{Glyph: x, Components: []ot.GlyphIndex{i}}}},
		}},
	}}
	otf.Layout.GSub = gsub
	shaper := New(otf, env.cmap)
	buf, err := shaper.Shape("fif", Params{})
	env.Require().NoError(err)
	env.Equal([]ot.GlyphIndex{x, f}, glyphs(buf), "'liga' is a default feature")
	env.Equal('f', buf.Codepoints[0], "ligature keeps first code-point")
	//
	buf, _ = shaper.Shape("fif", Params{Features: []ot.Tag{ot.T("kern")}})
	env.Equal([]ot.GlyphIndex{f, i, f}, glyphs(buf), "'liga' not enabled")
}

func (env *ShaperTestEnviron) TestShapeRightToLeft() {
	otf := env.goRegular()
	shaper := New(otf, env.cmap)
	buf, err := shaper.Shape("ab", Params{Direction: RightToLeft})
	env.Require().NoError(err)
	env.Equal([]ot.GlyphIndex{env.glyph('b'), env.glyph('a')}, glyphs(buf), "visual order")
	buf, _ = shaper.Shape("a,", Params{Direction: RightToLeft})
	env.Equal('\u2E41', buf.Codepoints[0], "comma is mirrored")
}

func (env *ShaperTestEnviron) TestShapeEmptyAndUnmapped() {
	shaper := New(env.goRegular(), env.cmap)
	buf, err := shaper.Shape("", Params{})
	env.NoError(err)
	env.Equal(0, buf.Len())
	buf, err = shaper.Shape("\u0915", Params{}) // Devanagari KA
	env.NoError(err)
	env.Equal([]ot.GlyphIndex{NOTDEF}, glyphs(buf))
	//
	_, err = New(env.goRegular(), nil).Shape("a", Params{})
	env.Equal(core.EINVALID, core.Code(err))
}

package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/otengine/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func TestLookupRecordTypeString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	assert.Equal(t, "Chaining", GSubLookupTypeChainingContext.GSubString())
	assert.Equal(t, "Reverse", GSubLookupTypeReverseChaining.GSubString())
	assert.Equal(t, "Single", GSubLookupTypeSingle.GSubString())
	assert.Equal(t, "MarkToLigature", GPosLookupTypeMarkToLigature.GPosString())
	assert.Equal(t, "Ext", GPosLookupTypeExtensionPos.GPosString())
	assert.Equal(t, "12", LayoutTableLookupType(12).GSubString())
}

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	assert.Equal(t, "cmap", Tag(0x636d6170).String())
	assert.Equal(t, "cmap", MakeTag([]byte("cmap")).String())
	assert.Equal(t, "cmap", T("cmap").String())
	assert.True(t, validTag(T("OS/2")))
	assert.False(t, validTag(Tag(0x00010203)))
}

func TestKindOfScript(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	assert.Equal(t, StandardScript, KindOfScript(T("latn")))
	assert.Equal(t, SemiticScript, KindOfScript(T("arab")))
	assert.Equal(t, SemiticScript, KindOfScript(T("nko")), "tag padded with space")
	assert.Equal(t, IndicScript, KindOfScript(T("dev2")))
	assert.Equal(t, ComplexScript, KindOfScript(T("lao")))
	assert.Equal(t, "standard", KindOfScript(DFLT).String())
}

func TestTableName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	tb := tableBase{}
	tb.name = 0x636d6170
	assert.Equal(t, "cmap", tb.Self().NameTag().String())
}

// --- Synthetic fonts -------------------------------------------------------

// testFontTables returns the tables of a font with 5 glyphs:
// 0 and 1 are base glyphs, 2 is a ligature, 3 and 4 are marks.
// Glyph 3 is member of mark glyph set 0.
func testFontTables() map[string]bin {
	gsub := layoutTable(map[string][]uint16{"ccmp": {0}},
		lookup(GSubLookupTypeSingle, LOOKUP_FLAG_USE_MARK_FILTERING_SET, singleSubst1(1, 0)))
	return map[string]bin{
		"head": headTable(),
		"maxp": maxpTable(5),
		"hhea": hheaTable(3),
		"hmtx": hmtxTable(500, 600, 700).u16(10, 20),
		"GDEF": gdefTable([]uint16{1, 1, 2, 3, 3}, []GlyphIndex{3}),
		"GSUB": gsub,
	}
}

func TestParseSyntheticFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	otf, err := Parse(sfntFont(testFontTables()))
	require.NoError(t, err)
	assert.Equal(t, 5, otf.NumGlyphs())
	tags := otf.TableTags()
	require.Len(t, tags, 6)
	for i := 1; i < len(tags); i++ {
		assert.Less(t, tags[i-1], tags[i], "table tags have to be sorted")
	}
	assert.Equal(t, uint16(1000), otf.Table(T("head")).Self().AsHead().UnitsPerEm)
	assert.Equal(t, int16(-200), otf.Table(T("hhea")).Self().AsHHea().Descender)
	assert.Nil(t, otf.Table(T("GPOS")))
	assert.Nil(t, otf.Layout.GPos)
	//
	assert.Equal(t, BaseGlyph, otf.GlyphClass(0))
	assert.Equal(t, LigatureGlyph, otf.GlyphClass(2))
	assert.Equal(t, MarkGlyph, otf.GlyphClass(3))
	assert.Equal(t, BaseGlyph, otf.GlyphClass(100), "glyphs without class are base glyphs")
	assert.Equal(t, int32(600), otf.GlyphAdvance(1))
	assert.Equal(t, int32(700), otf.GlyphAdvance(4), "trailing glyphs share last advance")
	_, lsb := otf.hmtx.HMetrics(4)
	assert.Equal(t, int16(20), lsb)
	//
	require.NotNil(t, otf.Layout.GSub)
	assert.NotNil(t, otf.Table(T("GSUB")).Self().AsGSub())
	lookup := otf.Layout.GSub.Lookup(0)
	require.NotNil(t, lookup)
	assert.Equal(t, 0, lookup.MarkFilteringSet)
	require.NotNil(t, lookup.MarkSet, "mark filtering set has to be resolved from GDEF")
	assert.True(t, lookup.MarkSet.Contains(3))
	assert.False(t, lookup.MarkSet.Contains(4))
	assert.Equal(t, lookup.MarkSet, otf.MarkFilteringSet(0))
	assert.Nil(t, otf.MarkFilteringSet(1))
	assert.NotEmpty(t, otf.TableBytes(T("GDEF")))
}

func TestParseFontErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	tables := testFontTables()
	delete(tables, "maxp")
	_, err := Parse(sfntFont(tables))
	assert.True(t, errors.Is(err, ErrTableMissing))
	assert.Equal(t, core.EMISSING, core.Code(err))
	//
	b := sfntFont(testFontTables())
	b[0] = 'X'
	_, err = Parse(b)
	assert.Error(t, err)
	//
	tables = testFontTables()
	gsub := tables["GSUB"]
	gsub[0] = 3 // version 3.0
	_, err = Parse(sfntFont(tables))
	assert.True(t, errors.Is(err, ErrInvalidVersion), "malformed GSUB has to fail font parse")
	//
	_, err = Parse(sfntFont(testFontTables())[:20])
	assert.Error(t, err)
}

func TestGoRegularMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	otf, err := Parse(goregular.TTF)
	require.NoError(t, err)
	ref, err := sfnt.Parse(goregular.TTF)
	require.NoError(t, err)
	assert.Equal(t, ref.NumGlyphs(), otf.NumGlyphs())
	upem := int(otf.Table(T("head")).Self().AsHead().UnitsPerEm)
	assert.Equal(t, int(ref.UnitsPerEm()), upem)
	var buf sfnt.Buffer
	for _, r := range "AVg!" {
		gid, err := ref.GlyphIndex(&buf, r)
		require.NoError(t, err)
		require.NotZero(t, gid)
		adv, err := ref.GlyphAdvance(&buf, gid, fixed.I(upem), xfont.HintingNone)
		require.NoError(t, err)
		assert.Equal(t, adv, fixed.Int26_6(otf.GlyphAdvance(GlyphIndex(gid))<<6),
			"advance of %q differs from x/image/font/sfnt", r)
	}
}

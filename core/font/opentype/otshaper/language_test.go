package otshaper

import (
	"testing"

	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestLanguageTagForLanguage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	langs := []struct {
		in  string
		out string
	}{
		{"DE", "DEU"},
		{"DE_de", "DEU"},
		{"DE_ch", "DEU"},
		{"EN_us", "ENG"},
		{"tr", "TRK"},
	}
	for _, pair := range langs {
		tag := LanguageTagForLanguage(language.Make(pair.in), language.High)
		assert.Equal(t, ot.T(pair.out), tag, "expected language match %s", pair.out)
	}
	assert.Equal(t, ot.DFLT, LanguageTagForLanguage(language.Make("sw"), language.High))
}

func TestScriptTagForScript(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	for in, out := range map[string]string{
		"Latn": "latn",
		"Arab": "arab",
		"Deva": "dev2",
		"Mlym": "mlm2",
		"Hant": "hani",
		"Zzzz": "DFLT",
	} {
		assert.Equal(t, ot.T(out), ScriptTagForScript(language.MustParseScript(in)), "script %s", in)
	}
	script, _ := language.Make("ar").Script()
	assert.Equal(t, ot.T("arab"), ScriptTagForScript(script))
}

func TestPrefersDecomposed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	assert.True(t, prefersDecomposed(ot.T("dev2"), ot.T("HIN")))
	assert.False(t, prefersDecomposed(ot.T("latn"), ot.DFLT))
}

func TestDirectionOf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	assert.Equal(t, LeftToRight, DirectionOf("abc"))
	assert.Equal(t, RightToLeft, DirectionOf("\u0627\u0628"))
	assert.Equal(t, RightToLeft, DirectionOf("123 \u05D0"), "digits are weak")
	assert.Equal(t, LeftToRight, DirectionOf(""))
	assert.Equal(t, "RTL", RightToLeft.String())
}

func TestMirror(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otengine.fonts")
	defer teardown()
	//
	assert.Equal(t, "a\u2E41 b\u204F c\u2E2E", mirror("a, b; c?"))
}

/*
Package otshaper is about OpenType text shaping.

From the Harfbuzz documentation (https://harfbuzz.github.io/what-is-harfbuzz.html):

“Text shaping is the process of translating a string of character codes (such
as Unicode codepoints) into a properly arranged sequence of glyphs that can be
rendered onto a screen or into final output form for inclusion in a document.
The shaping process is dependent on the input string, the active font, the script
(or writing system) that the string is in, and the language that the string is in.”

A Shaper normalizes the input text (NFC, or NFD for scripts preferring
decomposed forms), maps code-points to glyphs with the font's character map,
and then lets the lookup engine of package otlayout apply the GSUB and GPOS
features for the script and language:

	otf, _ := ot.Parse(f.Binary)
	shaper := otshaper.New(otf, font.NewCMap(f))
	buf, err := shaper.Shape("Affe", otshaper.Params{Script: ot.T("latn")})

Script and language tags may be derived from BCP 47 language tags with
ScriptTagForScript and LanguageTagForLanguage.

For a thorough introduction take a look at this document:
https://github.com/n8willis/opentype-shaping-documents/tree/master.

# Status

No Indic syllable reordering and no Unicode bidi algorithm: text is expected
to be a single directional run.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otshaper

import (
	"github.com/npillmayer/otengine/core"
	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"github.com/npillmayer/schuko/tracing"
)

// NOTDEF represents OpenType `.notdef`.
const NOTDEF = ot.GlyphIndex(0)

// tracer writes to trace with key 'otengine.fonts'
func tracer() tracing.Trace {
	return tracing.Select("otengine.fonts")
}

// errShaper produces user level errors for text shaping.
func errShaper(x string) error {
	return core.Error(core.EINVALID, "OpenType text shaping: %s", x)
}

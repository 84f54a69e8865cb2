/*
Package otlayout applies OpenType layout lookups to glyph buffers.

The engine works on a `Buffer`, which stores glyphs as parallel attribute
arrays: glyph index, codepoint, glyph class, mark attachment class, ligature
component index and positioning metrics. A bit set tells which of the arrays
are valid. Lookups read from one buffer and write to another; the two are
then swapped. The feature stages do this on behalf of clients:

	buf := otlayout.NewBuffer(otlayout.AttrIndex|otlayout.AttrCodepoint|otlayout.AttrComponentIndex, n)
	…                                   // fill in glyphs, e.g. from a cmap
	engine := otlayout.ForFont(otf, otlayout.Config{})
	engine.ApplyGSubFeatures(buf, script, lang, features)
	engine.ApplyGPosFeatures(buf, script, lang, features)

Lookup flags may tell the engine to skip glyphs of certain classes. Before
applying a subtable, the engine partitions the buffer into runs of skipped
and non-skipped glyphs (a `RangeList`). Ligatures and contexts are matched
over the non-skipped glyphs only; skipped glyphs are carried over in place.

Contextual lookups call nested lookups recursively. Recursion is bounded by
`Config.MaxRecursionDepth`; a span reaching the bound is left unchanged.

# Status

GSUB lookup types 1 to 8 are supported. For GPOS, cursive attachment and
context positioning formats 1 and 2 are skipped. Device tables are ignored.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otlayout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otengine.fonts'
func tracer() tracing.Trace {
	return tracing.Select("otengine.fonts")
}

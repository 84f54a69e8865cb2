/*
Package otquery queries metrics and other information from OpenType fonts.

Package otquery provides functions to query layout information from a font. It knows about
the various tables contained in OpenType fonts and which ones to address for queries.
Clients of this package will, amongst other, be:

▪︎ text shapers, such as HarfBuzz (https://harfbuzz.github.io/what-does-harfbuzz-do.html)

▪︎ glyph rasterizers, such as FreeType (https://github.com/golang/freetype)

▪︎ inspection tools, such as command `otcli` of this module

All queries are read-only and may be issued concurrently.

# Status

No font collections nor variable fonts are supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otengine.fonts'
func tracer() tracing.Trace {
	return tracing.Select("otengine.fonts")
}

/*
Package ot provides access to OpenType font tables, with a focus on the
advanced layout tables GSUB, GPOS and GDEF.

Intended audience for this package are text shapers, most prominently the
lookup engine in sister package `otlayout`. Package `ot` will not apply any
layout rule, but rather parse the tables into a Go representation which lends
itself to efficient lookup application:

▪︎ Coverage and class definition tables are read into sorted arrays which are
searched by bisection.

▪︎ Every lookup subtable format is parsed into its own Go type, carrying only the
fields this format needs. Clients switch over the concrete type of a
`LookupSubtable`; there is no untyped access to subtable data.

▪︎ Extension subtables (GSUB type 7, GPOS type 9) are unwrapped while parsing.
Clients will never see them.

▪︎ Glyph arrays of parsed layout tables are allocated from a per-table arena
(package `core/arena`). A font which would need more memory than the arena
provides is rejected instead of being parsed partially.

# Reading Binary Font Data

Offsets in OpenType layout tables are always relative to the start of the
structure containing them. Parsing therefore uses a `Parser`, which is a
cursor over the font's bytes with a stack of saved positions. Entering a
sub-structure at offset n pushes a state:

	p.PushState(int(offset))  // now positioned at start of sub-table
	format, err := p.ReadU16()
	…
	p.PopState()              // back to where we left off

Pushes and pops must be nested. The stack is capacity-checked, which limits
the nesting depth of malicious fonts.

# Faces

A parsed `Font` implements the face collaborator of the lookup engine: number
of glyphs, horizontal advances from 'hmtx', and glyph classes and mark
attachment classes from 'GDEF'. Character to glyph mapping is not part of this
package.

# Status

No font collections nor variable fonts are supported. Device tables and
variation indices are skipped while reading value records and anchors.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"errors"

	"github.com/npillmayer/otengine/core"
	"github.com/npillmayer/schuko/tracing"
)

// Valuable resource:
// http://opentypecookbook.com/

// tracer writes to trace with key 'otengine.fonts'
func tracer() tracing.Trace {
	return tracing.Select("otengine.fonts")
}

// Kinds of errors occuring during font parsing. Errors returned by this
// package wrap one of these, together with a core error code.
var (
	ErrInvalidTag            = errors.New("invalid table tag")
	ErrInvalidVersion        = errors.New("invalid table version")
	ErrInvalidLookupType     = errors.New("invalid lookup type")
	ErrInvalidSubtableFormat = errors.New("invalid lookup subtable format")
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrInvalidFormat         = errors.New("invalid binary format")
	ErrTableMissing          = errors.New("requested table absent from font")
	ErrUnexpectedValue       = errors.New("unexpected value")
	ErrSetupFailed           = errors.New("setup failed")
)

// errFontFormat produces user level errors for font parsing.
func errFontFormat(x string) error {
	return core.WrapError(ErrInvalidFormat, core.EINVALID, "OpenType font format: %s", x)
}

// errKind produces an error of a given kind.
func errKind(kind error, format string, v ...interface{}) error {
	code := core.EINVALID
	if kind == ErrTableMissing {
		code = core.EMISSING
	}
	return core.WrapError(kind, code, format, v...)
}

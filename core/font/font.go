/*
Package font loads font binaries and provides the character map collaborator
of the shaper.

We stick to the following nomenclature:

▪︎ A "typeface" is a family of fonts. An example is "Helvetica".

▪︎ A "scalable font" is a variant of a typeface with a certain weight, slant,
etc. An example is "Helvetica regular".

▪︎ A "typecase" is a scalable font at a certain size.

Please note that Go (Golang) does use the terms "font" and "face"
differently, actually more or less in an opposite manner.

Fonts are either loaded from a file, located on the system by name (see
Locate), or taken from the fallback font, which is always present.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package font

import (
	"os"
	"sync"

	"github.com/npillmayer/otengine/core"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tracer writes to trace with key 'otengine.fonts'
func tracer() tracing.Trace {
	return tracing.Select("otengine.fonts")
}

// ScalableFont is a font binary together with its SFNT container.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path, "internal" for the fallback font
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont creates a scalable font from font binary data.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	if f.SFNT, err = sfnt.Parse(f.Binary); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse font binary")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	tracer().Debugf("parsed font %q", f.Fontname)
	return
}

// --- Typecases -------------------------------------------------------------

// TypeCase is a scalable font at a given point size.
type TypeCase struct {
	parent *ScalableFont
	face   xfont.Face // Go uses 'face' and 'font' in an inverse manner
	size   float64
}

// PrepareCase creates a typecase for a font size in points.
// Sizes outside of 5pt…500pt are set to 10pt.
func (sf *ScalableFont) PrepareCase(fontsize float64) (*TypeCase, error) {
	if fontsize < 5.0 || fontsize > 500.0 {
		tracer().Infof("font size must be 5pt < size < 500pt, is %g (set to 10pt)", fontsize)
		fontsize = 10.0
	}
	face, err := opentype.NewFace(sf.SFNT, &opentype.FaceOptions{
		Size: fontsize,
		DPI:  72,
	})
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot create face for %s", sf.Fontname)
	}
	return &TypeCase{parent: sf, face: face, size: fontsize}, nil
}

// ScalableFontParent returns the font this typecase has been created from.
func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.parent
}

// PtSize returns the size of the typecase in points.
func (tc *TypeCase) PtSize() float64 {
	return tc.size
}

// LineHeight returns the recommended interline spacing.
func (tc *TypeCase) LineHeight() fixed.Int26_6 {
	return tc.face.Metrics().Height
}

// Scale converts a distance in font units to the size of the typecase.
func (tc *TypeCase) Scale(units int32) fixed.Int26_6 {
	upem := tc.parent.SFNT.UnitsPerEm()
	if upem == 0 {
		return 0
	}
	return fixed.Int26_6(int64(units) * int64(fixed.I(1)) * int64(tc.size*64) / 64 / int64(upem))
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go Sans",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}

// --- Character map ---------------------------------------------------------

// CMap maps code-points to glyph indices, using the character map of a font.
//
// A CMap is not safe for concurrent use, as it carries an SFNT buffer.
// Create one per goroutine.
type CMap struct {
	f   *sfnt.Font
	buf sfnt.Buffer
}

// NewCMap creates a character map for a font.
func NewCMap(sf *ScalableFont) *CMap {
	return &CMap{f: sf.SFNT}
}

// GlyphIndex returns the glyph for a code-point. If the font does not contain
// a glyph for r, it returns (0, false), 0 being the '.notdef' glyph.
func (cm *CMap) GlyphIndex(r rune) (uint16, bool) {
	if cm == nil || cm.f == nil {
		return 0, false
	}
	g, err := cm.f.GlyphIndex(&cm.buf, r)
	if err != nil || g == 0 {
		return 0, false
	}
	return uint16(g), true
}

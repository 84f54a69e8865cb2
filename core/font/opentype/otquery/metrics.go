package otquery

import (
	"github.com/npillmayer/otengine/core/font"
	"github.com/npillmayer/otengine/core/font/opentype"
	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"golang.org/x/image/font/sfnt"
)

// --- Font Information -------------------------------------------------

// FontMetrics retrieves selected metrics of a font.
func FontMetrics(otf *ot.Font) opentype.FontMetricsInfo {
	metrics := opentype.FontMetricsInfo{}
	if hhea := otf.Table(ot.T("hhea")); hhea != nil {
		hh := hhea.Self().AsHHea()
		metrics.Ascent = sfnt.Units(hh.Ascender)
		metrics.Descent = sfnt.Units(hh.Descender)
		metrics.LineGap = sfnt.Units(hh.LineGap)
		metrics.MaxAdvance = sfnt.Units(hh.AdvanceWidthMax)
	}
	if metrics.Ascent == 0 && metrics.Descent == 0 {
		if b := otf.TableBytes(ot.T("OS/2")); len(b) >= 72 {
			a := sfnt.Units(i16(b[68:])) // sTypoAscender
			if a > metrics.Ascent {
				tracer().Debugf("override of ascent: %d -> %d", metrics.Ascent, a)
				metrics.Ascent = a
			}
			d := sfnt.Units(i16(b[70:])) // sTypoDescender
			if d < metrics.Descent {
				tracer().Debugf("override of descent: %d -> %d", metrics.Descent, d)
				metrics.Descent = d
			}
		}
	}
	if head := otf.Table(ot.T("head")); head != nil { // required table, checked by the parser
		metrics.UnitsPerEm = sfnt.Units(head.Self().AsHead().UnitsPerEm)
	}
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a give code-point.
// If the code-point cannot be found, 0 is returned.
// Character mapping needs the scalable font the OpenType font has been
// parsed from, i.e. otf.F has to be set.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphIndex {
	if otf.F == nil {
		tracer().Errorf("font has no character map")
		return 0
	}
	g, _ := font.NewCMap(otf.F).GlyphIndex(codepoint)
	return ot.GlyphIndex(g)
}

// GlyphMetrics retrieves metrics for a given glyph.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) opentype.GlyphMetricsInfo {
	metrics := opentype.GlyphMetricsInfo{}
	//
	// table HMtx: advance width and left side bearing
	if t := otf.Table(ot.T("hmtx")); t != nil {
		adv, lsb := t.Self().AsHMtx().HMetrics(gid)
		metrics.Advance = sfnt.Units(adv)
		metrics.LSB = sfnt.Units(lsb)
	}
	//
	// table glyf: bounding box
	if glyf := otf.TableBytes(ot.T("glyf")); glyf != nil {
		if lo := otf.Table(ot.T("loca")); lo != nil {
			loca := lo.Self().AsLoca()
			loc, next := int(loca.IndexToLocation(gid)), int(loca.IndexToLocation(gid+1))
			if next > loc && loc+10 <= len(glyf) { // glyphs without outline have no data
				b := glyf[loc:]
				metrics.BBox = opentype.BoundingBox{
					MinX: sfnt.Units(i16(b[2:])),
					MinY: sfnt.Units(i16(b[4:])),
					MaxX: sfnt.Units(i16(b[6:])),
					MaxY: sfnt.Units(i16(b[8:])),
				}
			}
		}
	}
	// RSB calculation: rsb = aw - (lsb + xMax - xMin)
	// From the OpenType specification:
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing indicated
	// in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.Empty() { // leave RSB for empty bboxes
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}

// --- Helpers ----------------------------------------------------------

func i16(b []byte) int16 {
	return int16(b[0])<<8 | int16(b[1])<<0
}

/*
Package opentype is the root of the OpenType layout engine of otengine.

Sub-packages split the work as follows:

	ot        parsing of fonts into tables, coverages, class definitions and lookups
	otlayout  glyph buffers and the application of GSUB and GPOS lookups
	otshaper  mapping of text to glyphs and a complete shaping pipeline
	otquery   information about fonts, glyphs, scripts and features
	otcli     an interactive inspector

This package holds the metric types shared between them. All metrics are in
font design units.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package opentype

import (
	"fmt"

	"golang.org/x/image/font/sfnt"
)

// FontMetricsInfo holds the vertical metrics of a font.
type FontMetricsInfo struct {
	UnitsPerEm      sfnt.Units
	Ascent, Descent sfnt.Units // Descent is negative for glyphs below the baseline
	LineGap         sfnt.Units
	MaxAdvance      sfnt.Units // from 'hhea'
}

// LineHeight is ascent, plus descent, plus line gap.
func (m FontMetricsInfo) LineHeight() sfnt.Units {
	return m.Ascent - m.Descent + m.LineGap
}

// GlyphMetricsInfo holds the horizontal metrics and the outline extent of a glyph.
type GlyphMetricsInfo struct {
	Advance  sfnt.Units
	LSB, RSB sfnt.Units // side bearings; RSB stays 0 for glyphs without outline
	BBox     BoundingBox
}

func (m GlyphMetricsInfo) String() string {
	return fmt.Sprintf("[adv=%d lsb=%d rsb=%d box=%v]", m.Advance, m.LSB, m.RSB, m.BBox)
}

// BoundingBox is the bounding box of a glyph outline.
type BoundingBox struct {
	MinX, MinY sfnt.Units
	MaxX, MaxY sfnt.Units
}

// Empty is true for boxes without area.
func (bbox BoundingBox) Empty() bool {
	return bbox.Dx() == 0 || bbox.Dy() == 0
}

// Dx returns the width of the box.
func (bbox BoundingBox) Dx() sfnt.Units {
	return bbox.MaxX - bbox.MinX
}

// Dy returns the height of the box.
func (bbox BoundingBox) Dy() sfnt.Units {
	return bbox.MaxY - bbox.MinY
}

func (bbox BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", bbox.MinX, bbox.MinY, bbox.MaxX, bbox.MaxY)
}

package otshaper

import (
	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"github.com/npillmayer/otengine/core/font/opentype/otlayout"
)

// Params are the parameters of a shaping run.
type Params struct {
	Script    ot.Tag   // OpenType script tag, 0 for DFLT
	Language  ot.Tag   // OpenType language tag, 0 for DFLT
	Direction Direction
	Features  []ot.Tag // if empty, DefaultFeatures(Script) are enabled
}

// Shaper shapes text with an OpenType font.
//
// A shaper is not safe for concurrent use. It is cheap to create one shaper
// per goroutine, as the layout tables of a font are shared.
type Shaper struct {
	otf    *ot.Font
	cmap   CMap
	engine *otlayout.Engine
}

// New creates a shaper for a font with its character map.
func New(otf *ot.Font, cmap CMap) *Shaper {
	return NewWithConfig(otf, cmap, otlayout.Config{})
}

// NewWithConfig creates a shaper for a font with its character map, using
// an engine configured by cfg.
func NewWithConfig(otf *ot.Font, cmap CMap, cfg otlayout.Config) *Shaper {
	return &Shaper{
		otf:    otf,
		cmap:   cmap,
		engine: otlayout.ForFont(otf, cfg),
	}
}

// Shape translates text into a sequence of positioned glyphs.
//
// The pipeline is:
//
//	normalize → cmap → GSUB features → metrics → GPOS features → mark correction → flip (RTL)
//
// The resulting buffer holds glyph indices, code-points, glyph classes and
// metrics. Code-points of ligatures are the code-points of their first
// component. For right-to-left text the buffer is in visual order.
func (s *Shaper) Shape(text string, params Params) (*otlayout.Buffer, error) {
	if s.otf == nil || s.cmap == nil {
		return nil, errShaper("shaper needs a font and a character map")
	}
	script, lang := params.Script, params.Language
	if script == 0 {
		script = ot.DFLT
	}
	if lang == 0 {
		lang = ot.DFLT
	}
	dir := params.Direction
	if dir == DirectionAuto {
		dir = DirectionOf(text)
	}
	features := params.Features
	if len(features) == 0 {
		features = DefaultFeatures(script)
	}
	tracer().Debugf("shaping %q, script '%s', language '%s', %s", text, script, lang, dir)
	if dir == RightToLeft {
		text = mirror(text)
	}
	glyphs := mapGlyphs(text, s.cmap, script, lang)
	buf := otlayout.NewBuffer(otlayout.AttrIndex|otlayout.AttrCodepoint|otlayout.AttrComponentIndex, len(glyphs))
	for _, m := range glyphs {
		buf.AddGlyph(otlayout.Glyph{Index: m.glyph, Codepoint: m.r})
	}
	if buf.Len() == 0 {
		return buf, nil
	}
	s.engine.ApplyGSubFeatures(buf, script, lang, features)
	buf.SetupMetrics(s.otf)
	s.engine.ApplyGPosFeatures(buf, script, lang, features)
	buf.ComputeInfo(s.otf)
	buf.CorrectMarkMetrics()
	if dir == RightToLeft {
		buf.FlipDirection()
	}
	return buf, nil
}

// DefaultFeatures returns the features enabled for a script if a client does
// not state features explicitly. Tags for GSUB and GPOS are mixed; each stage
// picks the features present in its table.
func DefaultFeatures(script ot.Tag) []ot.Tag {
	var tags []string
	switch ot.KindOfScript(script) {
	case ot.SemiticScript:
		tags = []string{"ccmp", "locl", "isol", "fina", "medi", "init", "rlig", "calt",
			"liga", "curs", "kern", "mark", "mkmk"}
	case ot.IndicScript:
		tags = []string{"ccmp", "locl", "nukt", "akhn", "rphf", "blwf", "half", "pstf",
			"vatu", "cjct", "pres", "abvs", "blws", "psts", "haln", "calt", "kern", "dist",
			"abvm", "blwm"}
	default:
		tags = []string{"ccmp", "locl", "rlig", "liga", "clig", "calt", "kern", "mark", "mkmk"}
	}
	features := make([]ot.Tag, len(tags))
	for i, t := range tags {
		features[i] = ot.T(t)
	}
	return features
}

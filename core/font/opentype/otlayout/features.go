package otlayout

import (
	"slices"

	"github.com/npillmayer/otengine/core/font/opentype/ot"
)

// ApplyGSubFeatures applies the GSUB lookups of features, active for script
// and lang, to buf. Lookups are applied in lookup list order, not in feature
// order. The required feature of the language system is always
// applied. Each lookup sees the result of its predecessor; buf holds the final
// result. Returns the lookups applied.
//
// buf needs glyph indices. Only glyph indices, codepoints and component
// indices survive substitution; other attributes are dropped if the number
// of glyphs changes.
func (e *Engine) ApplyGSubFeatures(buf *Buffer, script, lang ot.Tag, features []ot.Tag) []ot.FeatureLookup {
	if e.gsub == nil || !buf.Has(AttrIndex) {
		return nil
	}
	lookups := lookupsFor(e.gsub, script, lang, features)
	tracer().Debugf("GSUB stage: %d lookups for script '%s', language '%s'", len(lookups), script, lang)
	out := NewBuffer(buf.Attribs&(AttrIndex|AttrCodepoint|AttrComponentIndex), buf.Len())
	for _, fl := range lookups {
		e.prepareScratch(buf.Len())
		e.applyLookup(substitution, fl.Feature, fl.Shared, fl.LookupIndex, buf, out, 0, buf.Len()-1, 0)
		SwapBuffers(buf, out)
	}
	return lookups
}

// ApplyGPosFeatures applies the GPOS lookups of features, active for script
// and lang, to the metrics of buf. If buf has no metrics yet, they are set up
// from the engine's face first. Returns the lookups applied.
func (e *Engine) ApplyGPosFeatures(buf *Buffer, script, lang ot.Tag, features []ot.Tag) []ot.FeatureLookup {
	if e.gpos == nil || !buf.Has(AttrIndex) {
		return nil
	}
	if !buf.Has(AttrMetrics) {
		buf.SetupMetrics(e.face)
	}
	lookups := lookupsFor(e.gpos, script, lang, features)
	tracer().Debugf("GPOS stage: %d lookups for script '%s', language '%s'", len(lookups), script, lang)
	out := NewBuffer(AttrMetrics, buf.Len())
	for _, fl := range lookups {
		e.prepareScratch(buf.Len())
		e.applyLookup(positioning, fl.Feature, fl.Shared, fl.LookupIndex, buf, out, 0, buf.Len()-1, 0)
		SwapBuffers(buf, out)
	}
	return lookups
}

// lookupsFor collects the lookups of features plus the required feature of
// the language system for script and lang.
func lookupsFor(t *ot.LayoutTable, script, lang ot.Tag, features []ot.Tag) []ot.FeatureLookup {
	if ls := t.LangSysFor(script, lang); ls != nil {
		if ls.RequiredFeature >= 0 && ls.RequiredFeature < len(t.Features) {
			features = append(slices.Clip(features), t.Features[ls.RequiredFeature].Tag)
		}
	}
	return t.LookupsFor(script, lang, features)
}

package otlayout

import (
	"sort"

	"github.com/npillmayer/otengine/core/font/opentype/ot"
)

// position applies a GPOS subtable to src, writing metrics to dst. GPOS
// lookups never change the number of glyphs, so positions in src and dst
// correspond one to one.
func (p *lookupPass) position(sub ot.LookupSubtable) {
	if !p.src.Has(AttrIndex | AttrMetrics) {
		tracer().Errorf("GPOS lookup needs glyph indices and metrics, buffer has %08b", p.src.Attribs)
		p.copyAll()
		return
	}
	switch st := sub.(type) {
	case *ot.SinglePosFmt1:
		p.walk(func(g, u int) int {
			if !p.applicable(g) || !st.Coverage.Contains(p.src.Glyphs[g]) {
				return p.keep(g)
			}
			p.adjusted(g, st.Value)
			return g + 1
		})
	case *ot.SinglePosFmt2:
		p.walk(func(g, u int) int {
			inx := st.Coverage.Search(p.src.Glyphs[g])
			if inx < 0 || inx >= len(st.Values) || !p.applicable(g) {
				return p.keep(g)
			}
			p.adjusted(g, st.Values[inx])
			return g + 1
		})
	case *ot.PairPosFmt1:
		p.walk(func(g, u int) int {
			inx := st.Coverage.Search(p.src.Glyphs[g])
			if inx < 0 || inx >= len(st.PairSets) || u+1 >= p.unignoredCount() {
				return p.keep(g)
			}
			second := p.glyphAt(u + 1)
			set := st.PairSets[inx]
			k := sort.Search(len(set), func(k int) bool { return set[k].SecondGlyph >= second })
			if k == len(set) || set[k].SecondGlyph != second {
				return p.keep(g)
			}
			addValue(&p.src.Metrics[p.rl.Unignored[u+1]], set[k].Value2)
			p.adjusted(g, set[k].Value1)
			return g + 1
		})
	case *ot.PairPosFmt2:
		p.walk(func(g, u int) int {
			if !st.Coverage.Contains(p.src.Glyphs[g]) || u+1 >= p.unignoredCount() {
				return p.keep(g)
			}
			c1 := st.ClassDef1.Lookup(p.src.Glyphs[g])
			c2 := st.ClassDef2.Lookup(p.glyphAt(u + 1))
			rec, ok := st.Record(int(c1), int(c2))
			if !ok {
				return p.keep(g)
			}
			addValue(&p.src.Metrics[p.rl.Unignored[u+1]], rec.Value2)
			p.adjusted(g, rec.Value1)
			return g + 1
		})
	case *ot.MarkBasePos:
		p.walk(func(g, u int) int {
			mark := st.MarkCoverage.Search(p.src.Glyphs[g])
			if mark < 0 || mark >= len(st.Marks) {
				return p.keep(g)
			}
			base := SearchPrevGlyph(p.src, g, ot.MarkGlyph, ot.BaseGlyph)
			if base < 0 {
				return p.keep(g)
			}
			inx := st.BaseCoverage.Search(p.src.Glyphs[base])
			if inx < 0 || inx >= len(st.BaseAnchors) {
				return p.keep(g)
			}
			return p.attach(g, base, st.Marks[mark], st.BaseAnchors[inx])
		})
	case *ot.MarkLigPos:
		p.walk(func(g, u int) int {
			mark := st.MarkCoverage.Search(p.src.Glyphs[g])
			if mark < 0 || mark >= len(st.Marks) {
				return p.keep(g)
			}
			lig := SearchPrevGlyph(p.src, g, ot.MarkGlyph, ot.LigatureGlyph)
			if lig < 0 {
				return p.keep(g)
			}
			inx := st.LigatureCoverage.Search(p.src.Glyphs[lig])
			if inx < 0 || inx >= len(st.LigatureAnchors) || len(st.LigatureAnchors[inx]) == 0 {
				return p.keep(g)
			}
			components := st.LigatureAnchors[inx]
			comp := 0
			if p.src.Has(AttrComponentIndex) {
				comp = min(int(p.src.ComponentIndices[g]), len(components)-1)
			}
			return p.attach(g, lig, st.Marks[mark], components[comp])
		})
	case *ot.MarkMarkPos:
		p.walk(func(g, u int) int {
			mark := st.Mark1Coverage.Search(p.src.Glyphs[g])
			if mark < 0 || mark >= len(st.Marks) {
				return p.keep(g)
			}
			prev := SearchPrevGlyph(p.src, g, ot.MarkGlyph, ot.MarkGlyph)
			if prev < 0 {
				return p.keep(g)
			}
			if p.src.Has(AttrComponentIndex) &&
				p.src.ComponentIndices[prev] != p.src.ComponentIndices[g] {
				return p.keep(g)
			}
			inx := st.Mark2Coverage.Search(p.src.Glyphs[prev])
			if inx < 0 || inx >= len(st.Mark2Anchors) {
				return p.keep(g)
			}
			return p.attach(g, prev, st.Marks[mark], st.Mark2Anchors[inx])
		})
	case *ot.UnsupportedSubtable:
		tracer().Debugf("GPOS lookup type %d not supported, subtable skipped", st.LookupType)
		p.copyAll()
	default:
		if !p.contextual(sub) {
			tracer().Errorf("GPOS lookup with unexpected subtable %T", sub)
			p.copyAll()
		}
	}
}

// addValue adds the adjustments of value record vr to m.
func addValue(m *GlyphMetrics, vr ot.ValueRecord) {
	m.XAdvance += int32(vr.XAdvance)
	m.YAdvance += int32(vr.YAdvance)
	m.XOffset += int32(vr.XPlacement)
	m.YOffset += int32(vr.YPlacement)
}

// adjusted writes glyph g with metrics adjusted by vr to dst.
func (p *lookupPass) adjusted(g int, vr ot.ValueRecord) {
	glyph := p.src.Glyph(g)
	addValue(&glyph.Metrics, vr)
	p.dst.AddGlyph(glyph)
}

// metricsOf returns the current metrics of glyph i, which has already been
// written to dst if i precedes the glyph being processed.
func (p *lookupPass) metricsOf(i int) GlyphMetrics {
	if p.dst.Has(AttrMetrics) && i < p.dst.Len() {
		return p.dst.Metrics[i]
	}
	return p.src.Metrics[i]
}

// attach positions mark g at the anchor of glyph to, with anchors indexed by
// mark class. The mark offset is relative to the origin of to: the anchor of
// to, plus the offset of to, minus the mark anchor.
func (p *lookupPass) attach(g, to int, mark ot.MarkRecord, anchors []ot.Anchor) int {
	if int(mark.Class) >= len(anchors) || !anchors[mark.Class].Valid || !mark.Anchor.Valid {
		return p.keep(g)
	}
	a := anchors[mark.Class]
	base := p.metricsOf(to)
	glyph := p.src.Glyph(g)
	glyph.Metrics.XOffset = int32(a.X) + base.XOffset - int32(mark.Anchor.X)
	glyph.Metrics.YOffset = int32(a.Y) + base.YOffset - int32(mark.Anchor.Y)
	p.dst.AddGlyph(glyph)
	return g + 1
}

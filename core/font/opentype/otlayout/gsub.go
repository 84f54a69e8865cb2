package otlayout

import "github.com/npillmayer/otengine/core/font/opentype/ot"

// substitute applies a GSUB subtable to src, writing the result to dst.
func (p *lookupPass) substitute(sub ot.LookupSubtable) {
	if !p.src.Has(AttrIndex) {
		tracer().Errorf("GSUB lookup needs glyph indices, buffer has %08b", p.src.Attribs)
		p.copyAll()
		return
	}
	switch st := sub.(type) {
	case *ot.SingleSubstFmt1:
		p.walk(func(g, u int) int {
			if !p.applicable(g) || !st.Coverage.Contains(p.src.Glyphs[g]) {
				return p.keep(g)
			}
			p.replace(g, p.src.Glyphs[g]+ot.GlyphIndex(uint16(st.Delta)))
			return g + 1
		})
	case *ot.SingleSubstFmt2:
		p.walk(func(g, u int) int {
			inx := st.Coverage.Search(p.src.Glyphs[g])
			if inx < 0 || inx >= len(st.Substitutes) || !p.applicable(g) {
				return p.keep(g)
			}
			p.replace(g, st.Substitutes[inx])
			return g + 1
		})
	case *ot.MultipleSubst:
		p.walk(func(g, u int) int {
			inx := st.Coverage.Search(p.src.Glyphs[g])
			if inx < 0 || inx >= len(st.Sequences) || !p.applicable(g) {
				return p.keep(g)
			}
			for _, gl := range st.Sequences[inx] { // empty sequence deletes g
				p.replace(g, gl)
			}
			return g + 1
		})
	case *ot.AlternateSubst:
		p.walk(func(g, u int) int {
			inx := st.Coverage.Search(p.src.Glyphs[g])
			if inx < 0 || inx >= len(st.Alternates) || !p.applicable(g) {
				return p.keep(g)
			}
			alts := st.Alternates[inx]
			n := p.e.cfg.Alternate
			if n < 0 {
				n = len(alts) - 1
			}
			if n < 0 || n >= len(alts) {
				return p.keep(g)
			}
			p.replace(g, alts[n])
			return g + 1
		})
	case *ot.LigatureSubst:
		p.walk(func(g, u int) int {
			inx := st.Coverage.Search(p.src.Glyphs[g])
			if inx < 0 || inx >= len(st.LigatureSets) || !p.applicable(g) {
				return p.keep(g)
			}
			for _, lig := range st.LigatureSets[inx] {
				if p.matchLigature(u, lig) {
					return p.ligate(g, u, lig)
				}
			}
			return p.keep(g)
		})
	case *ot.ReverseChainSingleSubst:
		p.reverseChain(st)
	case *ot.UnsupportedSubtable:
		tracer().Debugf("GSUB lookup type %d not supported, subtable skipped", st.LookupType)
		p.copyAll()
	default:
		if !p.contextual(sub) {
			tracer().Errorf("GSUB lookup with unexpected subtable %T", sub)
			p.copyAll()
		}
	}
}

// replace writes glyph g of src with glyph index gl to dst. Codepoint and
// component index are kept.
func (p *lookupPass) replace(g int, gl ot.GlyphIndex) {
	glyph := p.src.Glyph(g)
	glyph.Index = gl
	p.dst.AddGlyph(glyph)
}

// matchLigature is true if the components of lig follow unignored position u.
func (p *lookupPass) matchLigature(u int, lig ot.Ligature) bool {
	if u+len(lig.Components) >= p.unignoredCount() {
		return false
	}
	for k, c := range lig.Components {
		if p.glyphAt(u+1+k) != c {
			return false
		}
	}
	return true
}

// ligate writes ligature lig for the components starting at unignored
// position u. The ligature keeps the codepoint and component index of the
// first component. Skipped glyphs between components follow the ligature and
// are assigned to the component they follow.
func (p *lookupPass) ligate(g, u int, lig ot.Ligature) int {
	p.replace(g, lig.Glyph)
	end := u + len(lig.Components)
	for k := u; k < end; k++ {
		for i := p.rl.Unignored[k] + 1; i < p.rl.Unignored[k+1]; i++ {
			m := p.src.Glyph(i)
			m.ComponentIndex = uint16(k - u)
			p.dst.AddGlyph(m)
		}
	}
	return p.rl.Unignored[end] + 1
}

// reverseChain applies a reverse chaining subtable. Substitution starts at the
// end of the sequence, and lookahead context is matched against glyphs already
// substituted. The number of glyphs does not change, so dst is written as a
// copy of src and substituted in place.
func (p *lookupPass) reverseChain(st *ot.ReverseChainSingleSubst) {
	p.copyAll()
	if !p.dst.Has(AttrIndex) {
		return
	}
	n := p.unignoredCount()
	glyphAt := func(u int) ot.GlyphIndex { return p.dst.Glyphs[p.rl.Unignored[u]] }
	for u := n - 1; u >= 0; u-- {
		i := p.rl.Unignored[u]
		if i > p.limit || !p.applicable(i) {
			continue
		}
		inx := st.Coverage.Search(glyphAt(u))
		if inx < 0 || inx >= len(st.Substitutes) {
			continue
		}
		if u-len(st.Backtrack) < 0 || u+1+len(st.Lookahead) > n {
			continue
		}
		ok := true
		for k, cov := range st.Backtrack {
			if !cov.Contains(glyphAt(u - 1 - k)) {
				ok = false
				break
			}
		}
		for k, cov := range st.Lookahead {
			if !ok {
				break
			}
			ok = cov.Contains(glyphAt(u + 1 + k))
		}
		if ok {
			p.dst.Glyphs[i] = st.Substitutes[inx]
		}
	}
}

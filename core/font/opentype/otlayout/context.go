package otlayout

import "github.com/npillmayer/otengine/core/font/opentype/ot"

// Parts of a context pattern.
const (
	partBacktrack = iota
	partInput
	partLookahead
)

// pattern describes a context to match at an unignored position u: a backtrack
// sequence before u (closest glyph first), an input sequence starting at u and
// a lookahead sequence following the input. match tests glyph g against
// position k of a part. Input position 0 is the covered glyph at u and is
// never tested.
type pattern struct {
	backtrack, input, lookahead int
	match                       func(part, k int, g ot.GlyphIndex) bool
}

// matches is true if pat matches at unignored position u.
func (p *lookupPass) matches(u int, pat pattern) bool {
	if pat.input < 1 {
		return false
	}
	if u-pat.backtrack < 0 || u+pat.input+pat.lookahead > p.unignoredCount() {
		return false
	}
	for k := 0; k < pat.backtrack; k++ {
		if !pat.match(partBacktrack, k, p.glyphAt(u-1-k)) {
			return false
		}
	}
	for k := 1; k < pat.input; k++ {
		if !pat.match(partInput, k, p.glyphAt(u+k)) {
			return false
		}
	}
	for k := 0; k < pat.lookahead; k++ {
		if !pat.match(partLookahead, k, p.glyphAt(u+pat.input+k)) {
			return false
		}
	}
	return true
}

// applyRecords applies the nested lookups of records to the input sequence of
// n unignored glyphs starting at unignored position u. The input sequence,
// including skipped glyphs inside it, is copied to a buffer of its own, and
// records are applied one after the other, each to the result of its
// predecessor. The result is appended to dst. Returns the source position
// following the input sequence.
func (p *lookupPass) applyRecords(u, n int, records []ot.SequenceLookupRecord) int {
	lo, hi := p.rl.Unignored[u], p.rl.Unignored[u+n-1]
	ctx1 := p.src.CopyRange(lo, hi)
	ctx2 := NewBuffer(p.dst.Attribs, ctx1.Len())
	for _, rec := range records {
		ctx1.ComputeInfo(p.e.face)
		inx := UnignoredIndices(ctx1, p.lookup.Flag, p.lookup.MarkSet)
		if int(rec.SequenceIndex) >= len(inx) {
			tracer().Debugf("sequence index %d beyond input of length %d, record skipped",
				rec.SequenceIndex, len(inx))
			continue
		}
		seq := inx[rec.SequenceIndex]
		p.e.applyLookup(p.kind, p.feature, p.shared, int(rec.LookupIndex), ctx1, ctx2, seq, seq, p.depth+1)
		SwapBuffers(ctx1, ctx2)
	}
	p.dst.AddOther(ctx1)
	return hi + 1
}

// contextual applies a context or chained context subtable. Returns false if
// sub is of another kind.
func (p *lookupPass) contextual(sub ot.LookupSubtable) bool {
	switch st := sub.(type) {
	case *ot.SequenceContextFmt1:
		p.walk(func(g, u int) int {
			inx := st.Coverage.Search(p.src.Glyphs[g])
			if inx < 0 || inx >= len(st.RuleSets) {
				return p.keep(g)
			}
			for _, rule := range st.RuleSets[inx] {
				pat := pattern{input: len(rule.Input) + 1, match: func(_, k int, gl ot.GlyphIndex) bool {
					return ot.GlyphIndex(rule.Input[k-1]) == gl
				}}
				if p.matches(u, pat) {
					return p.applyRecords(u, pat.input, rule.Records)
				}
			}
			return p.keep(g)
		})
	case *ot.SequenceContextFmt2:
		p.walk(func(g, u int) int {
			if !st.Coverage.Contains(p.src.Glyphs[g]) {
				return p.keep(g)
			}
			cls := int(st.ClassDef.Lookup(p.src.Glyphs[g]))
			if cls >= len(st.RuleSets) {
				return p.keep(g)
			}
			for _, rule := range st.RuleSets[cls] {
				pat := pattern{input: len(rule.Input) + 1, match: func(_, k int, gl ot.GlyphIndex) bool {
					return st.ClassDef.Lookup(gl) == rule.Input[k-1]
				}}
				if p.matches(u, pat) {
					return p.applyRecords(u, pat.input, rule.Records)
				}
			}
			return p.keep(g)
		})
	case *ot.SequenceContextFmt3:
		pat := pattern{input: len(st.Input), match: func(_, k int, gl ot.GlyphIndex) bool {
			return st.Input[k].Contains(gl)
		}}
		p.walk(func(g, u int) int {
			if len(st.Input) == 0 || !st.Input[0].Contains(p.src.Glyphs[g]) || !p.matches(u, pat) {
				return p.keep(g)
			}
			return p.applyRecords(u, pat.input, st.Records)
		})
	case *ot.ChainedContextFmt1:
		p.walk(func(g, u int) int {
			inx := st.Coverage.Search(p.src.Glyphs[g])
			if inx < 0 || inx >= len(st.RuleSets) {
				return p.keep(g)
			}
			for _, rule := range st.RuleSets[inx] {
				if pat := chainedGlyphPattern(rule); p.matches(u, pat) {
					return p.applyRecords(u, pat.input, rule.Records)
				}
			}
			return p.keep(g)
		})
	case *ot.ChainedContextFmt2:
		p.walk(func(g, u int) int {
			if !st.Coverage.Contains(p.src.Glyphs[g]) {
				return p.keep(g)
			}
			cls := int(st.InputClassDef.Lookup(p.src.Glyphs[g]))
			if cls >= len(st.RuleSets) {
				return p.keep(g)
			}
			for _, rule := range st.RuleSets[cls] {
				if pat := chainedClassPattern(st, rule); p.matches(u, pat) {
					return p.applyRecords(u, pat.input, rule.Records)
				}
			}
			return p.keep(g)
		})
	case *ot.ChainedContextFmt3:
		pat := pattern{
			backtrack: len(st.Backtrack),
			input:     len(st.Input),
			lookahead: len(st.Lookahead),
			match: func(part, k int, gl ot.GlyphIndex) bool {
				switch part {
				case partBacktrack:
					return st.Backtrack[k].Contains(gl)
				case partInput:
					return st.Input[k].Contains(gl)
				}
				return st.Lookahead[k].Contains(gl)
			},
		}
		p.walk(func(g, u int) int {
			if len(st.Input) == 0 || !st.Input[0].Contains(p.src.Glyphs[g]) || !p.matches(u, pat) {
				return p.keep(g)
			}
			return p.applyRecords(u, pat.input, st.Records)
		})
	default:
		return false
	}
	return true
}

func chainedGlyphPattern(rule ot.ChainedSequenceRule) pattern {
	return pattern{
		backtrack: len(rule.Backtrack),
		input:     len(rule.Input) + 1,
		lookahead: len(rule.Lookahead),
		match: func(part, k int, gl ot.GlyphIndex) bool {
			switch part {
			case partBacktrack:
				return ot.GlyphIndex(rule.Backtrack[k]) == gl
			case partInput:
				return ot.GlyphIndex(rule.Input[k-1]) == gl
			}
			return ot.GlyphIndex(rule.Lookahead[k]) == gl
		},
	}
}

func chainedClassPattern(st *ot.ChainedContextFmt2, rule ot.ChainedSequenceRule) pattern {
	return pattern{
		backtrack: len(rule.Backtrack),
		input:     len(rule.Input) + 1,
		lookahead: len(rule.Lookahead),
		match: func(part, k int, gl ot.GlyphIndex) bool {
			switch part {
			case partBacktrack:
				return st.BacktrackClassDef.Lookup(gl) == rule.Backtrack[k]
			case partInput:
				return st.InputClassDef.Lookup(gl) == rule.Input[k-1]
			}
			return st.LookaheadClassDef.Lookup(gl) == rule.Lookahead[k]
		},
	}
}

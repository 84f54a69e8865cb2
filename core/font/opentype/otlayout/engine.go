package otlayout

import (
	"github.com/npillmayer/otengine/core/arena"
	"github.com/npillmayer/otengine/core/font/opentype/ot"
)

// Face is the font collaborator of the engine. *ot.Font implements it.
type Face interface {
	NumGlyphs() int
	GlyphClass(ot.GlyphIndex) ot.GlyphClass
	AttachmentClass(ot.GlyphIndex) uint16
	GlyphAdvance(ot.GlyphIndex) int32
}

var _ Face = &ot.Font{}

// DefaultMaxRecursionDepth bounds the nesting of contextual lookups.
const DefaultMaxRecursionDepth = 16

// DefaultScratchSize is the initial size of an engine's scratch memory.
const DefaultScratchSize = 8 << 10

// Config holds parameters for an engine. Zero values select defaults.
type Config struct {
	MaxRecursionDepth int // nesting bound for contextual lookups
	ScratchSize       int // bytes of scratch memory for range lists
	Alternate         int // index of alternate chosen by GSUB type 3, -1 for last
}

// Engine applies the lookups of a font's GSUB and GPOS tables to buffers.
//
// Layout tables are read-only and may be shared between engines. An engine
// itself keeps scratch memory and must not be used concurrently.
type Engine struct {
	face    Face
	gsub    *ot.LayoutTable
	gpos    *ot.LayoutTable
	cfg     Config
	scratch *arena.Stack
}

// NewEngine creates an engine for face with layout tables gsub and gpos,
// either of which may be nil.
func NewEngine(face Face, gsub, gpos *ot.LayoutTable, cfg Config) *Engine {
	if cfg.MaxRecursionDepth <= 0 {
		cfg.MaxRecursionDepth = DefaultMaxRecursionDepth
	}
	if cfg.ScratchSize <= 0 {
		cfg.ScratchSize = DefaultScratchSize
	}
	return &Engine{
		face:    face,
		gsub:    gsub,
		gpos:    gpos,
		cfg:     cfg,
		scratch: arena.NewStack(cfg.ScratchSize),
	}
}

// ForFont creates an engine for the layout tables of otf.
func ForFont(otf *ot.Font, cfg Config) *Engine {
	var gsub, gpos *ot.LayoutTable
	if otf.Layout.GSub != nil {
		gsub = &otf.Layout.GSub.LayoutTable
	}
	if otf.Layout.GPos != nil {
		gpos = &otf.Layout.GPos.LayoutTable
	}
	return NewEngine(otf, gsub, gpos, cfg)
}

// Config returns the effective configuration of e.
func (e *Engine) Config() Config {
	return e.cfg
}

// prepareScratch makes sure the scratch memory can hold range lists for a
// buffer of n glyphs, plus the configured slack for nested lookups.
func (e *Engine) prepareScratch(n int) {
	need := n*scratchPerGlyph + e.cfg.ScratchSize
	if e.scratch.Cap() < need {
		tracer().Debugf("growing scratch memory to %d bytes", need)
		e.scratch = arena.NewStack(need)
	}
	e.scratch.Reset()
}

// scratchPerGlyph is an upper bound of range list memory per glyph: one run,
// one position and alignment headers.
const scratchPerGlyph = 64

// lookupPass holds the state of applying one subtable of a lookup to a
// buffer. Glyphs are read from src and written to dst.
//
// Matches may start at positions up to limit only; glyphs following limit
// are context for matches and copied otherwise. While writing, newLimit
// tracks the position in dst corresponding to limit.
type lookupPass struct {
	e        *Engine
	kind     lookupKind
	lookup   *ot.LookupTable
	feature  ot.Tag
	shared   []ot.Tag // further features enabling the lookup
	src, dst *Buffer
	rl       *RangeList
	limit    int
	newLimit int
	depth    int
}

// skipped is true if glyph i of src is not visible to the lookup.
func (p *lookupPass) skipped(i int) bool {
	return ShouldIgnore(p.src, i, p.lookup.Flag, p.lookup.MarkSet)
}

// applicable is true if the feature specific condition holds for glyph i,
// for any of the features enabling the lookup.
func (p *lookupPass) applicable(i int) bool {
	if shouldApply(p.src, p.feature, i, p.lookup.MarkSet) {
		return true
	}
	for _, f := range p.shared {
		if shouldApply(p.src, f, i, p.lookup.MarkSet) {
			return true
		}
	}
	return false
}

// emitted records that all source glyphs up to from have been written to dst.
func (p *lookupPass) emitted(from int) {
	if from <= p.limit {
		p.newLimit = p.dst.Len() - 1
	}
}

// copyIgnored copies glyphs lo…hi of src, which are all skipped, to dst.
func (p *lookupPass) copyIgnored(lo, hi int) {
	p.dst.AddRange(p.src, lo, hi)
	if lo <= p.limit {
		tail := 0
		if hi > p.limit {
			tail = hi - p.limit
		}
		p.newLimit = p.dst.Len() - 1 - tail
	}
}

// copyAll copies src to dst unchanged, for subtables which do not apply.
func (p *lookupPass) copyAll() {
	p.dst.AddOther(p.src)
	p.newLimit = p.limit
}

// copyGlyph copies glyph i of src unchanged to dst.
func (p *lookupPass) copyGlyph(i int) {
	p.dst.AddRange(p.src, i, i)
	p.emitted(i)
}

// keep copies glyph g unchanged and returns the position following it.
func (p *lookupPass) keep(g int) int {
	p.copyGlyph(g)
	return g + 1
}

// walk calls at for every position where a match may start. at writes to dst
// and returns the position to continue with. Skipped glyphs and glyphs beyond
// the limit are copied.
func (p *lookupPass) walk(at func(g, u int) int) {
	for g := 0; g < p.src.Len(); {
		k := p.rl.Search(g)
		run := p.rl.Runs[k]
		if run.Ignored {
			p.copyIgnored(g, run.Max)
			g = run.Max + 1
			continue
		}
		if g > p.limit {
			p.copyGlyph(g)
			g++
			continue
		}
		next := at(g, run.Base+(g-run.Min))
		p.emitted(g)
		if next <= g { // must make progress
			next = g + 1
		}
		g = next
	}
}

// unignoredCount is the number of glyphs visible to the lookup.
func (p *lookupPass) unignoredCount() int {
	return len(p.rl.Unignored)
}

// glyphAt returns the glyph at unignored position u.
func (p *lookupPass) glyphAt(u int) ot.GlyphIndex {
	return p.src.Glyphs[p.rl.Unignored[u]]
}

// --- Applying lookups ------------------------------------------------------

// lookupKind tells GSUB lookups from GPOS lookups.
type lookupKind uint8

const (
	substitution lookupKind = iota
	positioning
)

func (k lookupKind) String() string {
	if k == positioning {
		return "GPOS"
	}
	return "GSUB"
}

// applyLookup applies a lookup to glyphs lo…hi of in, writing in[0…lo-1]
// plus the result to out, which has to be empty. Matches start within
// lo…hi, but may extend up to the end of in.
//
// Every subtable is applied to the complete sequence, in subtable order.
// After each subtable pass, source and destination buffers are swapped.
func (e *Engine) applyLookup(kind lookupKind, feature ot.Tag, shared []ot.Tag, lookupIndex int,
	in, out *Buffer, lo, hi, depth int) {
	//
	table := e.gsub
	if kind == positioning {
		table = e.gpos
	}
	lookup := table.Lookup(lookupIndex)
	switch {
	case depth >= e.cfg.MaxRecursionDepth:
		tracer().Infof("%s lookup #%d: maximum nesting depth %d reached, span left unchanged",
			kind, lookupIndex, e.cfg.MaxRecursionDepth)
		out.AddOther(in)
		return
	case lookup == nil:
		tracer().Errorf("%s lookup #%d not present in font", kind, lookupIndex)
		out.AddOther(in)
		return
	case !in.ContainsRange(lo, hi):
		out.AddOther(in)
		return
	}
	tracer().Debugf("applying %s lookup #%d (%d subtables) for '%s'", kind, lookupIndex,
		len(lookup.Subtables), feature)
	b1 := in.CopyRange(lo, in.Len()-1)
	b2 := NewBuffer(out.Attribs, b1.Len())
	limit := hi - lo
	for _, sub := range lookup.Subtables {
		b1.ComputeInfo(e.face)
		rl, err := computeRangeListOn(e.scratch, b1, lookup.Flag, lookup.MarkSet)
		if err != nil {
			tracer().Errorf("%s lookup #%d: %v; subtable skipped", kind, lookupIndex, err)
			continue
		}
		p := &lookupPass{e: e, kind: kind, lookup: lookup, feature: feature, shared: shared, src: b1, dst: b2,
			rl: rl, limit: limit, newLimit: -1, depth: depth}
		if kind == substitution {
			p.substitute(sub)
		} else {
			p.position(sub)
		}
		rl.release(e.scratch)
		limit = p.newLimit
		SwapBuffers(b1, b2)
		if limit < 0 {
			break
		}
	}
	out.AddRange(in, 0, lo-1)
	out.AddOther(b1)
}

// ApplyGSubLookup applies GSUB lookup number lookupIndex, enabled by feature,
// to glyphs lo…hi of in. The complete result, including glyphs outside
// lo…hi, is written to out, which has to be empty. Matches start within
// lo…hi, but context and ligature components may extend beyond hi.
//
// in needs glyph indices, codepoints and component indices, and every
// attribute of out. Usually out holds just these three.
func (e *Engine) ApplyGSubLookup(feature ot.Tag, lookupIndex int, in, out *Buffer, lo, hi int) {
	e.prepareScratch(in.Len())
	e.applyLookup(substitution, feature, nil, lookupIndex, in, out, lo, hi, 0)
}

// ApplyGPosLookup applies GPOS lookup number lookupIndex, enabled by feature,
// to glyphs lo…hi of in. Requires glyph indices and metrics (see
// SetupMetrics). Usually out holds metrics only and receives the metrics of
// all glyphs of in.
func (e *Engine) ApplyGPosLookup(feature ot.Tag, lookupIndex int, in, out *Buffer, lo, hi int) {
	e.prepareScratch(in.Len())
	e.applyLookup(positioning, feature, nil, lookupIndex, in, out, lo, hi, 0)
}

package ot

import (
	"encoding/binary"
	"sort"
)

// Test helpers to assemble binary font structures in memory.

type bin []byte

func (b bin) u16(v ...uint16) bin {
	for _, x := range v {
		b = binary.BigEndian.AppendUint16(b, x)
	}
	return b
}

func (b bin) u32(v ...uint32) bin {
	for _, x := range v {
		b = binary.BigEndian.AppendUint32(b, x)
	}
	return b
}

func (b bin) tag(s string) bin {
	return b.u32(uint32(T(s)))
}

func (b bin) glyphs(gg ...GlyphIndex) bin {
	for _, g := range gg {
		b = b.u16(uint16(g))
	}
	return b
}

// coverage1 builds a format 1 coverage table.
func coverage1(gg ...GlyphIndex) bin {
	return bin{}.u16(1, uint16(len(gg))).glyphs(gg...)
}

// coverage2 builds a format 2 coverage table from (start, end, index) triples.
func coverage2(rr ...RangeRecord) bin {
	b := bin{}.u16(2, uint16(len(rr)))
	for _, r := range rr {
		b = b.u16(uint16(r.Start), uint16(r.End), r.Value)
	}
	return b
}

// withTail appends sub-structures to a header and patches their offsets,
// relative to the start of the header, at the given positions.
// off[i] is the byte position in header where a 16-bit offset to tails[i] goes.
func withTail(header bin, off []int, tails ...bin) bin {
	b := append(bin{}, header...)
	for i, t := range tails {
		binary.BigEndian.PutUint16(b[off[i]:], uint16(len(b)))
		b = append(b, t...)
	}
	return b
}

// singleSubst1 builds a GSUB type 1 format 1 subtable.
func singleSubst1(delta int16, gg ...GlyphIndex) bin {
	return withTail(bin{}.u16(1, 0, uint16(delta)), []int{2}, coverage1(gg...))
}

// singleSubst2 builds a GSUB type 1 format 2 subtable.
func singleSubst2(cov []GlyphIndex, subst []GlyphIndex) bin {
	h := bin{}.u16(2, 0, uint16(len(subst))).glyphs(subst...)
	return withTail(h, []int{2}, coverage1(cov...))
}

// ligatureSubst builds a GSUB type 4 subtable with one ligature set for glyph
// first, holding one ligature per entry of ligs.
func ligatureSubst(first GlyphIndex, ligs ...Ligature) bin {
	set := bin{}.u16(uint16(len(ligs)))
	for range ligs {
		set = set.u16(0)
	}
	offs := make([]int, len(ligs))
	tails := make([]bin, len(ligs))
	for i, l := range ligs {
		offs[i] = 2 + 2*i
		tails[i] = bin{}.u16(uint16(l.Glyph), uint16(len(l.Components)+1)).glyphs(l.Components...)
	}
	set = withTail(set, offs, tails...)
	h := bin{}.u16(1, 0, 1, 0)
	return withTail(h, []int{2, 6}, coverage1(first), set)
}

// extension wraps a subtable of lookup type typ into an extension subtable.
func extension(typ LayoutTableLookupType, sub bin) bin {
	return append(bin{}.u16(1, uint16(typ)).u32(8), sub...)
}

// chainedContext3 builds a chained context format 3 subtable with one
// coverage per position and lookup records.
func chainedContext3(backtrack, input, lookahead [][]GlyphIndex, recs ...SequenceLookupRecord) bin {
	h := bin{}.u16(3)
	var offs []int
	var tails []bin
	for _, seq := range [][][]GlyphIndex{backtrack, input, lookahead} {
		h = h.u16(uint16(len(seq)))
		for _, gg := range seq {
			offs = append(offs, len(h))
			h = h.u16(0)
			tails = append(tails, coverage1(gg...))
		}
	}
	h = h.u16(uint16(len(recs)))
	for _, r := range recs {
		h = h.u16(r.SequenceIndex, r.LookupIndex)
	}
	return withTail(h, offs, tails...)
}

// lookup builds a lookup table.
func lookup(typ LayoutTableLookupType, flag LayoutTableLookupFlag, subs ...bin) bin {
	h := bin{}.u16(uint16(typ), uint16(flag), uint16(len(subs)))
	offs := make([]int, len(subs))
	for i := range subs {
		offs[i] = len(h)
		h = h.u16(0)
	}
	if flag&LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 {
		h = h.u16(0) // mark glyph set #0
	}
	return withTail(h, offs, subs...)
}

// layoutTable builds a GSUB or GPOS table with a single script 'latn' with a
// default language system, and one feature per entry of features. Each feature
// references the lookups listed for it.
func layoutTable(features map[string][]uint16, lookups ...bin) bin {
	tags := make([]string, 0, len(features))
	for t := range features {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	// LangSys enables all features
	langSys := bin{}.u16(0, 0xffff, uint16(len(tags)))
	for i := range tags {
		langSys = langSys.u16(uint16(i))
	}
	script := withTail(bin{}.u16(0, 0), []int{0}, langSys)
	scriptList := withTail(bin{}.u16(1).tag("latn").u16(0), []int{6}, script)
	//
	fl := bin{}.u16(uint16(len(tags)))
	var offs []int
	var tails []bin
	for _, t := range tags {
		fl = fl.tag(t)
		offs = append(offs, len(fl))
		fl = fl.u16(0)
		tails = append(tails, bin{}.u16(0, uint16(len(features[t]))).u16(features[t]...))
	}
	featureList := withTail(fl, offs, tails...)
	//
	ll := bin{}.u16(uint16(len(lookups)))
	offs = offs[:0]
	for range lookups {
		offs = append(offs, len(ll))
		ll = ll.u16(0)
	}
	lookupList := withTail(ll, offs, lookups...)
	//
	return withTail(bin{}.u16(1, 0, 0, 0, 0), []int{4, 6, 8}, scriptList, featureList, lookupList)
}

// sfnt assembles a font file from tables, given as tag → bytes.
func sfntFont(tables map[string]bin) bin {
	tags := make([]string, 0, len(tables))
	for t := range tables {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return T(tags[i]) < T(tags[j]) })
	h := bin{}.u32(0x00010000).u16(uint16(len(tags)), 0, 0, 0)
	offset := len(h) + 16*len(tags)
	var data bin
	for _, t := range tags {
		tb := tables[t]
		h = h.tag(t).u32(0, uint32(offset+len(data)), uint32(len(tb)))
		data = append(data, tb...)
		for len(data)%4 != 0 {
			data = append(data, 0)
		}
	}
	return append(h, data...)
}

// headTable builds a minimal head table with unitsPerEm = 1000.
func headTable() bin {
	b := make(bin, 54)
	binary.BigEndian.PutUint32(b[0:], 0x00010000)
	binary.BigEndian.PutUint16(b[18:], 1000)
	return b
}

func maxpTable(numGlyphs uint16) bin {
	return bin{}.u32(0x00005000).u16(numGlyphs)
}

func hheaTable(numHMetrics uint16) bin {
	b := make(bin, 36)
	binary.BigEndian.PutUint32(b[0:], 0x00010000)
	binary.BigEndian.PutUint16(b[4:], 800)
	binary.BigEndian.PutUint16(b[6:], uint16(0xffff-199)) // -200
	binary.BigEndian.PutUint16(b[34:], numHMetrics)
	return b
}

// hmtxTable builds advances; lsb is always 0.
func hmtxTable(advances ...uint16) bin {
	b := bin{}
	for _, a := range advances {
		b = b.u16(a, 0)
	}
	return b
}

// gdefTable builds a GDEF 1.2 table with a glyph class definition (format 1,
// starting at glyph 0) and one mark glyph set.
func gdefTable(classes []uint16, markSet []GlyphIndex) bin {
	cd := bin{}.u16(1, 0, uint16(len(classes))).u16(classes...)
	sets := bin{}.u16(1, 1).u32(8)
	sets = append(sets, coverage1(markSet...)...)
	h := bin{}.u16(1, 2, 0, 0, 0, 0, 0)
	return withTail(h, []int{4, 12}, cd, sets)
}

// pairPos1 builds a GPOS type 2 format 1 subtable kerning one pair by xadv.
func pairPos1(first, second GlyphIndex, xadv int16) bin {
	set := bin{}.u16(1, uint16(second), uint16(xadv))
	h := bin{}.u16(1, 0, uint16(ValueXAdvance), 0, 1, 0)
	return withTail(h, []int{2, 10}, coverage1(first), set)
}

// markBasePos builds a GPOS type 4 subtable with a single mark class, one
// mark and one base glyph.
func markBasePos(mark, base GlyphIndex, markAnchor, baseAnchor [2]int16) bin {
	anchor := func(a [2]int16) bin { return bin{}.u16(1, uint16(a[0]), uint16(a[1])) }
	markArray := withTail(bin{}.u16(1, 0, 0), []int{4}, anchor(markAnchor))
	baseArray := withTail(bin{}.u16(1, 0), []int{2}, anchor(baseAnchor))
	h := bin{}.u16(1, 0, 0, 1, 0, 0)
	return withTail(h, []int{2, 4, 8, 10}, coverage1(mark), coverage1(base), markArray, baseArray)
}

package otlayout

import "github.com/npillmayer/otengine/core/font/opentype/ot"

// ShouldIgnore is true if the glyph at position i of b is skipped by a lookup
// with flag and mark filtering set markSet.
//
// Glyphs are skipped if their class is ignored by the flag. Marks are also
// skipped if the lookup uses a mark filtering set not containing them, or if
// the lookup selects a mark attachment type different from theirs.
// Buffers without glyph class information never skip glyphs.
func ShouldIgnore(b *Buffer, i int, flag ot.LayoutTableLookupFlag, markSet *ot.Coverage) bool {
	if !b.Has(AttrGlyphClass) {
		return false
	}
	class := b.Classes[i]
	if class&flag.IgnoredClasses() != 0 {
		return true
	}
	if class&ot.MarkGlyph == 0 {
		return false
	}
	if flag&ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 && b.Has(AttrIndex) {
		if !markSet.Contains(b.Glyphs[i]) {
			return true
		}
	}
	if t := flag.MarkAttachmentType(); t != 0 && b.Has(AttrAttachClass) {
		return b.AttachClasses[i] != t
	}
	return false
}

// SearchPrevGlyph searches backwards from position i-1 for a glyph of class
// want, skipping over glyphs of class skip. The search stops at the first
// glyph of another class. Returns the position found, or -1.
//
// Mark attachment uses this to find the base for a mark, e.g.
// SearchPrevGlyph(b, i, ot.MarkGlyph, ot.BaseGlyph).
func SearchPrevGlyph(b *Buffer, i int, skip, want ot.GlyphClass) int {
	if !b.Has(AttrGlyphClass) {
		return -1
	}
	for j := i - 1; j >= 0; j-- {
		class := b.Classes[j]
		if class&want == want {
			return j
		}
		if class&skip != skip {
			break
		}
	}
	return -1
}

// UnignoredIndices returns the positions of all glyphs of b which are not
// skipped by a lookup with flag and mark filtering set markSet.
func UnignoredIndices(b *Buffer, flag ot.LayoutTableLookupFlag, markSet *ot.Coverage) []int {
	inx := make([]int, 0, b.Len())
	for i := 0; i < b.Len(); i++ {
		if !ShouldIgnore(b, i, flag, markSet) {
			inx = append(inx, i)
		}
	}
	return inx
}

// nextUnignored returns the first position after i which is not skipped, or -1.
func nextUnignored(b *Buffer, i int, flag ot.LayoutTableLookupFlag, markSet *ot.Coverage) int {
	for j := i + 1; j < b.Len(); j++ {
		if !ShouldIgnore(b, j, flag, markSet) {
			return j
		}
	}
	return -1
}

// prevUnignored returns the last position before i which is not skipped, or -1.
func prevUnignored(b *Buffer, i int, flag ot.LayoutTableLookupFlag, markSet *ot.Coverage) int {
	for j := i - 1; j >= 0; j-- {
		if !ShouldIgnore(b, j, flag, markSet) {
			return j
		}
	}
	return -1
}

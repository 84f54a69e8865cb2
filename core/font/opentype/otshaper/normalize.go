package otshaper

import (
	"unicode/utf8"

	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"golang.org/x/text/unicode/norm"
)

// CMap maps code-points to glyphs. It returns false if a font has no glyph
// for a code-point.
type CMap interface {
	GlyphIndex(rune) (uint16, bool)
}

// decide wether to compose or de-compose by default
func normalizerFor(script ot.Tag, lang ot.Tag) norm.Form {
	if prefersDecomposed(script, lang) {
		return norm.NFD
	}
	return norm.NFC
}

// mapped is a code-point together with its glyph.
type mapped struct {
	r     rune
	glyph ot.GlyphIndex
}

// representation reflects the best representation of a character for a font.
// A character consists of one or more Unicode code-points. The representation
// is NFC, NFD, or something in between.
type representation struct {
	nucleus mapped // r == 0 while no nucleus is set
	marks   []mapped
}

// representation of unrepresentable character, .notdef
var norep = representation{nucleus: mapped{r: utf8.RuneError, glyph: NOTDEF}}

func lookup(cmap CMap, r rune) (mapped, bool) {
	g, ok := cmap.GlyphIndex(r)
	return mapped{r: r, glyph: ot.GlyphIndex(g)}, ok
}

func (rep representation) mergeNucleus(ch rune, cmap CMap) representation {
	if rep.nucleus.r != 0 { // already a nucleus set -> merge
		composed := norm.NFC.String(string([]rune{rep.nucleus.r, ch}))
		r, w := utf8.DecodeRuneInString(composed)
		if w < len(composed) {
			return norep // no luck, still 2 codepoints
		}
		ch = r
	}
	m, ok := lookup(cmap, ch)
	if !ok {
		return norep
	}
	return representation{nucleus: m, marks: rep.marks}
}

func (rep representation) appendMark(ch rune, cmap CMap) representation {
	m, ok := lookup(cmap, ch)
	if !ok {
		return norep
	}
	marks := make([]mapped, len(rep.marks), len(rep.marks)+1)
	copy(marks, rep.marks)
	return representation{nucleus: rep.nucleus, marks: append(marks, m)}
}

// representNFD finds a representation for codepoints, which are NFD.
// Glyphs for composed characters are preferred over a base glyph plus marks.
func (rep representation) representNFD(codepoints []byte, cmap CMap) representation {
	if len(codepoints) == 0 || rep.nucleus.r == utf8.RuneError {
		return rep
	}
	ch, w := utf8.DecodeRune(codepoints)
	if ch == utf8.RuneError {
		return norep
	}
	merged := rep.mergeNucleus(ch, cmap).representNFD(codepoints[w:], cmap)
	if rep.nucleus.r == 0 { // first code-point is the base
		return merged
	}
	appended := rep.appendMark(ch, cmap).representNFD(codepoints[w:], cmap)
	if merged.nucleus.r != utf8.RuneError && len(merged.marks) <= len(appended.marks) {
		return merged
	}
	if appended.nucleus.r == utf8.RuneError {
		return merged
	}
	return appended
}

// findRepresentation maps a cluster of code-points to glyphs, appending them
// to buf. If decomposed is set, a glyph for every code-point of the NFD form
// is preferred, otherwise composed glyphs are preferred.
func findRepresentation(codepoints []byte, cmap CMap, buf []mapped, decomposed bool) []mapped {
	nfd := norm.NFD.Bytes(codepoints)
	if decomposed {
		n := len(buf)
		for _, ch := range string(nfd) {
			m, ok := lookup(cmap, ch)
			if !ok {
				buf = buf[:n]
				break
			}
			buf = append(buf, m)
		}
		if len(buf) > n {
			return buf
		}
	}
	if nfc := norm.NFC.Bytes(codepoints); utf8.RuneCount(nfc) == 1 {
		ch, _ := utf8.DecodeRune(nfc)
		if m, ok := lookup(cmap, ch); ok {
			return append(buf, m)
		}
	}
	rep := representation{}.representNFD(nfd, cmap)
	if rep.nucleus.r == utf8.RuneError {
		ch, _ := utf8.DecodeRune(codepoints)
		tracer().Infof("no glyph for code-point %#U", ch)
		return append(buf, mapped{r: ch, glyph: NOTDEF})
	}
	buf = append(buf, rep.nucleus)
	return append(buf, rep.marks...)
}

// mapGlyphs converts text to its initial glyph mapping.
// Does OpenType normalization, as explained here:
// https://github.com/n8willis/opentype-shaping-documents/blob/master/opentype-shaping-normalization.md
func mapGlyphs(text string, cmap CMap, script ot.Tag, lang ot.Tag) []mapped {
	glyphs := make([]mapped, 0, len(text))
	form := normalizerFor(script, lang)
	var iter norm.Iter
	iter.InitString(form, text)
	for !iter.Done() {
		codepoints := iter.Next() // a cluster of code-points
		tracer().Debugf("read codepoints '%s' (%v)", string(codepoints), codepoints)
		glyphs = findRepresentation(codepoints, cmap, glyphs, form == norm.NFD)
	}
	return glyphs
}

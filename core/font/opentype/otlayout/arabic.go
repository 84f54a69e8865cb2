package otlayout

import (
	"sort"
	"unicode"

	"github.com/npillmayer/otengine/core/font/opentype/ot"
)

// JoiningType is the Unicode joining type of a character, as used for
// cursive scripts like Arabic and Syriac.
type JoiningType uint8

// Joining types (Unicode ArabicShaping.txt).
const (
	JoinU JoiningType = iota // non-joining
	JoinC                    // join-causing
	JoinD                    // dual-joining
	JoinL                    // left-joining
	JoinR                    // right-joining
	JoinT                    // transparent
)

func (jt JoiningType) String() string {
	return [...]string{"U", "C", "D", "L", "R", "T"}[jt]
}

type joiningRange struct {
	from, to rune
	jt       JoiningType
}

// Joining types of Arabic, Syriac and N'Ko letters, sorted by codepoint.
// Characters not listed are transparent if of category Mn, Me or Cf, and
// non-joining otherwise.
var joiningRanges = []joiningRange{
	{0x0600, 0x0603, JoinU}, {0x0608, 0x0608, JoinU}, {0x060B, 0x060B, JoinU},
	{0x0620, 0x0620, JoinD}, {0x0621, 0x0621, JoinU}, {0x0622, 0x0625, JoinR},
	{0x0626, 0x0626, JoinD}, {0x0627, 0x0627, JoinR}, {0x0628, 0x0628, JoinD},
	{0x0629, 0x0629, JoinR}, {0x062A, 0x062E, JoinD}, {0x062F, 0x0632, JoinR},
	{0x0633, 0x063F, JoinD}, {0x0640, 0x0640, JoinC}, {0x0641, 0x0647, JoinD},
	{0x0648, 0x0648, JoinR}, {0x0649, 0x064A, JoinD}, {0x066E, 0x066F, JoinD},
	{0x0671, 0x0673, JoinR}, {0x0674, 0x0674, JoinU}, {0x0675, 0x0677, JoinR},
	{0x0678, 0x0687, JoinD}, {0x0688, 0x0699, JoinR}, {0x069A, 0x06BF, JoinD},
	{0x06C0, 0x06C0, JoinR}, {0x06C1, 0x06C2, JoinD}, {0x06C3, 0x06CB, JoinR},
	{0x06CC, 0x06CC, JoinD}, {0x06CD, 0x06CD, JoinR}, {0x06CE, 0x06CE, JoinD},
	{0x06CF, 0x06CF, JoinR}, {0x06D0, 0x06D1, JoinD}, {0x06D2, 0x06D3, JoinR},
	{0x06D5, 0x06D5, JoinR}, {0x06DD, 0x06DD, JoinU}, {0x06EE, 0x06EF, JoinR},
	{0x06FA, 0x06FC, JoinD}, {0x06FF, 0x06FF, JoinD}, {0x0710, 0x0710, JoinR},
	{0x0712, 0x0714, JoinD}, {0x0715, 0x0719, JoinR}, {0x071A, 0x071D, JoinD},
	{0x071E, 0x071E, JoinR}, {0x071F, 0x0727, JoinD}, {0x0728, 0x0728, JoinR},
	{0x0729, 0x0729, JoinD}, {0x072A, 0x072A, JoinR}, {0x072B, 0x072B, JoinD},
	{0x072C, 0x072C, JoinR}, {0x072D, 0x072E, JoinD}, {0x072F, 0x072F, JoinR},
	{0x074D, 0x074D, JoinR}, {0x074E, 0x0758, JoinD}, {0x0759, 0x075B, JoinR},
	{0x075C, 0x076A, JoinD}, {0x076B, 0x076C, JoinR}, {0x076D, 0x0770, JoinD},
	{0x0771, 0x0771, JoinR}, {0x0772, 0x0772, JoinD}, {0x0773, 0x0774, JoinR},
	{0x0775, 0x0777, JoinD}, {0x0778, 0x0779, JoinR}, {0x077A, 0x077F, JoinD},
	{0x07CA, 0x07EA, JoinD}, {0x07FA, 0x07FA, JoinC}, {0x200C, 0x200C, JoinU},
	{0x200D, 0x200D, JoinC},
}

// JoiningTypeOf returns the joining type of codepoint r.
func JoiningTypeOf(r rune) JoiningType {
	i := sort.Search(len(joiningRanges), func(i int) bool { return joiningRanges[i].to >= r })
	if i < len(joiningRanges) && joiningRanges[i].from <= r {
		return joiningRanges[i].jt
	}
	if unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
		return JoinT
	}
	return JoinU
}

// Joining form features.
var (
	featInit = ot.T("init")
	featMedi = ot.T("medi")
	featFina = ot.T("fina")
	featIsol = ot.T("isol")
)

// isJoiningFeature is true for the features selecting Arabic joining forms.
func isJoiningFeature(feature ot.Tag) bool {
	return feature == featInit || feature == featMedi || feature == featFina || feature == featIsol
}

// joiningForms tells which positional forms apply to the glyph at position i.
// Neighbours are searched skipping marks; a missing neighbour counts as
// transparent. Non-joining and transparent glyphs have no positional form
// (ok == false).
func joiningForms(b *Buffer, i int, markSet *ot.Coverage) (init, medi, fina, ok bool) {
	if !b.Has(AttrCodepoint) {
		return
	}
	cur := JoiningTypeOf(b.Codepoints[i])
	if cur == JoinU || cur == JoinT {
		return
	}
	prev, next := JoinT, JoinT
	if j := prevUnignored(b, i, ot.LOOKUP_FLAG_IGNORE_MARKS, markSet); j >= 0 {
		prev = JoiningTypeOf(b.Codepoints[j])
	}
	if j := nextUnignored(b, i, ot.LOOKUP_FLAG_IGNORE_MARKS, markSet); j >= 0 {
		next = JoiningTypeOf(b.Codepoints[j])
	}
	joinsLeft := func(jt JoiningType) bool { return jt == JoinL || jt == JoinD || jt == JoinC }
	joinsRight := func(jt JoiningType) bool { return jt == JoinR || jt == JoinD || jt == JoinC }
	init = (cur == JoinL || cur == JoinD) && joinsRight(next)
	fina = (cur == JoinR || cur == JoinD) && joinsLeft(prev)
	medi = cur == JoinD && joinsLeft(prev) && joinsRight(next)
	return init, medi, fina, true
}

// shouldApply evaluates the feature specific condition for substituting the
// glyph at position i. For the Arabic joining features this is the joining
// context of the glyph; every other feature always applies.
func shouldApply(b *Buffer, feature ot.Tag, i int, markSet *ot.Coverage) bool {
	if !isJoiningFeature(feature) {
		return true
	}
	init, medi, fina, ok := joiningForms(b, i, markSet)
	if !ok {
		return false
	}
	switch feature {
	case featInit:
		return init && !(medi || fina)
	case featMedi:
		return medi
	case featFina:
		return fina && !(medi || init)
	}
	return !(init || medi || fina) // isol
}

package ot

import "strings"

// DFLT is the tag for default scripts and default language systems.
var DFLT = T("DFLT")

// ScriptKind groups scripts by the shaping treatment they need.
type ScriptKind int

// Kinds of scripts
const (
	StandardScript ScriptKind = iota // no default features beyond ligatures and kerning
	ComplexScript                    // needs script-specific shaping
	SemiticScript                    // right-to-left, Arabic joining for 'arab'
	IndicScript                      // Indic syllable reordering
)

func (k ScriptKind) String() string {
	switch k {
	case ComplexScript:
		return "complex"
	case SemiticScript:
		return "semitic"
	case IndicScript:
		return "indic"
	}
	return "standard"
}

// OpenType script tags by kind. Scripts not listed, among them Latin, Cyrillic
// and Greek, are standard scripts.
const (
	semiticScripts = `arab hebr syrc nko thaa`
	indicScripts   = `bng2 dev2 gjr2 gur2 knd2 mlm2 ory2 tml2 tel2
		beng deva gujr guru knda mlym orya taml telu`
	complexScripts = `adlm ahom bali batk bhks brah bugi buhd cakm cham chrs diak dogr dupl
		elym gong gonm gran hano hmng hmnp java kali khar khoj kits kthi lana lepc limb
		mahj maka mand mani marc medf modi mong mtei mult mym2 nand newa phag phlp plrd
		rjng rohg saur shrd sidd sind sinh sogd sogo soyo sund sylo tagb takr tale tavt
		tfng tglg tibt tirh wcho yezi zanb khmr lao thai`
)

var scriptKinds = func() map[Tag]ScriptKind {
	m := make(map[Tag]ScriptKind, 100)
	for _, list := range []struct {
		kind ScriptKind
		tags string
	}{
		{ComplexScript, complexScripts},
		{IndicScript, indicScripts},
		{SemiticScript, semiticScripts},
	} {
		for _, t := range strings.Fields(list.tags) {
			m[T(t)] = list.kind
		}
	}
	return m
}()

// KindOfScript returns the kind of a script tag. Unknown scripts are
// considered standard scripts.
func KindOfScript(script Tag) ScriptKind {
	return scriptKinds[script] // zero value is StandardScript
}

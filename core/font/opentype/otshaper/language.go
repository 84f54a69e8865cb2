package otshaper

import (
	"slices"

	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// see https://unicode.org/iso15924/iso15924-codes.html
var script2opentype = map[string]string{
	"Zzzz": "DFLT", // unknown
	//
	"Arab": "arab", // Arabic
	"Armn": "armn", // Armenian
	"Beng": "bng2", // Bengali
	"Cyrl": "cyrl", // Cyrillic
	"Deva": "dev2", // Devangari
	"Geor": "geor", // Georgian
	"Grek": "grek", // Greek
	"Gujr": "gjr2", // Not gujr
	"Guru": "gur2", // Not guru
	"Hang": "hang", // Hanguli
	"Hani": "hani", // Han
	"Hans": "hani", // Han (simplified)
	"Hant": "hani", // Han (traditional)
	"Hebr": "hebr", // Hebrew
	"Hira": "hira", // Hiragana
	"Knda": "knd2", // Kannada
	"Kana": "kana", // Katakana
	"Laoo": "laoo", // Lao
	"Latn": "latn", // Latin
	"Mlym": "mlm2", // Malayalam
	"Orya": "ory2", // Oriya
	"Taml": "tml2", // Tamil
	"Telu": "tel2", // Telugu
	"Thai": "thai", // Thai
	"Tibt": "tibt", // Tibetan
	"Bopo": "bopo", // Bopomofo
	"Brai": "brai", // Braille
	"Cans": "cans", // Canadian Syllabics
	"Cher": "cher", // Cherokee
	"Ethi": "ethi", // Ethiopic
	"Khmr": "khmr", // Khmer
	"Mong": "mong", // Mongolian
	"Mymr": "mym2", // Myanmar
	"Ogam": "ogam", // Ogham
	"Runr": "runr", // Runic
	"Sinh": "sinh", // Sinhala
	"Syrc": "syrc", // Syriac
	"Thaa": "thaa", // Thaana
	"Yiii": "yiii", // Yi
	"Dsrt": "dsrt", // Deseret
	"Goth": "goth", // Gothic
	"Ital": "ital", // Old Italic
	"Buhd": "buhd", // Buhid
	"Hano": "hano", // Hanunoo
	"Tglg": "tglg", // Tagalog
	"Tagb": "tagb", // Tagbanwa
	"Cprt": "cprt", // Cypriot
	"Limb": "limb", // Limbu
	"Linb": "linb", // Linear B
	"Osma": "osma", // Osmanya
	"Shaw": "shaw", // Shavian
	"Tale": "tale", // Tai Le
	"Ugar": "ugar", // Ugaritic
	"Bugi": "bugi", // Buginese
	"Copt": "copt", // Coptic
	"Glag": "glag", // Glagolitic
	"Khar": "khar", // Kharoshthi
	"Talu": "talu", // New Tai Lue
	"Xpeo": "xpeo", // Old Persian
	"Sylo": "sylo", // Syloti Nagri
	"Tfng": "tfng", // Tifinagh
	"Bali": "bali", // Balinese
	"Xsux": "xsux", // Cuneiform
	"Nkoo": "nkoo", // Nko
	"Phag": "phag", // Phags Pa
	"Phnx": "phnx", // Phoenician
	"Cari": "cari", // Carian
	"Cham": "cham", // Cham
	"Kali": "kali", // Kayah Li
	"Lepc": "lepc", // Lepcha
	"Lyci": "lyci", // Lycian
	"Lydi": "lydi", // Lydian
	"Olck": "olck", // Ol Chiki
	"Rjng": "rjng", // Rejang
	"Saur": "saur", // Saurashtra
	"Sund": "sund", // Sundanese
	"Vaii": "vaii", // Vai
	"Avst": "avst", // Avestan
	"Bamu": "bamu", // Bamum
	"Egyp": "egyp", // Egyptian Hieroglyphs
	"Armi": "armi", // Imperial Aramaic
	"Phli": "phli", // Inscriptional Pahlavi
	"Prti": "prti", // Inscriptional Parthian
	"Java": "java", // Javanese
	"Kthi": "kthi", // Kaithi
	"Lisu": "lisu", // Lisu
	"Mtei": "mtei", // Meetei Mayek
	"Sarb": "sarb", // Old South Arabian
	"Orkh": "orkh", // Old Turkic
	"Samr": "samr", // Samaritan
	"Lana": "lana", // Tai Tham
	"Tavt": "tavt", // Tai Viet
	"Batk": "batk", // Batak
	"Brah": "brah", // Brahmi
	"Mand": "mand", // Mandaic
	"Cakm": "cakm", // Chakma
	"Merc": "merc", // Meroitic Cursive
	"Mero": "mero", // Meroitic Hieroglyphs
	"Plrd": "plrd", // Miao
	"Shrd": "shrd", // Sharada
	"Sora": "sora", // Sora Sompeng
	"Takr": "takr", // Takri
	"Bass": "bass", // Bassa Vah
	"Aghb": "aghb", // Caucasian Albanian
	"Dupl": "dupl", // Duployan
	"Elba": "elba", // Elbasan
	"Gran": "gran", // Grantha
	"Khoj": "khoj", // Khojki
	"Sind": "sind", // Khudawadi
	"Lina": "lina", // Linear A
	"Mahj": "mahj", // Mahajani
	"Mani": "mani", // Manichaean
	"Mend": "mend", // Mende Kikakui
	"Modi": "modi", // Modi
	"Mroo": "mroo", // Mro
	"Nbat": "nbat", // Nabataean
	"Narb": "narb", // Old North Arabian
	"Perm": "perm", // Old Permic
	"Hmng": "hmng", // Pahawh Hmong
	"Palm": "palm", // Palmyrene
	"Pauc": "pauc", // Pau Cin Hau
	"Phlp": "phlp", // Psalter Pahlavi
	"Sidd": "sidd", // Siddham
	"Tirh": "tirh", // Tirhuta
	"Wara": "wara", // Warang Citi
	"Ahom": "ahom", // Ahom
	"Hluw": "hluw", // Anatolian Hieroglyphs
	"Hatr": "hatr", // Hatran
	"Mult": "mult", // Multani
	"Hung": "hung", // Old Hungarian
	"Sgnw": "sgnw", // Signwriting
	"Adlm": "adlm", // Adlam
	"Bhks": "bhks", // Bhaiksuki
	"Marc": "marc", // Marchen
	"Osge": "osge", // Osage
	"Tang": "tang", // Tangut
	"Newa": "newa", // Newa
	"Gonm": "gonm", // Masaram Gondi
	"Nshu": "nshu", // Nushu
	"Soyo": "soyo", // Soyombo
	"Zanb": "zanb", // Zanabazar Square
	"Dogr": "dogr", // Dogra
	"Gong": "gong", // Gunjala Gondi
	"Rohg": "rohg", // Hanifi Rohingya
	"Maka": "maka", // Makasar
	"Medf": "medf", // Medefaidrin
	"Sogo": "sogo", // Old Sogdian
	"Sogd": "sogd", // Sogdian
	"Elym": "elym", // Elymaic
	"Nand": "nand", // Nandinagari
	"Hmnp": "hmnp", // Nyiakeng Puachue Hmong
	"Wcho": "wcho", // Wancho
	"Chrs": "chrs", // Chorasmian
	"Diak": "diak", // Dives Akuru
	"Kits": "kits", // Khitan Small Script
	"Yezi": "yezi", // Yezidi
}

// We do support this list of languages.
var supportedLanguages = map[language.Tag]string{
	language.Arabic:     "ARA",
	language.Chinese:    "ZHS",
	language.English:    "ENG",
	language.Greek:      "ELL",
	language.German:     "DEU",
	language.Hebrew:     "IWR",
	language.Japanese:   "JAN",
	language.Portuguese: "PTG",
	language.Romanian:   "ROM",
	language.Russian:    "RUS",
	language.Turkish:    "TRK",
}

// We will try to match user-preferred language against supported languages.
var supportedLanguagesMatcher language.Matcher

func init() {
	// prepare the language matcher with our list of supported languages
	langs := make([]language.Tag, len(supportedLanguages))
	i := 0
	for l := range supportedLanguages {
		langs[i] = l
		i++
	}
	supportedLanguagesMatcher = language.NewMatcher(langs)
}

// ScriptTagForScript returns the appropriate OpenType script tag for a given ISO 15924
// script code. It will return the DFLT-tag for unknown or unsupported scripts.
func ScriptTagForScript(script language.Script) ot.Tag {
	s := script.String()
	if otScr, ok := script2opentype[s]; ok {
		return ot.T(otScr)
	}
	return ot.DFLT
}

// LanguageTagForLanguage returns the appropriate OpenType language tag for a given
// BCP 47 language tag.
// If there is no supported language, that can be matched with confidence of at least `conf`,
// the DFLT-tag will be returned.
func LanguageTagForLanguage(lang language.Tag, conf language.Confidence) ot.Tag {
	l, _, c := supportedLanguagesMatcher.Match(lang)
	tracer().Debugf("OpenType language matched %s (%s) : %s", display.English.Tags().Name(l),
		display.Self.Name(l), c)
	if c < conf { // if matcher's confidence level is not high enough
		return ot.DFLT
	}
	// the matcher falls back to English with high confidence
	if want, _ := lang.Base(); want != langBase(l) {
		return ot.DFLT
	}
	base, _ := language.Compose(l.Base()) // re-package l to cleanly match base language constant
	if ltag, ok := supportedLanguages[base]; ok {
		return ot.T(ltag)
	}
	return ot.DFLT
}

func langBase(l language.Tag) language.Base {
	b, _ := l.Base()
	return b
}

// For some script/language combinations the Unicde de-composed (NFD) is the preferred
// form for later states of the shaping pipeline.
// If the language list contains just DFLT, the script prefers NFD independent of the language.
var scriptPreferDecomposed = map[ot.Tag][]ot.Tag{
	ot.T("dev2"): {ot.DFLT}, // all Devangari flavours
	ot.T("bng2"): {ot.DFLT}, // all Bengali flavours
}

// prefersDecomposed signals wether a script should be de-composed before shaping.
// For some script/language combinations the Unicde de-composed (NFD) is the preferred
// form for later states of the shaping pipeline.
func prefersDecomposed(script ot.Tag, lang ot.Tag) bool {
	if langs, ok := scriptPreferDecomposed[script]; ok {
		if len(langs) > 0 {
			if langs[0] == ot.DFLT || slices.Contains(langs, lang) {
				return true
			}
		}
	}
	return false
}

package otlayout

import (
	"strings"

	"github.com/npillmayer/otengine/core/font/opentype/ot"
)

// LayoutTagType tells which layout table a registered feature belongs to, see
// https://docs.microsoft.com/en-us/typography/opentype/spec/featurelist.
type LayoutTagType uint8

const (
	GSubFeatureType LayoutTagType = 1
	GPosFeatureType LayoutTagType = 2
)

func (t LayoutTagType) String() string {
	switch t {
	case GSubFeatureType:
		return "GSUB"
	case GPosFeatureType:
		return "GPOS"
	}
	return "?"
}

// Registered feature tags, as of 2020. Some features may be implemented in
// either table; they are listed with the table they are usually found in.
const (
	gsubFeatures = `aalt abvf abvs afrc akhn blwf blws c2pc c2sc calt case ccmp cfar chws cjct
		clig cswh dlig dnom dtls expt falt fin2 fin3 fina flac frac fwid half haln halt hist
		hkna hlig hngl hojo hwid init isol ital jalt jp04 jp78 jp83 jp90 liga ljmo lnum locl
		ltra ltrm med2 medi mgrk mset nalt nlck nukt numr onum ordn ornm palt pcap pkna pnum
		pref pres pstf psts pwid qwid rand rclt rkrf rlig rphf rtla rtlm ruby rvrn salt sinf
		smcp smpl ssty stch subs sups swsh titl tjmo tnam tnum trad twid unic valt vatu vert
		vhal vjmo vkna vpal vrt2 vrtr zero`
	gposFeatures = `abvm blwm cpct cpsp curs dist kern lfbd mark mkmk opbd rtbd size vchw vkrn`
)

var registeredFeatures = func() map[ot.Tag]LayoutTagType {
	m := make(map[ot.Tag]LayoutTagType, 128)
	for _, t := range strings.Fields(gsubFeatures) {
		m[ot.T(t)] = GSubFeatureType
	}
	for _, t := range strings.Fields(gposFeatures) {
		m[ot.T(t)] = GPosFeatureType
	}
	return m
}()

// FeatureTypeOf tells whether a feature tag is registered for GSUB or GPOS.
// Character variants 'cv01'–'cv99' and stylistic sets 'ss01'–'ss20' are GSUB
// features. Returns false for unregistered tags.
func FeatureTypeOf(tag ot.Tag) (LayoutTagType, bool) {
	if typ, ok := registeredFeatures[tag]; ok {
		return typ, true
	}
	s := tag.String()
	if (strings.HasPrefix(s, "cv") || strings.HasPrefix(s, "ss")) && isDigit(s[2]) && isDigit(s[3]) {
		return GSubFeatureType, true
	}
	return 0, false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

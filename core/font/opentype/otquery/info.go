package otquery

import (
	"slices"

	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// FontType returns the font type, encoded in the font header, as a string.
func FontType(otf *ot.Font) string {
	if otf.Header == nil {
		return "<empty>"
	}
	switch otf.Header.FontType {
	case 0x4f54544f: // OTTO
		return "OpenType (outlines)"
	case 0x00010000: // TrueType
		return "TrueType"
	case 0x74727565: // true
		return "TrueType (Mac legacy)"
	}
	return "<unknown>"
}

// Name IDs of table 'name' reported by NameInfo.
var nameIDs = map[uint16]string{
	1: "family",
	2: "subfamily",
	4: "fullname",
	5: "version",
	6: "postscript",
}

// Platforms of name records, in order of preference.
const (
	platformUnicode = 0
	platformMac     = 1
	platformWindows = 3
)

// NameInfo returns a map with selected fields from OpenType table `name`.
// Will include (if available in the font) "family", "subfamily", "fullname",
// "version" and "postscript".
//
// Windows records in US English are preferred over other Windows records, which
// are preferred over Unicode and Macintosh records.
func NameInfo(otf *ot.Font) map[string]string {
	names := make(map[string]string)
	b := otf.TableBytes(ot.T("name"))
	if len(b) < 6 {
		tracer().Debugf("no name table found in font")
		return names
	}
	p := ot.NewParser(b)
	p.Skip(2) // format
	count, _ := p.ReadU16()
	storage, err := p.ReadU16()
	if err != nil {
		return names
	}
	rank := make(map[string]int)
	for i := 0; i < int(count); i++ {
		var rec [6]uint16 // platform, encoding, language, name ID, length, offset
		if err = p.ReadU16s(rec[:], 6); err != nil {
			return names
		}
		field, ok := nameIDs[rec[3]]
		if !ok {
			continue
		}
		r := nameRank(rec[0], rec[1], rec[2])
		if r == 0 || r <= rank[field] {
			continue
		}
		start := int(storage) + int(rec[5])
		end := start + int(rec[4])
		if end > len(b) {
			tracer().Infof("name record %d exceeds name table", i)
			continue
		}
		if s, ok := decodeName(rec[0], b[start:end]); ok {
			names[field] = s
			rank[field] = r
		}
	}
	return names
}

func nameRank(platform, encoding, lang uint16) int {
	switch platform {
	case platformWindows:
		if encoding != 1 && encoding != 10 { // Unicode BMP or full repertoire
			return 0
		}
		if lang == 0x0409 { // en-US
			return 4
		}
		return 3
	case platformUnicode:
		return 2
	case platformMac:
		if encoding == 0 { // Roman
			return 1
		}
	}
	return 0
}

func decodeName(platform uint16, b []byte) (string, bool) {
	var s []byte
	var err error
	if platform == platformMac {
		s, err = charmap.Macintosh.NewDecoder().Bytes(b)
	} else {
		s, err = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	}
	if err != nil {
		return "", false
	}
	return string(s), true
}

// LayoutTables returns a list of tag strings, one for each layout-table a font includes.
//
// From the OpenType specification:
// OpenType Layout makes use of five tables: GSUB, GPOS, BASE, JSTF, and GDEF.
func LayoutTables(otf *ot.Font) []string {
	var lt []string
	for _, tag := range otf.TableTags() {
		switch tag.String() {
		case "GSUB", "GPOS", "BASE", "JSTF", "GDEF":
			lt = append(lt, tag.String())
		}
	}
	return lt
}

// GlyphClass collects glyph class information for a glyph index.
type GlyphClass struct {
	Class           ot.GlyphClass
	MarkAttachClass int
	MarkGlyphSets   []int // mark filtering sets containing the glyph
}

// GlyphClasses retrieves glyph class information for a given glyph index.
func GlyphClasses(otf *ot.Font, gid ot.GlyphIndex) GlyphClass {
	clz := GlyphClass{
		Class:           otf.GlyphClass(gid),
		MarkAttachClass: int(otf.AttachmentClass(gid)),
	}
	if gdef := otf.Layout.GDef; gdef != nil {
		for i, set := range gdef.MarkGlyphSets {
			if set.Contains(gid) {
				clz.MarkGlyphSets = append(clz.MarkGlyphSets, i)
			}
		}
	}
	return clz
}

// --- Scripts and features --------------------------------------------------

// Scripts returns the tags of all scripts of GSUB and GPOS, sorted.
func Scripts(otf *ot.Font) []ot.Tag {
	var scripts []ot.Tag
	for _, t := range layoutTablesOf(otf) {
		for _, s := range t.Scripts {
			if !slices.Contains(scripts, s.Tag) {
				scripts = append(scripts, s.Tag)
			}
		}
	}
	slices.Sort(scripts)
	return scripts
}

// Languages returns the tags of the language systems of a script, from GSUB
// and GPOS. The default language system is reported as DFLT.
func Languages(otf *ot.Font, script ot.Tag) []ot.Tag {
	var langs []ot.Tag
	add := func(tag ot.Tag) {
		if !slices.Contains(langs, tag) {
			langs = append(langs, tag)
		}
	}
	for _, t := range layoutTablesOf(otf) {
		scr := t.Script(script)
		if scr == nil {
			continue
		}
		if scr.DefaultLangSys != nil {
			add(ot.DFLT)
		}
		for _, ls := range scr.LangSys {
			add(ls.Tag)
		}
	}
	return langs
}

// Features returns the tags of the GSUB and GPOS features for a script and a
// language, in font order. A required feature is listed first.
func Features(otf *ot.Font, script, lang ot.Tag) (gsub, gpos []ot.Tag) {
	tags := func(t *ot.LayoutTable) []ot.Tag {
		var ft []ot.Tag
		for _, inx := range t.FeaturesFor(script, lang) {
			if tag := t.Features[inx].Tag; !slices.Contains(ft, tag) {
				ft = append(ft, tag)
			}
		}
		return ft
	}
	if otf.Layout.GSub != nil {
		gsub = tags(&otf.Layout.GSub.LayoutTable)
	}
	if otf.Layout.GPos != nil {
		gpos = tags(&otf.Layout.GPos.LayoutTable)
	}
	return
}

// FontSupportsScript returns a tuple (script-tag, language-tag) for a given input
// of a script tag and a language tag. If the language has no special support in the
// font, DFLT will be returned. If the script has no support in the font,
// DFLT will be returned for the script.
func FontSupportsScript(otf *ot.Font, scr ot.Tag, lang ot.Tag) (ot.Tag, ot.Tag) {
	langs := Languages(otf, scr)
	if len(langs) == 0 {
		tracer().Infof("cannot find script %s in font", scr)
		return ot.DFLT, ot.DFLT
	}
	tracer().Debugf("script %s is contained in font", scr)
	if slices.Contains(langs, lang) {
		return scr, lang
	}
	return scr, ot.DFLT
}

func layoutTablesOf(otf *ot.Font) []*ot.LayoutTable {
	var lt []*ot.LayoutTable
	if otf.Layout.GSub != nil {
		lt = append(lt, &otf.Layout.GSub.LayoutTable)
	}
	if otf.Layout.GPos != nil {
		lt = append(lt, &otf.Layout.GPos.LayoutTable)
	}
	return lt
}

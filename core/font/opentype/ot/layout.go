package ot

import (
	"slices"
	"sort"
)

/*
From https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2:

OpenType Layout consists of five tables: the Glyph Substitution table (GSUB),
the Glyph Positioning table (GPOS), the Baseline table (BASE),
the Justification table (JSTF), and the Glyph Definition table (GDEF).
These tables use some of the same data formats.
*/

// LayoutTableLookupFlag is a flag type for layout tables (GPOS and GSUB).
type LayoutTableLookupFlag uint16

// Lookup flags of layout tables (GPOS and GSUB)
const ( // LookupFlag bit enumeration
	// Note that the RIGHT_TO_LEFT flag is used only for GPOS type 3 lookups and is ignored
	// otherwise. It is not used by client software in determining text direction.
	LOOKUP_FLAG_RIGHT_TO_LEFT             LayoutTableLookupFlag = 0x0001
	LOOKUP_FLAG_IGNORE_BASE_GLYPHS        LayoutTableLookupFlag = 0x0002 // If set, skips over base glyphs
	LOOKUP_FLAG_IGNORE_LIGATURES          LayoutTableLookupFlag = 0x0004 // If set, skips over ligatures
	LOOKUP_FLAG_IGNORE_MARKS              LayoutTableLookupFlag = 0x0008 // If set, skips over all combining marks
	LOOKUP_FLAG_USE_MARK_FILTERING_SET    LayoutTableLookupFlag = 0x0010 // If set, indicates that the lookup table structure is followed by a MarkFilteringSet field.
	LOOKUP_FLAG_reserved                  LayoutTableLookupFlag = 0x00E0 // For future use (Set to zero)
	LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK LayoutTableLookupFlag = 0xFF00 // If not zero, skips over all marks of attachment type different from specified.
)

// IgnoredClasses returns the glyph classes a lookup with flag f skips.
func (f LayoutTableLookupFlag) IgnoredClasses() GlyphClass {
	var c GlyphClass
	if f&LOOKUP_FLAG_IGNORE_BASE_GLYPHS != 0 {
		c |= BaseGlyph
	}
	if f&LOOKUP_FLAG_IGNORE_LIGATURES != 0 {
		c |= LigatureGlyph
	}
	if f&LOOKUP_FLAG_IGNORE_MARKS != 0 {
		c |= MarkGlyph
	}
	return c
}

// MarkAttachmentType returns the mark attachment class selected by flag f,
// or 0 if marks are not filtered by attachment class.
func (f LayoutTableLookupFlag) MarkAttachmentType() uint16 {
	return uint16(f&LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK) >> 8
}

// LayoutTableLookupType is a type identifier for layout lookup records (GPOS and GSUB).
// Enum values are different for GPOS and GSUB.
type LayoutTableLookupType uint16

// GlyphClass is a bit set of glyph classes, as assigned by table GDEF.
// A glyph has exactly one class; sets of classes are used for glyphs to skip.
type GlyphClass uint8

// Glyph classes. GDEF class values 1…4 map to bits 0…3.
const (
	BaseGlyph      GlyphClass = 1 << iota // single character, spacing glyph
	LigatureGlyph                         // multiple character, spacing glyph
	MarkGlyph                             // non-spacing combining glyph
	ComponentGlyph                        // part of single character, spacing glyph
)

// GlyphClassFromGDef converts a GDEF glyph class value to a GlyphClass.
// Class 0 and unknown values map to BaseGlyph.
func GlyphClassFromGDef(c uint16) GlyphClass {
	if c < 1 || c > 4 {
		return BaseGlyph
	}
	return GlyphClass(1 << (c - 1))
}

func (c GlyphClass) String() string {
	switch c {
	case BaseGlyph:
		return "base"
	case LigatureGlyph:
		return "ligature"
	case MarkGlyph:
		return "mark"
	case ComponentGlyph:
		return "component"
	case 0:
		return "none"
	}
	return "mixed"
}

// --- Layout tables ---------------------------------------------------------

// LayoutTable is a base type for layout tables.
// OpenType specifies two such tables–GPOS and GSUB–which share some of their
// structure.
//
// A LayoutTable is read-only after parsing and may be shared between goroutines.
type LayoutTable struct {
	Scripts  []Script       // sorted by tag
	Features []Feature      // in font order, referenced by index
	Lookups  []*LookupTable // in font order, referenced by index
	major    uint16
	minor    uint16
	arenaUse int // bytes allocated from the parse arena
}

// Version returns major and minor version numbers for this layout table.
func (t *LayoutTable) Version() (int, int) {
	return int(t.major), int(t.minor)
}

// ArenaUsed returns the number of bytes the parser allocated for this table.
func (t *LayoutTable) ArenaUsed() int {
	return t.arenaUse
}

// Lookup returns lookup number i, or nil if i is out of range.
func (t *LayoutTable) Lookup(i int) *LookupTable {
	if t == nil || i < 0 || i >= len(t.Lookups) {
		return nil
	}
	return t.Lookups[i]
}

// Script returns the script table for tag, or nil.
func (t *LayoutTable) Script(tag Tag) *Script {
	if t == nil {
		return nil
	}
	i := sort.Search(len(t.Scripts), func(i int) bool { return t.Scripts[i].Tag >= tag })
	if i < len(t.Scripts) && t.Scripts[i].Tag == tag {
		return &t.Scripts[i]
	}
	for i := range t.Scripts { // fonts sometimes do not sort their scripts
		if t.Scripts[i].Tag == tag {
			return &t.Scripts[i]
		}
	}
	return nil
}

// Feature returns the first feature with the given tag, or nil.
// As features for different scripts may share a tag, clients will usually
// want to use FeaturesFor.
func (t *LayoutTable) Feature(tag Tag) *Feature {
	if t == nil {
		return nil
	}
	for i := range t.Features {
		if t.Features[i].Tag == tag {
			return &t.Features[i]
		}
	}
	return nil
}

// LangSysFor selects the language system for a script and a language.
// If the script is not supported, the language systems of script DFLT are
// consulted. If the language is not supported, the script's default language
// system is returned. May return nil.
func (t *LayoutTable) LangSysFor(script, lang Tag) *LangSys {
	scr := t.Script(script)
	if scr == nil {
		if scr = t.Script(DFLT); scr == nil {
			return nil
		}
	}
	if lang != DFLT && lang != 0 {
		for i := range scr.LangSys {
			if scr.LangSys[i].Tag == lang {
				return &scr.LangSys[i]
			}
		}
	}
	return scr.DefaultLangSys
}

// FeaturesFor returns the indices of the features active for a script and a
// language, with the required feature first (if any).
func (t *LayoutTable) FeaturesFor(script, lang Tag) []int {
	ls := t.LangSysFor(script, lang)
	if ls == nil {
		return nil
	}
	inx := make([]int, 0, len(ls.FeatureIndices)+1)
	if ls.RequiredFeature >= 0 && ls.RequiredFeature < len(t.Features) {
		inx = append(inx, ls.RequiredFeature)
	}
	for _, fi := range ls.FeatureIndices {
		if int(fi) < len(t.Features) {
			inx = append(inx, int(fi))
		}
	}
	return inx
}

// FeatureLookup is a lookup, referenced by index, enabled by a feature.
// Further enabled features referencing the same lookup are listed in Shared.
type FeatureLookup struct {
	LookupIndex int
	Feature     Tag
	Shared      []Tag
}

// LookupsFor collects the lookups of all features in tags active for a script
// and a language. The result is sorted by lookup index, as OpenType requires
// lookups to be applied in lookup list order. A lookup referenced by more than
// one enabled feature is reported once, with the first feature referencing it
// and the others in Shared.
func (t *LayoutTable) LookupsFor(script, lang Tag, tags []Tag) []FeatureLookup {
	if t == nil {
		return nil
	}
	enabled := make(map[Tag]bool, len(tags))
	for _, tag := range tags {
		enabled[tag] = true
	}
	seen := make(map[int]int) // lookup index -> position in lookups
	var lookups []FeatureLookup
	for _, fi := range t.FeaturesFor(script, lang) {
		f := &t.Features[fi]
		if !enabled[f.Tag] {
			continue
		}
		for _, li := range f.LookupIndices {
			if int(li) >= len(t.Lookups) {
				continue
			}
			if k, ok := seen[int(li)]; ok {
				if fl := &lookups[k]; fl.Feature != f.Tag && !slices.Contains(fl.Shared, f.Tag) {
					fl.Shared = append(fl.Shared, f.Tag)
				}
				continue
			}
			seen[int(li)] = len(lookups)
			lookups = append(lookups, FeatureLookup{LookupIndex: int(li), Feature: f.Tag})
		}
	}
	sort.SliceStable(lookups, func(i, j int) bool {
		return lookups[i].LookupIndex < lookups[j].LookupIndex
	})
	return lookups
}

// Script is a script table of a layout table's script list.
type Script struct {
	Tag            Tag
	DefaultLangSys *LangSys // may be nil
	LangSys        []LangSys
}

// LangSys is a language system table. It lists the features of a language
// within a script.
type LangSys struct {
	Tag             Tag
	RequiredFeature int // -1 if none
	FeatureIndices  []uint16
}

// Feature is a feature table, a tag plus an ordered list of lookup indices.
type Feature struct {
	Tag           Tag
	LookupIndices []uint16
}

// LookupTable is a lookup of a layout table.
//
// From the OpenType specification:
// A Lookup table (Lookup) defines the specific conditions, type, and results of a
// substitution or positioning action that is used to implement a feature.
type LookupTable struct {
	Type             LayoutTableLookupType // for extension lookups, the type of the wrapped subtables
	Flag             LayoutTableLookupFlag
	MarkFilteringSet int       // index into GDEF mark glyph sets, -1 if not used
	MarkSet          *Coverage // resolved mark filtering set, may be nil
	Subtables        []LookupSubtable
}

// GSubTable is a type representing an OpenType GSUB table
// (see https://docs.microsoft.com/en-us/typography/opentype/spec/gsub).
type GSubTable struct {
	tableBase
	LayoutTable
}

var _ Table = &GSubTable{}

// GPosTable is a type representing an OpenType GPOS table
// (see https://docs.microsoft.com/en-us/typography/opentype/spec/gpos).
type GPosTable struct {
	tableBase
	LayoutTable
}

var _ Table = &GPosTable{}

// --- GDEF table ------------------------------------------------------------

// GDefTable, the Glyph Definition (GDEF) table, provides various glyph properties
// used in OpenType Layout processing.
//
// See also
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#class-definition-table
type GDefTable struct {
	tableBase
	GlyphClassDef          *ClassDef   // may be nil
	MarkAttachmentClassDef *ClassDef   // may be nil
	MarkGlyphSets          []*Coverage // since version 1.2
	major                  uint16
	minor                  uint16
}

// Version returns major and minor version numbers for this GDEF table.
func (t *GDefTable) Version() (int, int) {
	return int(t.major), int(t.minor)
}

// GlyphClassDefEnum lists the glyph classes for ClassDefinitions
// ('GlyphClassDef'-table).
type GlyphClassDefEnum uint16

// Glyph classes of GDEF.GlyphClassDef
const (
	NoClass        GlyphClassDefEnum = iota // no class assigned
	BaseGlyphDef                            // Base glyph (single character, spacing glyph)
	LigatureGlyphDef                        // Ligature glyph (multiple character, spacing glyph)
	MarkGlyphDef                            // Mark glyph (non-spacing combining glyph)
	ComponentGlyphDef                       // Component glyph (part of single character, spacing glyph)
)

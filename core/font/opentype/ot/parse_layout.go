package ot

import (
	"github.com/npillmayer/otengine/core"
	"github.com/npillmayer/otengine/core/arena"
)

// === Common Code for GPOS and GSUB =========================================

// ParseOptions control the parsing of layout tables.
type ParseOptions struct {
	// ArenaSize is the capacity in bytes of the arena used for a layout table.
	// 0 selects a size proportional to the table's byte size.
	ArenaSize int
}

// arenaSizeFor returns the arena capacity to use for a table of n bytes.
func (opts ParseOptions) arenaSizeFor(n int) int {
	if opts.ArenaSize > 0 {
		return opts.ArenaSize
	}
	return 16*n + 4096
}

// layoutParser holds the state of parsing a single layout table.
// Coverages and class definitions shared between subtables are parsed once,
// keyed by their absolute offset.
type layoutParser struct {
	p         *Parser
	arena     *arena.Arena
	tag       Tag
	gdef      *GDefTable
	coverages map[int]*Coverage
	classDefs map[int]*ClassDef
}

func newLayoutParser(tag Tag, b []byte, gdef *GDefTable, opts ParseOptions) *layoutParser {
	return &layoutParser{
		p:         NewParser(b),
		arena:     arena.New(opts.arenaSizeFor(len(b)), 0),
		tag:       tag,
		gdef:      gdef,
		coverages: make(map[int]*Coverage),
		classDefs: make(map[int]*ClassDef),
	}
}

// isGPos is true when parsing a GPOS table.
func (lp *layoutParser) isGPos() bool {
	return lp.tag == T("GPOS")
}

// ParseLayoutTable parses the bytes of a GSUB or GPOS table. gdef may be nil;
// it is needed to resolve mark filtering sets of lookups.
//
// Structure of both tables:
//
//	uint16    majorVersion             1
//	uint16    minorVersion             0 or 1
//	Offset16  scriptListOffset
//	Offset16  featureListOffset
//	Offset16  lookupListOffset
//	Offset32  featureVariationsOffset  (version 1.1 only, ignored)
func ParseLayoutTable(tag Tag, b []byte, gdef *GDefTable, opts ParseOptions) (*LayoutTable, error) {
	if tag != T("GSUB") && tag != T("GPOS") {
		return nil, errKind(ErrInvalidTag, "not a layout table: %s", tag)
	}
	lp := newLayoutParser(tag, b, gdef, opts)
	lytt := &LayoutTable{}
	var err error
	var scriptOffset, featureOffset, lookupOffset uint16
	if lytt.major, err = lp.p.ReadU16(); err != nil {
		return nil, wrapTableError(tag, err)
	}
	if lytt.minor, err = lp.p.ReadU16(); err != nil {
		return nil, wrapTableError(tag, err)
	}
	if lytt.major != 1 || lytt.minor > 1 {
		return nil, errKind(ErrInvalidVersion, "%s version %d.%d", tag, lytt.major, lytt.minor)
	}
	if scriptOffset, err = lp.p.ReadU16(); err == nil {
		if featureOffset, err = lp.p.ReadU16(); err == nil {
			lookupOffset, err = lp.p.ReadU16()
		}
	}
	err = lp.parseLookupList(lytt, int(lookupOffset), err)
	err = lp.parseFeatureList(lytt, int(featureOffset), err)
	err = lp.parseScriptList(lytt, int(scriptOffset), err)
	if err != nil {
		tracer().Errorf("error parsing %s table: %v", tag, err)
		return nil, wrapTableError(tag, err)
	}
	lytt.arenaUse = lp.arena.Used()
	tracer().Debugf("%s table has version %d.%d", tag, lytt.major, lytt.minor)
	tracer().Debugf("%s table has %d lookup list entries, %d features, %d scripts",
		tag, len(lytt.Lookups), len(lytt.Features), len(lytt.Scripts))
	tracer().Debugf("%s table uses %d of %d arena bytes", tag, lp.arena.Used(), lp.arena.Cap())
	return lytt, nil
}

// wrapTableError adds the table name to an error, keeping kind and code intact.
func wrapTableError(tag Tag, err error) error {
	return core.WrapError(err, core.Code(err), "parsing %s table", tag)
}

// --- Script list -----------------------------------------------------------

// A ScriptList table consists of a count of the scripts represented by the glyphs in the
// font (ScriptCount) and an array of records (ScriptRecord), one for each script for which
// the font defines script-specific features (a script without script-specific features
// does not need a ScriptRecord). Each ScriptRecord consists of a ScriptTag that identifies
// a script, and an offset to a Script table. The ScriptRecord array is stored in
// alphabetic order of the script tags.
func (lp *layoutParser) parseScriptList(lytt *LayoutTable, offset int, err error) error {
	if err != nil || offset == 0 {
		return err
	}
	p := lp.p
	if err = p.PushState(offset); err != nil {
		return err
	}
	defer p.PopState()
	count, err := p.ReadU16()
	if err != nil {
		return err
	}
	lytt.Scripts = make([]Script, count)
	for i := range lytt.Scripts {
		tag, off, err := readTagRecord(p)
		if err != nil {
			return err
		}
		if err = lp.parseScript(&lytt.Scripts[i], tag, off); err != nil {
			return err
		}
	}
	return nil
}

func (lp *layoutParser) parseScript(scr *Script, tag Tag, offset int) error {
	p := lp.p
	scr.Tag = tag
	if err := p.PushState(offset); err != nil {
		return err
	}
	defer p.PopState()
	defaultOffset, err := p.ReadU16()
	if err != nil {
		return err
	}
	count, err := p.ReadU16()
	if err != nil {
		return err
	}
	scr.LangSys = make([]LangSys, count)
	for i := range scr.LangSys {
		ltag, off, err := readTagRecord(p)
		if err != nil {
			return err
		}
		if scr.LangSys[i], err = lp.parseLangSys(ltag, off); err != nil {
			return err
		}
	}
	if defaultOffset != 0 {
		dflt, err := lp.parseLangSys(DFLT, int(defaultOffset))
		if err != nil {
			return err
		}
		scr.DefaultLangSys = &dflt
	}
	return nil
}

// LangSys:
//
//	Offset16  lookupOrderOffset     reserved, NULL
//	uint16    requiredFeatureIndex  0xFFFF if no required feature
//	uint16    featureIndexCount
//	uint16    featureIndices[featureIndexCount]
func (lp *layoutParser) parseLangSys(tag Tag, offset int) (LangSys, error) {
	p := lp.p
	ls := LangSys{Tag: tag, RequiredFeature: -1}
	if err := p.PushState(offset); err != nil {
		return ls, err
	}
	defer p.PopState()
	if err := p.Skip(2); err != nil {
		return ls, err
	}
	req, err := p.ReadU16()
	if err != nil {
		return ls, err
	}
	if req != 0xffff {
		ls.RequiredFeature = int(req)
	}
	ls.FeatureIndices, err = lp.readU16Array()
	return ls, err
}

// --- Feature list ----------------------------------------------------------

// The headers of the GSUB and GPOS tables contain offsets to Feature List tables
// (FeatureList) that enumerate all the features in a font. Features in a particular
// FeatureList are not limited to any single script. A FeatureList contains the entire
// list of either the GSUB or GPOS features that are used to render the glyphs in all
// the scripts in the font.
func (lp *layoutParser) parseFeatureList(lytt *LayoutTable, offset int, err error) error {
	if err != nil || offset == 0 {
		return err
	}
	p := lp.p
	if err = p.PushState(offset); err != nil {
		return err
	}
	defer p.PopState()
	count, err := p.ReadU16()
	if err != nil {
		return err
	}
	lytt.Features = make([]Feature, count)
	for i := range lytt.Features {
		tag, off, err := readTagRecord(p)
		if err != nil {
			return err
		}
		f := &lytt.Features[i]
		f.Tag = tag
		if err = p.PushState(off); err != nil {
			return err
		}
		if err = p.Skip(2); err == nil { // feature params
			f.LookupIndices, err = lp.readU16Array()
		}
		p.PopState()
		if err != nil {
			return err
		}
		for _, li := range f.LookupIndices {
			if int(li) >= len(lytt.Lookups) {
				tracer().Infof("feature %s references lookup %d of %d", tag, li, len(lytt.Lookups))
			}
		}
	}
	return nil
}

// readTagRecord reads a record of a 4-byte tag and a 16-bit offset.
func readTagRecord(p *Parser) (Tag, int, error) {
	tag, err := p.ReadTag()
	if err != nil {
		return 0, 0, err
	}
	if !validTag(tag) {
		return 0, 0, errKind(ErrInvalidTag, "tag %x", uint32(tag))
	}
	off, err := p.ReadU16()
	return tag, int(off), err
}

// --- Lookup list -----------------------------------------------------------

// parseLookupList parses the lookup list and every lookup contained.
//
//	uint16    lookupCount
//	Offset16  lookupOffsets[lookupCount]
func (lp *layoutParser) parseLookupList(lytt *LayoutTable, offset int, err error) error {
	if err != nil || offset == 0 {
		return err
	}
	p := lp.p
	if err = p.PushState(offset); err != nil {
		return err
	}
	defer p.PopState()
	offsets, err := lp.readOffsets16()
	if err != nil {
		return err
	}
	lytt.Lookups = make([]*LookupTable, len(offsets))
	for i, off := range offsets {
		if lytt.Lookups[i], err = lp.parseLookup(int(off)); err != nil {
			return core.WrapError(err, core.Code(err), "lookup #%d", i)
		}
	}
	return nil
}

// Lookup table:
//
//	uint16    lookupType
//	uint16    lookupFlag
//	uint16    subTableCount
//	Offset16  subtableOffsets[subTableCount]
//	uint16    markFilteringSet  (if USE_MARK_FILTERING_SET is set)
func (lp *layoutParser) parseLookup(offset int) (*LookupTable, error) {
	p := lp.p
	if err := p.PushState(offset); err != nil {
		return nil, err
	}
	defer p.PopState()
	typ, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	flag, err := p.ReadU16()
	if err != nil {
		return nil, err
	}
	lookup := &LookupTable{
		Type:             LayoutTableLookupType(typ),
		Flag:             LayoutTableLookupFlag(flag),
		MarkFilteringSet: -1,
	}
	if !lp.validLookupType(lookup.Type) {
		return nil, errKind(ErrInvalidLookupType, "%s lookup type %d", lp.tag, typ)
	}
	offsets, err := lp.readOffsets16()
	if err != nil {
		return nil, err
	}
	if lookup.Flag&LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 {
		set, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		lookup.MarkFilteringSet = int(set)
		if lp.gdef != nil && int(set) < len(lp.gdef.MarkGlyphSets) {
			lookup.MarkSet = lp.gdef.MarkGlyphSets[set]
		} else {
			tracer().Infof("lookup references mark filtering set %d, not present in GDEF", set)
		}
	}
	declared := lookup.Type
	lookup.Subtables = make([]LookupSubtable, 0, len(offsets))
	for _, off := range offsets {
		if off == 0 {
			continue
		}
		sub, typ, err := lp.parseSubtableAt(int(off), declared)
		if err != nil {
			return nil, err
		}
		if lookup.Type == lp.extensionType() {
			lookup.Type = typ
		} else if typ != lookup.Type {
			return nil, errKind(ErrInvalidLookupType,
				"extension subtables of mixed types %d and %d", lookup.Type, typ)
		}
		lookup.Subtables = append(lookup.Subtables, sub)
	}
	return lookup, nil
}

func (lp *layoutParser) validLookupType(t LayoutTableLookupType) bool {
	if lp.isGPos() {
		return t >= GPosLookupTypeSingle && t <= GPosLookupTypeExtensionPos
	}
	return t >= GSubLookupTypeSingle && t <= GSubLookupTypeReverseChaining
}

func (lp *layoutParser) extensionType() LayoutTableLookupType {
	if lp.isGPos() {
		return GPosLookupTypeExtensionPos
	}
	return GSubLookupTypeExtensionSubs
}

// parseSubtableAt parses a subtable of lookup type typ, unwrapping extension
// subtables. It returns the subtable and its effective lookup type.
//
// Extension subtable:
//
//	uint16    substFormat          1
//	uint16    extensionLookupType  must not be an extension type
//	Offset32  extensionOffset      from beginning of extension subtable
func (lp *layoutParser) parseSubtableAt(offset int, typ LayoutTableLookupType) (LookupSubtable, LayoutTableLookupType, error) {
	p := lp.p
	if err := p.PushState(offset); err != nil {
		return nil, 0, err
	}
	defer p.PopState()
	if typ != lp.extensionType() {
		sub, err := lp.parseSubtable(typ)
		return sub, typ, err
	}
	format, err := p.ReadU16()
	if err != nil {
		return nil, 0, err
	}
	if format != 1 {
		return nil, 0, errKind(ErrInvalidSubtableFormat, "extension subtable format %d", format)
	}
	ext, err := p.ReadU16()
	if err != nil {
		return nil, 0, err
	}
	extType := LayoutTableLookupType(ext)
	if extType == lp.extensionType() || !lp.validLookupType(extType) {
		return nil, 0, errKind(ErrInvalidLookupType, "extension wraps lookup type %d", ext)
	}
	extOffset, err := p.ReadU32()
	if err != nil {
		return nil, 0, err
	}
	if err = p.PushState(int(extOffset)); err != nil {
		return nil, 0, err
	}
	defer p.PopState()
	sub, err := lp.parseSubtable(extType)
	return sub, extType, err
}

// parseSubtable dispatches on lookup type. The parser is positioned at the
// start of the subtable.
func (lp *layoutParser) parseSubtable(typ LayoutTableLookupType) (LookupSubtable, error) {
	if lp.isGPos() {
		return lp.parseGPosSubtable(typ)
	}
	return lp.parseGSubSubtable(typ)
}

// --- Shared structures -----------------------------------------------------

// coverageAt parses the coverage table at offset off, relative to the current
// structure. NULL offsets result in an empty coverage.
func (lp *layoutParser) coverageAt(off uint16) (*Coverage, error) {
	if off == 0 {
		return &Coverage{}, nil
	}
	p := lp.p
	abs := p.Base() + int(off)
	if cov, ok := lp.coverages[abs]; ok {
		return cov, nil
	}
	if err := p.PushState(int(off)); err != nil {
		return nil, err
	}
	defer p.PopState()
	cov, err := parseCoverage(p, lp.arena)
	if err != nil {
		return nil, err
	}
	lp.coverages[abs] = cov
	return cov, nil
}

// classDefAt parses the class definition at offset off, relative to the current
// structure. NULL offsets result in an empty class definition.
func (lp *layoutParser) classDefAt(off uint16) (*ClassDef, error) {
	if off == 0 {
		return &ClassDef{}, nil
	}
	p := lp.p
	abs := p.Base() + int(off)
	if cd, ok := lp.classDefs[abs]; ok {
		return cd, nil
	}
	if err := p.PushState(int(off)); err != nil {
		return nil, err
	}
	defer p.PopState()
	cd, err := parseClassDef(p, lp.arena)
	if err != nil {
		return nil, err
	}
	lp.classDefs[abs] = cd
	return cd, nil
}

// readCoverages reads a count-prefixed array of coverage offsets and parses
// the coverages.
func (lp *layoutParser) readCoverages() ([]*Coverage, error) {
	offsets, err := lp.readOffsets16()
	if err != nil {
		return nil, err
	}
	return lp.coveragesAt(offsets)
}

func (lp *layoutParser) coveragesAt(offsets []uint16) ([]*Coverage, error) {
	covs := make([]*Coverage, len(offsets))
	for i, off := range offsets {
		cov, err := lp.coverageAt(off)
		if err != nil {
			return nil, err
		}
		covs[i] = cov
	}
	return covs, nil
}

// readOffsets16 reads a count-prefixed array of 16-bit offsets. The result is
// temporary and not allocated from the arena.
func (lp *layoutParser) readOffsets16() ([]uint16, error) {
	count, err := lp.p.ReadU16()
	if err != nil {
		return nil, err
	}
	return lp.readOffsets16N(int(count))
}

func (lp *layoutParser) readOffsets16N(n int) ([]uint16, error) {
	offsets := make([]uint16, n)
	if err := lp.p.ReadU16s(offsets, n); err != nil {
		return nil, err
	}
	return offsets, nil
}

// readU16Array reads a count-prefixed array of 16-bit values into arena memory.
func (lp *layoutParser) readU16Array() ([]uint16, error) {
	count, err := lp.p.ReadU16()
	if err != nil {
		return nil, err
	}
	return lp.readU16N(int(count))
}

func (lp *layoutParser) readU16N(n int) ([]uint16, error) {
	a, err := arena.Slice[uint16](lp.arena, n)
	if err != nil {
		return nil, err
	}
	return a, lp.p.ReadU16s(a, n)
}

// readGlyphArray reads a count-prefixed array of glyphs into arena memory.
func (lp *layoutParser) readGlyphArray() ([]GlyphIndex, error) {
	count, err := lp.p.ReadU16()
	if err != nil {
		return nil, err
	}
	gg, err := arena.Slice[GlyphIndex](lp.arena, int(count))
	if err != nil {
		return nil, err
	}
	return gg, lp.p.ReadGlyphs(gg, int(count))
}

// readLookupRecords reads n sequence lookup records into arena memory.
func (lp *layoutParser) readLookupRecords(n int) ([]SequenceLookupRecord, error) {
	recs, err := arena.Slice[SequenceLookupRecord](lp.arena, n)
	if err != nil {
		return nil, err
	}
	b, err := lp.p.Bytes(4 * n)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i] = SequenceLookupRecord{SequenceIndex: u16(b[4*i:]), LookupIndex: u16(b[4*i+2:])}
	}
	return recs, nil
}

// --- Context subtables -----------------------------------------------------

// parseSequenceContext parses GSUB type 5 and GPOS type 7 subtables. The
// format has already been read.
func (lp *layoutParser) parseSequenceContext(format uint16) (LookupSubtable, error) {
	p := lp.p
	switch format {
	case 1, 2:
		covOffset, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		var cdOffset uint16
		if format == 2 {
			if cdOffset, err = p.ReadU16(); err != nil {
				return nil, err
			}
		}
		setOffsets, err := lp.readOffsets16()
		if err != nil {
			return nil, err
		}
		cov, err := lp.coverageAt(covOffset)
		if err != nil {
			return nil, err
		}
		ruleSets := make([][]SequenceRule, len(setOffsets))
		for i, off := range setOffsets {
			if ruleSets[i], err = lp.parseSequenceRuleSet(off); err != nil {
				return nil, err
			}
		}
		if format == 1 {
			return &SequenceContextFmt1{subtableFormat: 1, Coverage: cov, RuleSets: ruleSets}, nil
		}
		cd, err := lp.classDefAt(cdOffset)
		if err != nil {
			return nil, err
		}
		return &SequenceContextFmt2{subtableFormat: 2, Coverage: cov, ClassDef: cd, RuleSets: ruleSets}, nil
	case 3:
		glyphCount, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		recCount, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		offsets, err := lp.readOffsets16N(int(glyphCount))
		if err != nil {
			return nil, err
		}
		recs, err := lp.readLookupRecords(int(recCount))
		if err != nil {
			return nil, err
		}
		covs, err := lp.coveragesAt(offsets)
		if err != nil {
			return nil, err
		}
		if len(covs) == 0 {
			return nil, errKind(ErrUnexpectedValue, "context subtable with empty input sequence")
		}
		return &SequenceContextFmt3{subtableFormat: 3, Input: covs, Records: recs}, nil
	}
	return nil, errKind(ErrInvalidSubtableFormat, "context subtable format %d", format)
}

// SequenceRule:
//
//	uint16  glyphCount
//	uint16  seqLookupCount
//	uint16  inputSequence[glyphCount - 1]
//	SequenceLookupRecord  seqLookupRecords[seqLookupCount]
func (lp *layoutParser) parseSequenceRuleSet(offset uint16) ([]SequenceRule, error) {
	if offset == 0 {
		return nil, nil
	}
	p := lp.p
	if err := p.PushState(int(offset)); err != nil {
		return nil, err
	}
	defer p.PopState()
	ruleOffsets, err := lp.readOffsets16()
	if err != nil {
		return nil, err
	}
	rules := make([]SequenceRule, len(ruleOffsets))
	for i, off := range ruleOffsets {
		if err = p.PushState(int(off)); err != nil {
			return nil, err
		}
		err = lp.parseSequenceRule(&rules[i])
		p.PopState()
		if err != nil {
			return nil, err
		}
	}
	return rules, nil
}

func (lp *layoutParser) parseSequenceRule(rule *SequenceRule) error {
	p := lp.p
	glyphCount, err := p.ReadU16()
	if err != nil {
		return err
	}
	if glyphCount == 0 {
		return errKind(ErrUnexpectedValue, "sequence rule with glyph count 0")
	}
	recCount, err := p.ReadU16()
	if err != nil {
		return err
	}
	if rule.Input, err = lp.readU16N(int(glyphCount) - 1); err != nil {
		return err
	}
	rule.Records, err = lp.readLookupRecords(int(recCount))
	return err
}

// parseChainedSequenceContext parses GSUB type 6 and GPOS type 8 subtables.
// The format has already been read.
func (lp *layoutParser) parseChainedSequenceContext(format uint16) (LookupSubtable, error) {
	p := lp.p
	switch format {
	case 1, 2:
		covOffset, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		var cdOffsets []uint16
		if format == 2 {
			if cdOffsets, err = lp.readOffsets16N(3); err != nil {
				return nil, err
			}
		}
		setOffsets, err := lp.readOffsets16()
		if err != nil {
			return nil, err
		}
		cov, err := lp.coverageAt(covOffset)
		if err != nil {
			return nil, err
		}
		ruleSets := make([][]ChainedSequenceRule, len(setOffsets))
		for i, off := range setOffsets {
			if ruleSets[i], err = lp.parseChainedRuleSet(off); err != nil {
				return nil, err
			}
		}
		if format == 1 {
			return &ChainedContextFmt1{subtableFormat: 1, Coverage: cov, RuleSets: ruleSets}, nil
		}
		sub := &ChainedContextFmt2{subtableFormat: 2, Coverage: cov, RuleSets: ruleSets}
		if sub.BacktrackClassDef, err = lp.classDefAt(cdOffsets[0]); err != nil {
			return nil, err
		}
		if sub.InputClassDef, err = lp.classDefAt(cdOffsets[1]); err != nil {
			return nil, err
		}
		if sub.LookaheadClassDef, err = lp.classDefAt(cdOffsets[2]); err != nil {
			return nil, err
		}
		return sub, nil
	case 3:
		sub := &ChainedContextFmt3{subtableFormat: 3}
		var err error
		if sub.Backtrack, err = lp.readCoverages(); err != nil {
			return nil, err
		}
		if sub.Input, err = lp.readCoverages(); err != nil {
			return nil, err
		}
		if len(sub.Input) == 0 {
			return nil, errKind(ErrUnexpectedValue, "chained context subtable with empty input sequence")
		}
		if sub.Lookahead, err = lp.readCoverages(); err != nil {
			return nil, err
		}
		recCount, err := p.ReadU16()
		if err != nil {
			return nil, err
		}
		sub.Records, err = lp.readLookupRecords(int(recCount))
		return sub, err
	}
	return nil, errKind(ErrInvalidSubtableFormat, "chained context subtable format %d", format)
}

// ChainedSequenceRule:
//
//	uint16  backtrackGlyphCount
//	uint16  backtrackSequence[backtrackGlyphCount]
//	uint16  inputGlyphCount
//	uint16  inputSequence[inputGlyphCount - 1]
//	uint16  lookaheadGlyphCount
//	uint16  lookaheadSequence[lookaheadGlyphCount]
//	uint16  seqLookupCount
//	SequenceLookupRecord  seqLookupRecords[seqLookupCount]
func (lp *layoutParser) parseChainedRuleSet(offset uint16) ([]ChainedSequenceRule, error) {
	if offset == 0 {
		return nil, nil
	}
	p := lp.p
	if err := p.PushState(int(offset)); err != nil {
		return nil, err
	}
	defer p.PopState()
	ruleOffsets, err := lp.readOffsets16()
	if err != nil {
		return nil, err
	}
	rules := make([]ChainedSequenceRule, len(ruleOffsets))
	for i, off := range ruleOffsets {
		if err = p.PushState(int(off)); err != nil {
			return nil, err
		}
		err = lp.parseChainedRule(&rules[i])
		p.PopState()
		if err != nil {
			return nil, err
		}
	}
	return rules, nil
}

func (lp *layoutParser) parseChainedRule(rule *ChainedSequenceRule) error {
	p := lp.p
	var err error
	if rule.Backtrack, err = lp.readU16Array(); err != nil {
		return err
	}
	inputCount, err := p.ReadU16()
	if err != nil {
		return err
	}
	if inputCount == 0 {
		return errKind(ErrUnexpectedValue, "chained sequence rule with input count 0")
	}
	if rule.Input, err = lp.readU16N(int(inputCount) - 1); err != nil {
		return err
	}
	if rule.Lookahead, err = lp.readU16Array(); err != nil {
		return err
	}
	recCount, err := p.ReadU16()
	if err != nil {
		return err
	}
	rule.Records, err = lp.readLookupRecords(int(recCount))
	return err
}

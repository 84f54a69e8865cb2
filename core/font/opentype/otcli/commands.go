package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/otengine/core/font"
	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"github.com/npillmayer/otengine/core/font/opentype/otquery"
	"github.com/npillmayer/otengine/core/font/opentype/otshaper"
	"github.com/pterm/pterm"
)

// Command is a parsed line of input. A command line looks like
//
//	features:latn:TRK
//	shape some text
//
// i.e. a command word, optionally followed by colon-separated arguments,
// and, for 'shape', free text after the first blank.
type Command struct {
	Op   string
	Args []string
	Text string
}

var errNoCommand = errors.New("no command")

func parseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, errNoCommand
	}
	cmd := Command{}
	word, rest, _ := strings.Cut(line, " ")
	cmd.Text = strings.TrimSpace(rest)
	parts := strings.Split(word, ":")
	cmd.Op = strings.ToLower(parts[0])
	for _, a := range parts[1:] {
		if a != "" {
			cmd.Args = append(cmd.Args, a)
		}
	}
	switch cmd.Op {
	case "font", "tables", "scripts", "features", "lookup", "shape", "help", "quit":
	default:
		return cmd, fmt.Errorf("unknown command: %s", cmd.Op)
	}
	return cmd, nil
}

func (intp *Intp) execute(cmd Command) (bool, error) {
	switch cmd.Op {
	case "quit":
		return true, nil
	case "help":
		help(getOptArg(cmd.Args, 0, ""))
	case "font":
		intp.fontInfo()
	case "tables":
		pterm.Printfln("tables: %v", intp.font.TableTags())
		pterm.Printfln("layout: %v", otquery.LayoutTables(intp.font))
	case "scripts":
		intp.scripts()
	case "features":
		script := ot.T(getOptArg(cmd.Args, 0, "DFLT"))
		lang := ot.T(getOptArg(cmd.Args, 1, "DFLT"))
		gsub, gpos := otquery.Features(intp.font, script, lang)
		pterm.Printfln("GSUB features for %s/%s: %v", script, lang, gsub)
		pterm.Printfln("GPOS features for %s/%s: %v", script, lang, gpos)
	case "lookup":
		return false, intp.lookup(cmd)
	case "shape":
		return false, intp.shape(cmd)
	}
	return false, nil
}

func (intp *Intp) fontInfo() {
	names := otquery.NameInfo(intp.font)
	m := otquery.FontMetrics(intp.font)
	data := pterm.TableData{
		{"Property", "Value"},
		{"Family", names["family"]},
		{"Subfamily", names["subfamily"]},
		{"Version", names["version"]},
		{"Type", otquery.FontType(intp.font)},
		{"Glyphs", strconv.Itoa(intp.font.NumGlyphs())},
		{"Units per em", strconv.Itoa(int(m.UnitsPerEm))},
		{"Ascent", strconv.Itoa(int(m.Ascent))},
		{"Descent", strconv.Itoa(int(m.Descent))},
		{"Line gap", strconv.Itoa(int(m.LineGap))},
		{"Line height", strconv.Itoa(int(m.LineHeight()))},
	}
	if tc, err := intp.sfnt.PrepareCase(12.0); err == nil {
		data = append(data, []string{"Line height @12pt", tc.LineHeight().String()})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (intp *Intp) scripts() {
	data := pterm.TableData{{"Script", "Languages"}}
	for _, scr := range otquery.Scripts(intp.font) {
		langs := otquery.Languages(intp.font, scr)
		data = append(data, []string{scr.String(), fmt.Sprintf("%v", langs)})
	}
	if len(data) == 1 {
		pterm.Info.Println("font has no layout scripts")
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (intp *Intp) lookup(cmd Command) error {
	n, err := strconv.Atoi(getOptArg(cmd.Args, 0, ""))
	if err != nil {
		return errors.New("usage: lookup:N[:gsub|gpos]")
	}
	isGPos := strings.ToLower(getOptArg(cmd.Args, 1, "gsub")) == "gpos"
	var lookups []*ot.LookupTable
	if isGPos && intp.font.Layout.GPos != nil {
		lookups = intp.font.Layout.GPos.Lookups
	} else if !isGPos && intp.font.Layout.GSub != nil {
		lookups = intp.font.Layout.GSub.Lookups
	}
	if n < 0 || n >= len(lookups) {
		return fmt.Errorf("lookup index %d out of range [0…%d)", n, len(lookups))
	}
	lt := lookups[n]
	typ := lt.Type.GSubString()
	if isGPos {
		typ = lt.Type.GPosString()
	}
	pterm.Printfln("lookup #%d: type %s, flags %#04x, %d subtable(s)", n, typ, uint16(lt.Flag), len(lt.Subtables))
	if lt.MarkFilteringSet >= 0 {
		pterm.Printfln("  mark filtering set %d", lt.MarkFilteringSet)
	}
	for i, st := range lt.Subtables {
		pterm.Printfln("  subtable %d: %T", i, st)
	}
	return nil
}

func (intp *Intp) shape(cmd Command) error {
	if cmd.Text == "" {
		return errors.New("usage: shape[:script[:lang]] text")
	}
	params := otshaper.Params{
		Script:   ot.T(getOptArg(cmd.Args, 0, "DFLT")),
		Language: ot.T(getOptArg(cmd.Args, 1, "DFLT")),
	}
	buf, err := intp.shaper.Shape(cmd.Text, params)
	if err != nil {
		return err
	}
	tc, _ := intp.sfnt.PrepareCase(12.0)
	data := pterm.TableData{{"#", "Glyph", "Code-point", "Advance", "@12pt", "Offset"}}
	for i := 0; i < buf.Len(); i++ {
		m := buf.Metrics[i]
		data = append(data, []string{
			strconv.Itoa(i),
			strconv.Itoa(int(buf.Glyphs[i])),
			fmt.Sprintf("%#U", buf.Codepoints[i]),
			strconv.Itoa(int(m.XAdvance)),
			scaled(tc, m.XAdvance),
			fmt.Sprintf("(%d,%d)", m.XOffset, m.YOffset),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func scaled(tc *font.TypeCase, units int32) string {
	if tc == nil {
		return "-"
	}
	return tc.Scale(units).String()
}

func getOptArg(args []string, inx int, dflt string) string {
	if inx < len(args) {
		return args[inx]
	}
	return dflt
}

// --- Help ------------------------------------------------------------------

var helpTopics = map[string]string{
	"font":     "font\n   print general information about the loaded font",
	"tables":   "tables\n   list the tables contained in the font",
	"scripts":  "scripts\n   list the scripts and language systems of GSUB and GPOS",
	"features": "features[:script[:lang]]\n   list GSUB and GPOS features, e.g. features:latn:TRK",
	"lookup":   "lookup:N[:gsub|gpos]\n   show type, flags and subtables of lookup N, e.g. lookup:3:gpos",
	"shape":    "shape[:script[:lang]] text\n   shape text and list the resulting glyphs, e.g. shape:latn office",
	"quit":     "quit\n   leave the CLI (or press <ctrl>D)",
}

func help(topic string) {
	if t, ok := helpTopics[strings.ToLower(topic)]; ok {
		pterm.Println(t)
		return
	}
	pterm.Println("Commands: font, tables, scripts, features, lookup, shape, help[:command], quit")
}

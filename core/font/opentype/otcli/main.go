/*
Command otcli is an interactive inspector for OpenType fonts.

It loads a font, either from a file, by name from the system's fonts, or the
fallback font, and then reads commands:

	font                      general font information
	tables                    list the tables of the font
	scripts                   list scripts and language systems
	features[:script[:lang]]  list features for a script and language
	lookup:N[:gsub|gpos]      show lookup number N
	shape[:script[:lang]] t   shape text t and list the glyphs
	help, quit

Usage:

	otcli -font Calibri.ttf -trace Debug

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/otengine/core"
	"github.com/npillmayer/otengine/core/font"
	"github.com/npillmayer/otengine/core/font/opentype/ot"
	"github.com/npillmayer/otengine/core/font/opentype/otshaper"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	xfont "golang.org/x/image/font"
)

// tracer traces with key 'otengine.fonts'
func tracer() tracing.Trace {
	return tracing.Select("otengine.fonts")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (file, path or name); default is Go Sans")
	flag.Parse()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":      "go",
		"trace.otengine.fonts": *tlevel,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	pterm.Info.Println("Welcome to OpenType CLI") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up REPL
	repl, err := readline.New("ot > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := &Intp{repl: repl}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		core.UserError(err)
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()                             // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	sfnt   *font.ScalableFont
	font   *ot.Font
	shaper *otshaper.Shaper
	repl   *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		quit, err := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) loadFont(fontname string) (err error) {
	var f *font.ScalableFont
	switch {
	case fontname == "":
		f = font.FallbackFont()
	case strings.ContainsRune(fontname, os.PathSeparator):
		f, err = font.LoadOpenTypeFont(fontname)
	default:
		f, err = font.Locate(fontname, xfont.StyleNormal, xfont.WeightNormal)
	}
	if err != nil {
		return err
	}
	tracer().Infof("loaded SFNT font = %s", f.Fontname)
	otf, err := ot.Parse(f.Binary)
	if err != nil {
		return core.WrapError(err, core.Code(err), "cannot decode font %s", path.Base(f.Filepath))
	}
	otf.F = f
	intp.sfnt, intp.font = f, otf
	intp.shaper = otshaper.New(otf, font.NewCMap(f))
	pterm.Printfln("font %s: tables %v", f.Fontname, otf.TableTags())
	return nil
}

package font

import (
	"path"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/otengine/core"
	xfont "golang.org/x/image/font"
)

// Locate finds a font on the system and loads it.
//
// name is either a font file name ("Calibri.ttf"), a path to a font file, or
// a font name pattern ("calibri"). For patterns, the system's fonts are searched
// for a file name containing the pattern and matching style and weight, as
// far as these can be guessed from the file name.
func Locate(name string, style xfont.Style, weight xfont.Weight) (*ScalableFont, error) {
	if path.Ext(name) != "" {
		fpath, err := findfont.Find(name)
		if err != nil {
			return nil, core.WrapError(err, core.EMISSING, "font %s not found", name)
		}
		tracer().Debugf("located font %s at %s", name, fpath)
		return LoadOpenTypeFont(fpath)
	}
	var candidate string
	for _, fpath := range findfont.List() {
		switch strings.ToLower(path.Ext(fpath)) {
		case ".ttf", ".otf":
		default:
			continue
		}
		if Matches(fpath, name, style, weight) {
			tracer().Debugf("located font %s at %s", name, fpath)
			return LoadOpenTypeFont(fpath)
		}
		if candidate == "" && Matches(fpath, name, xfont.StyleNormal, xfont.WeightNormal) {
			candidate = fpath
		}
	}
	if candidate != "" {
		tracer().Infof("no exact match for font %s, using %s", name, candidate)
		return LoadOpenTypeFont(candidate)
	}
	return nil, core.Error(core.EMISSING, "font %s not found", name)
}

// NormalizeFontname creates a canonical name for a font, including style and
// weight, e.g. "clarendon-italic-bold".
func NormalizeFontname(fname string, style xfont.Style, weight xfont.Weight) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	switch style {
	case xfont.StyleItalic, xfont.StyleOblique:
		fname += "-italic"
	}
	switch weight {
	case xfont.WeightLight, xfont.WeightExtraLight, xfont.WeightThin:
		fname += "-light"
	case xfont.WeightSemiBold, xfont.WeightBold, xfont.WeightExtraBold, xfont.WeightBlack:
		fname += "-bold"
	}
	return fname
}

// GuessStyleAndWeight guesses style and weight of a font from its file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}

// Matches is a predicate: does a font file name contain pattern and does it
// look like having the given style and weight?
func Matches(fontfilename, pattern string, style xfont.Style, weight xfont.Weight) bool {
	basename := path.Base(fontfilename)
	basename = basename[:len(basename)-len(path.Ext(basename))]
	basename = strings.ToLower(basename)
	if !strings.Contains(basename, strings.ToLower(pattern)) {
		return false
	}
	s, w := GuessStyleAndWeight(basename)
	return s == style && w == weight
}

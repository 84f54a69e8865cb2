package otshaper

import (
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// Direction is the writing direction of a text.
type Direction int

// Writing directions. DirectionAuto lets the shaper decide from the text.
const (
	DirectionAuto Direction = iota
	LeftToRight
	RightToLeft
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LTR"
	case RightToLeft:
		return "RTL"
	}
	return "auto"
}

// DirectionOf returns the direction of the first strong character of text.
// Text without strong characters is considered left-to-right.
func DirectionOf(text string) Direction {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return LeftToRight
		case bidi.R, bidi.AL:
			return RightToLeft
		}
	}
	return LeftToRight
}

// Punctuation with reversed forms for right-to-left text.
var mirrored = strings.NewReplacer(
	",", "\u2E41", // reversed comma
	";", "\u204F", // reversed semicolon
	"?", "\u2E2E", // reversed question mark
)

// mirror replaces punctuation by its reversed form. This is lossy: reversed
// forms in the input stay as they are.
func mirror(text string) string {
	return mirrored.Replace(text)
}

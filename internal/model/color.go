package model

import "math/rand/v2"

// Color is a foreground color tag. The zero value means the terminal default.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorBrightRed
	ColorBrightGreen
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
)

// Palette holds every color a node or arrow may be assigned. Yellow and white are left out.
var Palette = []Color{
	ColorRed, ColorGreen, ColorBlue, ColorMagenta, ColorCyan,
	ColorBrightRed, ColorBrightGreen, ColorBrightBlue, ColorBrightMagenta, ColorBrightCyan,
}

// ANSI returns the 16-color index for c, or -1 for the default color.
func (c Color) ANSI() int {
	switch c {
	case ColorRed:
		return 1
	case ColorGreen:
		return 2
	case ColorBlue:
		return 4
	case ColorMagenta:
		return 5
	case ColorCyan:
		return 6
	case ColorBrightRed:
		return 9
	case ColorBrightGreen:
		return 10
	case ColorBrightBlue:
		return 12
	case ColorBrightMagenta:
		return 13
	case ColorBrightCyan:
		return 14
	default:
		return -1
	}
}

func (c Color) Valid() bool { return c <= ColorBrightCyan }

func RandomColor() Color {
	return Palette[rand.IntN(len(Palette))]
}

var colorNames = [...]string{
	"default", "red", "green", "blue", "magenta", "cyan",
	"bright-red", "bright-green", "bright-blue", "bright-magenta", "bright-cyan",
}

func (c Color) String() string {
	if !c.Valid() {
		return "default"
	}
	return colorNames[c]
}

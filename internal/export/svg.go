package export

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"void-cli/internal/model"
	"void-cli/internal/screen"
	"void-cli/internal/store"
)

const (
	cellW = 8
	cellH = 16

	svgBackground = "#1c1c1c"
	svgForeground = "#d0d0d0"
)

var svgPalette = map[model.Color]string{
	model.ColorRed:           "#cd0000",
	model.ColorGreen:         "#00cd00",
	model.ColorBlue:          "#5c5cff",
	model.ColorMagenta:       "#cd00cd",
	model.ColorCyan:          "#00cdcd",
	model.ColorBrightRed:     "#ff0000",
	model.ColorBrightGreen:   "#00ff00",
	model.ColorBrightBlue:    "#8787ff",
	model.ColorBrightMagenta: "#ff00ff",
	model.ColorBrightCyan:    "#00ffff",
}

func svgColor(c model.Color) string {
	if hex, ok := svgPalette[c]; ok {
		return hex
	}
	return svgForeground
}

// WriteSVG draws a rendered frame as a monospace picture, one text element per run of
// equally styled cells.
func WriteSVG(w io.Writer, f *screen.Frame) {
	canvas := svg.New(w)
	canvas.Start(f.W*cellW, f.H*cellH)
	canvas.Rect(0, 0, f.W*cellW, f.H*cellH, "fill:"+svgBackground)
	canvas.Gstyle("font-family:monospace;font-size:14px;white-space:pre")

	for y := 1; y <= f.H; y++ {
		start := 1
		for start <= f.W {
			first := f.Get(start, y)
			end := start
			var run strings.Builder
			for end <= f.W {
				c := f.Get(end, y)
				if c.Fg != first.Fg || c.Reverse != first.Reverse || c.Bold != first.Bold {
					break
				}
				run.WriteRune(c.Ch)
				end++
			}
			svgRun(canvas, start, y, end-start, run.String(), first)
			start = end
		}
	}
	canvas.Gend()
	canvas.End()
}

func svgRun(canvas *svg.SVG, x, y, n int, text string, c screen.Cell) {
	px, py := (x-1)*cellW, (y-1)*cellH
	fg := svgColor(c.Fg)
	if c.Reverse {
		canvas.Rect(px, py, n*cellW, cellH, "fill:"+fg)
		fg = svgBackground
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	style := "fill:" + fg
	if c.Bold {
		style += ";font-weight:bold"
	}
	canvas.Text(px, py+cellH-4, text, style, fmt.Sprintf(`textLength="%d"`, n*cellW))
}

// RenderFrame draws snap at the given terminal size without touching the terminal.
func RenderFrame(snap *store.Snapshot, width, height int) *screen.Frame {
	s := screen.FromSnapshot(snap, screen.Options{
		Width:  width,
		Height: height,
		Logs:   func() []string { return nil },
	})
	return s.Draw()
}

package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"void-cli/internal/model"
	"void-cli/internal/screen"
)

type cellStyle struct {
	fg      model.Color
	reverse bool
	bold    bool
}

// painter turns frames into styled strings. Styles are cached per combination because
// a frame repeats the same few over and over.
type painter struct {
	r      *lipgloss.Renderer
	styles map[cellStyle]lipgloss.Style
}

func newPainter(r *lipgloss.Renderer) *painter {
	return &painter{r: r, styles: map[cellStyle]lipgloss.Style{}}
}

func (p *painter) style(cs cellStyle) lipgloss.Style {
	if st, ok := p.styles[cs]; ok {
		return st
	}
	st := p.r.NewStyle().Reverse(cs.reverse).Bold(cs.bold)
	if n := cs.fg.ANSI(); n >= 0 {
		st = st.Foreground(lipgloss.Color(strconv.Itoa(n)))
	}
	p.styles[cs] = st
	return st
}

// paint renders every row, grouping runs of equally styled cells.
func (p *painter) paint(f *screen.Frame) []string {
	rows := make([]string, 0, f.H)
	for y := 1; y <= f.H; y++ {
		var b strings.Builder
		var run strings.Builder
		cur := cellStyle{}
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == (cellStyle{}) {
				b.WriteString(run.String())
			} else {
				b.WriteString(p.style(cur).Render(run.String()))
			}
			run.Reset()
		}
		for x := 1; x <= f.W; x++ {
			c := f.Get(x, y)
			cs := cellStyle{fg: c.Fg, reverse: c.Reverse, bold: c.Bold}
			if cs != cur {
				flush()
				cur = cs
			}
			run.WriteRune(c.Ch)
		}
		flush()
		rows = append(rows, b.String())
	}
	return rows
}

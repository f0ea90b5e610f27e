package tui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"void-cli/internal/model"
	"void-cli/internal/screen"
)

func testRenderer(p termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(p)
	return r
}

func TestPaint_AsciiMatchesFrameText(t *testing.T) {
	t.Parallel()

	f := screen.NewFrame(12, 2)
	f.Text(1, 1, "header", screen.Cell{Reverse: true})
	f.Text(2, 2, "node", screen.Cell{Fg: model.ColorBrightRed, Bold: true})

	rows := newPainter(testRenderer(termenv.Ascii)).paint(f)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows; got %d", len(rows))
	}
	for i, want := range f.Lines() {
		if rows[i] != want {
			t.Fatalf("row %d: expected %q; got %q", i+1, want, rows[i])
		}
	}
}

func TestPaint_ColorProfileEmitsEscapes(t *testing.T) {
	t.Parallel()

	f := screen.NewFrame(8, 1)
	f.Text(1, 1, "ab", screen.Cell{Fg: model.ColorBrightRed})
	f.Text(3, 1, "cd", screen.Cell{})

	rows := newPainter(testRenderer(termenv.ANSI256)).paint(f)
	if !strings.Contains(rows[0], "\x1b[") {
		t.Fatalf("expected ANSI escapes; got %q", rows[0])
	}
	if !strings.HasSuffix(rows[0], "cd    ") {
		t.Fatalf("expected the unstyled run to be written raw; got %q", rows[0])
	}
}

package screen

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"void-cli/internal/model"
	"void-cli/internal/route"
)

const (
	anchorPrefix  = " "
	branchIndent  = "│  "
	lastIndent    = "   "
	branchConnect = "├─"
	lastConnect   = "└─"

	logPanelRows = 7
	sparkBars    = "▁▂▃▄▅▆▇█"
)

func (s *Screen) resetTables() {
	s.lookup = map[model.Coords]model.NodeID{}
	s.drawnAt = map[model.NodeID]model.Coords{}
	s.drawnEnd = map[model.NodeID]model.Coords{}
	s.lowestDrawn = 0
}

// Draw renders the whole screen into a fresh frame and rebuilds the lookup tables.
func (s *Screen) Draw() *Frame {
	s.resetTables()
	f := NewFrame(s.width, s.height)

	s.drawHeader(f)
	root, ok := s.nodes.Get(s.drawingRoot)
	if ok {
		for _, id := range s.visibleChildren(root, root.HideStricken) {
			anchor, _ := s.nodes.Get(id)
			s.drawNode(f, anchor.RootedCoords, "", anchorPrefix, "", id, root.HideStricken, true)
		}
	}
	if s.showLogs {
		s.drawLogs(f)
	}
	s.drawArrows(f)
	s.drawDragPreview(f)
	s.drawJumpLabels(f)
	s.drawScrollbar(f)

	s.frame = f
	return f
}

// visibleChildren drops stricken children when hide is set.
func (s *Screen) visibleChildren(n *model.Node, hide bool) []model.NodeID {
	if !hide {
		return n.Children
	}
	out := make([]model.NodeID, 0, len(n.Children))
	for _, c := range n.Children {
		if cn, ok := s.nodes.Get(c); ok && !cn.Stricken {
			out = append(out, c)
		}
	}
	return out
}

func (s *Screen) glyph(n *model.Node) string {
	switch {
	case n.Stricken:
		return s.glyphs.Stricken
	case n.Collapsed:
		return s.glyphs.Collapsed
	case n.HideStricken:
		return s.glyphs.HideStricken
	default:
		return " "
	}
}

// label is the node text as drawn, including the free-text marker and optional meta.
func (s *Screen) label(n *model.Node) string {
	var b strings.Builder
	b.WriteString(n.Content)
	if n.FreeText != nil {
		b.WriteString(" ")
		b.WriteString(s.glyphs.FreeText)
	}
	if s.showMeta {
		if n.Meta.Due != nil {
			b.WriteString(" due:")
			b.WriteString(n.Meta.Due.Format("2006-01-02"))
		}
		keys := make([]string, 0, len(n.Meta.Tags))
		for k := range n.Meta.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " #%s=%s", k, n.Meta.Tags[k])
		}
	}
	return b.String()
}

// drawNode draws one row for id at (at.X, at.Y) and recurses into its children.
// indent is purely visual; connector, glyph and label belong to the node. kidsIndent is
// the indent handed to the node's children. It returns the first row below the subtree.
func (s *Screen) drawNode(f *Frame, at model.Coords, indent, connector, kidsIndent string, id model.NodeID, hideInherited, anchor bool) int {
	n, ok := s.nodes.Get(id)
	if !ok {
		return at.Y
	}

	x, y := at.X, at.Y
	if sc, visible := s.internalToScreen(model.Coords{X: x, Y: y}); visible {
		f.Text(sc.X, sc.Y, indent, Cell{})
	}
	x += utf8.RuneCountInString(indent)

	start := model.Coords{X: x, Y: y}
	head := Cell{Fg: n.Color, Reverse: n.Selected}
	body := Cell{Reverse: n.Selected}
	if n.Selected || anchor {
		body.Fg = n.Color
	}
	s.claim(f, &x, y, id, connector, head)
	s.claim(f, &x, y, id, s.glyph(n), head)
	s.claim(f, &x, y, id, s.label(n), body)

	// One extra cell to the right keeps arrows off the last character.
	s.lookup[model.Coords{X: x, Y: y}] = id
	s.drawnAt[id] = start
	s.drawnEnd[id] = model.Coords{X: x, Y: y}
	s.lowestDrawn = max(s.lowestDrawn, y)

	next := y + 1
	if n.Collapsed {
		return next
	}
	hide := hideInherited || n.HideStricken
	kids := s.visibleChildren(n, hide)
	for i, c := range kids {
		conn, grandIndent := branchConnect, kidsIndent+branchIndent
		if i == len(kids)-1 {
			conn, grandIndent = lastConnect, kidsIndent+lastIndent
		}
		next = s.drawNode(f, model.Coords{X: at.X, Y: next}, kidsIndent, conn, grandIndent, c, hide, false)
	}
	return next
}

func (s *Screen) claim(f *Frame, x *int, y int, id model.NodeID, text string, style Cell) {
	for _, r := range text {
		c := model.Coords{X: *x, Y: y}
		s.lookup[c] = id
		if sc, visible := s.internalToScreen(c); visible {
			style.Ch = r
			f.Set(sc.X, sc.Y, style)
		}
		*x++
	}
}

func (s *Screen) drawHeader(f *Frame) {
	if f.H < 1 {
		return
	}
	bar := Cell{Reverse: true}
	for x := 1; x <= f.W; x++ {
		bar.Ch = ' '
		f.Set(x, 1, bar)
	}

	left := ""
	if root, ok := s.nodes.Get(s.drawingRoot); ok {
		left = root.Content
		if root.AutoArrange {
			left += " [auto-arrange]"
		}
	}
	right := s.sparkline() + " "
	rightLen := utf8.RuneCountInString(right)
	f.Text(1, 1, truncate(left, max(f.W-rightLen-1, 0)), bar)
	f.Text(f.W-rightLen+1, 1, right, bar)
}

// sparkline bins finish times over the last seven days, oldest first.
func (s *Screen) sparkline() string {
	now := s.nodes.Clock()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var bins [7]int
	for _, n := range s.nodes.Nodes {
		if n.Meta.FinishTime == nil {
			continue
		}
		ft := n.Meta.FinishTime.In(now.Location())
		day := time.Date(ft.Year(), ft.Month(), ft.Day(), 0, 0, 0, 0, now.Location())
		if day.After(today) {
			continue
		}
		// Rounded so DST days still count as one.
		ago := int((today.Sub(day).Hours() + 12) / 24)
		if ago > 6 {
			continue
		}
		bins[6-ago]++
	}
	peak := 0
	for _, b := range bins {
		peak = max(peak, b)
	}
	bars := []rune(sparkBars)
	var b strings.Builder
	for _, v := range bins {
		idx := 0
		if peak > 0 {
			idx = v * (len(bars) - 1) / peak
		}
		b.WriteRune(bars[idx])
	}
	fmt.Fprintf(&b, " (%d today)", bins[6])
	return b.String()
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func (s *Screen) drawLogs(f *Frame) {
	if f.H < logPanelRows+3 || f.W < 20 {
		return
	}
	top := f.H - logPanelRows + 1
	border := Cell{}
	for x := 1; x <= f.W; x++ {
		for y := top; y <= f.H; y++ {
			border.Ch = ' '
			f.Set(x, y, border)
		}
		border.Ch = '─'
		f.Set(x, top, border)
		f.Set(x, f.H, border)
	}
	for y := top; y <= f.H; y++ {
		ch := '│'
		switch y {
		case top:
			f.Set(1, y, Cell{Ch: '┌'})
			f.Set(f.W, y, Cell{Ch: '┐'})
			continue
		case f.H:
			f.Set(1, y, Cell{Ch: '└'})
			f.Set(f.W, y, Cell{Ch: '┘'})
			continue
		}
		f.Set(1, y, Cell{Ch: ch})
		f.Set(f.W, y, Cell{Ch: ch})
	}
	f.Text(3, top, " logs ", Cell{Bold: true})
	for i, line := range s.logs() {
		if i >= logPanelRows-2 {
			break
		}
		f.Text(3, top+1+i, truncate(line, f.W-4), Cell{})
	}
}

func (s *Screen) router() route.Router {
	return route.Router{
		Width:  s.width,
		Height: s.height + s.viewY,
		Occupied: func(c model.Coords) bool {
			_, ok := s.lookup[c]
			return ok
		},
	}
}

func (s *Screen) endpoints(id model.NodeID) (route.Endpoints, bool) {
	left, ok := s.drawnAt[id]
	if !ok {
		return route.Endpoints{}, false
	}
	return route.Endpoints{Left: left, Right: s.drawnEnd[id]}, true
}

func (s *Screen) drawArrows(f *Frame) {
	r := s.router()
	for _, a := range s.nodes.Arrows {
		from, ok := s.endpoints(a.From)
		if !ok {
			continue
		}
		to, ok := s.endpoints(a.To)
		if !ok {
			continue
		}
		rt := r.Between(from, to)
		if rt.Empty() {
			continue
		}
		s.drawPath(f, rt, model.RandomColor())
	}
}

func (s *Screen) drawDragPreview(f *Frame) {
	if s.dragFrom == nil || s.dragTo == nil || s.selected == model.RootID {
		return
	}
	from, ok := s.endpoints(s.selected)
	if !ok {
		return
	}
	to := s.screenToInternal(s.dragTo.X, s.dragTo.Y)
	r := s.router()
	if target, hit := s.lookup[to]; hit {
		if target == s.selected {
			return
		}
		dest, ok := s.endpoints(target)
		if !ok {
			return
		}
		if rt := r.Between(from, dest); !rt.Empty() {
			s.drawPath(f, rt, model.ColorDefault)
		}
		return
	}
	if rt := r.ToPoint(from, to); !rt.Empty() {
		s.drawPath(f, rt, model.ColorDefault)
	}
}

// drawPath draws a routed arrow. The first cell belongs to the source node and is only
// drawn when the arrow leaves from the blank cell on its right.
func (s *Screen) drawPath(f *Frame, rt route.Route, color model.Color) {
	p := rt.Path
	style := Cell{Fg: color}
	put := func(c model.Coords, ch rune) {
		if sc, ok := s.internalToScreen(c); ok {
			style.Ch = ch
			f.Set(sc.X, sc.Y, style)
		}
	}
	if len(p) == 1 {
		put(p[0], '↺')
		return
	}
	if rt.From == route.Right {
		put(p[0], pathGlyph(p[0].Add(-1, 0), p[0], p[1]))
	}
	for i := 1; i < len(p)-1; i++ {
		put(p[i], pathGlyph(p[i-1], p[i], p[i+1]))
	}
	end := '<'
	if rt.To == route.Left {
		end = '>'
	}
	put(p[len(p)-1], end)
}

// pathGlyph picks a box-drawing character from the neighbours on either side of cur.
func pathGlyph(prev, cur, next model.Coords) rune {
	if prev.X == next.X {
		return '│'
	}
	if prev.Y == next.Y {
		return '─'
	}
	var up, down, left, right bool
	for _, o := range []model.Coords{prev, next} {
		switch {
		case o.Y < cur.Y:
			up = true
		case o.Y > cur.Y:
			down = true
		case o.X < cur.X:
			left = true
		case o.X > cur.X:
			right = true
		}
	}
	switch {
	case down && right:
		return '┌'
	case down && left:
		return '┐'
	case up && right:
		return '└'
	case up && left:
		return '┘'
	}
	return '─'
}

func (s *Screen) drawJumpLabels(f *Frame) {
	if !s.jump.picking() {
		return
	}
	for r, id := range s.jump.labels {
		at, ok := s.drawnAt[id]
		if !ok {
			continue
		}
		if sc, ok := s.internalToScreen(at); ok {
			f.Set(sc.X, sc.Y, Cell{Ch: r, Reverse: true, Bold: true})
		}
	}
}

func (s *Screen) drawScrollbar(f *Frame) {
	if s.lowestDrawn <= s.height || f.W < 1 {
		return
	}
	total := s.height - 1
	start := s.viewY * total / s.lowestDrawn
	end := (s.viewY + s.height) * total / s.lowestDrawn
	for i := 0; i < total; i++ {
		ch := '│'
		if i >= start && i <= end {
			ch = '┃'
		}
		f.Set(f.W, 2+i, Cell{Ch: ch})
	}
}

package screen

import (
	"log"
	"sort"
	"unicode/utf8"

	"void-cli/internal/model"
	"void-cli/internal/pack"
)

// arrangeMargin pads every anchor box on the right and below.
const arrangeMargin = 2

// autoArrange packs the anchors of the drawing root, tallest first, and moves each
// anchor to the top-left corner of its box.
func (s *Screen) autoArrange() {
	root, ok := s.nodes.Get(s.drawingRoot)
	if !ok || s.width < 2 {
		return
	}
	type box struct {
		id   model.NodeID
		w, h int
	}
	var boxes []box
	for _, id := range s.visibleChildren(root, root.HideStricken) {
		w, h := s.measure(id, 0, utf8.RuneCountInString(anchorPrefix), 0, root.HideStricken)
		boxes = append(boxes, box{id: id, w: w + arrangeMargin, h: h + arrangeMargin})
	}
	sort.SliceStable(boxes, func(i, j int) bool { return boxes[i].h > boxes[j].h })

	p := pack.New(pack.Rect{Top: 2, Left: 1, Bottom: pack.Unbounded, Right: s.width})
	for _, b := range boxes {
		x, y, ok := p.Insert(b.w, b.h)
		if !ok {
			log.Printf("arrange: no room for node %d (%dx%d)", b.id, b.w, b.h)
			continue
		}
		at := model.Coords{X: x, Y: y}
		if n, _ := s.nodes.Get(b.id); n.RootedCoords != at {
			s.nodes.WithNodeMut(b.id, func(n *model.Node) { n.RootedCoords = at })
		}
	}
}

// measure returns the width and height of the rows drawNode would produce for id,
// relative to the left edge of its indent.
func (s *Screen) measure(id model.NodeID, indent, connector, kidsIndent int, hideInherited bool) (w, h int) {
	n, ok := s.nodes.Get(id)
	if !ok {
		return 0, 0
	}
	w = indent + connector + utf8.RuneCountInString(s.glyph(n)) + utf8.RuneCountInString(s.label(n)) + 1
	h = 1
	if n.Collapsed {
		return w, h
	}
	hide := hideInherited || n.HideStricken
	for _, c := range s.visibleChildren(n, hide) {
		cw, ch := s.measure(c, kidsIndent, utf8.RuneCountInString(branchConnect), kidsIndent+utf8.RuneCountInString(branchIndent), hide)
		w = max(w, cw)
		h += ch
	}
	return w, h
}

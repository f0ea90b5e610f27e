package screen

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"void-cli/internal/action"
	"void-cli/internal/model"
	"void-cli/internal/pack"
	"void-cli/internal/store"
)

func newTestScreen(t *testing.T, w, h int) *Screen {
	t.Helper()
	return New(Options{
		Width:  w,
		Height: h,
		Logs:   func() []string { return nil },
		Now:    func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local) },
	})
}

func typeText(s *Screen, text string) {
	for _, r := range text {
		s.Step(action.Typed(r))
	}
}

func step(s *Screen, kinds ...action.Kind) {
	for _, k := range kinds {
		s.Step(action.Of(k))
	}
}

// clickAt presses and releases on the same cell.
func clickAt(s *Screen, x, y int) {
	s.Step(action.Click(x, y))
	s.Step(action.ReleaseAt(x, y))
}

func addAnchor(t *testing.T, s *Screen, x, y int, content string) model.NodeID {
	t.Helper()
	id, err := s.nodes.NewChild(s.drawingRoot, model.Coords{X: x, Y: y})
	if err != nil {
		t.Fatalf("NewChild: %v", err)
	}
	s.nodes.Nodes[id].Content = content
	return id
}

func addChild(t *testing.T, s *Screen, parent model.NodeID, content string) model.NodeID {
	t.Helper()
	id, err := s.nodes.NewChild(parent, model.Coords{})
	if err != nil {
		t.Fatalf("NewChild: %v", err)
	}
	s.nodes.Nodes[id].Content = content
	return id
}

func mustNode(t *testing.T, s *Screen, id model.NodeID) *model.Node {
	t.Helper()
	n, ok := s.nodes.Get(id)
	if !ok {
		t.Fatalf("expected node %d to exist", id)
	}
	return n
}

func sameIDs(a, b []model.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScreen_ClickTypeAndCreateChild(t *testing.T) {
	t.Parallel()

	s := newTestScreen(t, 80, 24)
	s.Step(action.Click(5, 5))
	typeText(s, "hi")
	step(s, action.CreateSibling)
	step(s, action.CreateChild)
	typeText(s, "lo")

	root := mustNode(t, s, model.RootID)
	if len(root.Children) != 1 {
		t.Fatalf("expected one anchor; got %v", root.Children)
	}
	n1 := root.Children[0]
	a := mustNode(t, s, n1)
	if a.Content != "hi" || len(a.Children) != 1 {
		t.Fatalf("expected anchor \"hi\" with one child; got %q %v", a.Content, a.Children)
	}
	n2 := a.Children[0]
	if got := mustNode(t, s, n2).Content; got != "lo" {
		t.Fatalf("expected child \"lo\"; got %q", got)
	}

	if at, _ := s.DrawnAt(n1); at != (model.Coords{X: 5, Y: 5}) {
		t.Fatalf("expected anchor drawn at (5,5); got %+v", at)
	}
	if at, _ := s.DrawnAt(n2); at != (model.Coords{X: 5, Y: 6}) {
		t.Fatalf("expected child drawn at (5,6); got %+v", at)
	}
	if id, ok := s.NodeAt(model.Coords{X: 5, Y: 5}); !ok || id != n1 {
		t.Fatalf("expected lookup (5,5)=%d; got %d %v", n1, id, ok)
	}
	if id, ok := s.NodeAt(model.Coords{X: 7, Y: 6}); !ok || id != n2 {
		t.Fatalf("expected lookup (7,6)=%d; got %d %v", n2, id, ok)
	}
	if row := s.Frame().Row(6); !strings.Contains(row, "└─ lo") {
		t.Fatalf("expected child row to contain the connector; got %q", row)
	}
	if sel, ok := s.Selected(); !ok || sel != n2 {
		t.Fatalf("expected %d selected; got %d", n2, sel)
	}
}

func TestScreen_ArrowToggleBetweenAnchors(t *testing.T) {
	t.Parallel()

	s := newTestScreen(t, 80, 24)
	a := addAnchor(t, s, 1, 2, "aaa")
	b := addAnchor(t, s, 10, 2, "bbb")
	s.Draw()

	toggle := func() {
		clickAt(s, 3, 2)
		step(s, action.Arrow)
		clickAt(s, 12, 2)
		step(s, action.Arrow)
	}

	toggle()
	want := []model.Arrow{{From: a, To: b}}
	if len(s.nodes.Arrows) != 1 || s.nodes.Arrows[0] != want[0] {
		t.Fatalf("expected arrows %v; got %v", want, s.nodes.Arrows)
	}
	if row := s.Frame().Row(2); !strings.Contains(row, "aaa────> bbb") {
		t.Fatalf("expected a routed arrow on row 2; got %q", row)
	}

	toggle()
	if len(s.nodes.Arrows) != 0 {
		t.Fatalf("expected no arrows after the second toggle; got %v", s.nodes.Arrows)
	}
}

func TestScreen_DragOntoOwnChildTranslatesAnchor(t *testing.T) {
	t.Parallel()

	s := newTestScreen(t, 80, 24)
	n := addAnchor(t, s, 5, 5, "n")
	c1 := addChild(t, s, n, "c1")
	c2 := addChild(t, s, n, "c2")
	s.Draw()

	s.Step(action.Click(7, 5))
	s.DragTo(8, 6)
	s.Step(action.ReleaseAt(8, 6))

	got := mustNode(t, s, n)
	if !sameIDs(got.Children, []model.NodeID{c1, c2}) {
		t.Fatalf("expected children unchanged; got %v", got.Children)
	}
	if p := mustNode(t, s, c1).ParentID; p != n {
		t.Fatalf("expected c1 to stay under n; got parent %d", p)
	}
	if got.RootedCoords != (model.Coords{X: 6, Y: 6}) {
		t.Fatalf("expected anchor translated to (6,6); got %+v", got.RootedCoords)
	}
	if err := s.nodes.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestScreen_DragReparents(t *testing.T) {
	t.Parallel()

	s := newTestScreen(t, 80, 24)
	a := addAnchor(t, s, 1, 2, "a")
	b := addAnchor(t, s, 20, 2, "b")
	s.nodes.Nodes[b].Collapsed = true
	s.Draw()

	s.Step(action.Click(3, 2))
	s.Step(action.ReleaseAt(22, 2))

	if p := mustNode(t, s, a).ParentID; p != b {
		t.Fatalf("expected a under b; got parent %d", p)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("expected selection cleared after dropping on a collapsed node")
	}
}

func TestScreen_DragToEmptySpaceMakesAnchor(t *testing.T) {
	t.Parallel()

	s := newTestScreen(t, 80, 24)
	a := addAnchor(t, s, 1, 2, "a")
	c := addChild(t, s, a, "child")
	s.Draw()

	s.Step(action.Click(4, 3))
	s.Step(action.ReleaseAt(30, 10))

	n := mustNode(t, s, c)
	if n.ParentID != model.RootID {
		t.Fatalf("expected child to become an anchor; got parent %d", n.ParentID)
	}
	if n.RootedCoords != (model.Coords{X: 30, Y: 10}) {
		t.Fatalf("expected anchor at (30,10); got %+v", n.RootedCoords)
	}
	if len(mustNode(t, s, a).Children) != 0 {
		t.Fatalf("expected old parent to have no children")
	}
}

func TestScreen_AutoArrangePacksTallestFirst(t *testing.T) {
	t.Parallel()

	s := newTestScreen(t, 40, 30)
	heights := []int{5, 3, 8}
	var anchors []model.NodeID
	for i, h := range heights {
		id := addAnchor(t, s, 30, 2+i*10, "a")
		for j := 1; j < h; j++ {
			addChild(t, s, id, "xx")
		}
		anchors = append(anchors, id)
	}
	s.Draw()
	step(s, action.AutoArrange)

	tallest := mustNode(t, s, anchors[2])
	if tallest.RootedCoords != (model.Coords{X: 1, Y: 2}) {
		t.Fatalf("expected tallest anchor at (1,2); got %+v", tallest.RootedCoords)
	}

	var rects []pack.Rect
	for _, id := range anchors {
		n := mustNode(t, s, id)
		if n.RootedCoords.Y != 2 {
			t.Fatalf("expected every anchor on row 2; got %+v for %d", n.RootedCoords, id)
		}
		w, h := s.measure(id, 0, 1, 0, false)
		rects = append(rects, pack.Rect{
			Top:    n.RootedCoords.Y,
			Left:   n.RootedCoords.X,
			Bottom: n.RootedCoords.Y + h,
			Right:  n.RootedCoords.X + w,
		})
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Overlaps(rects[j]) {
				t.Fatalf("expected no overlap; got %+v and %+v", rects[i], rects[j])
			}
		}
	}
}

func TestScreen_ScrollClamps(t *testing.T) {
	t.Parallel()

	s := newTestScreen(t, 40, 10)
	addAnchor(t, s, 1, 30, "deep")
	s.Draw()
	if s.LowestDrawn() != 30 {
		t.Fatalf("expected lowest drawn row 30; got %d", s.LowestDrawn())
	}

	step(s, action.ScrollDown)
	if s.ViewY() != 5 {
		t.Fatalf("expected view_y=5; got %d", s.ViewY())
	}
	step(s, action.ScrollUp, action.ScrollUp)
	if s.ViewY() != 0 {
		t.Fatalf("expected view_y clamped to 0; got %d", s.ViewY())
	}
	for i := 0; i < 20; i++ {
		step(s, action.ScrollDown)
	}
	if s.ViewY() != 30 {
		t.Fatalf("expected view_y clamped to lowest drawn; got %d", s.ViewY())
	}
}

func TestScreen_ScrollDuringDragEndsIt(t *testing.T) {
	t.Parallel()

	s := newTestScreen(t, 80, 24)
	addAnchor(t, s, 1, 2, "a")
	s.Draw()

	s.Step(action.Click(3, 2))
	if !s.Dragging() {
		t.Fatalf("expected a press on a node to start a drag")
	}
	step(s, action.ScrollDown)
	if s.Dragging() {
		t.Fatalf("expected scrolling to end the drag")
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("expected scrolling to unselect")
	}

	s.Step(action.Click(40, 12))
	if s.nodes.Len() != 3 {
		t.Fatalf("expected a click on empty space to create a node; got %d nodes", s.nodes.Len())
	}
	if !s.Step(action.Of(action.UnselectRet)) {
		t.Fatalf("expected esc to unselect rather than be swallowed")
	}
	if s.nodes.Len() != 2 {
		t.Fatalf("expected the empty node deleted by esc; got %d nodes", s.nodes.Len())
	}
}

func TestScreen_SaveAndReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "void.db")
	s := New(Options{Path: path, Width: 80, Height: 24, Logs: func() []string { return nil }})
	s.Step(action.Click(5, 5))
	typeText(s, "keep")
	step(s, action.Save)

	re, err := Open(Options{Path: path, Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := re.Selected(); ok {
		t.Fatalf("expected no selection after reopening")
	}
	root := mustNode(t, re, model.RootID)
	if len(root.Children) != 1 {
		t.Fatalf("expected one anchor; got %v", root.Children)
	}
	n := mustNode(t, re, root.Children[0])
	if n.Content != "keep" || n.Selected {
		t.Fatalf("expected unselected \"keep\"; got %q selected=%v", n.Content, n.Selected)
	}
}

func TestScreen_OpenMissingFileStartsFresh(t *testing.T) {
	t.Parallel()

	s, err := Open(Options{Path: filepath.Join(t.TempDir(), "missing.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.nodes.Len() != 1 || mustNode(t, s, model.RootID).Content != "home" {
		t.Fatalf("expected a fresh screen with only home")
	}
}

func TestScreen_AutosaveCountsEvents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "void.db")
	s := New(Options{Path: path, AutosaveEvery: 3, Width: 80, Height: 24, Logs: func() []string { return nil }})
	s.Step(action.Click(5, 5))
	typeText(s, "a")
	if snap, err := store.Load(path); err != nil || snap != nil {
		t.Fatalf("expected no save before the third event; got %v %v", snap, err)
	}
	typeText(s, "b")

	snap, err := store.Load(path)
	if err != nil || snap == nil {
		t.Fatalf("expected an autosave; got %v %v", snap, err)
	}
	if snap.AutosaveEvery != 3 {
		t.Fatalf("expected autosave_every persisted; got %d", snap.AutosaveEvery)
	}
}

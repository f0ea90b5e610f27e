package screen

import (
	"log"
	"strings"
	"unicode/utf8"

	"void-cli/internal/action"
	"void-cli/internal/model"
)

// Step applies one action and redraws. It returns false when the loop should exit.
func (s *Screen) Step(a action.Action) bool {
	if s.frame == nil {
		s.Draw()
	}
	cont := s.Dispatch(a)
	s.settle()
	return cont
}

// settle runs the per-event bookkeeping that follows every state change.
func (s *Screen) settle() {
	if root, ok := s.nodes.Get(s.drawingRoot); ok && root.AutoArrange {
		s.autoArrange()
	}
	s.tickAutosave()
	s.Draw()
}

// Dispatch applies one action against the tables of the last frame. It returns false
// when the loop should exit.
func (s *Screen) Dispatch(a action.Action) bool {
	if s.jump.active() {
		if a.Kind == action.Char {
			s.feedJump(a.Rune)
			return true
		}
		s.jump.reset()
		if a.Kind == action.UnselectRet {
			return true
		}
	}

	switch a.Kind {
	case action.None:
	case action.LeftClick:
		s.click(a.X, a.Y)
	case action.RightClick:
		s.rightClick(a.X, a.Y)
	case action.Release:
		s.release(a.X, a.Y)
	case action.Char:
		s.typeRune(a.Rune)
	case action.UnselectRet:
		return s.unselectRet()
	case action.ScrollUp:
		s.scroll(-1)
	case action.ScrollDown:
		s.scroll(1)
	case action.DeleteSelected:
		s.deleteSelected()
	case action.SelectUp, action.SelectDown, action.SelectLeft, action.SelectRight:
		s.selectToward(a.Kind)
	case action.EraseChar:
		s.eraseRune()
	case action.CreateSibling:
		s.createSibling()
	case action.CreateChild:
		s.createChild()
	case action.CreateFreeNode:
		s.createFreeNode()
	case action.ExecSelected:
		s.execSelected()
	case action.DrillDown:
		s.drillDown()
	case action.PopUp:
		s.popUp()
	case action.PrefixJump:
		s.beginJump()
	case action.ToggleCompleted:
		s.toggleStricken()
	case action.ToggleHideCompleted:
		s.mutSelected(func(n *model.Node) { n.HideStricken = !n.HideStricken })
	case action.Arrow:
		s.arrow()
	case action.AutoArrange:
		s.autoArrange()
	case action.ToggleCollapsed:
		s.mutSelected(func(n *model.Node) { n.Collapsed = !n.Collapsed })
	case action.Quit:
		return false
	case action.Save:
		_ = s.Save()
	case action.ToggleShowLogs:
		s.showLogs = !s.showLogs
	case action.EnterCmd:
		s.emit(Prompt{Kind: PromptCommand})
	case action.FindTask:
		s.findTask()
	case action.YankPasteNode:
		s.yankPaste()
	case action.RaiseSelected:
		s.nodes.Shift(s.selected, -1)
	case action.LowerSelected:
		s.nodes.Shift(s.selected, 1)
	case action.Search:
		s.emit(Prompt{Kind: PromptSearch})
	case action.Help:
		s.emit(ShowHelp{})
	case action.SelectParent:
		s.selectParent()
	case action.SelectNextSibling:
		s.selectSibling(1)
	case action.SelectPrevSibling:
		s.selectSibling(-1)
	case action.UndoDelete, action.Insert:
		log.Printf("%s: not supported", a.Kind)
	default:
		log.Printf("unhandled action %s", a)
	}
	return true
}

// DragTo records the pointer position of a live drag for the preview arrow.
func (s *Screen) DragTo(x, y int) {
	if s.dragFrom == nil {
		return
	}
	s.dragTo = &model.Coords{X: x, Y: y}
}

// Dragging reports whether a drag started by a click is still live.
func (s *Screen) Dragging() bool { return s.dragFrom != nil }

func (s *Screen) selectNode(id model.NodeID) {
	if !s.nodes.Has(id) || id == model.RootID {
		return
	}
	s.unselect()
	s.nodes.Nodes[id].Selected = true
	s.selected = id
}

func (s *Screen) unselect() {
	if n, ok := s.nodes.Get(s.selected); ok {
		n.Selected = false
	}
	s.selected = model.RootID
}

// releaseSelection unselects, deleting the node when it was left empty. With keepParents
// an empty node that still has children survives.
func (s *Screen) releaseSelection(keepParents bool) {
	id := s.selected
	n, ok := s.nodes.Get(id)
	if !ok {
		s.selected = model.RootID
		return
	}
	if n.Content == "" && (!keepParents || len(n.Children) == 0) {
		s.deleteNode(id)
		return
	}
	s.unselect()
}

func (s *Screen) unselectRet() bool {
	switch {
	case s.dragFrom != nil:
		return true
	case s.selected != model.RootID:
		s.releaseSelection(false)
		return true
	case s.drawingArrow != model.RootID:
		s.drawingArrow = model.RootID
		log.Printf("arrow cancelled")
		return true
	}
	return false
}

func (s *Screen) mutSelected(fn func(n *model.Node)) bool {
	if s.selected == model.RootID {
		return false
	}
	return s.nodes.WithNodeMut(s.selected, fn)
}

func (s *Screen) typeRune(r rune) {
	if s.selected == model.RootID {
		s.startJump(r)
		return
	}
	s.mutSelected(func(n *model.Node) { n.Content += string(r) })
}

func (s *Screen) eraseRune() {
	n, ok := s.nodes.Get(s.selected)
	if !ok || s.selected == model.RootID || n.Content == "" {
		return
	}
	s.mutSelected(func(n *model.Node) {
		_, size := utf8.DecodeLastRuneInString(n.Content)
		n.Content = n.Content[:len(n.Content)-size]
	})
}

func (s *Screen) toggleStricken() {
	now := s.nodes.Clock()
	s.mutSelected(func(n *model.Node) {
		n.Stricken = !n.Stricken
		if n.Stricken {
			n.Meta.FinishTime = &now
		} else {
			n.Meta.FinishTime = nil
		}
	})
}

func (s *Screen) click(x, y int) {
	if y < 2 {
		return
	}
	at := s.screenToInternal(x, y)
	hit, onNode := s.lookup[at]

	if s.selected != model.RootID {
		if onNode && hit == s.selected {
			s.drillDown()
			return
		}
		s.releaseSelection(true)
		if onNode && s.nodes.Has(hit) {
			s.selectNode(hit)
			s.startDrag(x, y)
		}
		return
	}
	if s.dragFrom != nil {
		return
	}
	if onNode {
		s.selectNode(hit)
		s.startDrag(x, y)
		return
	}
	id, err := s.nodes.NewChild(s.drawingRoot, at)
	if err != nil {
		log.Printf("create node: %v", err)
		return
	}
	s.selectNode(id)
}

func (s *Screen) startDrag(x, y int) {
	s.dragFrom = &model.Coords{X: x, Y: y}
	s.dragTo = nil
}

func (s *Screen) release(x, y int) {
	if s.dragFrom == nil {
		return
	}
	from := *s.dragFrom
	s.dragFrom, s.dragTo = nil, nil
	if s.selected == model.RootID || (from == model.Coords{X: x, Y: y}) {
		return
	}
	s.moveSelected(s.screenToInternal(from.X, from.Y), s.screenToInternal(x, y))
}

// moveSelected drops the selected node at to. Dropping on another node reparents under
// it; dropping inside its own subtree shifts the whole anchor; dropping on empty space
// makes it an anchor at that cell.
func (s *Screen) moveSelected(from, to model.Coords) {
	id := s.selected
	if target, hit := s.lookup[to]; hit {
		if s.nodes.IsAncestor(id, target) {
			anchor, ok := s.nodes.AnchorOf(s.drawingRoot, id)
			if !ok {
				return
			}
			s.nodes.WithNodeMut(anchor, func(n *model.Node) {
				n.RootedCoords = clampAnchor(n.RootedCoords.Add(to.X-from.X, to.Y-from.Y))
			})
			return
		}
		if err := s.nodes.Reparent(id, target); err != nil {
			log.Printf("move: %v", err)
			return
		}
		s.nodes.Nodes[id].RootedCoords = clampAnchor(to)
		if t, ok := s.nodes.Get(target); ok && t.Collapsed {
			s.unselect()
		}
		return
	}

	n, ok := s.nodes.Get(id)
	if !ok {
		return
	}
	if n.ParentID != s.drawingRoot {
		if err := s.nodes.Reparent(id, s.drawingRoot); err != nil {
			log.Printf("move: %v", err)
			return
		}
	}
	s.nodes.WithNodeMut(id, func(n *model.Node) { n.RootedCoords = clampAnchor(to) })
}

// clampAnchor keeps anchors off the header row and the left edge.
func clampAnchor(c model.Coords) model.Coords {
	return model.Coords{X: max(c.X, 1), Y: max(c.Y, 2)}
}

func (s *Screen) rightClick(x, y int) {
	if y < 2 {
		return
	}
	hit, ok := s.lookup[s.screenToInternal(x, y)]
	if !ok {
		if s.drawingArrow != model.RootID {
			s.drawingArrow = model.RootID
			log.Printf("arrow cancelled")
		}
		return
	}
	s.selectNode(hit)
	s.arrow()
}

// arrow is the two-step toggle: the first call remembers the source, the second toggles
// the pair from the source to the current selection.
func (s *Screen) arrow() {
	if s.selected == model.RootID {
		return
	}
	if s.drawingArrow == model.RootID || !s.nodes.Has(s.drawingArrow) {
		s.drawingArrow = s.selected
		return
	}
	from := s.drawingArrow
	s.drawingArrow = model.RootID
	if _, err := s.nodes.ToggleArrow(from, s.selected); err != nil {
		log.Printf("arrow: %v", err)
	}
}

func (s *Screen) deleteNode(id model.NodeID) {
	if id == model.RootID || id == s.drawingRoot {
		return
	}
	if id == s.selected {
		s.unselect()
	}
	for _, gone := range s.nodes.Delete(id) {
		if gone == s.drawingArrow {
			s.drawingArrow = model.RootID
		}
		if gone == s.yanked {
			s.yanked = model.RootID
		}
	}
}

// deleteSelected removes the selected subtree and selects whatever now sits where it was.
func (s *Screen) deleteSelected() {
	id := s.selected
	if id == model.RootID || id == s.drawingRoot {
		return
	}
	at, drawn := s.drawnAt[id]
	s.deleteNode(id)
	s.Draw()
	if !drawn {
		return
	}
	if hit, ok := s.lookup[at]; ok {
		s.selectNode(hit)
	}
}

func (s *Screen) createSibling() {
	n, ok := s.nodes.Get(s.selected)
	if !ok || s.selected == model.RootID || n.ParentID == s.drawingRoot {
		return
	}
	id, err := s.nodes.NewSiblingAfter(s.selected)
	if err != nil {
		log.Printf("create sibling: %v", err)
		return
	}
	s.selectNode(id)
	s.ensureVisible(id)
	s.rememberPlace(id)
}

func (s *Screen) createChild() {
	if s.selected == model.RootID {
		return
	}
	s.mutSelected(func(n *model.Node) { n.Collapsed = false })
	id, err := s.nodes.NewChild(s.selected, model.Coords{})
	if err != nil {
		log.Printf("create child: %v", err)
		return
	}
	s.selectNode(id)
	s.ensureVisible(id)
	s.rememberPlace(id)
}

// rememberPlace stores where a nested node was first drawn so it keeps that spot when
// its parent is drilled into.
func (s *Screen) rememberPlace(id model.NodeID) {
	n, ok := s.nodes.Get(id)
	at, drawn := s.drawnAt[id]
	if ok && drawn {
		n.RootedCoords = clampAnchor(at)
	}
}

// createFreeNode places an anchor at the first row gap at least a third of the width wide.
func (s *Screen) createFreeNode() {
	if s.width <= 0 {
		return
	}
	s.Draw()
	need := max(s.width/3, 1)
	top := s.viewY + 2
	for y := top; y <= max(s.lowestDrawn+1, top); y++ {
		run := 0
		for x := 1; x <= s.width; x++ {
			if _, taken := s.lookup[model.Coords{X: x, Y: y}]; taken {
				run = 0
				continue
			}
			run++
			if run < need {
				continue
			}
			s.unselect()
			id, err := s.nodes.NewChild(s.drawingRoot, model.Coords{X: x - run + 1, Y: y})
			if err != nil {
				log.Printf("create node: %v", err)
				return
			}
			s.selectNode(id)
			s.ensureVisible(id)
			return
		}
	}
}

func (s *Screen) drillDown() {
	id := s.selected
	if id == model.RootID || id == s.drawingRoot {
		return
	}
	s.focusStack = append(s.focusStack, Focus{Root: s.drawingRoot, Selected: id})
	s.unselect()
	s.drawingRoot = id
	s.viewY = 0
}

func (s *Screen) popUp() {
	var next, sel model.NodeID
	switch {
	case len(s.focusStack) > 0:
		f := s.focusStack[len(s.focusStack)-1]
		s.focusStack = s.focusStack[:len(s.focusStack)-1]
		next, sel = f.Root, f.Selected
	case s.drawingRoot != model.RootID:
		n, ok := s.nodes.Get(s.drawingRoot)
		if !ok {
			return
		}
		next, sel = n.ParentID, s.drawingRoot
	default:
		return
	}
	if !s.nodes.Has(next) {
		next = model.RootID
	}
	s.unselect()
	s.drawingRoot = next
	s.viewY = 0
	s.selectNode(sel)
	if s.selected != model.RootID {
		s.ensureVisible(s.selected)
	}
}

func (s *Screen) scroll(dir int) {
	step := s.height / 2
	s.viewY = min(max(s.viewY+dir*step, 0), max(s.lowestDrawn, 0))
	s.unselect()
	s.dragFrom, s.dragTo = nil, nil
}

// ensureVisible redraws and scrolls so id lands inside the view.
func (s *Screen) ensureVisible(id model.NodeID) {
	s.Draw()
	at, ok := s.drawnAt[id]
	if !ok {
		return
	}
	switch {
	case at.Y < s.viewY+2:
		s.viewY = max(at.Y-2, 0)
	case at.Y > s.viewY+s.height:
		s.viewY = max(at.Y-s.height/2, 0)
	default:
		return
	}
	s.Draw()
}

// selectToward picks the nearest drawn node in the given direction. With nothing
// selected it picks the node closest to the top-left corner of the view.
func (s *Screen) selectToward(dir action.Kind) {
	cur, ok := s.drawnAt[s.selected]
	if s.selected == model.RootID || !ok {
		s.selectNearest(model.Coords{X: 1, Y: s.viewY + 2}, func(model.Coords) bool { return true }, true)
		return
	}
	s.selectNearest(cur, func(at model.Coords) bool {
		switch dir {
		case action.SelectUp:
			return at.Y < cur.Y
		case action.SelectDown:
			return at.Y > cur.Y
		case action.SelectLeft:
			return at.X < cur.X
		case action.SelectRight:
			return at.X > cur.X
		}
		return false
	}, false)
}

func (s *Screen) selectNearest(from model.Coords, keep func(model.Coords) bool, visibleOnly bool) {
	best, bestCost := model.RootID, -1
	for id, at := range s.drawnAt {
		if id == s.selected || !keep(at) {
			continue
		}
		if _, visible := s.internalToScreen(at); visibleOnly && !visible {
			continue
		}
		cost := model.Manhattan(from, at)
		if bestCost < 0 || cost < bestCost || (cost == bestCost && id < best) {
			best, bestCost = id, cost
		}
	}
	if bestCost < 0 {
		return
	}
	s.selectNode(best)
	s.ensureVisible(best)
}

func (s *Screen) selectParent() {
	n, ok := s.nodes.Get(s.selected)
	if !ok || s.selected == model.RootID || n.ParentID == s.drawingRoot {
		return
	}
	s.selectNode(n.ParentID)
	s.ensureVisible(n.ParentID)
}

// selectSibling moves to the nearest drawn sibling in the given direction, without wrapping.
func (s *Screen) selectSibling(dir int) {
	n, ok := s.nodes.Get(s.selected)
	if !ok || s.selected == model.RootID {
		return
	}
	p, ok := s.nodes.Get(n.ParentID)
	if !ok {
		return
	}
	for i := p.ChildIndex(s.selected) + dir; i >= 0 && i < len(p.Children); i += dir {
		if _, drawn := s.drawnAt[p.Children[i]]; drawn {
			s.selectNode(p.Children[i])
			s.ensureVisible(p.Children[i])
			return
		}
	}
}

// execSelected treats the selected content as a command line.
func (s *Screen) execSelected() {
	n, ok := s.nodes.Get(s.selected)
	if !ok || s.selected == model.RootID {
		return
	}
	words := strings.Fields(n.Content)
	if len(words) == 0 {
		return
	}
	switch {
	case strings.HasPrefix(words[0], "txt:"):
		text := ""
		if n.FreeText != nil {
			text = *n.FreeText
		}
		s.emit(EditFreeText{Node: n.ID, Text: text})
	case strings.HasPrefix(words[0], "http"):
		s.emit(OpenURL{URL: words[0]})
	default:
		s.emit(Spawn{Argv: words})
	}
}

// findTask selects the drawn open node with the earliest due date.
func (s *Screen) findTask() {
	var best *model.Node
	for id := range s.drawnAt {
		n, ok := s.nodes.Get(id)
		if !ok || n.Stricken || n.Meta.Due == nil {
			continue
		}
		if best == nil || n.Meta.Due.Before(*best.Meta.Due) ||
			(n.Meta.Due.Equal(*best.Meta.Due) && n.ID < best.ID) {
			best = n
		}
	}
	if best == nil {
		log.Printf("find task: nothing due")
		return
	}
	s.selectNode(best.ID)
	s.ensureVisible(best.ID)
}

// yankPaste yanks the selection on first use and moves the yanked node under the
// selection on the second.
func (s *Screen) yankPaste() {
	n, ok := s.nodes.Get(s.selected)
	if !ok || s.selected == model.RootID {
		return
	}
	switch {
	case s.yanked == model.RootID || !s.nodes.Has(s.yanked):
		s.yanked = n.ID
		s.emit(CopyText{Text: n.Content})
		log.Printf("yanked %q", n.Content)
	case s.yanked == n.ID:
		s.yanked = model.RootID
	default:
		moved := s.yanked
		s.yanked = model.RootID
		if err := s.nodes.Reparent(moved, n.ID); err != nil {
			log.Printf("paste: %v", err)
			return
		}
		s.mutSelected(func(n *model.Node) { n.Collapsed = false })
	}
}

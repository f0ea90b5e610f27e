package store

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"void-cli/internal/model"
)

var (
	ErrNotFound = errors.New("node not found")
	ErrCycle    = errors.New("node cannot move under its own subtree")
	ErrRoot     = errors.New("the super-root cannot be changed")
)

// Nodes is the node arena: every node is owned by one map and links are ids.
type Nodes struct {
	Nodes  map[model.NodeID]*model.Node
	MaxID  model.NodeID
	Arrows []model.Arrow

	// Location is stamped on newly created nodes when set.
	Location *model.GPS

	// Now is the clock used for ctime/mtime/finish_time. Nil means time.Now.
	Now func() time.Time
}

// NewNodes returns an arena holding only the super-root.
func NewNodes() *Nodes {
	s := &Nodes{Nodes: map[model.NodeID]*model.Node{}}
	now := s.now()
	s.Nodes[model.RootID] = &model.Node{
		ID:       model.RootID,
		ParentID: model.RootID,
		Content:  "home",
		Meta:     model.Meta{CTime: now, MTime: now},
	}
	return s
}

func (s *Nodes) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Clock returns the arena's current time.
func (s *Nodes) Clock() time.Time { return s.now() }

func (s *Nodes) Len() int { return len(s.Nodes) }

// Alloc returns a fresh id. Ids are never reused within one arena.
func (s *Nodes) Alloc() model.NodeID {
	s.MaxID++
	return s.MaxID
}

// Get returns the node for id. Callers must not mutate through it; use WithNodeMut.
func (s *Nodes) Get(id model.NodeID) (*model.Node, bool) {
	n, ok := s.Nodes[id]
	return n, ok
}

func (s *Nodes) Has(id model.NodeID) bool {
	_, ok := s.Nodes[id]
	return ok
}

// WithNode runs fn against a read-only view of the node. Reports whether the node exists.
func (s *Nodes) WithNode(id model.NodeID, fn func(n *model.Node)) bool {
	n, ok := s.Nodes[id]
	if !ok {
		return false
	}
	fn(n)
	return true
}

// WithNodeMut bumps mtime, then runs fn against the node.
func (s *Nodes) WithNodeMut(id model.NodeID, fn func(n *model.Node)) bool {
	n, ok := s.Nodes[id]
	if !ok {
		return false
	}
	n.Meta.MTime = s.now()
	fn(n)
	return true
}

func (s *Nodes) fresh(parent model.NodeID, at model.Coords) *model.Node {
	now := s.now()
	n := &model.Node{
		ID:           s.Alloc(),
		ParentID:     parent,
		RootedCoords: at,
		Color:        model.RandomColor(),
		Meta:         model.Meta{CTime: now, MTime: now},
	}
	if s.Location != nil {
		loc := *s.Location
		n.Meta.GPS = &loc
	}
	s.Nodes[n.ID] = n
	return n
}

// NewChild creates an empty node appended as the last child of parent.
// at is only meaningful when parent is the drawing root.
func (s *Nodes) NewChild(parent model.NodeID, at model.Coords) (model.NodeID, error) {
	p, ok := s.Nodes[parent]
	if !ok {
		return 0, fmt.Errorf("new child of %d: %w", parent, ErrNotFound)
	}
	n := s.fresh(parent, at)
	p.Children = append(p.Children, n.ID)
	return n.ID, nil
}

// NewSiblingAfter creates an empty node directly after sibling in its parent's children.
func (s *Nodes) NewSiblingAfter(sibling model.NodeID) (model.NodeID, error) {
	if sibling == model.RootID {
		return 0, ErrRoot
	}
	sib, ok := s.Nodes[sibling]
	if !ok {
		return 0, fmt.Errorf("new sibling of %d: %w", sibling, ErrNotFound)
	}
	p, ok := s.Nodes[sib.ParentID]
	if !ok {
		return 0, fmt.Errorf("parent %d: %w", sib.ParentID, ErrNotFound)
	}
	n := s.fresh(p.ID, sib.RootedCoords)
	idx := p.ChildIndex(sibling)
	if idx < 0 {
		p.Children = append(p.Children, n.ID)
	} else {
		p.Children = append(p.Children, 0)
		copy(p.Children[idx+2:], p.Children[idx+1:])
		p.Children[idx+1] = n.ID
	}
	return n.ID, nil
}

func (s *Nodes) detach(id model.NodeID) {
	n, ok := s.Nodes[id]
	if !ok {
		return
	}
	p, ok := s.Nodes[n.ParentID]
	if !ok {
		return
	}
	if idx := p.ChildIndex(id); idx >= 0 {
		p.Children = append(p.Children[:idx], p.Children[idx+1:]...)
	}
}

// Delete detaches id from its parent and removes its whole subtree.
// It returns every removed id. Deleting the super-root is a no-op.
func (s *Nodes) Delete(id model.NodeID) []model.NodeID {
	if id == model.RootID || !s.Has(id) {
		return nil
	}
	s.detach(id)
	return s.RemoveRecursive(id)
}

// RemoveRecursive removes id and its descendants and drops every arrow touching them.
// It does not touch the parent's children list; see Delete.
func (s *Nodes) RemoveRecursive(id model.NodeID) []model.NodeID {
	if !s.Has(id) {
		return nil
	}
	var removed []model.NodeID
	stack := []model.NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := s.Nodes[cur]
		if !ok {
			continue
		}
		delete(s.Nodes, cur)
		removed = append(removed, cur)
		stack = append(stack, n.Children...)
	}

	gone := make(map[model.NodeID]bool, len(removed))
	for _, r := range removed {
		gone[r] = true
	}
	kept := s.Arrows[:0]
	for _, a := range s.Arrows {
		if gone[a.From] || gone[a.To] {
			continue
		}
		kept = append(kept, a)
	}
	s.Arrows = kept
	return removed
}

// IsAncestor reports whether anc is id itself or lies on id's parent chain.
func (s *Nodes) IsAncestor(anc, id model.NodeID) bool {
	cur := id
	for steps := 0; steps <= len(s.Nodes); steps++ {
		if cur == anc {
			return true
		}
		if cur == model.RootID {
			return false
		}
		n, ok := s.Nodes[cur]
		if !ok {
			return false
		}
		cur = n.ParentID
	}
	return false
}

// AnchorOf returns the ancestor of id (possibly id) whose parent is root.
func (s *Nodes) AnchorOf(root, id model.NodeID) (model.NodeID, bool) {
	cur := id
	for steps := 0; steps <= len(s.Nodes); steps++ {
		n, ok := s.Nodes[cur]
		if !ok || cur == model.RootID {
			return 0, false
		}
		if n.ParentID == root {
			return cur, true
		}
		cur = n.ParentID
	}
	return 0, false
}

// Reparent moves id (with its subtree) to the end of newParent's children.
func (s *Nodes) Reparent(id, newParent model.NodeID) error {
	if id == model.RootID {
		return ErrRoot
	}
	n, ok := s.Nodes[id]
	if !ok {
		return fmt.Errorf("reparent %d: %w", id, ErrNotFound)
	}
	p, ok := s.Nodes[newParent]
	if !ok {
		return fmt.Errorf("reparent under %d: %w", newParent, ErrNotFound)
	}
	if s.IsAncestor(id, newParent) {
		return ErrCycle
	}
	s.detach(id)
	n.ParentID = newParent
	p.Children = append(p.Children, id)
	n.Meta.MTime = s.now()
	return nil
}

// Shift moves id by delta positions among its siblings. Reports whether it moved.
func (s *Nodes) Shift(id model.NodeID, delta int) bool {
	n, ok := s.Nodes[id]
	if !ok || id == model.RootID {
		return false
	}
	p, ok := s.Nodes[n.ParentID]
	if !ok {
		return false
	}
	idx := p.ChildIndex(id)
	to := idx + delta
	if idx < 0 || to < 0 || to >= len(p.Children) || to == idx {
		return false
	}
	p.Children[idx], p.Children[to] = p.Children[to], p.Children[idx]
	now := s.now()
	n.Meta.MTime = now
	p.Meta.MTime = now
	return true
}

// HasArrow reports whether the ordered pair is present.
func (s *Nodes) HasArrow(from, to model.NodeID) bool {
	for _, a := range s.Arrows {
		if a.From == from && a.To == to {
			return true
		}
	}
	return false
}

// ToggleArrow removes the ordered pair if present, otherwise appends it.
// It returns true when the arrow now exists.
func (s *Nodes) ToggleArrow(from, to model.NodeID) (bool, error) {
	if !s.Has(from) || !s.Has(to) {
		return false, fmt.Errorf("arrow %d->%d: %w", from, to, ErrNotFound)
	}
	for i, a := range s.Arrows {
		if a.From == from && a.To == to {
			s.Arrows = append(s.Arrows[:i], s.Arrows[i+1:]...)
			return false, nil
		}
	}
	s.Arrows = append(s.Arrows, model.Arrow{From: from, To: to})
	return true, nil
}

// ClearSelected drops the selected flag everywhere.
func (s *Nodes) ClearSelected() {
	for _, n := range s.Nodes {
		n.Selected = false
	}
}

// Subtree returns id and its descendants in pre-order.
func (s *Nodes) Subtree(id model.NodeID) []model.NodeID {
	var out []model.NodeID
	var walk func(model.NodeID)
	walk = func(cur model.NodeID) {
		n, ok := s.Nodes[cur]
		if !ok {
			return
		}
		out = append(out, cur)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(id)
	return out
}

// SortedIDs returns every id in ascending order.
func (s *Nodes) SortedIDs() []model.NodeID {
	ids := make([]model.NodeID, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Validate checks the tree and arrow invariants.
func (s *Nodes) Validate() error {
	root, ok := s.Nodes[model.RootID]
	if !ok {
		return errors.New("missing super-root")
	}
	if root.ParentID != model.RootID {
		return errors.New("super-root must be its own parent")
	}

	owner := map[model.NodeID]model.NodeID{}
	for _, id := range s.SortedIDs() {
		n := s.Nodes[id]
		if n.ID != id {
			return fmt.Errorf("node %d stored under id %d", n.ID, id)
		}
		if id > s.MaxID {
			return fmt.Errorf("node %d exceeds max id %d", id, s.MaxID)
		}
		for _, c := range n.Children {
			if c == model.RootID {
				return fmt.Errorf("node %d lists the super-root as a child", id)
			}
			if prev, dup := owner[c]; dup {
				return fmt.Errorf("node %d is a child of both %d and %d", c, prev, id)
			}
			owner[c] = id
			cn, ok := s.Nodes[c]
			if !ok {
				return fmt.Errorf("node %d lists missing child %d", id, c)
			}
			if cn.ParentID != id {
				return fmt.Errorf("node %d has parent %d but is listed under %d", c, cn.ParentID, id)
			}
		}
	}
	for id := range s.Nodes {
		if id == model.RootID {
			continue
		}
		if _, ok := owner[id]; !ok {
			return fmt.Errorf("node %d is not listed by any parent", id)
		}
		if !s.IsAncestor(model.RootID, id) {
			return fmt.Errorf("node %d does not reach the super-root", id)
		}
	}
	for _, a := range s.Arrows {
		if !s.Has(a.From) || !s.Has(a.To) {
			return fmt.Errorf("arrow %d->%d references a missing node", a.From, a.To)
		}
	}
	return nil
}

package store

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"

	"pgregory.net/rapid"

	"void-cli/internal/model"
)

func encodeBytes(t *testing.T, snap *Snapshot) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

// sameNode compares every persisted field; selection is excluded.
func sameNode(a, b *model.Node) bool {
	if a.ID != b.ID || a.ParentID != b.ParentID || a.Content != b.Content || a.RootedCoords != b.RootedCoords {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if a.Children[i] != b.Children[i] {
			return false
		}
	}
	if a.Collapsed != b.Collapsed || a.Stricken != b.Stricken || a.HideStricken != b.HideStricken || a.AutoArrange != b.AutoArrange {
		return false
	}
	if (a.FreeText == nil) != (b.FreeText == nil) || (a.FreeText != nil && *a.FreeText != *b.FreeText) {
		return false
	}
	if a.Color != b.Color {
		return false
	}
	if !a.Meta.CTime.Equal(b.Meta.CTime) || !a.Meta.MTime.Equal(b.Meta.MTime) {
		return false
	}
	if !sameTime(a.Meta.FinishTime, b.Meta.FinishTime) || !sameTime(a.Meta.Due, b.Meta.Due) {
		return false
	}
	if !reflect.DeepEqual(a.Meta.GPS, b.Meta.GPS) {
		return false
	}
	if len(a.Meta.Tags) != len(b.Meta.Tags) {
		return false
	}
	for k, v := range a.Meta.Tags {
		if b.Meta.Tags[k] != v {
			return false
		}
	}
	return true
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func TestCodec_RoundTripTenNodesThreeArrows(t *testing.T) {
	t.Parallel()

	s := NewNodes()
	var ids []model.NodeID
	parent := model.RootID
	for i := 0; i < 10; i++ {
		id, err := s.NewChild(parent, model.Coords{X: i + 1, Y: i + 2})
		if err != nil {
			t.Fatalf("NewChild: %v", err)
		}
		ids = append(ids, id)
		if i%3 == 2 {
			parent = id
		}
	}
	due := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	text := "long form\nnotes"
	s.WithNodeMut(ids[0], func(n *model.Node) {
		n.Content = "héllo wörld"
		n.Stricken = true
		finish := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		n.Meta.FinishTime = &finish
		n.Meta.Due = &due
		n.Meta.Tags = map[string]string{"k": "v", "ctx": "home"}
		n.Meta.GPS = &model.GPS{Lat: 52.5, Lon: 13.4}
		n.FreeText = &text
		n.Selected = true
	})
	s.WithNodeMut(ids[4], func(n *model.Node) {
		n.Collapsed = true
		n.HideStricken = true
		n.AutoArrange = true
		n.Selected = true
	})
	for _, pair := range [][2]model.NodeID{{ids[0], ids[9]}, {ids[3], ids[3]}, {ids[7], ids[1]}} {
		if _, err := s.ToggleArrow(pair[0], pair[1]); err != nil {
			t.Fatalf("ToggleArrow: %v", err)
		}
	}

	snap := &Snapshot{Nodes: s, DrawingRoot: ids[2], ViewY: 7, ShowLogs: true, AutosaveEvery: 25}
	got, err := Decode(encodeBytes(t, snap))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.DrawingRoot != ids[2] || got.ViewY != 7 || !got.ShowLogs || got.ShowMeta || got.AutosaveEvery != 25 {
		t.Fatalf("screen fields mismatch: %#v", got)
	}
	if got.Nodes.MaxID != s.MaxID {
		t.Fatalf("expected MaxID=%d; got %d", s.MaxID, got.Nodes.MaxID)
	}
	if !reflect.DeepEqual(got.Nodes.Arrows, s.Arrows) {
		t.Fatalf("arrows mismatch:\nwant: %v\ngot:  %v", s.Arrows, got.Nodes.Arrows)
	}
	if got.Nodes.Len() != s.Len() {
		t.Fatalf("expected %d nodes; got %d", s.Len(), got.Nodes.Len())
	}
	for id, want := range s.Nodes {
		n, ok := got.Nodes.Get(id)
		if !ok {
			t.Fatalf("node %d missing after decode", id)
		}
		if n.Selected {
			t.Fatalf("node %d came back selected", id)
		}
		if !sameNode(want, n) {
			t.Fatalf("node %d mismatch:\nwant: %#v\ngot:  %#v", id, want, n)
		}
	}
}

func TestCodec_RejectsCorruption(t *testing.T) {
	t.Parallel()

	s, _, _, _ := buildTree(t)
	good := encodeBytes(t, &Snapshot{Nodes: s})

	cases := map[string][]byte{
		"empty header": good[:6],
		"bad magic":    append([]byte("NOPE"), good[4:]...),
		"truncated":    good[:len(good)-3],
		"flipped byte": func() []byte {
			b := append([]byte(nil), good...)
			b[20] ^= 0xff
			return b
		}(),
	}
	for name, b := range cases {
		if _, err := Decode(b); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("%s: expected ErrCorrupt; got %v", name, err)
		}
	}
}

func TestCodec_SkipsUnreachableNodes(t *testing.T) {
	t.Parallel()

	s, _, _, _ := buildTree(t)
	orphan := &model.Node{ID: s.Alloc(), ParentID: 999}
	s.Nodes[orphan.ID] = orphan

	got, err := Decode(encodeBytes(t, &Snapshot{Nodes: s}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Nodes.Has(orphan.ID) {
		t.Fatalf("expected orphan %d to be dropped", orphan.ID)
	}
}

func TestCodec_RoundTripProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		s := NewNodes()
		ids := []model.NodeID{model.RootID}
		n := rapid.IntRange(0, 30).Draw(rt, "nodes")
		for i := 0; i < n; i++ {
			parent := rapid.SampledFrom(ids).Draw(rt, "parent")
			id, err := s.NewChild(parent, model.Coords{
				X: rapid.IntRange(0, 500).Draw(rt, "x"),
				Y: rapid.IntRange(0, 500).Draw(rt, "y"),
			})
			if err != nil {
				rt.Fatalf("NewChild: %v", err)
			}
			content := rapid.String().Draw(rt, "content")
			stricken := rapid.Bool().Draw(rt, "stricken")
			s.WithNodeMut(id, func(node *model.Node) {
				node.Content = content
				node.Stricken = stricken
				node.Collapsed = rapid.Bool().Draw(rt, "collapsed")
			})
			ids = append(ids, id)
		}
		arrows := rapid.IntRange(0, 5).Draw(rt, "arrows")
		for i := 0; i < arrows; i++ {
			_, _ = s.ToggleArrow(rapid.SampledFrom(ids).Draw(rt, "from"), rapid.SampledFrom(ids).Draw(rt, "to"))
		}

		var buf bytes.Buffer
		if err := Encode(&buf, &Snapshot{Nodes: s}); err != nil {
			rt.Fatalf("Encode: %v", err)
		}
		got, err := Decode(buf.Bytes())
		if err != nil {
			rt.Fatalf("Decode: %v", err)
		}
		if got.Nodes.Len() != s.Len() || len(got.Nodes.Arrows) != len(s.Arrows) {
			rt.Fatalf("expected %d nodes/%d arrows; got %d/%d", s.Len(), len(s.Arrows), got.Nodes.Len(), len(got.Nodes.Arrows))
		}
		for id, want := range s.Nodes {
			have, ok := got.Nodes.Get(id)
			if !ok || !sameNode(want, have) {
				rt.Fatalf("node %d mismatch", id)
			}
		}
	})
}

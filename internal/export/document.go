// Package export turns a saved map into formats other tools can read.
package export

import (
	"void-cli/internal/model"
	"void-cli/internal/store"
)

const documentVersion = 1

// Document is the tree form shared by the json, yaml and edn exports.
type Document struct {
	Version     int           `json:"version"`
	DrawingRoot model.NodeID  `json:"drawingRoot"`
	Root        Node          `json:"root"`
	Arrows      []model.Arrow `json:"arrows,omitempty"`
}

type Node struct {
	ID           model.NodeID  `json:"id"`
	Content      string        `json:"content"`
	At           *model.Coords `json:"at,omitempty"`
	Collapsed    bool          `json:"collapsed,omitempty"`
	Stricken     bool          `json:"stricken,omitempty"`
	HideStricken bool          `json:"hideStricken,omitempty"`
	AutoArrange  bool          `json:"autoArrange,omitempty"`
	FreeText     *string       `json:"freeText,omitempty"`
	Color        string        `json:"color,omitempty"`
	Meta         model.Meta    `json:"meta"`
	Children     []Node        `json:"children,omitempty"`
}

// BuildDocument walks every node reachable from the super-root. At is set on nodes whose
// parent is the drawing root, where the stored coordinates are meaningful.
func BuildDocument(snap *store.Snapshot) Document {
	st := snap.Nodes
	var walk func(id model.NodeID) Node
	walk = func(id model.NodeID) Node {
		n := st.Nodes[id]
		out := Node{
			ID:           n.ID,
			Content:      n.Content,
			Collapsed:    n.Collapsed,
			Stricken:     n.Stricken,
			HideStricken: n.HideStricken,
			AutoArrange:  n.AutoArrange,
			FreeText:     n.FreeText,
			Meta:         n.Meta,
		}
		if n.Color != model.ColorDefault {
			out.Color = n.Color.String()
		}
		if id != model.RootID && n.ParentID == snap.DrawingRoot {
			at := n.RootedCoords
			out.At = &at
		}
		for _, c := range n.Children {
			if _, ok := st.Nodes[c]; ok {
				out.Children = append(out.Children, walk(c))
			}
		}
		return out
	}
	return Document{
		Version:     documentVersion,
		DrawingRoot: snap.DrawingRoot,
		Root:        walk(model.RootID),
		Arrows:      append([]model.Arrow(nil), st.Arrows...),
	}
}

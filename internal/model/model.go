package model

import "time"

// NodeID identifies a node within one screen. ID 0 is the invisible super-root.
type NodeID uint64

const RootID NodeID = 0

// Coords is a cell position. Document and screen space are both 1-indexed.
type Coords struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Coords) Add(dx, dy int) Coords { return Coords{X: c.X + dx, Y: c.Y + dy} }

// Manhattan returns |dx| + |dy| between two cells.
func Manhattan(a, b Coords) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type GPS struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

type Meta struct {
	CTime      time.Time         `json:"ctime" yaml:"ctime"`
	MTime      time.Time         `json:"mtime" yaml:"mtime"`
	FinishTime *time.Time        `json:"finishTime,omitempty" yaml:"finishTime,omitempty"`
	Due        *time.Time        `json:"due,omitempty" yaml:"due,omitempty"`
	GPS        *GPS              `json:"gps,omitempty" yaml:"gps,omitempty"`
	Tags       map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Node is one labeled box in the forest. Children are ordered; the order is the draw order.
//
// RootedCoords is only consulted while the node is a direct child of the current drawing root.
type Node struct {
	ID           NodeID   `json:"id" yaml:"id"`
	ParentID     NodeID   `json:"parentId" yaml:"parentId"`
	Children     []NodeID `json:"children,omitempty" yaml:"children,omitempty"`
	Content      string   `json:"content" yaml:"content"`
	RootedCoords Coords   `json:"rootedCoords" yaml:"rootedCoords"`

	Selected     bool `json:"-" yaml:"-"`
	Collapsed    bool `json:"collapsed" yaml:"collapsed"`
	Stricken     bool `json:"stricken" yaml:"stricken"`
	HideStricken bool `json:"hideStricken" yaml:"hideStricken"`
	AutoArrange  bool `json:"autoArrange" yaml:"autoArrange"`

	FreeText *string `json:"freeText,omitempty" yaml:"freeText,omitempty"`
	Color    Color   `json:"color" yaml:"color"`
	Meta     Meta    `json:"meta" yaml:"meta"`
}

// ChildIndex returns the position of id in n.Children, or -1.
func (n *Node) ChildIndex(id NodeID) int {
	for i, c := range n.Children {
		if c == id {
			return i
		}
	}
	return -1
}

// Arrow is an ordered pair of node ids.
type Arrow struct {
	From NodeID `json:"from" yaml:"from"`
	To   NodeID `json:"to" yaml:"to"`
}

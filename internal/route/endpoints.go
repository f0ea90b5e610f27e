package route

import "void-cli/internal/model"

type Side int

const (
	Right Side = iota
	Left
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Endpoints are the two cells an arrow may attach to on a node: its leftmost cell and
// the cell just past its rightmost character.
type Endpoints struct {
	Left  model.Coords
	Right model.Coords
}

func (e Endpoints) At(s Side) model.Coords {
	if s == Left {
		return e.Left
	}
	return e.Right
}

// Route is a path plus the sides it leaves from and arrives at.
type Route struct {
	Path []model.Coords
	From Side
	To   Side
}

func (r Route) Empty() bool { return len(r.Path) == 0 }

// Between tries every side combination and keeps the shortest non-empty path.
// Ties keep the earlier candidate, starting with right-to-right.
func (r Router) Between(a, b Endpoints) Route {
	var best Route
	for _, from := range []Side{Right, Left} {
		for _, to := range []Side{Right, Left} {
			p := r.Path(a.At(from), b.At(to))
			if len(p) == 0 {
				continue
			}
			if best.Empty() || len(p) < len(best.Path) {
				best = Route{Path: p, From: from, To: to}
			}
		}
	}
	return best
}

// ToPoint routes from either side of a to the cell p.
func (r Router) ToPoint(a Endpoints, p model.Coords) Route {
	var best Route
	for _, from := range []Side{Right, Left} {
		path := r.Path(a.At(from), p)
		if len(path) == 0 {
			continue
		}
		if best.Empty() || len(path) < len(best.Path) {
			best = Route{Path: path, From: from, To: Left}
		}
	}
	return best
}

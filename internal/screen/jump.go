package screen

import (
	"log"
	"sort"
	"strings"

	"void-cli/internal/model"
)

// jumpAlphabet orders the pick labels so the home row comes first.
const jumpAlphabet = "asdfghjklqwertyuiopzxcvbnm1234567890"

// jumpState tracks a prefix jump. It is either waiting for the prefix character or
// showing labels and waiting for the pick.
type jumpState struct {
	awaitingPrefix bool
	labels         map[rune]model.NodeID
}

func (j *jumpState) active() bool { return j.awaitingPrefix || j.picking() }

func (j *jumpState) picking() bool { return len(j.labels) > 0 }

func (j *jumpState) reset() {
	j.awaitingPrefix = false
	j.labels = nil
}

// Jumping reports whether typed keys are currently consumed by a prefix jump.
func (s *Screen) Jumping() bool { return s.jump.active() }

// WantsText reports whether plain keys should arrive as characters.
func (s *Screen) WantsText() bool {
	return s.selected != model.RootID || s.jump.active()
}

func (s *Screen) beginJump() {
	s.unselect()
	s.jump.reset()
	s.jump.awaitingPrefix = true
}

// startJump collects the visible nodes starting with prefix. One match is selected
// right away; several get a label each.
func (s *Screen) startJump(prefix rune) {
	s.jump.reset()
	s.Draw()

	var hits []model.NodeID
	for id, at := range s.drawnAt {
		if _, visible := s.internalToScreen(at); !visible {
			continue
		}
		n, ok := s.nodes.Get(id)
		if !ok || !strings.HasPrefix(n.Content, string(prefix)) {
			continue
		}
		hits = append(hits, id)
	}
	sort.Slice(hits, func(i, j int) bool {
		a, b := s.drawnAt[hits[i]], s.drawnAt[hits[j]]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	switch len(hits) {
	case 0:
		log.Printf("jump: nothing starts with %q", prefix)
	case 1:
		s.selectNode(hits[0])
	default:
		s.jump.labels = map[rune]model.NodeID{}
		for i, id := range hits {
			if i >= len(jumpAlphabet) {
				break
			}
			s.jump.labels[rune(jumpAlphabet[i])] = id
		}
	}
}

func (s *Screen) feedJump(r rune) {
	if s.jump.awaitingPrefix {
		s.startJump(r)
		return
	}
	id, ok := s.jump.labels[r]
	s.jump.reset()
	if ok {
		s.selectNode(id)
	}
}

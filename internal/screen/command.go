package screen

import (
	"log"
	"sort"
	"strings"
	"time"

	"void-cli/internal/model"
)

// RunCommand executes one command-prompt line. It returns false when the line asks to quit.
func (s *Screen) RunCommand(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cont := true
	name, args := fields[0], fields[1:]
	switch name {
	case "w", "save":
		_ = s.Save()
	case "q", "quit":
		cont = false
	case "wq":
		_ = s.Save()
		cont = false
	case "arrange":
		s.autoArrange()
	case "auto":
		s.nodes.WithNodeMut(s.drawingRoot, func(n *model.Node) { n.AutoArrange = !n.AutoArrange })
	case "logs":
		s.showLogs = !s.showLogs
	case "meta":
		s.showMeta = !s.showMeta
	case "due":
		s.setDue(args)
	case "tag":
		s.setTag(args)
	case "untag":
		if len(args) != 1 {
			log.Printf("usage: untag KEY")
			break
		}
		s.mutSelected(func(n *model.Node) { delete(n.Meta.Tags, args[0]) })
	case "gps":
		loc := s.nodes.Location
		if loc == nil {
			log.Printf("gps: location unknown")
			break
		}
		s.mutSelected(func(n *model.Node) {
			g := *loc
			n.Meta.GPS = &g
		})
	case "help":
		s.emit(ShowHelp{})
	default:
		log.Printf("unknown command %q", name)
	}
	s.settle()
	return cont
}

func (s *Screen) setDue(args []string) {
	if len(args) != 1 {
		log.Printf("usage: due YYYY-MM-DD | due -")
		return
	}
	if args[0] == "-" {
		s.mutSelected(func(n *model.Node) { n.Meta.Due = nil })
		return
	}
	due, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
	if err != nil {
		log.Printf("due: %v", err)
		return
	}
	s.mutSelected(func(n *model.Node) { n.Meta.Due = &due })
}

func (s *Screen) setTag(args []string) {
	if len(args) != 1 {
		log.Printf("usage: tag KEY=VALUE")
		return
	}
	k, v, ok := strings.Cut(args[0], "=")
	if !ok || k == "" {
		log.Printf("tag: expected KEY=VALUE, got %q", args[0])
		return
	}
	s.mutSelected(func(n *model.Node) {
		if n.Meta.Tags == nil {
			n.Meta.Tags = map[string]string{}
		}
		n.Meta.Tags[k] = v
	})
}

// Search selects the next drawn node, in reading order after the selection, whose
// content contains q ignoring case. An empty q repeats the last search.
func (s *Screen) Search(q string) {
	defer s.settle()
	if q == "" {
		q = s.lastSearch
	}
	if q == "" {
		return
	}
	s.lastSearch = q
	s.Draw()

	ids := make([]model.NodeID, 0, len(s.drawnAt))
	for id := range s.drawnAt {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.drawnAt[ids[i]], s.drawnAt[ids[j]]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	start := 0
	for i, id := range ids {
		if id == s.selected {
			start = i + 1
			break
		}
	}
	needle := strings.ToLower(q)
	for k := range ids {
		id := ids[(start+k)%len(ids)]
		n, ok := s.nodes.Get(id)
		if ok && strings.Contains(strings.ToLower(n.Content), needle) {
			s.selectNode(id)
			s.ensureVisible(id)
			return
		}
	}
	log.Printf("search: no match for %q", q)
}

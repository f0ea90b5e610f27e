// Package screen holds the editor state and implements the controller and renderer.
// It never touches the terminal: input arrives as actions, output is a Frame of cells,
// and side effects that need the terminal are queued as Effects.
package screen

import (
	"log"
	"time"

	"void-cli/internal/keymap"
	"void-cli/internal/logbuf"
	"void-cli/internal/model"
	"void-cli/internal/store"
)

// Focus is one drill-down step: the drawing root before it and the node that was drilled into.
type Focus struct {
	Root     model.NodeID
	Selected model.NodeID
}

type Options struct {
	// Path is the database file; empty disables persistence.
	Path          string
	Glyphs        keymap.Glyphs
	AutosaveEvery int
	Width         int
	Height        int
	// Location is stamped on newly created nodes.
	Location *model.GPS
	// Logs supplies the log panel lines, newest first. Defaults to the process log buffer.
	Logs func() []string
	// Now overrides the clock.
	Now func() time.Time
}

// Screen is the whole editor state. The zero NodeID doubles as "none" for selection,
// pending arrows and yanks because the super-root can never be drawn or selected.
type Screen struct {
	nodes       *store.Nodes
	drawingRoot model.NodeID
	focusStack  []Focus

	selected     model.NodeID
	drawingArrow model.NodeID
	yanked       model.NodeID

	// Screen coordinates of a live drag.
	dragFrom *model.Coords
	dragTo   *model.Coords

	lookup      map[model.Coords]model.NodeID
	drawnAt     map[model.NodeID]model.Coords
	drawnEnd    map[model.NodeID]model.Coords
	lowestDrawn int
	frame       *Frame

	viewY    int
	width    int
	height   int
	showLogs bool
	showMeta bool

	autosaveEvery int
	untilAutosave int
	workPath      string
	glyphs        keymap.Glyphs
	logs          func() []string
	jump          jumpState
	lastSearch    string
	effects       []Effect
}

// New returns a screen holding only the super-root.
func New(opts Options) *Screen {
	nodes := store.NewNodes()
	if opts.Now != nil {
		nodes.Now = opts.Now
		nodes.Nodes[model.RootID].Meta.CTime = opts.Now()
		nodes.Nodes[model.RootID].Meta.MTime = opts.Now()
	}
	return fromParts(nodes, opts)
}

// FromSnapshot rebuilds a screen from persisted state. Selection always starts empty.
func FromSnapshot(snap *store.Snapshot, opts Options) *Screen {
	snap.Nodes.ClearSelected()
	if opts.Now != nil {
		snap.Nodes.Now = opts.Now
	}
	s := fromParts(snap.Nodes, opts)
	s.drawingRoot = snap.DrawingRoot
	s.viewY = snap.ViewY
	s.showLogs = snap.ShowLogs
	s.showMeta = snap.ShowMeta
	if opts.AutosaveEvery == 0 {
		s.autosaveEvery = snap.AutosaveEvery
		s.untilAutosave = snap.AutosaveEvery
	}
	return s
}

func fromParts(nodes *store.Nodes, opts Options) *Screen {
	nodes.Location = opts.Location
	s := &Screen{
		nodes:         nodes,
		width:         opts.Width,
		height:        opts.Height,
		autosaveEvery: opts.AutosaveEvery,
		untilAutosave: opts.AutosaveEvery,
		workPath:      opts.Path,
		glyphs:        opts.Glyphs,
		logs:          opts.Logs,
	}
	if s.glyphs == (keymap.Glyphs{}) {
		s.glyphs = keymap.DefaultGlyphs()
	}
	if s.logs == nil {
		s.logs = logbuf.Lines
	}
	s.resetTables()
	return s
}

// Open loads the database at opts.Path, or starts fresh when it is missing or empty.
func Open(opts Options) (*Screen, error) {
	if opts.Path == "" {
		return New(opts), nil
	}
	snap, err := store.Load(opts.Path)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return New(opts), nil
	}
	return FromSnapshot(snap, opts), nil
}

// Snapshot captures the persisted fields.
func (s *Screen) Snapshot() *store.Snapshot {
	return &store.Snapshot{
		Nodes:         s.nodes,
		DrawingRoot:   s.drawingRoot,
		ViewY:         s.viewY,
		ShowLogs:      s.showLogs,
		ShowMeta:      s.showMeta,
		AutosaveEvery: s.autosaveEvery,
	}
}

// Save writes the database atomically. Without a path it does nothing.
// Failures are logged and returned.
func (s *Screen) Save() error {
	if s.workPath == "" {
		return nil
	}
	if err := store.Save(s.workPath, s.Snapshot()); err != nil {
		log.Printf("save failed: %v", err)
		return err
	}
	log.Printf("saved %s", s.workPath)
	return nil
}

func (s *Screen) tickAutosave() {
	if s.autosaveEvery <= 0 || s.workPath == "" {
		return
	}
	s.untilAutosave--
	if s.untilAutosave > 0 {
		return
	}
	s.untilAutosave = s.autosaveEvery
	_ = s.Save()
}

func (s *Screen) Nodes() *store.Nodes { return s.nodes }

func (s *Screen) Path() string { return s.workPath }

func (s *Screen) DrawingRoot() model.NodeID { return s.drawingRoot }

// Selected returns the selected node, if any.
func (s *Screen) Selected() (model.NodeID, bool) {
	return s.selected, s.selected != model.RootID
}

func (s *Screen) ViewY() int { return s.viewY }

func (s *Screen) LowestDrawn() int { return s.lowestDrawn }

func (s *Screen) Dims() (int, int) { return s.width, s.height }

// SetDims records the terminal size. It takes effect on the next Draw.
func (s *Screen) SetDims(w, h int) {
	s.width, s.height = max(w, 0), max(h, 0)
}

// DrawnAt returns the leftmost cell of a node in the last frame, in document space.
func (s *Screen) DrawnAt(id model.NodeID) (model.Coords, bool) {
	c, ok := s.drawnAt[id]
	return c, ok
}

// NodeAt returns the node occupying a document cell in the last frame.
func (s *Screen) NodeAt(c model.Coords) (model.NodeID, bool) {
	id, ok := s.lookup[c]
	return id, ok
}

// Frame returns the last rendered frame.
func (s *Screen) Frame() *Frame {
	if s.frame == nil {
		s.Draw()
	}
	return s.frame
}

// TakeEffects returns and clears the queued side effects.
func (s *Screen) TakeEffects() []Effect {
	out := s.effects
	s.effects = nil
	return out
}

func (s *Screen) emit(e Effect) { s.effects = append(s.effects, e) }

// SetFreeText stores the result of an external edit. An empty text clears it.
func (s *Screen) SetFreeText(id model.NodeID, text string) {
	s.nodes.WithNodeMut(id, func(n *model.Node) {
		if text == "" {
			n.FreeText = nil
			return
		}
		n.FreeText = &text
	})
}

func (s *Screen) internalToScreen(c model.Coords) (model.Coords, bool) {
	if c.Y < s.viewY+2 || c.Y > s.viewY+s.height {
		return model.Coords{}, false
	}
	return model.Coords{X: c.X, Y: c.Y - s.viewY}, true
}

func (s *Screen) screenToInternal(x, y int) model.Coords {
	return model.Coords{X: x, Y: y + s.viewY}
}

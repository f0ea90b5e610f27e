// Package action defines the semantic events the screen controller dispatches on.
package action

import (
	"fmt"
	"sort"
)

type Kind int

const (
	None Kind = iota
	LeftClick
	RightClick
	Release
	Char
	UnselectRet
	ScrollUp
	ScrollDown
	DeleteSelected
	SelectUp
	SelectDown
	SelectLeft
	SelectRight
	EraseChar
	CreateSibling
	CreateChild
	CreateFreeNode
	ExecSelected
	DrillDown
	PopUp
	PrefixJump
	ToggleCompleted
	ToggleHideCompleted
	Arrow
	AutoArrange
	ToggleCollapsed
	Quit
	Save
	ToggleShowLogs
	EnterCmd
	FindTask
	YankPasteNode
	RaiseSelected
	LowerSelected
	Search
	UndoDelete
	Help
	SelectParent
	SelectNextSibling
	SelectPrevSibling
	Insert
)

// names are the key-map config spellings. Mouse and Char actions are not bindable.
var names = map[Kind]string{
	UnselectRet:         "unselect",
	ScrollUp:            "scroll_up",
	ScrollDown:          "scroll_down",
	DeleteSelected:      "delete",
	SelectUp:            "select_up",
	SelectDown:          "select_down",
	SelectLeft:          "select_left",
	SelectRight:         "select_right",
	EraseChar:           "erase",
	CreateSibling:       "create_sibling",
	CreateChild:         "create_child",
	CreateFreeNode:      "create_free_node",
	ExecSelected:        "execute",
	DrillDown:           "drill_down",
	PopUp:               "pop_up",
	PrefixJump:          "jump",
	ToggleCompleted:     "toggle_completed",
	ToggleHideCompleted: "toggle_hide_completed",
	Arrow:               "arrow",
	AutoArrange:         "auto_arrange",
	ToggleCollapsed:     "toggle_collapsed",
	Quit:                "exit",
	Save:                "save",
	ToggleShowLogs:      "toggle_show_logs",
	EnterCmd:            "enter_command",
	FindTask:            "find_task",
	YankPasteNode:       "yank_paste_node",
	RaiseSelected:       "raise_selected",
	LowerSelected:       "lower_selected",
	Search:              "search",
	UndoDelete:          "undo_delete",
	Help:                "help",
	SelectParent:        "select_parent",
	SelectNextSibling:   "select_next_sibling",
	SelectPrevSibling:   "select_prev_sibling",
	Insert:              "insert",
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, len(names))
	for k, n := range names {
		m[n] = k
	}
	return m
}()

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case LeftClick:
		return "left_click"
	case RightClick:
		return "right_click"
	case Release:
		return "release"
	case Char:
		return "char"
	}
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// Lookup resolves a key-map action name.
func Lookup(name string) (Kind, bool) {
	k, ok := byName[name]
	return k, ok
}

// Names returns every bindable action name, sorted.
func Names() []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Action is one dispatched event. X and Y are screen cells for the mouse kinds; Rune is
// set for Char.
type Action struct {
	Kind Kind
	X, Y int
	Rune rune
}

func Of(k Kind) Action { return Action{Kind: k} }

func Click(x, y int) Action { return Action{Kind: LeftClick, X: x, Y: y} }

func RightClickAt(x, y int) Action { return Action{Kind: RightClick, X: x, Y: y} }

func ReleaseAt(x, y int) Action { return Action{Kind: Release, X: x, Y: y} }

func Typed(r rune) Action { return Action{Kind: Char, Rune: r} }

func (a Action) String() string {
	switch a.Kind {
	case LeftClick, RightClick, Release:
		return fmt.Sprintf("%s(%d,%d)", a.Kind, a.X, a.Y)
	case Char:
		return fmt.Sprintf("char(%q)", a.Rune)
	default:
		return a.Kind.String()
	}
}

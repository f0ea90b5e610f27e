package screen

import "void-cli/internal/model"

// Effect is work the controller cannot do itself because it needs the terminal or the OS.
type Effect interface {
	effect()
}

// EditFreeText asks for the node's long-form text to be opened in the external editor.
type EditFreeText struct {
	Node model.NodeID
	Text string
}

// OpenURL asks for a browser to be spawned.
type OpenURL struct {
	URL string
}

// Spawn runs Argv[0] with the remaining words as arguments, without waiting.
type Spawn struct {
	Argv []string
}

// CopyText puts text on the system clipboard.
type CopyText struct {
	Text string
}

type ShowHelp struct{}

type PromptKind int

const (
	PromptCommand PromptKind = iota
	PromptSearch
)

// Prompt asks for a line of input; the answer goes to RunCommand or Search.
type Prompt struct {
	Kind PromptKind
}

func (EditFreeText) effect() {}
func (OpenURL) effect() {}
func (Spawn) effect() {}
func (CopyText) effect() {}
func (ShowHelp) effect() {}
func (Prompt) effect() {}

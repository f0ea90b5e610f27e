package export

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"void-cli/internal/model"
	"void-cli/internal/store"
)

// WriteMarkdown renders the map as a nested bullet list under the super-root's title.
// Stricken nodes are struck through; free text follows its node as a quote.
func WriteMarkdown(w io.Writer, snap *store.Snapshot) error {
	st := snap.Nodes
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	root := st.Nodes[model.RootID]
	writeLn("# " + oneLine(root.Content))

	var walk func(id model.NodeID, depth int)
	walk = func(id model.NodeID, depth int) {
		n, ok := st.Nodes[id]
		if !ok {
			return
		}
		indent := strings.Repeat("  ", depth)
		writeLn(indent + "- " + markdownLabel(n))
		if n.FreeText != nil {
			for _, line := range strings.Split(strings.TrimRight(*n.FreeText, "\n"), "\n") {
				writeLn(strings.TrimRight(indent+"  > "+line, " "))
			}
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if len(root.Children) > 0 {
		writeLn("")
	}
	for _, c := range root.Children {
		walk(c, 0)
	}

	if len(st.Arrows) > 0 {
		writeLn("")
		writeLn("## Arrows")
		writeLn("")
		for _, a := range st.Arrows {
			writeLn(fmt.Sprintf("- %s → %s", arrowEnd(st, a.From), arrowEnd(st, a.To)))
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func markdownLabel(n *model.Node) string {
	label := oneLine(n.Content)
	if label == "" {
		label = "(empty)"
	}
	if n.Stricken {
		label = "~~" + label + "~~"
	}
	var extra []string
	if n.Meta.Due != nil {
		extra = append(extra, "due "+n.Meta.Due.Format("2006-01-02"))
	}
	if len(n.Meta.Tags) > 0 {
		keys := make([]string, 0, len(n.Meta.Tags))
		for k := range n.Meta.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			extra = append(extra, "#"+k+"="+n.Meta.Tags[k])
		}
	}
	if len(extra) > 0 {
		label += " (" + strings.Join(extra, ", ") + ")"
	}
	return label
}

func arrowEnd(st *store.Nodes, id model.NodeID) string {
	if n, ok := st.Nodes[id]; ok && strings.TrimSpace(n.Content) != "" {
		return oneLine(n.Content)
	}
	return fmt.Sprintf("#%d", id)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

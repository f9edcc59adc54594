package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/randomart/pkg/art"
)

// Overlay highlights parts of a tree.
type Overlay struct {
	// Kinds lists kind names whose nodes are styled as "marked".
	Kinds []string
}

// GenerateMermaid produces a Mermaid flowchart of a tree, root at the top.
// Shapes follow the operator family:
// - Terminal: ((Circle))
// - Composite: [Rectangle]
// - Root: [[Subroutine]]
// Parameters are shown under the kind name.
func GenerateMermaid(tree *art.Node, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	marked := map[string]bool{}
	if overlay != nil {
		for _, k := range overlay.Kinds {
			marked[k] = true
		}
	}

	var ids []string
	var markedIDs []string
	var walk func(n *art.Node) string
	walk = func(n *art.Node) string {
		id := fmt.Sprintf("n%d", len(ids))
		ids = append(ids, id)

		opener, closer := "[", "]"
		switch {
		case len(ids) == 1:
			opener, closer = "[[", "]]"
		case n.Kind.Terminal():
			opener, closer = "((", "))"
		}

		label := n.Kind.Name
		if params := n.ParamStrings(); len(params) > 0 {
			label += " <br/> " + strings.Join(params, " <br/> ")
		}
		// Mermaid labels cannot hold double quotes.
		label = strings.ReplaceAll(label, "\"", "'")
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)
		if marked[n.Kind.Name] {
			markedIDs = append(markedIDs, id)
		}

		for i, child := range n.Children {
			childID := walk(child)
			fmt.Fprintf(&sb, "    %s -- \"%d\" --> %s\n", id, i, childID)
		}
		return id
	}
	walk(tree)

	if len(markedIDs) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on both themes.
		sb.WriteString("    classDef marked fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s marked;\n", strings.Join(markedIDs, ","))
	}

	return sb.String()
}

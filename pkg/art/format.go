package art

import (
	"strconv"
	"strings"
)

// Format writes the canonical single-line form of a tree:
//
//	Kind(child, child, name=value)
//
// Parameters are written literally, with the shortest float text that parses back to the same bits.
func Format(n *Node) string {
	var b strings.Builder
	writeCompact(&b, n)
	return b.String()
}

func writeCompact(b *strings.Builder, n *Node) {
	b.WriteString(n.Kind.Name)
	b.WriteByte('(')
	for i, child := range n.Children {
		if i > 0 {
			b.WriteString(", ")
		}
		writeCompact(b, child)
	}
	for i, name := range n.Kind.Params {
		if i > 0 || len(n.Children) > 0 {
			b.WriteString(", ")
		}
		writeParam(b, n, name)
	}
	b.WriteByte(')')
}

// FormatIndent writes one argument per line, nesting with indent.
// The result parses to the same tree as Format.
func FormatIndent(n *Node, indent string) string {
	var b strings.Builder
	writeIndented(&b, n, indent, 0)
	return b.String()
}

func writeIndented(b *strings.Builder, n *Node, indent string, level int) {
	prefix := strings.Repeat(indent, level)
	b.WriteString(prefix)
	b.WriteString(n.Kind.Name)
	b.WriteByte('(')

	args := len(n.Children) + len(n.Kind.Params)
	if args == 0 {
		b.WriteByte(')')
		return
	}

	b.WriteByte('\n')
	written := 0
	sep := func() {
		written++
		if written < args {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	for _, child := range n.Children {
		writeIndented(b, child, indent, level+1)
		sep()
	}
	for _, name := range n.Kind.Params {
		b.WriteString(prefix)
		b.WriteString(indent)
		writeParam(b, n, name)
		sep()
	}
	b.WriteString(prefix)
	b.WriteByte(')')
}

func writeParam(b *strings.Builder, n *Node, name string) {
	b.WriteString(name)
	b.WriteByte('=')
	typ, _ := paramType(name)
	v := n.Params.get(name)
	switch typ {
	case ParamInt:
		b.WriteString(strconv.Itoa(int(v[0])))
	case ParamFloat:
		b.WriteString(formatFloat(v[0]))
	case ParamColor:
		b.WriteByte('(')
		for i, f := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatFloat(f))
		}
		b.WriteByte(')')
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParamStrings lists the parameters of n as name=value, in declaration order.
func (n *Node) ParamStrings() []string {
	out := make([]string, 0, len(n.Kind.Params))
	for _, name := range n.Kind.Params {
		var b strings.Builder
		writeParam(&b, n, name)
		out = append(out, b.String())
	}
	return out
}

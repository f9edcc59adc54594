package art

import (
	"math/rand/v2"
	"slices"
)

// Generator builds random trees of a target complexity.
//
// A Generator owns its random source and threads it through every kind choice, budget split
// and parameter draw, always in the same order. It is not safe for concurrent use:
// give each goroutine its own Generator and source.
type Generator struct {
	src        *rand.Rand
	terminals  []*Kind
	composites []*Kind
}

// NewGenerator snapshots the registry's catalogs and installs src as the generator's source.
func NewGenerator(reg *Registry, src *rand.Rand) (*Generator, error) {
	g := &Generator{
		src:        src,
		terminals:  reg.Terminals(),
		composites: reg.Composites(),
	}
	if len(g.terminals) == 0 || len(g.composites) == 0 {
		return nil, ErrEmptyRegistry
	}
	return g, nil
}

// Source returns the random source the generator draws from.
func (g *Generator) Source() *rand.Rand {
	return g.src
}

// Generate builds a tree with exactly complexity composite nodes.
// A complexity of zero or less yields a single terminal.
func (g *Generator) Generate(complexity int) *Node {
	if complexity <= 0 {
		k := g.terminals[g.src.IntN(len(g.terminals))]
		return k.instantiate(g.src, nil)
	}

	k := g.composites[g.src.IntN(len(g.composites))]

	// Split the remaining budget at arity-1 random cut points. One unit is kept for k itself.
	cuts := make([]int, k.Arity-1)
	for i := range cuts {
		cuts[i] = g.src.IntN(complexity)
	}
	slices.Sort(cuts)

	children := make([]*Node, 0, k.Arity)
	last := 0
	for _, cut := range cuts {
		children = append(children, g.Generate(cut-last))
		last = cut
	}
	children = append(children, g.Generate(complexity-1-last))

	return k.instantiate(g.src, children)
}

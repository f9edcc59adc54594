package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/randomart/internal/presentation/graph"
	"github.com/aretw0/randomart/pkg/art"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	reg := art.DefaultRegistry()
	tree := art.MustParse(reg, "Sum(VariableX(), Constant(value=(1, 0, 0.5)), shift=1)")

	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes and Edges",
			contains: []string{
				"graph TD\n",
				"n0[[\"Sum <br/> shift=1\"]]",
				"n1((\"VariableX\"))",
				"n2((\"Constant <br/> value=(1, 0, 0.5)\"))",
				"n0 -- \"0\" --> n1",
				"n0 -- \"1\" --> n2",
			},
			excludes: []string{"classDef"},
		},
		{
			name:    "Overlay",
			overlay: &graph.Overlay{Kinds: []string{"Constant", "Unknown"}},
			contains: []string{
				"classDef marked",
				"class n2 marked;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tree, tt.overlay)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestGenerateMermaid_OneLinePerNode(t *testing.T) {
	gen, err := art.NewGenerator(art.DefaultRegistry(), domain.NewSource("hello"))
	require.NoError(t, err)
	tree := gen.Generate(6)

	got := graph.GenerateMermaid(tree, nil)
	nodes, edges := 0, 0
	for _, line := range strings.Split(got, "\n") {
		switch {
		case strings.Contains(line, "-->"):
			edges++
		case strings.HasPrefix(line, "    n"):
			nodes++
		}
	}
	assert.Equal(t, tree.Size(), nodes)
	assert.Equal(t, tree.Size()-1, edges)
}

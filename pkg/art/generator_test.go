package art_test

import (
	"fmt"
	"testing"

	"github.com/aretw0/randomart/pkg/art"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, phrase string, complexity int) *art.Node {
	t.Helper()
	gen, err := art.NewGenerator(art.DefaultRegistry(), domain.NewSource(phrase))
	require.NoError(t, err)
	return gen.Generate(complexity)
}

func TestGenerator_Deterministic(t *testing.T) {
	phrases := []string{"hello", "", "the quick brown fox", "日本語", "hello "}
	for _, phrase := range phrases {
		for _, c := range []int{0, 1, 2, 5, 20, 77, 150} {
			t.Run(fmt.Sprintf("%q/%d", phrase, c), func(t *testing.T) {
				a := generate(t, phrase, c)
				b := generate(t, phrase, c)
				assert.Equal(t, art.Format(a), art.Format(b))
				assert.Equal(t, a.Eval(0.3, -0.7), b.Eval(0.3, -0.7))
			})
		}
	}
}

func TestGenerator_ComplexityFloor(t *testing.T) {
	for _, phrase := range []string{"hello", "a", "b", "c", "d", "e"} {
		tree := generate(t, phrase, 0)
		assert.True(t, tree.Kind.Terminal(), "complexity 0 must yield a terminal, got %s", tree.Kind.Name)
		assert.Equal(t, 0, tree.Depth())
		assert.Empty(t, tree.Children)
	}

	tree := generate(t, "negative", -3)
	assert.True(t, tree.Kind.Terminal())
}

func TestGenerator_BudgetIsSpentExactly(t *testing.T) {
	for c := 0; c <= 60; c++ {
		tree := generate(t, fmt.Sprintf("budget-%d", c), c)
		assert.Equal(t, c, tree.Composites(), "complexity %d", c)
		assertArity(t, tree)
	}
}

func assertArity(t *testing.T, n *art.Node) {
	t.Helper()
	require.Len(t, n.Children, n.Kind.Arity, "%s", n.Kind.Name)
	for _, child := range n.Children {
		assertArity(t, child)
	}
}

func TestGenerator_DifferentPhrasesDiverge(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		seen[art.Format(generate(t, fmt.Sprintf("phrase %d", i), 10))] = true
	}
	assert.Greater(t, len(seen), 15)
}

func TestGenerator_Source(t *testing.T) {
	src := domain.NewSource("hello")
	gen, err := art.NewGenerator(art.DefaultRegistry(), src)
	require.NoError(t, err)
	assert.Same(t, src, gen.Source())
}

func TestGenerator_EmptyRegistry(t *testing.T) {
	_, err := art.NewGenerator(art.NewRegistry(), domain.NewSource("x"))
	assert.ErrorIs(t, err, art.ErrEmptyRegistry)

	onlyLeaves, err := art.NewRegistryWith(art.VariableX, art.VariableY)
	require.NoError(t, err)
	_, err = art.NewGenerator(onlyLeaves, domain.NewSource("x"))
	assert.ErrorIs(t, err, art.ErrEmptyRegistry)
}

func TestGenerator_HelloZero(t *testing.T) {
	first := art.Format(generate(t, "hello", 0))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, art.Format(generate(t, "hello", 0)))
	}
}

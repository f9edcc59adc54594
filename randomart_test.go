package randomart_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aretw0/randomart"
	"github.com/aretw0/randomart/pkg/art"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/aretw0/randomart/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_GenerateIsReproducible(t *testing.T) {
	eng, err := randomart.New()
	require.NoError(t, err)
	ctx := context.Background()

	a, err := eng.Generate(ctx, "hello", 0)
	require.NoError(t, err)
	b, err := eng.Generate(ctx, "hello", 0)
	require.NoError(t, err)

	assert.True(t, a.Kind.Terminal(), "complexity 0 must yield a single terminal")
	assert.Equal(t, art.Format(a), art.Format(b))
}

func TestEngine_EndToEnd(t *testing.T) {
	eng, err := randomart.New(randomart.WithWorkers(2))
	require.NoError(t, err)
	ctx := context.Background()

	img, tree, err := eng.RenderPhrase(ctx, "hello", 5, 4)
	require.NoError(t, err)
	require.Equal(t, 5, tree.Composites())
	require.Equal(t, 4, img.Bounds().Dx())

	for i := 0; i < len(img.Pix); i += 4 {
		for _, v := range img.Pix[i : i+3] {
			assert.GreaterOrEqual(t, v, uint8(1))
		}
		assert.Equal(t, uint8(255), img.Pix[i+3])
	}

	// Parsing the text form must reproduce the exact pixels.
	parsed, err := eng.Parse(ctx, art.Format(tree))
	require.NoError(t, err)
	again, err := eng.Render(ctx, parsed, 4)
	require.NoError(t, err)

	var want, got bytes.Buffer
	require.NoError(t, render.EncodePNG(&want, img))
	require.NoError(t, render.EncodePNG(&got, again))
	assert.Equal(t, want.Bytes(), got.Bytes())

	// A second engine given the same phrase must encode the same bytes.
	other, err := randomart.New(randomart.WithWorkers(1))
	require.NoError(t, err)
	img2, _, err := other.RenderPhrase(ctx, "hello", 5, 4)
	require.NoError(t, err)
	var fresh bytes.Buffer
	require.NoError(t, render.EncodePNG(&fresh, img2))
	assert.Equal(t, want.Bytes(), fresh.Bytes())
}

func TestEngine_Hooks(t *testing.T) {
	var generated, parsed []*domain.TreeEvent
	var started, done []*domain.RenderEvent
	hooks := domain.LifecycleHooks{
		OnTreeGenerated: func(_ context.Context, e *domain.TreeEvent) { generated = append(generated, e) },
		OnTreeParsed:    func(_ context.Context, e *domain.TreeEvent) { parsed = append(parsed, e) },
		OnRenderStart:   func(_ context.Context, e *domain.RenderEvent) { started = append(started, e) },
		OnRenderDone:    func(_ context.Context, e *domain.RenderEvent) { done = append(done, e) },
	}

	eng, err := randomart.New(randomart.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	ctx := context.Background()

	tree, err := eng.Generate(ctx, "hooks", 7)
	require.NoError(t, err)
	_, err = eng.Parse(ctx, tree.String())
	require.NoError(t, err)
	_, err = eng.Render(ctx, tree, 8)
	require.NoError(t, err)

	require.Len(t, generated, 1)
	assert.Equal(t, domain.EventTreeGenerated, generated[0].Type)
	assert.Equal(t, "hooks", generated[0].Phrase)
	assert.Equal(t, 7, generated[0].Complexity)
	assert.Equal(t, tree.Size(), generated[0].Nodes)
	assert.Equal(t, tree.Kind.Name, generated[0].Root)

	require.Len(t, parsed, 1)
	assert.Equal(t, 7, parsed[0].Complexity)

	require.Len(t, started, 1)
	require.Len(t, done, 1)
	assert.Equal(t, 8, done[0].Size)
	assert.NoError(t, done[0].Err)
}

func TestEngine_InvalidInput(t *testing.T) {
	eng, err := randomart.New()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.Generate(ctx, "hello", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidComplexity)

	_, _, err = eng.RenderPhrase(ctx, "hello", 3, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidSize)

	_, err = eng.Parse(ctx, "Nope()")
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
	var pe *domain.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestEngine_RenderCanceled(t *testing.T) {
	var doneErr error
	eng, err := randomart.New(randomart.WithLifecycleHooks(domain.LifecycleHooks{
		OnRenderDone: func(_ context.Context, e *domain.RenderEvent) { doneErr = e.Err },
	}))
	require.NoError(t, err)

	tree, err := eng.Generate(context.Background(), "cancel", 10)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Render(ctx, tree, 64)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, doneErr, context.Canceled)
}

func TestNew_EmptyRegistry(t *testing.T) {
	_, err := randomart.New(randomart.WithRegistry(art.NewRegistry()))
	assert.ErrorIs(t, err, art.ErrEmptyRegistry)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, randomart.Version)
}

package randomart

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/randomart/pkg/art"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/aretw0/randomart/pkg/render"
)

// Engine is the high-level entry point for the randomart library.
// It is safe for concurrent use: every generation gets its own random source.
type Engine struct {
	registry *art.Registry
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	workers  int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRegistry replaces the builtin operator catalog.
func WithRegistry(reg *art.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkers bounds how many raster rows are rendered at once (0 = one per CPU).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.registry == nil {
		eng.registry = art.DefaultRegistry()
	}
	if len(eng.registry.Terminals()) == 0 || len(eng.registry.Composites()) == 0 {
		return nil, art.ErrEmptyRegistry
	}

	// Ensure logger is initialized so library code never logs through nil.
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return eng, nil
}

// Registry returns the operator catalog used by the engine.
func (e *Engine) Registry() *art.Registry {
	return e.registry
}

// Generate builds the tree for phrase at the given complexity.
func (e *Engine) Generate(ctx context.Context, phrase string, complexity int) (*art.Node, error) {
	if complexity < 0 {
		return nil, fmt.Errorf("%w: %d is negative", domain.ErrInvalidComplexity, complexity)
	}

	gen, err := art.NewGenerator(e.registry, domain.NewSource(phrase))
	if err != nil {
		return nil, err
	}
	tree := gen.Generate(complexity)

	e.logger.Debug("tree generated",
		"phrase", phrase,
		"complexity", complexity,
		"nodes", tree.Size(),
		"root", tree.Kind.Name,
	)
	if e.hooks.OnTreeGenerated != nil {
		e.hooks.OnTreeGenerated(ctx, treeEvent(domain.EventTreeGenerated, phrase, complexity, tree))
	}
	return tree, nil
}

// Parse reads art text produced by Format or FormatIndent.
func (e *Engine) Parse(ctx context.Context, text string) (*art.Node, error) {
	tree, err := art.Parse(e.registry, text)
	if err != nil {
		e.logger.Debug("art text rejected", "err", err)
		return nil, fmt.Errorf("failed to parse art: %w", err)
	}
	if e.hooks.OnTreeParsed != nil {
		e.hooks.OnTreeParsed(ctx, treeEvent(domain.EventTreeParsed, "", tree.Composites(), tree))
	}
	return tree, nil
}

// Render evaluates tree over a size×size raster.
func (e *Engine) Render(ctx context.Context, tree *art.Node, size int) (*image.NRGBA, error) {
	if err := domain.ValidateSize(size); err != nil {
		return nil, err
	}

	start := time.Now()
	if e.hooks.OnRenderStart != nil {
		e.hooks.OnRenderStart(ctx, &domain.RenderEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventRenderStart},
			Size:      size,
		})
	}

	img, err := render.Render(ctx, tree, size, render.WithWorkers(e.workers))

	elapsed := time.Since(start)
	if err != nil {
		e.logger.Warn("render failed", "size", size, "err", err)
	} else {
		e.logger.Debug("render done", "size", size, "duration", elapsed)
	}
	if e.hooks.OnRenderDone != nil {
		e.hooks.OnRenderDone(ctx, &domain.RenderEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRenderDone},
			Size:      size,
			Duration:  elapsed,
			Err:       err,
		})
	}
	return img, err
}

// RenderPhrase generates and renders in one step.
func (e *Engine) RenderPhrase(ctx context.Context, phrase string, complexity, size int) (*image.NRGBA, *art.Node, error) {
	// Reject bad sizes before spending time on generation.
	if err := domain.ValidateSize(size); err != nil {
		return nil, nil, err
	}
	tree, err := e.Generate(ctx, phrase, complexity)
	if err != nil {
		return nil, nil, err
	}
	img, err := e.Render(ctx, tree, size)
	if err != nil {
		return nil, tree, err
	}
	return img, tree, nil
}

// Complexities lists the complexities plan asks for, in order.
func (e *Engine) Complexities(phrase string, plan domain.ComplexityPlan) []int {
	return plan.Resolve(phrase)
}

func treeEvent(typ domain.EventType, phrase string, complexity int, tree *art.Node) *domain.TreeEvent {
	return &domain.TreeEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: typ},
		Phrase:     phrase,
		Complexity: complexity,
		Nodes:      tree.Size(),
		Depth:      tree.Depth(),
		Root:       tree.Kind.Name,
	}
}

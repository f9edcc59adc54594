package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/randomart/pkg/domain"
)

// LogHooks logs every lifecycle event at debug level, and failed renders at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	tree := func(ctx context.Context, e *domain.TreeEvent) {
		logger.DebugContext(ctx, string(e.Type),
			"phrase", e.Phrase,
			"complexity", e.Complexity,
			"nodes", e.Nodes,
			"depth", e.Depth,
			"root", e.Root,
		)
	}
	return domain.LifecycleHooks{
		OnTreeGenerated: tree,
		OnTreeParsed:    tree,
		OnRenderStart: func(ctx context.Context, e *domain.RenderEvent) {
			logger.DebugContext(ctx, string(e.Type), "size", e.Size)
		},
		OnRenderDone: func(ctx context.Context, e *domain.RenderEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, string(e.Type), "size", e.Size, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, string(e.Type), "size", e.Size, "duration", e.Duration)
		},
	}
}

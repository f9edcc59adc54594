package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTreeGenerated EventType = "tree_generated"
	EventTreeParsed    EventType = "tree_parsed"
	EventRenderStart   EventType = "render_start"
	EventRenderDone    EventType = "render_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TreeEvent describes a tree that was just built, either by the generator or by the parser.
type TreeEvent struct {
	EventBase
	Phrase     string `json:"phrase,omitempty"`
	Complexity int    `json:"complexity"`
	Nodes      int    `json:"nodes"`
	Depth      int    `json:"depth"`
	Root       string `json:"root"`
}

// RenderEvent describes a raster render.
type RenderEvent struct {
	EventBase
	Size     int           `json:"size"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTreeGenerated func(context.Context, *TreeEvent)
	OnTreeParsed    func(context.Context, *TreeEvent)
	OnRenderStart   func(context.Context, *RenderEvent)
	OnRenderDone    func(context.Context, *RenderEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTreeGenerated: chainTree(h.OnTreeGenerated, other.OnTreeGenerated),
		OnTreeParsed:    chainTree(h.OnTreeParsed, other.OnTreeParsed),
		OnRenderStart:   chainRender(h.OnRenderStart, other.OnRenderStart),
		OnRenderDone:    chainRender(h.OnRenderDone, other.OnRenderDone),
	}
}

func chainTree(a, b func(context.Context, *TreeEvent)) func(context.Context, *TreeEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *TreeEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainRender(a, b func(context.Context, *RenderEvent)) func(context.Context, *RenderEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *RenderEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

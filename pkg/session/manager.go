package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/randomart/internal/logging"
	"github.com/aretw0/randomart/pkg/adapters/memory"
	"github.com/aretw0/randomart/pkg/art"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/aretw0/randomart/pkg/ports"
	"github.com/aretw0/randomart/pkg/render"
	"github.com/google/uuid"
)

// DefaultJobTTL bounds how long a crashed job keeps its client busy.
const DefaultJobTTL = 2 * time.Minute

// Renderer produces the image for a phrase. *randomart.Engine satisfies it.
type Renderer interface {
	RenderPhrase(ctx context.Context, phrase string, complexity, size int) (*image.NRGBA, *art.Node, error)
}

// Request describes one image a client asks for.
type Request struct {
	ClientID   string
	Phrase     string
	Complexity domain.ComplexityPlan
	Size       int
}

// Job is a finished render.
type Job struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id,omitempty"`
	Phrase     string `json:"phrase"`
	Complexity int    `json:"complexity"`
	Size       int    `json:"size"`
	Tree       string `json:"tree,omitempty"`
	Cached     bool   `json:"cached"`
	PNG        []byte `json:"-"`
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates render jobs, ensuring one in-flight job per client.
// It uses Reference Counting to garbage collect unused key locks.
type Manager struct {
	renderer Renderer

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active per-image locks

	locker ports.ClientLocker
	cache  ports.ArtCache // Optional
	onHit  func(hit bool)
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker replaces the in-process busy flags, e.g. with Redis for multiple replicas.
func WithLocker(locker ports.ClientLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithCache enables image caching.
func WithCache(cache ports.ArtCache) Option {
	return func(m *Manager) {
		m.cache = cache
	}
}

// WithCacheObserver is told about every cache lookup, e.g. Metrics.CacheResult.
func WithCacheObserver(fn func(hit bool)) Option {
	return func(m *Manager) {
		m.onHit = fn
	}
}

// WithJobTTL sets how long a client stays busy if its job never finishes.
func WithJobTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new job Manager around renderer.
func NewManager(renderer Renderer, opts ...Option) *Manager {
	m := &Manager{
		renderer: renderer,
		locks:    make(map[string]*lockEntry),
		ttl:      DefaultJobTTL,
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.locker == nil {
		m.locker = memory.NewLocker()
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Pending reports how many distinct images are being rendered or waited on.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// Render produces the PNG for req, from the cache when possible.
func (m *Manager) Render(ctx context.Context, req Request) (*Job, error) {
	phrase := domain.NormalizePhrase(req.Phrase)
	if phrase == "" {
		return nil, domain.ErrEmptyPhrase
	}
	if err := domain.ValidateSize(req.Size); err != nil {
		return nil, err
	}
	complexity, err := single(req.Complexity, phrase)
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:         uuid.NewString(),
		ClientID:   req.ClientID,
		Phrase:     phrase,
		Complexity: complexity,
		Size:       req.Size,
	}

	err = m.WithClient(ctx, req.ClientID, func(ctx context.Context) error {
		return m.withKey(domain.ArtKey(phrase, complexity, req.Size), func() error {
			return m.fill(ctx, job)
		})
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// WithClient runs fn while the client is marked busy.
// An empty client ID is anonymous and never busy.
func (m *Manager) WithClient(ctx context.Context, clientID string, fn func(context.Context) error) error {
	if clientID == "" {
		return fn(ctx)
	}

	unlock, err := m.locker.TryLock(ctx, clientID, m.ttl)
	if err != nil {
		if errors.Is(err, domain.ErrBusy) {
			m.logger.Debug("client busy", "client_id", clientID)
			return err
		}
		return fmt.Errorf("failed to mark client busy: %w", err)
	}
	defer func() {
		// Release with a fresh context: the request one may already be canceled.
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			m.logger.Warn("Failed to release client lock (will expire via TTL)",
				"client_id", clientID,
				"err", err,
			)
		}
	}()

	return fn(ctx)
}

func (m *Manager) withKey(key string, fn func() error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()
	return fn()
}

func (m *Manager) fill(ctx context.Context, job *Job) error {
	key := domain.ArtKey(job.Phrase, job.Complexity, job.Size)

	if m.cache != nil {
		data, err := m.cache.Get(ctx, key)
		if m.onHit != nil {
			m.onHit(err == nil)
		}
		switch {
		case err == nil:
			job.PNG = data
			job.Cached = true
			return nil
		case !errors.Is(err, domain.ErrCacheMiss):
			// A broken cache degrades to rendering.
			m.logger.Warn("cache read failed", "key", key, "err", err)
		}
	}

	img, tree, err := m.renderer.RenderPhrase(ctx, job.Phrase, job.Complexity, job.Size)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		return err
	}
	job.PNG = buf.Bytes()
	job.Tree = art.Format(tree)

	if m.cache != nil {
		if err := m.cache.Set(ctx, key, job.PNG); err != nil {
			m.logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	return nil
}

func single(plan domain.ComplexityPlan, phrase string) (int, error) {
	if plan.Mode == domain.ComplexityLadder {
		return 0, fmt.Errorf("%w: %q yields many images", domain.ErrInvalidComplexity, domain.LadderKeyword)
	}
	return plan.Resolve(phrase)[0], nil
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/randomart"
	"github.com/aretw0/randomart/internal/logging"
	"github.com/aretw0/randomart/pkg/art"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/aretw0/randomart/pkg/render"
	"github.com/aretw0/randomart/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// Default raster sizes for previews and large renders.
const (
	DefaultSmallSize = 128
	DefaultBigSize   = 512
	DefaultMaxSize   = 2048
)

// maxTreeBytes bounds the body of POST /render.
const maxTreeBytes = 1 << 20

// Engine defines what the HTTP adapter needs from the randomart core.
type Engine interface {
	Generate(ctx context.Context, phrase string, complexity int) (*art.Node, error)
	Parse(ctx context.Context, text string) (*art.Node, error)
	Render(ctx context.Context, tree *art.Node, size int) (*image.NRGBA, error)
	Registry() *art.Registry
}

// Server serves art over HTTP.
type Server struct {
	Engine  Engine
	Jobs    *session.Manager
	Metrics http.Handler

	small, big, max int
	maxComplexity   int
	validate        *validator.Validate
	logger          *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithSizes sets the preview, large and maximum raster sizes.
func WithSizes(small, big, max int) Option {
	return func(s *Server) {
		s.small, s.big, s.max = small, big, max
	}
}

// WithMaxComplexity caps the explicit complexity a client may ask for.
func WithMaxComplexity(n int) Option {
	return func(s *Server) {
		s.maxComplexity = n
	}
}

// WithLogger configures a logger for request errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// KindInfo is the JSON view of an operator kind.
type KindInfo struct {
	Name   string   `json:"name"`
	Arity  int      `json:"arity"`
	Params []string `json:"params"`
	Doc    string   `json:"doc,omitempty"`
}

// ArtParams are the query parameters of GET /art and GET /tree.
type ArtParams struct {
	Phrase     string  `validate:"required,max=512"`
	Complexity *string `validate:"omitempty,max=16"`
	Size       *int    `validate:"omitempty,min=1"`
	Big        *bool
	Indent     *bool
}

// RenderRequest is the body of POST /render.
type RenderRequest struct {
	Tree string `json:"tree" validate:"required"`
	Size int    `json:"size" validate:"omitempty,min=1"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type ctxKey struct{}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, jobs *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		Jobs:     jobs,
		small:    DefaultSmallSize,
		big:      DefaultBigSize,
		max:      DefaultMaxSize,
		validate: validator.New(),
		logger:   logging.NewNop(),

		maxComplexity: domain.DefaultMaxComplexity,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec())
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/kinds", s.ListKinds)
	r.Get("/art", s.GetArt)
	r.Get("/tree", s.GetTree)
	r.Post("/render", s.RenderTree)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	return enableCORS(r)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the ID assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Client-ID, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Art-Complexity, X-Art-Cache")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "randomart-http",
		"version":     strings.TrimSpace(randomart.Version),
		"api_version": apiVersion,
		"kinds":       strconv.Itoa(s.Engine.Registry().Len()),
	})
}

// ListKinds handles the GET /kinds request.
func (s *Server) ListKinds(w http.ResponseWriter, r *http.Request) {
	kinds := s.Engine.Registry().Kinds()
	resp := make([]KindInfo, 0, len(kinds))
	for _, k := range kinds {
		resp = append(resp, KindInfo{
			Name:   k.Name,
			Arity:  k.Arity,
			Params: append([]string{}, k.Params...),
			Doc:    k.Doc,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetArt handles the GET /art request.
func (s *Server) GetArt(w http.ResponseWriter, r *http.Request) {
	params, err := s.bindArtParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	plan, err := s.complexity(params)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	size := s.small
	switch {
	case params.Size != nil:
		size = *params.Size
	case params.Big != nil && *params.Big:
		size = s.big
	}
	if size > s.max {
		s.fail(w, r, fmt.Errorf("%w: %d exceeds %d", domain.ErrInvalidSize, size, s.max))
		return
	}

	job, err := s.Jobs.Render(r.Context(), session.Request{
		ClientID:   clientID(r),
		Phrase:     params.Phrase,
		Complexity: plan,
		Size:       size,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	cache := "miss"
	if job.Cached {
		cache = "hit"
	}
	w.Header().Set("X-Art-Complexity", strconv.Itoa(job.Complexity))
	w.Header().Set("X-Art-Cache", cache)
	w.Header().Set("Content-Type", "image/png")
	w.Write(job.PNG)
}

// GetTree handles the GET /tree request.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	params, err := s.bindArtParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	plan, err := s.complexity(params)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if plan.Mode == domain.ComplexityLadder {
		s.fail(w, r, fmt.Errorf("%w: %q yields many trees", domain.ErrInvalidComplexity, domain.LadderKeyword))
		return
	}

	phrase := domain.NormalizePhrase(params.Phrase)
	tree, err := s.Engine.Generate(r.Context(), phrase, plan.Resolve(phrase)[0])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	text := art.Format(tree)
	if params.Indent != nil && *params.Indent {
		text = art.FormatIndent(tree, "  ")
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, text)
}

// RenderTree handles the POST /render request.
func (s *Server) RenderTree(w http.ResponseWriter, r *http.Request) {
	var body RenderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTreeBytes)).Decode(&body); err != nil {
		s.respond(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := s.validate.Struct(body); err != nil {
		s.respond(w, r, http.StatusBadRequest, err)
		return
	}
	if body.Size == 0 {
		body.Size = s.small
	}
	if body.Size > s.max {
		s.fail(w, r, fmt.Errorf("%w: %d exceeds %d", domain.ErrInvalidSize, body.Size, s.max))
		return
	}

	var img *image.NRGBA
	err := s.Jobs.WithClient(r.Context(), clientID(r), func(ctx context.Context) error {
		tree, err := s.Engine.Parse(ctx, body.Tree)
		if err != nil {
			return err
		}
		img, err = s.Engine.Render(ctx, tree, body.Size)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := render.EncodePNG(w, img); err != nil {
		s.logger.Warn("png write failed", "request_id", RequestID(r.Context()), "err", err)
	}
}

func (s *Server) bindArtParams(r *http.Request) (ArtParams, error) {
	var p ArtParams
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "phrase", query, &p.Phrase); err != nil {
		return p, badRequest(err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "complexity", query, &p.Complexity); err != nil {
		return p, badRequest(err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", query, &p.Size); err != nil {
		return p, badRequest(err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "big", query, &p.Big); err != nil {
		return p, badRequest(err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "indent", query, &p.Indent); err != nil {
		return p, badRequest(err)
	}
	if err := s.validate.Struct(p); err != nil {
		return p, badRequest(err)
	}
	return p, nil
}

func (s *Server) complexity(p ArtParams) (domain.ComplexityPlan, error) {
	plan, err := domain.ParseComplexity(deref(p.Complexity))
	if err != nil {
		return plan, err
	}
	return plan, plan.Within(s.maxComplexity)
}

// clientID identifies who is asking, falling back to the remote address.
func clientID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-Client-ID")); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type requestError struct{ err error }

func (e requestError) Error() string { return e.err.Error() }
func (e requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return requestError{err: err}
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr requestError
	switch {
	case errors.As(err, &reqErr), domain.IsInputError(err):
		s.respond(w, r, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrBusy):
		s.respond(w, r, http.StatusTooManyRequests, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.respond(w, r, http.StatusServiceUnavailable, err)
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
		s.respond(w, r, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

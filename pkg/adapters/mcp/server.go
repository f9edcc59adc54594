package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/randomart"
	"github.com/aretw0/randomart/pkg/art"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/aretw0/randomart/pkg/render"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// KindsURI is the resource listing the operator catalog.
const KindsURI = "randomart://kinds"

// Limits for the tools.
const (
	DefaultSize   = 256
	MaxSize       = 1024
	MaxComplexity = domain.DefaultMaxComplexity
)

// GenerateResponse is the structured result of generate_art.
type GenerateResponse struct {
	Phrase     string `json:"phrase" jsonschema_description:"The phrase that seeded the tree"`
	Complexity int    `json:"complexity" jsonschema_description:"Number of composite operators in the tree"`
	Nodes      int    `json:"nodes" jsonschema_description:"Total node count"`
	Depth      int    `json:"depth" jsonschema_description:"Height of the tree"`
	Tree       string `json:"tree" jsonschema_description:"The tree in its text form; render_art accepts it back"`
}

// Engine defines what the MCP server needs from randomart.
type Engine interface {
	Generate(ctx context.Context, phrase string, complexity int) (*art.Node, error)
	Parse(ctx context.Context, text string) (*art.Node, error)
	Render(ctx context.Context, tree *art.Node, size int) (*image.NRGBA, error)
	Registry() *art.Registry
}

// Server wraps the randomart Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("randomart-mcp", strings.TrimSpace(randomart.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: generate_art
	generateTool := mcp.NewTool("generate_art",
		mcp.WithDescription("Build the expression tree for a phrase. The same phrase and complexity always give the same tree."),
		mcp.WithString("phrase", mcp.Required(), mcp.Description("Text that seeds the art")),
		mcp.WithString("complexity", mcp.Description(fmt.Sprintf("Number of composite operators, at most %d; derived from the phrase when omitted", MaxComplexity))),
		mcp.WithBoolean("indent", mcp.Description("Pretty-print the tree one argument per line")),
		mcp.WithOutputSchema[GenerateResponse](),
	)
	s.mcpServer.AddTool(generateTool, mcp.NewStructuredToolHandler(s.handleGenerate))

	// TOOL: render_art
	renderTool := mcp.NewTool("render_art",
		mcp.WithDescription("Render a phrase, or a tree produced by generate_art, to a PNG image."),
		mcp.WithString("phrase", mcp.Description("Text that seeds the art (ignored when tree is given)")),
		mcp.WithString("tree", mcp.Description("A tree in its text form")),
		mcp.WithString("complexity", mcp.Description("Number of composite operators; derived from the phrase when omitted")),
		mcp.WithNumber("size", mcp.Description(fmt.Sprintf("Image side in pixels (default %d, max %d)", DefaultSize, MaxSize))),
	)
	s.mcpServer.AddTool(renderTool, s.handleRender)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(KindsURI, "Operator catalog",
		mcp.WithResourceDescription("Every operator kind with its arity and parameters"),
		mcp.WithMIMEType("application/json"),
	), s.readKinds)
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerateResponse, error) {
	phrase, complexity, err := phraseAndComplexity(args)
	if err != nil {
		return GenerateResponse{}, err
	}

	tree, err := s.engine.Generate(ctx, phrase, complexity)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("generate failed: %w", err)
	}

	text := art.Format(tree)
	if indent, _ := args["indent"].(bool); indent {
		text = art.FormatIndent(tree, "  ")
	}
	return GenerateResponse{
		Phrase:     phrase,
		Complexity: tree.Composites(),
		Nodes:      tree.Size(),
		Depth:      tree.Depth(),
		Tree:       text,
	}, nil
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	size := DefaultSize
	if v, ok := args["size"].(float64); ok {
		size = int(v)
	}
	if err := domain.ValidateSize(size); err != nil || size > MaxSize {
		return mcp.NewToolResultError(fmt.Sprintf("size must be between 1 and %d", MaxSize)), nil
	}

	var (
		tree *art.Node
		err  error
	)
	if text, _ := args["tree"].(string); strings.TrimSpace(text) != "" {
		tree, err = s.engine.Parse(ctx, text)
	} else {
		var phrase string
		var complexity int
		phrase, complexity, err = phraseAndComplexity(args)
		if err == nil {
			tree, err = s.engine.Generate(ctx, phrase, complexity)
		}
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	img, err := s.engine.Render(ctx, tree, size)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	caption := fmt.Sprintf("%dx%d, %d operators", size, size, tree.Composites())
	return mcp.NewToolResultImage(caption, base64.StdEncoding.EncodeToString(buf.Bytes()), "image/png"), nil
}

func (s *Server) readKinds(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type kind struct {
		Name   string   `json:"name"`
		Arity  int      `json:"arity"`
		Params []string `json:"params"`
		Doc    string   `json:"doc,omitempty"`
	}
	kinds := s.engine.Registry().Kinds()
	out := make([]kind, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, kind{Name: k.Name, Arity: k.Arity, Params: append([]string{}, k.Params...), Doc: k.Doc})
	}
	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      KindsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func phraseAndComplexity(args map[string]interface{}) (string, int, error) {
	phrase, _ := args["phrase"].(string)
	phrase = domain.NormalizePhrase(phrase)
	if phrase == "" {
		return "", 0, domain.ErrEmptyPhrase
	}

	var raw string
	switch v := args["complexity"].(type) {
	case string:
		raw = v
	case float64:
		raw = strconv.Itoa(int(v))
	}
	plan, err := domain.ParseComplexity(raw)
	if err != nil {
		return "", 0, err
	}
	if plan.Mode == domain.ComplexityLadder {
		return "", 0, fmt.Errorf("%w: %q yields many trees", domain.ErrInvalidComplexity, domain.LadderKeyword)
	}
	if err := plan.Within(MaxComplexity); err != nil {
		return "", 0, err
	}
	return phrase, plan.Resolve(phrase)[0], nil
}

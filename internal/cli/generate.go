package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aretw0/randomart"
	"github.com/aretw0/randomart/internal/phrases"
	"github.com/aretw0/randomart/pkg/art"
	"github.com/aretw0/randomart/pkg/config"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/aretw0/randomart/pkg/render"
	"golang.org/x/sync/errgroup"
)

// GenerateOptions configures a batch run.
type GenerateOptions struct {
	Config config.Config
	// Phrase, when set, replaces the phrase file.
	Phrase string
	// Parallel bounds how many images of one phrase are rendered at once.
	Parallel int
	Out      io.Writer
}

// Result describes the folder written for one phrase.
type Result struct {
	Phrase       string
	Folder       string
	Complexities []int
}

// Generator runs batch jobs against one engine.
type Generator struct {
	engine *randomart.Engine
	logger *slog.Logger
}

// NewGenerator creates a batch generator.
func NewGenerator(engine *randomart.Engine, logger *slog.Logger) *Generator {
	return &Generator{engine: engine, logger: logger}
}

// Run renders every phrase at every requested complexity into its own folder.
func (g *Generator) Run(ctx context.Context, opts GenerateOptions) ([]Result, error) {
	cfg := opts.Config
	plan, err := domain.ParseComplexity(cfg.Complexity)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateSize(cfg.Size); err != nil {
		return nil, err
	}

	list := []string{domain.NormalizePhrase(opts.Phrase)}
	if list[0] == "" {
		var source string
		list, source, err = phrases.Read(cfg.Phrases)
		if err != nil {
			return nil, err
		}
		g.logger.Debug("phrases loaded", "file", source, "count", len(list))
	}

	dataDir, err := phrases.DataDir(cfg.Phrases, cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	results := make([]Result, 0, len(list))
	for _, phrase := range list {
		folder, err := phrases.CreateFolder(dataDir, phrase)
		if err != nil {
			return results, err
		}
		cs := g.engine.Complexities(phrase, plan)
		if err := g.renderAll(ctx, phrase, folder, cs, cfg, opts.Parallel); err != nil {
			return results, err
		}
		results = append(results, Result{Phrase: phrase, Folder: folder, Complexities: cs})
		printSystemMessage(out, "phrase <%s> has been generated", phrase)
	}
	return results, nil
}

func (g *Generator) renderAll(ctx context.Context, phrase, folder string, complexities []int, cfg config.Config, parallel int) error {
	if parallel < 1 {
		parallel = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)
	for _, c := range complexities {
		eg.Go(func() error {
			return g.renderOne(egCtx, phrase, folder, c, cfg)
		})
	}
	return eg.Wait()
}

func (g *Generator) renderOne(ctx context.Context, phrase, folder string, complexity int, cfg config.Config) error {
	img, tree, err := g.engine.RenderPhrase(ctx, phrase, complexity, cfg.Size)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		return err
	}
	name := strconv.Itoa(complexity)
	if err := os.WriteFile(filepath.Join(folder, name+".png"), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	if cfg.SaveTree {
		text := art.Format(tree)
		if cfg.Indent != "" {
			text = art.FormatIndent(tree, cfg.Indent)
		}
		if err := os.WriteFile(filepath.Join(folder, name+".art"), []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write tree: %w", err)
		}
	}

	g.logger.Debug("image written", "phrase", phrase, "complexity", complexity, "folder", folder)
	return nil
}

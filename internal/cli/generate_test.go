package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/randomart/internal/logging"
	"github.com/aretw0/randomart/pkg/art"
	"github.com/aretw0/randomart/pkg/config"
	"github.com/aretw0/randomart/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	logger := logging.NewNop()
	eng, err := CreateEngine(logger, 2)
	require.NoError(t, err)
	return NewGenerator(eng, logger)
}

func testConfig(dir string) config.Config {
	cfg := config.Default()
	cfg.Phrases = dir
	cfg.Size = 8
	return cfg
}

func TestGenerator_PhraseFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "text"), []byte("hello world!\n\nsecond\n"), 0644))

	cfg := testConfig(dir)
	cfg.Complexity = "3"
	cfg.SaveTree = true

	var out bytes.Buffer
	results, err := newTestGenerator(t).Run(context.Background(), GenerateOptions{Config: cfg, Out: &out, Parallel: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(dir, "data", "hello world"), results[0].Folder)
	assert.Equal(t, []int{3}, results[0].Complexities)
	assert.Contains(t, out.String(), ">>> phrase <hello world!> has been generated")

	f, err := os.Open(filepath.Join(results[0].Folder, "3.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	text, err := os.ReadFile(filepath.Join(results[0].Folder, "3.art"))
	require.NoError(t, err)
	tree, err := art.Parse(art.DefaultRegistry(), string(text))
	require.NoError(t, err)
	assert.Equal(t, 3, tree.Composites())
}

func TestGenerator_ExplicitPhraseAndLadder(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Size = 2
	cfg.Complexity = "all"

	results, err := newTestGenerator(t).Run(context.Background(), GenerateOptions{Config: cfg, Phrase: "ladder", Parallel: 4})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Complexities, 85)

	entries, err := os.ReadDir(results[0].Folder)
	require.NoError(t, err)
	assert.Len(t, entries, 85, "one png per complexity, no trees")
}

func TestGenerator_TrimsPhrase(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Complexity = "4"

	results, err := newTestGenerator(t).Run(context.Background(), GenerateOptions{Config: cfg, Phrase: " hello \t"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "hello", results[0].Phrase)

	got, err := os.ReadFile(filepath.Join(results[0].Folder, "4.png"))
	require.NoError(t, err)

	eng, err := CreateEngine(logging.NewNop(), 1)
	require.NoError(t, err)
	img, _, err := eng.RenderPhrase(context.Background(), "hello", 4, cfg.Size)
	require.NoError(t, err)
	var want bytes.Buffer
	require.NoError(t, render.EncodePNG(&want, img))
	assert.Equal(t, want.Bytes(), got, "same pixels as the service, which also trims")
}

func TestGenerator_RepeatedRunsGetNewFolders(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Complexity = "1"
	gen := newTestGenerator(t)

	first, err := gen.Run(context.Background(), GenerateOptions{Config: cfg, Phrase: "again"})
	require.NoError(t, err)
	second, err := gen.Run(context.Background(), GenerateOptions{Config: cfg, Phrase: "again"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "again"), first[0].Folder)
	assert.Equal(t, filepath.Join(dir, "data", "again_1"), second[0].Folder)
}

func TestGenerator_Errors(t *testing.T) {
	dir := t.TempDir()
	gen := newTestGenerator(t)

	cfg := testConfig(dir)
	_, err := gen.Run(context.Background(), GenerateOptions{Config: cfg})
	assert.Error(t, err, "no phrase file")

	cfg.Complexity = "-3"
	_, err = gen.Run(context.Background(), GenerateOptions{Config: cfg, Phrase: "x"})
	assert.Error(t, err)

	cfg = testConfig(dir)
	cfg.Size = 0
	_, err = gen.Run(context.Background(), GenerateOptions{Config: cfg, Phrase: "x"})
	assert.Error(t, err)
}

func TestWatchPhrases(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "text")
	require.NoError(t, os.WriteFile(file, []byte("one\n"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- WatchPhrases(ctx, dir, 20*time.Millisecond, func(context.Context) error {
			calls.Add(1)
			cancel()
			return nil
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("two\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated"), []byte("x"), 0644))

	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
}

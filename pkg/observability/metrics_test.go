package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/randomart"
	"github.com/aretw0/randomart/internal/logging"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/aretw0/randomart/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	metrics := observability.NewMetrics()
	eng, err := randomart.New(randomart.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)
	ctx := context.Background()

	tree, err := eng.Generate(ctx, "metrics", 4)
	require.NoError(t, err)
	_, err = eng.Parse(ctx, tree.String())
	require.NoError(t, err)
	_, err = eng.Render(ctx, tree, 8)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Trees.WithLabelValues("generated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Trees.WithLabelValues("parsed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.InFlight))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.TreeNodes))
}

func TestMetrics_FailedRender(t *testing.T) {
	metrics := observability.NewMetrics()
	hooks := metrics.Hooks()

	hooks.OnRenderStart(context.Background(), &domain.RenderEvent{Size: 8})
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.InFlight))

	hooks.OnRenderDone(context.Background(), &domain.RenderEvent{Size: 8, Duration: time.Millisecond, Err: errors.New("boom")})
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.InFlight))
}

func TestMetrics_Handler(t *testing.T) {
	metrics := observability.NewMetrics()
	metrics.CacheResult(true)
	metrics.CacheResult(false)
	metrics.CacheResult(false)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `randomart_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, `randomart_cache_lookups_total{result="miss"} 2`)
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug)

	eng, err := randomart.New(randomart.WithLifecycleHooks(observability.LogHooks(logger)))
	require.NoError(t, err)

	_, _, err = eng.RenderPhrase(context.Background(), "logs", 2, 4)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "tree_generated")
	assert.Contains(t, out, "phrase=logs")
	assert.Contains(t, out, "render_done")
}

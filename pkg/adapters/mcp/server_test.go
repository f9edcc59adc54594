package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"testing"

	"github.com/aretw0/randomart"
	"github.com/aretw0/randomart/pkg/art"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng, err := randomart.New()
	require.NoError(t, err)
	return NewServer(eng)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestHandleGenerate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	args := map[string]interface{}{"phrase": "hello", "complexity": "6"}

	resp, err := s.handleGenerate(ctx, callRequest("generate_art", args), args)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Phrase)
	assert.Equal(t, 6, resp.Complexity)

	tree, err := art.Parse(art.DefaultRegistry(), resp.Tree)
	require.NoError(t, err)
	assert.Equal(t, resp.Nodes, tree.Size())

	again, err := s.handleGenerate(ctx, callRequest("generate_art", args), args)
	require.NoError(t, err)
	assert.Equal(t, resp.Tree, again.Tree)
}

func TestHandleGenerate_Arguments(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	args := map[string]interface{}{"phrase": "hello", "complexity": float64(3), "indent": true}
	resp, err := s.handleGenerate(ctx, callRequest("generate_art", args), args)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Complexity)
	assert.Contains(t, resp.Tree, "\n")

	args = map[string]interface{}{"phrase": "hello"}
	resp, err = s.handleGenerate(ctx, callRequest("generate_art", args), args)
	require.NoError(t, err)
	assert.Equal(t, domain.DeriveComplexity("hello"), resp.Complexity)

	for _, bad := range []map[string]interface{}{
		{},
		{"phrase": "  "},
		{"phrase": "x", "complexity": "-2"},
		{"phrase": "x", "complexity": "all"},
		{"phrase": "x", "complexity": "2000000"},
		{"phrase": "x", "complexity": float64(1e15)},
	} {
		_, err := s.handleGenerate(ctx, callRequest("generate_art", bad), bad)
		assert.True(t, domain.IsInputError(err), "%v: %v", bad, err)
	}
}

func TestHandleRender(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleRender(ctx, callRequest("render_art", map[string]any{
		"phrase":     "hello",
		"complexity": "4",
		"size":       float64(12),
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 2)

	img, ok := res.Content[1].(mcp.ImageContent)
	require.True(t, ok, "second content should be the image")
	assert.Equal(t, "image/png", img.MIMEType)

	data, err := base64.StdEncoding.DecodeString(img.Data)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 12, decoded.Bounds().Dx())
}

func TestHandleRender_Tree(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleRender(context.Background(), callRequest("render_art", map[string]any{
		"tree": "Tent(VariableY())",
		"size": float64(4),
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
}

func TestHandleRender_Errors(t *testing.T) {
	s := newTestServer(t)

	for _, args := range []map[string]any{
		{"phrase": "x", "size": float64(0)},
		{"phrase": "x", "size": float64(MaxSize + 1)},
		{"tree": "Tent()"},
		{"phrase": "x", "complexity": float64(MaxComplexity + 1), "size": float64(1)},
		{},
	} {
		res, err := s.handleRender(context.Background(), callRequest("render_art", args))
		require.NoError(t, err)
		assert.True(t, res.IsError, "%v", args)
	}
}

func TestReadKinds(t *testing.T) {
	s := newTestServer(t)

	contents, err := s.readKinds(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, KindsURI, text.URI)

	var kinds []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &kinds))
	assert.Len(t, kinds, 13)
}

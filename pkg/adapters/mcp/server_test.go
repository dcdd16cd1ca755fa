package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/chazz/pkg/markup"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func TestHandleTransform(t *testing.T) {
	s := NewServer(markup.NewEngine(), "test")
	ctx := context.Background()

	res, err := s.handleTransform(ctx, callRequest("transform_markup", map[string]any{
		"text": "{@recharge 5} {@chance 25}",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Recharge 5-6 25 percent", resultText(t, res))

	res, err = s.handleTransform(ctx, callRequest("transform_markup", map[string]any{
		"text":   "{@i x}",
		"format": "html",
	}))
	require.NoError(t, err)
	assert.Equal(t, "<p><em>x</em></p>\n", resultText(t, res))
}

func TestHandleTransform_Errors(t *testing.T) {
	s := NewServer(nil, "test")
	ctx := context.Background()

	res, err := s.handleTransform(ctx, callRequest("transform_markup", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleTransform(ctx, callRequest("transform_markup", map[string]any{"text": "x", "format": "pdf"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleConvertDocument(t *testing.T) {
	s := NewServer(markup.NewEngine(), "test")
	ctx := context.Background()

	got, err := s.handleConvertDocument(ctx, mcp.CallToolRequest{}, DocumentArgs{
		Document: `{"entries": "{@spell fireball|phb|a fiery blast}"}`,
		Key:      "entries",
	})
	require.NoError(t, err)
	assert.Equal(t, DocumentResult{Text: "_a fiery blast_"}, got)

	got, err = s.handleConvertDocument(ctx, mcp.CallToolRequest{}, DocumentArgs{
		Document: `{"entries": null}`,
		Key:      "entries",
	})
	require.NoError(t, err)
	assert.True(t, got.Skipped)

	got, err = s.handleConvertDocument(ctx, mcp.CallToolRequest{}, DocumentArgs{
		Document: `{"entries": [9007199254740993, 1.0]}`,
		Key:      "entries",
	})
	require.NoError(t, err)
	assert.Equal(t, DocumentResult{Text: "[9007199254740993,1.0]"}, got)

	_, err = s.handleConvertDocument(ctx, mcp.CallToolRequest{}, DocumentArgs{Document: `{"a": 1} trailing`, Key: "a"})
	assert.Error(t, err)

	_, err = s.handleConvertDocument(ctx, mcp.CallToolRequest{}, DocumentArgs{Document: `{`, Key: "entries"})
	assert.Error(t, err)
}

func TestRulesJSON(t *testing.T) {
	s := NewServer(markup.NewEngine(), "test")

	data, err := s.rulesJSON()
	require.NoError(t, err)

	var rules []markup.RuleInfo
	require.NoError(t, json.Unmarshal(data, &rules))
	assert.Equal(t, markup.DefaultTable().Names(), names(rules))
}

func names(rules []markup.RuleInfo) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Name
	}
	return out
}

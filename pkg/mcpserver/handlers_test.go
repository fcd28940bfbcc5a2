package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/parser"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	pm := parser.NewParserManager(slog.Default())
	t.Cleanup(func() { pm.Close() })
	return NewServer(pm, nil, slog.Default())
}

func makeRequest(args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: arguments},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

func TestHandleIndexFile_InlineSource(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleIndexFile(context.Background(), makeRequest(map[string]any{
		"path":   "sample.ts",
		"source": "export function greet(name: string): string {\n  return name\n}\n",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &decoded))
	assert.Contains(t, decoded, "functions")
	assert.Contains(t, decoded, "scopes")
}

func TestHandleIndexFile_MissingPath(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleIndexFile(context.Background(), makeRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleIndexFile_UnsupportedExtension(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleIndexFile(context.Background(), makeRequest(map[string]any{
		"path":   "notes.txt",
		"source": "hello",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleIndexFile_ReadsFromDiskWhenNoSourceGiven(t *testing.T) {
	s := newTestServer(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("def f():\n    return 1\n"), 0644))

	result, err := s.handleIndexFile(context.Background(), makeRequest(map[string]any{"path": path}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &decoded))
	assert.Contains(t, decoded, "functions")
}

func TestHandleIndexWorkspace_SummarizesEachFile(t *testing.T) {
	s := newTestServer(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ts"), []byte("export function a() { return 1 }\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), []byte("def b():\n    return 2\n"), 0644))

	result, err := s.handleIndexWorkspace(context.Background(), makeRequest(map[string]any{"root": dir}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var decoded workspaceResult
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &decoded))
	assert.Equal(t, 2, decoded.FilesIndexed)
	assert.Len(t, decoded.Files, 2)
}

func TestHandleIndexWorkspace_MissingRoot(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleIndexWorkspace(context.Background(), makeRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, stringSlice([]any{"a", "b"}))
	assert.Nil(t, stringSlice("not-an-array"))
	assert.Equal(t, []string{"a"}, stringSlice([]any{"a", 1, true}))
}

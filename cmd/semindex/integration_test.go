package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		// Run non-integration tests normally.
		os.Exit(m.Run())
	}

	tmp, err := os.MkdirTemp("", "semindex-integration-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "semindex")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// startServer launches semindex serve as a subprocess and returns an
// initialized MCP client.
func startServer(t *testing.T) *client.Client {
	t.Helper()

	c, err := client.NewStdioMCPClient(binaryPath, nil, "serve")
	require.NoError(t, err, "failed to start MCP server")

	t.Cleanup(func() {
		c.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "semindex-integration-test",
		Version: "1.0.0",
	}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "semindex", result.ServerInfo.Name)

	return c
}

func callToolHelper(t *testing.T, c *client.Client, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}

	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", toolName)
	return result
}

func extractJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected content in result")
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- integration tests ---

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	toolNames := make([]string, len(tools.Tools))
	for i, tool := range tools.Tools {
		toolNames[i] = tool.Name
	}

	assert.Contains(t, toolNames, "index_file")
	assert.Contains(t, toolNames, "index_workspace")
}

func TestIntegration_IndexFile(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "index_file", map[string]any{
		"path":   "sample.ts",
		"source": "function greet(name: string): string {\n  return `hi ${name}`\n}\n",
	})
	assert.False(t, result.IsError)

	var index map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &index))
	assert.Contains(t, index, "functions")
	assert.Contains(t, index, "scopes")
}

func TestIntegration_IndexFile_MissingPath(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "index_file", map[string]any{})
	assert.True(t, result.IsError)
}

func TestIntegration_IndexWorkspace(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ts"), []byte("export function a() { return 1 }\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), []byte("def b():\n    return 2\n"), 0644))

	result := callToolHelper(t, c, "index_workspace", map[string]any{"root": dir})
	assert.False(t, result.IsError)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &summary))
	assert.EqualValues(t, 2, summary["files_indexed"])
}

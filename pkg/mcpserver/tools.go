package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexFileTool builds the index_file tool definition: given a path (and
// optionally inline source that overrides what's on disk) it returns the
// file's complete SemanticIndex as JSON.
func indexFileTool() mcp.Tool {
	return mcp.NewTool("index_file",
		mcp.WithDescription("Build and return the semantic index (scopes, definitions, references) for one source file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute or workspace-relative path to the source file; used to detect the language and, unless source is given, to read the content"),
		),
		mcp.WithString("source",
			mcp.Description("Inline source text to index instead of reading path from disk"),
		),
	)
}

// indexWorkspaceTool builds the index_workspace tool definition: given a
// root directory and optional glob patterns it scans every matching file in
// parallel and returns per-file summary counts.
func indexWorkspaceTool() mcp.Tool {
	return mcp.NewTool("index_workspace",
		mcp.WithDescription("Scan a workspace and index every matching source file, returning per-file definition/reference counts"),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Root directory to scan"),
		),
		mcp.WithArray("include",
			mcp.Description("Doublestar include glob patterns; defaults to every supported language's extensions"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("exclude",
			mcp.Description("Doublestar exclude glob patterns, applied in addition to the built-in defaults (node_modules, .git, target, __pycache__, ...)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/semindex/pkg/batch"
	"github.com/gnana997/semindex/pkg/extractor"
	"github.com/gnana997/semindex/pkg/parser"

	_ "github.com/gnana997/semindex/pkg/extractor/lang/javascript"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/python"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/rust"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/typescript"
)

// handleIndexFile implements the index_file tool: detect the file's
// language, parse it (from disk or from inline source), run the four-pass
// pipeline, and return the resulting SemanticIndex as JSON.
func (s *Server) handleIndexFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	path, _ := args["path"].(string)
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	var content []byte
	if src, ok := args["source"].(string); ok && src != "" {
		content = []byte(src)
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read %s: %v", path, err)), nil
		}
		content = raw
	}

	lang := parser.DetectLanguage(path)
	if lang == parser.LanguageUnknown {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported file extension: %s", path)), nil
	}

	tree, err := s.pm.Parse(content, lang, parser.IsTSXFile(path))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse %s: %v", path, err)), nil
	}
	defer tree.Close()

	index, err := extractor.BuildSemanticIndex(s.pm, extractor.ParsedFile{FilePath: path, Lang: lang}, tree, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("index %s: %v", path, err)), nil
	}

	body, err := json.Marshal(index)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(body)), nil
}

// fileSummary is the per-file shape returned by index_workspace — full
// SemanticIndex values for every file in a large workspace would blow past
// any reasonable tool-result size, so only counts are reported; callers that
// need a specific file's full index call index_file next.
type fileSummary struct {
	FilePath   string `json:"file_path"`
	Functions  int    `json:"functions"`
	Classes    int    `json:"classes"`
	Variables  int    `json:"variables"`
	Interfaces int    `json:"interfaces"`
	Enums      int    `json:"enums"`
	Types      int    `json:"types"`
	Imports    int    `json:"imports"`
	References int    `json:"references"`
}

type workspaceResult struct {
	FilesIndexed int           `json:"files_indexed"`
	FilesFailed  int           `json:"files_failed"`
	DurationMs   int64         `json:"duration_ms"`
	Files        []fileSummary `json:"files"`
	Errors       []string      `json:"errors,omitempty"`
}

// handleIndexWorkspace implements the index_workspace tool: scan root with
// pkg/batch.WorkspaceScanner and summarize each indexed file.
func (s *Server) handleIndexWorkspace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	root, _ := args["root"].(string)
	if root == "" {
		return mcp.NewToolResultError("root is required"), nil
	}

	options := batch.DefaultScanOptions()
	if patterns := stringSlice(args["include"]); len(patterns) > 0 {
		options.Include = patterns
	}
	if patterns := stringSlice(args["exclude"]); len(patterns) > 0 {
		options.Exclude = append(options.Exclude, patterns...)
	}

	store := s.newStore()
	defer store.Close()

	scanner := batch.NewWorkspaceScanner(s.pm, store, s.slog)
	defer scanner.Close()

	stats, err := scanner.ScanWorkspace(root, options, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan %s: %v", root, err)), nil
	}

	result := workspaceResult{
		FilesIndexed: stats.FilesIndexed,
		FilesFailed:  stats.FilesFailed,
		DurationMs:   stats.TotalTimeMs,
	}
	for _, fe := range stats.Errors {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", fe.FilePath, fe.Error))
	}

	for _, fi := range store.AllFileIndexes() {
		idx := fi.Index
		result.Files = append(result.Files, fileSummary{
			FilePath:   fi.FilePath,
			Functions:  len(idx.Functions),
			Classes:    len(idx.Classes),
			Variables:  len(idx.Variables),
			Interfaces: len(idx.Interfaces),
			Enums:      len(idx.Enums),
			Types:      len(idx.Types),
			Imports:    len(idx.Imports),
			References: len(idx.References),
		})
	}

	body, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(body)), nil
}

// stringSlice converts a decoded JSON array argument ([]any of strings) to
// []string, ignoring any non-string elements.
func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnana997/semindex/pkg/batch"
	"github.com/gnana997/semindex/pkg/extractor"
	"github.com/gnana997/semindex/pkg/mcpserver"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/util"

	_ "github.com/gnana997/semindex/pkg/extractor/lang/javascript"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/python"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/rust"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/typescript"
)

const version = "0.1.0-dev"

// buildLogger constructs the shared structured logger for scan/watch/serve,
// reading --log-level/--log-format off args (text to stderr by default, so
// stdout stays clean for scan's progress counters and serve's MCP traffic).
func buildLogger(args []string) *slog.Logger {
	cfg := util.LoggerConfig{Level: util.LevelInfo, Format: util.FormatText, Output: os.Stderr}
	for i, arg := range args {
		switch arg {
		case "--log-level":
			if i+1 < len(args) {
				cfg.Level = util.LogLevel(args[i+1])
			}
		case "--log-format":
			if i+1 < len(args) {
				cfg.Format = util.LogFormat(args[i+1])
			}
		}
	}
	return util.NewLogger(cfg)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "index":
		runIndex(os.Args[2:])
	case "scan":
		runScan(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "setup":
		runSetup(os.Args[2:])
	case "version":
		fmt.Printf("semindex %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runIndex implements `semindex index <file>`: build and print one file's
// SemanticIndex as JSON.
func runIndex(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: semindex index <file>")
		os.Exit(1)
	}
	path := args[0]

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read file: %v\n", err)
		os.Exit(1)
	}

	lang := parser.DetectLanguage(path)
	if lang == parser.LanguageUnknown {
		fmt.Fprintf(os.Stderr, "unsupported file extension: %s\n", path)
		os.Exit(1)
	}

	pm := parser.NewParserManager(nil)
	defer pm.Close()

	tree, err := pm.Parse(content, lang, parser.IsTSXFile(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse failed: %v\n", err)
		os.Exit(1)
	}
	defer tree.Close()

	index, err := extractor.BuildSemanticIndex(pm, extractor.ParsedFile{FilePath: path, Lang: lang}, tree, content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "index failed: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(index)
}

// runScan implements `semindex scan <root> [--include pattern]... [--exclude
// pattern]...`: walk a workspace and print aggregate scan statistics.
func runScan(args []string) {
	var root string
	var include, exclude []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--include":
			if i+1 < len(args) {
				i++
				include = append(include, args[i])
			}
		case "--exclude":
			if i+1 < len(args) {
				i++
				exclude = append(exclude, args[i])
			}
		case "--log-level", "--log-format":
			if i+1 < len(args) {
				i++
			}
		default:
			if !strings.HasPrefix(args[i], "--") {
				root = args[i]
			}
		}
	}

	if root == "" {
		fmt.Fprintln(os.Stderr, "usage: semindex scan <root> [--include pattern] [--exclude pattern]")
		os.Exit(1)
	}

	options := batch.DefaultScanOptions()
	if len(include) > 0 {
		options.Include = include
	}
	options.Exclude = append(options.Exclude, exclude...)

	logger := buildLogger(args)
	pm := parser.NewParserManager(logger)
	defer pm.Close()

	store := batch.NewStore(batch.DefaultStoreConfig(), logger)
	defer store.Close()

	scanner := batch.NewWorkspaceScanner(pm, store, logger)
	defer scanner.Close()

	stats, err := scanner.ScanWorkspace(root, options, func(indexed, total int, current string) {
		fmt.Fprintf(os.Stderr, "\r%d/%d  %s", indexed, total, current)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("indexed %d files (%d failed) in %dms — %d definitions, %d references\n",
		stats.FilesIndexed, stats.FilesFailed, stats.TotalTimeMs, stats.DefinitionsIndexed, stats.ReferencesIndexed)
	for _, fe := range stats.Errors {
		fmt.Printf("  ! %s: %v\n", fe.FilePath, fe.Error)
	}
}

// runWatch implements `semindex watch <root>`: scan once, then watch for
// changes until interrupted.
func runWatch(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: semindex watch <root>")
		os.Exit(1)
	}
	root := args[0]

	logger := buildLogger(args)
	pm := parser.NewParserManager(logger)
	defer pm.Close()

	store := batch.NewStore(batch.DefaultStoreConfig(), logger)
	defer store.Close()

	scanner := batch.NewWorkspaceScanner(pm, store, logger)
	defer scanner.Close()

	if _, err := scanner.ScanWorkspace(root, batch.DefaultScanOptions(), nil); err != nil {
		fmt.Fprintf(os.Stderr, "initial scan failed: %v\n", err)
		os.Exit(1)
	}

	watcher := batch.NewFileWatcher(pm, store, batch.DefaultWatchOptions(), logger)
	if err := watcher.Start(root); err != nil {
		fmt.Fprintf(os.Stderr, "watch failed: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Stop()

	fmt.Printf("watching %s — press Ctrl+C to stop\n", root)
	select {}
}

// runServe implements `semindex serve`: start the MCP server on stdio.
func runServe(args []string) {
	logPath := ""
	for i, arg := range args {
		if arg == "--log" && i+1 < len(args) {
			logPath = args[i+1]
		}
	}

	logger, err := mcpserver.NewLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open tool-call log: %v\n", err)
		os.Exit(1)
	}

	sl := buildLogger(args)
	pm := parser.NewParserManager(sl)
	defer pm.Close()

	srv := mcpserver.NewServer(pm, logger, sl)
	defer srv.Close()

	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: semindex <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  index      Build and print one file's semantic index as JSON")
	fmt.Println("  scan       Scan a workspace and index every matching file")
	fmt.Println("  watch      Scan a workspace, then watch it for changes")
	fmt.Println("  serve      Start the MCP server (index_file, index_workspace)")
	fmt.Println("  setup      Configure detected AI agents to use this MCP server")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("scan, watch and serve accept --log-level (debug|info|warn|error)")
	fmt.Println("and --log-format (text|json), written to stderr.")
}

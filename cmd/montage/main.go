package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"montage/internal/config"
	"montage/internal/db"
	"montage/internal/history"
	"montage/internal/logging"
	"montage/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"add": true, "move": true, "resize": true, "delete": true,
	"split": true, "ripple": true, "preview": true, "overlaps": true,
	"clips": true, "get": true,
	"tracks": true, "track-add": true, "track-rm": true,
	"undo": true, "redo": true, "history": true, "clear-history": true,
	"status": true, "import": true, "export": true,
	"serve": true, "mcp": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// baseDir resolves the data directory: --dir wins, then MONTAGE_DIR,
// then ~/.montage.
func baseDir() (string, error) {
	for i, arg := range os.Args {
		if v, ok := cutFlag(arg, "--dir"); ok {
			if v != "" {
				return v, nil
			}
			if i+1 < len(os.Args) {
				return os.Args[i+1], nil
			}
			return "", fmt.Errorf("--dir requires a value")
		}
	}
	if dir := os.Getenv("MONTAGE_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".montage"), nil
}

// cutFlag matches "--dir" and "--dir=value" forms. The empty string with
// ok=true means the value is in the next argument.
func cutFlag(arg, name string) (string, bool) {
	if arg == name {
		return "", true
	}
	if v, ok := strings.CutPrefix(arg, name+"="); ok {
		return v, true
	}
	return "", false
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   __  __  ___  _  _ _____ _   ___ ___
  |  \/  |/ _ \| \| |_   _/_\ / __| __|
  | |\/| | (_) | .' || | / _ \ (_ | _|
  |_|  |_|\___/|_|\_||_|/_/ \_\___|___|

  Timeline clip editing with undoable history

  Usage: montage <command> [options]
         montage --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	dir, err := baseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	database, err := db.Init(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	// Project-local .montage/config.json overrides the global config.
	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithProject(dir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	db.ConfigurePool(database, cfg)
	logging.Init(cfg.LogLevel)

	// One manager per process: the undo stack is rebuilt from the
	// persisted change log, redo always starts empty.
	store := db.NewStore(database)
	mgr := history.NewManager(store, store, logging.WithComponent("history"))
	if err := mgr.Load(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load edit history: %v\n", err)
		os.Exit(1)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, cfg, mgr)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'montage --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(database, cfg, mgr, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

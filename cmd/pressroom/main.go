package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tmercier/pressroom/internal/ai"
	"github.com/tmercier/pressroom/internal/config"
	"github.com/tmercier/pressroom/internal/httpx"
	"github.com/tmercier/pressroom/internal/mcp"
	"github.com/tmercier/pressroom/internal/notion"
	"github.com/tmercier/pressroom/internal/ops"
	"github.com/tmercier/pressroom/internal/relay"
	"github.com/tmercier/pressroom/internal/store"
	"github.com/tmercier/pressroom/internal/syncer"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"login": true, "add": true, "list": true, "show": true,
	"update": true, "archive": true, "sync": true,
	"analyze": true, "interview": true, "draft": true,
	"personas": true, "models": true, "web": true,
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

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___  ___ ___ ___ ___ ___  ___   ___  __  __
  | _ \| _ \ __/ __/ __| _ \/ _ \ / _ \|  \/  |
  |  _/|   / _|\__ \__ \   / (_) | (_) | |\/| |
  |_|  |_|_\___|___/___/_|_\\___/ \___/|_|  |_|

  Local-first content production pipeline

  Usage: pressroom <command> [options]
         pressroom --help

  MCP server mode requires piped input.`)
}

// newEnv wires the shared operation environment from the local mirror,
// the config and whatever relay session is on disk.
func newEnv(baseDir string) (*ops.Env, *httpx.Client, error) {
	db, err := store.Init(baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	store.ConfigurePool(db, cfg)

	hc := httpx.New()
	session := relay.LoadSession(baseDir)
	remote := notion.NewClient(cfg, hc, session)

	env := &ops.Env{
		DB:      db,
		Cfg:     cfg,
		BaseDir: baseDir,
		Remote:  remote,
		AI:      ai.NewClient(cfg, hc, session),
		Syncer:  syncer.New(db, remote, cfg),
	}
	return env, hc, nil
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before any init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".pressroom")

	env, hc, err := newEnv(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer env.DB.Close()

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(env, hc)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'pressroom --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(env, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

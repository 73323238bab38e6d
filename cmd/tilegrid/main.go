package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tilegrid/internal/board"
	"github.com/1broseidon/tilegrid/internal/config"
	"github.com/1broseidon/tilegrid/internal/ipc"
	"github.com/1broseidon/tilegrid/internal/mcp"
	"github.com/1broseidon/tilegrid/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "serve":
		os.Exit(runServe(os.Args[2:]))
	case "demo":
		os.Exit(runDemo(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "tile":
		os.Exit(runTile(os.Args[2:]))
	case "preset":
		os.Exit(runPreset(os.Args[2:]))
	case "columns":
		os.Exit(runColumns(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tilegrid <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve               Start the grid server (foreground)")
	fmt.Fprintln(w, "  demo                Open the interactive drag demo")
	fmt.Fprintln(w, "  status              Show grid server status")
	fmt.Fprintln(w, "  layout              Print the current tile layout")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tile add            Add a tile to the grid")
	fmt.Fprintln(w, "  tile remove         Remove a tile from the grid")
	fmt.Fprintln(w, "  tile move           Move a tile to a target cell")
	fmt.Fprintln(w, "  tile list           List tiles in order")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  preset list         List configured presets")
	fmt.Fprintln(w, "  preset apply        Load a preset onto the grid")
	fmt.Fprintln(w, "  columns             Change the grid column count")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the config file path")
	fmt.Fprintln(w, "  reload              Reload server configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tilegrid <command> --help' for details on a command.")
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	preset := fs.String("preset", "", "Preset to load at startup (default: config default_preset)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilegrid serve [--preset NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the grid server in the foreground.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (columns: %d, debounce: %dms)", cfg.Columns, cfg.DebounceMs)

	b := board.New(cfg.Columns, cfg.SpacingX, cfg.SpacingY)

	name := *preset
	if name == "" {
		name = cfg.DefaultPreset
	}

	reloadChan := make(chan struct{}, 1)
	server, err := ipc.NewServer(cfg, b, reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}

	if name != "" {
		tiles, ok := cfg.Presets[name]
		if !ok {
			log.Fatalf("Unknown preset: %s", name)
		}
		specs := make([]board.Spec, len(tiles))
		for i, t := range tiles {
			specs[i] = board.Spec{ID: t.ID, SpanW: t.SpanW, SpanH: t.SpanH, Payload: t.Label}
		}
		if err := b.SetTiles(specs); err != nil {
			log.Fatalf("Failed to load preset %s: %v", name, err)
		}
		server.SetActivePreset(name)
		log.Printf("Loaded preset %s (%d tiles)", name, len(tiles))
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer server.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				newCfg, err := config.Load()
				if err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				server.UpdateConfig(newCfg)
				log.Println("Config reloaded successfully")

			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down grid server...")
				server.Stop()
				return 0
			}

		case <-reloadChan:
			log.Printf("Config reloaded via IPC (columns: %d)", server.GetConfig().Columns)
		}
	}
}

func runDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/tilegrid/config.yaml)")
	preset := fs.String("preset", "", "Preset to load (default: config default_preset)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilegrid demo [--path PATH] [--preset NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the interactive demo. Drag tiles with the mouse to reorder them.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	var cfg *config.Config
	var err error
	if *path == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(*path)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := tui.Run(cfg, *preset); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilegrid status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show grid server status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("server_running: %v\n", status.ServerRunning)
	fmt.Printf("columns:        %d\n", status.Columns)
	fmt.Printf("tile_count:     %d\n", status.TileCount)
	fmt.Printf("rows:           %d\n", status.Rows)
	if status.ActivePreset != "" {
		fmt.Printf("active_preset:  %s\n", status.ActivePreset)
	}
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runLayout(args []string) int {
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilegrid layout")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the current tile layout.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	layout, err := client.GetLayout()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("columns: %d  rows: %d\n", layout.Columns, layout.Rows)
	for _, t := range layout.Tiles {
		fmt.Printf("  %-12s %dx%d at (%d,%d)\n", t.ID, t.SpanW, t.SpanH, t.Row, t.Col)
	}
	return 0
}

func runTile(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  tilegrid tile add <id> [--width N] [--height N]")
		fmt.Fprintln(os.Stderr, "  tilegrid tile remove <id>")
		fmt.Fprintln(os.Stderr, "  tilegrid tile move <id> --row N --col N")
		fmt.Fprintln(os.Stderr, "  tilegrid tile list")
		return 2
	}

	client := ipc.NewClient()

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		width := fs.Int("width", 1, "Tile width in cells")
		height := fs.Int("height", 1, "Tile height in cells")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "tile add requires <id>")
			return 2
		}

		if err := client.AddTile(fs.Arg(0), *width, *height); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "remove":
		fs := flag.NewFlagSet("remove", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "tile remove requires <id>")
			return 2
		}

		if err := client.RemoveTile(fs.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "move":
		fs := flag.NewFlagSet("move", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		row := fs.Int("row", 0, "Target row (0-based)")
		col := fs.Int("col", 0, "Target column (0-based)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "tile move requires <id>")
			return 2
		}

		move, err := client.MoveTile(fs.Arg(0), *row, *col)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("moved: index %d -> %d\n", move.OldIndex, move.NewIndex)
		return 0

	case "list":
		return runLayout(args[1:])

	default:
		fmt.Fprintf(os.Stderr, "Unknown tile subcommand: %s\n", args[0])
		return 2
	}
}

func runPreset(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  tilegrid preset list")
		fmt.Fprintln(os.Stderr, "  tilegrid preset apply <name>")
		return 2
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		presets, err := client.ListPresets()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, name := range presets.Presets {
			marker := " "
			if name == presets.ActivePreset {
				marker = "*"
			}
			suffix := ""
			if name == presets.DefaultPreset {
				suffix = " (default)"
			}
			fmt.Printf("%s %s%s\n", marker, name, suffix)
		}
		return 0

	case "apply":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "preset apply requires <name>")
			return 2
		}
		if err := client.ApplyPreset(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown preset subcommand: %s\n", args[0])
		return 2
	}
}

func runColumns(args []string) int {
	fs := flag.NewFlagSet("columns", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilegrid columns <n>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Change the grid column count (1-62).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	var n int
	if _, err := fmt.Sscanf(fs.Arg(0), "%d", &n); err != nil {
		fmt.Fprintf(os.Stderr, "invalid column count: %s\n", fs.Arg(0))
		return 2
	}

	client := ipc.NewClient()
	if err := client.SetColumns(n); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  tilegrid config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  tilegrid config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  tilegrid config path")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/tilegrid/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var err error
		if *path == "" {
			_, err = config.Load()
		} else {
			_, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/tilegrid/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		var err error
		if *printDefaults {
			cfg = config.DefaultConfig()
		} else if *path == "" {
			cfg, err = config.Load()
		} else {
			cfg, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "path":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilegrid reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the running grid server to reload its configuration.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	if err := client.Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}

func runMCP(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: tilegrid mcp serve")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the MCP server on stdio. Tools are bridged to the running grid server.")
		return 2
	}

	switch args[0] {
	case "serve":
		server := mcp.NewServer()
		if err := server.Run(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp subcommand: %s\n", args[0])
		return 2
	}
}

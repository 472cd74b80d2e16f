package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/example/regionshade/internal/config"
	"github.com/example/regionshade/internal/ipc"
	"github.com/example/regionshade/internal/runtimepath"
	"github.com/example/regionshade/internal/slots"
	"github.com/example/regionshade/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "load":
		os.Exit(runLoad(os.Args[2:]))
	case "save":
		os.Exit(runSave(os.Args[2:]))
	case "cycle":
		os.Exit(runCycle(os.Args[2:]))
	case "toggle":
		os.Exit(runToggle(os.Args[2:]))
	case "reset":
		os.Exit(runReset(os.Args[2:]))
	case "slots":
		os.Exit(runSlots(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: regionshade <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the filter daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  load <slot>         Load a saved rectangle (1-9)")
	fmt.Fprintln(w, "  save <slot>         Save the current rectangle (1-9)")
	fmt.Fprintln(w, "  cycle               Cycle through saved rectangles")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  toggle invert       Toggle color inversion")
	fmt.Fprintln(w, "  toggle grayscale    Toggle grayscale")
	fmt.Fprintln(w, "  toggle whitelevel   Cycle the brightness level")
	fmt.Fprintln(w, "  toggle pin          Toggle click-through pinning")
	fmt.Fprintln(w, "  reset               Clear the selection")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  slots               List saved rectangles")
	fmt.Fprintln(w, "  slots tui           Open the interactive slot browser")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config print        Print effective configuration")
	fmt.Fprintln(w, "  config init         Write a default configuration file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'regionshade <command> --help' for command-specific options.")
}

func newClient() (*ipc.Client, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, err
	}
	return ipc.NewClient(socketPath), nil
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: regionshade status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
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

	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	status, err := client.Status()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Println("Daemon: running")
	fmt.Printf("Selection: %s\n", status.SelectionState)
	if status.Region != nil {
		fmt.Printf("Region: %d,%d - %d,%d\n",
			status.Region.Left, status.Region.Top,
			status.Region.Right, status.Region.Bottom)
	}
	fmt.Printf("Invert: %s\n", onOff(status.InvertEnabled))
	fmt.Printf("Grayscale: %s\n", onOff(status.GrayscaleEnabled))
	fmt.Printf("Brightness: %d%%\n", status.BrightnessPercent)
	fmt.Printf("Pinned: %s\n", onOff(status.Pinned))
	fmt.Printf("Uptime: %ds\n", status.UptimeSeconds)
	return 0
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseSlotArg(fs *flag.FlagSet) (int, bool) {
	if fs.NArg() != 1 {
		fs.Usage()
		return 0, false
	}
	slot, err := strconv.Atoi(fs.Arg(0))
	if err != nil || slot < 1 || slot >= slots.NumSlots {
		fmt.Fprintf(os.Stderr, "slot must be a number between 1 and %d\n", slots.NumSlots-1)
		return 0, false
	}
	return slot, true
}

func runLoad(args []string) int {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: regionshade load <slot>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	slot, ok := parseSlotArg(fs)
	if !ok {
		return 2
	}

	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := client.LoadSlot(slot); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Loaded slot %d\n", slot)
	return 0
}

func runSave(args []string) int {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: regionshade save <slot>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	slot, ok := parseSlotArg(fs)
	if !ok {
		return 2
	}

	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := client.SaveSlot(slot); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Saved slot %d\n", slot)
	return 0
}

func runCycle(args []string) int {
	fs := flag.NewFlagSet("cycle", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: regionshade cycle")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := client.Cycle(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runToggle(args []string) int {
	usage := func() {
		fmt.Fprintln(os.Stderr, "Usage: regionshade toggle <invert|grayscale|whitelevel|pin>")
	}
	if len(args) != 1 {
		usage()
		return 2
	}

	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	switch args[0] {
	case "invert":
		err = client.ToggleInvert()
	case "grayscale":
		err = client.ToggleGrayscale()
	case "whitelevel":
		err = client.CycleWhiteLevel()
	case "pin":
		err = client.TogglePin()
	case "help", "-h", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown toggle: %s\n", args[0])
		usage()
		return 2
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runReset(args []string) int {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: regionshade reset")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := client.Reset(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSlots(args []string) int {
	if len(args) > 0 && args[0] == "tui" {
		return runSlotsTUI(args[1:])
	}

	fs := flag.NewFlagSet("slots", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "path to config file")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: regionshade slots [options]")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return 2
	}

	// Prefer the daemon's view so in-memory state is included; fall back
	// to reading the file directly.
	if client, err := newClient(); err == nil {
		if data, err := client.Slots(); err == nil {
			for _, s := range data.Slots {
				printSlot(s.Index, s.Valid, s.Left, s.Top, s.Right, s.Bottom, s.Invert, s.Grayscale, s.GrayLevel)
			}
			return 0
		}
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	store := slots.NewStore(cfg.SlotsFile)
	if err := store.Load(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for i := 0; i < slots.NumSlots; i++ {
		entry := store.Get(i)
		printSlot(i, entry.Valid,
			entry.Rect.Left, entry.Rect.Top, entry.Rect.Right, entry.Rect.Bottom,
			entry.Settings.InvertEnabled, entry.Settings.GrayscaleEnabled, entry.Settings.GrayLevel)
	}
	return 0
}

func printSlot(index int, valid bool, left, top, right, bottom int, invert, grayscale bool, grayLevel int) {
	if !valid {
		fmt.Printf("%d: (empty)\n", index)
		return
	}
	fmt.Printf("%d: %d,%d - %d,%d  invert=%s grayscale=%s level=%d\n",
		index, left, top, right, bottom, onOff(invert), onOff(grayscale), grayLevel)
}

func runSlotsTUI(args []string) int {
	fs := flag.NewFlagSet("slots tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "path to config file")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: regionshade slots tui [options]")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := tui.Run(cfg.SlotsFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	usage := func() {
		fmt.Fprintln(os.Stderr, "Usage: regionshade config <print|init> [options]")
	}
	if len(args) == 0 {
		usage()
		return 2
	}

	switch args[0] {
	case "print":
		fs := flag.NewFlagSet("config print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		configPath := fs.String("config", "", "path to config file")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := cfg.Print()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(out)
		return 0

	case "init":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := config.WriteDefault(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Wrote %s\n", path)
		return 0

	case "help", "-h", "--help":
		usage()
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		usage()
		return 2
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// Package tui is the interactive slot browser. It edits the saved
// rectangle file directly and talks to a running daemon over IPC when one
// is available.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/example/regionshade/internal/ipc"
	"github.com/example/regionshade/internal/runtimepath"
	"github.com/example/regionshade/internal/slots"
)

// Run starts the slot browser on the given saved rectangle file.
func Run(slotsPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	store := slots.NewStore(slotsPath)
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to load saved rectangles: %w", err)
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return fmt.Errorf("failed to resolve daemon socket: %w", err)
	}
	client := ipc.NewClient(socketPath)

	p := tea.NewProgram(newModel(store, client), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Package daemon runs the filter as a long-lived process: it owns the
// event turn that serializes all state mutation, the refresh ticker, and
// the IPC surface.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/regionshade/internal/config"
	"github.com/example/regionshade/internal/geometry"
	"github.com/example/regionshade/internal/hotkeys"
	"github.com/example/regionshade/internal/ipc"
	"github.com/example/regionshade/internal/notify"
	"github.com/example/regionshade/internal/platform"
	"github.com/example/regionshade/internal/runtimepath"
	"github.com/example/regionshade/internal/selection"
	"github.com/example/regionshade/internal/shortcuts"
	"github.com/example/regionshade/internal/slots"
)

// topmostEvery is how often the above state is re-requested while enabled.
const topmostEvery = time.Second

// Daemon ties the backend, controller, hotkeys and IPC server together.
// The controller is single-threaded: every mutation is enqueued as a
// command and executed by the Run loop, one per turn.
type Daemon struct {
	logger     *slog.Logger
	cfg        *config.Config
	backend    platform.Backend
	store      *slots.Store
	queue      *notify.Queue
	ctrl       *selection.Controller
	server     *ipc.Server
	keys       *shortcuts.Config
	socketPath string

	commands chan func()
}

// New wires up a daemon from loaded configuration. The backend connection
// is established here; Run creates the window and starts serving.
func New(logger *slog.Logger, cfg *config.Config, backend platform.Backend, keys *shortcuts.Config) (*Daemon, error) {
	store := slots.NewStore(cfg.SlotsFile)
	if err := store.Load(); err != nil {
		logger.Warn("failed to load saved rectangles", "path", cfg.SlotsFile, "error", err)
	}

	queue := notify.NewQueue()
	msgr := newTitleMessenger(backend, queue, cfg.FlashDuration(), logger)
	ctrl := selection.New(backend, store, msgr, *keys)

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve socket path: %w", err)
	}

	d := &Daemon{
		logger:     logger,
		cfg:        cfg,
		backend:    backend,
		store:      store,
		queue:      queue,
		ctrl:       ctrl,
		keys:       keys,
		socketPath: socketPath,
		commands:   make(chan func(), 64),
	}

	d.server = ipc.NewServer(socketPath, ctrl, store, d.Dispatch)

	return d, nil
}

// Dispatch runs fn on the daemon's event turn and blocks until it has
// executed. Safe to call from any goroutine.
func (d *Daemon) Dispatch(fn func()) {
	done := make(chan struct{})
	d.commands <- func() {
		defer close(done)
		fn()
	}
	<-done
}

// Run creates the filter window, starts the IPC server and the X event
// loop, and drives the refresh ticker until the context is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.backend.CreateWindow(selection.InitialSummary); err != nil {
		return fmt.Errorf("failed to create filter window: %w", err)
	}

	d.backend.OnClick(func(p geometry.Point) {
		d.Dispatch(func() { d.ctrl.HandleClick(p) })
	})

	// Key bindings attach to the filter window, so they can only be
	// registered once it exists.
	handler := hotkeys.NewHandler(d.backend, d.ctrl, d.Dispatch)
	if err := handler.RegisterAll(d.keys); err != nil {
		return fmt.Errorf("failed to register shortcuts: %w", err)
	}

	// Puts the window into its initial state: no selection, identity
	// matrix, summary title.
	d.ctrl.Reset()

	if err := d.server.Start(); err != nil {
		return err
	}
	defer d.server.Stop()

	go d.backend.EventLoop()
	defer d.backend.Quit()

	ticker := time.NewTicker(d.cfg.RefreshInterval())
	defer ticker.Stop()

	d.logger.Info("daemon started",
		"socket", d.socketPath,
		"slots_file", d.store.Path(),
		"refresh", d.cfg.RefreshInterval())

	lastTopmost := time.Time{}

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopped")
			return nil

		case cmd := <-d.commands:
			cmd()

		case now := <-ticker.C:
			d.drainCommands()
			d.queue.Poll(now)

			if d.cfg.TopmostEnabled() && now.Sub(lastTopmost) >= topmostEvery {
				if err := d.backend.AssertTopmost(); err != nil {
					d.logger.Debug("failed to assert topmost", "error", err)
				}
				lastTopmost = now
			}
		}
	}
}

func (d *Daemon) drainCommands() {
	for {
		select {
		case cmd := <-d.commands:
			cmd()
		default:
			return
		}
	}
}

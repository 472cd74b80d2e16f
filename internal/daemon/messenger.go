package daemon

import (
	"log/slog"
	"time"

	"github.com/example/regionshade/internal/notify"
)

// titleSetter is the slice of the backend the messenger needs.
type titleSetter interface {
	SetTitle(title string) error
}

// titleMessenger shows status text in the filter window title bar. Summary
// text is persistent; flash messages replace it briefly and then the
// current summary is restored.
type titleMessenger struct {
	backend  titleSetter
	queue    *notify.Queue
	flashFor time.Duration
	logger   *slog.Logger

	summary    string
	generation int
}

func newTitleMessenger(backend titleSetter, queue *notify.Queue, flashFor time.Duration, logger *slog.Logger) *titleMessenger {
	return &titleMessenger{
		backend:  backend,
		queue:    queue,
		flashFor: flashFor,
		logger:   logger,
	}
}

// Summary replaces the persistent title text and cancels any pending flash
// restore.
func (m *titleMessenger) Summary(text string) {
	m.summary = text
	m.generation++
	m.setTitle(text)
}

// Flash shows text for the flash duration, then restores the summary unless
// a newer message arrived in the meantime.
func (m *titleMessenger) Flash(text string) {
	m.generation++
	gen := m.generation
	m.setTitle(text)

	m.queue.After(m.flashFor, func() {
		if m.generation != gen {
			return
		}
		m.setTitle(m.summary)
	})
}

func (m *titleMessenger) setTitle(text string) {
	if err := m.backend.SetTitle(text); err != nil {
		m.logger.Warn("failed to set window title", "error", err)
	}
}

package daemon

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/example/regionshade/internal/notify"
)

type fakeTitleSetter struct {
	titles []string
}

func (f *fakeTitleSetter) SetTitle(title string) error {
	f.titles = append(f.titles, title)
	return nil
}

func (f *fakeTitleSetter) last() string {
	if len(f.titles) == 0 {
		return ""
	}
	return f.titles[len(f.titles)-1]
}

func newTestMessenger() (*titleMessenger, *fakeTitleSetter, *notify.Queue) {
	backend := &fakeTitleSetter{}
	queue := notify.NewQueue()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newTitleMessenger(backend, queue, 2*time.Second, logger), backend, queue
}

func TestSummary_SetsTitle(t *testing.T) {
	m, backend, _ := newTestMessenger()

	m.Summary("Inverted (I=Invert)")

	if backend.last() != "Inverted (I=Invert)" {
		t.Errorf("unexpected title: %q", backend.last())
	}
}

func TestFlash_RevertsToSummary(t *testing.T) {
	m, backend, queue := newTestMessenger()
	start := time.Now()

	m.Summary("status line")
	m.Flash("Rectangle saved to slot 3")

	if backend.last() != "Rectangle saved to slot 3" {
		t.Fatalf("flash text not shown: %q", backend.last())
	}

	queue.Poll(start.Add(time.Second))
	if backend.last() != "Rectangle saved to slot 3" {
		t.Errorf("flash reverted too early: %q", backend.last())
	}

	queue.Poll(start.Add(3 * time.Second))
	if backend.last() != "status line" {
		t.Errorf("expected summary restored, got %q", backend.last())
	}
}

func TestSummary_CancelsPendingFlashRestore(t *testing.T) {
	m, backend, queue := newTestMessenger()
	start := time.Now()

	m.Summary("old summary")
	m.Flash("transient")
	m.Summary("new summary")

	queue.Poll(start.Add(time.Minute))

	if backend.last() != "new summary" {
		t.Errorf("stale flash restore overwrote summary: %q", backend.last())
	}
}

func TestFlash_NewerFlashSuppressesOlderRestore(t *testing.T) {
	m, backend, queue := newTestMessenger()
	start := time.Now()

	m.Summary("summary")
	m.Flash("first")
	m.Flash("second")

	queue.Poll(start.Add(time.Minute))

	if backend.last() != "summary" {
		t.Errorf("expected summary restored, got %q", backend.last())
	}
	// The first flash's restore must be a no-op, so only one restore
	// lands after "second".
	want := []string{"summary", "first", "second", "summary"}
	if len(backend.titles) != len(want) {
		t.Fatalf("unexpected title sequence: %v", backend.titles)
	}
	for i, title := range want {
		if backend.titles[i] != title {
			t.Errorf("title[%d] = %q, want %q", i, backend.titles[i], title)
		}
	}
}

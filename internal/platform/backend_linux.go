//go:build linux

package platform

import (
	"fmt"
	"log"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/example/regionshade/internal/colormat"
	"github.com/example/regionshade/internal/geometry"
	"github.com/example/regionshade/internal/x11"
)

// LinuxBackend implements Backend on top of an X11 connection.
type LinuxBackend struct {
	conn *x11.Connection
	win  *x11.FilterWindow
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend opens a fresh X11 connection.
func NewLinuxBackend(display, xauthority string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display, xauthority)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// CreateWindow creates and maps the filter window.
func (b *LinuxBackend) CreateWindow(title string) error {
	win, err := b.conn.CreateFilterWindow(title)
	if err != nil {
		return err
	}
	b.win = win
	return nil
}

func (b *LinuxBackend) SetOuterWindowBounds(r geometry.OuterRect) error {
	if b.win == nil {
		return fmt.Errorf("filter window not created")
	}
	return b.win.SetOuterBounds(r)
}

func (b *LinuxBackend) SetClickThrough(enabled bool) error {
	if b.win == nil {
		return fmt.Errorf("filter window not created")
	}
	return b.win.SetClickThrough(enabled)
}

// ApplyColorMatrix publishes the matrix to the compositor. A false return
// means the previous matrix stays in effect.
func (b *LinuxBackend) ApplyColorMatrix(m colormat.Matrix) bool {
	if b.win == nil {
		return false
	}
	if err := b.win.PublishMatrix(m); err != nil {
		log.Printf("failed to publish color matrix: %v", err)
		return false
	}
	return true
}

func (b *LinuxBackend) FrameMetrics() geometry.FrameMetrics {
	if b.win == nil {
		return geometry.FrameMetrics{}
	}
	return b.win.FrameMetrics()
}

func (b *LinuxBackend) CurrentOuterRect() (geometry.OuterRect, error) {
	if b.win == nil {
		return geometry.OuterRect{}, fmt.Errorf("filter window not created")
	}
	return b.win.OuterRect()
}

func (b *LinuxBackend) SetTitle(title string) error {
	if b.win == nil {
		return fmt.Errorf("filter window not created")
	}
	return b.win.SetTitle(title)
}

func (b *LinuxBackend) AssertTopmost() error {
	if b.win == nil {
		return fmt.Errorf("filter window not created")
	}
	return b.win.AssertTopmost()
}

// OnClick registers a callback for left clicks on the filter window.
func (b *LinuxBackend) OnClick(fn func(p geometry.Point)) {
	if b.win == nil {
		return
	}
	b.win.OnButtonPress(func(x, y int) {
		fn(geometry.Point{X: x, Y: y})
	})
}

// BindKey binds a key sequence to fn. Grabbed bindings attach to the root
// window and fire regardless of focus; ungrabbed ones attach to the filter
// window and fire only while it is focused.
func (b *LinuxBackend) BindKey(sequence string, grab bool, fn func()) error {
	target := b.conn.Root
	if !grab {
		if b.win == nil {
			return fmt.Errorf("filter window not created")
		}
		target = b.win.ID()
	}

	return keybind.KeyPressFun(
		func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
			fn()
		}).Connect(b.conn.XUtil, target, sequence, grab)
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	return b.conn.XUtil
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	b.conn.EventLoop()
}

// Quit asks the event loop to exit.
func (b *LinuxBackend) Quit() {
	b.conn.Quit()
}

// Disconnect destroys the filter window and closes the X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b.win != nil {
		b.win.Destroy()
	}
	b.conn.Close()
}

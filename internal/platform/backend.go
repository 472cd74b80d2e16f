package platform

import (
	"github.com/example/regionshade/internal/colormat"
	"github.com/example/regionshade/internal/geometry"
)

// Backend abstracts window-system operations across platforms. It is a
// superset of the host surface the selection controller needs, adding the
// lifecycle and input-registration operations the daemon drives.
type Backend interface {
	// Host surface used by the selection controller.
	SetOuterWindowBounds(r geometry.OuterRect) error
	SetClickThrough(enabled bool) error
	ApplyColorMatrix(m colormat.Matrix) bool
	FrameMetrics() geometry.FrameMetrics
	CurrentOuterRect() (geometry.OuterRect, error)

	// Window lifecycle and presentation.
	CreateWindow(title string) error
	SetTitle(title string) error
	AssertTopmost() error

	// Input registration.
	OnClick(fn func(p geometry.Point))
	BindKey(sequence string, grab bool, fn func()) error

	// Event pump.
	EventLoop()
	Quit()
	Disconnect()
}

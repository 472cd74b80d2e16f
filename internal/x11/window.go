package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/example/regionshade/internal/colormat"
	"github.com/example/regionshade/internal/geometry"
)

// matrixProperty is the window property a compositor reads to apply the
// color transform to the region behind the filter window.
const matrixProperty = "_REGIONSHADE_COLOR_MATRIX"

const backgroundPixel = 0x00202020

// FilterWindow is the top-level window that hosts the color filter. Before a
// region is selected it covers the active monitor to receive selection
// clicks; afterwards it is moved over the selected region.
type FilterWindow struct {
	conn       *Connection
	win        *xwindow.Window
	matrixAtom xproto.Atom
	shapeOK    bool
}

// CreateFilterWindow creates and maps the filter window over the active
// monitor's work area.
func (c *Connection) CreateFilterWindow(title string) (*FilterWindow, error) {
	mon, err := c.ActiveMonitor()
	if err != nil {
		return nil, fmt.Errorf("failed to determine active monitor: %w", err)
	}

	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window ID: %w", err)
	}

	err = win.CreateChecked(
		c.Root,
		mon.X, mon.Y, mon.Width, mon.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		backgroundPixel,
		xproto.EventMaskButtonPress|xproto.EventMaskKeyPress|xproto.EventMaskStructureNotify,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter window: %w", err)
	}

	if err := ewmh.WmNameSet(c.XUtil, win.Id, title); err != nil {
		return nil, fmt.Errorf("failed to set window title: %w", err)
	}

	f := &FilterWindow{conn: c, win: win}

	// The shape extension drives click-through. Missing extension degrades
	// to a window that always receives input.
	if err := shape.Init(c.XUtil.Conn()); err == nil {
		f.shapeOK = true
	}

	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len(matrixProperty)), matrixProperty).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to intern %s: %w", matrixProperty, err)
	}
	f.matrixAtom = atomReply.Atom

	win.Map()

	return f, nil
}

// ID returns the X window ID.
func (f *FilterWindow) ID() xproto.Window {
	return f.win.Id
}

// SetOuterBounds moves and resizes the window so that its decorated frame
// matches the given rectangle.
func (f *FilterWindow) SetOuterBounds(r geometry.OuterRect) error {
	err := ewmh.MoveresizeWindow(
		f.conn.XUtil,
		f.win.Id,
		r.Left, r.Top, r.Width(), r.Height(),
	)
	if err != nil {
		// Fallback to direct window manipulation
		f.win.MoveResize(r.Left, r.Top, r.Width(), r.Height())
	}
	return nil
}

// SetTitle updates the window title.
func (f *FilterWindow) SetTitle(title string) error {
	return ewmh.WmNameSet(f.conn.XUtil, f.win.Id, title)
}

// AssertTopmost re-requests the above state. Some window managers drop it
// when other windows are activated, so the daemon calls this periodically.
func (f *FilterWindow) AssertTopmost() error {
	return ewmh.WmStateReq(f.conn.XUtil, f.win.Id, 1, "_NET_WM_STATE_ABOVE")
}

// SetClickThrough makes the window transparent to pointer input when
// enabled, so clicks land on the windows beneath the filtered region.
func (f *FilterWindow) SetClickThrough(enabled bool) error {
	if !f.shapeOK {
		return fmt.Errorf("shape extension unavailable")
	}

	if enabled {
		// Empty input shape: pointer events pass through entirely.
		return shape.RectanglesChecked(
			f.conn.XUtil.Conn(),
			shape.SoSet,
			shape.SkInput,
			xproto.ClipOrderingUnsorted,
			f.win.Id,
			0, 0,
			nil,
		).Check()
	}

	// Resetting the input shape to None restores the default full-window
	// input region.
	return shape.MaskChecked(
		f.conn.XUtil.Conn(),
		shape.SoSet,
		shape.SkInput,
		f.win.Id,
		0, 0,
		xproto.PixmapNone,
	).Check()
}

// PublishMatrix writes the 5x5 color matrix to the window property read by
// the compositor. Each cell is the IEEE 754 bit pattern of the float32
// value, stored as a 32-bit cardinal in row-major order.
func (f *FilterWindow) PublishMatrix(m colormat.Matrix) error {
	buf := make([]byte, 0, 25*4)
	cell := make([]byte, 4)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			xgb.Put32(cell, math.Float32bits(m[i][j]))
			buf = append(buf, cell...)
		}
	}

	return xproto.ChangePropertyChecked(
		f.conn.XUtil.Conn(),
		xproto.PropModeReplace,
		f.win.Id,
		f.matrixAtom,
		xproto.AtomCardinal,
		32,
		25,
		buf,
	).Check()
}

// FrameMetrics derives decoration sizes from the window manager's
// _NET_FRAME_EXTENTS. Zero metrics are returned before the WM has set the
// property, which matches an undecorated window.
func (f *FilterWindow) FrameMetrics() geometry.FrameMetrics {
	extents, err := ewmh.FrameExtentsGet(f.conn.XUtil, f.win.Id)
	if err != nil {
		return geometry.FrameMetrics{}
	}

	top := int(extents.Top)
	bottom := int(extents.Bottom)
	titleBar := top - bottom
	if titleBar < 0 {
		titleBar = 0
	}

	return geometry.FrameMetrics{
		TitleBarHeight: titleBar,
		BorderWidth:    int(extents.Left),
		BorderHeight:   bottom,
	}
}

// OuterRect returns the window's current decorated geometry in root
// coordinates.
func (f *FilterWindow) OuterRect() (geometry.OuterRect, error) {
	geom, err := f.win.DecorGeometry()
	if err != nil {
		return geometry.OuterRect{}, fmt.Errorf("failed to query window geometry: %w", err)
	}

	return geometry.OuterRect{
		Left:   geom.X(),
		Top:    geom.Y(),
		Right:  geom.X() + geom.Width(),
		Bottom: geom.Y() + geom.Height(),
	}, nil
}

// OnButtonPress registers a callback for pointer clicks on the window. The
// callback receives root coordinates.
func (f *FilterWindow) OnButtonPress(fn func(x, y int)) {
	xevent.ButtonPressFun(
		func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
			if ev.Detail != 1 {
				return
			}
			fn(int(ev.RootX), int(ev.RootY))
		}).Connect(f.conn.XUtil, f.win.Id)
}

// Destroy unmaps and destroys the window.
func (f *FilterWindow) Destroy() {
	f.win.Destroy()
}

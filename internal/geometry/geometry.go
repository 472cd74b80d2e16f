// Package geometry converts between the client-area and outer-window
// coordinate spaces of the filter window. Every rectangle that crosses the
// client/outer boundary goes through this package; call sites never do the
// frame arithmetic themselves.
package geometry

// Minimum size of an interactively selected region, in pixels.
const (
	MinWidth  = 100
	MinHeight = 100
)

// Point is a position in screen coordinates.
type Point struct {
	X int
	Y int
}

// ClientRect is the drawable interior of the filter window, in screen
// coordinates, excluding frame decorations.
type ClientRect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// OuterRect is the full window rectangle including the title bar and frame
// borders, as reported by the window manager.
type OuterRect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// FrameMetrics holds the frame decoration sizes for the current window
// style. Constant for the lifetime of the window.
type FrameMetrics struct {
	TitleBarHeight int
	BorderWidth    int
	BorderHeight   int
}

func (r ClientRect) Width() int  { return r.Right - r.Left }
func (r ClientRect) Height() int { return r.Bottom - r.Top }

func (r OuterRect) Width() int  { return r.Right - r.Left }
func (r OuterRect) Height() int { return r.Bottom - r.Top }

// ToOuter expands a client rectangle to the outer window rectangle that
// places the client area exactly at the given screen position.
func ToOuter(c ClientRect, m FrameMetrics) OuterRect {
	return OuterRect{
		Left:   c.Left - m.BorderWidth,
		Top:    c.Top - m.TitleBarHeight - m.BorderHeight,
		Right:  c.Right + m.BorderWidth,
		Bottom: c.Bottom + m.BorderHeight,
	}
}

// ToClient is the exact inverse of ToOuter.
func ToClient(o OuterRect, m FrameMetrics) ClientRect {
	return ClientRect{
		Left:   o.Left + m.BorderWidth,
		Top:    o.Top + m.TitleBarHeight + m.BorderHeight,
		Right:  o.Right - m.BorderWidth,
		Bottom: o.Bottom - m.BorderHeight,
	}
}

// FromCorners builds the client rectangle spanned by two selection clicks.
// The result is normalized (left <= right, top <= bottom) and padded to the
// minimum size by extending the right/bottom edge only, so the first corner
// stays anchored.
func FromCorners(a, b Point) ClientRect {
	r := ClientRect{
		Left:   min(a.X, b.X),
		Top:    min(a.Y, b.Y),
		Right:  max(a.X, b.X),
		Bottom: max(a.Y, b.Y),
	}
	if r.Width() < MinWidth {
		r.Right = r.Left + MinWidth
	}
	if r.Height() < MinHeight {
		r.Bottom = r.Top + MinHeight
	}
	return r
}

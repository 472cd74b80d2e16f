package colormat

import (
	"math"
	"testing"
)

const epsilon = 1e-5

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

func TestCalculate_AllTogglesOffIsIdentity(t *testing.T) {
	m := Calculate(Settings{})
	if m != Identity() {
		t.Fatalf("expected identity matrix, got %v", m)
	}
}

func TestCalculate_InversionOnly(t *testing.T) {
	m := Calculate(Settings{InvertEnabled: true})

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := float32(0)
			if i == j {
				want = -1
			}
			if m[i][j] != want {
				t.Fatalf("m[%d][%d] = %v, want %v", i, j, m[i][j], want)
			}
		}
	}
	if m[4][0] != 1 || m[4][1] != 1 || m[4][2] != 1 {
		t.Fatalf("expected translation RGB (1,1,1), got (%v,%v,%v)", m[4][0], m[4][1], m[4][2])
	}
	if m[3][3] != 1 || m[4][4] != 1 {
		t.Fatalf("alpha/homogeneous entries must stay 1")
	}

	// 1 - value on every channel.
	r, g, b := m.Apply(0.25, 0.5, 1)
	if !approx(r, 0.75) || !approx(g, 0.5) || !approx(b, 0) {
		t.Fatalf("inversion applied wrong: (%v,%v,%v)", r, g, b)
	}
}

func TestCalculate_GrayscaleLuminanceVectors(t *testing.T) {
	m := Calculate(Settings{GrayscaleEnabled: true})

	// Pure red maps to its luminance on all three channels.
	r, g, b := m.Apply(1, 0, 0)
	if !approx(r, 0.299) || !approx(g, 0.299) || !approx(b, 0.299) {
		t.Fatalf("red vector: (%v,%v,%v)", r, g, b)
	}

	// Pure green.
	r, g, b = m.Apply(0, 1, 0)
	if !approx(r, 0.587) || !approx(g, 0.587) || !approx(b, 0.587) {
		t.Fatalf("green vector: (%v,%v,%v)", r, g, b)
	}

	// White stays white: the weights sum to 1.
	r, g, b = m.Apply(1, 1, 1)
	if !approx(r, 1) || !approx(g, 1) || !approx(b, 1) {
		t.Fatalf("white vector: (%v,%v,%v)", r, g, b)
	}
}

func TestCalculate_GrayscaleThenInversionOrder(t *testing.T) {
	m := Calculate(Settings{InvertEnabled: true, GrayscaleEnabled: true})

	// Inversion negates the grayscale rows, not the identity.
	if !approx(m[0][0], -0.299) || !approx(m[1][0], -0.587) || !approx(m[2][0], -0.114) {
		t.Fatalf("expected negated luminance column, got (%v,%v,%v)", m[0][0], m[1][0], m[2][0])
	}

	// Black becomes white, white becomes black.
	r, g, b := m.Apply(0, 0, 0)
	if !approx(r, 1) || !approx(g, 1) || !approx(b, 1) {
		t.Fatalf("black should invert to white: (%v,%v,%v)", r, g, b)
	}
	r, g, b = m.Apply(1, 1, 1)
	if !approx(r, 0) || !approx(g, 0) || !approx(b, 0) {
		t.Fatalf("white should invert to black: (%v,%v,%v)", r, g, b)
	}
}

func TestCalculate_BrightnessScalesRGBBlock(t *testing.T) {
	m := Calculate(Settings{GrayLevel: 1})
	if !approx(m[0][0], 0.8) || !approx(m[1][1], 0.8) || !approx(m[2][2], 0.8) {
		t.Fatalf("expected 0.8 diagonal, got (%v,%v,%v)", m[0][0], m[1][1], m[2][2])
	}
	// Translation row untouched without inversion.
	if m[4][0] != 0 || m[4][1] != 0 || m[4][2] != 0 {
		t.Fatalf("translation row should be zero without inversion")
	}
}

func TestCalculate_BrightnessScalesInvertedWhitePoint(t *testing.T) {
	m := Calculate(Settings{InvertEnabled: true, GrayLevel: 3})
	if !approx(m[0][0], -0.4) {
		t.Fatalf("expected -0.4 diagonal, got %v", m[0][0])
	}
	if !approx(m[4][0], 0.4) || !approx(m[4][1], 0.4) || !approx(m[4][2], 0.4) {
		t.Fatalf("expected scaled white point 0.4, got (%v,%v,%v)", m[4][0], m[4][1], m[4][2])
	}

	// Inverted black dims to the scaled white point.
	r, g, b := m.Apply(0, 0, 0)
	if !approx(r, 0.4) || !approx(g, 0.4) || !approx(b, 0.4) {
		t.Fatalf("dimmed inversion wrong: (%v,%v,%v)", r, g, b)
	}
}

func TestSettings_BrightnessTable(t *testing.T) {
	want := []int{100, 80, 60, 40}
	for level, pct := range want {
		s := Settings{GrayLevel: level}
		if got := s.BrightnessPercent(); got != pct {
			t.Fatalf("level %d: expected %d%%, got %d%%", level, pct, got)
		}
	}
	// Out-of-range levels fall back to full brightness.
	if (Settings{GrayLevel: 7}).Brightness() != 1 {
		t.Fatalf("out-of-range gray level should read as full brightness")
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if !s.InvertEnabled || s.GrayscaleEnabled || s.GrayLevel != 0 {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}

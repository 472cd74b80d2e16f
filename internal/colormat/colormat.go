// Package colormat computes the 5x5 color transform matrix applied to the
// filtered region. The matrix uses the row-vector convention: a pixel
// [r g b a 1] is multiplied from the left, rows 0-3 weight the input
// channels and row 4 is the translation row.
package colormat

// GrayLevels is the number of brightness steps CycleWhiteLevel moves through.
const GrayLevels = 4

// brightness factor per gray level: 100%, 80%, 60%, 40%.
var brightness = [GrayLevels]float32{1.0, 0.8, 0.6, 0.4}

// Luminance weights for RGB to grayscale conversion (ITU-R BT.601).
const (
	lumRed   = 0.299
	lumGreen = 0.587
	lumBlue  = 0.114
)

// Settings holds the three independent color effect toggles.
type Settings struct {
	InvertEnabled    bool
	GrayscaleEnabled bool
	GrayLevel        int // 0-3, indexes the brightness table
}

// DefaultSettings is what a freshly completed selection starts with:
// inversion on, grayscale off, full brightness.
func DefaultSettings() Settings {
	return Settings{InvertEnabled: true}
}

// Brightness returns the scale factor for the current gray level.
func (s Settings) Brightness() float32 {
	if s.GrayLevel < 0 || s.GrayLevel >= GrayLevels {
		return brightness[0]
	}
	return brightness[s.GrayLevel]
}

// BrightnessPercent returns the brightness as a whole percentage for
// status output.
func (s Settings) BrightnessPercent() int {
	return int(s.Brightness()*100 + 0.5)
}

// Matrix is a 5x5 color transform: a 4x4 color/alpha block plus a
// translation row.
type Matrix [5][5]float32

// Identity returns the no-op transform.
func Identity() Matrix {
	var m Matrix
	for i := 0; i < 5; i++ {
		m[i][i] = 1
	}
	return m
}

// Calculate derives the transform for the given settings. The composition
// order is fixed: grayscale rows first, then inversion, then brightness
// scaling. Later steps operate on the values produced by earlier ones, so
// the steps must not be reordered.
func Calculate(s Settings) Matrix {
	m := Identity()

	if s.GrayscaleEnabled {
		// Every output channel becomes the same luminance value:
		// row i contributes weight(i) to each of the RGB outputs.
		weights := [3]float32{lumRed, lumGreen, lumBlue}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				m[i][j] = weights[i]
			}
		}
	}

	if s.InvertEnabled {
		// Negate the RGB block and shift by 1 so the output is 1-value.
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				m[i][j] = -m[i][j]
			}
		}
		m[4][0] = 1
		m[4][1] = 1
		m[4][2] = 1
	}

	if scale := s.Brightness(); scale != 1 {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				m[i][j] *= scale
			}
		}
		// The inverted white point dims with the same factor.
		if s.InvertEnabled {
			m[4][0] *= scale
			m[4][1] *= scale
			m[4][2] *= scale
		}
	}

	return m
}

// Apply transforms a single RGB triple through the matrix. Channel values
// are in [0,1]. Used by tests and by the TUI preview.
func (m Matrix) Apply(r, g, b float32) (float32, float32, float32) {
	in := [5]float32{r, g, b, 1, 1}
	var out [3]float32
	for j := 0; j < 3; j++ {
		var sum float32
		for i := 0; i < 5; i++ {
			sum += in[i] * m[i][j]
		}
		out[j] = sum
	}
	return out[0], out[1], out[2]
}

package scout

import (
	"image"
	"image/color"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SynthParams controls the synthetic scout phantom. The generator draws an
// elliptical body outline with a brighter spine column down the z-axis and
// Gaussian detector noise on top, which is enough anatomy for planning a
// z-range and FOV against.
type SynthParams struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	BodyWidth  float64 `yaml:"body_width"`  // body half-width as fraction of frame width
	SpineWidth float64 `yaml:"spine_width"` // spine half-width as fraction of frame width
	NoiseSigma float64 `yaml:"noise_sigma"` // detector noise stddev in gray levels
	Seed       uint64  `yaml:"seed"`
}

// DefaultSynthParams returns a plausible adult-torso phantom.
func DefaultSynthParams() SynthParams {
	return SynthParams{
		Width:      800,
		Height:     1000,
		BodyWidth:  0.35,
		SpineWidth: 0.04,
		NoiseSigma: 6,
		Seed:       1,
	}
}

// Synthesize renders a synthetic scout image from the phantom parameters.
func Synthesize(p SynthParams) *Image {
	gray := image.NewGray(image.Rect(0, 0, p.Width, p.Height))

	noise := distuv.Normal{Mu: 0, Sigma: p.NoiseSigma}
	if p.Seed != 0 {
		noise.Src = rand.NewSource(p.Seed)
	}

	cx := float64(p.Width) / 2
	bodyHW := p.BodyWidth * float64(p.Width)
	spineHW := p.SpineWidth * float64(p.Width)

	for y := 0; y < p.Height; y++ {
		// Body half-width tapers toward the top (shoulders) and bottom.
		t := float64(y) / float64(p.Height)
		taper := 0.75 + 0.25*math.Sin(math.Pi*t)
		hw := bodyHW * taper

		for x := 0; x < p.Width; x++ {
			d := math.Abs(float64(x) - cx)

			var v float64
			switch {
			case d < spineHW:
				v = 210 // spine column
			case d < hw:
				// Attenuation falls off toward the body edge.
				v = 150 * math.Sqrt(1-(d/hw)*(d/hw))
			default:
				v = 20 // air / table
			}

			v += noise.Rand()
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			gray.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}

	return NewImage(gray)
}

// AutoWindow sets the display window from the 5th and 95th intensity
// percentiles of the scout pixels, which keeps the anatomy visible
// regardless of the phantom or file contents.
func (s *Image) AutoWindow() {
	pix := s.Gray.Pix
	if len(pix) == 0 {
		return
	}

	values := make([]float64, len(pix))
	for i, v := range pix {
		values[i] = float64(v)
	}
	sort.Float64s(values)

	lo := stat.Quantile(0.05, stat.Empirical, values, nil)
	hi := stat.Quantile(0.95, stat.Empirical, values, nil)
	if hi-lo < 1 {
		hi = lo + 1
	}

	s.WindowCenter = (lo + hi) / 2
	s.WindowWidth = hi - lo
}

// Package scout provides scout (topogram) image handling: the pixel frame
// the planning geometry is expressed in, image loading, display windowing,
// and a synthetic scout generator used by the simulator.
package scout

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"ct-console/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// Frame is the pixel extent of a scout image. It is immutable once a scout
// acquisition completes for a case; the planning geometry is clamped
// against it.
type Frame struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether the frame has a positive extent.
func (f Frame) Valid() bool { return f.Width > 0 && f.Height > 0 }

// Size returns the frame extent as a float size.
func (f Frame) Size() geometry.Size {
	return geometry.Size{Width: float64(f.Width), Height: float64(f.Height)}
}

// Image holds a scout image together with its display windowing. The raw
// pixel data never changes after acquisition; only the window mapping does.
type Image struct {
	Path  string      // Source file path, empty for synthetic scouts
	Gray  *image.Gray // Raw scout pixel data
	Frame Frame

	// Display window (window/level in 8-bit display units)
	WindowCenter float64
	WindowWidth  float64
}

// NewImage wraps raw scout pixels with a full-range display window.
func NewImage(gray *image.Gray) *Image {
	b := gray.Bounds()
	return &Image{
		Gray:         gray,
		Frame:        Frame{Width: b.Dx(), Height: b.Dy()},
		WindowCenter: 128,
		WindowWidth:  256,
	}
}

// Load reads a scout image from disk. PNG, JPEG, and TIFF are accepted;
// color input is collapsed to grayscale.
func Load(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scout image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode scout image: %w", err)
	}

	si := NewImage(toGray(img))
	si.Path = path
	return si, nil
}

// Display returns the pixel value after window/level mapping, for the
// presentation layer to render.
func (s *Image) Display(x, y int) uint8 {
	b := s.Gray.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return 0
	}
	v := float64(s.Gray.GrayAt(x, y).Y)

	lo := s.WindowCenter - s.WindowWidth/2
	if s.WindowWidth <= 0 {
		return 0
	}
	out := (v - lo) / s.WindowWidth * 255
	return uint8(geometry.Clamp(out, 0, 255))
}

// toGray converts any decoded image to 8-bit grayscale.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x+b.Min.X, y+b.Min.Y)))
		}
	}
	return gray
}

// SupportedFormats returns the accepted scout file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}
}

// IsSupportedFormat checks if the file extension is a loadable scout format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range SupportedFormats() {
		if ext == f {
			return true
		}
	}
	return false
}

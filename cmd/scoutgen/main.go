// Command scoutgen renders a synthetic scout image to a PNG file, with an
// optional downscaled thumbnail. Useful for building catalog entries that
// load scouts from disk instead of synthesizing them at selection time.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"ct-console/internal/scout"

	xdraw "golang.org/x/image/draw"
)

func main() {
	out := flag.String("out", "scout.png", "Output PNG path")
	width := flag.Int("width", 800, "Scout width in pixels")
	height := flag.Int("height", 1000, "Scout height in pixels")
	bodyWidth := flag.Float64("body", 0.35, "Body half-width as a fraction of frame width")
	noise := flag.Float64("noise", 6, "Detector noise sigma in gray levels")
	seed := flag.Uint64("seed", 1, "Phantom noise seed")
	thumb := flag.Int("thumb", 0, "If > 0, also write a thumbnail of this width to <out>.thumb.png")
	flag.Parse()

	params := scout.DefaultSynthParams()
	params.Width = *width
	params.Height = *height
	params.BodyWidth = *bodyWidth
	params.NoiseSigma = *noise
	params.Seed = *seed

	img := scout.Synthesize(params)

	if err := writePNG(*out, img.Gray); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", *out, params.Width, params.Height)

	if *thumb > 0 {
		thumbH := *thumb * params.Height / params.Width
		dst := image.NewGray(image.Rect(0, 0, *thumb, thumbH))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img.Gray, img.Gray.Bounds(), xdraw.Src, nil)

		thumbPath := *out + ".thumb.png"
		if err := writePNG(thumbPath, dst); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", thumbPath, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%dx%d)\n", thumbPath, *thumb, thumbH)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

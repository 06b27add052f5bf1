package scoutview

import (
	"image"
	"image/color"

	"ct-console/internal/planning"
)

var (
	lineColor    = color.RGBA{R: 0x00, G: 0xB8, B: 0xD4, A: 0xFF} // cyan, z-range lines
	fovColor     = color.RGBA{R: 0xFF, G: 0xD5, B: 0x00, A: 0xFF} // yellow, FOV box
	activeColor  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF} // grabbed handle
	handleHalfPx = 5
)

// charPatterns contains 3x5 pixel patterns for the overlay labels.
// Each character is represented as 5 rows of 3 bits.
var charPatterns = map[rune][5]uint8{
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
}

// drawPlanning draws the z-range lines, the FOV box, and their grab handles
// onto the output image. Geometry is converted from scout pixels to output
// pixels with a per-axis scale.
func drawPlanning(output *image.RGBA, session *planning.Session, active planning.Handle) {
	b := output.Bounds()
	frame := session.Frame()
	if frame.Width == 0 || frame.Height == 0 {
		return
	}
	sx := float64(b.Dx()) / float64(frame.Width)
	sy := float64(b.Dy()) / float64(frame.Height)

	lines := session.Lines()
	fov := session.FOV()

	left := int(fov.XMin * sx)
	right := int(fov.XMax * sx)
	top := int(fov.YMin * sy)
	bottom := int(fov.YMax * sy)

	// FOV box under the lines
	drawRectOutline(output, left, top, right, bottom, pickColor(fovColor, active, planning.HandleFOVMove))

	// Edge handles at the midpoints
	midX := (left + right) / 2
	midY := (top + bottom) / 2
	drawHandle(output, left, midY, pickColor(fovColor, active, planning.HandleFOVLeft))
	drawHandle(output, right, midY, pickColor(fovColor, active, planning.HandleFOVRight))
	drawHandle(output, midX, top, pickColor(fovColor, active, planning.HandleFOVTop))
	drawHandle(output, midX, bottom, pickColor(fovColor, active, planning.HandleFOVBottom))

	// Z-range lines span the full width
	startY := int(lines.StartY * sy)
	endY := int(lines.EndY * sy)
	drawHLine(output, startY, pickColor(lineColor, active, planning.HandleStartLine))
	drawHLine(output, endY, pickColor(lineColor, active, planning.HandleEndLine))

	drawLabel(output, "S", 4, startY-8, lineColor)
	drawLabel(output, "E", 4, endY+3, lineColor)
	drawLabel(output, "FOV", right-16, top-8, fovColor)
}

func pickColor(base color.RGBA, active, h planning.Handle) color.RGBA {
	if active == h {
		return activeColor
	}
	return base
}

// drawHLine draws a 2px horizontal line across the full output width.
func drawHLine(output *image.RGBA, y int, col color.RGBA) {
	b := output.Bounds()
	for dy := 0; dy < 2; dy++ {
		yy := y + dy
		if yy < b.Min.Y || yy >= b.Max.Y {
			continue
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			output.SetRGBA(x, yy, col)
		}
	}
}

// drawRectOutline draws a 2px rectangle outline.
func drawRectOutline(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	for t := 0; t < 2; t++ {
		drawSegmentH(output, x1, x2, y1+t, col)
		drawSegmentH(output, x1, x2, y2-t, col)
		drawSegmentV(output, y1, y2, x1+t, col)
		drawSegmentV(output, y1, y2, x2-t, col)
	}
}

func drawSegmentH(output *image.RGBA, x1, x2, y int, col color.RGBA) {
	b := output.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	for x := x1; x <= x2; x++ {
		if x >= b.Min.X && x < b.Max.X {
			output.SetRGBA(x, y, col)
		}
	}
}

func drawSegmentV(output *image.RGBA, y1, y2, x int, col color.RGBA) {
	b := output.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	for y := y1; y <= y2; y++ {
		if y >= b.Min.Y && y < b.Max.Y {
			output.SetRGBA(x, y, col)
		}
	}
}

// drawHandle draws a filled square grab handle centered at (cx, cy).
func drawHandle(output *image.RGBA, cx, cy int, col color.RGBA) {
	b := output.Bounds()
	for y := cy - handleHalfPx; y <= cy+handleHalfPx; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for x := cx - handleHalfPx; x <= cx+handleHalfPx; x++ {
			if x >= b.Min.X && x < b.Max.X {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLabel draws a short uppercase label with the 3x5 bitmap font at 2x
// scale.
func drawLabel(output *image.RGBA, label string, x, y int, col color.RGBA) {
	const scale = 2
	b := output.Bounds()
	cx := x
	for _, ch := range label {
		pattern, ok := charPatterns[ch]
		if !ok {
			cx += 4 * scale
			continue
		}
		for row := 0; row < 5; row++ {
			for bit := 0; bit < 3; bit++ {
				if pattern[row]&(1<<(2-bit)) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := cx + bit*scale + dx
						py := y + row*scale + dy
						if px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y {
							output.SetRGBA(px, py, col)
						}
					}
				}
			}
		}
		cx += 4 * scale
	}
}

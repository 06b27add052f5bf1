// Package scoutview provides the interactive scout display: the scout
// raster with the planning overlay, and the pointer-drag mapping onto the
// planning controller.
package scoutview

import (
	"image"

	"ct-console/internal/planning"
	"ct-console/internal/scout"
	"ct-console/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// handleHitRadius is the pick tolerance around lines and edges, in display
// pixels.
const handleHitRadius = 8.0

// View displays a scout image stretched to the widget size with the
// planning geometry drawn on top. Drags on a line, FOV edge, or the box
// body are forwarded to the planning controller; everything else about the
// geometry lives outside the widget.
type View struct {
	widget.BaseWidget

	scout *scout.Image
	drag  *planning.Controller

	raster *fynecanvas.Raster
}

var _ fyne.Draggable = (*View)(nil)
var _ desktop.Hoverable = (*View)(nil)

// New creates an empty scout view.
func New() *View {
	v := &View{}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScaleSmooth
	v.ExtendBaseWidget(v)
	return v
}

// SetScout sets the scout image to display; nil clears the view.
func (v *View) SetScout(img *scout.Image) {
	v.scout = img
	v.Refresh()
}

// SetController sets the planning controller drags are forwarded to; nil
// disables interaction.
func (v *View) SetController(c *planning.Controller) {
	v.drag = c
	v.Refresh()
}

// Refresh redraws the raster.
func (v *View) Refresh() {
	v.raster.Refresh()
	v.BaseWidget.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (v *View) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize keeps the view usable in the window layout.
func (v *View) MinSize() fyne.Size {
	return fyne.NewSize(300, 400)
}

// Dragged forwards pointer drags to the controller. The first event of a
// gesture hit-tests the grab position and starts the drag; subsequent
// events move it. A drag that starts on empty image area is ignored.
func (v *View) Dragged(ev *fyne.DragEvent) {
	if v.drag == nil {
		return
	}

	pos := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	size := v.displaySize()

	if !v.drag.Dragging() {
		// The drag event position already includes the first delta;
		// hit-test where the gesture began.
		start := geometry.NewPoint2D(
			pos.X-float64(ev.Dragged.DX),
			pos.Y-float64(ev.Dragged.DY),
		)
		if !v.drag.PointerDown(v.hitTest(start, size), start) {
			return
		}
	}
	v.drag.PointerMove(pos, size)
	v.Refresh()
}

// DragEnd releases the active handle and lets the controller fire its
// commit.
func (v *View) DragEnd() {
	if v.drag == nil {
		return
	}
	v.drag.PointerUp()
	v.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (v *View) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (v *View) MouseMoved(*desktop.MouseEvent) {}

// MouseOut ends any active drag; leaving the interaction surface is treated
// as releasing the pointer.
func (v *View) MouseOut() {
	if v.drag == nil {
		return
	}
	v.drag.PointerLeave()
	v.Refresh()
}

// displaySize returns the widget extent the scout is stretched into.
func (v *View) displaySize() geometry.Size {
	s := v.Size()
	return geometry.NewSize(float64(s.Width), float64(s.Height))
}

// hitTest resolves a display position to the handle under it. Lines win
// over FOV edges, edges win over the box body, matching the visual stacking
// of the overlay.
func (v *View) hitTest(pos geometry.Point2D, size geometry.Size) planning.Handle {
	if v.drag == nil || size.Width <= 0 || size.Height <= 0 {
		return planning.HandleNone
	}
	session := v.drag.Session()
	frame := session.Frame()
	sx := size.Width / float64(frame.Width)
	sy := size.Height / float64(frame.Height)

	lines := session.Lines()
	if absf(pos.Y-lines.StartY*sy) <= handleHitRadius {
		return planning.HandleStartLine
	}
	if absf(pos.Y-lines.EndY*sy) <= handleHitRadius {
		return planning.HandleEndLine
	}

	fov := session.FOV()
	left := fov.XMin * sx
	right := fov.XMax * sx
	top := fov.YMin * sy
	bottom := fov.YMax * sy
	insideY := pos.Y >= top-handleHitRadius && pos.Y <= bottom+handleHitRadius
	insideX := pos.X >= left-handleHitRadius && pos.X <= right+handleHitRadius

	switch {
	case insideY && absf(pos.X-left) <= handleHitRadius:
		return planning.HandleFOVLeft
	case insideY && absf(pos.X-right) <= handleHitRadius:
		return planning.HandleFOVRight
	case insideX && absf(pos.Y-top) <= handleHitRadius:
		return planning.HandleFOVTop
	case insideX && absf(pos.Y-bottom) <= handleHitRadius:
		return planning.HandleFOVBottom
	case pos.X > left && pos.X < right && pos.Y > top && pos.Y < bottom:
		return planning.HandleFOVMove
	}
	return planning.HandleNone
}

// draw is the raster drawing function: the windowed scout stretched to the
// output size, then the planning overlay.
func (v *View) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Opaque black background
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	if v.scout == nil || w == 0 || h == 0 {
		return output
	}

	frame := v.scout.Frame
	for y := 0; y < h; y++ {
		srcY := y * frame.Height / h
		for x := 0; x < w; x++ {
			srcX := x * frame.Width / w
			g := v.scout.Display(srcX, srcY)
			i := output.PixOffset(x, y)
			output.Pix[i] = g
			output.Pix[i+1] = g
			output.Pix[i+2] = g
		}
	}

	if v.drag != nil {
		drawPlanning(output, v.drag.Session(), v.drag.ActiveHandle())
	}
	return output
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

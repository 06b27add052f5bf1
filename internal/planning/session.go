package planning

import (
	"math"

	"ct-console/internal/scout"
	"ct-console/pkg/geometry"
)

// Default placement of a fresh plan, as fractions of the scout frame.
const (
	defaultLineInset = 0.2 // start/end lines at 20% / 80% of frame height
	defaultFOVInset  = 0.2 // FOV inset from each vertical frame edge
)

// Snapshot is the immutable view of a session handed to the persistence and
// reconstruction collaborators. Pixel coordinates are rounded to integers at
// this boundary only; internal session state stays floating-point so drags
// remain smooth.
type Snapshot struct {
	StartY      int `json:"start_y"`
	EndY        int `json:"end_y"`
	FrameHeight int `json:"frame_height"`
	FOVXMin     int `json:"fov_x_min"`
	FOVXMax     int `json:"fov_x_max"`
	FOVYMin     int `json:"fov_y_min"`
	FOVYMax     int `json:"fov_y_max"`
}

// WellFormed reports whether the snapshot carries a usable z-range.
// Both bounds must be present and separated by at least MinGap inside a
// positive frame.
func (s Snapshot) WellFormed() bool {
	return s.FrameHeight > 0 &&
		s.StartY >= 0 &&
		s.EndY-s.StartY >= int(MinGap) &&
		s.EndY <= s.FrameHeight
}

// Session holds the planning geometry for exactly one case: the z-range
// line pair and the FOV box, in pixel coordinates of the owning scout frame.
// It is mutated only through the drag controller or Reset; all mutation runs
// on the UI event thread, so no locking is needed.
type Session struct {
	frame scout.Frame
	lines Lines
	fov   FOVRect
}

// NewSession creates a session with the default plan for the given frame.
func NewSession(frame scout.Frame) *Session {
	s := &Session{}
	s.Reset(frame)
	return s
}

// Frame returns the scout frame the session geometry is expressed in.
func (s *Session) Frame() scout.Frame { return s.frame }

// Lines returns the current z-range line positions.
func (s *Session) Lines() Lines { return s.lines }

// FOV returns the current field-of-view box.
func (s *Session) FOV() FOVRect { return s.fov }

// Reset re-initializes the geometry for a new scout frame: lines at 20% and
// 80% of the frame height, FOV inset by 20% of the frame width on each side
// and spanning the full z-range vertically.
func (s *Session) Reset(frame scout.Frame) {
	s.frame = frame
	h := float64(frame.Height)
	w := float64(frame.Width)

	s.lines = Lines{
		StartY: defaultLineInset * h,
		EndY:   (1 - defaultLineInset) * h,
	}
	s.fov = FOVRect{
		XMin: defaultFOVInset * w,
		XMax: (1 - defaultFOVInset) * w,
		YMin: s.lines.StartY,
		YMax: s.lines.EndY,
	}
}

// MoveStartLine moves the upper z-range line to newY, clamped, and keeps the
// FOV top edge synchronized with it.
func (s *Session) MoveStartLine(newY float64) {
	candidate := Lines{StartY: newY, EndY: s.lines.EndY}
	s.lines = ClampLines(candidate, float64(s.frame.Height), LineStart)
	s.fov.YMin = s.lines.StartY
}

// MoveEndLine moves the lower z-range line to newY, clamped, and keeps the
// FOV bottom edge synchronized with it.
func (s *Session) MoveEndLine(newY float64) {
	candidate := Lines{StartY: s.lines.StartY, EndY: newY}
	s.lines = ClampLines(candidate, float64(s.frame.Height), LineEnd)
	s.fov.YMax = s.lines.EndY
}

// MoveFOV translates the whole box by (dx, dy) pixels, keeping its size
// fixed and staying inside the frame. Translation has no gap concern. The
// vertical component carries the z-range lines along with the box.
func (s *Session) MoveFOV(dx, dy float64) {
	w := s.fov.Width()
	h := s.fov.Height()
	fw := float64(s.frame.Width)
	fh := float64(s.frame.Height)

	xMin := geometry.Clamp(s.fov.XMin+dx, 0, fw-w)
	yMin := geometry.Clamp(s.fov.YMin+dy, 0, fh-h)

	s.fov = FOVRect{XMin: xMin, XMax: xMin + w, YMin: yMin, YMax: yMin + h}
	s.lines = Lines{StartY: yMin, EndY: yMin + h}
}

// ResizeFOVEdge moves one edge of the box to newValue, clamped. A top or
// bottom edge resize also moves the corresponding z-range line; lines and
// box are coupled on the vertical axis in both directions.
func (s *Session) ResizeFOVEdge(edge RectEdge, newValue float64) {
	candidate := s.fov
	switch edge {
	case EdgeLeft:
		candidate.XMin = newValue
	case EdgeRight:
		candidate.XMax = newValue
	case EdgeTop:
		candidate.YMin = newValue
	case EdgeBottom:
		candidate.YMax = newValue
	}
	s.fov = ClampRect(candidate, float64(s.frame.Width), float64(s.frame.Height), edge)

	switch edge {
	case EdgeTop:
		s.lines.StartY = s.fov.YMin
	case EdgeBottom:
		s.lines.EndY = s.fov.YMax
	}
}

// Snapshot returns the rounded, immutable view used for persistence and
// reconstruction.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		StartY:      int(math.Round(s.lines.StartY)),
		EndY:        int(math.Round(s.lines.EndY)),
		FrameHeight: s.frame.Height,
		FOVXMin:     int(math.Round(s.fov.XMin)),
		FOVXMax:     int(math.Round(s.fov.XMax)),
		FOVYMin:     int(math.Round(s.fov.YMin)),
		FOVYMax:     int(math.Round(s.fov.YMax)),
	}
}

// Restore overwrites the session geometry from a previously persisted
// snapshot, normalizing it against the current frame.
func (s *Session) Restore(snap Snapshot) {
	fw := float64(s.frame.Width)
	fh := float64(s.frame.Height)

	lines := Lines{StartY: float64(snap.StartY), EndY: float64(snap.EndY)}
	s.lines = ClampLines(lines, fh, LineEnd)

	rect := FOVRect{
		XMin: float64(snap.FOVXMin),
		XMax: float64(snap.FOVXMax),
		YMin: s.lines.StartY,
		YMax: s.lines.EndY,
	}
	s.fov = NormalizeRect(rect, fw, fh)
}

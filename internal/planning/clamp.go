// Package planning implements the scout planning geometry: the z-range
// boundary lines, the field-of-view box, and the drag interaction that
// positions them on a scout image.
package planning

import (
	"ct-console/pkg/geometry"
)

// MinGap is the minimum separation, in scout image pixels, between the two
// z-range lines and between opposing FOV edges.
const MinGap = 20.0

// LineHandle identifies which z-range line is being moved.
type LineHandle int

const (
	LineStart LineHandle = iota
	LineEnd
)

// RectEdge identifies one edge of the FOV rectangle.
type RectEdge int

const (
	EdgeLeft RectEdge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e RectEdge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Lines holds the two z-range boundary positions in scout pixel units.
type Lines struct {
	StartY float64 `json:"start_y"`
	EndY   float64 `json:"end_y"`
}

// FOVRect holds the field-of-view box edges in scout pixel units.
type FOVRect struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// Width returns the horizontal extent of the box.
func (r FOVRect) Width() float64 { return r.XMax - r.XMin }

// Height returns the vertical extent of the box.
func (r FOVRect) Height() float64 { return r.YMax - r.YMin }

// ClampLines corrects a candidate line pair against the frame height.
// The moved line yields to the stationary one: moving the start line up
// against the end line stops at EndY-MinGap, and vice versa. Out-of-range
// input is silently corrected; a drag gesture must never see an error.
func ClampLines(lines Lines, frameHeight float64, moved LineHandle) Lines {
	switch moved {
	case LineStart:
		lines.EndY = geometry.Clamp(lines.EndY, MinGap, frameHeight)
		lines.StartY = geometry.Clamp(lines.StartY, 0, lines.EndY-MinGap)
	default:
		lines.StartY = geometry.Clamp(lines.StartY, 0, frameHeight-MinGap)
		lines.EndY = geometry.Clamp(lines.EndY, lines.StartY+MinGap, frameHeight)
	}
	return lines
}

// ClampRect corrects a candidate FOV box against the frame extent. The gap
// constraint against the opposite edge is applied after the frame bounds, so
// it takes precedence when a single edge move would violate both.
func ClampRect(rect FOVRect, frameWidth, frameHeight float64, moved RectEdge) FOVRect {
	switch moved {
	case EdgeLeft:
		rect.XMin = geometry.Clamp(rect.XMin, 0, frameWidth)
		rect.XMin = geometry.Clamp(rect.XMin, 0, rect.XMax-MinGap)
	case EdgeRight:
		rect.XMax = geometry.Clamp(rect.XMax, 0, frameWidth)
		rect.XMax = geometry.Clamp(rect.XMax, rect.XMin+MinGap, frameWidth)
	case EdgeTop:
		rect.YMin = geometry.Clamp(rect.YMin, 0, frameHeight)
		rect.YMin = geometry.Clamp(rect.YMin, 0, rect.YMax-MinGap)
	case EdgeBottom:
		rect.YMax = geometry.Clamp(rect.YMax, 0, frameHeight)
		rect.YMax = geometry.Clamp(rect.YMax, rect.YMin+MinGap, frameHeight)
	}
	return rect
}

// NormalizeRect corrects every edge of a box of unknown provenance, e.g.
// loaded from disk. Each edge is clamped against its opposite with MinGap,
// then against the frame, left-to-right and top-to-bottom.
func NormalizeRect(rect FOVRect, frameWidth, frameHeight float64) FOVRect {
	rect = ClampRect(rect, frameWidth, frameHeight, EdgeLeft)
	rect = ClampRect(rect, frameWidth, frameHeight, EdgeRight)
	rect = ClampRect(rect, frameWidth, frameHeight, EdgeTop)
	rect = ClampRect(rect, frameWidth, frameHeight, EdgeBottom)
	return rect
}

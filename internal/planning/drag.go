package planning

import (
	"log"

	"ct-console/pkg/geometry"
)

// Handle identifies what the pointer grabbed: one of the z-range lines, the
// FOV box body, or one of its edges.
type Handle int

const (
	HandleNone Handle = iota
	HandleStartLine
	HandleEndLine
	HandleFOVMove
	HandleFOVLeft
	HandleFOVRight
	HandleFOVTop
	HandleFOVBottom
)

func (h Handle) String() string {
	switch h {
	case HandleStartLine:
		return "start-line"
	case HandleEndLine:
		return "end-line"
	case HandleFOVMove:
		return "fov-move"
	case HandleFOVLeft:
		return "fov-left"
	case HandleFOVRight:
		return "fov-right"
	case HandleFOVTop:
		return "fov-top"
	case HandleFOVBottom:
		return "fov-bottom"
	default:
		return "none"
	}
}

// CommitFunc persists a planning snapshot. It is called from a background
// goroutine on drag release; the error is logged, never surfaced to the
// gesture.
type CommitFunc func(Snapshot) error

// Controller maps pointer gestures in display coordinates onto session
// mutations in scout pixel coordinates. It is a two-state machine: idle, or
// dragging exactly one handle. Every move derives the candidate value from
// the anchor captured at pointer-down plus the accumulated delta, never from
// the live session value, so rapid event streams cannot drift.
type Controller struct {
	session *Session

	enabled func() bool // dragging is refused while planning is not active
	commit  CommitFunc

	handle      Handle
	startPos    geometry.Point2D // display position at pointer-down
	anchorLines Lines
	anchorFOV   FOVRect
}

// NewController creates an idle controller for the given session.
func NewController(session *Session) *Controller {
	return &Controller{session: session, handle: HandleNone}
}

// SetEnabled installs the gate consulted at pointer-down. A nil gate leaves
// dragging always enabled.
func (c *Controller) SetEnabled(gate func() bool) {
	c.enabled = gate
}

// OnCommit installs the persistence call fired on drag release.
func (c *Controller) OnCommit(fn CommitFunc) {
	c.commit = fn
}

// Session returns the session this controller mutates.
func (c *Controller) Session() *Session { return c.session }

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.handle != HandleNone }

// ActiveHandle returns the handle being dragged, or HandleNone.
func (c *Controller) ActiveHandle() Handle { return c.handle }

// PointerDown starts a drag on the given handle. The current session values
// are captured as the anchor. A pointer-down while already dragging, or
// while the gate refuses, is ignored; the return value reports whether the
// drag started.
func (c *Controller) PointerDown(h Handle, displayPos geometry.Point2D) bool {
	if c.handle != HandleNone {
		return false
	}
	if h == HandleNone {
		return false
	}
	if c.enabled != nil && !c.enabled() {
		return false
	}

	c.handle = h
	c.startPos = displayPos
	c.anchorLines = c.session.Lines()
	c.anchorFOV = c.session.FOV()
	return true
}

// PointerMove updates the dragged quantity. displaySize is the current size
// of the interaction surface; the display-space delta is converted to scout
// pixels with a per-axis scale of frame size over display size.
func (c *Controller) PointerMove(displayPos geometry.Point2D, displaySize geometry.Size) {
	if c.handle == HandleNone {
		return
	}
	if displaySize.Width <= 0 || displaySize.Height <= 0 {
		return
	}

	frame := c.session.Frame()
	scaleX := float64(frame.Width) / displaySize.Width
	scaleY := float64(frame.Height) / displaySize.Height

	dx := (displayPos.X - c.startPos.X) * scaleX
	dy := (displayPos.Y - c.startPos.Y) * scaleY

	switch c.handle {
	case HandleStartLine:
		c.session.MoveStartLine(c.anchorLines.StartY + dy)
	case HandleEndLine:
		c.session.MoveEndLine(c.anchorLines.EndY + dy)
	case HandleFOVMove:
		// MoveFOV takes a delta from the live position; express the
		// anchor-based target as such a delta.
		fov := c.session.FOV()
		c.session.MoveFOV(c.anchorFOV.XMin+dx-fov.XMin, c.anchorFOV.YMin+dy-fov.YMin)
	case HandleFOVLeft:
		c.session.ResizeFOVEdge(EdgeLeft, c.anchorFOV.XMin+dx)
	case HandleFOVRight:
		c.session.ResizeFOVEdge(EdgeRight, c.anchorFOV.XMax+dx)
	case HandleFOVTop:
		c.session.ResizeFOVEdge(EdgeTop, c.anchorFOV.YMin+dy)
	case HandleFOVBottom:
		c.session.ResizeFOVEdge(EdgeBottom, c.anchorFOV.YMax+dy)
	}
}

// PointerUp ends the drag and fires the commit of the current snapshot in
// the background. The in-memory session is authoritative; a failed or slow
// commit never blocks or reverts the interaction.
func (c *Controller) PointerUp() {
	if c.handle == HandleNone {
		return
	}
	c.handle = HandleNone

	if c.commit == nil {
		return
	}
	snap := c.session.Snapshot()
	go func() {
		if err := c.commit(snap); err != nil {
			log.Printf("planning commit failed: %v", err)
		}
	}()
}

// PointerLeave is treated the same as releasing the pointer.
func (c *Controller) PointerLeave() {
	c.PointerUp()
}

package planning

import (
	"errors"
	"testing"
	"time"

	"ct-console/pkg/geometry"
)

// The scout is 800x1000 and the display surface 400x500, so one display
// pixel is two scout pixels on each axis.
var displaySize = geometry.Size{Width: 400, Height: 500}

func TestDragStartLineAnchored(t *testing.T) {
	s := NewSession(testFrame())
	c := NewController(s)

	if !c.PointerDown(HandleStartLine, geometry.Point2D{X: 50, Y: 100}) {
		t.Fatal("pointer down refused")
	}
	c.PointerMove(geometry.Point2D{X: 50, Y: 110}, displaySize)

	if got := s.Lines().StartY; got != 220 {
		t.Errorf("startY = %v, want 220 (anchor 200 + 10 display px * scale 2)", got)
	}

	// A second move re-derives from the anchor instead of compounding.
	c.PointerMove(geometry.Point2D{X: 50, Y: 105}, displaySize)
	if got := s.Lines().StartY; got != 210 {
		t.Errorf("startY = %v, want 210 after moving back", got)
	}
}

func TestDragAccumulatedDeltasDoNotDrift(t *testing.T) {
	s := NewSession(testFrame())
	c := NewController(s)

	c.PointerDown(HandleEndLine, geometry.Point2D{X: 50, Y: 400})
	// A burst of intermediate events, ending where it started.
	for _, y := range []float64{420, 350, 480, 390, 400} {
		c.PointerMove(geometry.Point2D{X: 50, Y: y}, displaySize)
	}
	if got := s.Lines().EndY; got != 800 {
		t.Errorf("endY = %v, want 800 (net zero delta)", got)
	}
}

func TestDragRefusedWhenGated(t *testing.T) {
	s := NewSession(testFrame())
	c := NewController(s)

	active := false
	c.SetEnabled(func() bool { return active })

	if c.PointerDown(HandleStartLine, geometry.Point2D{X: 0, Y: 100}) {
		t.Fatal("pointer down accepted while gate refuses")
	}
	c.PointerMove(geometry.Point2D{X: 0, Y: 200}, displaySize)
	if got := s.Lines().StartY; got != 200 {
		t.Errorf("startY = %v, want 200 (untouched)", got)
	}

	active = true
	if !c.PointerDown(HandleStartLine, geometry.Point2D{X: 0, Y: 100}) {
		t.Fatal("pointer down refused while gate allows")
	}
}

func TestSecondPointerDownIgnored(t *testing.T) {
	s := NewSession(testFrame())
	c := NewController(s)

	c.PointerDown(HandleStartLine, geometry.Point2D{X: 0, Y: 100})
	if c.PointerDown(HandleEndLine, geometry.Point2D{X: 0, Y: 400}) {
		t.Fatal("second pointer down accepted mid-drag")
	}
	if c.ActiveHandle() != HandleStartLine {
		t.Errorf("active handle = %v, want start-line", c.ActiveHandle())
	}
}

func TestMoveWithoutDragIsNoop(t *testing.T) {
	s := NewSession(testFrame())
	c := NewController(s)

	c.PointerMove(geometry.Point2D{X: 0, Y: 250}, displaySize)
	if got := s.Lines(); got.StartY != 200 || got.EndY != 800 {
		t.Errorf("lines = %+v, want untouched defaults", got)
	}
}

func TestDragFOVMove(t *testing.T) {
	s := NewSession(testFrame())
	c := NewController(s)

	c.PointerDown(HandleFOVMove, geometry.Point2D{X: 200, Y: 250})
	c.PointerMove(geometry.Point2D{X: 220, Y: 225}, displaySize)

	fov := s.FOV()
	want := FOVRect{XMin: 200, XMax: 680, YMin: 150, YMax: 750}
	if fov != want {
		t.Errorf("fov = %+v, want %+v", fov, want)
	}
	if lines := s.Lines(); lines.StartY != 150 || lines.EndY != 750 {
		t.Errorf("lines = %+v, want carried along with box", lines)
	}
}

func TestDragFOVEdge(t *testing.T) {
	s := NewSession(testFrame())
	c := NewController(s)

	c.PointerDown(HandleFOVRight, geometry.Point2D{X: 320, Y: 250})
	c.PointerMove(geometry.Point2D{X: 340, Y: 250}, displaySize)
	if got := s.FOV().XMax; got != 680 {
		t.Errorf("XMax = %v, want 680", got)
	}

	c.PointerUp()
	c.PointerDown(HandleFOVTop, geometry.Point2D{X: 200, Y: 100})
	c.PointerMove(geometry.Point2D{X: 200, Y: 125}, displaySize)
	if got := s.FOV().YMin; got != 250 {
		t.Errorf("YMin = %v, want 250", got)
	}
	if got := s.Lines().StartY; got != 250 {
		t.Errorf("startY = %v, want 250 (top edge couples to start line)", got)
	}
}

func TestPointerUpCommitsSnapshot(t *testing.T) {
	s := NewSession(testFrame())
	c := NewController(s)

	committed := make(chan Snapshot, 1)
	c.OnCommit(func(snap Snapshot) error {
		committed <- snap
		return nil
	})

	c.PointerDown(HandleStartLine, geometry.Point2D{X: 0, Y: 100})
	c.PointerMove(geometry.Point2D{X: 0, Y: 150}, displaySize)
	c.PointerUp()

	select {
	case snap := <-committed:
		if snap.StartY != 300 {
			t.Errorf("committed startY = %v, want 300", snap.StartY)
		}
	case <-time.After(time.Second):
		t.Fatal("commit never fired")
	}
	if c.Dragging() {
		t.Error("still dragging after pointer up")
	}
}

func TestCommitFailureDoesNotRevert(t *testing.T) {
	s := NewSession(testFrame())
	c := NewController(s)

	done := make(chan struct{}, 1)
	c.OnCommit(func(Snapshot) error {
		done <- struct{}{}
		return errors.New("disk full")
	})

	c.PointerDown(HandleEndLine, geometry.Point2D{X: 0, Y: 400})
	c.PointerMove(geometry.Point2D{X: 0, Y: 350}, displaySize)
	c.PointerUp()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("commit never fired")
	}

	// In-memory state is authoritative; the failed commit changes nothing.
	if got := s.Lines().EndY; got != 700 {
		t.Errorf("endY = %v, want 700", got)
	}
}

func TestPointerLeaveEndsDrag(t *testing.T) {
	s := NewSession(testFrame())
	c := NewController(s)

	c.PointerDown(HandleStartLine, geometry.Point2D{X: 0, Y: 100})
	c.PointerLeave()
	if c.Dragging() {
		t.Error("still dragging after pointer leave")
	}

	// Moves after release are ignored.
	c.PointerMove(geometry.Point2D{X: 0, Y: 300}, displaySize)
	if got := s.Lines().StartY; got != 200 {
		t.Errorf("startY = %v, want 200", got)
	}
}

package app

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ct-console/internal/exam"
	"ct-console/internal/planning"
	"ct-console/internal/recon"
	"ct-console/internal/scout"
	"ct-console/internal/storage"
	"ct-console/pkg/geometry"
)

func testCatalog() *exam.Catalog {
	synth := scout.DefaultSynthParams()
	synth.Width = 80
	synth.Height = 100
	return &exam.Catalog{
		Cases: []exam.CatalogEntry{
			{ID: "Abdomen/CT Abdomen Contrast/case_001", Protocol: "abdomen", Synth: &synth},
			{ID: "Head/CT Head Plain/case_001", Protocol: "head", Synth: &synth},
			{ID: "Misc/Unknown/case_001", Protocol: "cardiac", Synth: &synth},
		},
	}
}

// testState wires a state to a temp store and routes async completions
// through a channel the test drains on its own goroutine.
func testState(t *testing.T) (*State, func()) {
	t.Helper()
	completions := make(chan func(), 4)
	s := NewState(testCatalog(), storage.NewStore(t.TempDir()), func(fn func()) {
		completions <- fn
	})
	s.SetAcquirer(func(entry exam.CatalogEntry) (*scout.Image, error) {
		return scout.NewImage(image.NewGray(image.Rect(0, 0, 80, 100))), nil
	})
	runNext := func() {
		select {
		case fn := <-completions:
			fn()
		case <-time.After(time.Second):
			t.Fatal("no async completion arrived")
		}
	}
	return s, runNext
}

func TestSelectCaseInitializes(t *testing.T) {
	s, _ := testState(t)

	var changed []exam.CaseID
	s.On(EventCaseChanged, func(data interface{}) {
		changed = append(changed, data.(exam.CaseID))
	})

	id := exam.CaseID("Abdomen/CT Abdomen Contrast/case_001")
	s.SelectCase(id)

	assert.Equal(t, id, s.ActiveCase)
	require.NotNil(t, s.Workflow)
	assert.False(t, s.Workflow.ScoutCompleted())
	assert.Nil(t, s.Scout, "selection never auto-acquires a scout")
	assert.Nil(t, s.Session)
	assert.Equal(t, recon.KernelSoft, s.ReconParams.Kernel, "recon defaults come from the protocol")
	assert.Equal(t, []exam.CaseID{id}, changed)
}

func TestSelectSameCaseIsNoop(t *testing.T) {
	s, _ := testState(t)

	events := 0
	s.On(EventCaseChanged, func(interface{}) { events++ })

	id := exam.CaseID("Head/CT Head Plain/case_001")
	s.SelectCase(id)
	wf := s.Workflow
	s.SelectCase(id)

	assert.Equal(t, 1, events)
	assert.Same(t, wf, s.Workflow, "re-selecting must not rebuild the workflow")
}

func TestProtocolFallbackForUnknown(t *testing.T) {
	s, _ := testState(t)

	s.SelectCase("Misc/Unknown/case_001")
	assert.Equal(t, recon.Default(), s.ReconParams)
}

func TestAcquireScoutCompletes(t *testing.T) {
	s, runNext := testState(t)
	s.SelectCase("Abdomen/CT Abdomen Contrast/case_001")

	scoutEvents := 0
	s.On(EventScoutCompleted, func(interface{}) { scoutEvents++ })

	s.AcquireScout()
	assert.Nil(t, s.Scout, "acquisition is asynchronous")
	runNext()

	require.NotNil(t, s.Scout)
	require.NotNil(t, s.Session)
	require.NotNil(t, s.Drag)
	assert.True(t, s.Workflow.ScoutCompleted())
	assert.Equal(t, 1, scoutEvents)

	// Session starts from the default plan for the acquired frame.
	assert.Equal(t, scout.Frame{Width: 80, Height: 100}, s.Session.Frame())
	assert.Equal(t, planning.Lines{StartY: 20, EndY: 80}, s.Session.Lines())
}

func TestAcquireScoutFailure(t *testing.T) {
	s, runNext := testState(t)
	s.SelectCase("Abdomen/CT Abdomen Contrast/case_001")
	s.SetAcquirer(func(exam.CatalogEntry) (*scout.Image, error) {
		return nil, errors.New("tube overheated")
	})

	s.AcquireScout()
	runNext()

	assert.Nil(t, s.Scout)
	assert.False(t, s.Workflow.ScoutCompleted())
}

func TestAcquireScoutWithoutCase(t *testing.T) {
	s, _ := testState(t)
	s.AcquireScout()
	assert.Nil(t, s.Scout)
}

func TestStaleAcquisitionDropped(t *testing.T) {
	s, runNext := testState(t)
	s.SelectCase("Abdomen/CT Abdomen Contrast/case_001")
	s.AcquireScout()

	// The operator switches cases while the acquisition is in flight.
	s.SelectCase("Head/CT Head Plain/case_001")
	runNext()

	assert.Nil(t, s.Scout, "stale scout must be dropped")
	assert.Nil(t, s.Session)
	assert.False(t, s.Workflow.ScoutCompleted())
}

func TestCaseSwitchDiscardsEverything(t *testing.T) {
	s, runNext := testState(t)
	s.SelectCase("Abdomen/CT Abdomen Contrast/case_001")
	s.AcquireScout()
	runNext()

	s.Workflow.StartPlanning()
	s.Session.MoveStartLine(35)
	require.True(t, s.Workflow.PlanningActive())

	s.SelectCase("Head/CT Head Plain/case_001")

	assert.Nil(t, s.Scout)
	assert.Nil(t, s.Session)
	assert.Nil(t, s.Drag)
	assert.False(t, s.Workflow.ScoutCompleted(), "no fact carries over")
	assert.False(t, s.Workflow.PlanningActive())
	assert.Equal(t, recon.KernelBone, s.ReconParams.Kernel, "recon resets to the new protocol")
}

func TestDragGatedByPlanningPhase(t *testing.T) {
	s, runNext := testState(t)
	s.SelectCase("Abdomen/CT Abdomen Contrast/case_001")
	s.AcquireScout()
	runNext()

	pos := geometry.Point2D{X: 10, Y: 20}
	assert.False(t, s.Drag.PointerDown(planning.HandleStartLine, pos),
		"dragging refused before planning starts")

	s.Workflow.StartPlanning()
	assert.True(t, s.Drag.PointerDown(planning.HandleStartLine, pos))
	s.Drag.PointerUp()

	s.Workflow.EndPlanning()
	runNext() // persistence completion
	assert.False(t, s.Drag.PointerDown(planning.HandleStartLine, pos),
		"dragging refused after planning ends")
}

func TestWorkflowEventsForwarded(t *testing.T) {
	s, runNext := testState(t)

	workflowEvents := 0
	s.On(EventWorkflowChanged, func(interface{}) { workflowEvents++ })
	scanEvents := 0
	s.On(EventScanStarted, func(data interface{}) {
		result := data.(recon.Result)
		assert.Greater(t, result.TotalSlices, 0)
		scanEvents++
	})

	s.SelectCase("Abdomen/CT Abdomen Contrast/case_001")
	require.Greater(t, workflowEvents, 0)

	s.AcquireScout()
	runNext()
	s.Workflow.StartPlanning()
	s.Workflow.EndPlanning()
	runNext() // persistence
	require.True(t, s.Workflow.PlanningCompleted())

	s.Workflow.StartScan(s.ReconParams)
	runNext() // reconstruction
	assert.True(t, s.Workflow.Scanning())
	assert.Equal(t, 1, scanEvents)
}

package exam

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ct-console/internal/planning"
	"ct-console/internal/recon"
)

type fakeStore struct {
	mu    sync.Mutex
	saved []planning.Snapshot
	err   error
}

func (f *fakeStore) SavePlanning(id CaseID, snap planning.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, snap)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeApplier struct {
	mu     sync.Mutex
	calls  int
	result recon.Result
	err    error
}

func (f *fakeApplier) Apply(caseID string, params recon.Params, snap planning.Snapshot) (recon.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result, f.err
}

func validSnapshot() planning.Snapshot {
	return planning.Snapshot{
		StartY: 200, EndY: 800, FrameHeight: 1000,
		FOVXMin: 160, FOVXMax: 640, FOVYMin: 200, FOVYMax: 800,
	}
}

// testWorkflow wires a workflow to fakes and routes async completions
// through a channel, so the test can run them deterministically on its own
// goroutine.
func testWorkflow(t *testing.T, store *fakeStore, applier *fakeApplier) (*Workflow, func()) {
	t.Helper()
	wf := NewWorkflow("Abdomen/CT Abdomen Contrast/case_001")
	wf.SetStore(store)
	wf.SetApplier(applier)
	wf.SetSnapshotSource(validSnapshot)

	completions := make(chan func(), 4)
	wf.SetDispatch(func(fn func()) { completions <- fn })

	runNext := func() {
		select {
		case fn := <-completions:
			fn()
		case <-time.After(time.Second):
			t.Fatal("no async completion arrived")
		}
	}
	return wf, runNext
}

func TestNewWorkflowAllFactsFalse(t *testing.T) {
	wf := NewWorkflow("Head/CT Head/case_001")

	assert.False(t, wf.ScoutCompleted())
	assert.False(t, wf.PlanningActive())
	assert.False(t, wf.PlanningCompleted())
	assert.False(t, wf.Scanning())
	assert.Zero(t, wf.CurrentSlice())
	assert.Zero(t, wf.TotalSlices())

	assert.False(t, wf.CanStartPlanning())
	assert.False(t, wf.CanEndPlanning())
	assert.False(t, wf.CanEditRecon())
	assert.False(t, wf.CanStartScan())
}

func TestCompleteScoutIdempotent(t *testing.T) {
	wf := NewWorkflow("Head/CT Head/case_001")

	changes := 0
	wf.OnChange(func() { changes++ })

	wf.CompleteScout()
	require.True(t, wf.ScoutCompleted())
	assert.True(t, wf.CanStartPlanning())
	assert.Equal(t, 1, changes)

	wf.CompleteScout()
	assert.True(t, wf.ScoutCompleted())
	assert.Equal(t, 1, changes, "second call must not re-notify")
}

func TestStartPlanningLifecycle(t *testing.T) {
	store := &fakeStore{}
	wf, runNext := testWorkflow(t, store, &fakeApplier{})

	// Before the scout, planning is refused.
	wf.StartPlanning()
	assert.False(t, wf.PlanningActive())

	wf.CompleteScout()
	require.True(t, wf.CanStartPlanning())

	wf.StartPlanning()
	assert.True(t, wf.PlanningActive())
	assert.False(t, wf.CanStartPlanning(), "not re-enterable while active")
	assert.True(t, wf.CanEndPlanning())

	wf.EndPlanning()
	assert.False(t, wf.PlanningActive(), "active drops immediately, before persistence settles")
	assert.False(t, wf.PlanningCompleted())

	runNext()
	assert.True(t, wf.PlanningCompleted())
	assert.Equal(t, 1, store.count())
	assert.False(t, wf.CanStartPlanning(), "completed planning is not re-enterable")
	assert.True(t, wf.CanStartScan())
	assert.True(t, wf.CanEditRecon())
}

func TestEndPlanningPersistenceFailureRetryable(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	wf, runNext := testWorkflow(t, store, &fakeApplier{})

	wf.CompleteScout()
	wf.StartPlanning()
	wf.EndPlanning()
	runNext()

	assert.False(t, wf.PlanningCompleted(), "failed persistence must not complete planning")
	assert.True(t, wf.CanStartPlanning(), "operator can retry after failure")

	// Retry after the disk recovers.
	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()

	wf.StartPlanning()
	wf.EndPlanning()
	runNext()
	assert.True(t, wf.PlanningCompleted())
}

// syncStore signals when a save has returned, so a test can observe the
// moment between the store call finishing and the completion being applied.
type syncStore struct {
	saved chan struct{}
}

func (s *syncStore) SavePlanning(id CaseID, snap planning.Snapshot) error {
	close(s.saved)
	return nil
}

func TestPersistenceCompletionAppliedOnlyByDispatcher(t *testing.T) {
	store := &syncStore{saved: make(chan struct{})}
	wf := NewWorkflow("Head/CT Head Plain/case_001")
	wf.SetStore(store)
	wf.SetSnapshotSource(validSnapshot)

	completions := make(chan func(), 1)
	wf.SetDispatch(func(fn func()) { completions <- fn })

	wf.CompleteScout()
	wf.StartPlanning()
	wf.EndPlanning()

	// The store call has returned, but the background goroutine must not
	// touch the facts itself; they change only when the dispatcher runs
	// the posted completion.
	select {
	case <-store.saved:
	case <-time.After(time.Second):
		t.Fatal("store never called")
	}
	assert.False(t, wf.PlanningCompleted())
	assert.False(t, wf.CanStartScan())

	select {
	case fn := <-completions:
		fn()
	case <-time.After(time.Second):
		t.Fatal("no completion posted")
	}
	assert.True(t, wf.PlanningCompleted())
	assert.True(t, wf.CanStartScan())
}

func TestEndPlanningMalformedSnapshotSkipsStore(t *testing.T) {
	store := &fakeStore{}
	wf, _ := testWorkflow(t, store, &fakeApplier{})
	wf.SetSnapshotSource(func() planning.Snapshot { return planning.Snapshot{} })

	wf.CompleteScout()
	wf.StartPlanning()
	wf.EndPlanning()

	assert.False(t, wf.PlanningActive())
	assert.False(t, wf.PlanningCompleted())
	assert.Equal(t, 0, store.count(), "malformed snapshot must not reach the store")
	assert.True(t, wf.CanStartPlanning(), "operator can re-plan")
}

func TestStartScanTruthTable(t *testing.T) {
	tests := []struct {
		name              string
		planningCompleted bool
		scanning          bool
		want              bool
	}{
		{"nothing done", false, false, false},
		{"planning done", true, false, true},
		{"already scanning", true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			applier := &fakeApplier{result: recon.Result{TotalSlices: 40}}
			wf, runNext := testWorkflow(t, store, applier)

			if tt.planningCompleted {
				wf.CompleteScout()
				wf.StartPlanning()
				wf.EndPlanning()
				runNext()
			}
			if tt.scanning {
				wf.StartScan(recon.Default())
				runNext()
				require.True(t, wf.Scanning())
			}
			assert.Equal(t, tt.want, wf.CanStartScan())
		})
	}
}

func TestStartScanEntersScanningOnSuccess(t *testing.T) {
	applier := &fakeApplier{result: recon.Result{CaseID: "c", TotalSlices: 121, Kernel: recon.KernelSoft}}
	wf, runNext := testWorkflow(t, &fakeStore{}, applier)

	var started *recon.Result
	wf.OnScanStarted(func(r recon.Result) { started = &r })

	wf.CompleteScout()
	wf.StartPlanning()
	wf.EndPlanning()
	runNext()

	wf.StartScan(recon.Default())
	assert.False(t, wf.Scanning(), "scanning starts only after the backend accepts")
	runNext()

	assert.True(t, wf.Scanning())
	assert.Zero(t, wf.CurrentSlice())
	assert.False(t, wf.CanEditRecon(), "parameters lock while scanning")
	require.NotNil(t, started)
	assert.Equal(t, 121, started.TotalSlices)
}

func TestStartScanApplierFailure(t *testing.T) {
	applier := &fakeApplier{err: errors.New("backend rejected kernel")}
	wf, runNext := testWorkflow(t, &fakeStore{}, applier)

	wf.CompleteScout()
	wf.StartPlanning()
	wf.EndPlanning()
	runNext()

	wf.StartScan(recon.Default())
	runNext()

	assert.False(t, wf.Scanning())
	assert.True(t, wf.CanStartScan(), "operator can retry after backend failure")
}

func TestStopScanAndAdvance(t *testing.T) {
	applier := &fakeApplier{result: recon.Result{TotalSlices: 40}}
	wf, runNext := testWorkflow(t, &fakeStore{}, applier)

	// Advancing while not scanning is ignored.
	wf.AdvanceScan(5, 40)
	assert.Zero(t, wf.CurrentSlice())

	wf.CompleteScout()
	wf.StartPlanning()
	wf.EndPlanning()
	runNext()
	wf.StartScan(recon.Default())
	runNext()

	wf.AdvanceScan(5, 40)
	assert.Equal(t, 5, wf.CurrentSlice())
	assert.Equal(t, 40, wf.TotalSlices())

	// Negative progress is ignored.
	wf.AdvanceScan(-1, 40)
	assert.Equal(t, 5, wf.CurrentSlice())

	wf.StopScan()
	assert.False(t, wf.Scanning())
	assert.True(t, wf.CanStartScan(), "a stopped scan can be started again")

	// Stopping twice is harmless.
	wf.StopScan()
	assert.False(t, wf.Scanning())
}

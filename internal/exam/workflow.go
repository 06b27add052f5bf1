package exam

import (
	"log"

	"ct-console/internal/planning"
	"ct-console/internal/recon"
)

// PlanningStore persists planning snapshots per case.
type PlanningStore interface {
	SavePlanning(id CaseID, snap planning.Snapshot) error
}

// ReconApplier hands a parameter set and the committed planning to the
// reconstruction backend. It must succeed before a scan may start.
type ReconApplier interface {
	Apply(caseID string, params recon.Params, snap planning.Snapshot) (recon.Result, error)
}

// Workflow is the exam gate for one case. It is not a linear enum: two of
// the facts are mutually exclusive but the rest vary independently, so the
// machine keeps the booleans and computes the operator capabilities from
// them.
//
// All mutation happens on the UI event thread. Collaborator calls run on
// background goroutines and post their completion back through the dispatch
// function, so a slow persistence or reconstruction backend can never
// freeze pointer interaction.
type Workflow struct {
	caseID CaseID

	scoutCompleted    bool
	planningActive    bool
	planningCompleted bool
	scanning          bool
	currentSlice      int
	totalSlices       int

	store    PlanningStore
	applier  ReconApplier
	snapshot func() planning.Snapshot

	// dispatch posts a completion callback onto the UI thread. The default
	// runs it inline, which is what tests want.
	dispatch func(func())

	onChange      []func()
	onScanStarted func(recon.Result)
}

// NewWorkflow creates a fresh gate for the given case with every fact
// false and every counter zero.
func NewWorkflow(caseID CaseID) *Workflow {
	return &Workflow{
		caseID:   caseID,
		dispatch: func(fn func()) { fn() },
	}
}

// CaseID returns the case this workflow gates.
func (w *Workflow) CaseID() CaseID { return w.caseID }

// SetStore installs the planning persistence collaborator.
func (w *Workflow) SetStore(store PlanningStore) { w.store = store }

// SetApplier installs the reconstruction collaborator.
func (w *Workflow) SetApplier(a ReconApplier) { w.applier = a }

// SetSnapshotSource installs the supplier of the current planning snapshot,
// normally the live session.
func (w *Workflow) SetSnapshotSource(fn func() planning.Snapshot) { w.snapshot = fn }

// SetDispatch installs the UI-thread dispatcher for async completions.
func (w *Workflow) SetDispatch(fn func(func())) {
	if fn != nil {
		w.dispatch = fn
	}
}

// OnChange registers a fact-change listener; the presentation layer uses it
// to refresh indicator dots and button state.
func (w *Workflow) OnChange(fn func()) {
	w.onChange = append(w.onChange, fn)
}

// OnScanStarted registers a listener fired with the reconstruction result
// when the scan enters the scanning state; the playback driver hangs off it.
func (w *Workflow) OnScanStarted(fn func(recon.Result)) {
	w.onScanStarted = fn
}

func (w *Workflow) notify() {
	for _, fn := range w.onChange {
		fn()
	}
}

// Fact accessors.

func (w *Workflow) ScoutCompleted() bool    { return w.scoutCompleted }
func (w *Workflow) PlanningActive() bool    { return w.planningActive }
func (w *Workflow) PlanningCompleted() bool { return w.planningCompleted }
func (w *Workflow) Scanning() bool          { return w.scanning }
func (w *Workflow) CurrentSlice() int       { return w.currentSlice }
func (w *Workflow) TotalSlices() int        { return w.totalSlices }

// Capability queries, read at any time by the presentation layer.

func (w *Workflow) CanStartPlanning() bool {
	return w.scoutCompleted && !w.planningActive && !w.planningCompleted
}

func (w *Workflow) CanEndPlanning() bool {
	return w.planningActive
}

func (w *Workflow) CanEditRecon() bool {
	return w.planningCompleted && !w.scanning
}

func (w *Workflow) CanStartScan() bool {
	return w.planningCompleted && !w.scanning
}

// CompleteScout marks the scout acquisition finished. Callable any time;
// calling it twice has the same effect as once.
func (w *Workflow) CompleteScout() {
	if w.scoutCompleted {
		return
	}
	w.scoutCompleted = true
	w.notify()
}

// StartPlanning opens the planning phase. Illegal calls are logged no-ops.
func (w *Workflow) StartPlanning() {
	if !w.CanStartPlanning() {
		log.Printf("workflow[%s]: ignoring StartPlanning (scout=%v active=%v completed=%v)",
			w.caseID, w.scoutCompleted, w.planningActive, w.planningCompleted)
		return
	}
	w.planningActive = true
	w.notify()
}

// EndPlanning closes the planning phase. The current snapshot is persisted
// in the background; planningActive drops immediately regardless of the
// outcome, and planningCompleted is set only when persistence succeeds, so
// a failure leaves the operator able to retry. A malformed snapshot (no
// usable z-range) is treated as a failure without calling the store.
func (w *Workflow) EndPlanning() {
	if !w.CanEndPlanning() {
		log.Printf("workflow[%s]: ignoring EndPlanning (planning not active)", w.caseID)
		return
	}
	w.planningActive = false
	w.notify()

	if w.snapshot == nil || w.store == nil {
		log.Printf("workflow[%s]: no planning snapshot source or store; planning not committed", w.caseID)
		return
	}
	snap := w.snapshot()
	if !snap.WellFormed() {
		log.Printf("workflow[%s]: planning snapshot malformed, not persisted", w.caseID)
		return
	}

	go func() {
		err := w.store.SavePlanning(w.caseID, snap)
		w.dispatch(func() {
			if err != nil {
				log.Printf("workflow[%s]: planning persistence failed: %v", w.caseID, err)
				return
			}
			w.planningCompleted = true
			w.notify()
		})
	}()
}

// StartScan applies the reconstruction parameters and, only when the
// backend accepts them, enters the scanning state with zeroed progress
// counters. The playback collaborator advances them afterwards.
func (w *Workflow) StartScan(params recon.Params) {
	if !w.CanStartScan() {
		log.Printf("workflow[%s]: ignoring StartScan (completed=%v scanning=%v)",
			w.caseID, w.planningCompleted, w.scanning)
		return
	}
	if w.applier == nil || w.snapshot == nil {
		log.Printf("workflow[%s]: no reconstruction collaborator; scan not started", w.caseID)
		return
	}
	snap := w.snapshot()

	go func() {
		result, err := w.applier.Apply(string(w.caseID), params, snap)
		w.dispatch(func() {
			if err != nil {
				log.Printf("workflow[%s]: reconstruction failed: %v", w.caseID, err)
				return
			}
			if w.scanning {
				return
			}
			w.scanning = true
			w.currentSlice = 0
			w.totalSlices = 0
			w.notify()
			if w.onScanStarted != nil {
				w.onScanStarted(result)
			}
		})
	}()
}

// StopScan drops the scanning fact unconditionally; it doubles as the
// emergency stop and is callable regardless of gate state.
func (w *Workflow) StopScan() {
	if !w.scanning {
		return
	}
	w.scanning = false
	w.notify()
}

// AdvanceScan updates the playback progress counters while a scan runs.
// The machine never auto-stops at the last slice; the playback collaborator
// calls StopScan, which keeps that policy in the presentation layer.
func (w *Workflow) AdvanceScan(slice, total int) {
	if !w.scanning {
		log.Printf("workflow[%s]: ignoring AdvanceScan while not scanning", w.caseID)
		return
	}
	if slice < 0 || total < 0 {
		log.Printf("workflow[%s]: ignoring AdvanceScan with negative progress %d/%d", w.caseID, slice, total)
		return
	}
	w.currentSlice = slice
	w.totalSlices = total
	w.notify()
}

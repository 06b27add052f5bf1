// Package app provides application lifecycle management, state, and events.
package app

import (
	"fmt"
	"log"
	"sync"

	"ct-console/internal/exam"
	"ct-console/internal/planning"
	"ct-console/internal/protocol"
	"ct-console/internal/recon"
	"ct-console/internal/scout"
	"ct-console/internal/storage"
)

// EventType identifies different application events.
type EventType int

const (
	EventCaseChanged EventType = iota
	EventScoutCompleted
	EventWorkflowChanged
	EventScanStarted
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// AcquireFunc produces the scout image for a catalog entry. The default
// implementation synthesizes a phantom or loads the configured file; tests
// substitute their own.
type AcquireFunc func(exam.CatalogEntry) (*scout.Image, error)

// State holds the console state for the active case: the scout image, the
// planning session with its drag controller, and the workflow gate. It also
// implements the session lifecycle: selecting a different case discards the
// session and workflow wholesale.
type State struct {
	mu sync.RWMutex

	catalog *exam.Catalog
	store   *storage.Store
	engine  *recon.Engine

	// dispatch posts async completions onto the UI thread.
	dispatch func(func())
	acquire  AcquireFunc

	// Per-case state, replaced together on case change.
	ActiveCase  exam.CaseID
	Scout       *scout.Image
	Session     *planning.Session
	Drag        *planning.Controller
	Workflow    *exam.Workflow
	ReconParams recon.Params

	listeners map[EventType][]EventListener
}

// NewState creates the console state. dispatch may be nil, in which case
// async completions run inline.
func NewState(catalog *exam.Catalog, store *storage.Store, dispatch func(func())) *State {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &State{
		catalog:   catalog,
		store:     store,
		engine:    recon.NewEngine(),
		dispatch:  dispatch,
		acquire:   defaultAcquire,
		listeners: make(map[EventType][]EventListener),
	}
}

// Dispatch posts fn onto the UI thread; background collaborators use it to
// apply their completions.
func (s *State) Dispatch(fn func()) {
	s.dispatch(fn)
}

// SetAcquirer replaces the scout acquisition collaborator.
func (s *State) SetAcquirer(fn AcquireFunc) {
	if fn != nil {
		s.acquire = fn
	}
}

// Catalog returns the case catalog.
func (s *State) Catalog() *exam.Catalog { return s.catalog }

// Store returns the planning store.
func (s *State) Store() *storage.Store { return s.store }

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SelectCase makes the given case active. Selecting the already-active case
// is a no-op. Otherwise the previous session and workflow are discarded with
// no carry-over, a zeroed workflow is created, and no scout acquisition is
// triggered; the operator re-runs the scout explicitly.
func (s *State) SelectCase(id exam.CaseID) {
	if id == s.ActiveCase && s.Workflow != nil {
		return
	}

	s.ActiveCase = id
	s.Scout = nil
	s.Session = nil
	s.Drag = nil

	wf := exam.NewWorkflow(id)
	wf.SetStore(s.store)
	wf.SetApplier(s.engine)
	wf.SetDispatch(s.dispatch)
	wf.SetSnapshotSource(func() planning.Snapshot {
		if s.Session == nil {
			return planning.Snapshot{}
		}
		return s.Session.Snapshot()
	})
	wf.OnChange(func() {
		s.Emit(EventWorkflowChanged, wf)
	})
	wf.OnScanStarted(func(result recon.Result) {
		s.Emit(EventScanStarted, result)
	})
	s.Workflow = wf

	s.ReconParams = s.protocolRecon(id)

	s.Emit(EventCaseChanged, id)
	s.Emit(EventWorkflowChanged, wf)
}

// AcquireScout runs the scout acquisition for the active case in the
// background. On success the planning session is reset to the new frame and
// the workflow records the completed scout. A case switch while the
// acquisition is in flight makes its result stale; it is dropped.
func (s *State) AcquireScout() {
	id := s.ActiveCase
	if id == "" || s.Workflow == nil {
		log.Printf("scout: no active case, acquisition ignored")
		return
	}
	entry := s.catalog.Find(id)
	if entry == nil {
		log.Printf("scout: case %s not in catalog, acquisition ignored", id)
		return
	}

	wf := s.Workflow
	go func() {
		img, err := s.acquire(*entry)
		s.dispatch(func() {
			if err != nil {
				log.Printf("scout: acquisition for %s failed: %v", id, err)
				return
			}
			if s.ActiveCase != id || s.Workflow != wf {
				log.Printf("scout: dropping stale acquisition for %s", id)
				return
			}
			img.AutoWindow()
			s.Scout = img
			s.Session = planning.NewSession(img.Frame)

			drag := planning.NewController(s.Session)
			drag.SetEnabled(wf.PlanningActive)
			drag.OnCommit(func(snap planning.Snapshot) error {
				return s.store.SavePlanning(id, snap)
			})
			s.Drag = drag

			wf.CompleteScout()
			s.Emit(EventScoutCompleted, img)
		})
	}()
}

// protocolRecon returns the reconstruction defaults for the case's
// protocol, falling back to the global default when the protocol is
// unknown.
func (s *State) protocolRecon(id exam.CaseID) recon.Params {
	if entry := s.catalog.Find(id); entry != nil {
		if spec, ok := protocol.Get(entry.Protocol); ok {
			return spec.DefaultRecon
		}
		log.Printf("case %s references unknown protocol %q, using defaults", id, entry.Protocol)
	}
	return recon.Default()
}

// defaultAcquire synthesizes the phantom configured for the entry, or loads
// the scout file it points at.
func defaultAcquire(entry exam.CatalogEntry) (*scout.Image, error) {
	if entry.Synth != nil {
		return scout.Synthesize(*entry.Synth), nil
	}
	if entry.ScoutPath != "" {
		return scout.Load(entry.ScoutPath)
	}
	return nil, fmt.Errorf("case %s has neither a synthetic scout nor a scout file", entry.ID)
}

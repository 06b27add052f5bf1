package console

import (
	"sync"
	"time"

	"ct-console/internal/app"
	"ct-console/internal/exam"
	"ct-console/internal/recon"
)

// sliceInterval is the playback rate of the simulated scan.
const sliceInterval = 150 * time.Millisecond

// Playback drives the scan progress counters once a reconstruction has been
// accepted. The ticker goroutine never touches the workflow directly; every
// tick is posted through the state's dispatcher, so progress updates run on
// the UI thread like any other mutation. Stopping at the last slice is this
// layer's policy; the workflow machine never auto-stops.
type Playback struct {
	state *app.State

	mu   sync.Mutex
	stop chan struct{}
}

// NewPlayback creates the driver and subscribes it to scan starts. A case
// change cancels any playback in flight.
func NewPlayback(state *app.State) *Playback {
	p := &Playback{state: state}

	state.On(app.EventScanStarted, func(data interface{}) {
		result, ok := data.(recon.Result)
		if !ok {
			return
		}
		stop := p.restart()
		go p.run(state.Workflow, result.TotalSlices, stop)
	})
	state.On(app.EventCaseChanged, func(interface{}) {
		p.Cancel()
	})
	return p
}

// Cancel stops the current playback, if any. Safe to call repeatedly.
func (p *Playback) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

// restart cancels any running playback and hands out a fresh stop channel.
func (p *Playback) restart() chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		close(p.stop)
	}
	p.stop = make(chan struct{})
	return p.stop
}

func (p *Playback) run(wf *exam.Workflow, total int, stop chan struct{}) {
	if wf == nil || total <= 0 {
		return
	}
	ticker := time.NewTicker(sliceInterval)
	defer ticker.Stop()

	for slice := 0; slice < total; slice++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		slice := slice
		p.state.Dispatch(func() {
			if !wf.Scanning() {
				return
			}
			wf.AdvanceScan(slice, total)
			if slice == total-1 {
				wf.StopScan()
			}
		})
	}
}

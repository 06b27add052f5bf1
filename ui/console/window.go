package console

import (
	"ct-console/internal/app"
	"ct-console/internal/exam"
	"ct-console/internal/scout"
	"ct-console/ui/prefs"
	"ct-console/ui/scoutview"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Window is the operator console main window: the case picker on the left,
// the scout view in the center, and the workflow and reconstruction panels
// on the right.
type Window struct {
	state *app.State
	prefs *prefs.Prefs
	win   fyne.Window

	view       *scoutview.View
	caseSelect *widget.Select
	workflow   *WorkflowPanel
	recon      *ReconPanel
	playback   *Playback
	status     *widget.Label
}

// New builds the console window on the given Fyne app.
func New(a fyne.App, state *app.State, p *prefs.Prefs) *Window {
	w := &Window{
		state: state,
		prefs: p,
		win:   a.NewWindow("CT Console"),
	}

	w.view = scoutview.New()
	w.status = widget.NewLabel("Select a case to begin")

	caseIDs := make([]string, 0, len(state.Catalog().Cases))
	for _, entry := range state.Catalog().Cases {
		caseIDs = append(caseIDs, string(entry.ID))
	}
	w.caseSelect = widget.NewSelect(caseIDs, func(sel string) {
		state.SelectCase(exam.CaseID(sel))
	})

	w.workflow = NewWorkflowPanel(state)
	w.recon = NewReconPanel(state)
	w.playback = NewPlayback(state)

	state.On(app.EventCaseChanged, func(data interface{}) {
		w.view.SetScout(nil)
		w.view.SetController(nil)
		if id, ok := data.(exam.CaseID); ok {
			w.status.SetText("Case " + id.Name() + ": acquire a scout to begin planning")
			w.prefs.SetString(prefs.KeyLastCase, string(id))
		}
	})
	state.On(app.EventScoutCompleted, func(data interface{}) {
		if img, ok := data.(*scout.Image); ok {
			w.view.SetScout(img)
		}
		w.view.SetController(state.Drag)
		w.status.SetText("Scout complete")
	})
	state.On(app.EventWorkflowChanged, func(interface{}) {
		w.view.Refresh()
		w.updateStatus()
	})

	side := container.NewVBox(
		widget.NewLabelWithStyle("Case", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		w.caseSelect,
		widget.NewSeparator(),
		w.workflow.Widget(),
		widget.NewSeparator(),
		w.recon.Widget(),
	)

	content := container.NewBorder(nil, w.status, nil, side, w.view)
	w.win.SetContent(content)

	width := float32(p.Float(prefs.KeyWindowWidth, 1100))
	height := float32(p.Float(prefs.KeyWindowHeight, 800))
	w.win.Resize(fyne.NewSize(width, height))

	w.win.SetOnClosed(func() {
		size := w.win.Canvas().Size()
		p.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		p.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
		_ = p.Save()
	})

	if last := p.String(prefs.KeyLastCase, ""); last != "" && state.Catalog().Find(exam.CaseID(last)) != nil {
		w.caseSelect.SetSelected(last)
	}

	return w
}

// Window returns the underlying Fyne window.
func (w *Window) Window() fyne.Window {
	return w.win
}

// ShowAndRun shows the window and runs the event loop.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}

func (w *Window) updateStatus() {
	wf := w.state.Workflow
	if wf == nil {
		return
	}
	switch {
	case wf.Scanning():
		w.status.SetText("Scanning...")
	case wf.PlanningActive():
		w.status.SetText("Planning: drag the lines and FOV box, then end planning to commit")
	case wf.PlanningCompleted():
		w.status.SetText("Planning committed: review reconstruction and start the scan")
	}
}

// Package console provides the operator console window and its panels.
package console

import (
	"fmt"
	"image/color"

	"ct-console/internal/app"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var (
	dotOnColor  = color.NRGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF}
	dotOffColor = color.NRGBA{R: 0x45, G: 0x45, B: 0x45, A: 0xFF}
)

// WorkflowPanel shows the exam step indicator dots and the operator action
// buttons. Button state is recomputed from the workflow capability queries
// on every fact change; the panel itself holds no workflow state.
type WorkflowPanel struct {
	state *app.State

	scoutDot *fynecanvas.Circle
	planDot  *fynecanvas.Circle
	scanDot  *fynecanvas.Circle

	acquireBtn   *widget.Button
	startPlanBtn *widget.Button
	endPlanBtn   *widget.Button
	startScanBtn *widget.Button
	stopScanBtn  *widget.Button

	progress *widget.Label
	content  fyne.CanvasObject
}

// NewWorkflowPanel creates the panel and subscribes it to workflow events.
func NewWorkflowPanel(state *app.State) *WorkflowPanel {
	p := &WorkflowPanel{state: state}

	p.scoutDot = newDot()
	p.planDot = newDot()
	p.scanDot = newDot()

	p.acquireBtn = widget.NewButton("Acquire Scout", func() {
		state.AcquireScout()
	})
	p.startPlanBtn = widget.NewButton("Start Planning", func() {
		if state.Workflow != nil {
			state.Workflow.StartPlanning()
		}
	})
	p.endPlanBtn = widget.NewButton("End Planning", func() {
		if state.Workflow != nil {
			state.Workflow.EndPlanning()
		}
	})
	p.startScanBtn = widget.NewButton("Start Scan", func() {
		if state.Workflow != nil {
			state.Workflow.StartScan(state.ReconParams)
		}
	})
	p.stopScanBtn = widget.NewButton("Stop Scan", func() {
		if state.Workflow != nil {
			state.Workflow.StopScan()
		}
	})
	p.progress = widget.NewLabel("")

	indicators := container.NewGridWithColumns(3,
		container.NewHBox(p.scoutDot, widget.NewLabel("Scout")),
		container.NewHBox(p.planDot, widget.NewLabel("Planning")),
		container.NewHBox(p.scanDot, widget.NewLabel("Scan")),
	)

	p.content = container.NewVBox(
		widget.NewLabelWithStyle("Workflow", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		indicators,
		p.acquireBtn,
		p.startPlanBtn,
		p.endPlanBtn,
		p.startScanBtn,
		p.stopScanBtn,
		p.progress,
	)

	state.On(app.EventWorkflowChanged, func(interface{}) { p.Refresh() })
	state.On(app.EventCaseChanged, func(interface{}) { p.Refresh() })
	p.Refresh()
	return p
}

// Widget returns the panel content for embedding.
func (p *WorkflowPanel) Widget() fyne.CanvasObject {
	return p.content
}

// Refresh recomputes button enablement and indicator dots from the current
// workflow facts.
func (p *WorkflowPanel) Refresh() {
	wf := p.state.Workflow
	if wf == nil {
		p.acquireBtn.Disable()
		p.startPlanBtn.Disable()
		p.endPlanBtn.Disable()
		p.startScanBtn.Disable()
		p.stopScanBtn.Disable()
		setDot(p.scoutDot, false)
		setDot(p.planDot, false)
		setDot(p.scanDot, false)
		p.progress.SetText("")
		return
	}

	setEnabled(p.acquireBtn, !wf.Scanning())
	setEnabled(p.startPlanBtn, wf.CanStartPlanning())
	setEnabled(p.endPlanBtn, wf.CanEndPlanning())
	setEnabled(p.startScanBtn, wf.CanStartScan())
	setEnabled(p.stopScanBtn, wf.Scanning())

	setDot(p.scoutDot, wf.ScoutCompleted())
	setDot(p.planDot, wf.PlanningCompleted())
	setDot(p.scanDot, wf.Scanning())

	if wf.Scanning() && wf.TotalSlices() > 0 {
		p.progress.SetText(fmt.Sprintf("Slice %d / %d", wf.CurrentSlice()+1, wf.TotalSlices()))
	} else {
		p.progress.SetText("")
	}
}

func newDot() *fynecanvas.Circle {
	dot := fynecanvas.NewCircle(dotOffColor)
	dot.Resize(fyne.NewSize(12, 12))
	return dot
}

func setDot(dot *fynecanvas.Circle, on bool) {
	if on {
		dot.FillColor = dotOnColor
	} else {
		dot.FillColor = dotOffColor
	}
	dot.Refresh()
}

func setEnabled(btn *widget.Button, enabled bool) {
	if enabled {
		btn.Enable()
	} else {
		btn.Disable()
	}
}

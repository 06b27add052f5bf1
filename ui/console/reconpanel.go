package console

import (
	"fmt"
	"strconv"

	"ct-console/internal/app"
	"ct-console/internal/recon"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ReconPanel edits the reconstruction parameters for the active case. The
// inputs are enabled only while the workflow allows reconstruction edits;
// values are written back into the console state, where Start Scan picks
// them up.
type ReconPanel struct {
	state *app.State

	kernel    *widget.Select
	thickness *widget.Entry
	increment *widget.Entry
	matrix    *widget.Select

	content fyne.CanvasObject
}

// NewReconPanel creates the panel and subscribes it to state events.
func NewReconPanel(state *app.State) *ReconPanel {
	p := &ReconPanel{state: state}

	kernels := make([]string, 0, len(recon.Kernels()))
	for _, k := range recon.Kernels() {
		kernels = append(kernels, string(k))
	}
	p.kernel = widget.NewSelect(kernels, func(sel string) {
		state.ReconParams.Kernel = recon.Kernel(sel)
	})

	p.thickness = widget.NewEntry()
	p.thickness.OnChanged = func(text string) {
		if v, err := strconv.ParseFloat(text, 64); err == nil && v > 0 {
			state.ReconParams.SliceThicknessMM = v
		}
	}
	p.increment = widget.NewEntry()
	p.increment.OnChanged = func(text string) {
		if v, err := strconv.ParseFloat(text, 64); err == nil && v > 0 {
			state.ReconParams.SliceIncrementMM = v
		}
	}

	p.matrix = widget.NewSelect([]string{"256", "512", "1024"}, func(sel string) {
		if v, err := strconv.Atoi(sel); err == nil {
			state.ReconParams.MatrixSize = v
		}
	})

	form := container.NewVBox(
		widget.NewLabelWithStyle("Reconstruction", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Kernel"), p.kernel,
		widget.NewLabel("Slice thickness (mm)"), p.thickness,
		widget.NewLabel("Slice increment (mm)"), p.increment,
		widget.NewLabel("Matrix"), p.matrix,
	)
	p.content = form

	state.On(app.EventCaseChanged, func(interface{}) { p.Reload() })
	state.On(app.EventWorkflowChanged, func(interface{}) { p.Refresh() })
	p.Reload()
	return p
}

// Widget returns the panel content for embedding.
func (p *ReconPanel) Widget() fyne.CanvasObject {
	return p.content
}

// Reload repopulates the inputs from the state's current parameters, e.g.
// after a case change swapped in a new protocol default.
func (p *ReconPanel) Reload() {
	params := p.state.ReconParams
	p.kernel.SetSelected(string(params.Kernel))
	p.thickness.SetText(fmt.Sprintf("%g", params.SliceThicknessMM))
	p.increment.SetText(fmt.Sprintf("%g", params.SliceIncrementMM))
	p.matrix.SetSelected(strconv.Itoa(params.MatrixSize))
	p.Refresh()
}

// Refresh enables or disables the inputs from the recon-edit capability.
func (p *ReconPanel) Refresh() {
	editable := p.state.Workflow != nil && p.state.Workflow.CanEditRecon()
	if editable {
		p.kernel.Enable()
		p.thickness.Enable()
		p.increment.Enable()
		p.matrix.Enable()
	} else {
		p.kernel.Disable()
		p.thickness.Disable()
		p.increment.Disable()
		p.matrix.Disable()
	}
}

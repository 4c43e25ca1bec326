package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"invoice-review/internal/app"
	"invoice-review/internal/template"
)

// TemplatesPanel lists the saved vendor templates and drives manual
// template application.
type TemplatesPanel struct {
	state *app.State
	box   *fyne.Container

	list     *widget.List
	cached   []template.VendorTemplate
	selected int

	appliedLabel *widget.Label

	// onApply re-runs extraction with the chosen template preselected.
	onApply func(tpl template.VendorTemplate)
	onError func(err error)
}

// NewTemplatesPanel creates the templates panel.
func NewTemplatesPanel(state *app.State, onApply func(template.VendorTemplate), onError func(error)) *TemplatesPanel {
	tp := &TemplatesPanel{
		state:    state,
		selected: -1,
		onApply:  onApply,
		onError:  onError,
	}

	tp.list = widget.NewList(
		func() int { return len(tp.cached) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(tp.cached[id].VendorName)
		},
	)
	tp.list.OnSelected = func(id widget.ListItemID) { tp.selected = id }
	tp.list.OnUnselected = func(widget.ListItemID) { tp.selected = -1 }

	applyBtn := widget.NewButton("Apply", func() {
		if tp.selected < 0 || tp.selected >= len(tp.cached) || tp.onApply == nil {
			return
		}
		tp.onApply(tp.cached[tp.selected])
	})
	deleteBtn := widget.NewButton("Delete", func() { tp.deleteSelected() })
	saveBtn := widget.NewButton("Save current", func() { tp.saveCurrent() })

	tp.appliedLabel = widget.NewLabel("")
	tp.updateApplied()

	tp.box = container.NewBorder(
		tp.appliedLabel,
		container.NewHBox(applyBtn, deleteBtn, saveBtn),
		nil, nil,
		tp.list,
	)

	state.On(app.EventTemplateApplied, func(interface{}) {
		tp.updateApplied()
		tp.Refresh()
	})

	tp.Refresh()
	return tp
}

// Widget returns the panel's root widget.
func (tp *TemplatesPanel) Widget() fyne.CanvasObject {
	return tp.box
}

// Refresh reloads the template list from the store.
func (tp *TemplatesPanel) Refresh() {
	if tp.state.Templates != nil {
		tp.cached = tp.state.Templates.List()
	} else {
		tp.cached = nil
	}
	tp.list.Refresh()
}

func (tp *TemplatesPanel) updateApplied() {
	if tp.state.AppliedVendor == "" {
		tp.appliedLabel.SetText("No template applied")
		return
	}
	tp.appliedLabel.SetText("Applied: " + tp.state.AppliedVendor)
}

func (tp *TemplatesPanel) deleteSelected() {
	if tp.selected < 0 || tp.selected >= len(tp.cached) || tp.state.Templates == nil {
		return
	}
	if err := tp.state.Templates.DeleteByID(tp.cached[tp.selected].ID); err != nil {
		tp.report(fmt.Errorf("delete template: %w", err))
		return
	}
	tp.selected = -1
	tp.list.UnselectAll()
	tp.Refresh()
}

func (tp *TemplatesPanel) saveCurrent() {
	if _, err := tp.state.SaveTemplate(); err != nil {
		tp.report(err)
		return
	}
	tp.Refresh()
}

func (tp *TemplatesPanel) report(err error) {
	if tp.onError != nil {
		tp.onError(err)
	}
}

// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"invoice-review/internal/export"
	"invoice-review/internal/invoice"
)

// ExportDialog previews the customs declaration text before saving it.
type ExportDialog struct {
	window  fyne.Window
	preview *widget.Entry
	text    string
}

// NewExportDialog renders the declaration for the given invoice.
func NewExportDialog(inv *invoice.InvoiceData, window fyne.Window) (*ExportDialog, error) {
	text, err := export.Declaration(*inv)
	if err != nil {
		return nil, fmt.Errorf("render declaration: %w", err)
	}

	d := &ExportDialog{window: window, text: text}
	d.preview = widget.NewMultiLineEntry()
	d.preview.SetText(text)
	d.preview.Wrapping = fyne.TextWrapOff
	return d, nil
}

// Show opens the preview with a save button.
func (d *ExportDialog) Show() {
	scroll := container.NewScroll(d.preview)
	scroll.SetMinSize(fyne.NewSize(560, 420))

	dlg := dialog.NewCustomConfirm("Export declaration", "Save...", "Close", scroll,
		func(save bool) {
			if !save {
				return
			}
			d.promptSave()
		}, d.window)
	dlg.Show()
}

func (d *ExportDialog) promptSave() {
	fd := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil || w == nil {
			return
		}
		defer w.Close()
		// The preview is editable, so export what the reviewer sees.
		if _, err := w.Write([]byte(d.preview.Text)); err != nil {
			dialog.ShowError(fmt.Errorf("write declaration: %w", err), d.window)
		}
	}, d.window)
	fd.SetFileName("declaration.txt")
	fd.Show()
}

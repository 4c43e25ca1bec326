// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"invoice-review/internal/app"
	"invoice-review/internal/extraction"
	"invoice-review/internal/invoice"
	"invoice-review/internal/render"
	"invoice-review/internal/template"
	"invoice-review/internal/version"
	"invoice-review/pkg/geometry"
	"invoice-review/ui/canvas"
	"invoice-review/ui/dialogs"
	"invoice-review/ui/panels"
	"invoice-review/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	extractor extraction.Service
	queue     *render.Queue

	canvas    *canvas.PageCanvas
	fields    *panels.FieldsPanel
	templates *panels.TemplatesPanel
	statusBar *widget.Label
	pageLabel *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, extractor extraction.Service, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Invoice Review")

	mw := &MainWindow{
		Window:    win,
		app:       fyneApp,
		state:     state,
		prefs:     p,
		extractor: extractor,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	w := p.Float(prefs.KeyWindowWidth, 1280)
	h := p.Float(prefs.KeyWindowHeight, 860)
	win.Resize(fyne.NewSize(float32(w), float32(h)))
	win.SetOnClosed(func() {
		size := win.Canvas().Size()
		p.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		p.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
		_ = p.Save()
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPageCanvas()
	mw.canvas.SetInvoice(&mw.state.Invoice)
	mw.canvas.OnSelect(func(loc *invoice.FieldLocator) {
		mw.state.Select(loc)
	})
	mw.canvas.OnBoxCommitted(func(loc invoice.FieldLocator, box geometry.BoundingBox) {
		mw.state.SetFieldBox(loc, box)
	})
	mw.canvas.OnBoxDrawn(func(box geometry.BoundingBox) {
		sel := mw.state.Selection
		if sel == nil {
			mw.updateStatus("Select a field before drawing its region")
			return
		}
		mw.state.SetFieldBox(*sel, box)
	})
	mw.canvas.OnGridChanged(func(int) {
		mw.state.SetModified(true)
	})

	mw.fields = panels.NewFieldsPanel(mw.state, mw.focusField)
	mw.templates = panels.NewTemplatesPanel(mw.state, mw.applyTemplate, func(err error) {
		dialog.ShowError(err, mw.Window)
	})

	mw.statusBar = widget.NewLabel("Ready")
	mw.pageLabel = widget.NewLabel("")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(toolbar, nil, nil, nil, mw.canvas)

	side := container.NewAppTabs(
		container.NewTabItem("Fields", mw.fields.Widget()),
		container.NewTabItem("Templates", mw.templates.Widget()),
	)

	split := container.NewHSplit(side, canvasArea)
	split.SetOffset(0.3)

	content := container.NewBorder(
		nil,
		container.NewPadded(container.NewBorder(nil, nil, nil, mw.pageLabel, mw.statusBar)),
		nil, nil,
		split,
	)
	mw.SetContent(content)
}

// createToolbar creates the toolbar with page navigation and tools.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	prevBtn := widget.NewButton("<", func() {
		mw.state.SetPage(mw.state.CurrentPage - 1)
	})
	nextBtn := widget.NewButton(">", func() {
		mw.state.SetPage(mw.state.CurrentPage + 1)
	})
	fitBtn := widget.NewButton("Fit", func() {
		mw.canvas.FitToView()
	})

	tool := widget.NewRadioGroup([]string{"Pan", "Edit"}, func(sel string) {
		if sel == "Edit" {
			mw.canvas.SetTool(canvas.ToolEdit)
		} else {
			mw.canvas.SetTool(canvas.ToolPan)
		}
		mw.prefs.SetString(prefs.KeyEditTool, sel)
	})
	tool.Horizontal = true
	if mw.prefs.String(prefs.KeyEditTool) == "Edit" {
		tool.SetSelected("Edit")
	} else {
		tool.SetSelected("Pan")
	}

	extractBtn := widget.NewButton("Extract", func() { mw.runExtraction(nil) })

	return container.NewHBox(
		widget.NewLabel("Page:"), prevBtn, nextBtn, fitBtn,
		widget.NewSeparator(),
		tool,
		widget.NewSeparator(),
		extractBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Document...", mw.onOpenDocument),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Run Extraction", func() { mw.runExtraction(nil) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Declaration...", mw.onExport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Fit to Page", func() { mw.canvas.FitToView() }),
		fyne.NewMenuItem("Previous Page", func() { mw.state.SetPage(mw.state.CurrentPage - 1) }),
		fyne.NewMenuItem("Next Page", func() { mw.state.SetPage(mw.state.CurrentPage + 1) }),
	)

	templateMenu := fyne.NewMenu("Templates",
		fyne.NewMenuItem("Save as Template", func() {
			if _, err := mw.state.SaveTemplate(); err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.updateStatus("Template saved for " + mw.state.AppliedVendor)
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("Invoice Review",
				fmt.Sprintf("Review and correct extracted invoice data.\nVersion %s (%s)",
					version.Version, version.GitCommit), mw.Window)
		}),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, templateMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventDocumentLoaded, func(data interface{}) {
		if dir, ok := data.(string); ok {
			mw.SetTitle("Invoice Review - " + filepath.Base(dir))
			mw.updateStatus(fmt.Sprintf("Document loaded: %d pages", mw.state.PageCount()))
		}
		mw.attachQueue()
	})

	mw.state.On(app.EventPageChanged, func(data interface{}) {
		page, ok := data.(int)
		if !ok || mw.queue == nil {
			return
		}
		mw.queue.Request(page)
		mw.pageLabel.SetText(fmt.Sprintf("%d / %d", page, mw.state.PageCount()))
	})

	mw.state.On(app.EventInvoiceChanged, func(interface{}) {
		mw.canvas.SetInvoice(&mw.state.Invoice)
		mw.updateQuality()
	})

	mw.state.On(app.EventExtractionComplete, func(interface{}) {
		mw.canvas.SetInvoice(&mw.state.Invoice)
		mw.updateQuality()
	})

	mw.state.On(app.EventSelectionChanged, func(data interface{}) {
		loc, _ := data.(*invoice.FieldLocator)
		mw.canvas.SetActive(loc)
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// attachQueue builds a render queue for the open document.
func (mw *MainWindow) attachQueue() {
	if mw.queue != nil {
		mw.queue.Cancel()
	}
	if mw.state.Document == nil {
		mw.queue = nil
		return
	}
	q := render.NewQueue(mw.state.Document)
	q.OnPage = func(pg *render.PageImage) {
		mw.canvas.SetPage(pg.Page, pg.Image)
	}
	q.OnFrame = func(box geometry.BoundingBox) {
		mw.canvas.FrameRegion(box)
	}
	q.OnError = func(err error) {
		dialog.ShowError(fmt.Errorf("render page: %w", err), mw.Window)
	}
	mw.queue = q
	q.Request(mw.state.CurrentPage)
	mw.pageLabel.SetText(fmt.Sprintf("%d / %d", mw.state.CurrentPage, mw.state.PageCount()))
}

// focusField selects a field and brings its region into view, switching
// pages first when the box lives elsewhere.
func (mw *MainWindow) focusField(loc invoice.FieldLocator) {
	l := loc
	mw.state.Select(&l)

	box := loc.Box(&mw.state.Invoice)
	if box == nil || mw.queue == nil {
		return
	}
	if box.Page != mw.state.CurrentPage {
		mw.state.SetPage(box.Page)
	}
	mw.queue.DeferFrame(*box)
}

// runExtraction extracts the open document, optionally with a
// preselected vendor template.
func (mw *MainWindow) runExtraction(preselected *template.VendorTemplate) {
	mw.updateStatus("Extracting...")
	err := mw.state.RunExtraction(context.Background(), mw.extractor, preselected)
	if err != nil {
		dialog.ShowError(fmt.Errorf("extraction failed: %w", err), mw.Window)
		mw.updateStatus("Extraction failed; existing data kept")
		return
	}
	if mw.state.AppliedVendor != "" {
		mw.updateStatus("Template applied: " + mw.state.AppliedVendor)
	} else {
		mw.updateQuality()
	}
}

func (mw *MainWindow) applyTemplate(tpl template.VendorTemplate) {
	mw.runExtraction(&tpl)
}

func (mw *MainWindow) onOpenDocument() {
	fd := dialog.NewFolderOpen(func(list fyne.ListableURI, err error) {
		if err != nil || list == nil {
			return
		}
		dir := list.Path()
		mw.prefs.SetString(prefs.KeyLastDocumentDir, dir)
		if err := mw.state.OpenDocument(dir); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	if loc := mw.lastDir(prefs.KeyLastDocumentDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExport() {
	d, err := dialogs.NewExportDialog(&mw.state.Invoice, mw.Window)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	d.Show()
}

// lastDir returns a remembered directory as a ListableURI, or nil.
func (mw *MainWindow) lastDir(key string) fyne.ListableURI {
	path := mw.prefs.String(key)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// updateQuality shows the extraction confidence summary.
func (mw *MainWindow) updateQuality() {
	mw.updateStatus(mw.state.Quality().String())
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// Package main provides the entry point for the Invoice Review application.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"invoice-review/internal/app"
	"invoice-review/internal/extraction"
	"invoice-review/internal/template"
	"invoice-review/internal/version"
	"invoice-review/ui/mainwindow"
	"invoice-review/ui/prefs"
)

const appTitle = "Invoice Review"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	cfg := app.LoadConfig()
	store := template.OpenStore(cfg.TemplatesPath)
	appState := app.NewState(store)
	appPrefs := prefs.Load()

	extractor := buildExtractor(cfg)

	fyneApp := fyneapp.NewWithID("invoice-review")
	fyneApp.Settings().SetTheme(&app.ReviewTheme{})

	win := mainwindow.New(fyneApp, appState, extractor, appPrefs)
	win.SetTitle(appTitle)

	if len(os.Args) > 1 {
		if err := appState.OpenDocument(os.Args[1]); err != nil {
			log.Printf("Failed to open document %s: %v", os.Args[1], err)
		}
	}

	setupHotReload(win)

	win.ShowAndRun()
}

// setupHotReload configures automatic restart detection when the binary
// is recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win)
	})

	reloader.Start()
}

// buildExtractor picks the extraction backend from configuration,
// falling back to sidecar files when the local OCR engine is
// unavailable.
func buildExtractor(cfg app.Config) extraction.Service {
	if cfg.Engine == app.EngineTesseract {
		engine, err := extraction.NewTesseractEngine()
		if err != nil {
			log.Printf("Tesseract engine unavailable, using sidecar files: %v", err)
			return extraction.NewFileService()
		}
		return engine
	}
	return extraction.NewFileService()
}

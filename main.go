// Package main provides the entry point for the PixelView application.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"

	"pixelview/internal/app"
	"pixelview/internal/version"
	"pixelview/ui/canvas"
	"pixelview/ui/mainwindow"
	"pixelview/ui/prefs"
)

const appTitle = "PixelView"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("io.pixelview.viewer")
	fyneApp.Settings().SetTheme(&app.ViewerTheme{})

	appState := app.NewState(canvas.Factory())
	appPrefs := prefs.Load()

	// Reload the open image when it changes on disk.
	watcher := app.NewFileWatcher(2 * time.Second)
	watcher.Start()
	defer watcher.Stop()

	win := mainwindow.New(fyneApp, appState, appPrefs, watcher)

	// A command line argument overrides the restored image. URLs work too.
	if len(os.Args) > 1 {
		win.OpenPathOrURL(os.Args[1])
	} else {
		win.RestoreLastImage()
	}

	win.ShowAndRun()
}

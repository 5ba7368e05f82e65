// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"pixelview/internal/app"
	"pixelview/internal/generate"
	"pixelview/internal/imaging"
	"pixelview/internal/version"
	"pixelview/pkg/geometry"
	"pixelview/ui/canvas"
	"pixelview/ui/panels"
	"pixelview/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app         fyne.App
	state       *app.State
	preferences *prefs.Prefs
	watcher     *app.FileWatcher

	canvas    *canvas.ImageCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	crosshairItem *fyne.MenuItem
	showCrosshair bool
}

// New creates the main window.
func New(fyneApp fyne.App, state *app.State, preferences *prefs.Prefs, watcher *app.FileWatcher) *MainWindow {
	win := fyneApp.NewWindow("PixelView")

	mw := &MainWindow{
		Window:        win,
		app:           fyneApp,
		state:         state,
		preferences:   preferences,
		watcher:       watcher,
		showCrosshair: true,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewImageCanvas(mw.state.Session())
	mw.sidePanel = panels.NewSidePanel(mw.state, generate.NewClient(), mw.preferences)
	mw.statusBar = widget.NewLabel("Ready")

	mw.canvas.OnPointerMoved(func(pos *geometry.Point2D) {
		mw.sidePanel.PointerMoved(pos)
		mw.updatePointerStatus(pos)
	})
	mw.canvas.OnViewChanged(func() {
		mw.state.Emit(app.EventViewChanged, nil)
	})

	toolbar := mw.createToolbar()
	canvasArea := container.NewBorder(toolbar, nil, nil, nil, mw.canvas)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)
	mw.SetContent(content)

	width := mw.preferences.Float(prefs.KeyWindowWidth, 1200)
	height := mw.preferences.Float(prefs.KeyWindowHeight, 800)
	mw.Resize(fyne.NewSize(float32(width), float32(height)))
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.canvas.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.canvas.ZoomIn)
	fitBtn := widget.NewButton("Fit", mw.canvas.FitToWindow)
	resetBtn := widget.NewButton("1:1", mw.canvas.ResetZoom)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		resetBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open...", mw.onOpen),
		fyne.NewMenuItem("Open URL...", mw.onOpenURL),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save As...", mw.onSaveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.crosshairItem = fyne.NewMenuItem("✓ Crosshair", mw.onToggleCrosshair)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Reset Zoom", mw.canvas.ResetZoom),
		fyne.NewMenuItem("Fit to Window", mw.canvas.FitToWindow),
		fyne.NewMenuItemSeparator(),
		mw.crosshairItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupShortcuts registers the keyboard bindings: +/- zoom, 0 resets,
// Escape refits, arrows pan.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyPlus, fyne.KeyEqual:
			mw.canvas.ZoomIn()
		case fyne.KeyMinus:
			mw.canvas.ZoomOut()
		case fyne.Key0:
			mw.canvas.ResetZoom()
		case fyne.KeyEscape:
			mw.canvas.FitToWindow()
		case fyne.KeyLeft:
			mw.canvas.PanBy(-canvas.PanStep, 0)
		case fyne.KeyRight:
			mw.canvas.PanBy(canvas.PanStep, 0)
		case fyne.KeyUp:
			mw.canvas.PanBy(0, -canvas.PanStep)
		case fyne.KeyDown:
			mw.canvas.PanBy(0, canvas.PanStep)
		}
	})

	openShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}
	mw.Canvas().AddShortcut(openShortcut, func(fyne.Shortcut) { mw.onOpen() })
	saveShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}
	mw.Canvas().AddShortcut(saveShortcut, func(fyne.Shortcut) { mw.onSaveAs() })
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		src, ok := data.(*imaging.Source)
		if !ok {
			return
		}
		mw.SetTitle("PixelView - " + filepath.Base(src.DisplayName()))
		mw.updateStatus(fmt.Sprintf("Loaded %s (%dx%d)",
			src.DisplayName(), src.Width(), src.Height()))
		mw.canvas.Refresh()

		if src.Path != "" {
			mw.preferences.SetString(prefs.KeyLastImage, src.Path)
			mw.preferences.SetString(prefs.KeyLastDirectory, filepath.Dir(src.Path))
			_ = mw.preferences.Save()
		}
		if mw.watcher != nil {
			mw.watcher.Watch(src.Path)
		}
	})

	mw.state.On(app.EventViewChanged, func(interface{}) {
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventGenerationStarted, func(interface{}) {
		mw.updateStatus("Generating...")
	})
	mw.state.On(app.EventGenerationFinished, func(data interface{}) {
		if err, ok := data.(error); ok && err != nil {
			mw.updateStatus("Generation failed: " + err.Error())
			return
		}
		mw.updateStatus("Generation complete")
	})

	mw.state.On(app.EventImageSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Saved: " + path)
		}
	})

	if mw.watcher != nil {
		mw.watcher.OnChange(func(path string) {
			log.Printf("image changed on disk, reloading: %s", path)
			if err := mw.state.LoadImage(path); err != nil {
				log.Printf("reload failed: %v", err)
			}
		})
	}

	mw.SetOnClosed(func() {
		size := mw.Canvas().Size()
		mw.preferences.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.preferences.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
		_ = mw.preferences.Save()
	})
}

// RestoreLastImage reloads the previously viewed image, if any.
func (mw *MainWindow) RestoreLastImage() {
	path := mw.preferences.String(prefs.KeyLastImage)
	if path == "" {
		return
	}
	if err := mw.state.LoadImage(path); err != nil {
		log.Printf("failed to restore %s: %v", path, err)
	}
}

// OpenPathOrURL loads a command-line argument, treating http(s)
// strings as URLs.
func (mw *MainWindow) OpenPathOrURL(arg string) {
	var err error
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		err = mw.state.LoadURL(context.Background(), arg)
	} else {
		err = mw.state.LoadImage(arg)
	}
	if err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// updatePointerStatus mirrors the pixel readout into the status bar.
func (mw *MainWindow) updatePointerStatus(pos *geometry.Point2D) {
	session := mw.state.Session()
	if pos == nil || !session.Loaded() {
		mw.updateStatus("Ready")
		return
	}
	pt, ok := session.ImagePointAt(*pos)
	if !ok {
		return
	}
	mw.updateStatus(fmt.Sprintf("Pixel %d, %d  %s  zoom %.2fx",
		pt.X, pt.Y, session.PixelHexAt(*pos), session.EffectiveZoom()))
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.preferences.String(prefs.KeyLastDirectory)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// Menu action handlers

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		if err := mw.state.LoadImage(reader.URI().Path()); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(imaging.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenURL() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("https://example.com/image.png")
	entry.SetText(mw.preferences.String(prefs.KeyLastURL))

	dialog.ShowForm("Open URL", "Open", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("URL", entry)},
		func(confirmed bool) {
			if !confirmed || entry.Text == "" {
				return
			}
			url := entry.Text
			mw.updateStatus("Downloading...")
			go func() {
				err := mw.state.LoadURL(context.Background(), url)
				if err != nil {
					mw.updateStatus("Download failed")
					dialog.ShowError(err, mw.Window)
					return
				}
				mw.preferences.SetString(prefs.KeyLastURL, url)
				_ = mw.preferences.Save()
			}()
		}, mw.Window)
}

func (mw *MainWindow) onSaveAs() {
	if !mw.state.Session().Loaded() {
		mw.updateStatus("No image to save")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) == "" {
			path += ".png"
		}
		if err := mw.state.SaveImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(defaultSaveName(mw.state))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// defaultSaveName suggests a file name based on the current source.
func defaultSaveName(state *app.State) string {
	src := state.Session().Source()
	if src == nil {
		return "image.png"
	}
	if src.Path != "" {
		base := filepath.Base(src.Path)
		ext := filepath.Ext(base)
		return strings.TrimSuffix(base, ext) + "-copy" + ext
	}
	return "downloaded.png"
}

func (mw *MainWindow) onToggleCrosshair() {
	mw.showCrosshair = !mw.showCrosshair
	mw.canvas.SetCrosshair(mw.showCrosshair)
	if mw.showCrosshair {
		mw.crosshairItem.Label = "✓ Crosshair"
	} else {
		mw.crosshairItem.Label = "  Crosshair"
	}
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About PixelView",
		fmt.Sprintf("PixelView v%s\n\n"+
			"A fast image viewer with smooth zooming,\n"+
			"metadata inspection, and prompt-based editing.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"pixelview/internal/app"
	"pixelview/internal/generate"
	"pixelview/pkg/geometry"
	"pixelview/ui/prefs"
)

// SidePanel provides the tabbed side panel: Info, Metadata, Generate.
type SidePanel struct {
	state     *app.State
	container *container.AppTabs

	info     *InfoPanel
	metadata *MetadataPanel
	generate *GeneratePanel
}

// NewSidePanel creates the side panel and wires it to state events.
func NewSidePanel(state *app.State, client *generate.Client, preferences *prefs.Prefs) *SidePanel {
	sp := &SidePanel{state: state}

	sp.info = NewInfoPanel(state)
	sp.metadata = NewMetadataPanel(state)
	sp.generate = NewGeneratePanel(state, client, preferences)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Info", sp.info.Container()),
		container.NewTabItem("Metadata", sp.metadata.Container()),
		container.NewTabItem("Generate", sp.generate.Container()),
	)

	state.On(app.EventImageLoaded, func(interface{}) {
		sp.info.UpdateImage()
		sp.metadata.Update()
	})
	state.On(app.EventViewChanged, func(interface{}) {
		sp.info.UpdateView()
	})

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// PointerMoved forwards pointer updates to the info tab.
func (sp *SidePanel) PointerMoved(pos *geometry.Point2D) {
	sp.info.UpdatePointer(pos)
}

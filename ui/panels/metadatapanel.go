package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pixelview/internal/app"
	"pixelview/internal/metadata"
)

// MetadataPanel shows the full metadata report for the current image.
type MetadataPanel struct {
	state     *app.State
	container fyne.CanvasObject

	text *widget.Label
}

// NewMetadataPanel creates the metadata panel.
func NewMetadataPanel(state *app.State) *MetadataPanel {
	mp := &MetadataPanel{state: state}

	mp.text = widget.NewLabel("No image loaded")
	mp.text.TextStyle = fyne.TextStyle{Monospace: true}
	mp.text.Wrapping = fyne.TextWrapWord

	refresh := widget.NewButton("Refresh", mp.Update)

	mp.container = container.NewBorder(nil, refresh, nil, nil,
		container.NewScroll(mp.text))
	return mp
}

// Container returns the panel container.
func (mp *MetadataPanel) Container() fyne.CanvasObject {
	return mp.container
}

// Update regenerates the report from the current image.
func (mp *MetadataPanel) Update() {
	mp.text.SetText(metadata.Describe(mp.state.Session().Source()))
}

package panels

import (
	"context"
	"errors"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pixelview/internal/app"
	"pixelview/internal/generate"
	"pixelview/internal/imaging"
	"pixelview/ui/prefs"
)

// GeneratePanel submits the current image plus a prompt to the
// generation API and swaps the result in as the new image.
type GeneratePanel struct {
	state       *app.State
	client      *generate.Client
	preferences *prefs.Prefs
	container   fyne.CanvasObject

	promptEntry    *widget.Entry
	keyEntry       *widget.Entry
	generateButton *widget.Button
	statusLabel    *widget.Label
}

// NewGeneratePanel creates the generation panel. Prompt and API key are
// restored from preferences.
func NewGeneratePanel(state *app.State, client *generate.Client, preferences *prefs.Prefs) *GeneratePanel {
	gp := &GeneratePanel{
		state:       state,
		client:      client,
		preferences: preferences,
	}

	gp.promptEntry = widget.NewMultiLineEntry()
	gp.promptEntry.SetPlaceHolder("Describe the edit, e.g. \"add a red lighthouse on the cliff\"")
	gp.promptEntry.Wrapping = fyne.TextWrapWord
	gp.promptEntry.SetMinRowsVisible(4)
	gp.promptEntry.SetText(preferences.String(prefs.KeyLastPrompt))

	gp.keyEntry = widget.NewPasswordEntry()
	gp.keyEntry.SetPlaceHolder("API key")
	gp.keyEntry.SetText(preferences.String(prefs.KeyAPIKey))

	gp.statusLabel = widget.NewLabel("")
	gp.statusLabel.Wrapping = fyne.TextWrapWord

	gp.generateButton = widget.NewButton("Generate", gp.generate)

	gp.container = container.NewVBox(
		widget.NewLabel("Prompt"),
		gp.promptEntry,
		widget.NewLabel("API Key"),
		gp.keyEntry,
		gp.generateButton,
		gp.statusLabel,
	)
	return gp
}

// Container returns the panel container.
func (gp *GeneratePanel) Container() fyne.CanvasObject {
	return gp.container
}

// generate runs one request in the background. A second request while
// one is in flight is refused.
func (gp *GeneratePanel) generate() {
	session := gp.state.Session()
	if !session.Loaded() {
		gp.statusLabel.SetText("Load an image first")
		return
	}
	prompt := gp.promptEntry.Text
	if prompt == "" {
		gp.statusLabel.SetText("Enter a prompt")
		return
	}
	key := generate.NormalizeAPIKey(gp.keyEntry.Text)
	if key == "" {
		gp.statusLabel.SetText("Enter an API key")
		return
	}

	if !gp.state.BeginGeneration() {
		gp.statusLabel.SetText("A request is already running")
		return
	}

	gp.preferences.SetString(prefs.KeyLastPrompt, prompt)
	gp.preferences.SetString(prefs.KeyAPIKey, key)
	_ = gp.preferences.Save()

	gp.generateButton.Disable()
	gp.statusLabel.SetText("Generating...")
	gp.state.Emit(app.EventGenerationStarted, prompt)

	src := session.Source()
	go func() {
		data, err := gp.client.Generate(context.Background(), key, prompt, src)
		var generated *imaging.Source
		if err == nil {
			generated, err = imaging.Decode(data)
		}

		gp.state.EndGeneration()
		gp.generateButton.Enable()

		if err != nil {
			log.Printf("generation failed: %v", err)
			gp.statusLabel.SetText("Failed: " + friendlyError(err))
			gp.state.Emit(app.EventGenerationFinished, err)
			return
		}

		// A failed swap keeps the current image on screen.
		if err := gp.state.SetSource(generated); err != nil {
			gp.statusLabel.SetText("Failed: " + err.Error())
			gp.state.Emit(app.EventGenerationFinished, err)
			return
		}
		gp.statusLabel.SetText("Done")
		gp.state.Emit(app.EventGenerationFinished, nil)
	}()
}

// friendlyError maps API error classes to short messages.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, generate.ErrRateLimited):
		return "rate limited - wait a few minutes and try again"
	case errors.Is(err, generate.ErrAuth):
		return "the API key was rejected"
	case errors.Is(err, generate.ErrTransient):
		return "the service is unavailable - try again later"
	default:
		return err.Error()
	}
}

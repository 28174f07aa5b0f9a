package ui

import (
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/birthday-hub/internal/card"
	"github.com/tartampluch/birthday-hub/internal/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// cardEditor is the state of the card generator window.
type cardEditor struct {
	app    *HubApp
	window fyne.Window
	card   card.Card

	recipient      *widget.Entry
	message        *widget.Entry
	templateSelect *widget.Select
	schemeSelect   *widget.Select

	background *canvas.Rectangle
	emoji      *canvas.Text
	greeting   *canvas.Text
	body       *widget.Label
}

// ShowCardWindow opens the card generator for recipient. An open generator is
// re-targeted rather than duplicated.
func (app *HubApp) ShowCardWindow(recipient string) {
	if e := app.cardEditor; e != nil {
		slog.Debug(config.MsgWindowFocus, config.LogKeyComponent, config.CompUICard)
		e.recipient.SetText(recipient)
		e.window.RequestFocus()
		return
	}

	slog.Info(config.MsgOpenCardGen, config.LogKeyComponent, config.CompUICard)
	e := newCardEditor(app, card.New(recipient))
	app.cardEditor = e
	e.window.SetOnClosed(func() { app.cardEditor = nil })
	e.window.Show()
}

func newCardEditor(app *HubApp, c card.Card) *cardEditor {
	e := &cardEditor{
		app:    app,
		window: app.App.NewWindow(app.GetMsg(config.TKeyWinCard)),
		card:   c,
	}
	title := cases.Title(language.English)

	e.recipient = widget.NewEntry()
	e.recipient.SetText(c.Recipient)
	e.recipient.OnChanged = func(s string) {
		e.card.Recipient = s
		e.render()
	}

	e.message = widget.NewMultiLineEntry()
	e.message.Wrapping = fyne.TextWrapWord
	e.message.SetText(c.Message)
	e.message.OnChanged = func(s string) {
		e.card.Message = s
		e.render()
	}

	templates := make([]string, 0, len(card.Templates))
	for _, t := range card.Templates {
		templates = append(templates, t.Emoji()+" "+title.String(string(t)))
	}
	e.templateSelect = widget.NewSelect(templates, nil)
	e.templateSelect.SetSelectedIndex(indexOf(card.Templates, c.Template))
	e.templateSelect.OnChanged = func(string) {
		e.card.Template = card.Templates[e.templateSelect.SelectedIndex()]
		e.render()
	}

	schemes := make([]string, 0, len(card.Schemes))
	for _, s := range card.Schemes {
		schemes = append(schemes, title.String(string(s)))
	}
	e.schemeSelect = widget.NewSelect(schemes, nil)
	e.schemeSelect.SetSelectedIndex(indexOf(card.Schemes, c.Scheme))
	e.schemeSelect.OnChanged = func(string) {
		e.card.Scheme = card.Schemes[e.schemeSelect.SelectedIndex()]
		e.render()
	}

	form := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblRecipient), e.recipient),
		widget.NewFormItem(app.GetMsg(config.TKeyLblMessage), e.message),
		widget.NewFormItem(app.GetMsg(config.TKeyLblTemplate), e.templateSelect),
		widget.NewFormItem(app.GetMsg(config.TKeyLblScheme), e.schemeSelect),
	)

	generate := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnGenerate), theme.ConfirmIcon(), e.generate)
	generate.Importance = widget.HighImportance

	e.window.SetContent(container.NewPadded(container.NewVBox(form, e.buildPreview(), generate)))
	e.window.Resize(fyne.NewSize(config.CardWindowWidth, e.window.Content().MinSize().Height))
	e.render()
	return e
}

// buildPreview lays the card out with canvas primitives on the scheme color.
func (e *cardEditor) buildPreview() fyne.CanvasObject {
	e.background = canvas.NewRectangle(e.card.Scheme.Color())
	e.background.CornerRadius = config.CardPreviewRadius
	e.background.SetMinSize(fyne.NewSize(config.CardWindowWidth, config.CardPreviewHeight))

	e.emoji = canvas.NewText("", color.White)
	e.emoji.TextSize = config.CardEmojiSize
	e.emoji.Alignment = fyne.TextAlignCenter

	e.greeting = canvas.NewText("", color.White)
	e.greeting.TextSize = config.CardGreetingSize
	e.greeting.TextStyle = fyne.TextStyle{Bold: true}
	e.greeting.Alignment = fyne.TextAlignCenter

	e.body = widget.NewLabel("")
	e.body.Wrapping = fyne.TextWrapWord
	e.body.Alignment = fyne.TextAlignCenter

	return container.NewStack(e.background,
		container.NewPadded(container.NewVBox(e.emoji, e.greeting, e.body)))
}

// render pushes the card state into the preview.
func (e *cardEditor) render() {
	if e.background == nil {
		return
	}
	e.background.FillColor = e.card.Scheme.Color()
	e.background.Refresh()

	e.emoji.Text = e.card.Template.Emoji()
	e.emoji.Refresh()
	e.greeting.Text = e.card.Greeting()
	e.greeting.Refresh()
	e.body.SetText(e.card.Message)
}

// generate validates the card and confirms it is ready.
func (e *cardEditor) generate() {
	if err := e.card.Validate(); err != nil {
		slog.Warn(config.ErrCardInvalid, config.LogKeyError, err, config.LogKeyComponent, config.CompUICard)
		dialog.ShowError(err, e.window)
		return
	}
	slog.Info(config.MsgCardGenerated,
		config.LogKeyComponent, config.CompUICard,
		config.LogKeyName, e.card.Recipient)
	dialog.ShowInformation(e.app.GetMsg(config.TKeyWinCard),
		e.app.GetMsgData(config.TKeyCardReady, map[string]any{config.TDataName: e.card.Recipient}), e.window)
}

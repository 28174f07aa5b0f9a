package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-hub/internal/card"
)

func TestCardWindow_Preview(t *testing.T) {
	app, _, _ := setupTestApp(t)

	app.ShowCardWindow("Ada")
	e := app.cardEditor
	require.NotNil(t, e)
	defer e.window.Close()

	assert.Equal(t, "Happy Birthday, Ada!", e.greeting.Text)
	assert.Equal(t, e.card.Template.Emoji(), e.emoji.Text)
	assert.Equal(t, e.card.Scheme.Color(), e.background.FillColor)

	e.schemeSelect.SetSelectedIndex(1)
	assert.Equal(t, card.Schemes[1], e.card.Scheme)
	assert.Equal(t, card.Schemes[1].Color(), e.background.FillColor)

	e.templateSelect.SetSelectedIndex(2)
	assert.Equal(t, card.Templates[2].Emoji(), e.emoji.Text)

	e.message.SetText("Have a great one")
	assert.Equal(t, "Have a great one", e.body.Text)
}

func TestCardWindow_Retarget(t *testing.T) {
	app, _, _ := setupTestApp(t)

	app.ShowCardWindow("Ada")
	e := app.cardEditor
	require.NotNil(t, e)

	app.ShowCardWindow("Grace")
	assert.Same(t, e, app.cardEditor, "An open generator is reused")
	assert.Equal(t, "Grace", e.card.Recipient)
	assert.Equal(t, "Happy Birthday, Grace!", e.greeting.Text)

	e.window.Close()
	assert.Nil(t, app.cardEditor)
}

func TestCardWindow_EmptyRecipient(t *testing.T) {
	app, _, _ := setupTestApp(t)

	app.ShowCardWindow("Ada")
	e := app.cardEditor
	require.NotNil(t, e)
	defer e.window.Close()

	e.recipient.SetText("   ")
	assert.ErrorIs(t, e.card.Validate(), card.ErrEmptyRecipient)

	// The error surfaces in a dialog rather than a panic.
	assert.NotPanics(t, e.generate)

	e.recipient.SetText("Ada")
	assert.NoError(t, e.card.Validate())
	assert.NotPanics(t, e.generate)
}

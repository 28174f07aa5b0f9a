// Package card models the printable birthday greeting composed in the card
// generator window.
package card

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/tartampluch/birthday-hub/internal/config"
)

var (
	ErrEmptyRecipient  = errors.New(config.ErrEmptyRecipient)
	ErrUnknownTemplate = errors.New(config.ErrUnknownTemplate)
	ErrUnknownScheme   = errors.New(config.ErrUnknownScheme)
	ErrMessageTooLong  = errors.New(config.ErrMessageTooLong)
)

// Template is the decoration drawn around the greeting.
type Template string

const (
	TemplateConfetti Template = config.TemplateConfetti
	TemplateBalloons Template = config.TemplateBalloons
	TemplateCake     Template = config.TemplateCake
)

// Templates lists every template in display order.
var Templates = []Template{TemplateConfetti, TemplateBalloons, TemplateCake}

// Emoji is the decoration glyph of the template.
func (t Template) Emoji() string {
	switch t {
	case TemplateBalloons:
		return "🎈"
	case TemplateCake:
		return "🎂"
	default:
		return "🎉"
	}
}

// Scheme is the card's accent color.
type Scheme string

const (
	SchemePink   Scheme = config.SchemePink
	SchemeBlue   Scheme = config.SchemeBlue
	SchemePurple Scheme = config.SchemePurple
	SchemeGreen  Scheme = config.SchemeGreen
)

// Schemes lists every color scheme in display order.
var Schemes = []Scheme{SchemePink, SchemeBlue, SchemePurple, SchemeGreen}

var schemeColors = map[Scheme]color.NRGBA{
	SchemePink:   {R: 0xFF, G: 0x5C, B: 0x8D, A: 0xFF},
	SchemeBlue:   {R: 0x5C, G: 0x9D, B: 0xFF, A: 0xFF},
	SchemePurple: {R: 0x9D, G: 0x5C, B: 0xFF, A: 0xFF},
	SchemeGreen:  {R: 0x5C, G: 0xFF, B: 0x9D, A: 0xFF},
}

// Color returns the accent color; unknown schemes get the default one.
func (s Scheme) Color() color.NRGBA {
	if c, ok := schemeColors[s]; ok {
		return c
	}
	return schemeColors[config.DefaultCardScheme]
}

// Hex renders the accent color as #RRGGBB.
func (s Scheme) Hex() string {
	c := s.Color()
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Card is the editable state of a greeting card.
type Card struct {
	Recipient string
	Message   string
	Template  Template
	Scheme    Scheme
}

// New prepares a card for recipient with the default look and message.
func New(recipient string) Card {
	return Card{
		Recipient: recipient,
		Message:   config.DefaultCardMessage,
		Template:  config.DefaultCardTemplate,
		Scheme:    config.DefaultCardScheme,
	}
}

// Validate reports the first problem preventing the card from rendering.
func (c Card) Validate() error {
	if strings.TrimSpace(c.Recipient) == "" {
		return ErrEmptyRecipient
	}
	switch c.Template {
	case TemplateConfetti, TemplateBalloons, TemplateCake:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, c.Template)
	}
	if _, ok := schemeColors[c.Scheme]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScheme, c.Scheme)
	}
	if n := utf8.RuneCountInString(c.Message); n > config.MaxCardMessageRunes {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLong, n, config.MaxCardMessageRunes)
	}
	return nil
}

// Greeting is the headline printed on the card.
func (c Card) Greeting() string {
	return fmt.Sprintf(config.FormatCardGreeting, strings.TrimSpace(c.Recipient))
}

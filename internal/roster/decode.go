package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/pelletier/go-toml/v2"
	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/engine"
)

// Format identifies a roster document encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatTOML
	FormatVCard
)

var vcardMarker = []byte("BEGIN:VCARD")

// DetectFormat picks a decoder from the file name, falling back to the content.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case config.ExtJSON:
		return FormatJSON
	case config.ExtTOML:
		return FormatTOML
	case config.ExtVCF, config.ExtVCard:
		return FormatVCard
	}

	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return FormatUnknown
	case trimmed[0] == '[' && bytes.HasPrefix(trimmed, []byte("[[")):
		return FormatTOML
	case trimmed[0] == '[' || trimmed[0] == '{':
		return FormatJSON
	case len(trimmed) >= len(vcardMarker) && bytes.EqualFold(trimmed[:len(vcardMarker)], vcardMarker):
		return FormatVCard
	default:
		return FormatTOML
	}
}

// Decode turns a roster document into raw entries. Validation of the dates is
// left to engine.Normalize.
func Decode(name string, data []byte) ([]engine.RawEntry, error) {
	var (
		entries []engine.RawEntry
		err     error
	)
	switch DetectFormat(name, data) {
	case FormatJSON:
		entries, err = decodeJSON(data)
	case FormatTOML:
		entries, err = decodeTOML(data)
	case FormatVCard:
		entries, err = decodeVCard(data)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRosterDecode, err)
	}
	return entries, nil
}

// decodeJSON accepts either a bare array or {"person": [...]}.
func decodeJSON(data []byte) ([]engine.RawEntry, error) {
	var entries []engine.RawEntry
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		err := json.Unmarshal(data, &entries)
		return entries, err
	}

	var doc map[string][]engine.RawEntry
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc[config.TOMLPersonTable], nil
}

type tomlRoster struct {
	Person []engine.RawEntry `toml:"person"`
}

func decodeTOML(data []byte) ([]engine.RawEntry, error) {
	var doc tomlRoster
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Person, nil
}

// decodeVCard reads every card of the stream. Malformed cards are skipped so
// one bad contact does not drop the whole address book.
func decodeVCard(data []byte) ([]engine.RawEntry, error) {
	log := slog.With(config.LogKeyComponent, config.CompRoster)
	dec := vcard.NewDecoder(bytes.NewReader(data))

	var entries []engine.RawEntry
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			continue
		}

		name := cardName(card)
		if name == "" {
			continue
		}

		dob := ""
		if bday := card.Get(config.VCardBDAY); bday != nil {
			if month, day, ok := parseBDAY(bday.Value); ok {
				dob = engine.FormatDOB(month, day)
			} else {
				dob = bday.Value
			}
		}
		entries = append(entries, engine.RawEntry{Name: name, DOB: dob})
	}
	return entries, nil
}

// cardName follows FN > N (Given Family) > nothing.
func cardName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && strings.TrimSpace(fn.Value) != "" {
		return strings.TrimSpace(fn.Value)
	}
	if n := card.Get(config.VCardN); n != nil {
		parts := strings.Split(n.Value, config.VCardNSeparator)
		var given, family string
		if len(parts) > 0 {
			family = parts[0]
		}
		if len(parts) > 1 {
			given = parts[1]
		}
		return strings.TrimSpace(strings.Join(strings.Fields(given+" "+family), " "))
	}
	return ""
}

// parseBDAY handles the vCard date forms, with or without a year. The year
// is discarded: the roster only tracks the recurring date.
func parseBDAY(value string) (time.Month, int, bool) {
	value = strings.TrimSpace(value)
	layouts := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatNoYearD,
		config.DateFormatNoYearB,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Month(), t.Day(), true
		}
	}
	return 0, 0, false
}

package roster

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/engine"
)

//go:embed data/birthdays.json
var embeddedRoster []byte

// Source selects where the roster comes from.
type Source struct {
	Mode      string // config.SourceModeEmbedded, config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Path to a .json, .toml or .vcf file
	WebURL    string
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// Result is a normalized roster plus load statistics.
type Result struct {
	Records  []engine.BirthdayRecord
	Raw      int // entries found in the document
	Dropped  int // entries discarded by normalization
	LoadedAt time.Time
}

// Loader acquires, decodes and normalizes a roster.
type Loader struct {
	Fetcher Fetcher      // Required for web sources only.
	Clock   engine.Clock // Stamps Result.LoadedAt.
}

// Load executes the acquisition, decoding and normalization pipeline.
// Bad entries shrink the roster; only an unreadable source is an error.
func (l *Loader) Load(ctx context.Context, src Source) (Result, error) {
	start := time.Now()
	if src.Mode == "" {
		src.Mode = config.SourceModeEmbedded
	}
	log := slog.With(
		config.LogKeyComponent, config.CompRoster,
		config.LogKeyMode, src.Mode,
	)
	log.InfoContext(ctx, config.MsgLoadStarted)

	name, data, err := l.acquire(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("%s: %w", config.ErrRosterRead, err)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	entries, err := Decode(name, data)
	if err != nil {
		return Result{}, err
	}

	records := engine.Normalize(entries)
	warnDuplicates(log, records)

	clock := l.Clock
	if clock == nil {
		clock = engine.RealClock{}
	}
	res := Result{
		Records:  records,
		Raw:      len(entries),
		Dropped:  len(entries) - len(records),
		LoadedAt: clock.Now(),
	}

	log.Info(config.MsgLoadSuccess,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyRaw, res.Raw),
			slog.Int(config.LogKeyRecords, len(res.Records)),
			slog.Int(config.LogKeyDropped, res.Dropped),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return res, nil
}

// acquire reads the whole source document, returning a name for format detection.
func (l *Loader) acquire(ctx context.Context, src Source) (string, []byte, error) {
	switch src.Mode {
	case config.SourceModeEmbedded:
		return config.EmbeddedRosterName, embeddedRoster, nil
	case config.SourceModeLocal:
		if src.LocalPath == "" {
			return "", nil, errors.New(config.ErrLocalPathEmpty)
		}
		f, err := os.Open(src.LocalPath)
		if err != nil {
			return "", nil, err
		}
		defer func() { _ = f.Close() }()
		data, err := readCapped(f)
		return src.LocalPath, data, err
	case config.SourceModeWeb:
		if src.WebURL == "" {
			return "", nil, errors.New(config.ErrWebURLEmpty)
		}
		if l.Fetcher == nil {
			return "", nil, errors.New(config.ErrFetcherMissing)
		}
		rc, err := l.Fetcher.Fetch(ctx, src.WebURL, src.WebUser, src.WebPass)
		if err != nil {
			return "", nil, err
		}
		defer func() { _ = rc.Close() }()
		data, err := readCapped(rc)
		return src.WebURL, data, err
	default:
		return "", nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, src.Mode)
	}
}

func readCapped(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r, config.MaxRosterSize)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// warnDuplicates reports records sharing an ID. They are kept; keyed
// consumers see the last one.
func warnDuplicates(log *slog.Logger, records []engine.BirthdayRecord) {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			log.Warn(config.MsgDuplicateID, config.LogKeyID, r.ID)
			continue
		}
		seen[r.ID] = struct{}{}
	}
}

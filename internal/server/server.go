package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/engine"
)

// cacheItem stores a rendered document and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// UpcomingEntry is one element of the upcoming birthdays JSON document.
type UpcomingEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	DaysUntil int    `json:"daysUntil"`
	IsToday   bool   `json:"isToday"`
	AvatarURL string `json:"avatarUrl"`
}

// NewUpcoming converts resolved occurrences to their JSON form.
func NewUpcoming(occurrences []engine.Occurrence) []UpcomingEntry {
	out := make([]UpcomingEntry, 0, len(occurrences))
	for _, o := range occurrences {
		out = append(out, UpcomingEntry{
			ID:        o.Record.ID,
			Name:      o.Record.DisplayName,
			Date:      o.OccursAt.Format(config.DateFormatISO),
			DaysUntil: o.DaysUntil,
			IsToday:   o.IsToday,
			AvatarURL: engine.AvatarURL(o.Record.AvatarSeed),
		})
	}
	return out
}

// FeedServer publishes the birthday calendar and the upcoming list on localhost
// so calendar clients and scripts can subscribe to the roster.
type FeedServer struct {
	// Documents use atomic.Pointer for lock-free reads: they are read often by
	// clients and only replaced when the roster reloads.
	calendar atomic.Pointer[cacheItem]
	upcoming atomic.Pointer[cacheItem]
	Port     string
}

// NewFeedServer creates a new instance of the server.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{
		Port: port,
	}
}

// Handler routes the feed endpoints.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteFeed, serveDocument(&s.calendar, config.MimeTextCalendar))
	mux.HandleFunc(config.RouteUpcoming, serveDocument(&s.upcoming, config.MimeJSON))
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// UpdateCalendar atomically replaces the iCalendar document.
func (s *FeedServer) UpdateCalendar(data []byte) {
	store(&s.calendar, config.RouteFeed, data)
}

// UpdateUpcoming atomically replaces the upcoming birthdays document.
func (s *FeedServer) UpdateUpcoming(entries []UpcomingEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
	}
	store(&s.upcoming, config.RouteUpcoming, data)
	return nil
}

func store(slot *atomic.Pointer[cacheItem], route string, data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	// Readers see either the old or the new complete item, never a partial state.
	slot.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoute, route,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// serveDocument returns a handler for one cached document with HTTP caching support.
func serveDocument(slot *atomic.Pointer[cacheItem], contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set(config.HeaderAllow, config.AllowedMethods)
			http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
			return
		}

		item := slot.Load()
		if item == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}

		w.Header().Set(config.HeaderContentType, contentType)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, item.etag)
		w.Header().Set(config.HeaderLastModified, item.lastModified)

		if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
			if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
				if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
					// Content not newer than the client's copy.
					if !serverTime.After(clientTime) {
						w.WriteHeader(http.StatusNotModified)
						return
					}
				}
			}
		}

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err,
				)
			}
		}
	}
}

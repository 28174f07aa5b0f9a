package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/engine"
)

func get(t *testing.T, h http.Handler, path string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

// -----------------------------------------------------------------------------
// Unit Tests (White-Box Testing of Handler Logic)
// -----------------------------------------------------------------------------

// TestHandler_ServingCalendar verifies that the handler correctly writes
// the standard HTTP headers and body content when data is available.
func TestHandler_ServingCalendar(t *testing.T) {
	srv := NewFeedServer("0")
	expectedICS := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR")
	srv.UpdateCalendar(expectedICS)

	resp := get(t, srv.Handler(), config.RouteFeed, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, expectedICS, body)
}

func TestHandler_ServingUpcoming(t *testing.T) {
	srv := NewFeedServer("0")
	r, err := engine.NewRecord("Bo Lee", "08-May")
	require.NoError(t, err)
	occ := engine.Upcoming([]engine.BirthdayRecord{r}, time.Date(2025, 5, 8, 9, 0, 0, 0, time.UTC), 1)

	require.NoError(t, srv.UpdateUpcoming(NewUpcoming(occ)))

	resp := get(t, srv.Handler(), config.RouteUpcoming, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))

	var entries []UpcomingEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	assert.Equal(t, []UpcomingEntry{{
		ID:        "bo-lee",
		Name:      "Bo Lee",
		Date:      "2025-05-08",
		DaysUntil: 0,
		IsToday:   true,
		AvatarURL: engine.AvatarURL("Bo Lee"),
	}}, entries)
}

func TestHandler_DocumentsAreIndependent(t *testing.T) {
	srv := NewFeedServer("0")
	srv.UpdateCalendar([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR"))

	resp := get(t, srv.Handler(), config.RouteUpcoming, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "upcoming not published yet")

	require.NoError(t, srv.UpdateUpcoming([]UpcomingEntry{}))
	cal := get(t, srv.Handler(), config.RouteFeed, nil)
	up := get(t, srv.Handler(), config.RouteUpcoming, nil)
	defer func() { _ = cal.Body.Close(); _ = up.Body.Close() }()

	assert.NotEqual(t, cal.Header.Get(config.HeaderETag), up.Header.Get(config.HeaderETag))
	body, _ := io.ReadAll(up.Body)
	assert.JSONEq(t, "[]", string(body))
}

// TestHandler_Caching verifies that the server respects ETag headers (If-None-Match)
// and returns 304 Not Modified to save bandwidth.
func TestHandler_Caching(t *testing.T) {
	srv := NewFeedServer("0")
	srv.UpdateCalendar([]byte("DATA_VERSION_1"))
	h := srv.Handler()

	etag := get(t, h, config.RouteFeed, nil).Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag, "Server must provide an ETag")

	resp2 := get(t, h, config.RouteFeed, map[string]string{config.HeaderIfNoneMatch: etag})
	defer func() { _ = resp2.Body.Close() }()

	assert.Equal(t, http.StatusNotModified, resp2.StatusCode)
	body, _ := io.ReadAll(resp2.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")
}

func TestHandler_IfModifiedSince(t *testing.T) {
	srv := NewFeedServer("0")
	srv.UpdateCalendar([]byte("DATA"))
	h := srv.Handler()

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	resp := get(t, h, config.RouteFeed, map[string]string{config.HeaderIfModifiedSince: future})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	past := time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)
	resp = get(t, h, config.RouteFeed, map[string]string{config.HeaderIfModifiedSince: past})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestHandler_MethodNotAllowed ensures strictly GET and HEAD are accepted.
func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewFeedServer("0")

	req := httptest.NewRequest(http.MethodPost, config.RouteFeed, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(config.HeaderAllow))
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	srv := NewFeedServer("0")
	srv.UpdateCalendar([]byte("DATA"))

	req := httptest.NewRequest(http.MethodHead, config.RouteFeed, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.Bytes())
	assert.NotEmpty(t, w.Header().Get(config.HeaderETag))
}

// TestHandler_Initializing verifies the 503 behavior when data is not yet ready.
func TestHandler_Initializing(t *testing.T) {
	srv := NewFeedServer("0")

	resp := get(t, srv.Handler(), config.RouteFeed, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

func TestHandler_UnknownRoute(t *testing.T) {
	srv := NewFeedServer("0")
	srv.UpdateCalendar([]byte("DATA"))

	resp := get(t, srv.Handler(), "/other", nil)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition validates the thread-safety of atomic.Pointer usage.
// Run this with `go test -race`.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewFeedServer("0")
	h := srv.Handler()
	var wg sync.WaitGroup

	end := time.Now().Add(500 * time.Millisecond)

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			i := 0
			for time.Now().Before(end) {
				srv.UpdateCalendar([]byte(fmt.Sprintf("VERSION:%d-%d", id, i)))
				_ = srv.UpdateUpcoming([]UpcomingEntry{{ID: fmt.Sprint(i)}})
				i++
				time.Sleep(1 * time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			route := config.RouteFeed
			if r%2 == 1 {
				route = config.RouteUpcoming
			}
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, route, nil))

				if code := w.Code; code != http.StatusOK && code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", code)
				}
			}
		}(r)
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

// TestServer_Lifecycle spins up the actual TCP listener to verify network binding
// and graceful shutdown logic.
func TestServer_Lifecycle(t *testing.T) {
	const port = "18099"

	srv := NewFeedServer(port)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := "http://127.0.0.1:" + port + config.RouteFeed

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	srv.UpdateCalendar([]byte("BEGIN:VCALENDAR\nEND:VCALENDAR"))

	resp, err = http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}

func TestServer_PortRequired(t *testing.T) {
	err := NewFeedServer("").Start(context.Background())
	assert.ErrorContains(t, err, config.ErrPortRequired)
}

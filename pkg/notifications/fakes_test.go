package notifications

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type recordedRequest struct {
	Path          string
	Authorization string
	ContentType   string
	Body          string
}

// fakeProvider answers with the scripted statuses in order, repeating the
// last one, and records every request.
type fakeProvider struct {
	mu       sync.Mutex
	statuses []int
	requests []recordedRequest
}

func newFakeProvider(t *testing.T, statuses ...int) (*fakeProvider, *httptest.Server) {
	f := &fakeProvider{statuses: statuses}

	r := chi.NewRouter()
	r.Post("/v3/mail/send", f.handle)
	r.Post("/services/*", f.handle)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeProvider) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          string(body),
	})
	status := http.StatusOK
	if len(f.statuses) > 0 {
		status = f.statuses[0]
		if len(f.statuses) > 1 {
			f.statuses = f.statuses[1:]
		}
	}
	f.mu.Unlock()

	w.WriteHeader(status)
	w.Write([]byte(`{"status":"` + http.StatusText(status) + `"}`))
}

func (f *fakeProvider) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 19, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeTimer fires immediately and moves the fake clock forward instead of sleeping.
type fakeTimer struct {
	clock  *fakeClock
	c      chan time.Time
	sleeps []time.Duration
}

func newFakeTimer(clock *fakeClock) *fakeTimer {
	return &fakeTimer{clock: clock, c: make(chan time.Time, 1)}
}

func (t *fakeTimer) Start(d time.Duration) {
	t.sleeps = append(t.sleeps, d)
	t.clock.Advance(d)
	t.c <- t.clock.Now()
}

func (t *fakeTimer) Stop() {}

func (t *fakeTimer) C() <-chan time.Time { return t.c }

// cancellingTimer cancels the context when a sleep starts and never fires.
type cancellingTimer struct {
	cancel context.CancelFunc
	c      chan time.Time
}

func (t *cancellingTimer) Start(time.Duration) { t.cancel() }

func (t *cancellingTimer) Stop() {}

func (t *cancellingTimer) C() <-chan time.Time { return t.c }

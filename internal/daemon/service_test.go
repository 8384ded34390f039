package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/tracker"
)

type memStore struct {
	state model.State
	saved bool
}

func (m *memStore) Load() (model.State, bool, error) {
	return m.state.Clone(), m.saved, nil
}

func (m *memStore) Save(st model.State) error {
	m.state = st.Clone()
	m.saved = true
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *tracker.Tracker, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr, err := tracker.New(&memStore{},
		tracker.WithDefaults(model.GoalConfig{TargetAmount: 500000, TargetDays: 30}),
		tracker.WithClock(c.now),
	)
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	s := New(tr, Config{Interval: 10 * time.Second, EventsBuffer: 10, Now: c.now})
	return s, tr, c
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Today:         3,
		Streak:        2,
		DisplayMinK:   16.7,
		TotalLogged:   40000,
		LoggedDays:    2,
		TargetAmount:  500000,
		TargetDays:    30,
		CompletionDay: 30,
		Status:        model.StatusOnTrack,
	}
	curr := prev
	curr.Streak = 3
	curr.DisplayMinK = 16.5
	curr.TotalLogged = 62000
	curr.LoggedDays = 3
	curr.Status = model.StatusBehind

	delta := diffSnapshots(prev, curr)
	if delta.Streak != 1 {
		t.Fatalf("Streak delta = %d, want 1", delta.Streak)
	}
	if delta.LoggedDays != 1 {
		t.Fatalf("LoggedDays delta = %d, want 1", delta.LoggedDays)
	}
	if delta.TotalLogged != 22000 {
		t.Fatalf("TotalLogged delta = %v, want 22000", delta.TotalLogged)
	}
	if math.Abs(delta.DisplayMinK+0.2) > 1e-9 {
		t.Fatalf("DisplayMinK delta = %v, want -0.2", delta.DisplayMinK)
	}
	if !delta.StatusChanged || delta.LockChanged || delta.GoalChanged {
		t.Fatalf("flags = %+v, want only StatusChanged", delta)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots should give a zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(nil, Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollOnceEmitsOnChange(t *testing.T) {
	s, tr, _ := newTestService(t)

	s.pollOnce("test")
	s.pollOnce("test")
	if got := len(s.events); got != 1 {
		t.Fatalf("events after two idle polls = %d, want 1", got)
	}
	if s.events[0].Type != EventSnapshot {
		t.Fatalf("first event type = %q, want %q", s.events[0].Type, EventSnapshot)
	}

	if err := tr.LogDay(0, 20000, nil); err != nil {
		t.Fatalf("LogDay: %v", err)
	}
	s.pollOnce("test")

	if got := len(s.events); got != 2 {
		t.Fatalf("events after a log = %d, want 2", got)
	}
	ev := s.events[1]
	if ev.Type != EventProgress {
		t.Fatalf("event type = %q, want %q", ev.Type, EventProgress)
	}
	if ev.Delta.TotalLogged != 20000 || ev.Delta.LoggedDays != 1 {
		t.Fatalf("delta = %+v, want +20000 over 1 day", ev.Delta)
	}
	if ev.Snapshot.Streak != 1 {
		t.Fatalf("streak = %d, want 1", ev.Snapshot.Streak)
	}
	if st := s.snapshotStatus(); st.PollCount != 3 || st.LastError != "" {
		t.Fatalf("status = %+v, want 3 clean polls", st)
	}
}

func TestPollOnceCountsZeroDay(t *testing.T) {
	s, tr, _ := newTestService(t)
	s.pollOnce("test")

	if err := tr.LogDay(0, 0, nil); err != nil {
		t.Fatalf("LogDay: %v", err)
	}
	s.pollOnce("test")

	if got := len(s.events); got != 2 {
		t.Fatalf("events after logging a zero day = %d, want 2", got)
	}
	ev := s.events[1]
	if ev.Type != EventProgress || ev.Delta.LoggedDays != 1 {
		t.Fatalf("event = %s logged days delta %d, want %s +1", ev.Type, ev.Delta.LoggedDays, EventProgress)
	}
	if ev.Snapshot.LoggedDays != 1 || ev.Snapshot.TotalLogged != 0 {
		t.Fatalf("snapshot = %+v, want 1 logged day and nothing saved", ev.Snapshot)
	}

	if err := tr.UnlogDay(0); err != nil {
		t.Fatalf("UnlogDay: %v", err)
	}
	s.pollOnce("test")

	if got := len(s.events); got != 3 {
		t.Fatalf("events after unlogging = %d, want 3", got)
	}
	if d := s.events[2].Delta.LoggedDays; d != -1 {
		t.Fatalf("logged days delta = %d, want -1", d)
	}
}

func TestPollOnceRollover(t *testing.T) {
	s, _, c := newTestService(t)

	s.pollOnce("test")
	c.t = c.t.Add(24 * time.Hour)
	s.pollOnce("rollover")

	if got := len(s.events); got != 2 {
		t.Fatalf("events = %d, want 2", got)
	}
	ev := s.events[1]
	if ev.Type != EventRollover || ev.Delta.Today != 1 {
		t.Fatalf("event = %s today delta %d, want %s +1", ev.Type, ev.Delta.Today, EventRollover)
	}
}

type failingSource struct{}

func (failingSource) Reload() error                  { return errors.New("database is gone") }
func (failingSource) Report(time.Time) model.Report { return model.Report{} }

func TestPollOnceRecordsError(t *testing.T) {
	s := New(failingSource{}, Config{})
	s.pollOnce("test")

	st := s.snapshotStatus()
	if st.LastError != "database is gone" {
		t.Fatalf("LastError = %q", st.LastError)
	}
	if st.PollCount != 1 || st.EventCount != 0 {
		t.Fatalf("status = %+v, want 1 poll and no events", st)
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	s, tr, _ := newTestService(t)
	if err := tr.LogDay(0, 18000, nil); err != nil {
		t.Fatalf("LogDay: %v", err)
	}
	s.pollOnce("test")
	h := s.Handler()

	if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("/healthz = %d %q", rec.Code, rec.Body.String())
	}

	rec := get(t, h, "/v1/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("/v1/report = %d", rec.Code)
	}
	var report model.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.ActGoal.TargetDays != 30 || report.Analytics.TotalLogged != 18000 {
		t.Fatalf("report goal/total = %d/%v", report.ActGoal.TargetDays, report.Analytics.TotalLogged)
	}

	rec = get(t, h, "/v1/status")
	var status Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if status.Summary.LoggedDays != 1 || status.PollCount != 1 {
		t.Fatalf("status = %+v", status)
	}

	rec = get(t, h, "/v1/events?since=1")
	var events []Event
	if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
		t.Fatalf("decoding events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("events since 1 = %d, want 0", len(events))
	}
	if rec := get(t, h, "/v1/events?since=abc"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad since = %d, want 400", rec.Code)
	}

	rec = get(t, h, "/metrics")
	body := rec.Body.String()
	for _, name := range []string{"strive_streak_days", "strive_total_logged 18000", `strive_polls_total{result="ok"} 1`} {
		if !strings.Contains(body, name) {
			t.Errorf("/metrics missing %q", name)
		}
	}
}

func TestStreamSendsCurrentSnapshot(t *testing.T) {
	s, _, _ := newTestService(t)
	s.pollOnce("test")

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /v1/stream: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil && err != io.EOF {
		t.Fatalf("reading stream: %v", err)
	}
	if line != "event: snapshot\n" {
		t.Fatalf("first line = %q, want event: snapshot", line)
	}
}

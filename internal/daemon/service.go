// Package daemon provides `strive serve`: a long-running service that polls
// the goal state, publishes change events and exposes them over HTTP.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/strive/internal/model"
)

// Reporter is the slice of the tracker the daemon reads.
type Reporter interface {
	Reload() error
	Report(now time.Time) model.Report
}

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
	// RolloverCron re-polls when the calendar day changes. Empty disables it.
	RolloverCron string
	DBPath       string
	Logger       *zap.Logger
	// Now is the clock used to compute "today". Defaults to time.Now.
	Now func() time.Time
}

// Snapshot is a compact view of a report for status and event payloads.
type Snapshot struct {
	At            time.Time         `json:"at"`
	Today         int               `json:"today"`
	Streak        int               `json:"streak"`
	MaxStreak     int               `json:"max_streak"`
	DisplayMinK   float64           `json:"display_min_k"`
	TotalLogged   float64           `json:"total_logged"`
	LoggedDays    int               `json:"logged_days"`
	TargetAmount  float64           `json:"target_amount"`
	TargetDays    int               `json:"target_days"`
	CompletionDay int               `json:"completion_day"`
	Capped        bool              `json:"capped,omitempty"`
	Status        model.TrackStatus `json:"status"`
	Locked        bool              `json:"locked"`
}

// Delta captures snapshot changes between polls.
type Delta struct {
	Today         int     `json:"today"`
	Streak        int     `json:"streak"`
	DisplayMinK   float64 `json:"display_min_k"`
	TotalLogged   float64 `json:"total_logged"`
	LoggedDays    int     `json:"logged_days"`
	CompletionDay int     `json:"completion_day"`
	GoalChanged   bool    `json:"goal_changed,omitempty"`
	StatusChanged bool    `json:"status_changed,omitempty"`
	LockChanged   bool    `json:"lock_changed,omitempty"`
}

func (d Delta) isZero() bool {
	return d.Today == 0 &&
		d.Streak == 0 &&
		d.DisplayMinK == 0 &&
		d.TotalLogged == 0 &&
		d.LoggedDays == 0 &&
		d.CompletionDay == 0 &&
		!d.GoalChanged &&
		!d.StatusChanged &&
		!d.LockChanged
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventProgress = "progress"
	EventRollover = "day_rollover"
)

// Event is emitted whenever the snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	RolloverCron    string    `json:"rollover_cron,omitempty"`
	DBPath          string    `json:"db_path,omitempty"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	src     Reporter
	log     *zap.Logger
	metrics *Metrics

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service reading from src.
func New(src Reporter, cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		src:       src,
		log:       cfg.Logger,
		metrics:   NewMetrics(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Metrics returns the service's Prometheus collectors.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}

// Run serves HTTP, polls on an interval and re-polls on the rollover
// schedule until ctx is canceled or one of them fails.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	scheduler := cron.New()
	if s.cfg.RolloverCron != "" {
		if _, err := scheduler.AddFunc(s.cfg.RolloverCron, func() { s.pollOnce("rollover") }); err != nil {
			return fmt.Errorf("register rollover job: %w", err)
		}
	}

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce("startup")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("http server listening", zap.String("addr", s.cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		scheduler.Start()
		s.log.Info("rollover scheduler started", zap.String("spec", s.cfg.RolloverCron))
		<-gctx.Done()
		<-scheduler.Stop().Done()
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce("interval")
			}
		}
	})

	return g.Wait()
}

func (s *Service) pollOnce(reason string) {
	start := time.Now()
	if err := s.src.Reload(); err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		s.metrics.RecordPoll("error")
		s.log.Error("poll failed", zap.String("reason", reason), zap.Error(err))
		return
	}

	now := s.cfg.Now()
	snap := snapshotFromReport(s.src.Report(now), now)
	s.metrics.Observe(snap)
	s.metrics.RecordPoll("ok")

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = time.Now()
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      eventType(delta),
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}

	s.log.Debug("poll complete",
		zap.String("reason", reason),
		zap.Int("today", snap.Today),
		zap.Bool("published", publish),
		zap.Duration("took", time.Since(start)))
}

func eventType(d Delta) string {
	if d.Today != 0 {
		return EventRollover
	}
	return EventProgress
}

func snapshotFromReport(r model.Report, at time.Time) Snapshot {
	// A day logged as zero still counts.
	logged := 0
	for _, bp := range r.Blocks {
		logged += bp.LoggedDays
	}
	return Snapshot{
		At:            at,
		Today:         r.Today,
		Streak:        r.Analytics.Streak,
		MaxStreak:     r.Analytics.MaxStreak,
		DisplayMinK:   r.DisplayMinK,
		TotalLogged:   r.Analytics.TotalLogged,
		LoggedDays:    logged,
		TargetAmount:  r.ActGoal.TargetAmount,
		TargetDays:    r.ActGoal.TargetDays,
		CompletionDay: r.Actual.CompletionDay,
		Capped:        r.Actual.Capped,
		Status:        r.Actual.Status,
		Locked:        r.Locked,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Today:         curr.Today - prev.Today,
		Streak:        curr.Streak - prev.Streak,
		DisplayMinK:   curr.DisplayMinK - prev.DisplayMinK,
		TotalLogged:   curr.TotalLogged - prev.TotalLogged,
		LoggedDays:    curr.LoggedDays - prev.LoggedDays,
		CompletionDay: curr.CompletionDay - prev.CompletionDay,
		GoalChanged:   curr.TargetAmount != prev.TargetAmount || curr.TargetDays != prev.TargetDays,
		StatusChanged: curr.Status != prev.Status,
		LockChanged:   curr.Locked != prev.Locked,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		RolloverCron:    s.cfg.RolloverCron,
		DBPath:          s.cfg.DBPath,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

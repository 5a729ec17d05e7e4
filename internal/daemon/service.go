// Package daemon provides the long-running ledger service: it keeps the
// stored ledger rolled to the current month on a cron schedule and serves
// month views and change events over HTTP.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
	"github.com/theirongolddev/butce/internal/pipeline"
	"github.com/theirongolddev/butce/internal/projection"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath       string
	Addr         string
	Schedule     string
	EventsBuffer int
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventRollover = "rollover"
	EventChange   = "change"
)

// Snapshot is a compact ledger state for status/event payloads.
type Snapshot struct {
	At            time.Time          `json:"at"`
	Month         month.Month        `json:"month"`
	Summary       model.MonthSummary `json:"summary"`
	Installments  int                `json:"installments"`
	HistoryMonths int                `json:"history_months"`
	PlannedMonths int                `json:"planned_months"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	RemainingCash decimal.Decimal `json:"remaining_cash"`
	RemainingYK   decimal.Decimal `json:"remaining_yk"`
	CardTotal     decimal.Decimal `json:"card_total"`
	FixedUnpaid   decimal.Decimal `json:"fixed_unpaid"`
	PaidCount     int             `json:"paid_count"`
}

func (d Delta) isZero() bool {
	return d.RemainingCash.IsZero() &&
		d.RemainingYK.IsZero() &&
		d.CardTotal.IsZero() &&
		d.FixedUnpaid.IsZero() &&
		d.PaidCount == 0
}

// Event is emitted whenever the ledger changes between polls.
type Event struct {
	ID        int64       `json:"id"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Snapshot  Snapshot    `json:"snapshot"`
	Delta     Delta       `json:"delta"`
	From      month.Month `json:"from,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	Schedule        string    `json:"schedule"`
	PollCount       int64     `json:"poll_count"`
	Rollovers       int64     `json:"rollovers"`
	DBPath          string    `json:"db_path,omitempty"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	st  pipeline.Storage

	// pollMu serializes storage access between scheduled polls.
	pollMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	rollovers   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	state       model.BudgetState
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service over the given ledger storage.
func New(cfg Config, st pipeline.Storage) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1m"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Service{
		cfg:       cfg,
		st:        st,
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/months/{month}", s.handleMonth)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints and scheduled polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Catch up at startup so a missed month boundary is applied immediately.
	s.PollOnce()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(s.cfg.Schedule, s.PollOnce); err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return fmt.Errorf("daemon schedule %q: %w", s.cfg.Schedule, err)
	}
	c.Start()
	log.Info().Str("addr", s.cfg.Addr).Str("schedule", s.cfg.Schedule).Msg("daemon started")

	select {
	case <-ctx.Done():
		<-c.Stop().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		c.Stop()
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// PollOnce loads the ledger, rolls it over if the month changed, and
// publishes events for whatever differs from the previous poll.
func (s *Service) PollOnce() {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	now := s.cfg.Now()
	res, err := pipeline.Load(s.st, pipeline.Options{Wall: month.Of(now)})
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		log.Error().Err(err).Msg("daemon poll failed")
		return
	}

	snap := snapshotFromState(res.State, now)
	var pending []Event

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.state = res.State
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	switch {
	case res.RolledOver:
		s.rollovers++
		s.nextEventID++
		pending = append(pending, Event{
			ID:        s.nextEventID,
			Type:      EventRollover,
			Timestamp: now,
			Snapshot:  snap,
			From:      res.RolledFrom,
		})
	case !prevExists:
		s.nextEventID++
		pending = append(pending, Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		})
	default:
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() || prev.Month != snap.Month {
			s.nextEventID++
			pending = append(pending, Event{
				ID:        s.nextEventID,
				Type:      EventChange,
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			})
		}
	}
	s.mu.Unlock()

	for _, ev := range pending {
		log.Debug().Str("type", ev.Type).Int64("id", ev.ID).Stringer("month", ev.Snapshot.Month).Msg("daemon event")
		s.publishEvent(ev)
	}
}

func snapshotFromState(st model.BudgetState, at time.Time) Snapshot {
	return Snapshot{
		At:            at,
		Month:         st.CurrentMonth,
		Summary:       ledger.Summarize(st),
		Installments:  len(st.Installments),
		HistoryMonths: len(st.History),
		PlannedMonths: len(st.FutureData),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		RemainingCash: curr.Summary.RemainingCash.Sub(prev.Summary.RemainingCash),
		RemainingYK:   curr.Summary.RemainingYK.Sub(prev.Summary.RemainingYK),
		CardTotal:     curr.Summary.CardTotal.Sub(prev.Summary.CardTotal),
		FixedUnpaid:   curr.Summary.FixedUnpaid.Sub(prev.Summary.FixedUnpaid),
		PaidCount:     curr.Summary.PaidCount - prev.Summary.PaidCount,
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
		Schedule:        s.cfg.Schedule,
		PollCount:       s.pollCount,
		Rollovers:       s.rollovers,
		DBPath:          s.cfg.DBPath,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

// MonthResponse is served at /v1/months/{month}.
type MonthResponse struct {
	View    projection.View    `json:"view"`
	Summary model.MonthSummary `json:"summary"`
}

func (s *Service) handleMonth(w http.ResponseWriter, r *http.Request) {
	m, err := month.Parse(r.PathValue("month"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.mu.RLock()
	ready := s.hasSnapshot
	state := s.state
	s.mu.RUnlock()
	if !ready {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "ledger not loaded yet"})
		return
	}

	v := projection.Project(state, m)
	writeJSON(w, http.StatusOK, MonthResponse{View: v, Summary: ledger.Summarize(v.State)})
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		if n < len(events) {
			events = events[len(events)-n:]
		}
	}

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
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

package evacuation

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/relief/pqueue"
)

// Scheduler orders evacuations by zone priority, highest first, and tracks
// their lifecycle.
//
// Only pending evacuations live in the queue; BeginNext and UpdateProgress
// move them out. Records are kept for every evacuation ever scheduled so
// Statistics can cover completed work. Scheduler is not safe for concurrent
// use; coordinator.Coordinator serializes access.
type Scheduler struct {
	queue   *pqueue.Queue[string] // pending IDs keyed by priority
	records map[string]*Evacuation
	order   []string // IDs in scheduling order

	log   *zap.Logger
	newID func() string
	now   func() time.Time
	rec   Recorder
}

// NewScheduler returns an empty Scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		queue:   pqueue.NewMax[string](),
		records: make(map[string]*Evacuation),
	}
	defaults(s)
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Schedule registers a pending evacuation of headcount people from zoneID
// and returns its ID. Equal priorities are served in scheduling order.
func (s *Scheduler) Schedule(zoneID string, priority, headcount int) (string, error) {
	if zoneID == "" {
		return "", ErrEmptyZone
	}
	if headcount < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidHeadcount, headcount)
	}

	e := &Evacuation{
		ID:          s.newID(),
		ZoneID:      zoneID,
		Priority:    priority,
		Headcount:   headcount,
		State:       StatePending,
		ScheduledAt: s.now(),
	}
	s.records[e.ID] = e
	s.order = append(s.order, e.ID)
	s.queue.Insert(e.ID, float64(priority))

	s.log.Info("evacuation scheduled",
		zap.String("id", e.ID),
		zap.String("zone", zoneID),
		zap.Int("priority", priority),
		zap.String("level", string(Level(priority))),
		zap.Int("headcount", headcount),
	)
	s.observe()

	return e.ID, nil
}

// PeekNext returns the most urgent pending evacuation without changing it.
func (s *Scheduler) PeekNext() (Evacuation, error) {
	id, err := s.queue.PeekMin()
	if err != nil {
		return Evacuation{}, ErrNothingPending
	}

	return *s.records[id], nil
}

// BeginNext takes the most urgent pending evacuation, assigns team and
// marks it in progress. An evacuation with nobody to move completes at once.
func (s *Scheduler) BeginNext(team string) (Evacuation, error) {
	id, err := s.queue.ExtractMin()
	if err != nil {
		return Evacuation{}, ErrNothingPending
	}

	e := s.records[id]
	e.Team = team
	s.start(e)
	if e.Headcount == 0 {
		s.complete(e)
	}
	s.observe()

	return *e, nil
}

// UpdateProgress sets the number of people evacuated so far.
//
// evacuated is clamped to [0, Headcount]. A pending evacuation that reports
// progress leaves the queue and becomes in progress; reaching Headcount
// completes it. Completed evacuations are immutable and return ErrCompleted.
func (s *Scheduler) UpdateProgress(id string, evacuated int) (Evacuation, error) {
	e, ok := s.records[id]
	if !ok {
		return Evacuation{}, fmt.Errorf("%w: %q", ErrEvacuationNotFound, id)
	}
	if e.State == StateCompleted {
		return *e, fmt.Errorf("%w: %q", ErrCompleted, id)
	}

	if evacuated < 0 {
		evacuated = 0
	}
	if evacuated > e.Headcount {
		evacuated = e.Headcount
	}

	if e.State == StatePending {
		s.queue.Remove(func(qid string) bool { return qid == id })
		s.start(e)
	}

	e.Evacuated = evacuated
	e.Progress = progress(evacuated, e.Headcount)
	s.log.Debug("evacuation progress",
		zap.String("id", id),
		zap.Int("evacuated", evacuated),
		zap.Int("headcount", e.Headcount),
		zap.Float64("progress", e.Progress),
	)
	if evacuated == e.Headcount {
		s.complete(e)
	}
	s.observe()

	return *e, nil
}

// Get returns the evacuation with the given ID.
func (s *Scheduler) Get(id string) (Evacuation, bool) {
	e, ok := s.records[id]
	if !ok {
		return Evacuation{}, false
	}

	return *e, true
}

// List returns every evacuation in scheduling order.
func (s *Scheduler) List() []Evacuation {
	out := make([]Evacuation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.records[id])
	}

	return out
}

// Pending returns the queued evacuations in the order they would be served.
func (s *Scheduler) Pending() []Evacuation {
	ids := s.queue.Items()
	out := make([]Evacuation, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.records[id])
	}

	return out
}

// PendingCount returns the number of queued evacuations.
func (s *Scheduler) PendingCount() int { return s.queue.Len() }

// Statistics aggregates counts and progress over every evacuation.
func (s *Scheduler) Statistics() Stats {
	var st Stats
	for _, e := range s.records {
		switch e.State {
		case StatePending:
			st.Pending++
		case StateInProgress:
			st.InProgress++
		case StateCompleted:
			st.Completed++
		}
		st.TotalEvacuated += e.Evacuated
		st.TotalToEvacuate += e.Headcount
	}
	if st.TotalToEvacuate > 0 {
		st.OverallProgress = progress(st.TotalEvacuated, st.TotalToEvacuate)
	}

	return st
}

func (s *Scheduler) start(e *Evacuation) {
	e.State = StateInProgress
	at := s.now()
	e.StartedAt = &at
	s.log.Info("evacuation started",
		zap.String("id", e.ID),
		zap.String("zone", e.ZoneID),
		zap.String("team", e.Team),
	)
}

func (s *Scheduler) complete(e *Evacuation) {
	e.State = StateCompleted
	e.Evacuated = e.Headcount
	e.Progress = 100
	at := s.now()
	e.CompletedAt = &at
	s.log.Info("evacuation completed",
		zap.String("id", e.ID),
		zap.String("zone", e.ZoneID),
		zap.Int("evacuated", e.Evacuated),
	)
}

func (s *Scheduler) observe() {
	if s.rec != nil {
		s.rec.Observe(s.Statistics())
	}
}

func progress(done, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(done) / float64(total) * 100
}

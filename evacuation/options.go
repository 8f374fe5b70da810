package evacuation

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder receives the aggregate statistics after every state change.
// metrics.SchedulerCollector implements it for Prometheus.
type Recorder interface {
	Observe(Stats)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for lifecycle events. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDFunc replaces the ID generator (uuid.NewString by default).
// Panics if fn is nil.
func WithIDFunc(fn func() string) Option {
	if fn == nil {
		panic("evacuation: nil ID function")
	}
	return func(s *Scheduler) { s.newID = fn }
}

// WithClock replaces time.Now for timestamps. Panics if now is nil.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("evacuation: nil clock")
	}
	return func(s *Scheduler) { s.now = now }
}

// WithRecorder attaches a statistics sink.
func WithRecorder(r Recorder) Option {
	return func(s *Scheduler) { s.rec = r }
}

func defaults(s *Scheduler) {
	s.log = zap.NewNop()
	s.newID = uuid.NewString
	s.now = time.Now
}

// Package evacuation schedules zone evacuations by urgency and tracks them
// from pending through in-progress to completed.
package evacuation

import (
	"errors"
	"time"
)

// Sentinel errors returned by the Scheduler.
var (
	// ErrEmptyZone indicates Schedule was called without a zone ID.
	ErrEmptyZone = errors.New("evacuation: zone ID is empty")

	// ErrInvalidHeadcount indicates a negative number of people to evacuate.
	ErrInvalidHeadcount = errors.New("evacuation: headcount must be non-negative")

	// ErrNothingPending indicates PeekNext/BeginNext found no pending evacuation.
	ErrNothingPending = errors.New("evacuation: nothing pending")

	// ErrEvacuationNotFound indicates an unknown evacuation ID.
	ErrEvacuationNotFound = errors.New("evacuation: not found")

	// ErrCompleted indicates an attempt to change a completed evacuation.
	ErrCompleted = errors.New("evacuation: already completed")
)

// State is the lifecycle position of an Evacuation.
type State string

// Lifecycle: pending → in_progress → completed. There is no way back.
const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Evacuation is a snapshot of one scheduled evacuation.
//
// Priority is copied from the zone when the evacuation is scheduled; later
// changes to the zone do not reorder the queue.
type Evacuation struct {
	ID        string  `json:"id"`
	ZoneID    string  `json:"zone"`
	Priority  int     `json:"priority"`
	Headcount int     `json:"headcount"`
	Evacuated int     `json:"evacuated"`
	State     State   `json:"state"`
	Progress  float64 `json:"progress"`       // Evacuated / Headcount × 100
	Team      string  `json:"team,omitempty"` // rescue team assigned by BeginNext

	ScheduledAt time.Time  `json:"scheduled_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`   // nil while pending
	CompletedAt *time.Time `json:"completed_at,omitempty"` // nil until completed
}

// Done reports whether the evacuation is completed.
func (e Evacuation) Done() bool { return e.State == StateCompleted }

// Remaining returns how many people still have to leave the zone.
func (e Evacuation) Remaining() int { return e.Headcount - e.Evacuated }

// Stats aggregates every evacuation the scheduler has seen.
type Stats struct {
	Pending         int     `json:"pending"`
	InProgress      int     `json:"in_progress"`
	Completed       int     `json:"completed"`
	TotalEvacuated  int     `json:"total_evacuated"`
	TotalToEvacuate int     `json:"total_to_evacuate"`
	OverallProgress float64 `json:"overall_progress"` // TotalEvacuated / TotalToEvacuate × 100; 0 when nothing to evacuate
}

// PriorityLevel buckets a 0–100 zone priority for display.
type PriorityLevel string

const (
	LevelCritical PriorityLevel = "critical"
	LevelHigh     PriorityLevel = "high"
	LevelMedium   PriorityLevel = "medium"
	LevelLow      PriorityLevel = "low"
)

// Level classifies a zone priority: critical ≥ 80, high ≥ 60, medium ≥ 40.
func Level(priority int) PriorityLevel {
	switch {
	case priority >= 80:
		return LevelCritical
	case priority >= 60:
		return LevelHigh
	case priority >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session lifecycle misuse. Callers are expected to gate on Active(), so
// hitting these is a programming error, not a recoverable condition.
var (
	ErrSessionActive    = errors.New("a workout session is already active")
	ErrNoSession        = errors.New("no active workout session")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSetNotFound      = errors.New("set not found")
	ErrTimerNotFound    = errors.New("no rest timer for exercise")
	ErrInvalidDuration  = errors.New("rest duration must be positive")
)

// SetType tags how a set was performed.
type SetType string

const (
	SetNormal  SetType = "normal"
	SetWarmup  SetType = "warmup"
	SetDropset SetType = "dropset"
	SetFailure SetType = "failure"
)

// WorkoutSet is one set of an exercise. Sets are edited in place; the
// completed flag can be toggled freely and volume is recomputed live, so
// un-completing a set removes its contribution.
type WorkoutSet struct {
	Reps      int     `json:"reps"`
	WeightKg  float64 `json:"weight_kg"`
	Completed bool    `json:"completed"`
	Type      SetType `json:"type"`
}

// Exercise is one exercise within the active session, owned exclusively
// by it. Insertion order is display order.
type Exercise struct {
	ID   uuid.UUID    `json:"id"`
	Name string       `json:"name"`
	Sets []WorkoutSet `json:"sets"`
}

// session is the active workout. There is at most one per Manager.
type session struct {
	id        uuid.UUID
	name      string
	startTime time.Time
	exercises []*Exercise

	// elapsedSec advances on the manager's 1 Hz tick, independent of any
	// rest timer, and feeds the formatted duration shown by displays.
	elapsedSec int
}

func (s *session) exercise(id uuid.UUID) *Exercise {
	for _, ex := range s.exercises {
		if ex.ID == id {
			return ex
		}
	}
	return nil
}

func (s *session) totalVolume() float64 {
	var vol float64
	for _, ex := range s.exercises {
		for _, set := range ex.Sets {
			if set.Completed {
				vol += set.WeightKg * float64(set.Reps)
			}
		}
	}
	return vol
}

// SessionSnapshot is a copy of the active session safe to hand across
// the manager boundary.
type SessionSnapshot struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	StartTime      time.Time  `json:"start_time"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	Duration       string     `json:"duration"`
	TotalVolumeKg  float64    `json:"total_volume_kg"`
	Exercises      []Exercise `json:"exercises"`
}

// TimerSnapshot is a copy of one rest timer's state.
type TimerSnapshot struct {
	ExerciseID       uuid.UUID `json:"exercise_id"`
	ExerciseName     string    `json:"exercise_name"`
	TotalSeconds     int       `json:"total_seconds"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Paused           bool      `json:"paused"`
	State            string    `json:"state"`
}

// SummaryStatus marks how a session ended.
type SummaryStatus string

const (
	StatusCompleted SummaryStatus = "completed"
	StatusDiscarded SummaryStatus = "discarded"
)

// ExerciseSummary is one exercise's contribution to a finished session.
type ExerciseSummary struct {
	Name     string       `json:"name"`
	Sets     []WorkoutSet `json:"sets"`
	Calories float64      `json:"calories"`
}

// WorkoutSummary is the immutable output of Finish. Ownership passes to
// the caller; the engine keeps no reference.
type WorkoutSummary struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Date            time.Time         `json:"date"`
	DurationMinutes float64           `json:"duration_minutes"`
	TotalVolumeKg   float64           `json:"total_volume_kg"`
	TotalCalories   float64           `json:"total_calories"`
	Exercises       []ExerciseSummary `json:"exercises"`
	Status          SummaryStatus     `json:"status"`
}

// FormatDuration renders elapsed seconds as M:SS or H:MM:SS for display.
func FormatDuration(sec int) string {
	if sec < 0 {
		sec = 0
	}
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

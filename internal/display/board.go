// Package display provides LiveDisplay implementations: an in-process
// board backing the live HTTP endpoint and a freedesktop-notification
// adapter for Linux desktops.
package display

import (
	"sync"
	"time"

	"github.com/claude/repclock/internal/engine"
)

// TimerView is the board's public snapshot of the display surface.
type TimerView struct {
	Active           bool      `json:"active"`
	ExerciseName     string    `json:"exercise_name,omitempty"`
	TotalSeconds     int       `json:"total_seconds,omitempty"`
	RemainingSeconds int       `json:"remaining_seconds,omitempty"`
	Paused           bool      `json:"paused,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Board keeps the last observed timer state for polling consumers. It is
// safe for concurrent reads while the engine writes transitions.
type Board struct {
	mu   sync.Mutex
	view TimerView
}

var _ engine.LiveDisplay = (*Board)(nil)

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

func (b *Board) TimerStarted(exerciseName string, totalSeconds int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view = TimerView{
		Active:           true,
		ExerciseName:     exerciseName,
		TotalSeconds:     totalSeconds,
		RemainingSeconds: totalSeconds,
		UpdatedAt:        time.Now(),
	}
}

func (b *Board) TimerUpdated(remainingSeconds int, paused bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.RemainingSeconds = remainingSeconds
	b.view.Paused = paused
	b.view.UpdatedAt = time.Now()
}

func (b *Board) TimerEnded() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view = TimerView{Active: false, UpdatedAt: time.Now()}
}

// Snapshot returns a copy of the current view.
func (b *Board) Snapshot() TimerView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

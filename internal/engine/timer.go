package engine

import (
	"github.com/google/uuid"
)

// TimerState is the lifecycle state of a RestTimer.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerPaused
	TimerCompleted
	TimerStopped
)

func (s TimerState) String() string {
	switch s {
	case TimerIdle:
		return "idle"
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	case TimerCompleted:
		return "completed"
	case TimerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// terminal reports whether no further transitions can leave the state.
func (s TimerState) terminal() bool {
	return s == TimerCompleted || s == TimerStopped
}

// RestTimer is a one-exercise rest countdown. Ticks are delivered by the
// registry from the manager's 1 Hz loop; the timer never runs its own
// goroutine. Every transition is mirrored to the live display in order.
//
// States: Idle → Running → {Paused ⇄ Running} → Completed, or any
// non-terminal state → Stopped. Completed and Stopped are terminal.
// Pause, Resume and AddTime in an invalid state are no-ops.
type RestTimer struct {
	exerciseID   uuid.UUID
	exerciseName string
	total        int
	remaining    int
	state        TimerState
	seq          uint64 // start order assigned by the registry
	display      LiveDisplay
	onComplete   func()
}

func newRestTimer(exerciseID uuid.UUID, exerciseName string, display LiveDisplay, onComplete func()) *RestTimer {
	if display == nil {
		display = NopDisplay{}
	}
	return &RestTimer{
		exerciseID:   exerciseID,
		exerciseName: exerciseName,
		state:        TimerIdle,
		display:      display,
		onComplete:   onComplete,
	}
}

// Start begins the countdown. Valid only from Idle; otherwise a no-op.
func (t *RestTimer) Start(seconds int) {
	if t.state != TimerIdle || seconds <= 0 {
		return
	}
	t.total = seconds
	t.remaining = seconds
	t.state = TimerRunning
	t.display.TimerStarted(t.exerciseName, t.total)
}

// Tick consumes one second. Only a Running timer ticks; reaching zero
// completes the timer and fires the completion callback exactly once.
func (t *RestTimer) Tick() {
	if t.state != TimerRunning {
		return
	}
	t.remaining--
	if t.remaining > 0 {
		t.display.TimerUpdated(t.remaining, false)
		return
	}
	t.remaining = 0
	t.complete()
}

// Pause suspends the countdown. Valid only from Running.
func (t *RestTimer) Pause() {
	if t.state != TimerRunning {
		return
	}
	t.state = TimerPaused
	t.display.TimerUpdated(t.remaining, true)
}

// Resume continues the countdown from the current remaining time.
// Valid only from Paused.
func (t *RestTimer) Resume() {
	if t.state != TimerPaused {
		return
	}
	t.state = TimerRunning
	t.display.TimerUpdated(t.remaining, false)
}

// AddTime extends the countdown. Valid while Running or Paused; there is
// no upper clamp.
func (t *RestTimer) AddTime(seconds int) {
	if seconds <= 0 {
		return
	}
	if t.state != TimerRunning && t.state != TimerPaused {
		return
	}
	t.remaining += seconds
	t.display.TimerUpdated(t.remaining, t.state == TimerPaused)
}

// Skip forces the same completion path as natural expiry.
func (t *RestTimer) Skip() {
	if t.state != TimerRunning && t.state != TimerPaused {
		return
	}
	t.remaining = 0
	t.complete()
}

// Stop cancels the countdown without firing the completion callback.
// Safe on an already-terminal timer. An Idle timer moves to Stopped
// silently: it never announced a start, so the display has nothing to
// end.
func (t *RestTimer) Stop() {
	if t.state.terminal() {
		return
	}
	if t.state == TimerIdle {
		t.state = TimerStopped
		return
	}
	t.state = TimerStopped
	t.display.TimerEnded()
}

// complete is only reachable from Running or Paused, so the callback can
// fire at most once per timer instance.
func (t *RestTimer) complete() {
	t.state = TimerCompleted
	t.display.TimerEnded()
	if t.onComplete != nil {
		t.onComplete()
	}
}

// ExerciseID returns the owning exercise key.
func (t *RestTimer) ExerciseID() uuid.UUID { return t.exerciseID }

// ExerciseName returns the display label for the owning exercise.
func (t *RestTimer) ExerciseName() string { return t.exerciseName }

// Total returns the immutable starting duration in seconds.
func (t *RestTimer) Total() int { return t.total }

// Remaining returns the seconds left on the countdown.
func (t *RestTimer) Remaining() int { return t.remaining }

// State returns the current lifecycle state.
func (t *RestTimer) State() TimerState { return t.state }

// Running reports whether the timer is actively ticking.
func (t *RestTimer) Running() bool { return t.state == TimerRunning }

// Paused reports whether the timer is suspended.
func (t *RestTimer) Paused() bool { return t.state == TimerPaused }

// Done reports whether the timer reached a terminal state.
func (t *RestTimer) Done() bool { return t.state.terminal() }

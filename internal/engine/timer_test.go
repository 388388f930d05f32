package engine

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

// recordingDisplay captures live display transitions in order.
type recordingDisplay struct {
	events []string
}

func (d *recordingDisplay) TimerStarted(name string, total int) {
	d.events = append(d.events, fmt.Sprintf("started %s %d", name, total))
}

func (d *recordingDisplay) TimerUpdated(remaining int, paused bool) {
	d.events = append(d.events, fmt.Sprintf("updated %d %v", remaining, paused))
}

func (d *recordingDisplay) TimerEnded() {
	d.events = append(d.events, "ended")
}

func (d *recordingDisplay) count(prefix string) int {
	n := 0
	for _, e := range d.events {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func newTestTimer(display LiveDisplay, onComplete func()) *RestTimer {
	return newRestTimer(uuid.New(), "Bench Press", display, onComplete)
}

// TestTimerCountdown verifies that a timer started with duration d reaches
// zero after exactly d ticks and fires its completion callback once.
func TestTimerCountdown(t *testing.T) {
	for _, d := range []int{1, 2, 30, 90} {
		fires := 0
		timer := newTestTimer(nil, func() { fires++ })
		timer.Start(d)

		for i := 0; i < d; i++ {
			timer.Tick()
		}
		if timer.Remaining() != 0 {
			t.Errorf("d=%d: remaining = %d, want 0", d, timer.Remaining())
		}
		if timer.State() != TimerCompleted {
			t.Errorf("d=%d: state = %v, want completed", d, timer.State())
		}
		if fires != 1 {
			t.Errorf("d=%d: completion fired %d times, want 1", d, fires)
		}
	}
}

// TestTimerTickAfterCompletion verifies the terminal state is idempotent:
// further ticks never re-fire the completion callback.
func TestTimerTickAfterCompletion(t *testing.T) {
	fires := 0
	timer := newTestTimer(nil, func() { fires++ })
	timer.Start(2)
	for i := 0; i < 10; i++ {
		timer.Tick()
	}
	if fires != 1 {
		t.Errorf("completion fired %d times, want 1", fires)
	}
	if timer.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", timer.Remaining())
	}
}

// TestTimerPauseResume verifies pause stops ticking, resume continues from
// the same remaining time, and an immediate pause/resume pair changes nothing.
func TestTimerPauseResume(t *testing.T) {
	timer := newTestTimer(nil, nil)
	timer.Start(60)
	timer.Tick()
	timer.Tick()

	timer.Pause()
	if !timer.Paused() {
		t.Fatal("timer not paused after Pause")
	}
	// ticks while paused must not decrement
	timer.Tick()
	timer.Tick()
	if timer.Remaining() != 58 {
		t.Errorf("remaining = %d, want 58", timer.Remaining())
	}

	timer.Resume()
	if !timer.Running() {
		t.Fatal("timer not running after Resume")
	}
	if timer.Remaining() != 58 {
		t.Errorf("remaining changed across pause/resume: %d, want 58", timer.Remaining())
	}
}

// TestTimerAddTime verifies AddTime extends the countdown in both Running
// and Paused states without altering the paused flag.
func TestTimerAddTime(t *testing.T) {
	timer := newTestTimer(nil, nil)
	timer.Start(30)
	timer.AddTime(15)
	if timer.Remaining() != 45 {
		t.Errorf("remaining = %d, want 45", timer.Remaining())
	}

	timer.Pause()
	timer.AddTime(10)
	if timer.Remaining() != 55 {
		t.Errorf("remaining = %d, want 55", timer.Remaining())
	}
	if !timer.Paused() {
		t.Error("AddTime changed paused state")
	}
}

// TestTimerSkip verifies skip takes the same completion path as expiry.
func TestTimerSkip(t *testing.T) {
	fires := 0
	display := &recordingDisplay{}
	timer := newTestTimer(display, func() { fires++ })
	timer.Start(90)
	timer.Tick()

	timer.Skip()
	if timer.State() != TimerCompleted {
		t.Errorf("state = %v, want completed", timer.State())
	}
	if fires != 1 {
		t.Errorf("completion fired %d times, want 1", fires)
	}
	if timer.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", timer.Remaining())
	}
	if display.count("ended") != 1 {
		t.Errorf("ended events = %d, want 1", display.count("ended"))
	}
}

// TestTimerStop verifies stop cancels without firing the completion
// callback and is safe on an already-terminal timer.
func TestTimerStop(t *testing.T) {
	fires := 0
	timer := newTestTimer(nil, func() { fires++ })
	timer.Start(60)
	timer.Stop()
	if timer.State() != TimerStopped {
		t.Errorf("state = %v, want stopped", timer.State())
	}
	if fires != 0 {
		t.Errorf("completion fired %d times, want 0", fires)
	}

	// stop again: no-op, no panic, no events
	timer.Stop()
	timer.Tick()
	if fires != 0 {
		t.Errorf("completion fired after stop: %d", fires)
	}
}

// TestTimerInvalidTransitions verifies pause/resume/addTime in invalid
// states are no-ops that never corrupt state.
func TestTimerInvalidTransitions(t *testing.T) {
	timer := newTestTimer(nil, nil)

	// all invalid from Idle
	timer.Pause()
	timer.Resume()
	timer.AddTime(10)
	timer.Tick()
	if timer.State() != TimerIdle {
		t.Errorf("state = %v, want idle", timer.State())
	}

	timer.Start(30)
	timer.Resume() // invalid: running
	if !timer.Running() {
		t.Error("Resume on running timer changed state")
	}
	timer.Pause()
	timer.Pause() // invalid: already paused
	if !timer.Paused() {
		t.Error("double Pause changed state")
	}

	timer.Skip()
	// all invalid from Completed
	timer.Pause()
	timer.Resume()
	timer.AddTime(10)
	if timer.State() != TimerCompleted || timer.Remaining() != 0 {
		t.Errorf("terminal state corrupted: %v remaining=%d", timer.State(), timer.Remaining())
	}
}

// TestTimerDisplayOrder verifies the live display observes started, the
// per-tick updates, and exactly one ended, in transition order.
func TestTimerDisplayOrder(t *testing.T) {
	display := &recordingDisplay{}
	timer := newTestTimer(display, nil)
	timer.Start(3)
	timer.Tick()
	timer.Tick()
	timer.Tick()

	want := []string{
		"started Bench Press 3",
		"updated 2 false",
		"updated 1 false",
		"ended",
	}
	if len(display.events) != len(want) {
		t.Fatalf("events = %v, want %v", display.events, want)
	}
	for i := range want {
		if display.events[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, display.events[i], want[i])
		}
	}
}

// TestTimerNaturalExpiryEndsOnce starts a 90 second timer, ticks it 90
// times, and expects exactly one ended transition with remaining zero.
func TestTimerNaturalExpiryEndsOnce(t *testing.T) {
	display := &recordingDisplay{}
	timer := newTestTimer(display, nil)
	timer.Start(90)
	for i := 0; i < 90; i++ {
		timer.Tick()
	}
	if got := display.count("ended"); got != 1 {
		t.Errorf("ended events = %d, want 1", got)
	}
	if timer.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", timer.Remaining())
	}
}

// TestTimerPauseEmitsPausedUpdate verifies pause emits an update with the
// paused flag set and the remaining time unchanged.
func TestTimerPauseEmitsPausedUpdate(t *testing.T) {
	display := &recordingDisplay{}
	timer := newTestTimer(display, nil)
	timer.Start(10)
	timer.Tick()
	timer.Pause()

	last := display.events[len(display.events)-1]
	if last != "updated 9 true" {
		t.Errorf("last event = %q, want %q", last, "updated 9 true")
	}
}

// TestTimerStopFromIdle verifies stopping a never-started timer reaches
// Stopped without any display emission and cannot be started afterwards.
func TestTimerStopFromIdle(t *testing.T) {
	display := &recordingDisplay{}
	timer := newTestTimer(display, nil)

	timer.Stop()
	if timer.State() != TimerStopped {
		t.Fatalf("state = %v, want stopped", timer.State())
	}
	if len(display.events) != 0 {
		t.Errorf("events = %v, want none", display.events)
	}

	timer.Start(60)
	if timer.State() != TimerStopped || len(display.events) != 0 {
		t.Errorf("stopped timer restarted: state = %v, events = %v", timer.State(), display.events)
	}
}

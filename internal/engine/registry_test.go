package engine

import (
	"testing"

	"github.com/google/uuid"
)

// TestRegistryReplacement verifies that starting a second timer for the
// same exercise leaves exactly one entry and fully silences the first:
// no further display emissions, no completion callback.
func TestRegistryReplacement(t *testing.T) {
	display := &recordingDisplay{}
	r := NewRegistry(display)
	exID := uuid.New()

	firstFired := false
	first := r.StartTimer(exID, "Squat", 60, func() { firstFired = true })

	secondFired := 0
	r.StartTimer(exID, "Squat", 90, func() { secondFired++ })

	if r.Len() != 1 {
		t.Fatalf("registry entries = %d, want 1", r.Len())
	}
	if first.State() != TimerStopped {
		t.Errorf("replaced timer state = %v, want stopped", first.State())
	}

	eventsBefore := len(display.events)
	// ticking the registry must only advance the replacement
	for i := 0; i < 90; i++ {
		r.Tick()
	}
	if firstFired {
		t.Error("replaced timer fired its completion callback")
	}
	if secondFired != 1 {
		t.Errorf("replacement completion fired %d times, want 1", secondFired)
	}
	// the replaced timer must not have emitted after replacement
	first.Tick()
	first.Skip()
	if len(display.events) != eventsBefore+90 {
		t.Errorf("stale timer emitted transitions after replacement")
	}
}

// TestRegistryStopAll verifies StopAll clears every entry without firing
// completion callbacks. This is the discard path.
func TestRegistryStopAll(t *testing.T) {
	r := NewRegistry(nil)
	fired := 0
	r.StartTimer(uuid.New(), "Bench Press", 60, func() { fired++ })
	r.StartTimer(uuid.New(), "Deadlift", 120, func() { fired++ })

	r.StopAll()
	if r.Len() != 0 {
		t.Errorf("registry entries = %d, want 0", r.Len())
	}
	r.Tick()
	if fired != 0 {
		t.Errorf("completion fired %d times after StopAll, want 0", fired)
	}
}

// TestRegistryStopTimerAbsent verifies stopping a missing key is a no-op.
func TestRegistryStopTimerAbsent(t *testing.T) {
	r := NewRegistry(nil)
	r.StopTimer(uuid.New()) // must not panic
	if r.Len() != 0 {
		t.Errorf("registry entries = %d, want 0", r.Len())
	}
}

// TestRegistryMostRelevant verifies the most recently started running
// timer wins, and that paused timers are not eligible.
func TestRegistryMostRelevant(t *testing.T) {
	r := NewRegistry(nil)
	a := uuid.New()
	b := uuid.New()

	r.StartTimer(a, "Squat", 60, nil)
	second := r.StartTimer(b, "Bench Press", 90, nil)

	got := r.MostRelevant()
	if got != second {
		t.Fatalf("most relevant = %v, want the later-started timer", got)
	}

	second.Pause()
	got = r.MostRelevant()
	if got == nil || got.ExerciseID() != a {
		t.Errorf("most relevant after pausing later timer should fall back to earlier one")
	}

	r.StopAll()
	if r.MostRelevant() != nil {
		t.Error("most relevant non-nil with no timers")
	}
}

// TestRegistryTickDropsTerminal verifies completed timers are removed on
// the tick that finishes them.
func TestRegistryTickDropsTerminal(t *testing.T) {
	r := NewRegistry(nil)
	r.StartTimer(uuid.New(), "Row", 2, nil)
	r.Tick()
	if r.Len() != 1 {
		t.Fatalf("entries = %d, want 1 before expiry", r.Len())
	}
	r.Tick()
	if r.Len() != 0 {
		t.Errorf("entries = %d, want 0 after expiry", r.Len())
	}
}

// TestRegistryActiveOrder verifies Active returns timers in start order.
func TestRegistryActiveOrder(t *testing.T) {
	r := NewRegistry(nil)
	names := []string{"Squat", "Bench Press", "Deadlift"}
	for _, n := range names {
		r.StartTimer(uuid.New(), n, 60, nil)
	}
	active := r.Active()
	if len(active) != 3 {
		t.Fatalf("active = %d, want 3", len(active))
	}
	for i, n := range names {
		if active[i].ExerciseName() != n {
			t.Errorf("active[%d] = %q, want %q", i, active[i].ExerciseName(), n)
		}
	}
}

// TestRegistryDisplayFocus verifies that with two concurrent timers the
// display follows the newest live one: the older timer's updates are not
// interleaved, and when the newest ends the older is re-announced with
// its current remaining time instead of the view going blank.
func TestRegistryDisplayFocus(t *testing.T) {
	display := &recordingDisplay{}
	r := NewRegistry(display)

	r.StartTimer(uuid.New(), "Squat", 60, nil)
	second := r.StartTimer(uuid.New(), "Bench Press", 90, nil)

	r.Tick() // both advance, only the newest reaches the display
	second.Skip()
	r.Tick()

	want := []string{
		"started Squat 60",
		"started Bench Press 90",
		"updated 89 false",
		"ended",
		"started Squat 60",
		"updated 59 false",
		"updated 58 false",
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

// TestRegistryStopAllEndsDisplayOnce verifies a stop sweep emits a single
// ended transition and does not re-announce timers it is about to stop.
func TestRegistryStopAllEndsDisplayOnce(t *testing.T) {
	display := &recordingDisplay{}
	r := NewRegistry(display)
	r.StartTimer(uuid.New(), "Squat", 60, nil)
	r.StartTimer(uuid.New(), "Bench Press", 90, nil)

	before := len(display.events)
	r.StopAll()
	if got := display.count("ended"); got != 1 {
		t.Errorf("ended events = %d, want 1", got)
	}
	if got := len(display.events) - before; got != 1 {
		t.Errorf("events during StopAll = %d, want 1", got)
	}
}

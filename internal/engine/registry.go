package engine

import (
	"github.com/google/uuid"
)

// Registry owns at most one RestTimer per exercise key. Starting a timer
// for a key that already has one stops the old timer first, so the
// replaced timer never emits another transition and its completion
// callback never fires.
//
// The LiveDisplay contract carries no timer identity, so the registry
// routes transitions through a per-timer feed and forwards only the
// newest live timer to the display. When that timer ends, the next
// newest live timer is re-announced in its place, so the surface never
// interleaves concurrent countdowns or goes blank while a rest is still
// in progress.
//
// The registry is not safe for concurrent use on its own; the Manager
// serializes all access under its lock.
type Registry struct {
	timers   map[uuid.UUID]*RestTimer
	seq      uint64
	focus    uint64 // seq of the timer currently on the display
	stopping bool   // suppresses re-announcement during stop sweeps
	display  LiveDisplay
}

// NewRegistry creates an empty registry mirroring transitions to display.
func NewRegistry(display LiveDisplay) *Registry {
	if display == nil {
		display = NopDisplay{}
	}
	return &Registry{
		timers:  make(map[uuid.UUID]*RestTimer),
		display: display,
	}
}

// StartTimer creates and starts a rest timer for the exercise, replacing
// any existing timer under the same key.
func (r *Registry) StartTimer(exerciseID uuid.UUID, exerciseName string, seconds int, onComplete func()) *RestTimer {
	if old, ok := r.timers[exerciseID]; ok {
		// the replacement announces itself next, so skip re-announcing
		// some other timer in between
		r.stopping = true
		old.Stop()
		r.stopping = false
		delete(r.timers, exerciseID)
	}
	t := newRestTimer(exerciseID, exerciseName, nil, onComplete)
	r.seq++
	t.seq = r.seq
	t.display = timerFeed{r: r, t: t}
	t.Start(seconds)
	r.timers[exerciseID] = t
	return t
}

// Get returns the timer for the exercise, or nil if none exists.
func (r *Registry) Get(exerciseID uuid.UUID) *RestTimer {
	return r.timers[exerciseID]
}

// StopTimer stops and removes the exercise's timer. No-op if absent.
func (r *Registry) StopTimer(exerciseID uuid.UUID) {
	if t, ok := r.timers[exerciseID]; ok {
		t.Stop()
		delete(r.timers, exerciseID)
	}
}

// StopAll stops every timer and clears the registry.
func (r *Registry) StopAll() {
	r.stopping = true
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
	r.stopping = false
}

// Tick advances every running timer by one second and drops timers that
// reached a terminal state.
func (r *Registry) Tick() {
	for id, t := range r.timers {
		t.Tick()
		if t.Done() {
			delete(r.timers, id)
		}
	}
}

// Active returns all non-terminal timers in start order.
func (r *Registry) Active() []*RestTimer {
	out := make([]*RestTimer, 0, len(r.timers))
	for _, t := range r.timers {
		if !t.Done() {
			out = append(out, t)
		}
	}
	// insertion sort by start sequence; the registry rarely holds more
	// than a handful of timers
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].seq > out[j].seq; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// MostRelevant returns the most recently started timer that is still
// running, for compact single-slot displays. Paused timers do not count.
func (r *Registry) MostRelevant() *RestTimer {
	var best *RestTimer
	for _, t := range r.timers {
		if !t.Running() {
			continue
		}
		if best == nil || t.seq > best.seq {
			best = t
		}
	}
	return best
}

// Len returns the number of timers currently held.
func (r *Registry) Len() int { return len(r.timers) }

// liveAfter returns the newest non-terminal timer other than t, or nil.
func (r *Registry) liveAfter(t *RestTimer) *RestTimer {
	var best *RestTimer
	for _, o := range r.timers {
		if o == t || o.Done() {
			continue
		}
		if best == nil || o.seq > best.seq {
			best = o
		}
	}
	return best
}

// timerFeed is one timer's private LiveDisplay. It forwards transitions
// to the registry's display only while its timer holds the focus, and
// hands the focus to the next live timer when the focused one ends.
type timerFeed struct {
	r *Registry
	t *RestTimer
}

var _ LiveDisplay = timerFeed{}

func (f timerFeed) TimerStarted(exerciseName string, totalSeconds int) {
	f.r.focus = f.t.seq
	f.r.display.TimerStarted(exerciseName, totalSeconds)
}

func (f timerFeed) TimerUpdated(remainingSeconds int, paused bool) {
	if f.t.seq == f.r.focus {
		f.r.display.TimerUpdated(remainingSeconds, paused)
	}
}

func (f timerFeed) TimerEnded() {
	if f.t.seq != f.r.focus {
		return
	}
	f.r.display.TimerEnded()
	f.r.focus = 0
	if f.r.stopping {
		return
	}
	if next := f.r.liveAfter(f.t); next != nil {
		f.r.focus = next.seq
		f.r.display.TimerStarted(next.exerciseName, next.total)
		f.r.display.TimerUpdated(next.remaining, next.state == TimerPaused)
	}
}

package engine

// LiveDisplay receives rest-timer state transitions for rendering on an
// external surface (lock screen, notification area, status widget). Calls
// arrive synchronously on the engine's tick context and always in the
// emitting timer's own transition order.
type LiveDisplay interface {
	TimerStarted(exerciseName string, totalSeconds int)
	TimerUpdated(remainingSeconds int, paused bool)
	TimerEnded()
}

// NopDisplay discards all transitions. Timers run normally without a
// real surface attached.
type NopDisplay struct{}

var _ LiveDisplay = NopDisplay{}

func (NopDisplay) TimerStarted(string, int) {}
func (NopDisplay) TimerUpdated(int, bool)   {}
func (NopDisplay) TimerEnded()              {}

// CoalescingDisplay forwards at most one TimerUpdated call per interval
// ticks to a wrapped display with a lower refresh tolerance. TimerStarted
// and TimerEnded always pass through, as does any update that flips the
// paused flag.
type CoalescingDisplay struct {
	next       LiveDisplay
	interval   int
	sinceLast  int
	lastPaused bool
}

// NewCoalescingDisplay wraps next, forwarding updates every interval ticks.
// An interval below 1 forwards everything.
func NewCoalescingDisplay(next LiveDisplay, interval int) *CoalescingDisplay {
	if interval < 1 {
		interval = 1
	}
	return &CoalescingDisplay{next: next, interval: interval}
}

var _ LiveDisplay = (*CoalescingDisplay)(nil)

func (c *CoalescingDisplay) TimerStarted(exerciseName string, totalSeconds int) {
	c.sinceLast = 0
	c.lastPaused = false
	c.next.TimerStarted(exerciseName, totalSeconds)
}

func (c *CoalescingDisplay) TimerUpdated(remainingSeconds int, paused bool) {
	c.sinceLast++
	if paused != c.lastPaused || c.sinceLast >= c.interval {
		c.sinceLast = 0
		c.lastPaused = paused
		c.next.TimerUpdated(remainingSeconds, paused)
	}
}

func (c *CoalescingDisplay) TimerEnded() {
	c.sinceLast = 0
	c.next.TimerEnded()
}

// Fanout forwards every transition to each member display in order.
type Fanout []LiveDisplay

var _ LiveDisplay = Fanout(nil)

func (f Fanout) TimerStarted(exerciseName string, totalSeconds int) {
	for _, d := range f {
		d.TimerStarted(exerciseName, totalSeconds)
	}
}

func (f Fanout) TimerUpdated(remainingSeconds int, paused bool) {
	for _, d := range f {
		d.TimerUpdated(remainingSeconds, paused)
	}
}

func (f Fanout) TimerEnded() {
	for _, d := range f {
		d.TimerEnded()
	}
}

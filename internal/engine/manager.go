package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns the single active-session slot and the per-exercise timer
// registry. All mutation happens under one mutex; the 1 Hz loop started
// by Run dispatches timer ticks and the session duration tick on that
// same lock, so timers never race each other or callers.
type Manager struct {
	mu       sync.Mutex
	session  *session
	registry *Registry

	display      LiveDisplay
	bodyWeightKg float64
	log          *slog.Logger

	now func() time.Time
}

// NewManager creates a Manager. A nil display is replaced with NopDisplay
// and a non-positive body weight with DefaultBodyWeightKg.
func NewManager(display LiveDisplay, bodyWeightKg float64, log *slog.Logger) *Manager {
	if display == nil {
		display = NopDisplay{}
	}
	if bodyWeightKg <= 0 {
		bodyWeightKg = DefaultBodyWeightKg
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		registry:     NewRegistry(display),
		display:      display,
		bodyWeightKg: bodyWeightKg,
		log:          log,
		now:          time.Now,
	}
}

// Run drives the 1 Hz tick loop until ctx is cancelled. It blocks.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick advances the session clock and every running rest timer by one
// second. Tests call it directly instead of waiting on the real ticker.
func (m *Manager) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.session.elapsedSec++
	}
	m.registry.Tick()
}

// Active reports whether a session is in progress.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// StartSession begins a new workout. If name is empty the session is
// auto-named after the weekday ("Friday Workout"). Fails with
// ErrSessionActive if a session is already in progress.
func (m *Manager) StartSession(name string) (SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		return SessionSnapshot{}, ErrSessionActive
	}

	start := m.now()
	if name == "" {
		name = start.Weekday().String() + " Workout"
	}
	m.session = &session{
		id:        uuid.New(),
		name:      name,
		startTime: start,
	}
	m.log.Info("session started", "id", m.session.id, "name", name)
	return m.snapshotLocked(), nil
}

// Snapshot returns a copy of the active session.
func (m *Manager) Snapshot() (SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return SessionSnapshot{}, ErrNoSession
	}
	return m.snapshotLocked(), nil
}

func (m *Manager) snapshotLocked() SessionSnapshot {
	s := m.session
	snap := SessionSnapshot{
		ID:             s.id,
		Name:           s.name,
		StartTime:      s.startTime,
		ElapsedSeconds: s.elapsedSec,
		Duration:       FormatDuration(s.elapsedSec),
		TotalVolumeKg:  s.totalVolume(),
		Exercises:      make([]Exercise, 0, len(s.exercises)),
	}
	for _, ex := range s.exercises {
		cp := Exercise{ID: ex.ID, Name: ex.Name, Sets: make([]WorkoutSet, len(ex.Sets))}
		copy(cp.Sets, ex.Sets)
		snap.Exercises = append(snap.Exercises, cp)
	}
	return snap
}

// AddExercise appends an exercise to the active session.
func (m *Manager) AddExercise(name string) (Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return Exercise{}, ErrNoSession
	}
	ex := &Exercise{ID: uuid.New(), Name: name}
	m.session.exercises = append(m.session.exercises, ex)
	return Exercise{ID: ex.ID, Name: ex.Name}, nil
}

// RemoveExercise removes an exercise and stops its rest timer, so no
// timer outlives its exercise.
func (m *Manager) RemoveExercise(exerciseID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	for i, ex := range m.session.exercises {
		if ex.ID == exerciseID {
			m.session.exercises = append(m.session.exercises[:i], m.session.exercises[i+1:]...)
			m.registry.StopTimer(exerciseID)
			return nil
		}
	}
	return ErrExerciseNotFound
}

// AddSet appends a set to an exercise and returns its index.
func (m *Manager) AddSet(exerciseID uuid.UUID, set WorkoutSet) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return 0, ErrNoSession
	}
	ex := m.session.exercise(exerciseID)
	if ex == nil {
		return 0, ErrExerciseNotFound
	}
	if set.Type == "" {
		set.Type = SetNormal
	}
	ex.Sets = append(ex.Sets, set)
	return len(ex.Sets) - 1, nil
}

// UpdateSet replaces the set at index in place.
func (m *Manager) UpdateSet(exerciseID uuid.UUID, index int, set WorkoutSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	ex := m.session.exercise(exerciseID)
	if ex == nil {
		return ErrExerciseNotFound
	}
	if index < 0 || index >= len(ex.Sets) {
		return ErrSetNotFound
	}
	if set.Type == "" {
		set.Type = SetNormal
	}
	ex.Sets[index] = set
	return nil
}

// CompleteSet marks the set at index completed. It does not start a rest
// timer; rest initiation is a separate explicit call so rest durations
// stay a caller concern.
func (m *Manager) CompleteSet(exerciseID uuid.UUID, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	ex := m.session.exercise(exerciseID)
	if ex == nil {
		return ErrExerciseNotFound
	}
	if index < 0 || index >= len(ex.Sets) {
		return ErrSetNotFound
	}
	ex.Sets[index].Completed = true
	return nil
}

// TotalVolume recomputes Σ weight×reps over completed sets. Never cached,
// so toggled sets are always reflected.
func (m *Manager) TotalVolume() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return 0, ErrNoSession
	}
	return m.session.totalVolume(), nil
}

// StartRest starts (or replaces) the rest timer for an exercise. A
// non-positive duration is rejected so the registry never holds a timer
// that will never tick.
func (m *Manager) StartRest(exerciseID uuid.UUID, seconds int) (TimerSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seconds <= 0 {
		return TimerSnapshot{}, ErrInvalidDuration
	}
	if m.session == nil {
		return TimerSnapshot{}, ErrNoSession
	}
	ex := m.session.exercise(exerciseID)
	if ex == nil {
		return TimerSnapshot{}, ErrExerciseNotFound
	}
	name := ex.Name
	t := m.registry.StartTimer(exerciseID, name, seconds, func() {
		m.log.Info("rest complete", "exercise", name)
	})
	return timerSnapshot(t), nil
}

// PauseRest pauses the exercise's rest timer.
func (m *Manager) PauseRest(exerciseID uuid.UUID) (TimerSnapshot, error) {
	return m.withTimer(exerciseID, (*RestTimer).Pause)
}

// ResumeRest resumes the exercise's paused rest timer.
func (m *Manager) ResumeRest(exerciseID uuid.UUID) (TimerSnapshot, error) {
	return m.withTimer(exerciseID, (*RestTimer).Resume)
}

// SkipRest ends the exercise's rest timer through the completion path.
func (m *Manager) SkipRest(exerciseID uuid.UUID) (TimerSnapshot, error) {
	return m.withTimer(exerciseID, (*RestTimer).Skip)
}

// AddRestTime extends the exercise's rest timer by seconds.
func (m *Manager) AddRestTime(exerciseID uuid.UUID, seconds int) (TimerSnapshot, error) {
	return m.withTimer(exerciseID, func(t *RestTimer) { t.AddTime(seconds) })
}

// StopRest cancels the exercise's rest timer without completion.
func (m *Manager) StopRest(exerciseID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registry.Get(exerciseID) == nil {
		return ErrTimerNotFound
	}
	m.registry.StopTimer(exerciseID)
	return nil
}

func (m *Manager) withTimer(exerciseID uuid.UUID, op func(*RestTimer)) (TimerSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.registry.Get(exerciseID)
	if t == nil {
		return TimerSnapshot{}, ErrTimerNotFound
	}
	op(t)
	snap := timerSnapshot(t)
	if t.Done() {
		m.registry.StopTimer(exerciseID)
	}
	return snap, nil
}

// Timers returns snapshots of all live rest timers in start order.
func (m *Manager) Timers() []TimerSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := m.registry.Active()
	out := make([]TimerSnapshot, 0, len(active))
	for _, t := range active {
		out = append(out, timerSnapshot(t))
	}
	return out
}

// MostRelevantTimer returns the most recently started running timer.
func (m *Manager) MostRelevantTimer() (TimerSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.registry.MostRelevant()
	if t == nil {
		return TimerSnapshot{}, false
	}
	return timerSnapshot(t), true
}

// Finish ends the active session: stops all timers, aggregates completed
// sets into a WorkoutSummary with per-exercise calorie estimates, clears
// the slot, and returns the summary. Persisting it is the caller's job;
// a failed hand-off does not roll back the finish.
func (m *Manager) Finish() (WorkoutSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return WorkoutSummary{}, ErrNoSession
	}

	s := m.session
	m.registry.StopAll()

	durationMin := m.now().Sub(s.startTime).Minutes()
	summary := WorkoutSummary{
		ID:              s.id,
		Name:            s.name,
		Date:            s.startTime,
		DurationMinutes: durationMin,
		TotalVolumeKg:   s.totalVolume(),
		Status:          StatusCompleted,
	}

	// Duration is distributed evenly across exercises for estimation;
	// per-exercise timing is not tracked.
	perExerciseMin := 0.0
	if len(s.exercises) > 0 {
		perExerciseMin = durationMin / float64(len(s.exercises))
	}

	for _, ex := range s.exercises {
		var completedSets, totalReps int
		for _, set := range ex.Sets {
			if set.Completed {
				completedSets++
				totalReps += set.Reps
			}
		}
		es := ExerciseSummary{
			Name: ex.Name,
			Sets: make([]WorkoutSet, len(ex.Sets)),
			Calories: EstimateCalories(
				ex.Name, perExerciseMin, completedSets, totalReps, m.bodyWeightKg),
		}
		copy(es.Sets, ex.Sets)
		summary.TotalCalories += es.Calories
		summary.Exercises = append(summary.Exercises, es)
	}

	m.session = nil
	m.log.Info("session finished",
		"id", summary.ID,
		"duration_min", summary.DurationMinutes,
		"volume_kg", summary.TotalVolumeKg,
		"calories", summary.TotalCalories,
	)
	return summary, nil
}

// Discard ends the active session without producing a summary. All rest
// timers are stopped; none fires its completion callback.
func (m *Manager) Discard() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	m.registry.StopAll()
	m.log.Info("session discarded", "id", m.session.id)
	m.session = nil
	return nil
}

func timerSnapshot(t *RestTimer) TimerSnapshot {
	return TimerSnapshot{
		ExerciseID:       t.ExerciseID(),
		ExerciseName:     t.ExerciseName(),
		TotalSeconds:     t.Total(),
		RemainingSeconds: t.Remaining(),
		Paused:           t.Paused(),
		State:            t.State().String(),
	}
}

package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Archive is a local SQLite copy of exported workouts. Saving the same
// workout twice replaces it, so repeated export runs are idempotent.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (or creates) the archive database at dir/archive.db.
func OpenArchive(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "archive.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening archive db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS workouts (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			date             TIMESTAMP NOT NULL,
			duration_minutes REAL NOT NULL,
			total_volume_kg  REAL NOT NULL,
			total_calories   REAL NOT NULL,
			status           TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS workout_exercises (
			workout_id      TEXT NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
			exercise_number INTEGER NOT NULL,
			name            TEXT NOT NULL,
			calories        REAL NOT NULL,
			PRIMARY KEY (workout_id, exercise_number)
		)`,
		`CREATE TABLE IF NOT EXISTS workout_sets (
			workout_id      TEXT NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
			exercise_number INTEGER NOT NULL,
			set_number      INTEGER NOT NULL,
			set_type        TEXT NOT NULL,
			weight_kg       REAL NOT NULL,
			reps            INTEGER NOT NULL,
			completed       INTEGER NOT NULL,
			PRIMARY KEY (workout_id, exercise_number, set_number)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating archive schema: %w", err)
		}
	}

	return &Archive{db: db}, nil
}

// Has checks whether a workout is already archived.
func (a *Archive) Has(id string) (bool, error) {
	var count int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM workouts WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save writes a workout and its exercises and sets, replacing any previous
// copy of the same workout.
func (a *Archive) Save(rec *WorkoutRecord) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO workouts (id, name, date, duration_minutes, total_volume_kg, total_calories, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Date, rec.DurationMinutes, rec.TotalVolumeKg, rec.TotalCalories, rec.Status,
	)
	if err != nil {
		return fmt.Errorf("saving workout %s: %w", rec.ID, err)
	}

	// Replace rather than merge: clear children before re-inserting.
	if _, err := tx.Exec(`DELETE FROM workout_exercises WHERE workout_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("clearing exercises: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM workout_sets WHERE workout_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("clearing sets: %w", err)
	}

	for i, ex := range rec.Exercises {
		_, err = tx.Exec(
			`INSERT INTO workout_exercises (workout_id, exercise_number, name, calories)
			 VALUES (?, ?, ?, ?)`,
			rec.ID, i, ex.Name, ex.Calories,
		)
		if err != nil {
			return fmt.Errorf("saving exercise %d: %w", i, err)
		}

		for j, set := range ex.Sets {
			_, err = tx.Exec(
				`INSERT INTO workout_sets (workout_id, exercise_number, set_number, set_type, weight_kg, reps, completed)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				rec.ID, i, j, set.SetType, set.WeightKg, set.Reps, set.Completed,
			)
			if err != nil {
				return fmt.Errorf("saving set %d/%d: %w", i, j, err)
			}
		}
	}

	return tx.Commit()
}

// Count returns the number of archived workouts.
func (a *Archive) Count() (int, error) {
	var n int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM workouts`).Scan(&n)
	return n, err
}

// Close closes the archive database.
func (a *Archive) Close() error {
	return a.db.Close()
}

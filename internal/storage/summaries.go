package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/repclock/internal/engine"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SummaryRow is a stored workout summary header.
type SummaryRow struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Date            time.Time `json:"date"`
	DurationMinutes float64   `json:"duration_minutes"`
	TotalVolumeKg   float64   `json:"total_volume_kg"`
	TotalCalories   float64   `json:"total_calories"`
	Status          string    `json:"status"`
}

// ExerciseRow is one exercise of a stored summary.
type ExerciseRow struct {
	SummaryID      uuid.UUID `json:"summary_id"`
	ExerciseNumber int       `json:"exercise_number"`
	Name           string    `json:"name"`
	Calories       float64   `json:"calories"`
}

// SetRow is one set of a stored summary, flattened with its exercise
// position.
type SetRow struct {
	SummaryID      uuid.UUID `json:"summary_id"`
	ExerciseNumber int       `json:"exercise_number"`
	SetNumber      int       `json:"set_number"`
	SetType        string    `json:"set_type"`
	WeightKg       float64   `json:"weight_kg"`
	Reps           int       `json:"reps"`
	Completed      bool      `json:"completed"`
}

// SummaryDetail is a summary header with its exercises and sets.
type SummaryDetail struct {
	SummaryRow
	Exercises []ExerciseDetail `json:"exercises"`
}

// ExerciseDetail is one exercise with its sets in set order.
type ExerciseDetail struct {
	Name     string   `json:"name"`
	Calories float64  `json:"calories"`
	Sets     []SetRow `json:"sets"`
}

// InsertSummary commits a finished workout summary with its exercises and
// sets in one transaction. Returns true if inserted, false if the summary
// ID already exists.
func (db *DB) InsertSummary(ctx context.Context, s engine.WorkoutSummary) (bool, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO workout_summaries (id, name, date, duration_minutes, total_volume_kg, total_calories, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT DO NOTHING`,
		s.ID, s.Name, s.Date, s.DurationMinutes, s.TotalVolumeKg, s.TotalCalories, string(s.Status))
	if err != nil {
		return false, fmt.Errorf("inserting summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := insertSummaryExercises(ctx, tx, s); err != nil {
		return false, err
	}
	if err := insertSummarySets(ctx, tx, s); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing summary: %w", err)
	}
	return true, nil
}

func insertSummaryExercises(ctx context.Context, tx pgx.Tx, s engine.WorkoutSummary) error {
	if len(s.Exercises) == 0 {
		return nil
	}

	query := `INSERT INTO summary_exercises (summary_id, exercise_number, name, calories) VALUES `
	args := make([]any, 0, len(s.Exercises)*4)
	valueStrings := make([]string, 0, len(s.Exercises))

	for i, ex := range s.Exercises {
		base := i * 4
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		args = append(args, s.ID, i+1, ex.Name, ex.Calories)
	}

	query += strings.Join(valueStrings, ",")

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting summary exercises: %w", err)
	}
	return nil
}

func insertSummarySets(ctx context.Context, tx pgx.Tx, s engine.WorkoutSummary) error {
	var count int
	for _, ex := range s.Exercises {
		count += len(ex.Sets)
	}
	if count == 0 {
		return nil
	}

	query := `INSERT INTO summary_sets (summary_id, exercise_number, set_number, set_type, weight_kg, reps, completed) VALUES `
	args := make([]any, 0, count*7)
	valueStrings := make([]string, 0, count)

	n := 0
	for i, ex := range s.Exercises {
		for j, set := range ex.Sets {
			base := n * 7
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7))
			args = append(args, s.ID, i+1, j+1, string(set.Type), set.WeightKg, set.Reps, set.Completed)
			n++
		}
	}

	query += strings.Join(valueStrings, ",")

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting summary sets: %w", err)
	}
	return nil
}

// QuerySummaries retrieves summary headers in a time range, newest first.
func (db *DB) QuerySummaries(ctx context.Context, start, end time.Time) ([]SummaryRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, date, duration_minutes, total_volume_kg, total_calories, status
		 FROM workout_summaries
		 WHERE date >= $1 AND date < $2
		 ORDER BY date DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying summaries: %w", err)
	}
	defer rows.Close()

	var result []SummaryRow
	for rows.Next() {
		var s SummaryRow
		if err := rows.Scan(&s.ID, &s.Name, &s.Date, &s.DurationMinutes,
			&s.TotalVolumeKg, &s.TotalCalories, &s.Status); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// GetSummary retrieves a single summary with its exercises and sets.
func (db *DB) GetSummary(ctx context.Context, id uuid.UUID) (*SummaryDetail, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, name, date, duration_minutes, total_volume_kg, total_calories, status
		 FROM workout_summaries
		 WHERE id = $1`,
		id)

	var detail SummaryDetail
	err := row.Scan(&detail.ID, &detail.Name, &detail.Date, &detail.DurationMinutes,
		&detail.TotalVolumeKg, &detail.TotalCalories, &detail.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}

	exRows, err := db.Pool.Query(ctx,
		`SELECT summary_id, exercise_number, name, calories
		 FROM summary_exercises
		 WHERE summary_id = $1
		 ORDER BY exercise_number ASC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying summary exercises: %w", err)
	}
	defer exRows.Close()

	byNumber := make(map[int]int) // exercise_number → index in detail.Exercises
	for exRows.Next() {
		var ex ExerciseRow
		if err := exRows.Scan(&ex.SummaryID, &ex.ExerciseNumber, &ex.Name, &ex.Calories); err != nil {
			return nil, fmt.Errorf("scanning summary exercise: %w", err)
		}
		byNumber[ex.ExerciseNumber] = len(detail.Exercises)
		detail.Exercises = append(detail.Exercises, ExerciseDetail{Name: ex.Name, Calories: ex.Calories})
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT summary_id, exercise_number, set_number, set_type, weight_kg, reps, completed
		 FROM summary_sets
		 WHERE summary_id = $1
		 ORDER BY exercise_number ASC, set_number ASC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying summary sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var set SetRow
		if err := setRows.Scan(&set.SummaryID, &set.ExerciseNumber, &set.SetNumber,
			&set.SetType, &set.WeightKg, &set.Reps, &set.Completed); err != nil {
			return nil, fmt.Errorf("scanning summary set: %w", err)
		}
		if idx, ok := byNumber[set.ExerciseNumber]; ok {
			detail.Exercises[idx].Sets = append(detail.Exercises[idx].Sets, set)
		}
	}

	return &detail, setRows.Err()
}

package storage

import (
	"context"
	"fmt"
	"time"
)

// VolumePeriod holds aggregated training volume for one time period.
type VolumePeriod struct {
	Period        string  `json:"period"`
	Sessions      int     `json:"sessions"`
	CompletedSets int     `json:"completed_sets"`
	TotalReps     int     `json:"total_reps"`
	TonnageKg     float64 `json:"tonnage_kg"`
	Calories      float64 `json:"calories"`
}

// truncInterval maps a bucket name to a date_trunc field, defaulting to
// week.
func truncInterval(bucket string) string {
	switch bucket {
	case "day", "daily":
		return "day"
	case "month", "monthly":
		return "month"
	default:
		return "week"
	}
}

// GetVolumeStats returns per-period tonnage, set, and calorie aggregates
// over completed sets of stored summaries.
func (db *DB) GetVolumeStats(ctx context.Context, start, end time.Time, bucket string) ([]VolumePeriod, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, ws.date)::date AS period,
		        COUNT(DISTINCT ws.id)::int,
		        COUNT(ss.set_number) FILTER (WHERE ss.completed)::int,
		        COALESCE(SUM(ss.reps) FILTER (WHERE ss.completed), 0)::int,
		        COALESCE(SUM(ss.weight_kg * ss.reps) FILTER (WHERE ss.completed), 0),
		        COALESCE(MAX(ws.total_calories), 0)
		 FROM workout_summaries ws
		 LEFT JOIN summary_sets ss ON ss.summary_id = ws.id
		 WHERE ws.date >= $2 AND ws.date < $3 AND ws.status = 'completed'
		 GROUP BY period, ws.id
		 ORDER BY period ASC`,
		truncInterval(bucket), start, end)
	if err != nil {
		return nil, fmt.Errorf("querying volume stats: %w", err)
	}
	defer rows.Close()

	// Rows arrive per (period, summary); fold them into period totals so
	// calories sum per summary rather than per joined set row.
	periodMap := make(map[string]*VolumePeriod)
	var order []string

	for rows.Next() {
		var periodTime time.Time
		var sessions, sets, reps int
		var tonnage, calories float64
		if err := rows.Scan(&periodTime, &sessions, &sets, &reps, &tonnage, &calories); err != nil {
			return nil, fmt.Errorf("scanning volume stats: %w", err)
		}

		period := periodTime.Format("2006-01-02")
		p, ok := periodMap[period]
		if !ok {
			p = &VolumePeriod{Period: period}
			periodMap[period] = p
			order = append(order, period)
		}
		p.Sessions++
		p.CompletedSets += sets
		p.TotalReps += reps
		p.TonnageKg += tonnage
		p.Calories += calories
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]VolumePeriod, 0, len(order))
	for _, period := range order {
		result = append(result, *periodMap[period])
	}
	return result, nil
}

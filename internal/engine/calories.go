package engine

import "strings"

// DefaultBodyWeightKg is assumed when no body weight is configured.
const DefaultBodyWeightKg = 70.0

// Category default METs used when no table entry matches.
const (
	metCardioDefault     = 8.0
	metResistanceDefault = 6.0
)

// metTable maps exercise-name keywords to MET values. Matching is a
// case-insensitive substring check in declaration order, so more specific
// keywords come first ("rowing" machine before barbell "row").
var metTable = []struct {
	keyword string
	met     float64
}{
	{"jump rope", 11.0},
	{"jumping jack", 8.0},
	{"sprint", 12.0},
	{"run", 9.8},
	{"cycling", 7.5},
	{"bike", 7.5},
	{"swim", 8.0},
	{"rowing", 7.0},
	{"stair", 9.0},
	{"elliptical", 5.0},
	{"hike", 6.0},
	{"walk", 3.5},
	{"burpee", 8.0},
	{"mountain climber", 8.0},
	{"deadlift", 6.0},
	{"squat", 5.5},
	{"lunge", 5.0},
	{"bench press", 5.0},
	{"press", 5.0},
	{"pull-up", 8.0},
	{"pullup", 8.0},
	{"chin-up", 8.0},
	{"push-up", 8.0},
	{"pushup", 8.0},
	{"dip", 5.0},
	{"row", 6.5},
	{"curl", 4.0},
	{"plank", 4.0},
}

// cardioHints classify an unmatched exercise as cardio for the category
// fallback; everything else defaults to resistance training.
var cardioHints = []string{
	"cardio", "hiit", "jog", "treadmill", "spin", "skate", "ski", "dance",
}

// EstimateCalories returns the estimated energy expenditure in kcal for
// one exercise. It is deterministic and performs no I/O: an unrecognized
// exercise name falls back to the category default rather than failing.
//
// The base MET is scaled by an intensity multiplier derived from total
// work volume, capped at 2x, then applied over the duration:
//
//	kcal = met × min(2, 1 + sets×reps/100) × bodyWeightKg × hours
func EstimateCalories(exerciseName string, durationMinutes float64, completedSets, totalReps int, bodyWeightKg float64) float64 {
	if durationMinutes <= 0 {
		return 0
	}
	if bodyWeightKg <= 0 {
		bodyWeightKg = DefaultBodyWeightKg
	}

	met := lookupMET(exerciseName)

	intensity := 1.0 + float64(completedSets*totalReps)/100.0
	if intensity > 2.0 {
		intensity = 2.0
	}

	return met * intensity * bodyWeightKg * (durationMinutes / 60.0)
}

func lookupMET(exerciseName string) float64 {
	name := strings.ToLower(exerciseName)
	for _, e := range metTable {
		if strings.Contains(name, e.keyword) {
			return e.met
		}
	}
	for _, hint := range cardioHints {
		if strings.Contains(name, hint) {
			return metCardioDefault
		}
	}
	return metResistanceDefault
}

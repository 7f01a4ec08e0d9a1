// Package rating maintains per-group running average scores.
package rating

import (
	"context"
	"errors"
	"sync"
)

// Scores are submitted pre-scaled so the integer running average keeps
// two decimal places: a "4.5 star" rating arrives as 450.
const (
	// ScoreScale is the fixed-point multiplier for scores.
	ScoreScale = 100
	// MaxScore is the highest admissible scaled score (5 stars).
	MaxScore = 5 * ScoreScale
)

// ErrScoreOutOfRange reports a score outside [1, MaxScore].
var ErrScoreOutOfRange = errors.New("score out of range")

// Aggregate packs a group's rating count and scaled running average into
// a single unsigned integer: count in the high 32 bits, average in the
// low 32. The zero value means "never rated".
type Aggregate uint64

const (
	countShift  = 32
	averageMask = 1<<countShift - 1
)

// Count returns how many ratings the aggregate has absorbed.
func (a Aggregate) Count() uint64 { return uint64(a) >> countShift }

// Average returns the scaled floor running average.
func (a Aggregate) Average() uint64 { return uint64(a) & averageMask }

// Add folds one score into the running average:
// avg' = floor((avg*count + score) / (count + 1)), count' = count + 1.
func (a Aggregate) Add(score uint64) Aggregate {
	count := a.Count()
	avg := (a.Average()*count + score) / (count + 1)
	return Aggregate((count+1)<<countShift | avg)
}

// Tracker owns the per-group aggregates.
type Tracker struct {
	mu         sync.RWMutex
	aggregates map[uint64]Aggregate
}

// NewTracker creates an empty rating tracker.
func NewTracker() *Tracker {
	return &Tracker{aggregates: make(map[uint64]Aggregate)}
}

// Rate validates the score and folds it into the group's aggregate,
// returning the updated value. One-rating-per-user enforcement belongs
// to the caller's membership bookkeeping, not here.
func (t *Tracker) Rate(ctx context.Context, groupID, score uint64) (Aggregate, error) {
	if score < 1 || score > MaxScore {
		return 0, ErrScoreOutOfRange
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	updated := t.aggregates[groupID].Add(score)
	t.aggregates[groupID] = updated
	return updated, nil
}

// Aggregate returns the group's packed aggregate (zero if never rated).
func (t *Tracker) Aggregate(ctx context.Context, groupID uint64) Aggregate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.aggregates[groupID]
}

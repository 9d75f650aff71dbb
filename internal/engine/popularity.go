package engine

import (
	"math"
	"movierec/internal/types"
	"time"
)

const (
	realtimeDecayWindowDays = 30.0
	realtimeMaxDecay        = 0.2
	inactivityThresholdDays = 90.0
	minPenaltyFactor        = 0.7
	batchFloorFactor        = 0.7
)

var actionIncrements = map[types.ActionType]float64{
	types.ActionView:    0.05,
	types.ActionSearch:  0.08,
	types.ActionRate:    0.15,
	types.ActionComment: 0.2,
	types.ActionLike:    0.1,
}

// ActionIncrement falls back to the view increment for unknown actions.
func ActionIncrement(action types.ActionType) float64 {
	if increment, ok := actionIncrements[action]; ok {
		return increment
	}
	return actionIncrements[types.ActionView]
}

func daysSince(updatedAt time.Time, now time.Time) float64 {
	return math.Max(0, now.Sub(updatedAt).Hours()/24)
}

// RealtimeDecay shrinks increments for movies untouched for up to 30 days.
func RealtimeDecay(updatedAt *time.Time, now time.Time) float64 {
	if updatedAt == nil || updatedAt.IsZero() {
		return 1
	}
	days := math.Min(realtimeDecayWindowDays, daysSince(*updatedAt, now))
	return 1 - (days/realtimeDecayWindowDays)*realtimeMaxDecay
}

func RealtimePopularity(
	current float64,
	action types.ActionType,
	weight float64,
	updatedAt *time.Time,
	now time.Time,
) float64 {
	return current + ActionIncrement(action)*weight*RealtimeDecay(updatedAt, now)
}

// InactivityFactor applies only after 90 idle days and never drops below 0.7.
func InactivityFactor(days float64) float64 {
	if days <= inactivityThresholdDays {
		return 1
	}
	penalty := math.Min(0.3, ((days-inactivityThresholdDays)/30)*0.05)
	return math.Max(minPenaltyFactor, 1-penalty)
}

func hasRecentActivity(aggregate types.PopularityAggregate) bool {
	return aggregate.RecentRatingCount > 0 ||
		aggregate.RecentWatchCount > 0 ||
		aggregate.RecentCommentCount > 0 ||
		aggregate.RecentLikeCount > 0
}

// BatchPopularity recomputes a movie's popularity from its trailing activity.
// Idleness is measured from the last user interaction, not from updated_at,
// which every recompute stamps.
func BatchPopularity(aggregate types.PopularityAggregate, now time.Time, applyPenalty bool) float64 {
	base := aggregate.BasePopularity

	if applyPenalty && !hasRecentActivity(aggregate) && aggregate.LastInteraction != nil {
		days := daysSince(*aggregate.LastInteraction, now)
		if days > inactivityThresholdDays {
			return base * InactivityFactor(days)
		}
	}

	ratings := float64(aggregate.RecentRatingCount)
	score := 0.3*base +
		0.25*ratings +
		0.2*(aggregate.RecentAvgRating/10)*ratings +
		0.15*float64(aggregate.RecentWatchCount) +
		0.05*float64(aggregate.RecentCommentCount) +
		0.05*float64(aggregate.RecentLikeCount)

	return math.Max(score, batchFloorFactor*base)
}

// PopularFallbackScore jitters vote average by U(-spread, spread) and clamps.
func PopularFallbackScore(movie types.MovieRecord, spread, lo, hi float64, rng *Random) float64 {
	return Clamp(movie.VoteAverage+rng.Uniform(-spread, spread), lo, hi)
}

package engine

import (
	"math"
	"movierec/internal/types"
)

// ratingWeight maps a 1-10 rating to [0, 1].
func ratingWeight(rating float64) float64 {
	return (rating - 1) / 9
}

// ContentProfile is the rating-weighted mean of the rated movies' feature rows.
func ContentProfile(features FeatureMatrix, ratings map[int]float64) SparseVector {
	profile := make(SparseVector)
	var totalWeight float64
	for movieID, rating := range ratings {
		row, ok := features.Rows[movieID]
		if !ok {
			continue
		}
		weight := ratingWeight(rating)
		totalWeight += weight
		for index, value := range row {
			profile[index] += weight * value
		}
	}
	if totalWeight > 0 {
		for index := range profile {
			profile[index] /= totalWeight
		}
	}
	return profile
}

// ContentBased ranks unrated catalog movies by cosine to the user's profile.
func ContentBased(s *Snapshot, userID int, n int, jitter float64, rng *Random) []types.ScoredMovie {
	ratings := s.UserRatings(userID)
	features := s.Features()
	if len(ratings) == 0 || len(features.Rows) == 0 {
		return []types.ScoredMovie{}
	}

	profile := ContentProfile(features, ratings)
	profileNorm := profile.Norm()
	if profileNorm == 0 {
		return []types.ScoredMovie{}
	}

	scored := make([]types.ScoredMovie, 0, len(s.Movies))
	for _, movie := range s.Movies {
		if _, seen := ratings[movie.ID]; seen {
			continue
		}
		row := features.Rows[movie.ID]
		var similarity float64
		if rowNorm := row.Norm(); rowNorm > 0 {
			similarity = profile.Dot(row) / (profileNorm * rowNorm)
		}
		if math.IsNaN(similarity) {
			similarity = 0
		}
		scored = append(scored, types.ScoredMovie{MovieID: movie.ID, Score: similarity + rng.Normal(jitter)})
	}

	return TopN(scored, n)
}

package engine

import "movierec/internal/types"

// ItemCF predicts each unrated movie from positively similar rated movies.
func ItemCF(s *Snapshot, userID int, n int, jitter float64, rng *Random) []types.ScoredMovie {
	if !s.HasRatings() {
		return []types.ScoredMovie{}
	}
	row, ok := s.userRows[userID]
	if !ok {
		return []types.ScoredMovie{}
	}

	rated := s.matrix[row]
	similarity := s.ItemSimilarity()

	scored := make([]types.ScoredMovie, 0, len(s.movieIDs))
	for col, movieID := range s.movieIDs {
		if _, seen := rated[col]; seen {
			continue
		}
		var weighted, total float64
		for ratedCol, rating := range rated {
			sim := similarity[col][ratedCol]
			if sim <= 0 {
				continue
			}
			weighted += sim * rating
			total += sim
		}
		if total == 0 {
			continue
		}
		scored = append(scored, types.ScoredMovie{
			MovieID: movieID,
			Score:   weighted/total + rng.Normal(jitter),
		})
	}

	return TopN(scored, n)
}

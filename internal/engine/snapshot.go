package engine

import (
	"movierec/internal/types"
	"sort"
	"sync"
	"time"
)

// Snapshot is an immutable view of ratings and catalog plus derived features.
// Item similarity is computed on first use.
type Snapshot struct {
	LoadedAt time.Time
	Ratings  []types.RatingEvent
	Movies   []types.MovieRecord

	movieIndex map[int]int

	userRows  map[int]int
	userIDs   []int
	movieCols map[int]int
	movieIDs  []int
	matrix    []SparseVector
	columns   []SparseVector

	features FeatureMatrix

	itemSimOnce sync.Once
	itemSim     []SparseVector
}

// BuildSnapshot derives the rating matrix and content features.
func BuildSnapshot(ratings []types.RatingEvent, movies []types.MovieRecord, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		LoadedAt:   loadedAt,
		Ratings:    ratings,
		Movies:     movies,
		movieIndex: make(map[int]int, len(movies)),
		userRows:   make(map[int]int),
		movieCols:  make(map[int]int),
	}

	for i, movie := range movies {
		s.movieIndex[movie.ID] = i
	}

	for _, rating := range ratings {
		if _, ok := s.userRows[rating.UserID]; !ok {
			s.userRows[rating.UserID] = len(s.userIDs)
			s.userIDs = append(s.userIDs, rating.UserID)
			s.matrix = append(s.matrix, make(SparseVector))
		}
		if _, ok := s.movieCols[rating.MovieID]; !ok {
			s.movieCols[rating.MovieID] = len(s.movieIDs)
			s.movieIDs = append(s.movieIDs, rating.MovieID)
			s.columns = append(s.columns, make(SparseVector))
		}
		row, col := s.userRows[rating.UserID], s.movieCols[rating.MovieID]
		s.matrix[row][col] = rating.Rating
		s.columns[col][row] = rating.Rating
	}

	s.features = BuildFeatures(movies)
	return s
}

// EmptySnapshot is used before the first successful load.
func EmptySnapshot(loadedAt time.Time) *Snapshot {
	return BuildSnapshot(nil, nil, loadedAt)
}

func (s *Snapshot) HasRatings() bool {
	return s != nil && len(s.matrix) > 0
}

func (s *Snapshot) Movie(movieID int) (types.MovieRecord, bool) {
	index, ok := s.movieIndex[movieID]
	if !ok {
		return types.MovieRecord{}, false
	}
	return s.Movies[index], true
}

// UserRatings returns the user's ratings keyed by movie id.
func (s *Snapshot) UserRatings(userID int) map[int]float64 {
	row, ok := s.userRows[userID]
	if !ok {
		return map[int]float64{}
	}
	ratings := make(map[int]float64, len(s.matrix[row]))
	for col, value := range s.matrix[row] {
		ratings[s.movieIDs[col]] = value
	}
	return ratings
}

func (s *Snapshot) Features() FeatureMatrix {
	return s.features
}

type neighbor struct {
	row        int
	similarity float64
}

// nearestUsers is an exact cosine k-NN over user rows, excluding the user itself.
func (s *Snapshot) nearestUsers(row int, k int) []neighbor {
	target := s.matrix[row]
	neighbors := make([]neighbor, 0, len(s.matrix))
	for other, vector := range s.matrix {
		if other == row {
			continue
		}
		neighbors = append(neighbors, neighbor{row: other, similarity: Cosine(target, vector)})
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].similarity != neighbors[j].similarity {
			return neighbors[i].similarity > neighbors[j].similarity
		}
		return neighbors[i].row < neighbors[j].row
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// ItemSimilarity returns item-item cosine rows indexed by column with a zero diagonal.
func (s *Snapshot) ItemSimilarity() []SparseVector {
	s.itemSimOnce.Do(func() {
		s.itemSim = computeItemSimilarity(s.matrix, s.columns)
	})
	return s.itemSim
}

func computeItemSimilarity(matrix []SparseVector, columns []SparseVector) []SparseVector {
	norms := make([]float64, len(columns))
	for col, column := range columns {
		norms[col] = column.Norm()
	}

	dots := make([]SparseVector, len(columns))
	for col := range dots {
		dots[col] = make(SparseVector)
	}
	for _, row := range matrix {
		for a, ra := range row {
			for b, rb := range row {
				if a != b {
					dots[a][b] += ra * rb
				}
			}
		}
	}

	for a, row := range dots {
		for b, dot := range row {
			if norms[a] == 0 || norms[b] == 0 {
				delete(row, b)
				continue
			}
			row[b] = dot / (norms[a] * norms[b])
		}
	}
	return dots
}

func (s *Snapshot) columnFor(movieID int) (int, bool) {
	col, ok := s.movieCols[movieID]
	return col, ok
}

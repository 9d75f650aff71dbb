package engine

import (
	"math"
	"movierec/internal/types"
	"regexp"
	"sort"
	"strings"
)

const (
	MaxFeatures    = 5000
	directorWeight = 3
)

var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// FeatureMatrix holds L2-normalized TF-IDF rows keyed by movie id.
type FeatureMatrix struct {
	Vocabulary map[string]int
	Rows       map[int]SparseVector
}

// movieDocument is the text a movie contributes to the content features.
func movieDocument(movie types.MovieRecord) string {
	parts := make([]string, 0, len(movie.Directors)*directorWeight+len(movie.Actors)+len(movie.Genres)+1)
	for _, name := range movie.DirectorNames() {
		for range directorWeight {
			parts = append(parts, name)
		}
	}
	parts = append(parts, movie.ActorNames()...)
	if movie.ReleaseDate != nil && !movie.ReleaseDate.IsZero() {
		parts = append(parts, movie.ReleaseDate.Format("2006-01-02"))
	}
	parts = append(parts, movie.Genres...)
	return strings.Join(parts, " ")
}

func tokenize(document string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(document), -1)
	tokens := raw[:0]
	for _, token := range raw {
		if !isStopWord(token) {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// BuildFeatures computes TF-IDF rows over the catalog with smooth idf.
func BuildFeatures(movies []types.MovieRecord) FeatureMatrix {
	counts := make([]map[string]int, len(movies))
	documentFrequency := make(map[string]int)
	for i, movie := range movies {
		termCounts := make(map[string]int)
		for _, token := range tokenize(movieDocument(movie)) {
			termCounts[token]++
		}
		for term := range termCounts {
			documentFrequency[term]++
		}
		counts[i] = termCounts
	}

	vocabulary := selectVocabulary(documentFrequency, MaxFeatures)

	total := float64(len(movies))
	idf := make(map[int]float64, len(vocabulary))
	for term, index := range vocabulary {
		idf[index] = math.Log((1+total)/(1+float64(documentFrequency[term]))) + 1
	}

	rows := make(map[int]SparseVector, len(movies))
	for i, movie := range movies {
		row := make(SparseVector)
		for term, count := range counts[i] {
			if index, ok := vocabulary[term]; ok {
				row[index] = float64(count) * idf[index]
			}
		}
		if norm := row.Norm(); norm > 0 {
			for index := range row {
				row[index] /= norm
			}
		}
		rows[movie.ID] = row
	}

	return FeatureMatrix{Vocabulary: vocabulary, Rows: rows}
}

// selectVocabulary keeps the most frequent terms, ties broken alphabetically.
func selectVocabulary(documentFrequency map[string]int, limit int) map[string]int {
	terms := make([]string, 0, len(documentFrequency))
	for term := range documentFrequency {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if documentFrequency[terms[i]] != documentFrequency[terms[j]] {
			return documentFrequency[terms[i]] > documentFrequency[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
	}
	return vocabulary
}

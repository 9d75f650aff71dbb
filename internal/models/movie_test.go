package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMovie_GenreList(t *testing.T) {
	tests := []struct {
		name     string
		genres   string
		expected []string
	}{
		{name: "empty column", genres: "", expected: []string{}},
		{name: "single genre", genres: "Action", expected: []string{"Action"}},
		{name: "trims and drops blanks", genres: " Action, ,Drama ,", expected: []string{"Action", "Drama"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movie := Movie{Genres: tt.genres}
			assert.Equal(t, tt.expected, movie.GenreList())
		})
	}
}

func TestValidRating(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "lower bound", value: "0.5", expected: true},
		{name: "upper bound", value: "10", expected: true},
		{name: "half step", value: "7.5", expected: true},
		{name: "below range", value: "0", expected: false},
		{name: "above range", value: "10.5", expected: false},
		{name: "off grid", value: "7.3", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidRating(decimal.RequireFromString(tt.value)))
		})
	}
}

func TestRating_BeforeSave(t *testing.T) {
	rating := &Rating{Value: decimal.RequireFromString("11")}
	assert.ErrorIs(t, rating.BeforeSave(nil), ErrInvalidRating)

	rating.Value = decimal.RequireFromString("8.5")
	assert.NoError(t, rating.BeforeSave(nil))
}

func TestClampGenrePreference(t *testing.T) {
	assert.Equal(t, MinGenrePreference, ClampGenrePreference(-3))
	assert.Equal(t, MaxGenrePreference, ClampGenrePreference(12.4))
	assert.Equal(t, 6.2, ClampGenrePreference(6.2))
}

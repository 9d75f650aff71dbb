package recommendationController

import (
	"context"
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func TestValidateLimit(t *testing.T) {
	testCases := []struct {
		name      string
		input     int
		expected  int
		wantError bool
	}{
		{name: "zero uses default", input: 0, expected: DefaultLimit},
		{name: "within range", input: 25, expected: 25},
		{name: "upper bound", input: MaxLimit, expected: MaxLimit},
		{name: "negative", input: -1, wantError: true},
		{name: "above maximum", input: MaxLimit + 1, wantError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ValidateLimit(tc.input)
			if tc.wantError {
				assert.ErrorIs(t, err, ErrInvalidLimit)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestRecommendationController_RejectsInvalidLimitBeforeServing(t *testing.T) {
	controller := &RecommendationController{log: logger.New("recommendationControllerTest")}

	_, err := controller.GetRecommendations(context.Background(), 1, 500, false, nil)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = controller.GetSimilarMovies(context.Background(), 1, -3, nil)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = controller.GetPopular(context.Background(), 101)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

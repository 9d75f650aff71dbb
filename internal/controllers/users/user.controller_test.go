package userController

import (
	"context"
	"movierec/internal/types"
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCleanDeclared(t *testing.T) {
	cleaned := CleanDeclared(types.DeclaredPreferences{
		Genres:    []string{" Action ", "Drama", "", "Action"},
		Directors: []string{"Christopher Nolan"},
		Actors:    nil,
	})

	assert.Equal(t, []string{"Action", "Drama"}, cleaned.Genres)
	assert.Equal(t, []string{"Christopher Nolan"}, cleaned.Directors)
	assert.Empty(t, cleaned.Actors)
}

func TestSaveRating_RejectsOffGridValues(t *testing.T) {
	controller := &UserController{log: logger.New("userControllerTest")}

	testCases := []struct {
		name  string
		value decimal.Decimal
	}{
		{name: "zero", value: decimal.Zero},
		{name: "above ten", value: decimal.NewFromFloat(10.5)},
		{name: "quarter step", value: decimal.NewFromFloat(7.25)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := controller.SaveRating(context.Background(), 1, RatingRequest{MovieID: 3, Rating: tc.value})
			assert.ErrorIs(t, err, ErrInvalidRating)
		})
	}
}

package movieController

import (
	"movierec/internal/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAction(t *testing.T) {
	testCases := []struct {
		name      string
		request   ActionRequest
		wantError bool
	}{
		{name: "view", request: ActionRequest{Action: types.ActionView, Weight: 1}},
		{name: "like without weight", request: ActionRequest{Action: types.ActionLike}},
		{name: "unknown action", request: ActionRequest{Action: "share", Weight: 1}, wantError: true},
		{name: "negative weight", request: ActionRequest{Action: types.ActionComment, Weight: -2}, wantError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAction(tc.request)
			if tc.wantError {
				assert.ErrorIs(t, err, ErrInvalidAction)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

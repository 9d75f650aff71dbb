package jobs

import (
	"context"
	"errors"
	"movierec/config"
	"movierec/internal/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPopularity struct {
	mock.Mock
}

func (m *mockPopularity) UpdateMoviePopularity(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

type mockPreferences struct {
	mock.Mock
}

func (m *mockPreferences) RefreshAllUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockSnapshot struct {
	mock.Mock
}

func (m *mockSnapshot) Load(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestPopularityRecomputeJob_Execute(t *testing.T) {
	tests := []struct {
		name      string
		completed bool
		wantErr   bool
	}{
		{name: "batch completes", completed: true},
		{name: "batch fails", completed: false, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			popularity := new(mockPopularity)
			popularity.On("UpdateMoviePopularity", mock.Anything).Return(tt.completed)

			job := NewPopularityRecomputeJob(popularity, Daily)
			err := job.Execute(context.Background())

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPopularityRecomputeFailed)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, services.Daily, job.Schedule())
			popularity.AssertExpectations(t)
		})
	}
}

func TestGenrePreferenceRefreshJob_Execute(t *testing.T) {
	preferences := new(mockPreferences)
	preferences.On("RefreshAllUsers", mock.Anything).Return(12, nil).Once()
	preferences.On("RefreshAllUsers", mock.Anything).Return(0, errors.New("db down")).Once()

	job := NewGenrePreferenceRefreshJob(preferences, DailyProcessing)

	assert.NoError(t, job.Execute(context.Background()))
	assert.Error(t, job.Execute(context.Background()))
	assert.Equal(t, "DailyGenrePreferenceRefresh", job.Name())
	preferences.AssertExpectations(t)
}

func TestSnapshotRefreshJob_Execute(t *testing.T) {
	snapshot := new(mockSnapshot)
	snapshot.On("Load", mock.Anything).Return(errors.New("breaker open"))

	job := NewSnapshotRefreshJob(snapshot, Hourly)

	assert.Error(t, job.Execute(context.Background()))
	assert.Equal(t, services.Hourly, job.Schedule())
}

func TestRegisterAllJobs(t *testing.T) {
	t.Run("disabled scheduler registers nothing", func(t *testing.T) {
		scheduler := services.NewSchedulerService()

		err := RegisterAllJobs(scheduler, config.Config{SchedulerEnabled: false}, services.Service{})

		require.NoError(t, err)
		assert.Equal(t, 0, scheduler.GetJobCount())
	})

	t.Run("enabled scheduler registers all jobs", func(t *testing.T) {
		scheduler := services.NewSchedulerService()

		err := RegisterAllJobs(scheduler, config.Config{SchedulerEnabled: true}, services.Service{})

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"DailyPopularityRecompute",
			"DailyGenrePreferenceRefresh",
			"HourlySnapshotRefresh",
		}, scheduler.JobNames())
	})
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJob struct {
	mock.Mock
}

func (m *mockJob) Name() string {
	return m.Called().String(0)
}

func (m *mockJob) Execute(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockJob) Schedule() Schedule {
	return m.Called().Get(0).(Schedule)
}

func TestSchedulerService_AddJob(t *testing.T) {
	scheduler := NewSchedulerService()
	job := new(mockJob)
	job.On("Name").Return("popularity-recompute")
	job.On("Schedule").Return(Daily)

	require.NoError(t, scheduler.AddJob(job))

	assert.Equal(t, 1, scheduler.GetJobCount())
	assert.Equal(t, []string{"popularity-recompute"}, scheduler.JobNames())
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerService_TriggerUnknownJob(t *testing.T) {
	scheduler := NewSchedulerService()

	err := scheduler.TriggerJobByName(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestSchedulerService_TriggerRejectsOverlappingRun(t *testing.T) {
	scheduler := NewSchedulerService()
	release := make(chan struct{})
	started := make(chan struct{})

	job := new(mockJob)
	job.On("Name").Return("DailyPopularityRecompute")
	job.On("Schedule").Return(Daily)
	job.On("Execute", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(errors.New("aggregate query failed")).
		Once()
	require.NoError(t, scheduler.AddJob(job))

	require.NoError(t, scheduler.TriggerJobByName(context.Background(), "DailyPopularityRecompute"))
	<-started

	err := scheduler.TriggerJobByName(context.Background(), "DailyPopularityRecompute")
	assert.ErrorIs(t, err, ErrJobRunning)

	statuses := scheduler.JobStatuses()
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Running)
	assert.Equal(t, "daily 02:00 UTC", statuses[0].Schedule)

	close(release)
	assert.Eventually(t, func() bool {
		return !scheduler.JobStatuses()[0].Running
	}, time.Second, 10*time.Millisecond)

	status := scheduler.JobStatuses()[0]
	require.NotNil(t, status.LastRun)
	assert.Equal(t, "aggregate query failed", status.LastError)
	job.AssertNumberOfCalls(t, "Execute", 1)
}

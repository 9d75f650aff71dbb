package adminController

import (
	"context"
	"movierec/internal/services"
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func TestGetJobsStatus_EmptyScheduler(t *testing.T) {
	ac := &AdminController{
		scheduler: services.NewSchedulerService(),
		log:       logger.New("adminControllerTest"),
	}

	status := ac.GetJobsStatus()

	assert.False(t, status.Running)
	assert.Empty(t, status.Jobs)
}

func TestTriggerJob_UnknownName(t *testing.T) {
	ac := &AdminController{
		scheduler: services.NewSchedulerService(),
		log:       logger.New("adminControllerTest"),
	}

	err := ac.TriggerJob(context.Background(), "NoSuchJob")

	assert.ErrorIs(t, err, ErrJobNotFound)
}

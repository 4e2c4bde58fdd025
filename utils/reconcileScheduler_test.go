package utils

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"summercamp/enrollment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReconciler struct {
	runs atomic.Int32
}

func (r *countingReconciler) Run(context.Context) (enrollment.Summary, error) {
	r.runs.Add(1)
	return enrollment.Summary{}, nil
}

func TestReconcileSchedulerRuns(t *testing.T) {
	reconciler := &countingReconciler{}
	c, err := InitializeReconcileScheduler(context.Background(), reconciler, "@every 1s")
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool { return reconciler.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestReconcileSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := InitializeReconcileScheduler(context.Background(), &countingReconciler{}, "every tuesday")
	assert.Error(t, err)
}

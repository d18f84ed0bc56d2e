package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-truck-api/logger"
)

type fakeResumer struct {
	calls atomic.Int32
	limit atomic.Int32
}

func (f *fakeResumer) ResumePendingDeletions(_ context.Context, limit int) (int, error) {
	f.calls.Add(1)
	f.limit.Store(int32(limit))
	return 1, nil
}

func TestDeletionSweepRuns(t *testing.T) {
	s := NewScheduler(logger.Discard())
	r := &fakeResumer{}
	require.NoError(t, s.AddDeletionSweep("@every 1s", r))

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return r.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	assert.Equal(t, int32(sweepBatch), r.limit.Load())
	assert.GreaterOrEqual(t, s.Runs("menu-deletion-sweep"), 1)
}

func TestAdd_InvalidSpec(t *testing.T) {
	s := NewScheduler(logger.Discard())
	err := s.Add("every now and then", "bad", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestRun_RecordsFailures(t *testing.T) {
	s := NewScheduler(logger.Discard())
	s.run("boom", func(context.Context) error { return errors.New("boom") })
	assert.Equal(t, 1, s.Runs("boom"))
}

func TestStop_CancelsJobContext(t *testing.T) {
	s := NewScheduler(logger.Discard())
	s.Start()
	s.Stop()
	assert.Error(t, s.ctx.Err())
}

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozcano/wordpost/internal/config"
)

func newTestScheduler(cfg config.Digest) *DigestScheduler {
	// Jobs never fire in these tests; nil pipeline components are safe.
	return NewDigestScheduler(nil, nil, cfg)
}

func TestDigestScheduler_StartDisabled(t *testing.T) {
	s := newTestScheduler(config.Digest{Enabled: false})

	err := s.Start(context.Background())

	require.NoError(t, err)
	assert.False(t, s.IsRunning())
}

func TestDigestScheduler_StartAndStop(t *testing.T) {
	s := newTestScheduler(config.Digest{
		Enabled:            true,
		GenerationSchedule: "0 8 * * *",
		DispatchSchedule:   "*/5 * * * *",
	})

	err := s.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, s.IsRunning())

	assert.NotNil(t, s.NextGenerationTime())
	assert.NotNil(t, s.NextDispatchTime())

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextGenerationTime())
}

func TestDigestScheduler_StartIdempotent(t *testing.T) {
	s := newTestScheduler(config.Digest{
		Enabled:            true,
		GenerationSchedule: "0 8 * * *",
		DispatchSchedule:   "*/5 * * * *",
	})

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	s.Stop()
}

func TestDigestScheduler_InvalidSchedule(t *testing.T) {
	s := newTestScheduler(config.Digest{
		Enabled:            true,
		GenerationSchedule: "not a schedule",
		DispatchSchedule:   "*/5 * * * *",
	})

	err := s.Start(context.Background())

	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestDigestScheduler_ContextCancellationStops(t *testing.T) {
	s := newTestScheduler(config.Digest{
		Enabled:            true,
		GenerationSchedule: "0 8 * * *",
		DispatchSchedule:   "*/5 * * * *",
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	require.True(t, s.IsRunning())

	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
)

func TestPolicyDelays(t *testing.T) {
	assert.Equal(t,
		[]time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond},
		Policy{Attempts: 4, Base: 10 * time.Millisecond, Backoff: Linear}.delays())
	assert.Equal(t,
		[]time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond},
		Policy{Attempts: 4, Base: 10 * time.Millisecond, Backoff: Exponential}.delays())
	assert.Empty(t, Policy{Attempts: 1}.delays())
}

func TestRetry_RetriesServerErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), Policy{Attempts: 3, Base: time.Millisecond}, func(context.Context) error {
		calls++
		if calls < 3 {
			return apperr.FromStatus(503, "")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), Policy{Attempts: 2, Base: time.Millisecond}, func(context.Context) error {
		calls++
		return apperr.FromTransport(assert.AnError)
	})
	assert.True(t, apperr.Is(err, apperr.KindNetwork))
	assert.Equal(t, 2, calls)
}

func TestRetry_RefusesClientErrors(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404} {
		calls := 0
		err := Retry(context.Background(), Policy{Attempts: 5, Base: time.Millisecond}, func(context.Context) error {
			calls++
			return apperr.FromStatus(status, "")
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls, "status %d must not be retried", status)
	}
}

func TestRetry_StopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, Policy{Attempts: 5, Base: time.Hour}, func(context.Context) error {
		calls++
		cancel()
		return apperr.FromStatus(500, "")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

package api

import (
	"context"
	"time"

	"github.com/eapache/go-resiliency/retrier"

	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
)

// Backoff selects how the wait between attempts grows
type Backoff int

const (
	Linear Backoff = iota
	Exponential
)

// Policy describes an explicit retry. Attempts counts the first try.
type Policy struct {
	Attempts int
	Base     time.Duration
	Backoff  Backoff
}

// DefaultReadPolicy is used for idempotent reads that opt into retrying
var DefaultReadPolicy = Policy{Attempts: 3, Base: 500 * time.Millisecond, Backoff: Exponential}

func (p Policy) delays() []time.Duration {
	n := p.Attempts - 1
	if n <= 0 {
		return nil
	}
	if p.Backoff == Exponential {
		return retrier.ExponentialBackoff(n, p.Base)
	}
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = time.Duration(i+1) * p.Base
	}
	return out
}

// classifier refuses retries for caller mistakes and retries server/network failures
type classifier struct{}

func (classifier) Classify(err error) retrier.Action {
	if err == nil {
		return retrier.Succeed
	}
	if apperr.Retryable(err) {
		return retrier.Retry
	}
	return retrier.Fail
}

// Retry runs fn until it succeeds, fails with a non-retryable error, runs
// out of attempts or ctx is done. Only idempotent calls should be wrapped.
func Retry(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	return retrier.New(p.delays(), classifier{}).RunCtx(ctx, fn)
}

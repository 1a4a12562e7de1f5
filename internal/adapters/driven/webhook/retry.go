package webhook

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// Ensure Retrying implements the interface.
var _ driven.SearchTransport = (*Retrying)(nil)

// Policy configures Retrying.
type Policy struct {
	// Retries is the number of extra attempts after a retryable failure.
	Retries int
	// Backoff is the delay before the first retry; it doubles per retry.
	Backoff time.Duration
	// RequestsPerSecond limits attempts. Zero disables the limit.
	RequestsPerSecond float64
	// Burst is the token bucket size.
	Burst int
	// Timeout bounds each attempt. Zero means no timeout.
	Timeout time.Duration
}

// PolicyFromSettings builds a Policy from webhook settings.
func PolicyFromSettings(s domain.WebhookSettings) Policy {
	return Policy{
		Retries:           s.Retries,
		Backoff:           s.RetryBackoff(),
		RequestsPerSecond: float64(s.RatePerSecond),
		Burst:             s.Burst,
		Timeout:           s.Timeout(),
	}
}

// Retrying wraps a transport with rate limiting, bounded retries with
// exponential backoff and an optional per-attempt timeout. Only failures
// reported retryable by domain.IsRetryable are repeated.
type Retrying struct {
	next    driven.SearchTransport
	policy  Policy
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewRetrying wraps next with policy.
func NewRetrying(next driven.SearchTransport, policy Policy) *Retrying {
	r := &Retrying{
		next:   next,
		policy: policy,
		sleep:  sleepContext,
	}
	if policy.RequestsPerSecond > 0 {
		burst := policy.Burst
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(policy.RequestsPerSecond), burst)
	}
	return r
}

// Search runs the query, retrying retryable failures.
func (r *Retrying) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	backoff := r.policy.Backoff
	for attempt := 0; ; attempt++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, &domain.TransportError{Err: err}
			}
		}

		resp, err := r.attempt(ctx, query)
		if err == nil {
			return resp, nil
		}
		if attempt >= r.policy.Retries || !domain.IsRetryable(err) || ctx.Err() != nil {
			return nil, err
		}

		logger.Debug("webhook: attempt %d for %q failed (%v), retrying in %s", attempt+1, query, err, backoff)
		if serr := r.sleep(ctx, backoff); serr != nil {
			return nil, err
		}
		backoff *= 2
	}
}

func (r *Retrying) attempt(ctx context.Context, query string) (*domain.SearchResponse, error) {
	if r.policy.Timeout <= 0 {
		return r.next.Search(ctx, query)
	}
	ctx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
	defer cancel()
	return r.next.Search(ctx, query)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

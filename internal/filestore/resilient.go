package filestore

import (
	"context"
	"errors"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// Resilient guards a FileStore with a circuit breaker so a failing backend is not hammered.
type Resilient struct {
	next    FileStore
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewResilient(next FileStore, cfg config.CircuitBreakerConfig) *Resilient {
	st := gobreaker.Settings{
		Name:        "filestore-cb",
		MaxRequests: 3,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures > cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		// A bad key or a cancelled request says nothing about the backend's health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrInvalidKey) ||
				errors.Is(err, context.Canceled)
		},
	}
	return &Resilient{next: next, breaker: gobreaker.NewCircuitBreaker[struct{}](st)}
}

func (r *Resilient) Delete(ctx context.Context, imageURL string) error {
	_, err := r.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, r.next.Delete(ctx, imageURL)
	})
	return err
}

// State reports the breaker state, for health reporting and tests.
func (r *Resilient) State() gobreaker.State {
	return r.breaker.State()
}

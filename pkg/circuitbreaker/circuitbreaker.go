// Package circuitbreaker stops calling a failing dependency for a cool-down
// period so requests fail fast instead of piling up on timeouts. It wraps
// sony/gobreaker with the settings the session store needs.
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrOpen is returned without calling fn while the breaker is open, or while
// a half-open trial call is already in flight.
var ErrOpen = errors.New("circuit breaker is open")

type State = gobreaker.State

const (
	StateClosed   = gobreaker.StateClosed
	StateOpen     = gobreaker.StateOpen
	StateHalfOpen = gobreaker.StateHalfOpen
)

type Settings struct {
	Name string

	// MaxFailures consecutive failures open the breaker.
	MaxFailures int

	// Timeout is how long the breaker stays open before one trial call.
	Timeout time.Duration

	// IsFailure decides which errors count; nil counts every error.
	IsFailure func(error) bool

	OnStateChange func(name string, from, to State)
}

type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[struct{}]
}

func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	if settings.MaxFailures <= 0 {
		settings.MaxFailures = 5
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	maxFailures := uint32(settings.MaxFailures)

	st := gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: settings.OnStateChange,
	}
	if settings.IsFailure != nil {
		isFailure := settings.IsFailure
		st.IsSuccessful = func(err error) bool {
			return err == nil || !isFailure(err)
		}
	}
	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker[struct{}](st)}
}

func (b *CircuitBreaker) State() State {
	return b.cb.State()
}

// Execute runs fn unless the breaker is open. fn's own error is returned
// unchanged.
func (b *CircuitBreaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

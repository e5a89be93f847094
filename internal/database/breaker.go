// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/admissions/internal/logging"
	"github.com/tomtom215/admissions/internal/metrics"
)

const breakerName = "admission-store"

// Breaker settings for the report queries. Five straight failures open the
// circuit; after breakerTimeout one trial request is let through.
const (
	breakerTripFailures = 5
	breakerTimeout      = 30 * time.Second
	breakerInterval     = time.Minute
)

func newBreaker(name string) *gobreaker.CircuitBreaker[any] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= breakerTripFailures
			if trip {
				logging.Warn().Uint32("failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		// Caller cancellation says nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrNotFound)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

// guarded runs fn through the breaker and records query metrics. An open
// or saturated breaker surfaces as ErrUnavailable.
func guarded[T any](ctx context.Context, db *DB, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if db == nil || db.conn == nil {
		return zero, ErrNilDB
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	result, err := db.breaker.Execute(func() (any, error) {
		return fn(ctx)
	})
	metrics.RecordDBQuery(op, "admissions", time.Since(start), err)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			return zero, fmt.Errorf("%s: %w", op, ErrUnavailable)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return zero, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// BreakerState reports the current breaker state, for health output.
func (db *DB) BreakerState() string {
	if db == nil || db.breaker == nil {
		return gobreaker.StateClosed.String()
	}
	return db.breaker.State().String()
}

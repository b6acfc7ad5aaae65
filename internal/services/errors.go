// Package services holds the gift suggestion pipeline and the share store
// logic. This file centralizes service-level error values so handlers can map
// them to HTTP results consistently.
package services

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Generation failures. None of these reach HTTP callers: Generate absorbs them
// and serves the fallback catalog. They exist for logs, spans and tests.
var (
	// ErrGeneratorDisabled is returned when no completion backend is configured.
	ErrGeneratorDisabled = errors.New("generator disabled")

	// ErrUpstreamUnavailable marks transport failures, timeouts and non-2xx
	// responses from the text-generation API.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedResponse marks completions that are not the expected JSON.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrNoIdeas is returned when the completion parsed but held no usable idea.
	ErrNoIdeas = errors.New("no usable ideas")
)

// Share failures.
var (
	// ErrInvalidShare is returned when a share write lacks a query or results.
	ErrInvalidShare = errors.New("missing query or results")

	// ErrShareNotFound covers unknown, malformed and expired share ids.
	ErrShareNotFound = errors.New("share not found")

	// ErrIDSpaceExhausted is returned when no free id was found within the
	// retry budget.
	ErrIDSpaceExhausted = errors.New("could not allocate a unique share id")
)

// failureReason returns a short, bounded label for err, used as the
// "context" field of error events and as a metric label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrGeneratorDisabled):
		return "generator_disabled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrNoIdeas):
		return "no_ideas"
	default:
		return "unknown"
	}
}

// Package services – SuggestionService
//
// SuggestionService turns a GiftRequest into gift suggestions. It asks the
// text-generation API for structured ideas and converts them into
// Suggestions with derived images and affiliate links. Any failure along the
// way (no API key, transport error, timeout, non-JSON content, nothing usable)
// is absorbed and the static fallback catalog is served instead, so Generate
// has no error return.
package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/giftfndr-backend/internal/catalog"
	"github.com/tbourn/giftfndr-backend/internal/domain"
	"github.com/tbourn/giftfndr-backend/internal/llm"
)

// Completer is the narrow contract SuggestionService needs from a
// text-generation backend. *llm.Client implements it.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// SuggestionService generates gift suggestions.
type SuggestionService struct {
	// Completer produces raw completions; nil means always fall back.
	Completer Completer
	// Links derives image and affiliate URLs.
	Links *catalog.Linker
	// Timeout bounds one upstream call. Zero disables the bound.
	Timeout time.Duration
	// Price supplies a placeholder when an idea has no usable price.
	Price func() float64
}

// NewSuggestionService wires a service with the default placeholder price
// source (an integer in [15, 64]).
func NewSuggestionService(c Completer, links *catalog.Linker, timeout time.Duration) *SuggestionService {
	if links == nil {
		links = catalog.DefaultLinker()
	}
	return &SuggestionService{
		Completer: c,
		Links:     links,
		Timeout:   timeout,
		Price:     randomPrice,
	}
}

// randomPrice mirrors the catalog's typical spread; it is not seeded.
func randomPrice() float64 { return float64(rand.Intn(50) + 15) }

// Generate returns between 1 and 9 suggestions for req. It never fails:
// upstream problems are logged and answered from the fallback catalog.
func (s *SuggestionService) Generate(ctx context.Context, req domain.GiftRequest) []domain.Suggestion {
	band := domain.PriceBandFor(req.Budget)
	tr := otel.Tracer("services/SuggestionService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("gift.price_band", string(band)),
			attribute.Float64("gift.budget", req.Budget),
		),
	)
	defer span.End()

	lg := zerolog.Ctx(ctx)
	lg.Info().
		Str("event", "search").
		Str("occasion", req.Occasion).
		Str("relationship", req.Relationship).
		Str("price_band", string(band)).
		Msg("gift search")

	out, err := s.tryGenerate(ctx, req)
	if err != nil {
		reason := failureReason(err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("gift.fallback_reason", reason))
		lg.Warn().
			Err(err).
			Str("event", "error").
			Str("context", reason).
			Msg("falling back to static ideas")
		fallbacksTotal.WithLabelValues(reason).Inc()
		suggestionsTotal.WithLabelValues("fallback").Inc()
		return s.Links.Fallback(req)
	}

	span.SetStatus(codes.Ok, "")
	span.SetAttributes(attribute.Int("gift.results", len(out)))
	suggestionsTotal.WithLabelValues("llm").Inc()
	return out
}

// tryGenerate is the fallible half of Generate.
func (s *SuggestionService) tryGenerate(ctx context.Context, req domain.GiftRequest) ([]domain.Suggestion, error) {
	if s.Completer == nil {
		return nil, errors.WithStack(ErrGeneratorDisabled)
	}

	content, err := s.complete(ctx, buildUserPrompt(req))
	if err != nil {
		return nil, err
	}

	raw, err := parseIdeas(content)
	if err != nil {
		return nil, err
	}
	out := s.toSuggestions(raw)
	if len(out) == 0 {
		return nil, errors.Wrapf(ErrNoIdeas, "%d raw ideas", len(raw))
	}
	return out, nil
}

type completion struct {
	content string
	err     error
}

// complete calls the Completer under s.Timeout. The result is awaited in a
// select so a backend that ignores ctx cannot hold the request past the
// deadline.
func (s *SuggestionService) complete(ctx context.Context, user string) (string, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan completion, 1)
	go func() {
		content, err := s.Completer.Complete(ctx, systemPrompt, user)
		done <- completion{content: content, err: err}
	}()

	var res completion
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = errors.Wrap(ctx.Err(), "waiting for completion")
	}

	outcome := "ok"
	if res.err != nil {
		outcome = "error"
	}
	upstreamLatency.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if res.err != nil {
		return "", classifyUpstream(res.err)
	}
	return res.content, nil
}

// classifyUpstream maps backend errors onto the service's failure marks.
func classifyUpstream(err error) error {
	if errors.Is(err, llm.ErrEmptyCompletion) {
		return errors.Mark(err, ErrMalformedResponse)
	}
	return errors.Mark(err, ErrUpstreamUnavailable)
}

// Package services – ShareService
//
// ShareService stores short-lived snapshots of a search so they can be
// reopened through a short link. Records are capped to MaxResults entries,
// addressed by a random 6-character id, and considered gone once older than
// TTL. Every write first sweeps expired records from the store.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/giftfndr-backend/internal/clock"
	"github.com/tbourn/giftfndr-backend/internal/domain"
	"github.com/tbourn/giftfndr-backend/internal/repo"
)

// Defaults applied by NewShareService.
const (
	DefaultShareTTL        = 7 * 24 * time.Hour
	DefaultShareMaxResults = 6
	defaultIDAttempts      = 16
)

// ShareStore is the storage contract for share records. Insert must fail with
// repo.ErrDuplicate when the id is taken, atomically with respect to other
// inserts. Get returns repo.ErrNotFound for unknown ids.
type ShareStore interface {
	Insert(ctx context.Context, rec domain.ShareRecord) error
	Get(ctx context.Context, id string) (domain.ShareRecord, error)
	Sweep(ctx context.Context, cutoff time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// ShareService implements share writes and reads on top of a ShareStore.
type ShareService struct {
	Store      ShareStore
	Clock      clock.Clock
	TTL        time.Duration
	MaxResults int

	// NewID generates candidate ids; MaxAttempts bounds retries on collision.
	NewID       func() (string, error)
	MaxAttempts int

	idem *idempotencyCache
}

// NewShareService returns a service with defaults for zero arguments.
// idemTTL <= 0 disables Idempotency-Key handling.
func NewShareService(store ShareStore, clk clock.Clock, ttl time.Duration, maxResults int, idemTTL time.Duration) *ShareService {
	if clk == nil {
		clk = clock.Real{}
	}
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	if maxResults <= 0 {
		maxResults = DefaultShareMaxResults
	}
	s := &ShareService{
		Store:       store,
		Clock:       clk,
		TTL:         ttl,
		MaxResults:  maxResults,
		NewID:       NewShareID,
		MaxAttempts: defaultIDAttempts,
	}
	if idemTTL > 0 {
		s.idem = newIdempotencyCache(idemTTL)
	}
	return s
}

// Create validates the input, sweeps expired records and stores a new record
// holding query and the first MaxResults results. The returned record is a
// copy the caller may keep.
//
// query must be non-blank and results non-nil (an empty list is accepted);
// otherwise ErrInvalidShare is returned.
func (s *ShareService) Create(ctx context.Context, query string, results []domain.Suggestion) (domain.ShareRecord, error) {
	tr := otel.Tracer("services/ShareService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.Int("share.input_results", len(results))),
	)
	defer span.End()

	if strings.TrimSpace(query) == "" || results == nil {
		return domain.ShareRecord{}, errors.WithStack(ErrInvalidShare)
	}

	now := s.Clock.Now()
	s.sweep(ctx, now)

	n := min(len(results), s.MaxResults)
	rec := domain.ShareRecord{
		Query:     query,
		Results:   make([]domain.Suggestion, n),
		CreatedAt: now,
	}
	copy(rec.Results, results[:n])

	for attempt := 0; attempt < s.MaxAttempts; attempt++ {
		id, err := s.NewID()
		if err != nil {
			span.RecordError(err)
			return domain.ShareRecord{}, errors.Wrap(err, "generate share id")
		}
		rec.ID = id

		err = s.Store.Insert(ctx, rec)
		if errors.Is(err, repo.ErrDuplicate) {
			continue
		}
		if err != nil {
			span.RecordError(err)
			return domain.ShareRecord{}, errors.Wrap(err, "store share")
		}

		sharesCreated.Inc()
		s.refreshLive(ctx)
		span.SetAttributes(attribute.String("share.id", id), attribute.Int("share.attempts", attempt+1))
		zerolog.Ctx(ctx).Info().
			Str("event", "share_results").
			Str("share_id", id).
			Int("result_count", n).
			Msg("share created")
		return rec, nil
	}

	span.RecordError(ErrIDSpaceExhausted)
	return domain.ShareRecord{}, errors.Wrapf(ErrIDSpaceExhausted, "after %d attempts", s.MaxAttempts)
}

// CreateIdempotent behaves like Create, except that a repeated (client, key)
// pair within the idempotency window returns the record created first and
// replayed=true. An empty key, or a service without an idempotency window,
// is a plain Create.
func (s *ShareService) CreateIdempotent(ctx context.Context, client, key, query string, results []domain.Suggestion) (rec domain.ShareRecord, replayed bool, err error) {
	if key == "" || s.idem == nil {
		rec, err = s.Create(ctx, query, results)
		return rec, false, err
	}

	k := idemKey{client: client, key: key}
	// Held across Create so concurrent retries of one key produce one record.
	unlock := s.idem.lockKey(k)
	defer unlock()

	now := s.Clock.Now()
	if id, ok := s.idem.lookup(k, now); ok {
		prev, gerr := s.Get(ctx, id)
		if gerr == nil {
			return prev, true, nil
		}
		if !errors.Is(gerr, ErrShareNotFound) {
			return domain.ShareRecord{}, false, gerr
		}
		// The record expired before the key did; create a fresh one.
	}

	rec, err = s.Create(ctx, query, results)
	if err != nil {
		return rec, false, err
	}
	s.idem.remember(k, rec.ID, now)
	return rec, false, nil
}

// Get returns the live record for id. Unknown, malformed and expired ids all
// yield ErrShareNotFound.
func (s *ShareService) Get(ctx context.Context, id string) (domain.ShareRecord, error) {
	tr := otel.Tracer("services/ShareService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("share.id", id)))
	defer span.End()

	if !ValidShareID(id) {
		return domain.ShareRecord{}, errors.WithStack(ErrShareNotFound)
	}
	rec, err := s.Store.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.ShareRecord{}, errors.WithStack(ErrShareNotFound)
	}
	if err != nil {
		span.RecordError(err)
		return domain.ShareRecord{}, errors.Wrap(err, "load share")
	}
	if rec.ExpiredAt(s.Clock.Now(), s.TTL) {
		return domain.ShareRecord{}, errors.WithStack(ErrShareNotFound)
	}
	return rec, nil
}

// Sweep removes every record older than TTL and returns how many were
// removed.
func (s *ShareService) Sweep(ctx context.Context) (int64, error) {
	n, err := s.Store.Sweep(ctx, s.Clock.Now().Add(-s.TTL))
	if err != nil {
		return 0, errors.Wrap(err, "sweep shares")
	}
	if n > 0 {
		sharesSwept.Add(float64(n))
		s.refreshLive(ctx)
	}
	return n, nil
}

// sweep runs before every write. A failing sweep is logged and does not
// block the write.
func (s *ShareService) sweep(ctx context.Context, now time.Time) {
	n, err := s.Store.Sweep(ctx, now.Add(-s.TTL))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("share sweep failed")
		return
	}
	if n > 0 {
		sharesSwept.Add(float64(n))
		zerolog.Ctx(ctx).Debug().Int64("swept", n).Msg("expired shares removed")
	}
}

func (s *ShareService) refreshLive(ctx context.Context) {
	if n, err := s.Store.Count(ctx); err == nil {
		sharesLive.Set(float64(n))
	}
}

package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/tbourn/giftfndr-backend/internal/clock"
	"github.com/tbourn/giftfndr-backend/internal/domain"
	"github.com/tbourn/giftfndr-backend/internal/repo"
)

// ----- Fakes -----

// flakyStore wraps a MemoryShareStore and can inject failures.
type flakyStore struct {
	*repo.MemoryShareStore
	insertErr error
	sweepErr  error
	sweeps    int
}

func (f *flakyStore) Insert(ctx context.Context, rec domain.ShareRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.MemoryShareStore.Insert(ctx, rec)
}

func (f *flakyStore) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	f.sweeps++
	if f.sweepErr != nil {
		return 0, f.sweepErr
	}
	return f.MemoryShareStore.Sweep(ctx, cutoff)
}

// gatedStore parks inserts whose query is "slow" until release is closed.
type gatedStore struct {
	*repo.MemoryShareStore
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Insert(ctx context.Context, rec domain.ShareRecord) error {
	if rec.Query == "slow" {
		g.entered <- struct{}{}
		<-g.release
	}
	return g.MemoryShareStore.Insert(ctx, rec)
}

func sequenceIDs(ids ...string) func() (string, error) {
	var mu sync.Mutex
	i := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		id := ids[i%len(ids)]
		i++
		return id, nil
	}
}

var t0 = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestShareService(t *testing.T) (*ShareService, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(t0)
	return NewShareService(repo.NewMemoryShareStore(), clk, 0, 0, time.Hour), clk
}

func suggestions(n int) []domain.Suggestion {
	out := make([]domain.Suggestion, n)
	for i := range out {
		out[i] = domain.Suggestion{
			Title:          fmt.Sprintf("Gift %d", i),
			Reason:         "because",
			Image:          "https://picsum.photos/seed/gift/640/480",
			AffiliateURL:   "https://www.amazon.co.uk/s?k=Gift&tag=giftfndr0d8-21",
			Prime:          true,
			EstimatedPrice: float64(10 + i),
			Category:       "home",
		}
	}
	return out
}

// ----- Tests -----

func TestShareService_Defaults(t *testing.T) {
	s := NewShareService(repo.NewMemoryShareStore(), nil, 0, 0, 0)
	if s.TTL != 7*24*time.Hour || s.MaxResults != 6 || s.Clock == nil || s.idem != nil {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}

func TestShareService_RoundTripTruncatesToSix(t *testing.T) {
	for _, n := range []int{0, 1, 6, 7, 12} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s, _ := newTestShareService(t)
			ctx := context.Background()
			in := suggestions(n)

			rec, err := s.Create(ctx, "gifts for Mum", in)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if !ValidShareID(rec.ID) {
				t.Fatalf("bad id %q", rec.ID)
			}

			got, err := s.Get(ctx, rec.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			want := domain.ShareRecord{ID: rec.ID, Query: "gifts for Mum", Results: in[:min(n, 6)], CreatedAt: t0}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShareService_InvalidInput(t *testing.T) {
	s, _ := newTestShareService(t)
	ctx := context.Background()
	cases := []struct {
		name    string
		query   string
		results []domain.Suggestion
	}{
		{"empty query", "", suggestions(1)},
		{"blank query", "   \t", suggestions(1)},
		{"nil results", "q", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := s.Create(ctx, c.query, c.results); !errors.Is(err, ErrInvalidShare) {
				t.Fatalf("expected ErrInvalidShare, got %v", err)
			}
		})
	}
	if n, _ := s.Store.Count(ctx); n != 0 {
		t.Fatalf("invalid writes must not store anything, count=%d", n)
	}
}

func TestShareService_StoredResultsAreDetached(t *testing.T) {
	s, _ := newTestShareService(t)
	ctx := context.Background()
	in := suggestions(3)

	rec, err := s.Create(ctx, "q", in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	in[0].Title = "changed by caller"
	rec.Results[1].Title = "changed via returned record"

	got, _ := s.Get(ctx, rec.ID)
	if got.Results[0].Title != "Gift 0" || got.Results[1].Title != "Gift 1" {
		t.Fatalf("stored record was mutated: %+v", got.Results)
	}
}

func TestShareService_GetUnknownOrMalformed(t *testing.T) {
	s, _ := newTestShareService(t)
	for _, id := range []string{"Zz9Zz9", "", "abc", "abc-12", "abcdefg", "../../"} {
		if _, err := s.Get(context.Background(), id); !errors.Is(err, ErrShareNotFound) {
			t.Fatalf("Get(%q): expected ErrShareNotFound, got %v", id, err)
		}
	}
}

func TestShareService_ExpiryAndSweepOnWrite(t *testing.T) {
	s, clk := newTestShareService(t)
	ctx := context.Background()

	old, err := s.Create(ctx, "old", suggestions(2))
	if err != nil {
		t.Fatalf("Create old: %v", err)
	}

	clk.Advance(7 * 24 * time.Hour)
	if _, err := s.Get(ctx, old.ID); err != nil {
		t.Fatalf("record exactly 7 days old should still be readable: %v", err)
	}

	clk.Advance(time.Second)
	if _, err := s.Get(ctx, old.ID); !errors.Is(err, ErrShareNotFound) {
		t.Fatalf("expired record must read as not found, got %v", err)
	}
	// Still physically present until a write sweeps it.
	if n, _ := s.Store.Count(ctx); n != 1 {
		t.Fatalf("expected 1 stored record before sweep, got %d", n)
	}

	fresh, err := s.Create(ctx, "fresh", suggestions(1))
	if err != nil {
		t.Fatalf("Create fresh: %v", err)
	}
	if _, err := s.Store.Get(ctx, old.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("sweep-on-write should have removed the old record, err=%v", err)
	}
	if _, err := s.Get(ctx, fresh.ID); err != nil {
		t.Fatalf("fresh record missing: %v", err)
	}
}

func TestShareService_ExplicitSweep(t *testing.T) {
	s, clk := newTestShareService(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := s.Create(ctx, "q", suggestions(1)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	clk.Advance(8 * 24 * time.Hour)
	n, err := s.Sweep(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Sweep = (%d, %v), want (3, nil)", n, err)
	}
}

func TestShareService_SweepFailureDoesNotBlockWrite(t *testing.T) {
	store := &flakyStore{MemoryShareStore: repo.NewMemoryShareStore(), sweepErr: errors.New("disk busy")}
	s := NewShareService(store, clock.NewManual(t0), 0, 0, 0)
	if _, err := s.Create(context.Background(), "q", suggestions(1)); err != nil {
		t.Fatalf("Create should succeed despite sweep failure: %v", err)
	}
	if store.sweeps != 1 {
		t.Fatalf("expected one sweep per write, got %d", store.sweeps)
	}
}

func TestShareService_StoreFailureIsReported(t *testing.T) {
	boom := errors.New("disk full")
	store := &flakyStore{MemoryShareStore: repo.NewMemoryShareStore(), insertErr: boom}
	s := NewShareService(store, clock.NewManual(t0), 0, 0, 0)
	if _, err := s.Create(context.Background(), "q", suggestions(1)); !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestShareService_RetriesOnCollision(t *testing.T) {
	s, _ := newTestShareService(t)
	ctx := context.Background()
	s.NewID = sequenceIDs("AAAAAA", "AAAAAA", "AAAAAA", "BBBBBB")

	first, err := s.Create(ctx, "first", suggestions(1))
	if err != nil || first.ID != "AAAAAA" {
		t.Fatalf("first = (%q, %v)", first.ID, err)
	}
	second, err := s.Create(ctx, "second", suggestions(1))
	if err != nil || second.ID != "BBBBBB" {
		t.Fatalf("second = (%q, %v); want BBBBBB after retries", second.ID, err)
	}
	got, _ := s.Get(ctx, "AAAAAA")
	if got.Query != "first" {
		t.Fatalf("collision overwrote existing record: %+v", got)
	}
}

func TestShareService_IDSpaceExhausted(t *testing.T) {
	s, _ := newTestShareService(t)
	ctx := context.Background()
	s.NewID = sequenceIDs("AAAAAA")
	s.MaxAttempts = 4

	if _, err := s.Create(ctx, "q", suggestions(1)); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := s.Create(ctx, "q", suggestions(1)); !errors.Is(err, ErrIDSpaceExhausted) {
		t.Fatalf("expected ErrIDSpaceExhausted, got %v", err)
	}
}

func TestShareService_TenThousandWritesUnique(t *testing.T) {
	s, clk := newTestShareService(t)
	ctx := context.Background()
	results := suggestions(1)

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		rec, err := s.Create(ctx, "q", results)
		if err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		if _, dup := seen[rec.ID]; dup {
			t.Fatalf("duplicate live id %q at write %d", rec.ID, i)
		}
		seen[rec.ID] = struct{}{}
		clk.Advance(time.Millisecond)
	}
	if n, _ := s.Store.Count(ctx); n != 10000 {
		t.Fatalf("expected 10000 live records, got %d", n)
	}
}

func TestShareService_ConcurrentWrites(t *testing.T) {
	s := NewShareService(repo.NewMemoryShareStore(), clock.Real{}, 0, 0, 0)
	ctx := context.Background()

	const workers, per = 8, 200
	ids := make(chan string, workers*per)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				rec, err := s.Create(ctx, "q", suggestions(2))
				if err != nil {
					t.Errorf("Create: %v", err)
					return
				}
				ids <- rec.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if len(seen) != workers*per {
		t.Fatalf("expected %d ids, got %d", workers*per, len(seen))
	}
}

func TestShareService_IdempotentReplay(t *testing.T) {
	s, clk := newTestShareService(t)
	ctx := context.Background()

	first, replayed, err := s.CreateIdempotent(ctx, "ip:1.2.3.4", "key-1", "q", suggestions(2))
	if err != nil || replayed {
		t.Fatalf("first = (%v, %v)", replayed, err)
	}
	if ok, _ := s.SeenIdempotencyKey(ctx, "ip:1.2.3.4", "key-1", clk.Now()); !ok {
		t.Fatalf("key should be remembered")
	}
	if ok, _ := s.SeenIdempotencyKey(ctx, "ip:5.6.7.8", "key-1", clk.Now()); ok {
		t.Fatalf("keys are scoped per client")
	}

	again, replayed, err := s.CreateIdempotent(ctx, "ip:1.2.3.4", "key-1", "other", suggestions(1))
	if err != nil || !replayed || again.ID != first.ID || again.Query != "q" {
		t.Fatalf("replay = (%+v, %v, %v)", again, replayed, err)
	}
	if n, _ := s.Store.Count(ctx); n != 1 {
		t.Fatalf("replay must not create a record, count=%d", n)
	}

	// Key window is one hour; afterwards the same key creates a new record.
	clk.Advance(time.Hour)
	third, replayed, err := s.CreateIdempotent(ctx, "ip:1.2.3.4", "key-1", "q", suggestions(1))
	if err != nil || replayed || third.ID == first.ID {
		t.Fatalf("expired key should create anew: (%q, %v, %v)", third.ID, replayed, err)
	}
}

func TestShareService_IdempotentKeysDoNotBlockEachOther(t *testing.T) {
	store := &gatedStore{
		MemoryShareStore: repo.NewMemoryShareStore(),
		entered:          make(chan struct{}, 1),
		release:          make(chan struct{}),
	}
	s := NewShareService(store, clock.NewManual(t0), 0, 0, time.Hour)
	ctx := context.Background()

	slowDone := make(chan error, 1)
	go func() {
		_, _, err := s.CreateIdempotent(ctx, "ip:1.1.1.1", "key-slow", "slow", suggestions(1))
		slowDone <- err
	}()
	<-store.entered

	fastDone := make(chan error, 1)
	go func() {
		_, _, err := s.CreateIdempotent(ctx, "ip:2.2.2.2", "key-fast", "fast", suggestions(1))
		if err == nil {
			_, err = s.SeenIdempotencyKey(ctx, "ip:1.1.1.1", "key-slow", t0)
		}
		fastDone <- err
	}()

	select {
	case err := <-fastDone:
		if err != nil {
			t.Fatalf("fast write: %v", err)
		}
	case <-time.After(2 * time.Second):
		close(store.release)
		t.Fatal("a write under another key waited for the in-flight one")
	}

	close(store.release)
	if err := <-slowDone; err != nil {
		t.Fatalf("slow write: %v", err)
	}
	if n := s.idem.pendingKeys(); n != 0 {
		t.Fatalf("per-key locks leaked: %d", n)
	}
}

func TestShareService_IdempotentConcurrentSameKey(t *testing.T) {
	s, _ := newTestShareService(t)
	ctx := context.Background()

	const n = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ids      = map[string]int{}
		replays  int
		firstErr error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, replayed, err := s.CreateIdempotent(ctx, "ip:9.9.9.9", "same-key", "q", suggestions(1))
			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			ids[rec.ID]++
			if replayed {
				replays++
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		t.Fatalf("CreateIdempotent: %v", firstErr)
	}
	if len(ids) != 1 || replays != n-1 {
		t.Fatalf("want one record and %d replays, got ids=%v replays=%d", n-1, ids, replays)
	}
	if c, _ := s.Store.Count(ctx); c != 1 {
		t.Fatalf("store count = %d", c)
	}
	if k := s.idem.pendingKeys(); k != 0 {
		t.Fatalf("per-key locks leaked: %d", k)
	}
}

func TestShareService_IdempotentWithoutKey(t *testing.T) {
	s, _ := newTestShareService(t)
	ctx := context.Background()
	a, _, _ := s.CreateIdempotent(ctx, "c", "", "q", suggestions(1))
	b, _, _ := s.CreateIdempotent(ctx, "c", "", "q", suggestions(1))
	if a.ID == b.ID {
		t.Fatalf("writes without a key must not be deduplicated")
	}
}

func TestNewShareID_ShapeAndCoverage(t *testing.T) {
	used := map[rune]bool{}
	for i := 0; i < 2000; i++ {
		id, err := NewShareID()
		if err != nil {
			t.Fatalf("NewShareID: %v", err)
		}
		if !ValidShareID(id) {
			t.Fatalf("bad id %q", id)
		}
		for _, r := range id {
			used[r] = true
		}
	}
	// 12000 uniform draws over 62 symbols leave none unused in practice.
	if len(used) != len(shareIDAlphabet) {
		t.Fatalf("only %d of %d symbols drawn", len(used), len(shareIDAlphabet))
	}
}

func TestValidShareID(t *testing.T) {
	cases := map[string]bool{
		"abcDE9": true, "000000": true, "ZZZZZZ": true,
		"": false, "abcde": false, "abcdefg": false, "abc-de": false, "abcdé": false, "ab cde": false,
	}
	for id, want := range cases {
		if got := ValidShareID(id); got != want {
			t.Fatalf("ValidShareID(%q) = %v, want %v", id, got, want)
		}
	}
}

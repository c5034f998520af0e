package tasks

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/desertthunder/encore/internal/models"
)

func TestTrackResolverResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("strict phase wins with exact artist match", func(t *testing.T) {
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{
			"track:battery artist:metallica": {
				summary("t1", "Battery", 70, "Metallica"),
			},
		}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		track, err := r.Resolve(ctx, "Metallica", "Battery")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if track == nil {
			t.Fatal("expected a match")
		}
		if track.MatchMode != models.MatchStrict {
			t.Errorf("expected strict match mode, got %v", track.MatchMode)
		}
		if track.Confidence != 1.0 {
			t.Errorf("strict matches carry confidence 1.0, got %v", track.Confidence)
		}
		if track.CatalogID != "t1" {
			t.Errorf("expected t1, got %s", track.CatalogID)
		}
		if len(catalog.queries) != 1 {
			t.Errorf("strict success must not issue a fallback search, got queries %v", catalog.queries)
		}
	})

	t.Run("strict match folds diacritics and case", func(t *testing.T) {
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{
			"track:ace of spades artist:motorhead": {
				summary("t1", "Ace of Spades", 80, "Motörhead"),
			},
		}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		track, err := r.Resolve(ctx, "Motörhead", "Ace of Spades")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if track == nil || track.MatchMode != models.MatchStrict {
			t.Fatalf("expected strict match across diacritics, got %+v", track)
		}
	})

	t.Run("strict candidate with wrong artist falls through", func(t *testing.T) {
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{
			"track:battery artist:metallica": {
				summary("t1", "Battery", 90, "Metallica Tribute Kings"),
			},
			"track:battery": {
				summary("t2", "Battery", 60, "Metallica"),
			},
		}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		track, err := r.Resolve(ctx, "Metallica", "Battery")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if track == nil {
			t.Fatal("expected a fallback match")
		}
		if track.MatchMode != models.MatchFallback {
			t.Errorf("expected fallback mode, got %v", track.MatchMode)
		}
		if track.CatalogID != "t2" {
			t.Errorf("expected t2, got %s", track.CatalogID)
		}
		if len(catalog.queries) != 2 {
			t.Errorf("expected strict then fallback query, got %v", catalog.queries)
		}
	})

	t.Run("fallback rejects at the threshold", func(t *testing.T) {
		// Containment (0.8) minus noise (0.4) plus full popularity bonus
		// (0.1) lands exactly on 0.5, which must not be accepted.
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{
			"track:battery": {
				summary("t1", "Battery Karaoke Hits", 100, "Karaoke Legends"),
			},
		}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		track, err := r.Resolve(ctx, "Metallica", "Battery")
		if err != nil {
			t.Fatalf("no-match must not error: %v", err)
		}
		if track != nil {
			t.Errorf("a score of exactly 0.5 must be rejected, got %+v", track)
		}
	})

	t.Run("fallback accepts above the threshold", func(t *testing.T) {
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{
			"track:battery": {
				summary("t1", "Battery (Live at Seattle)", 40, "Metallica"),
			},
		}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		track, err := r.Resolve(ctx, "Metallica", "Battery")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if track == nil {
			t.Fatal("expected a fallback match")
		}
		// Parenthetical stripped: exact title match, no noise, plus bonus.
		// The raw score is 1.04 but the published confidence caps at 1.0.
		if math.Abs(track.Confidence-1.0) > 1e-9 {
			t.Errorf("expected confidence 1.0, got %v", track.Confidence)
		}
	})

	t.Run("fallback confidence never exceeds one", func(t *testing.T) {
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{
			"track:battery": {
				summary("t1", "Battery", 100, "Metallica"),
			},
		}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		track, err := r.Resolve(ctx, "Metallica", "Battery")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if track == nil {
			t.Fatal("expected a fallback match")
		}
		if track.Confidence > 1.0 {
			t.Errorf("confidence must stay within [0, 1], got %v", track.Confidence)
		}
	})

	t.Run("popularity breaks ties between equal titles", func(t *testing.T) {
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{
			"track:one": {
				summary("t1", "One", 10, "Somebody"),
				summary("t2", "One", 90, "Somebody Else"),
			},
		}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		track, err := r.Resolve(ctx, "Metallica", "One")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if track == nil || track.CatalogID != "t2" {
			t.Errorf("expected the more popular candidate, got %+v", track)
		}
	})

	t.Run("upstream order wins on exact score ties", func(t *testing.T) {
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{
			"track:one": {
				summary("t1", "One", 50, "Somebody"),
				summary("t2", "One", 50, "Somebody Else"),
			},
		}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		track, err := r.Resolve(ctx, "Metallica", "One")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if track == nil || track.CatalogID != "t1" {
			t.Errorf("expected the first candidate on a tie, got %+v", track)
		}
	})

	t.Run("no candidates means missing, not error", func(t *testing.T) {
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		track, err := r.Resolve(ctx, "Metallica", "Some Deep Cut")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if track != nil {
			t.Errorf("expected no match, got %+v", track)
		}
	})

	t.Run("upstream error surfaces", func(t *testing.T) {
		catalog := &fakeCatalog{err: errors.New("catalog down")}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		if _, err := r.Resolve(ctx, "Metallica", "Battery"); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("second resolve is served from cache", func(t *testing.T) {
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{
			"track:battery artist:metallica": {
				summary("t1", "Battery", 70, "Metallica"),
			},
		}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		if _, err := r.Resolve(ctx, "Metallica", "Battery"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		track, err := r.Resolve(ctx, "metallica", "Battery (Live)")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if track == nil || track.CatalogID != "t1" {
			t.Errorf("expected cached resolution, got %+v", track)
		}
		if len(catalog.queries) != 1 {
			t.Errorf("expected 1 upstream query, got %v", catalog.queries)
		}
	})
}

func TestFallbackScore(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		candidate models.TrackSummary
		want      float64
	}{
		{"exact title", "battery", summary("t", "Battery", 0, "X"), 1.0},
		{"containment", "battery", summary("t", "Battery Medley", 0, "X"), 0.8},
		{"unrelated", "battery", summary("t", "Enter Sandman", 0, "X"), 0.0},
		{"noise penalty applies once", "battery", summary("t", "Battery Karaoke Cover", 0, "X"), 0.4},
		{"popularity bonus", "battery", summary("t", "Battery", 100, "X"), 1.1},
		{"noise in stripped parenthetical still counts", "battery", summary("t", "Battery (Karaoke Version)", 0, "X"), 0.6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fallbackScore(tc.query, tc.candidate)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("fallbackScore(%q, %q) = %v, want %v", tc.query, tc.candidate.Name, got, tc.want)
			}
		})
	}
}

func TestTrackResolverSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves upstream order", func(t *testing.T) {
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{
			`artist:"Metallica"`: {
				summary("t1", "Nothing Else Matters", 90, "Metallica"),
				summary("t2", "Enter Sandman", 95, "Metallica"),
			},
		}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		results, err := r.Search(ctx, `artist:"Metallica"`, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 2 || results[0].ID != "t1" || results[1].ID != "t2" {
			t.Errorf("expected upstream order preserved, got %+v", results)
		}
	})

	t.Run("second search is served from cache", func(t *testing.T) {
		catalog := &fakeCatalog{responses: map[string][]models.TrackSummary{
			"anything": {summary("t1", "Song", 50, "X")},
		}}
		r := NewTrackResolver(catalog, testCache(t), testLogger())

		if _, err := r.Search(ctx, "anything", 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := r.Search(ctx, "anything", 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(catalog.queries) != 1 {
			t.Errorf("expected 1 upstream query, got %v", catalog.queries)
		}
	})
}

package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleResult(id string) *models.GenerationResult {
	return &models.GenerationResult{
		ID:        id,
		CreatedAt: time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC),
		Artists:   []string{"Metallica", "Ghost"},
		Groups: []models.ArtistPlaylistGroup{
			{
				Artist: models.ResolvedArtist{Name: "Metallica", CanonicalID: "mbid-metallica"},
				Tracks: []models.ResolvedTrack{
					{
						Artist: "Metallica", Title: "Battery", CatalogID: "t1",
						URI: "spotify:track:t1", URL: "https://open.spotify.com/track/t1",
						DurationMS: 312000,
						MatchMode:  models.MatchStrict, Confidence: 1.0, Source: models.SourceSetlist,
					},
					{
						Artist: "Metallica", Title: "Orion", CatalogID: "t2",
						URI: "spotify:track:t2", URL: "https://open.spotify.com/track/t2",
						MatchMode: models.MatchFallback, Confidence: 0.84, Source: models.SourceSetlist,
					},
				},
			},
			{
				Artist:      models.ResolvedArtist{Name: "Ghost", CanonicalID: "mbid-ghost"},
				FromPopular: true,
				Tracks: []models.ResolvedTrack{
					{
						Artist: "Ghost", Title: "Square Hammer", CatalogID: "t3",
						URI: "spotify:track:t3", URL: "https://open.spotify.com/track/t3",
						MatchMode: models.MatchFallback, Confidence: 0.9, Source: models.SourcePopular,
					},
				},
			},
		},
		Missing: []models.MissingTrack{
			{Artist: "Metallica", Title: "Some Deep Cut"},
		},
		MissingSetlists: []string{"Nobody At All"},
		Stats:           models.GenerationStats{TotalSongs: 3, Matched: 3, Missing: 1},
		Status:          models.StatusPartial,
	}
}

func TestRunRepository(t *testing.T) {
	t.Run("Create and Get round-trip", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		if err := repo.Create(sampleResult("run-1")); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		got, err := repo.Get("run-1")
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}

		if got.ID != "run-1" || got.Status != models.StatusPartial {
			t.Errorf("unexpected run header: %+v", got)
		}
		if len(got.Artists) != 2 || got.Artists[0] != "Metallica" {
			t.Errorf("unexpected artists: %v", got.Artists)
		}
		if len(got.MissingSetlists) != 1 || got.MissingSetlists[0] != "Nobody At All" {
			t.Errorf("unexpected missing setlists: %v", got.MissingSetlists)
		}
		if got.Stats.TotalSongs != 3 || got.Stats.Matched != 3 || got.Stats.Missing != 1 {
			t.Errorf("unexpected stats: %+v", got.Stats)
		}

		if len(got.Groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(got.Groups))
		}
		metallica := got.Groups[0]
		if metallica.Artist.Name != "Metallica" || len(metallica.Tracks) != 2 {
			t.Errorf("unexpected first group: %+v", metallica)
		}
		if metallica.Tracks[0].CatalogID != "t1" || metallica.Tracks[1].CatalogID != "t2" {
			t.Errorf("track order not preserved: %+v", metallica.Tracks)
		}
		if metallica.Tracks[0].MatchMode != models.MatchStrict || metallica.Tracks[0].Confidence != 1.0 {
			t.Errorf("match metadata not preserved: %+v", metallica.Tracks[0])
		}
		if metallica.Tracks[0].URL != "https://open.spotify.com/track/t1" {
			t.Errorf("url not preserved: %+v", metallica.Tracks[0])
		}
		if metallica.Tracks[0].DurationMS != 312000 {
			t.Errorf("duration not preserved: %+v", metallica.Tracks[0])
		}
		if metallica.FromPopular {
			t.Error("setlist-sourced group wrongly marked popular")
		}

		ghost := got.Groups[1]
		if !ghost.FromPopular {
			t.Error("all-popular group should be marked popular")
		}

		if len(got.Missing) != 1 || got.Missing[0].Title != "Some Deep Cut" {
			t.Errorf("unexpected missing tracks: %v", got.Missing)
		}
	})

	t.Run("Get unknown run", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		_, err := repo.Get("nope")
		if !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("List newest first", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		for i := 0; i < 3; i++ {
			result := sampleResult(fmt.Sprintf("run-%d", i))
			result.CreatedAt = result.CreatedAt.Add(time.Duration(i) * time.Hour)
			if err := repo.Create(result); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		summaries, err := repo.List(2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(summaries) != 2 {
			t.Fatalf("expected 2 summaries, got %d", len(summaries))
		}
		if summaries[0].ID != "run-2" || summaries[1].ID != "run-1" {
			t.Errorf("expected newest first, got %s then %s", summaries[0].ID, summaries[1].ID)
		}
		if summaries[0].Stats.Matched != 3 {
			t.Errorf("unexpected summary stats: %+v", summaries[0].Stats)
		}
	})

	t.Run("Delete removes run and children", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		if err := repo.Create(sampleResult("run-1")); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
		if err := repo.Delete("run-1"); err != nil {
			t.Fatalf("failed to delete run: %v", err)
		}

		if _, err := repo.Get("run-1"); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound after delete, got %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM run_tracks").Scan(&count); err != nil {
			t.Fatalf("failed to count tracks: %v", err)
		}
		if count != 0 {
			t.Errorf("expected child tracks deleted, got %d", count)
		}
	})

	t.Run("Delete unknown run", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		if err := repo.Delete("nope"); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("duplicate run id is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		if err := repo.Create(sampleResult("run-1")); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
		if err := repo.Create(sampleResult("run-1")); err == nil {
			t.Error("expected a primary key violation")
		}
	})
}

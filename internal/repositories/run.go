package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/shared"
)

// RunRepository persists generation runs and their per-track outcomes.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// RunSummary is the list view of a persisted run.
type RunSummary struct {
	ID        string
	CreatedAt time.Time
	Status    models.RunStatus
	Artists   []string
	Stats     models.GenerationStats
}

// Create persists a completed generation result: the run row plus one row per
// resolved track and one per missing song, in a single transaction.
func (r *RunRepository) Create(result *models.GenerationResult) error {
	artists, err := json.Marshal(result.Artists)
	if err != nil {
		return fmt.Errorf("failed to encode artists: %w", err)
	}
	missingSetlists, err := json.Marshal(result.MissingSetlists)
	if err != nil {
		return fmt.Errorf("failed to encode missing setlists: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, created_at, status, artists, missing_setlists, total_songs, matched, missing)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.ID,
		result.CreatedAt,
		string(result.Status),
		string(artists),
		string(missingSetlists),
		result.Stats.TotalSongs,
		result.Stats.Matched,
		result.Stats.Missing,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	trackStmt, err := tx.Prepare(`
		INSERT INTO run_tracks (run_id, artist, title, catalog_id, uri, url, duration_ms, match_mode, confidence, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer trackStmt.Close()

	for _, group := range result.Groups {
		for _, track := range group.Tracks {
			_, err := trackStmt.Exec(
				result.ID,
				track.Artist,
				track.Title,
				track.CatalogID,
				track.URI,
				track.URL,
				track.DurationMS,
				string(track.MatchMode),
				track.Confidence,
				string(track.Source),
			)
			if err != nil {
				return fmt.Errorf("failed to insert run track: %w", err)
			}
		}
	}

	missStmt, err := tx.Prepare(`INSERT INTO run_missing (run_id, artist, title) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare missing insert: %w", err)
	}
	defer missStmt.Close()

	for _, missing := range result.Missing {
		if _, err := missStmt.Exec(result.ID, missing.Artist, missing.Title); err != nil {
			return fmt.Errorf("failed to insert missing track: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, rebuilding per-artist groups from the stored
// tracks in insertion order. Group-level song counts are not persisted, so a
// reloaded result carries tracks and statistics but not OriginalSongCount.
func (r *RunRepository) Get(id string) (*models.GenerationResult, error) {
	query := `
		SELECT id, created_at, status, artists, missing_setlists, total_songs, matched, missing
		FROM runs
		WHERE id = ?
	`

	var result models.GenerationResult
	var status, artists, missingSetlists string

	err := r.db.QueryRow(query, id).Scan(
		&result.ID,
		&result.CreatedAt,
		&status,
		&artists,
		&missingSetlists,
		&result.Stats.TotalSongs,
		&result.Stats.Matched,
		&result.Stats.Missing,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	result.Status = models.RunStatus(status)
	if err := json.Unmarshal([]byte(artists), &result.Artists); err != nil {
		return nil, fmt.Errorf("failed to decode artists: %w", err)
	}
	if err := json.Unmarshal([]byte(missingSetlists), &result.MissingSetlists); err != nil {
		return nil, fmt.Errorf("failed to decode missing setlists: %w", err)
	}

	if result.Groups, err = r.loadGroups(id); err != nil {
		return nil, err
	}
	if result.Missing, err = r.loadMissing(id); err != nil {
		return nil, err
	}

	return &result, nil
}

// List returns summaries of the most recent runs, newest first.
func (r *RunRepository) List(limit int) ([]RunSummary, error) {
	if limit < 1 {
		limit = 20
	}

	query := `
		SELECT id, created_at, status, artists, total_songs, matched, missing
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var summary RunSummary
		var status, artists string

		err := rows.Scan(
			&summary.ID,
			&summary.CreatedAt,
			&status,
			&artists,
			&summary.Stats.TotalSongs,
			&summary.Stats.Matched,
			&summary.Stats.Missing,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		summary.Status = models.RunStatus(status)
		if err := json.Unmarshal([]byte(artists), &summary.Artists); err != nil {
			return nil, fmt.Errorf("failed to decode artists: %w", err)
		}

		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// Delete removes a run and its tracks. Child rows are deleted explicitly so
// behavior does not depend on the foreign_keys pragma.
func (r *RunRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM run_tracks WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete run tracks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM run_missing WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete missing tracks: %w", err)
	}

	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}

	return tx.Commit()
}

// loadGroups rebuilds per-artist groups from run_tracks, grouped by artist in
// first-seen order. A group is marked FromPopular when every stored track came
// from the popular fallback.
func (r *RunRepository) loadGroups(runID string) ([]models.ArtistPlaylistGroup, error) {
	query := `
		SELECT artist, title, catalog_id, uri, url, duration_ms, match_mode, confidence, source
		FROM run_tracks
		WHERE run_id = ?
		ORDER BY id
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run tracks: %w", err)
	}
	defer rows.Close()

	groups := []models.ArtistPlaylistGroup{}
	index := make(map[string]int)

	for rows.Next() {
		var track models.ResolvedTrack
		var mode, source string

		err := rows.Scan(
			&track.Artist,
			&track.Title,
			&track.CatalogID,
			&track.URI,
			&track.URL,
			&track.DurationMS,
			&mode,
			&track.Confidence,
			&source,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run track: %w", err)
		}
		track.MatchMode = models.MatchMode(mode)
		track.Source = models.TrackSource(source)

		i, ok := index[track.Artist]
		if !ok {
			i = len(groups)
			index[track.Artist] = i
			groups = append(groups, models.ArtistPlaylistGroup{
				Artist: models.ResolvedArtist{Name: track.Artist},
				Tracks: []models.ResolvedTrack{},
			})
		}
		groups[i].Tracks = append(groups[i].Tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run tracks: %w", err)
	}

	for i := range groups {
		popular := len(groups[i].Tracks) > 0
		for _, track := range groups[i].Tracks {
			if track.Source != models.SourcePopular {
				popular = false
				break
			}
		}
		groups[i].FromPopular = popular
	}

	return groups, nil
}

func (r *RunRepository) loadMissing(runID string) ([]models.MissingTrack, error) {
	rows, err := r.db.Query("SELECT artist, title FROM run_missing WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load missing tracks: %w", err)
	}
	defer rows.Close()

	missing := []models.MissingTrack{}
	for rows.Next() {
		var m models.MissingTrack
		if err := rows.Scan(&m.Artist, &m.Title); err != nil {
			return nil, fmt.Errorf("failed to scan missing track: %w", err)
		}
		missing = append(missing, m)
	}

	return missing, rows.Err()
}

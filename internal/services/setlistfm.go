// setlist.fm API implementations of [ArtistSearcher] and [SetlistFetcher]
//
// Response types based on https://api.setlist.fm/docs/1.0/index.html
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/shared"
	"golang.org/x/time/rate"
)

const setlistFMBaseURL = "https://api.setlist.fm/rest/1.0"

type setlistFMArtist struct {
	MBID string `json:"mbid"`
	Name string `json:"name"`
}

type artistSearchResponse struct {
	Artist       []setlistFMArtist `json:"artist"`
	Total        int               `json:"total"`
	Page         int               `json:"page"`
	ItemsPerPage int               `json:"itemsPerPage"`
}

type setlistFMCountry struct {
	Name string `json:"name"`
}

type setlistFMCity struct {
	Name    string           `json:"name"`
	Country setlistFMCountry `json:"country"`
}

type setlistFMVenue struct {
	Name string        `json:"name"`
	City setlistFMCity `json:"city"`
}

type setlistFMSong struct {
	Name string `json:"name"`
}

type setlistFMSet struct {
	Song []setlistFMSong `json:"song"`
}

type setlistFMSets struct {
	Set []setlistFMSet `json:"set"`
}

type setlistFMSetlist struct {
	ID        string         `json:"id"`
	EventDate string         `json:"eventDate"` // dd-MM-yyyy
	Venue     setlistFMVenue `json:"venue"`
	Sets      setlistFMSets  `json:"sets"`
}

type setlistsResponse struct {
	Setlist      []setlistFMSetlist `json:"setlist"`
	Total        int                `json:"total"`
	Page         int                `json:"page"`
	ItemsPerPage int                `json:"itemsPerPage"`
}

// SetlistFMService implements [ArtistSearcher] and [SetlistFetcher] against
// the setlist.fm REST API. Requests are throttled with a [rate.Limiter] to
// stay inside the documented 2 req/s budget.
type SetlistFMService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSetlistFMService creates a setlist.fm client. A missing API key is a
// configuration error, surfaced immediately and never retried.
func NewSetlistFMService(apiKey string) (*SetlistFMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: setlistfm api_key", shared.ErrMissingCredentials)
	}

	return &SetlistFMService{
		baseURL:    setlistFMBaseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(2), 2),
	}, nil
}

func (s *SetlistFMService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// setlist.fm answers empty searches with 404, not an empty page.
		return errNoResults
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: setlist.fm status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

var errNoResults = fmt.Errorf("no results")

// SearchArtists queries setlist.fm for artists matching the free-text name.
// Candidates without an mbid are unusable downstream and are dropped here.
func (s *SetlistFMService) SearchArtists(ctx context.Context, name string) ([]models.ResolvedArtist, error) {
	endpoint := fmt.Sprintf("/search/artists?artistName=%s&sort=relevance", url.QueryEscape(name))

	var response artistSearchResponse
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		if err == errNoResults {
			return nil, nil
		}
		return nil, err
	}

	candidates := make([]models.ResolvedArtist, 0, len(response.Artist))
	for _, a := range response.Artist {
		if a.MBID == "" {
			continue
		}
		candidates = append(candidates, models.ResolvedArtist{Name: a.Name, CanonicalID: a.MBID})
	}

	return candidates, nil
}

// ArtistSetlists retrieves one page of an artist's setlists, most recent
// first, mapped onto [models.PerformancePage].
func (s *SetlistFMService) ArtistSetlists(ctx context.Context, artistID string, page int) (*models.PerformancePage, error) {
	if page < 1 {
		page = 1
	}
	endpoint := fmt.Sprintf("/artist/%s/setlists?p=%d", url.PathEscape(artistID), page)

	var response setlistsResponse
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		if err == errNoResults {
			return &models.PerformancePage{Page: page}, nil
		}
		return nil, err
	}

	performances := make([]models.Performance, 0, len(response.Setlist))
	for _, sl := range response.Setlist {
		var songs []string
		for _, set := range sl.Sets.Set {
			for _, song := range set.Song {
				if song.Name != "" {
					songs = append(songs, song.Name)
				}
			}
		}

		performances = append(performances, models.Performance{
			ID:        sl.ID,
			EventDate: sl.EventDate,
			VenueName: sl.Venue.Name,
			City:      sl.Venue.City.Name,
			Country:   sl.Venue.City.Country.Name,
			SongNames: songs,
		})
	}

	return &models.PerformancePage{
		Performances: performances,
		Total:        response.Total,
		Page:         response.Page,
		ItemsPerPage: response.ItemsPerPage,
	}, nil
}

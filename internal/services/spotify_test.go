package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	internaltesting "github.com/desertthunder/encore/internal/testing"
)

func newTestSpotify(t *testing.T, rt http.RoundTripper) *SpotifyService {
	t.Helper()
	svc, err := NewSpotifyService("test_client_id", "test_client_secret")
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	svc.httpClient = &http.Client{Transport: rt}
	return svc
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("With Valid Credentials", func(t *testing.T) {
		svc, err := NewSpotifyService("id", "secret")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if svc.Name() != "Spotify" {
			t.Errorf("expected service name Spotify, got %s", svc.Name())
		}
	})

	t.Run("Missing Client ID", func(t *testing.T) {
		if _, err := NewSpotifyService("", "secret"); err == nil {
			t.Error("expected error for missing client_id")
		}
	})

	t.Run("Missing Client Secret", func(t *testing.T) {
		if _, err := NewSpotifyService("id", ""); err == nil {
			t.Error("expected error for missing client_secret")
		}
	})
}

func TestSearchTracks(t *testing.T) {
	searchBody := `{
		"tracks": {
			"items": [
				{
					"id": "t1",
					"name": "Battery",
					"artists": [{"id": "a1", "name": "Metallica"}],
					"duration_ms": 312000,
					"popularity": 71,
					"uri": "spotify:track:t1",
					"external_urls": {"spotify": "https://open.spotify.com/track/t1"}
				},
				{
					"id": "",
					"name": "Phantom",
					"artists": [],
					"duration_ms": 0,
					"popularity": 0
				}
			],
			"total": 2
		}
	}`

	t.Run("Parses Summaries", func(t *testing.T) {
		svc := newTestSpotify(t, internaltesting.NewMockRoundTripper(internaltesting.JSONResponse(200, searchBody), nil))

		tracks, err := svc.SearchTracks(context.Background(), "track:Battery artist:Metallica", 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(tracks) != 1 {
			t.Fatalf("expected 1 track after id filtering, got %d", len(tracks))
		}

		track := tracks[0]
		if track.ID != "t1" || track.Name != "Battery" {
			t.Errorf("unexpected track: %+v", track)
		}
		if len(track.Artists) != 1 || track.Artists[0] != "Metallica" {
			t.Errorf("unexpected artists: %v", track.Artists)
		}
		if track.URL != "https://open.spotify.com/track/t1" {
			t.Errorf("unexpected url: %s", track.URL)
		}
		if track.Popularity != 71 {
			t.Errorf("unexpected popularity: %d", track.Popularity)
		}
	})

	t.Run("Clamps Limit And Escapes Query", func(t *testing.T) {
		rt := internaltesting.NewSequenceRoundTripper(internaltesting.JSONResponse(200, `{"tracks": {"items": []}}`))
		svc := newTestSpotify(t, rt)

		_, err := svc.SearchTracks(context.Background(), `track:"So What"`, 500)
		internaltesting.AssertNoError(t, err)

		if len(rt.Requests) != 1 {
			t.Fatalf("expected 1 request, got %d", len(rt.Requests))
		}
		rawQuery := rt.Requests[0].URL.RawQuery
		if !strings.Contains(rawQuery, "limit=50") {
			t.Errorf("expected limit clamped to 50, got %s", rawQuery)
		}
		if strings.Contains(rawQuery, `"`) {
			t.Errorf("expected query escaping, got %s", rawQuery)
		}
	})

	t.Run("Body Read Failure Surfaces", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: 200,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       &internaltesting.FCloser{},
		}
		svc := newTestSpotify(t, internaltesting.NewMockRoundTripper(resp, nil))

		if _, err := svc.SearchTracks(context.Background(), "track:x", 5); err == nil {
			t.Error("expected error when the response body cannot be read")
		}
	})

	t.Run("Error Status Surfaces", func(t *testing.T) {
		svc := newTestSpotify(t, internaltesting.NewMockRoundTripper(internaltesting.JSONResponse(429, `{}`), nil))

		if _, err := svc.SearchTracks(context.Background(), "track:x", 5); err == nil {
			t.Error("expected error for 429 response")
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc, err := NewSpotifyService("id", "secret")
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		if _, err := svc.SearchTracks(context.Background(), "track:x", 5); err == nil {
			t.Error("expected error before Authenticate")
		}
	})
}

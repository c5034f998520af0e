package tasks

import (
	"fmt"

	"github.com/desertthunder/encore/internal/models"
)

// RunState is the explicit per-artist state of a generation run. Transitions
// follow idle → resolving-artist → aggregating-setlist →
// (resolving-tracks | fallback-search) → merged.
type RunState int

const (
	StateIdle RunState = iota
	StateResolvingArtist
	StateAggregating
	StateResolvingTracks
	StateFallbackSearch
	StateMerged
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolvingArtist:
		return "resolving-artist"
	case StateAggregating:
		return "aggregating-setlist"
	case StateResolvingTracks:
		return "resolving-tracks"
	case StateFallbackSearch:
		return "fallback-search"
	case StateMerged:
		return "merged"
	default:
		return ""
	}
}

// validTransitions maps each state to the states reachable from it. An
// unresolvable artist short-circuits back to resolving-artist (or idle at the
// end of the run) without passing through merged.
var validTransitions = map[RunState][]RunState{
	StateIdle:            {StateResolvingArtist},
	StateResolvingArtist: {StateAggregating, StateResolvingArtist, StateIdle},
	StateAggregating:     {StateResolvingTracks, StateFallbackSearch, StateResolvingArtist, StateIdle},
	StateResolvingTracks: {StateMerged},
	StateFallbackSearch:  {StateMerged},
	StateMerged:          {StateResolvingArtist, StateIdle},
}

// CanTransition reports whether moving from one run state to another is legal.
func CanTransition(from, to RunState) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	State   RunState // Pipeline state when the update was emitted
	Step    int      // Current step number within the state
	Total   int      // Total steps in this state
	Message string   // Human-readable message for display
	Data    any      // Optional state-specific data for advanced UIs
}

func resolvingArtistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		State:   StateResolvingArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Resolving artist: %s", step, total, name),
	}
}

func aggregatingUpdate(artist models.ResolvedArtist) ProgressUpdate {
	return ProgressUpdate{
		State:   StateAggregating,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching recent setlists for %s...", artist.Name),
	}
}

func aggregatedUpdate(setlist *models.AggregatedSetlist) ProgressUpdate {
	return ProgressUpdate{
		State: StateAggregating,
		Step:  1,
		Total: 1,
		Message: fmt.Sprintf("Found %d unique songs across %d setlists",
			len(setlist.Songs), setlist.Stats.Used),
		Data: setlist,
	}
}

func resolvingTrackUpdate(step, total int, artist, title string) ProgressUpdate {
	return ProgressUpdate{
		State:   StateResolvingTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, artist, title),
	}
}

func fallbackSearchUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		State:   StateFallbackSearch,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("No recent setlists for %s, falling back to popular tracks...", name),
	}
}

func mergedUpdate(group models.ArtistPlaylistGroup) ProgressUpdate {
	return ProgressUpdate{
		State:   StateMerged,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%s: %d tracks", group.Artist.Name, len(group.Tracks)),
		Data:    group,
	}
}

func retryUpdate(step, total int, missing models.MissingTrack) ProgressUpdate {
	return ProgressUpdate{
		State:   StateResolvingTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Retrying: %s - %s", step, total, missing.Artist, missing.Title),
	}
}

package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/shared"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = missingItem{}
)

// trackItem wraps [models.ResolvedTrack] to implement [list.Item].
type trackItem struct {
	track models.ResolvedTrack
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.DurationMS > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.track.DurationMS))
	}
	if i.track.Source == models.SourcePopular {
		desc = fmt.Sprintf("%s • popular", desc)
	} else if i.track.MatchMode == models.MatchFallback {
		desc = fmt.Sprintf("%s • fallback %.2f", desc, i.track.Confidence)
	}
	return desc
}

// missingItem wraps [models.MissingTrack] to implement [list.Item].
type missingItem struct {
	missing models.MissingTrack
}

func (i missingItem) FilterValue() string { return i.missing.Title }
func (i missingItem) Title() string       { return i.missing.Title }
func (i missingItem) Description() string { return i.missing.Artist + " • not found" }

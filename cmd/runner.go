package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/encore/internal/cache"
	"github.com/desertthunder/encore/internal/services"
	"github.com/desertthunder/encore/internal/shared"
	"github.com/desertthunder/encore/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	setlist *services.SetlistFMService
	spotify *services.SpotifyService
	cache   *cache.Cache
	logger  *log.Logger
	output  io.Writer

	artists    *tasks.ArtistResolver
	aggregator *tasks.SetlistAggregator
	tracks     *tasks.TrackResolver
	engine     *tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Setlist *services.SetlistFMService
	Spotify *services.SpotifyService
	Cache   *cache.Cache
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if opts.Cache == nil {
		c, err := cache.New(opts.Config.Cache.Dir, opts.Logger)
		if err != nil {
			opts.Logger.Warn("failed to open cache directory", "dir", opts.Config.Cache.Dir, "err", err)
		} else {
			opts.Cache = c
		}
	}

	r := &Runner{
		config:  opts.Config,
		setlist: opts.Setlist,
		spotify: opts.Spotify,
		cache:   opts.Cache,
		logger:  opts.Logger,
		output:  opts.Output,
	}

	if r.setlist != nil && r.cache != nil {
		r.artists = tasks.NewArtistResolver(r.setlist, r.cache, r.logger)
		r.aggregator = tasks.NewSetlistAggregator(r.setlist, r.cache, r.logger)
	}
	if r.spotify != nil && r.cache != nil {
		r.tracks = tasks.NewTrackResolver(r.spotify, r.cache, r.logger)
	}
	if r.artists != nil && r.aggregator != nil && r.tracks != nil {
		r.engine = tasks.NewEngine(r.artists, r.aggregator, r.tracks, r.logger)
	}

	return r
}

// SetLogger replaces the runner's logger and propagates it to the pipeline components.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.setlist != nil && r.cache != nil {
		r.artists = tasks.NewArtistResolver(r.setlist, r.cache, logger)
		r.aggregator = tasks.NewSetlistAggregator(r.setlist, r.cache, logger)
	}
	if r.spotify != nil && r.cache != nil {
		r.tracks = tasks.NewTrackResolver(r.spotify, r.cache, logger)
	}
	if r.artists != nil && r.aggregator != nil && r.tracks != nil {
		r.engine = tasks.NewEngine(r.artists, r.aggregator, r.tracks, logger)
	}
}

// requireEngine ensures the full pipeline is configured and the catalog client
// is authenticated before a generation command runs.
func (r *Runner) requireEngine(ctx context.Context) error {
	if r.engine == nil {
		return fmt.Errorf("%w: pipeline not configured, check credentials in config.toml", shared.ErrServiceUnavailable)
	}
	if err := r.spotify.Authenticate(ctx); err != nil {
		return fmt.Errorf("catalog authentication failed: %w", err)
	}
	return nil
}

func (r *Runner) requireTracks(ctx context.Context) error {
	if r.tracks == nil {
		return fmt.Errorf("%w: Spotify client not configured", shared.ErrServiceUnavailable)
	}
	if err := r.spotify.Authenticate(ctx); err != nil {
		return fmt.Errorf("catalog authentication failed: %w", err)
	}
	return nil
}

func (r *Runner) requireCache() error {
	if r.cache == nil {
		return fmt.Errorf("%w: cache not configured", shared.ErrServiceUnavailable)
	}
	return nil
}

// openDatabase opens the configured SQLite database for run history commands.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/encore/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// CacheStats prints entry counts for both tiers and durable tier disk usage.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCache(); err != nil {
		return err
	}

	stats, err := r.cache.Stat()
	if err != nil {
		return err
	}

	r.writePlainHeader("Cache")
	r.writePlain("Memory entries: %d\n", stats.MemoryEntries)
	r.writePlain("Disk entries:   %d\n", stats.DiskEntries)
	r.writePlain("Disk size:      %s\n", humanize.Bytes(uint64(stats.DiskBytes)))

	return nil
}

// CacheGet prints the raw stored value for a key. Refused in production mode.
func (r *Runner) CacheGet(ctx context.Context, cmd *cli.Command) error {
	if r.config.IsProduction() {
		return fmt.Errorf("%w: cache inspection is disabled in production", shared.ErrProductionMode)
	}
	if err := r.requireCache(); err != nil {
		return err
	}

	key := cmd.StringArg("key")
	if key == "" {
		return fmt.Errorf("%w: cache key is required", shared.ErrMissingArgument)
	}

	raw, source, ok := r.cache.Get(key)
	if !ok {
		r.writePlain("Key not found: %s\n", key)
		return nil
	}

	r.writePlain("Source: %s\n%s\n", source, raw)
	return nil
}

// CacheClear removes all entries under a key prefix. Refused in production mode.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if r.config.IsProduction() {
		return fmt.Errorf("%w: cache clearing is disabled in production", shared.ErrProductionMode)
	}
	if err := r.requireCache(); err != nil {
		return err
	}

	prefix := cmd.String("prefix")
	removed := r.cache.ClearPrefix(prefix)

	r.logger.Info("cleared cache prefix", "prefix", prefix, "removed", removed)
	r.writePlain("Removed %d entries under %q\n", removed, prefix)

	return nil
}

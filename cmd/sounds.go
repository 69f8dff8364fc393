package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/sbx/internal/audio"
	"github.com/desertthunder/sbx/internal/formatter"
	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/services"
	"github.com/desertthunder/sbx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Sounds lists the catalog, or exports it when --format or --output is given.
func (r *Runner) Sounds(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	format := cmd.String("format")
	output := cmd.String("output")

	if format != "" && !formatter.IsFormat(format) {
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	catalog, err := r.svc.ListSounds(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sounds: %w", err)
	}

	if output != "" {
		if format == "" {
			format = "json"
		}
		path, err := formatter.WriteExport(catalog, format, output)
		if err != nil {
			return err
		}
		r.logger.Info("exported catalog", "format", format, "path", path, "sounds", catalog.Len())
		return r.writePlain("✓ Exported %d sounds to %s\n", catalog.Len(), path)
	}

	if useJSON {
		return r.writeJSON(catalog, pretty)
	}

	if format != "" {
		data, err := formatter.Export(catalog, format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	if catalog.Len() == 0 {
		return r.writePlain("No sounds yet\n")
	}

	for _, folder := range catalog.Folders() {
		r.writePlainln("%s (%d)", folder, len(catalog[folder]))
		for _, entry := range catalog[folder] {
			r.writePlain("  %-30s %s\n", entry.DisplayName, entry.FullPath)
		}
	}
	return nil
}

func (r *Runner) Folders(ctx context.Context, cmd *cli.Command) error {
	folders, err := r.svc.ListFolders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list folders: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(folders, false)
	}
	for _, folder := range folders {
		r.writePlain("%s\n", folder)
	}
	return nil
}

// Play plays one sound by its full path.
//
// Without --remote or --local the preference comes from the config. Local playback waits for the
// player to exit so the downloaded file is cleaned up before the process ends.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("path"))
	if path == "" {
		return fmt.Errorf("%w: sound path", shared.ErrMissingArgument)
	}

	pref := models.NewPlaybackPreference(r.config.Playback.Remote, r.config.Playback.Local)
	if cmd.IsSet("remote") || cmd.IsSet("local") {
		pref = models.NewPlaybackPreference(cmd.Bool("remote"), cmd.Bool("local"))
	}

	var errs []error
	if pref.Remote {
		status, err := r.svc.Play(ctx, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("play failed: %w", err))
		} else {
			r.writePlain("▶ %s\n", orDefault(status, "Playing "+path))
		}
	}

	if pref.Local {
		if err := r.playLocal(ctx, path); err != nil {
			errs = append(errs, fmt.Errorf("local playback failed: %w", err))
		} else {
			r.writePlain("▶ Played %s locally\n", path)
		}
	}

	r.recordPlay(models.SoundEntry{DisplayName: models.DisplayNameFromPath(path), FullPath: path}, pref)
	return errors.Join(errs...)
}

func (r *Runner) playLocal(ctx context.Context, path string) error {
	done := make(chan error, 1)
	player := audio.NewExecPlayer(r.svc, audio.PlayerOpts{
		Command: r.config.Playback.Player,
		Cache:   r.cache(),
		Logger:  r.logger,
		OnDone:  func(_ string, err error) { done <- err },
	})

	if err := player.Play(ctx, path); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cache returns the configured audio cache, or nil when caching is disabled.
func (r *Runner) cache() *audio.Cache {
	if r.config.Cache.Dir == "" {
		return nil
	}
	return audio.NewCache(r.config.Cache.Dir, r.svc, r.config.Cache.RateLimit, r.logger)
}

// recordPlay stores a history entry; history is best effort and never fails the command.
func (r *Runner) recordPlay(entry models.SoundEntry, pref models.PlaybackPreference) {
	repo, err := r.historyRepo()
	if err != nil {
		r.logger.Warn("play history unavailable", "error", err)
		return
	}
	if err := repo.Create(models.NewPlayRecord(0, entry, pref)); err != nil {
		r.logger.Warn("failed to record play", "path", entry.FullPath, "error", err)
	}
}

func (r *Runner) Stop(ctx context.Context, cmd *cli.Command) error {
	status, err := r.svc.Stop(ctx)
	if err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}
	return r.writePlain("■ %s\n", orDefault(status, "Stopped"))
}

func (r *Runner) StopAll(ctx context.Context, cmd *cli.Command) error {
	status, err := r.svc.StopAll(ctx)
	if err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}
	return r.writePlain("■ %s\n", orDefault(status, "Stopped all sounds"))
}

// rejectionText returns the backend's message for a rejected request, or the error text otherwise.
func rejectionText(err error) string {
	var rej *services.RejectionError
	if errors.As(err, &rej) && rej.Message != "" {
		return rej.Message
	}
	return err.Error()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

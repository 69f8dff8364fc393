package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sbx/internal/audio"
	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/shared"
	"github.com/desertthunder/sbx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive soundboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: soundboard client not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if err := shared.ApplyLogLevel(fileLogger, r.config.Log.Level); err != nil {
		return err
	}
	r.SetLogger(fileLogger)

	cache := r.cache()
	opts := ui.DispatcherOpts{
		Player: audio.NewExecPlayer(r.svc, audio.PlayerOpts{
			Command: r.config.Playback.Player,
			Cache:   cache,
			Logger:  shared.WithLogger(r.logger, "component", "player"),
		}),
		Logger:          r.logger,
		AckDuration:     r.config.UI.AckDuration(),
		MessageDuration: r.config.UI.MessageDuration(),
	}
	if repo, err := r.historyRepo(); err != nil {
		r.logger.Warn("play history disabled", "error", err)
	} else {
		opts.History = repo
	}

	if cache != nil && r.config.Cache.Prefetch {
		go r.prefetch(ctx, cache)
	}

	pref := models.NewPlaybackPreference(r.config.Playback.Remote, r.config.Playback.Local)
	model := ui.NewModel(ui.NewBoard(pref), ui.NewDispatcher(ctx, r.svc, opts))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// prefetch warms the audio cache with the whole catalog; failures are only logged.
func (r *Runner) prefetch(ctx context.Context, cache *audio.Cache) {
	catalog, err := r.svc.ListSounds(ctx)
	if err != nil {
		r.logger.Warn("skipping cache prefetch", "error", err)
		return
	}
	cache.Register(ctx, catalog.Entries(), func(res audio.PrefetchResult) {
		r.logger.Info("audio cache ready", "dir", cache.Dir(), "fetched", res.Fetched, "skipped", res.Skipped, "failed", res.Failed)
	})
}

// Open opens the soundboard's own web page.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	url := r.config.Server.BaseURL
	if err := shared.OpenBrowser(url); err != nil {
		return err
	}
	return r.writePlain("Opened %s\n", url)
}

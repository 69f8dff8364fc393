package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/desertthunder/sbx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Watch uploads audio files dropped into a directory until interrupted.
//
// Files below a top-level subdirectory are uploaded to the folder of the same name.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	dir := strings.TrimSpace(cmd.StringArg("dir"))
	if dir == "" {
		dir = "."
	}

	watcher, err := tasks.NewWatcher(r.engine, dir, tasks.WatchOpts{
		Folder: strings.TrimSpace(cmd.String("folder")),
		Settle: cmd.Duration("settle"),
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := make(chan tasks.ProgressUpdate, 8)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	uploaded, failed := 0, 0
	err = watcher.Run(ctx, progress, func(ev tasks.WatchEvent) {
		if ev.Err != nil {
			failed++
			r.writePlain("✗ %s: %s\n", ev.Path, rejectionText(ev.Err))
			return
		}
		uploaded++
		r.writePlain("✓ %s → %s/%s\n", ev.Path, ev.Folder, ev.StoredAs)
	})
	close(progress)
	<-printed

	r.logger.Info("watch stopped", "root", watcher.Root(), "uploaded", uploaded, "failed", failed)
	r.writePlainln("Uploaded %d files (%d failed)", uploaded, failed)
	return err
}

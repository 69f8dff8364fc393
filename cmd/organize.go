package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/shared"
	"github.com/desertthunder/sbx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Upload uploads every audio file named on the command line, walking directories.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: no files to upload", shared.ErrMissingArgument)
	}

	opts := tasks.BulkUploadOpts{
		Folder:     strings.TrimSpace(cmd.String("folder")),
		NumWorkers: r.config.Upload.Workers,
		RateLimit:  r.config.Upload.RateLimit,
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = cmd.Int("workers")
	}
	if cmd.IsSet("rate-limit") {
		opts.RateLimit = cmd.Float("rate-limit")
	}

	progress := make(chan tasks.ProgressUpdate, 32)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkUpload(ctx, progress, paths, opts)
	close(progress)
	<-printed

	if err != nil && result == nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	r.writePlainHeader("Upload Summary")
	r.writePlain("Uploaded: %d/%d\n", result.Successful, result.Total)
	for _, res := range result.Results {
		if res.Success && res.StoredAs != "" {
			r.writePlain("  ✓ %s → %s/%s\n", res.Path, res.Folder, res.StoredAs)
		}
	}
	if len(result.Skipped) > 0 {
		r.writePlain("Skipped (not audio): %s\n", strings.Join(result.Skipped, ", "))
	}
	for _, res := range result.Results {
		if !res.Success {
			r.writePlain("  ✗ %s: %s\n", res.Path, rejectionText(res.Error))
		}
	}

	if err != nil {
		return err
	}
	if result.Total == 0 {
		return fmt.Errorf("%w: no audio files found", shared.ErrInvalidInput)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%w: %d of %d uploads failed", shared.ErrPartialOutcome, result.Failed, result.Total)
	}
	return nil
}

// Move moves a sound into another folder.
func (r *Runner) Move(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("path"))
	folder := strings.TrimSpace(cmd.StringArg("folder"))

	if path == "" {
		return fmt.Errorf("%w: sound path", shared.ErrMissingArgument)
	}
	if folder == "" {
		return fmt.Errorf("%w: target folder", shared.ErrMissingArgument)
	}

	if err := r.svc.Move(ctx, path, folder); err != nil {
		return fmt.Errorf("move failed: %w", err)
	}
	return r.writePlain("✓ File moved successfully to %s\n", folder)
}

func (r *Runner) CategoryCreate(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: category name", shared.ErrMissingArgument)
	}

	status, err := r.svc.CreateCategory(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return r.writePlain("✓ %s\n", orDefault(status, fmt.Sprintf("Category '%s' created", name)))
}

func (r *Runner) CategoryEmpty(ctx context.Context, cmd *cli.Command) error {
	names, err := r.svc.ListEmptyCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list empty categories: %w", err)
	}

	if cmd.Bool("json") {
		if names == nil {
			names = []string{}
		}
		return r.writeJSON(names, false)
	}
	if len(names) == 0 {
		return r.writePlain("No empty categories found\n")
	}
	for _, name := range names {
		r.writePlain("%s\n", name)
	}
	return nil
}

// CategoryRemove removes the named categories, or every empty one with --all.
//
// A partial removal prints both subsets and succeeds; nothing removed is an error.
func (r *Runner) CategoryRemove(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if cmd.Bool("all") {
		empty, err := r.svc.ListEmptyCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to list empty categories: %w", err)
		}
		if len(empty) == 0 {
			return r.writePlain("No empty categories found\n")
		}
		names = empty
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one category name", shared.ErrMissingArgument)
	}

	result, err := r.svc.RemoveCategories(ctx, names)
	if err != nil {
		return fmt.Errorf("failed to remove categories: %w", err)
	}

	r.writePlain("%s\n", result.Summary())
	if result.Outcome() == models.OutcomeFailed {
		return fmt.Errorf("%w: no categories removed", shared.ErrRejected)
	}
	return nil
}

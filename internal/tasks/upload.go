package tasks

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/shared"
	"golang.org/x/time/rate"
)

// Uploader sends one file to the backend. Implemented by [services.SoundboardService].
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader, folder string) (string, error)
}

// BulkUploadOpts contains configuration for bulk uploads.
type BulkUploadOpts struct {
	Folder     string  // Destination folder (default: Main)
	NumWorkers int     // Concurrent uploads (default: 3, max: 10)
	RateLimit  float64 // Uploads started per second (default: 5)
}

// UploadResult is the outcome for a single file.
type UploadResult struct {
	Path     string // Local path
	Folder   string // Destination folder
	StoredAs string // Name the backend stored the file under
	Success  bool
	Error    error
}

// BulkUploadResult summarises a bulk upload.
type BulkUploadResult struct {
	Total      int
	Successful int
	Failed     int
	Skipped    []string       // Inputs that are not audio files
	Results    []UploadResult // In input order
}

// UploadEngine uploads local files to the backend.
type UploadEngine struct {
	svc    Uploader
	logger *log.Logger
}

// NewUploadEngine creates an engine that uploads through svc.
func NewUploadEngine(svc Uploader, logger *log.Logger) *UploadEngine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &UploadEngine{svc: svc, logger: logger}
}

// UploadFile uploads the file at path into folder and returns the stored name.
func (e *UploadEngine) UploadFile(ctx context.Context, path, folder string) (string, error) {
	if e.svc == nil {
		return "", fmt.Errorf("%w: backend client not initialized", shared.ErrServiceUnavailable)
	}
	if !models.IsAudioFile(path) {
		return "", fmt.Errorf("%w: %s", shared.ErrNotAnAudioFile, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	defer f.Close()

	return e.svc.Upload(ctx, filepath.Base(path), f, folder)
}

// BulkUpload uploads every audio file among paths (directories are walked) with a worker pool and rate limiter.
//
// Individual failures are recorded in the result; only setup failures and cancellation return an error.
func (e *UploadEngine) BulkUpload(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	paths []string,
	opts BulkUploadOpts,
) (*BulkUploadResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: backend client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Folder == "" {
		opts.Folder = models.MainFolder
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	files, skipped, err := CollectAudioFiles(paths)
	if err != nil {
		return nil, err
	}
	sendProgress(prog, scanUpdate(len(files), len(skipped)))

	result := &BulkUploadResult{
		Total:   len(files),
		Skipped: skipped,
		Results: make([]UploadResult, len(files)),
	}

	type job struct {
		index int
		path  string
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan job)
	done := make(chan int, len(files))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res := UploadResult{Path: j.path, Folder: opts.Folder}
				res.StoredAs, res.Error = e.UploadFile(ctx, j.path, opts.Folder)
				res.Success = res.Error == nil
				if res.Error != nil {
					e.logger.Warn("upload failed", "path", j.path, "error", res.Error)
				}
				result.Results[j.index] = res
				done <- j.index
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, path := range files {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			sendProgress(prog, uploadingUpdate(i+1, len(files), path))
			select {
			case jobs <- job{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for idx := range done {
		completed++
		res := result.Results[idx]
		if res.Success {
			result.Successful++
			sendProgress(prog, uploadCompletedUpdate(completed, len(files), res))
		} else {
			result.Failed++
			sendProgress(prog, uploadFailedUpdate(completed, len(files), res))
		}
	}

	if completed < len(files) {
		result.Results = slices.DeleteFunc(result.Results, func(r UploadResult) bool { return r.Path == "" })
		return result, fmt.Errorf("upload interrupted after %d of %d files: %w", completed, len(files), ctx.Err())
	}
	return result, nil
}

// CollectAudioFiles expands directories in paths and splits the files into audio files and skipped ones.
func CollectAudioFiles(paths []string) (files, skipped []string, err error) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}

		if !info.IsDir() {
			if models.IsAudioFile(p) {
				files = append(files, p)
			} else {
				skipped = append(skipped, p)
			}
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if models.IsAudioFile(path) {
				files = append(files, path)
			} else {
				skipped = append(skipped, path)
			}
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan %s: %w", p, err)
		}
	}
	return files, skipped, nil
}

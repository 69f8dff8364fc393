package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/shared"
	"golang.org/x/time/rate"
)

// Fetcher streams a backend audio file. Implemented by [services.SoundboardService].
type Fetcher interface {
	FetchAudio(ctx context.Context, path string, w io.Writer) error
}

// PrefetchResult counts what a prefetch pass did.
type PrefetchResult struct {
	Fetched int
	Skipped int
	Failed  int
}

// Cache stores backend audio files under a directory.
type Cache struct {
	dir     string
	fetcher Fetcher
	limiter *rate.Limiter
	logger  *log.Logger

	mu      sync.Mutex
	pending map[string]chan struct{}
}

// NewCache creates a cache rooted at dir. A non-positive rateLimit disables throttling of prefetches.
func NewCache(dir string, fetcher Fetcher, rateLimit float64, logger *log.Logger) *Cache {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), 1)
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Cache{
		dir:     dir,
		fetcher: fetcher,
		limiter: limiter,
		logger:  logger,
		pending: make(map[string]chan struct{}),
	}
}

// Dir returns the cache root.
func (c *Cache) Dir() string { return c.dir }

// Path returns where soundPath is stored, rejecting paths that would escape the cache root.
func (c *Cache) Path(soundPath string) (string, error) {
	slashed := strings.ReplaceAll(soundPath, "\\", "/")
	clean := path.Clean("/" + slashed)
	if soundPath == "" || clean == "/" || slices.Contains(strings.Split(slashed, "/"), "..") {
		return "", fmt.Errorf("%w: %q", shared.ErrInvalidPath, soundPath)
	}
	return filepath.Join(c.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Lookup returns the cached file for soundPath if it exists.
func (c *Cache) Lookup(soundPath string) (string, bool) {
	p, err := c.Path(soundPath)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(p); err != nil || info.IsDir() {
		return "", false
	}
	return p, true
}

// Store downloads soundPath into the cache unless it is already there, and returns the local file path.
//
// Concurrent calls for the same path share one download.
func (c *Cache) Store(ctx context.Context, soundPath string) (string, error) {
	dest, err := c.Path(soundPath)
	if err != nil {
		return "", err
	}

	for {
		if p, ok := c.Lookup(soundPath); ok {
			return p, nil
		}

		c.mu.Lock()
		wait, busy := c.pending[soundPath]
		if !busy {
			done := make(chan struct{})
			c.pending[soundPath] = done
			c.mu.Unlock()

			err := c.download(ctx, soundPath, dest)

			c.mu.Lock()
			delete(c.pending, soundPath)
			close(done)
			c.mu.Unlock()

			if err != nil {
				return "", err
			}
			return dest, nil
		}
		c.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (c *Cache) download(ctx context.Context, soundPath, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".partial-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := c.fetcher.FetchAudio(ctx, soundPath, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to fetch %s: %w", soundPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return os.Rename(tmp.Name(), dest)
}

// Prefetch stores every entry not already cached, waiting on the rate limiter between downloads.
func (c *Cache) Prefetch(ctx context.Context, entries []models.SoundEntry) PrefetchResult {
	var res PrefetchResult
	for _, entry := range entries {
		if _, ok := c.Lookup(entry.FullPath); ok {
			res.Skipped++
			continue
		}
		if err := c.limiter.Wait(ctx); err != nil {
			res.Failed++
			break
		}
		if _, err := c.Store(ctx, entry.FullPath); err != nil {
			c.logger.Warn("cache prefetch failed", "path", entry.FullPath, "error", err)
			res.Failed++
			continue
		}
		res.Fetched++
	}
	return res
}

// Register prefetches entries in the background and returns immediately.
//
// done, when non-nil, receives the result once the pass finishes.
func (c *Cache) Register(ctx context.Context, entries []models.SoundEntry, done func(PrefetchResult)) {
	go func() {
		res := c.Prefetch(ctx, entries)
		c.logger.Debug("cache prefetch finished", "fetched", res.Fetched, "skipped", res.Skipped, "failed", res.Failed)
		if done != nil {
			done(res)
		}
	}()
}

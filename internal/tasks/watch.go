package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/sbx/internal/models"
	"github.com/fsnotify/fsnotify"
)

// WatchOpts configures a [Watcher].
type WatchOpts struct {
	Folder string        // Destination for files at the watch root (default: Main)
	Settle time.Duration // Quiet period after the last write before a file is uploaded (default: 2s)
}

// WatchEvent reports one upload attempted by a [Watcher].
type WatchEvent struct {
	Path     string
	Folder   string
	StoredAs string
	Err      error
}

// Watcher uploads audio files as they appear under a directory tree.
//
// Files directly under the root go to WatchOpts.Folder. Files anywhere below a subdirectory go to the
// folder named after the top-level subdirectory, so both "<root>/SFX/x.wav" and "<root>/SFX/deep/x.wav"
// are filed under SFX.
type Watcher struct {
	engine  *UploadEngine
	root    string
	opts    WatchOpts
	fsw     *fsnotify.Watcher
	dirs    int
	pending map[string]time.Time
	sent    map[string]time.Time
}

// NewWatcher starts watching root and every directory below it.
func NewWatcher(engine *UploadEngine, root string, opts WatchOpts) (*Watcher, error) {
	if opts.Folder == "" {
		opts.Folder = models.MainFolder
	}
	if opts.Settle <= 0 {
		opts.Settle = 2 * time.Second
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		engine:  engine,
		root:    abs,
		opts:    opts,
		fsw:     fsw,
		pending: make(map[string]time.Time),
		sent:    make(map[string]time.Time),
	}
	if err := w.addRecursive(abs); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the absolute watch root.
func (w *Watcher) Root() string { return w.root }

// Run handles file events until ctx is cancelled, calling onEvent after every upload attempt.
func (w *Watcher) Run(ctx context.Context, prog chan<- ProgressUpdate, onEvent func(WatchEvent)) error {
	defer w.fsw.Close()
	sendProgress(prog, watchingUpdate(w.root, w.dirs))

	tick := time.NewTicker(w.opts.Settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.engine.logger.Warn("watch error", "error", err)

		case now := <-tick.C:
			w.flush(ctx, now, onEvent)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if err := w.addRecursive(event.Name); err != nil {
			w.engine.logger.Warn("failed to watch directory", "path", event.Name, "error", err)
		}
		return
	}
	if !models.IsAudioFile(event.Name) || strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}
	w.pending[event.Name] = time.Now()
}

// flush uploads every pending file that has been quiet for the settle period.
func (w *Watcher) flush(ctx context.Context, now time.Time, onEvent func(WatchEvent)) {
	for path, last := range w.pending {
		if now.Sub(last) < w.opts.Settle {
			continue
		}
		delete(w.pending, path)

		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if sent, ok := w.sent[path]; ok && !info.ModTime().After(sent) {
			continue
		}

		ev := WatchEvent{Path: path, Folder: w.folderFor(path)}
		ev.StoredAs, ev.Err = w.engine.UploadFile(ctx, path, ev.Folder)
		if ev.Err == nil {
			w.sent[path] = info.ModTime()
			w.engine.logger.Info("uploaded", "path", path, "folder", ev.Folder, "stored_as", ev.StoredAs)
		} else {
			w.engine.logger.Warn("upload failed", "path", path, "error", ev.Err)
		}
		if onEvent != nil {
			onEvent(ev)
		}
	}
}

// folderFor names the backend folder for path by the first directory below the root.
func (w *Watcher) folderFor(path string) string {
	rel, err := filepath.Rel(w.root, filepath.Dir(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return w.opts.Folder
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return first
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.dirs++
		return nil
	})
}

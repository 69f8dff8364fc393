package tasks

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/sbx/internal/services"
	"github.com/desertthunder/sbx/internal/shared"
	tu "github.com/desertthunder/sbx/internal/testing"
)

func newEngine(t *testing.T) (*UploadEngine, *tu.FakeBackend) {
	t.Helper()
	backend := tu.NewFakeBackend(t)
	return NewUploadEngine(services.NewSoundboardService(backend.URL(), backend.Client()), nil), backend
}

type failingUploader struct{}

func (failingUploader) Upload(context.Context, string, io.Reader, string) (string, error) {
	return "", errors.New("backend down")
}

func TestCollectAudioFiles(t *testing.T) {
	dir := t.TempDir()
	a := tu.WriteAudioFile(t, dir, "a.wav")
	b := tu.WriteAudioFile(t, dir, "nested/b.MP3")
	notes := tu.WriteAudioFile(t, dir, "notes.txt")

	files, skipped, err := CollectAudioFiles([]string{dir})
	if err != nil {
		t.Fatalf("CollectAudioFiles() error = %v", err)
	}
	slices.Sort(files)
	if !slices.Equal(files, []string{a, b}) {
		t.Errorf("files = %v", files)
	}
	if !slices.Equal(skipped, []string{notes}) {
		t.Errorf("skipped = %v", skipped)
	}

	if _, _, err := CollectAudioFiles([]string{filepath.Join(dir, "missing")}); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestBulkUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("Uploads Every Audio File", func(t *testing.T) {
		engine, backend := newEngine(t)
		dir := t.TempDir()
		paths := []string{
			tu.WriteAudioFile(t, dir, "one.wav"),
			tu.WriteAudioFile(t, dir, "two.ogg"),
			tu.WriteAudioFile(t, dir, "three.flac"),
			tu.WriteAudioFile(t, dir, "readme.md"),
		}

		prog := make(chan ProgressUpdate, 32)
		result, err := engine.BulkUpload(ctx, prog, paths, BulkUploadOpts{Folder: "SFX", NumWorkers: 2, RateLimit: 1000})
		if err != nil {
			t.Fatalf("BulkUpload() error = %v", err)
		}

		if result.Total != 3 || result.Successful != 3 || result.Failed != 0 {
			t.Errorf("unexpected counts %+v", result)
		}
		if len(result.Skipped) != 1 {
			t.Errorf("expected readme to be skipped, got %v", result.Skipped)
		}
		for i, res := range result.Results {
			if res.Path != paths[i] {
				t.Errorf("results should keep input order: %d = %s", i, res.Path)
			}
		}

		uploads := backend.Uploads()
		if len(uploads) != 3 {
			t.Fatalf("expected 3 uploads, got %d", len(uploads))
		}
		for _, u := range uploads {
			if u.Folder != "SFX" {
				t.Errorf("expected SFX folder, got %s", u.Folder)
			}
		}

		close(prog)
		var phases []Phase
		for u := range prog {
			phases = append(phases, u.Phase)
		}
		if len(phases) == 0 || phases[0] != ScanFiles {
			t.Errorf("expected scan update first, got %v", phases)
		}
	})

	t.Run("Records Failures", func(t *testing.T) {
		engine := NewUploadEngine(failingUploader{}, nil)
		path := tu.WriteAudioFile(t, t.TempDir(), "a.wav")

		result, err := engine.BulkUpload(ctx, nil, []string{path}, BulkUploadOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("BulkUpload() error = %v", err)
		}
		if result.Failed != 1 || result.Results[0].Success || result.Results[0].Error == nil {
			t.Errorf("expected recorded failure, got %+v", result)
		}
	})

	t.Run("Nil Service", func(t *testing.T) {
		engine := NewUploadEngine(nil, nil)
		if _, err := engine.BulkUpload(ctx, nil, nil, BulkUploadOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		engine, _ := newEngine(t)
		dir := t.TempDir()
		var paths []string
		for _, name := range []string{"a.wav", "b.wav", "c.wav"} {
			paths = append(paths, tu.WriteAudioFile(t, dir, name))
		}

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := engine.BulkUpload(cctx, nil, paths, BulkUploadOpts{RateLimit: 0.001}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestUploadFile(t *testing.T) {
	engine, _ := newEngine(t)
	path := tu.WriteAudioFile(t, t.TempDir(), "notes.txt")

	if _, err := engine.UploadFile(context.Background(), path, "Main"); !errors.Is(err, shared.ErrNotAnAudioFile) {
		t.Errorf("expected ErrNotAnAudioFile, got %v", err)
	}
}

func TestWatcher(t *testing.T) {
	engine, backend := newEngine(t)
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "SFX"), 0755); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(engine, root, WatchOpts{Settle: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu     sync.Mutex
		events []WatchEvent
	)
	got := make(chan struct{}, 8)
	stopped := make(chan error, 1)
	go func() {
		stopped <- w.Run(ctx, nil, func(ev WatchEvent) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
			got <- struct{}{}
		})
	}()

	tu.WriteAudioFile(t, root, "horn.wav")
	tu.WriteAudioFile(t, root, "SFX/pop.mp3")
	tu.WriteAudioFile(t, root, "ignored.txt")

	for range 2 {
		select {
		case <-got:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watched uploads")
		}
	}

	cancel()
	if err := <-stopped; err != nil {
		t.Errorf("Run() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	folders := map[string]string{}
	for _, ev := range events {
		if ev.Err != nil {
			t.Errorf("upload of %s failed: %v", ev.Path, ev.Err)
		}
		folders[filepath.Base(ev.Path)] = ev.Folder
	}
	if folders["horn.wav"] != "Main" || folders["pop.mp3"] != "SFX" {
		t.Errorf("unexpected folders %v", folders)
	}
	if len(backend.Uploads()) != 2 {
		t.Errorf("expected 2 uploads, got %d", len(backend.Uploads()))
	}
}

func TestWatcherFolderFor(t *testing.T) {
	root := filepath.Join(t.TempDir(), "drop")
	w := &Watcher{root: root, opts: WatchOpts{Folder: "Main"}}

	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(root, "horn.wav"), "Main"},
		{filepath.Join(root, "SFX", "pop.wav"), "SFX"},
		{filepath.Join(root, "SFX", "deep", "x.wav"), "SFX"},
		{filepath.Join(root, "..wip", "x.wav"), "..wip"},
		{filepath.Join(filepath.Dir(root), "other", "x.wav"), "Main"},
	}
	for _, tt := range tests {
		if got := w.folderFor(tt.path); got != tt.want {
			t.Errorf("folderFor(%s) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNewWatcherRejectsFiles(t *testing.T) {
	engine, _ := newEngine(t)
	file := tu.WriteAudioFile(t, t.TempDir(), "a.wav")
	if _, err := NewWatcher(engine, file, WatchOpts{}); err == nil {
		t.Error("expected error when watching a file")
	}
}

package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sbx/internal/shared"
)

// Player plays a backend sound on this machine.
type Player interface {
	Play(ctx context.Context, soundPath string) error
}

// PlayerOpts configures an [ExecPlayer].
type PlayerOpts struct {
	Command string                            // Custom player command; empty uses the platform default
	TempDir string                            // Where uncached downloads go (default: os.TempDir())
	Cache   *Cache                            // Optional; cached files are played in place
	Logger  *log.Logger                       // Defaults to a discarding logger
	OnDone  func(soundPath string, err error) // Called after the player process exits
}

// ExecPlayer plays sounds with an external process.
type ExecPlayer struct {
	fetcher Fetcher
	opts    PlayerOpts
}

var _ Player = (*ExecPlayer)(nil)

// NewExecPlayer creates a player that downloads audio through fetcher.
func NewExecPlayer(fetcher Fetcher, opts PlayerOpts) *ExecPlayer {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &ExecPlayer{fetcher: fetcher, opts: opts}
}

// Play resolves soundPath to a local file and starts the player process.
//
// It returns once the process has started. The process is not tied to ctx, which only bounds the download.
func (p *ExecPlayer) Play(ctx context.Context, soundPath string) error {
	file, cleanup, err := p.resolve(ctx, soundPath)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPlayback, err)
	}

	argv, err := shared.PlayerArgs(p.opts.Command, file)
	if err != nil {
		cleanup()
		return err
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to start %s: %v", shared.ErrPlayback, argv[0], err)
	}

	p.opts.Logger.Debug("local playback started", "path", soundPath, "player", argv[0], "pid", cmd.Process.Pid)

	go func() {
		err := cmd.Wait()
		cleanup()
		if err != nil {
			p.opts.Logger.Warn("local playback failed", "path", soundPath, "error", err)
		}
		if p.opts.OnDone != nil {
			p.opts.OnDone(soundPath, err)
		}
	}()
	return nil
}

// resolve returns a local file for soundPath and a func that releases it.
func (p *ExecPlayer) resolve(ctx context.Context, soundPath string) (string, func(), error) {
	noop := func() {}

	if p.opts.Cache != nil {
		if file, ok := p.opts.Cache.Lookup(soundPath); ok {
			return file, noop, nil
		}
	}

	if err := os.MkdirAll(p.opts.TempDir, 0755); err != nil {
		return "", noop, err
	}
	tmp, err := os.CreateTemp(p.opts.TempDir, "sbx-*"+path.Ext(soundPath))
	if err != nil {
		return "", noop, err
	}
	cleanup := func() { os.Remove(tmp.Name()) }

	if err := p.fetcher.FetchAudio(ctx, soundPath, tmp); err != nil {
		tmp.Close()
		cleanup()
		return "", noop, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, err
	}
	return tmp.Name(), cleanup, nil
}

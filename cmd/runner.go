package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sbx/internal/repositories"
	"github.com/desertthunder/sbx/internal/services"
	"github.com/desertthunder/sbx/internal/shared"
	"github.com/desertthunder/sbx/internal/tasks"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	svc        *services.SoundboardService
	transport  http.RoundTripper
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.UploadEngine
	db         *sql.DB
	history    *repositories.PlayHistoryRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Transport  http.RoundTripper // Used by every backend request; nil means [http.DefaultTransport]
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		configPath: opts.ConfigPath,
		transport:  opts.Transport,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if err := r.Configure(opts.Config); err != nil {
		r.logger.Warn("ignoring invalid log level", "error", err)
	}
	return r
}

// Configure swaps in cfg and rebuilds the backend client around it.
func (r *Runner) Configure(cfg *shared.Config) error {
	r.config = cfg
	r.httpClient = &http.Client{Timeout: cfg.Server.Timeout(), Transport: r.transport}
	r.svc = services.NewSoundboardService(cfg.Server.BaseURL, r.httpClient)
	err := shared.ApplyLogLevel(r.logger, cfg.Log.Level)
	r.engine = r.newEngine()
	return err
}

// newEngine builds the upload engine. Child loggers copy the level, so call it after any level change.
func (r *Runner) newEngine() *tasks.UploadEngine {
	return tasks.NewUploadEngine(r.svc, shared.WithLogger(r.logger, "component", "upload"))
}

// Before loads the file named by --config, falling back to defaults when it does not exist, and applies
// the global overrides.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	config := shared.DefaultConfig()
	if _, err := os.Stat(r.configPath); err == nil {
		if config, err = shared.LoadConfig(r.configPath); err != nil {
			return ctx, err
		}
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	if server := cmd.String("server"); server != "" {
		config.Server.BaseURL = server
	}
	if level := cmd.String("log-level"); level != "" {
		config.Log.Level = level
	}

	return ctx, r.Configure(config)
}

// SetLogger replaces the logger used by the runner and its upload engine.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.engine = r.newEngine()
}

// historyRepo opens the play history database on first use.
func (r *Runner) historyRepo() (*repositories.PlayHistoryRepository, error) {
	if r.history != nil {
		return r.history, nil
	}

	db, err := shared.OpenHistoryDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	r.db = db
	r.history = repositories.NewPlayHistoryRepository(db)
	return r.history, nil
}

// Close releases the history database if it was opened.
func (r *Runner) Close() {
	if r.db == nil {
		return
	}
	if err := r.db.Close(); err != nil {
		r.logger.Warn("failed to close history database", "error", err)
	}
	r.db, r.history = nil, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, soundsCommand, foldersCommand, playCommand, stopCommand, stopAllCommand,
		uploadCommand, moveCommand, categoryCommand, watchCommand, historyCommand, openCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

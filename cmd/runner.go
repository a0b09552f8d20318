package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/wissl-audio/trill/internal/api"
	"github.com/wissl-audio/trill/internal/session"
	"github.com/wissl-audio/trill/internal/shared"
	"github.com/wissl-audio/trill/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer

	kv       *store.KV
	sessions *session.Store
	client   *api.Client
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer

	// Client and Sessions are injected by tests; commands build them
	// from the config when nil.
	Client   *api.Client
	Sessions *session.Store
	KV       *store.KV
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

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		kv:         opts.KV,
		sessions:   opts.Sessions,
		client:     opts.Client,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, logoutCommand, statusCommand, searchCommand,
		playlistsCommand, randomCommand, editCommand, adminCommand, uiCommand, openCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// connect lazily opens the local store, the session store, and the API
// client from the loaded config.
func (r *Runner) connect() error {
	if r.client != nil {
		return nil
	}
	if r.config.Server.URL == "" {
		return fmt.Errorf("%w: server.url is not set, run 'trill setup' first", shared.ErrMissingConfig)
	}

	if r.kv == nil {
		kv, err := store.Open(r.config.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		r.kv = kv
	}
	if r.sessions == nil {
		r.sessions = session.NewStore(r.kv, r.logger)
		r.sessions.Restore()
	}

	client, err := api.NewClient(r.config.Server.URL, r.sessions, &r.config.Server)
	if err != nil {
		return err
	}
	client.SetDevice(r.sessions.DeviceID(shared.GenerateID))
	r.client = client
	return nil
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

package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wissl-audio/trill/internal/player"
	"github.com/wissl-audio/trill/internal/poller"
	"github.com/wissl-audio/trill/internal/router"
	"github.com/wissl-audio/trill/internal/shared"
	"github.com/wissl-audio/trill/internal/ui"
	"github.com/wissl-audio/trill/internal/views"
	"github.com/urfave/cli/v3"
)

// modelProxy forwards shell, confirmation and scroll callbacks to the
// TUI model. The dispatcher and the playback controller are built
// before the model exists, so they hold the proxy instead.
type modelProxy struct {
	model *ui.Model
}

func (p *modelProxy) ShowLogin(message string)            { p.model.ShowLogin(message) }
func (p *modelProxy) ShowFirstRun()                       { p.model.ShowFirstRun() }
func (p *modelProxy) ShowError(message string, err error) { p.model.ShowError(message, err) }

func (p *modelProxy) Confirm(title, message string, onAccept, onReject func()) {
	p.model.Confirm(title, message, onAccept, onReject)
}

func (p *modelProxy) Scroll() int {
	if p.model == nil {
		return 0
	}
	return p.model.Scroll()
}

// UI launches the interactive terminal client.
func (r *Runner) UI(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/trill-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.logger = fileLogger

	driver, err := player.NewExecDriver(fileLogger, &r.config.Player)
	if err != nil {
		return err
	}

	proxy := &modelProxy{}
	history := router.NewMemoryHistory()
	playerCtl := player.NewController(fileLogger, r.client, driver, proxy, history)

	dispatcher := router.NewDispatcher(router.Config{
		Logger:       fileLogger,
		Sessions:     r.sessions,
		History:      history,
		Probe:        r.client,
		Playback:     playerCtl,
		Shell:        proxy,
		ScrollOffset: proxy.Scroll,
	})

	interval := time.Duration(r.config.UI.PollInterval) * time.Second
	indexer := poller.NewIndexer(fileLogger, r.client, interval)
	defer indexer.Stop()

	actions := views.NewActions(fileLogger, r.client, r.sessions, playerCtl, dispatcher, proxy)

	model := ui.New(ctx, ui.Config{
		Logger:     fileLogger,
		Client:     r.client,
		Sessions:   r.sessions,
		History:    history,
		Dispatcher: dispatcher,
		Player:     playerCtl,
		Actions:    actions,
		Indexer:    indexer,
	})
	proxy.model = model

	loaders := views.NewLoaders(fileLogger, r.client, r.sessions, indexer, model)
	loaders.RegisterAll(dispatcher)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	playerCtl.Stop()
	return nil
}

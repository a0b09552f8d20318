package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/wissl-audio/trill/internal/session"
	"github.com/wissl-audio/trill/internal/shared"
)

// LoadRequest is handed to a view loader for one dispatch. The loader
// fetches its data, renders, and calls Done exactly once, on success
// or failure. Done releases the UI lock; stale completions (superseded
// by a later navigation) are discarded.
type LoadRequest struct {
	View       View
	Params     []string
	Scroll     int
	Generation uint64
	Done       func(err error)
}

// LoaderFunc loads and renders one view. The context is cancelled when
// the user navigates away, which also stops any poller the view
// started from it.
type LoaderFunc func(ctx context.Context, req LoadRequest)

// Shell is the surface the dispatcher pushes authentication screens
// and error dialogs to.
type Shell interface {
	// ShowLogin presents the login screen, with an optional error
	// message after a fatal session failure.
	ShowLogin(message string)
	// ShowFirstRun presents the first-admin-user creation screen.
	ShowFirstRun()
	// ShowError presents a dismissible, non-fatal error dialog.
	ShowError(message string, err error)
}

// UserProbe answers the unauthenticated "has any user been created"
// question that decides between login and first-run setup.
type UserProbe interface {
	HasUsers(ctx context.Context) (bool, error)
}

// Playback is the slice of the playback controller the router
// consults for the "playing" and "random" pseudo-routes.
type Playback interface {
	// PlayingPlaylist returns the active playlist id, if any.
	PlayingPlaylist() (int64, bool)
	// StartRandom regenerates the random playlist and starts playing
	// it, reporting the playlist id on success.
	StartRandom(ctx context.Context, done func(playlistID int64, err error))
	// Stop tears down playback. Called on fatal session errors.
	Stop()
}

// Config wires a Dispatcher.
type Config struct {
	Logger   *log.Logger
	Sessions *session.Store
	History  History
	Probe    UserProbe
	Playback Playback
	Shell    Shell
	// ScrollOffset reads the current scroll position, recorded
	// against the previous history entry on navigation. Optional.
	ScrollOffset func() int
}

// Dispatcher serializes view transitions. At most one view load owns
// the UI at a time: Navigate is a no-op while a load is in flight
// (attempts are dropped, not queued), and every history transition
// funnels through HandleLocation so in-app links and back/forward
// render identically.
type Dispatcher struct {
	logger   *log.Logger
	sessions *session.Store
	history  History
	probe    UserProbe
	playback Playback
	shell    Shell
	scrollFn func() int

	selection *SelectionSet
	loaders   map[View]LoaderFunc

	mu            sync.Mutex
	locked        bool
	generation    uint64
	lastFragment  string
	handledOnce   bool
	cancelViewJob context.CancelFunc
}

// NewDispatcher creates a Dispatcher and subscribes it to the history
// provider. View loaders are registered afterwards with Register.
func NewDispatcher(cfg Config) *Dispatcher {
	d := &Dispatcher{
		logger:    cfg.Logger,
		sessions:  cfg.Sessions,
		history:   cfg.History,
		probe:     cfg.Probe,
		playback:  cfg.Playback,
		shell:     cfg.Shell,
		scrollFn:  cfg.ScrollOffset,
		selection: NewSelectionSet(nil),
		loaders:   make(map[View]LoaderFunc),
	}
	cfg.History.Subscribe(func(e Entry) {
		d.HandleLocation(e.Fragment, e.Scroll)
	})
	return d
}

// Register installs the loader for a view, replacing any previous one.
func (d *Dispatcher) Register(view View, loader LoaderFunc) {
	d.loaders[view] = loader
}

// Selection returns the current view's selection set.
func (d *Dispatcher) Selection() *SelectionSet { return d.selection }

// Locked reports whether a view load is in flight.
func (d *Dispatcher) Locked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.locked
}

// Navigate records the scroll offset against the current history
// entry, then pushes a new entry for the fragment. Rendering happens
// when the history transition fires. Returns false when dropped
// because a view load is in flight.
func (d *Dispatcher) Navigate(fragment string) bool {
	d.mu.Lock()
	if d.locked {
		d.mu.Unlock()
		return false
	}
	d.mu.Unlock()

	if d.scrollFn != nil {
		d.history.SetScroll(d.scrollFn())
	}
	d.history.Push(fragment)
	return true
}

// Reload forgets the last handled fragment and re-dispatches the
// current history entry. Used after login to render the originally
// requested location.
func (d *Dispatcher) Reload() {
	d.mu.Lock()
	d.handledOnce = false
	d.locked = false
	d.mu.Unlock()

	e := d.history.Current()
	d.HandleLocation(e.Fragment, e.Scroll)
}

// HandleLocation is the single entry point for every history
// transition, including the initial load. Duplicate consecutive
// fragments are suppressed.
func (d *Dispatcher) HandleLocation(fragment string, scroll int) {
	frag := normalize(fragment)

	d.mu.Lock()
	if d.handledOnce && frag == d.lastFragment {
		d.mu.Unlock()
		return
	}
	d.handledOnce = true
	d.lastFragment = frag
	cancel := d.cancelViewJob
	d.cancelViewJob = nil
	d.mu.Unlock()

	// Pollers and in-flight loads are view-scoped and must not leak
	// across navigations.
	if cancel != nil {
		cancel()
	}

	if _, ok := d.sessions.Current(); !ok {
		d.showAuthFlow()
		return
	}

	match, ok := Resolve(frag)
	if !ok {
		d.logger.Warn("no route for fragment", "fragment", frag)
		d.dispatch(Match{View: ViewError, Params: []string{"404", frag}}, scroll)
		return
	}

	switch match.View {
	case ViewLogout:
		d.history.Replace("")
		return
	case ViewPlaying:
		if id, ok := d.playback.PlayingPlaylist(); ok {
			d.history.Replace(fmt.Sprintf("playlist/%d", id))
			return
		}
		// nothing playing: dispatch the empty playback view below
	case ViewRandom:
		d.startRandom()
		return
	}

	d.dispatch(match, scroll)
}

func (d *Dispatcher) dispatch(match Match, scroll int) {
	d.mu.Lock()
	loader, ok := d.loaders[match.View]
	if !ok {
		d.mu.Unlock()
		d.logger.Error("no loader registered", "view", match.View.String())
		return
	}
	d.locked = true
	d.generation++
	gen := d.generation
	ctx, cancel := context.WithCancel(context.Background())
	d.cancelViewJob = cancel
	d.mu.Unlock()

	d.selection.Clear()
	d.logger.Debug("dispatching view", "view", match.View.String(), "params", match.Params)

	loader(ctx, LoadRequest{
		View:       match.View,
		Params:     match.Params,
		Scroll:     scroll,
		Generation: gen,
		Done: func(err error) {
			d.complete(match.View, gen, err)
		},
	})
}

// complete runs inside the view loader's completion callback. Only the
// newest generation may release the lock; anything older belongs to a
// superseded navigation.
func (d *Dispatcher) complete(view View, gen uint64, err error) {
	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		d.logger.Debug("discarding stale view load", "view", view.String(), "generation", gen)
		return
	}
	d.locked = false
	d.mu.Unlock()

	if err == nil {
		return
	}
	if errors.Is(err, shared.ErrSessionExpired) {
		d.FatalError(err)
		return
	}
	d.shell.ShowError(fmt.Sprintf("Failed to load %s", view), err)
}

// FatalError tears down the session after an authentication failure:
// playback stops, credentials are cleared, and the login screen is
// forced. This is the single handler for auth failures from any call
// site.
func (d *Dispatcher) FatalError(err error) {
	d.logger.Warn("fatal session error", "err", err)
	d.playback.Stop()
	d.sessions.Clear()

	d.mu.Lock()
	d.locked = false
	d.handledOnce = false
	d.mu.Unlock()

	d.shell.ShowLogin(err.Error())
}

func (d *Dispatcher) showAuthFlow() {
	hasUsers, err := d.probe.HasUsers(context.Background())
	if err != nil {
		d.shell.ShowError("Failed to contact the server", err)
		return
	}
	if hasUsers {
		d.shell.ShowLogin("")
	} else {
		d.shell.ShowFirstRun()
	}
}

func (d *Dispatcher) startRandom() {
	d.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	d.cancelViewJob = cancel
	d.mu.Unlock()

	d.playback.StartRandom(ctx, func(playlistID int64, err error) {
		if err != nil {
			if errors.Is(err, shared.ErrSessionExpired) {
				d.FatalError(err)
				return
			}
			d.shell.ShowError("Failed to generate random playlist", err)
			return
		}
		d.history.Replace(fmt.Sprintf("playlist/%d", playlistID))
	})
}

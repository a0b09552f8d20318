package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/wissl-audio/trill/internal/api"
	"github.com/wissl-audio/trill/internal/player"
	"github.com/wissl-audio/trill/internal/poller"
	"github.com/wissl-audio/trill/internal/router"
	"github.com/wissl-audio/trill/internal/session"
	"github.com/wissl-audio/trill/internal/shared"
	"github.com/wissl-audio/trill/internal/views"
)

// mode selects what the model is currently showing.
type mode int

const (
	modeBrowsing mode = iota
	modeLogin
	modeFirstRun
	modeConfirm
	modeDialog
	modeSearch
	modeLocation
	modePassword
)

// Config wires a Model.
type Config struct {
	Logger     *log.Logger
	Client     *api.Client
	Sessions   *session.Store
	History    *router.MemoryHistory
	Dispatcher *router.Dispatcher
	Player     *player.Controller
	Actions    *views.Actions
	Indexer    *poller.Indexer
}

// Model is the TUI application state. It hosts the view dispatcher and
// doubles as the dispatcher's shell, the view loaders' presenter, and
// the playback controller's confirmation surface; those callbacks run
// on loader goroutines and funnel into Update through an event channel.
type Model struct {
	ctx        context.Context
	logger     *log.Logger
	client     *api.Client
	sessions   *session.Store
	history    *router.MemoryHistory
	dispatcher *router.Dispatcher
	player     *player.Controller
	actions    *views.Actions

	events chan tea.Msg

	mode    mode
	page    views.Page
	lines   []string
	cursor  int
	scroll  int
	width   int
	height  int
	notice  string
	dialog  string
	confirm confirmMsg
	indexer *api.IndexerStatus

	inputs  []textinput.Model
	focus   int
	input   textinput.Model
	help    help.Model
	keys    keyMap
	spinner spinner.Model
}

// New creates the TUI model and hooks the playback controller, the
// indexer poller, and the logout flow into its event channel.
func New(ctx context.Context, cfg Config) *Model {
	m := &Model{
		ctx:        ctx,
		logger:     cfg.Logger,
		client:     cfg.Client,
		sessions:   cfg.Sessions,
		history:    cfg.History,
		dispatcher: cfg.Dispatcher,
		player:     cfg.Player,
		actions:    cfg.Actions,
		events:     make(chan tea.Msg, 32),
		help:       help.New(),
		keys:       newKeyMap(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:      textinput.New(),
	}

	cfg.Player.OnChange = func() {
		m.events <- playbackChangedMsg{}
	}
	cfg.Player.OnError = func(err error) {
		if errors.Is(err, shared.ErrSessionExpired) {
			cfg.Dispatcher.FatalError(err)
			return
		}
		m.events <- showErrorMsg{message: "Playback error", err: err}
	}
	cfg.Indexer.OnStatus = func(status *api.IndexerStatus) {
		m.events <- indexerStatusMsg{status: status}
	}
	cfg.Actions.OnLoggedOut = func() {
		m.events <- loggedOutMsg{}
	}
	return m
}

// Scroll reports the current scroll offset. The dispatcher records it
// against the history entry being left.
func (m *Model) Scroll() int { return m.scroll }

// Present implements [views.Presenter].
func (m *Model) Present(page views.Page) { m.events <- pageMsg{page: page} }

// ShowLogin implements [router.Shell].
func (m *Model) ShowLogin(message string) { m.events <- showLoginMsg{message: message} }

// ShowFirstRun implements [router.Shell].
func (m *Model) ShowFirstRun() { m.events <- showFirstRunMsg{} }

// ShowError implements [router.Shell].
func (m *Model) ShowError(message string, err error) {
	m.events <- showErrorMsg{message: message, err: err}
}

// Confirm implements [player.Confirmer].
func (m *Model) Confirm(title, message string, onAccept, onReject func()) {
	m.events <- confirmMsg{title: title, message: message, onAccept: onAccept, onReject: onReject}
}

// Init dispatches the initial location and starts draining events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForEvent(),
		m.spinner.Tick,
		func() tea.Msg {
			m.dispatcher.Reload()
			return nil
		},
	)
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageMsg:
		m.mode = modeBrowsing
		m.page = msg.page
		m.lines = strings.Split(strings.TrimRight(msg.page.Content, "\n"), "\n")
		m.cursor = 0
		m.scroll = msg.page.Scroll
		m.clampScroll()
		if _, ok := msg.page.Nav.(views.AdminNav); !ok {
			m.indexer = nil
		}
		return m, m.waitForEvent()

	case showLoginMsg:
		m.mode = modeLogin
		m.notice = msg.message
		m.inputs = loginInputs()
		m.focus = 0
		return m, m.waitForEvent()

	case showFirstRunMsg:
		m.mode = modeFirstRun
		m.notice = ""
		m.inputs = firstRunInputs()
		m.focus = 0
		return m, m.waitForEvent()

	case showErrorMsg:
		m.mode = modeDialog
		if msg.err != nil {
			m.dialog = fmt.Sprintf("%s: %v", msg.message, msg.err)
		} else {
			m.dialog = msg.message
		}
		return m, m.waitForEvent()

	case confirmMsg:
		m.mode = modeConfirm
		m.confirm = msg
		return m, m.waitForEvent()

	case playbackChangedMsg:
		return m, m.waitForEvent()

	case indexerStatusMsg:
		m.indexer = msg.status
		return m, m.waitForEvent()

	case loggedOutMsg:
		m.mode = modeLogin
		m.notice = ""
		m.inputs = loginInputs()
		m.focus = 0
		m.page = views.Page{}
		m.lines = nil
		return m, m.waitForEvent()

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeBrowsing:
		return m.handleBrowsingKeys(msg)
	case modeLogin, modeFirstRun, modePassword:
		return m.handleFormKeys(msg)
	case modeConfirm:
		return m.handleConfirmKeys(msg)
	case modeDialog:
		m.mode = modeBrowsing
		return m, nil
	case modeSearch, modeLocation:
		return m.handleInputKeys(msg)
	}
	return m, nil
}

func (m *Model) handleBrowsingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		if len(m.page.Items) > 0 {
			m.cursor--
			m.clampCursor()
			m.ensureCursorVisible()
		} else {
			m.scroll--
			m.clampScroll()
		}
	case key.Matches(msg, m.keys.down):
		if len(m.page.Items) > 0 {
			m.cursor++
			m.clampCursor()
			m.ensureCursorVisible()
		} else {
			m.scroll++
			m.clampScroll()
		}
	case key.Matches(msg, m.keys.back):
		return m, m.async(func() { m.history.Back() })
	case key.Matches(msg, m.keys.forward):
		return m, m.async(func() { m.history.Forward() })
	case key.Matches(msg, m.keys.home):
		return m, m.navigate("")
	case key.Matches(msg, m.keys.artists):
		return m, m.navigate("artists/")
	case key.Matches(msg, m.keys.playlists):
		return m, m.navigate("playlists/")
	case key.Matches(msg, m.keys.users):
		return m, m.navigate("users/")
	case key.Matches(msg, m.keys.admin):
		return m, m.navigate("admin/")
	case key.Matches(msg, m.keys.playing):
		return m, m.navigate("playing/")
	case key.Matches(msg, m.keys.random):
		return m, m.navigate("random/")
	case key.Matches(msg, m.keys.search):
		m.mode = modeSearch
		m.input = textinput.New()
		m.input.Placeholder = "search"
		m.input.Focus()
	case key.Matches(msg, m.keys.location):
		m.mode = modeLocation
		m.input = textinput.New()
		m.input.Placeholder = "location, e.g. playlist/3"
		m.input.Focus()
	case key.Matches(msg, m.keys.enter):
		return m.openCursor()
	case key.Matches(msg, m.keys.selectRow):
		if m.cursor < len(m.page.Items) {
			m.dispatcher.Selection().Toggle(m.page.Items[m.cursor].Sel)
		}
	case key.Matches(msg, m.keys.remove):
		return m, m.removeSelected()
	case key.Matches(msg, m.keys.quick):
		return m, m.quickPlaylist()
	case key.Matches(msg, m.keys.toggle):
		m.player.TogglePlay()
	case key.Matches(msg, m.keys.next):
		return m, m.async(func() { m.player.Next(m.ctx) })
	case key.Matches(msg, m.keys.previous):
		return m, m.async(func() { m.player.Previous(m.ctx) })
	case key.Matches(msg, m.keys.mute):
		m.player.ToggleMute()
	case key.Matches(msg, m.keys.logout):
		return m, m.async(func() { m.actions.Logout(m.ctx) })
	default:
		switch msg.String() {
		case "+", "=":
			m.player.SetVolume(m.player.Volume() + 10)
		case "-":
			m.player.SetVolume(m.player.Volume() - 10)
		case "c":
			if _, ok := m.page.Nav.(views.SettingsNav); ok {
				m.mode = modePassword
				m.notice = ""
				m.inputs = passwordInputs()
				m.focus = 0
			}
		case "?":
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == modePassword {
			m.mode = modeBrowsing
		}
		return m, nil
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return m, nil
	case "enter":
		if m.focus < len(m.inputs)-1 {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		return m, m.submitForm()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirm := m.confirm
	switch msg.String() {
	case "y":
		m.mode = modeBrowsing
		m.confirm = confirmMsg{}
		return m, m.async(confirm.onAccept)
	case "n", "esc":
		m.mode = modeBrowsing
		m.confirm = confirmMsg{}
		return m, m.async(confirm.onReject)
	}
	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowsing
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		wasSearch := m.mode == modeSearch
		m.mode = modeBrowsing
		if value == "" {
			return m, nil
		}
		if wasSearch {
			return m, m.navigate("search/" + value)
		}
		return m, m.navigate(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(focus int) {
	if len(m.inputs) == 0 {
		return
	}
	if focus < 0 {
		focus = len(m.inputs) - 1
	}
	if focus >= len(m.inputs) {
		focus = 0
	}
	m.inputs[m.focus].Blur()
	m.focus = focus
	m.inputs[m.focus].Focus()
}

// submitForm runs the flow behind the active form. Failures come back
// as events so the user can retry.
func (m *Model) submitForm() tea.Cmd {
	formMode := m.mode
	values := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		values[i] = input.Value()
	}

	return func() tea.Msg {
		switch formMode {
		case modeLogin:
			if err := m.actions.Login(m.ctx, values[0], values[1]); err != nil {
				return showLoginMsg{message: err.Error()}
			}
		case modeFirstRun:
			if err := m.actions.CreateFirstUser(m.ctx, values[0], values[1], values[2]); err != nil {
				return showErrorMsg{message: "Failed to create user", err: err}
			}
		case modePassword:
			if err := m.actions.ChangePassword(m.ctx, values[0], values[1], values[2]); err != nil {
				return showErrorMsg{message: "Failed to change password", err: err}
			}
			return showErrorMsg{message: "Password changed"}
		}
		return nil
	}
}

// openCursor activates the row under the cursor: a playlist row opens
// the playlist, a playlist song row starts playback at that position.
func (m *Model) openCursor() (tea.Model, tea.Cmd) {
	switch nav := m.page.Nav.(type) {
	case views.PlaylistsNav:
		if m.cursor < len(m.page.Items) {
			return m, m.navigate("playlist/" + m.page.Items[m.cursor].Sel.Key + "/")
		}
	case views.PlaylistNav:
		pos := 0
		if m.cursor < len(m.page.Items) {
			pos = m.cursor
		}
		return m, m.playPlaylist(nav.Playlist, pos)
	}
	return m, nil
}

// removeSelected runs the bulk removal behind the current view: the
// selected playlists on the playlists page, the selected songs on a
// playlist page. The selection feeds the action's targets; the actions
// confirm and validate an empty selection themselves.
func (m *Model) removeSelected() tea.Cmd {
	sel := m.dispatcher.Selection()
	switch nav := m.page.Nav.(type) {
	case views.PlaylistsNav:
		ids := sel.IDs(router.KindPlaylist)
		return m.async(func() { m.actions.RemovePlaylists(m.ctx, ids, m.reloadAfter) })
	case views.PlaylistNav:
		ids := sel.IDs(router.KindSong)
		return m.async(func() { m.actions.RemoveFromPlaylist(m.ctx, nav.Playlist.ID, ids, m.reloadAfter) })
	}
	return nil
}

// quickPlaylist replaces the quick playlist with the selected songs
// and starts playing it.
func (m *Model) quickPlaylist() tea.Cmd {
	ids := m.dispatcher.Selection().IDs(router.KindSong)
	return func() tea.Msg {
		if _, err := m.actions.QuickPlaylist(m.ctx, "Quick playlist", ids, true); err != nil {
			return showErrorMsg{message: "Quick playlist failed", err: err}
		}
		return nil
	}
}

func (m *Model) reloadAfter(err error) {
	if err != nil {
		m.events <- showErrorMsg{message: "Removal failed", err: err}
		return
	}
	m.dispatcher.Reload()
}

// playPlaylist starts the playlist at the given position.
func (m *Model) playPlaylist(p api.Playlist, pos int) tea.Cmd {
	return func() tea.Msg {
		song, err := m.client.PlaylistSongAt(m.ctx, p.ID, pos)
		if err != nil {
			return showErrorMsg{message: "Failed to start playlist", err: err}
		}
		if song == nil {
			return showErrorMsg{message: "This playlist is empty"}
		}
		m.player.Play(m.ctx, player.PlayRequest{
			SongID:       song.ID,
			PlaylistID:   p.ID,
			PlaylistName: p.Name,
			Position:     pos,
		})
		return nil
	}
}

func (m *Model) navigate(fragment string) tea.Cmd {
	return m.async(func() { m.dispatcher.Navigate(fragment) })
}

// async runs a blocking dispatcher or playback call off the Update
// goroutine; its results arrive through the event channel.
func (m *Model) async(fn func()) tea.Cmd {
	return func() tea.Msg {
		if fn != nil {
			fn()
		}
		return nil
	}
}

func (m *Model) clampScroll() {
	max := len(m.lines) + len(m.page.Items) - 1
	if m.scroll > max {
		m.scroll = max
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.page.Items) {
		m.cursor = len(m.page.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ensureCursorVisible scrolls just enough to keep the cursor row in
// the window renderPage shows.
func (m *Model) ensureCursorVisible() {
	if m.height <= 0 {
		return
	}
	visible := m.height - 6
	if visible < 1 {
		visible = 1
	}
	line := len(m.lines) + m.cursor
	if line < m.scroll {
		m.scroll = line
	}
	if line >= m.scroll+visible {
		m.scroll = line - visible + 1
	}
}

func loginInputs() []textinput.Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	return []textinput.Model{username, password}
}

func firstRunInputs() []textinput.Model {
	inputs := loginInputs()
	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword
	return append(inputs, confirm)
}

func passwordInputs() []textinput.Model {
	old := textinput.New()
	old.Placeholder = "current password"
	old.EchoMode = textinput.EchoPassword
	old.Focus()
	newPw := textinput.New()
	newPw.Placeholder = "new password"
	newPw.EchoMode = textinput.EchoPassword
	confirm := textinput.New()
	confirm.Placeholder = "confirm new password"
	confirm.EchoMode = textinput.EchoPassword
	return []textinput.Model{old, newPw, confirm}
}

package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/wissl-audio/trill/internal/api"
	"github.com/wissl-audio/trill/internal/player"
	"github.com/wissl-audio/trill/internal/router"
	"github.com/wissl-audio/trill/internal/session"
	"github.com/wissl-audio/trill/internal/shared"
)

// Actions are the user-initiated flows that sit outside plain view
// loading: authentication, playlist management, account settings.
// Validation happens before any request goes out.
type Actions struct {
	logger     *log.Logger
	client     *api.Client
	sessions   *session.Store
	player     *player.Controller
	dispatcher *router.Dispatcher
	confirm    player.Confirmer

	// OnLoggedOut fires after a completed logout.
	OnLoggedOut func()
}

// NewActions wires the action flows.
func NewActions(logger *log.Logger, client *api.Client, sessions *session.Store, playerCtl *player.Controller, dispatcher *router.Dispatcher, confirm player.Confirmer) *Actions {
	return &Actions{
		logger:     logger,
		client:     client,
		sessions:   sessions,
		player:     playerCtl,
		dispatcher: dispatcher,
		confirm:    confirm,
	}
}

// Login authenticates, establishes the session, and re-dispatches the
// originally requested location.
func (a *Actions) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", shared.ErrMissingArgument)
	}

	resp, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	a.sessions.Establish(session.Session{
		Token:  resp.SessionID,
		UserID: resp.UserID,
		Admin:  resp.Auth == 1,
	})
	a.logger.Info("logged in", "user_id", resp.UserID)
	a.dispatcher.Reload()
	return nil
}

// CreateFirstUser creates the initial administrator account on a fresh
// server, then logs in with it.
func (a *Actions) CreateFirstUser(ctx context.Context, username, password, confirmPassword string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", shared.ErrMissingArgument)
	}
	if password != confirmPassword {
		return shared.ErrPasswordMismatch
	}

	if err := a.client.AddUser(ctx, username, password, 1); err != nil {
		return fmt.Errorf("failed to create first user: %w", err)
	}
	return a.Login(ctx, username, password)
}

// Logout asks for confirmation, then ends the server session, stops
// playback, and clears the local session.
func (a *Actions) Logout(ctx context.Context) {
	a.confirm.Confirm("", "Do you really want to logout?", func() {
		if err := a.client.Logout(ctx); err != nil {
			a.logger.Warn("server logout failed", "err", err)
		}
		a.player.Stop()
		a.sessions.Clear()
		if a.OnLoggedOut != nil {
			a.OnLoggedOut()
		}
	}, func() {})
}

// ChangePassword validates locally, then updates the password.
func (a *Actions) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: both passwords are required", shared.ErrMissingArgument)
	}
	if newPassword != confirmPassword {
		return shared.ErrPasswordMismatch
	}
	if err := a.client.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// CreatePlaylist creates an empty named playlist.
func (a *Actions) CreatePlaylist(ctx context.Context, name string) (*api.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrEmptyName
	}
	return a.client.CreatePlaylist(ctx, name)
}

// QuickPlaylist replaces the named playlist's contents with the given
// songs and optionally starts playing it from the top.
func (a *Actions) QuickPlaylist(ctx context.Context, name string, songIDs []int64, playNow bool) (*api.CreateAddResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrEmptyName
	}
	if len(songIDs) == 0 {
		return nil, fmt.Errorf("%w: no songs selected", shared.ErrInvalidInput)
	}

	resp, err := a.client.CreateAddPlaylist(ctx, name, songIDs, nil, true)
	if err != nil {
		return nil, err
	}
	if playNow && resp.Added > 0 {
		a.player.Play(ctx, player.PlayRequest{
			SongID:       songIDs[0],
			PlaylistID:   resp.Playlist.ID,
			PlaylistName: resp.Playlist.Name,
			Position:     0,
		})
	}
	return resp, nil
}

// AddToPlaylist appends the selected songs or albums to a playlist.
func (a *Actions) AddToPlaylist(ctx context.Context, playlistID int64, songIDs, albumIDs []int64) (int, error) {
	if len(songIDs) == 0 && len(albumIDs) == 0 {
		return 0, fmt.Errorf("%w: nothing selected", shared.ErrInvalidInput)
	}
	return a.client.AddToPlaylist(ctx, playlistID, songIDs, albumIDs)
}

// RemovePlaylists deletes the selected playlists after confirmation.
func (a *Actions) RemovePlaylists(ctx context.Context, ids []int64, done func(err error)) {
	if len(ids) == 0 {
		done(fmt.Errorf("%w: nothing selected", shared.ErrInvalidInput))
		return
	}
	msg := fmt.Sprintf("Delete %d playlist(s)?", len(ids))
	a.confirm.Confirm("", msg, func() {
		done(a.client.RemovePlaylists(ctx, ids))
	}, func() {})
}

// RemoveFromPlaylist removes the selected songs from a playlist after
// confirmation.
func (a *Actions) RemoveFromPlaylist(ctx context.Context, playlistID int64, songIDs []int64, done func(err error)) {
	if len(songIDs) == 0 {
		done(fmt.Errorf("%w: nothing selected", shared.ErrInvalidInput))
		return
	}
	msg := fmt.Sprintf("Remove %d song(s) from this playlist?", len(songIDs))
	a.confirm.Confirm("", msg, func() {
		done(a.client.RemoveFromPlaylist(ctx, playlistID, songIDs))
	}, func() {})
}

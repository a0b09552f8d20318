package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/wissl-audio/trill/internal/session"
	"github.com/wissl-audio/trill/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login authenticates against the server and persists the session.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	if err := r.connect(); err != nil {
		return err
	}

	password := cmd.String("password")
	if password == "" {
		r.writePlain("Password for %s: ", username)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	resp, err := r.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLoginFailed, err)
	}

	r.sessions.Establish(session.Session{
		Token:  resp.SessionID,
		UserID: resp.UserID,
		Admin:  resp.Auth == 1,
	})

	r.logger.Info("logged in", "user", username, "admin", resp.Auth == 1)
	r.writePlain("✓ Logged in as %s\n", username)
	return nil
}

// Logout ends the server session and clears the persisted one.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	if _, ok := r.sessions.Current(); !ok {
		r.writePlain("Not logged in\n")
		return nil
	}

	if err := r.client.Logout(ctx); err != nil {
		r.logger.Warn("server logout failed", "error", err)
	}
	r.sessions.Clear()

	r.writePlain("✓ Logged out\n")
	return nil
}

// statusOutput aggregates everything the status command reports.
type statusOutput struct {
	Server   string `json:"server"`
	LoggedIn bool   `json:"logged_in"`
	UserID   int64  `json:"user_id,omitempty"`
	Admin    bool   `json:"admin,omitempty"`

	Songs     int64 `json:"songs"`
	Albums    int64 `json:"albums"`
	Artists   int64 `json:"artists"`
	Playlists int64 `json:"playlists"`
	Users     int64 `json:"users"`
	Playtime  int64 `json:"playtime"`
	Uptime    int64 `json:"uptime"`
}

// Status reports server statistics and the local session state.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	stats, err := r.client.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch server stats: %w", err)
	}

	out := statusOutput{
		Server:    r.config.Server.URL,
		Songs:     stats.Songs,
		Albums:    stats.Albums,
		Artists:   stats.Artists,
		Playlists: stats.Playlists,
		Users:     stats.Users,
		Playtime:  stats.Playtime,
		Uptime:    stats.Uptime,
	}
	if sess, ok := r.sessions.Current(); ok {
		out.LoggedIn = true
		out.UserID = sess.UserID
		out.Admin = sess.Admin
	}

	if cmd.Bool("json") {
		return r.writeJSON(out, true)
	}

	r.writePlain("Server: %s\n", out.Server)
	if out.LoggedIn {
		role := "user"
		if out.Admin {
			role = "admin"
		}
		r.writePlain("Session: logged in (user %d, %s)\n", out.UserID, role)
	} else {
		r.writePlain("Session: not logged in\n")
	}
	r.writePlain("Library: %d songs, %d albums, %d artists, %d playlists\n",
		out.Songs, out.Albums, out.Artists, out.Playlists)
	r.writePlain("Playtime: %s\n", shared.FormatSeconds(int(out.Playtime)))
	r.writePlain("Uptime: %s\n", shared.FormatSeconds(int(out.Uptime)))
	return nil
}

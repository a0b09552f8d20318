package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wissl-audio/trill/internal/api"
	"github.com/wissl-audio/trill/internal/session"
	"github.com/wissl-audio/trill/internal/shared"
	"github.com/wissl-audio/trill/internal/store"
	tu "github.com/wissl-audio/trill/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				ConfigPath: "/test/path/config.toml",
			})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Fatal("expected commands to be registered")
		}

		names := map[string]bool{}
		for _, c := range commands {
			names[c.Name] = true
		}
		for _, want := range []string{"setup", "login", "logout", "status", "search", "playlists", "random", "edit", "admin", "ui", "open"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("connect without server URL", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Server.URL = ""
		runner := NewRunner(RunnerOpts{Config: config})

		err := runner.connect()
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

// commandEnv bundles everything needed to run commands against a fake
// server.
type commandEnv struct {
	runner *Runner
	output *bytes.Buffer
	app    *cli.Command
}

func setupTestCommands(t *testing.T, handler http.Handler) *commandEnv {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	kv, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	logger := shared.NewLogger(nil)
	sessions := session.NewStore(kv, logger)
	sessions.Establish(session.Session{Token: "tok", UserID: 1, Admin: true})

	client, err := api.NewClient(ts.URL, sessions, nil)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	config := shared.DefaultConfig()
	config.Server.URL = ts.URL

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:   config,
		Logger:   logger,
		Output:   output,
		Client:   client,
		Sessions: sessions,
		KV:       kv,
	})

	return &commandEnv{
		runner: runner,
		output: output,
		app: &cli.Command{
			Name:     "trill",
			Commands: runner.register(),
		},
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupTestCommands(t, tu.JSONHandler(`{"stats":{"songs":42,"albums":4,"artists":2,"playlists":1,"users":1,"playtime":1200,"downloaded":0,"uptime":3600}}`))

	if err := env.app.Run(context.Background(), []string{"trill", "status"}); err != nil {
		t.Fatalf("status failed: %v", err)
	}

	out := env.output.String()
	if !strings.Contains(out, "42 songs") {
		t.Errorf("expected song count in output, got %q", out)
	}
	if !strings.Contains(out, "logged in (user 1, admin)") {
		t.Errorf("expected session line in output, got %q", out)
	}
}

func TestSearchCommand(t *testing.T) {
	t.Run("prints grouped results", func(t *testing.T) {
		env := setupTestCommands(t, tu.JSONHandler(`{
			"artists": [{"id": 1, "name": "Artist One", "albums": 2}],
			"albums": [],
			"songs": [{"id": 10, "title": "Song One", "artist_name": "Artist One", "duration": 180}]
		}`))

		if err := env.app.Run(context.Background(), []string{"trill", "search", "one"}); err != nil {
			t.Fatalf("search failed: %v", err)
		}

		out := env.output.String()
		if !strings.Contains(out, "Artist One (2 albums)") {
			t.Errorf("expected artist line, got %q", out)
		}
		if !strings.Contains(out, "Artist One - Song One [3:00]") {
			t.Errorf("expected song line, got %q", out)
		}
	})

	t.Run("rejects empty query", func(t *testing.T) {
		env := setupTestCommands(t, tu.JSONHandler(`{}`))

		err := env.app.Run(context.Background(), []string{"trill", "search", ""})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestPlaylistCommands(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		env := setupTestCommands(t, tu.JSONHandler(`{"playlists":[{"id":3,"name":"Test Playlist","user":1,"songs":2,"playtime":420}]}`))

		if err := env.app.Run(context.Background(), []string{"trill", "playlists", "list"}); err != nil {
			t.Fatalf("playlists list failed: %v", err)
		}

		out := env.output.String()
		if !strings.Contains(out, "3  Test Playlist (2 songs, 7:00)") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("create rejects blank name", func(t *testing.T) {
		env := setupTestCommands(t, tu.JSONHandler(`{}`))

		err := env.app.Run(context.Background(), []string{"trill", "playlists", "create", "--name", "   "})
		if !errors.Is(err, shared.ErrEmptyName) {
			t.Errorf("expected ErrEmptyName, got %v", err)
		}
	})

	t.Run("export csv", func(t *testing.T) {
		env := setupTestCommands(t, tu.JSONHandler(`{
			"name": "Test Playlist",
			"playlist": [
				{"id": 10, "title": "Song One", "artist_name": "Artist One", "album_name": "Album One", "duration": 180, "format": "audio/mp3"},
				{"id": 11, "title": "Song Two", "artist_name": "Artist Two", "album_name": "Album Two", "duration": 240, "format": "audio/ogg"}
			]
		}`))

		base := filepath.Join(t.TempDir(), "export")
		err := env.app.Run(context.Background(), []string{
			"trill", "playlists", "export", "--id", "3", "--format", "csv", "--output", base,
		})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}

		tu.AssertFileExists(t, base+"_songs.csv")
		tu.AssertFileExists(t, base+"_metadata.json")

		csv := tu.MustReadFile(t, base+"_songs.csv")
		if !strings.Contains(csv, "10,Song One,Artist One,Album One,180,audio/mp3") {
			t.Errorf("expected song row in CSV, got %q", csv)
		}
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		env := setupTestCommands(t, tu.JSONHandler(`{"name":"x","playlist":[]}`))

		err := env.app.Run(context.Background(), []string{
			"trill", "playlists", "export", "--id", "3", "--format", "xml",
		})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestAdminFoldersCommand(t *testing.T) {
	env := setupTestCommands(t, tu.JSONHandler(`{"folders":["/music","/podcasts"]}`))

	if err := env.app.Run(context.Background(), []string{"trill", "admin", "folders"}); err != nil {
		t.Fatalf("admin folders failed: %v", err)
	}

	out := env.output.String()
	if !strings.Contains(out, "/music") || !strings.Contains(out, "/podcasts") {
		t.Errorf("expected folder listing, got %q", out)
	}
}

func TestLogoutCommand(t *testing.T) {
	env := setupTestCommands(t, tu.JSONHandler(`{}`))

	if err := env.app.Run(context.Background(), []string{"trill", "logout"}); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, ok := env.runner.sessions.Current(); ok {
		t.Error("expected session to be cleared")
	}
	if !strings.Contains(env.output.String(), "Logged out") {
		t.Errorf("expected confirmation, got %q", env.output.String())
	}
}

func TestEditSongCommand(t *testing.T) {
	var form url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/edit/song", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{}`)
	})
	env := setupTestCommands(t, mux)

	t.Run("updates title", func(t *testing.T) {
		args := []string{"trill", "edit", "song", "--id", "3", "--id", "5", "--title", "Remastered"}
		if err := env.app.Run(context.Background(), args); err != nil {
			t.Fatalf("edit song failed: %v", err)
		}
		if got := form["song_ids[]"]; len(got) != 2 || got[0] != "3" || got[1] != "5" {
			t.Errorf("unexpected song ids in form: %v", form)
		}
		if form.Get("song_title") != "Remastered" {
			t.Errorf("expected new title in form, got %v", form)
		}
		if !strings.Contains(env.output.String(), "Updated 2 song(s)") {
			t.Errorf("expected confirmation, got %q", env.output.String())
		}
	})

	t.Run("nothing to change", func(t *testing.T) {
		args := []string{"trill", "edit", "song", "--id", "3"}
		err := env.app.Run(context.Background(), args)
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestEditArtworkCommand(t *testing.T) {
	var gotPath string
	var gotContent []byte
	mux := http.NewServeMux()
	mux.HandleFunc("/edit/artwork/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("expected a 'file' form part: %v", err)
			return
		}
		defer file.Close()
		gotContent, _ = io.ReadAll(file)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{}`)
	})
	env := setupTestCommands(t, mux)

	image := filepath.Join(t.TempDir(), "cover.jpg")
	if err := os.WriteFile(image, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}

	args := []string{"trill", "edit", "artwork", "--id", "12", "--file", image}
	if err := env.app.Run(context.Background(), args); err != nil {
		t.Fatalf("edit artwork failed: %v", err)
	}
	if gotPath != "/edit/artwork/12" {
		t.Errorf("unexpected upload path %s", gotPath)
	}
	if string(gotContent) != "jpeg-bytes" {
		t.Errorf("unexpected upload body %q", gotContent)
	}
	if !strings.Contains(env.output.String(), "Artwork updated for album 12") {
		t.Errorf("expected confirmation, got %q", env.output.String())
	}
}

func TestAdminUsersRemoveCommand(t *testing.T) {
	var form url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/user/remove", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{}`)
	})
	env := setupTestCommands(t, mux)

	args := []string{"trill", "admin", "users-remove", "--id", "2"}
	if err := env.app.Run(context.Background(), args); err != nil {
		t.Fatalf("users-remove failed: %v", err)
	}
	if got := form["user_ids[]"]; len(got) != 1 || got[0] != "2" {
		t.Errorf("unexpected user ids in form: %v", form)
	}
	if !strings.Contains(env.output.String(), "Removed 1 user(s)") {
		t.Errorf("expected confirmation, got %q", env.output.String())
	}
}

func TestAdminFoldersBrowseCommand(t *testing.T) {
	env := setupTestCommands(t, tu.JSONHandler(`{"directory":"/srv","parent":"/","separator":"/","listing":["music","backup"]}`))

	args := []string{"trill", "admin", "folders-browse", "--path", "/srv"}
	if err := env.app.Run(context.Background(), args); err != nil {
		t.Fatalf("folders-browse failed: %v", err)
	}

	out := env.output.String()
	if !strings.Contains(out, "/srv/music") || !strings.Contains(out, "/srv/backup") {
		t.Errorf("expected subdirectory paths, got %q", out)
	}
}

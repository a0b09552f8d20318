package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/wissl-audio/trill/internal/api"
	"github.com/wissl-audio/trill/internal/shared"
)

type fakeSound struct {
	url      string
	closed   bool
	paused   bool
	volume   int
	muted    bool
	seeked   int
	onFinish func()
}

func (s *fakeSound) TogglePause()         { s.paused = !s.paused }
func (s *fakeSound) Paused() bool         { return s.paused }
func (s *fakeSound) SetVolume(volume int) { s.volume = volume }
func (s *fakeSound) SetMuted(muted bool)  { s.muted = muted }
func (s *fakeSound) Seek(seconds int)     { s.seeked = seconds }
func (s *fakeSound) Close() error {
	s.closed = true
	return nil
}

type fakeDriver struct {
	sounds       []*fakeSound
	liveAtCreate []int
	err          error
}

func (d *fakeDriver) NewSound(url, format string, onFinish func()) (Sound, error) {
	if d.err != nil {
		return nil, d.err
	}
	live := 0
	for _, s := range d.sounds {
		if !s.closed {
			live++
		}
	}
	d.liveAtCreate = append(d.liveAtCreate, live)
	s := &fakeSound{url: url, onFinish: onFinish}
	d.sounds = append(d.sounds, s)
	return s, nil
}

func (d *fakeDriver) current(t *testing.T) *fakeSound {
	t.Helper()
	if len(d.sounds) == 0 {
		t.Fatal("expected a sound to have been created")
	}
	return d.sounds[len(d.sounds)-1]
}

type fakeLibrary struct {
	songs     map[int64]*api.SongResponse
	playlists map[int64][]api.Song
	random    *api.RandomPlaylistResponse
	songErr   error
	atErr     error
	randomErr error
	atCalls   []int
}

func (l *fakeLibrary) Song(ctx context.Context, songID int64) (*api.SongResponse, error) {
	if l.songErr != nil {
		return nil, l.songErr
	}
	resp, ok := l.songs[songID]
	if !ok {
		return nil, shared.ErrSongNotFound
	}
	return resp, nil
}

func (l *fakeLibrary) PlaylistSongAt(ctx context.Context, playlistID int64, position int) (*api.Song, error) {
	l.atCalls = append(l.atCalls, position)
	if l.atErr != nil {
		return nil, l.atErr
	}
	songs := l.playlists[playlistID]
	if position < 0 || position >= len(songs) {
		return nil, nil
	}
	return &songs[position], nil
}

func (l *fakeLibrary) RandomPlaylist(ctx context.Context, name string, count int) (*api.RandomPlaylistResponse, error) {
	if l.randomErr != nil {
		return nil, l.randomErr
	}
	return l.random, nil
}

func (l *fakeLibrary) StreamURL(songID int64) string {
	return fmt.Sprintf("http://test.local/wissl/song/%d/stream", songID)
}

type fakeConfirmer struct {
	accept   bool
	titles   []string
	messages []string
}

func (c *fakeConfirmer) Confirm(title, message string, onAccept, onReject func()) {
	c.titles = append(c.titles, title)
	c.messages = append(c.messages, message)
	if c.accept {
		onAccept()
	} else {
		onReject()
	}
}

type fakeNav struct {
	replaced []string
}

func (n *fakeNav) Replace(fragment string) {
	n.replaced = append(n.replaced, fragment)
}

type testEnv struct {
	controller *Controller
	library    *fakeLibrary
	driver     *fakeDriver
	confirm    *fakeConfirmer
	nav        *fakeNav
	errs       []error
}

func songResponse(songID, albumID, artistID int64, title string) *api.SongResponse {
	return &api.SongResponse{
		Song:   api.Song{ID: songID, Title: title, Format: "audio/mp3"},
		Album:  api.Album{ID: albumID},
		Artist: api.Artist{ID: artistID},
	}
}

func setupTestController(t *testing.T) *testEnv {
	t.Helper()

	library := &fakeLibrary{
		songs: map[int64]*api.SongResponse{
			10: songResponse(10, 100, 1000, "first"),
			11: songResponse(11, 100, 1000, "second"),
			20: songResponse(20, 200, 2000, "other"),
			30: songResponse(30, 300, 3000, "shuffled"),
		},
		playlists: map[int64][]api.Song{
			5: {
				{ID: 10, Title: "first", Position: 0},
				{ID: 11, Title: "second", Position: 1},
			},
			6: {
				{ID: 20, Title: "other", Position: 0},
			},
		},
		random: &api.RandomPlaylistResponse{
			Playlist:  api.Playlist{ID: 9, Name: "Random"},
			FirstSong: 30,
		},
	}
	driver := &fakeDriver{}
	confirm := &fakeConfirmer{accept: true}
	nav := &fakeNav{}

	env := &testEnv{library: library, driver: driver, confirm: confirm, nav: nav}
	env.controller = NewController(shared.NewLogger(io.Discard), library, driver, confirm, nav)
	env.controller.OnError = func(err error) {
		env.errs = append(env.errs, err)
	}
	return env
}

func playFirst(t *testing.T, env *testEnv) {
	t.Helper()
	env.controller.Play(context.Background(), PlayRequest{
		SongID:       10,
		PlaylistID:   5,
		PlaylistName: "favorites",
		Position:     0,
	})
	if env.controller.State() != Playing {
		t.Fatalf("expected Playing state, got %v", env.controller.State())
	}
}

func TestControllerPlay(t *testing.T) {
	t.Run("plays song from idle", func(t *testing.T) {
		env := setupTestController(t)

		playFirst(t, env)

		playing, song, ok := env.controller.Now()
		if !ok {
			t.Fatal("expected playback state")
		}
		if playing.SongID != 10 || playing.PlaylistID != 5 || playing.Position != 0 {
			t.Errorf("unexpected playback state: %+v", playing)
		}
		if playing.AlbumID != 100 || playing.ArtistID != 1000 {
			t.Errorf("expected album/artist ids from metadata, got %+v", playing)
		}
		if song.Title != "first" {
			t.Errorf("expected song metadata, got %+v", song)
		}
		if got := env.driver.current(t).url; got != "http://test.local/wissl/song/10/stream" {
			t.Errorf("unexpected stream url %q", got)
		}
		if len(env.confirm.messages) != 0 {
			t.Error("expected no confirmation for play from idle")
		}
	})

	t.Run("same playlist switches without confirmation", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)

		env.controller.Play(context.Background(), PlayRequest{
			SongID: 11, PlaylistID: 5, PlaylistName: "favorites", Position: 1,
		})

		if len(env.confirm.messages) != 0 {
			t.Error("expected no confirmation within the same playlist")
		}
		playing, _, _ := env.controller.Now()
		if playing.SongID != 11 {
			t.Errorf("expected song 11 playing, got %d", playing.SongID)
		}
	})

	t.Run("previous handle released before new one created", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)

		env.controller.Play(context.Background(), PlayRequest{
			SongID: 11, PlaylistID: 5, PlaylistName: "favorites", Position: 1,
		})

		if !env.driver.sounds[0].closed {
			t.Error("expected first sound to be closed")
		}
		for i, live := range env.driver.liveAtCreate {
			if live != 0 {
				t.Errorf("sound %d created while %d handles still live", i, live)
			}
		}
	})

	t.Run("different playlist requires confirmation", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)
		env.confirm.accept = false

		env.controller.Play(context.Background(), PlayRequest{
			SongID: 20, PlaylistID: 6, PlaylistName: "road trip", Position: 0,
		})

		if len(env.confirm.messages) != 1 {
			t.Fatal("expected a confirmation prompt")
		}
		playing, _, _ := env.controller.Now()
		if playing.SongID != 10 || playing.PlaylistID != 5 {
			t.Errorf("expected playback untouched on decline, got %+v", playing)
		}
		if env.driver.sounds[0].closed {
			t.Error("expected original sound still live after decline")
		}

		env.confirm.accept = true
		env.controller.Play(context.Background(), PlayRequest{
			SongID: 20, PlaylistID: 6, PlaylistName: "road trip", Position: 0,
		})
		playing, _, _ = env.controller.Now()
		if playing.PlaylistID != 6 {
			t.Errorf("expected switch to playlist 6 on accept, got %+v", playing)
		}
	})

	t.Run("metadata failure leaves playback untouched", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)
		env.library.songErr = errors.New("boom")

		env.controller.Play(context.Background(), PlayRequest{
			SongID: 11, PlaylistID: 5, PlaylistName: "favorites", Position: 1,
		})

		if len(env.errs) != 1 {
			t.Fatal("expected a playback error")
		}
		playing, _, ok := env.controller.Now()
		if !ok || playing.SongID != 10 {
			t.Errorf("expected song 10 still playing, got %+v", playing)
		}
		if env.controller.State() != Playing {
			t.Errorf("expected Playing state, got %v", env.controller.State())
		}
		if env.driver.sounds[0].closed {
			t.Error("expected sound still live after metadata failure")
		}
	})

	t.Run("stream failure goes idle", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)
		env.driver.err = errors.New("no audio device")

		env.controller.Play(context.Background(), PlayRequest{
			SongID: 11, PlaylistID: 5, PlaylistName: "favorites", Position: 1,
		})

		if len(env.errs) != 1 {
			t.Fatal("expected a playback error")
		}
		if env.controller.State() != Idle {
			t.Errorf("expected Idle state, got %v", env.controller.State())
		}
		if _, _, ok := env.controller.Now(); ok {
			t.Error("expected no playback state after stream failure")
		}
		if !env.driver.sounds[0].closed {
			t.Error("expected previous sound released even on failure")
		}
	})
}

func TestControllerNextPrevious(t *testing.T) {
	t.Run("next plays following song", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)

		env.controller.Next(context.Background())

		playing, _, _ := env.controller.Now()
		if playing.SongID != 11 || playing.Position != 1 {
			t.Errorf("expected song 11 at position 1, got %+v", playing)
		}
		if len(env.confirm.messages) != 0 {
			t.Error("expected no confirmation when advancing within the playlist")
		}
	})

	t.Run("next past end stops", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)

		env.controller.Next(context.Background())
		env.controller.Next(context.Background())

		if env.controller.State() != Idle {
			t.Errorf("expected Idle after last song, got %v", env.controller.State())
		}
		if _, _, ok := env.controller.Now(); ok {
			t.Error("expected playback state cleared")
		}
	})

	t.Run("previous before start stops", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)

		env.controller.Previous(context.Background())

		if env.controller.State() != Idle {
			t.Errorf("expected Idle before first song, got %v", env.controller.State())
		}
	})

	t.Run("lookup failure keeps current song", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)
		env.library.atErr = errors.New("boom")

		env.controller.Next(context.Background())

		if len(env.errs) != 1 {
			t.Fatal("expected a playback error")
		}
		playing, _, _ := env.controller.Now()
		if playing.SongID != 10 {
			t.Errorf("expected song 10 still playing, got %+v", playing)
		}
	})

	t.Run("no-op while idle", func(t *testing.T) {
		env := setupTestController(t)

		env.controller.Next(context.Background())
		env.controller.Previous(context.Background())

		if len(env.library.atCalls) != 0 {
			t.Error("expected no playlist lookups while idle")
		}
	})

	t.Run("stream end advances automatically", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)

		env.driver.sounds[0].onFinish()

		playing, _, _ := env.controller.Now()
		if playing.SongID != 11 {
			t.Errorf("expected song 11 after stream end, got %+v", playing)
		}
	})
}

func TestControllerStop(t *testing.T) {
	env := setupTestController(t)
	playFirst(t, env)

	env.controller.Stop()

	if env.controller.State() != Idle {
		t.Errorf("expected Idle state, got %v", env.controller.State())
	}
	if _, _, ok := env.controller.Now(); ok {
		t.Error("expected playback state cleared")
	}
	if !env.driver.sounds[0].closed {
		t.Error("expected sound handle released")
	}
	if _, ok := env.controller.PlayingPlaylist(); ok {
		t.Error("expected no playing playlist after stop")
	}

	// idempotent
	env.controller.Stop()
}

func TestControllerToggles(t *testing.T) {
	t.Run("toggle play pauses and resumes", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)

		env.controller.TogglePlay()
		if !env.controller.Paused() {
			t.Error("expected paused after first toggle")
		}
		env.controller.TogglePlay()
		if env.controller.Paused() {
			t.Error("expected resumed after second toggle")
		}
	})

	t.Run("volume clamps and applies", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)

		env.controller.SetVolume(150)
		if env.controller.Volume() != 100 {
			t.Errorf("expected clamp to 100, got %d", env.controller.Volume())
		}
		env.controller.SetVolume(-5)
		if env.controller.Volume() != 0 {
			t.Errorf("expected clamp to 0, got %d", env.controller.Volume())
		}
		if env.driver.current(t).volume != 0 {
			t.Error("expected volume applied to the sound handle")
		}
	})

	t.Run("seek forwards to the sound", func(t *testing.T) {
		env := setupTestController(t)
		env.controller.Seek(30)
		playFirst(t, env)

		env.controller.Seek(45)
		if env.driver.current(t).seeked != 45 {
			t.Errorf("expected seek at 45, got %d", env.driver.current(t).seeked)
		}
	})

	t.Run("mute applies to sound", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)

		env.controller.ToggleMute()
		if !env.driver.current(t).muted {
			t.Error("expected sound muted")
		}
		env.controller.ToggleMute()
		if env.driver.current(t).muted {
			t.Error("expected sound unmuted")
		}
	})
}

func TestControllerStartRandom(t *testing.T) {
	t.Run("generates and plays first song", func(t *testing.T) {
		env := setupTestController(t)

		var gotID int64
		var gotErr error
		env.controller.StartRandom(context.Background(), func(playlistID int64, err error) {
			gotID, gotErr = playlistID, err
		})

		if gotErr != nil {
			t.Fatalf("expected success, got %v", gotErr)
		}
		if gotID != 9 {
			t.Errorf("expected playlist id 9, got %d", gotID)
		}
		playing, _, _ := env.controller.Now()
		if playing.SongID != 30 || playing.Position != 0 || playing.PlaylistName != "Random" {
			t.Errorf("unexpected playback state: %+v", playing)
		}
	})

	t.Run("reshuffle requires confirmation", func(t *testing.T) {
		env := setupTestController(t)
		env.controller.StartRandom(context.Background(), func(int64, error) {})
		env.confirm.accept = false

		called := false
		env.controller.StartRandom(context.Background(), func(int64, error) { called = true })

		if len(env.confirm.messages) != 1 {
			t.Fatal("expected a reshuffle prompt")
		}
		if called {
			t.Error("expected no regeneration on decline")
		}
		if got := env.nav.replaced; len(got) != 1 || got[0] != "playing/" {
			t.Errorf("expected return to playing view on decline, got %v", got)
		}
		playing, _, _ := env.controller.Now()
		if playing.SongID != 30 {
			t.Errorf("expected playback untouched on decline, got %+v", playing)
		}
	})

	t.Run("ordinary playlist regenerates without prompt", func(t *testing.T) {
		env := setupTestController(t)
		playFirst(t, env)

		env.controller.StartRandom(context.Background(), func(int64, error) {})

		if len(env.confirm.messages) != 0 {
			t.Error("expected no prompt when Random is not playing")
		}
	})

	t.Run("reports generation failure", func(t *testing.T) {
		env := setupTestController(t)
		env.library.randomErr = errors.New("boom")

		var gotErr error
		env.controller.StartRandom(context.Background(), func(_ int64, err error) { gotErr = err })

		if gotErr == nil {
			t.Fatal("expected an error")
		}
		if env.controller.State() != Idle {
			t.Errorf("expected Idle after failed generation, got %v", env.controller.State())
		}
	})
}

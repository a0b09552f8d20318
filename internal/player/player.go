// package player implements the playback state controller: a state
// machine over the currently playing song, playlist and position.
//
// The controller owns the singleton sound handle. On every path the
// previous handle is torn down before a new one is created, so at most
// one audio stream is ever live.
package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/wissl-audio/trill/internal/api"
)

// State is the controller's lifecycle state.
type State int

const (
	// Idle means nothing is playing and no request is in flight.
	Idle State = iota
	// Loading means a play request is in flight.
	Loading
	// Playing means a sound handle is active.
	Playing
)

// PlaybackState identifies what is currently playing. Replaced
// wholesale on every song change, nil as a whole when idle.
type PlaybackState struct {
	SongID       int64
	PlaylistID   int64
	PlaylistName string
	Position     int
	AlbumID      int64
	ArtistID     int64
}

// PlayRequest asks the controller to play one song of a playlist.
type PlayRequest struct {
	SongID       int64
	PlaylistID   int64
	PlaylistName string
	Position     int
}

// Library is the slice of the API client the controller needs.
type Library interface {
	Song(ctx context.Context, songID int64) (*api.SongResponse, error)
	PlaylistSongAt(ctx context.Context, playlistID int64, position int) (*api.Song, error)
	RandomPlaylist(ctx context.Context, name string, count int) (*api.RandomPlaylistResponse, error)
	StreamURL(songID int64) string
}

// Confirmer presents a confirmation dialog and invokes exactly one of
// the two continuations.
type Confirmer interface {
	Confirm(title, message string, onAccept, onReject func())
}

// Nav is the slice of the history provider the controller needs: the
// random-playlist flow replaces the location on decline.
type Nav interface {
	Replace(fragment string)
}

// The distinguished playlist replaced by random regeneration.
const randomPlaylistName = "Random"

const randomPlaylistSize = 20

// Controller mediates song transitions. All mutation goes through
// explicit play/stop/next/previous requests.
type Controller struct {
	logger  *log.Logger
	library Library
	driver  Driver
	confirm Confirmer
	nav     Nav

	// OnChange, if set, fires after every state transition so the UI
	// can refresh the now-playing surface.
	OnChange func()
	// OnError, if set, receives non-fatal playback errors and fatal
	// session errors alike; the wiring decides which is which.
	OnError func(err error)

	mu      sync.Mutex
	state   State
	playing *PlaybackState
	song    *api.Song
	sound   Sound
	volume  int
	muted   bool
}

// NewController creates an idle Controller.
func NewController(logger *log.Logger, library Library, driver Driver, confirm Confirmer, nav Nav) *Controller {
	return &Controller{
		logger:  logger,
		library: library,
		driver:  driver,
		confirm: confirm,
		nav:     nav,
		volume:  100,
	}
}

// State returns the controller's lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Now returns the active playback state and song metadata.
func (c *Controller) Now() (PlaybackState, *api.Song, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing == nil {
		return PlaybackState{}, nil, false
	}
	return *c.playing, c.song, true
}

// PlayingPlaylist returns the active playlist id, if any. Consulted by
// the router for the "playing" pseudo-route.
func (c *Controller) PlayingPlaylist() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing == nil {
		return 0, false
	}
	return c.playing.PlaylistID, true
}

// Play starts playing the requested song. When a different playlist is
// already playing the user must confirm the interruption; no state
// changes before the accept continuation fires.
func (c *Controller) Play(ctx context.Context, req PlayRequest) {
	c.mu.Lock()
	conflict := c.playing != nil && c.playing.PlaylistID != req.PlaylistID
	c.mu.Unlock()

	if conflict {
		msg := "A song is currently playing from another playlist. Continue?"
		c.confirm.Confirm("New playlist", msg, func() {
			c.play(ctx, req)
		}, func() {})
		return
	}
	c.play(ctx, req)
}

func (c *Controller) play(ctx context.Context, req PlayRequest) {
	c.mu.Lock()
	c.state = Loading
	c.mu.Unlock()
	c.changed()

	meta, err := c.library.Song(ctx, req.SongID)
	if err != nil {
		// metadata failure: previous playback is left untouched
		c.mu.Lock()
		if c.sound != nil {
			c.state = Playing
		} else {
			c.state = Idle
		}
		c.mu.Unlock()
		c.changed()
		c.fail(fmt.Errorf("failed to get song %d: %w", req.SongID, err))
		return
	}

	c.mu.Lock()
	c.teardownLocked()

	sound, err := c.driver.NewSound(c.library.StreamURL(meta.Song.ID), meta.Song.Format, c.onFinish)
	if err != nil {
		c.playing = nil
		c.song = nil
		c.state = Idle
		c.mu.Unlock()
		c.changed()
		c.fail(fmt.Errorf("cannot play %q: %w", meta.Song.Title, err))
		return
	}

	c.playing = &PlaybackState{
		SongID:       meta.Song.ID,
		PlaylistID:   req.PlaylistID,
		PlaylistName: req.PlaylistName,
		Position:     req.Position,
		AlbumID:      meta.Album.ID,
		ArtistID:     meta.Artist.ID,
	}
	c.song = &meta.Song
	c.sound = sound
	c.state = Playing
	sound.SetVolume(c.volume)
	sound.SetMuted(c.muted)
	c.mu.Unlock()

	c.changed()
}

// onFinish is invoked by the sound handle when the stream ends.
func (c *Controller) onFinish() {
	c.Next(context.Background())
}

// Next plays the following song in the current playlist, stopping at
// the end. Valid only while playing.
func (c *Controller) Next(ctx context.Context) {
	c.step(ctx, +1)
}

// Previous plays the preceding song in the current playlist, stopping
// before the start. Valid only while playing.
func (c *Controller) Previous(ctx context.Context) {
	c.step(ctx, -1)
}

func (c *Controller) step(ctx context.Context, delta int) {
	c.mu.Lock()
	if c.state != Playing || c.playing == nil {
		c.mu.Unlock()
		return
	}
	p := *c.playing
	c.mu.Unlock()

	adjacent, err := c.library.PlaylistSongAt(ctx, p.PlaylistID, p.Position+delta)
	if err != nil {
		c.fail(fmt.Errorf("failed to get adjacent song in playlist: %w", err))
		return
	}
	if adjacent == nil {
		c.Stop()
		return
	}

	c.play(ctx, PlayRequest{
		SongID:       adjacent.ID,
		PlaylistID:   p.PlaylistID,
		PlaylistName: p.PlaylistName,
		Position:     p.Position + delta,
	})
}

// Stop tears down playback from any state: the sound handle is
// released, the playback state cleared. Called on logout and on fatal
// session errors.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.teardownLocked()
	c.playing = nil
	c.song = nil
	c.state = Idle
	c.mu.Unlock()
	c.changed()
}

// teardownLocked releases the sound handle. Callers hold c.mu.
func (c *Controller) teardownLocked() {
	if c.sound == nil {
		return
	}
	if err := c.sound.Close(); err != nil {
		c.logger.Warn("failed to close sound handle", "err", err)
	}
	c.sound = nil
}

// TogglePlay pauses or resumes the stream without changing the
// playback state's identity.
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	sound := c.sound
	c.mu.Unlock()
	if sound != nil {
		sound.TogglePause()
		c.changed()
	}
}

// Paused reports whether the stream is paused.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sound != nil && c.sound.Paused()
}

// SetVolume adjusts the playback volume, clamped to 0-100.
func (c *Controller) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	c.mu.Lock()
	c.volume = volume
	if c.sound != nil {
		c.sound.SetVolume(volume)
	}
	c.mu.Unlock()
	c.changed()
}

// Volume returns the configured volume.
func (c *Controller) Volume() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// Seek repositions the stream, where the driver supports it.
func (c *Controller) Seek(seconds int) {
	c.mu.Lock()
	sound := c.sound
	c.mu.Unlock()
	if sound != nil {
		sound.Seek(seconds)
	}
}

// ToggleMute flips the mute flag.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	c.muted = !c.muted
	if c.sound != nil {
		c.sound.SetMuted(c.muted)
	}
	c.mu.Unlock()
	c.changed()
}

// StartRandom regenerates the distinguished "Random" playlist and
// plays its first song. Regeneration replaces the playlist's contents
// server-side and is irreversible, so when that playlist is already
// playing the user must confirm first; declining leaves everything
// untouched and returns to the now-playing location.
func (c *Controller) StartRandom(ctx context.Context, done func(playlistID int64, err error)) {
	c.mu.Lock()
	reshuffle := c.playing != nil && c.playing.PlaylistName == randomPlaylistName
	c.mu.Unlock()

	if reshuffle {
		c.confirm.Confirm("", "Reshuffle Random playlist?", func() {
			c.generateRandom(ctx, done)
		}, func() {
			c.nav.Replace("playing/")
		})
		return
	}
	c.generateRandom(ctx, done)
}

func (c *Controller) generateRandom(ctx context.Context, done func(int64, error)) {
	resp, err := c.library.RandomPlaylist(ctx, randomPlaylistName, randomPlaylistSize)
	if err != nil {
		done(0, err)
		return
	}

	c.play(ctx, PlayRequest{
		SongID:       resp.FirstSong,
		PlaylistID:   resp.Playlist.ID,
		PlaylistName: randomPlaylistName,
		Position:     0,
	})
	done(resp.Playlist.ID, nil)
}

func (c *Controller) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

func (c *Controller) fail(err error) {
	c.logger.Warn("playback error", "err", err)
	if c.OnError != nil {
		c.OnError(err)
	}
}

// package api implements the HTTP client for the Wissl JSON API.
//
// Every request carries the current session token in the "sessionId"
// header. Authentication failures (401, 403, 503) are mapped to
// [shared.ErrSessionExpired] so callers can funnel them into a single
// re-login path.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wissl-audio/trill/internal/shared"
	"golang.org/x/time/rate"
)

// TokenSource supplies the session token attached to outbound requests.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// Client talks to a Wissl server over its JSON API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     TokenSource
	device     string
}

// SetDevice installs the persistent device id sent with every request
// in the "deviceId" header, alongside the session token.
func (c *Client) SetDevice(id string) { c.device = id }

const (
	defaultTimeout = 10 * time.Second
	defaultRate    = 8
)

// NewClient builds a Client for the given base URL, e.g.
// "http://localhost:8080/wissl". The TokenSource must not be nil.
func NewClient(baseURL string, tokens TokenSource, cfg *shared.ServerConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, shared.ErrInvalidConfig)
	}

	timeout := defaultTimeout
	rps := defaultRate
	if cfg != nil {
		if cfg.Timeout > 0 {
			timeout = time.Duration(cfg.Timeout) * time.Second
		}
		if cfg.RequestsPerSecond > 0 {
			rps = cfg.RequestsPerSecond
		}
	}

	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		tokens:     tokens,
	}, nil
}

// Error is a non-auth API failure carrying the HTTP status and the
// server-provided message, if any.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("error %d", e.Status)
}

func (e *Error) Unwrap() error { return shared.ErrAPIRequest }

// authFailure reports whether the status means the session is no longer
// usable. Matches the webapp's fatal statuses: unauthorized, forbidden,
// and service unavailable.
func authFailure(status int) bool {
	return status == http.StatusUnauthorized ||
		status == http.StatusForbidden ||
		status == http.StatusServiceUnavailable
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	full := c.baseURL.String() + "/" + path
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, full, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("sessionId", tok)
	}
	if c.device != "" {
		req.Header.Set("deviceId", c.device)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(data)
		if authFailure(resp.StatusCode) {
			if msg != "" {
				return fmt.Errorf("%w: error %d: %s", shared.ErrSessionExpired, resp.StatusCode, msg)
			}
			return fmt.Errorf("%w: error %d", shared.ErrSessionExpired, resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// serverMessage extracts the "message" field from an error payload.
func serverMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Message
}

func idValues(key string, ids []int64) url.Values {
	form := url.Values{}
	for _, id := range ids {
		form.Add(key, strconv.FormatInt(id, 10))
	}
	return form
}

// Login authenticates with a username and password. The returned
// session token is not stored by the client; establishing the session
// is the caller's business.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	form := url.Values{"username": {username}, "password": {password}}
	var payload LoginResponse
	if err := c.do(ctx, http.MethodPost, "login", form, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrLoginFailed, err)
	}
	return &payload, nil
}

// Logout invalidates the current session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "logout", url.Values{}, nil)
}

// HasUsers reports whether any user account exists on the server.
// Used unauthenticated to branch between first-run setup and login.
func (c *Client) HasUsers(ctx context.Context) (bool, error) {
	var payload struct {
		HasUsers bool `json:"hasusers"`
	}
	if err := c.do(ctx, http.MethodGet, "hasusers", nil, &payload); err != nil {
		return false, err
	}
	return payload.HasUsers, nil
}

// AddUser creates a user account. auth 1 is administrator, 2 is a
// regular user.
func (c *Client) AddUser(ctx context.Context, username, password string, auth int) error {
	form := url.Values{
		"username": {username},
		"password": {password},
		"auth":     {strconv.Itoa(auth)},
	}
	return c.do(ctx, http.MethodPost, "user/add", form, nil)
}

// RemoveUsers deletes the given user accounts.
func (c *Client) RemoveUsers(ctx context.Context, ids []int64) error {
	return c.do(ctx, http.MethodPost, "user/remove", idValues("user_ids[]", ids), nil)
}

// ChangePassword updates the logged user's password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	form := url.Values{
		"old_password": {oldPassword},
		"new_password": {newPassword},
	}
	return c.do(ctx, http.MethodPost, "user/password", form, nil)
}

// Stats retrieves the server runtime statistics.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var payload struct {
		Stats Stats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "stats", nil, &payload); err != nil {
		return nil, err
	}
	return &payload.Stats, nil
}

// Info retrieves server version information.
func (c *Client) Info(ctx context.Context) (*ServerInfo, error) {
	var payload ServerInfo
	if err := c.do(ctx, http.MethodGet, "info", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Recent retrieves the latest added artists and albums.
func (c *Client) Recent(ctx context.Context, count int) (*RecentItems, error) {
	var payload RecentItems
	if err := c.do(ctx, http.MethodGet, "recent/"+strconv.Itoa(count), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Artists retrieves all artists in the library.
func (c *Client) Artists(ctx context.Context) ([]Artist, error) {
	var payload struct {
		Artists []Artist `json:"artists"`
	}
	if err := c.do(ctx, http.MethodGet, "artists", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Artists, nil
}

// Albums retrieves an artist and its albums.
func (c *Client) Albums(ctx context.Context, artistID int64) (*AlbumsResponse, error) {
	var payload AlbumsResponse
	if err := c.do(ctx, http.MethodGet, "albums/"+strconv.FormatInt(artistID, 10), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Songs retrieves an album and its songs.
func (c *Client) Songs(ctx context.Context, albumID int64) (*SongsResponse, error) {
	var payload SongsResponse
	if err := c.do(ctx, http.MethodGet, "songs/"+strconv.FormatInt(albumID, 10), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Song retrieves a single song with its album and artist.
func (c *Client) Song(ctx context.Context, songID int64) (*SongResponse, error) {
	var payload SongResponse
	if err := c.do(ctx, http.MethodGet, "song/"+strconv.FormatInt(songID, 10), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Playlists retrieves the logged user's playlists.
func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	var payload struct {
		Playlists []Playlist `json:"playlists"`
	}
	if err := c.do(ctx, http.MethodGet, "playlists", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Playlists, nil
}

// PlaylistSongs retrieves the songs of one playlist.
func (c *Client) PlaylistSongs(ctx context.Context, playlistID int64) (*PlaylistSongs, error) {
	var payload PlaylistSongs
	path := fmt.Sprintf("playlist/%d/songs", playlistID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// PlaylistSongAt retrieves the song at the given position in a
// playlist. Returns (nil, nil) when the position is past either end.
func (c *Client) PlaylistSongAt(ctx context.Context, playlistID int64, position int) (*Song, error) {
	var payload Song
	path := fmt.Sprintf("playlist/%d/song/%d", playlistID, position)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	if payload.ID == 0 {
		return nil, nil
	}
	return &payload, nil
}

// CreatePlaylist creates an empty named playlist.
func (c *Client) CreatePlaylist(ctx context.Context, name string) (*Playlist, error) {
	var payload struct {
		Playlist Playlist `json:"playlist"`
	}
	form := url.Values{"name": {name}}
	if err := c.do(ctx, http.MethodPost, "playlist/create", form, &payload); err != nil {
		return nil, err
	}
	return &payload.Playlist, nil
}

// CreateAddPlaylist creates a playlist (or reuses the one with the same
// name) and fills it with the given songs and albums. With clear set
// the previous contents are dropped first.
func (c *Client) CreateAddPlaylist(ctx context.Context, name string, songIDs, albumIDs []int64, clear bool) (*CreateAddResponse, error) {
	form := idValues("song_ids[]", songIDs)
	for k, vs := range idValues("album_ids[]", albumIDs) {
		form[k] = vs
	}
	form.Set("name", name)
	form.Set("clear", strconv.FormatBool(clear))

	var payload CreateAddResponse
	if err := c.do(ctx, http.MethodPost, "playlist/create-add", form, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AddToPlaylist appends songs and albums to an existing playlist.
func (c *Client) AddToPlaylist(ctx context.Context, playlistID int64, songIDs, albumIDs []int64) (int, error) {
	form := idValues("song_ids[]", songIDs)
	for k, vs := range idValues("album_ids[]", albumIDs) {
		form[k] = vs
	}

	var payload struct {
		Added int `json:"added"`
	}
	path := fmt.Sprintf("playlist/%d/add", playlistID)
	if err := c.do(ctx, http.MethodPost, path, form, &payload); err != nil {
		return 0, err
	}
	return payload.Added, nil
}

// RemoveFromPlaylist removes the given songs from one playlist.
func (c *Client) RemoveFromPlaylist(ctx context.Context, playlistID int64, songIDs []int64) error {
	path := fmt.Sprintf("playlist/%d/remove", playlistID)
	return c.do(ctx, http.MethodPost, path, idValues("song_ids[]", songIDs), nil)
}

// RemovePlaylists deletes the given playlists.
func (c *Client) RemovePlaylists(ctx context.Context, ids []int64) error {
	return c.do(ctx, http.MethodPost, "playlists/remove", idValues("playlist_ids[]", ids), nil)
}

// RandomPlaylist fills the named playlist with random songs, replacing
// its previous contents server-side.
func (c *Client) RandomPlaylist(ctx context.Context, name string, count int) (*RandomPlaylistResponse, error) {
	form := url.Values{
		"name":   {name},
		"number": {strconv.Itoa(count)},
	}
	var payload RandomPlaylistResponse
	if err := c.do(ctx, http.MethodPost, "playlist/random", form, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Search runs a library search over artists, albums and song titles.
func (c *Client) Search(ctx context.Context, query string) (*SearchResults, error) {
	var payload SearchResults
	if err := c.do(ctx, http.MethodGet, "search/"+url.PathEscape(query), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Users retrieves all user accounts and their active sessions.
func (c *Client) Users(ctx context.Context) (*UsersResponse, error) {
	var payload UsersResponse
	if err := c.do(ctx, http.MethodGet, "users", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// User retrieves one user account with sessions and playlists.
func (c *Client) User(ctx context.Context, id int64) (*UserDetail, error) {
	var payload UserDetail
	if err := c.do(ctx, http.MethodGet, "user/"+strconv.FormatInt(id, 10), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Folders retrieves the music folders indexed by the server.
func (c *Client) Folders(ctx context.Context) ([]string, error) {
	var payload struct {
		Folders []string `json:"folders"`
	}
	if err := c.do(ctx, http.MethodGet, "folders", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Folders, nil
}

// FolderListing lists the server-side contents of a directory, used to
// pick new music folders.
func (c *Client) FolderListing(ctx context.Context, directory string) (*FolderListing, error) {
	var payload FolderListing
	form := url.Values{"directory": {directory}}
	if err := c.do(ctx, http.MethodGet, "folders/listing?"+form.Encode(), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AddFolder registers a new music folder on the server.
func (c *Client) AddFolder(ctx context.Context, directory string) error {
	return c.do(ctx, http.MethodPost, "folders/add", url.Values{"directory": {directory}}, nil)
}

// RemoveFolders unregisters the given music folders.
func (c *Client) RemoveFolders(ctx context.Context, directories []string) error {
	form := url.Values{}
	for _, d := range directories {
		form.Add("directory[]", d)
	}
	return c.do(ctx, http.MethodPost, "folders/remove", form, nil)
}

// IndexerStatus retrieves the state of the server-side library indexer.
func (c *Client) IndexerStatus(ctx context.Context) (*IndexerStatus, error) {
	var payload IndexerStatus
	if err := c.do(ctx, http.MethodGet, "indexer/status", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Rescan asks the server to re-index its music folders.
func (c *Client) Rescan(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "indexer/rescan", url.Values{}, nil)
}

// Shutdown stops the server.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "shutdown", url.Values{}, nil)
}

// EditSongs updates song metadata for the given songs. Empty fields
// are left unchanged server-side.
func (c *Client) EditSongs(ctx context.Context, songIDs []int64, title, position string) error {
	form := idValues("song_ids[]", songIDs)
	form.Set("song_title", title)
	form.Set("position", position)
	return c.do(ctx, http.MethodPost, "edit/song", form, nil)
}

// EditArtist renames the given artists.
func (c *Client) EditArtist(ctx context.Context, artistIDs []int64, name string) error {
	form := idValues("artist_ids[]", artistIDs)
	form.Set("artist_name", name)
	return c.do(ctx, http.MethodPost, "edit/artist", form, nil)
}

// EditAlbum updates album metadata for the given albums. Empty fields
// are left unchanged server-side.
func (c *Client) EditAlbum(ctx context.Context, albumIDs []int64, name, date, genre string) error {
	form := idValues("album_ids[]", albumIDs)
	form.Set("album_name", name)
	form.Set("date", date)
	form.Set("genre", genre)
	return c.do(ctx, http.MethodPost, "edit/album", form, nil)
}

// UploadArtwork replaces an album's cover art. The image goes up as a
// multipart form upload, which is the one request shape the form codec
// in do cannot carry.
func (c *Client) UploadArtwork(ctx context.Context, albumID int64, filename string, art io.Reader) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, art); err != nil {
		return fmt.Errorf("failed to read artwork: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}

	full := c.baseURL.String() + "/edit/artwork/" + strconv.FormatInt(albumID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, full, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("sessionId", tok)
	}
	if c.device != "" {
		req.Header.Set("deviceId", c.device)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		if authFailure(resp.StatusCode) {
			return fmt.Errorf("%w: error %d", shared.ErrSessionExpired, resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: serverMessage(data)}
	}
	return nil
}

// StreamURL builds the streaming URL for a song. The session token
// rides in the query string because media players cannot set headers.
func (c *Client) StreamURL(songID int64) string {
	u := c.baseURL.JoinPath("song", strconv.FormatInt(songID, 10), "stream")
	q := url.Values{"sessionId": {c.tokens.Token()}}
	u.RawQuery = q.Encode()
	return u.String()
}

// ArtURL builds the album artwork URL.
func (c *Client) ArtURL(albumID int64) string {
	return c.baseURL.JoinPath("art", strconv.FormatInt(albumID, 10)).String()
}

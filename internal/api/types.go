package api

// Artist is one artist entry as returned by /artists.
type Artist struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Albums   int    `json:"albums"`
	Songs    int    `json:"songs"`
	Playtime int    `json:"playtime"`
}

// Album is one album entry as returned by /albums/{artist}.
type Album struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Date       string `json:"date"`
	Genre      string `json:"genre"`
	Songs      int    `json:"songs"`
	Playtime   int    `json:"playtime"`
	ArtistID   int64  `json:"artist_id"`
	ArtistName string `json:"artist_name"`
	Artwork    bool   `json:"artwork"`
}

// Song is one song entry as returned by /songs/{album} and /song/{id}.
type Song struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Position   int    `json:"position"`
	Duration   int    `json:"duration"`
	Format     string `json:"format"`
	AlbumID    int64  `json:"album_id"`
	AlbumName  string `json:"album_name"`
	ArtistID   int64  `json:"artist_id"`
	ArtistName string `json:"artist_name"`
}

// Playlist is one playlist entry as returned by /playlists.
type Playlist struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	User     int64  `json:"user"`
	Songs    int    `json:"songs"`
	Playtime int    `json:"playtime"`
}

// User is one user account as returned by /users.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Auth       int    `json:"auth"`
	Downloaded int64  `json:"downloaded"`
}

// IsAdmin reports whether the user has the administrator auth level.
func (u User) IsAdmin() bool { return u.Auth == 1 }

// SessionInfo is one active session as returned by /users.
type SessionInfo struct {
	UserID         int64  `json:"user_id"`
	Username       string `json:"username"`
	LastActivity   int64  `json:"last_activity"`
	CreatedAt      int64  `json:"created_at"`
	LastPlayedSong *Song  `json:"last_played_song,omitempty"`
}

// LoginResponse is the payload returned by a successful /login.
type LoginResponse struct {
	SessionID string `json:"sessionId"`
	UserID    int64  `json:"userId"`
	Auth      int    `json:"auth"`
}

// Stats holds the server runtime statistics shown on the home view.
type Stats struct {
	Songs      int64 `json:"songs"`
	Albums     int64 `json:"albums"`
	Artists    int64 `json:"artists"`
	Playlists  int64 `json:"playlists"`
	Users      int64 `json:"users"`
	Playtime   int64 `json:"playtime"`
	Downloaded int64 `json:"downloaded"`
	Uptime     int64 `json:"uptime"`
}

// ServerInfo is the payload returned by /info, shown on the about view.
type ServerInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Server  string `json:"server"`
	OS      string `json:"os"`
	Java    string `json:"java"`
}

// IndexerStatus is the payload returned by /indexer/status.
type IndexerStatus struct {
	Running     bool    `json:"running"`
	PercentDone float64 `json:"percentDone"`
	SongsDone   int     `json:"songsDone"`
	SongsTodo   int     `json:"songsTodo"`
	SecondsLeft int     `json:"secondsLeft"`
}

// FolderListing is the payload returned by /folders/listing, a
// server-side directory browse used when registering music folders.
type FolderListing struct {
	Directory string   `json:"directory"`
	Parent    string   `json:"parent"`
	Separator string   `json:"separator"`
	Listing   []string `json:"listing"`
}

// SearchResults groups the matches returned by /search/{query}.
type SearchResults struct {
	Artists []Artist `json:"artists"`
	Albums  []Album  `json:"albums"`
	Songs   []Song   `json:"songs"`
}

// RecentItems groups the latest additions returned by /recent/{count}.
type RecentItems struct {
	Artists []Artist `json:"artists"`
	Albums  []Album  `json:"albums"`
}

// PlaylistSongs is the payload returned by /playlist/{id}/songs.
type PlaylistSongs struct {
	Name     string `json:"name"`
	Playlist []Song `json:"playlist"`
}

// CreateAddResponse is the payload returned by /playlist/create-add.
type CreateAddResponse struct {
	Playlist Playlist `json:"playlist"`
	Added    int      `json:"added"`
}

// RandomPlaylistResponse is the payload returned by /playlist/random.
type RandomPlaylistResponse struct {
	Playlist  Playlist `json:"playlist"`
	FirstSong int64    `json:"first_song"`
}

// UserDetail is the payload returned by /user/{id}.
type UserDetail struct {
	User      User          `json:"user"`
	Sessions  []SessionInfo `json:"sessions"`
	Playlists []Playlist    `json:"playlists"`
}

// UsersResponse is the payload returned by /users.
type UsersResponse struct {
	Users    []User        `json:"users"`
	Sessions []SessionInfo `json:"sessions"`
}

// AlbumsResponse is the payload returned by /albums/{artist}.
type AlbumsResponse struct {
	Artist Artist  `json:"artist"`
	Albums []Album `json:"albums"`
}

// SongsResponse is the payload returned by /songs/{album}.
type SongsResponse struct {
	Artist Artist `json:"artist"`
	Album  Album  `json:"album"`
	Songs  []Song `json:"songs"`
}

// SongResponse is the payload returned by /song/{id}.
type SongResponse struct {
	Song   Song   `json:"song"`
	Album  Album  `json:"album"`
	Artist Artist `json:"artist"`
}

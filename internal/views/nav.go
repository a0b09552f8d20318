// package views loads and renders the client's pages: each view
// fetches its data through the API client, renders to a string, and
// hands the result to the presenter together with a navbar context.
package views

import "github.com/wissl-audio/trill/internal/api"

// NavContext tells the navbar what the current page is about. Exactly
// one variant per page kind; consumers switch on the concrete type.
type NavContext interface {
	navContext()
}

// HomeNav is the landing page.
type HomeNav struct{}

// ArtistsNav is the full artist listing.
type ArtistsNav struct{}

// ArtistNav is one artist's album listing.
type ArtistNav struct {
	Artist api.Artist
}

// AlbumNav is one album's song listing.
type AlbumNav struct {
	Artist api.Artist
	Album  api.Album
}

// PlaylistsNav is the playlist listing.
type PlaylistsNav struct{}

// PlaylistNav is one playlist's song listing.
type PlaylistNav struct {
	Playlist api.Playlist
}

// UsersNav is the user listing.
type UsersNav struct{}

// UserNav is one user's detail page.
type UserNav struct {
	User api.User
}

// SettingsNav is the account settings page.
type SettingsNav struct{}

// AdminNav is the server administration page.
type AdminNav struct{}

// AboutNav is the server information page.
type AboutNav struct{}

// SearchNav is a search result page.
type SearchNav struct {
	Query string
}

// PlayingNav is the empty now-playing page shown when nothing plays.
type PlayingNav struct{}

// ErrorNav is the route-not-found page.
type ErrorNav struct {
	Status   string
	Fragment string
}

func (HomeNav) navContext()      {}
func (ArtistsNav) navContext()   {}
func (ArtistNav) navContext()    {}
func (AlbumNav) navContext()     {}
func (PlaylistsNav) navContext() {}
func (PlaylistNav) navContext()  {}
func (UsersNav) navContext()     {}
func (UserNav) navContext()      {}
func (SettingsNav) navContext()  {}
func (AdminNav) navContext()     {}
func (AboutNav) navContext()     {}
func (SearchNav) navContext()    {}
func (PlayingNav) navContext()   {}
func (ErrorNav) navContext()     {}

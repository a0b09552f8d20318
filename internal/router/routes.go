// package router implements client-side navigation: the route table
// mapping location fragments to views, the history provider, and the
// view dispatcher that serializes view transitions.
package router

import "regexp"

// View identifies one page of the client.
type View int

const (
	ViewHome View = iota
	ViewArtists
	ViewAlbums
	ViewSongs
	ViewPlaylists
	ViewPlaylist
	ViewUsers
	ViewUser
	ViewSettings
	ViewAdmin
	ViewAbout
	ViewSearch
	ViewError

	// Pseudo-routes with router-level semantics.
	ViewPlaying
	ViewRandom
	ViewLogout
)

var viewNames = map[View]string{
	ViewHome:      "home",
	ViewArtists:   "artists",
	ViewAlbums:    "albums",
	ViewSongs:     "songs",
	ViewPlaylists: "playlists",
	ViewPlaylist:  "playlist",
	ViewUsers:     "users",
	ViewUser:      "user",
	ViewSettings:  "settings",
	ViewAdmin:     "admin",
	ViewAbout:     "about",
	ViewSearch:    "search",
	ViewError:     "error",
	ViewPlaying:   "playing",
	ViewRandom:    "random",
	ViewLogout:    "logout",
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return "unknown"
}

// Match is a resolved route: the view to show and the parameters
// extracted from the fragment, in pattern order.
type Match struct {
	View   View
	Params []string
}

type route struct {
	pattern *regexp.Regexp
	view    View
}

// Ordered route table, first structural match wins. Order matters:
// a bare "search" fragment falls through to the home view while
// "search/<query>" is a search. Trailing slashes are insignificant,
// numeric id segments must be integers.
var routes = []route{
	{regexp.MustCompile(`^artists/?$`), ViewArtists},
	{regexp.MustCompile(`^playlists/?$`), ViewPlaylists},
	{regexp.MustCompile(`^albums/([0-9]+)$`), ViewAlbums},
	{regexp.MustCompile(`^songs/([0-9]+)$`), ViewSongs},
	{regexp.MustCompile(`^playlist/([0-9]+)$`), ViewPlaylist},
	{regexp.MustCompile(`^playing/?$`), ViewPlaying},
	{regexp.MustCompile(`^random/?$`), ViewRandom},
	{regexp.MustCompile(`^users/?$`), ViewUsers},
	{regexp.MustCompile(`^user/([0-9]+)$`), ViewUser},
	{regexp.MustCompile(`^settings/?$`), ViewSettings},
	{regexp.MustCompile(`^admin/?$`), ViewAdmin},
	{regexp.MustCompile(`^about/?$`), ViewAbout},
	{regexp.MustCompile(`^search/([\S ]+)$`), ViewSearch},
	{regexp.MustCompile(`^search/?$`), ViewHome},
	{regexp.MustCompile(`^logout/?$`), ViewLogout},
}

// Resolve maps a location fragment to a view. The empty fragment is
// the home view. Returns false when no route matches; resolving has no
// side effects.
func Resolve(fragment string) (Match, bool) {
	fragment = normalize(fragment)
	if fragment == "" {
		return Match{View: ViewHome}, true
	}

	for _, r := range routes {
		m := r.pattern.FindStringSubmatch(fragment)
		if m == nil {
			continue
		}
		return Match{View: r.view, Params: m[1:]}, true
	}
	return Match{}, false
}

// normalize strips the optional leading separators a fragment may
// carry ("?albums/42", "/albums/42").
func normalize(fragment string) string {
	for len(fragment) > 0 && (fragment[0] == '?' || fragment[0] == '/') {
		fragment = fragment[1:]
	}
	return fragment
}

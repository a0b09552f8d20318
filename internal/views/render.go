package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wissl-audio/trill/internal/api"
	"github.com/wissl-audio/trill/internal/router"
	"github.com/wissl-audio/trill/internal/shared"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// Palette is a simple stylesheet built with named [lipgloss.Style] fields.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func renderHome(stats *api.Stats, recent *api.RecentItems) string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Library"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d artists, %d albums, %d songs\n", stats.Artists, stats.Albums, stats.Songs)
	fmt.Fprintf(&b, "%d playlists, %d users\n", stats.Playlists, stats.Users)
	fmt.Fprintf(&b, "Total playtime %s\n", shared.FormatSeconds(int(stats.Playtime)))

	if len(recent.Albums) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.title.Render("Recently added"))
		b.WriteString("\n")
		for _, album := range recent.Albums {
			fmt.Fprintf(&b, "%s %s\n", album.Name, styles.help.Render(album.ArtistName))
		}
	}
	return b.String()
}

func renderArtists(artists []api.Artist) string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Artists"))
	b.WriteString("\n")
	if len(artists) == 0 {
		b.WriteString(styles.help.Render("The library is empty."))
		b.WriteString("\n")
		return b.String()
	}
	for _, artist := range artists {
		fmt.Fprintf(&b, "%s %s\n", artist.Name,
			styles.help.Render(fmt.Sprintf("%d albums, %d songs", artist.Albums, artist.Songs)))
	}
	return b.String()
}

func renderAlbums(resp *api.AlbumsResponse) string {
	var b strings.Builder
	b.WriteString(styles.title.Render(resp.Artist.Name))
	b.WriteString("\n")
	for _, album := range resp.Albums {
		line := album.Name
		if album.Date != "" {
			line = fmt.Sprintf("%s (%s)", line, album.Date)
		}
		fmt.Fprintf(&b, "%s %s\n", line,
			styles.help.Render(fmt.Sprintf("%d songs, %s", album.Songs, shared.FormatSeconds(album.Playtime))))
	}
	return b.String()
}

func renderSongs(resp *api.SongsResponse) string {
	return styles.title.Render(fmt.Sprintf("%s / %s", resp.Artist.Name, resp.Album.Name)) + "\n"
}

// albumSongItems builds the selectable rows of an album page.
func albumSongItems(songs []api.Song) []ListItem {
	items := make([]ListItem, 0, len(songs))
	for _, song := range songs {
		items = append(items, ListItem{
			Sel: router.SongItem(song.ID),
			Label: fmt.Sprintf("%2d. %s %s", song.Position, song.Title,
				styles.help.Render(shared.FormatSeconds(song.Duration))),
		})
	}
	return items
}

func renderPlaylists(playlists []api.Playlist) string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Playlists"))
	b.WriteString("\n")
	if len(playlists) == 0 {
		b.WriteString(styles.help.Render("No playlists yet."))
		b.WriteString("\n")
	}
	return b.String()
}

// playlistItems builds the selectable rows of the playlists page.
func playlistItems(playlists []api.Playlist) []ListItem {
	items := make([]ListItem, 0, len(playlists))
	for _, p := range playlists {
		items = append(items, ListItem{
			Sel: router.PlaylistItem(p.ID),
			Label: fmt.Sprintf("%s %s", p.Name,
				styles.help.Render(fmt.Sprintf("%d songs, %s", p.Songs, shared.FormatSeconds(p.Playtime)))),
		})
	}
	return items
}

func renderPlaylist(resp *api.PlaylistSongs) string {
	return styles.title.Render(resp.Name) + "\n"
}

// playlistSongItems builds the selectable rows of one playlist's page.
func playlistSongItems(songs []api.Song) []ListItem {
	items := make([]ListItem, 0, len(songs))
	for i, song := range songs {
		items = append(items, ListItem{
			Sel: router.SongItem(song.ID),
			Label: fmt.Sprintf("%2d. %s %s %s", i+1, song.Title,
				styles.help.Render(song.ArtistName),
				styles.help.Render(shared.FormatSeconds(song.Duration))),
		})
	}
	return items
}

func renderUsers(resp *api.UsersResponse) string {
	connected := make(map[int64]bool, len(resp.Sessions))
	for _, s := range resp.Sessions {
		connected[s.UserID] = true
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Users"))
	b.WriteString("\n")
	for _, u := range resp.Users {
		line := u.Username
		if u.IsAdmin() {
			line = fmt.Sprintf("%s %s", line, styles.warn.Render("admin"))
		}
		if connected[u.ID] {
			line = fmt.Sprintf("%s %s", line, styles.ok.Render("online"))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func renderUser(detail *api.UserDetail) string {
	var b strings.Builder
	b.WriteString(styles.title.Render(detail.User.Username))
	b.WriteString("\n")
	if detail.User.IsAdmin() {
		b.WriteString(styles.warn.Render("Administrator"))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Downloaded %d bytes\n", detail.User.Downloaded)
	if len(detail.Playlists) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.title.Render("Playlists"))
		b.WriteString("\n")
		for _, p := range detail.Playlists {
			fmt.Fprintf(&b, "%s %s\n", p.Name,
				styles.help.Render(fmt.Sprintf("%d songs", p.Songs)))
		}
	}
	return b.String()
}

func renderSettings(detail *api.UserDetail) string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Settings"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Logged in as %s\n", detail.User.Username)
	if detail.User.IsAdmin() {
		b.WriteString(styles.warn.Render("Administrator account"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.help.Render("Press c to change your password."))
	b.WriteString("\n")
	return b.String()
}

func renderAdmin(folders []string, status *api.IndexerStatus) string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Administration"))
	b.WriteString("\n")
	b.WriteString(RenderIndexerStatus(status))
	b.WriteString("\n")
	b.WriteString(styles.title.Render("Music folders"))
	b.WriteString("\n")
	if len(folders) == 0 {
		b.WriteString(styles.help.Render("No music folders registered."))
		b.WriteString("\n")
		return b.String()
	}
	for _, folder := range folders {
		b.WriteString(folder)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderIndexerStatus is also used for live poller updates.
func RenderIndexerStatus(status *api.IndexerStatus) string {
	if !status.Running {
		return styles.ok.Render("Indexer idle") + "\n"
	}
	return fmt.Sprintf("%s %.0f%% (%d/%d songs, %s left)\n",
		styles.warn.Render("Indexing"), status.PercentDone,
		status.SongsDone, status.SongsTodo,
		shared.FormatSeconds(status.SecondsLeft))
}

func renderAbout(info *api.ServerInfo) string {
	var b strings.Builder
	b.WriteString(styles.title.Render("About"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Server  %s\n", info.Server)
	fmt.Fprintf(&b, "Version %s", info.Version)
	if info.Build != "" {
		fmt.Fprintf(&b, " (%s)", info.Build)
	}
	b.WriteString("\n")
	if info.OS != "" {
		fmt.Fprintf(&b, "OS      %s\n", info.OS)
	}
	return b.String()
}

func renderSearch(query string, results *api.SearchResults) string {
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Search: %s", query)))
	b.WriteString("\n")

	total := len(results.Artists) + len(results.Albums) + len(results.Songs)
	if total == 0 {
		b.WriteString(styles.help.Render("No matches."))
		b.WriteString("\n")
		return b.String()
	}

	if len(results.Artists) > 0 {
		b.WriteString(styles.title.Render("Artists"))
		b.WriteString("\n")
		for _, a := range results.Artists {
			b.WriteString(a.Name)
			b.WriteString("\n")
		}
	}
	if len(results.Albums) > 0 {
		b.WriteString(styles.title.Render("Albums"))
		b.WriteString("\n")
		for _, a := range results.Albums {
			fmt.Fprintf(&b, "%s %s\n", a.Name, styles.help.Render(a.ArtistName))
		}
	}
	if len(results.Songs) > 0 {
		b.WriteString(styles.title.Render("Songs"))
		b.WriteString("\n")
		for _, s := range results.Songs {
			fmt.Fprintf(&b, "%s %s\n", s.Title, styles.help.Render(s.ArtistName))
		}
	}
	return b.String()
}

func renderError(status, fragment string) string {
	var b strings.Builder
	b.WriteString(styles.err.Render(fmt.Sprintf("Error %s", status)))
	b.WriteString("\n")
	if fragment != "" {
		fmt.Fprintf(&b, "No such page: %s\n", fragment)
	}
	b.WriteString(styles.help.Render("Press esc to go back."))
	b.WriteString("\n")
	return b.String()
}

func renderPlayingEmpty() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Now playing"))
	b.WriteString("\n")
	b.WriteString(styles.help.Render("Not playing anything."))
	b.WriteString("\n")
	return b.String()
}

package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/wissl-audio/trill/internal/api"
	"github.com/wissl-audio/trill/internal/poller"
	"github.com/wissl-audio/trill/internal/router"
	"github.com/wissl-audio/trill/internal/session"
	"github.com/wissl-audio/trill/internal/shared"
)

// Page is one rendered view. Items, when present, are the selectable
// rows below the content; the shell owns the cursor and feeds row
// selections into the dispatcher's selection set.
type Page struct {
	View    router.View
	Nav     NavContext
	Content string
	Items   []ListItem
	Scroll  int
}

// ListItem is one selectable row, in display order. Sel identifies the
// row in the selection set, Label is the rendered row text.
type ListItem struct {
	Sel   router.Item
	Label string
}

// Presenter receives rendered pages. The TUI implements it.
type Presenter interface {
	Present(page Page)
}

const recentCount = 10

// Loaders holds one view loader per route. Loaders fetch through the
// API client, render, present, and signal completion through the
// request's Done callback.
type Loaders struct {
	logger   *log.Logger
	client   *api.Client
	sessions *session.Store
	indexer  *poller.Indexer
	present  Presenter
}

// NewLoaders wires the view loaders.
func NewLoaders(logger *log.Logger, client *api.Client, sessions *session.Store, indexer *poller.Indexer, present Presenter) *Loaders {
	return &Loaders{
		logger:   logger,
		client:   client,
		sessions: sessions,
		indexer:  indexer,
		present:  present,
	}
}

// RegisterAll installs every view loader on the dispatcher.
func (l *Loaders) RegisterAll(d *router.Dispatcher) {
	d.Register(router.ViewHome, l.home)
	d.Register(router.ViewArtists, l.artists)
	d.Register(router.ViewAlbums, l.albums)
	d.Register(router.ViewSongs, l.songs)
	d.Register(router.ViewPlaylists, l.playlists)
	d.Register(router.ViewPlaylist, l.playlist)
	d.Register(router.ViewUsers, l.users)
	d.Register(router.ViewUser, l.user)
	d.Register(router.ViewSettings, l.settings)
	d.Register(router.ViewAdmin, l.admin)
	d.Register(router.ViewAbout, l.about)
	d.Register(router.ViewSearch, l.search)
	d.Register(router.ViewError, l.errorPage)
	d.Register(router.ViewPlaying, l.playingEmpty)
}

func (l *Loaders) show(req router.LoadRequest, nav NavContext, content string) {
	l.showList(req, nav, content, nil)
}

func (l *Loaders) showList(req router.LoadRequest, nav NavContext, content string, items []ListItem) {
	l.present.Present(Page{
		View:    req.View,
		Nav:     nav,
		Content: content,
		Items:   items,
		Scroll:  req.Scroll,
	})
	req.Done(nil)
}

func (l *Loaders) home(ctx context.Context, req router.LoadRequest) {
	stats, err := l.client.Stats(ctx)
	if err != nil {
		req.Done(err)
		return
	}
	recent, err := l.client.Recent(ctx, recentCount)
	if err != nil {
		req.Done(err)
		return
	}
	l.show(req, HomeNav{}, renderHome(stats, recent))
}

func (l *Loaders) artists(ctx context.Context, req router.LoadRequest) {
	artists, err := l.client.Artists(ctx)
	if err != nil {
		req.Done(err)
		return
	}
	l.show(req, ArtistsNav{}, renderArtists(artists))
}

func (l *Loaders) albums(ctx context.Context, req router.LoadRequest) {
	artistID, err := routeID(req.Params)
	if err != nil {
		req.Done(err)
		return
	}
	resp, err := l.client.Albums(ctx, artistID)
	if err != nil {
		req.Done(err)
		return
	}
	l.show(req, ArtistNav{Artist: resp.Artist}, renderAlbums(resp))
}

func (l *Loaders) songs(ctx context.Context, req router.LoadRequest) {
	albumID, err := routeID(req.Params)
	if err != nil {
		req.Done(err)
		return
	}
	resp, err := l.client.Songs(ctx, albumID)
	if err != nil {
		req.Done(err)
		return
	}
	l.showList(req, AlbumNav{Artist: resp.Artist, Album: resp.Album}, renderSongs(resp), albumSongItems(resp.Songs))
}

func (l *Loaders) playlists(ctx context.Context, req router.LoadRequest) {
	playlists, err := l.client.Playlists(ctx)
	if err != nil {
		req.Done(err)
		return
	}
	l.showList(req, PlaylistsNav{}, renderPlaylists(playlists), playlistItems(playlists))
}

func (l *Loaders) playlist(ctx context.Context, req router.LoadRequest) {
	playlistID, err := routeID(req.Params)
	if err != nil {
		req.Done(err)
		return
	}
	resp, err := l.client.PlaylistSongs(ctx, playlistID)
	if err != nil {
		req.Done(err)
		return
	}
	nav := PlaylistNav{Playlist: api.Playlist{
		ID:    playlistID,
		Name:  resp.Name,
		Songs: len(resp.Playlist),
	}}
	l.showList(req, nav, renderPlaylist(resp), playlistSongItems(resp.Playlist))
}

func (l *Loaders) users(ctx context.Context, req router.LoadRequest) {
	resp, err := l.client.Users(ctx)
	if err != nil {
		req.Done(err)
		return
	}
	l.show(req, UsersNav{}, renderUsers(resp))
}

func (l *Loaders) user(ctx context.Context, req router.LoadRequest) {
	userID, err := routeID(req.Params)
	if err != nil {
		req.Done(err)
		return
	}
	detail, err := l.client.User(ctx, userID)
	if err != nil {
		req.Done(err)
		return
	}
	l.show(req, UserNav{User: detail.User}, renderUser(detail))
}

func (l *Loaders) settings(ctx context.Context, req router.LoadRequest) {
	sess, ok := l.sessions.Current()
	if !ok {
		req.Done(shared.ErrNotAuthenticated)
		return
	}
	detail, err := l.client.User(ctx, sess.UserID)
	if err != nil {
		req.Done(err)
		return
	}
	l.show(req, SettingsNav{}, renderSettings(detail))
}

// admin also owns the indexer poller: it runs off the view context so
// navigating away cancels it.
func (l *Loaders) admin(ctx context.Context, req router.LoadRequest) {
	folders, err := l.client.Folders(ctx)
	if err != nil {
		req.Done(err)
		return
	}
	status, err := l.client.IndexerStatus(ctx)
	if err != nil {
		req.Done(err)
		return
	}
	if status.Running {
		l.indexer.Start(ctx)
	}
	l.show(req, AdminNav{}, renderAdmin(folders, status))
}

func (l *Loaders) about(ctx context.Context, req router.LoadRequest) {
	info, err := l.client.Info(ctx)
	if err != nil {
		req.Done(err)
		return
	}
	l.show(req, AboutNav{}, renderAbout(info))
}

func (l *Loaders) search(ctx context.Context, req router.LoadRequest) {
	if len(req.Params) == 0 {
		req.Done(fmt.Errorf("%w: missing search query", shared.ErrInvalidInput))
		return
	}
	query := req.Params[0]
	results, err := l.client.Search(ctx, query)
	if err != nil {
		req.Done(err)
		return
	}
	l.show(req, SearchNav{Query: query}, renderSearch(query, results))
}

func (l *Loaders) errorPage(ctx context.Context, req router.LoadRequest) {
	status, fragment := "error", ""
	if len(req.Params) > 0 {
		status = req.Params[0]
	}
	if len(req.Params) > 1 {
		fragment = req.Params[1]
	}
	l.show(req, ErrorNav{Status: status, Fragment: fragment}, renderError(status, fragment))
}

func (l *Loaders) playingEmpty(ctx context.Context, req router.LoadRequest) {
	l.show(req, PlayingNav{}, renderPlayingEmpty())
}

func routeID(params []string) (int64, error) {
	if len(params) == 0 {
		return 0, fmt.Errorf("%w: missing route id", shared.ErrInvalidInput)
	}
	id, err := strconv.ParseInt(params[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad route id %q", shared.ErrInvalidInput, params[0])
	}
	return id, nil
}

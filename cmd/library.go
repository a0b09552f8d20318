package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/wissl-audio/trill/internal/api"
	"github.com/wissl-audio/trill/internal/formatter"
	"github.com/wissl-audio/trill/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the library and prints artists, albums and songs.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	if err := r.connect(); err != nil {
		return err
	}

	results, err := r.client.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	if len(results.Artists) == 0 && len(results.Albums) == 0 && len(results.Songs) == 0 {
		r.writePlain("No results for %q\n", query)
		return nil
	}

	if len(results.Artists) > 0 {
		r.writePlainln("Artists:")
		for _, a := range results.Artists {
			r.writePlain("  %d  %s (%d albums)\n", a.ID, a.Name, a.Albums)
		}
	}
	if len(results.Albums) > 0 {
		r.writePlainln("Albums:")
		for _, a := range results.Albums {
			r.writePlain("  %d  %s - %s\n", a.ID, a.ArtistName, a.Name)
		}
	}
	if len(results.Songs) > 0 {
		r.writePlainln("Songs:")
		for _, s := range results.Songs {
			r.writePlain("  %d  %s - %s [%s]\n", s.ID, s.ArtistName, s.Title, shared.FormatSeconds(s.Duration))
		}
	}
	return nil
}

// PlaylistsList prints the user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	playlists, err := r.client.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	if len(playlists) == 0 {
		r.writePlain("No playlists\n")
		return nil
	}
	for _, p := range playlists {
		r.writePlain("%d  %s (%d songs, %s)\n", p.ID, p.Name, p.Songs, shared.FormatSeconds(p.Playtime))
	}
	return nil
}

// PlaylistShow prints the songs of one playlist.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	id := cmd.Int64("id")
	songs, err := r.client.PlaylistSongs(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch playlist %d: %w", id, err)
	}

	r.writePlain("%s\n", songs.Name)
	for i, s := range songs.Playlist {
		r.writePlain("%d. %s - %s (%s) [%s]\n", i+1, s.ArtistName, s.Title, s.AlbumName, shared.FormatSeconds(s.Duration))
	}
	return nil
}

// PlaylistCreate creates an empty playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.String("name"))
	if name == "" {
		return shared.ErrEmptyName
	}

	if err := r.connect(); err != nil {
		return err
	}

	playlist, err := r.client.CreatePlaylist(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	r.writePlain("✓ Created playlist %q (id %d)\n", playlist.Name, playlist.ID)
	return nil
}

// PlaylistRemove deletes playlists by id.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Int64Slice("id")
	if len(ids) == 0 {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	if err := r.connect(); err != nil {
		return err
	}

	if err := r.client.RemovePlaylists(ctx, ids); err != nil {
		return fmt.Errorf("failed to remove playlists: %w", err)
	}

	r.writePlain("✓ Removed %d playlist(s)\n", len(ids))
	return nil
}

// PlaylistExport writes a playlist to CSV, Markdown or plain text files.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	id := cmd.Int64("id")
	songs, err := r.client.PlaylistSongs(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch playlist %d: %w", id, err)
	}

	export := &formatter.Export{
		Playlist: api.Playlist{ID: id, Name: songs.Name, Songs: len(songs.Playlist)},
		Songs:    songs.Playlist,
	}
	for _, s := range songs.Playlist {
		export.Playlist.Playtime += s.Duration
	}

	output := cmd.String("output")
	switch format := cmd.String("format"); format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported to %s and %s\n", result.SongsFile, result.MetadataFile)
	case "md":
		var imageURL string
		if len(songs.Playlist) > 0 {
			imageURL = r.client.ArtURL(songs.Playlist[0].AlbumID)
		}
		result, err := formatter.WriteMarkdownExport(export, output, imageURL)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported to %s\n", strings.Join(result.Files, ", "))
	case "txt":
		file, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported to %s\n", file)
	default:
		return fmt.Errorf("%w: unknown format %q, expected csv, md or txt", shared.ErrInvalidInput, format)
	}
	return nil
}

// Random regenerates the Random playlist on the server.
func (r *Runner) Random(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	count := cmd.Int("count")
	resp, err := r.client.RandomPlaylist(ctx, "Random", count)
	if err != nil {
		return fmt.Errorf("failed to regenerate random playlist: %w", err)
	}

	r.writePlain("✓ Random playlist regenerated (%d songs, id %d)\n", resp.Playlist.Songs, resp.Playlist.ID)
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wissl-audio/trill/internal/shared"
	"github.com/urfave/cli/v3"
)

// EditSong updates title or track position for the given songs.
func (r *Runner) EditSong(ctx context.Context, cmd *cli.Command) error {
	title := cmd.String("title")
	position := cmd.String("position")
	if title == "" && position == "" {
		return fmt.Errorf("%w: nothing to change, pass --title or --position", shared.ErrMissingArgument)
	}

	if err := r.connect(); err != nil {
		return err
	}

	ids := cmd.Int64Slice("id")
	if err := r.client.EditSongs(ctx, ids, title, position); err != nil {
		return fmt.Errorf("failed to edit songs: %w", err)
	}

	r.writePlain("✓ Updated %d song(s)\n", len(ids))
	return nil
}

// EditAlbum updates name, date or genre for the given albums.
func (r *Runner) EditAlbum(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	date := cmd.String("date")
	genre := cmd.String("genre")
	if name == "" && date == "" && genre == "" {
		return fmt.Errorf("%w: nothing to change, pass --name, --date or --genre", shared.ErrMissingArgument)
	}

	if err := r.connect(); err != nil {
		return err
	}

	ids := cmd.Int64Slice("id")
	if err := r.client.EditAlbum(ctx, ids, name, date, genre); err != nil {
		return fmt.Errorf("failed to edit albums: %w", err)
	}

	r.writePlain("✓ Updated %d album(s)\n", len(ids))
	return nil
}

// EditArtist renames the given artists.
func (r *Runner) EditArtist(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	ids := cmd.Int64Slice("id")
	if err := r.client.EditArtist(ctx, ids, cmd.String("name")); err != nil {
		return fmt.Errorf("failed to rename artists: %w", err)
	}

	r.writePlain("✓ Renamed %d artist(s)\n", len(ids))
	return nil
}

// EditArtwork uploads new cover art for an album.
func (r *Runner) EditArtwork(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	path := cmd.String("file")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	albumID := cmd.Int64("id")
	if err := r.client.UploadArtwork(ctx, albumID, filepath.Base(path), f); err != nil {
		return fmt.Errorf("failed to upload artwork: %w", err)
	}

	r.writePlain("✓ Artwork updated for album %d\n", albumID)
	return nil
}

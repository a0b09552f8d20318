package main

import (
	"context"
	"fmt"

	"github.com/wissl-audio/trill/internal/views"
	"github.com/urfave/cli/v3"
)

// AdminFolders lists the music folders indexed by the server.
func (r *Runner) AdminFolders(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	folders, err := r.client.Folders(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch folders: %w", err)
	}

	if len(folders) == 0 {
		r.writePlain("No music folders configured\n")
		return nil
	}
	for _, f := range folders {
		r.writePlain("%s\n", f)
	}
	return nil
}

// AdminFoldersAdd registers a music folder with the server.
func (r *Runner) AdminFoldersAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	path := cmd.String("path")
	if err := r.client.AddFolder(ctx, path); err != nil {
		return fmt.Errorf("failed to add folder: %w", err)
	}

	r.writePlain("✓ Added %s\n", path)
	return nil
}

// AdminFoldersRemove unregisters music folders.
func (r *Runner) AdminFoldersRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	paths := cmd.StringSlice("path")
	if err := r.client.RemoveFolders(ctx, paths); err != nil {
		return fmt.Errorf("failed to remove folders: %w", err)
	}

	r.writePlain("✓ Removed %d folder(s)\n", len(paths))
	return nil
}

// AdminFoldersBrowse lists server-side directories so an admin can
// find the path to add.
func (r *Runner) AdminFoldersBrowse(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	listing, err := r.client.FolderListing(ctx, cmd.String("path"))
	if err != nil {
		return fmt.Errorf("failed to list directory: %w", err)
	}

	if listing.Directory != "" {
		r.writePlain("%s\n", listing.Directory)
	}
	if len(listing.Listing) == 0 {
		r.writePlain("No subdirectories\n")
		return nil
	}
	for _, dir := range listing.Listing {
		r.writePlain("%s%s%s\n", listing.Directory, listing.Separator, dir)
	}
	return nil
}

// AdminUsers lists user accounts.
func (r *Runner) AdminUsers(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	resp, err := r.client.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	for _, u := range resp.Users {
		line := fmt.Sprintf("%d  %s", u.ID, u.Username)
		if u.IsAdmin() {
			line += "  admin"
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// AdminUsersRemove deletes user accounts by id.
func (r *Runner) AdminUsersRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	ids := cmd.Int64Slice("id")
	if err := r.client.RemoveUsers(ctx, ids); err != nil {
		return fmt.Errorf("failed to remove users: %w", err)
	}

	r.writePlain("✓ Removed %d user(s)\n", len(ids))
	return nil
}

// AdminRescan triggers a library rescan.
func (r *Runner) AdminRescan(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	if err := r.client.Rescan(ctx); err != nil {
		return fmt.Errorf("failed to trigger rescan: %w", err)
	}

	r.writePlain("✓ Rescan started\n")
	return nil
}

// AdminIndexer prints the indexer's current status.
func (r *Runner) AdminIndexer(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	status, err := r.client.IndexerStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch indexer status: %w", err)
	}

	r.writePlain("%s\n", views.RenderIndexerStatus(status))
	return nil
}

// AdminShutdown shuts the server down.
func (r *Runner) AdminShutdown(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	if err := r.client.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut the server down: %w", err)
	}

	r.writePlain("✓ Server shutting down\n")
	return nil
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the config file and the local store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the local store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// loginCommand authenticates against the server.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in to the Wissl server",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "username"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password (prompted when omitted)",
			},
		},
		Action: r.Login,
	}
}

// logoutCommand ends the server session.
func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "End the current session",
		Action: r.Logout,
	}
}

// statusCommand shows server and session state.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show server statistics and session state",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Status,
	}
}

// searchCommand searches the library.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search artists, albums and songs",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Search,
	}
}

// playlistsCommand handles playlist operations.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "show",
				Usage: "Show a playlist's songs",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Usage: "Playlist ID", Required: true},
				},
				Action: r.PlaylistShow,
			},
			{
				Name:  "create",
				Usage: "Create an empty playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Playlist name", Required: true},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "remove",
				Usage: "Delete playlists",
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{Name: "id", Usage: "Playlist ID (repeatable)", Required: true},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to CSV, Markdown or plain text",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Usage: "Playlist ID", Required: true},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, md or txt",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (base filename or directory)",
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// randomCommand regenerates the random playlist.
func randomCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "random",
		Usage: "Regenerate the Random playlist",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Usage: "Number of songs", Value: 20},
		},
		Action: r.Random,
	}
}

// editCommand groups library metadata editing operations.
func editCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Edit library metadata",
		Commands: []*cli.Command{
			{
				Name:  "song",
				Usage: "Edit song metadata",
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{Name: "id", Usage: "Song ID (repeatable)", Required: true},
					&cli.StringFlag{Name: "title", Usage: "New title"},
					&cli.StringFlag{Name: "position", Usage: "New track position"},
				},
				Action: r.EditSong,
			},
			{
				Name:  "album",
				Usage: "Edit album metadata",
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{Name: "id", Usage: "Album ID (repeatable)", Required: true},
					&cli.StringFlag{Name: "name", Usage: "New name"},
					&cli.StringFlag{Name: "date", Usage: "New release date"},
					&cli.StringFlag{Name: "genre", Usage: "New genre"},
				},
				Action: r.EditAlbum,
			},
			{
				Name:  "artist",
				Usage: "Rename artists",
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{Name: "id", Usage: "Artist ID (repeatable)", Required: true},
					&cli.StringFlag{Name: "name", Usage: "New name", Required: true},
				},
				Action: r.EditArtist,
			},
			{
				Name:  "artwork",
				Usage: "Upload album cover art",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Usage: "Album ID", Required: true},
					&cli.StringFlag{Name: "file", Usage: "Image file", Required: true},
				},
				Action: r.EditArtwork,
			},
		},
	}
}

// adminCommand groups server administration operations.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Server administration",
		Commands: []*cli.Command{
			{
				Name:   "folders",
				Usage:  "List the music folders indexed by the server",
				Action: r.AdminFolders,
			},
			{
				Name:  "folders-add",
				Usage: "Register a music folder",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Usage: "Server-side directory", Required: true},
				},
				Action: r.AdminFoldersAdd,
			},
			{
				Name:  "folders-browse",
				Usage: "Browse server-side directories when adding a folder",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Usage: "Directory to list (server roots when omitted)"},
				},
				Action: r.AdminFoldersBrowse,
			},
			{
				Name:   "users",
				Usage:  "List user accounts",
				Action: r.AdminUsers,
			},
			{
				Name:  "users-remove",
				Usage: "Delete user accounts",
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{Name: "id", Usage: "User ID (repeatable)", Required: true},
				},
				Action: r.AdminUsersRemove,
			},
			{
				Name:  "folders-remove",
				Usage: "Unregister music folders",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "path", Usage: "Server-side directory (repeatable)", Required: true},
				},
				Action: r.AdminFoldersRemove,
			},
			{
				Name:   "rescan",
				Usage:  "Trigger a library rescan",
				Action: r.AdminRescan,
			},
			{
				Name:   "indexer",
				Usage:  "Show indexer status",
				Action: r.AdminIndexer,
			},
			{
				Name:   "shutdown",
				Usage:  "Shut the server down",
				Action: r.AdminShutdown,
			},
		},
	}
}

// uiCommand launches the interactive terminal client.
func uiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "ui",
		Aliases: []string{"tui"},
		Usage:   "Launch the interactive terminal client",
		Action:  r.UI,
	}
}

// openCommand opens the server's web interface.
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "open",
		Usage:  "Open the server's web interface in a browser",
		Action: r.Open,
	}
}

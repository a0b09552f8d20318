package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionExpired   = fmt.Errorf("session expired")
	ErrLoginFailed      = fmt.Errorf("login failed")

	// API and server errors
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrServerUnreachable = fmt.Errorf("could not connect to server")
	ErrPlaylistNotFound  = fmt.Errorf("playlist not found")
	ErrSongNotFound      = fmt.Errorf("song not found")

	// Navigation errors
	ErrRouteNotFound = fmt.Errorf("page not found")
	ErrUILocked      = fmt.Errorf("a view transition is in progress")

	// Playback errors
	ErrNothingPlaying = fmt.Errorf("nothing is currently playing")
	ErrNoSoundDriver  = fmt.Errorf("no sound driver available")

	// Input validation errors
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrMissingArgument  = fmt.Errorf("missing required argument")
	ErrPasswordMismatch = fmt.Errorf("passwords do not match")
	ErrEmptyName        = fmt.Errorf("name must not be empty")
)

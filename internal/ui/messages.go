package ui

import (
	"github.com/wissl-audio/trill/internal/api"
	"github.com/wissl-audio/trill/internal/views"
)

// pageMsg delivers a rendered page from a view loader.
type pageMsg struct {
	page views.Page
}

// showLoginMsg switches to the login screen, optionally carrying the
// fatal error that forced it.
type showLoginMsg struct {
	message string
}

// showFirstRunMsg switches to the first-admin-user screen.
type showFirstRunMsg struct{}

// showErrorMsg pops a dismissible error dialog.
type showErrorMsg struct {
	message string
	err     error
}

// confirmMsg pops a yes/no dialog; exactly one continuation runs.
type confirmMsg struct {
	title    string
	message  string
	onAccept func()
	onReject func()
}

// playbackChangedMsg signals that the now-playing bar must refresh.
type playbackChangedMsg struct{}

// indexerStatusMsg delivers a live indexer update on the admin view.
type indexerStatusMsg struct {
	status *api.IndexerStatus
}

// loggedOutMsg signals a completed logout.
type loggedOutMsg struct{}

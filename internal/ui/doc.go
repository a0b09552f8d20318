// Package ui implements the interactive terminal client using bubbletea's Elm architecture.
//
// The [Model] hosts the view dispatcher: every navigation funnels through the
// in-memory history, the dispatcher loads and renders the target view, and the
// rendered page arrives back as a message. The model is also the dispatcher's
// shell (login screen, first-run screen, error dialogs), the loaders'
// presenter, and the playback controller's confirmation surface, so all
// asynchronous completions converge on a single event channel drained by the
// standard Init/Update/View loop.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) plus
// one-key jumps to the main views and a location bar for arbitrary fragments,
// with contextual help displayed via charmbracelet/bubbles/help.
package ui

package ui

import (
	"fmt"
	"strings"

	"github.com/wissl-audio/trill/internal/shared"
	"github.com/wissl-audio/trill/internal/views"
)

var (
	brandStyle  = views.NewBold("#7D56F4")
	crumbStyle  = views.NewStyle("#AAAAAA")
	noticeStyle = views.NewBold("#FF0000")
	playStyle   = views.NewBold("#04B575")
	dimStyle    = views.NewEm("#626262")
)

// View renders the UI based on the current mode.
func (m *Model) View() string {
	var body string
	switch m.mode {
	case modeBrowsing:
		body = m.renderPage()
	case modeLogin:
		body = m.renderForm("Login", "Sign in to your Wissl server.")
	case modeFirstRun:
		body = m.renderForm("Welcome", "This server has no users yet. Create the first admin account.")
	case modePassword:
		body = m.renderForm("Change password", "")
	case modeConfirm:
		body = m.renderConfirm()
	case modeDialog:
		body = m.renderDialog()
	case modeSearch, modeLocation:
		body = m.renderInput()
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s\n%s",
		m.renderNavbar(), body, m.renderNowPlaying(), m.help.View(m.keys))
}

func (m *Model) renderNavbar() string {
	crumb := breadcrumb(m.page.Nav)
	if crumb == "" {
		return brandStyle.Render("trill")
	}
	return fmt.Sprintf("%s %s", brandStyle.Render("trill"), crumbStyle.Render("› "+crumb))
}

func breadcrumb(nav views.NavContext) string {
	switch nav := nav.(type) {
	case views.HomeNav:
		return ""
	case views.ArtistsNav:
		return "artists"
	case views.ArtistNav:
		return fmt.Sprintf("artists › %s", nav.Artist.Name)
	case views.AlbumNav:
		return fmt.Sprintf("artists › %s › %s", nav.Artist.Name, nav.Album.Name)
	case views.PlaylistsNav:
		return "playlists"
	case views.PlaylistNav:
		return fmt.Sprintf("playlists › %s", nav.Playlist.Name)
	case views.UsersNav:
		return "users"
	case views.UserNav:
		return fmt.Sprintf("users › %s", nav.User.Username)
	case views.SettingsNav:
		return "settings"
	case views.AdminNav:
		return "admin"
	case views.AboutNav:
		return "about"
	case views.SearchNav:
		return fmt.Sprintf("search › %s", nav.Query)
	case views.PlayingNav:
		return "playing"
	case views.ErrorNav:
		return "error"
	}
	return ""
}

func (m *Model) renderPage() string {
	if m.dispatcher.Locked() {
		return fmt.Sprintf("%s loading…", m.spinner.View())
	}

	sel := m.dispatcher.Selection()
	lines := m.lines
	for i, item := range m.page.Items {
		cur := "  "
		if i == m.cursor {
			cur = "› "
		}
		mark := " "
		if sel.Selected(item.Sel) {
			mark = "*"
		}
		lines = append(lines, cur+mark+" "+item.Label)
	}
	if m.height > 0 {
		visible := m.height - 6
		if visible < 1 {
			visible = 1
		}
		if m.scroll < len(lines) {
			lines = lines[m.scroll:]
		}
		if len(lines) > visible {
			lines = lines[:visible]
		}
	}
	body := strings.Join(lines, "\n")

	if count := sel.Count(); count > 0 {
		body = fmt.Sprintf("%s\n%s", body, dimStyle.Render(fmt.Sprintf("%d selected", count)))
	}
	if _, ok := m.page.Nav.(views.AdminNav); ok && m.indexer != nil {
		body = fmt.Sprintf("%s\n%s", body, views.RenderIndexerStatus(m.indexer))
	}
	return body
}

func (m *Model) renderForm(title, hint string) string {
	var b strings.Builder
	b.WriteString(brandStyle.Render(title))
	b.WriteString("\n")
	if hint != "" {
		b.WriteString(dimStyle.Render(hint))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, input := range m.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter to submit, tab to switch fields"))
	return b.String()
}

func (m *Model) renderConfirm() string {
	var b strings.Builder
	if m.confirm.title != "" {
		b.WriteString(brandStyle.Render(m.confirm.title))
		b.WriteString("\n")
	}
	b.WriteString(m.confirm.message)
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("y to confirm, n to cancel"))
	return b.String()
}

func (m *Model) renderDialog() string {
	return fmt.Sprintf("%s\n\n%s",
		noticeStyle.Render(m.dialog),
		dimStyle.Render("press any key to continue"))
}

func (m *Model) renderInput() string {
	title := "Go to"
	if m.mode == modeSearch {
		title = "Search"
	}
	return fmt.Sprintf("%s\n%s\n\n%s",
		brandStyle.Render(title), m.input.View(),
		dimStyle.Render("enter to go, esc to cancel"))
}

func (m *Model) renderNowPlaying() string {
	playing, song, ok := m.player.Now()
	if !ok || song == nil {
		return dimStyle.Render("nothing playing")
	}

	state := "▶"
	if m.player.Paused() {
		state = "⏸"
	}
	line := fmt.Sprintf("%s %s %s %s",
		playStyle.Render(state), song.Title,
		dimStyle.Render(song.ArtistName),
		dimStyle.Render(shared.FormatSeconds(song.Duration)))
	if playing.PlaylistName != "" {
		line = fmt.Sprintf("%s %s", line, dimStyle.Render("["+playing.PlaylistName+"]"))
	}
	return line
}

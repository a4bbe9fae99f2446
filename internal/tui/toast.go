package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/trustedvehicles/vinspect/internal/tui/theme"
)

// toastDismissMsg is sent when the toast should be dismissed.
type toastDismissMsg struct{}

// toast shows a short notice in the bottom-right corner, used for
// validation failures and media staging errors. Auto-dismisses after 3
// seconds.
type toast struct {
	message   string
	visible   bool
	dismissAt time.Time
}

// show displays the toast and returns the dismissal command.
func (t *toast) show(msg string) tea.Cmd {
	t.message = msg
	t.visible = true
	t.dismissAt = time.Now().Add(3 * time.Second)
	return t.dismissCmd()
}

func (t *toast) dismissCmd() tea.Cmd {
	remaining := time.Until(t.dismissAt)
	if remaining <= 0 {
		remaining = 1 * time.Millisecond
	}
	return tea.Tick(remaining, func(time.Time) tea.Msg {
		return toastDismissMsg{}
	})
}

func (t *toast) update(msg tea.Msg) {
	if _, ok := msg.(toastDismissMsg); ok {
		t.visible = false
		t.message = ""
	}
}

// view renders the toast positioned above the bottom edge. Empty when
// hidden.
func (t *toast) view(width, height int) string {
	if !t.visible || t.message == "" {
		return ""
	}

	th := theme.Current()
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgBright)).
		Background(lipgloss.Color(th.Warning)).
		Padding(0, 1).
		Bold(true)

	content := style.Render(t.message)
	if lipgloss.Width(content) > width-2 {
		content = style.Width(width - 2).Render(t.message)
	}

	verticalPadding := height - 2
	if verticalPadding < 0 {
		verticalPadding = 0
	}

	var result string
	for i := 0; i < verticalPadding; i++ {
		result += "\n"
	}
	result += lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Right).
		PaddingRight(1).
		Render(content)
	return result
}

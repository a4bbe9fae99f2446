package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/trustedvehicles/vinspect/internal/catalog"
	"github.com/trustedvehicles/vinspect/internal/tui/theme"
	"github.com/trustedvehicles/vinspect/internal/wizard"
)

func (m *Model) renderScreen() string {
	switch m.phase {
	case phaseUploading:
		return m.renderUploading()
	case phaseDone:
		return m.renderDone()
	}
	return m.renderForm()
}

func (m *Model) renderForm() string {
	th := theme.Current()
	w := m.sess.Wizard()

	header := m.renderHeader()

	var body string
	if w.Step() == wizard.StepReview {
		body = renderMarkdown(reviewSummary(m.sess), m.width-4)
	} else {
		body = m.renderRows()
	}

	var inputLine string
	if m.phase == phaseInput {
		inputStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(th.Primary)).
			Padding(0, 1).
			Width(min(m.width-4, 70))
		inputLine = inputStyle.Render(m.input.View())
	}

	hint := m.renderHint()

	parts := []string{header, "", body}
	if inputLine != "" {
		parts = append(parts, "", inputLine)
	}
	parts = append(parts, "", hint)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderHeader() string {
	th := theme.Current()
	w := m.sess.Wizard()

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(th.Primary)).
		Render(wizard.Title(w.Step()))

	pos := fmt.Sprintf("Step %d of %d", w.Step(), wizard.StepCount)
	meta := []string{pos}
	if n := w.IssueCount(); n > 0 {
		meta = append(meta, fmt.Sprintf("%d issue(s)", n))
	}
	if w.Step() == wizard.StepGallery {
		filled, total := m.sess.Staging().GalleryProgress()
		meta = append(meta, fmt.Sprintf("gallery %d/%d", filled, total))
	}
	if m.sess.Editing() {
		meta = append(meta, "editing "+m.sess.VehicleID())
	}
	metaLine := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgMuted)).
		Render(strings.Join(meta, "  •  "))

	return lipgloss.JoinVertical(lipgloss.Left, title, metaLine)
}

// renderRows paints the step's rows with a scroll window around the cursor.
func (m *Model) renderRows() string {
	visible := m.height - 8
	if visible < 4 {
		visible = 4
	}

	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}

	var lines []string
	lastSection := ""
	if start > 0 {
		lines = append(lines, mutedText("  ↑ more"))
	}
	for i := start; i < end; i++ {
		r := m.rows[i]
		if r.section != "" && r.section != lastSection {
			lines = append(lines, sectionText(r.section))
			lastSection = r.section
		}
		lines = append(lines, m.renderRow(r, i == m.cursor))
	}
	if end < len(m.rows) {
		lines = append(lines, mutedText("  ↓ more"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(r row, focused bool) string {
	th := theme.Current()

	var text string
	switch r.kind {
	case rowText, rowSelect:
		value := m.sess.Record().Get(r.field)
		if value == "" {
			value = mutedText("—")
		}
		text = fmt.Sprintf("%-22s %s", r.label, value)

	case rowBool:
		value := "No"
		if m.sess.Record().Bool(r.field) {
			value = "Yes"
		}
		text = fmt.Sprintf("%-22s %s", r.label, value)

	case rowCheckpoint:
		status := string(m.sess.Record().Status(r.cp))
		badge := lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.StatusColor(status))).
			Render(fmt.Sprintf("[%-5s]", status))
		text = fmt.Sprintf("%s %s", badge, r.label)
		if remark := m.sess.Record().Remark(r.cp); remark != "" {
			text += mutedText("  — " + remark)
		}

	case rowSlot:
		mark := mutedText("[ ]")
		detail := ""
		if it, ok := m.sess.Staging().Staged(r.slot); ok {
			mark = lipgloss.NewStyle().Foreground(lipgloss.Color(th.Success)).Render("[+]")
			detail = mutedText("  " + it.Name)
		} else if _, ok := m.sess.Staging().Ref(r.slot); ok {
			mark = lipgloss.NewStyle().Foreground(lipgloss.Color(th.Info)).Render("[=]")
			detail = mutedText("  on server")
		}
		text = fmt.Sprintf("%s %s%s", mark, r.label, detail)
	}

	if focused {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(th.BgFocus)).
			Foreground(lipgloss.Color(th.FgBright)).
			Width(min(m.width-2, 80)).
			Render("» " + text)
	}
	return "  " + text
}

func (m *Model) renderHint() string {
	w := m.sess.Wizard()
	var hint string
	switch {
	case m.phase == phaseInput:
		hint = "enter to save • esc to cancel"
	case w.Step() == wizard.StepReview:
		hint = "enter to submit • shift+tab to go back • ctrl+c to quit"
	case w.Step() == wizard.StepDetails:
		hint = "enter to edit • space to cycle • tab for next step • esc to quit"
	default:
		hint = "space to cycle status • r remark • enter/a attach • d remove • tab next • shift+tab back"
	}
	return mutedText(hint)
}

func (m *Model) renderUploading() string {
	th := theme.Current()
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(th.Primary)).
		Render("Uploading report…")

	barWidth := min(m.width-10, 60)
	if barWidth < 10 {
		barWidth = 10
	}
	filled := barWidth * m.pct / 100
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Primary)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color(th.BgFocus)).Render(strings.Repeat("░", barWidth-filled))
	pct := mutedText(fmt.Sprintf("%d%%", m.pct))

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", bar, pct)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderDone() string {
	th := theme.Current()

	verb := "created"
	if m.sess.Editing() {
		verb = "updated"
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(th.Success)).
		Render("✓ Report " + verb)

	rec := m.sess.Record()
	summary := mutedText(fmt.Sprintf("%s %s — id %s",
		rec.Get(catalog.FieldMake), rec.Get(catalog.FieldModel), m.resultID))
	hint := mutedText("press any key to exit")

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", summary, "", hint)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func mutedText(s string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Current().FgMuted)).
		Render(s)
}

func sectionText(s string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Current().Secondary)).
		Render(s)
}

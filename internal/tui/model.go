// Package tui renders the inspection wizard in the terminal. All form
// decisions live in the engine packages; the model here turns key presses
// into session calls and paints the result.
package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/trustedvehicles/vinspect/internal/api"
	"github.com/trustedvehicles/vinspect/internal/catalog"
	"github.com/trustedvehicles/vinspect/internal/logger"
	"github.com/trustedvehicles/vinspect/internal/session"
	"github.com/trustedvehicles/vinspect/internal/submit"
	"github.com/trustedvehicles/vinspect/internal/wizard"
)

// phase is the model's top-level mode.
type phase int

const (
	phaseForm phase = iota
	phaseInput
	phaseUploading
	phaseDone
)

// ProgramSender is the part of the Bubbletea program callbacks need.
// Mockable in tests.
type ProgramSender interface {
	Send(tea.Msg)
}

// Messages produced by the submit command.
type (
	submitProgressMsg struct{ Pct int }
	submitDoneMsg     struct{ Record api.ServerRecord }
	submitBlockedMsg  struct{ Messages []string }
	submitFailedMsg   struct{ Err error }
)

// Model is the wizard TUI.
type Model struct {
	sess     *session.Session
	pipeline *submit.Pipeline
	program  ProgramSender
	ctx      context.Context

	width  int
	height int

	phase    phase
	cursor   int
	rows     []row
	input    textinput.Model
	inputRow row

	pct      int
	resultID string

	toast     toast
	cancelled bool
}

// Run drives the wizard program to completion. It returns the created or
// updated vehicle id, or "" if the inspector quit before submitting.
func Run(ctx context.Context, sess *session.Session, pipeline *submit.Pipeline) (string, error) {
	m := NewModel(ctx, sess, pipeline)

	p := tea.NewProgram(m)
	m.program = p

	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("wizard failed: %w", err)
	}
	fm, ok := finalModel.(*Model)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}
	return fm.resultID, nil
}

// NewModel builds the wizard model. The program reference is assigned by
// Run before the first message arrives.
func NewModel(ctx context.Context, sess *session.Session, pipeline *submit.Pipeline) *Model {
	m := &Model{
		sess:     sess,
		pipeline: pipeline,
		ctx:      ctx,
	}
	m.reloadRows()
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) reloadRows() {
	m.rows = rowsForStep(m.sess, m.sess.Wizard().Step())
	if m.cursor >= len(m.rows) {
		m.cursor = 0
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case toastDismissMsg:
		m.toast.update(msg)
		return m, nil

	case submitProgressMsg:
		if msg.Pct > m.pct {
			m.pct = msg.Pct
		}
		return m, nil

	case submitDoneMsg:
		m.phase = phaseDone
		m.resultID = msg.Record.ID
		return m, nil

	case submitBlockedMsg:
		m.phase = phaseForm
		return m, m.toast.show(msg.Messages[0])

	case submitFailedMsg:
		logger.Error("Submission failed: %v", msg.Err)
		m.phase = phaseForm
		return m, m.toast.show("Upload failed: " + msg.Err.Error())

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseInput:
		return m.handleInputKey(msg)
	case phaseUploading:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
		return m, nil
	case phaseDone:
		return m, tea.Quit
	}

	w := m.sess.Wizard()
	switch msg.String() {
	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case "tab":
		return m.goNext()

	case "shift+tab":
		return m.goBack()

	case "esc":
		if w.Step() == wizard.StepDetails {
			m.cancelled = true
			return m, tea.Quit
		}
		return m.goBack()

	case "enter":
		if w.Step() == wizard.StepReview {
			return m.startSubmit()
		}
		return m.activateRow()

	case " ", "space":
		return m.cycleRow()

	case "r":
		if r, ok := m.focusedRow(); ok && r.kind == rowCheckpoint {
			return m.openInput(r, "Remark for "+r.cp.Label, m.sess.Record().Remark(r.cp))
		}
		return m, nil

	case "a":
		if r, ok := m.focusedRow(); ok && r.kind == rowSlot {
			return m.openInput(r, "Path to file for "+strings.TrimSpace(r.label), "")
		}
		return m, nil

	case "d":
		if r, ok := m.focusedRow(); ok && r.kind == rowSlot {
			m.sess.RemoveMedia(r.slot)
			m.reloadRows()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) focusedRow() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// activateRow handles enter on the focused row.
func (m *Model) activateRow() (tea.Model, tea.Cmd) {
	r, ok := m.focusedRow()
	if !ok {
		return m, nil
	}
	switch r.kind {
	case rowText:
		return m.openInput(r, r.label, m.sess.Record().Get(r.field))
	case rowSlot:
		return m.openInput(r, "Path to file for "+strings.TrimSpace(r.label), "")
	default:
		return m.cycleRow()
	}
}

// cycleRow advances selects, toggles, and checkpoint statuses.
func (m *Model) cycleRow() (tea.Model, tea.Cmd) {
	r, ok := m.focusedRow()
	if !ok {
		return m, nil
	}
	switch r.kind {
	case rowSelect:
		cur := m.sess.Record().Get(r.field)
		next := r.options[0]
		for i, opt := range r.options {
			if opt == cur {
				next = r.options[(i+1)%len(r.options)]
				break
			}
		}
		return m.setField(r.field, next)

	case rowBool:
		v := "true"
		if m.sess.Record().Bool(r.field) {
			v = "false"
		}
		return m.setField(r.field, v)

	case rowCheckpoint:
		statuses := r.cp.AllowedStatuses()
		cur := m.sess.Record().Status(r.cp)
		next := statuses[0]
		for i, st := range statuses {
			if st == cur {
				next = statuses[(i+1)%len(statuses)]
				break
			}
		}
		model, cmd := m.setField(r.cp.StatusField(), string(next))
		m.reloadRows() // evidence visibility may change
		return model, cmd
	}
	return m, nil
}

func (m *Model) setField(f catalog.Field, v string) (tea.Model, tea.Cmd) {
	if err := m.sess.SetField(f, v); err != nil {
		return m, m.toast.show(err.Error())
	}
	return m, nil
}

func (m *Model) openInput(r row, prompt, value string) (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.Placeholder = prompt
	ti.SetWidth(60)
	ti.SetValue(value)
	ti.Focus()
	m.input = ti
	m.inputRow = r
	m.phase = phaseInput
	return m, textinput.Blink
}

func (m *Model) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.phase = phaseForm
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.phase = phaseForm
		return m.commitInput(value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) commitInput(value string) (tea.Model, tea.Cmd) {
	r := m.inputRow
	switch r.kind {
	case rowText:
		return m.setField(r.field, value)
	case rowCheckpoint:
		return m.setField(r.cp.RemarkField(), value)
	case rowSlot:
		if value == "" {
			return m, nil
		}
		if err := m.sess.AttachMedia(r.slot, value); err != nil {
			return m, m.toast.show(err.Error())
		}
		m.reloadRows()
		return m, nil
	}
	return m, nil
}

func (m *Model) goNext() (tea.Model, tea.Cmd) {
	w := m.sess.Wizard()
	if !w.Next() {
		if errs := w.Errors(); !errs.OK() {
			return m, m.toast.show(errs.Messages()[0])
		}
		return m, nil
	}
	m.cursor = 0
	m.reloadRows()
	return m, nil
}

func (m *Model) goBack() (tea.Model, tea.Cmd) {
	m.sess.Wizard().Back()
	m.cursor = 0
	m.reloadRows()
	return m, nil
}

// startSubmit kicks off the upload command. Progress flows back through
// program.Send from the pipeline's callback.
func (m *Model) startSubmit() (tea.Model, tea.Cmd) {
	m.phase = phaseUploading
	m.pct = 0

	sess := m.sess
	pipeline := m.pipeline
	program := m.program
	ctx := m.ctx

	return m, func() tea.Msg {
		mode := submit.Create
		if sess.Editing() {
			mode = submit.Update
		}
		rec, errs, err := pipeline.Run(ctx, mode, sess.VehicleID(), sess.Record(), sess.Staging(), func(pct int) {
			if program != nil {
				program.Send(submitProgressMsg{Pct: pct})
			}
		})
		if err != nil {
			return submitFailedMsg{Err: err}
		}
		if !errs.OK() {
			return submitBlockedMsg{Messages: errs.Messages()}
		}
		return submitDoneMsg{Record: rec}
	}
}

// View renders the wizard.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	content := m.renderScreen()

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	if t := m.toast.view(m.width, m.height); t != "" {
		uv.NewStyledString(t).Draw(canvas, uv.Rectangle{
			Min: uv.Position{X: 0, Y: 0},
			Max: uv.Position{X: m.width, Y: m.height},
		})
	}

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

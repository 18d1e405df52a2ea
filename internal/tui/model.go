// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the interactive terminal front end: pick a file, choose
// the target format, confirm the destination, and watch the conversion.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"

	"github.com/pdiddy/doc-converter/internal/errinfo"
	"github.com/pdiddy/doc-converter/internal/format"
	"github.com/pdiddy/doc-converter/internal/logbuf"
	"github.com/pdiddy/doc-converter/internal/orchestrator"
	"github.com/pdiddy/doc-converter/pkg/types"
)

// phase is the screen currently shown.
type phase int

const (
	phasePick phase = iota
	phaseOptions
	phaseDialog
	phaseConverting
	phaseResult
)

// runner runs one conversion attempt. *orchestrator.Orchestrator
// implements it.
type runner interface {
	Run(ctx context.Context, sel orchestrator.Selection, obs orchestrator.Observer) (orchestrator.Outcome, error)
}

// Options configures the TUI.
type Options struct {
	// Bridge is the conversion backend.
	Bridge orchestrator.Bridge
	// Orchestrator options such as a logger or history recorder.
	Orchestrator []orchestrator.Option
	// Fs is the filesystem files are picked from. Defaults to the OS.
	Fs afero.Fs
	// Dir is where the picker starts and where output is proposed.
	Dir string
	// File, when set, skips the picker.
	File string
	// Log receives UI events.
	Log *logbuf.Logger
	// Version is shown in the header.
	Version string
}

// Model is the Bubble Tea model of the converter.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	send   Sender
	run    runner
	fs     afero.Fs
	log    *logbuf.Logger
	dir    string
	title  string

	phase   phase
	picker  filepicker.Model
	input   textinput.Model
	bar     progress.Model
	spinner spinner.Model
	width   int

	sel       orchestrator.Selection
	target    types.Format
	selectErr string

	dialog  *dialogRequestMsg
	state   orchestrator.State
	percent int

	outcome     orchestrator.Outcome
	showDetails bool
	quitting    bool
}

// NewModel builds the model. send delivers messages from the conversion
// goroutine back to the program.
func NewModel(ctx context.Context, opts Options, send Sender) *Model {
	ctx, cancel := context.WithCancel(ctx)
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Log == nil {
		opts.Log = logbuf.Discard()
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}

	fp := filepicker.New()
	fp.AllowedTypes = []string{".md", ".markdown", ".docx"}
	fp.CurrentDirectory = opts.Dir

	ti := textinput.New()
	ti.Prompt = "Save as: "
	ti.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	title := "doc-converter"
	if opts.Version != "" {
		title += " " + opts.Version
	}

	m := &Model{
		ctx:     ctx,
		cancel:  cancel,
		send:    send,
		run:     orchestrator.New(opts.Bridge, dialogChooser{send: send}, opts.Orchestrator...),
		fs:      opts.Fs,
		log:     opts.Log,
		dir:     opts.Dir,
		title:   title,
		picker:  fp,
		input:   ti,
		bar:     bar,
		spinner: sp,
	}
	if opts.File != "" {
		m.choose(opts.File)
	}
	return m
}

// Init starts the file picker and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), m.spinner.Tick)
}

// Update handles key presses and messages from the conversion goroutine.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 4; w > 10 && w < 60 {
			m.bar.Width = w
		}
		return m.updatePicker(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateMsg:
		m.state = msg.state
		return m, nil

	case progressMsg:
		if msg.percent > m.percent {
			m.percent = msg.percent
		}
		return m, nil

	case dialogRequestMsg:
		m.dialog = &msg
		m.phase = phaseDialog
		dir := m.dir
		if m.sel.File.Path != "" {
			dir = filepath.Dir(m.sel.File.Path)
		}
		m.input.SetValue(filepath.Join(dir, msg.defaultName))
		m.input.CursorEnd()
		return m, m.input.Focus()

	case doneMsg:
		return m.finish(msg)
	}

	if m.phase == phasePick {
		return m.updatePicker(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phasePick:
		if msg.String() == "q" {
			return m.quit()
		}
		return m.updatePicker(msg)

	case phaseOptions:
		switch msg.String() {
		case "q":
			return m.quit()
		case "t":
			m.target = m.target.Other()
		case "b", "esc":
			m.phase = phasePick
			m.selectErr = ""
		case "enter", "c":
			return m, m.startConversion()
		}
		return m, nil

	case phaseDialog:
		switch msg.Type {
		case tea.KeyEnter:
			m.answerDialog(strings.TrimSpace(m.input.Value()), true)
			return m, nil
		case tea.KeyEsc:
			m.answerDialog("", false)
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseResult:
		switch msg.String() {
		case "q":
			return m.quit()
		case "d":
			m.showDetails = !m.showDetails
		case "n":
			m.phase = phasePick
			m.selectErr = ""
			m.showDetails = false
			return m, m.picker.Init()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.choose(path)
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.selectErr = fmt.Sprintf("%s is not a Markdown or Word file", filepath.Base(path))
	}
	return m, cmd
}

// choose describes the file at path and moves to the options screen.
func (m *Model) choose(path string) {
	sel, err := orchestrator.SelectPath(m.fs, path)
	if err != nil {
		m.selectErr = err.Error()
		m.log.Warn("File selection failed", map[string]any{"path": path, "error": err.Error()})
		return
	}
	m.sel = sel
	m.selectErr = ""
	if from, ok := format.FromName(sel.File.Name); ok {
		m.target = format.DefaultTarget(from)
	} else {
		m.target = types.FormatWord
	}
	m.phase = phaseOptions
	m.log.Info("File selected", map[string]any{"file": sel.File.Name, "size": sel.File.Size})
}

func (m *Model) startConversion() tea.Cmd {
	m.phase = phaseConverting
	m.percent = 0
	m.state = orchestrator.Idle
	m.outcome = orchestrator.Outcome{}
	m.showDetails = false

	ctx, run, sel, obs := m.ctx, m.run, m.sel.WithTarget(m.target), observer{send: m.send}
	return func() tea.Msg {
		out, err := run.Run(ctx, sel, obs)
		return doneMsg{outcome: out, err: err}
	}
}

func (m *Model) answerDialog(path string, ok bool) {
	if m.dialog == nil {
		return
	}
	if path == "" {
		ok = false
	}
	m.dialog.reply <- dialogReply{path: path, ok: ok}
	m.dialog = nil
	m.input.Blur()
	m.phase = phaseConverting
}

func (m *Model) finish(msg doneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Another attempt is still running; keep watching it.
		m.log.Warn("Conversion not started", map[string]any{"error": msg.err.Error()})
		return m, nil
	}
	m.outcome = msg.outcome
	m.phase = phaseResult
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.dialog != nil {
		m.answerDialog("", false)
	}
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

// View renders the current screen.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.phase {
	case phasePick:
		body = m.viewPicker()
	case phaseOptions:
		body = m.viewOptions()
	case phaseDialog:
		body = m.viewDialog()
	case phaseConverting:
		body = m.viewConverting()
	case phaseResult:
		body = m.viewResult()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(m.title),
		"",
		body,
		"",
		footerStyle.Render(m.help()),
	)
}

func (m *Model) viewPicker() string {
	var b strings.Builder
	b.WriteString("Pick a Markdown (.md, .markdown) or Word (.docx) file\n\n")
	b.WriteString(m.picker.View())
	if m.selectErr != "" {
		b.WriteString("\n" + failureTitle.Render(m.selectErr))
	}
	return b.String()
}

func (m *Model) viewOptions() string {
	f := m.sel.File
	from, _ := format.FromName(f.Name)
	lines := []string{
		labelStyle.Render("File:   ") + f.Name,
		labelStyle.Render("Size:   ") + format.FileSize(f.Size),
		labelStyle.Render("Format: ") + from.DisplayName(),
		labelStyle.Render("Target: ") + accent.Render(m.target.DisplayName()),
	}
	if m.target == from {
		lines = append(lines, "", noticeTitle.Render("Target matches the input format; press t to switch."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewDialog() string {
	name := "file"
	if m.dialog != nil && m.dialog.filter.Name != "" {
		name = m.dialog.filter.Name
	}
	return fmt.Sprintf("Where should the %s be saved?\n\n%s", name, m.input.View())
}

func (m *Model) viewConverting() string {
	return fmt.Sprintf("%s %s %s\n\n%s",
		m.spinner.View(),
		"Converting "+m.sel.File.Name,
		labelStyle.Render("("+m.state.String()+")"),
		m.bar.ViewAs(float64(m.percent)/100),
	)
}

func (m *Model) viewResult() string {
	out := m.outcome
	switch {
	case out.Succeeded():
		body := successTitle.Render("Conversion complete") + "\n" + out.Message
		if p := out.Result.OutputPath; p != "" {
			body += "\n" + labelStyle.Render("Saved to: ") + p
		}
		return successPanel.Render(body)

	case out.Cancelled():
		return noticePanel.Render(noticeTitle.Render("Cancelled") + "\n" + out.Message)
	}

	body := failureTitle.Render("Conversion failed") + "\n" + out.Message
	if out.Report != nil && m.showDetails {
		body += "\n\n" + m.viewDetails(out.Report)
	}
	return failurePanel.Render(body)
}

func (m *Model) viewDetails(r *errinfo.Report) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Code: ") + string(r.Info.Code) + "\n")
	b.WriteString(labelStyle.Render("Details: ") + r.Info.Message + "\n")
	b.WriteString(labelStyle.Render("Time: ") + r.Info.Timestamp.Format("2006-01-02 15:04:05") + "\n\n")
	b.WriteString("Troubleshooting tips:\n")
	for _, tip := range r.Tips {
		b.WriteString("  • " + tip + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) help() string {
	switch m.phase {
	case phasePick:
		return "↑/↓ move • enter open/select • ← back • q quit"
	case phaseOptions:
		return "enter convert • t toggle target • b back • q quit"
	case phaseDialog:
		return "enter save • esc cancel"
	case phaseConverting:
		return "ctrl+c quit"
	case phaseResult:
		if !m.outcome.Succeeded() && !m.outcome.Cancelled() {
			return "d details • n new file • q quit"
		}
		return "n new file • q quit"
	}
	return ""
}

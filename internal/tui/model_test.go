// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc-converter/internal/errinfo"
	"github.com/pdiddy/doc-converter/internal/orchestrator"
	"github.com/pdiddy/doc-converter/pkg/types"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
	on   func(tea.Msg)
}

func (s *fakeSender) Send(msg tea.Msg) {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	on := s.on
	s.mu.Unlock()
	if on != nil {
		on(msg)
	}
}

type fakeRunner struct {
	outcome orchestrator.Outcome
	err     error
	got     orchestrator.Selection
}

func (r *fakeRunner) Run(_ context.Context, sel orchestrator.Selection, _ orchestrator.Observer) (orchestrator.Outcome, error) {
	r.got = sel
	return r.outcome, r.err
}

func newTestModel(t *testing.T, file string) (*Model, *fakeRunner) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/docs/report.md", []byte("# Report\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/docs/memo.docx", []byte("PK"), 0o644))

	m := NewModel(context.Background(), Options{Fs: fs, Dir: "/docs", File: file}, &fakeSender{})
	r := &fakeRunner{}
	m.run = r
	return m, r
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_InitialFile(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		phase  phase
		target types.Format
	}{
		{"markdown defaults to word", "/docs/report.md", phaseOptions, types.FormatWord},
		{"word defaults to markdown", "/docs/memo.docx", phaseOptions, types.FormatMarkdown},
		{"missing file stays on picker", "/docs/absent.md", phasePick, ""},
		{"no file", "", phasePick, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, tt.file)
			assert.Equal(t, tt.phase, m.phase)
			assert.Equal(t, tt.target, m.target)
		})
	}

	m, _ := newTestModel(t, "/docs/absent.md")
	assert.NotEmpty(t, m.selectErr)
	assert.Contains(t, m.View(), m.selectErr)
}

func TestModel_Init(t *testing.T) {
	m, _ := newTestModel(t, "")
	assert.NotNil(t, m.Init())
}

func TestModel_ToggleTarget(t *testing.T) {
	m, _ := newTestModel(t, "/docs/report.md")

	m.Update(key("t"))
	assert.Equal(t, types.FormatMarkdown, m.target)
	assert.Contains(t, m.View(), "Target matches the input format")

	m.Update(key("t"))
	assert.Equal(t, types.FormatWord, m.target)
	assert.NotContains(t, m.View(), "Target matches the input format")
}

func TestModel_Back(t *testing.T) {
	m, _ := newTestModel(t, "/docs/report.md")
	m.Update(key("b"))
	assert.Equal(t, phasePick, m.phase)
}

func TestModel_ConvertSuccess(t *testing.T) {
	m, r := newTestModel(t, "/docs/report.md")
	r.outcome = orchestrator.Outcome{
		Status:  orchestrator.StatusSuccess,
		Message: "Successfully converted report.md to report.docx",
		Result:  types.ConversionResult{Success: true, OutputPath: "/docs/report.docx"},
	}

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, phaseConverting, m.phase)

	msg := cmd()
	done, ok := msg.(doneMsg)
	require.True(t, ok)
	assert.Equal(t, types.FormatWord, r.got.Target)
	assert.Equal(t, "report.md", r.got.File.Name)

	m.Update(done)
	assert.Equal(t, phaseResult, m.phase)
	view := m.View()
	assert.Contains(t, view, "Conversion complete")
	assert.Contains(t, view, "/docs/report.docx")
	assert.NotContains(t, m.help(), "details")
}

func TestModel_ConvertFailureDetails(t *testing.T) {
	m, r := newTestModel(t, "/docs/report.md")
	report := errinfo.NewReport(errinfo.MarkitdownError, "markitdown exited with status 2", nil)
	r.outcome = orchestrator.Outcome{
		Status:  orchestrator.StatusFailure,
		Message: report.UserMessage,
		Report:  &report,
	}

	_, cmd := m.Update(key("c"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Contains(t, m.View(), "Conversion failed")
	assert.NotContains(t, m.View(), "Troubleshooting tips")

	m.Update(key("d"))
	view := m.View()
	assert.Contains(t, view, "Troubleshooting tips")
	assert.Contains(t, view, string(errinfo.MarkitdownError))
	assert.Contains(t, m.help(), "details")

	m.Update(key("n"))
	assert.Equal(t, phasePick, m.phase)
	assert.False(t, m.showDetails)
}

func TestModel_Cancelled(t *testing.T) {
	m, _ := newTestModel(t, "/docs/report.md")
	m.Update(doneMsg{outcome: orchestrator.Outcome{Status: orchestrator.StatusCancelled, Message: "Save operation cancelled"}})
	assert.Equal(t, phaseResult, m.phase)
	assert.Contains(t, m.View(), "Save operation cancelled")
}

func TestModel_BusyKeepsWatching(t *testing.T) {
	m, _ := newTestModel(t, "/docs/report.md")
	m.phase = phaseConverting
	m.Update(doneMsg{err: orchestrator.ErrBusy})
	assert.Equal(t, phaseConverting, m.phase)
}

func TestModel_ProgressAndState(t *testing.T) {
	m, _ := newTestModel(t, "/docs/report.md")
	m.phase = phaseConverting

	m.Update(progressMsg{percent: 40})
	m.Update(progressMsg{percent: 20})
	m.Update(stateMsg{state: orchestrator.Converting})
	assert.Equal(t, 40, m.percent)
	assert.Equal(t, orchestrator.Converting, m.state)
	assert.Contains(t, m.View(), "converting")
}

func TestModel_Dialog(t *testing.T) {
	tests := []struct {
		name   string
		keys   []tea.KeyMsg
		want   dialogReply
		phase  phase
		prefix string
	}{
		{"accept default", []tea.KeyMsg{key("enter")}, dialogReply{path: "/docs/report.docx", ok: true}, phaseConverting, ""},
		{"escape cancels", []tea.KeyMsg{key("esc")}, dialogReply{}, phaseConverting, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, "/docs/report.md")
			m.phase = phaseConverting
			reply := make(chan dialogReply, 1)
			m.Update(dialogRequestMsg{
				defaultName: "report.docx",
				filter:      types.SaveFilter{Name: "Word Document", Extensions: []string{".docx"}},
				reply:       reply,
			})
			assert.Equal(t, phaseDialog, m.phase)
			assert.Contains(t, m.View(), "Word Document")

			for _, k := range tt.keys {
				m.Update(k)
			}
			assert.Equal(t, tt.want, <-reply)
			assert.Equal(t, tt.phase, m.phase)
			assert.Nil(t, m.dialog)
		})
	}
}

func TestModel_DialogDefaultsNextToFile(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{"file in subdirectory", "/docs/sub/notes.md", "/docs/sub/notes.docx"},
		{"file outside start dir", "/other/notes.md", "/other/notes.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.file, []byte("# Notes\n"), 0o644))
			m := NewModel(context.Background(), Options{Fs: fs, Dir: "/docs", File: tt.file}, &fakeSender{})
			m.run = &fakeRunner{}
			require.Equal(t, tt.file, m.sel.File.Path)

			reply := make(chan dialogReply, 1)
			m.Update(dialogRequestMsg{defaultName: "notes.docx", reply: reply})
			assert.Equal(t, tt.want, m.input.Value())

			m.Update(key("enter"))
			assert.Equal(t, dialogReply{path: tt.want, ok: true}, <-reply)
		})
	}
}

func TestModel_DialogEmptyPathCancels(t *testing.T) {
	m, _ := newTestModel(t, "/docs/report.md")
	reply := make(chan dialogReply, 1)
	m.Update(dialogRequestMsg{defaultName: "report.docx", reply: reply})
	m.input.SetValue("   ")
	m.Update(key("enter"))
	assert.Equal(t, dialogReply{}, <-reply)
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newTestModel(t, "/docs/report.md")
			_, cmd := m.Update(key(k))
			require.NotNil(t, cmd)
			assert.True(t, m.quitting)
			assert.Equal(t, tea.Quit(), cmd())
			assert.Error(t, m.ctx.Err())
			assert.Empty(t, m.View())
		})
	}
}

func TestModel_QuitAnswersPendingDialog(t *testing.T) {
	m, _ := newTestModel(t, "/docs/report.md")
	reply := make(chan dialogReply, 1)
	m.Update(dialogRequestMsg{defaultName: "report.docx", reply: reply})

	m.Update(key("ctrl+c"))
	select {
	case r := <-reply:
		assert.False(t, r.ok)
	case <-time.After(time.Second):
		t.Fatal("dialog was not answered")
	}
}

func TestDialogChooser(t *testing.T) {
	sender := &fakeSender{}
	sender.on = func(msg tea.Msg) {
		req := msg.(dialogRequestMsg)
		req.reply <- dialogReply{path: "/out/" + req.defaultName, ok: true}
	}
	path, ok, err := dialogChooser{send: sender}.ChooseSaveDestination(context.Background(), "a.docx", types.SaveFilter{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/out/a.docx", path)
}

func TestDialogChooserContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := dialogChooser{send: &fakeSender{}}.ChooseSaveDestination(ctx, "a.docx", types.SaveFilter{})
	assert.False(t, ok)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestObserverForwards(t *testing.T) {
	sender := &fakeSender{}
	obs := observer{send: sender}
	obs.StateChanged(orchestrator.Staging)
	obs.Progress(60)
	assert.Equal(t, []tea.Msg{stateMsg{state: orchestrator.Staging}, progressMsg{percent: 60}}, sender.msgs)
}

func TestProgramSenderBeforeProgram(t *testing.T) {
	var s programSender
	assert.NotPanics(t, func() { s.Send(progressMsg{percent: 10}) })
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/doc-converter/internal/orchestrator"
	"github.com/pdiddy/doc-converter/pkg/types"
)

// Sender delivers messages to the running program. *tea.Program
// implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// progressMsg reports a progress checkpoint.
type progressMsg struct{ percent int }

// stateMsg reports an orchestrator state change.
type stateMsg struct{ state orchestrator.State }

// dialogReply answers a dialogRequestMsg.
type dialogReply struct {
	path string
	ok   bool
}

// dialogRequestMsg asks the UI for a save destination. The orchestrator
// goroutine blocks until reply receives an answer.
type dialogRequestMsg struct {
	defaultName string
	filter      types.SaveFilter
	reply       chan dialogReply
}

// doneMsg carries the result of a finished attempt.
type doneMsg struct {
	outcome orchestrator.Outcome
	err     error
}

// observer forwards orchestrator progress to the program.
type observer struct{ send Sender }

func (o observer) StateChanged(s orchestrator.State) { o.send.Send(stateMsg{state: s}) }
func (o observer) Progress(percent int)              { o.send.Send(progressMsg{percent: percent}) }

// dialogChooser implements orchestrator.DestinationChooser with the
// model's text-input dialog.
type dialogChooser struct{ send Sender }

func (d dialogChooser) ChooseSaveDestination(ctx context.Context, defaultName string, filter types.SaveFilter) (string, bool, error) {
	reply := make(chan dialogReply, 1)
	d.send.Send(dialogRequestMsg{defaultName: defaultName, filter: filter, reply: reply})
	select {
	case r := <-reply:
		return r.path, r.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

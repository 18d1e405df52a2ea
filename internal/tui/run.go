// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// programSender forwards to the program once it exists. The model is
// built before tea.NewProgram returns, so the program is set afterwards.
type programSender struct {
	mu sync.Mutex
	p  *tea.Program
}

func (s *programSender) set(p *tea.Program) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

func (s *programSender) Send(msg tea.Msg) {
	s.mu.Lock()
	p := s.p
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Run starts the interactive converter and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	sender := &programSender{}
	m := NewModel(ctx, opts, sender)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	sender.set(p)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running tui: %w", err)
	}
	m.cancel()
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorHeaderFg = lipgloss.Color("252")
	colorHeaderBg = lipgloss.Color("62")
	colorFooterFg = lipgloss.Color("244")
	colorSuccess  = lipgloss.Color("40")
	colorFailure  = lipgloss.Color("196")
	colorNotice   = lipgloss.Color("214")
	colorAccent   = lipgloss.Color("205")
	colorDim      = lipgloss.Color("244")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeaderFg).
			Background(colorHeaderBg).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().Foreground(colorFooterFg)

	labelStyle = lipgloss.NewStyle().Foreground(colorDim)
	accent     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	successPanel = panelStyle.BorderForeground(colorSuccess)
	failurePanel = panelStyle.BorderForeground(colorFailure)
	noticePanel  = panelStyle.BorderForeground(colorNotice)

	successTitle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	failureTitle = lipgloss.NewStyle().Foreground(colorFailure).Bold(true)
	noticeTitle  = lipgloss.NewStyle().Foreground(colorNotice).Bold(true)
)

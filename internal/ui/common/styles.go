// Package common provides shared styles and utilities for the UI.
package common

import (
	"github.com/charmbracelet/lipgloss"
)

// Icon constants
const (
	HostIcon   = "👑"
	PlayerIcon = "🧑"
	SystemIcon = "📢"
)

// Lipgloss Styles - shared by every screen
var (
	DocStyle    = lipgloss.NewStyle().Margin(1, 2)
	TitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	BoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	PromptStyle = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	NoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	SystemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Italic(true)
	AccentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
)

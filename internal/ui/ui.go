// Package ui provides the main entry point for the UI.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/riddle-lobby/internal/ui/model"
)

// NewModel creates the riddle lobby model.
func NewModel(opts model.Options) *model.Model {
	return model.New(opts)
}

// Run starts the full-screen program and blocks until the user quits.
func Run(opts model.Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/riddle-lobby/internal/client"
	"github.com/palemoky/riddle-lobby/internal/session"
)

// handleKey 处理按键消息
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		m.leaveIfInRoom()
		return tea.Quit
	}

	switch m.store.Phase {
	case client.PhaseStandby:
		return m.handleStandbyKey(msg)
	case client.PhaseCreatingLobby, client.PhaseEnteringName, client.PhaseJoiningName:
		return m.handleFormKey(msg)
	case client.PhaseChoosingLobby:
		return m.handleRoomListKey(msg)
	case client.PhaseInLobby, client.PhaseInGame:
		return m.handleRoomKey(msg)
	case client.PhaseDisconnected:
		return m.handleDisconnectedKey(msg)
	}
	return nil
}

func (m *Model) handleStandbyKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "1", "c":
		_ = m.intent(session.StartGame{})
	case "2", "j":
		_ = m.intent(session.ChoiceGame{})
	case "q", "esc":
		return tea.Quit
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if m.form == nil {
		return nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		_ = m.intent(session.Cancel{})
		return nil
	case tea.KeyTab, tea.KeyDown:
		m.form.move(1)
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.form.move(-1)
		return nil
	case tea.KeyEnter:
		_ = m.intent(m.form.intent(m.store.Phase))
		return nil
	}
	return m.form.update(msg)
}

func (m *Model) handleRoomListKey(msg tea.KeyMsg) tea.Cmd {
	rooms := m.store.Rooms
	switch msg.Type {
	case tea.KeyEsc:
		_ = m.intent(session.Cancel{})
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(rooms)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		if m.cursor < len(rooms) {
			_ = m.intent(session.SelectRoom{RoomID: rooms[m.cursor].ID})
		}
	case tea.KeyRunes:
		switch s := msg.String(); {
		case s == "r" || s == "R":
			_ = m.intent(session.ChoiceGame{})
		case len(s) == 1 && s[0] >= '1' && s[0] <= '9':
			if idx := int(s[0] - '1'); idx < len(rooms) {
				m.cursor = idx
				_ = m.intent(session.SelectRoom{RoomID: rooms[idx].ID})
			}
		}
	}
	return nil
}

func (m *Model) handleRoomKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		_ = m.intent(session.LeaveRoom{})
		return nil
	case tea.KeyCtrlN:
		_ = m.intent(session.Next{})
		return nil
	case tea.KeyCtrlT:
		m.toggleChat()
		return nil
	case tea.KeyTab:
		if m.store.Phase == client.PhaseInGame {
			if m.mode == modeAnswer {
				m.mode = modeChat
			} else {
				m.mode = modeAnswer
			}
			m.applyMode()
		}
		return nil
	case tea.KeyEnter:
		text := m.line.Value()
		var err error
		if m.mode == modeAnswer {
			err = m.intent(session.Answer{Text: text})
		} else {
			err = m.intent(session.SendMessage{Text: text})
		}
		if err == nil {
			m.line.Reset()
		}
		return nil
	}

	var cmd tea.Cmd
	m.line, cmd = m.line.Update(msg)
	return cmd
}

func (m *Model) handleDisconnectedKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "esc", "enter", "r":
		if m.intent(session.Cancel{}) == nil {
			return m.redial()
		}
	}
	return nil
}

// leaveIfInRoom tells the server we are going before quitting.
func (m *Model) leaveIfInRoom() {
	if m.store.Phase.InRoom() {
		_ = m.intent(session.LeaveRoom{})
	}
}

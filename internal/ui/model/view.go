package model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/riddle-lobby/internal/client"
	"github.com/palemoky/riddle-lobby/internal/ui/common"
)

func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.header())
	sb.WriteString("\n\n")

	if screen := m.binder.Screen(); screen != "" {
		sb.WriteString(screen)
		sb.WriteString("\n")
	}

	if body := m.body(); body != "" {
		sb.WriteString("\n")
		sb.WriteString(body)
		sb.WriteString("\n")
	}

	sb.WriteString(common.PromptStyle.Render(common.MutedStyle.Render(m.help())))
	return common.DocStyle.Render(sb.String())
}

func (m *Model) header() string {
	status := common.MutedStyle.Render("连接中...")
	if m.connected {
		status = common.AccentStyle.Render("● 在线")
	} else if m.store.Phase == client.PhaseDisconnected {
		status = common.ErrorStyle.Render("● 离线")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, common.TitleStyle("🧩 谜语大厅"), "  ", status)
}

// body renders the phase-specific input area.
func (m *Model) body() string {
	switch m.store.Phase {
	case client.PhaseStandby:
		return "1. 创建房间\n2. 加入房间"
	case client.PhaseCreatingLobby, client.PhaseEnteringName, client.PhaseJoiningName:
		if m.awaitingServer() {
			return common.MutedStyle.Render("等待服务器响应...")
		}
		if m.form != nil {
			return m.form.view()
		}
	case client.PhaseChoosingLobby:
		if m.cursor < len(m.store.Rooms) {
			return fmt.Sprintf("→ %s", common.TruncateName(m.store.Rooms[m.cursor].Name, 32))
		}
	case client.PhaseInLobby, client.PhaseInGame:
		prefix := "💬 "
		if m.mode == modeAnswer {
			prefix = "✏️ "
		}
		return prefix + m.line.View()
	case client.PhaseDisconnected:
		return common.ErrorStyle.Render("与服务器的连接已断开")
	}
	return ""
}

// awaitingServer reports whether a create or join request is in flight.
func (m *Model) awaitingServer() bool {
	if d := m.store.Draft(); d != nil && d.Submitted {
		return true
	}
	if j := m.store.JoinTarget(); j != nil && j.Submitted {
		return true
	}
	return false
}

func (m *Model) help() string {
	switch m.store.Phase {
	case client.PhaseStandby:
		return "1/C 创建 • 2/J 加入 • Q 退出"
	case client.PhaseCreatingLobby, client.PhaseEnteringName, client.PhaseJoiningName:
		return "Tab 切换 • Enter 提交 • Esc 返回"
	case client.PhaseChoosingLobby:
		return "↑/↓ 选择 • 1-9 直接加入 • Enter 加入 • R 刷新 • Esc 返回"
	case client.PhaseInLobby:
		return "Enter 发送 • Ctrl+N 开始 • Ctrl+T 聊天面板 • Esc 离开"
	case client.PhaseInGame:
		return "Enter 提交 • Tab 答题/聊天 • Ctrl+N 下一题 • Ctrl+T 聊天面板 • Esc 离开"
	case client.PhaseDisconnected:
		return "Enter 重新连接 • Q 退出"
	}
	return ""
}

package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/riddle-lobby/internal/client"
	"github.com/palemoky/riddle-lobby/internal/protocol"
	"github.com/palemoky/riddle-lobby/internal/ui/common"
)

// SystemSender is the sender name the server uses for announcements.
const SystemSender = "Система"

// FormatChatLine renders one chat message as a single line.
func FormatChatLine(m protocol.ChatMessage) string {
	var sb strings.Builder
	if m.Timestamp != nil {
		sb.WriteString("[" + m.Timestamp.Format("15:04") + "] ")
	}
	if m.Sender == SystemSender {
		sb.WriteString(common.SystemStyle.Render(common.SystemIcon + " " + m.Text))
		return sb.String()
	}
	sb.WriteString(m.Sender + ": " + m.Text)
	return sb.String()
}

func renderChat(s *client.Store, opts Options) string {
	history := s.Chat.Messages()

	lines := []string{lipgloss.NewStyle().Bold(true).Render("💬 聊天室")}
	if len(history) == 0 {
		lines = append(lines, common.MutedStyle.Render("暂无消息..."))
	}
	start := max(len(history)-opts.ChatLines, 0)
	for _, m := range history[start:] {
		lines = append(lines, FormatChatLine(m))
	}
	return common.BoxStyle.Width(opts.Width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

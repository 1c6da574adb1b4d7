package view

import (
	"fmt"
	"strings"

	"github.com/palemoky/riddle-lobby/internal/client"
	"github.com/palemoky/riddle-lobby/internal/ui/common"
)

const maxNameLen = 16

func renderRooms(s *client.Store, opts Options) string {
	var sb strings.Builder
	sb.WriteString(common.TitleStyle("🚪 房间列表"))
	sb.WriteString("\n\n")

	if len(s.Rooms) == 0 {
		sb.WriteString(common.MutedStyle.Render("暂无房间，按 R 刷新"))
		return common.BoxStyle.Width(opts.Width).Render(sb.String())
	}

	for i, r := range s.Rooms {
		capacity := fmt.Sprintf("%d", r.PlayerCount())
		if r.MaxPlayers > 0 {
			capacity = fmt.Sprintf("%d/%d", r.PlayerCount(), r.MaxPlayers)
		}
		fmt.Fprintf(&sb, "%d. %s (%s)", i+1, common.TruncateName(r.Name, maxNameLen*2), capacity)
		if r.Context != "" {
			sb.WriteString(" " + common.MutedStyle.Render(common.TruncateName(r.Context, maxNameLen)))
		}
		if i < len(s.Rooms)-1 {
			sb.WriteString("\n")
		}
	}
	return common.BoxStyle.Width(opts.Width).Render(sb.String())
}

func renderRoom(s *client.Store, _ Options) string {
	if s.Room == nil {
		return ""
	}
	title := common.TitleStyle(fmt.Sprintf("🏠 房间: %s", s.Room.Name))
	details := fmt.Sprintf("题目数量: %d", s.Room.QuestionsCount)
	if s.Room.Context != "" {
		details += " | 主题: " + s.Room.Context
	}
	return title + "\n" + common.MutedStyle.Render(details)
}

func renderRoster(s *client.Store, opts Options) string {
	players := s.Roster()

	var sb strings.Builder
	sb.WriteString("玩家列表:\n")
	for i, p := range players {
		icon := common.PlayerIcon
		if i == 0 {
			icon = common.HostIcon
		}
		meStr := ""
		if p.Name == s.PlayerName {
			meStr = " (你)"
		}
		fmt.Fprintf(&sb, "  %s %s%s\n", icon, common.TruncateName(p.Name, maxNameLen), meStr)
	}
	fmt.Fprintf(&sb, "\n当前人数: %d", len(players))
	return common.BoxStyle.Width(opts.Width / 2).Render(sb.String())
}

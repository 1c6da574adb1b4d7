package view

import (
	"fmt"
	"strings"

	"github.com/palemoky/riddle-lobby/internal/client"
	"github.com/palemoky/riddle-lobby/internal/ui/common"
)

func renderRiddle(s *client.Store, opts Options) string {
	g := s.Game
	var sb strings.Builder

	switch {
	case g.Over != nil:
		sb.WriteString(common.TitleStyle("🏁 游戏结束"))
		if text := firstNonEmpty(g.Over.Text, string(g.Over.Raw)); text != "" {
			sb.WriteString("\n\n" + text)
		}
	case g.Riddle != nil:
		title := "🧩 谜题"
		if g.Riddle.Number > 0 && g.Riddle.Total > 0 {
			title = fmt.Sprintf("🧩 谜题 %d/%d", g.Riddle.Number, g.Riddle.Total)
		}
		sb.WriteString(common.TitleStyle(title))
		sb.WriteString("\n\n" + firstNonEmpty(g.Riddle.Text, string(g.Riddle.Raw)))
		if g.Result != nil {
			sb.WriteString("\n\n" + renderResult(s))
		}
	default:
		sb.WriteString(common.MutedStyle.Render("等待谜题..."))
	}
	return common.BoxStyle.Width(opts.Width).Render(sb.String())
}

func renderResult(s *client.Store) string {
	r := s.Game.Result
	mark := "❌"
	if r.Correct {
		mark = "✅"
	}
	line := mark + " " + firstNonEmpty(r.Text, string(r.Raw))
	if r.Answer != "" {
		line += "\n答案: " + r.Answer
	}
	return line
}

func renderScore(s *client.Store, _ Options) string {
	return common.AccentStyle.Render(fmt.Sprintf("⭐ 得分: %d", s.Game.Score))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

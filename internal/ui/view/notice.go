package view

import (
	"github.com/palemoky/riddle-lobby/internal/client"
	"github.com/palemoky/riddle-lobby/internal/ui/common"
)

func renderNotice(s *client.Store, _ Options) string {
	if s.Notice == "" {
		return ""
	}
	return common.NoticeStyle.Render("⚠️ " + s.Notice)
}

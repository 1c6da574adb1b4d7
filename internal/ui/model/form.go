package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/riddle-lobby/internal/client"
	"github.com/palemoky/riddle-lobby/internal/config"
	"github.com/palemoky/riddle-lobby/internal/session"
	"github.com/palemoky/riddle-lobby/internal/ui/common"
)

type fieldID int

const (
	fieldRoomName fieldID = iota
	fieldQuestions
	fieldContext
	fieldPlayerName
)

type field struct {
	id    fieldID
	label string
	input textinput.Model
}

// form is a column of text inputs with one focused field.
type form struct {
	title  string
	fields []*field
	focus  int
}

func newField(id fieldID, label, placeholder string, limit int) *field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 30
	return &field{id: id, label: label, input: ti}
}

// newForm builds the form shown in phase, or nil when the phase has none.
func newForm(phase client.Phase, flow config.CreateFlow, defaultName string) *form {
	var f *form
	switch phase {
	case client.PhaseCreatingLobby:
		f = &form{title: "创建房间", fields: []*field{
			newField(fieldRoomName, "房间名", "我的谜语房", 32),
			newField(fieldQuestions, "题目数量", "5", 3),
			newField(fieldContext, "主题 (可选)", "历史、科学...", 64),
		}}
		if flow != config.CreateFlowNameFirst {
			f.fields = append(f.fields, newField(fieldPlayerName, "你的名字", "昵称", 16))
		}
	case client.PhaseEnteringName, client.PhaseJoiningName:
		f = &form{title: "输入名字", fields: []*field{
			newField(fieldPlayerName, "你的名字", "昵称", 16),
		}}
	default:
		return nil
	}

	for _, fl := range f.fields {
		if fl.id == fieldPlayerName && defaultName != "" {
			fl.input.SetValue(defaultName)
		}
	}
	f.fields[0].input.Focus()
	return f
}

func (f *form) value(id fieldID) string {
	for _, fl := range f.fields {
		if fl.id == id {
			return fl.input.Value()
		}
	}
	return ""
}

func (f *form) move(delta int) {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	fl := f.fields[f.focus]
	fl.input, cmd = fl.input.Update(msg)
	return cmd
}

// intent turns the form into the intent for phase.
func (f *form) intent(phase client.Phase) session.Intent {
	if phase == client.PhaseCreatingLobby {
		return session.CreateRoom{
			Name:           f.value(fieldRoomName),
			QuestionsCount: f.value(fieldQuestions),
			Context:        f.value(fieldContext),
			PlayerName:     f.value(fieldPlayerName),
		}
	}
	return session.SetName{Name: f.value(fieldPlayerName)}
}

func (f *form) view() string {
	var sb strings.Builder
	sb.WriteString(common.TitleStyle(f.title))
	sb.WriteString("\n")
	for i, fl := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		sb.WriteString("\n" + marker + fl.label + ": " + fl.input.View())
	}
	return sb.String()
}

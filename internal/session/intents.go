package session

import "github.com/palemoky/riddle-lobby/internal/protocol"

// Intent is a user-originated action from the presentation surface.
type Intent interface {
	Kind() string
}

// StartGame opens the create-room form.
type StartGame struct{}

// ChoiceGame opens the room list and requests rooms.
type ChoiceGame struct{}

// CreateRoom submits the create-room form. QuestionsCount is the raw
// form text.
type CreateRoom struct {
	Name           string
	QuestionsCount string
	Context        string
	PlayerName     string
}

// SelectRoom picks a room from the current list.
type SelectRoom struct {
	RoomID protocol.RoomID
}

// SetName submits the player name for the pending create or join.
type SetName struct {
	Name string
}

type SendMessage struct {
	Text string
}

type LeaveRoom struct{}

type Next struct{}

type Answer struct {
	Text string
}

// Cancel abandons a create/join flow or acknowledges a disconnect.
type Cancel struct{}

func (StartGame) Kind() string   { return "start_game" }
func (ChoiceGame) Kind() string  { return "choice_game" }
func (CreateRoom) Kind() string  { return "create_room" }
func (SelectRoom) Kind() string  { return "select_room" }
func (SetName) Kind() string     { return "set_name" }
func (SendMessage) Kind() string { return "send_message" }
func (LeaveRoom) Kind() string   { return "leave_room" }
func (Next) Kind() string        { return "next" }
func (Answer) Kind() string      { return "answer" }
func (Cancel) Kind() string      { return "cancel" }

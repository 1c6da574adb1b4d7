// Package client holds the client-side session state.
package client

import (
	"github.com/palemoky/riddle-lobby/internal/protocol"
)

// Pending is the in-flight create or join flow: a *RoomDraft, a
// *JoinTarget, or nil.
type Pending interface {
	pending()
}

// RoomDraft is held between the create-room intent and room_created.
type RoomDraft struct {
	Name           string
	QuestionsCount int
	Context        string
	PlayerName     string
	Submitted      bool // create_room has been sent
}

// JoinTarget is held between room selection and room_joined.
type JoinTarget struct {
	RoomID    protocol.RoomID
	Submitted bool // join_room has been sent
}

func (*RoomDraft) pending()  {}
func (*JoinTarget) pending() {}

// GameState is the riddle round state, only meaningful in game.
type GameState struct {
	Riddle *protocol.Riddle
	Result *protocol.Result
	Score  int
	Over   *protocol.OverPayload
}

// Reset clears all game state
func (gs *GameState) Reset() {
	gs.Riddle = nil
	gs.Result = nil
	gs.Score = 0
	gs.Over = nil
}

// Store is the single in-memory record of room, roster, chat and game
// state. Only the session controller mutates it; views read it.
type Store struct {
	Phase  Phase
	Notice string // user-visible notice or validation message

	Rooms      []protocol.RoomSummary // latest rooms_list batch
	Room       *protocol.Room
	Pending    Pending
	PlayerName string

	Chat *ChatLog
	Game GameState
}

// NewStore creates a store in Standby.
func NewStore(chatLimit int) *Store {
	return &Store{
		Phase: PhaseStandby,
		Chat:  NewChatLog(chatLimit),
	}
}

// ResetToStandby restores Standby defaults. Leaving a room, lobby deletion,
// server errors and flow cancellation all go through here.
func (s *Store) ResetToStandby() {
	s.Phase = PhaseStandby
	s.Notice = ""
	s.Rooms = nil
	s.Room = nil
	s.Pending = nil
	s.PlayerName = ""
	s.Chat.Reset()
	s.Game.Reset()
}

// Draft returns the pending room draft, if any.
func (s *Store) Draft() *RoomDraft {
	d, _ := s.Pending.(*RoomDraft)
	return d
}

// JoinTarget returns the pending join target, if any.
func (s *Store) JoinTarget() *JoinTarget {
	j, _ := s.Pending.(*JoinTarget)
	return j
}

// RoomID returns the current room id or "".
func (s *Store) RoomID() string {
	if s.Room == nil {
		return ""
	}
	return s.Room.ID.String()
}

// Roster returns the current room's players in arrival order.
func (s *Store) Roster() []protocol.Player {
	if s.Room == nil {
		return nil
	}
	return s.Room.Players
}

// FindRoom looks up id in the current rooms batch.
func (s *Store) FindRoom(id protocol.RoomID) (protocol.RoomSummary, bool) {
	for _, r := range s.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return protocol.RoomSummary{}, false
}

package session

import (
	"encoding/json"

	"github.com/palemoky/riddle-lobby/internal/protocol"
	"github.com/palemoky/riddle-lobby/internal/protocol/codec"
)

// Event is an inbound server event. The set is closed; anything the
// client does not know decodes to Unknown.
type Event interface {
	Type() protocol.MessageType
}

type RoomsList struct {
	Rooms []protocol.RoomSummary
}

type RoomCreated struct {
	Room *protocol.Room
}

type RoomJoined struct {
	Room *protocol.Room
}

type PlayersUpdated struct {
	Players []protocol.Player
}

type NewMessage struct {
	Message protocol.ChatMessage
}

type ChatHistory struct {
	Messages []protocol.ChatMessage
}

type LobbyDeleted struct {
	Message string
}

type JoinError struct {
	Message string
}

type CreationError struct {
	Message string
}

type RiddleReceived struct {
	Riddle protocol.Riddle
}

type ResultReceived struct {
	Result protocol.Result
}

type ScoreUpdated struct {
	Value int
}

type GameOver struct {
	Over protocol.OverPayload
}

// Unknown is a well-formed envelope with an event name this client
// does not handle.
type Unknown struct {
	Name protocol.MessageType
}

func (RoomsList) Type() protocol.MessageType      { return protocol.MsgRoomsList }
func (RoomCreated) Type() protocol.MessageType    { return protocol.MsgRoomCreated }
func (RoomJoined) Type() protocol.MessageType     { return protocol.MsgRoomJoined }
func (PlayersUpdated) Type() protocol.MessageType { return protocol.MsgUpdatePlayers }
func (NewMessage) Type() protocol.MessageType     { return protocol.MsgNewMessage }
func (ChatHistory) Type() protocol.MessageType    { return protocol.MsgChatHistory }
func (LobbyDeleted) Type() protocol.MessageType   { return protocol.MsgLobbyDeleted }
func (JoinError) Type() protocol.MessageType      { return protocol.MsgJoinError }
func (CreationError) Type() protocol.MessageType  { return protocol.MsgCreationError }
func (RiddleReceived) Type() protocol.MessageType { return protocol.MsgRiddle }
func (ResultReceived) Type() protocol.MessageType { return protocol.MsgResult }
func (ScoreUpdated) Type() protocol.MessageType   { return protocol.MsgScore }
func (GameOver) Type() protocol.MessageType       { return protocol.MsgOver }
func (u Unknown) Type() protocol.MessageType      { return u.Name }

// DecodeEvent turns an envelope into a typed event.
func DecodeEvent(msg *protocol.Message) (Event, error) {
	switch msg.Type {
	case protocol.MsgRoomsList:
		p, err := codec.ParsePayload[protocol.RoomsListPayload](msg)
		if err != nil {
			return nil, err
		}
		return RoomsList{Rooms: p.Rooms}, nil
	case protocol.MsgRoomCreated:
		p, err := codec.ParsePayload[protocol.RoomPayload](msg)
		if err != nil {
			return nil, err
		}
		return RoomCreated{Room: p.Room}, nil
	case protocol.MsgRoomJoined:
		p, err := codec.ParsePayload[protocol.RoomPayload](msg)
		if err != nil {
			return nil, err
		}
		return RoomJoined{Room: p.Room}, nil
	case protocol.MsgUpdatePlayers:
		p, err := codec.ParsePayload[protocol.UpdatePlayersPayload](msg)
		if err != nil {
			return nil, err
		}
		return PlayersUpdated{Players: p.Players}, nil
	case protocol.MsgNewMessage:
		p, err := codec.ParsePayload[protocol.ChatMessage](msg)
		if err != nil {
			return nil, err
		}
		return NewMessage{Message: *p}, nil
	case protocol.MsgChatHistory:
		p, err := codec.ParsePayload[protocol.ChatHistoryPayload](msg)
		if err != nil {
			return nil, err
		}
		return ChatHistory{Messages: p.Messages}, nil
	case protocol.MsgLobbyDeleted, protocol.MsgJoinError, protocol.MsgCreationError:
		p, err := codec.ParsePayload[protocol.NoticePayload](msg)
		if err != nil {
			return nil, err
		}
		switch msg.Type {
		case protocol.MsgLobbyDeleted:
			return LobbyDeleted{Message: p.Message}, nil
		case protocol.MsgJoinError:
			return JoinError{Message: p.Message}, nil
		default:
			return CreationError{Message: p.Message}, nil
		}
	case protocol.MsgRiddle:
		var r protocol.Riddle
		decodeLoose(msg.Payload, &r)
		r.Raw = cloneRaw(msg.Payload)
		return RiddleReceived{Riddle: r}, nil
	case protocol.MsgResult:
		var r protocol.Result
		decodeLoose(msg.Payload, &r)
		r.Raw = cloneRaw(msg.Payload)
		return ResultReceived{Result: r}, nil
	case protocol.MsgScore:
		p, err := codec.ParsePayload[protocol.ScorePayload](msg)
		if err != nil {
			return nil, err
		}
		return ScoreUpdated{Value: p.Value}, nil
	case protocol.MsgOver:
		var o protocol.OverPayload
		decodeLoose(msg.Payload, &o)
		o.Raw = cloneRaw(msg.Payload)
		return GameOver{Over: o}, nil
	default:
		return Unknown{Name: msg.Type}, nil
	}
}

// decodeLoose fills the known fields of riddle-round payloads. Their shape
// is owned by the server; a mismatch leaves only the raw payload.
func decodeLoose(data json.RawMessage, v any) {
	if len(data) == 0 {
		return
	}
	_ = json.Unmarshal(data, v)
}

func cloneRaw(data json.RawMessage) json.RawMessage {
	if len(data) == 0 {
		return nil
	}
	return append(json.RawMessage(nil), data...)
}

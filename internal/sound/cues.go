// Package sound plays short notification cues.
package sound

import "github.com/palemoky/riddle-lobby/internal/protocol"

// Cue names a sound file (without extension) in the sounds directory.
type Cue string

const (
	CueJoin    Cue = "join"
	CueMessage Cue = "message"
	CueRiddle  Cue = "riddle"
	CueCorrect Cue = "correct"
	CueWrong   Cue = "wrong"
	CueOver    Cue = "over"
	CueNotice  Cue = "notice"
)

// DefaultDir is where sound files are looked up when none is configured.
const DefaultDir = "assets/sounds"

// Player plays cues. *SoundManager implements it.
type Player interface {
	Play(c Cue)
}

// CueFor picks the cue for an inbound event, if any.
func CueFor(t protocol.MessageType) (Cue, bool) {
	switch t {
	case protocol.MsgRoomCreated, protocol.MsgRoomJoined:
		return CueJoin, true
	case protocol.MsgNewMessage:
		return CueMessage, true
	case protocol.MsgRiddle:
		return CueRiddle, true
	case protocol.MsgOver:
		return CueOver, true
	case protocol.MsgLobbyDeleted, protocol.MsgJoinError, protocol.MsgCreationError:
		return CueNotice, true
	}
	return "", false
}

// ResultCue picks the cue for an answer result.
func ResultCue(correct bool) Cue {
	if correct {
		return CueCorrect
	}
	return CueWrong
}

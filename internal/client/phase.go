package client

// Phase is the single explicit session phase.
type Phase int

const (
	PhaseStandby Phase = iota
	PhaseCreatingLobby
	PhaseEnteringName
	PhaseChoosingLobby
	PhaseJoiningName
	PhaseInLobby
	PhaseInGame
	PhaseDisconnected
)

var phaseNames = [...]string{
	PhaseStandby:       "standby",
	PhaseCreatingLobby: "create_lobby",
	PhaseEnteringName:  "enter_name",
	PhaseChoosingLobby: "choose_lobby",
	PhaseJoiningName:   "join_name",
	PhaseInLobby:       "lobby",
	PhaseInGame:        "game",
	PhaseDisconnected:  "disconnected",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// PreLobby reports whether p belongs to the create or join flow.
func (p Phase) PreLobby() bool {
	switch p {
	case PhaseCreatingLobby, PhaseEnteringName, PhaseChoosingLobby, PhaseJoiningName:
		return true
	}
	return false
}

// InRoom reports whether p requires a current room.
func (p Phase) InRoom() bool {
	return p == PhaseInLobby || p == PhaseInGame
}

// Package session drives the client through its phases: it applies user
// intents and server events to the store and tells the views what changed.
package session

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/riddle-lobby/internal/apperrors"
	"github.com/palemoky/riddle-lobby/internal/client"
	"github.com/palemoky/riddle-lobby/internal/config"
	"github.com/palemoky/riddle-lobby/internal/metrics"
	"github.com/palemoky/riddle-lobby/internal/protocol"
	"github.com/palemoky/riddle-lobby/internal/protocol/codec"
	"github.com/palemoky/riddle-lobby/internal/ui/view"
)

// Channel sends client events to the server.
type Channel interface {
	Send(msg *protocol.Message) error
}

// Views is the presentation side the controller renders into.
type Views interface {
	Render(id view.ViewID)
	Navigate(phase client.Phase)
}

// Options configure a Controller.
type Options struct {
	CreateFlow config.CreateFlow
	Logger     *zap.SugaredLogger
	Metrics    *metrics.Metrics
}

// Controller is the session state machine. It owns the store; nothing
// else mutates it. It is not safe for concurrent use: all intents and
// events must arrive on one goroutine, in order.
type Controller struct {
	store   *client.Store
	channel Channel
	views   Views

	createFlow config.CreateFlow
	log        *zap.SugaredLogger
	metrics    *metrics.Metrics
}

// New creates a controller over store and shows the store's current phase.
func New(store *client.Store, channel Channel, views Views, opts Options) *Controller {
	if opts.CreateFlow == "" {
		opts.CreateFlow = config.CreateFlowInline
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	c := &Controller{
		store:      store,
		channel:    channel,
		views:      views,
		createFlow: opts.CreateFlow,
		log:        opts.Logger,
		metrics:    opts.Metrics,
	}
	c.views.Navigate(store.Phase)
	return c
}

// Store returns the controller's store for read-only use.
func (c *Controller) Store() *client.Store {
	return c.store
}

// Phase returns the current session phase.
func (c *Controller) Phase() client.Phase {
	return c.store.Phase
}

// --- phase helpers ---

func (c *Controller) setPhase(p client.Phase) {
	if c.store.Phase != p {
		c.log.Debugw("phase change", "from", c.store.Phase.String(), "to", p.String())
		c.metrics.IncPhaseChange(p.String())
	}
	c.store.Phase = p
	c.views.Navigate(p)
}

// setNotice replaces the user-visible notice.
func (c *Controller) setNotice(msg string) {
	c.store.Notice = msg
	c.views.Render(view.ViewNotice)
}

func (c *Controller) clearNotice() {
	if c.store.Notice != "" {
		c.setNotice("")
	}
}

// resetToStandby is the single path back to Standby; it also cancels any
// pending create or join flow.
func (c *Controller) resetToStandby(notice string) {
	c.store.ResetToStandby()
	c.setPhase(client.PhaseStandby)
	c.store.Notice = notice
	c.renderAll()
}

func (c *Controller) renderAll() {
	for _, id := range []view.ViewID{
		view.ViewNotice, view.ViewRooms, view.ViewRoom, view.ViewRoster,
		view.ViewChat, view.ViewRiddle, view.ViewScore,
	} {
		c.views.Render(id)
	}
}

func (c *Controller) send(msgType protocol.MessageType, payload any) error {
	msg, err := codec.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	if err := c.channel.Send(msg); err != nil {
		c.log.Warnw("send failed", "event", string(msgType), "error", err)
		return err
	}
	c.metrics.IncMessageSent(string(msgType))
	c.log.Debugw("sent", "event", string(msgType))
	return nil
}

// --- intents ---

// HandleIntent applies a user action. Validation failures and intents that
// make no sense in the current phase return an error and leave the phase
// unchanged; validation messages are also shown as the notice.
func (c *Controller) HandleIntent(in Intent) error {
	err := c.dispatchIntent(in)
	if err != nil {
		c.metrics.IncIntentRejected(in.Kind())
		if apperrors.IsValidation(err) {
			c.setNotice(err.Error())
		}
		c.log.Debugw("intent rejected", "intent", in.Kind(), "phase", c.store.Phase.String(), "error", err)
	}
	return err
}

func (c *Controller) dispatchIntent(in Intent) error {
	switch in := in.(type) {
	case StartGame:
		return c.startGame()
	case ChoiceGame:
		return c.choiceGame()
	case CreateRoom:
		return c.createRoom(in)
	case SelectRoom:
		return c.selectRoom(in)
	case SetName:
		return c.setName(in)
	case SendMessage:
		return c.sendMessage(in)
	case LeaveRoom:
		return c.leaveRoom()
	case Next:
		return c.next()
	case Answer:
		return c.answer(in)
	case Cancel:
		return c.cancel()
	default:
		return apperrors.ErrWrongPhase
	}
}

func (c *Controller) startGame() error {
	if c.store.Phase != client.PhaseStandby {
		return apperrors.ErrWrongPhase
	}
	c.store.Notice = ""
	c.setPhase(client.PhaseCreatingLobby)
	return nil
}

func (c *Controller) choiceGame() error {
	if c.store.Phase != client.PhaseStandby && c.store.Phase != client.PhaseChoosingLobby {
		return apperrors.ErrWrongPhase
	}
	if err := c.send(protocol.MsgGetRooms, nil); err != nil {
		c.setNotice(err.Error())
		return err
	}
	c.store.Notice = ""
	c.setPhase(client.PhaseChoosingLobby)
	c.views.Render(view.ViewNotice)
	return nil
}

func (c *Controller) createRoom(in CreateRoom) error {
	if c.store.Phase != client.PhaseCreatingLobby {
		return apperrors.ErrWrongPhase
	}
	if d := c.store.Draft(); d != nil && d.Submitted {
		// create_room already sent; waiting for room_created
		return apperrors.ErrWrongPhase
	}

	name := strings.TrimSpace(in.Name)
	countText := strings.TrimSpace(in.QuestionsCount)
	playerName := strings.TrimSpace(in.PlayerName)
	if name == "" || countText == "" {
		return apperrors.ErrRequiredField
	}
	if c.createFlow == config.CreateFlowInline && playerName == "" {
		return apperrors.ErrRequiredField
	}
	count, err := strconv.Atoi(countText)
	if err != nil || count < 1 {
		return apperrors.ErrQuestionsCount
	}

	draft := &client.RoomDraft{
		Name:           name,
		QuestionsCount: count,
		Context:        strings.TrimSpace(in.Context),
	}
	c.store.Pending = draft
	c.clearNotice()

	if c.createFlow == config.CreateFlowNameFirst {
		c.setPhase(client.PhaseEnteringName)
		return nil
	}
	c.store.PlayerName = playerName
	return c.submitPending()
}

func (c *Controller) selectRoom(in SelectRoom) error {
	if c.store.Phase != client.PhaseChoosingLobby {
		return apperrors.ErrWrongPhase
	}
	if _, ok := c.store.FindRoom(in.RoomID); !ok {
		return apperrors.ErrUnknownRoom
	}
	c.store.Pending = &client.JoinTarget{RoomID: in.RoomID}
	c.store.Notice = ""
	c.setPhase(client.PhaseJoiningName)
	return nil
}

func (c *Controller) setName(in SetName) error {
	switch {
	case c.store.Phase == client.PhaseEnteringName && c.store.Draft() != nil:
	case c.store.Phase == client.PhaseJoiningName && c.store.JoinTarget() != nil:
	default:
		return apperrors.ErrWrongPhase
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperrors.ErrEmptyName
	}
	c.store.PlayerName = name
	c.clearNotice()
	return c.submitPending()
}

// submitPending emits create_room or join_room for the pending flow. The
// player name is always set by the time this runs.
func (c *Controller) submitPending() error {
	switch p := c.store.Pending.(type) {
	case *client.RoomDraft:
		if p.Submitted {
			return apperrors.ErrWrongPhase
		}
		p.PlayerName = c.store.PlayerName
		err := c.send(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
			Name:           p.Name,
			QuestionsCount: p.QuestionsCount,
			Context:        p.Context,
			PlayerName:     p.PlayerName,
		})
		if err != nil {
			c.setNotice(err.Error())
			return err
		}
		p.Submitted = true
	case *client.JoinTarget:
		if p.Submitted {
			return apperrors.ErrWrongPhase
		}
		err := c.send(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
			RoomID:     p.RoomID,
			PlayerName: c.store.PlayerName,
		})
		if err != nil {
			c.setNotice(err.Error())
			return err
		}
		p.Submitted = true
	default:
		return apperrors.ErrWrongPhase
	}
	return nil
}

func (c *Controller) sendMessage(in SendMessage) error {
	if !c.store.Phase.InRoom() {
		return apperrors.ErrWrongPhase
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return apperrors.ErrEmptyMessage
	}
	return c.send(protocol.MsgSendMessage, protocol.SendMessagePayload{Text: text})
}

func (c *Controller) leaveRoom() error {
	if !c.store.Phase.InRoom() || c.store.Room == nil {
		return apperrors.ErrNotInRoom
	}
	// Local state is dropped even if the server never hears about it.
	_ = c.send(protocol.MsgLeaveRoom, protocol.LeaveRoomPayload{RoomID: c.store.Room.ID})
	c.resetToStandby("")
	return nil
}

func (c *Controller) next() error {
	if !c.store.Phase.InRoom() {
		return apperrors.ErrWrongPhase
	}
	return c.send(protocol.MsgNext, nil)
}

func (c *Controller) answer(in Answer) error {
	if c.store.Phase != client.PhaseInGame {
		return apperrors.ErrWrongPhase
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return apperrors.ErrEmptyMessage
	}
	return c.send(protocol.MsgAnswer, protocol.AnswerPayload{Text: text})
}

func (c *Controller) cancel() error {
	if !c.store.Phase.PreLobby() && c.store.Phase != client.PhaseDisconnected {
		return apperrors.ErrWrongPhase
	}
	c.resetToStandby("")
	return nil
}

// --- server events ---

// HandleServerEvent decodes and applies one inbound event. Unknown,
// stale and malformed events are logged and dropped.
func (c *Controller) HandleServerEvent(msg *protocol.Message) {
	start := time.Now()
	defer func() { c.metrics.ObserveEventLatency(time.Since(start)) }()

	c.metrics.IncEventReceived(string(msg.Type))
	ev, err := DecodeEvent(msg)
	if err != nil {
		c.log.Warnw("malformed event dropped", "event", string(msg.Type), "error", err)
		c.metrics.IncEventIgnored(string(msg.Type))
		if msg.Type == protocol.MsgNewMessage {
			c.metrics.IncChatDropped()
		}
		return
	}
	c.Dispatch(ev)
}

// Dispatch applies a typed event.
func (c *Controller) Dispatch(ev Event) {
	if !c.apply(ev) {
		c.log.Debugw("event ignored", "event", string(ev.Type()), "phase", c.store.Phase.String())
		c.metrics.IncEventIgnored(string(ev.Type()))
	}
}

// apply reports whether ev was accepted in the current phase.
func (c *Controller) apply(ev Event) bool {
	switch ev := ev.(type) {
	case RoomsList:
		return c.onRoomsList(ev)
	case RoomCreated:
		return c.onRoomCreated(ev)
	case RoomJoined:
		return c.onRoomJoined(ev)
	case PlayersUpdated:
		return c.onPlayersUpdated(ev)
	case NewMessage:
		return c.onNewMessage(ev)
	case ChatHistory:
		c.warnBadTimestamps(ev.Messages...)
		c.store.Chat.Replace(ev.Messages)
		c.views.Render(view.ViewChat)
		return true
	case LobbyDeleted:
		if !c.store.Phase.InRoom() {
			return false
		}
		c.resetToStandby(firstNonEmpty(ev.Message, "房主已离开，房间已解散"))
		return true
	case JoinError:
		c.resetToStandby(firstNonEmpty(ev.Message, "加入房间失败"))
		return true
	case CreationError:
		c.resetToStandby(firstNonEmpty(ev.Message, "创建房间失败"))
		return true
	case RiddleReceived:
		return c.onRiddle(ev)
	case ResultReceived:
		if !c.store.Phase.InRoom() {
			return false
		}
		r := ev.Result
		c.store.Game.Result = &r
		c.views.Render(view.ViewRiddle)
		return true
	case ScoreUpdated:
		if !c.store.Phase.InRoom() {
			return false
		}
		c.store.Game.Score = ev.Value
		c.views.Render(view.ViewScore)
		return true
	case GameOver:
		if !c.store.Phase.InRoom() {
			return false
		}
		o := ev.Over
		c.store.Game.Over = &o
		c.views.Render(view.ViewRiddle)
		return true
	default:
		return false
	}
}

func (c *Controller) onRoomsList(ev RoomsList) bool {
	if c.store.Phase != client.PhaseChoosingLobby && c.store.Phase != client.PhaseJoiningName {
		return false
	}
	c.store.Rooms = append([]protocol.RoomSummary(nil), ev.Rooms...)
	c.views.Render(view.ViewRooms)
	return true
}

func (c *Controller) onRoomCreated(ev RoomCreated) bool {
	d := c.store.Draft()
	if d == nil || !d.Submitted || ev.Room == nil {
		return false
	}
	if c.store.Phase != client.PhaseCreatingLobby && c.store.Phase != client.PhaseEnteringName {
		return false
	}
	c.enterRoom(ev.Room, true)
	return true
}

func (c *Controller) onRoomJoined(ev RoomJoined) bool {
	j := c.store.JoinTarget()
	if j == nil || !j.Submitted || ev.Room == nil || c.store.Phase != client.PhaseJoiningName {
		return false
	}
	c.enterRoom(ev.Room, false)
	return true
}

// enterRoom installs room and moves to the lobby. The room's embedded
// chat snapshot, when present, replaces the log.
func (c *Controller) enterRoom(room *protocol.Room, resetChat bool) {
	c.store.Room = room
	c.store.Pending = nil
	c.store.Notice = ""
	c.store.Game.Reset()
	if resetChat {
		c.store.Chat.Reset()
	}
	if room.Messages != nil {
		c.warnBadTimestamps(room.Messages...)
		c.store.Chat.Replace(room.Messages)
	}
	c.setPhase(client.PhaseInLobby)
	c.renderAll()
}

func (c *Controller) onPlayersUpdated(ev PlayersUpdated) bool {
	if !c.store.Phase.InRoom() || c.store.Room == nil {
		return false
	}
	c.store.Room.Players = append([]protocol.Player(nil), ev.Players...)
	c.views.Render(view.ViewRoster)
	c.views.Render(view.ViewChat)
	return true
}

func (c *Controller) onNewMessage(ev NewMessage) bool {
	c.warnBadTimestamps(ev.Message)
	if err := c.store.Chat.Append(ev.Message); err != nil {
		c.log.Warnw("malformed chat message dropped", "sender", ev.Message.Sender, "error", err)
		c.metrics.IncChatDropped()
		return false
	}
	c.views.Render(view.ViewChat)
	return true
}

// warnBadTimestamps logs chat messages kept without their unparseable
// timestamp.
func (c *Controller) warnBadTimestamps(msgs ...protocol.ChatMessage) {
	for _, m := range msgs {
		if m.BadTimestamp != "" {
			c.log.Warnw("chat timestamp ignored", "sender", m.Sender, "timestamp", m.BadTimestamp)
		}
	}
}

func (c *Controller) onRiddle(ev RiddleReceived) bool {
	if !c.store.Phase.InRoom() {
		return false
	}
	r := ev.Riddle
	c.store.Game.Riddle = &r
	c.store.Game.Result = nil
	if c.store.Phase == client.PhaseInLobby {
		c.setPhase(client.PhaseInGame)
	}
	c.views.Render(view.ViewRiddle)
	return true
}

// HandleDisconnect records that the channel is gone. Recovery is a
// Cancel intent back to Standby.
func (c *Controller) HandleDisconnect() {
	if c.store.Phase == client.PhaseDisconnected {
		return
	}
	c.log.Infow("channel closed", "phase", c.store.Phase.String(), "room", c.store.RoomID())
	c.store.ResetToStandby()
	c.setPhase(client.PhaseDisconnected)
	c.store.Notice = apperrors.ErrChannelClosed.Error()
	c.renderAll()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

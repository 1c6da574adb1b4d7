package session

import (
	"encoding/json"
	"errors"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/palemoky/riddle-lobby/internal/apperrors"
	"github.com/palemoky/riddle-lobby/internal/client"
	"github.com/palemoky/riddle-lobby/internal/config"
	"github.com/palemoky/riddle-lobby/internal/metrics"
	"github.com/palemoky/riddle-lobby/internal/protocol"
	"github.com/palemoky/riddle-lobby/internal/protocol/codec"
	"github.com/palemoky/riddle-lobby/internal/testutil"
	"github.com/palemoky/riddle-lobby/internal/ui/view"
)

type fixture struct {
	ctrl    *Controller
	store   *client.Store
	ch      *testutil.SimpleChannel
	views   *view.Binder
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, flow config.CreateFlow) *fixture {
	t.Helper()
	store := client.NewStore(0)
	ch := &testutil.SimpleChannel{}
	binder := view.NewBinder(store, view.Options{})
	m := metrics.New()
	ctrl := New(store, ch, binder, Options{
		CreateFlow: flow,
		Logger:     zaptest.NewLogger(t).Sugar(),
		Metrics:    m,
	})
	return &fixture{ctrl: ctrl, store: store, ch: ch, views: binder, metrics: m}
}

func event(t *testing.T, msgType protocol.MessageType, payload any) *protocol.Message {
	t.Helper()
	msg, err := codec.NewMessage(msgType, payload)
	require.NoError(t, err)
	return msg
}

func testRoom(id string, players ...string) *protocol.Room {
	r := &protocol.Room{ID: protocol.RoomID(id), Name: "Quiz1", QuestionsCount: 5}
	for _, p := range players {
		r.Players = append(r.Players, protocol.Player{Name: p})
	}
	return r
}

// toLobbyAsCreator drives the inline create flow into InLobby.
func (f *fixture) toLobbyAsCreator(t *testing.T) {
	t.Helper()
	require.NoError(t, f.ctrl.HandleIntent(StartGame{}))
	require.NoError(t, f.ctrl.HandleIntent(CreateRoom{Name: "Quiz1", QuestionsCount: "5", PlayerName: "Ann"}))
	f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomCreated, protocol.RoomPayload{Room: testRoom("r1", "Ann")}))
	require.Equal(t, client.PhaseInLobby, f.store.Phase)
}

// toLobbyAsJoiner drives the join flow into InLobby.
func (f *fixture) toLobbyAsJoiner(t *testing.T) {
	t.Helper()
	require.NoError(t, f.ctrl.HandleIntent(ChoiceGame{}))
	f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomsList, protocol.RoomsListPayload{
		Rooms: []protocol.RoomSummary{{ID: "r1", Name: "Quiz1"}},
	}))
	require.NoError(t, f.ctrl.HandleIntent(SelectRoom{RoomID: "r1"}))
	require.NoError(t, f.ctrl.HandleIntent(SetName{Name: "Bob"}))
	f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomJoined, protocol.RoomPayload{Room: testRoom("r1", "Ann", "Bob")}))
	require.Equal(t, client.PhaseInLobby, f.store.Phase)
}

func TestController_StartsInStandby(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	assert.Equal(t, client.PhaseStandby, f.ctrl.Phase())
	assert.Equal(t, client.PhaseStandby, f.views.Phase())
	assert.True(t, f.views.Mounted(view.ViewNotice))
}

func TestController_InlineCreateFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t, config.CreateFlowInline)

	require.NoError(t, f.ctrl.HandleIntent(StartGame{}))
	assert.Equal(t, client.PhaseCreatingLobby, f.store.Phase)

	require.NoError(t, f.ctrl.HandleIntent(CreateRoom{Name: " Quiz1 ", QuestionsCount: "5", PlayerName: "Ann"}))
	require.Len(t, f.ch.Sent, 1)
	assert.Equal(t, protocol.MsgCreateRoom, f.ch.Sent[0].Type)
	assert.JSONEq(t,
		`{"name":"Quiz1","questions_count":5,"context":"","player_name":"Ann"}`,
		string(f.ch.Sent[0].Payload))

	// No optimistic transition.
	assert.Equal(t, client.PhaseCreatingLobby, f.store.Phase)
	assert.Nil(t, f.store.Room)

	// A second submit while waiting is rejected and nothing is re-sent.
	err := f.ctrl.HandleIntent(CreateRoom{Name: "Quiz1", QuestionsCount: "5", PlayerName: "Ann"})
	assert.ErrorIs(t, err, apperrors.ErrWrongPhase)
	assert.Len(t, f.ch.Sent, 1)

	f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomCreated, protocol.RoomPayload{Room: testRoom("r1", "Ann")}))
	assert.Equal(t, client.PhaseInLobby, f.store.Phase)
	assert.Equal(t, "r1", f.store.RoomID())
	assert.Equal(t, "Ann", f.store.PlayerName)
	assert.Nil(t, f.store.Pending)
	assert.Contains(t, f.views.Output(view.ViewRoster), "Ann (你)")
}

func TestController_NameFirstCreateFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t, config.CreateFlowNameFirst)

	require.NoError(t, f.ctrl.HandleIntent(StartGame{}))
	require.NoError(t, f.ctrl.HandleIntent(CreateRoom{Name: "Quiz1", QuestionsCount: "3", Context: "history"}))
	assert.Equal(t, client.PhaseEnteringName, f.store.Phase)
	assert.Empty(t, f.ch.Sent)

	draft := f.store.Draft()
	require.NotNil(t, draft)
	assert.Equal(t, 3, draft.QuestionsCount)
	assert.False(t, draft.Submitted)

	assert.ErrorIs(t, f.ctrl.HandleIntent(SetName{Name: "   "}), apperrors.ErrEmptyName)
	assert.Empty(t, f.ch.Sent)

	require.NoError(t, f.ctrl.HandleIntent(SetName{Name: "Ann"}))
	require.Len(t, f.ch.Sent, 1)
	assert.JSONEq(t,
		`{"name":"Quiz1","questions_count":3,"context":"history","player_name":"Ann"}`,
		string(f.ch.Sent[0].Payload))
	assert.Equal(t, client.PhaseEnteringName, f.store.Phase)

	f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomCreated, protocol.RoomPayload{Room: testRoom("r1", "Ann")}))
	assert.Equal(t, client.PhaseInLobby, f.store.Phase)
}

func TestController_CreateRoomValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		intent  CreateRoom
		wantErr error
	}{
		{"missing name", CreateRoom{QuestionsCount: "5", PlayerName: "Ann"}, apperrors.ErrRequiredField},
		{"missing count", CreateRoom{Name: "Quiz1", PlayerName: "Ann"}, apperrors.ErrRequiredField},
		{"missing player", CreateRoom{Name: "Quiz1", QuestionsCount: "5"}, apperrors.ErrRequiredField},
		{"non numeric count", CreateRoom{Name: "Quiz1", QuestionsCount: "five", PlayerName: "Ann"}, apperrors.ErrQuestionsCount},
		{"zero count", CreateRoom{Name: "Quiz1", QuestionsCount: "0", PlayerName: "Ann"}, apperrors.ErrQuestionsCount},
		{"whitespace only", CreateRoom{Name: "  ", QuestionsCount: "5", PlayerName: "Ann"}, apperrors.ErrRequiredField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, config.CreateFlowInline)
			require.NoError(t, f.ctrl.HandleIntent(StartGame{}))

			err := f.ctrl.HandleIntent(tt.intent)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.ch.Sent)
			assert.Equal(t, client.PhaseCreatingLobby, f.store.Phase)
			assert.Equal(t, tt.wantErr.Error(), f.store.Notice)
			assert.Nil(t, f.store.Pending)
		})
	}
}

func TestController_JoinFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")

	require.NoError(t, f.ctrl.HandleIntent(ChoiceGame{}))
	assert.Equal(t, client.PhaseChoosingLobby, f.store.Phase)
	assert.Equal(t, []protocol.MessageType{protocol.MsgGetRooms}, f.ch.Types())

	assert.ErrorIs(t, f.ctrl.HandleIntent(SelectRoom{RoomID: "r1"}), apperrors.ErrUnknownRoom)

	f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomsList, protocol.RoomsListPayload{
		Rooms: []protocol.RoomSummary{{ID: "r1", Name: "Quiz1"}, {ID: "r2", Name: "Quiz2"}},
	}))
	assert.Contains(t, f.views.Output(view.ViewRooms), "Quiz2")

	require.NoError(t, f.ctrl.HandleIntent(SelectRoom{RoomID: "r2"}))
	assert.Equal(t, client.PhaseJoiningName, f.store.Phase)

	require.NoError(t, f.ctrl.HandleIntent(SetName{Name: "Bob"}))
	require.Len(t, f.ch.Sent, 2)
	assert.JSONEq(t, `{"room_id":"r2","player_name":"Bob"}`, string(f.ch.Sent[1].Payload))
	assert.Equal(t, client.PhaseJoiningName, f.store.Phase)

	snapshot := []protocol.ChatMessage{{Sender: "Ann", Text: "welcome"}}
	room := testRoom("r2", "Ann", "Bob")
	room.Messages = snapshot
	f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomJoined, protocol.RoomPayload{Room: room}))

	assert.Equal(t, client.PhaseInLobby, f.store.Phase)
	assert.Equal(t, snapshot, f.store.Chat.Messages())
	assert.Contains(t, f.views.Output(view.ViewChat), "Ann: welcome")
}

func TestController_RoomsListReplacesBatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	require.NoError(t, f.ctrl.HandleIntent(ChoiceGame{}))

	f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomsList, protocol.RoomsListPayload{
		Rooms: []protocol.RoomSummary{{ID: "a"}, {ID: "b"}},
	}))
	f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomsList, protocol.RoomsListPayload{
		Rooms: []protocol.RoomSummary{{ID: "c"}},
	}))

	require.Len(t, f.store.Rooms, 1)
	assert.Equal(t, protocol.RoomID("c"), f.store.Rooms[0].ID)
	assert.ErrorIs(t, f.ctrl.HandleIntent(SelectRoom{RoomID: "a"}), apperrors.ErrUnknownRoom)

	f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomsList, protocol.RoomsListPayload{}))
	assert.Empty(t, f.store.Rooms)
	assert.Contains(t, f.views.Output(view.ViewRooms), "暂无房间")
}

func TestController_StaleResponsesIgnored(t *testing.T) {
	t.Parallel()

	t.Run("room_created in standby", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomCreated, protocol.RoomPayload{Room: testRoom("r1", "Ann")}))
		assert.Equal(t, client.PhaseStandby, f.store.Phase)
		assert.Nil(t, f.store.Room)
		assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.EventsIgnored.WithLabelValues("room_created")))
	})

	t.Run("room_created before submit", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, config.CreateFlowNameFirst)
		require.NoError(t, f.ctrl.HandleIntent(StartGame{}))
		require.NoError(t, f.ctrl.HandleIntent(CreateRoom{Name: "Quiz1", QuestionsCount: "3"}))
		f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomCreated, protocol.RoomPayload{Room: testRoom("r1", "Ann")}))
		assert.Equal(t, client.PhaseEnteringName, f.store.Phase)
	})

	t.Run("room_joined while creating", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		require.NoError(t, f.ctrl.HandleIntent(StartGame{}))
		require.NoError(t, f.ctrl.HandleIntent(CreateRoom{Name: "Quiz1", QuestionsCount: "3", PlayerName: "Ann"}))
		f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomJoined, protocol.RoomPayload{Room: testRoom("r9", "Zed")}))
		assert.Equal(t, client.PhaseCreatingLobby, f.store.Phase)
		assert.Nil(t, f.store.Room)
	})

	t.Run("room_created after cancel", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		require.NoError(t, f.ctrl.HandleIntent(StartGame{}))
		require.NoError(t, f.ctrl.HandleIntent(CreateRoom{Name: "Quiz1", QuestionsCount: "3", PlayerName: "Ann"}))
		require.NoError(t, f.ctrl.HandleIntent(Cancel{}))
		f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomCreated, protocol.RoomPayload{Room: testRoom("r1", "Ann")}))
		assert.Equal(t, client.PhaseStandby, f.store.Phase)
		assert.Nil(t, f.store.Room)
	})

	t.Run("unknown event", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		f.ctrl.HandleServerEvent(&protocol.Message{Type: "mystery", Payload: json.RawMessage(`{}`)})
		assert.Equal(t, client.PhaseStandby, f.store.Phase)
		assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.EventsIgnored.WithLabelValues("mystery")))
	})
}

// session is the part of the store the reset paths must agree on.
type session struct {
	Phase      client.Phase
	Room       *protocol.Room
	PlayerName string
	Pending    client.Pending
	Rooms      []protocol.RoomSummary
	Chat       []protocol.ChatMessage
	Game       client.GameState
}

func snapshot(s *client.Store) session {
	return session{
		Phase:      s.Phase,
		Room:       s.Room,
		PlayerName: s.PlayerName,
		Pending:    s.Pending,
		Rooms:      s.Rooms,
		Chat:       s.Chat.Messages(),
		Game:       s.Game,
	}
}

func TestController_ResetPathsAgree(t *testing.T) {
	t.Parallel()

	leave := newFixture(t, "")
	leave.toLobbyAsCreator(t)
	require.NoError(t, leave.ctrl.HandleIntent(LeaveRoom{}))
	assert.Equal(t, protocol.MsgLeaveRoom, leave.ch.Sent[len(leave.ch.Sent)-1].Type)
	assert.JSONEq(t, `{"room_id":"r1"}`, string(leave.ch.Sent[len(leave.ch.Sent)-1].Payload))

	deleted := newFixture(t, "")
	deleted.toLobbyAsJoiner(t)
	deleted.ctrl.HandleServerEvent(event(t, protocol.MsgLobbyDeleted, protocol.NoticePayload{Message: "host left"}))
	assert.Equal(t, "host left", deleted.store.Notice)

	joinErr := newFixture(t, "")
	require.NoError(t, joinErr.ctrl.HandleIntent(ChoiceGame{}))
	joinErr.ctrl.HandleServerEvent(event(t, protocol.MsgRoomsList, protocol.RoomsListPayload{
		Rooms: []protocol.RoomSummary{{ID: "r1"}},
	}))
	require.NoError(t, joinErr.ctrl.HandleIntent(SelectRoom{RoomID: "r1"}))
	require.NoError(t, joinErr.ctrl.HandleIntent(SetName{Name: "Bob"}))
	joinErr.ctrl.HandleServerEvent(event(t, protocol.MsgJoinError, protocol.NoticePayload{Message: "room full"}))
	assert.Equal(t, "room full", joinErr.store.Notice)

	want := snapshot(client.NewStore(0))
	assert.Equal(t, want, snapshot(leave.store))
	assert.Equal(t, want, snapshot(deleted.store))
	assert.Equal(t, want, snapshot(joinErr.store))

	for _, f := range []*fixture{leave, deleted, joinErr} {
		assert.Equal(t, client.PhaseStandby, f.views.Phase())
	}
}

func TestController_CreationErrorResets(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	require.NoError(t, f.ctrl.HandleIntent(StartGame{}))
	require.NoError(t, f.ctrl.HandleIntent(CreateRoom{Name: "Quiz1", QuestionsCount: "3", PlayerName: "Ann"}))
	f.ctrl.HandleServerEvent(event(t, protocol.MsgCreationError, protocol.NoticePayload{}))

	assert.Equal(t, client.PhaseStandby, f.store.Phase)
	assert.Nil(t, f.store.Pending)
	assert.Equal(t, "创建房间失败", f.store.Notice)
	assert.Contains(t, f.views.Output(view.ViewNotice), "创建房间失败")
}

func TestController_LobbyDeletedOutsideRoomIgnored(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	require.NoError(t, f.ctrl.HandleIntent(StartGame{}))
	f.ctrl.HandleServerEvent(event(t, protocol.MsgLobbyDeleted, protocol.NoticePayload{}))
	assert.Equal(t, client.PhaseCreatingLobby, f.store.Phase)
}

func TestController_RoomsListNumericIDs(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	require.NoError(t, f.ctrl.HandleIntent(ChoiceGame{}))

	f.ctrl.HandleServerEvent(&protocol.Message{
		Type:    protocol.MsgRoomsList,
		Payload: json.RawMessage(`{"rooms":[{"id":1,"name":"A","players":[],"max_players":4}]}`),
	})
	require.Len(t, f.store.Rooms, 1)
	assert.Equal(t, protocol.RoomID("1"), f.store.Rooms[0].ID)
	assert.Equal(t, 4, f.store.Rooms[0].MaxPlayers)
	assert.Contains(t, f.views.Output(view.ViewRooms), "A (0/4)")

	f.ctrl.HandleServerEvent(&protocol.Message{
		Type:    protocol.MsgRoomsList,
		Payload: json.RawMessage(`{"rooms":[{"id":2,"name":"B","players":[],"max_players":4}]}`),
	})
	require.Len(t, f.store.Rooms, 1)
	assert.Equal(t, protocol.RoomID("2"), f.store.Rooms[0].ID)
	assert.ErrorIs(t, f.ctrl.HandleIntent(SelectRoom{RoomID: "1"}), apperrors.ErrUnknownRoom)

	require.NoError(t, f.ctrl.HandleIntent(SelectRoom{RoomID: "2"}))
	require.NoError(t, f.ctrl.HandleIntent(SetName{Name: "Bob"}))
	assert.JSONEq(t, `{"room_id":"2","player_name":"Bob"}`, string(f.ch.Last().Payload))

	f.ctrl.HandleServerEvent(&protocol.Message{
		Type:    protocol.MsgRoomJoined,
		Payload: json.RawMessage(`{"room":{"id":2,"name":"B","players":[{"name":"Bob","room_id":2}],"questions_count":3,"context":""}}`),
	})
	assert.Equal(t, client.PhaseInLobby, f.store.Phase)
	assert.Equal(t, "2", f.store.RoomID())
}

func TestController_ChatKeepsMessagesWithBadTimestamps(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	f.toLobbyAsCreator(t)

	f.ctrl.HandleServerEvent(&protocol.Message{
		Type:    protocol.MsgNewMessage,
		Payload: json.RawMessage(`{"sender":"Ann","text":"hi","timestamp":"12:30"}`),
	})
	msgs := f.store.Chat.Messages()
	require.Len(t, msgs, 1)
	assert.Nil(t, msgs[0].Timestamp)
	assert.Zero(t, promtest.ToFloat64(f.metrics.ChatDropped))
	assert.Contains(t, f.views.Output(view.ViewChat), "Ann: hi")

	f.ctrl.HandleServerEvent(&protocol.Message{
		Type: protocol.MsgChatHistory,
		Payload: json.RawMessage(`{"messages":[
			{"sender":"Ann","text":"one","timestamp":""},
			{"sender":"Bob","text":"two","timestamp":"2024-05-01T10:15:30"}
		]}`),
	})
	msgs = f.store.Chat.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Nil(t, msgs[0].Timestamp)
	assert.Equal(t, "two", msgs[1].Text)
	require.NotNil(t, msgs[1].Timestamp)
	assert.Equal(t, 10, msgs[1].Timestamp.Hour())
}

func TestController_Chat(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	f.toLobbyAsCreator(t)

	f.ctrl.HandleServerEvent(event(t, protocol.MsgNewMessage, protocol.ChatMessage{Sender: "Bob", Text: "hi"}))
	f.ctrl.HandleServerEvent(event(t, protocol.MsgNewMessage, map[string]string{"sender": "Bob"}))
	f.ctrl.HandleServerEvent(&protocol.Message{Type: protocol.MsgNewMessage, Payload: json.RawMessage(`"broken"`)})
	f.ctrl.HandleServerEvent(event(t, protocol.MsgNewMessage, protocol.ChatMessage{Sender: "Ann", Text: "yo"}))

	msgs := f.store.Chat.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Text)
	assert.Equal(t, "yo", msgs[1].Text)
	assert.Equal(t, 2.0, promtest.ToFloat64(f.metrics.ChatDropped))
	assert.Contains(t, f.views.Output(view.ViewChat), "Ann: yo")

	history := []protocol.ChatMessage{{Sender: "Cid", Text: "old"}}
	f.ctrl.HandleServerEvent(event(t, protocol.MsgChatHistory, protocol.ChatHistoryPayload{Messages: history}))
	assert.Equal(t, history, f.store.Chat.Messages())

	require.NoError(t, f.ctrl.HandleIntent(SendMessage{Text: "  hello  "}))
	last := f.ch.Sent[len(f.ch.Sent)-1]
	assert.Equal(t, protocol.MsgSendMessage, last.Type)
	assert.JSONEq(t, `{"text":"hello"}`, string(last.Payload))

	sent := len(f.ch.Sent)
	assert.ErrorIs(t, f.ctrl.HandleIntent(SendMessage{Text: " "}), apperrors.ErrEmptyMessage)
	assert.Len(t, f.ch.Sent, sent)
}

func TestController_ChatReceivedWhileUnmounted(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	f.toLobbyAsCreator(t)
	f.views.Unmount(view.ViewChat)

	f.ctrl.HandleServerEvent(event(t, protocol.MsgNewMessage, protocol.ChatMessage{Sender: "Bob", Text: "hidden"}))
	assert.True(t, f.views.Dirty(view.ViewChat))

	f.views.Mount(view.ViewChat)
	assert.Contains(t, f.views.Output(view.ViewChat), "Bob: hidden")
}

func TestController_RoomCreatedResetsChat(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	require.NoError(t, f.ctrl.HandleIntent(StartGame{}))
	// A chat message can arrive before room_created; the new room starts clean.
	f.ctrl.HandleServerEvent(event(t, protocol.MsgNewMessage, protocol.ChatMessage{Sender: "Система", Text: "created"}))
	require.NoError(t, f.ctrl.HandleIntent(CreateRoom{Name: "Quiz1", QuestionsCount: "3", PlayerName: "Ann"}))
	f.ctrl.HandleServerEvent(event(t, protocol.MsgRoomCreated, protocol.RoomPayload{Room: testRoom("r1", "Ann")}))

	assert.Empty(t, f.store.Chat.Messages())
}

func TestController_PlayersUpdated(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	f.toLobbyAsCreator(t)

	f.ctrl.HandleServerEvent(event(t, protocol.MsgUpdatePlayers, protocol.UpdatePlayersPayload{
		Players: []protocol.Player{{Name: "Ann"}, {Name: "Bob"}, {Name: "Cid"}},
	}))
	require.Len(t, f.store.Roster(), 3)
	assert.Equal(t, "Cid", f.store.Roster()[2].Name)
	assert.Contains(t, f.views.Output(view.ViewRoster), "当前人数: 3")
}

func TestController_GameRound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	f.toLobbyAsCreator(t)

	assert.ErrorIs(t, f.ctrl.HandleIntent(Answer{Text: "a"}), apperrors.ErrWrongPhase)
	require.NoError(t, f.ctrl.HandleIntent(Next{}))
	assert.Equal(t, protocol.MsgNext, f.ch.Sent[len(f.ch.Sent)-1].Type)

	f.ctrl.HandleServerEvent(event(t, protocol.MsgRiddle, map[string]any{"text": "What has keys?", "number": 1, "total": 5}))
	assert.Equal(t, client.PhaseInGame, f.store.Phase)
	require.NotNil(t, f.store.Game.Riddle)
	assert.Equal(t, "What has keys?", f.store.Game.Riddle.Text)
	assert.True(t, f.views.Mounted(view.ViewRiddle))
	assert.Contains(t, f.views.Output(view.ViewRiddle), "What has keys?")

	require.NoError(t, f.ctrl.HandleIntent(Answer{Text: "piano"}))
	assert.JSONEq(t, `{"text":"piano"}`, string(f.ch.Sent[len(f.ch.Sent)-1].Payload))

	f.ctrl.HandleServerEvent(event(t, protocol.MsgResult, map[string]any{"text": "correct", "correct": true}))
	f.ctrl.HandleServerEvent(event(t, protocol.MsgScore, protocol.ScorePayload{Value: 1}))
	assert.Equal(t, 1, f.store.Game.Score)
	assert.Contains(t, f.views.Output(view.ViewScore), "得分: 1")
	assert.Contains(t, f.views.Output(view.ViewRiddle), "correct")

	// A new riddle clears the previous result.
	f.ctrl.HandleServerEvent(event(t, protocol.MsgRiddle, map[string]any{"text": "Next one"}))
	assert.Nil(t, f.store.Game.Result)

	f.ctrl.HandleServerEvent(&protocol.Message{Type: protocol.MsgOver, Payload: json.RawMessage(`"the end"`)})
	require.NotNil(t, f.store.Game.Over)
	assert.Equal(t, json.RawMessage(`"the end"`), f.store.Game.Over.Raw)
	assert.Equal(t, client.PhaseInGame, f.store.Phase)
}

func TestController_GameEventsOutsideRoomIgnored(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	f.ctrl.HandleServerEvent(event(t, protocol.MsgRiddle, map[string]any{"text": "x"}))
	f.ctrl.HandleServerEvent(event(t, protocol.MsgScore, protocol.ScorePayload{Value: 9}))

	assert.Equal(t, client.PhaseStandby, f.store.Phase)
	assert.Nil(t, f.store.Game.Riddle)
	assert.Zero(t, f.store.Game.Score)
}

func TestController_IntentsInWrongPhase(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")

	tests := []Intent{
		CreateRoom{Name: "Quiz1", QuestionsCount: "1", PlayerName: "Ann"},
		SelectRoom{RoomID: "r1"},
		SetName{Name: "Ann"},
		SendMessage{Text: "hi"},
		Next{},
		Answer{Text: "a"},
		Cancel{},
	}
	for _, in := range tests {
		assert.Error(t, f.ctrl.HandleIntent(in), in.Kind())
	}
	assert.ErrorIs(t, f.ctrl.HandleIntent(LeaveRoom{}), apperrors.ErrNotInRoom)

	assert.Empty(t, f.ch.Sent)
	assert.Equal(t, client.PhaseStandby, f.store.Phase)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.IntentsRejected.WithLabelValues("answer")))
}

func TestController_CancelPendingFlows(t *testing.T) {
	t.Parallel()

	f := newFixture(t, config.CreateFlowNameFirst)
	require.NoError(t, f.ctrl.HandleIntent(StartGame{}))
	require.NoError(t, f.ctrl.HandleIntent(CreateRoom{Name: "Quiz1", QuestionsCount: "3"}))
	require.NoError(t, f.ctrl.HandleIntent(Cancel{}))

	assert.Equal(t, client.PhaseStandby, f.store.Phase)
	assert.Nil(t, f.store.Pending)

	require.NoError(t, f.ctrl.HandleIntent(ChoiceGame{}))
	require.NoError(t, f.ctrl.HandleIntent(Cancel{}))
	assert.Equal(t, client.PhaseStandby, f.store.Phase)
}

func TestController_SendFailureKeepsPhase(t *testing.T) {
	t.Parallel()

	store := client.NewStore(0)
	ch := &testutil.MockChannel{}
	boom := errors.New("write: broken pipe")
	ch.On("Send", mock.MatchedBy(func(m *protocol.Message) bool {
		return m.Type == protocol.MsgGetRooms
	})).Return(boom).Once()

	ctrl := New(store, ch, view.NewBinder(store, view.Options{}), Options{Logger: zaptest.NewLogger(t).Sugar()})

	err := ctrl.HandleIntent(ChoiceGame{})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, client.PhaseStandby, store.Phase)
	assert.Equal(t, boom.Error(), store.Notice)
	ch.AssertExpectations(t)
}

func TestController_SubmitFailureAllowsRetry(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	require.NoError(t, f.ctrl.HandleIntent(StartGame{}))

	f.ch.Err = errors.New("closed")
	require.Error(t, f.ctrl.HandleIntent(CreateRoom{Name: "Quiz1", QuestionsCount: "3", PlayerName: "Ann"}))
	require.NotNil(t, f.store.Draft())
	assert.False(t, f.store.Draft().Submitted)

	f.ch.Err = nil
	require.NoError(t, f.ctrl.HandleIntent(CreateRoom{Name: "Quiz1", QuestionsCount: "3", PlayerName: "Ann"}))
	assert.Len(t, f.ch.Sent, 1)
	assert.True(t, f.store.Draft().Submitted)
}

func TestController_Disconnect(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	f.toLobbyAsCreator(t)

	f.ctrl.HandleDisconnect()
	assert.Equal(t, client.PhaseDisconnected, f.store.Phase)
	assert.Nil(t, f.store.Room)
	assert.Equal(t, apperrors.ErrChannelClosed.Error(), f.store.Notice)
	assert.Contains(t, f.views.Output(view.ViewNotice), apperrors.ErrChannelClosed.Error())

	// Repeated close notifications are harmless.
	f.ctrl.HandleDisconnect()
	assert.Equal(t, client.PhaseDisconnected, f.store.Phase)

	require.NoError(t, f.ctrl.HandleIntent(Cancel{}))
	assert.Equal(t, client.PhaseStandby, f.store.Phase)
	assert.Empty(t, f.store.Notice)
}

func TestController_MalformedPayloadDropped(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	require.NoError(t, f.ctrl.HandleIntent(ChoiceGame{}))
	f.ctrl.HandleServerEvent(&protocol.Message{Type: protocol.MsgRoomsList, Payload: json.RawMessage(`{"rooms":"nope"}`)})

	assert.Equal(t, client.PhaseChoosingLobby, f.store.Phase)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.EventsIgnored.WithLabelValues("rooms_list")))
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.EventsReceived.WithLabelValues("rooms_list")))
}

package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// --- 共享数据结构 ---

// RoomID 房间标识。服务端可能以字符串或数字下发，统一按文本保存
type RoomID string

// UnmarshalJSON accepts a JSON string or a JSON number.
func (id *RoomID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RoomID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid room id %s", data)
	}
	*id = RoomID(n.String())
	return nil
}

// String returns the id text.
func (id RoomID) String() string {
	return string(id)
}

// Player 房间内的玩家，顺序即加入顺序
type Player struct {
	SID    string `json:"sid,omitempty"`
	Name   string `json:"name"`
	RoomID RoomID `json:"room_id,omitempty"`
}

// RoomSummary 房间列表中的一项
type RoomSummary struct {
	ID         RoomID   `json:"id"`
	Name       string   `json:"name"`
	Context    string   `json:"context,omitempty"`
	Players    []Player `json:"players"`
	MaxPlayers int      `json:"max_players,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
}

// PlayerCount 返回房间当前人数
func (r RoomSummary) PlayerCount() int {
	return len(r.Players)
}

// Room 当前所在房间
type Room struct {
	ID             RoomID        `json:"id"`
	Name           string        `json:"name"`
	Players        []Player      `json:"players"`
	QuestionsCount int           `json:"questions_count"`
	Context        string        `json:"context"`
	CreatedAt      string        `json:"created_at,omitempty"`
	Messages       []ChatMessage `json:"messages,omitempty"` // 可选的聊天快照
}

// ChatMessage 聊天消息，创建后不可变
type ChatMessage struct {
	Sender    string     `json:"sender"`
	Text      string     `json:"text"`
	Timestamp *Timestamp `json:"timestamp,omitempty"`

	// BadTimestamp 保留无法解析的时间戳原文，此时 Timestamp 为 nil
	BadTimestamp string `json:"-"`
}

// UnmarshalJSON decodes a chat message. The timestamp is optional: an
// empty or unparseable one leaves Timestamp nil instead of failing.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var wire struct {
		Sender    string          `json:"sender"`
		Text      string          `json:"text"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*m = ChatMessage{Sender: wire.Sender, Text: wire.Text}

	raw := bytes.TrimSpace(wire.Timestamp)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte(`""`)) {
		return nil
	}
	var ts Timestamp
	if err := ts.UnmarshalJSON(raw); err != nil {
		m.BadTimestamp = strings.Trim(string(raw), `"`)
		return nil
	}
	m.Timestamp = &ts
	return nil
}

// Valid reports whether the message carries both a sender and text.
func (m ChatMessage) Valid() bool {
	return m.Sender != "" && m.Text != ""
}

// timestampLayouts 服务端使用 isoformat()，可能不带时区
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Timestamp accepts RFC 3339 and zone-less ISO 8601 instants.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// --- 客户端请求 Payloads ---

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	Name           string `json:"name"`
	QuestionsCount int    `json:"questions_count"`
	Context        string `json:"context"`
	PlayerName     string `json:"player_name"`
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomID     RoomID `json:"room_id"`
	PlayerName string `json:"player_name"`
}

// SendMessagePayload 聊天请求
type SendMessagePayload struct {
	Text string `json:"text"`
}

// LeaveRoomPayload 离开房间请求
type LeaveRoomPayload struct {
	RoomID RoomID `json:"room_id"`
}

// AnswerPayload 提交答案
type AnswerPayload struct {
	Text string `json:"text"`
}

// --- 服务端响应 Payloads ---

// RoomsListPayload 房间列表
type RoomsListPayload struct {
	Rooms []RoomSummary `json:"rooms"`
}

// RoomPayload room_created / room_joined 响应
type RoomPayload struct {
	Room *Room `json:"room"`
}

// UpdatePlayersPayload 玩家列表更新
type UpdatePlayersPayload struct {
	Players []Player `json:"players"`
}

// ChatHistoryPayload 聊天记录快照
type ChatHistoryPayload struct {
	Messages []ChatMessage `json:"messages"`
}

// NoticePayload lobby_deleted / join_error / creation_error
type NoticePayload struct {
	Message string `json:"message,omitempty"`
}

// ScorePayload 分数更新
type ScorePayload struct {
	Value int `json:"value"`
}

// Riddle 谜题。服务端字段未固定，未识别的字段保留在 Raw 中
type Riddle struct {
	Text   string          `json:"text,omitempty"`
	Number int             `json:"number,omitempty"`
	Total  int             `json:"total,omitempty"`
	Raw    json.RawMessage `json:"-"`
}

// Result 答题结果
type Result struct {
	Text    string          `json:"text,omitempty"`
	Answer  string          `json:"answer,omitempty"`
	Correct bool            `json:"correct,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// OverPayload 游戏结束
type OverPayload struct {
	Text  string          `json:"text,omitempty"`
	Score int             `json:"score,omitempty"`
	Raw   json.RawMessage `json:"-"`
}

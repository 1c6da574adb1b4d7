package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 房间操作
	MsgGetRooms    MessageType = "get_rooms"    // 获取房间列表
	MsgCreateRoom  MessageType = "create_room"  // 创建房间
	MsgJoinRoom    MessageType = "join_room"    // 加入房间
	MsgLeaveRoom   MessageType = "leave_room"   // 离开房间
	MsgSendMessage MessageType = "send_message" // 聊天消息

	// 游戏操作
	MsgNext   MessageType = "next"   // 下一题 / 开始
	MsgAnswer MessageType = "answer" // 提交答案
)

// 服务端 → 客户端 消息类型
const (
	// 房间相关
	MsgRoomsList     MessageType = "rooms_list"     // 房间列表
	MsgRoomCreated   MessageType = "room_created"   // 房间创建成功
	MsgRoomJoined    MessageType = "room_joined"    // 加入房间成功
	MsgUpdatePlayers MessageType = "update_players" // 玩家列表更新
	MsgLobbyDeleted  MessageType = "lobby_deleted"  // 房主离开，房间解散

	// 聊天
	MsgNewMessage  MessageType = "new_message"  // 新聊天消息
	MsgChatHistory MessageType = "chat_history" // 聊天记录快照

	// 游戏流程
	MsgRiddle MessageType = "riddle" // 谜题
	MsgResult MessageType = "result" // 答题结果
	MsgScore  MessageType = "score"  // 分数更新
	MsgOver   MessageType = "over"   // 游戏结束

	// 错误
	MsgJoinError     MessageType = "join_error"     // 加入失败
	MsgCreationError MessageType = "creation_error" // 创建失败
)

// IsInbound reports whether t is a server → client event this client knows.
func (t MessageType) IsInbound() bool {
	switch t {
	case MsgRoomsList, MsgRoomCreated, MsgRoomJoined, MsgUpdatePlayers, MsgLobbyDeleted,
		MsgNewMessage, MsgChatHistory,
		MsgRiddle, MsgResult, MsgScore, MsgOver,
		MsgJoinError, MsgCreationError:
		return true
	}
	return false
}

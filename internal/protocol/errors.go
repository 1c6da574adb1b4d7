package protocol

// 错误码
const (
	ErrCodeUnknown          = 1000
	ErrCodeInvalidMsg       = 1001
	ErrCodeMalformedPayload = 1002 // 入站消息字段缺失
	ErrCodeChannelClosed    = 1003 // 连接已断开
	ErrCodeRequiredField    = 2001 // 必填字段为空
	ErrCodeQuestionsCount   = 2002 // 题目数量不合法
	ErrCodeEmptyName        = 2003
	ErrCodeUnknownRoom      = 2004
	ErrCodeNotInRoom        = 2005
	ErrCodeEmptyMessage     = 2006
	ErrCodeWrongPhase       = 3001 // 当前阶段不接受该操作
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:          "未知错误",
	ErrCodeInvalidMsg:       "无效的消息格式",
	ErrCodeMalformedPayload: "消息缺少必要字段",
	ErrCodeChannelClosed:    "与服务器的连接已断开",
	ErrCodeRequiredField:    "请填写所有必填项",
	ErrCodeQuestionsCount:   "题目数量必须是正整数",
	ErrCodeEmptyName:        "请输入名字",
	ErrCodeUnknownRoom:      "房间不存在",
	ErrCodeNotInRoom:        "您不在房间中",
	ErrCodeEmptyMessage:     "消息不能为空",
	ErrCodeWrongPhase:       "当前无法执行该操作",
}

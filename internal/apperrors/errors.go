package apperrors

import (
	"errors"

	"github.com/palemoky/riddle-lobby/internal/protocol"
)

// SessionError 会话错误（本地校验与入站消息共享）
type SessionError struct {
	Code    int
	Message string
}

func (e *SessionError) Error() string {
	return e.Message
}

// New 使用错误码的默认文案创建错误
func New(code int) *SessionError {
	msg, ok := protocol.ErrorMessages[code]
	if !ok {
		msg = protocol.ErrorMessages[protocol.ErrCodeUnknown]
	}
	return &SessionError{Code: code, Message: msg}
}

// 预定义错误
var (
	ErrRequiredField    = New(protocol.ErrCodeRequiredField)
	ErrQuestionsCount   = New(protocol.ErrCodeQuestionsCount)
	ErrEmptyName        = New(protocol.ErrCodeEmptyName)
	ErrUnknownRoom      = New(protocol.ErrCodeUnknownRoom)
	ErrNotInRoom        = New(protocol.ErrCodeNotInRoom)
	ErrEmptyMessage     = New(protocol.ErrCodeEmptyMessage)
	ErrWrongPhase       = New(protocol.ErrCodeWrongPhase)
	ErrMalformedMessage = New(protocol.ErrCodeMalformedPayload)
	ErrChannelClosed    = New(protocol.ErrCodeChannelClosed)
)

// IsValidation reports whether err is a local input error that never
// reaches the channel.
func IsValidation(err error) bool {
	var se *SessionError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code >= 2000 && se.Code < 3000
}

// CodeOf returns the error code carried by err, or ErrCodeUnknown.
func CodeOf(err error) int {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Code
	}
	return protocol.ErrCodeUnknown
}

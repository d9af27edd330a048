package errcode

import (
	"fmt"
	"net/http"
)

// Error represents a business error
type Error struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Status int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// Is matches errors by business code, so wrapped or re-messaged copies
// still compare equal to their sentinel
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// HTTPStatus returns the HTTP status code for the error
func (e *Error) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// New creates a new error with code, message and HTTP status
func New(code int, msg string, status int) *Error {
	return &Error{Code: code, Msg: msg, Status: status}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code:   e.Code,
		Msg:    fmt.Sprintf("%s: %v", e.Msg, err),
		Status: e.Status,
	}
}

// WithMsg returns a copy of the error with a more specific message
func (e *Error) WithMsg(msg string) *Error {
	return &Error{Code: e.Code, Msg: msg, Status: e.Status}
}

// Common error codes
var (
	// Success
	ErrSuccess = New(0, "success", http.StatusOK)

	// Common errors (1xxx)
	ErrInvalidParam   = New(1001, "invalid parameter", http.StatusBadRequest)
	ErrInternalServer = New(1002, "internal server error", http.StatusInternalServerError)
	ErrForbidden      = New(1004, "forbidden", http.StatusForbidden)
	ErrNotFound       = New(1005, "not found", http.StatusNotFound)
	ErrNoPermission   = New(1007, "no permission to access this resource", http.StatusForbidden)

	// Conversation errors (3xxx)
	ErrConvNotFound     = New(3001, "conversation not found", http.StatusNotFound)
	ErrConvNameMissing  = New(3002, "conversation name is required", http.StatusBadRequest)
	ErrConvTypeInvalid  = New(3003, "conversation type must be direct or group", http.StatusBadRequest)
	ErrParticipantsReq  = New(3004, "participants are required", http.StatusBadRequest)
	ErrDirectNotTwoUser = New(3005, "direct conversation requires exactly 2 participants", http.StatusBadRequest)
	ErrGroupTooSmall    = New(3006, "group conversation requires at least 2 participants", http.StatusBadRequest)
	ErrNotParticipant   = New(3007, "user is not a conversation participant", http.StatusForbidden)

	// Message errors (4xxx)
	ErrMessageNotFound = New(4001, "message not found", http.StatusNotFound)
	ErrMessageEmpty    = New(4002, "message must have content or attachments", http.StatusBadRequest)
	ErrSenderRequired  = New(4003, "sender and senderName are required", http.StatusBadRequest)
	ErrSendFailed      = New(4005, "message send failed", http.StatusInternalServerError)
	ErrListFailed      = New(4006, "message listing failed", http.StatusInternalServerError)
	ErrMarkReadFailed  = New(4007, "mark read failed", http.StatusInternalServerError)

	// Team directory errors (6xxx)
	ErrTeamNotFound = New(6001, "team assignment not found", http.StatusNotFound)
)

package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind 是服务端上报的错误类型，取值封闭。
type ErrorKind string

const (
	ErrAuthentication      ErrorKind = "authentication_error"
	ErrPermissionDenied    ErrorKind = "permission_denied_error"
	ErrRateLimit           ErrorKind = "rate_limit_error"
	ErrInternal            ErrorKind = "internal_error"
	ErrUnknown             ErrorKind = "unknown_error"
	ErrNoConversation      ErrorKind = "no_conversation"
	ErrInvalidConversation ErrorKind = "invalid_conversation"
)

// ParseErrorKind 把任意字符串折叠进封闭集合，无法识别的归为 unknown_error。
func ParseErrorKind(s string) ErrorKind {
	switch k := ErrorKind(s); k {
	case ErrAuthentication, ErrPermissionDenied, ErrRateLimit, ErrInternal,
		ErrUnknown, ErrNoConversation, ErrInvalidConversation:
		return k
	}
	return ErrUnknown
}

// Display 返回面向用户的固定文案；unknown_error 优先使用服务端给出的 message。
func (k ErrorKind) Display(message string) string {
	switch k {
	case ErrAuthentication:
		return "Authentication error. Please check your API key and try again."
	case ErrPermissionDenied:
		return "Permission denied. Please check your API key permissions."
	case ErrRateLimit:
		return "Rate limit exceeded. Please wait a minute before trying again."
	case ErrInternal:
		return "An internal error occurred. Please try again later."
	case ErrNoConversation:
		return "No conversation ID provided."
	case ErrInvalidConversation:
		return "Conversation not found."
	case ErrUnknown:
		if message != "" {
			return message
		}
		return "An unknown error occurred."
	}
	return unexpectedMessage
}

const (
	unexpectedMessage = "An unexpected error occurred. Try again later."
	canceledMessage   = "Request canceled."
)

// ServerError 是服务端带类型的失败（partial_success 或非 2xx 且带 error_type）。
type ServerError struct {
	Kind    ErrorKind
	Message string
	Status  int
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

// Display 返回面向用户的文案。
func (e *ServerError) Display() string {
	return e.Kind.Display(e.Message)
}

// TransportError 是连接失败或无法解释的 HTTP 响应。Status 为 0 表示请求未得到响应。
type TransportError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.Status == 0:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: HTTP %d: %v", e.Method, e.Path, e.Status, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Display 返回面向用户的文案。
func (e *TransportError) Display() string {
	switch {
	case errors.Is(e.Err, context.DeadlineExceeded):
		return "The server took too long to respond. Please try again."
	case errors.Is(e.Err, context.Canceled):
		return canceledMessage
	case e.Status == 0:
		return "Could not reach the server. Check that it is running and try again."
	case e.Status == http.StatusNotFound:
		return "Conversation not found."
	case e.Status >= 500:
		return fmt.Sprintf("The server failed to handle the request (HTTP %d). Please try again later.", e.Status)
	case e.Message != "":
		return e.Message
	}
	return fmt.Sprintf("The server rejected the request (HTTP %d).", e.Status)
}

// DisplayMessage 把任意错误转换为一条面向用户的文案。
func DisplayMessage(err error) string {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Display()
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Display()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The server took too long to respond. Please try again."
	}
	if errors.Is(err, context.Canceled) {
		return canceledMessage
	}
	return unexpectedMessage
}

// IsNotFound reports whether err means the conversation does not exist.
func IsNotFound(err error) bool {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Kind == ErrInvalidConversation || se.Status == http.StatusNotFound
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Status == http.StatusNotFound
	}
	return false
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.Status == 0 || te.Status == http.StatusTooManyRequests || te.Status >= 500
}

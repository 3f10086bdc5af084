package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestParseErrorKind(t *testing.T) {
	cases := map[string]ErrorKind{
		"rate_limit_error":     ErrRateLimit,
		"invalid_conversation": ErrInvalidConversation,
		"":                     ErrUnknown,
		"teapot":               ErrUnknown,
	}
	for in, want := range cases {
		if got := ParseErrorKind(in); got != want {
			t.Fatalf("ParseErrorKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorKindDisplayUnknownUsesMessage(t *testing.T) {
	if got := ErrUnknown.Display("dragon ate the server"); got != "dragon ate the server" {
		t.Fatalf("Display = %q", got)
	}
	if got := ErrUnknown.Display(""); got != "An unknown error occurred." {
		t.Fatalf("Display = %q", got)
	}
}

func TestDisplayMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server", &ServerError{Kind: ErrRateLimit}, "Rate limit exceeded. Please wait a minute before trying again."},
		{"wrapped server", fmt.Errorf("advance: %w", &ServerError{Kind: ErrInternal}), "An internal error occurred. Please try again later."},
		{"unreachable", &TransportError{Err: errors.New("connection refused")}, "Could not reach the server. Check that it is running and try again."},
		{"timeout", &TransportError{Err: context.DeadlineExceeded}, "The server took too long to respond. Please try again."},
		{"canceled", &TransportError{Err: context.Canceled}, canceledMessage},
		{"not found", &TransportError{Status: http.StatusNotFound}, "Conversation not found."},
		{"bad gateway", &TransportError{Status: http.StatusBadGateway}, "The server failed to handle the request (HTTP 502). Please try again later."},
		{"plain", errors.New("boom"), unexpectedMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayMessage(tc.err); got != tc.want {
				t.Fatalf("DisplayMessage = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&TransportError{}, true},
		{&TransportError{Status: http.StatusTooManyRequests}, true},
		{&TransportError{Status: http.StatusServiceUnavailable}, true},
		{&TransportError{Status: http.StatusBadRequest}, false},
		{&TransportError{Err: context.Canceled}, false},
		{&ServerError{Kind: ErrInternal}, false},
	}
	for i, tc := range cases {
		if got := retryable(tc.err); got != tc.want {
			t.Fatalf("case %d: retryable(%v) = %v, want %v", i, tc.err, got, tc.want)
		}
	}
}

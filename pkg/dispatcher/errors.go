package dispatcher

import (
	"errors"
	"fmt"
)

// ErrorKind classifies call failures
type ErrorKind string

const (
	KindUnknownTool      ErrorKind = "unknown_tool"
	KindInvalidArguments ErrorKind = "invalid_arguments"
	KindUpstream         ErrorKind = "upstream_error"
)

// Sentinels for errors.Is on a *CallError.
var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrUpstream         = errors.New("upstream error")
)

// CallError is returned by Dispatcher.Call.
type CallError struct {
	Kind    ErrorKind
	Tool    string
	Message string
	Cause   error
}

func (e *CallError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *CallError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error kind.
func (e *CallError) Is(target error) bool {
	switch target {
	case ErrUnknownTool:
		return e.Kind == KindUnknownTool
	case ErrInvalidArguments:
		return e.Kind == KindInvalidArguments
	case ErrUpstream:
		return e.Kind == KindUpstream
	}
	return false
}

func unknownTool(name string) *CallError {
	return &CallError{
		Kind:    KindUnknownTool,
		Tool:    name,
		Message: fmt.Sprintf("Unknown tool: %s", name),
	}
}

func invalidArguments(name string, cause error) *CallError {
	return &CallError{
		Kind:    KindInvalidArguments,
		Tool:    name,
		Message: fmt.Sprintf("Invalid arguments for %s: %v", name, cause),
		Cause:   cause,
	}
}

func upstreamFailure(name, operation string, cause error) *CallError {
	return &CallError{
		Kind:    KindUpstream,
		Tool:    name,
		Message: fmt.Sprintf("Failed to get %s: %v", operation, cause),
		Cause:   cause,
	}
}

// KindOf returns the kind of a dispatcher error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

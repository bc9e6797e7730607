package core

// error_messages.go maps conversion failures to exit statuses and to
// user-facing messages with a support code.
//
//	FILE001 - Input not found        exit 1
//	FILE002 - Wrong delimiter        exit 2
//	FILE003 - Unreadable CSV         exit 1
//	ERR000  - Anything else          exit 1

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/builtin-items/internal/sniff"
)

// Exit statuses of the converter.
const (
	ExitOK               = 0
	ExitInputNotFound    = 1
	ExitDelimiterInvalid = 2
	ExitFailure          = 1
)

var (
	// ErrInputNotFound is returned when the input path does not exist.
	ErrInputNotFound = errors.New("input file does not exist")

	// ErrDelimiterMismatch matches any detected delimiter other than ';'.
	ErrDelimiterMismatch = sniff.ErrMismatch
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgNotFound = UserMessage{
		Message: "Input file does not exist",
		Action:  "Check the path passed as the first argument",
		Code:    "FILE001",
	}
	msgDelimiter = UserMessage{
		Message: "CSV is not semicolon separated",
		Action:  "Re-export the file with ';' as the field separator",
		Code:    "FILE002",
	}
	msgInvalidCSV = UserMessage{
		Message: "CSV could not be read",
		Action:  "Check that the file is UTF-8 encoded around the reported line",
		Code:    "FILE003",
	}
	defaultMessage = UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Check the log output for details",
		Code:    "ERR000",
	}
)

// MapError returns the user message for err.
func MapError(err error) UserMessage {
	var recErr *RecordError
	switch {
	case err == nil:
		return UserMessage{}
	case errors.Is(err, ErrInputNotFound):
		return msgNotFound
	case errors.Is(err, ErrDelimiterMismatch):
		return msgDelimiter
	case errors.As(err, &recErr):
		return msgInvalidCSV
	default:
		return defaultMessage
	}
}

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInputNotFound):
		return ExitInputNotFound
	case errors.Is(err, ErrDelimiterMismatch):
		return ExitDelimiterInvalid
	default:
		return ExitFailure
	}
}

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

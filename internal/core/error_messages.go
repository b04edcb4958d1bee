package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference.
//
// # Generation Errors (GEN001-GEN099)
//
// A cell could not be converted to its column's declared type. Generation
// stops at the first such cell and no SQL is produced.
//
//	GEN001 - Invalid integer: A value in an int column has no digits
//	         Action: Fix the value or change the column type to text
//	         Patterns: "invalid integer"
//
//	GEN002 - Invalid boolean: A value in a bool column is not true or false
//	         Action: Use true or false, or change the column type to text
//	         Patterns: "invalid boolean"
//
//	GEN003 - Unknown column type: The column type is not text, int or bool
//	         Action: Pick one of text, int or bool
//	         Patterns: "unknown column type"
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Missing configuration: A column has no settings
//	         Action: Re-paste the input to reset column settings
//	         Patterns: "missing configuration"
//
//	CFG002 - Empty column name: An included column has no SQL name
//	         Action: Enter a column name or exclude the column
//	         Patterns: "empty column name"
//
//	CFG003 - Unknown field: Settings refer to a column that is not in the input
//	         Action: Check the column names in your header row
//	         Patterns: "unknown field"
//
// # Input Errors (INP001-INP099)
//
//	INP001 - Input too large: The CSV text exceeds the size limit
//	         Action: Split the input into smaller pieces
//	         Patterns: "input too large", "request body too large"
//
//	INP002 - Empty input: There is no CSV text to work with
//	         Action: Paste CSV text with a header row
//	         Patterns: "empty input"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: The editing session expired
//	         Action: Reload the page and paste the input again
//	         Patterns: "session not found"
//
// # Verification Errors (VER001-VER099)
//
//	VER001 - Verifier busy: Too many verifications in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many verifications"
//
//	VER002 - Verification failed: The database rejected the generated SQL
//	         Action: Check column names for reserved words or invalid characters
//	         Patterns: "verification failed"
//
//	VER003 - Verification disabled: No verification backend is configured
//	         Action: Set VERIFY_BACKEND to sqlite or postgres
//	         Patterns: "verification disabled"
//
//	VER004 - Column name not verifiable: A target name is not one identifier
//	         Action: Use letters, digits and underscores, or double-quote the name
//	         Patterns: "not a plain sql identifier"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded"
//
//	REQ003 - Malformed request: body or form values could not be read
//	         Patterns: "invalid request"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Generation Errors (GEN001-GEN003)
	// =========================================================================
	{
		pattern: "invalid integer",
		msg: UserMessage{
			Message: "A value in an int column is not a number",
			Action:  "Fix the value or change the column type to text",
			Code:    "GEN001",
		},
	},
	{
		pattern: "invalid boolean",
		msg: UserMessage{
			Message: "A value in a bool column is not true or false",
			Action:  "Use true or false, or change the column type to text",
			Code:    "GEN002",
		},
	},
	{
		pattern: "unknown column type",
		msg: UserMessage{
			Message: "Unknown column type",
			Action:  "Pick one of text, int or bool",
			Code:    "GEN003",
		},
	},

	// =========================================================================
	// Configuration Errors (CFG001-CFG003)
	// =========================================================================
	{
		pattern: ReasonMissing,
		msg: UserMessage{
			Message: "A column has no settings",
			Action:  "Re-paste the input to reset column settings",
			Code:    "CFG001",
		},
	},
	{
		pattern: ReasonEmptyName,
		msg: UserMessage{
			Message: "An included column has no SQL name",
			Action:  "Enter a column name or exclude the column",
			Code:    "CFG002",
		},
	},
	{
		pattern: ReasonUnknown,
		msg: UserMessage{
			Message: "Settings refer to a column that is not in the input",
			Action:  "Check the column names in your header row",
			Code:    "CFG003",
		},
	},

	// =========================================================================
	// Input Errors (INP001-INP002)
	// =========================================================================
	{
		pattern: "input too large",
		msg: UserMessage{
			Message: "The CSV text exceeds the size limit",
			Action:  "Split the input into smaller pieces",
			Code:    "INP001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The CSV text exceeds the size limit",
			Action:  "Split the input into smaller pieces",
			Code:    "INP001",
		},
	},
	{
		pattern: "empty input",
		msg: UserMessage{
			Message: "There is no CSV text to work with",
			Action:  "Paste CSV text with a header row",
			Code:    "INP002",
		},
	},

	// =========================================================================
	// Session and Verification Errors
	// =========================================================================
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Your editing session expired",
			Action:  "Reload the page and paste the input again",
			Code:    "SES001",
		},
	},
	{
		pattern: "too many verifications",
		msg: UserMessage{
			Message: "The verifier is busy",
			Action:  "Please wait a moment and try again",
			Code:    "VER001",
		},
	},
	{
		pattern: "verification failed",
		msg: UserMessage{
			Message: "The database rejected the generated SQL",
			Action:  "Check column names for reserved words or invalid characters",
			Code:    "VER002",
		},
	},
	{
		pattern: "verification disabled",
		msg: UserMessage{
			Message: "SQL verification is not configured",
			Action:  "Set VERIFY_BACKEND to sqlite or postgres",
			Code:    "VER003",
		},
	},
	{
		pattern: "not a plain sql identifier",
		msg: UserMessage{
			Message: "A column name cannot be checked against the database",
			Action:  "Use letters, digits and underscores, or double-quote the name",
			Code:    "VER004",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ002, RATE001)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller input or try again later",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the submitted values and try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the server logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
//
//	_, err := core.Generate(fields, rows, configs)
//	msg := core.MapError(err)
//	// msg.Code == "GEN001" for a bad int cell
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern, as opposed to
// falling through to ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
// Error() gives the user message; Unwrap() gives the technical error.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}

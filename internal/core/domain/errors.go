package domain

import (
	"fmt"
	"strings"
)

// ConfigError reports every missing required configuration variable at
// once. It is the only fatal error class: nothing past startup returns it.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Missing, ", "))
}

// PlatformError is a failed call against the platform API. It is recorded
// against the single action (or fetch) that caused it and never aborts the
// cycle.
type PlatformError struct {
	Op         string
	TargetID   string
	StatusCode int
	Err        error
}

func (e *PlatformError) Error() string {
	msg := fmt.Sprintf("platform %s", e.Op)
	if e.TargetID != "" {
		msg += " " + e.TargetID
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PlatformError) Unwrap() error { return e.Err }

// DecisionError is a failed call against the completion API. The cycle that
// hits one produces zero actions but still reports.
type DecisionError struct {
	Provider string
	Err      error
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("decision engine (%s): %v", e.Provider, e.Err)
}

func (e *DecisionError) Unwrap() error { return e.Err }

// ParseError means the model replied with something that is not the agreed
// action contract. Callers degrade to an empty action list.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotificationError is a failed report delivery. It is logged and swallowed;
// it never delays or blocks the next cycle.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification send: %v", e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

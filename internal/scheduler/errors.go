package scheduler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches every *Error of kind InvalidInput.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownAlgorithm matches every *Error of kind UnknownAlgorithm.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// ErrorKind classifies engine errors.
type ErrorKind int

const (
	// InvalidInput covers malformed process lists and missing or bad parameters.
	InvalidInput ErrorKind = iota + 1

	// UnknownAlgorithm is returned for algorithm tags outside the supported set.
	UnknownAlgorithm
)

// String returns a human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case UnknownAlgorithm:
		return "unknown algorithm"
	default:
		return "unknown error"
	}
}

// Code returns a stable machine-readable code, used by the HTTP API.
func (k ErrorKind) Code() string {
	switch k {
	case InvalidInput:
		return "INVALID_INPUT"
	case UnknownAlgorithm:
		return "UNKNOWN_ALGORITHM"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error is the structured failure returned by the engine. Field names the
// offending input, e.g. "quantum" or "processes[2].burst".
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput and ErrUnknownAlgorithm.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case InvalidInput:
		return ErrInvalidInput
	case UnknownAlgorithm:
		return ErrUnknownAlgorithm
	default:
		return nil
	}
}

func invalidInput(field, format string, args ...any) *Error {
	return &Error{Kind: InvalidInput, Field: field, Message: fmt.Sprintf(format, args...)}
}

func unknownAlgorithm(name string) *Error {
	return &Error{
		Kind:    UnknownAlgorithm,
		Field:   "algorithm",
		Message: fmt.Sprintf("%q is not one of FCFS, SJF, NPP, SRTF, PP, RR", name),
	}
}

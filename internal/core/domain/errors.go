package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("domain: not found")
	ErrMalformedInput = errors.New("domain: malformed input")
	ErrFetchFailed    = errors.New("domain: fetch failed")
	ErrLengthMismatch = errors.New("domain: length mismatch")
	ErrEmptyGroup     = errors.New("domain: empty group")
	ErrUnknownFeature = errors.New("domain: unknown feature")
	ErrInvalidQuery   = errors.New("domain: invalid query")
)

// MalformedInputError locates an unexpected shape in upstream data.
type MalformedInputError struct {
	Index  int    // item index, -1 when the whole payload is wrong
	Field  string // JSON path that was missing or invalid
	Reason string
}

func (e *MalformedInputError) Error() string {
	msg := fmt.Sprintf("%s: field %q", ErrMalformedInput, e.Field)
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s: item %d field %q", ErrMalformedInput, e.Index, e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// LengthMismatchError reports metadata and feature batches of different sizes.
type LengthMismatchError struct {
	Metadata int
	Features int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%s: %d metadata rows, %d feature rows", ErrLengthMismatch, e.Metadata, e.Features)
}

func (e *LengthMismatchError) Is(target error) bool {
	return target == ErrLengthMismatch
}

// EmptyGroupError reports an aggregation over a group with no rows.
type EmptyGroupError struct {
	Group string
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("%s: no rows in group %q", ErrEmptyGroup, e.Group)
}

func (e *EmptyGroupError) Is(target error) bool {
	return target == ErrEmptyGroup
}

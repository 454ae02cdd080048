// Package etlerr tags errors with the stage they came from and the kind of
// failure, so that callers can tell a network failure from a database one
// without matching on messages.
package etlerr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindNetwork is a transport level failure while fetching the page.
	KindNetwork
	// KindTableNotFound means no table on the page contained the marker.
	KindTableNotFound
	// KindParse means the document itself could not be parsed. Unparsable
	// numbers are not errors, they become zero.
	KindParse
	KindTransform
	// KindIO covers the JSON output and the progress log.
	KindIO
	KindDatabase
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTableNotFound:
		return "table_not_found"
	case KindParse:
		return "parse"
	case KindTransform:
		return "transform"
	case KindIO:
		return "io"
	case KindDatabase:
		return "database"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

type Stage string

const (
	StageConfig    Stage = "config"
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoad      Stage = "load"
	StageReport    Stage = "report"
	StageProgress  Stage = "progress"
)

type Error struct {
	Stage Stage
	Kind  Kind
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err, returning nil if err is nil.
func New(stage Stage, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Stage: stage, Kind: kind, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StageOf returns the stage of the outermost *Error in err's chain, or "".
func StageOf(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

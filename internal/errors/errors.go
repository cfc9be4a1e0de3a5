// Package errors provides standardized error handling for imagesort.
// It defines the error kinds raised by file actions, the undo history and
// directory switching, along with helpers for creating, wrapping and
// classifying them.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	NotFound
	InvalidName
	IO
	DirectoryUnavailable
	// History error kinds
	EmptyHistory
	InvalidState
	// Config error kinds
	InvalidConfig
	// Lifecycle
	Closed
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidName:
		return "invalid_name"
	case IO:
		return "io"
	case DirectoryUnavailable:
		return "directory_unavailable"
	case EmptyHistory:
		return "empty_history"
	case InvalidState:
		return "invalid_state"
	case InvalidConfig:
		return "invalid_config"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching by kind.
var (
	ErrNotFound             = &ApplicationError{msg: "not found", kind: NotFound}
	ErrInvalidName          = &ApplicationError{msg: "invalid name", kind: InvalidName}
	ErrIO                   = &ApplicationError{msg: "i/o failure", kind: IO}
	ErrDirectoryUnavailable = &ApplicationError{msg: "directory unavailable", kind: DirectoryUnavailable}
	ErrEmptyHistory         = &ApplicationError{msg: "empty history", kind: EmptyHistory}
	ErrInvalidState         = &ApplicationError{msg: "invalid state", kind: InvalidState}
	ErrInvalidConfig        = &ApplicationError{msg: "invalid configuration", kind: InvalidConfig}
	ErrClosed               = &ApplicationError{msg: "browser closed", kind: Closed}
)

type kinded interface {
	Kind() ErrorKind
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// Is matches any error of the same non-Unknown kind.
func (e *ApplicationError) Is(target error) bool {
	t, ok := target.(kinded)
	if !ok {
		return false
	}
	return e.kind != Unknown && t.Kind() == e.kind
}

// FileError represents errors related to a specific path
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// NotFoundError is returned when an action's source file or destination
// folder does not exist.
type NotFoundError struct {
	FileError
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg, path string) *NotFoundError {
	return &NotFoundError{FileError: *NewFileError(msg, path, NotFound, nil)}
}

// InvalidNameError is returned when a new file name contains characters the
// filesystem cannot store.
type InvalidNameError struct {
	FileError
	name string
}

// NewInvalidNameError creates a new invalid name error
func NewInvalidNameError(name string) *InvalidNameError {
	return &InvalidNameError{
		FileError: *NewFileError("new name contains illegal characters", name, InvalidName, nil),
		name:      name,
	}
}

// Name returns the rejected name
func (e *InvalidNameError) Name() string {
	return e.name
}

// IoError wraps a failed move or enumeration.
type IoError struct {
	FileError
}

// NewIoError creates a new I/O error
func NewIoError(msg, path string, err error) *IoError {
	return &IoError{FileError: *NewFileError(msg, path, IO, err)}
}

// DirectoryUnavailableError is returned when a directory switch cannot
// enumerate the requested folder.
type DirectoryUnavailableError struct {
	FileError
}

// NewDirectoryUnavailableError creates a new directory unavailable error
func NewDirectoryUnavailableError(path string, err error) *DirectoryUnavailableError {
	return &DirectoryUnavailableError{FileError: *NewFileError("directory unavailable", path, DirectoryUnavailable, err)}
}

// EmptyHistoryError is returned by undo/redo when there is nothing to apply.
type EmptyHistoryError struct {
	ApplicationError
	op string
}

// NewEmptyHistoryError creates a new empty history error for op ("undo" or "redo")
func NewEmptyHistoryError(op string) *EmptyHistoryError {
	return &EmptyHistoryError{
		ApplicationError: ApplicationError{
			msg:  fmt.Sprintf("nothing to %s", op),
			kind: EmptyHistory,
		},
		op: op,
	}
}

// Operation returns the history operation that failed
func (e *EmptyHistoryError) Operation() string {
	return e.op
}

// InvalidStateError is returned when an operation is called in a state that
// does not allow it, such as acting an already applied action.
type InvalidStateError struct {
	ApplicationError
}

// NewInvalidStateError creates a new invalid state error
func NewInvalidStateError(msg string) *InvalidStateError {
	return &InvalidStateError{ApplicationError: ApplicationError{msg: msg, kind: InvalidState}}
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: InvalidConfig,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidName checks if the error is an invalid name error
func IsInvalidName(err error) bool {
	return errors.Is(err, ErrInvalidName)
}

// IsIO checks if the error is an I/O error
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsDirectoryUnavailable checks if the error is a directory unavailable error
func IsDirectoryUnavailable(err error) bool {
	return errors.Is(err, ErrDirectoryUnavailable)
}

// IsEmptyHistory checks if the error is an empty history error
func IsEmptyHistory(err error) bool {
	return errors.Is(err, ErrEmptyHistory)
}

// IsInvalidState checks if the error is an invalid state error
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsClosed checks if the error reports use of a closed browser
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

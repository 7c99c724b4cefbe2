package errors

import (
	stderrors "errors"
	"fmt"
)

type Kind string

const (
	InvalidConfig Kind = "invalid_config"
	InvalidInput  Kind = "invalid_input"
	NotFound      Kind = "not_found"
	DecodeFailure Kind = "decode_failure"
	EncodeFailure Kind = "encode_failure"
	ExifFailure   Kind = "exif_failure"
	IOFailure     Kind = "io_failure"
	Busy          Kind = "busy"
	Internal      Kind = "internal"
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// New builds an AppError from a plain message.
func New(kind Kind, op, path, msg string) error {
	return Wrap(kind, op, path, stderrors.New(msg))
}

// Ensure wraps err with kind unless it already carries one.
func Ensure(kind Kind, op, path string, err error) error {
	var appErr *AppError
	if err == nil || stderrors.As(err, &appErr) {
		return err
	}
	return Wrap(kind, op, path, err)
}

// KindOf reports the kind of the outermost AppError in err's chain.
// Errors that carry no kind are Internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func UserMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case InvalidInput:
		return fmt.Sprintf("Invalid input: %v", appErr.Err)
	case NotFound:
		return fmt.Sprintf("Path not found: %s", appErr.Path)
	case DecodeFailure:
		return fmt.Sprintf("Cannot decode image: %s", appErr.Path)
	case EncodeFailure:
		return fmt.Sprintf("Cannot encode image: %s", appErr.Path)
	case ExifFailure:
		return fmt.Sprintf("EXIF read failed: %s", appErr.Path)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s: %v", appErr.Path, appErr.Err)
	case Busy:
		return "A conversion job is already running"
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}

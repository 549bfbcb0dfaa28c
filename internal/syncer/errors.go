package syncer

import (
	"errors"
	"fmt"

	"github.com/roach88/kbsync/internal/classify"
	"github.com/roach88/kbsync/internal/content"
)

// ErrorCode categorizes per-article sync failures.
type ErrorCode string

const (
	// ErrCodeMalformedContent: the document body failed to parse.
	ErrCodeMalformedContent ErrorCode = "MALFORMED_CONTENT"

	// ErrCodeStore: a database or forum call failed.
	ErrCodeStore ErrorCode = "STORE_ERROR"

	// ErrCodeUnresolvedReference: the article names a discussion that
	// cannot be located among live discussions.
	ErrCodeUnresolvedReference ErrorCode = "UNRESOLVED_REFERENCE"
)

// SyncError is a per-article failure, carrying the originating file path
// for operator visibility. It aborts only that article's sync.
type SyncError struct {
	Code ErrorCode
	Path string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Path, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// wrapError attaches the article's file path and an error code to err.
func wrapError(path string, err error) *SyncError {
	code := ErrCodeStore

	var malformed *content.MalformedContentError
	var unresolved *classify.UnresolvedReferenceError
	switch {
	case errors.As(err, &malformed):
		code = ErrCodeMalformedContent
	case errors.As(err, &unresolved):
		code = ErrCodeUnresolvedReference
	}

	return &SyncError{Code: code, Path: path, Err: err}
}

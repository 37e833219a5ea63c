// Package errorspkg provides common app errors and the business failure taxonomy.
package errorspkg

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInternal indicates internal server error. It covers unclassified
// failures (storage unavailable, cancellation) and must never be confused
// with the business taxonomy below.
var ErrInternal = errors.New("internal")

// Kind classifies a business failure. Business failures are deterministic
// outcomes and are never retried.
type Kind int

const (
	// KindUnclassified marks errors outside the business taxonomy.
	KindUnclassified Kind = iota
	// KindNotFound indicates that a referenced entity does not exist.
	KindNotFound
	// KindAlreadyExists indicates a uniqueness conflict on creation.
	KindAlreadyExists
	// KindInvalidOperation indicates a rejected business operation.
	KindInvalidOperation
)

// HTTPStatus maps the taxonomy to the status codes the boundary must honor.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists:
		return http.StatusConflict
	case KindInvalidOperation:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Error is a business-rule failure with a human-readable message naming
// the entity and identifying value involved.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// NotFoundf returns a KindNotFound business error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

// AlreadyExistsf returns a KindAlreadyExists business error.
func AlreadyExistsf(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyExists, msg: fmt.Sprintf(format, args...)}
}

// InvalidOperationf returns a KindInvalidOperation business error.
func InvalidOperationf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidOperation, msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the business kind of err or KindUnclassified
// if err is not a business failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnclassified
}

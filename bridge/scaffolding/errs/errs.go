// Package errs provides types and support related to web error functionality.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode represents an error code in the system.
type ErrCode int

const (
	OK ErrCode = iota
	InvalidArgument
	NotFound
	Unauthenticated
	PermissionDenied
	Internal
	// InternalOnlyLog marks errors whose detail must never reach the
	// caller; the errors middleware swaps them for a generic Internal.
	InternalOnlyLog
)

var codeNames = map[ErrCode]string{
	OK:               "ok",
	InvalidArgument:  "invalid_argument",
	NotFound:         "not_found",
	Unauthenticated:  "unauthenticated",
	PermissionDenied: "permission_denied",
	Internal:         "internal",
	InternalOnlyLog:  "internal",
}

func (ec ErrCode) String() string {
	if name, ok := codeNames[ec]; ok {
		return name
	}
	return "unknown"
}

var httpStatus = map[ErrCode]int{
	OK:               http.StatusOK,
	InvalidArgument:  http.StatusBadRequest,
	NotFound:         http.StatusNotFound,
	Unauthenticated:  http.StatusUnauthorized,
	PermissionDenied: http.StatusForbidden,
	Internal:         http.StatusInternalServerError,
	InternalOnlyLog:  http.StatusInternalServerError,
}

// Error represents an error in the system.
type Error struct {
	Code     ErrCode `json:"code"`
	Message  string  `json:"message"`
	FuncName string  `json:"-"`
	FileName string  `json:"-"`
}

// New constructs an error based on an app error.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf constructs an error based on an error format string.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Encode implements the web Encoder interface.
func (e *Error) Encode() ([]byte, string, error) {
	type response struct {
		Error string `json:"error"`
	}

	data, err := json.Marshal(response{Error: e.Message})
	return data, "application/json; charset=utf-8", err
}

// HTTPStatus implements the web httpStatus interface so the code is used
// as the response status.
func (e *Error) HTTPStatus() int {
	status, ok := httpStatus[e.Code]
	if !ok {
		return http.StatusInternalServerError
	}
	return status
}

// IsError tests an error to see if it is an app error.
func IsError(err error) bool {
	var er *Error
	return errors.As(err, &er)
}

// GetError returns a copy of the app error, or a generic Internal error
// when the error is not an app error.
func GetError(err error) *Error {
	var er *Error
	if !errors.As(err, &er) {
		return &Error{Code: Internal, Message: err.Error()}
	}
	return er
}

// Package status defines the result codes shared by services and the HTTP
// layer. Codes are stable and are returned to clients in the "code" field
// of every response.
package status

import (
	"errors"
	"fmt"
)

// Status is a result code with an associated human-readable message.
type Status int

const (
	Success Status = 0

	InternalServerError   Status = 10000
	RequestParamsNotValid Status = 10001
	UserNameExist         Status = 10003
	UserNamePasswdError   Status = 10013
	ResourceNotFound      Status = 10018
	Unauthenticated       Status = 10019
	TooManyRequests       Status = 10029
	StorageUnavailable    Status = 10500

	UserNoOperationPerm Status = 30001

	CreateAccessTokenError Status = 70010
	GenerateTokenError     Status = 70011
	QueryAccessTokenError  Status = 70012
	UpdateAccessTokenError Status = 70013
	DeleteAccessTokenError Status = 70014
	CreateUserError        Status = 70015
)

var messages = map[Status]string{
	Success:                "success",
	InternalServerError:    "internal server error",
	RequestParamsNotValid:  "request parameters are not valid",
	UserNameExist:          "user name already exists",
	UserNamePasswdError:    "user name or password error",
	ResourceNotFound:       "resource not found",
	Unauthenticated:        "authentication required",
	TooManyRequests:        "too many requests",
	StorageUnavailable:     "storage unavailable",
	UserNoOperationPerm:    "user has no operation privilege",
	CreateAccessTokenError: "create access token error",
	GenerateTokenError:     "generate token error",
	QueryAccessTokenError:  "query access token error",
	UpdateAccessTokenError: "update access token error",
	DeleteAccessTokenError: "delete access token error",
	CreateUserError:        "create user error",
}

// Code returns the numeric code sent to clients.
func (s Status) Code() int { return int(s) }

// Msg returns the message for s.
func (s Status) Msg() string {
	if m, ok := messages[s]; ok {
		return m
	}
	return fmt.Sprintf("status %d", int(s))
}

// OK reports whether s is Success.
func (s Status) OK() bool { return s == Success }

func (s Status) String() string { return s.Msg() }

// Error is an error carrying a Status. Services that return plain errors wrap
// them in Error so callers can recover the status with errors.As.
type Error struct {
	Err    error
	Status Status
}

// Errorf returns an *Error for st wrapping a formatted error.
func Errorf(st Status, format string, args ...any) *Error {
	return &Error{Status: st, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Status.Msg()
	}
	return fmt.Sprintf("%s: %v", e.Status.Msg(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FromError returns the Status carried by err, Success for a nil err and
// InternalServerError for an error without one.
func FromError(err error) Status {
	if err == nil {
		return Success
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Status
	}
	return InternalServerError
}

package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// UpstreamAuthError means the payment provider rejected or failed the
// credential exchange. Never retried within the request.
type UpstreamAuthError struct {
	Err error
}

func (e UpstreamAuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider auth failed: %v", e.Err)
	}
	return "provider auth failed"
}

func (e UpstreamAuthError) Unwrap() error { return e.Err }

// UpstreamRequestError covers provider rejections, malformed provider
// responses and timeouts on the push-payment submission.
type UpstreamRequestError struct {
	Msg string
	Err error
}

func (e UpstreamRequestError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return fmt.Sprintf("provider request failed: %v", e.Err)
	}
	return "provider request failed"
}

func (e UpstreamRequestError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsUpstreamAuth(err error) bool {
	var target UpstreamAuthError
	return errors.As(err, &target)
}

func IsUpstreamRequest(err error) bool {
	var target UpstreamRequestError
	return errors.As(err, &target)
}

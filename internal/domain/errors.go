package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrDomainNotAllowed = errors.New("email domain not allowed")
	ErrRemoteFailure    = errors.New("remote service reported failure")
	ErrUnavailable      = errors.New("remote service unavailable")
)

// RemoteError is a failure reported by the remote service together with
// its user-facing message. It matches ErrRemoteFailure under errors.Is;
// callers that want the message use errors.As.
type RemoteError struct {
	Msg string
}

func (e *RemoteError) Error() string {
	return ErrRemoteFailure.Error() + ": " + e.Msg
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteFailure
}

package api

import (
	"encoding/json"
	"errors"
)

// Kind buckets failures the way the UI treats them.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindNetwork
	KindServer
	KindValidation
)

// Error is the normalized failure returned by every Client call. Status is 0
// when no response was received at all.
type Error struct {
	Message string
	Status  int
	Data    json.RawMessage
}

func (e *Error) Error() string { return e.Message }

// Classify maps an error to the UI taxonomy. Non-API errors (client-side
// validation) classify as KindValidation when they carry the marker, otherwise
// KindUnknown.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		var v validationError
		if errors.As(err, &v) {
			return KindValidation
		}
		return KindUnknown
	}
	switch {
	case apiErr.Status == 0:
		return KindNetwork
	case apiErr.Status == 401:
		return KindUnauthorized
	case apiErr.Status == 403:
		return KindForbidden
	case apiErr.Status == 404:
		return KindNotFound
	case apiErr.Status == 400 || apiErr.Status == 422:
		return KindValidation
	case apiErr.Status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

func IsUnauthorized(err error) bool { return Classify(err) == KindUnauthorized }
func IsForbidden(err error) bool    { return Classify(err) == KindForbidden }
func IsNotFound(err error) bool     { return Classify(err) == KindNotFound }
func IsNetwork(err error) bool      { return Classify(err) == KindNetwork }

type validationError struct{ msg string }

func (v validationError) Error() string { return v.msg }

// ValidationError marks a client-side precondition failure. It never reaches
// the network.
func ValidationError(msg string) error { return validationError{msg: msg} }

// Package errkind defines the failure kinds shared by the replacer and builder
// packages. A single Error type carries the kind and the offending payload.
package errkind

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Unknown Kind = iota
	InvalidMarker
	UnresolvedKey
	InvalidName
	NotADirectory
	DirectoryNotFound
	UnbalancedScopeExit
)

func (k Kind) String() string {
	switch k {
	case InvalidMarker:
		return "invalid marker"
	case UnresolvedKey:
		return "unresolved key"
	case InvalidName:
		return "invalid name"
	case NotADirectory:
		return "not a directory"
	case DirectoryNotFound:
		return "directory not found"
	case UnbalancedScopeExit:
		return "unbalanced scope exit"
	default:
		return "unknown"
	}
}

// Error lets a Kind be used as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

type Error struct {
	Kind    Kind
	Payload string
	Err     error
}

func New(kind Kind, payload string) *Error {
	return &Error{Kind: kind, Payload: payload}
}

func Wrap(kind Kind, payload string, err error) *Error {
	return &Error{Kind: kind, Payload: payload, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %q: %v", e.Kind, e.Payload, e.Err)
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Payload)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind && (t.Payload == "" || e.Payload == t.Payload)
	}
	return false
}

// Of reports the kind of the first *Error in err's chain.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return Unknown, false
}

// PayloadOf returns the payload of the first *Error in err's chain, or "".
func PayloadOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Payload
	}
	return ""
}

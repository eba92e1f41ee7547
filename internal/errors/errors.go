package errors

import (
	"errors"
	"fmt"
)

// Kind says which collaborator an error came from.
type Kind string

const (
	KindInternal  Kind = "internal"
	KindRemote    Kind = "remote"
	KindDatastore Kind = "datastore"
	KindDecode    Kind = "decode"
)

// Error represents a failure that ends a sync run.
type Error struct {
	Kind    Kind
	Err     error // The error this wraps
	Details []Detail
}

type Detail struct {
	Field string
	Value string
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %s, details: %v", e.Kind, e.Err, e.Details)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an [Error] from any mix of a message or error, a [Kind] and details.
func E(args ...any) *Error {
	ret := &Error{
		Kind:    KindInternal,
		Err:     nil,
		Details: nil,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case string:
			ret.Err = errors.New(arg)
		case error:
			ret.Err = arg
		case Kind:
			ret.Kind = arg
		case Detail:
			ret.Details = append(ret.Details, arg)
		case []Detail:
			ret.Details = append(ret.Details, arg...)
		}
	}

	return ret
}

// KindOf returns the kind of the first [Error] in err's chain, or
// [KindInternal] when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

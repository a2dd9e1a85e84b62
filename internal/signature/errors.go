package signature

import (
	"errors"
	"fmt"
)

// ErrMissingSig is returned when the input has no `::` separator at all.
var ErrMissingSig = errors.New("missing Haskell type signature: expected the form `NAME :: TYPE`")

// MalformedSigError reports an input that has a `::` separator but is
// otherwise not of the form `NAME :: TYPE`.
type MalformedSigError struct {
	Raw string
}

func (e *MalformedSigError) Error() string {
	return fmt.Sprintf("given Haskell function definition is `%s` but should have the form `NAME :: TYPE`", e.Raw)
}

// HsTypeError reports a type token rejected by the TypeParser. Message is the
// parser's error text, unchanged.
type HsTypeError struct {
	Token   string
	Message string
	err     error
}

func (e *HsTypeError) Error() string {
	return "Haskell type error: " + e.Message
}

// Unwrap returns the error produced by the TypeParser.
func (e *HsTypeError) Unwrap() error {
	return e.err
}

func newHsTypeError(token string, err error) *HsTypeError {
	return &HsTypeError{Token: token, Message: err.Error(), err: err}
}

package intarr

import "fmt"

// UsageError reports a malformed invocation: a missing input argument, too
// many arguments or an unknown order flag.
type UsageError struct {
	Reason string
	Err    error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("usage error: %s: %v", e.Reason, e.Err)
	}
	return "usage error: " + e.Reason
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ParseError reports a non-empty token that is not a valid base-10 integer.
// Position is the 1-based index of the token among the ';'-separated fields.
type ParseError struct {
	Token    string
	Position int
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid integer %q at field %d: %v", e.Token, e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

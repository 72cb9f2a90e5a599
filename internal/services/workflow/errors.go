package workflow

import "errors"

// Kind classifies a workflow failure so the HTTP layer can pick a status
// code without string-matching messages.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalidState
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func invalidArgument(msg string) *Error { return &Error{Kind: KindInvalidArgument, Message: msg} }
func notFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func forbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Message: msg} }
func conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }
func invalidState(msg string) *Error    { return &Error{Kind: KindInvalidState, Message: msg} }

// KindOf returns the workflow kind of err, or 0 when err is not a workflow
// error.
func KindOf(err error) Kind {
	var wErr *Error
	if errors.As(err, &wErr) {
		return wErr.Kind
	}
	return 0
}

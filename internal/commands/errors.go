package commands

import "fmt"

// UserError is bad input from a player. Its message is shown to them and
// it is never treated as a system failure.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

// usageError reports a command typed with the wrong shape.
func usageError(verb, usage string) *UserError {
	return NewUserError(fmt.Sprintf("Bad %s command format, expected:  %s", verb, usage))
}

package pathcheck

import "fmt"

// NotFoundError reports a command that does not resolve to an executable.
type NotFoundError struct {
	Command string
	Reason  string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command %q: %s", e.Command, e.Reason)
}

func newNotFoundError(command, reason string) *NotFoundError {
	return &NotFoundError{Command: command, Reason: reason}
}

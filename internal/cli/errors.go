package cli

import "errors"

// PreflightError is a user-facing failure detected before any work was
// done, carrying enough context to fix the problem.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	return e.Message
}

func asPreflight(err error, target **PreflightError) bool {
	return errors.As(err, target)
}

package assistant

import "fmt"

// MalformedArgumentsError reports a function-call payload from the model
// that failed schema validation: unparseable JSON or a missing required
// field. It is fatal for the query that produced it; there is no retry.
type MalformedArgumentsError struct {
	Function string
	Err      error
}

func (e *MalformedArgumentsError) Error() string {
	return fmt.Sprintf("malformed arguments for %s: %v", e.Function, e.Err)
}

func (e *MalformedArgumentsError) Unwrap() error {
	return e.Err
}

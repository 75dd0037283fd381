package pipeline

import "fmt"

// InputError marks input the pipeline refuses to analyze: too large, not
// valid UTF-8. Callers map it to a client error (HTTP 400, exit status 1
// with a clear message), distinct from a low score.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

// FatalError marks an internal failure in a pipeline stage. Callers map it
// to a server error; it never masquerades as a credibility verdict.
type FatalError struct {
	Stage string
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

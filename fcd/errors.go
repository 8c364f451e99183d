package fcd

import "fmt"

// ParseError reports an input trace that could not be read or does not
// have the expected shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse trace: %v", e.Err)
	}
	return fmt.Sprintf("parse trace %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError reports a failure while writing an output trace.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("write trace: %v", e.Err)
	}
	return fmt.Sprintf("write trace %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

package config

// ArgumentError reports a missing or malformed flag or config value.
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string {
	return "argument error: " + e.Err.Error()
}

func (e *ArgumentError) Unwrap() error { return e.Err }

package errors

// ErrorCode identifies a failure class within the governor. Codes cover
// configuration, probe access, telemetry storage, and control-loop faults.
type ErrorCode string

// Error carries a code alongside the rendered message so callers can branch
// on the failure class without parsing strings.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory creates domain errors, optionally wrapping an underlying cause
// such as a failed sensor read or an sqlite error.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}

package queryout

// Code is a fixed, enumerable failure identifier attached to an Error for
// machine-readable classification, independent of the human-readable message.
type Code int

const (
	// CodeQueryOutputWriteFailure covers every failure to open or release
	// the query output destination. It is the only code this package emits.
	CodeQueryOutputWriteFailure Code = iota + 1
)

// String returns the identifier form of the code, for logs and messages.
func (c Code) String() string {
	switch c {
	case CodeQueryOutputWriteFailure:
		return "QUERY_OUTPUT_WRITE_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Error is a typed failure from the output sink: opening the output file or
// releasing it. It always carries a Code and wraps the underlying system
// error as its cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Package queryout routes the textual result of a query command to either
// the console or a file, chosen by the `-output_file` option.
//
// The caller protocol is: obtain a Sink from New, write all output to the
// writer returned by OutputStream, call AfterOutputWritten only if writing
// succeeded, and always call Close exactly once on every exit path
// (typically via defer). Close on the file variant is idempotent: a second
// call is a no-op.
//
// Open and close failures are reported as *Error carrying the fixed code
// CodeQueryOutputWriteFailure and wrapping the underlying cause; that is
// the only failure code this package emits.
package queryout

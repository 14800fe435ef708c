package queryout

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink is one writable destination for query output. A sink is for
// single-threaded use; the caller must serialize writes to the returned
// stream.
type Sink interface {
	// OutputStream returns the writer query output goes to. The sink, not
	// the caller, is responsible for releasing it.
	OutputStream() io.Writer

	// AfterOutputWritten must be called after the query evaluated
	// successfully and all output has been written, and never when the
	// query failed. It is currently a no-op on both variants, reserved for
	// future finalization such as flush-and-rename.
	AfterOutputWritten() error

	// Close releases any owned resource. It must be called exactly once on
	// every exit path, whether or not AfterOutputWritten was reached; a
	// second call on the file variant is a no-op.
	Close() error
}

// Env is the slice of the command environment the sink factory needs: the
// default console writer and the directory relative paths resolve against.
type Env struct {
	Stdout  io.Writer
	WorkDir string
}

// Options carries the single configuration knob of this package.
type Options struct {
	// OutputFile is the `-output_file` value. Empty means write to the
	// console; otherwise it is a path resolved against Env.WorkDir.
	OutputFile string
}

// New creates the sink for one command invocation. With no output file
// configured it wraps the environment's console writer without acquiring
// anything; otherwise it opens (create-or-truncate, write-only) the file at
// the resolved path. An open failure is reported as *Error with
// CodeQueryOutputWriteFailure.
func New(env Env, opts Options) (Sink, error) {
	if opts.OutputFile == "" {
		return &consoleSink{out: env.Stdout}, nil
	}

	path := opts.OutputFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(env.WorkDir, path)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, &Error{
			Code:    CodeQueryOutputWriteFailure,
			Message: fmt.Sprintf("could not open query output file %s", path),
			Err:     err,
		}
	}
	return &fileSink{path: path, f: f}, nil
}

// consoleSink wraps the command's existing console writer. It owns nothing:
// Close must never close the console, which stays usable after the command.
type consoleSink struct {
	out io.Writer
}

func (s *consoleSink) OutputStream() io.Writer {
	return s.out
}

func (s *consoleSink) AfterOutputWritten() error {
	return nil
}

func (s *consoleSink) Close() error {
	return nil
}

// fileSink owns a freshly opened file handle and must release it exactly once.
type fileSink struct {
	path string
	f    *os.File
}

func (s *fileSink) OutputStream() io.Writer {
	return s.f
}

func (s *fileSink) AfterOutputWritten() error {
	return nil
}

// Close releases the owned handle. Calling it again after a first Close,
// successful or not, is a no-op.
func (s *fileSink) Close() error {
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil
	if err := f.Close(); err != nil {
		return &Error{
			Code:    CodeQueryOutputWriteFailure,
			Message: fmt.Sprintf("could not close query output file %s", s.path),
			Err:     err,
		}
	}
	return nil
}

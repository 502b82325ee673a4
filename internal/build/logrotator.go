package build

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"
)

const (
	// DefaultMaxLogFiles is the number of rotated log files kept on disk.
	DefaultMaxLogFiles = 3

	// DefaultMaxLogFileSize is the size in MB at which the log rotates.
	DefaultMaxLogFileSize = 10

	// DefaultLogFilename is the name of the active log file.
	DefaultLogFilename = "plexdash.log"
)

// RotatingLogWriter is an io.WriteCloser feeding a gzip-compressing file
// rotator through a pipe.
type RotatingLogWriter struct {
	pipe    *io.PipeWriter
	rotator *rotator.Rotator
	done    chan struct{}
}

// NewRotatingLogWriter opens (creating if needed) the log file at
// dir/filename and starts the rotator.
func NewRotatingLogWriter(dir, filename string, maxFiles,
	maxSizeMB int) (*RotatingLogWriter, error) {

	if filename == "" {
		filename = DefaultLogFilename
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// The rotator threshold is in kilobytes.
	r, err := rotator.New(
		filepath.Join(dir, filename), int64(maxSizeMB*1024), false,
		maxFiles,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create file rotator: %w", err)
	}
	r.SetCompressor(gzip.NewWriter(nil), ".gz")

	pr, pw := io.Pipe()
	w := &RotatingLogWriter{
		pipe:    pw,
		rotator: r,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(w.done)

		// The rotator is the log destination, so failures go to stderr.
		if err := r.Run(pr); err != nil {
			_, _ = fmt.Fprintf(
				os.Stderr, "failed to run file rotator: %v\n", err,
			)
		}
	}()

	return w, nil
}

// Write hands the bytes to the rotator.
func (w *RotatingLogWriter) Write(b []byte) (int, error) {
	return w.pipe.Write(b)
}

// Close flushes pending output and waits for the rotator to exit.
func (w *RotatingLogWriter) Close() error {
	err := w.pipe.Close()
	<-w.done

	return err
}

// A compile time check to ensure RotatingLogWriter is an io.WriteCloser.
var _ io.WriteCloser = (*RotatingLogWriter)(nil)

package snap

import (
	"io"
	"log"
	"os"
)

var (
	opsLogger  = newLogger("[snap] ", os.Stderr)
	diagLogger *log.Logger
)

// SetLogWriters configures the two logging streams for the snap package.
// Pass nil for either writer to disable that stream.
func SetLogWriters(ops, diag io.Writer) {
	opsLogger = newLogger("[snap] ", ops)
	diagLogger = newLogger("[snap] ", diag)
}

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

// opsf logs to the ops stream (errors that point at bad data or a bug).
func opsf(format string, args ...interface{}) {
	if opsLogger != nil {
		opsLogger.Printf(format, args...)
	}
}

// diagf logs to the diag stream (activation details, tuning context).
func diagf(format string, args ...interface{}) {
	if diagLogger != nil {
		diagLogger.Printf(format, args...)
	}
}

package kdl

import (
	"io"
	"log"
	"os"
)

// kdlOptions is the package-level debug switch: a single struct
// instance holding process-wide settings that don't belong on every
// call's signature.
type kdlOptions struct {
	debug bool
}

var (
	options = kdlOptions{}
	logger  = log.New(os.Stdout, "[kdl] ", log.LstdFlags)
)

// SetDebug turns on debug logging to the configured writer: Tokenize
// and Parse each log one line with the size of their input. Off by
// default; decode/encode calls never write anything unless this has
// been enabled.
func SetDebug(b bool) {
	options.debug = b
}

// SetDebugOutput redirects debug tracing to w (os.Stdout by default).
func SetDebugOutput(w io.Writer) {
	logger = log.New(w, "[kdl] ", log.LstdFlags)
}

func logf(format string, args ...any) {
	if options.debug {
		logger.Printf(format, args...)
	}
}

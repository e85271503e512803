package cmdutil

import (
	"fmt"
	"io"
)

// Warnf writes a warning line to dst unless quiet mode is on.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}

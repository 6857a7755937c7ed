package config

import (
	"fmt"
	"io"
	"os"
)

var (
	osExit = os.Exit
	exit   = osExit
)

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fprintExit(os.Stderr, format, args...)
}

func fprintExit(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
	exit(1)
}

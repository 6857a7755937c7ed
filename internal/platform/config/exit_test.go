package config

import (
	"bytes"
	"testing"
)

func TestExitfWritesMessageAndExitsWithCode1(t *testing.T) {
	var code int
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = osExit })

	var buf bytes.Buffer
	fprintExit(&buf, "fatal: %s", "grid stalled")

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if got := buf.String(); got != "fatal: grid stalled\n" {
		t.Fatalf("unexpected message %q", got)
	}
}

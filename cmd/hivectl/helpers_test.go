package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureOutput runs fn with os.Stdout redirected and returns what it wrote.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = orig })

	done := make(chan []byte)
	go func() {
		b, _ := io.ReadAll(r)
		done <- b
	}()

	fnErr := fn()
	require.NoError(t, w.Close())
	os.Stdout = orig
	out := <-done
	require.NoError(t, r.Close())

	return string(out), fnErr
}

// assertJSON checks that output is a single valid JSON document.
func assertJSON(t *testing.T, output string) {
	t.Helper()
	require.True(t, json.Valid([]byte(output)), "invalid JSON output:\n%s", output)
}

// assertContains checks that output contains every expected string.
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

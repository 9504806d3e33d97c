package logging

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), Prefix)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "chatty")
	require.Error(t, err)
}

func TestLineWriterSplitsLines(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug")
	require.NoError(t, err)

	w := LineWriter(logger, "rancher-compose")
	_, _ = fmt.Fprint(w, "first line\nsecond ")
	_, _ = fmt.Fprint(w, "line\n\n  \ntrailing")
	assert.NotContains(t, buf.String(), "trailing")
	require.NoError(t, w.Close())

	out := buf.String()
	assert.Contains(t, out, "first line")
	assert.Contains(t, out, "second line")
	assert.Contains(t, out, "trailing")
	assert.Contains(t, out, "rancher-compose")
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	logger := Discard()
	assert.Same(t, logger, OrDiscard(logger))
}

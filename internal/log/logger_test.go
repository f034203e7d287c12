package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	specs := []struct {
		name  string
		level Level
		ok    bool
	}{
		{"debug", Debug, true},
		{"info", Info, true},
		{"notice", Notice, true},
		{"warn", Warning, true},
		{"warning", Warning, true},
		{"error", Error, true},
		{"verbose", Notice, false},
	}
	for _, spec := range specs {
		level, ok := ParseLevel(spec.name)
		assert.Equal(t, spec.ok, ok, spec.name)
		assert.Equal(t, spec.level, level, spec.name)
	}
}

func TestParsedLevelFiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	level, ok := ParseLevel("info")
	require.True(t, ok)
	SetLevel(level)

	logger := New("logtest")
	logger.Debug("hidden message")
	logger.Info("shown message")

	assert.NotContains(t, buf.String(), "hidden message")
	assert.Contains(t, buf.String(), "shown message")
}

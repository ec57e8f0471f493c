package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closer, err := New(Options{Level: "debug", Format: "json", FilePath: path})
	require.NoError(t, err)

	logger.WithField("request_id", "abc").Debug("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "abc", entry["request_id"])
	assert.Contains(t, entry["file"], "logging_test.go:")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger, closer, err := New(Options{Level: "chatty"})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() { logger.Info("dropped") })
}

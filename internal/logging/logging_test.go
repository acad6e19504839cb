package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := Setup("info", "json", &buf)
	require.NoError(t, err)

	log.WithField("bank", "BBVA").Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["loglevel"])
	assert.Equal(t, "BBVA", line["bank"])
	assert.Equal(t, "hello", line["msg"])
}

func TestSetup_Errors(t *testing.T) {
	_, err := Setup("loud", "text", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = Setup("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := Setup("warn", "text", &buf)
	require.NoError(t, err)

	log.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestTrack(t *testing.T) {
	var buf bytes.Buffer
	log, err := Setup("debug", "text", &buf)
	require.NoError(t, err)

	done := Track(log, "Client.Accounts")
	done(nil)
	assert.Contains(t, buf.String(), "Client.Accounts.Start")
	assert.Contains(t, buf.String(), "Client.Accounts.Complete")

	buf.Reset()
	done = Track(log, "Client.Cards")
	done(errors.New("boom"))
	assert.Contains(t, buf.String(), "Client.Cards.Error")
	assert.Contains(t, buf.String(), "boom")
}

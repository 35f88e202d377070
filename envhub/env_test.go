package envhub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadReturnsNilHubWhenNoSinkConfigured(t *testing.T) {
	h, err := load(fakeEnv(nil))
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestLoadConfiguresSoundSink(t *testing.T) {
	h, err := load(fakeEnv(map[string]string{envSound: "true"}))
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestLoadConfiguresSlackSink(t *testing.T) {
	h, err := load(fakeEnv(map[string]string{
		envSlackWebhookURL: "https://hooks.slack.com/services/X/Y/Z",
	}))
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestLoadRejectsInvalidBool(t *testing.T) {
	_, err := load(fakeEnv(map[string]string{envSound: "maybe"}))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	_, err := load(fakeEnv(map[string]string{
		envSound:     "true",
		envTimeoutMS: "not-a-number",
	}))
	assert.Error(t, err)
}

func TestParseTimeoutMSDefaultsAndFloors(t *testing.T) {
	d, err := parseTimeoutMS("")
	require.NoError(t, err)
	assert.Equal(t, 5000*time.Millisecond, d)

	d, err = parseTimeoutMS("0")
	require.NoError(t, err)
	assert.Equal(t, 1*time.Millisecond, d)
}

func TestParseBoolFlagAcceptsDocumentedSpellings(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "On"} {
		ok, err := parseBoolFlag(v)
		require.NoError(t, err)
		assert.True(t, ok, v)
	}
	for _, v := range []string{"0", "false", "FALSE", "no", "Off"} {
		ok, err := parseBoolFlag(v)
		require.NoError(t, err)
		assert.False(t, ok, v)
	}
}

func TestParseEventsSplitsAndTrims(t *testing.T) {
	assert.Nil(t, parseEvents(""))
	assert.Equal(t, []string{"a", "b"}, parseEvents("a, b"))
}

package sink

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/notifyguard/event"
	"github.com/kart-io/notifyguard/logger"
)

func TestSoundRingsOneBellForNonError(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	s, err := NewSound()
	require.NoError(t, err)
	s.stderr = w

	require.NoError(t, s.Send(context.Background(), event.New("k", event.Warning, "t")))
	w.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	assert.Equal(t, "\a", buf.String())
}

func TestSoundRingsTwoBellsForError(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	s, err := NewSound()
	require.NoError(t, err)
	s.stderr = w

	require.NoError(t, s.Send(context.Background(), event.New("k", event.Error, "t")))
	w.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	assert.Equal(t, "\a\a", buf.String())
}

func TestSoundRunsConfiguredCommandWhenEnabled(t *testing.T) {
	s, err := NewSound(WithSoundCommand([]string{"true"}, true))
	require.NoError(t, err)
	assert.NoError(t, s.Send(context.Background(), event.New("k", event.Info, "t")))
}

func TestSoundFallsBackToBellWhenCommandDisabled(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	s, err := NewSound(WithSoundCommand([]string{"true"}, false), WithSoundLogger(logger.Discard))
	require.NoError(t, err)
	s.stderr = w

	require.NoError(t, s.Send(context.Background(), event.New("k", event.Info, "t")))
	w.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	assert.Equal(t, "\a", buf.String())
}

func TestNewSoundRejectsEmptyProgram(t *testing.T) {
	_, err := NewSound(WithSoundCommand([]string{""}, true))
	assert.Error(t, err)
}

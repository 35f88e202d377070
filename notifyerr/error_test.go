package notifyerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorNormalDisplayIsShortMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CategoryTransport, CodeConnect, "connect failed")
	assert.Equal(t, "connect failed", err.Error())
}

func TestErrorAlternateDisplayJoinsFullChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CategoryTransport, CodeConnect, "connect failed")
	assert.Equal(t, "connect failed: connection refused", err.Alternate())
}

func TestErrorFormatPlusVMatchesAlternate(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(cause, CategoryTransport, CodeConnect, "connect failed")
	assert.Equal(t, err.Alternate(), fmt.Sprintf("%+v", err))
	assert.Equal(t, err.Error(), fmt.Sprintf("%v", err))
}

func TestErrorUnwrapsForErrorsAs(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(cause, CategoryTransport, CodeConnect, "connect failed")

	var target *Error
	require.True(t, errors.As(err, &target))
	assert.Equal(t, CodeConnect, target.Code())
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestAggregateOrdersBySinkIndexAndUsesAlternateForm(t *testing.T) {
	failures := []SinkFailure{
		{Index: 0, Name: "first", Err: errors.New("boom")},
		{Index: 1, Name: "second", Err: Wrap(errors.New("cause"), CategoryTransport, CodeConnect, "connect failed")},
	}
	agg := Aggregate(failures)
	require.Error(t, agg)
	msg := agg.Error()
	assert.Contains(t, msg, "one or more sinks failed:")
	assert.Contains(t, msg, "- first: boom")
	assert.Contains(t, msg, "- second: connect failed: cause")
	assert.Less(t, indexOf(msg, "- first:"), indexOf(msg, "- second:"))
}

func TestAggregateOfNoFailuresIsNil(t *testing.T) {
	assert.Nil(t, Aggregate(nil))
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

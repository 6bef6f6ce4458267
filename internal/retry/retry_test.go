package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-monitor/pkg/models"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	var reported []error

	value, err := Do("test op", 3, time.Millisecond, func(err error) { reported = append(reported, err) }, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, &models.TransportError{Op: "test op", Status: 503}
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.Equal(t, 3, calls)
	assert.Len(t, reported, 2, "each failed attempt is reported")
}

func TestDoLeavesFinalFailureToTheCaller(t *testing.T) {
	var reported []error
	boom := errors.New("boom")

	_, err := Do("test op", 3, time.Millisecond, func(err error) { reported = append(reported, err) }, func() (int, error) {
		return 0, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Len(t, reported, 2, "the exhausting attempt propagates instead of being reported")
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")

	_, err := Do("test op", 3, time.Millisecond, nil, func() (int, error) {
		calls++
		return 0, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoNeverRetriesStructuralErrors(t *testing.T) {
	calls := 0

	_, err := Do("test op", 3, time.Millisecond, nil, func() (int, error) {
		calls++
		return 0, models.NewStructuralError("regular", "markup changed")
	})

	var structural *models.StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, 1, calls)
}

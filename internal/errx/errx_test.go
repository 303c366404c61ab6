package errx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel failure")

func TestWrapPreservesSentinelIdentity(t *testing.T) {
	cause := errors.New("underlying cause")
	wrapped := Wrap(errSentinel, cause)

	require.True(t, Is(wrapped, errSentinel))
	require.True(t, Is(wrapped, cause))
}

func TestWrapNilCauseReturnsSentinel(t *testing.T) {
	wrapped := Wrap(errSentinel, nil)
	require.Equal(t, errSentinel, wrapped)
}

func TestWithFormatsDetail(t *testing.T) {
	err := With(errSentinel, ": %s", "extra detail")
	require.True(t, Is(err, errSentinel))
	require.Contains(t, err.Error(), "extra detail")
}

package transfer

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func pipe(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return a, b
}

func TestSendAllRecvAllRoundTrip(t *testing.T) {
	a, b := pipe(t)
	payload := []byte("the quick brown fox jumps over the lazy dog")

	done := make(chan error, 1)
	go func() { done <- SendAll(a, payload) }()

	got, err := RecvAll(b, len(payload))
	require.NoError(t, err)
	require.NoError(t, <-done)
	require.Equal(t, payload, got)
}

func TestRecvAllOrderlyClose(t *testing.T) {
	a, b := pipe(t)
	a.Close()

	_, err := RecvAll(b, 8)
	require.ErrorIs(t, err, ErrPeerClosed)
}

func TestRecvAllShortReadMidFrame(t *testing.T) {
	a, b := pipe(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		SendAll(a, []byte{0x01, 0x02, 0x03})
		a.Close()
	}()

	_, err := RecvAll(b, 8)
	<-done
	require.ErrorIs(t, err, ErrShortRead)
	require.NotErrorIs(t, err, ErrPeerClosed)
}

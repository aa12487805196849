package mpd

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDial_Handshake(t *testing.T) {
	tests := []struct {
		name        string
		greeting    string
		wantErr     error
		wantVersion string
	}{
		{name: "valid greeting", greeting: "OK MPD 0.23.5\n", wantVersion: "0.23.5"},
		{name: "older server", greeting: "OK MPD 0.19.0\n", wantVersion: "0.19.0"},
		{name: "foreign greeting", greeting: "HELLO SERVER\n", wantErr: ErrHandshakeFailed},
		{name: "prefix without version separator", greeting: "OK MPDX\n", wantErr: ErrHandshakeFailed},
		{name: "bare prefix without version", greeting: "OK MPD\n", wantErr: ErrHandshakeFailed},
		{name: "empty line", greeting: "\n", wantErr: ErrHandshakeFailed},
		{name: "closed before newline", greeting: "OK MPD" + closeConn, wantErr: ErrHandshakeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := startMockServer(t, tt.greeting, nil)

			c, err := Dial(context.Background(), ms.addr(), WithTimeout(time.Second))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			defer c.Close()
			assert.Equal(t, tt.wantVersion, c.ProtocolVersion())
			assert.NotEmpty(t, c.ID())
		})
	}
}

func TestDial_Unreachable(t *testing.T) {
	// Reserve a port, then release it so nothing is listening.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	c, err := Dial(context.Background(), addr, WithTimeout(time.Second))
	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.False(t, errors.Is(err, ErrHandshakeFailed))
	assert.Contains(t, err.Error(), addr)
}

func TestDial_GreetingTimeout(t *testing.T) {
	// The server accepts but never greets.
	ms := startMockServer(t, "", nil)

	start := time.Now()
	_, err := Dial(context.Background(), ms.addr(), WithTimeout(100*time.Millisecond))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHandshakeFailed))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNew_OverPipe(t *testing.T) {
	client, server := net.Pipe()
	go func() {
		server.Write([]byte("OK MPD 0.24.0\n"))
	}()
	defer server.Close()

	c, err := New(context.Background(), client, WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "0.24.0", c.ProtocolVersion())
}

func TestNew_HandshakeRejected(t *testing.T) {
	client, server := net.Pipe()
	go func() {
		server.Write([]byte("HELLO SERVER\n"))
	}()
	defer server.Close()

	_, err := New(context.Background(), client, WithTimeout(time.Second))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHandshakeFailed))
	assert.Contains(t, err.Error(), "HELLO SERVER")
}

package mpd

import (
	"bufio"
	"context"
	"net"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Protocol framing.
const (
	GreetingPrefix = "OK MPD "
	Sentinel       = "OK"
	AckPrefix      = "ACK ["
)

// session owns one stream. The protocol is half-duplex per exchange, so a single
// reader and writer share the connection.
type session struct {
	conn    net.Conn
	r       *bufio.Reader
	w       *bufio.Writer
	timeout time.Duration
	version string

	// broken is set once framing can no longer be trusted.
	broken error
}

func newSession(conn net.Conn, timeout time.Duration) *session {
	return &session{
		conn:    conn,
		r:       bufio.NewReader(conn),
		w:       bufio.NewWriter(conn),
		timeout: timeout,
	}
}

// handshake reads the greeting the server sends on connect.
func (s *session) handshake(ctx context.Context) error {
	line, err := s.readLine(ctx)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to read greeting"), ErrHandshakeFailed)
	}
	if !strings.HasPrefix(line, GreetingPrefix) {
		return errors.Mark(errors.Newf("unexpected greeting %q", line), ErrHandshakeFailed)
	}
	s.version = strings.TrimSpace(strings.TrimPrefix(line, GreetingPrefix))
	return nil
}

// deadline returns the deadline for the next blocking call: the session timeout,
// or the context deadline when it is earlier. Zero means none.
func (s *session) deadline(ctx context.Context) time.Time {
	var d time.Time
	if s.timeout > 0 {
		d = time.Now().Add(s.timeout)
	}
	if dl, ok := ctx.Deadline(); ok && (d.IsZero() || dl.Before(d)) {
		d = dl
	}
	return d
}

// readLine reads one line without its terminator.
func (s *session) readLine(ctx context.Context) (string, error) {
	if err := s.conn.SetReadDeadline(s.deadline(ctx)); err != nil {
		return "", errors.Wrap(err, "failed to set read deadline")
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

func (s *session) close() error {
	return s.conn.Close()
}

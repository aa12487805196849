package mpd

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

// exec sends one command line and collects the response body up to the sentinel.
// An empty body yields an empty, non-nil slice.
func (s *session) exec(ctx context.Context, line string) ([]string, error) {
	if s.broken != nil {
		return nil, errors.Wrap(s.broken, "connection is no longer usable")
	}
	if line == "" || strings.ContainsAny(line, "\r\n") {
		return nil, errors.Mark(errors.Newf("invalid command line %q", line), ErrWriteFailed)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "command not sent"), ErrWriteFailed)
	}

	if err := s.send(ctx, line); err != nil {
		s.broken = errors.Mark(errors.Wrapf(err, "failed to send %q", commandName(line)), ErrWriteFailed)
		return nil, s.broken
	}

	lines := make([]string, 0, 16)
	for {
		cur, err := s.readLine(ctx)
		if err != nil {
			s.broken = errors.Mark(errors.Wrapf(err, "response to %q ended before %s", commandName(line), Sentinel), ErrTruncated)
			return nil, s.broken
		}
		if cur == Sentinel {
			return lines, nil
		}
		// An ACK line terminates the response, so framing stays intact.
		if strings.HasPrefix(cur, AckPrefix) {
			return nil, parseAck(cur)
		}
		lines = append(lines, cur)
	}
}

func (s *session) send(ctx context.Context, line string) error {
	if err := s.conn.SetWriteDeadline(s.deadline(ctx)); err != nil {
		return errors.Wrap(err, "failed to set write deadline")
	}
	if _, err := s.w.WriteString(line + "\n"); err != nil {
		return err
	}
	return s.w.Flush()
}

// commandName returns the first word of a command line, for error messages.
func commandName(line string) string {
	name, _, _ := strings.Cut(line, " ")
	return name
}

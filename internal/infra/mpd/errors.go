package mpd

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/mpdctl/internal/domain/song"
)

// Error categories. Every error returned by this package carries one of these marks,
// so callers can test with errors.Is while the underlying cause stays in the chain.
var (
	ErrUnreachable          = errors.New("mpd server unreachable")
	ErrHandshakeFailed      = errors.New("mpd handshake failed")
	ErrWriteFailed          = errors.New("failed to send command")
	ErrCommandFailed        = errors.New("command failed")
	ErrTruncated            = errors.New("response truncated")
	ErrMissingRequiredField = song.ErrMissingField
)

// AckError is the error block sent by the server in place of OK.
type AckError struct {
	Code    int    // ACK error code, -1 if the line could not be parsed
	Index   int    // position of the failing command in a command list
	Command string // name of the failing command
	Message string
}

// ackPattern matches "ACK [code@index] {command} message".
var ackPattern = regexp.MustCompile(`^ACK \[(\d+)@(\d+)\] \{([^}]*)\} ?(.*)$`)

func parseAck(line string) *AckError {
	m := ackPattern.FindStringSubmatch(line)
	if m == nil {
		return &AckError{
			Code:    -1,
			Message: strings.TrimSpace(strings.TrimPrefix(line, AckPrefix)),
		}
	}
	code, _ := strconv.Atoi(m[1])
	index, _ := strconv.Atoi(m[2])
	return &AckError{
		Code:    code,
		Index:   index,
		Command: m[3],
		Message: m[4],
	}
}

func (e *AckError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("command failed: %s", e.Message)
	}
	return fmt.Sprintf("command %q failed (ack %d@%d): %s", e.Command, e.Code, e.Index, e.Message)
}

// Is lets errors.Is match ErrCommandFailed.
func (e *AckError) Is(target error) bool {
	return target == ErrCommandFailed
}

// ACK codes defined by the protocol.
const (
	AckNotList       = 1
	AckArg           = 2
	AckPassword      = 3
	AckPermission    = 4
	AckUnknown       = 5
	AckNoExist       = 50
	AckPlaylistMax   = 51
	AckSystem        = 52
	AckPlaylistLoad  = 53
	AckUpdateAlready = 54
	AckPlayerSync    = 55
	AckExist         = 56
)

// IsAck reports whether err is an ACK with the given code.
func IsAck(err error, code int) bool {
	var ack *AckError
	if !errors.As(err, &ack) {
		return false
	}
	return ack.Code == code
}

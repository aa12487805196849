// Package mpd provides a client for the Music Player Daemon text protocol.
//
// A Client owns one connection and runs one command at a time: each call writes a
// command line, then reads "key: value" lines until the OK sentinel or an ACK error
// line. A connection whose response was cut short is desynchronized and every later
// call fails with ErrTruncated; close it and dial again.
package mpd

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/mpdctl/internal/domain/player"
)

// Defaults for Dial.
const (
	DefaultAddr    = "localhost:6600"
	DefaultTimeout = 5 * time.Second
)

// Client is a connection to one MPD server.
type Client struct {
	mu      sync.Mutex
	session *session
	id      string
	log     zerolog.Logger
	closed  bool
}

type options struct {
	timeout time.Duration
	logger  *zerolog.Logger
}

// Option configures a Client.
type Option func(*options)

// WithTimeout sets the timeout applied to the handshake, every command write and
// every response line read. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &l
	}
}

// Dial connects to addr and performs the handshake. Addresses starting with "/"
// are dialed as unix sockets.
func Dial(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	o := buildOptions(opts)

	network := "tcp"
	if strings.HasPrefix(addr, "/") {
		network = "unix"
	}

	d := net.Dialer{Timeout: o.timeout}
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to connect to %s", addr), ErrUnreachable)
	}

	c, err := newClient(ctx, conn, o)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.log.Debug().Msgf("connected: addr=%s version=%s", addr, c.session.version)
	return c, nil
}

// New performs the handshake over an established stream; the Client takes ownership of conn.
func New(ctx context.Context, conn net.Conn, opts ...Option) (*Client, error) {
	c, err := newClient(ctx, conn, buildOptions(opts))
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func buildOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newClient(ctx context.Context, conn net.Conn, o options) (*Client, error) {
	base := zlog.Logger
	if o.logger != nil {
		base = *o.logger
	}
	id := uuid.NewString()

	s := newSession(conn, o.timeout)
	if err := s.handshake(ctx); err != nil {
		return nil, err
	}

	return &Client{
		session: s,
		id:      id,
		log:     base.With().Str("conn", id).Logger(),
	}, nil
}

// ID returns the identifier used to tag this connection in logs.
func (c *Client) ID() string {
	return c.id
}

// ProtocolVersion returns the version announced in the server greeting.
func (c *Client) ProtocolVersion() string {
	return c.session.version
}

// Close sends "close" and releases the connection. Closing twice is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.session.broken == nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = c.session.send(ctx, "close")
		cancel()
	}
	c.session.broken = errors.Mark(errors.New("connection closed"), ErrWriteFailed)
	if err := c.session.close(); err != nil {
		return errors.Wrap(err, "failed to close connection")
	}
	c.log.Debug().Msg("connection closed")
	return nil
}

// Command runs a raw command line and returns the response lines.
func (c *Client) Command(ctx context.Context, line string) ([]string, error) {
	return c.run(ctx, line)
}

// Ping checks that the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.run(ctx, "ping")
	return err
}

// Queue lists the files in the current queue ("playlist").
func (c *Client) Queue(ctx context.Context) ([]string, error) {
	return c.run(ctx, "playlist")
}

// ListPlaylist lists the contents of a stored playlist. The name is sent verbatim;
// quoting names that contain spaces is up to the caller.
func (c *Client) ListPlaylist(ctx context.Context, name string) ([]string, error) {
	line, err := withName("listplaylist", name)
	if err != nil {
		return nil, err
	}
	return c.run(ctx, line)
}

// ListPlaylists lists the stored playlists.
func (c *Client) ListPlaylists(ctx context.Context) ([]string, error) {
	return c.run(ctx, "listplaylists")
}

// ClearQueue removes every song from the queue.
func (c *Client) ClearQueue(ctx context.Context) error {
	_, err := c.run(ctx, "clear")
	return err
}

// LoadPlaylist appends a stored playlist to the queue. The name is sent verbatim.
func (c *Client) LoadPlaylist(ctx context.Context, name string) error {
	line, err := withName("load", name)
	if err != nil {
		return err
	}
	_, err = c.run(ctx, line)
	return err
}

// Status returns the player status.
func (c *Client) Status(ctx context.Context) (*player.Status, error) {
	lines, err := c.run(ctx, "status")
	if err != nil {
		return nil, err
	}
	return DecodeStatus(lines)
}

// Stats returns the server statistics.
func (c *Client) Stats(ctx context.Context) (*player.Stats, error) {
	lines, err := c.run(ctx, "stats")
	if err != nil {
		return nil, err
	}
	return DecodeStats(lines)
}

// CurrentSong returns the raw fields of the current song.
// The response is empty when nothing is queued.
func (c *Client) CurrentSong(ctx context.Context) ([]string, error) {
	return c.run(ctx, "currentsong")
}

func (c *Client) run(ctx context.Context, line string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	lines, err := c.session.exec(ctx, line)
	if err != nil {
		c.log.Debug().Err(err).Msgf("command failed: %s", commandName(line))
		return nil, err
	}
	c.log.Debug().Msgf("command ok: %s lines=%d took=%s", commandName(line), len(lines), time.Since(start))
	return lines, nil
}

func withName(command, name string) (string, error) {
	if name == "" {
		return "", errors.Newf("%s: playlist name is required", command)
	}
	return command + " " + name, nil
}

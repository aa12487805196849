package mpd

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mockServer is a loopback MPD server. Each received command line is passed to
// handler, whose return value is written back verbatim.
type mockServer struct {
	listener net.Listener
	greeting string
	handler  func(cmd string) string

	mu       sync.Mutex
	commands []string
	conns    []net.Conn
	wg       sync.WaitGroup
}

// closeConn, appended to a greeting or handler response, drops the connection after
// writing the text before it.
const closeConn = "\x00close"

func startMockServer(t *testing.T, greeting string, handler func(cmd string) string) *mockServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ms := &mockServer{
		listener: listener,
		greeting: greeting,
		handler:  handler,
	}
	if ms.handler == nil {
		ms.handler = func(string) string { return "OK\n" }
	}

	ms.wg.Add(1)
	go ms.acceptLoop()

	t.Cleanup(ms.stop)
	return ms
}

// responses builds a handler from a fixed command to response table.
// Unknown commands get an ACK.
func responses(table map[string]string) func(string) string {
	return func(cmd string) string {
		if resp, ok := table[cmd]; ok {
			return resp
		}
		return "ACK [5@0] {" + cmd + "} unknown command \"" + cmd + "\"\n"
	}
}

func (ms *mockServer) addr() string {
	return ms.listener.Addr().String()
}

func (ms *mockServer) received() []string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]string(nil), ms.commands...)
}

func (ms *mockServer) acceptLoop() {
	defer ms.wg.Done()
	for {
		conn, err := ms.listener.Accept()
		if err != nil {
			return
		}
		ms.mu.Lock()
		ms.conns = append(ms.conns, conn)
		ms.mu.Unlock()

		ms.wg.Add(1)
		go ms.handle(conn)
	}
}

func (ms *mockServer) handle(conn net.Conn) {
	defer ms.wg.Done()
	defer conn.Close()

	greeting, drop := strings.CutSuffix(ms.greeting, closeConn)
	if _, err := io.WriteString(conn, greeting); err != nil || drop {
		return
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		cmd := scanner.Text()
		ms.mu.Lock()
		ms.commands = append(ms.commands, cmd)
		ms.mu.Unlock()

		if cmd == "close" {
			return
		}

		resp := ms.handler(cmd)
		if prefix, ok := strings.CutSuffix(resp, closeConn); ok {
			io.WriteString(conn, prefix)
			return
		}
		if _, err := io.WriteString(conn, resp); err != nil {
			return
		}
	}
}

func (ms *mockServer) stop() {
	ms.listener.Close()
	ms.mu.Lock()
	for _, c := range ms.conns {
		c.Close()
	}
	ms.mu.Unlock()
	ms.wg.Wait()
}

const testGreeting = "OK MPD 0.23.5\n"

// dialMock starts a server with the given handler and returns a connected client.
func dialMock(t *testing.T, handler func(string) string) (*Client, *mockServer) {
	t.Helper()

	ms := startMockServer(t, testGreeting, handler)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := Dial(ctx, ms.addr(), WithTimeout(time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, ms
}

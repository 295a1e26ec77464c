package whoisnet_test

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"dropwatch/pkg/serrors"
	"dropwatch/pkg/whois/whoisnet"

	"github.com/stretchr/testify/require"
)

// fakeServer listens on loopback and answers the first connection with
// response, recording the query line it received. Its address is suitable as
// the server argument of Query.
func fakeServer(t *testing.T, response string) (addr string, queries <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ch := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		line, _ := bufio.NewReader(conn).ReadString('\n')
		ch <- line
		_, _ = conn.Write([]byte(response))
	}()

	return ln.Addr().String(), ch
}

func TestQuery_AgainstLocalServer(t *testing.T) {
	addr, queries := fakeServer(t, "No match for \"EXAMPLE.COM\".\r\n")

	c := whoisnet.New(5 * time.Second)
	raw, err := c.Query(context.Background(), "example.com", addr)
	require.NoError(t, err)
	require.Contains(t, raw, "No match for")
	require.Contains(t, <-queries, "example.com")
}

func TestQuery_DialFailure(t *testing.T) {
	// Grab a port that is guaranteed closed by listening and closing again.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := whoisnet.New(time.Second)
	_, err = c.Query(context.Background(), "example.com", addr)
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrQueryFailed)
}

func TestQuery_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := whoisnet.New(time.Second)
	_, err := c.Query(ctx, "example.com", "whois.example.test")
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrInterrupted)
}

package notifier_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/mdouchement/findit/internal/server/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// silent accepts connections and never answers.
func silent(t *testing.T) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		var conns []net.Conn
		defer func() {
			for _, conn := range conns {
				conn.Close()
			}
		}()

		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, conn)
		}
	}()

	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestAMQP_DialTimeout(t *testing.T) {
	url := silent(t)

	start := time.Now()
	n, err := notifier.NewAMQP(url, "findit.events", 100*time.Millisecond)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	// Publishing reconnects with the same bound.
	start = time.Now()
	err = n.Publish(context.Background(), notifier.Event{Kind: notifier.ItemClaimed, ItemID: "42"})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNop(t *testing.T) {
	n := notifier.Nop()
	assert.NoError(t, n.Publish(context.Background(), notifier.Event{Kind: notifier.ItemPosted}))
	assert.NoError(t, n.Close())
}

package warpcli

import (
	"context"
	"net/http"
	"sync"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/warpdl/warpjar/internal/server"
	"github.com/warpdl/warpjar/pkg/jar"
)

// wsChannel adapts a websocket connection to jrpc2's Channel. done is
// closed once the connection stops delivering messages.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
	done chan struct{}
	once sync.Once
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	if err != nil {
		c.once.Do(func() { close(c.done) })
	}
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// Watch opens the daemon's websocket endpoint and calls fn for every
// cookie.changed push until ctx is done or the connection drops. ready, if
// non-nil, is closed once the connection is established.
func (c *Client) Watch(ctx context.Context, ready chan<- struct{}, fn func(jar.Change)) error {
	wsURL := *c.base
	if wsURL.Scheme == "https" {
		wsURL.Scheme = "wss"
	} else {
		wsURL.Scheme = "ws"
	}
	wsURL.Path += "/jsonrpc/ws"

	conn, _, err := cws.Dial(ctx, wsURL.String(), &cws.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + c.secret}},
	})
	if err != nil {
		return err
	}
	ch := &wsChannel{conn: conn, ctx: ctx, done: make(chan struct{})}
	cli := jrpc2.NewClient(ch, &jrpc2.ClientOptions{
		OnNotify: func(req *jrpc2.Request) {
			if req.Method() != server.MethodCookieChanged {
				return
			}
			var change jar.Change
			if err := req.UnmarshalParams(&change); err == nil {
				fn(change)
			}
		},
	})
	defer cli.Close()
	if ready != nil {
		close(ready)
	}

	select {
	case <-ctx.Done():
	case <-ch.done:
	}
	return nil
}

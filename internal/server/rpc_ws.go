package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// wsChannel adapts a websocket connection to jrpc2's Channel.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// serveWebSocket runs one jrpc2 server per connection. The server is
// registered with the notifier for the life of the connection so the client
// receives cookie.changed pushes.
func (rs *RPCServer) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		rs.log.Warning("websocket upgrade failed: %v", err)
		return
	}
	srv := jrpc2.NewServer(rs.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(&wsChannel{conn: conn, ctx: r.Context()})

	rs.notifier.Register(srv)
	defer rs.notifier.Unregister(srv)
	if err := srv.Wait(); err != nil {
		rs.log.Debug("websocket session ended: %v", err)
	}
}

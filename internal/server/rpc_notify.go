package server

import (
	"context"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/warpdl/warpjar/pkg/jar"
	"github.com/warpdl/warpjar/pkg/logger"
)

// MethodCookieChanged is the push notification sent for every jar change.
const MethodCookieChanged = "cookie.changed"

// Notifier keeps the set of connected websocket servers and broadcasts push
// notifications to all of them.
type Notifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
	log     logger.Logger
}

// NewNotifier creates an empty Notifier. Failed pushes are logged to l,
// which may be nil.
func NewNotifier(l logger.Logger) *Notifier {
	return &Notifier{
		servers: make(map[*jrpc2.Server]struct{}),
		log:     logger.OrNop(l),
	}
}

// Register adds a websocket connection's server to the broadcast set.
// Registering the same server twice has no extra effect.
func (n *Notifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

// Unregister removes a server from the broadcast set.
func (n *Notifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

// Broadcast pushes a notification to every registered server. Servers that
// fail to receive it are dropped.
func (n *Notifier) Broadcast(method string, params any) {
	n.mu.RLock()
	servers := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		servers = append(servers, srv)
	}
	n.mu.RUnlock()

	for _, srv := range servers {
		if err := srv.Notify(context.Background(), method, params); err != nil {
			n.log.Warning("RPC push failed: %v", err)
			n.Unregister(srv)
		}
	}
}

// CookieChanged is a jar.Options.OnChange hook. It pushes the change as a
// cookie.changed notification; a Change never carries the cookie value.
func (n *Notifier) CookieChanged(c jar.Change) {
	n.Broadcast(MethodCookieChanged, c)
}

// Count returns the number of registered servers (for testing).
func (n *Notifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}

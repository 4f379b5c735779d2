package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/warpdl/warpjar/pkg/logger"
)

// DefaultPort is the daemon's default TCP port.
const DefaultPort = 6810

// Server serves an RPCServer over HTTP on the loopback interface.
type Server struct {
	rpc    *RPCServer
	log    logger.Logger
	srv    *http.Server
	listen string
}

// NewServer returns a server for rpc bound to 127.0.0.1:port, or to every
// interface when listenAll is set.
func NewServer(rpc *RPCServer, port int, listenAll bool, l logger.Logger) *Server {
	host := "127.0.0.1"
	if listenAll {
		host = ""
	}
	s := &Server{
		rpc:    rpc,
		log:    logger.OrNop(l),
		listen: net.JoinHostPort(host, fmt.Sprint(port)),
	}
	s.srv = &http.Server{
		Handler:           rpc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.listen
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.log.Info("JSON-RPC listening on %s", l.Addr())
	err := s.srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ListenAndServe listens on Addr and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.listen, err)
	}
	return s.Serve(l)
}

// Shutdown stops accepting connections and closes the RPC bridge.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	s.rpc.Close()
	return err
}

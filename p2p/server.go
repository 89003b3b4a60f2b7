// Package p2p is the node's TCP listener skeleton, a stub awaiting a
// peer protocol. It accepts connections so start-node has something
// to bind to, but parses nothing — no discovery, no gossip, no block
// propagation.
package p2p

import (
	"net"

	"go.uber.org/zap"
)

// Server is a bare TCP accept loop with no message protocol.
type Server struct {
	port string
	log  *zap.Logger

	listener net.Listener
}

// NewServer returns a stub server bound to port.
func NewServer(port string, log *zap.Logger) *Server {
	return &Server{port: port, log: log}
}

// Start opens the listener and accepts connections on the caller's
// goroutine, closing each immediately after logging its remote
// address. It never returns until the listener fails or is closed.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return err
	}
	s.listener = listener
	s.log.Info("p2p stub listening", zap.String("port", s.port))

	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		s.log.Info("p2p stub accepted connection, no protocol to speak", zap.String("remote", conn.RemoteAddr().String()))
		conn.Close()
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-git/go-billy/v5/osfs"

	"static-tls-server/static"
	"static-tls-server/utils"
)

// Config is fixed at startup and shared read-only between connections.
type Config struct {
	Host     string
	Port     int
	BaseDir  string // absolute path of the directory to serve
	CertFile string
	KeyFile  string
	DirList  bool // list directories without an index.html instead of 404
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server is a running HTTPS file server.
type Server struct {
	srv  *http.Server
	ln   net.Listener
	host string
}

// Start loads the certificate pair, binds the listener, wraps it with TLS
// and serves on a goroutine. A bad key pair or an unavailable port fails
// before any connection is accepted.
func Start(cfg Config, logger *log.Logger) (*Server, error) {
	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load key pair: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	}
	tlsLn := tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
	})

	resolver := static.NewResolver(osfs.New(cfg.BaseDir), cfg.DirList)
	srv := &http.Server{
		Handler:           NewHandler(resolver, logger),
		ErrorLog:          logger,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	s := &Server{srv: srv, ln: ln, host: cfg.Host}
	go func() {
		logger.Printf("https server listening on %s serving %q", s.URL(), cfg.BaseDir)
		if err := srv.Serve(tlsLn); err != nil && err != http.ErrServerClosed {
			logger.Printf("https serve error: %v", err)
		}
	}()
	return s, nil
}

// URL reports the listening address as a URL, with the actual bound port.
func (s *Server) URL() string {
	return utils.ListenURL("https", s.host, s.ln.Addr())
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Close stops the server immediately.
func (s *Server) Close() error {
	return s.srv.Close()
}

package spool

import (
	"context"
	"crypto/tls"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gowool/spool/internal"
	"github.com/gowool/spool/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StopSignals end StartC gracefully. A second signal during the drain forces
// the shutdown.
var StopSignals = []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}

// Server serves one handler on every configured address. All listeners
// share a single http.Server and stop together.
type Server struct {
	Log *zap.Logger

	// CertFilesystem resolves CertFile and KeyFile. Defaults to the working
	// directory; values not found there are used as inline PEM.
	CertFilesystem fs.FS

	TLSConfig       func(cfg *tls.Config)
	ListenerAddr    func(addr net.Addr)
	BeforeServe     func(s *http.Server) error
	OnShutdownError func(err error)

	cfg       *ServerConfig
	server    *http.Server
	listeners []net.Listener
}

func NewServer(cfg *ServerConfig) *Server {
	cfg.setDefaults()
	return &Server{cfg: cfg, Log: logger.L().Named("server")}
}

// Addrs returns the bound addresses. It is empty until the server starts.
func (s *Server) Addrs() []net.Addr {
	addrs := make([]net.Addr, len(s.listeners))
	for i, l := range s.listeners {
		addrs[i] = l.Addr()
	}
	return addrs
}

// StartC serves until ctx is done or a stop signal arrives, then drains
// in-flight requests for at most GracefulTimeout.
func (s *Server) StartC(ctx context.Context, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, StopSignals...)
	defer stop()

	return s.run(ctx, handler)
}

// Start serves until Close or Shutdown is called or a listener fails.
func (s *Server) Start(handler http.Handler) error {
	return s.run(context.Background(), handler)
}

func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	return s.server.Close()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	if err != nil && s.OnShutdownError != nil {
		s.OnShutdownError(err)
		return nil
	}
	if err != nil {
		s.Log.Error("shutdown timed out", zap.Duration("timeout", s.cfg.GracefulTimeout), zap.Error(err))
	}
	return err
}

func (s *Server) run(ctx context.Context, handler http.Handler) error {
	if err := s.listen(handler); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range s.listeners {
		l := l
		g.Go(func() error {
			if err := s.server.Serve(l); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	served := make(chan error, 1)
	go func() { served <- g.Wait() }()

	select {
	case err := <-served:
		return err
	case <-gctx.Done():
	}

	drainErr := s.drain()
	if err := <-served; err != nil {
		return err
	}
	return drainErr
}

func (s *Server) listen(handler http.Handler) error {
	tlsConfig, err := s.tlsConfig()
	if err != nil {
		return err
	}

	for _, address := range s.cfg.Addresses {
		l, err := s.newListener(address, tlsConfig)
		if err != nil {
			s.closeListeners()
			return err
		}
		s.listeners = append(s.listeners, l)
	}

	s.server = s.cfg.httpServer(handler)

	if s.BeforeServe != nil {
		if err := s.BeforeServe(s.server); err != nil {
			s.closeListeners()
			return err
		}
	}

	fields := []zap.Field{zap.Bool("tls", tlsConfig != nil)}
	if !s.cfg.HidePort {
		addrs := make([]string, 0, len(s.listeners))
		for _, addr := range s.Addrs() {
			addrs = append(addrs, addr.String())
		}
		fields = append(fields, zap.Strings("addresses", addrs))
	}
	s.Log.Info("server started", fields...)
	return nil
}

func (s *Server) newListener(address string, tlsConfig *tls.Config) (net.Listener, error) {
	l, err := net.Listen(s.cfg.Network, address)
	if err != nil {
		return nil, err
	}
	if tlsConfig != nil {
		l = tls.NewListener(l, tlsConfig)
	}
	if s.ListenerAddr != nil {
		s.ListenerAddr(l.Addr())
	}
	return l, nil
}

func (s *Server) closeListeners() {
	for _, l := range s.listeners {
		_ = l.Close()
	}
	s.listeners = nil
}

// drain shuts the server down, giving up after GracefulTimeout or on a
// second stop signal.
func (s *Server) drain() error {
	ctx, stop := signal.NotifyContext(context.Background(), StopSignals...)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.GracefulTimeout)
	defer cancel()

	s.Log.Info("server stopping", zap.Duration("timeout", s.cfg.GracefulTimeout))
	defer s.Log.Info("server stopped")

	return s.Shutdown(ctx)
}

func (s *Server) tlsConfig() (*tls.Config, error) {
	var cfg *tls.Config

	if s.cfg.CertFile != "" && s.cfg.KeyFile != "" {
		fsys := s.CertFilesystem
		if fsys == nil {
			fsys = os.DirFS(".")
		}

		certPEM, err := readPEM(fsys, s.cfg.CertFile)
		if err != nil {
			return nil, err
		}
		keyPEM, err := readPEM(fsys, s.cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		cert, err := tls.X509KeyPair(certPEM, keyPEM)
		if err != nil {
			return nil, err
		}

		cfg = &tls.Config{Certificates: []tls.Certificate{cert}}
		if !s.cfg.DisableHTTP2 {
			cfg.NextProtos = []string{"h2", "http/1.1"}
		}
	}

	if s.TLSConfig != nil {
		if cfg == nil {
			cfg = &tls.Config{}
		}
		s.TLSConfig(cfg)
	}
	return cfg, nil
}

// readPEM reads name from fsys. A name that is not a readable path is taken
// to be the PEM content itself.
func readPEM(fsys fs.FS, name string) ([]byte, error) {
	b, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return internal.StringToBytes(name), nil
	}
	return b, err
}

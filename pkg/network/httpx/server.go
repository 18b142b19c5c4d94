package httpx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/giongto35/glremote/pkg/logger"
)

type Server struct {
	http.Server

	listener net.Listener
	log      *logger.Logger
}

// NewServer binds the address right away, so the actual port
// is known (and kept in Addr) before Run.
func NewServer(address string, handler func(*Server) http.Handler, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Default()
	}
	server := &Server{
		Server: http.Server{
			Addr:        address,
			IdleTimeout: 120 * time.Second,
			ReadTimeout: 500 * time.Second,
		},
		log: log,
	}
	// (╯°□°)╯︵ ┻━┻
	server.Handler = handler(server)

	if server.Addr == "" {
		server.Addr = ":http"
		log.Warn().Msgf("Empty server address has been changed to %v", server.Addr)
	}
	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return nil, err
	}
	server.listener = listener
	server.Addr = listener.Addr().String()
	log.Info().Msgf("httpx %v", server.Addr)
	return server, nil
}

func (s *Server) Run() { go s.run() }

func (s *Server) run() {
	s.log.Debug().Msgf("Starting http server on %s", s.Addr)
	err := s.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		s.log.Debug().Msg("http server was closed")
		return
	}
	s.log.Error().Err(err).Msg("http server")
}

func (s *Server) Shutdown(ctx context.Context) error { return s.Server.Shutdown(ctx) }

func (s *Server) String() string { return "http://" + s.Addr }

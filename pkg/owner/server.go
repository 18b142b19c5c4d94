package owner

import (
	"context"
	"net/http"

	"github.com/giongto35/glremote/pkg/com"
	"github.com/giongto35/glremote/pkg/logger"
	"github.com/giongto35/glremote/pkg/network/httpx"
	"github.com/giongto35/glremote/pkg/network/websocket"
)

// Server gives every websocket connection its own owner and driver.
type Server struct {
	server    *httpx.Server
	queue     int
	clients   *com.Map[com.Uid, *com.Client]
	newDriver func() (Driver, error)
	opts      []Option
	log       *logger.Logger
}

// NewServer binds the address, the handler listens on the path.
// The queue param sets the initial send queue capacity of every connection.
// newDriver is called on the executor of the owners.
func NewServer(address, path string, queue int, newDriver func() (Driver, error), log *logger.Logger, opts ...Option) (*Server, error) {
	if log == nil {
		log = logger.Default()
	}
	s := &Server{queue: queue, clients: com.NewMap[com.Uid, *com.Client](), newDriver: newDriver, opts: opts, log: log}
	server, err := httpx.NewServer(address, func(*httpx.Server) http.Handler {
		h := http.NewServeMux()
		h.HandleFunc(path, s.handle)
		return h
	}, log)
	if err != nil {
		return nil, err
	}
	s.server = server
	return s, nil
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	id := com.NewUid()
	log := s.log.Extend(s.log.With().Str("id", id.Short()).Str("remote", r.RemoteAddr))
	o := New(nil, log, s.opts...)
	if err := o.attach(s.newDriver); err != nil {
		log.Error().Err(err).Msg("driver")
		http.Error(w, "no driver", http.StatusServiceUnavailable)
		return
	}
	conn, err := websocket.NewServer(w, r, s.queue, s.log)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade")
		o.Close()
		return
	}
	client := com.NewClient(conn, log)
	s.clients.Put(id, client)
	connections.Inc()
	log.Info().Msg("Context has been connected")
	done := o.Serve(client)
	go func() {
		<-done
		o.Close()
		client.Close()
		s.clients.RemoveByKey(id)
		connections.Dec()
		log.Info().Msg("Context has been disconnected")
	}()
}

// Connections returns the number of connected contexts.
func (s *Server) Connections() int { return s.clients.Len() }

// Addr is the actual address of the server.
func (s *Server) Addr() string { return s.server.Addr }

func (s *Server) Run() { s.server.Run() }

// Shutdown stops accepting contexts and drops the connected ones,
// their pending calls fail with com.ErrClosed.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.clients.Drain(func(c *com.Client) { c.Close() })
	return err
}

func (s *Server) String() string { return "owner::" + s.server.String() }

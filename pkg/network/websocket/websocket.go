package websocket

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/giongto35/glremote/pkg/com"
	"github.com/giongto35/glremote/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 64 << 20
	pingTime       = pongTime * 9 / 10
	pongTime       = 60 * time.Second
	writeWait      = 10 * time.Second

	// DefaultQueue is the initial capacity of the outgoing queue.
	DefaultQueue = 256
)

// WS is a websocket implementation of com.Conn.
// Writes are queued without a bound and served by a single writer,
// so Write never waits for the network.
type WS struct {
	sock     *websocket.Conn
	out      outbox
	handler  com.MessageHandler
	pingPong bool
	hmu      sync.Mutex
	log      *logger.Logger
}

// outbox is the queue of the writer, closing it lets the writer
// flush what is left and say goodbye.
type outbox struct {
	mu     sync.Mutex
	items  [][]byte
	closed bool
	signal chan struct{}
}

func (o *outbox) push(b []byte) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return com.ErrClosed
	}
	o.items = append(o.items, b)
	o.mu.Unlock()
	o.wake()
	return nil
}

func (o *outbox) close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.wake()
}

func (o *outbox) wake() {
	select {
	case o.signal <- struct{}{}:
	default:
	}
}

func (o *outbox) take() (items [][]byte, closed bool) {
	o.mu.Lock()
	items, closed = o.items, o.closed
	o.items = nil
	o.mu.Unlock()
	return
}

type Upgrader struct {
	websocket.Upgrader
}

var DefaultUpgrader = Upgrader{
	Upgrader: websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		WriteBufferPool: &sync.Pool{},
	},
}

// NewServer upgrades the HTTP request into a server side socket.
func NewServer(w http.ResponseWriter, r *http.Request, queue int, log *logger.Logger) (*WS, error) {
	conn, err := DefaultUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newSocket(conn, true, queue, log), nil
}

func NewClient(address url.URL, queue int, log *logger.Logger) (*WS, error) {
	conn, _, err := websocket.DefaultDialer.Dial(address.String(), nil)
	if err != nil {
		return nil, err
	}
	return newSocket(conn, false, queue, log), nil
}

func newSocket(conn *websocket.Conn, pingPong bool, queue int, log *logger.Logger) *WS {
	if queue <= 0 {
		queue = DefaultQueue
	}
	return &WS{
		sock:     conn,
		out:      outbox{items: make([][]byte, 0, queue), signal: make(chan struct{}, 1)},
		pingPong: pingPong,
		log:      log,
	}
}

func (ws *WS) SetMessageHandler(fn com.MessageHandler) {
	ws.hmu.Lock()
	ws.handler = fn
	ws.hmu.Unlock()
}

// Listen starts the reader and the writer of the socket.
func (ws *WS) Listen() chan struct{} {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); ws.writer() }()
	go func() { defer wg.Done(); ws.reader() }()
	go func() { wg.Wait(); close(done) }()
	return done
}

func (ws *WS) Write(data []byte) error { return ws.out.push(data) }

// Close stops the writer, which sends the close frame to the other side.
func (ws *WS) Close() error { ws.out.close(); return nil }

// reader pumps messages from the websocket connection to the message handler.
// Serializes all websocket reads.
func (ws *WS) reader() {
	var err error
	defer func() {
		ws.out.close()
		ws.handle(nil, fmt.Errorf("%w: %v", com.ErrClosed, err))
		ws.log.Debug().Msg("[ws] CLOSE READER")
	}()
	ws.sock.SetReadLimit(maxMessageSize)
	if ws.pingPong {
		_ = ws.sock.SetReadDeadline(time.Now().Add(pongTime))
		ws.sock.SetPongHandler(func(string) error { return ws.sock.SetReadDeadline(time.Now().Add(pongTime)) })
	}
	for {
		var message []byte
		_, message, err = ws.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.log.Error().Err(err).Msg("[ws] read")
			}
			return
		}
		ws.handle(message, nil)
	}
}

// writer pumps messages from the outbox to the websocket connection.
// Serializes all websocket writes.
func (ws *WS) writer() {
	var ticker <-chan time.Time
	if ws.pingPong {
		t := time.NewTicker(pingTime)
		defer t.Stop()
		ticker = t.C
	}
	defer func() {
		_ = ws.sock.Close()
		ws.log.Debug().Msg("[ws] CLOSE WRITER")
	}()
	broken := false
	for {
		select {
		case <-ws.out.signal:
			messages, closed := ws.out.take()
			// a broken socket only drops what is left
			for _, m := range messages {
				if broken {
					break
				}
				if err := ws.write(websocket.TextMessage, m); err != nil {
					ws.log.Error().Err(err).Msg("[ws] write")
					broken = true
					_ = ws.sock.Close()
				}
			}
			if closed {
				if !broken {
					_ = ws.write(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				}
				return
			}
		case <-ticker:
			if broken {
				continue
			}
			if err := ws.write(websocket.PingMessage, nil); err != nil {
				broken = true
				_ = ws.sock.Close()
			}
		}
	}
}

func (ws *WS) write(t int, message []byte) error {
	if err := ws.sock.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return ws.sock.WriteMessage(t, message)
}

func (ws *WS) handle(message []byte, err error) {
	ws.hmu.Lock()
	fn := ws.handler
	ws.hmu.Unlock()
	if fn != nil {
		fn(message, err)
	}
}

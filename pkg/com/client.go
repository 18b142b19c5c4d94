package com

import (
	"errors"
	"fmt"
	"sync"

	"github.com/giongto35/glremote/pkg/logger"
	"github.com/goccy/go-json"
)

// Client speaks the packet protocol over a Conn.
// Calls block until the reply with the same id arrives or the link breaks,
// there is no timeout because a lost owner can't be retried anyway.
type Client struct {
	conn     Conn
	queue    map[Uid]*call
	onPacket func(packet In)
	closed   bool
	mu       sync.Mutex
	log      *logger.Logger
}

type call struct {
	done     chan struct{}
	err      error
	Response In
}

func NewClient(conn Conn, log *logger.Logger) *Client {
	client := &Client{conn: conn, queue: make(map[Uid]*call, 1), log: log}
	conn.SetMessageHandler(client.handleMessage)
	return client
}

// OnPacket sets the handler of the packets that are not replies.
func (c *Client) OnPacket(fn func(packet In)) { c.mu.Lock(); c.onPacket = fn; c.mu.Unlock() }

func (c *Client) Listen() chan struct{} { return c.conn.Listen() }

func (c *Client) Close() {
	_ = c.conn.Close()
	c.drain(ErrClosed)
}

// Call makes a blocking request.
func (c *Client) Call(t uint8, payload any) ([]byte, error) {
	id := NewUid()
	r, err := json.Marshal(Out{Id: id.String(), T: t, Payload: payload})
	if err != nil {
		return nil, err
	}

	task := &call{done: make(chan struct{})}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.queue[id] = task
	if err = c.conn.Write(r); err != nil {
		delete(c.queue, id)
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()
	c.log.Debug().Str(logger.DirectionField, "→").Msgf("ᵇ%v", t)

	<-task.done
	return task.Response.Payload, task.err
}

// Send just sends a message and goes further.
func (c *Client) Send(t uint8, payload any) error {
	return c.SendPacket(Out{T: t, Payload: payload})
}

// Route replies to the blocking request in.
func (c *Client) Route(in In, payload any) error {
	return c.SendPacket(Out{Id: in.Id.String(), T: in.T, Payload: payload})
}

func (c *Client) SendPacket(packet Out) error {
	r, err := json.Marshal(packet)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err = c.conn.Write(r); err != nil {
		return err
	}
	c.log.Debug().Str(logger.DirectionField, "→").Msgf("%v", packet.T)
	return nil
}

func (c *Client) IsClosed() bool { c.mu.Lock(); defer c.mu.Unlock(); return c.closed }

func (c *Client) handleMessage(message []byte, err error) {
	if err != nil {
		c.drain(err)
		return
	}

	var res In
	if err = json.Unmarshal(message, &res); err != nil {
		c.log.Error().Err(err).Msg("malformed packet")
		return
	}

	// empty id implies that nobody waits for the packet
	if !res.Id.IsEmpty() {
		if task := c.pop(res.Id); task != nil {
			task.Response = res
			close(task.done)
			return
		}
	}
	c.log.Debug().Str(logger.DirectionField, "←").Msgf("%v", res.T)
	c.mu.Lock()
	fn := c.onPacket
	c.mu.Unlock()
	if fn != nil {
		fn(res)
	}
}

// pop extracts and removes a task from the queue by its id.
func (c *Client) pop(id Uid) *call {
	c.mu.Lock()
	task := c.queue[id]
	delete(c.queue, id)
	c.mu.Unlock()
	return task
}

// drain cancels all what's left in the task queue.
// Any link error is reported as ErrClosed.
func (c *Client) drain(err error) {
	if !errors.Is(err, ErrClosed) {
		err = fmt.Errorf("%w: %v", ErrClosed, err)
	}
	c.mu.Lock()
	if !c.closed {
		c.log.Debug().Str(logger.DirectionField, "x").Err(err).Msg("Close")
	}
	c.closed = true
	for id, task := range c.queue {
		delete(c.queue, id)
		task.err = err
		close(task.done)
	}
	c.mu.Unlock()
}

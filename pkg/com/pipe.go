package com

import "sync"

// Pipe creates an in-process link with two connected ends.
// Each end queues incoming messages without a bound so
// writers never wait for the reader.
func Pipe() (Conn, Conn) {
	l := &link{closed: make(chan struct{})}
	a := &pipeEnd{link: l, in: newInbox()}
	b := &pipeEnd{link: l, in: newInbox()}
	a.peer, b.peer = b, a
	return a, b
}

type link struct {
	closed chan struct{}
	once   sync.Once
}

func (l *link) close() { l.once.Do(func() { close(l.closed) }) }

func (l *link) isClosed() bool {
	select {
	case <-l.closed:
		return true
	default:
		return false
	}
}

type inbox struct {
	mu     sync.Mutex
	items  [][]byte
	signal chan struct{}
}

func newInbox() *inbox { return &inbox{signal: make(chan struct{}, 1)} }

func (q *inbox) push(b []byte) {
	q.mu.Lock()
	q.items = append(q.items, b)
	q.mu.Unlock()
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *inbox) take() [][]byte {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

type pipeEnd struct {
	link    *link
	in      *inbox
	peer    *pipeEnd
	handler MessageHandler
	mu      sync.Mutex
}

func (p *pipeEnd) Write(data []byte) error {
	if p.link.isClosed() {
		return ErrClosed
	}
	p.peer.in.push(data)
	return nil
}

func (p *pipeEnd) SetMessageHandler(fn MessageHandler) { p.mu.Lock(); p.handler = fn; p.mu.Unlock() }

func (p *pipeEnd) Listen() chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-p.in.signal:
				p.deliver()
			case <-p.link.closed:
				// whatever was written before the close still goes in order
				p.deliver()
				p.handle(nil, ErrClosed)
				return
			}
		}
	}()
	return done
}

func (p *pipeEnd) deliver() {
	for _, m := range p.in.take() {
		p.handle(m, nil)
	}
}

func (p *pipeEnd) handle(m []byte, err error) {
	p.mu.Lock()
	fn := p.handler
	p.mu.Unlock()
	if fn != nil {
		fn(m, err)
	}
}

func (p *pipeEnd) Close() error { p.link.close(); return nil }

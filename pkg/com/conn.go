package com

import "errors"

// ErrClosed is returned by any operation on a closed or broken link.
// Blocking calls pending at the moment of closing are released with it.
var ErrClosed = errors.New("connection closed")

// MessageHandler receives every incoming message in arrival order.
// The last call of a link always carries a non-nil error.
type MessageHandler func(message []byte, err error)

// Conn is an ordered, message-oriented duplex link.
// Write must not block the caller for longer than an enqueue.
type Conn interface {
	Write(data []byte) error
	SetMessageHandler(fn MessageHandler)
	// Listen starts the single reader of the link and returns
	// a channel closed when the reader has stopped.
	Listen() chan struct{}
	Close() error
}

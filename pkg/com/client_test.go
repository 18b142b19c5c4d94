package com

import (
	"errors"
	"sync"
	"testing"

	"github.com/giongto35/glremote/pkg/logger"
	"github.com/goccy/go-json"
)

// newEcho returns a client connected to a peer that replies
// to blocking calls with their payload and records the rest.
func newEcho(t *testing.T) (client *Client, peer *Client, notes chan In) {
	a, b := Pipe()
	client = NewClient(a, logger.Nop())
	peer = NewClient(b, logger.Nop())
	notes = make(chan In, 100)
	peer.OnPacket(func(p In) {
		if p.Id.IsEmpty() {
			notes <- p
			return
		}
		var v any
		if len(p.Payload) > 0 {
			_ = json.Unmarshal(p.Payload, &v)
		}
		if err := peer.Route(p, v); err != nil {
			t.Errorf("route: %v", err)
		}
	})
	client.Listen()
	peer.Listen()
	return
}

func TestClientCall(t *testing.T) {
	client, peer, _ := newEcho(t)
	defer peer.Close()

	calls := []struct {
		payload any
		want    string
	}{
		{payload: "test", want: `"test"`},
		{payload: 123, want: `123`},
		{payload: true, want: `true`},
		{payload: []string{"a", "b"}, want: `["a","b"]`},
	}

	const n = 20
	var wg sync.WaitGroup
	for _, c := range calls {
		c := c
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := client.Call(10, c.payload)
				if err != nil {
					t.Errorf("call: %v", err)
					return
				}
				if string(v) != c.want {
					t.Errorf("expected %v, got %v", c.want, string(v))
				}
			}()
		}
	}
	wg.Wait()
}

func TestClientSendKeepsOrder(t *testing.T) {
	client, peer, notes := newEcho(t)
	defer peer.Close()

	for i := 0; i < 50; i++ {
		if err := client.Send(uint8(i), nil); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	// the call goes after all the sends
	if _, err := client.Call(99, "sync"); err != nil {
		t.Fatalf("call: %v", err)
	}
	for i := 0; i < 50; i++ {
		p := <-notes
		if p.T != uint8(i) {
			t.Fatalf("expected type %v, got %v", i, p.T)
		}
	}
}

func TestClientCallReleasedOnClose(t *testing.T) {
	a, b := Pipe()
	client := NewClient(a, logger.Nop())
	// the peer never answers
	_ = NewClient(b, logger.Nop())
	client.Listen()

	res := make(chan error, 1)
	go func() {
		_, err := client.Call(1, nil)
		res <- err
	}()
	_ = b.Close()

	if err := <-res; !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := client.Send(1, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on send, got %v", err)
	}
	if _, err := client.Call(1, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on call, got %v", err)
	}
}

package com

import "github.com/goccy/go-json"

// In is an incoming packet with a deferred payload.
type In struct {
	Id      Uid             `json:"id,omitempty"`
	T       uint8           `json:"t"`
	Payload json.RawMessage `json:"p,omitempty"` // 2-pass unmarshal
}

// Out is an outgoing packet.
type Out struct {
	Id      string `json:"id,omitempty"` // string because omitempty won't work as intended with arrays
	T       uint8  `json:"t"`
	Payload any    `json:"p,omitempty"`
}

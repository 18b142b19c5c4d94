// Package api defines the command protocol between a GL context and the
// process owning its GPU resources.
//
// Each command (request and response) is a JSON-encoded "packet" of the following structure:
//
//	id - (optional) a unique packet id, present only on blocking calls and their replies;
//	 t - (required) one of the predefined command types;
//	 p - (optional) command payload.
//
// Fire-and-forget commands carry no id and never get a reply. Blocking calls
// (resource creation, capability probe) are tagged with an id and the owner
// routes the reply back with the same id.
//
// Example:
//
//	{"t":12,"p":{"target":34962,"data":"AAECAw==","usage":35044}}
package api

import (
	"fmt"

	"github.com/goccy/go-json"
)

type PT uint8

// Command codes:
//
//	x  - driver probes
//	1x - buffer commands
//	2x - vertex array commands
const (
	GetExtensions     PT = 1
	CreateBuffer      PT = 10
	BindBuffer        PT = 11
	BufferData        PT = 12
	DeleteBuffer      PT = 13
	CreateVertexArray PT = 20
	BindVertexArray   PT = 21
	DeleteVertexArray PT = 22
	AttribBuffer      PT = 23
)

func (p PT) String() string {
	switch p {
	case GetExtensions:
		return "GetExtensions"
	case CreateBuffer:
		return "CreateBuffer"
	case BindBuffer:
		return "BindBuffer"
	case BufferData:
		return "BufferData"
	case DeleteBuffer:
		return "DeleteBuffer"
	case CreateVertexArray:
		return "CreateVertexArray"
	case BindVertexArray:
		return "BindVertexArray"
	case DeleteVertexArray:
		return "DeleteVertexArray"
	case AttribBuffer:
		return "AttribBuffer"
	default:
		return "Unknown"
	}
}

// IsBlocking reports whether the command expects a reply.
func (p PT) IsBlocking() bool {
	return p == GetExtensions || p == CreateBuffer || p == CreateVertexArray
}

var ErrMalformed = fmt.Errorf("malformed")

func Unwrap[T any](data []byte) *T {
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil
	}
	return out
}

func UnwrapChecked[T any](bytes []byte, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	v := Unwrap[T](bytes)
	if v == nil {
		return nil, ErrMalformed
	}
	return v, nil
}

package api

import "github.com/giongto35/glremote/pkg/gl"

type (
	// BufferId is an owner-assigned buffer name, 0 means none.
	BufferId uint32
	// VertexArrayId is an owner-assigned vertex array name, 0 means none (the default one).
	VertexArrayId uint32
)

type (
	GetExtensionsResponse = string
	CreateBufferResponse  struct {
		Id BufferId `json:"id"`
	}
	BindBufferRequest struct {
		Target gl.Enum  `json:"target"`
		Id     BufferId `json:"id,omitempty"`
	}
	BufferDataRequest struct {
		Target gl.Enum `json:"target"`
		Data   []byte  `json:"data,omitempty"`
		Usage  gl.Enum `json:"usage"`
	}
	DeleteBufferRequest struct {
		Id BufferId `json:"id"`
	}
	CreateVertexArrayResponse struct {
		Id VertexArrayId `json:"id"`
	}
	BindVertexArrayRequest struct {
		Id VertexArrayId `json:"id,omitempty"`
	}
	DeleteVertexArrayRequest struct {
		Id VertexArrayId `json:"id"`
	}
	AttribBufferRequest struct {
		Slot   uint32   `json:"slot"`
		Buffer BufferId `json:"buffer,omitempty"`
	}
)

package webgl

import (
	"github.com/giongto35/glremote/pkg/api"
	"github.com/giongto35/glremote/pkg/gl"
)

// Coordinator moves the ARRAY_BUFFER and ELEMENT_ARRAY_BUFFER bindings
// of the context in and out of vertex arrays when the active one changes.
// A nil active array is the default state.
type Coordinator struct {
	ctx    *Context
	active *VertexArray
}

func newCoordinator(ctx *Context) *Coordinator { return &Coordinator{ctx: ctx} }

func (c *Coordinator) Active() *VertexArray { return c.active }

// Bind makes v the active vertex array, nil goes back to the default state.
// The bindings of the outgoing array are saved even if v is rejected.
func (c *Coordinator) Bind(v *VertexArray) error {
	if err := c.ctx.alive(); err != nil {
		return err
	}
	if c.active != nil {
		c.active.saveBindings(c.ctx.arrayBuffer, c.ctx.elementBuffer)
	}

	if v == nil {
		if err := c.ctx.send(api.BindVertexArray, api.BindVertexArrayRequest{}); err != nil {
			return err
		}
		c.active = nil
		c.ctx.arrayBuffer, c.ctx.elementBuffer = nil, nil
		return nil
	}

	if v.deleted {
		return gl.ErrInvalidOperation
	}
	if err := c.ctx.send(api.BindVertexArray, api.BindVertexArrayRequest{Id: v.id}); err != nil {
		return err
	}
	v.everBound = true
	array, element := v.savedBindings()
	c.ctx.arrayBuffer, c.ctx.elementBuffer = alive(array), alive(element)
	c.active = v
	return nil
}

// reset forgets the active array after the owner was told to bind the default one.
func (c *Coordinator) reset() { c.active = nil }

// alive filters out the buffers deleted while saved in a snapshot.
func alive(b *Buffer) *Buffer {
	if b == nil || b.deleted {
		return nil
	}
	return b
}

// Package webgl keeps the script-side shadow state of a rendering context
// whose GPU resources live in another process.
//
// A Context is driven by a single goroutine. Every state change is checked
// locally first and then forwarded to the owner as one command, so a
// rejected call never leaves the owner half-updated.
package webgl

import (
	"github.com/giongto35/glremote/pkg/api"
	"github.com/giongto35/glremote/pkg/gl"
	"github.com/giongto35/glremote/pkg/logger"
	"github.com/giongto35/glremote/pkg/webgl/extension"
)

type Context struct {
	ch         Channel
	buffers    map[api.BufferId]*Buffer
	vao        *Coordinator
	extensions *extension.Registry
	lost       error
	log        *logger.Logger

	arrayBuffer   *Buffer
	elementBuffer *Buffer
}

// Descriptors lists every extension a context knows about.
func Descriptors() []extension.Descriptor {
	return append(extension.TextureDescriptors(), VertexArrayObject)
}

func NewContext(ch Channel, log *logger.Logger) *Context {
	if log == nil {
		log = logger.Default()
	}
	log = log.Component("gl")
	c := &Context{
		ch:         ch,
		buffers:    make(map[api.BufferId]*Buffer),
		extensions: extension.NewRegistry(log, Descriptors()...),
		log:        log,
	}
	c.vao = newCoordinator(c)
	return c
}

func (c *Context) IsLost() bool { return c.lost != nil }

// Err returns the reason of the context loss.
func (c *Context) Err() error { return c.lost }

func (c *Context) alive() error { return c.lost }

func (c *Context) Extensions() *extension.Registry { return c.extensions }
func (c *Context) Coordinator() *Coordinator       { return c.vao }

func (c *Context) CreateBuffer() (*Buffer, error) {
	res, err := api.UnwrapChecked[api.CreateBufferResponse](c.call(api.CreateBuffer, nil))
	if err != nil {
		return nil, err
	}
	if res.Id == 0 {
		return nil, ErrAllocation
	}
	b := &Buffer{id: res.Id, ctx: c}
	c.buffers[b.id] = b
	return b, nil
}

// BindBuffer binds b to the target, nil unbinds whatever is there.
func (c *Context) BindBuffer(target gl.Enum, b *Buffer) error {
	if err := c.alive(); err != nil {
		return err
	}
	if !gl.IsBufferTarget(target) {
		return gl.ErrInvalidEnum
	}
	if b == nil {
		if err := c.send(api.BindBuffer, api.BindBufferRequest{Target: target}); err != nil {
			return err
		}
		c.setBound(target, nil)
		return nil
	}
	if err := b.Bind(target); err != nil {
		return err
	}
	c.setBound(target, b)
	return nil
}

// BufferData uploads data into the buffer bound to the target.
func (c *Context) BufferData(target gl.Enum, data []byte, usage gl.Enum) error {
	if err := c.alive(); err != nil {
		return err
	}
	if !gl.IsBufferTarget(target) || !gl.IsBufferUsage(usage) {
		return gl.ErrInvalidEnum
	}
	b := c.bound(target)
	if b == nil {
		return gl.ErrInvalidOperation
	}
	return b.Data(target, data, usage)
}

// DeleteBuffer unbinds b from the context and deletes it.
func (c *Context) DeleteBuffer(b *Buffer) error {
	if err := c.alive(); err != nil {
		return err
	}
	if b == nil || b.deleted {
		return nil
	}
	for _, target := range []gl.Enum{gl.ArrayBuffer, gl.ElementArrayBuffer} {
		if c.bound(target) != b {
			continue
		}
		if err := c.send(api.BindBuffer, api.BindBufferRequest{Target: target}); err != nil {
			return err
		}
		c.setBound(target, nil)
	}
	return b.Delete()
}

func (c *Context) IsBuffer(b *Buffer) bool {
	return b != nil && !b.deleted && b.target != gl.NONE
}

// VertexAttribBuffer points the attribute slot at the buffer bound to ARRAY_BUFFER.
// Only non-default vertex arrays keep track of their attachments.
func (c *Context) VertexAttribBuffer(slot uint32) error {
	if err := c.alive(); err != nil {
		return err
	}
	b := alive(c.arrayBuffer)
	if b == nil {
		return gl.ErrInvalidOperation
	}
	if err := c.send(api.AttribBuffer, api.AttribBufferRequest{Slot: slot, Buffer: b.id}); err != nil {
		return err
	}
	if v := c.vao.Active(); v != nil {
		return v.SetAttachment(slot, b)
	}
	return nil
}

// GetParameter answers the context state queries. Extension
// queries go first.
func (c *Context) GetParameter(pname gl.Enum) (any, error) {
	if err := c.alive(); err != nil {
		return nil, err
	}
	if v, ok, err := c.extensions.QueryParameter(pname); ok {
		return v, err
	}
	var b *Buffer
	switch pname {
	case gl.ArrayBufferBinding:
		b = c.arrayBuffer
	case gl.ElementArrayBufferBinding:
		b = c.elementBuffer
	default:
		return nil, gl.ErrInvalidEnum
	}
	if b = alive(b); b == nil {
		return nil, nil
	}
	return b, nil
}

// GetExtension returns the extension instance or false if
// the driver can't do it.
func (c *Context) GetExtension(name string) (any, bool) {
	c.initExtensions()
	return c.extensions.GetOrInit(name, c)
}

func (c *Context) GetSupportedExtensions() []string {
	c.initExtensions()
	return c.extensions.SupportedExtensions()
}

// VertexArrayObject is a shortcut for the OES_vertex_array_object extension.
func (c *Context) VertexArrayObject() (*OESVertexArrayObject, bool) {
	ext, ok := c.GetExtension(VertexArrayObjectName)
	if !ok {
		return nil, false
	}
	return ext.(*OESVertexArrayObject), true
}

func (c *Context) initExtensions() {
	if c.extensions.IsInitialized() {
		return
	}
	c.extensions.InitOnce(func() string {
		res, err := api.UnwrapChecked[api.GetExtensionsResponse](c.call(api.GetExtensions, nil))
		if err != nil {
			c.log.Warn().Err(err).Msg("Couldn't get driver extensions")
			return ""
		}
		return *res
	})
}

// TexFormat returns the internal format the owner should use for a texture
// upload of the given format and type.
func (c *Context) TexFormat(internalFormat, typ gl.Enum) (gl.Enum, error) {
	if err := c.alive(); err != nil {
		return gl.NONE, err
	}
	if !c.extensions.IsTexTypeEnabled(typ) {
		return gl.NONE, gl.ErrInvalidEnum
	}
	return c.extensions.EffectiveTexInternalFormat(internalFormat, typ), nil
}

func (c *Context) IsFilterable(typ gl.Enum) bool { return c.extensions.IsFilterable(typ) }

func (c *Context) bound(target gl.Enum) *Buffer {
	if target == gl.ElementArrayBuffer {
		return c.elementBuffer
	}
	return c.arrayBuffer
}

// forget drops b from the live bindings once its deletion was asked for.
func (c *Context) forget(b *Buffer) {
	if c.arrayBuffer == b {
		c.arrayBuffer = nil
	}
	if c.elementBuffer == b {
		c.elementBuffer = nil
	}
}

func (c *Context) setBound(target gl.Enum, b *Buffer) {
	if target == gl.ElementArrayBuffer {
		c.elementBuffer = b
	} else {
		c.arrayBuffer = b
	}
}

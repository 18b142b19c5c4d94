package webgl

import (
	"github.com/giongto35/glremote/pkg/api"
	"github.com/giongto35/glremote/pkg/gl"
	"github.com/giongto35/glremote/pkg/logger"
)

// Buffer is a context-side handle of an owner buffer.
//
// Deleting a buffer hides it from the script right away, but while vertex
// arrays still point at it the owner keeps the storage. The owner's copy is
// released with the last reference.
type Buffer struct {
	id       api.BufferId
	ctx      *Context
	target   gl.Enum
	capacity int
	refs     uint32
	deleted  bool
	released bool
}

func (b *Buffer) Id() api.BufferId { return b.id }

// Target returns the target fixed by the first bind or NONE.
func (b *Buffer) Target() gl.Enum { return b.target }

// Capacity is the size of the last upload in bytes.
func (b *Buffer) Capacity() int { return b.capacity }

// IsDeleted is true once the deletion was asked for and
// no vertex array holds the buffer anymore.
func (b *Buffer) IsDeleted() bool { return b.deleted && b.refs == 0 }

func (b *Buffer) Bind(target gl.Enum) error {
	if err := b.ctx.alive(); err != nil {
		return err
	}
	if b.deleted {
		return gl.ErrInvalidOperation
	}
	if b.target != gl.NONE && b.target != target {
		return gl.ErrInvalidOperation
	}
	if err := b.ctx.send(api.BindBuffer, api.BindBufferRequest{Target: target, Id: b.id}); err != nil {
		return err
	}
	b.target = target
	return nil
}

// Data uploads a copy of data into the buffer.
func (b *Buffer) Data(target gl.Enum, data []byte, usage gl.Enum) error {
	if err := b.ctx.alive(); err != nil {
		return err
	}
	if b.deleted {
		return gl.ErrInvalidOperation
	}
	if b.target != gl.NONE && b.target != target {
		return gl.ErrInvalidOperation
	}
	payload := make([]byte, len(data))
	copy(payload, data)
	if err := b.ctx.send(api.BufferData, api.BufferDataRequest{Target: target, Data: payload, Usage: usage}); err != nil {
		return err
	}
	b.capacity = len(data)
	return nil
}

func (b *Buffer) Delete() error {
	if err := b.ctx.alive(); err != nil {
		return err
	}
	if b.deleted {
		return nil
	}
	b.deleted = true
	b.ctx.forget(b)
	if b.refs > 0 {
		b.ctx.log.Debug().Str(logger.ResourceField, "buffer").Msgf("Delete of %v deferred, refs: %v", b.id, b.refs)
		return nil
	}
	return b.release()
}

// Release drops the last script handle of the buffer.
func (b *Buffer) Release() error { return b.Delete() }

func (b *Buffer) addReference() { b.refs++ }

func (b *Buffer) removeReference() error {
	if b.refs == 0 {
		return nil
	}
	b.refs--
	if b.refs == 0 && b.deleted {
		deferredDeletes.Inc()
		return b.release()
	}
	return nil
}

// release frees the owner's buffer, at most once.
func (b *Buffer) release() error {
	if b.released {
		return nil
	}
	b.released = true
	delete(b.ctx.buffers, b.id)
	return b.ctx.send(api.DeleteBuffer, api.DeleteBufferRequest{Id: b.id})
}

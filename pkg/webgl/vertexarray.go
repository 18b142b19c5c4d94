package webgl

import (
	"errors"
	"sort"

	"github.com/giongto35/glremote/pkg/api"
	"github.com/giongto35/glremote/pkg/gl"
)

// VertexArray is a context-side handle of an owner vertex array object.
// Its attachments hold a reference on every attached buffer.
type VertexArray struct {
	id          api.VertexArrayId
	ctx         *Context
	everBound   bool
	deleted     bool
	attachments map[uint32]api.BufferId

	// buffer bindings of the context saved when the array was switched off
	savedArray   *Buffer
	savedElement *Buffer
}

func newVertexArray(id api.VertexArrayId, ctx *Context) *VertexArray {
	return &VertexArray{id: id, ctx: ctx, attachments: make(map[uint32]api.BufferId)}
}

func (v *VertexArray) Id() api.VertexArrayId { return v.id }
func (v *VertexArray) EverBound() bool       { return v.everBound }
func (v *VertexArray) IsDeleted() bool       { return v.deleted }

func (v *VertexArray) markDeleted() { v.deleted = true }

// Attachment returns the buffer attached to the slot.
func (v *VertexArray) Attachment(slot uint32) *Buffer {
	if id, ok := v.attachments[slot]; ok {
		return v.ctx.buffers[id]
	}
	return nil
}

// SetAttachment points the slot at b, nil detaches.
// The incoming buffer is referenced before the outgoing one is let go,
// so moving a buffer between slots never drops it to zero references.
// A buffer with a pending or finished deletion can't be attached.
func (v *VertexArray) SetAttachment(slot uint32, b *Buffer) error {
	if b != nil {
		if b.deleted || b.released {
			return gl.ErrInvalidOperation
		}
		b.addReference()
	}
	old, had := v.attachments[slot]
	if b != nil {
		v.attachments[slot] = b.id
	} else {
		delete(v.attachments, slot)
	}
	if !had {
		return nil
	}
	if prev := v.ctx.buffers[old]; prev != nil {
		return prev.removeReference()
	}
	return nil
}

// releaseAttachments detaches all the slots in slot order.
func (v *VertexArray) releaseAttachments() error {
	slots := make([]uint32, 0, len(v.attachments))
	for slot := range v.attachments {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	var err error
	for _, slot := range slots {
		err = errors.Join(err, v.SetAttachment(slot, nil))
	}
	return err
}

func (v *VertexArray) saveBindings(array, element *Buffer) {
	v.savedArray, v.savedElement = array, element
}

func (v *VertexArray) savedBindings() (*Buffer, *Buffer) {
	return v.savedArray, v.savedElement
}

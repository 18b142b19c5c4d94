package webgl

import (
	"errors"
	"testing"

	"github.com/giongto35/glremote/pkg/api"
	"github.com/giongto35/glremote/pkg/com"
	"github.com/giongto35/glremote/pkg/gl"
	"github.com/giongto35/glremote/pkg/logger"
	"github.com/goccy/go-json"
)

type command struct {
	t       api.PT
	payload any
}

// recorder is a fake owner link remembering all the commands.
type recorder struct {
	commands   []command
	extensions string
	lastId     uint32
	noMemory   bool
	err        error
}

func (r *recorder) Send(t uint8, payload any) error {
	if r.err != nil {
		return r.err
	}
	r.commands = append(r.commands, command{t: api.PT(t), payload: payload})
	return nil
}

func (r *recorder) Call(t uint8, payload any) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.commands = append(r.commands, command{t: api.PT(t), payload: payload})
	var id uint32
	if !r.noMemory {
		r.lastId++
		id = r.lastId
	}
	switch api.PT(t) {
	case api.GetExtensions:
		return json.Marshal(r.extensions)
	case api.CreateBuffer:
		return json.Marshal(api.CreateBufferResponse{Id: api.BufferId(id)})
	case api.CreateVertexArray:
		return json.Marshal(api.CreateVertexArrayResponse{Id: api.VertexArrayId(id)})
	}
	return nil, errors.New("unexpected call")
}

func (r *recorder) count(t api.PT) int {
	n := 0
	for _, c := range r.commands {
		if c.t == t {
			n++
		}
	}
	return n
}

func (r *recorder) deletes(id api.BufferId) int {
	n := 0
	for _, c := range r.commands {
		if c.t == api.DeleteBuffer && c.payload.(api.DeleteBufferRequest).Id == id {
			n++
		}
	}
	return n
}

func (r *recorder) last() command {
	if len(r.commands) == 0 {
		return command{}
	}
	return r.commands[len(r.commands)-1]
}

func newTestContext(t *testing.T, extensions string) (*Context, *recorder) {
	t.Helper()
	rec := &recorder{extensions: extensions}
	return NewContext(rec, logger.Nop()), rec
}

func mustBuffer(t *testing.T, c *Context) *Buffer {
	t.Helper()
	b, err := c.CreateBuffer()
	if err != nil {
		t.Fatalf("create buffer: %v", err)
	}
	return b
}

func mustVAO(t *testing.T, c *Context) (*OESVertexArrayObject, *VertexArray) {
	t.Helper()
	ext, ok := c.VertexArrayObject()
	if !ok {
		t.Fatalf("no vertex array extension")
	}
	v, err := ext.CreateVertexArray()
	if err != nil {
		t.Fatalf("create vertex array: %v", err)
	}
	return ext, v
}

func TestCreateBuffer(t *testing.T) {
	c, rec := newTestContext(t, "")

	b := mustBuffer(t, c)
	if b.Id() == 0 {
		t.Errorf("zero id")
	}
	if c.IsBuffer(b) {
		t.Errorf("a never bound buffer is a buffer")
	}

	rec.noMemory = true
	if _, err := c.CreateBuffer(); !errors.Is(err, ErrAllocation) {
		t.Errorf("got %v, want allocation error", err)
	}
	if c.IsLost() {
		t.Errorf("allocation failure has lost the context")
	}
}

func TestBufferBindTarget(t *testing.T) {
	c, rec := newTestContext(t, "")
	b := mustBuffer(t, c)

	for i := 0; i < 2; i++ {
		if err := b.Bind(gl.ArrayBuffer); err != nil {
			t.Fatalf("bind #%v: %v", i, err)
		}
	}
	if n := rec.count(api.BindBuffer); n != 2 {
		t.Errorf("bind commands: %v, want 2", n)
	}
	if err := b.Bind(gl.ElementArrayBuffer); !errors.Is(err, gl.ErrInvalidOperation) {
		t.Errorf("got %v, want invalid operation", err)
	}
	if n := rec.count(api.BindBuffer); n != 2 {
		t.Errorf("a failed bind has been sent")
	}
	if b.Target() != gl.ArrayBuffer {
		t.Errorf("target: %v", b.Target())
	}
	if err := b.Data(gl.ElementArrayBuffer, []byte{1}, gl.StaticDraw); !errors.Is(err, gl.ErrInvalidOperation) {
		t.Errorf("got %v, want invalid operation", err)
	}
	if n := rec.count(api.BufferData); n != 0 {
		t.Errorf("a failed upload has been sent")
	}
}

func TestBufferData(t *testing.T) {
	c, rec := newTestContext(t, "")

	if err := c.BufferData(gl.ArrayBuffer, []byte{1}, gl.StaticDraw); !errors.Is(err, gl.ErrInvalidOperation) {
		t.Errorf("upload without a buffer: %v", err)
	}
	if err := c.BufferData(gl.FLOAT, []byte{1}, gl.StaticDraw); !errors.Is(err, gl.ErrInvalidEnum) {
		t.Errorf("upload with a bad target: %v", err)
	}

	b := mustBuffer(t, c)
	if err := c.BindBuffer(gl.ArrayBuffer, b); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := c.BufferData(gl.ArrayBuffer, []byte{1}, gl.FLOAT); !errors.Is(err, gl.ErrInvalidEnum) {
		t.Errorf("upload with a bad usage: %v", err)
	}
	data := []byte{1, 2, 3, 4}
	if err := c.BufferData(gl.ArrayBuffer, data, gl.DynamicDraw); err != nil {
		t.Fatalf("upload: %v", err)
	}
	data[0] = 42
	if b.Capacity() != 4 {
		t.Errorf("capacity: %v", b.Capacity())
	}
	req := rec.last().payload.(api.BufferDataRequest)
	if req.Data[0] != 1 || req.Usage != gl.DynamicDraw {
		t.Errorf("sent %+v", req)
	}
}

func TestBufferDeleteIdempotent(t *testing.T) {
	c, rec := newTestContext(t, "")
	b := mustBuffer(t, c)
	if err := c.BindBuffer(gl.ArrayBuffer, b); err != nil {
		t.Fatalf("bind: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := c.DeleteBuffer(b); err != nil {
			t.Fatalf("delete: %v", err)
		}
	}
	_ = b.Release()

	if n := rec.deletes(b.Id()); n != 1 {
		t.Errorf("deletes: %v, want 1", n)
	}
	if !b.IsDeleted() || c.IsBuffer(b) {
		t.Errorf("buffer is alive")
	}
	if v, _ := c.GetParameter(gl.ArrayBufferBinding); v != nil {
		t.Errorf("deleted buffer is still bound")
	}
	if err := c.BindBuffer(gl.ArrayBuffer, b); !errors.Is(err, gl.ErrInvalidOperation) {
		t.Errorf("bind of a deleted buffer: %v", err)
	}
	if err := b.Data(gl.ArrayBuffer, nil, gl.StaticDraw); !errors.Is(err, gl.ErrInvalidOperation) {
		t.Errorf("upload into a deleted buffer: %v", err)
	}
	if _, ok := c.buffers[b.Id()]; ok {
		t.Errorf("buffer is still in the arena")
	}
}

func TestBufferDeferredDelete(t *testing.T) {
	c, rec := newTestContext(t, "GL_OES_vertex_array_object")
	b1 := mustBuffer(t, c)
	_, v1 := mustVAO(t, c)

	_ = v1.SetAttachment(0, b1)
	_ = v1.SetAttachment(1, b1)
	if b1.refs != 2 {
		t.Fatalf("refs: %v, want 2", b1.refs)
	}

	if err := b1.Delete(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if b1.IsDeleted() {
		t.Errorf("deleted with 2 attachments")
	}
	if err := b1.Bind(gl.ArrayBuffer); !errors.Is(err, gl.ErrInvalidOperation) {
		t.Errorf("bind after delete: %v", err)
	}

	_ = v1.SetAttachment(0, nil)
	if b1.IsDeleted() || rec.deletes(b1.Id()) != 0 {
		t.Errorf("deleted with 1 attachment")
	}

	_ = v1.SetAttachment(1, nil)
	if !b1.IsDeleted() {
		t.Errorf("not deleted without attachments")
	}
	if n := rec.deletes(b1.Id()); n != 1 {
		t.Errorf("deletes: %v, want 1", n)
	}

	_ = b1.Delete()
	_ = v1.SetAttachment(1, nil)
	if n := rec.deletes(b1.Id()); n != 1 {
		t.Errorf("deletes: %v, want exactly 1", n)
	}
}

func TestBufferAcrossVertexArrays(t *testing.T) {
	c, rec := newTestContext(t, "GL_OES_vertex_array_object")
	b := mustBuffer(t, c)
	_, v1 := mustVAO(t, c)
	_, v2 := mustVAO(t, c)

	_ = v1.SetAttachment(3, b)
	_ = v2.SetAttachment(3, b)
	_ = b.Delete()

	_ = v1.SetAttachment(3, nil)
	if b.IsDeleted() {
		t.Errorf("deleted while v2 holds it")
	}
	_ = v2.SetAttachment(3, nil)
	if !b.IsDeleted() || rec.deletes(b.Id()) != 1 {
		t.Errorf("deleted: %v, commands: %v", b.IsDeleted(), rec.deletes(b.Id()))
	}
}

func TestSetAttachmentMove(t *testing.T) {
	c, rec := newTestContext(t, "GL_OES_vertex_array_object")
	b := mustBuffer(t, c)
	_, v := mustVAO(t, c)

	_ = v.SetAttachment(0, b)
	// same buffer into the same slot
	if err := v.SetAttachment(0, b); err != nil {
		t.Fatalf("reattach: %v", err)
	}
	if b.refs != 1 {
		t.Fatalf("refs: %v, want 1", b.refs)
	}
	_ = b.Delete()
	if err := v.SetAttachment(0, b); !errors.Is(err, gl.ErrInvalidOperation) {
		t.Errorf("reattach after delete: %v", err)
	}
	if rec.deletes(b.Id()) != 0 || b.refs != 1 {
		t.Fatalf("buffer released on reattach, refs: %v", b.refs)
	}
	if v.Attachment(0) != b {
		t.Errorf("lost attachment")
	}
	_ = v.SetAttachment(0, nil)
	if rec.deletes(b.Id()) != 1 {
		t.Errorf("buffer is not released")
	}
	if v.Attachment(0) != nil {
		t.Errorf("attachment is still there")
	}
}

func TestReleasedBufferStaysDeleted(t *testing.T) {
	c, rec := newTestContext(t, "GL_OES_vertex_array_object")
	ext, v := mustVAO(t, c)
	b := mustBuffer(t, c)

	_ = ext.BindVertexArray(v)
	if err := c.BindBuffer(gl.ArrayBuffer, b); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := b.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if !b.IsDeleted() || rec.deletes(b.Id()) != 1 {
		t.Fatalf("not released, deletes: %v", rec.deletes(b.Id()))
	}
	if got, _ := c.GetParameter(gl.ArrayBufferBinding); got != nil {
		t.Errorf("released buffer is still bound")
	}

	if err := c.VertexAttribBuffer(0); !errors.Is(err, gl.ErrInvalidOperation) {
		t.Errorf("attrib with a released buffer: %v", err)
	}
	if err := v.SetAttachment(0, b); !errors.Is(err, gl.ErrInvalidOperation) {
		t.Errorf("attach of a released buffer: %v", err)
	}
	if n := rec.count(api.AttribBuffer); n != 0 {
		t.Errorf("attrib commands: %v", n)
	}
	_ = v.SetAttachment(0, nil)
	if !b.IsDeleted() || b.refs != 0 {
		t.Errorf("buffer came back, refs: %v", b.refs)
	}
	if n := rec.deletes(b.Id()); n != 1 {
		t.Errorf("deletes: %v, want 1", n)
	}
}

func TestBindingRoundTrip(t *testing.T) {
	c, _ := newTestContext(t, "GL_OES_vertex_array_object")
	ext, v := mustVAO(t, c)
	v2, _ := ext.CreateVertexArray()
	a := mustBuffer(t, c)
	e := mustBuffer(t, c)

	if err := ext.BindVertexArray(v); err != nil {
		t.Fatalf("bind: %v", err)
	}
	_ = c.BindBuffer(gl.ArrayBuffer, a)
	_ = c.BindBuffer(gl.ElementArrayBuffer, e)
	if err := ext.BindVertexArray(v2); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if c.arrayBuffer != nil || c.elementBuffer != nil {
		t.Errorf("first bind of v2 has bindings")
	}
	if err := ext.BindVertexArray(v); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if c.arrayBuffer != a || c.elementBuffer != e {
		t.Errorf("got %v %v, want the saved ones", c.arrayBuffer, c.elementBuffer)
	}
	if got, _ := c.GetParameter(gl.ArrayBufferBinding); got != a {
		t.Errorf("ARRAY_BUFFER_BINDING: %v", got)
	}
}

func TestBindDefault(t *testing.T) {
	c, rec := newTestContext(t, "GL_ARB_vertex_array_object")
	ext, v := mustVAO(t, c)
	a := mustBuffer(t, c)

	_ = ext.BindVertexArray(v)
	_ = c.BindBuffer(gl.ArrayBuffer, a)
	if err := ext.BindVertexArray(nil); err != nil {
		t.Fatalf("bind none: %v", err)
	}
	if c.Coordinator().Active() != nil || c.arrayBuffer != nil {
		t.Errorf("default state has leftovers")
	}
	if req := rec.last().payload.(api.BindVertexArrayRequest); req.Id != 0 {
		t.Errorf("sent %+v", req)
	}
	_ = ext.BindVertexArray(v)
	if c.arrayBuffer != a {
		t.Errorf("v has lost its binding")
	}
}

func TestBindDeletedVertexArray(t *testing.T) {
	c, rec := newTestContext(t, "GL_APPLE_vertex_array_object")
	ext, v := mustVAO(t, c)
	_, gone := mustVAO(t, c)
	a := mustBuffer(t, c)

	_ = ext.BindVertexArray(v)
	_ = c.BindBuffer(gl.ArrayBuffer, a)
	if err := ext.DeleteVertexArray(gone); err != nil {
		t.Fatalf("delete: %v", err)
	}
	sent := len(rec.commands)

	if err := ext.BindVertexArray(gone); !errors.Is(err, gl.ErrInvalidOperation) {
		t.Fatalf("got %v, want invalid operation", err)
	}
	if len(rec.commands) != sent {
		t.Errorf("commands have been sent")
	}
	if c.Coordinator().Active() != v || c.arrayBuffer != a {
		t.Errorf("state has been changed")
	}
	if ext.IsVertexArray(gone) {
		t.Errorf("deleted array is an array")
	}
}

func TestDeleteVertexArray(t *testing.T) {
	c, rec := newTestContext(t, "GL_OES_vertex_array_object")
	ext, v := mustVAO(t, c)
	b := mustBuffer(t, c)

	if ext.IsVertexArray(v) {
		t.Errorf("never bound array is an array")
	}
	_ = ext.BindVertexArray(v)
	if !ext.IsVertexArray(v) {
		t.Errorf("bound array is not an array")
	}
	_ = c.BindBuffer(gl.ArrayBuffer, b)
	if err := c.VertexAttribBuffer(0); err != nil {
		t.Fatalf("attrib: %v", err)
	}
	_ = c.VertexAttribBuffer(1)
	_ = c.DeleteBuffer(b)
	if b.IsDeleted() {
		t.Fatalf("attached buffer is deleted")
	}

	if err := ext.DeleteVertexArray(v); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if c.Coordinator().Active() != nil {
		t.Errorf("deleted array is active")
	}
	if !v.IsDeleted() || !v.EverBound() {
		t.Errorf("flags: deleted %v, bound %v", v.IsDeleted(), v.EverBound())
	}
	if !b.IsDeleted() || rec.deletes(b.Id()) != 1 {
		t.Errorf("attachments were not released")
	}
	if n := rec.count(api.DeleteVertexArray); n != 1 {
		t.Errorf("vertex array deletes: %v", n)
	}

	_ = ext.DeleteVertexArray(v)
	_ = ext.DeleteVertexArray(nil)
	if n := rec.count(api.DeleteVertexArray); n != 1 {
		t.Errorf("vertex array deletes: %v, want 1", n)
	}
}

func TestVertexArrayBindingQuery(t *testing.T) {
	c, _ := newTestContext(t, "GL_OES_vertex_array_object")

	if _, err := c.GetParameter(gl.VertexArrayBindingOES); !errors.Is(err, gl.ErrInvalidEnum) {
		t.Errorf("query without the extension: %v", err)
	}
	ext, v := mustVAO(t, c)
	if got, err := c.GetParameter(gl.VertexArrayBindingOES); got != nil || err != nil {
		t.Errorf("default binding: %v %v", got, err)
	}
	_ = ext.BindVertexArray(v)
	if got, _ := c.GetParameter(gl.VertexArrayBindingOES); got != v {
		t.Errorf("got %v, want %v", got, v)
	}
	if _, err := c.GetParameter(gl.FLOAT); !errors.Is(err, gl.ErrInvalidEnum) {
		t.Errorf("unknown parameter: %v", err)
	}
}

func TestExtensions(t *testing.T) {
	c, rec := newTestContext(t, "GL_ARB_texture_float,GL_OES_vertex_array_object")

	if _, err := c.TexFormat(gl.RGBA, gl.FLOAT); !errors.Is(err, gl.ErrInvalidEnum) {
		t.Errorf("FLOAT before the extension: %v", err)
	}
	if _, ok := c.GetExtension("OES_texture_half_float"); ok {
		t.Errorf("unsupported extension")
	}
	if _, ok := c.GetExtension("oes_texture_float"); !ok {
		t.Fatalf("no OES_texture_float")
	}
	f, err := c.TexFormat(gl.RGBA, gl.FLOAT)
	if err != nil || f != gl.RGBA32F {
		t.Errorf("got %v %v, want RGBA32F", f, err)
	}
	if c.IsFilterable(gl.FLOAT) {
		t.Errorf("FLOAT is filterable")
	}
	want := []string{"OES_texture_float", "OES_texture_float_linear", "OES_vertex_array_object"}
	got := c.GetSupportedExtensions()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
	if n := rec.count(api.GetExtensions); n != 1 {
		t.Errorf("probes: %v, want 1", n)
	}
}

func TestContextLost(t *testing.T) {
	c, rec := newTestContext(t, "")
	b := mustBuffer(t, c)

	rec.err = com.ErrClosed
	err := c.BindBuffer(gl.ArrayBuffer, b)
	if !errors.Is(err, gl.ErrContextLost) || !errors.Is(err, com.ErrClosed) {
		t.Fatalf("got %v, want context lost and the cause", err)
	}
	if !c.IsLost() {
		t.Errorf("context is not lost")
	}

	rec.err = nil
	sent := len(rec.commands)
	if _, err := c.CreateBuffer(); !errors.Is(err, gl.ErrContextLost) {
		t.Errorf("create: %v", err)
	}
	if err := b.Delete(); !errors.Is(err, gl.ErrContextLost) {
		t.Errorf("delete: %v", err)
	}
	if _, err := c.GetParameter(gl.ArrayBufferBinding); !errors.Is(err, gl.ErrContextLost) {
		t.Errorf("query: %v", err)
	}
	if err := c.Coordinator().Bind(nil); !errors.Is(err, gl.ErrContextLost) {
		t.Errorf("bind default: %v", err)
	}
	if len(rec.commands) != sent {
		t.Errorf("lost context keeps sending")
	}
}

func TestBindDeletedVertexArrayOnLostContext(t *testing.T) {
	c, rec := newTestContext(t, "GL_OES_vertex_array_object")
	ext, v := mustVAO(t, c)
	_ = ext.DeleteVertexArray(v)

	rec.err = com.ErrClosed
	_, _ = c.CreateBuffer()
	if !c.IsLost() {
		t.Fatalf("context is not lost")
	}
	if err := c.Coordinator().Bind(v); !errors.Is(err, gl.ErrContextLost) {
		t.Errorf("got %v, want context lost", err)
	}
}

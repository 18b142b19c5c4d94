package webgl

import (
	"github.com/giongto35/glremote/pkg/api"
	"github.com/giongto35/glremote/pkg/gl"
	"github.com/giongto35/glremote/pkg/webgl/extension"
)

const VertexArrayObjectName = "OES_vertex_array_object"

// OESVertexArrayObject exposes vertex array objects to scripts.
type OESVertexArrayObject struct {
	ctx *Context
}

var VertexArrayObject = extension.Descriptor{
	Name: VertexArrayObjectName,
	Supported: func(r *extension.Registry) bool {
		return r.SupportsAnyGLExtension(
			"GL_OES_vertex_array_object",
			"GL_ARB_vertex_array_object",
			"GL_APPLE_vertex_array_object",
		)
	},
	Enable: func(r *extension.Registry) {
		r.AddQueryParameterHandler(gl.VertexArrayBindingOES, func(r *extension.Registry) (any, error) {
			ext, ok := r.Instance(VertexArrayObjectName)
			if !ok {
				return nil, gl.ErrInvalidOperation
			}
			if v := ext.(*OESVertexArrayObject).currentBinding(); v != nil {
				return v, nil
			}
			return nil, nil
		})
	},
	New: func(host any) any { return &OESVertexArrayObject{ctx: host.(*Context)} },
}

func (o *OESVertexArrayObject) CreateVertexArray() (*VertexArray, error) {
	res, err := api.UnwrapChecked[api.CreateVertexArrayResponse](o.ctx.call(api.CreateVertexArray, nil))
	if err != nil {
		return nil, err
	}
	if res.Id == 0 {
		return nil, ErrAllocation
	}
	return newVertexArray(res.Id, o.ctx), nil
}

// DeleteVertexArray deletes v, switching to the default array
// if v is the active one. The buffers attached to v are let go.
func (o *OESVertexArrayObject) DeleteVertexArray(v *VertexArray) error {
	if err := o.ctx.alive(); err != nil {
		return err
	}
	if v == nil || v.deleted {
		return nil
	}
	if o.ctx.vao.Active() == v {
		if err := o.ctx.send(api.BindVertexArray, api.BindVertexArrayRequest{}); err != nil {
			return err
		}
		o.ctx.vao.reset()
	}
	if err := o.ctx.send(api.DeleteVertexArray, api.DeleteVertexArrayRequest{Id: v.id}); err != nil {
		return err
	}
	v.markDeleted()
	return v.releaseAttachments()
}

// IsVertexArray is false for arrays that were never bound.
func (o *OESVertexArrayObject) IsVertexArray(v *VertexArray) bool {
	return v != nil && !v.deleted && v.everBound
}

func (o *OESVertexArrayObject) BindVertexArray(v *VertexArray) error {
	if err := o.ctx.alive(); err != nil {
		return err
	}
	return o.ctx.vao.Bind(v)
}

func (o *OESVertexArrayObject) currentBinding() *VertexArray { return o.ctx.vao.Active() }

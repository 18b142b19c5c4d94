package extension

import "github.com/giongto35/glremote/pkg/gl"

type (
	OESTextureFloat           struct{}
	OESTextureFloatLinear     struct{}
	OESTextureHalfFloat       struct{}
	OESTextureHalfFloatLinear struct{}
)

const (
	TextureFloatName           = "OES_texture_float"
	TextureFloatLinearName     = "OES_texture_float_linear"
	TextureHalfFloatName       = "OES_texture_half_float"
	TextureHalfFloatLinearName = "OES_texture_half_float_linear"
)

var TextureFloat = Descriptor{
	Name: TextureFloatName,
	Supported: func(r *Registry) bool {
		return r.SupportsAnyGLExtension("GL_OES_texture_float", "GL_ARB_texture_float")
	},
	Enable: func(r *Registry) {
		r.EnableTexType(gl.FLOAT)
		// desktop drivers clamp float values unless a sized format is used
		if !r.SupportsGLExtension("GL_OES_texture_float") {
			r.AddEffectiveTexInternalFormat(gl.RGBA, gl.FLOAT, gl.RGBA32F)
			r.AddEffectiveTexInternalFormat(gl.RGB, gl.FLOAT, gl.RGB32F)
		}
	},
	New: func(any) any { return &OESTextureFloat{} },
}

var TextureFloatLinear = Descriptor{
	Name: TextureFloatLinearName,
	Supported: func(r *Registry) bool {
		return r.SupportsAnyGLExtension("GL_OES_texture_float_linear", "GL_ARB_texture_float")
	},
	Enable: func(r *Registry) { r.EnableFilterableTexType(gl.FLOAT) },
	New:    func(any) any { return &OESTextureFloatLinear{} },
}

var TextureHalfFloat = Descriptor{
	Name: TextureHalfFloatName,
	Supported: func(r *Registry) bool {
		return r.SupportsAnyGLExtension("GL_OES_texture_half_float", "GL_ARB_half_float_pixel", "GL_NV_half_float")
	},
	Enable: func(r *Registry) {
		r.EnableTexType(gl.HalfFloatOES)
		if !r.SupportsGLExtension("GL_OES_texture_half_float") {
			r.AddEffectiveTexInternalFormat(gl.RGBA, gl.HalfFloatOES, gl.RGBA16F)
			r.AddEffectiveTexInternalFormat(gl.RGB, gl.HalfFloatOES, gl.RGB16F)
		}
	},
	New: func(any) any { return &OESTextureHalfFloat{} },
}

var TextureHalfFloatLinear = Descriptor{
	Name: TextureHalfFloatLinearName,
	Supported: func(r *Registry) bool {
		return r.SupportsAnyGLExtension("GL_OES_texture_half_float_linear", "GL_OES_texture_float_linear", "GL_ARB_half_float_pixel")
	},
	Enable: func(r *Registry) { r.EnableFilterableTexType(gl.HalfFloatOES) },
	New:    func(any) any { return &OESTextureHalfFloatLinear{} },
}

// TextureDescriptors lists the texture format extensions.
func TextureDescriptors() []Descriptor {
	return []Descriptor{TextureFloat, TextureFloatLinear, TextureHalfFloat, TextureHalfFloatLinear}
}

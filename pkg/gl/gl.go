// Package gl holds the GL enumerants shared by the context and the owner.
// Values follow the Khronos registry.
package gl

import "fmt"

type Enum uint32

const (
	NONE Enum = 0

	// buffer targets
	ArrayBuffer        Enum = 0x8892
	ElementArrayBuffer Enum = 0x8893

	// buffer usage
	StreamDraw  Enum = 0x88E0
	StaticDraw  Enum = 0x88E4
	DynamicDraw Enum = 0x88E8

	// binding queries
	ArrayBufferBinding        Enum = 0x8894
	ElementArrayBufferBinding Enum = 0x8895
	VertexArrayBindingOES     Enum = 0x85B5

	// texture data types
	UnsignedByte Enum = 0x1401
	FLOAT        Enum = 0x1406
	HalfFloat    Enum = 0x140B
	HalfFloatOES Enum = 0x8D61

	// texture formats
	ALPHA          Enum = 0x1906
	RGB            Enum = 0x1907
	RGBA           Enum = 0x1908
	LUMINANCE      Enum = 0x1909
	LuminanceAlpha Enum = 0x190A

	// sized internal formats
	RGBA32F Enum = 0x8814
	RGB32F  Enum = 0x8815
	RGBA16F Enum = 0x881A
	RGB16F  Enum = 0x881B
)

func (e Enum) String() string {
	switch e {
	case NONE:
		return "NONE"
	case ArrayBuffer:
		return "ARRAY_BUFFER"
	case ElementArrayBuffer:
		return "ELEMENT_ARRAY_BUFFER"
	case StreamDraw:
		return "STREAM_DRAW"
	case StaticDraw:
		return "STATIC_DRAW"
	case DynamicDraw:
		return "DYNAMIC_DRAW"
	case FLOAT:
		return "FLOAT"
	case HalfFloat:
		return "HALF_FLOAT"
	case HalfFloatOES:
		return "HALF_FLOAT_OES"
	}
	return fmt.Sprintf("0x%04X", uint32(e))
}

// IsBufferTarget reports whether t is one of the WebGL 1 buffer targets.
func IsBufferTarget(t Enum) bool { return t == ArrayBuffer || t == ElementArrayBuffer }

// IsBufferUsage reports whether u is a valid bufferData usage hint.
func IsBufferUsage(u Enum) bool { return u == StreamDraw || u == StaticDraw || u == DynamicDraw }

package extension

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/giongto35/glremote/pkg/gl"
)

// TexFormat is a (internal format, data type) pair of a texImage call.
type TexFormat struct {
	InternalFormat gl.Enum
	Type           gl.Enum
}

// Float types stay off until an extension turns them on.
var (
	defaultDisabledTexTypes      = []gl.Enum{gl.FLOAT, gl.HalfFloat, gl.HalfFloatOES}
	defaultNotFilterableTexTypes = []gl.Enum{gl.FLOAT, gl.HalfFloat, gl.HalfFloatOES}
)

// TextureTable keeps the texture overrides of a context.
// Extensions only ever widen it.
type TextureTable struct {
	disabled      mapset.Set[gl.Enum]
	notFilterable mapset.Set[gl.Enum]
	effective     map[TexFormat]gl.Enum
}

func NewTextureTable() *TextureTable {
	return &TextureTable{
		disabled:      mapset.NewThreadUnsafeSet(defaultDisabledTexTypes...),
		notFilterable: mapset.NewThreadUnsafeSet(defaultNotFilterableTexTypes...),
		effective:     make(map[TexFormat]gl.Enum),
	}
}

func (t *TextureTable) EnableType(typ gl.Enum)           { t.disabled.Remove(typ) }
func (t *TextureTable) IsTypeEnabled(typ gl.Enum) bool   { return !t.disabled.Contains(typ) }
func (t *TextureTable) EnableFilterable(typ gl.Enum)     { t.notFilterable.Remove(typ) }
func (t *TextureTable) IsFilterable(typ gl.Enum) bool    { return !t.notFilterable.Contains(typ) }
func (t *TextureTable) Overrides() map[TexFormat]gl.Enum { return t.effective }

// AddEffectiveInternalFormat makes texImage calls with the given
// internal format and type use the effective format instead.
func (t *TextureTable) AddEffectiveInternalFormat(internalFormat, typ, effective gl.Enum) {
	t.effective[TexFormat{InternalFormat: internalFormat, Type: typ}] = effective
}

// EffectiveInternalFormat returns the override or the internal format itself.
func (t *TextureTable) EffectiveInternalFormat(internalFormat, typ gl.Enum) gl.Enum {
	if f, ok := t.effective[TexFormat{InternalFormat: internalFormat, Type: typ}]; ok {
		return f
	}
	return internalFormat
}

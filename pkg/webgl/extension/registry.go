// Package extension negotiates optional GL capabilities of a context
// against the extension string of the driver.
package extension

import (
	"sort"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/giongto35/glremote/pkg/gl"
	"github.com/giongto35/glremote/pkg/logger"
)

// QueryHandler answers a context parameter query on behalf of an extension.
type QueryHandler func(r *Registry) (any, error)

type entry struct {
	Descriptor

	instance any
	built    bool
}

// Registry holds the extensions known to a context.
// It is not safe for concurrent use.
type Registry struct {
	known        []Descriptor
	extensions   map[string]*entry
	glExtensions mapset.Set[string]
	textures     *TextureTable
	queries      map[gl.Enum]QueryHandler
	initialized  bool
	log          *logger.Logger
}

func NewRegistry(log *logger.Logger, descriptors ...Descriptor) *Registry {
	return &Registry{
		known:        descriptors,
		extensions:   make(map[string]*entry, len(descriptors)),
		glExtensions: mapset.NewThreadUnsafeSet[string](),
		textures:     NewTextureTable(),
		queries:      make(map[gl.Enum]QueryHandler),
		log:          log,
	}
}

// InitOnce probes the driver extensions with the callback
// and registers the known extensions. Calls after the first one do nothing.
func (r *Registry) InitOnce(probe func() string) {
	if r.initialized {
		return
	}
	r.initialized = true
	names := strings.FieldsFunc(probe(), func(c rune) bool { return c == ',' || unicode.IsSpace(c) })
	r.glExtensions = mapset.NewThreadUnsafeSet(names...)
	for _, d := range r.known {
		r.register(d)
	}
	r.log.Debug().Msgf("Driver extensions: %v, known: %v", len(names), len(r.known))
}

func (r *Registry) IsInitialized() bool { return r.initialized }

func (r *Registry) register(d Descriptor) {
	r.extensions[strings.ToUpper(d.Name)] = &entry{Descriptor: d}
}

// isSupported checks the driver only until the first instance is built,
// a successful probe is never revoked later.
func (r *Registry) isSupported(e *entry) bool {
	return e.built || e.Supported(r)
}

// SupportedExtensions returns the sorted names of the extensions
// a script may ask for.
func (r *Registry) SupportedExtensions() []string {
	names := make([]string, 0, len(r.extensions))
	for _, e := range r.extensions {
		if r.isSupported(e) {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}

// GetOrInit returns the instance of the named extension (case-insensitive),
// building it and applying its side effects on the first request.
// It reports false for unknown or unsupported extensions.
func (r *Registry) GetOrInit(name string, host any) (any, bool) {
	e, ok := r.extensions[strings.ToUpper(name)]
	if !ok || !r.isSupported(e) {
		return nil, false
	}
	if !e.built {
		e.instance = e.New(host)
		e.built = true
		if e.Enable != nil {
			e.Enable(r)
		}
		extensionsEnabled.WithLabelValues(e.Name).Inc()
		r.log.Debug().Str(logger.ResourceField, e.Name).Msg("Extension enabled")
	}
	return e.instance, true
}

// Instance returns an already built extension instance.
func (r *Registry) Instance(name string) (any, bool) {
	if e, ok := r.extensions[strings.ToUpper(name)]; ok && e.built {
		return e.instance, true
	}
	return nil, false
}

// SupportsGLExtension checks the raw driver extension set.
func (r *Registry) SupportsGLExtension(name string) bool { return r.glExtensions.Contains(name) }

// SupportsAnyGLExtension reports whether at least one of the names
// is in the raw driver extension set.
func (r *Registry) SupportsAnyGLExtension(names ...string) bool {
	for _, name := range names {
		if r.glExtensions.Contains(name) {
			return true
		}
	}
	return false
}

func (r *Registry) Textures() *TextureTable { return r.textures }

func (r *Registry) EnableTexType(typ gl.Enum)         { r.textures.EnableType(typ) }
func (r *Registry) IsTexTypeEnabled(typ gl.Enum) bool { return r.textures.IsTypeEnabled(typ) }
func (r *Registry) EnableFilterableTexType(typ gl.Enum) {
	r.textures.EnableFilterable(typ)
}
func (r *Registry) IsFilterable(typ gl.Enum) bool { return r.textures.IsFilterable(typ) }

func (r *Registry) AddEffectiveTexInternalFormat(internalFormat, typ, effective gl.Enum) {
	r.textures.AddEffectiveInternalFormat(internalFormat, typ, effective)
}

func (r *Registry) EffectiveTexInternalFormat(internalFormat, typ gl.Enum) gl.Enum {
	return r.textures.EffectiveInternalFormat(internalFormat, typ)
}

// AddQueryParameterHandler lets an extension answer the pname query.
func (r *Registry) AddQueryParameterHandler(pname gl.Enum, fn QueryHandler) { r.queries[pname] = fn }

// QueryParameter runs the handler registered for pname.
// It reports false when no extension handles the query.
func (r *Registry) QueryParameter(pname gl.Enum) (any, bool, error) {
	fn, ok := r.queries[pname]
	if !ok {
		return nil, false, nil
	}
	v, err := fn(r)
	return v, true, err
}

//go:build gl

package owner

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/giongto35/glremote/pkg/api"
	"github.com/giongto35/glremote/pkg/gl"
	"github.com/giongto35/glremote/pkg/logger"
	ogl "github.com/go-gl/gl/v3.3-core/gl"
	"github.com/veandco/go-sdl2/sdl"
)

// window is the hidden SDL window shared by all the GL drivers of the process,
// every driver makes its own GL context against it.
var window struct {
	once sync.Once
	w    *sdl.Window
	err  error
}

// OpenGL is a driver running the commands against a real GL 3.3 core context.
// All of its calls, the constructor included, must come from the same OS thread,
// see thread.Main.
type OpenGL struct {
	ctx        sdl.GLContext
	extensions string
	buffers    mapset.Set[uint32]
	arrays     mapset.Set[uint32]
	log        *logger.Logger
}

func NewOpenGL(log *logger.Logger) (Driver, error) {
	if log == nil {
		log = logger.Default()
	}
	log = log.Component("opengl")
	window.once.Do(func() { window.w, window.err = createWindow(log) })
	if window.err != nil {
		return nil, window.err
	}
	ctx, err := window.w.GLCreateContext()
	if err != nil {
		return nil, fmt.Errorf("gl context: %w", err)
	}
	if err := ogl.InitWithProcAddrFunc(sdl.GLGetProcAddress); err != nil {
		sdl.GLDeleteContext(ctx)
		return nil, fmt.Errorf("gl init: %w", err)
	}
	d := &OpenGL{
		ctx:     ctx,
		buffers: mapset.NewThreadUnsafeSet[uint32](),
		arrays:  mapset.NewThreadUnsafeSet[uint32](),
		log:     log,
	}
	d.extensions = d.readExtensions()
	log.Info().Msgf("[OpenGL] Version: %v, renderer: %v", get(ogl.VERSION), get(ogl.RENDERER))
	return d, nil
}

// createWindow creates a hidden window only to have a GL context.
func createWindow(log *logger.Logger) (*sdl.Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}
	setAttribute(log, sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	setAttribute(log, sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	setAttribute(log, sdl.GL_CONTEXT_MINOR_VERSION, 3)
	w, err := sdl.CreateWindow("glremote", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		1, 1, sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN)
	if err != nil {
		return nil, fmt.Errorf("sdl window: %w", err)
	}
	return w, nil
}

func setAttribute(log *logger.Logger, attr sdl.GLattr, value int) {
	if err := sdl.GLSetAttribute(attr, value); err != nil {
		log.Warn().Err(err).Msgf("[SDL] attribute %v", attr)
	}
}

// readExtensions joins GL_EXTENSIONS with spaces,
// core contexts list them one by one.
func (d *OpenGL) readExtensions() string {
	var n int32
	ogl.GetIntegerv(ogl.NUM_EXTENSIONS, &n)
	names := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		names = append(names, ogl.GoStr(ogl.GetStringi(ogl.EXTENSIONS, uint32(i))))
	}
	// vertex arrays are core in 3.3
	names = append(names, "GL_ARB_vertex_array_object")
	return strings.Join(names, " ")
}

func (d *OpenGL) Extensions() string { return d.extensions }

func (d *OpenGL) CreateBuffer() (api.BufferId, error) {
	d.current()
	var name uint32
	ogl.GenBuffers(1, &name)
	if name == 0 {
		return 0, ErrNoMemory
	}
	d.buffers.Add(name)
	liveResources.WithLabelValues("buffer").Inc()
	return api.BufferId(name), d.check()
}

func (d *OpenGL) BindBuffer(target gl.Enum, id api.BufferId) error {
	d.current()
	if id != 0 && !d.buffers.Contains(uint32(id)) {
		return fmt.Errorf("bind %v: %w", id, ErrUnknownResource)
	}
	ogl.BindBuffer(uint32(target), uint32(id))
	return d.check()
}

func (d *OpenGL) BufferData(target gl.Enum, data []byte, usage gl.Enum) error {
	d.current()
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = ogl.Ptr(data)
	}
	ogl.BufferData(uint32(target), len(data), ptr, uint32(usage))
	return d.check()
}

func (d *OpenGL) DeleteBuffer(id api.BufferId) error {
	d.current()
	name := uint32(id)
	if !d.buffers.Contains(name) {
		return fmt.Errorf("delete %v: %w", id, ErrUnknownResource)
	}
	ogl.DeleteBuffers(1, &name)
	d.buffers.Remove(name)
	liveResources.WithLabelValues("buffer").Dec()
	return d.check()
}

func (d *OpenGL) CreateVertexArray() (api.VertexArrayId, error) {
	d.current()
	var name uint32
	ogl.GenVertexArrays(1, &name)
	if name == 0 {
		return 0, ErrNoMemory
	}
	d.arrays.Add(name)
	liveResources.WithLabelValues("vertex_array").Inc()
	return api.VertexArrayId(name), d.check()
}

func (d *OpenGL) BindVertexArray(id api.VertexArrayId) error {
	d.current()
	if id != 0 && !d.arrays.Contains(uint32(id)) {
		return fmt.Errorf("bind vertex array %v: %w", id, ErrUnknownResource)
	}
	ogl.BindVertexArray(uint32(id))
	return d.check()
}

func (d *OpenGL) DeleteVertexArray(id api.VertexArrayId) error {
	d.current()
	name := uint32(id)
	if !d.arrays.Contains(name) {
		return fmt.Errorf("delete vertex array %v: %w", id, ErrUnknownResource)
	}
	ogl.DeleteVertexArrays(1, &name)
	d.arrays.Remove(name)
	liveResources.WithLabelValues("vertex_array").Dec()
	return d.check()
}

// AttribBuffer points the slot at the start of the buffer as vec4 floats.
func (d *OpenGL) AttribBuffer(slot uint32, id api.BufferId) error {
	d.current()
	if id == 0 {
		ogl.DisableVertexAttribArray(slot)
		return d.check()
	}
	if !d.buffers.Contains(uint32(id)) {
		return fmt.Errorf("attrib %v: %w", id, ErrUnknownResource)
	}
	ogl.BindBuffer(ogl.ARRAY_BUFFER, uint32(id))
	ogl.VertexAttribPointer(slot, 4, ogl.FLOAT, false, 0, nil)
	ogl.EnableVertexAttribArray(slot)
	return d.check()
}

// Close deletes what the context left behind and the GL context itself.
func (d *OpenGL) Close() error {
	d.current()
	for _, name := range d.buffers.ToSlice() {
		name := name
		ogl.DeleteBuffers(1, &name)
		liveResources.WithLabelValues("buffer").Dec()
	}
	for _, name := range d.arrays.ToSlice() {
		name := name
		ogl.DeleteVertexArrays(1, &name)
		liveResources.WithLabelValues("vertex_array").Dec()
	}
	d.buffers.Clear()
	d.arrays.Clear()
	sdl.GLDeleteContext(d.ctx)
	return nil
}

// current makes the context of the driver current on the calling thread.
func (d *OpenGL) current() {
	if err := window.w.GLMakeCurrent(d.ctx); err != nil {
		d.log.Error().Err(err).Msg("[SDL] make current")
	}
}

func (d *OpenGL) check() error {
	if e := ogl.GetError(); e != ogl.NO_ERROR {
		return &gl.Error{Code: gl.Enum(e)}
	}
	return nil
}

func get(name uint32) string { return ogl.GoStr(ogl.GetString(name)) }

package owner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/giongto35/glremote/pkg/api"
	"github.com/giongto35/glremote/pkg/gl"
)

var (
	ErrNoMemory        = errors.New("out of resources")
	ErrUnknownResource = errors.New("unknown resource")
	ErrNotBound        = errors.New("nothing is bound")
)

// MemoryConfig sets up a software driver.
// Zero limits mean no limit.
type MemoryConfig struct {
	Extensions      string
	MaxBuffers      int
	MaxVertexArrays int
}

// Memory is a software driver keeping all the resources in memory.
type Memory struct {
	conf MemoryConfig

	mu       sync.Mutex
	buffers  map[api.BufferId]*memBuffer
	arrays   map[api.VertexArrayId]map[uint32]api.BufferId
	bound    map[gl.Enum]api.BufferId
	array    api.VertexArrayId
	bufferId api.BufferId
	arrayId  api.VertexArrayId
}

type memBuffer struct {
	target gl.Enum
	usage  gl.Enum
	data   []byte
}

func NewMemory(conf MemoryConfig) *Memory {
	return &Memory{
		conf:    conf,
		buffers: make(map[api.BufferId]*memBuffer),
		arrays:  make(map[api.VertexArrayId]map[uint32]api.BufferId),
		bound:   make(map[gl.Enum]api.BufferId),
	}
}

func (m *Memory) Extensions() string { return m.conf.Extensions }

func (m *Memory) CreateBuffer() (api.BufferId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conf.MaxBuffers > 0 && len(m.buffers) >= m.conf.MaxBuffers {
		return 0, ErrNoMemory
	}
	m.bufferId++
	m.buffers[m.bufferId] = &memBuffer{}
	liveResources.WithLabelValues("buffer").Inc()
	return m.bufferId, nil
}

func (m *Memory) BindBuffer(target gl.Enum, id api.BufferId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == 0 {
		delete(m.bound, target)
		return nil
	}
	b, ok := m.buffers[id]
	if !ok {
		return fmt.Errorf("bind %v: %w", id, ErrUnknownResource)
	}
	if b.target != gl.NONE && b.target != target {
		return fmt.Errorf("bind %v to %v: %w", id, target, gl.ErrInvalidOperation)
	}
	b.target = target
	m.bound[target] = id
	return nil
}

func (m *Memory) BufferData(target gl.Enum, data []byte, usage gl.Enum) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.bound[target]
	if !ok {
		return fmt.Errorf("data for %v: %w", target, ErrNotBound)
	}
	b := m.buffers[id]
	b.data = append(b.data[:0], data...)
	b.usage = usage
	return nil
}

func (m *Memory) DeleteBuffer(id api.BufferId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buffers[id]; !ok {
		return fmt.Errorf("delete %v: %w", id, ErrUnknownResource)
	}
	delete(m.buffers, id)
	for target, bound := range m.bound {
		if bound == id {
			delete(m.bound, target)
		}
	}
	liveResources.WithLabelValues("buffer").Dec()
	return nil
}

func (m *Memory) CreateVertexArray() (api.VertexArrayId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conf.MaxVertexArrays > 0 && len(m.arrays) >= m.conf.MaxVertexArrays {
		return 0, ErrNoMemory
	}
	m.arrayId++
	m.arrays[m.arrayId] = make(map[uint32]api.BufferId)
	liveResources.WithLabelValues("vertex_array").Inc()
	return m.arrayId, nil
}

func (m *Memory) BindVertexArray(id api.VertexArrayId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.arrays[id]; id != 0 && !ok {
		return fmt.Errorf("bind vertex array %v: %w", id, ErrUnknownResource)
	}
	m.array = id
	return nil
}

func (m *Memory) DeleteVertexArray(id api.VertexArrayId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.arrays[id]; !ok {
		return fmt.Errorf("delete vertex array %v: %w", id, ErrUnknownResource)
	}
	delete(m.arrays, id)
	if m.array == id {
		m.array = 0
	}
	liveResources.WithLabelValues("vertex_array").Dec()
	return nil
}

// AttribBuffer attaches the buffer to the slot of the bound vertex array.
// The default array keeps nothing.
func (m *Memory) AttribBuffer(slot uint32, id api.BufferId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buffers[id]; id != 0 && !ok {
		return fmt.Errorf("attrib %v: %w", id, ErrUnknownResource)
	}
	if m.array == 0 {
		return nil
	}
	if id == 0 {
		delete(m.arrays[m.array], slot)
	} else {
		m.arrays[m.array][slot] = id
	}
	return nil
}

// Buffer returns a copy of the buffer contents.
func (m *Memory) Buffer(id api.BufferId) (data []byte, target gl.Enum, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buffers[id]
	if !ok {
		return nil, gl.NONE, false
	}
	return append([]byte(nil), b.data...), b.target, true
}

func (m *Memory) Buffers() int      { m.mu.Lock(); defer m.mu.Unlock(); return len(m.buffers) }
func (m *Memory) VertexArrays() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.arrays) }

func (m *Memory) Bound(target gl.Enum) api.BufferId {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bound[target]
}

func (m *Memory) BoundVertexArray() api.VertexArrayId {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.array
}

func (m *Memory) Attachment(array api.VertexArrayId, slot uint32) api.BufferId {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.arrays[array][slot]
}

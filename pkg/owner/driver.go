// Package owner executes context commands against the real GPU resources.
package owner

import (
	"errors"
	"fmt"

	"github.com/giongto35/glremote/pkg/api"
	"github.com/giongto35/glremote/pkg/gl"
	"github.com/giongto35/glremote/pkg/logger"
)

var ErrNoOpenGL = errors.New("built without the gl tag")

// Driver is the GPU side of the owner.
// A failed Create* call leaves no resource behind.
type Driver interface {
	// Extensions returns the capability string of the driver,
	// names are separated with spaces or commas.
	Extensions() string

	CreateBuffer() (api.BufferId, error)
	BindBuffer(target gl.Enum, id api.BufferId) error
	BufferData(target gl.Enum, data []byte, usage gl.Enum) error
	DeleteBuffer(id api.BufferId) error

	CreateVertexArray() (api.VertexArrayId, error)
	BindVertexArray(id api.VertexArrayId) error
	DeleteVertexArray(id api.VertexArrayId) error
	AttribBuffer(slot uint32, id api.BufferId) error
}

// DriverConfig picks and sets up the driver of every connection.
type DriverConfig struct {
	// Type is either memory or opengl.
	Type string
	MemoryConfig
}

const (
	DriverMemory = "memory"
	DriverOpenGL = "opengl"
)

// NewDriver makes a fresh driver for a connection.
// The opengl driver must be made on the thread it will run on.
func NewDriver(conf DriverConfig, log *logger.Logger) (Driver, error) {
	switch conf.Type {
	case "", DriverMemory:
		return NewMemory(conf.MemoryConfig), nil
	case DriverOpenGL:
		return NewOpenGL(log)
	}
	return nil, fmt.Errorf("unknown driver %q", conf.Type)
}

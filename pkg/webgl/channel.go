package webgl

import (
	"errors"
	"fmt"

	"github.com/giongto35/glremote/pkg/api"
	"github.com/giongto35/glremote/pkg/gl"
	"github.com/giongto35/glremote/pkg/logger"
)

// Channel is the ordered command link to the owner of the GPU resources.
// Send only enqueues, Call waits for the owner's reply.
type Channel interface {
	Send(t uint8, payload any) error
	Call(t uint8, payload any) ([]byte, error)
}

// ErrAllocation is returned when the owner could not create a resource.
var ErrAllocation = errors.New("resource allocation failed")

func (c *Context) send(t api.PT, payload any) error {
	if c.lost != nil {
		return c.lost
	}
	if err := c.ch.Send(uint8(t), payload); err != nil {
		return c.lose(err)
	}
	commandsSent.WithLabelValues(t.String()).Inc()
	c.log.Debug().Str(logger.DirectionField, "→").Msgf("%v", t)
	return nil
}

func (c *Context) call(t api.PT, payload any) ([]byte, error) {
	if c.lost != nil {
		return nil, c.lost
	}
	c.log.Debug().Str(logger.DirectionField, "→").Msgf("ᵇ%v", t)
	data, err := c.ch.Call(uint8(t), payload)
	if err != nil {
		return nil, c.lose(err)
	}
	commandsSent.WithLabelValues(t.String()).Inc()
	return data, nil
}

// lose marks the context as lost for good.
func (c *Context) lose(cause error) error {
	if c.lost == nil {
		c.lost = fmt.Errorf("%w: %w", gl.ErrContextLost, cause)
		contextsLost.Inc()
		c.log.Error().Err(cause).Msg("Context lost")
	}
	return c.lost
}

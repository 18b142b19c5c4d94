package owner

import (
	"fmt"
	"io"

	"github.com/giongto35/glremote/pkg/api"
	"github.com/giongto35/glremote/pkg/com"
	"github.com/giongto35/glremote/pkg/logger"
)

// Owner runs the commands of one context against a driver
// in the order they came in.
type Owner struct {
	driver Driver
	exec   func(func())
	log    *logger.Logger
}

type Option func(*Owner)

// WithExecutor sets the function running the driver calls,
// i.e. thread.MainMaybe for drivers bound to the main thread.
func WithExecutor(exec func(func())) Option { return func(o *Owner) { o.exec = exec } }

func New(driver Driver, log *logger.Logger, opts ...Option) *Owner {
	if log == nil {
		log = logger.Default()
	}
	o := &Owner{driver: driver, exec: func(f func()) { f() }, log: log.Component("owner")}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Owner) Driver() Driver { return o.driver }

// attach makes the driver of the owner on the executor,
// drivers tied to a thread are born there.
func (o *Owner) attach(newDriver func() (Driver, error)) (err error) {
	o.exec(func() { o.driver, err = newDriver() })
	return err
}

// Close frees the driver if it holds anything.
func (o *Owner) Close() {
	c, ok := o.driver.(io.Closer)
	if !ok {
		return
	}
	o.exec(func() {
		if err := c.Close(); err != nil {
			o.log.Error().Err(err).Msg("driver close")
		}
	})
}

// Serve starts handling the packets of the client.
// The returned channel is closed when the link is gone.
func (o *Owner) Serve(client *com.Client) chan struct{} {
	client.OnPacket(func(p com.In) { o.exec(func() { o.handle(client, p) }) })
	return client.Listen()
}

func (o *Owner) handle(client *com.Client, p com.In) {
	t := api.PT(p.T)
	commandsExecuted.WithLabelValues(t.String()).Inc()
	o.log.Debug().Str(logger.DirectionField, "←").Msgf("%v", t)

	// nobody would get the reply
	if t.IsBlocking() && p.Id.IsEmpty() {
		o.fail(t, fmt.Errorf("call without id: %w", api.ErrMalformed))
		return
	}

	var err error
	switch t {
	case api.GetExtensions:
		err = client.Route(p, o.driver.Extensions())
	case api.CreateBuffer:
		id, cerr := o.driver.CreateBuffer()
		if cerr != nil {
			o.fail(t, cerr)
		}
		err = client.Route(p, api.CreateBufferResponse{Id: id})
	case api.BindBuffer:
		dat := api.Unwrap[api.BindBufferRequest](p.Payload)
		if dat == nil {
			err = api.ErrMalformed
			break
		}
		err = o.driver.BindBuffer(dat.Target, dat.Id)
	case api.BufferData:
		dat := api.Unwrap[api.BufferDataRequest](p.Payload)
		if dat == nil {
			err = api.ErrMalformed
			break
		}
		err = o.driver.BufferData(dat.Target, dat.Data, dat.Usage)
	case api.DeleteBuffer:
		dat := api.Unwrap[api.DeleteBufferRequest](p.Payload)
		if dat == nil {
			err = api.ErrMalformed
			break
		}
		err = o.driver.DeleteBuffer(dat.Id)
	case api.CreateVertexArray:
		id, cerr := o.driver.CreateVertexArray()
		if cerr != nil {
			o.fail(t, cerr)
		}
		err = client.Route(p, api.CreateVertexArrayResponse{Id: id})
	case api.BindVertexArray:
		dat := api.Unwrap[api.BindVertexArrayRequest](p.Payload)
		if dat == nil {
			err = api.ErrMalformed
			break
		}
		err = o.driver.BindVertexArray(dat.Id)
	case api.DeleteVertexArray:
		dat := api.Unwrap[api.DeleteVertexArrayRequest](p.Payload)
		if dat == nil {
			err = api.ErrMalformed
			break
		}
		err = o.driver.DeleteVertexArray(dat.Id)
	case api.AttribBuffer:
		dat := api.Unwrap[api.AttribBufferRequest](p.Payload)
		if dat == nil {
			err = api.ErrMalformed
			break
		}
		err = o.driver.AttribBuffer(dat.Slot, dat.Buffer)
	default:
		err = fmt.Errorf("unknown command %v", p.T)
	}
	if err != nil {
		o.fail(t, err)
	}
}

func (o *Owner) fail(t api.PT, err error) {
	commandErrors.WithLabelValues(t.String()).Inc()
	o.log.Warn().Err(err).Msgf("%v failed", t)
}

package config

import (
	"errors"

	"github.com/giongto35/glremote/pkg/logger"
	"github.com/kkyr/fig"
	"github.com/spf13/pflag"
)

// Config is the whole configuration of the binaries.
type Config struct {
	Owner      Owner
	Probe      Probe
	Monitoring Monitoring
	Log        logger.Config
}

type Owner struct {
	Address string `default:":9090"`
	Path    string `default:"/gl"`
	// a lock file to keep a single owner per machine, empty to skip
	Lock   string
	Driver Driver
	// queue length of each websocket connection
	Queue int `default:"256"`
}

// Driver picks the driver of the connections.
// The limits and the extensions only apply to the memory one.
type Driver struct {
	// memory or opengl (needs the gl build tag)
	Type            string `default:"memory"`
	Extensions      string
	MaxBuffers      int
	MaxVertexArrays int
}

type Probe struct {
	Url string `default:"ws://localhost:9090/gl"`
	// extensions to enable after the probe
	Enable []string
}

type Monitoring struct {
	Port             int
	URLPrefix        string
	MetricEnabled    bool `json:"metric_enabled"`
	ProfilingEnabled bool `json:"profiling_enabled"`
}

func (c *Monitoring) IsEnabled() bool { return c.MetricEnabled || c.ProfilingEnabled }

// allows custom config path
var configPath string

// NewConfig loads the config from the file set with the -c flag
// or from the default locations. Without a file in the default
// locations only the defaults and the environment count.
func NewConfig() (*Config, error) {
	var conf Config
	err := LoadConfig(&conf, configPath)
	if errors.Is(err, fig.ErrFileNotFound) && configPath == "" {
		conf = Config{}
		err = LoadConfigEnv(&conf)
	}
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) WithFlags(fs *pflag.FlagSet) *Config {
	c.Owner.WithFlags(fs)
	c.Probe.WithFlags(fs)
	c.Monitoring.WithFlags(fs)
	fs.BoolVar(&c.Log.Debug, "debug", false, "Debug log level")
	fs.BoolVar(&c.Log.Console, "console", false, "Human readable log output")
	fs.StringVarP(&configPath, "conf", "c", "", "Set custom configuration file path")
	return c
}

func (o *Owner) WithFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Address, "address", "", "Owner server address (host:port)")
	fs.StringVar(&o.Lock, "lock", "", "Owner lock file")
	fs.StringVar(&o.Driver.Type, "driver", "", "Driver type (memory, opengl)")
	fs.StringVar(&o.Driver.Extensions, "extensions", "", "Driver capability string")
}

func (p *Probe) WithFlags(fs *pflag.FlagSet) {
	fs.StringVar(&p.Url, "url", "", "Owner websocket URL")
	fs.StringSliceVar(&p.Enable, "enable", nil, "Extensions to enable")
}

func (m *Monitoring) WithFlags(fs *pflag.FlagSet) {
	fs.IntVar(&m.Port, "monitoring.port", 0, "Monitoring server port")
}

// Override copies the flags set on the command line over the loaded values.
func (c *Config) Override(fs *pflag.FlagSet, flags *Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "address":
			c.Owner.Address = flags.Owner.Address
		case "lock":
			c.Owner.Lock = flags.Owner.Lock
		case "driver":
			c.Owner.Driver.Type = flags.Owner.Driver.Type
		case "extensions":
			c.Owner.Driver.Extensions = flags.Owner.Driver.Extensions
		case "url":
			c.Probe.Url = flags.Probe.Url
		case "enable":
			c.Probe.Enable = flags.Probe.Enable
		case "monitoring.port":
			c.Monitoring.Port = flags.Monitoring.Port
		case "debug":
			c.Log.Debug = flags.Log.Debug
		case "console":
			c.Log.Console = flags.Log.Console
		}
	})
}

package main

import (
	"context"
	"os"
	"time"

	"github.com/giongto35/glremote/pkg/config"
	"github.com/giongto35/glremote/pkg/logger"
	"github.com/giongto35/glremote/pkg/monitoring"
	gos "github.com/giongto35/glremote/pkg/os"
	"github.com/giongto35/glremote/pkg/owner"
	"github.com/giongto35/glremote/pkg/service"
	"github.com/giongto35/glremote/pkg/thread"
	flag "github.com/spf13/pflag"
)

var Version = "?"

func run() {
	var flags config.Config
	flag.CommandLine.SortFlags = false
	flags.WithFlags(flag.CommandLine)
	flag.Parse()

	conf, err := config.NewConfig()
	if err != nil {
		logger.Default().Fatal().Err(err).Msg("config")
	}
	conf.Override(flag.CommandLine, &flags)

	log := logger.New(conf.Log, "o")
	log.Info().Msgf("version %s", Version)
	log.Debug().Msgf("conf: %+v", conf)

	if conf.Owner.Lock != "" {
		lock, err := gos.NewFileLock(conf.Owner.Lock)
		if err != nil {
			log.Fatal().Err(err).Msg("lock file")
		}
		if ok, err := lock.TryLock(); !ok || err != nil {
			log.Fatal().Err(err).Msgf("another owner holds %v", conf.Owner.Lock)
		}
		defer func() { _ = lock.Unlock() }()
	}

	driver := owner.DriverConfig{
		Type: conf.Owner.Driver.Type,
		MemoryConfig: owner.MemoryConfig{
			Extensions:      conf.Owner.Driver.Extensions,
			MaxBuffers:      conf.Owner.Driver.MaxBuffers,
			MaxVertexArrays: conf.Owner.Driver.MaxVertexArrays,
		},
	}
	// GL contexts stay on the main thread
	exec := thread.MainMaybe
	if driver.Type == owner.DriverOpenGL {
		exec = thread.Main
	}
	srv, err := owner.NewServer(conf.Owner.Address, conf.Owner.Path, conf.Owner.Queue, func() (owner.Driver, error) {
		return owner.NewDriver(driver, log)
	}, log, owner.WithExecutor(exec))
	if err != nil {
		log.Fatal().Err(err).Msg("owner server")
	}

	services := service.Group{}
	services.Add(srv)
	if conf.Monitoring.IsEnabled() {
		mon, err := monitoring.New(conf.Monitoring, log)
		if err != nil {
			log.Fatal().Err(err).Msg("monitoring")
		}
		services.Add(mon)
	}
	services.Start()

	<-gos.ExpectTermination()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := services.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
		os.Exit(1)
	}
}

func main() { thread.Wrap(run) }

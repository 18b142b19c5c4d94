package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/giongto35/glremote/pkg/com"
	"github.com/giongto35/glremote/pkg/config"
	"github.com/giongto35/glremote/pkg/gl"
	"github.com/giongto35/glremote/pkg/logger"
	"github.com/giongto35/glremote/pkg/network/websocket"
	"github.com/giongto35/glremote/pkg/webgl"
	flag "github.com/spf13/pflag"
)

// glprobe connects to an owner, prints the extensions a context
// would offer and enables some of them.
func main() {
	var flags config.Config
	flags.WithFlags(flag.CommandLine)
	flag.Parse()

	conf, err := config.NewConfig()
	if err != nil {
		logger.Default().Fatal().Err(err).Msg("config")
	}
	conf.Override(flag.CommandLine, &flags)
	log := logger.New(conf.Log, "p")

	address, err := url.Parse(conf.Probe.Url)
	if err != nil {
		log.Fatal().Err(err).Msg("owner url")
	}
	conn, err := websocket.NewClient(*address, websocket.DefaultQueue, log)
	if err != nil {
		log.Fatal().Err(err).Msgf("couldn't connect to %v", address)
	}
	client := com.NewClient(conn, log)
	client.Listen()
	defer client.Close()

	ctx := webgl.NewContext(client, log)
	for _, name := range ctx.GetSupportedExtensions() {
		fmt.Println(name)
	}
	if ctx.IsLost() {
		log.Error().Err(ctx.Err()).Msg("probe")
		os.Exit(1)
	}
	for _, name := range conf.Probe.Enable {
		if _, ok := ctx.GetExtension(name); !ok {
			log.Warn().Msgf("%v is not supported", name)
			continue
		}
		log.Info().Msgf("%v is enabled", name)
	}
	for _, typ := range []gl.Enum{gl.FLOAT, gl.HalfFloatOES} {
		f, err := ctx.TexFormat(gl.RGBA, typ)
		if err != nil {
			fmt.Printf("RGBA/%v: %v\n", typ, err)
			continue
		}
		fmt.Printf("RGBA/%v: %v, filterable: %v\n", typ, f, ctx.IsFilterable(typ))
	}
}

package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects the output of the root logger.
type Config struct {
	Debug   bool
	Console bool
	NoColor bool `json:"no_color"`
}

// Field names used by the context and the owner.
const (
	DirectionField = "d"
	ComponentField = "c"
	ResourceField  = "r"
)

var pid = os.Getpid()

type Logger struct {
	logger *zerolog.Logger
}

// New creates a root logger from the config.
// The tag param specifies the application name shown in the console output.
func New(conf Config, tag string) *Logger {
	if conf.Console {
		return NewConsole(os.Stdout, conf.Debug, tag, conf.NoColor)
	}
	return NewJSON(os.Stderr, conf.Debug)
}

func NewJSON(w io.Writer, isDebug bool) *Logger {
	setLevel(isDebug)
	logger := zerolog.New(w).With().Timestamp().Fields(map[string]any{"pid": pid}).Logger()
	return &Logger{logger: &logger}
}

func NewConsole(w io.Writer, isDebug bool, tag string, noColor bool) *Logger {
	setLevel(isDebug)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.0000", NoColor: noColor,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			"pid",
			zerolog.LevelFieldName,
			"s",
			ComponentField,
			DirectionField,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{"s", ComponentField, DirectionField, "pid"},
	}
	if output.NoColor {
		output.FormatMessage = func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%v", i)
		}
	}
	logger := zerolog.New(output).With().
		Str("pid", fmt.Sprintf("%4x", pid)).
		Str("s", tag).
		Str(ComponentField, " ").
		Str(DirectionField, " ").
		Timestamp().Logger()
	return &Logger{logger: &logger}
}

func setLevel(isDebug bool) {
	level := zerolog.InfoLevel
	if isDebug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

// Default returns the global zerolog logger.
func Default() *Logger { return &Logger{logger: &log.Logger} }

// Nop returns a logger that writes nothing, handy in tests.
func Nop() *Logger { l := zerolog.Nop(); return &Logger{logger: &l} }

// With creates a child logger with the field added to its context.
func (l *Logger) With() zerolog.Context { return l.logger.With() }

// Extend adds some additional context to the existing logger.
func (l *Logger) Extend(ctx zerolog.Context) *Logger {
	logger := ctx.Logger()
	return &Logger{logger: &logger}
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	return l.Extend(l.With().Str(ComponentField, name))
}

// Debug starts a new message with debug level.
// You must call Msg on the returned event in order to send the event.
func (l *Logger) Debug() *zerolog.Event { return l.logger.Debug() }

// Info starts a new message with info level.
func (l *Logger) Info() *zerolog.Event { return l.logger.Info() }

// Warn starts a new message with warn level.
func (l *Logger) Warn() *zerolog.Event { return l.logger.Warn() }

// Error starts a new message with error level.
func (l *Logger) Error() *zerolog.Event { return l.logger.Error() }

// Fatal starts a new message with fatal level. The os.Exit(1) function
// is called by the Msg method.
func (l *Logger) Fatal() *zerolog.Event { return l.logger.Fatal() }

// Printf sends a log event using debug level and no extra field.
func (l *Logger) Printf(format string, v ...any) { l.logger.Printf(format, v...) }

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls where log output goes.
type Options struct {
	// Verbosity is the number of -v flags. 0 is warn, 1 info, 2 debug, 3+ trace.
	Verbosity int
	// DebugFile, when set, receives a full debug-level transcript of the run
	// regardless of the console verbosity.
	DebugFile string
	// Console overrides stderr, mostly for tests.
	Console io.Writer
	// NoColor disables console colors.
	NoColor bool
}

// LevelFor maps a verbosity count to a zerolog level.
func LevelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger configures the global logger. It returns a close func that
// flushes the debug file, if one was opened.
func SetupLogger(opts Options) (func() error, error) {
	consoleLevel := LevelFor(opts.Verbosity)

	out := opts.Console
	if out == nil {
		out = os.Stderr
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    opts.NoColor,
	}

	writers := []io.Writer{
		&levelFilter{w: consoleWriter, min: consoleLevel},
	}

	closer := func() error { return nil }
	globalLevel := consoleLevel

	if opts.DebugFile != "" {
		file, err := openDebugFile(opts.DebugFile)
		if err != nil {
			return closer, err
		}
		closer = file.Close
		writers = append(writers, &levelFilter{
			w: zerolog.ConsoleWriter{
				Out:        file,
				NoColor:    true,
				TimeFormat: "15:04:05",
			},
			min: zerolog.DebugLevel,
		})
		if globalLevel > zerolog.DebugLevel {
			globalLevel = zerolog.DebugLevel
		}
	}

	zerolog.SetGlobalLevel(globalLevel)
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	if opts.Verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().
		Int("verbosity", opts.Verbosity).
		Str("debugFile", opts.DebugFile).
		Msg("Logger initialized")

	return closer, nil
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}

// openDebugFile truncates the debug log so each run starts clean.
func openDebugFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return file, nil
}

// levelFilter drops events below min for a single sink.
type levelFilter struct {
	w   io.Writer
	min zerolog.Level
}

func (f *levelFilter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f *levelFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < f.min {
		return len(p), nil
	}
	return f.w.Write(p)
}

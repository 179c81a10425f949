package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const (
	LogFile = "le-launcher.log"
)

type Options struct {
	// Directory for the rotated log file, no file is written if empty
	Dir string
	// Silent drops console output
	Silent bool
	Debug  bool
	// Console defaults to stdout
	Console io.Writer
}

// New builds a logger writing to the console and a rotated log file. The returned closer releases the log file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	var writers []io.Writer
	closer := io.Closer(nopCloser{})

	if !opts.Silent {
		out := opts.Console
		if out == nil {
			out = os.Stdout
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: out})
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, LogFile),
			MaxSize:    1,
			MaxBackups: 2,
		}
		writers = append(writers, file)
		closer = file
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	logger := zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	if opts.Debug {
		logger = logger.With().Caller().Logger()
	}

	return logger, closer, nil
}

// Setup replaces the global logger
func Setup(opts Options) (io.Closer, error) {
	logger, closer, err := New(opts)
	if err != nil {
		return nil, err
	}
	log.Logger = logger
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}

// Package log configures the application logger: console output always,
// plus an optional rotating log file.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// Level is a logrus level name ("debug", "info", ...). Invalid or
	// empty values fall back to info.
	Level string

	// Dir is the directory for log files. Used only when ToFile is set.
	Dir string

	// ToFile enables a rotating per-day log file in Dir.
	ToFile bool
}

// New builds a logrus logger from the given options.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&formatter.Formatter{
		TimestampFormat: "2006-01-02 15:04:05",
		HideKeys:        false,
		NoColors:        opts.ToFile,
	})

	writers := []io.Writer{os.Stderr}
	if opts.ToFile {
		dir := opts.Dir
		if dir == "" {
			dir = "output/logs"
		}
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(dir, fmt.Sprintf("run-%s.log", time.Now().Format("2006-01-02"))),
			LocalTime:  true,
			MaxSize:    20, // MB
			MaxAge:     14, // days
			MaxBackups: 5,
		}
		writers = append(writers, fileWriter)
	}
	logger.SetOutput(io.MultiWriter(writers...))

	return logger
}

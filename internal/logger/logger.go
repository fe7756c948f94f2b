package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"rayder/internal/config"
)

// New builds the application logger writing to stdout. Non-empty LOG_LEVEL
// and LOG_FORMAT environment variables override the configured values.
func New(cfg config.LoggingConfig) *logrus.Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(cfg config.LoggingConfig, out io.Writer) *logrus.Logger {
	log := logrus.New()

	logLevel := cfg.Level
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		logLevel = env
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	logFormat := cfg.Format
	if env := os.Getenv("LOG_FORMAT"); env != "" {
		logFormat = env
	}
	// "json" for collected logs, "text" for a terminal.
	if strings.ToLower(logFormat) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	log.SetOutput(out)
	return log
}

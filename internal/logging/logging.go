package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. level is one of debug/info/warn/error
// (default info). format "json" selects the JSON formatter, as does
// ENVIRONMENT=production when format is empty.
func New(service, level, format string) *logrus.Entry {
	return NewWithOutput(os.Stderr, service, level, format)
}

func NewWithOutput(out io.Writer, service, level, format string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(out)

	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	if format == "" && os.Getenv("ENVIRONMENT") == "production" {
		format = "json"
	}
	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger.WithField("service", service)
}

package logging

import (
	"github.com/sirupsen/logrus"
)

// Fields represents structured logging fields
type Fields = logrus.Fields

// NewLogger creates a new configured logger instance
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// NewLoggerWithService creates a logger with a service field
func NewLoggerWithService(serviceName, level string) *logrus.Logger {
	logger := NewLogger(level)

	// Add service name to all log entries
	logger = logger.WithField("service", serviceName).Logger

	return logger
}

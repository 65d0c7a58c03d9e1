package util

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logrus entry tagged with the component name. All
// packages log through entries built here so the format stays uniform.
func NewLogger(component string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if os.Getenv("REPOGUARD_DEBUG") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger.WithField("component", component)
}

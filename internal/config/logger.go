package config

import (
	"os" // Log output

	"github.com/sirupsen/logrus" // Structured logging
)

// NewLogger builds the application logger: text with full timestamps in
// development, JSON in production
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.IsProd {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel // Unknown names fall back to info
	}
	log.SetLevel(level)
	return log
}

package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  *logrus.Logger
	once sync.Once
)

// Init initializes the logger only once. Level comes from LOG_LEVEL, default info.
func Init() {
	once.Do(func() {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})

		level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
		if err != nil {
			level = logrus.InfoLevel
		}
		l.SetLevel(level)

		log = l
	})
}

// GetLogger returns the singleton logger.
func GetLogger() *logrus.Logger {
	if log == nil {
		Init()
	}
	return log
}

// SetLevel overrides the level, e.g. from the config file. Unknown names are ignored.
func SetLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		GetLogger().WithField("level", name).Warn("unknown log level, keeping current")
		return
	}
	GetLogger().SetLevel(level)
}

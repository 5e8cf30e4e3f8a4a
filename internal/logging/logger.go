package logging

import (
	"github.com/sirupsen/logrus"
)

// Setup configures the process-wide logrus logger. An unknown level falls
// back to info rather than failing startup.
func Setup(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
		logrus.WithField("level", level).Warn("unknown log level, using info")
	}

	logrus.SetLevel(parsed)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

package logs

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Packages log through it as logs.Log.Info(...) etc.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// SetLevel applies the configured log level, falling back to info on junk input.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		Log.Warn("Unknown LOG_LEVEL, defaulting to info")
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)
}

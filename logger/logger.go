package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. Until Init runs it only reports warnings, to stderr.
var Log = newQuiet()

func newQuiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Init configures Log from LOG_LEVEL (default info) and LOG_FORMAT (json or text).
// Call it once from main.
func Init() {
	InitTo(os.Stdout)
}

// InitTo is Init with an explicit output.
func InitTo(out io.Writer) {
	l := logrus.New()

	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	l.SetOutput(out)
	Log = l
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}

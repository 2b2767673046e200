package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	Debug   *logrus.Entry
	Scanner *logrus.Entry
	Enabled bool
)

// logFile is where debug output goes when DUPEDIVE_DEBUG is set
const logFile = "debug.log"

func init() {
	Setup(os.Getenv("DUPEDIVE_DEBUG"))
}

// Setup configures the package loggers. An empty level discards all output so the
// terminal UI is never disturbed; any other value enables logging to debug.log at that
// level ("1" and unknown values mean debug).
func Setup(level string) {
	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
	})

	if level == "" {
		base.SetOutput(io.Discard)
		base.SetLevel(logrus.PanicLevel)
		Enabled = false
		setEntries(base)
		return
	}

	Enabled = true

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.DebugLevel
	}
	base.SetLevel(lvl)

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		// Fall back to stderr if we can't open the file
		base.SetOutput(os.Stderr)
	} else {
		base.SetOutput(f)
	}

	setEntries(base)
}

func setEntries(base *logrus.Logger) {
	Debug = base.WithField("component", "debug")
	Scanner = base.WithField("component", "scanner")
}

// Package logging holds the shared logrus logger used by the CLI.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stderr)
}

// Configure sets the output and level. Verbose enables debug output.
func Configure(out io.Writer, verbose bool) {
	logg.SetOutput(out)
	if verbose {
		logg.SetLevel(logrus.DebugLevel)
		return
	}
	logg.SetLevel(logrus.InfoLevel)
}

// For returns an entry tagged with the command name.
func For(command string) *logrus.Entry {
	return logg.WithField("cmd", command)
}

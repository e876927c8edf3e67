package cactusref

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// The collector narrates its decisions (cycle found, member reclaimed,
// reachable skip) at debug and trace levels. The logger is silent unless
// the CACTUS_LOG environment variable names a level, so programs that do
// not opt in pay only for the disabled-level checks.
var log = newLogger()

func newLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	if s := os.Getenv("CACTUS_LOG"); s != "" {
		if lvl, err := logrus.ParseLevel(s); err == nil {
			l.SetLevel(lvl)
			l.SetOutput(os.Stderr)
		}
	}
	return l.WithField("prefix", "cactusref")
}

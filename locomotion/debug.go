package locomotion

import (
	"io"

	"github.com/sirupsen/logrus"
)

// DebugMode is a bitmask selecting the stages of a tick that are logged.
type DebugMode uint8

const (
	DebugModeResolver DebugMode = 1 << iota
	DebugModeHands
	DebugModeBody
	DebugModeLaunch

	DebugModeAll = DebugModeResolver | DebugModeHands | DebugModeBody | DebugModeLaunch
)

var debugModeNames = map[DebugMode]string{
	DebugModeResolver: "resolver",
	DebugModeHands:    "hands",
	DebugModeBody:     "body",
	DebugModeLaunch:   "launch",
}

// ParseDebugModes returns the DebugMode named by each of the names passed. Unknown names are
// returned separately.
func ParseDebugModes(names []string) (modes DebugMode, unknown []string) {
	for _, n := range names {
		found := false
		for m, name := range debugModeNames {
			if name == n {
				modes |= m
				found = true
			}
		}
		if n == "all" {
			modes, found = DebugModeAll, true
		}
		if !found {
			unknown = append(unknown, n)
		}
	}
	return modes, unknown
}

// debugger logs the tick stages enabled in its mask.
type debugger struct {
	modes DebugMode
	log   logrus.FieldLogger
}

func newDebugger(modes DebugMode, log logrus.FieldLogger) debugger {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return debugger{modes: modes, log: log}
}

// Notify logs the message at debug level if the mode is enabled and cond holds.
func (d debugger) Notify(mode DebugMode, cond bool, format string, args ...any) {
	if !cond || d.modes&mode == 0 {
		return
	}
	d.log.WithField("stage", debugModeNames[mode]).Debugf(format, args...)
}

// Enabled returns true if the mode passed is logged.
func (d debugger) Enabled(mode DebugMode) bool {
	return d.modes&mode != 0
}

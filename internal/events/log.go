package events

import (
	"github.com/sirupsen/logrus"
)

// LogHandler returns a handler that mirrors events onto the structured log.
// Failure events log at error level, everything else at debug so normal runs
// stay quiet outside --verbose.
func LogHandler(log *logrus.Entry) Handler {
	return func(e Event) {
		fields := logrus.Fields{"event": string(e.Type)}
		if e.Run != "" {
			fields["run"] = e.Run
		}
		if e.Interpreter != "" {
			fields["interpreter"] = e.Interpreter
		}
		if e.Step != "" {
			fields["step"] = e.Step
		}

		entry := log.WithFields(fields)
		if e.IsFailure() {
			if e.Error != "" {
				entry = entry.WithField("error", e.Error)
			}
			entry.Error("event")
			return
		}
		entry.Debug("event")
	}
}

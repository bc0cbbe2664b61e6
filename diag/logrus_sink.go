package diag

import "github.com/sirupsen/logrus"

// LogrusSink reports diagnostics as structured logrus entries, one line per
// occurrence, matching spec.md §7's "reported via a diagnostic sink, one
// line per occurrence" requirement.
type LogrusSink struct {
	Logger *logrus.Logger
}

// NewLogrusSink returns a LogrusSink backed by logger, or logrus's default
// standard logger if logger is nil.
func NewLogrusSink(logger *logrus.Logger) *LogrusSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusSink{Logger: logger}
}

func (s *LogrusSink) Report(d Diagnostic) {
	fields := logrus.Fields{"kind": d.Kind}
	if d.Method != nil {
		fields["method"] = d.Method.Ref().String()
	}
	if d.Stmt != nil {
		fields["stmt"] = d.Stmt.Index
	}
	s.Logger.WithFields(fields).Log(logrus.WarnLevel, d.Detail)
}

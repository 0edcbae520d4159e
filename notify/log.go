package notify

import "github.com/kbukum/adminkit/logger"

// LogNotifier writes notifications as structured log lines.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses the "notify" component logger.
func NewLogNotifier(l *logger.Logger) *LogNotifier {
	if l == nil {
		l = logger.Get("notify")
	}
	return &LogNotifier{log: l}
}

// Loading logs the pending message at info.
func (n *LogNotifier) Loading(msg string) Handle {
	h := NewHandle()
	n.log.Info(msg, logger.Fields(logger.FieldHandle, string(h), logger.FieldStatus, KindLoading.String()))
	return h
}

// Success logs the resolution at info.
func (n *LogNotifier) Success(h Handle, msg string) {
	n.log.Info(msg, logger.Fields(logger.FieldHandle, string(h), logger.FieldStatus, KindSuccess.String()))
}

// Error logs the resolution at warn.
func (n *LogNotifier) Error(h Handle, msg string) {
	n.log.Warn(msg, logger.Fields(logger.FieldHandle, string(h), logger.FieldStatus, KindError.String()))
}

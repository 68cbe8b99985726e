package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Notifier is the user-notification surface: fire-and-forget
// (title, detail) pairs, no acknowledgment.
type Notifier interface {
	Success(title, detail string)
	Failure(title, detail string)
}

// Logger surfaces notices through structured logs. Stands in for the
// toast surface of the original client.
type Logger struct {
	log *zap.Logger
}

func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Success(title, detail string) {
	l.log.Info(title, zap.String("detail", detail))
}

func (l *Logger) Failure(title, detail string) {
	l.log.Warn(title, zap.String("detail", detail))
}

// Notice is one recorded notification.
type Notice struct {
	OK     bool
	Title  string
	Detail string
}

// Recorder captures notices for assertions in tests.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Success(title, detail string) { r.add(Notice{OK: true, Title: title, Detail: detail}) }
func (r *Recorder) Failure(title, detail string) { r.add(Notice{OK: false, Title: title, Detail: detail}) }

func (r *Recorder) add(n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

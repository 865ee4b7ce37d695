package logging

import "context"

// NoOpLogger discards all log messages
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that does nothing
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(msg string, fields ...Field) {}
func (l *NoOpLogger) Info(msg string, fields ...Field)  {}
func (l *NoOpLogger) Warn(msg string, fields ...Field)  {}
func (l *NoOpLogger) Error(msg string, fields ...Field) {}

func (l *NoOpLogger) WithTraceID(traceID string) Logger       { return l }
func (l *NoOpLogger) WithContext(ctx context.Context) Logger  { return l }
func (l *NoOpLogger) SetLevel(level LogLevel)                 {}
func (l *NoOpLogger) Close() error                            { return nil }

package logger

type nopLogger struct{}

// NewNopLogger returns a logger that discards everything. Used by
// tests and anywhere logging is not wired up.
func NewNopLogger() Logger {
	return &nopLogger{}
}

func (n *nopLogger) InitLogger()                                  {}
func (n *nopLogger) Debug(args ...interface{})                    {}
func (n *nopLogger) Debugf(template string, args ...interface{})  {}
func (n *nopLogger) Info(args ...interface{})                     {}
func (n *nopLogger) Infof(template string, args ...interface{})   {}
func (n *nopLogger) Warn(args ...interface{})                     {}
func (n *nopLogger) Warnf(template string, args ...interface{})   {}
func (n *nopLogger) Error(args ...interface{})                    {}
func (n *nopLogger) Errorf(template string, args ...interface{})  {}
func (n *nopLogger) DPanic(args ...interface{})                   {}
func (n *nopLogger) DPanicf(template string, args ...interface{}) {}
func (n *nopLogger) Fatal(args ...interface{})                    {}
func (n *nopLogger) Fatalf(template string, args ...interface{})  {}

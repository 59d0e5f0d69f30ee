package tasks

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/hibiken/asynq"
)

// asynqLogger routes asynq's own logging into logr.
type asynqLogger struct {
	log logr.Logger
}

// NewLogger adapts log to the asynq.Logger interface.
func NewLogger(log logr.Logger) asynq.Logger {
	return asynqLogger{log: log}
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.V(1).Info(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Info(fmt.Sprint(args...), "level", "warn") }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error(nil, fmt.Sprint(args...)) }

func (l asynqLogger) Fatal(args ...interface{}) {
	l.log.Error(nil, fmt.Sprint(args...), "fatal", true)
	os.Exit(1)
}

// Package logrus adapts a logrus entry to redisval.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/redisval"
)

var _ redisval.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New wraps l, tagging every line with component=redisval.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "redisval")}
}

func (l Logger) Debug(msg string, f redisval.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f redisval.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f redisval.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f redisval.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }

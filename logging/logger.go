/*
Package logging provides the application and access logging used by the
decision engine and its server shim. Application logging goes through a
package-global logrus logger; access logging writes one structured line per
finished traversal, independent of whatever level the application logger is
set to.
*/
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options configures the application and access loggers. The zero value
// logs to stderr in logrus's default text format and discards access log
// output entirely.
type Options struct {
	ApplicationLogPrefix        string
	ApplicationLogOutput        io.Writer
	ApplicationLogJSONEnabled   bool
	ApplicationLogJsonFormatter *logrus.JSONFormatter

	AccessLogOutput        io.Writer
	AccessLogJSONEnabled   bool
	AccessLogStripQuery    bool
	AccessLogFormatter     logrus.Formatter
	AccessLogJsonFormatter *logrus.JSONFormatter
}

var accessLog = logrus.New()

// Init sets up the application and access loggers according to o. It can be
// called more than once, e.g. by tests, each call fully replacing the
// previous configuration.
func Init(o Options) {
	if o.ApplicationLogOutput != nil {
		logrus.SetOutput(o.ApplicationLogOutput)
	} else {
		logrus.SetOutput(os.Stderr)
	}

	if o.ApplicationLogJSONEnabled {
		if o.ApplicationLogJsonFormatter != nil {
			logrus.SetFormatter(o.ApplicationLogJsonFormatter)
		} else {
			logrus.SetFormatter(&logrus.JSONFormatter{})
		}
	} else {
		logrus.SetFormatter(&prefixFormatter{prefix: o.ApplicationLogPrefix})
	}

	if o.AccessLogOutput != nil {
		accessLog.SetOutput(o.AccessLogOutput)
	} else {
		accessLog.SetOutput(io.Discard)
	}

	switch {
	case o.AccessLogFormatter != nil:
		accessLog.SetFormatter(o.AccessLogFormatter)
	case o.AccessLogJSONEnabled:
		if o.AccessLogJsonFormatter != nil {
			accessLog.SetFormatter(o.AccessLogJsonFormatter)
		} else {
			accessLog.SetFormatter(&logrus.JSONFormatter{DisableTimestamp: true})
		}
	default:
		accessLog.SetFormatter(&accessLogFormatter{})
	}

	accessLogStripQuery = o.AccessLogStripQuery
}

type prefixFormatter struct {
	prefix string
	text   logrus.TextFormatter
}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	b, err := f.text.Format(e)
	if err != nil || f.prefix == "" {
		return b, err
	}

	return append([]byte(f.prefix), b...), nil
}

// DefaultLog adapts the package-global logrus logger to a small
// log.Logger-shaped interface.
type DefaultLog struct{}

func (dl *DefaultLog) Error(args ...any)          { logrus.Error(args...) }
func (dl *DefaultLog) Errorf(f string, a ...any)  { logrus.Errorf(f, a...) }
func (dl *DefaultLog) Warn(args ...any)           { logrus.Warn(args...) }
func (dl *DefaultLog) Warnf(f string, a ...any)   { logrus.Warnf(f, a...) }
func (dl *DefaultLog) Info(args ...any)           { logrus.Info(args...) }
func (dl *DefaultLog) Infof(f string, a ...any)   { logrus.Infof(f, a...) }
func (dl *DefaultLog) Debug(args ...any)          { logrus.Debug(args...) }
func (dl *DefaultLog) Debugf(f string, a ...any)  { logrus.Debugf(f, a...) }

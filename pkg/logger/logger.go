// Package logger wraps logrus with context-aware helpers.
package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/roguepikachu/sendy/internal/utils"
)

// InitLogging configures the logger. It sets the log level from the LOG_LEVEL environment variable if present.
func InitLogging() {
	logrus.Info("....Configuring Logger....")
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug" // default if not set
	}
	setLogLevel(logLevel)
	logFormat := os.Getenv("LOG_FORMAT")
	if strings.ToLower(logFormat) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	case "fatal":
		logrus.SetLevel(logrus.FatalLevel)
	case "panic":
		logrus.SetLevel(logrus.PanicLevel)
	default:
		logrus.Infof("NO/Invalid LOGGING_LEVEL is provided, defaulting logging level to DEBUG, provided loggingLevel=[%s]", level)
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.Infof("Setting logging level to %s", level)
}

// ctxFields pulls request/client IDs out of the context when present.
func ctxFields(ctx context.Context) logrus.Fields {
	fields := logrus.Fields{}
	if ctx == nil {
		return fields
	}
	if rid := utils.RequestID(ctx); rid != "" {
		fields["request_id"] = rid
	}
	if cid := utils.ClientID(ctx); cid != "" {
		fields["client_id"] = cid
	}
	return fields
}

// With returns a logrus entry carrying the given fields plus any IDs found
// in the context.
func With(ctx context.Context, fields map[string]any) *logrus.Entry {
	e := logrus.WithFields(ctxFields(ctx))
	if len(fields) > 0 {
		e = e.WithFields(logrus.Fields(fields))
	}
	return e
}

// WithField is a single-field convenience over With.
func WithField(ctx context.Context, key string, value any) *logrus.Entry {
	return With(ctx, map[string]any{key: value})
}

// Sprintf is a thin alias so callers don't need to import fmt alongside.
func Sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func Info(_ context.Context, msg string, args ...interface{}) {
	logrus.Infof(msg, args...)
}

func Debug(_ context.Context, msg string, args ...any) {
	logrus.Debugf(msg, args...)
}

func Error(_ context.Context, msg string, args ...any) {
	logrus.Errorf(msg, args...)
}

func Trace(_ context.Context, msg string, args ...any) {
	logrus.Tracef(msg, args...)
}

func Warn(_ context.Context, msg string, args ...any) {
	logrus.Warnf(msg, args...)
}

func Fatal(_ context.Context, msg string, args ...any) {
	logrus.Fatalf(msg, args...)
}

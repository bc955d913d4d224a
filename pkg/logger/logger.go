package logger

import (
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log sink. Mode "file" writes rotated JSON under Path;
// any other mode writes human-readable lines to stderr.
type Options struct {
	Mode  string
	Level string
	Path  string
	Name  string
}

type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})

	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	Sync() error
}

var logging Logger

func init() {
	logging = zap.NewNop().Sugar()
}

// NewLogger builds a sugared zap logger for o without installing it.
// Mode "file" rotates through lumberjack; anything else logs to stderr.
// A bad level or a failed build yields a no-op logger rather than an error.
func NewLogger(o *Options) Logger {
	level := zapcore.InfoLevel
	if o.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(o.Level); err != nil {
			return zap.NewNop().Sugar()
		}
	}

	if o.Mode == "file" {
		return zap.New(fileCore(o, level), zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	}
	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	config.Level = zap.NewAtomicLevelAt(level)
	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// fileCore writes JSON lines to <Path>/<Name>.log, defaulting to ./logs and
// the executable name.
func fileCore(o *Options, level zapcore.Level) zapcore.Core {
	dir, name := o.Path, o.Name
	if dir == "" {
		dir = "./logs"
	}
	if name == "" {
		path, _ := os.Executable()
		_, name = filepath.Split(path)
	}
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, name+".log"),
		MaxSize:    100,
		MaxBackups: 10,
		LocalTime:  true,
		Compress:   true,
	})
	encoder := zap.NewProductionEncoderConfig()
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoder), sink, zap.NewAtomicLevelAt(level))
}

// Init builds a logger from o and installs it as the package logger.
func Init(o *Options) Logger {
	l := NewLogger(o)
	SetLogger(l)
	return l
}

// SetLogger replaces the logger behind the package-level functions. The
// transport logs through these, so tests can swap in an observer here.
func SetLogger(logger Logger) {
	logging = logger
}

func Sync() error {
	return logging.Sync()
}

func Debug(args ...interface{}) {
	logging.Debug(args...)
}
func Debugf(msg string, args ...interface{}) {
	logging.Debugf(msg, args...)
}
func Debugw(msg string, keysAndValues ...interface{}) {
	logging.Debugw(msg, keysAndValues...)
}

func Info(args ...interface{}) {
	logging.Info(args...)
}
func Infof(msg string, args ...interface{}) {
	logging.Infof(msg, args...)
}
func Infow(msg string, keysAndValues ...interface{}) {
	logging.Infow(msg, keysAndValues...)
}

func Warn(args ...interface{}) {
	logging.Warn(args...)
}
func Warnf(msg string, args ...interface{}) {
	logging.Warnf(msg, args...)
}
func Warnw(msg string, keysAndValues ...interface{}) {
	logging.Warnw(msg, keysAndValues...)
}

func Error(args ...interface{}) {
	logging.Error(args...)
}
func Errorf(msg string, args ...interface{}) {
	logging.Errorf(msg, args...)
}
func Errorw(msg string, keysAndValues ...interface{}) {
	logging.Errorw(msg, keysAndValues...)
}

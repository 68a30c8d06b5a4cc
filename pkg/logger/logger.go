package logger

import (
	"fmt"
	"io"

	glog "github.com/google/logger"
)

// Logger writes leveled, printf-style lines. Info and Warn go to stdout, Error to stderr.
type Logger struct {
	info  *glog.Logger
	error *glog.Logger
	warn  *glog.Logger
}

func New() *Logger {
	// verbose mirrors every level to the console; nothing is kept on disk.
	base := glog.Init("lotto-settlement", true, false, io.Discard)
	return &Logger{
		info:  base,
		error: base,
		warn:  base,
	}
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.info.InfoDepth(1, fmt.Sprintf(format, v...))
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.error.ErrorDepth(1, fmt.Sprintf(format, v...))
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.warn.WarningDepth(1, fmt.Sprintf(format, v...))
}

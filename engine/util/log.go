package util

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

type LogLevel int32

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

type LogCategory int32

const (
	LogStream LogCategory = 1 << iota
	LogMesh
	LogIO
	LogSystem

	LogAll = LogStream | LogMesh | LogIO | LogSystem
)

var (
	globalLogLevel      atomic.Int32
	globalLogCategories atomic.Int32
	logger              = stdlog.New(os.Stderr, "", stdlog.Ltime|stdlog.Lmicroseconds)
)

func init() {
	globalLogLevel.Store(int32(LogLevelInfo))
	globalLogCategories.Store(int32(LogAll))
}

func SetLogLevel(lvl LogLevel) {
	globalLogLevel.Store(int32(lvl))
}

func SetLogCategories(cat LogCategory) {
	globalLogCategories.Store(int32(cat))
}

// ParseLogCategories combines category names into a mask. No names selects every category.
func ParseLogCategories(names []string) (LogCategory, error) {
	if len(names) == 0 {
		return LogAll, nil
	}
	var mask LogCategory
	for _, name := range names {
		switch strings.ToLower(name) {
		case "stream":
			mask |= LogStream
		case "mesh":
			mask |= LogMesh
		case "io":
			mask |= LogIO
		case "system":
			mask |= LogSystem
		case "all":
			mask |= LogAll
		default:
			return 0, errors.Errorf("unknown log category %q", name)
		}
	}
	return mask, nil
}

func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToLower(name) {
	case "error":
		return LogLevelError, nil
	case "warning", "warn":
		return LogLevelWarning, nil
	case "info", "":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return 0, errors.Errorf("unknown log level %q", name)
}

func log(cat LogCategory, lvl LogLevel, txt string) {
	if int32(lvl) > globalLogLevel.Load() {
		return
	}
	if globalLogCategories.Load()&int32(cat) == 0 {
		return
	}
	logger.Println(txt)
}

func LogStreamInfo(txt string) {
	log(LogStream, LogLevelInfo, txt)
}

func LogStreamDebug(txt string) {
	log(LogStream, LogLevelDebug, txt)
}

func LogMeshDebug(txt string) {
	log(LogMesh, LogLevelDebug, txt)
}

func LogIOInfo(txt string) {
	log(LogIO, LogLevelInfo, txt)
}

func LogIOError(txt string) {
	log(LogIO, LogLevelError, txt)
}

func LogSystemInfo(txt string) {
	log(LogSystem, LogLevelInfo, txt)
}

func LogSystemError(txt string) {
	log(LogSystem, LogLevelError, txt)
}

// Logf is a convenience for the "[Tag] message" format used across the engine.
func Logf(tag, format string, args ...any) string {
	return fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...))
}

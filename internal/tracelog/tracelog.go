// Package tracelog wraps github.com/op/go-logging with the two loggers
// this engine needs: a general-purpose log and a search trace log kept
// separate so that per-iteration search noise can be silenced without
// touching anything else.
package tracelog

import (
	"io"
	"log"
	"os"

	"github.com/op/go-logging"
)

var (
	standardLog *logging.Logger
	searchLog   *logging.Logger

	format = logging.MustStringFormatter(
		`%{time:15:04:05.000} %{shortpkg:-10.10s}:%{shortfile:-14.14s} %{level:-7.7s}:  %{message}`,
	)
)

func init() {
	standardLog = logging.MustGetLogger("revolver")
	searchLog = logging.MustGetLogger("search")
	standardLog.SetBackend(consoleBackend(logging.INFO))
	searchLog.SetBackend(consoleBackend(logging.INFO))
}

func consoleBackend(level logging.Level) logging.LeveledBackend {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	return leveled
}

// Log returns the general-purpose logger.
func Log() *logging.Logger {
	return standardLog
}

// SearchLog returns the search trace logger, used for per-iteration
// diagnostics that would otherwise drown out everything else at DEBUG.
func SearchLog() *logging.Logger {
	return searchLog
}

// SetLevel adjusts the general-purpose logger's level (ERROR..DEBUG).
func SetLevel(level logging.Level) {
	standardLog.SetBackend(consoleBackend(level))
}

// SetSearchLevel adjusts the search trace logger's level independently.
func SetSearchLevel(level logging.Level) {
	searchLog.SetBackend(consoleBackend(level))
}

// AddSearchFileOutput tees the search trace log to w in addition to the
// console, for post-mortem analysis of a long training or tuning run.
func AddSearchFileOutput(w io.Writer, level logging.Level) {
	console := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	consoleFormatted := logging.NewBackendFormatter(console, format)
	consoleLeveled := logging.AddModuleLevel(consoleFormatted)
	consoleLeveled.SetLevel(level, "")

	file := logging.NewLogBackend(w, "", log.Lmsgprefix)
	fileFormatted := logging.NewBackendFormatter(file, format)
	fileLeveled := logging.AddModuleLevel(fileFormatted)
	fileLeveled.SetLevel(level, "")

	searchLog.SetBackend(logging.MultiLogger(consoleLeveled, fileLeveled))
}

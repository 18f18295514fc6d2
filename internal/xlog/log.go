// Package xlog is a thin structured-logging facade shared by the magic-table
// builder and the search package, so neither has to depend on a concrete
// logging backend directly. It wraps github.com/op/go-logging the way
// frankkopp/FrankyGo gives each internal package its own named logger.
package xlog

import (
	"os"

	logging "github.com/op/go-logging"
)

var backendOnce = func() logging.LeveledBackend {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{module}: %{message}`,
	)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	return leveled
}()

// Get returns the logger for a named module (e.g. "chesscore/magic",
// "chesscore/engine/mcts"). Loggers are Info level by default; callers that
// want trace output can call SetLevel.
func Get(module string) *logging.Logger {
	logger := logging.MustGetLogger(module)
	logger.SetBackend(backendOnce)
	return logger
}

// SetLevel adjusts the verbosity for a given module ("" applies to all
// modules using the default backend).
func SetLevel(level logging.Level, module string) {
	backendOnce.SetLevel(level, module)
}

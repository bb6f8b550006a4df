package main

import (
	"os"

	"github.com/btcsuite/btclog"

	"github.com/suffix-labs/stabila-sign/pkg/api"
	"github.com/suffix-labs/stabila-sign/pkg/roles"
	"github.com/suffix-labs/stabila-sign/pkg/zen"
)

// backendLog is the logging backend used to create all subsystem loggers.
// Output goes to stderr so that command results on stdout stay parseable.
var backendLog = btclog.NewBackend(os.Stderr)

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{}

func init() {
	addSubLogger(roles.Subsystem, roles.UseLogger)
	addSubLogger(zen.Subsystem, zen.UseLogger)
	addSubLogger(api.Subsystem, api.UseLogger)
}

// addSubLogger creates a logger for subsystem and hands it to the package.
func addSubLogger(subsystem string, useLogger func(btclog.Logger)) {
	logger := backendLog.Logger(subsystem)
	subsystemLoggers[subsystem] = logger
	useLogger(logger)
}

// setLogLevels sets the log level of every subsystem logger.
func setLogLevels(level btclog.Level) {
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}

// Package applog wires up the structured logger every component
// below the CLI accepts.
package applog

import "go.uber.org/zap"

// New builds a console-encoded zap logger suitable for CLI output.
func New() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		// zap.NewDevelopment only fails on a broken encoder config,
		// which never happens for the stock development preset.
		panic(err)
	}
	return logger
}

// Package logger provides structured logging for adminkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers that tag every event with the component name.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("mutation")
//	log.Debug("dispatching", logger.Fields(logger.FieldVerb, "POST", logger.FieldPath, "/api/projects"))
package logger

// Package logger provides structured logging for scribe using zerolog.
//
// It supports JSON and console output, level configuration, rotating file
// output through lumberjack, and component-scoped loggers. WithContext adds
// the active trace and span plus the request and recording being handled.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "file"
//	  file: "/var/log/scribe/scribe.log"
//
// # Usage
//
//	log := logger.NewDefault("scribe").WithComponent("driver").WithContext(ctx)
//	log.Info("attempt finished", logger.Fields("attempt", 2, "quality_score", 0.84))
package logger

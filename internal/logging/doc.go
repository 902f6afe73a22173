// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output on stderr
//   - Development: coloured console output, debug level
//
// The API client logs only at debug level and receives a no-op logger unless
// the caller supplies one. The package also adapts zap to the logger
// interfaces expected by go-resty and go-retryablehttp:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Development: true})
//	restyClient.SetLogger(logger.Resty())
//	retryClient.Logger = logger.Leveled()
package logging

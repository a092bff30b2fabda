package fiberlog

import "github.com/sirupsen/logrus"

// Config selects the logger instance and the request fields to emit.
// A nil Logger falls back to the logrus standard logger.
type Config struct {
	Logger *logrus.Logger
	Tags   []string
}

// ConfigDefault emits the fields the portal dashboards and the base
// controller rely on, request id included so log lines correlate with
// API error responses.
var ConfigDefault Config = Config{
	Logger: nil,
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		RequestID,
	},
}

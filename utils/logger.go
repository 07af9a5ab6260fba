package utils

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger builds the service logger. format is text, json or logfmt;
// unknown levels fall back to info.
func NewLogger(w io.Writer, level, format string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}

	formatter := log.TextFormatter
	switch strings.ToLower(format) {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: true,
		Prefix:          "todoshare",
	})
}

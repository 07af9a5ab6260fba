package services

import (
	"io"

	"github.com/charmbracelet/log"
)

func loggerOrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}

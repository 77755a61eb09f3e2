package service

import (
	"github.com/rs/zerolog/log"
)

// Notifier is the user-facing notification surface
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notifications to the application log
type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	log.Info().Str("notification", "success").Msg(message)
}

func (LogNotifier) Error(message string) {
	log.Warn().Str("notification", "error").Msg(message)
}

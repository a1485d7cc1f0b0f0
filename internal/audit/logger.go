package audit

import (
	"time"

	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventLoginSuccess   EventType = "login_success"
	EventLoginFailure   EventType = "login_failure"
	EventLogout         EventType = "logout"
	EventSessionExpired EventType = "session_expired"
	EventSessionRestore EventType = "session_restore"
	EventBookingUpdate  EventType = "booking_status_update"
	EventBookingDelete  EventType = "booking_delete"
)

type Event struct {
	Type     EventType
	Username string
	Details  map[string]any
}

// Log emits a structured audit record for security-relevant admin actions.
// Logging failures never mask the action being audited.
func Log(event Event) {
	logger := log.With().
		Str("audit", "admin").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.Username != "" {
		logger = logger.With().Str("username", event.Username).Logger()
	}

	logEvent := logger.Info()
	if len(event.Details) > 0 {
		logEvent = logEvent.Fields(event.Details)
	}
	logEvent.Msg("audit event")
}

package telemetry

import "time"

// TurnRecord is one transcript event bound for the external sink.
// Field names are the sink's contract; do not rename.
type TurnRecord struct {
	TimestampUTC string `json:"timestamp_utc"`
	SessionID    string `json:"session_id"`
	Role         string `json:"role"`
	Message      string `json:"message"`
}

func NewTurnRecord(sessionID, role, message string) TurnRecord {
	return TurnRecord{
		TimestampUTC: time.Now().UTC().Format("2006-01-02T15:04:05.000000"),
		SessionID:    sessionID,
		Role:         role,
		Message:      message,
	}
}

package models

import "time"

// Envelope is the standard wrapper around every API response body.
type Envelope struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// NewEnvelope builds a success envelope around the given payload
func NewEnvelope(statusCode int, message string, data interface{}) Envelope {
	return Envelope{
		Success:    statusCode < 400,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	}
}

// NewErrorEnvelope builds an error envelope with no payload. Only the
// generic message and the status cross the API boundary; internal error
// detail never does.
func NewErrorEnvelope(statusCode int, message string) Envelope {
	return Envelope{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Timestamp:  time.Now().UTC(),
	}
}

// RateLimitInfo is attached to rate-limited responses so clients can back
// off with real numbers instead of guessing.
type RateLimitInfo struct {
	Limit      int   `json:"limit"`
	Remaining  int   `json:"remaining"`
	ResetAt    int64 `json:"reset_at"`
	RetryAfter int   `json:"retry_after"`
}

// DeviceCheckResult is returned from device registration/validation
type DeviceCheckResult struct {
	Status           string        `json:"status"`
	ChangesRemaining *int          `json:"changes_remaining,omitempty"`
	Warning          *string       `json:"warning,omitempty"`
	Device           *DeviceRecord `json:"device,omitempty"`
}

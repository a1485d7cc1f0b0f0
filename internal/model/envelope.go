package model

import "encoding/json"

// Envelope is the {success, message, data} wrapper the booking API returns
// on most endpoints. Data stays raw until the caller knows its shape.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

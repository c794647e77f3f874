package domain

import (
	"encoding/json"
	"time"
)

// Webhook is one received webhook request, exactly as it arrived: the JSON
// body plus the headers and query parameters observed on the inbound request.
// The ID is assigned by the store at creation and never changes.
type Webhook struct {
	ID          int64             `json:"id"`
	Body        json.RawMessage   `json:"body"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	ReceivedAt  time.Time         `json:"received_at"`
}

package dto

import "time"

// DateLayout is the wire format of calendar dates in requests and responses.
const DateLayout = "2006-01-02"

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error       string `json:"error"`
	Diagnostics any    `json:"diagnostics,omitempty"`
}

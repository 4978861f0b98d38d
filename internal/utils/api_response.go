package utils

import "time"

// Every response body is one of two envelopes. Success carries data, failure
// carries a stable code and a client-safe message, and both carry meta so a
// failed call can be matched to its log lines by request id.

type SuccessResponse struct {
	Success bool  `json:"success"`
	Data    any   `json:"data"`
	Meta    *Meta `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
	Meta    *Meta    `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

func newMeta(requestID string) *Meta {
	return &Meta{Timestamp: time.Now().UTC(), RequestID: requestID}
}

func NewErrorResponse(code, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: APIError{Code: code, Message: message},
		Meta:  newMeta(requestID),
	}
}

func NewSuccessResponse(data any, requestID string) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    newMeta(requestID),
	}
}

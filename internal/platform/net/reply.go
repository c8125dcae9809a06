package net

import (
	"net/http"

	perr "spillway/internal/platform/errors"

	"github.com/google/uuid"
)

// Wire is a common envelope used by transports
type Wire struct {
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Code       string `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	ErrorID    string `json:"error_id,omitempty"`
	Data       any    `json:"data,omitempty"`
}

// OK builds a 200 envelope
func OK(data any, reqID string) (int, Wire) {
	return http.StatusOK, Wire{
		StatusCode: http.StatusOK,
		Status:     "success",
		RequestID:  reqID,
		Data:       data,
	}
}

// Created builds a 201 envelope
func Created(data any, reqID string) (int, Wire) {
	return http.StatusCreated, Wire{
		StatusCode: http.StatusCreated,
		Status:     "success",
		RequestID:  reqID,
		Data:       data,
	}
}

// NoContent builds a 204 envelope
func NoContent(reqID string) (int, Wire) {
	return http.StatusNoContent, Wire{
		StatusCode: http.StatusNoContent,
		Status:     "success",
		RequestID:  reqID,
	}
}

// Error builds an error envelope. Server faults additionally carry a fresh
// error_id so a support report can be matched to the exact log line
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	out := Wire{
		StatusCode: status,
		Status:     "error",
		Code:       w.Code,
		Error:      w.Message,
		RequestID:  reqID,
	}
	if status >= http.StatusInternalServerError {
		out.ErrorID = uuid.NewString()
	}
	return status, out
}

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/goccy/go-json"
)

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Data     any      `json:"data"`
	Error    *Error   `json:"error,omitempty"`
	Metadata Metadata `json:"metadata"`
	Status   string   `json:"status"`
}

// Metadata carries timing information for a response.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeUS int64     `json:"query_time_us,omitempty"`
}

// Error describes a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeUnknownProduct   = "UNKNOWN_PRODUCT"
	CodeInternal         = "INTERNAL_ERROR"
)

func respondJSON(w http.ResponseWriter, status int, response *Response) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func respondData(w http.ResponseWriter, data any, start time.Time) {
	respondJSON(w, http.StatusOK, &Response{
		Status: "success",
		Data:   data,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			QueryTimeUS: time.Since(start).Microseconds(),
		},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil && status >= http.StatusInternalServerError {
		common.LogError(err, "API error", common.Fields{"code": code, "status": status})
	} else if err != nil {
		slog.Debug("API request rejected", "code", code, "error", err)
	}

	respondJSON(w, status, &Response{
		Status:   "error",
		Metadata: Metadata{Timestamp: time.Now()},
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

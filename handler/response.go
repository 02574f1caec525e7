package handler

import (
	"encoding/json"
	"net/http"

	"go-away-stress/model"

	"github.com/rs/zerolog/log"
)

// SendJSONError sends a JSON error response
func SendJSONError(w http.ResponseWriter, statusCode int, err error, message string) {
	response := model.ErrorResponse{
		Error:   err.Error(),
		Message: message,
	}
	SendJSON(w, statusCode, response)
}

// SendJSON encodes data as the response body
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// sendResult replies to an append either as a JSON body or, for callers
// waiting on a nested context, as a page that posts the result to its parent.
func (h *CollectorHandler) sendResult(w http.ResponseWriter, statusCode int, result model.SubmitResult, asMessage bool) {
	if !asMessage {
		SendJSON(w, statusCode, result)
		return
	}

	data := struct {
		Result       model.SubmitResult
		TargetOrigin string
	}{
		Result:       result,
		TargetOrigin: h.parentTargetOrigin(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := h.templates.ExecuteTemplate(w, "result.html", data); err != nil {
		log.Error().Err(err).Msg("Failed to execute result template")
	}
}

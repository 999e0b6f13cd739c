package utils

import (
	"encoding/json"
	"net/http"

	"github.com/aneeshsrinivas/academy-api/internal/apperr"
	"github.com/aneeshsrinivas/academy-api/internal/models"
)

// WriteJSONResponse writes the standard APIResponse envelope.
func WriteJSONResponse(w http.ResponseWriter, status int, success bool, message string, data interface{}, errDetail interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Success: success,
		Message: message,
		Data:    data,
		Error:   errDetail,
	})
}

// WriteError maps a domain error onto the envelope. Store errors keep their
// underlying message in the error detail for diagnostics.
func WriteError(w http.ResponseWriter, err error) {
	e := apperr.FromError(err)
	var detail interface{}
	if e.Err != nil {
		detail = e.Err.Error()
	}
	WriteJSONResponse(w, e.Status, false, e.Message, nil, detail)
}

package v1

import (
	"encoding/json"
	"net/http"

	"github.com/aneeshsrinivas/academy-api/internal/auth"
	"github.com/aneeshsrinivas/academy-api/internal/service"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
)

type BroadcastHandler struct {
	broadcasts *service.BroadcastService
}

func NewBroadcastHandler(broadcasts *service.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{broadcasts: broadcasts}
}

// POST /admin/broadcasts
func (h *BroadcastHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request", nil, err.Error())
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	createdBy := ""
	if current != nil {
		createdBy = current.ID
	}
	b, err := h.broadcasts.Publish(r.Context(), payload.Title, payload.Body, createdBy)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, true, "broadcast published", b, nil)
}

// GET /broadcasts
func (h *BroadcastHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.broadcasts.List(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "success", res, nil)
}

// POST /contact — public contact form
func (h *BroadcastHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "Invalid request body", nil, err.Error())
		return
	}
	c, err := h.broadcasts.SubmitContact(r.Context(), in)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, true, "message received", c, nil)
}

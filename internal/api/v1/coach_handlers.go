package v1

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aneeshsrinivas/academy-api/internal/auth"
	"github.com/aneeshsrinivas/academy-api/internal/service"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
)

type CoachHandler struct {
	coaches *service.CoachService
}

func NewCoachHandler(coaches *service.CoachService) *CoachHandler {
	return &CoachHandler{coaches: coaches}
}

// POST /coaches/apply — public application form
func (h *CoachHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var in service.CoachApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "Invalid request body", nil, err.Error())
		return
	}
	a, err := h.coaches.Apply(r.Context(), in)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, true, "application received", a, nil)
}

// GET /admin/coach-applications
func (h *CoachHandler) PendingApplications(w http.ResponseWriter, r *http.Request) {
	res, err := h.coaches.PendingApplications(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "success", res, nil)
}

// POST /admin/coach-applications/{id}/approve
func (h *CoachHandler) Approve(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	approvedBy := ""
	if current != nil {
		approvedBy = current.ID
	}
	coach, err := h.coaches.Approve(r.Context(), chi.URLParam(r, "id"), approvedBy)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "coach approved", coach, nil)
}

// GET /admin/coaches
func (h *CoachHandler) Roster(w http.ResponseWriter, r *http.Request) {
	res, err := h.coaches.Roster(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "success", res, nil)
}

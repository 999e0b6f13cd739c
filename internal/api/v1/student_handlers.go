package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aneeshsrinivas/academy-api/internal/store"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
)

type StudentHandler struct {
	store *store.Store
}

func NewStudentHandler(s *store.Store) *StudentHandler {
	return &StudentHandler{store: s}
}

// GET /admin/students
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.ListStudents(r.Context())
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "error fetching students", nil, err.Error())
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "success", res, nil)
}

// GET /admin/students/{id} — student plus their subscription
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := h.store.GetStudentByID(r.Context(), id)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusNotFound, false, "not found", nil, nil)
		return
	}
	sub, err := h.store.GetSubscriptionByStudentID(r.Context(), id)
	if err != nil {
		sub = nil
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "success", map[string]interface{}{
		"student":      st,
		"subscription": sub,
	}, nil)
}

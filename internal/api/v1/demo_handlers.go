package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aneeshsrinivas/academy-api/internal/auth"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"github.com/aneeshsrinivas/academy-api/internal/service"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
)

type DemoHandler struct {
	demos      *service.DemoService
	conversion *service.ConversionService
}

func NewDemoHandler(demos *service.DemoService, conversion *service.ConversionService) *DemoHandler {
	return &DemoHandler{demos: demos, conversion: conversion}
}

// POST /demos — public booking form
func (h *DemoHandler) BookDemo(w http.ResponseWriter, r *http.Request) {
	var in service.BookDemoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "Invalid request body", nil, err.Error())
		return
	}
	d, err := h.demos.BookDemo(r.Context(), in)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, true, "demo request received", d, nil)
}

// GET /admin/demos?status=
func (h *DemoHandler) ListDemos(w http.ResponseWriter, r *http.Request) {
	status := models.DemoStatus(r.URL.Query().Get("status"))
	res, err := h.demos.ListDemos(r.Context(), status)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "success", res, nil)
}

// GET /admin/demos/{id}
func (h *DemoHandler) GetDemo(w http.ResponseWriter, r *http.Request) {
	d, err := h.demos.GetDemo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "success", d, nil)
}

// DELETE /admin/demos/{id}
func (h *DemoHandler) DeleteDemo(w http.ResponseWriter, r *http.Request) {
	if err := h.demos.DeleteDemo(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "demo deleted", nil, nil)
}

// POST /admin/demos/{id}/assign
func (h *DemoHandler) AssignCoach(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CoachID        string    `json:"coach_id"`
		MeetingLink    string    `json:"meeting_link"`
		ScheduledStart time.Time `json:"scheduled_start"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request", nil, err.Error())
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	assignedBy := ""
	if current != nil {
		assignedBy = current.ID
	}
	err := h.demos.AssignCoach(r.Context(), chi.URLParam(r, "id"), payload.CoachID, assignedBy, payload.MeetingLink, payload.ScheduledStart)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "coach assigned", nil, nil)
}

// POST /admin/demos/{id}/outcome
func (h *DemoHandler) SubmitOutcome(w http.ResponseWriter, r *http.Request) {
	var form service.OutcomeForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request", nil, err.Error())
		return
	}
	if err := h.demos.SubmitOutcome(r.Context(), chi.URLParam(r, "id"), form); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "outcome recorded", nil, nil)
}

// POST /admin/demos/{id}/outcome/preview — completion meter for the form UI
func (h *DemoHandler) PreviewOutcome(w http.ResponseWriter, r *http.Request) {
	var form service.OutcomeForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request", nil, err.Error())
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "success", map[string]interface{}{
		"completion": service.OutcomeCompletion(form),
	}, nil)
}

// POST /demos/{id}/payment-proof
func (h *DemoHandler) SubmitPaymentProof(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Plan    map[string]interface{} `json:"plan"`
		Payment map[string]interface{} `json:"payment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request", nil, err.Error())
		return
	}
	if err := h.conversion.SubmitPaymentProof(r.Context(), chi.URLParam(r, "id"), payload.Plan, payload.Payment); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "payment submitted for verification", nil, nil)
}

// POST /admin/demos/{id}/approve-payment
func (h *DemoHandler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	student, err := h.conversion.ApprovePayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "demo converted", student, nil)
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/busops/transit-backend-go/internal/domain/advance"
	"github.com/busops/transit-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AdvanceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type advanceHandlerImpl struct {
	advanceService advance.AdvanceService
}

func NewAdvanceHandler(advanceService advance.AdvanceService) AdvanceHandler {
	return &advanceHandlerImpl{advanceService: advanceService}
}

func (h *advanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req advance.CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.advanceService.CreateAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary advance created", result)
}

// List filters by ?staff_id= when present.
func (h *advanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.advanceService.ListAdvances(r.Context(), r.URL.Query().Get("staff_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.advanceService.GetAdvance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req advance.UpdateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.advanceService.UpdateAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.advanceService.DeleteAdvance(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary advance deleted", nil)
}

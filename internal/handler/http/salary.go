package http

import (
	"encoding/json"
	"net/http"

	"github.com/busops/transit-backend-go/internal/domain/salary"
	"github.com/busops/transit-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdatePrep(w http.ResponseWriter, r *http.Request)
	SendSlip(w http.ResponseWriter, r *http.Request)
	DownloadSlip(w http.ResponseWriter, r *http.Request)
	Deliveries(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

// List returns every staff member for ?month=, saved or Pending.
func (h *salaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.ListSalaries(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var req salary.SaveSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.salaryService.SaveSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary saved", result)
}

func (h *salaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.GetSalary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) UpdatePrep(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.GetUpdatePrep(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) SendSlip(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.SendSlip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary slip sent", result)
}

func (h *salaryHandlerImpl) DownloadSlip(w http.ResponseWriter, r *http.Request) {
	slip, err := h.salaryService.DownloadSlip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, "application/pdf", slip.Filename, slip.Content)
}

func (h *salaryHandlerImpl) Deliveries(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.ListDeliveries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.salaryService.DeleteSalary(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary deleted", nil)
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/busops/transit-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type StaffHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Attendance
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	MarkAttendance(w http.ResponseWriter, r *http.Request)
	AttendanceSummary(w http.ResponseWriter, r *http.Request)
}

type staffHandlerImpl struct {
	staffService staff.StaffService
}

func NewStaffHandler(staffService staff.StaffService) StaffHandler {
	return &staffHandlerImpl{staffService: staffService}
}

func (h *staffHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req staff.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.staffService.CreateStaff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Staff member created", result)
}

func (h *staffHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.staffService.GetStaff(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *staffHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.staffService.ListStaff(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *staffHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req staff.UpdateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.staffService.UpdateStaff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *staffHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.staffService.DeleteStaff(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Staff member deleted", nil)
}

func (h *staffHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	result, err := h.staffService.CheckIn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in", result)
}

func (h *staffHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	result, err := h.staffService.CheckOut(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out", result)
}

func (h *staffHandlerImpl) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req staff.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.StaffID = chi.URLParam(r, "id")

	result, err := h.staffService.MarkAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded", result)
}

func (h *staffHandlerImpl) AttendanceSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.staffService.AttendanceSummary(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

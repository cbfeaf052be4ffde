package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/busops/transit-backend-go/internal/domain/booking"
	"github.com/busops/transit-backend-go/internal/handler/http/middleware"
	"github.com/busops/transit-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type BookingHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	BookedSeats(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	UploadReceipt(w http.ResponseWriter, r *http.Request)

	// Admin
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ConfirmPayment(w http.ResponseWriter, r *http.Request)
	UpdateRefund(w http.ResponseWriter, r *http.Request)
	ApproveTransfer(w http.ResponseWriter, r *http.Request)
	RejectTransfer(w http.ResponseWriter, r *http.Request)
	DownloadReceipt(w http.ResponseWriter, r *http.Request)
	AutoCancel(w http.ResponseWriter, r *http.Request)
}

type bookingHandlerImpl struct {
	bookingService booking.BookingService
	maxUploadSize  int64
}

func NewBookingHandler(bookingService booking.BookingService, maxUploadSize int64) BookingHandler {
	return &bookingHandlerImpl{bookingService: bookingService, maxUploadSize: maxUploadSize}
}

func bookingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid booking ID", nil)
		return 0, false
	}
	return id, true
}

func (h *bookingHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req booking.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if identity, ok := middleware.IdentityFromRequest(r); ok {
		req.UserID = &identity.UserID
	}

	result, err := h.bookingService.CreateBooking(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Booking created", result)
}

func (h *bookingHandlerImpl) BookedSeats(w http.ResponseWriter, r *http.Request) {
	req := booking.BookedSeatsRequest{
		Route:       r.URL.Query().Get("route"),
		JourneyDate: r.URL.Query().Get("date"),
	}

	result, err := h.bookingService.GetBookedSeats(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseBookingFilter(r *http.Request) booking.BookingFilter {
	var filter booking.BookingFilter
	query := r.URL.Query()

	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if routeID := query.Get("route_id"); routeID != "" {
		filter.RouteID = &routeID
	}
	if date := query.Get("journey_date"); date != "" {
		filter.JourneyDate = &date
	}
	if page := query.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if limit := query.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}
	return filter
}

func (h *bookingHandlerImpl) listWith(w http.ResponseWriter, r *http.Request, filter booking.BookingFilter) {
	result, err := h.bookingService.ListBookings(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Bookings, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

func (h *bookingHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromRequest(r)

	filter := parseBookingFilter(r)
	filter.UserID = &identity.UserID
	h.listWith(w, r, filter)
}

func (h *bookingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, parseBookingFilter(r))
}

func (h *bookingHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	result, err := h.bookingService.GetBooking(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// guest bookings stay readable by reference; account bookings only by their owner
	identity, _ := middleware.IdentityFromRequest(r)
	if result.UserID != nil && !identity.IsAdmin() && *result.UserID != identity.UserID {
		response.HandleError(w, booking.ErrForbidden)
		return
	}

	response.Success(w, result)
}

func (h *bookingHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	var req booking.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	identity, _ := middleware.IdentityFromRequest(r)
	req.ID = id
	req.RequesterID = identity.UserID
	req.IsAdmin = identity.IsAdmin()

	result, err := h.bookingService.CancelBooking(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Booking cancelled", result)
}

// UploadReceipt takes a multipart form: the transfer details as JSON in the
// "data" field and the receipt file in "receipt".
func (h *bookingHandlerImpl) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	// leave room for the form fields around the file
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	var req booking.UploadReceiptRequest
	if dataJSON := r.FormValue("data"); dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
			response.BadRequest(w, "Invalid JSON in data field", nil)
			return
		}
	}

	file, fileHeader, err := r.FormFile("receipt")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Receipt file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Failed to read receipt file", nil)
		return
	}
	defer file.Close()

	identity, _ := middleware.IdentityFromRequest(r)
	req.ID = id
	req.RequesterID = identity.UserID
	req.IsAdmin = identity.IsAdmin()
	req.Filename = fileHeader.Filename
	req.Size = fileHeader.Size

	result, err := h.bookingService.UploadTransferReceipt(r.Context(), req, file)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Receipt uploaded", result)
}

func (h *bookingHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	var req booking.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.bookingService.UpdateBooking(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *bookingHandlerImpl) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	result, err := h.bookingService.ConfirmPayment(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment confirmed", result)
}

func (h *bookingHandlerImpl) UpdateRefund(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	var req booking.UpdateRefundStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	identity, _ := middleware.IdentityFromRequest(r)
	req.ID = id
	req.Actor = identity.Email

	result, err := h.bookingService.UpdateRefundStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *bookingHandlerImpl) review(w http.ResponseWriter, r *http.Request, approve bool) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	var req booking.ReviewTransferRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}
	identity, _ := middleware.IdentityFromRequest(r)
	req.ID = id
	req.Actor = identity.Email

	var (
		result booking.BookingResponse
		err    error
	)
	if approve {
		result, err = h.bookingService.ApproveTransfer(r.Context(), req)
	} else {
		result, err = h.bookingService.RejectTransfer(r.Context(), req)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *bookingHandlerImpl) ApproveTransfer(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

func (h *bookingHandlerImpl) RejectTransfer(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

func (h *bookingHandlerImpl) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	rc, filename, err := h.bookingService.OpenTransferReceipt(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, h.maxUploadSize))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	response.File(w, contentType, filename, content)
}

func (h *bookingHandlerImpl) AutoCancel(w http.ResponseWriter, r *http.Request) {
	result, err := h.bookingService.RunAutoCancellationSweep(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/busops/transit-backend-go/internal/domain/route"
	"github.com/busops/transit-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RouteHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
}

type routeHandlerImpl struct {
	routeService route.RouteService
}

func NewRouteHandler(routeService route.RouteService) RouteHandler {
	return &routeHandlerImpl{routeService: routeService}
}

func (h *routeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.routeService.ListRoutes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get accepts a route id or a route number in the path.
func (h *routeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.routeService.GetRoute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *routeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req route.CreateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.routeService.CreateRoute(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Route created", result)
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/busops/transit-backend-go/internal/domain/budget"
	"github.com/busops/transit-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type BudgetHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListActive(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	VsActual(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Expenses
	CreateExpense(w http.ResponseWriter, r *http.Request)
	ListExpenses(w http.ResponseWriter, r *http.Request)
	DeleteExpense(w http.ResponseWriter, r *http.Request)
}

type budgetHandlerImpl struct {
	budgetService budget.BudgetService
}

func NewBudgetHandler(budgetService budget.BudgetService) BudgetHandler {
	return &budgetHandlerImpl{budgetService: budgetService}
}

func (h *budgetHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req budget.CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.budgetService.CreateBudget(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Budget created", result)
}

func (h *budgetHandlerImpl) ListActive(w http.ResponseWriter, r *http.Request) {
	result, err := h.budgetService.ListActive(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *budgetHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		response.BadRequest(w, "category is required", nil)
		return
	}

	result, err := h.budgetService.History(r.Context(), category)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *budgetHandlerImpl) VsActual(w http.ResponseWriter, r *http.Request) {
	result, err := h.budgetService.BudgetVsActual(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *budgetHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req budget.UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.budgetService.UpdateBudget(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Appended {
		response.Created(w, "Budget revision appended", result)
		return
	}
	response.Success(w, result)
}

func (h *budgetHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.budgetService.DeleteBudget(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Budget deleted", nil)
}

func (h *budgetHandlerImpl) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req budget.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.budgetService.CreateExpense(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Expense recorded", result)
}

func (h *budgetHandlerImpl) ListExpenses(w http.ResponseWriter, r *http.Request) {
	result, err := h.budgetService.ListExpenses(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *budgetHandlerImpl) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.budgetService.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense deleted", nil)
}

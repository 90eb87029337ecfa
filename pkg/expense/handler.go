package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type ExpenseDTO struct {
	Id       int     `json:"id"`
	UserId   int     `json:"userId"`
	TripId   string  `json:"tripId,omitempty"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Category string  `json:"category,omitempty"`
	SpentOn  string  `json:"spentOn"`
}

type ReportDTO struct {
	Expenses      []ExpenseDTO `json:"expenses"`
	Total         float64      `json:"total"`
	TotalCurrency string       `json:"totalCurrency"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrExpenseNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotMember), errors.Is(err, ErrNotRecorder):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.RecordExpense(r.Context(), Expense(dto))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ExpenseDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseId, err := strconv.Atoi(mux.Vars(r)["expenseId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteExpense(r.Context(), expenseId); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PersonalReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	report, err := h.service.PersonalReport(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeReport(w, report)
}

func (h *Handler) TripReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	report, err := h.service.TripReport(r.Context(), mux.Vars(r)["tripId"])
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeReport(w, report)
}

func writeReport(w http.ResponseWriter, report Report) {
	dto := ReportDTO{
		Expenses:      make([]ExpenseDTO, 0, len(report.Expenses)),
		Total:         report.Total,
		TotalCurrency: report.TotalCurrency,
	}
	for _, e := range report.Expenses {
		dto.Expenses = append(dto.Expenses, ExpenseDTO(e))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

package handler

import (
	"errors"
	"net/http"

	"psico-portal/internal/converter"
	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/domain/entity"
	"psico-portal/internal/usecase"
	"psico-portal/pkg/response"

	"github.com/gorilla/mux"
)

// PaymentHandler serves the psychologist's payment ledger
type PaymentHandler struct {
	registry *usecase.SessionRegistry
}

func NewPaymentHandler(registry *usecase.SessionRegistry) *PaymentHandler {
	return &PaymentHandler{registry: registry}
}

func (h *PaymentHandler) ledger(w http.ResponseWriter, r *http.Request) (*usecase.PaymentLedger, bool) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return nil, false
	}
	ws, ok := sessionWorkspace(w, r, h.registry)
	if !ok {
		return nil, false
	}

	var err error
	if r.URL.Query().Get("refresh") == "true" {
		err = ws.Payments.Load(r.Context(), profile.ID)
	} else {
		err = ws.Payments.EnsureLoaded(r.Context(), profile.ID)
	}
	if err != nil {
		if errors.Is(err, usecase.ErrLoadSuperseded) {
			response.Conflict(w, "Payments were reloaded by a newer request")
			return nil, false
		}
		upstreamError(w, err, "Failed to load payments")
		return nil, false
	}
	return ws.Payments, true
}

// GetPayments lists payments for a filter with counts and totals
// @Summary Payment ledger
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param filter query string false "all, pending, received or overdue"
// @Success 200 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	ledger, ok := h.ledger(w, r)
	if !ok {
		return
	}

	view, err := ledger.View(entity.PaymentFilter(r.URL.Query().Get("filter")))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidPaymentFilter) {
			response.BadRequest(w, "Invalid filter, use all, pending, received or overdue")
			return
		}
		response.InternalServerError(w, "Failed to get payments")
		return
	}

	response.Success(w, http.StatusOK, "Payments retrieved successfully", &dto.PaymentListResponse{
		Filter:   string(view.Filter),
		Payments: converter.PaymentsToResponses(view.Payments, view.Now),
		Counts: dto.PaymentCountsResponse{
			All:      view.Counts.All,
			Pending:  view.Counts.Pending,
			Received: view.Counts.Received,
			Overdue:  view.Counts.Overdue,
		},
		Totals: dto.PaymentTotalsResponse{
			Received:     view.Totals.Received,
			Pending:      view.Totals.Pending,
			Overdue:      view.Totals.Overdue,
			MonthRevenue: view.Totals.MonthRevenue,
		},
		Total: view.Total,
	})
}

func (h *PaymentHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ledger, ok := h.ledger(w, r)
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, "Financial summary retrieved successfully", ledger.Summary())
}

func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ledger, ok := h.ledger(w, r)
	if !ok {
		return
	}

	if err := ledger.Confirm(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, usecase.ErrPaymentNotFound):
			response.NotFound(w, "Payment not found")
		case errors.Is(err, usecase.ErrPaymentAlreadyPaid):
			response.Conflict(w, "Payment is already confirmed")
		case errors.Is(err, usecase.ErrPaymentConfirmInFlight):
			response.Conflict(w, "Payment confirmation already in progress")
		default:
			upstreamError(w, err, "Failed to confirm payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment confirmed successfully", nil)
}

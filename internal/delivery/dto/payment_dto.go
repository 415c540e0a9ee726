package dto

import (
	"time"

	"psico-portal/pkg/money"
)

// Response DTOs

type PaymentResponse struct {
	ID            string      `json:"id"`
	Amount        money.Money `json:"valor"`
	Date          time.Time   `json:"data"`
	DueDate       time.Time   `json:"dataVencimento"`
	Installment   int         `json:"parcela"`
	Status        string      `json:"status"`
	AppointmentID string      `json:"atendimentoId,omitempty"`
	PatientName   string      `json:"paciente"`
	Overdue       bool        `json:"vencido"`
	DueToday      bool        `json:"venceHoje"`
}

type PaymentCountsResponse struct {
	All      int `json:"all"`
	Pending  int `json:"pending"`
	Received int `json:"received"`
	Overdue  int `json:"overdue"`
}

type PaymentTotalsResponse struct {
	Received     money.Money `json:"received"`
	Pending      money.Money `json:"pending"`
	Overdue      money.Money `json:"overdue"`
	MonthRevenue money.Money `json:"monthRevenue"`
}

type PaymentListResponse struct {
	Filter   string                `json:"filter"`
	Payments []PaymentResponse     `json:"payments"`
	Counts   PaymentCountsResponse `json:"counts"`
	Totals   PaymentTotalsResponse `json:"totals"`
	Total    money.Money           `json:"total"`
}

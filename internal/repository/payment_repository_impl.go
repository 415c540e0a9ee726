package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"
)

type paymentRepository struct {
	client *APIClient
}

func NewPaymentRepository(client *APIClient) repository.PaymentRepository {
	return &paymentRepository{client: client}
}

func (r *paymentRepository) FindByPsychologist(ctx context.Context, psychologistID string) ([]entity.Payment, error) {
	var payments []entity.Payment
	path := "/financeiro/psicologo/" + url.PathEscape(psychologistID)
	if err := r.client.doJSON(ctx, http.MethodGet, "/financeiro/psicologo/{id}", path, nil, &payments); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, paymentID string, update *entity.PaymentStatusUpdate) error {
	path := "/financeiro/status/" + url.PathEscape(paymentID)
	if err := r.client.doJSON(ctx, http.MethodPatch, "/financeiro/status/{id}", path, update, nil); err != nil {
		return fmt.Errorf("update payment %s status: %w", paymentID, err)
	}
	return nil
}

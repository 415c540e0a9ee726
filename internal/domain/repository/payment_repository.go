package repository

import (
	"context"

	"psico-portal/internal/domain/entity"
)

type PaymentRepository interface {
	FindByPsychologist(ctx context.Context, psychologistID string) ([]entity.Payment, error)
	UpdateStatus(ctx context.Context, paymentID string, update *entity.PaymentStatusUpdate) error
}

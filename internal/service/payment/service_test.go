package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	"github.com/shopspring/decimal"
)

type stubPaymentRepo struct {
	payments []models.Payment
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	for i := range r.payments {
		if r.payments[i].ID == id {
			copied := r.payments[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *stubPaymentRepo) FindBySessionID(_ context.Context, sessionID uuid.UUID) (*models.Payment, error) {
	for i := range r.payments {
		if r.payments[i].SessionID == sessionID {
			copied := r.payments[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *stubPaymentRepo) List(_ context.Context, filters models.Filters) ([]models.Payment, models.Metadata, error) {
	return r.payments, models.CalculateMetadata(len(r.payments), filters.Page, filters.PageSize), nil
}

func (r *stubPaymentRepo) SumProcessedBetween(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.payments {
		if !p.ProcessedAt.Before(from) && p.ProcessedAt.Before(to) {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func TestGetBySessionReturnsNotFoundWithoutPayment(t *testing.T) {
	service := NewPaymentService(&stubPaymentRepo{}, logger.InitLogger("test", logger.LevelError))

	_, err := service.GetBySession(context.Background(), uuid.New())
	if !errors.Is(err, types.ErrPaymentNotFound) {
		t.Fatalf("err = %v, want ErrPaymentNotFound", err)
	}
}

func TestRevenueBetweenSumsHalfOpenInterval(t *testing.T) {
	day := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	repo := &stubPaymentRepo{payments: []models.Payment{
		{ID: uuid.New(), Amount: decimal.NewFromInt(4000), ProcessedAt: day.Add(10 * time.Hour)},
		{ID: uuid.New(), Amount: decimal.NewFromInt(1000), ProcessedAt: day.Add(23 * time.Hour)},
		{ID: uuid.New(), Amount: decimal.NewFromInt(9999), ProcessedAt: day.AddDate(0, 0, 1)},
	}}
	service := NewPaymentService(repo, logger.InitLogger("test", logger.LevelError))

	total, err := service.RevenueBetween(context.Background(), day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("RevenueBetween: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("total = %s, want 5000", total)
	}
}

func TestGetReturnsStoredPayment(t *testing.T) {
	id := uuid.New()
	repo := &stubPaymentRepo{payments: []models.Payment{
		{ID: id, SessionID: uuid.New(), Amount: decimal.NewFromInt(2000), Method: types.PaymentCard, Status: types.PaymentCompleted},
	}}
	service := NewPaymentService(repo, logger.InitLogger("test", logger.LevelError))

	got, err := service.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != id || !got.Amount.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected payment: %+v", got)
	}
}

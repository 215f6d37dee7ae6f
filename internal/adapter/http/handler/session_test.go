package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	"github.com/shopspring/decimal"
)

type stubSessionService struct {
	startErr     error
	started      *models.ParkingSession
	completeErr  error
	gotExitTime  time.Time
	gotMethod    types.PaymentMethod
	cancelReason string
}

func (s *stubSessionService) Start(ctx context.Context, plate, spotLabel string, operatorID uuid.UUID, notes *string) (*models.ParkingSession, error) {
	if s.startErr != nil {
		return nil, s.startErr
	}
	session := &models.ParkingSession{
		ID:            uuid.New(),
		SessionNumber: "PRK_20260831_001",
		Plate:         plate,
		SpotLabel:     spotLabel,
		Status:        types.SessionActive,
		HourlyRate:    decimal.NewFromInt(2000),
		EntryTime:     time.Now().UTC(),
		OperatorID:    operatorID,
	}
	s.started = session
	return session, nil
}

func (s *stubSessionService) Complete(ctx context.Context, sessionID uuid.UUID, exitTime time.Time, method types.PaymentMethod, operatorID uuid.UUID, notes *string) (*models.ParkingSession, error) {
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	s.gotExitTime = exitTime
	s.gotMethod = method
	total := decimal.NewFromInt(4000)
	return &models.ParkingSession{
		ID:          sessionID,
		Status:      types.SessionCompleted,
		ExitTime:    &exitTime,
		TotalAmount: &total,
	}, nil
}

func (s *stubSessionService) Cancel(ctx context.Context, sessionID uuid.UUID, reason string, operatorID uuid.UUID) (*models.ParkingSession, error) {
	s.cancelReason = reason
	return &models.ParkingSession{ID: sessionID, Status: types.SessionCancelled}, nil
}

func (s *stubSessionService) EstimateCost(ctx context.Context, sessionID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	return decimal.NewFromInt(2000), nil
}

func (s *stubSessionService) Get(ctx context.Context, sessionID uuid.UUID) (*models.ParkingSession, error) {
	return nil, types.ErrSessionNotFound
}

func (s *stubSessionService) List(ctx context.Context, filters models.Filters) ([]models.ParkingSession, models.Metadata, error) {
	return []models.ParkingSession{}, models.Metadata{}, nil
}

func (s *stubSessionService) ListActive(ctx context.Context) ([]models.ParkingSession, error) {
	return []models.ParkingSession{}, nil
}

func testOperator() *models.User {
	return &models.User{
		ID:     uuid.New(),
		Email:  "operator@lot.kz",
		Role:   types.RoleOperator,
		Status: types.UserActive,
	}
}

func requestWithUser(method, target, body string, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != nil {
		req = req.WithContext(models.WithUser(req.Context(), user))
	}
	return req
}

func newSessionHandler(svc *stubSessionService) *Session {
	return NewSession(svc, logger.InitLogger("test", logger.LevelError))
}

func TestSessionStart(t *testing.T) {
	svc := &stubSessionService{}
	h := newSessionHandler(svc)

	req := requestWithUser(http.MethodPost, "/sessions", `{"plate":"ABC-123","spot_label":"A-01"}`, testOperator())
	rec := httptest.NewRecorder()

	h.Start(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp struct {
		Session models.ParkingSession `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Session.Plate != "ABC-123" {
		t.Errorf("expected plate ABC-123, got %s", resp.Session.Plate)
	}
	if resp.Session.Status != types.SessionActive {
		t.Errorf("expected status ACTIVE, got %s", resp.Session.Status)
	}
}

func TestSessionStartAnonymous(t *testing.T) {
	h := newSessionHandler(&stubSessionService{})

	req := requestWithUser(http.MethodPost, "/sessions", `{"plate":"ABC-123"}`, models.AnonymousUser())
	rec := httptest.NewRecorder()

	h.Start(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestSessionStartValidation(t *testing.T) {
	h := newSessionHandler(&stubSessionService{})

	req := requestWithUser(http.MethodPost, "/sessions", `{"spot_label":"A-01"}`, testOperator())
	rec := httptest.NewRecorder()

	h.Start(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d: %s", http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	}
}

func TestSessionStartDuplicateActive(t *testing.T) {
	h := newSessionHandler(&stubSessionService{startErr: types.ErrDuplicateActiveSession})

	req := requestWithUser(http.MethodPost, "/sessions", `{"plate":"ABC-123","spot_label":"A-01"}`, testOperator())
	rec := httptest.NewRecorder()

	h.Start(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestSessionCompleteDefaultsExitTime(t *testing.T) {
	svc := &stubSessionService{}
	h := newSessionHandler(svc)

	req := requestWithUser(http.MethodPost, "/sessions/{id}/complete", `{"payment_method":"CASH"}`, testOperator())
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()

	before := time.Now().UTC()
	h.Complete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if svc.gotMethod != types.PaymentCash {
		t.Errorf("expected payment method CASH, got %s", svc.gotMethod)
	}
	if svc.gotExitTime.Before(before) {
		t.Errorf("expected exit time to default to now, got %s", svc.gotExitTime)
	}
}

func TestSessionCompleteInvalidMethod(t *testing.T) {
	h := newSessionHandler(&stubSessionService{})

	req := requestWithUser(http.MethodPost, "/sessions/{id}/complete", `{"payment_method":"BARTER"}`, testOperator())
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()

	h.Complete(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}
}

func TestSessionCompleteNotActive(t *testing.T) {
	h := newSessionHandler(&stubSessionService{completeErr: types.ErrSessionNotActive})

	req := requestWithUser(http.MethodPost, "/sessions/{id}/complete", `{"payment_method":"CARD"}`, testOperator())
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()

	h.Complete(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestSessionGetInvalidID(t *testing.T) {
	h := newSessionHandler(&stubSessionService{})

	req := requestWithUser(http.MethodGet, "/sessions/{id}", "", testOperator())
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

package session

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

// --- stubs ---

type stubTxManager struct{}

func (stubTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubVehicleSource struct {
	vehicles map[string]*models.Vehicle
}

func (s *stubVehicleSource) FindByPlate(_ context.Context, plate string) (*models.Vehicle, error) {
	return s.vehicles[plate], nil
}

type stubSessionRepo struct {
	sessions map[uuid.UUID]*models.ParkingSession
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[uuid.UUID]*models.ParkingSession)}
}

func (r *stubSessionRepo) Create(_ context.Context, s *models.ParkingSession) (*models.ParkingSession, error) {
	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	copied := *s
	r.sessions[s.ID] = &copied
	return s, nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*models.ParkingSession, error) {
	stored, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (r *stubSessionRepo) FindActiveByPlate(_ context.Context, plate string) (*models.ParkingSession, error) {
	for _, s := range r.sessions {
		if s.Plate == plate && s.Status == types.SessionActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *stubSessionRepo) List(_ context.Context, filters models.Filters) ([]models.ParkingSession, models.Metadata, error) {
	out := make([]models.ParkingSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, models.CalculateMetadata(len(out), filters.Page, filters.PageSize), nil
}

func (r *stubSessionRepo) ListActive(_ context.Context) ([]models.ParkingSession, error) {
	var out []models.ParkingSession
	for _, s := range r.sessions {
		if s.Status == types.SessionActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSessionRepo) CountByDate(_ context.Context, _ time.Time) (int, error) {
	return len(r.sessions), nil
}

func (r *stubSessionRepo) Complete(_ context.Context, s *models.ParkingSession) error {
	stored, ok := r.sessions[s.ID]
	if !ok {
		return types.ErrSessionNotFound
	}
	if stored.Status != types.SessionActive {
		return types.ErrSessionNotActive
	}
	copied := *s
	r.sessions[s.ID] = &copied
	return nil
}

func (r *stubSessionRepo) Cancel(_ context.Context, s *models.ParkingSession) error {
	return r.Complete(context.Background(), s)
}

type stubPaymentRepo struct {
	payments []*models.Payment
}

func (r *stubPaymentRepo) Create(_ context.Context, p *models.Payment) error {
	r.payments = append(r.payments, p)
	return nil
}

type stubEventPublisher struct {
	started   int
	completed int
	cancelled int
	last      models.SessionEventMessage
}

func (s *stubEventPublisher) PublishSessionStarted(_ context.Context, msg models.SessionEventMessage) error {
	s.started++
	s.last = msg
	return nil
}

func (s *stubEventPublisher) PublishSessionCompleted(_ context.Context, msg models.SessionEventMessage) error {
	s.completed++
	s.last = msg
	return nil
}

func (s *stubEventPublisher) PublishSessionCancelled(_ context.Context, msg models.SessionEventMessage) error {
	s.cancelled++
	s.last = msg
	return nil
}

type fixture struct {
	service  *SessionService
	repo     *stubSessionRepo
	payments *stubPaymentRepo
	events   *stubEventPublisher
	rates    RateTable
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newStubSessionRepo()
	payments := &stubPaymentRepo{}
	events := &stubEventPublisher{}
	rates := DefaultRateTable()
	vehicles := &stubVehicleSource{vehicles: map[string]*models.Vehicle{
		"ABC-123": {ID: uuid.New(), Plate: "ABC-123", Category: types.CategoryCompact, IsActive: true},
		"MOTO-77": {ID: uuid.New(), Plate: "MOTO-77", Category: types.CategoryMotorcycle, IsActive: true},
		"OLD-000": {ID: uuid.New(), Plate: "OLD-000", Category: types.CategoryHeavy, IsActive: false},
	}}

	log := logger.InitLogger("test", logger.LevelError)
	service := NewSessionService(repo, payments, vehicles, rates, stubTxManager{}, events, log)

	return &fixture{service: service, repo: repo, payments: payments, events: events, rates: rates}
}

// --- tests ---

func TestStartCreatesActiveSessionWithRateSnapshot(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Start(context.Background(), "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if created.Status != types.SessionActive {
		t.Fatalf("status = %s, want ACTIVE", created.Status)
	}
	if !created.HourlyRate.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("rate snapshot = %s, want 2000", created.HourlyRate)
	}
	if created.TotalAmount != nil || created.ExitTime != nil {
		t.Fatal("new session must have no total amount and no exit time")
	}
	if f.events.started != 1 {
		t.Fatalf("expected 1 started event, got %d", f.events.started)
	}
}

func TestStartRejectsDuplicateActiveSession(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.Start(context.Background(), "ABC-123", "A-01", uuid.New(), nil); err != nil {
		t.Fatalf("first Start: %v", err)
	}

	_, err := f.service.Start(context.Background(), "ABC-123", "A-02", uuid.New(), nil)
	if !errors.Is(err, types.ErrDuplicateActiveSession) {
		t.Fatalf("second Start err = %v, want ErrDuplicateActiveSession", err)
	}
}

func TestStartRejectsUnknownVehicle(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Start(context.Background(), "GHOST-1", "A-01", uuid.New(), nil)
	if !errors.Is(err, types.ErrVehicleNotFound) {
		t.Fatalf("err = %v, want ErrVehicleNotFound", err)
	}
}

func TestStartRejectsDeactivatedVehicle(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Start(context.Background(), "OLD-000", "A-01", uuid.New(), nil)
	if !errors.Is(err, types.ErrVehicleInactive) {
		t.Fatalf("err = %v, want ErrVehicleInactive", err)
	}
}

func TestStartAllowsNewSessionAfterCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.service.Complete(ctx, first.ID, time.Now().UTC(), types.PaymentCash, uuid.New(), nil); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if _, err := f.service.Start(ctx, "ABC-123", "A-02", uuid.New(), nil); err != nil {
		t.Fatalf("Start after completion: %v", err)
	}
}

func TestCompleteBillsNinetyMinutesAsTwoHours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	exit := created.EntryTime.Add(90 * time.Minute)
	completed, err := f.service.Complete(ctx, created.ID, exit, types.PaymentCard, uuid.New(), nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if completed.Status != types.SessionCompleted {
		t.Fatalf("status = %s, want COMPLETED", completed.Status)
	}
	if completed.TotalAmount == nil || !completed.TotalAmount.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("total = %v, want 4000", completed.TotalAmount)
	}
	if completed.ExitTime == nil || !completed.ExitTime.Equal(exit) {
		t.Fatalf("exit time = %v, want %v", completed.ExitTime, exit)
	}

	// The active view no longer includes the session; the full list still does.
	active, err := f.service.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active sessions, got %d", len(active))
	}
	all, _, err := f.service.List(ctx, models.Filters{Page: 1, PageSize: 20, Sort: "-entry_time", SortSafelist: []string{"-entry_time"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected the session to remain in the full list, got %d", len(all))
	}
}

func TestCompleteSynthesizesExactlyOnePayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "MOTO-77", "M-03", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	exit := created.EntryTime.Add(time.Minute)
	completed, err := f.service.Complete(ctx, created.ID, exit, types.PaymentDigitalWallet, uuid.New(), nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if len(f.payments.payments) != 1 {
		t.Fatalf("expected exactly 1 payment, got %d", len(f.payments.payments))
	}
	payment := f.payments.payments[0]
	if !payment.Amount.Equal(*completed.TotalAmount) {
		t.Fatalf("payment amount %s != total %s", payment.Amount, completed.TotalAmount)
	}
	if payment.Status != types.PaymentCompleted {
		t.Fatalf("payment status = %s, want COMPLETED", payment.Status)
	}
	if payment.SessionID != completed.ID {
		t.Fatal("payment must reference the completed session")
	}
	if payment.TransactionRef == "" {
		t.Fatal("payment must carry a generated transaction reference")
	}
	// One minute on the motorcycle tariff bills one full hour.
	if !payment.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("payment amount = %s, want 1000", payment.Amount)
	}
}

func TestCompleteTwiceFailsWithNotActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	exit := created.EntryTime.Add(time.Hour)
	if _, err := f.service.Complete(ctx, created.ID, exit, types.PaymentCash, uuid.New(), nil); err != nil {
		t.Fatalf("first Complete: %v", err)
	}

	_, err = f.service.Complete(ctx, created.ID, exit.Add(time.Hour), types.PaymentCash, uuid.New(), nil)
	if !errors.Is(err, types.ErrSessionNotActive) {
		t.Fatalf("second Complete err = %v, want ErrSessionNotActive", err)
	}
	if len(f.payments.payments) != 1 {
		t.Fatalf("double completion must not create a second payment, got %d", len(f.payments.payments))
	}
}

func TestCompleteRejectsExitBeforeEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	exit := created.EntryTime.Add(-2 * time.Hour)
	_, err = f.service.Complete(ctx, created.ID, exit, types.PaymentCash, uuid.New(), nil)
	if !errors.Is(err, types.ErrExitBeforeEntry) {
		t.Fatalf("Complete err = %v, want ErrExitBeforeEntry", err)
	}

	// The session must be untouched: still ACTIVE, no payment, no event.
	stored, err := f.service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Status != types.SessionActive {
		t.Fatalf("status = %s, want ACTIVE", stored.Status)
	}
	if len(f.payments.payments) != 0 {
		t.Fatalf("rejected completion must not create a payment, got %d", len(f.payments.payments))
	}
	if f.events.completed != 0 {
		t.Fatalf("rejected completion must not publish an event, got %d", f.events.completed)
	}
}

func TestCompleteAtEntryTimeBillsMinimumHour(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	completed, err := f.service.Complete(ctx, created.ID, created.EntryTime, types.PaymentCash, uuid.New(), nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.TotalAmount == nil || !completed.TotalAmount.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("total = %v, want the one hour minimum 2000", completed.TotalAmount)
	}
}

func TestCompleteUnknownSessionFailsWithNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Complete(context.Background(), uuid.New(), time.Now(), types.PaymentCash, uuid.New(), nil)
	if !errors.Is(err, types.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestTotalUsesRateSnapshotNotCurrentTariff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// A tariff change after creation must not affect the open session.
	f.rates[types.CategoryCompact] = decimal.NewFromInt(9999)

	exit := created.EntryTime.Add(90 * time.Minute)
	completed, err := f.service.Complete(ctx, created.ID, exit, types.PaymentCash, uuid.New(), nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if !completed.TotalAmount.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("total = %s, want 4000 from the rate snapshot", completed.TotalAmount)
	}
}

func TestCancelRecordsReasonAndSkipsPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	cancelled, err := f.service.Cancel(ctx, created.ID, "customer left", uuid.New())
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if cancelled.Status != types.SessionCancelled {
		t.Fatalf("status = %s, want CANCELLED", cancelled.Status)
	}
	if cancelled.Notes == nil || *cancelled.Notes != "customer left" {
		t.Fatalf("notes = %v, want the cancellation reason", cancelled.Notes)
	}
	if cancelled.ExitTime == nil {
		t.Fatal("cancellation must stamp the exit time")
	}
	if cancelled.TotalAmount != nil {
		t.Fatal("cancellation must not set a total amount")
	}
	if len(f.payments.payments) != 0 {
		t.Fatalf("cancellation must not create a payment, got %d", len(f.payments.payments))
	}
	if f.events.cancelled != 1 {
		t.Fatalf("expected 1 cancelled event, got %d", f.events.cancelled)
	}
}

func TestCancelUsesDefaultNoteWhenReasonEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	cancelled, err := f.service.Cancel(ctx, created.ID, "", uuid.New())
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Notes == nil || *cancelled.Notes != defaultCancellationNote {
		t.Fatalf("notes = %v, want the default cancellation note", cancelled.Notes)
	}
}

func TestCancelCompletedSessionFailsWithNotActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.service.Complete(ctx, created.ID, created.EntryTime.Add(time.Hour), types.PaymentCash, uuid.New(), nil); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	_, err = f.service.Cancel(ctx, created.ID, "too late", uuid.New())
	if !errors.Is(err, types.ErrSessionNotActive) {
		t.Fatalf("Cancel err = %v, want ErrSessionNotActive", err)
	}
}

func TestEstimateCostForCompletedSessionIsStable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	exit := created.EntryTime.Add(90 * time.Minute)
	if _, err := f.service.Complete(ctx, created.ID, exit, types.PaymentCash, uuid.New(), nil); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	// However far the clock advances, the stored total is returned unchanged.
	for _, at := range []time.Time{exit, exit.Add(time.Hour), exit.Add(240 * time.Hour)} {
		got, err := f.service.EstimateCost(ctx, created.ID, at)
		if err != nil {
			t.Fatalf("EstimateCost: %v", err)
		}
		if !got.Equal(decimal.NewFromInt(4000)) {
			t.Fatalf("EstimateCost at %v = %s, want stored total 4000", at, got)
		}
	}
}

func TestEstimateCostForActiveSessionGrowsMonotonically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	previous := decimal.Zero
	for _, offset := range []time.Duration{time.Second, 30 * time.Minute, time.Hour, time.Hour + time.Second, 5 * time.Hour} {
		got, err := f.service.EstimateCost(ctx, created.ID, created.EntryTime.Add(offset))
		if err != nil {
			t.Fatalf("EstimateCost: %v", err)
		}
		if got.LessThan(previous) {
			t.Fatalf("estimate decreased from %s to %s at offset %v", previous, got, offset)
		}
		previous = got
	}

	// One second in, the estimate already bills a full hour.
	first, err := f.service.EstimateCost(ctx, created.ID, created.EntryTime.Add(time.Second))
	if err != nil {
		t.Fatalf("EstimateCost: %v", err)
	}
	if !first.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("estimate after 1s = %s, want 2000", first)
	}
}

func TestEstimateCostForCancelledSessionIsZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Start(ctx, "ABC-123", "A-01", uuid.New(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.service.Cancel(ctx, created.ID, "customer left", uuid.New()); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	got, err := f.service.EstimateCost(ctx, created.ID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("EstimateCost: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("estimate for cancelled session = %s, want 0", got)
	}
}

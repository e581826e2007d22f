package service

import (
	"context"
	parkingerrors "parkdeck/internal/parking/errors"
	mongotx "parkdeck/pkg/db/mongo"
	"parkdeck/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockSpotRepository struct {
	findByIDFunc         func(ctx context.Context, id string) (*model.Spot, error)
	findByLotFunc        func(ctx context.Context, lotID string, status model.SpotStatus, limit int, offset int64) ([]*model.Spot, error)
	countByLotFunc       func(ctx context.Context, lotID string, status model.SpotStatus) (int64, error)
	transitionStatusFunc func(ctx context.Context, id string, from, to model.SpotStatus) error
	transitions          [][2]model.SpotStatus // captured (from, to) pairs
}

func (m *mockSpotRepository) Create(ctx context.Context, spot *model.Spot) error { return nil }

func (m *mockSpotRepository) FindByID(ctx context.Context, id string) (*model.Spot, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, parkingerrors.ErrNotFound
}

func (m *mockSpotRepository) FindByLot(ctx context.Context, lotID string, status model.SpotStatus, limit int, offset int64) ([]*model.Spot, error) {
	if m.findByLotFunc != nil {
		return m.findByLotFunc(ctx, lotID, status, limit, offset)
	}
	return []*model.Spot{}, nil
}

func (m *mockSpotRepository) CountByLot(ctx context.Context, lotID string, status model.SpotStatus) (int64, error) {
	if m.countByLotFunc != nil {
		return m.countByLotFunc(ctx, lotID, status)
	}
	return 0, nil
}

func (m *mockSpotRepository) TransitionStatus(ctx context.Context, id string, from, to model.SpotStatus) error {
	m.transitions = append(m.transitions, [2]model.SpotStatus{from, to})
	if m.transitionStatusFunc != nil {
		return m.transitionStatusFunc(ctx, id, from, to)
	}
	return nil
}

func (m *mockSpotRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockSessionRepository struct {
	createFunc         func(ctx context.Context, session *model.Session) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Session, error)
	findOpenBySpotFunc func(ctx context.Context, spotID string) (*model.Session, error)
	closeFunc          func(ctx context.Context, id string, checkOutTime time.Time, totalAmount float64) error
}

func (m *mockSessionRepository) Create(ctx context.Context, session *model.Session) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, session)
	}
	session.ID = "507f1f77bcf86cd799439099"
	session.Open = true
	return nil
}

func (m *mockSessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, parkingerrors.ErrNotFound
}

func (m *mockSessionRepository) FindOpenBySpot(ctx context.Context, spotID string) (*model.Session, error) {
	if m.findOpenBySpotFunc != nil {
		return m.findOpenBySpotFunc(ctx, spotID)
	}
	return nil, parkingerrors.ErrNotFound
}

func (m *mockSessionRepository) Close(ctx context.Context, id string, checkOutTime time.Time, totalAmount float64) error {
	if m.closeFunc != nil {
		return m.closeFunc(ctx, id, checkOutTime, totalAmount)
	}
	return nil
}

func (m *mockSessionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockLotRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Lot, error)
}

func (m *mockLotRepository) Create(ctx context.Context, lot *model.Lot) error { return nil }

func (m *mockLotRepository) FindByID(ctx context.Context, id string) (*model.Lot, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Lot{ID: id, Name: "Test Lot", HourlyRate: 10, DailyRate: 100}, nil
}

func (m *mockLotRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Lot, error) {
	return []*model.Lot{}, nil
}

func (m *mockLotRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

type mockPaymentRepository struct {
	createFunc func(ctx context.Context, payment *model.Payment) error
	created    []*model.Payment
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, payment)
	}
	payment.ID = "507f1f77bcf86cd799439077"
	m.created = append(m.created, payment)
	return nil
}

type mockSpotLockRepository struct {
	createFunc func(ctx context.Context, lock *model.SpotLock) (*model.SpotLock, error)
	released   []string
}

func (m *mockSpotLockRepository) Create(ctx context.Context, lock *model.SpotLock) (*model.SpotLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockSpotLockRepository) Delete(ctx context.Context, lockID string) error {
	m.released = append(m.released, lockID)
	return nil
}

type mockReservationRepository struct {
	createFunc           func(ctx context.Context, reservation *model.Reservation) error
	findByIDFunc         func(ctx context.Context, id string) (*model.Reservation, error)
	findActiveBySpotFunc func(ctx context.Context, spotID string) ([]*model.Reservation, error)
	findBySpotFunc       func(ctx context.Context, spotID string, limit int, offset int64) ([]*model.Reservation, error)
	countBySpotFunc      func(ctx context.Context, spotID string) (int64, error)
	updateStatusFunc     func(ctx context.Context, id string, from, to model.ReservationStatus) error
}

func (m *mockReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, reservation)
	}
	reservation.ID = "507f1f77bcf86cd799439055"
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, parkingerrors.ErrNotFound
}

func (m *mockReservationRepository) FindActiveBySpot(ctx context.Context, spotID string) ([]*model.Reservation, error) {
	if m.findActiveBySpotFunc != nil {
		return m.findActiveBySpotFunc(ctx, spotID)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) FindBySpot(ctx context.Context, spotID string, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findBySpotFunc != nil {
		return m.findBySpotFunc(ctx, spotID, limit, offset)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) CountBySpot(ctx context.Context, spotID string) (int64, error) {
	if m.countBySpotFunc != nil {
		return m.countBySpotFunc(ctx, spotID)
	}
	return 0, nil
}

func (m *mockReservationRepository) UpdateStatus(ctx context.Context, id string, from, to model.ReservationStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, from, to)
	}
	return nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

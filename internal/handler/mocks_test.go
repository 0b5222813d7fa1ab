package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/queue"
)

type mockGenreStore struct{ mock.Mock }

func (m *mockGenreStore) List(ctx context.Context) ([]model.Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Genre), args.Error(1)
}

func (m *mockGenreStore) Create(ctx context.Context, g *model.Genre) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

type mockActorStore struct{ mock.Mock }

func (m *mockActorStore) List(ctx context.Context) ([]model.Actor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Actor), args.Error(1)
}

func (m *mockActorStore) Create(ctx context.Context, a *model.Actor) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

type mockHallStore struct{ mock.Mock }

func (m *mockHallStore) List(ctx context.Context) ([]model.CinemaHall, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.CinemaHall), args.Error(1)
}

func (m *mockHallStore) GetByID(ctx context.Context, id uint64) (*model.CinemaHall, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(*model.CinemaHall)
	return h, args.Error(1)
}

func (m *mockHallStore) Create(ctx context.Context, h *model.CinemaHall) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) List(ctx context.Context, f model.MovieSessionFilter) ([]model.MovieSessionRow, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.MovieSessionRow), args.Error(1)
}

func (m *mockSessionStore) GetByID(ctx context.Context, id uint64) (*model.MovieSession, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.MovieSession)
	return s, args.Error(1)
}

func (m *mockSessionStore) TakenPlaces(ctx context.Context, id uint64) ([]model.Place, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]model.Place), args.Error(1)
}

func (m *mockSessionStore) Create(ctx context.Context, s *model.MovieSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSessionStore) Update(ctx context.Context, s *model.MovieSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSessionStore) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) Create(ctx context.Context, userID uint64, tickets []model.Ticket) (*model.Order, error) {
	args := m.Called(ctx, userID, tickets)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockOrderStore) GetForUser(ctx context.Context, id, userID uint64) (*model.Order, error) {
	args := m.Called(ctx, id, userID)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockOrderStore) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, email, password string, isStaff bool, cost int) (uint64, error) {
	args := m.Called(ctx, email, password, isStaff, cost)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

type mockTokenStore struct{ mock.Mock }

func (m *mockTokenStore) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	args := m.Called(ctx, userID, tokenHash, exp)
	return args.Error(0)
}

func (m *mockTokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *mockTokenStore) RevokeAllForUser(ctx context.Context, userID uint64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

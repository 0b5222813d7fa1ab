package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// OrderRepo persists orders and their tickets.
type OrderRepo struct {
	db *sqlx.DB
}

func NewOrderRepo(db *sqlx.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create inserts an order for userID together with tickets in a single
// transaction.  Every ticket must reference an existing session
// (ErrInvalidReference) and a place inside the session's hall
// (ErrPlaceOutOfRange).  A place that is already sold yields ErrPlaceTaken;
// the unique key on tickets makes this safe under concurrent orders.
func (r *OrderRepo) Create(ctx context.Context, userID uint64, tickets []model.Ticket) (order *model.Order, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	halls := map[uint64]model.CinemaHall{}
	for _, t := range tickets {
		h, ok := halls[t.MovieSessionID]
		if !ok {
			err = tx.GetContext(ctx, &h,
				"SELECT h.id, h.name, h.`rows`, h.seats_in_row FROM movie_sessions ms JOIN cinema_halls h ON h.id = ms.cinema_hall_id WHERE ms.id = ?",
				t.MovieSessionID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					err = fmt.Errorf("%w: movie session %d", ErrInvalidReference, t.MovieSessionID)
					return nil, err
				}
				return nil, fmt.Errorf("load hall for session %d: %w", t.MovieSessionID, err)
			}
			halls[t.MovieSessionID] = h
		}
		if !h.HasPlace(t.Row, t.Seat) {
			err = fmt.Errorf("%w: row %d seat %d (hall has %d rows of %d seats)",
				ErrPlaceOutOfRange, t.Row, t.Seat, h.Rows, h.SeatsInRow)
			return nil, err
		}
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO orders (user_id) VALUES (?)", userID)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	order = &model.Order{ID: uint64(id), UserID: userID}

	for _, t := range tickets {
		res, err = tx.ExecContext(ctx,
			"INSERT INTO tickets (movie_session_id, order_id, `row`, seat) VALUES (?, ?, ?, ?)",
			t.MovieSessionID, order.ID, t.Row, t.Seat)
		if err != nil {
			if isDuplicate(err) {
				err = fmt.Errorf("%w: row %d seat %d", ErrPlaceTaken, t.Row, t.Seat)
				return nil, err
			}
			return nil, fmt.Errorf("insert ticket: %w", err)
		}
		tid, _ := res.LastInsertId()
		t.ID = uint64(tid)
		t.OrderID = order.ID
		order.Tickets = append(order.Tickets, t)
	}

	if err = tx.GetContext(ctx, &order.CreatedAt, "SELECT created_at FROM orders WHERE id = ?", order.ID); err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// GetForUser fetches one of userID's orders with denormalized tickets.
// Orders of other users yield ErrNotFound.
func (r *OrderRepo) GetForUser(ctx context.Context, id, userID uint64) (*model.Order, error) {
	var o model.Order
	err := r.db.GetContext(ctx, &o,
		"SELECT id, user_id, created_at FROM orders WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	orders := []model.Order{o}
	if err := r.loadTickets(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListByUser returns one page of userID's orders, newest first, and the
// total number of orders the user has.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]model.Order, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders WHERE user_id = ?", userID); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	out := []model.Order{}
	err := r.db.SelectContext(ctx, &out,
		"SELECT id, user_id, created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	if err := r.loadTickets(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *OrderRepo) loadTickets(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uint64, len(orders))
	index := make(map[uint64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Tickets = []model.Ticket{}
	}
	q, args, err := sqlx.In("SELECT t.id, t.order_id, t.movie_session_id, t.`row`, t.seat,"+
		" ms.show_time, m.title AS movie_title, h.name AS hall_name"+
		" FROM tickets t"+
		" JOIN movie_sessions ms ON ms.id = t.movie_session_id"+
		" JOIN movies m ON m.id = ms.movie_id"+
		" JOIN cinema_halls h ON h.id = ms.cinema_hall_id"+
		" WHERE t.order_id IN (?) ORDER BY t.id", ids)
	if err != nil {
		return err
	}
	var tickets []model.Ticket
	if err := r.db.SelectContext(ctx, &tickets, r.db.Rebind(q), args...); err != nil {
		return fmt.Errorf("load tickets: %w", err)
	}
	for _, t := range tickets {
		i := index[t.OrderID]
		orders[i].Tickets = append(orders[i].Tickets, t)
	}
	return nil
}

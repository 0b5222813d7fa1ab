package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// CinemaHallRepo encapsulates queries on the cinema_halls table.
type CinemaHallRepo struct {
	db *sqlx.DB
}

func NewCinemaHallRepo(db *sqlx.DB) *CinemaHallRepo {
	return &CinemaHallRepo{db: db}
}

const hallColumns = "id, name, `rows`, seats_in_row"

// List returns all halls ordered by id.
func (r *CinemaHallRepo) List(ctx context.Context) ([]model.CinemaHall, error) {
	out := []model.CinemaHall{}
	if err := r.db.SelectContext(ctx, &out, "SELECT "+hallColumns+" FROM cinema_halls ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list cinema halls: %w", err)
	}
	return out, nil
}

// GetByID fetches a hall or returns ErrNotFound.
func (r *CinemaHallRepo) GetByID(ctx context.Context, id uint64) (*model.CinemaHall, error) {
	var h model.CinemaHall
	if err := r.db.GetContext(ctx, &h, "SELECT "+hallColumns+" FROM cinema_halls WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cinema hall %d: %w", id, err)
	}
	return &h, nil
}

// Create inserts a hall and fills its ID.
func (r *CinemaHallRepo) Create(ctx context.Context, h *model.CinemaHall) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO cinema_halls (name, `rows`, seats_in_row) VALUES (?, ?, ?)",
		h.Name, h.Rows, h.SeatsInRow)
	if err != nil {
		return fmt.Errorf("insert cinema hall: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

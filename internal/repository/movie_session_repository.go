package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// MovieSessionRepo encapsulates queries on movie_sessions.
type MovieSessionRepo struct {
	db *sqlx.DB
}

func NewMovieSessionRepo(db *sqlx.DB) *MovieSessionRepo {
	return &MovieSessionRepo{db: db}
}

const sessionRowSelect = `SELECT ms.id, ms.show_time, ms.movie_id, ms.cinema_hall_id,
	m.title AS movie_title, m.image AS movie_image,
	h.name AS hall_name, h.` + "`rows`" + ` AS hall_rows, h.seats_in_row AS hall_seats_in_row,
	(SELECT COUNT(*) FROM tickets t WHERE t.movie_session_id = ms.id) AS tickets_sold
	FROM movie_sessions ms
	JOIN movies m ON m.id = ms.movie_id
	JOIN cinema_halls h ON h.id = ms.cinema_hall_id`

// List returns sessions joined with movie and hall, ordered by show time.
// A Date filter keeps sessions starting on that UTC calendar day.
func (r *MovieSessionRepo) List(ctx context.Context, f model.MovieSessionFilter) ([]model.MovieSessionRow, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Date != nil {
		day := f.Date.UTC().Truncate(24 * time.Hour)
		where = append(where, "ms.show_time >= ? AND ms.show_time < ?")
		args = append(args, day, day.Add(24*time.Hour))
	}
	if f.MovieID != 0 {
		where = append(where, "ms.movie_id = ?")
		args = append(args, f.MovieID)
	}
	q := sessionRowSelect + " WHERE " + strings.Join(where, " AND ") + " ORDER BY ms.show_time, ms.id"

	out := []model.MovieSessionRow{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("list movie sessions: %w", err)
	}
	return out, nil
}

// GetByID fetches a single session or returns ErrNotFound.
func (r *MovieSessionRepo) GetByID(ctx context.Context, id uint64) (*model.MovieSession, error) {
	var s model.MovieSession
	err := r.db.GetContext(ctx, &s,
		"SELECT id, show_time, movie_id, cinema_hall_id FROM movie_sessions WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get movie session %d: %w", id, err)
	}
	return &s, nil
}

// TakenPlaces lists the places sold for a session ordered by row and seat.
func (r *MovieSessionRepo) TakenPlaces(ctx context.Context, id uint64) ([]model.Place, error) {
	out := []model.Place{}
	err := r.db.SelectContext(ctx, &out,
		"SELECT `row`, seat FROM tickets WHERE movie_session_id = ? ORDER BY `row`, seat", id)
	if err != nil {
		return nil, fmt.Errorf("list taken places: %w", err)
	}
	return out, nil
}

// Create inserts a session.  Unknown movie or hall ids yield
// ErrInvalidReference.
func (r *MovieSessionRepo) Create(ctx context.Context, s *model.MovieSession) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO movie_sessions (show_time, movie_id, cinema_hall_id) VALUES (?, ?, ?)",
		s.ShowTime.UTC(), s.MovieID, s.CinemaHallID)
	if err != nil {
		if isMissingParent(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("insert movie session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update overwrites show time, movie and hall.  Callers check existence
// first; MySQL reports zero affected rows for unchanged values.
func (r *MovieSessionRepo) Update(ctx context.Context, s *model.MovieSession) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE movie_sessions SET show_time = ?, movie_id = ?, cinema_hall_id = ? WHERE id = ?",
		s.ShowTime.UTC(), s.MovieID, s.CinemaHallID, s.ID)
	if err != nil {
		if isMissingParent(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("update movie session %d: %w", s.ID, err)
	}
	return nil
}

// Delete removes a session.  Sessions with sold tickets yield ErrConflict.
func (r *MovieSessionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movie_sessions WHERE id = ?", id)
	if err != nil {
		if isReferenced(err) {
			return ErrConflict
		}
		return fmt.Errorf("delete movie session %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// GenreRepo encapsulates queries on the genres table.
type GenreRepo struct {
	db *sqlx.DB
}

func NewGenreRepo(db *sqlx.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

// List returns all genres ordered by id.
func (r *GenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	out := []model.Genre{}
	if err := r.db.SelectContext(ctx, &out, "SELECT id, name FROM genres ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return out, nil
}

// Create inserts a genre and fills its ID.  A duplicate name yields
// ErrConflict.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO genres (name) VALUES (?)", g.Name)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert genre: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

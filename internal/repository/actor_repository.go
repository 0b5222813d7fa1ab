package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// ActorRepo encapsulates queries on the actors table.
type ActorRepo struct {
	db *sqlx.DB
}

func NewActorRepo(db *sqlx.DB) *ActorRepo {
	return &ActorRepo{db: db}
}

// List returns all actors ordered by id.
func (r *ActorRepo) List(ctx context.Context) ([]model.Actor, error) {
	out := []model.Actor{}
	if err := r.db.SelectContext(ctx, &out, "SELECT id, first_name, last_name FROM actors ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}
	return out, nil
}

// Create inserts an actor and fills its ID.
func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO actors (first_name, last_name) VALUES (?, ?)", a.FirstName, a.LastName)
	if err != nil {
		return fmt.Errorf("insert actor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

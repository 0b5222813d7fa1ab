// Package repository contains data access logic separated from HTTP handlers.
// This file defines the movie queries: filtered listing, lookup with the
// genre and actor links, creation inside a transaction and image updates.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// MovieRepo encapsulates all database queries related to movies.
type MovieRepo struct {
	db *sqlx.DB
}

func NewMovieRepo(db *sqlx.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

const movieColumns = "m.id, m.title, m.description, m.duration, m.image"

// List returns the movies matching f ordered by id, with genres and actors
// loaded.  Title matches case-insensitively anywhere in the title; genre and
// actor id lists match any of their ids.
func (r *MovieRepo) List(ctx context.Context, f model.MovieFilter) ([]model.Movie, error) {
	where := []string{"1=1"}
	args := []any{}

	if t := strings.TrimSpace(f.Title); t != "" {
		where = append(where, `LOWER(m.title) LIKE ? ESCAPE '\\'`)
		args = append(args, likePattern(t))
	}
	if len(f.GenreIDs) > 0 {
		where = append(where, "m.id IN (SELECT mg.movie_id FROM movie_genres mg WHERE mg.genre_id IN (?))")
		args = append(args, f.GenreIDs)
	}
	if len(f.ActorIDs) > 0 {
		where = append(where, "m.id IN (SELECT ma.movie_id FROM movie_actors ma WHERE ma.actor_id IN (?))")
		args = append(args, f.ActorIDs)
	}

	q := "SELECT " + movieColumns + " FROM movies m WHERE " + strings.Join(where, " AND ") + " ORDER BY m.id"
	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return nil, fmt.Errorf("expand movie filter: %w", err)
	}

	out := []model.Movie{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	if err := r.loadLinks(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a movie with its links or returns ErrNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var m model.Movie
	if err := r.db.GetContext(ctx, &m, "SELECT "+movieColumns+" FROM movies m WHERE m.id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	movies := []model.Movie{m}
	if err := r.loadLinks(ctx, movies); err != nil {
		return nil, err
	}
	return &movies[0], nil
}

// Create inserts the movie and its genre/actor links in one transaction and
// fills m.ID.  The image column is never written here.  Unknown genre or
// actor ids yield ErrInvalidReference and nothing is inserted.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie, genreIDs, actorIDs []uint64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = checkIDsExist(ctx, tx, "genres", genreIDs); err != nil {
		return err
	}
	if err = checkIDsExist(ctx, tx, "actors", actorIDs); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO movies (title, description, duration) VALUES (?, ?, ?)",
		m.Title, m.Description, m.Duration)
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	if err = insertLinks(ctx, tx, "movie_genres", "genre_id", m.ID, genreIDs); err != nil {
		return err
	}
	if err = insertLinks(ctx, tx, "movie_actors", "actor_id", m.ID, actorIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// SetImage stores the image path for a movie.  It returns ErrNotFound when
// the movie does not exist.
func (r *MovieRepo) SetImage(ctx context.Context, id uint64, path string) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM movies WHERE id = ?)", id); err != nil {
		return fmt.Errorf("check movie %d: %w", id, err)
	}
	if !exists {
		return ErrNotFound
	}
	if _, err := r.db.ExecContext(ctx, "UPDATE movies SET image = ? WHERE id = ?", path, id); err != nil {
		return fmt.Errorf("update movie image: %w", err)
	}
	return nil
}

type genreLink struct {
	MovieID uint64 `db:"movie_id"`
	model.Genre
}

type actorLink struct {
	MovieID uint64 `db:"movie_id"`
	model.Actor
}

// loadLinks fills Genres and Actors for every movie with two queries.
func (r *MovieRepo) loadLinks(ctx context.Context, movies []model.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	ids := make([]uint64, len(movies))
	index := make(map[uint64]int, len(movies))
	for i := range movies {
		ids[i] = movies[i].ID
		index[movies[i].ID] = i
		movies[i].Genres = []model.Genre{}
		movies[i].Actors = []model.Actor{}
	}

	q, args, err := sqlx.In(`SELECT mg.movie_id, g.id, g.name
		FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id
		WHERE mg.movie_id IN (?) ORDER BY g.id`, ids)
	if err != nil {
		return err
	}
	var genres []genreLink
	if err := r.db.SelectContext(ctx, &genres, r.db.Rebind(q), args...); err != nil {
		return fmt.Errorf("load movie genres: %w", err)
	}
	for _, g := range genres {
		i := index[g.MovieID]
		movies[i].Genres = append(movies[i].Genres, g.Genre)
	}

	q, args, err = sqlx.In(`SELECT ma.movie_id, a.id, a.first_name, a.last_name
		FROM movie_actors ma JOIN actors a ON a.id = ma.actor_id
		WHERE ma.movie_id IN (?) ORDER BY a.id`, ids)
	if err != nil {
		return err
	}
	var actors []actorLink
	if err := r.db.SelectContext(ctx, &actors, r.db.Rebind(q), args...); err != nil {
		return fmt.Errorf("load movie actors: %w", err)
	}
	for _, a := range actors {
		i := index[a.MovieID]
		movies[i].Actors = append(movies[i].Actors, a.Actor)
	}
	return nil
}

// checkIDsExist returns ErrInvalidReference unless every id is a row of
// table.  ids must be free of duplicates.
func checkIDsExist(ctx context.Context, tx *sqlx.Tx, table string, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("SELECT COUNT(*) FROM "+table+" WHERE id IN (?)", ids)
	if err != nil {
		return err
	}
	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(q), args...); err != nil {
		return fmt.Errorf("count %s: %w", table, err)
	}
	if n != len(ids) {
		return fmt.Errorf("%w: unknown %s id", ErrInvalidReference, strings.TrimSuffix(table, "s"))
	}
	return nil
}

// insertLinks writes (movieID, id) rows into a join table with one
// multi-row INSERT.
func insertLinks(ctx context.Context, tx *sqlx.Tx, table, column string, movieID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	values := make([]string, len(ids))
	args := make([]any, 0, 2*len(ids))
	for i, id := range ids {
		values[i] = "(?, ?)"
		args = append(args, movieID, id)
	}
	q := "INSERT INTO " + table + " (movie_id, " + column + ") VALUES " + strings.Join(values, ", ")
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		if isMissingParent(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// likePattern lower-cases s, escapes LIKE wildcards and wraps it in %.
func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

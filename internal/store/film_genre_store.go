// internal/store/film_genre_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// FilmGenreRow is one film_genres join row: two foreign keys, no attributes.
type FilmGenreRow struct {
	FilmID  int `db:"film_id"`
	GenreID int `db:"genre_id"`
}

// PostgresFilmGenreStore owns the film_genres relation table.
type PostgresFilmGenreStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresFilmGenreStore(db *sqlx.DB, logger *slog.Logger) *PostgresFilmGenreStore {
	return &PostgresFilmGenreStore{db: db, logger: logger}
}

// GetFilmGenres returns the join rows for one film, genre_id ascending.
func (s *PostgresFilmGenreStore) GetFilmGenres(ctx context.Context, filmID int) ([]FilmGenreRow, error) {
	query := `SELECT film_id, genre_id FROM film_genres WHERE film_id = $1 ORDER BY genre_id ASC`
	rows, err := queryMany[FilmGenreRow](ctx, s.db, query, filmID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get film genres", slog.Int("filmID", filmID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get film genres: %w", err)
	}
	return rows, nil
}

// GetGenresForFilms returns the join rows for all given films in one query.
func (s *PostgresFilmGenreStore) GetGenresForFilms(ctx context.Context, filmIDs []int) ([]FilmGenreRow, error) {
	query := `SELECT film_id, genre_id FROM film_genres WHERE film_id IN (?) ORDER BY film_id ASC, genre_id ASC`
	rows, err := queryManyIn[FilmGenreRow](ctx, s.db, query, filmIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get genres for films", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get genres for films: %w", err)
	}
	return rows, nil
}

// AddFilmGenre links a single genre to a film.
func (s *PostgresFilmGenreStore) AddFilmGenre(ctx context.Context, filmID, genreID int) error {
	query := `INSERT INTO film_genres (film_id, genre_id) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, filmID, genreID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrGenreNotFound
		}
		return fmt.Errorf("failed to add film genre: %w", err)
	}
	return nil
}

// AddFilmGenres batch-inserts the join rows for one film in one statement.
// It runs on the given execution context so aggregate writes can keep it
// inside their transaction; a genre id that does not exist fails the whole
// batch with ErrGenreNotFound.
func (s *PostgresFilmGenreStore) AddFilmGenres(ctx context.Context, e sqlx.ExtContext, filmID int, genreIDs []int) error {
	rows := make([]FilmGenreRow, 0, len(genreIDs))
	for _, genreID := range genreIDs {
		rows = append(rows, FilmGenreRow{FilmID: filmID, GenreID: genreID})
	}
	query := `INSERT INTO film_genres (film_id, genre_id) VALUES (:film_id, :genre_id)`
	if err := batchInsert(ctx, e, query, rows); err != nil {
		if isForeignKeyViolation(err) && constraintMentions(err, "genre_id") {
			s.logger.WarnContext(ctx, "Film genres batch referenced nonexistent genre", slog.Int("filmID", filmID))
			return ErrGenreNotFound
		}
		return fmt.Errorf("failed to add film genres: %w", err)
	}
	return nil
}

// DeleteFilmGenre unlinks a single genre from a film.
func (s *PostgresFilmGenreStore) DeleteFilmGenre(ctx context.Context, filmID, genreID int) error {
	query := `DELETE FROM film_genres WHERE film_id = $1 AND genre_id = $2`
	if _, err := execAffecting(ctx, s.db, query, filmID, genreID); err != nil {
		return fmt.Errorf("failed to delete film genre: %w", err)
	}
	return nil
}

// DeleteAllFilmGenres removes every join row of one film, used by the full
// replace on film update.
func (s *PostgresFilmGenreStore) DeleteAllFilmGenres(ctx context.Context, e sqlx.ExecerContext, filmID int) error {
	query := `DELETE FROM film_genres WHERE film_id = $1`
	if _, err := execAffecting(ctx, e, query, filmID); err != nil {
		return fmt.Errorf("failed to delete film genres: %w", err)
	}
	return nil
}

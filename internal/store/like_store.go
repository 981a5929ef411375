// internal/store/like_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// LikeRow is one likes row: membership of a user in a film's liker set.
type LikeRow struct {
	FilmID int `db:"film_id"`
	UserID int `db:"user_id"`
}

// PostgresLikeStore owns the likes relation table.
type PostgresLikeStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresLikeStore(db *sqlx.DB, logger *slog.Logger) *PostgresLikeStore {
	return &PostgresLikeStore{db: db, logger: logger}
}

// GetFilmLikes returns the like rows for one film, user_id ascending.
func (s *PostgresLikeStore) GetFilmLikes(ctx context.Context, filmID int) ([]LikeRow, error) {
	query := `SELECT film_id, user_id FROM likes WHERE film_id = $1 ORDER BY user_id ASC`
	rows, err := queryMany[LikeRow](ctx, s.db, query, filmID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get film likes", slog.Int("filmID", filmID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get film likes: %w", err)
	}
	return rows, nil
}

// GetLikesForFilms returns the like rows for all given films in one query.
func (s *PostgresLikeStore) GetLikesForFilms(ctx context.Context, filmIDs []int) ([]LikeRow, error) {
	query := `SELECT film_id, user_id FROM likes WHERE film_id IN (?) ORDER BY film_id ASC, user_id ASC`
	rows, err := queryManyIn[LikeRow](ctx, s.db, query, filmIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get likes for films", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get likes for films: %w", err)
	}
	return rows, nil
}

// GetUserLikedFilmIDs returns the ids of films the user has liked, film_id
// ascending.
func (s *PostgresLikeStore) GetUserLikedFilmIDs(ctx context.Context, userID int) ([]int, error) {
	query := `SELECT film_id FROM likes WHERE user_id = $1 ORDER BY film_id ASC`
	ids, err := queryMany[int](ctx, s.db, query, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get user liked films", slog.Int("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user liked films: %w", err)
	}
	return ids, nil
}

// AddLike inserts one like row. A duplicate (film, user) pair fails with
// ErrLikeExists; that also covers the loser of a concurrent double-like,
// which trips the primary key instead of a pre-check.
func (s *PostgresLikeStore) AddLike(ctx context.Context, filmID, userID int) error {
	query := `INSERT INTO likes (film_id, user_id) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, filmID, userID); err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrLikeExists
		case isForeignKeyViolation(err) && constraintMentions(err, "user_id"):
			return ErrUserNotFound
		case isForeignKeyViolation(err):
			return ErrFilmNotFound
		}
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

// DeleteAllFilmLikes removes every like row of one film.
func (s *PostgresLikeStore) DeleteAllFilmLikes(ctx context.Context, e sqlx.ExecerContext, filmID int) error {
	query := `DELETE FROM likes WHERE film_id = $1`
	if _, err := execAffecting(ctx, e, query, filmID); err != nil {
		return fmt.Errorf("failed to delete film likes: %w", err)
	}
	return nil
}

// DeleteLike removes one like row and reports whether it existed.
func (s *PostgresLikeStore) DeleteLike(ctx context.Context, filmID, userID int) (bool, error) {
	query := `DELETE FROM likes WHERE film_id = $1 AND user_id = $2`
	affected, err := execAffecting(ctx, s.db, query, filmID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	return affected > 0, nil
}

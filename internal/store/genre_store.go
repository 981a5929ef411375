// internal/store/genre_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
)

// GenreStorage provides read access to the genre reference table.
type GenreStorage interface {
	GetAllGenres(ctx context.Context) ([]domain.Genre, error)
	GetGenreByID(ctx context.Context, id int) (*domain.Genre, error)
	// GetGenresByIDs returns a mapping from id to genre for the ids that
	// exist. An empty id set yields an empty mapping without a query.
	GetGenresByIDs(ctx context.Context, ids []int) (map[int]domain.Genre, error)
}

// PostgresGenreStore implements GenreStorage for PostgreSQL.
type PostgresGenreStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresGenreStore(db *sqlx.DB, logger *slog.Logger) *PostgresGenreStore {
	return &PostgresGenreStore{db: db, logger: logger}
}

func (s *PostgresGenreStore) GetAllGenres(ctx context.Context) ([]domain.Genre, error) {
	query := `SELECT id, name FROM genres ORDER BY id ASC`
	genres, err := queryMany[domain.Genre](ctx, s.db, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list genres", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	if genres == nil {
		genres = []domain.Genre{}
	}
	return genres, nil
}

func (s *PostgresGenreStore) GetGenreByID(ctx context.Context, id int) (*domain.Genre, error) {
	query := `SELECT id, name FROM genres WHERE id = $1`
	genre, err := queryOne[domain.Genre](ctx, s.db, query, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get genre by ID", slog.Int("genreID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get genre by ID: %w", err)
	}
	if genre == nil {
		return nil, ErrGenreNotFound
	}
	return genre, nil
}

func (s *PostgresGenreStore) GetGenresByIDs(ctx context.Context, ids []int) (map[int]domain.Genre, error) {
	if len(ids) == 0 {
		return map[int]domain.Genre{}, nil
	}
	query := `SELECT id, name FROM genres WHERE id IN (?)`
	genres, err := queryManyIn[domain.Genre](ctx, s.db, query, ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get genres by IDs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get genres by IDs: %w", err)
	}
	byID := make(map[int]domain.Genre, len(genres))
	for _, g := range genres {
		byID[g.ID] = g
	}
	return byID, nil
}

// MemoryGenreStore is a non-persistent GenreStorage seeded with the reference
// genres. Reference data is read-only at runtime, so no locking is needed.
type MemoryGenreStore struct {
	genres map[int]domain.Genre
}

func NewMemoryGenreStore() *MemoryGenreStore {
	seed := []domain.Genre{
		{ID: 1, Name: "Comedy"},
		{ID: 2, Name: "Drama"},
		{ID: 3, Name: "Cartoon"},
		{ID: 4, Name: "Thriller"},
		{ID: 5, Name: "Documentary"},
		{ID: 6, Name: "Action"},
	}
	genres := make(map[int]domain.Genre, len(seed))
	for _, g := range seed {
		genres[g.ID] = g
	}
	return &MemoryGenreStore{genres: genres}
}

func (s *MemoryGenreStore) GetAllGenres(ctx context.Context) ([]domain.Genre, error) {
	genres := make([]domain.Genre, 0, len(s.genres))
	for _, g := range s.genres {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres, nil
}

func (s *MemoryGenreStore) GetGenreByID(ctx context.Context, id int) (*domain.Genre, error) {
	genre, ok := s.genres[id]
	if !ok {
		return nil, ErrGenreNotFound
	}
	return &genre, nil
}

func (s *MemoryGenreStore) GetGenresByIDs(ctx context.Context, ids []int) (map[int]domain.Genre, error) {
	byID := make(map[int]domain.Genre, len(ids))
	for _, id := range ids {
		if genre, ok := s.genres[id]; ok {
			byID[id] = genre
		}
	}
	return byID, nil
}

// internal/store/mpa_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
)

// MpaStorage provides read access to the MPA rating reference table.
type MpaStorage interface {
	GetAllMpa(ctx context.Context) ([]domain.Mpa, error)
	GetMpaByID(ctx context.Context, id int) (*domain.Mpa, error)
}

// PostgresMpaStore implements MpaStorage for PostgreSQL.
type PostgresMpaStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresMpaStore(db *sqlx.DB, logger *slog.Logger) *PostgresMpaStore {
	return &PostgresMpaStore{db: db, logger: logger}
}

func (s *PostgresMpaStore) GetAllMpa(ctx context.Context) ([]domain.Mpa, error) {
	query := `SELECT id, name FROM mpa_ratings ORDER BY id ASC`
	ratings, err := queryMany[domain.Mpa](ctx, s.db, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list mpa ratings", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list mpa ratings: %w", err)
	}
	if ratings == nil {
		ratings = []domain.Mpa{}
	}
	return ratings, nil
}

func (s *PostgresMpaStore) GetMpaByID(ctx context.Context, id int) (*domain.Mpa, error) {
	query := `SELECT id, name FROM mpa_ratings WHERE id = $1`
	mpa, err := queryOne[domain.Mpa](ctx, s.db, query, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get mpa by ID", slog.Int("mpaID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get mpa by ID: %w", err)
	}
	if mpa == nil {
		return nil, ErrMpaNotFound
	}
	return mpa, nil
}

// MemoryMpaStore is a non-persistent MpaStorage seeded with the reference
// ratings.
type MemoryMpaStore struct {
	ratings map[int]domain.Mpa
}

func NewMemoryMpaStore() *MemoryMpaStore {
	seed := []domain.Mpa{
		{ID: 1, Name: "G"},
		{ID: 2, Name: "PG"},
		{ID: 3, Name: "PG-13"},
		{ID: 4, Name: "R"},
		{ID: 5, Name: "NC-17"},
	}
	ratings := make(map[int]domain.Mpa, len(seed))
	for _, m := range seed {
		ratings[m.ID] = m
	}
	return &MemoryMpaStore{ratings: ratings}
}

func (s *MemoryMpaStore) GetAllMpa(ctx context.Context) ([]domain.Mpa, error) {
	ratings := make([]domain.Mpa, 0, len(s.ratings))
	for _, m := range s.ratings {
		ratings = append(ratings, m)
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID < ratings[j].ID })
	return ratings, nil
}

func (s *MemoryMpaStore) GetMpaByID(ctx context.Context, id int) (*domain.Mpa, error) {
	mpa, ok := s.ratings[id]
	if !ok {
		return nil, ErrMpaNotFound
	}
	return &mpa, nil
}

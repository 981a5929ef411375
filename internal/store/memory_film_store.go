// internal/store/memory_film_store.go
package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"filmorate/internal/domain"
)

// MemoryFilmStore is a non-persistent FilmStorage backed by a map. Ids are
// assigned by a counter scoped to the store instance, so independent stores
// never share a sequence. All methods work on and return copies; the map
// never leaks a live aggregate.
type MemoryFilmStore struct {
	mu     sync.RWMutex
	films  map[int]*domain.Film
	nextID int
	genres GenreStorage
	mpa    MpaStorage
	logger *slog.Logger
}

func NewMemoryFilmStore(genres GenreStorage, mpa MpaStorage, logger *slog.Logger) *MemoryFilmStore {
	return &MemoryFilmStore{
		films:  make(map[int]*domain.Film),
		nextID: 1,
		genres: genres,
		mpa:    mpa,
		logger: logger,
	}
}

func (s *MemoryFilmStore) GetAllFilms(ctx context.Context) ([]domain.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.films))
	for id := range s.films {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	films := make([]domain.Film, 0, len(ids))
	for _, id := range ids {
		films = append(films, copyFilm(s.films[id]))
	}
	return films, nil
}

func (s *MemoryFilmStore) GetFilmByID(ctx context.Context, id int) (*domain.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	film, ok := s.films[id]
	if !ok {
		return nil, ErrFilmNotFound
	}
	snapshot := copyFilm(film)
	return &snapshot, nil
}

func (s *MemoryFilmStore) AddFilm(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	mpa, err := s.mpa.GetMpaByID(ctx, film.Mpa.ID)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, domain.DedupGenres(film.Genres))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyFilm(film)
	stored.ID = s.nextID
	stored.Mpa = *mpa
	stored.Genres = genres
	stored.LikedByUsers = []int{}
	s.nextID++

	s.films[stored.ID] = &stored
	s.logger.InfoContext(ctx, "Film added", slog.Int("filmID", stored.ID), slog.String("name", stored.Name))

	snapshot := copyFilm(&stored)
	return &snapshot, nil
}

func (s *MemoryFilmStore) UpdateFilm(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	if _, err := s.GetFilmByID(ctx, film.ID); err != nil {
		return nil, err
	}

	mpa, err := s.mpa.GetMpaByID(ctx, film.Mpa.ID)
	if err != nil {
		return nil, err
	}

	var genres []domain.Genre
	if len(film.Genres) > 0 {
		genres, err = s.resolveGenres(ctx, domain.DedupGenres(film.Genres))
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.films[film.ID]
	if !ok {
		return nil, ErrFilmNotFound
	}

	stored := copyFilm(film)
	stored.Mpa = *mpa
	stored.LikedByUsers = existing.LikedByUsers
	if genres != nil {
		stored.Genres = genres
	} else {
		// Nil or empty genre set leaves the stored links untouched.
		stored.Genres = existing.Genres
	}

	s.films[film.ID] = &stored
	s.logger.InfoContext(ctx, "Film updated", slog.Int("filmID", film.ID))

	snapshot := copyFilm(&stored)
	return &snapshot, nil
}

func (s *MemoryFilmStore) AddLike(ctx context.Context, filmID, userID int) (*domain.Film, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	film, ok := s.films[filmID]
	if !ok {
		return nil, ErrFilmNotFound
	}
	for _, id := range film.LikedByUsers {
		if id == userID {
			return nil, ErrLikeExists
		}
	}
	film.LikedByUsers = append(film.LikedByUsers, userID)
	sort.Ints(film.LikedByUsers)

	snapshot := copyFilm(film)
	return &snapshot, nil
}

func (s *MemoryFilmStore) DeleteLike(ctx context.Context, filmID, userID int) (*domain.Film, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	film, ok := s.films[filmID]
	if !ok {
		return nil, ErrFilmNotFound
	}
	found := -1
	for i, id := range film.LikedByUsers {
		if id == userID {
			found = i
			break
		}
	}
	if found < 0 {
		return nil, ErrLikeNotFound
	}
	film.LikedByUsers = append(film.LikedByUsers[:found], film.LikedByUsers[found+1:]...)

	snapshot := copyFilm(film)
	return &snapshot, nil
}

// resolveGenres maps each submitted genre id to the seeded reference entry,
// failing with ErrGenreNotFound when any id is unknown.
func (s *MemoryFilmStore) resolveGenres(ctx context.Context, genres []domain.Genre) ([]domain.Genre, error) {
	if len(genres) == 0 {
		return []domain.Genre{}, nil
	}
	byID, err := s.genres.GetGenresByIDs(ctx, genreIDs(genres))
	if err != nil {
		return nil, err
	}
	resolved := make([]domain.Genre, 0, len(genres))
	for _, g := range genres {
		full, ok := byID[g.ID]
		if !ok {
			return nil, ErrGenreNotFound
		}
		resolved = append(resolved, full)
	}
	return resolved, nil
}

func copyFilm(film *domain.Film) domain.Film {
	clone := *film
	clone.Genres = append([]domain.Genre{}, film.Genres...)
	clone.LikedByUsers = append([]int{}, film.LikedByUsers...)
	return clone
}

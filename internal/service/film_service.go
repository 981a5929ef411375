// internal/service/film_service.go
package service

import (
	"context"
	"log/slog"
	"sort"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// FilmService orchestrates film operations over the film and user storages.
// Likes need both: the film storage owns the liker set, the user storage
// answers whether the liking user exists at all.
type FilmService struct {
	films  store.FilmStorage
	users  store.UserStorage
	logger *slog.Logger
}

func NewFilmService(films store.FilmStorage, users store.UserStorage, logger *slog.Logger) *FilmService {
	return &FilmService{films: films, users: users, logger: logger}
}

func (s *FilmService) GetAllFilms(ctx context.Context) ([]domain.Film, error) {
	return s.films.GetAllFilms(ctx)
}

func (s *FilmService) GetFilmByID(ctx context.Context, id int) (*domain.Film, error) {
	return s.films.GetFilmByID(ctx, id)
}

func (s *FilmService) AddFilm(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	return s.films.AddFilm(ctx, film)
}

func (s *FilmService) UpdateFilm(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	return s.films.UpdateFilm(ctx, film)
}

// AddLike records userID's like on filmID and returns the updated film.
func (s *FilmService) AddLike(ctx context.Context, filmID, userID int) (*domain.Film, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.films.AddLike(ctx, filmID, userID)
}

// DeleteLike removes userID's like from filmID and returns the updated film.
func (s *FilmService) DeleteLike(ctx context.Context, filmID, userID int) (*domain.Film, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.films.DeleteLike(ctx, filmID, userID)
}

// GetMostLikedFilms returns the count most liked films, ordered by liker-set
// size descending. The sort is stable so films with equal like counts keep
// their original listing order.
func (s *FilmService) GetMostLikedFilms(ctx context.Context, count int) ([]domain.Film, error) {
	films, err := s.films.GetAllFilms(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(films, func(i, j int) bool {
		return len(films[i].LikedByUsers) > len(films[j].LikedByUsers)
	})

	if count < len(films) {
		films = films[:count]
	}
	return films, nil
}

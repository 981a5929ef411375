// internal/service/film_service_test.go
package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	films *FilmService
	users *UserService
}

func newFixture() fixture {
	logger := testLogger()
	filmStore := store.NewMemoryFilmStore(store.NewMemoryGenreStore(), store.NewMemoryMpaStore(), logger)
	userStore := store.NewMemoryUserStore(logger)
	return fixture{
		films: NewFilmService(filmStore, userStore, logger),
		users: NewUserService(userStore, logger),
	}
}

func (f fixture) addFilm(t *testing.T, name string) *domain.Film {
	t.Helper()
	film, err := f.films.AddFilm(context.Background(), &domain.Film{
		Name:        name,
		Description: "a test film",
		ReleaseDate: domain.NewDate(2008, 7, 18),
		Duration:    152,
		Mpa:         domain.Mpa{ID: 3},
	})
	require.NoError(t, err)
	return film
}

func (f fixture) addUser(t *testing.T, login string) *domain.User {
	t.Helper()
	user, err := f.users.AddUser(context.Background(), &domain.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: domain.NewDate(1988, 3, 2),
	})
	require.NoError(t, err)
	return user
}

func (f fixture) like(t *testing.T, filmID, userID int) {
	t.Helper()
	_, err := f.films.AddLike(context.Background(), filmID, userID)
	require.NoError(t, err)
}

func TestFilmService_AddLike_RequiresExistingUser(t *testing.T) {
	f := newFixture()
	film := f.addFilm(t, "The Dark Knight")

	_, err := f.films.AddLike(context.Background(), film.ID, 99)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestFilmService_DeleteLike_RequiresExistingUser(t *testing.T) {
	f := newFixture()
	film := f.addFilm(t, "The Dark Knight")

	_, err := f.films.DeleteLike(context.Background(), film.ID, 99)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestFilmService_AddLike(t *testing.T) {
	f := newFixture()
	film := f.addFilm(t, "The Dark Knight")
	user := f.addUser(t, "viewer")

	liked, err := f.films.AddLike(context.Background(), film.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{user.ID}, liked.LikedByUsers)
}

func TestFilmService_GetMostLikedFilms(t *testing.T) {
	f := newFixture()

	// Like counts per film, in listing order: 5, 0, 3, 3, 1.
	counts := []int{5, 0, 3, 3, 1}
	films := make([]*domain.Film, len(counts))
	for i := range counts {
		films[i] = f.addFilm(t, "film")
	}
	var userIDs []int
	for i := 0; i < 5; i++ {
		userIDs = append(userIDs, f.addUser(t, "viewer").ID)
	}
	for i, n := range counts {
		for _, userID := range userIDs[:n] {
			f.like(t, films[i].ID, userID)
		}
	}

	top, err := f.films.GetMostLikedFilms(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, films[0].ID, top[0].ID)
	// Films 3 and 4 tie on three likes; the earlier listing wins.
	assert.Equal(t, films[2].ID, top[1].ID)
	assert.Equal(t, films[3].ID, top[2].ID)
}

func TestFilmService_GetMostLikedFilms_CountLargerThanCatalog(t *testing.T) {
	f := newFixture()
	f.addFilm(t, "only one")

	top, err := f.films.GetMostLikedFilms(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestFilmService_GetMostLikedFilms_EmptyCatalog(t *testing.T) {
	f := newFixture()

	top, err := f.films.GetMostLikedFilms(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

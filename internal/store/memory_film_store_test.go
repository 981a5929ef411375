// internal/store/memory_film_store_test.go
package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFilmStore() *MemoryFilmStore {
	return NewMemoryFilmStore(NewMemoryGenreStore(), NewMemoryMpaStore(), testLogger())
}

func testFilm(name string) *domain.Film {
	return &domain.Film{
		Name:        name,
		Description: "a test film",
		ReleaseDate: domain.NewDate(1999, 10, 15),
		Duration:    136,
		Mpa:         domain.Mpa{ID: 4},
	}
}

func TestMemoryFilmStore_AddFilm_ResolvesReferences(t *testing.T) {
	s := newTestFilmStore()
	film := testFilm("Fight Club")
	film.Genres = []domain.Genre{{ID: 2}, {ID: 4}}

	added, err := s.AddFilm(context.Background(), film)
	require.NoError(t, err)

	assert.Equal(t, 1, added.ID)
	assert.Equal(t, domain.Mpa{ID: 4, Name: "R"}, added.Mpa)
	assert.Equal(t, []domain.Genre{{ID: 2, Name: "Drama"}, {ID: 4, Name: "Thriller"}}, added.Genres)
	assert.Empty(t, added.LikedByUsers)
}

func TestMemoryFilmStore_AddFilm_DeduplicatesGenres(t *testing.T) {
	s := newTestFilmStore()
	film := testFilm("Fight Club")
	film.Genres = []domain.Genre{{ID: 2}, {ID: 4}, {ID: 2}}

	added, err := s.AddFilm(context.Background(), film)
	require.NoError(t, err)
	assert.Equal(t, []domain.Genre{{ID: 2, Name: "Drama"}, {ID: 4, Name: "Thriller"}}, added.Genres)
}

func TestMemoryFilmStore_AddFilm_UnknownMpa(t *testing.T) {
	s := newTestFilmStore()
	film := testFilm("Fight Club")
	film.Mpa.ID = 99

	_, err := s.AddFilm(context.Background(), film)
	assert.ErrorIs(t, err, ErrMpaNotFound)

	films, err := s.GetAllFilms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, films, "failed add must leave no film behind")
}

func TestMemoryFilmStore_AddFilm_UnknownGenre(t *testing.T) {
	s := newTestFilmStore()
	film := testFilm("Fight Club")
	film.Genres = []domain.Genre{{ID: 42}}

	_, err := s.AddFilm(context.Background(), film)
	assert.ErrorIs(t, err, ErrGenreNotFound)

	films, err := s.GetAllFilms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, films, "failed add must leave no film behind")
}

func TestMemoryFilmStore_GetFilmByID_NotFound(t *testing.T) {
	s := newTestFilmStore()
	_, err := s.GetFilmByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrFilmNotFound)
}

func TestMemoryFilmStore_UpdateFilm_NotFound(t *testing.T) {
	s := newTestFilmStore()
	film := testFilm("Nowhere")
	film.ID = 7

	_, err := s.UpdateFilm(context.Background(), film)
	assert.ErrorIs(t, err, ErrFilmNotFound)
}

func TestMemoryFilmStore_UpdateFilm_EmptyGenresKeepExisting(t *testing.T) {
	s := newTestFilmStore()
	film := testFilm("Fight Club")
	film.Genres = []domain.Genre{{ID: 2}}
	added, err := s.AddFilm(context.Background(), film)
	require.NoError(t, err)

	update := testFilm("Fight Club (director's cut)")
	update.ID = added.ID
	update.Genres = nil

	updated, err := s.UpdateFilm(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club (director's cut)", updated.Name)
	assert.Equal(t, []domain.Genre{{ID: 2, Name: "Drama"}}, updated.Genres)
}

func TestMemoryFilmStore_UpdateFilm_ReplacesGenres(t *testing.T) {
	s := newTestFilmStore()
	film := testFilm("Fight Club")
	film.Genres = []domain.Genre{{ID: 2}}
	added, err := s.AddFilm(context.Background(), film)
	require.NoError(t, err)

	update := testFilm("Fight Club")
	update.ID = added.ID
	update.Genres = []domain.Genre{{ID: 1}, {ID: 6}}

	updated, err := s.UpdateFilm(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, []domain.Genre{{ID: 1, Name: "Comedy"}, {ID: 6, Name: "Action"}}, updated.Genres)
}

func TestMemoryFilmStore_Likes(t *testing.T) {
	s := newTestFilmStore()
	added, err := s.AddFilm(context.Background(), testFilm("Fight Club"))
	require.NoError(t, err)

	liked, err := s.AddLike(context.Background(), added.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{10}, liked.LikedByUsers)

	liked, err = s.AddLike(context.Background(), added.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 10}, liked.LikedByUsers)

	_, err = s.AddLike(context.Background(), added.ID, 10)
	assert.ErrorIs(t, err, ErrLikeExists)

	after, err := s.GetFilmByID(context.Background(), added.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 10}, after.LikedByUsers, "duplicate like must not change the set")

	unliked, err := s.DeleteLike(context.Background(), added.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, unliked.LikedByUsers)

	_, err = s.DeleteLike(context.Background(), added.ID, 10)
	assert.ErrorIs(t, err, ErrLikeNotFound)
}

func TestMemoryFilmStore_Likes_FilmNotFound(t *testing.T) {
	s := newTestFilmStore()
	_, err := s.AddLike(context.Background(), 5, 1)
	assert.ErrorIs(t, err, ErrFilmNotFound)
	_, err = s.DeleteLike(context.Background(), 5, 1)
	assert.ErrorIs(t, err, ErrFilmNotFound)
}

func TestMemoryFilmStore_ReturnsSnapshots(t *testing.T) {
	s := newTestFilmStore()
	film := testFilm("Fight Club")
	film.Genres = []domain.Genre{{ID: 2}}
	added, err := s.AddFilm(context.Background(), film)
	require.NoError(t, err)

	added.Name = "mutated"
	added.Genres[0].Name = "mutated"
	added.LikedByUsers = append(added.LikedByUsers, 99)

	stored, err := s.GetFilmByID(context.Background(), added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", stored.Name)
	assert.Equal(t, "Drama", stored.Genres[0].Name)
	assert.Empty(t, stored.LikedByUsers)
}

func TestMemoryFilmStore_IndependentIDSequences(t *testing.T) {
	first := newTestFilmStore()
	second := newTestFilmStore()

	a, err := first.AddFilm(context.Background(), testFilm("A"))
	require.NoError(t, err)
	b, err := second.AddFilm(context.Background(), testFilm("B"))
	require.NoError(t, err)

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 1, b.ID)
}

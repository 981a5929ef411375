// internal/store/postgres_store_test.go
package store

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
)

// The tests in this file run against a real PostgreSQL instance and are
// skipped unless FILMORATE_TEST_DATABASE_URL is set.

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dbURL := os.Getenv("FILMORATE_TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("FILMORATE_TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Connect("postgres", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, EnsureSchema(context.Background(), db, testLogger()))
	// Reference tables keep their seed; everything else starts empty.
	_, err = db.Exec(`TRUNCATE film_genres, likes, friendships, films, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

type postgresFixture struct {
	db         *sqlx.DB
	films      *PostgresFilmStore
	users      *PostgresUserStore
	filmGenres *PostgresFilmGenreStore
	likes      *PostgresLikeStore
}

func newPostgresFixture(t *testing.T) postgresFixture {
	t.Helper()
	db := newTestDB(t)
	logger := testLogger()
	genres := NewPostgresGenreStore(db, logger)
	mpa := NewPostgresMpaStore(db, logger)
	filmGenres := NewPostgresFilmGenreStore(db, logger)
	likes := NewPostgresLikeStore(db, logger)
	friendships := NewPostgresFriendshipStore(db, logger)
	return postgresFixture{
		db:         db,
		films:      NewPostgresFilmStore(db, genres, mpa, filmGenres, likes, logger),
		users:      NewPostgresUserStore(db, friendships, logger),
		filmGenres: filmGenres,
		likes:      likes,
	}
}

func (f postgresFixture) addFilm(t *testing.T, name string, genres ...domain.Genre) *domain.Film {
	t.Helper()
	film := testFilm(name)
	film.Genres = genres
	added, err := f.films.AddFilm(context.Background(), film)
	require.NoError(t, err)
	return added
}

func (f postgresFixture) addUser(t *testing.T, login string) *domain.User {
	t.Helper()
	user, err := f.users.AddUser(context.Background(), testUser(login))
	require.NoError(t, err)
	return user
}

func TestPostgresFilmStore_AddFilm_RoundTrip(t *testing.T) {
	f := newPostgresFixture(t)

	added := f.addFilm(t, "Fight Club", domain.Genre{ID: 4}, domain.Genre{ID: 2})

	fetched, err := f.films.GetFilmByID(context.Background(), added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", fetched.Name)
	assert.Equal(t, domain.Mpa{ID: 4, Name: "R"}, fetched.Mpa)
	assert.Equal(t, []domain.Genre{{ID: 2, Name: "Drama"}, {ID: 4, Name: "Thriller"}}, fetched.Genres)
	assert.Empty(t, fetched.LikedByUsers)
}

func TestPostgresFilmStore_AddFilm_UnknownGenreLeavesNoOrphan(t *testing.T) {
	f := newPostgresFixture(t)

	film := testFilm("Fight Club")
	film.Genres = []domain.Genre{{ID: 2}, {ID: 999}}

	_, err := f.films.AddFilm(context.Background(), film)
	assert.ErrorIs(t, err, ErrGenreNotFound)

	films, err := f.films.GetAllFilms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, films, "the failed genre batch must roll back the film row")
}

func TestPostgresFilmGenreStore_SingleRowOps(t *testing.T) {
	f := newPostgresFixture(t)
	film := f.addFilm(t, "Fight Club")

	require.NoError(t, f.filmGenres.AddFilmGenre(context.Background(), film.ID, 2))
	require.NoError(t, f.filmGenres.AddFilmGenre(context.Background(), film.ID, 4))

	err := f.filmGenres.AddFilmGenre(context.Background(), film.ID, 999)
	assert.ErrorIs(t, err, ErrGenreNotFound)

	rows, err := f.filmGenres.GetFilmGenres(context.Background(), film.ID)
	require.NoError(t, err)
	assert.Equal(t, []FilmGenreRow{{FilmID: film.ID, GenreID: 2}, {FilmID: film.ID, GenreID: 4}}, rows)

	require.NoError(t, f.filmGenres.DeleteFilmGenre(context.Background(), film.ID, 2))
	rows, err = f.filmGenres.GetFilmGenres(context.Background(), film.ID)
	require.NoError(t, err)
	assert.Equal(t, []FilmGenreRow{{FilmID: film.ID, GenreID: 4}}, rows)
}

func TestPostgresLikeStore_UserLikedFilmIDs(t *testing.T) {
	f := newPostgresFixture(t)
	first := f.addFilm(t, "first")
	second := f.addFilm(t, "second")
	user := f.addUser(t, "viewer")

	require.NoError(t, f.likes.AddLike(context.Background(), first.ID, user.ID))
	require.NoError(t, f.likes.AddLike(context.Background(), second.ID, user.ID))

	ids, err := f.likes.GetUserLikedFilmIDs(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{first.ID, second.ID}, ids)
}

func TestPostgresLikeStore_DeleteAllFilmLikes(t *testing.T) {
	f := newPostgresFixture(t)
	film := f.addFilm(t, "Fight Club")
	anna := f.addUser(t, "anna")
	bram := f.addUser(t, "bram")

	require.NoError(t, f.likes.AddLike(context.Background(), film.ID, anna.ID))
	require.NoError(t, f.likes.AddLike(context.Background(), film.ID, bram.ID))

	require.NoError(t, f.likes.DeleteAllFilmLikes(context.Background(), f.db, film.ID))

	rows, err := f.likes.GetFilmLikes(context.Background(), film.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

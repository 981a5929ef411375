// internal/store/film_store_test.go
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
)

func TestDistinctGenreIDs(t *testing.T) {
	joins := []FilmGenreRow{
		{FilmID: 1, GenreID: 2},
		{FilmID: 1, GenreID: 4},
		{FilmID: 2, GenreID: 2},
		{FilmID: 3, GenreID: 4},
		{FilmID: 3, GenreID: 1},
	}
	assert.Equal(t, []int{2, 4, 1}, distinctGenreIDs(joins))
}

func TestDistinctGenreIDs_Empty(t *testing.T) {
	assert.Empty(t, distinctGenreIDs(nil))
}

func TestGroupGenresByFilm(t *testing.T) {
	joins := []FilmGenreRow{
		{FilmID: 1, GenreID: 2},
		{FilmID: 1, GenreID: 4},
		{FilmID: 2, GenreID: 2},
	}
	genres := map[int]domain.Genre{
		2: {ID: 2, Name: "Drama"},
		4: {ID: 4, Name: "Thriller"},
	}

	byFilm := groupGenresByFilm(joins, genres)

	assert.Equal(t, []domain.Genre{{ID: 2, Name: "Drama"}, {ID: 4, Name: "Thriller"}}, byFilm[1])
	assert.Equal(t, []domain.Genre{{ID: 2, Name: "Drama"}}, byFilm[2])
	assert.NotContains(t, byFilm, 3)
}

func TestGroupGenresByFilm_SkipsUnknownGenres(t *testing.T) {
	joins := []FilmGenreRow{{FilmID: 1, GenreID: 9}}
	byFilm := groupGenresByFilm(joins, map[int]domain.Genre{})
	assert.Empty(t, byFilm)
}

func TestGroupLikesByFilm(t *testing.T) {
	rows := []LikeRow{
		{FilmID: 1, UserID: 3},
		{FilmID: 1, UserID: 10},
		{FilmID: 2, UserID: 3},
	}

	byFilm := groupLikesByFilm(rows)

	assert.Equal(t, []int{3, 10}, byFilm[1])
	assert.Equal(t, []int{3}, byFilm[2])
}

func TestAssembleFilms(t *testing.T) {
	rows := []filmRow{
		{ID: 1, Name: "first", MpaID: 4},
		{ID: 2, Name: "second", MpaID: 1},
	}
	mpaByFilm := map[int]domain.Mpa{
		1: {ID: 4, Name: "R"},
		2: {ID: 1, Name: "G"},
	}
	genresByFilm := map[int][]domain.Genre{
		1: {{ID: 2, Name: "Drama"}},
	}
	likesByFilm := map[int][]int{
		2: {3, 10},
	}

	films, err := assembleFilms(rows, mpaByFilm, genresByFilm, likesByFilm)
	require.NoError(t, err)
	require.Len(t, films, 2)

	assert.Equal(t, "R", films[0].Mpa.Name)
	assert.Equal(t, []domain.Genre{{ID: 2, Name: "Drama"}}, films[0].Genres)
	assert.Empty(t, films[0].LikedByUsers)

	assert.Equal(t, "G", films[1].Mpa.Name)
	assert.Empty(t, films[1].Genres)
	assert.Equal(t, []int{3, 10}, films[1].LikedByUsers)
}

func TestAssembleFilms_MissingMpaIsFault(t *testing.T) {
	rows := []filmRow{{ID: 1, Name: "dangling", MpaID: 9}}

	_, err := assembleFilms(rows, map[int]domain.Mpa{}, nil, nil)
	require.Error(t, err)
	assert.False(t, IsNotFound(err), "integrity fault must not look like a client not-found")
}

func TestDedupGenres(t *testing.T) {
	genres := []domain.Genre{{ID: 2}, {ID: 4}, {ID: 2}, {ID: 1}, {ID: 4}}
	assert.Equal(t, []domain.Genre{{ID: 2}, {ID: 4}, {ID: 1}}, domain.DedupGenres(genres))
}

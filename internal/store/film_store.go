// internal/store/film_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
)

// FilmStorage defines the film aggregate operations. Two interchangeable
// implementations exist: PostgresFilmStore and MemoryFilmStore, selected by
// configuration at startup. Every method returns fully composed snapshots;
// callers never receive a live handle into storage-owned state.
type FilmStorage interface {
	GetAllFilms(ctx context.Context) ([]domain.Film, error)
	GetFilmByID(ctx context.Context, id int) (*domain.Film, error)
	AddFilm(ctx context.Context, film *domain.Film) (*domain.Film, error)
	UpdateFilm(ctx context.Context, film *domain.Film) (*domain.Film, error)
	AddLike(ctx context.Context, filmID, userID int) (*domain.Film, error)
	DeleteLike(ctx context.Context, filmID, userID int) (*domain.Film, error)
}

// filmRow is the films base row; relations are attached separately.
type filmRow struct {
	ID          int         `db:"id"`
	Name        string      `db:"name"`
	Description string      `db:"description"`
	ReleaseDate domain.Date `db:"release_date"`
	Duration    int         `db:"duration"`
	MpaID       int         `db:"mpa_id"`
}

// filmMpaRow carries one film id with its joined rating.
type filmMpaRow struct {
	FilmID int    `db:"film_id"`
	ID     int    `db:"id"`
	Name   string `db:"name"`
}

// PostgresFilmStore implements FilmStorage for PostgreSQL, composing the base
// table with the mpa lookup and the film_genres and likes relations.
type PostgresFilmStore struct {
	db         *sqlx.DB
	genres     GenreStorage
	mpa        MpaStorage
	filmGenres *PostgresFilmGenreStore
	likes      *PostgresLikeStore
	logger     *slog.Logger
}

func NewPostgresFilmStore(db *sqlx.DB, genres GenreStorage, mpa MpaStorage,
	filmGenres *PostgresFilmGenreStore, likes *PostgresLikeStore, logger *slog.Logger) *PostgresFilmStore {
	return &PostgresFilmStore{
		db:         db,
		genres:     genres,
		mpa:        mpa,
		filmGenres: filmGenres,
		likes:      likes,
		logger:     logger,
	}
}

// GetAllFilms lists every film with relations attached. The relation cost is
// constant in the number of films: one batched mpa query, one batched
// film_genres query plus one lookup for the distinct genre ids it references,
// and one batched likes query.
func (s *PostgresFilmStore) GetAllFilms(ctx context.Context) ([]domain.Film, error) {
	rows, err := queryMany[filmRow](ctx, s.db, `SELECT id, name, description, release_date, duration, mpa_id FROM films ORDER BY id ASC`)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list films", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list films: %w", err)
	}
	if len(rows) == 0 {
		return []domain.Film{}, nil
	}

	filmIDs := make([]int, 0, len(rows))
	for _, row := range rows {
		filmIDs = append(filmIDs, row.ID)
	}

	mpaByFilm, err := s.getMpasForFilms(ctx, filmIDs)
	if err != nil {
		return nil, err
	}

	joins, err := s.filmGenres.GetGenresForFilms(ctx, filmIDs)
	if err != nil {
		return nil, err
	}
	genreByID, err := s.genres.GetGenresByIDs(ctx, distinctGenreIDs(joins))
	if err != nil {
		return nil, err
	}

	likeRows, err := s.likes.GetLikesForFilms(ctx, filmIDs)
	if err != nil {
		return nil, err
	}

	return assembleFilms(rows, mpaByFilm, groupGenresByFilm(joins, genreByID), groupLikesByFilm(likeRows))
}

// GetFilmByID returns one fully composed film or ErrFilmNotFound.
func (s *PostgresFilmStore) GetFilmByID(ctx context.Context, id int) (*domain.Film, error) {
	row, err := queryOne[filmRow](ctx, s.db, `SELECT id, name, description, release_date, duration, mpa_id FROM films WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get film by ID", slog.Int("filmID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get film by ID: %w", err)
	}
	if row == nil {
		return nil, ErrFilmNotFound
	}

	film := row.toFilm()

	mpa, err := s.mpa.GetMpaByID(ctx, row.MpaID)
	if err != nil {
		// A stored mpa id that no longer resolves is a data-integrity fault,
		// not a client-visible not-found.
		return nil, fmt.Errorf("film %d references unknown mpa %d: %v", id, row.MpaID, err)
	}
	film.Mpa = *mpa

	joins, err := s.filmGenres.GetFilmGenres(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(joins) > 0 {
		genreByID, err := s.genres.GetGenresByIDs(ctx, distinctGenreIDs(joins))
		if err != nil {
			return nil, err
		}
		film.Genres = groupGenresByFilm(joins, genreByID)[id]
	}

	likeRows, err := s.likes.GetFilmLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	if likes, ok := groupLikesByFilm(likeRows)[id]; ok {
		film.LikedByUsers = likes
	}

	return &film, nil
}

// AddFilm inserts the base row and the genre join rows in one transaction.
// The mpa id is resolved before any write; an unknown genre id fails the
// batch and rolls everything back, so no orphan film row survives.
func (s *PostgresFilmStore) AddFilm(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	mpa, err := s.mpa.GetMpaByID(ctx, film.Mpa.ID)
	if err != nil {
		return nil, err
	}

	added := *film
	added.Mpa = *mpa
	added.Genres = domain.DedupGenres(film.Genres)

	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		id, err := insertReturningID(ctx, tx,
			`INSERT INTO films (name, description, release_date, duration, mpa_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			added.Name, added.Description, added.ReleaseDate, added.Duration, added.Mpa.ID)
		if err != nil {
			return fmt.Errorf("failed to insert film: %w", err)
		}
		added.ID = id

		if len(added.Genres) > 0 {
			return s.filmGenres.AddFilmGenres(ctx, tx, id, genreIDs(added.Genres))
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to add film", slog.String("name", film.Name), slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.resolveGenreNames(ctx, added.Genres); err != nil {
		return nil, err
	}
	if added.Genres == nil {
		added.Genres = []domain.Genre{}
	}
	added.LikedByUsers = []int{}

	s.logger.InfoContext(ctx, "Film added", slog.Int("filmID", added.ID), slog.String("name", added.Name))
	return &added, nil
}

// UpdateFilm overwrites all scalar columns and the mpa reference of an
// existing film. A supplied non-empty genre set fully replaces the stored
// join rows; a nil or empty set leaves them untouched. Never inserts.
func (s *PostgresFilmStore) UpdateFilm(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	existing, err := queryOne[filmRow](ctx, s.db, `SELECT id, name, description, release_date, duration, mpa_id FROM films WHERE id = $1`, film.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get film by ID: %w", err)
	}
	if existing == nil {
		return nil, ErrFilmNotFound
	}

	if _, err := s.mpa.GetMpaByID(ctx, film.Mpa.ID); err != nil {
		return nil, err
	}

	genres := domain.DedupGenres(film.Genres)

	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := execAffecting(ctx, tx,
			`UPDATE films SET name = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5 WHERE id = $6`,
			film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID, film.ID)
		if err != nil {
			return fmt.Errorf("failed to update film: %w", err)
		}

		if len(genres) > 0 {
			if err := s.filmGenres.DeleteAllFilmGenres(ctx, tx, film.ID); err != nil {
				return err
			}
			return s.filmGenres.AddFilmGenres(ctx, tx, film.ID, genreIDs(genres))
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update film", slog.Int("filmID", film.ID), slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Film updated", slog.Int("filmID", film.ID))
	return s.GetFilmByID(ctx, film.ID)
}

// AddLike records that the user liked the film and returns the refreshed
// aggregate. A repeated like fails with ErrLikeExists.
func (s *PostgresFilmStore) AddLike(ctx context.Context, filmID, userID int) (*domain.Film, error) {
	if err := s.checkFilmExists(ctx, filmID); err != nil {
		return nil, err
	}
	if err := s.likes.AddLike(ctx, filmID, userID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Like added", slog.Int("filmID", filmID), slog.Int("userID", userID))
	return s.GetFilmByID(ctx, filmID)
}

// DeleteLike removes the user's like and returns the refreshed aggregate.
// Unliking a film the user never liked fails with ErrLikeNotFound.
func (s *PostgresFilmStore) DeleteLike(ctx context.Context, filmID, userID int) (*domain.Film, error) {
	if err := s.checkFilmExists(ctx, filmID); err != nil {
		return nil, err
	}
	deleted, err := s.likes.DeleteLike(ctx, filmID, userID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrLikeNotFound
	}
	s.logger.InfoContext(ctx, "Like removed", slog.Int("filmID", filmID), slog.Int("userID", userID))
	return s.GetFilmByID(ctx, filmID)
}

func (s *PostgresFilmStore) checkFilmExists(ctx context.Context, filmID int) error {
	id, err := queryOne[int](ctx, s.db, `SELECT id FROM films WHERE id = $1`, filmID)
	if err != nil {
		return fmt.Errorf("failed to check film existence: %w", err)
	}
	if id == nil {
		return ErrFilmNotFound
	}
	return nil
}

// getMpasForFilms resolves the rating of every listed film in one join query.
func (s *PostgresFilmStore) getMpasForFilms(ctx context.Context, filmIDs []int) (map[int]domain.Mpa, error) {
	query := `SELECT f.id AS film_id, m.id, m.name
	          FROM films f
	          JOIN mpa_ratings m ON f.mpa_id = m.id
	          WHERE f.id IN (?)`
	rows, err := queryManyIn[filmMpaRow](ctx, s.db, query, filmIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get mpas for films", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get mpas for films: %w", err)
	}
	byFilm := make(map[int]domain.Mpa, len(rows))
	for _, row := range rows {
		byFilm[row.FilmID] = domain.Mpa{ID: row.ID, Name: row.Name}
	}
	return byFilm, nil
}

// resolveGenreNames fills in the names of genres that arrived as bare ids.
func (s *PostgresFilmStore) resolveGenreNames(ctx context.Context, genres []domain.Genre) error {
	if len(genres) == 0 {
		return nil
	}
	ids := make([]int, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	byID, err := s.genres.GetGenresByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range genres {
		if resolved, ok := byID[genres[i].ID]; ok {
			genres[i].Name = resolved.Name
		}
	}
	return nil
}

func (row filmRow) toFilm() domain.Film {
	return domain.Film{
		ID:           row.ID,
		Name:         row.Name,
		Description:  row.Description,
		ReleaseDate:  row.ReleaseDate,
		Duration:     row.Duration,
		Genres:       []domain.Genre{},
		LikedByUsers: []int{},
	}
}

func genreIDs(genres []domain.Genre) []int {
	ids := make([]int, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// distinctGenreIDs collects the distinct genre ids referenced by the join
// rows, so the same genre is looked up once however many films carry it.
func distinctGenreIDs(joins []FilmGenreRow) []int {
	seen := make(map[int]struct{}, len(joins))
	ids := make([]int, 0, len(joins))
	for _, join := range joins {
		if _, ok := seen[join.GenreID]; ok {
			continue
		}
		seen[join.GenreID] = struct{}{}
		ids = append(ids, join.GenreID)
	}
	return ids
}

// groupGenresByFilm assembles each film's genre slice from the batched join
// rows, preserving the rows' genre_id ordering.
func groupGenresByFilm(joins []FilmGenreRow, genres map[int]domain.Genre) map[int][]domain.Genre {
	byFilm := make(map[int][]domain.Genre)
	for _, join := range joins {
		genre, ok := genres[join.GenreID]
		if !ok {
			continue
		}
		byFilm[join.FilmID] = append(byFilm[join.FilmID], genre)
	}
	return byFilm
}

// groupLikesByFilm assembles each film's liker id slice from the batched like
// rows, preserving the rows' user_id ordering.
func groupLikesByFilm(rows []LikeRow) map[int][]int {
	byFilm := make(map[int][]int)
	for _, row := range rows {
		byFilm[row.FilmID] = append(byFilm[row.FilmID], row.UserID)
	}
	return byFilm
}

// assembleFilms composes the aggregates from the grouped relation results.
// Films without genres or likes get empty sets. Every base row must resolve a
// rating; a missing join row is a data-integrity fault, the same condition
// GetFilmByID reports for one film.
func assembleFilms(rows []filmRow, mpaByFilm map[int]domain.Mpa, genresByFilm map[int][]domain.Genre, likesByFilm map[int][]int) ([]domain.Film, error) {
	films := make([]domain.Film, 0, len(rows))
	for _, row := range rows {
		mpa, ok := mpaByFilm[row.ID]
		if !ok {
			return nil, fmt.Errorf("film %d references unknown mpa %d", row.ID, row.MpaID)
		}
		film := row.toFilm()
		film.Mpa = mpa
		if genres, ok := genresByFilm[row.ID]; ok {
			film.Genres = genres
		}
		if likes, ok := likesByFilm[row.ID]; ok {
			film.LikedByUsers = likes
		}
		films = append(films, film)
	}
	return films, nil
}

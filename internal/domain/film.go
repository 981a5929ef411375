// internal/domain/film.go
package domain

// EarliestReleaseDate is the date of the first film screening; no film can
// predate it.
var EarliestReleaseDate = NewDate(1895, 12, 28)

// Mpa is an MPA rating, immutable reference data seeded into the store.
type Mpa struct {
	ID   int    `json:"id" db:"id" validate:"required,gt=0"`
	Name string `json:"name,omitempty" db:"name"`
}

// Genre is a film genre, immutable reference data seeded into the store.
type Genre struct {
	ID   int    `json:"id" db:"id" validate:"required,gt=0"`
	Name string `json:"name,omitempty" db:"name"`
}

// Film is the film aggregate as seen by callers: the base record plus its
// resolved MPA rating, genre set and liker set. Genres and LikedByUsers are
// populated by the storage layer; a film with neither still carries empty
// slices, never nil, once loaded.
type Film struct {
	ID           int     `json:"id" db:"id"`
	Name         string  `json:"name" db:"name" validate:"required"`
	Description  string  `json:"description" db:"description" validate:"max=200"`
	ReleaseDate  Date    `json:"releaseDate" db:"release_date"`
	Duration     int     `json:"duration" db:"duration" validate:"required,gt=0"`
	Mpa          Mpa     `json:"mpa" db:"-"`
	Genres       []Genre `json:"genres" db:"-" validate:"omitempty,dive"`
	LikedByUsers []int   `json:"likedByUsers" db:"-"`
}

// DedupGenres returns the genre set deduplicated by id, keeping the first
// occurrence of each id in its original position.
func DedupGenres(genres []Genre) []Genre {
	if len(genres) == 0 {
		return genres
	}
	seen := make(map[int]struct{}, len(genres))
	unique := make([]Genre, 0, len(genres))
	for _, g := range genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		unique = append(unique, g)
	}
	return unique
}

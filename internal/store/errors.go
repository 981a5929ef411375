package store

import "errors"

// Storage errors. Handlers translate these into HTTP statuses: not-found
// errors become 404, conflict errors 400, anything else 500.
var (
	ErrFilmNotFound  = errors.New("film not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrGenreNotFound = errors.New("genre not found")
	ErrMpaNotFound   = errors.New("mpa rating not found")

	ErrLikeExists     = errors.New("user has already liked this film")
	ErrLikeNotFound   = errors.New("user has not liked this film")
	ErrAlreadyFriends = errors.New("users are already friends")
)

// IsNotFound reports whether err is one of the not-found kinds, including a
// missing referenced id such as a film's mpa or genre.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFilmNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrGenreNotFound) ||
		errors.Is(err, ErrMpaNotFound)
}

// IsConflict reports whether err is a conflict or invalid-domain-state kind:
// a duplicate like, a duplicate friendship, or an unlike of a like that was
// never set.
func IsConflict(err error) bool {
	return errors.Is(err, ErrLikeExists) ||
		errors.Is(err, ErrLikeNotFound) ||
		errors.Is(err, ErrAlreadyFriends)
}

// internal/api/router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

func NewRouter(handler *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(handler.RequestID, handler.AccessLog)

	filmsRouter := router.PathPrefix("/films").Subrouter()
	filmsRouter.HandleFunc("", handler.GetFilms).Methods(http.MethodGet)
	filmsRouter.HandleFunc("", handler.CreateFilm).Methods(http.MethodPost)
	filmsRouter.HandleFunc("", handler.UpdateFilm).Methods(http.MethodPut)
	filmsRouter.HandleFunc("/popular", handler.GetMostLikedFilms).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/{id}", handler.GetFilmByID).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/{id}/like/{userId}", handler.AddLike).Methods(http.MethodPut)
	filmsRouter.HandleFunc("/{id}/like/{userId}", handler.DeleteLike).Methods(http.MethodDelete)

	usersRouter := router.PathPrefix("/users").Subrouter()
	usersRouter.HandleFunc("", handler.GetUsers).Methods(http.MethodGet)
	usersRouter.HandleFunc("", handler.CreateUser).Methods(http.MethodPost)
	usersRouter.HandleFunc("", handler.UpdateUser).Methods(http.MethodPut)
	usersRouter.HandleFunc("/{id}", handler.GetUserByID).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{id}/friends", handler.GetFriends).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{id}/friends/confirmed", handler.GetConfirmedFriends).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{id}/friends/common/{otherId}", handler.GetCommonFriends).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{id}/friends/{friendId}", handler.AddFriend).Methods(http.MethodPut)
	usersRouter.HandleFunc("/{id}/friends/{friendId}", handler.DeleteFriend).Methods(http.MethodDelete)

	router.HandleFunc("/genres", handler.GetGenres).Methods(http.MethodGet)
	router.HandleFunc("/genres/{id}", handler.GetGenreByID).Methods(http.MethodGet)
	router.HandleFunc("/mpa", handler.GetMpaRatings).Methods(http.MethodGet)
	router.HandleFunc("/mpa/{id}", handler.GetMpaByID).Methods(http.MethodGet)

	return router
}

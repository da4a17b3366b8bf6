package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"breizh-server/middleware"
	"breizh-server/services"
	"breizh-server/utils/errors"
)

type FavoritesHandler struct {
	favorites *services.FavoritesService
}

type FavoritesListResponse struct {
	Favorites []string `json:"favorites"`
	Count     int      `json:"count"`
}

func NewFavoritesHandler(favorites *services.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

func (h *FavoritesHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	ids, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, FavoritesListResponse{Favorites: ids, Count: len(ids)})
}

func (h *FavoritesHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	added, err := h.favorites.Add(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"added": added})
}

func (h *FavoritesHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	removed, err := h.favorites.Remove(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"removed": removed})
}

func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	favorite, err := h.favorites.Toggle(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"favorite": favorite})
}

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/veggiemap/menuscout/internal/menu"
	"github.com/veggiemap/menuscout/internal/observability"
	"github.com/veggiemap/menuscout/internal/scrape"
	"github.com/veggiemap/menuscout/internal/store"
)

func (s *Server) handleListRestaurants(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 20)

	restaurants, total, err := s.store.ListRestaurants(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch restaurants: "+err.Error())
		return
	}
	if restaurants == nil {
		restaurants = []store.Restaurant{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":  restaurants,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

type AddRestaurantRequest struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	PlaceID string `json:"place_id"`
}

func (s *Server) handleAddRestaurant(w http.ResponseWriter, r *http.Request) {
	var req AddRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	id, existed, err := s.store.AddRestaurant(r.Context(), req.Name, req.Website, req.PlaceID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save restaurant: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"existed": existed,
	})
}

func (s *Server) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	rest, err := s.store.GetRestaurant(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Restaurant not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch restaurant: "+err.Error())
		return
	}

	record := scrape.Restaurant{
		ID:      strconv.Itoa(rest.ID),
		Website: rest.Website,
		PlaceID: rest.PlaceID,
	}

	var items []menu.Item
	if r.URL.Query().Get("refresh") == "1" {
		items = s.scraper.Refresh(r.Context(), record)
	} else {
		items = s.scraper.ScrapeVeganMenu(r.Context(), record)
	}
	if items == nil {
		items = []menu.Item{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"restaurant_id": rest.ID,
		"items":         items,
		"count":         len(items),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

func parsePagination(r *http.Request, defaultLimit int) (int, int) {
	q := r.URL.Query()
	limit := defaultLimit
	offset := 0

	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/dishmatch/internal/models"
)

const (
	maxJSONBody   = 1 << 20
	maxImageBytes = 10 << 20
)

var endpoints = []string{
	"POST /semantic-search",
	"POST /image-search-nearby",
	"GET /restaurants",
	"GET /restaurants/nearby",
	"GET /restaurants/search",
	"GET /restaurants/{restaurant_id}",
	"GET /countries",
	"GET /cuisines/match",
	"GET /status",
	"GET /health",
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "dishmatch API is running",
		"endpoints": endpoints,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Catalog().Countries())
}

// semanticRequest distinguishes an omitted limit, which takes the default, from an explicit 0.
type semanticRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit"`
}

func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	var req semanticRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query := models.SemanticQuery{Query: req.Query, Limit: s.config.Search.DefaultLimit}
	if req.Limit != nil {
		query.Limit = *req.Limit
	}
	s.logger.Debug("semantic search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	results, err := s.engine.Semantic(r.Context(), query)
	if err != nil {
		s.respondEngineError(w, "semantic search failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleImageSearchNearby(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1<<20)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "expected multipart form with an image file")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()
	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "could not read file")
		return
	}
	if len(image) > maxImageBytes {
		s.respondError(w, http.StatusRequestEntityTooLarge, "image is too large")
		return
	}

	q, err := s.nearbyQuery(r.FormValue, s.config.Search.ImageDefaultLimit)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.engine.ImageNearby(r.Context(), image, q)
	if err != nil {
		s.respondEngineError(w, "image search failed", err)
		return
	}
	w.Header().Set("X-Recognized-Dish", result.Dish)
	w.Header().Set("X-Matched-Cuisines", strings.Join(result.Cuisines, "; "))
	if len(result.Restaurants) == 0 {
		s.respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":    fmt.Sprintf("No nearby restaurants found for cuisines: %s", strings.Join(result.Cuisines, "; ")),
			"dish":     result.Dish,
			"term":     result.Term,
			"cuisines": result.Cuisines,
		})
		return
	}
	s.respondJSON(w, http.StatusOK, result.Restaurants)
}

func (s *Server) handleListRestaurants(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page, err := intParam(params.Get("page"), 1)
	if err != nil || page < 1 {
		s.respondError(w, http.StatusBadRequest, "page must be an integer >= 1")
		return
	}
	limit, err := s.limitParam(params.Get("limit"), s.config.Search.BrowseDefaultLimit)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := models.BrowseFilter{
		City:    params.Get("city"),
		Cuisine: params.Get("cuisine"),
		Country: params.Get("country"),
	}
	if filter.MinCost, err = optionalFloat(params.Get("min_cost")); err != nil {
		s.respondError(w, http.StatusBadRequest, "min_cost must be a number")
		return
	}
	if filter.MaxCost, err = optionalFloat(params.Get("max_cost")); err != nil {
		s.respondError(w, http.StatusBadRequest, "max_cost must be a number")
		return
	}
	s.respondJSON(w, http.StatusOK, s.engine.Catalog().List(filter, page, limit))
}

func (s *Server) handleNearbyRestaurants(w http.ResponseWriter, r *http.Request) {
	q, err := s.nearbyQuery(r.URL.Query().Get, s.config.Search.NearbyDefaultLimit)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	results, err := s.engine.Nearby(r.Context(), q)
	if err != nil {
		s.respondEngineError(w, "nearby search failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleSearchRestaurants(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	limit, err := s.limitParam(params.Get("limit"), s.config.Search.BrowseDefaultLimit)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := models.BrowseFilter{
		Name:    params.Get("q_name"),
		City:    params.Get("q_city"),
		Cuisine: params.Get("q_cuisine"),
		Country: params.Get("q_country"),
	}
	s.respondJSON(w, http.StatusOK, s.engine.Catalog().Search(filter, limit))
}

func (s *Server) handleGetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "restaurantID"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "restaurant_id must be an integer")
		return
	}
	restaurant, ok := s.engine.Catalog().ByRestaurantID(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "Restaurant not found")
		return
	}
	s.respondJSON(w, http.StatusOK, restaurant)
}

func (s *Server) handleCuisineMatch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	topK, err := intParam(params.Get("top_k"), s.config.Search.CuisineTopK)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "top_k must be an integer")
		return
	}
	matches, err := s.engine.MatchCuisines(r.Context(), params.Get("q"), topK)
	if err != nil {
		s.respondEngineError(w, "cuisine match failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, matches)
}

// nearbyQuery reads lat, lng, radius and limit through get. lat and lng are required.
func (s *Server) nearbyQuery(get func(string) string, defaultLimit int) (models.NearbyQuery, error) {
	var q models.NearbyQuery
	var err error
	if q.Lat, err = requiredFloat(get("lat"), "lat"); err != nil {
		return q, err
	}
	if q.Lng, err = requiredFloat(get("lng"), "lng"); err != nil {
		return q, err
	}
	radius, err := optionalFloat(get("radius"))
	if err != nil {
		return q, fmt.Errorf("radius must be a number")
	}
	q.RadiusKm = s.config.Search.DefaultRadiusKm
	if radius != nil {
		q.RadiusKm = *radius
	}
	if q.Limit, err = intParam(get("limit"), defaultLimit); err != nil {
		return q, fmt.Errorf("limit must be an integer")
	}
	return q, nil
}

func (s *Server) limitParam(raw string, def int) (int, error) {
	limit, err := intParam(raw, def)
	if err != nil || limit < 1 || (s.config.Search.MaxLimit > 0 && limit > s.config.Search.MaxLimit) {
		return 0, fmt.Errorf("limit must be an integer between 1 and %d", s.config.Search.MaxLimit)
	}
	return limit, nil
}

func intParam(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func optionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func requiredFloat(raw, name string) (float64, error) {
	v, err := optionalFloat(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if v == nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	return *v, nil
}

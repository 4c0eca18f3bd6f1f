package adaptor

import (
	"net/http"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// ==================== MOVIES ====================

// ListMovies handles GET /api/movies?page=&per_page=&genre=&showing=true
func (h *CatalogHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.MovieListRequest{
		Genre:   query.Get("genre"),
		Showing: query.Get("showing") == "true",
	}
	req.Page, req.PerPage = paginationFromQuery(r)

	movies, err := h.service.ListMovies(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "list movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// GetMovie handles GET /api/movies/{id}
func (h *CatalogHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	movie, err := h.service.GetMovie(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.log, err, "get movie")
		return
	}

	utils.ResponseSuccess(w, "success", movie)
}

// CreateMovie handles POST /api/admin/movies
func (h *CatalogHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMovieRequest
	if !decodeBody(w, r, &req) {
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "create movie")
		return
	}

	utils.ResponseCreated(w, "Movie created", movie)
}

// UpdateMovie handles PUT /api/admin/movies/{id}
func (h *CatalogHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateMovieRequest
	if !decodeBody(w, r, &req) {
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, "Movie updated", movie)
}

// DeleteMovie handles DELETE /api/admin/movies/{id}
func (h *CatalogHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteMovie(r.Context(), id); err != nil {
		handleServiceError(w, r, h.log, err, "delete movie")
		return
	}

	utils.ResponseSuccess(w, "Movie deleted", nil)
}

// ==================== HALLS ====================

// ListHalls handles GET /api/admin/halls
func (h *CatalogHandler) ListHalls(w http.ResponseWriter, r *http.Request) {
	halls, err := h.service.ListHalls(r.Context())
	if err != nil {
		handleServiceError(w, r, h.log, err, "list halls")
		return
	}

	utils.ResponseSuccess(w, "success", halls)
}

// GetHall handles GET /api/admin/halls/{id}
func (h *CatalogHandler) GetHall(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	hall, err := h.service.GetHall(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.log, err, "get hall")
		return
	}

	utils.ResponseSuccess(w, "success", hall)
}

// CreateHall handles POST /api/admin/halls
func (h *CatalogHandler) CreateHall(w http.ResponseWriter, r *http.Request) {
	var req request.CreateHallRequest
	if !decodeBody(w, r, &req) {
		return
	}

	hall, err := h.service.CreateHall(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "create hall")
		return
	}

	utils.ResponseCreated(w, "Hall created", hall)
}

// UpdateHall handles PUT /api/admin/halls/{id}
func (h *CatalogHandler) UpdateHall(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateHallRequest
	if !decodeBody(w, r, &req) {
		return
	}

	hall, err := h.service.UpdateHall(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "update hall")
		return
	}

	utils.ResponseSuccess(w, "Hall updated", hall)
}

// ==================== FUNCTIONS ====================

// ListFunctions handles GET /api/functions?movie_id=&hall_id=&include_past=true
func (h *CatalogHandler) ListFunctions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	functions, err := h.service.ListFunctions(r.Context(), &request.FunctionListRequest{
		MovieID:     query.Get("movie_id"),
		HallID:      query.Get("hall_id"),
		IncludePast: query.Get("include_past") == "true",
	})
	if err != nil {
		handleServiceError(w, r, h.log, err, "list functions")
		return
	}

	utils.ResponseSuccess(w, "success", functions)
}

// GetFunction handles GET /api/functions/{id}
func (h *CatalogHandler) GetFunction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	function, err := h.service.GetFunction(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.log, err, "get function")
		return
	}

	utils.ResponseSuccess(w, "success", function)
}

// CreateFunction handles POST /api/admin/functions
func (h *CatalogHandler) CreateFunction(w http.ResponseWriter, r *http.Request) {
	var req request.CreateFunctionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	function, err := h.service.CreateFunction(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "create function")
		return
	}

	utils.ResponseCreated(w, "Function created", function)
}

// UpdateFunction handles PUT /api/admin/functions/{id}
func (h *CatalogHandler) UpdateFunction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateFunctionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	function, err := h.service.UpdateFunction(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "update function")
		return
	}

	utils.ResponseSuccess(w, "Function updated", function)
}

// DeleteFunction handles DELETE /api/admin/functions/{id}
func (h *CatalogHandler) DeleteFunction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteFunction(r.Context(), id); err != nil {
		handleServiceError(w, r, h.log, err, "delete function")
		return
	}

	utils.ResponseSuccess(w, "Function deleted", nil)
}

// SeatMap handles GET /api/functions/{id}/seats
func (h *CatalogHandler) SeatMap(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	seats, err := h.service.SeatMap(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", seats)
}

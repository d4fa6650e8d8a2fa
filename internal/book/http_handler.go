package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"libraryapi/internal/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type HTTPHandler struct {
	service *Service
	log     zerolog.Logger
}

func NewHTTPHandler(service *Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// Routes mounts the book endpoints under /api/books.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Route("/api/books", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles POST /api/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.normalize()
	if err := httpx.ValidateStruct(req); err != nil {
		httpx.WriteErrors(w, http.StatusBadRequest, httpx.ErrorsFromValidation(err))
		return
	}

	created, err := h.service.Create(r.Context(), req.toEntity())
	if err != nil {
		if errors.Is(err, ErrDuplicateISBN) {
			httpx.WriteErrors(w, http.StatusBadRequest, httpx.ErrorsFromError(ErrDuplicateISBN))
			return
		}
		h.internalError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toResponse(created))
}

// Get handles GET /api/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b, found, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(b))
}

// Update handles PUT /api/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateBookRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.normalize()
	if err := httpx.ValidateStruct(req); err != nil {
		httpx.WriteErrors(w, http.StatusBadRequest, httpx.ErrorsFromValidation(err))
		return
	}

	b, found, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	req.applyTo(&b)
	updated, err := h.service.Update(r.Context(), b)
	if err != nil {
		// deleted between the lookup and the write
		if errors.Is(err, ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.internalError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(updated))
}

// Delete handles DELETE /api/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b, found, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), b); err != nil {
		if errors.Is(err, ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.internalError(w, r, err)
		return
	}

	httpx.NoContent(w)
}

// decodeBody reports false after writing 413 for a body cut off by the size
// limit or 400 for anything else that does not decode.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
	return false
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid book id")
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error().
		Err(err).
		Str("request_id", httpx.RequestIDFrom(r)).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
}

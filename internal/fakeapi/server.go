// Package fakeapi serves an in-memory Mason API with areas and their
// measurements. It backs the package tests and the demo-server command.
package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/fivetwenty-io/nearby-client/internal/constants"
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	areasPath        = "/api/areas/"
	demoMeasurements = 120
)

// Server is the fake API.
type Server struct {
	store    *Store
	logger   zerolog.Logger
	pageSize int
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStore serves store instead of the seeded demo data.
func WithStore(store *Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithPageSize sets the number of measurements per page.
func WithPageSize(size int) Option {
	return func(s *Server) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// New creates a server. Without WithStore it serves Kumpula and Otaniemi
// with demo measurements.
func New(opts ...Option) *Server {
	s := &Server{
		logger:   zerolog.Nop(),
		pageSize: constants.MeasurementsPageSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = NewStore()
		s.store.Seed(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), demoMeasurements)
	}

	s.router = s.buildRouter()

	return s
}

// Store returns the backing store.
func (s *Server) Store() *Store {
	return s.store
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/areas", func(r chi.Router) {
		r.Get("/", s.handleListAreas)
		r.Post("/", s.handleCreateArea)

		r.Route("/{area}", func(r chi.Router) {
			r.Get("/", s.handleGetArea)
			r.Put("/", s.handleUpdateArea)
			r.Delete("/", s.handleDeleteArea)
			r.Get("/measurements/", s.handleListMeasurements)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusNotFound, "Not found", "No resource at "+r.URL.Path)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusMethodNotAllowed, "Method not allowed", r.Method+" is not supported here")
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.RequestURI()).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func areaHref(key string) string {
	return areasPath + key + "/"
}

func measurementsHref(key string, start int) string {
	href := areaHref(key) + "measurements/"
	if start > 0 {
		href += "?start=" + strconv.Itoa(start)
	}

	return href
}

func (s *Server) respond(w http.ResponseWriter, status int, doc body) {
	w.Header().Set("Content-Type", constants.MediaTypeMason)
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(doc)
	if err != nil {
		s.logger.Error().Err(err).Msg("encoding response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, title, details string) {
	doc := body{"resource_url": r.URL.Path}
	doc.addError(title, details)
	doc.addControl(mason.ControlProfile, errorProfile, nil)

	s.respond(w, status, doc)
}

func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, err error, name string) {
	switch {
	case errors.Is(err, ErrAreaNotFound):
		s.respondError(w, r, http.StatusNotFound, "Not found", fmt.Sprintf("No area was found with the name %s", name))
	case errors.Is(err, ErrAreaExists):
		s.respondError(w, r, http.StatusConflict, "Already exists", fmt.Sprintf("Area with name '%s' already exists", name))
	case errors.Is(err, ErrEmptyName):
		s.respondError(w, r, http.StatusBadRequest, "Invalid JSON document", "'name' must not be empty")
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("store failure")
		s.respondError(w, r, http.StatusInternalServerError, "Internal server error", "an unexpected error occurred")
	}
}

type areaRequest struct {
	Name     *string `json:"name"`
	Location string  `json:"location"`
}

// decodeArea enforces a JSON body with a name. It writes the error response
// itself and reports whether the handler should continue.
func (s *Server) decodeArea(w http.ResponseWriter, r *http.Request) (areaRequest, bool) {
	var req areaRequest

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != constants.MediaTypeJSON {
		s.respondError(w, r, http.StatusUnsupportedMediaType, "Unsupported media type", "Requests must be JSON")

		return req, false
	}

	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid JSON document", err.Error())

		return req, false
	}

	if req.Name == nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid JSON document", "'name' is a required property")

		return req, false
	}

	return req, true
}

func (s *Server) handleListAreas(w http.ResponseWriter, r *http.Request) {
	doc := body{}
	doc.addNamespace("nearby", linkRelationsURL)
	doc.addControl(mason.ControlSelf, areasPath, nil)
	doc.addControl(mason.ControlAddArea, areasPath, map[string]any{
		"method":   http.MethodPost,
		"encoding": "json",
		"title":    "Add a new area",
		"schema":   areaSchema(),
	})

	items := []body{}

	for _, area := range s.store.List() {
		item := body{"name": area.Name, "location": area.Location}
		item.addControl(mason.ControlSelf, areaHref(area.Key), nil)
		item.addControl(mason.ControlProfile, areaProfile, nil)
		items = append(items, item)
	}

	doc["items"] = items

	s.respond(w, http.StatusOK, doc)
}

func (s *Server) handleCreateArea(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeArea(w, r)
	if !ok {
		return
	}

	area, err := s.store.Create(*req.Name, req.Location)
	if err != nil {
		s.respondStoreError(w, r, err, *req.Name)

		return
	}

	s.logger.Debug().Str("area", area.Key).Msg("area created")

	w.Header().Set("Location", areaHref(area.Key))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleGetArea(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "area")

	area, err := s.store.Get(key)
	if err != nil {
		s.respondStoreError(w, r, err, key)

		return
	}

	href := areaHref(area.Key)

	doc := body{"name": area.Name, "location": area.Location}
	doc.addNamespace("nearby", linkRelationsURL)
	doc.addControl(mason.ControlSelf, href, nil)
	doc.addControl(mason.ControlProfile, areaProfile, nil)
	doc.addControl(mason.ControlCollection, areasPath, nil)
	doc.addControl(mason.ControlAreasCollection, areasPath, nil)
	doc.addControl(mason.ControlAreaMeasurements, measurementsHref(area.Key, 0), map[string]any{
		"title": "Measurements in this area",
	})
	doc.addControl(mason.ControlEdit, href, map[string]any{
		"method":   http.MethodPut,
		"encoding": "json",
		"title":    "Edit this area",
		"schema":   areaSchema(),
	})
	doc.addControl(mason.ControlDeleteArea, href, map[string]any{
		"method": http.MethodDelete,
		"title":  "Delete this area",
	})

	s.respond(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateArea(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "area")

	req, ok := s.decodeArea(w, r)
	if !ok {
		return
	}

	_, err := s.store.Update(key, *req.Name, req.Location)
	if err != nil {
		name := key
		if errors.Is(err, ErrAreaExists) {
			name = *req.Name
		}

		s.respondStoreError(w, r, err, name)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteArea(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "area")

	err := s.store.Delete(key)
	if err != nil {
		s.respondStoreError(w, r, err, key)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "area")

	start := 0

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.respondError(w, r, http.StatusBadRequest, "Invalid query parameter", "'start' must be a non-negative integer")

			return
		}

		start = parsed
	}

	samples, total, err := s.store.Measurements(key, start, s.pageSize)
	if err != nil {
		s.respondStoreError(w, r, err, key)

		return
	}

	doc := body{}
	doc.addNamespace("nearby", linkRelationsURL)
	doc.addControl(mason.ControlSelf, measurementsHref(key, start), nil)
	doc.addControl(mason.ControlUp, areaHref(key), nil)

	if start > 0 {
		doc.addControl(mason.ControlPrev, measurementsHref(key, max(start-s.pageSize, 0)), nil)
	}

	if start+s.pageSize < total {
		doc.addControl(mason.ControlNext, measurementsHref(key, start+s.pageSize), nil)
	}

	items := make([]body, 0, len(samples))
	for _, sample := range samples {
		item := body{"time": sample.Time.UTC().Format(time.RFC3339), "value": sample.Value}
		item.addControl(mason.ControlProfile, measurementProfile, nil)
		items = append(items, item)
	}

	doc["items"] = items

	s.respond(w, http.StatusOK, doc)
}

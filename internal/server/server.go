// Package server provides the HTTP API over the recommendation engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"options-advisor/internal/recommend"
	"options-advisor/internal/selection"
	"options-advisor/internal/service"
)

// DataService loads validated market data for a symbol. Satisfied by
// service.StrikeDataService; tests substitute a stub.
type DataService interface {
	ValidateAndFetch(ctx context.Context, symbol string, targetDTE, dteTolerance int) (*service.StrikeData, error)
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	AllowedOrigins []string
	DTETolerance   int
	Log            zerolog.Logger
	Data           DataService
	Selector       *selection.Selector
	Recommender    *recommend.Recommender
}

// Server is the HTTP API server.
type Server struct {
	router       *chi.Mux
	server       *http.Server
	log          zerolog.Logger
	data         DataService
	selector     *selection.Selector
	recommender  *recommend.Recommender
	dteTolerance int
}

// New creates a Server with routes and middleware installed.
func New(cfg Config) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		log:          cfg.Log,
		data:         cfg.Data,
		selector:     cfg.Selector,
		recommender:  cfg.Recommender,
		dteTolerance: cfg.DTETolerance,
	}
	if s.dteTolerance <= 0 {
		s.dteTolerance = 3
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/strategy/recommend", s.handleStrategyRecommend)
		r.Post("/strikes/recommend", s.handleStrikesRecommend)
		r.Post("/trades/calc", s.handleTradeCalc)
	})

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Router exposes the chi mux, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving; it blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server starting")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

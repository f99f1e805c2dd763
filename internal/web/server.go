// Package web assembles the HTTP API: router, handler wiring and the
// ingestion/geocoding collaborators behind them.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/celltrail/internal/db"
	"github.com/celltrail/internal/geocode"
	"github.com/celltrail/internal/ingest"
	"github.com/celltrail/internal/web/handlers"
	"github.com/celltrail/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	conn       *db.Connection
	redis      *redis.Client
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server instance and wires the full
// ingestion and geocoding stack behind it.
func NewServer(config *Config) (*Server, error) {
	conn, err := db.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Redis is optional: without it the geocode cache no-ops and the
	// stats endpoints report unavailable.
	var cache geocode.Cache = geocode.NopCache{}
	var redisClient *redis.Client
	if config.RedisURL != "" {
		redisCache, err := geocode.NewRedisCache(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure redis: %w", err)
		}
		cache = redisCache
		redisClient = redisCache.Client()
	}

	resolver := geocode.NewResolver(
		geocode.NewSiteDictionary(config.Geo.DictionaryPath),
		cache,
		geocode.NewGoogleGeocoder(),
		geocode.NewNominatimGeocoder(),
	)
	pipeline := ingest.NewPipeline(resolver, ingest.NewBatchWriter(conn.DB))

	server := &Server{
		config: config,
		conn:   conn,
		redis:  redisClient,
	}
	server.setupRoutes(resolver, pipeline)

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(resolver handlers.AddressResolver, pipeline handlers.Ingestor) {
	s.router = mux.NewRouter()

	uploadHandler := &handlers.UploadHandler{Pipeline: pipeline}
	mapsHandler := &handlers.MapsHandler{DB: s.conn.DB}
	statsHandler := &handlers.StatsHandler{Redis: s.redis}
	healthHandler := &handlers.HealthHandler{DB: s.conn.DB, Redis: s.redis}
	geocodeHandler := &handlers.GeocodeHandler{Resolver: resolver}
	authHandler := &handlers.AuthHandler{DB: s.conn.DB, Secret: s.config.Auth.Secret}

	api := s.router.PathPrefix("/api").Subrouter()
	protected := middleware.Authentication(s.config.Auth.Secret)

	// Public endpoints
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/health", healthHandler.GetHealth).Methods("GET")
	api.HandleFunc("/geocode", geocodeHandler.Geocode).Methods("GET")
	api.HandleFunc("/projects/{project_id}/map-layers", mapsHandler.GetMapLayers).Methods("GET")
	api.HandleFunc("/stats/hit", statsHandler.RecordHit).Methods("POST")
	api.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	// Mutating endpoints require a bearer token
	api.Handle("/upload", protected(http.HandlerFunc(uploadHandler.Upload))).Methods("POST")
	api.Handle("/projects/{project_id}/targets/{target_id}",
		protected(http.HandlerFunc(mapsHandler.DeleteTarget))).Methods("DELETE")

	s.router.Use(middleware.CORS(s.config.CORSOrigins))
	s.router.Use(middleware.RequestLogging())
}

// Start runs the server until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on http://%s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("Redis close error: %v", err)
		}
	}
	if err := s.conn.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

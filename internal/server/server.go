package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/daniel/scriptstudio/internal/config"
	"github.com/daniel/scriptstudio/internal/keystore"
	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/pipeline"
	"github.com/daniel/scriptstudio/internal/server/middleware"
	"github.com/daniel/scriptstudio/internal/server/ratelimit"
	"github.com/daniel/scriptstudio/internal/subtitle"
	"github.com/daniel/scriptstudio/internal/userdir"
)

// CredentialStore is the subset of the keystore the server needs.
type CredentialStore interface {
	SaveCredentials(ctx context.Context, userID uuid.UUID, raw string) error
	LoadCredentials(ctx context.Context, userID uuid.UUID) (string, error)
	DeleteCredentials(ctx context.Context, userID uuid.UUID) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	pool        *pgxpool.Pool
	keys        CredentialStore
	apiKey      string
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	validator   *validator.Validate

	// Injectable for tests.
	translate func(ctx context.Context, fb *llm.Fallback, items []subtitle.Item, language, notes string) ([]subtitle.Item, error)
	newRunner func(fb *llm.Fallback) *pipeline.Runner
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	SealingKey  string // base64, for the credential store
	APIKey      string // server-level fallback key(s)
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sealKey, err := keystore.ParseKey(cfg.SealingKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("invalid sealing key: %w", err)
	}
	sealer, err := keystore.NewSealer(sealKey)
	if err != nil {
		pool.Close()
		return nil, err
	}

	s := &Server{
		pool:      pool,
		keys:      keystore.NewStore(pool, sealer),
		apiKey:    cfg.APIKey,
		validator: validator.New(),
		translate: subtitle.TranslateBatch,
		newRunner: pipeline.NewRunner,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.LoadPasswordConfig()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to load password config: %w", err)
	}
	s.userService = NewUserService(userdir.NewDirectory(pool), passwordConfig)

	sessionConfig, err := config.LoadSessionConfig()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to load session config: %w", err)
	}
	s.jwtService = NewJWTService(sessionConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 600 * time.Second, // auto-run streams stay open for the whole run
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// router assembles the route table and middleware stack.
func (s *Server) router() http.Handler {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	editor := middleware.RequireRole(userdir.RoleEditor)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /styles", s.handleListStyles)
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	mux.Handle("GET /keys", auth(http.HandlerFunc(s.handleGetKeys)))
	mux.Handle("PUT /keys", auth(editor(http.HandlerFunc(s.handlePutKeys))))
	mux.Handle("DELETE /keys", auth(editor(http.HandlerFunc(s.handleDeleteKeys))))

	mux.Handle("POST /translate", auth(editor(http.HandlerFunc(s.handleTranslate))))
	mux.Handle("POST /run/stream", auth(editor(http.HandlerFunc(s.handleRunStream))))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	log.Println("Server stopped")
	return err
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, tierFor(r))
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			log.Printf("[rate-limit] Rate limit exceeded: client=%s path=%s", clientID, r.URL.Path)
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// tierFor classifies a request for rate limiting.
func tierFor(r *http.Request) ratelimit.Tier {
	switch {
	case r.URL.Path == "/run/stream" || r.URL.Path == "/translate":
		return ratelimit.TierGenerate
	case r.Method == http.MethodGet:
		return ratelimit.TierRead
	default:
		return ratelimit.TierWrite
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeJSON writes a JSON response without a server receiver, for handlers
// that live outside the Server struct.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// extractClientID extracts the client identifier from the request.
// For now this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

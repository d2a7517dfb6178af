package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/api/routes"
	"marketplace-api/internal/app"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router *gin.Engine
	app    *app.Application
	http   *http.Server
}

func NewServer(app *app.Application) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(app.Logger), middleware.Metrics())

	app.Logger.WithField("origins", app.Config.CORS.AllowedOrigins).Info("configuring CORS")
	corsConfig := cors.Config{
		AllowOriginFunc: func(origin string) bool {
			for _, allowed := range app.Config.CORS.AllowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	_ = router.SetTrustedProxies(nil)

	cfg := app.Config.Server
	return &Server{
		router: router,
		app:    app,
		http: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Handler registers the routes and returns the engine; used by Start and tests.
func (s *Server) Handler() (http.Handler, error) {
	if err := routes.RegisterRoutes(s.router, s.app); err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}
	return s.router, nil
}

// Start serves until Shutdown is called. It returns nil on a clean shutdown.
func (s *Server) Start() error {
	if _, err := s.Handler(); err != nil {
		return err
	}

	s.app.Logger.WithField("addr", s.http.Addr).Info("server starting")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

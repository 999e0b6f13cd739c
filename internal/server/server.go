package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	v1 "github.com/aneeshsrinivas/academy-api/internal/api/v1"
	"github.com/aneeshsrinivas/academy-api/internal/chat"
	"github.com/aneeshsrinivas/academy-api/internal/config"
	"github.com/aneeshsrinivas/academy-api/internal/notify"
	"github.com/aneeshsrinivas/academy-api/internal/store"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
)

type Server struct {
	cfg    *config.Config
	db     *store.Store
	log    *zap.Logger
	mailer *notify.Mailer
	hub    *chat.Hub
	r2     *utils.R2Storage
}

func NewServer(cfg *config.Config, pool *store.Store, log *zap.Logger, mailer *notify.Mailer, hub *chat.Hub, r2 *utils.R2Storage) *Server {
	return &Server{cfg: cfg, db: pool, log: log, mailer: mailer, hub: hub, r2: r2}
}

func (s *Server) NewHTTPServer() *http.Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	api := v1.NewAPI(s.cfg, s.db, s.log, s.mailer, s.hub, s.r2)
	r.Mount("/api/v1", api.Routes())

	return &http.Server{
		Addr:         s.cfg.BindAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}

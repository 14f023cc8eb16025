// Package web is the HTTP front-end: an HTML page for interactive
// use, a JSON inference endpoint and the run-history listing. Every
// request builds its own KnowledgeBase, so concurrent requests share
// no mutable inference state.
package web

import (
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reasonware/inferlab/pkg/inferlab"
	"github.com/reasonware/inferlab/pkg/inferlab/config"
)

//go:embed index.html
var indexHTML string

// Server wires the gin router to the inference engine.
type Server struct {
	cfg    config.Server
	engine *inferlab.Engine
	logger *slog.Logger
	router *gin.Engine
}

// New builds a server around the engine. A nil logger falls back to
// slog.Default.
func New(cfg config.Server, engine *inferlab.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		cfg:    cfg,
		engine: engine,
		logger: logger,
		router: router,
	}

	router.SetHTMLTemplate(template.Must(template.New("index.html").Parse(indexHTML)))
	router.GET("/", s.handleIndex)
	router.POST("/api/infer", s.handleInfer)
	router.GET("/api/runs", s.handleRuns)
	router.Static("/graphs", cfg.OutputDir)

	return s
}

// Handler exposes the router for tests and custom http.Server setups.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until the listener fails.
func (s *Server) Run() error {
	s.logger.Info("listening", "addr", s.cfg.Addr, "output_dir", s.cfg.OutputDir)
	return s.router.Run(s.cfg.Addr)
}

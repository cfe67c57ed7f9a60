// Package http serves the predictor form, its JSON API and the websocket
// event channel.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"housepredictor/app"
	"housepredictor/db"
)

// HistoryReader lists recorded predictions.
type HistoryReader interface {
	QueryPredictions(limit int) ([]db.PredictionRecord, error)
}

type Server struct {
	server *http.Server
	hub    *WebSocketHub
	config ServerConfig
	logger *zap.Logger
}

type ServerConfig struct {
	Port    int
	Timeout time.Duration
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:    8080,
		Timeout: 30 * time.Second,
	}
}

// NewServer wires handlers for svc. history may be nil.
func NewServer(config ServerConfig, svc *app.Service, history HistoryReader, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	hub := NewWebSocketHub(svc, logger)
	h, err := newHandlers(svc, history, hub, logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	RegisterHandlers(mux, h)

	chain := Chain(
		RecoveryMiddleware(logger),
		LoggerMiddleware(logger),
		SecurityHeadersMiddleware,
		RequestSizeMiddleware(1<<20),
	)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      chain(mux),
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
			IdleTimeout:  120 * time.Second,
		},
		hub:    hub,
		config: config,
		logger: logger,
	}, nil
}

// Start runs the websocket hub and blocks serving HTTP.
func (s *Server) Start() error {
	go s.hub.Start()
	s.logger.Info("starting HTTP server",
		zap.String("addr", s.server.Addr),
		zap.String("form", fmt.Sprintf("http://localhost%s/", s.server.Addr)))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	s.hub.Stop()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// Handler exposes the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Hub returns the websocket hub, for pushing model status changes.
func (s *Server) Hub() *WebSocketHub {
	return s.hub
}

func (s *Server) Addr() string {
	return s.server.Addr
}

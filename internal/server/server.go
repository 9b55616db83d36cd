// Package server provides the HTTP and WebSocket API for the surrogate backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/maliksaad1/ai-surrogate/internal/db"
	"github.com/maliksaad1/ai-surrogate/internal/metrics"
	"github.com/maliksaad1/ai-surrogate/internal/service"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port string
}

// Server exposes the chat, thread and memory services over HTTP.
type Server struct {
	echo      *echo.Echo
	chat      *service.ChatService
	threads   *service.ThreadService
	memories  *service.MemoryService
	collector *metrics.Collector
	logger    *slog.Logger
	cfg       Config
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(
	chat *service.ChatService,
	threads *service.ThreadService,
	memories *service.MemoryService,
	collector *metrics.Collector,
	logger *slog.Logger,
	cfg Config,
) (*Server, error) {
	if chat == nil || threads == nil || memories == nil {
		return nil, fmt.Errorf("all services are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID))

			return err
		}
	})

	s := &Server{
		echo:      e,
		chat:      chat,
		threads:   threads,
		memories:  memories,
		collector: collector,
		logger:    logger,
		cfg:       cfg,
	}
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/ws/chat", s.handleChatSocket)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/chat", s.handleChat)

	v1.GET("/threads", s.handleListThreads)
	v1.POST("/threads", s.handleCreateThread)
	v1.GET("/threads/:id", s.handleGetThread)
	v1.PUT("/threads/:id", s.handleRenameThread)
	v1.DELETE("/threads/:id", s.handleDeleteThread)
	v1.GET("/threads/:id/messages", s.handleListMessages)

	v1.GET("/memories", s.handleListMemories)
	v1.DELETE("/memories/:id", s.handleDeleteMemory)

	v1.GET("/stats", s.handleStats)
}

// Handler exposes the underlying echo handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	s.logger.Info("starting http server", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// userIDParam resolves the acting user from the user_id query parameter.
// Body-carrying requests pass it in the payload instead.
func userIDParam(c echo.Context) (string, error) {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	return userID, nil
}

func limitParam(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
	}
	return limit, nil
}

// httpError maps service errors onto HTTP status codes.
func httpError(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// ChatRequest is the request body for POST /api/v1/chat.
type ChatRequest struct {
	UserID   string `json:"user_id"`
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if req.ThreadID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "thread_id is required")
	}

	turn, err := s.chat.SendMessage(c.Request().Context(), req.UserID, req.ThreadID, req.Message)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, turnToResponse(turn))
}

// CreateThreadRequest is the request body for POST /api/v1/threads.
type CreateThreadRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

func (s *Server) handleCreateThread(c echo.Context) error {
	var req CreateThreadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	thread, err := s.threads.Create(c.Request().Context(), req.UserID, req.Title)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, threadToResponse(thread))
}

func (s *Server) handleListThreads(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	threads, err := s.threads.List(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, threadsToResponse(threads))
}

func (s *Server) handleGetThread(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	thread, err := s.threads.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, threadToResponse(thread))
}

// RenameThreadRequest is the request body for PUT /api/v1/threads/:id.
type RenameThreadRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

func (s *Server) handleRenameThread(c echo.Context) error {
	var req RenameThreadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	thread, err := s.threads.Rename(c.Request().Context(), c.Param("id"), req.UserID, req.Title)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, threadToResponse(thread))
}

func (s *Server) handleDeleteThread(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	if err := s.threads.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListMessages(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}
	limit, err := limitParam(c)
	if err != nil {
		return err
	}

	msgs, err := s.threads.Messages(c.Request().Context(), c.Param("id"), userID, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, messagesToResponse(msgs))
}

func (s *Server) handleListMemories(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}
	limit, err := limitParam(c)
	if err != nil {
		return err
	}

	memories, err := s.memories.List(c.Request().Context(), userID, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, memoriesToResponse(memories))
}

func (s *Server) handleDeleteMemory(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	deleted, err := s.memories.Forget(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return httpError(err)
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleStats(c echo.Context) error {
	if s.collector == nil {
		return c.JSON(http.StatusOK, metrics.Snapshot{})
	}
	return c.JSON(http.StatusOK, s.collector.Snapshot())
}

// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package alerts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 30 * time.Second

// Server exposes the alerts API over HTTP.
type Server struct {
	service *Service
}

// NewServer creates a Server for service.
func NewServer(service *Service) (*Server, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	return &Server{service: service}, nil
}

// Register adds the alerts routes to r.
func (s *Server) Register(r gin.IRouter) {
	g := r.Group("/api/v1/alerts")
	g.POST("", s.createAlert)
	g.GET("", s.listAlerts)
	g.GET("/:id", s.getAlert)
	g.PUT("/:id", s.updateAlert)
	g.DELETE("/:id", s.deleteAlert)
}

// Handler returns the complete HTTP handler.
func (s *Server) Handler() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.Register(r)

	return r
}

// Run serves the API on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)

	go func() {
		log.Printf("🚀 Listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Println("Server is preparing to shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}

// respondError maps service errors into status codes.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidAddress):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
	default:
		log.Printf("%s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "error communicating with external services: " + err.Error(),
		})
	}
}

func (s *Server) createAlert(ctx *gin.Context) {
	req := NewAddressRequest()
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	alert, err := s.service.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)

		return
	}

	ctx.JSON(http.StatusCreated, alert)
}

func (s *Server) listAlerts(ctx *gin.Context) {
	alerts, err := s.service.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, alerts)
}

func (s *Server) getAlert(ctx *gin.Context) {
	alert, err := s.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, alert)
}

func (s *Server) updateAlert(ctx *gin.Context) {
	var patch Alert
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	alert, err := s.service.Update(ctx.Request.Context(), ctx.Param("id"), &patch)
	if err != nil {
		respondError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, alert)
}

func (s *Server) deleteAlert(ctx *gin.Context) {
	if err := s.service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

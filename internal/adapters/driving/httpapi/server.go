// Package httpapi exposes the application core over HTTP using gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medalpine/medrag/internal/core/ports/driving"
	"github.com/medalpine/medrag/internal/logger"
)

// shutdownGrace bounds graceful shutdown on interrupt.
const shutdownGrace = 10 * time.Second

// Server hosts the HTTP surface of the service.
type Server struct {
	addr    string
	queries driving.QueryService
	indexer driving.Indexer
	feed    driving.NewsfeedService
	router  *gin.Engine
}

// NewServer creates a server and builds its routes.
func NewServer(addr string, queries driving.QueryService, indexer driving.Indexer, feed driving.NewsfeedService) *Server {
	s := &Server{
		addr:    addr,
		queries: queries,
		indexer: indexer,
		feed:    feed,
	}
	s.buildRouter()
	return s
}

func (s *Server) buildRouter() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware())

	router.GET("/healthz", s.handleHealthz)
	router.POST("/rag-query", s.handleRagQuery)
	router.POST("/analyze-case", s.handleAnalyzeCase)
	router.POST("/index-papers", s.handleIndexPapers)
	router.POST("/newsfeed", s.handleNewsfeed)

	s.router = router
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpapi: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpapi: shutdown: %w", err)
	}
	return nil
}

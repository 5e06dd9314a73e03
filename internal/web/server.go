// Package web exposes the dialog engine over HTTP. The voice front-end
// posts one resolved turn at a time and echoes the session blob from the
// previous response back on the next request.
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voicecart/voicecart/internal/dialog"
)

type Server struct {
	engine *dialog.Engine
	router *gin.Engine
	logger *zap.Logger
}

func NewServer(engine *dialog.Engine, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{engine: engine, router: gin.New(), logger: logger}

	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.GET("/healthz", s.handleHealth)
	s.router.POST("/v1/turn", s.handleTurn)
	return s
}

// Handler exposes the routing tree for the http.Server in main and for
// tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleTurn(c *gin.Context) {
	var ev dialog.TurnEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed turn event: " + err.Error()})
		return
	}
	if ev.Intent == "" || ev.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "intent and userId are required"})
		return
	}

	resp := s.engine.HandleTurn(c.Request.Context(), ev)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

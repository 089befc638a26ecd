// Package api exposes the HTTP surface of the chat backend: the SSE chat
// endpoint plus the root and health probes.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loom-chat/loom/pkg/agent"
	"github.com/loom-chat/loom/pkg/config"
)

// Server wires HTTP routes to the conversation agent.
type Server struct {
	agent    *agent.Agent
	settings *config.Settings
}

// NewServer creates the API server.
func NewServer(a *agent.Agent, settings *config.Settings) *Server {
	return &Server{agent: a, settings: settings}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.Root)
	router.GET("/health", s.Health)

	v1 := router.Group(s.settings.APIV1)
	v1.POST("/openai/chat", s.Chat)

	return router
}

// Root greets API consumers.
func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Hello! Welcome to the LLM Backend Service API.",
	})
}

// Health reports service liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

package api

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"

	"github.com/loom-chat/loom/pkg/events"
	"github.com/loom-chat/loom/pkg/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Chat handles POST {API_V1}/openai/chat: it runs the conversation agent for
// the request and streams its events back as server-sent events. Each event
// is one "data: <json>" line; the stream ends with a literal "data: [DONE]".
func (s *Server) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	stream := s.agent.ProcessMessage(c.Request.Context(), req.Message, req.SystemPrompt, req.Context)

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-stream
		if !ok {
			w.Write([]byte("data: [DONE]\n\n"))
			return false
		}
		if err := writeEvent(w, ev); err != nil {
			slog.Warn("Dropping event after write failure", "type", ev.Type, "error", err)
			return false
		}
		return true
	})
}

func writeEvent(w io.Writer, ev events.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}

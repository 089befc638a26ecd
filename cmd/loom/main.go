// Loom chat backend — streams LLM conversations with planning, tool use, and
// bounded iteration over an SSE HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loom-chat/loom/pkg/agent"
	"github.com/loom-chat/loom/pkg/api"
	"github.com/loom-chat/loom/pkg/config"
	"github.com/loom-chat/loom/pkg/llm"
	"github.com/loom-chat/loom/pkg/tools"
	"github.com/loom-chat/loom/pkg/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	slog.Info("Starting loom", "version", version.Full())

	// 1. Load configuration (.env + environment)
	settings, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Register tools
	registry := tools.NewRegistry()
	registry.MustRegister(tools.NewMathTool())
	registry.MustRegister(tools.NewDatetimeTool())
	registry.MustRegister(tools.NewWebSearchTool())
	registry.MustRegister(tools.NewWebParseTool())
	slog.Info("Tools registered", "count", registry.Len())

	// 3. Create LLM client
	client := llm.NewOpenAIClient(settings.OpenAIAPIKey, settings.OpenAIAPIBase, settings.OpenAIModel)
	slog.Info("LLM client initialized", "model", settings.OpenAIModel)

	// 4. Create conversation agent
	conversationAgent := agent.New(client, registry, agent.Config{
		MaxIterations:      settings.MaxIterations,
		ExtraIterations:    settings.ExtraIterations,
		MaxHistoryMessages: settings.MaxHistoryMessages,
	})

	// 5. Start HTTP server (non-blocking)
	server := api.NewServer(conversationAgent, settings)
	httpServer := &http.Server{
		Addr:    settings.Addr(),
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr, "api_v1", settings.APIV1)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()

	// 6. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	// 7. Graceful shutdown — in-flight SSE streams get a chance to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown incomplete", "error", err)
	}
	slog.Info("Shutdown complete")
}

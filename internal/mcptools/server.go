// Package mcptools exposes the animation service as MCP tools so agent
// clients can generate and track math animations.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewMCPServer creates an MCP server with the animation tools registered.
func NewMCPServer(svc *AnimationService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mathcast",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_animation",
		Description: "Generate a math animation video from LaTeX content. Returns a task ID; rendering runs in the background.",
	}, svc.GenerateAnimation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_task_status",
		Description: "Check the status of a generation task. Completed tasks carry the video URL.",
	}, svc.GetTaskStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_content",
		Description: "Classify LaTeX math content: category, complexity, visual concepts, and extracted expressions. Does not generate a video.",
	}, svc.AnalyzeContent)

	return server
}

// RunMCPServer starts an HTTP server exposing the animation MCP tools.
func RunMCPServer(ctx context.Context, svc *AnimationService, addr string) error {
	server := NewMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled. The done channel
	// releases the watcher when ListenAndServe fails on its own.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			httpServer.Shutdown(context.Background())
		case <-done:
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

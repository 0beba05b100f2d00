// Package command exposes the garden's command surface as MCP tools served
// over SSE/HTTP. This is a transport boundary only: requests are validated
// here and handed to the placement engine, which owns all state.
package command

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pottingshed/verdant/internal/garden"
)

// Version is the command server version, matching the verdant module.
const Version = "0.1.0"

// MaxBatchIDs bounds the set_garden object list. Longer lists are rejected
// before the engine is called.
const MaxBatchIDs = 64

// Server serves the garden command tools over SSE/HTTP.
type Server struct {
	engine *garden.Engine
	mcp    *mcp.Server
	port   int
	srv    *http.Server
	ln     net.Listener
}

// NewServer creates a command server for the given engine.
func NewServer(engine *garden.Engine, port int) *Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "verdant",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		engine: engine,
		mcp:    mcpServer,
		port:   port,
	}
	s.registerMutateTools()
	s.registerQueryTools()
	return s
}

// Start begins serving on the configured port. It returns once the listener
// is ready to accept connections.
func (s *Server) Start(ctx context.Context) error {
	handler := mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.mcp
	}, nil)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("command: listen on port %d: %w", s.port, err)
	}
	s.ln = ln

	s.srv = &http.Server{Handler: handler}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "command: serve error: %v\n", err)
		}
	}()
	return nil
}

// Addr returns the listener address, useful for tests with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"sprintlens/internal/analysis"
)

// ServerName is announced during initialization.
const ServerName = "sprintlens"

// Server exposes the sprint analytics as MCP tools.
type Server struct {
	svc     *analysis.Service
	version string
}

// NewServer creates a new MCP server over the analysis service.
func NewServer(svc *analysis.Service, version string) *Server {
	if version == "" {
		version = "dev"
	}
	return &Server{svc: svc, version: version}
}

// Envelope wraps every tool result so warnings travel next to the data.
type Envelope struct {
	Data     any      `json:"data"`
	Warnings []string `json:"warnings,omitempty"`
}

// Build registers the tools on a fresh SDK server.
func (s *Server) Build() (*sdk.Server, error) {
	server := sdk.NewServer(&sdk.Implementation{Name: ServerName, Version: s.version}, nil)

	if err := addTool(server, toolClassify, s.handleClassify); err != nil {
		return nil, err
	}
	if err := addTool(server, toolProgress, s.handleProgress); err != nil {
		return nil, err
	}
	if err := addTool(server, toolSummary, s.handleSummary); err != nil {
		return nil, err
	}
	if err := addTool(server, toolListSprints, s.handleListSprints); err != nil {
		return nil, err
	}
	return server, nil
}

// Serve runs the server over stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	server, err := s.Build()
	if err != nil {
		return err
	}
	log.Info().Str("version", s.version).Msg("MCP server listening on stdio")
	return server.Run(ctx, &sdk.StdioTransport{})
}

// addTool derives the input schema from In and adapts a plain handler to the SDK signature.
func addTool[In any](server *sdk.Server, tool sdk.Tool, handle func(context.Context, In) (Envelope, error)) error {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("schema for tool %s: %w", tool.Name, err)
	}
	tool.InputSchema = schema

	sdk.AddTool(server, &tool, func(ctx context.Context, req *sdk.CallToolRequest, in In) (*sdk.CallToolResult, any, error) {
		log.Debug().Str("tool", tool.Name).Msg("Tool call")
		env, err := handle(ctx, in)
		if err != nil {
			log.Warn().Err(err).Str("tool", tool.Name).Msg("Tool call failed")
			return nil, nil, err
		}
		text, err := formatResult(env)
		if err != nil {
			return nil, nil, err
		}
		return &sdk.CallToolResult{Content: []sdk.Content{&sdk.TextContent{Text: text}}}, nil, nil
	})
	return nil
}

func formatResult(data any) (string, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	return string(out), nil
}

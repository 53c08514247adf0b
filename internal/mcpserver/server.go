// Package mcpserver отдаёт инструменты и ресурсы реестра по протоколу MCP через stdio.
package mcpserver

import (
	"context"
	"errors"
	"io"

	"taskManager/internal/logger"
	"taskManager/internal/tools"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	ServerName    = "task-manager-server"
	ServerVersion = "1.0.0"
)

type Registry interface {
	Tools() []tools.Definition
	Call(ctx context.Context, name string, args map[string]any) (tools.Result, error)
	Resources() []tools.ResourceDefinition
	ReadResource(ctx context.Context, uri string) (tools.ResourceContents, error)
}

type Server struct {
	registry Registry
	mcp      *server.MCPServer
}

func New(registry Registry) *Server {
	s := &Server{
		registry: registry,
		mcp: server.NewMCPServer(ServerName, ServerVersion,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
		),
	}

	for _, def := range registry.Tools() {
		s.mcp.AddTool(mcp.NewToolWithRawSchema(def.Name, def.Description, def.InputSchema), s.callTool(def.Name))
	}
	for _, res := range registry.Resources() {
		s.mcp.AddResource(mcp.NewResource(res.URI, res.Name,
			mcp.WithResourceDescription(res.Description),
			mcp.WithMIMEType(res.MIMEType),
		), s.readResource)
	}
	return s
}

func (s *Server) callTool(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := s.registry.Call(ctx, name, req.GetArguments())
		if err != nil {
			return nil, err
		}
		if res.IsError {
			return mcp.NewToolResultError(res.Text()), nil
		}
		return mcp.NewToolResultText(res.Text()), nil
	}
}

func (s *Server) readResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	contents, err := s.registry.ReadResource(ctx, req.Params.URI)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contents.URI,
			MIMEType: contents.MIMEType,
			Text:     contents.Text,
		},
	}, nil
}

// Serve обрабатывает JSON-RPC сообщения из in и пишет ответы в out до отмены ctx
// или закрытия входного потока.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(logger.Logger))

	logger.Info("MCP: Сервер запущен на stdio", zap.String("name", ServerName))
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return err
	}
	logger.Info("MCP: Сервер остановлен")
	return nil
}

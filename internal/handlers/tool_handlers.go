package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/tools"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type ToolRegistry interface {
	Tools() []tools.Definition
	Call(ctx context.Context, name string, args map[string]any) (tools.Result, error)
	Resources() []tools.ResourceDefinition
	ReadResource(ctx context.Context, uri string) (tools.ResourceContents, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type ToolHandler struct {
	Registry ToolRegistry
	Health   HealthChecker
}

func NewToolHandler(registry ToolRegistry, health HealthChecker) *ToolHandler {
	return &ToolHandler{
		Registry: registry,
		Health:   health,
	}
}

func (h *ToolHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.Health.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Проверка здоровья не пройдена", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("error", err.Error()))
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("time", time.Now().UTC().Format(time.RFC3339)))
}

func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, toPayload("tools", h.Registry.Tools()))
}

func (h *ToolHandler) CallTool(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")

	args, err := decodeArgs(r)
	if err != nil {
		logger.Warn("HTTP: Ошибка чтения аргументов",
			zap.Error(err),
			zap.String("tool", name),
			zap.String("client_ip", r.RemoteAddr))

		if errors.Is(err, errUnsupportedMediaType) {
			responseWithError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		responseWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.Registry.Call(r.Context(), name, args)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка вызова инструмента", err, zap.String("tool", name))
		responseWithError(w, http.StatusInternalServerError, "internal error")
		return
	}

	logger.Info("HTTP_OUT: Инструмент вызван",
		zap.String("tool", name),
		zap.Bool("is_error", result.IsError),
		zap.Duration("ms", time.Since(start)))

	writeJSON(w, http.StatusOK, result)
}

func (h *ToolHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, toPayload("resources", h.Registry.Resources()))
}

func (h *ToolHandler) ReadResource(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	if uri == "" {
		responseWithError(w, http.StatusBadRequest, "query parameter uri is required")
		return
	}

	contents, err := h.Registry.ReadResource(r.Context(), uri)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка чтения ресурса", err, zap.String("uri", uri))
		responseWithError(w, http.StatusInternalServerError, "internal error")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("contents", []tools.ResourceContents{contents}))
}

var errUnsupportedMediaType = errors.New("Content-Type must be application/json")

// decodeArgs читает JSON-объект аргументов. Пустое тело означает отсутствие аргументов.
func decodeArgs(r *http.Request) (map[string]any, error) {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxBodyBytes {
		return nil, errors.New("body too large")
	}
	if len(body) == 0 {
		return map[string]any{}, nil
	}
	if !checkContentType(r, "application/json") {
		return nil, errUnsupportedMediaType
	}

	var args map[string]any
	if err := json.Unmarshal(body, &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

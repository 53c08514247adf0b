// Package tools описывает инструменты, доступные клиентам: проверку аргументов,
// вызов сервиса задач и оформление результата. Транспорты (HTTP, MCP stdio)
// только доставляют аргументы и отдают Result.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

const (
	ToolCreateTask       = "create_task"
	ToolListTasks        = "list_tasks"
	ToolUpdateTaskStatus = "update_task_status"
	ToolDeleteTask       = "delete_task"
	ToolGetTaskStats     = "get_task_stats"

	SummaryURI = "tasks://summary"
)

type TaskService interface {
	CreateTask(context.Context, task.CreateRequest) task.Task
	ListTasks(context.Context, task.ListFilter) []task.Task
	UpdateTaskStatus(context.Context, string, task.Status) (task.Task, error)
	DeleteTask(context.Context, string) error
	GetStats(context.Context) task.Stats
	GetSummary(context.Context) task.Summary
}

type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type ResourceDefinition struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
}

type ResourceContents struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}

type handlerFunc func(ctx context.Context, args map[string]any) (Result, error)

type tool struct {
	def Definition
	// глагол для сообщения об ошибке: "Error creating task: ..."
	action  string
	handler handlerFunc
}

type Registry struct {
	service TaskService
	tools   map[string]tool
	order   []string
}

func NewRegistry(svc TaskService) *Registry {
	r := &Registry{
		service: svc,
		tools:   make(map[string]tool),
	}

	r.register(Definition{
		Name:        ToolCreateTask,
		Description: "Create a new task with title, description, priority, and optional due date",
		InputSchema: createTaskSchema,
	}, "creating task", r.createTask)

	r.register(Definition{
		Name:        ToolListTasks,
		Description: "List tasks with optional filtering by status and priority",
		InputSchema: listTasksSchema,
	}, "listing tasks", r.listTasks)

	r.register(Definition{
		Name:        ToolUpdateTaskStatus,
		Description: "Update the status of a specific task",
		InputSchema: updateTaskStatusSchema,
	}, "updating task", r.updateTaskStatus)

	r.register(Definition{
		Name:        ToolDeleteTask,
		Description: "Delete a task by its ID",
		InputSchema: deleteTaskSchema,
	}, "deleting task", r.deleteTask)

	r.register(Definition{
		Name:        ToolGetTaskStats,
		Description: "Get comprehensive statistics about all tasks",
		InputSchema: emptySchema,
	}, "getting statistics", r.getTaskStats)

	return r
}

func (r *Registry) register(def Definition, action string, h handlerFunc) {
	r.tools[def.Name] = tool{def: def, action: action, handler: h}
	r.order = append(r.order, def.Name)
}

// Tools возвращает определения в порядке регистрации
func (r *Registry) Tools() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// Call вызывает инструмент по имени. Неизвестное имя - ошибка UNKNOWN_OPERATION,
// ошибки проверки и отсутствие задачи - Result с IsError.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (Result, error) {
	t, ok := r.tools[name]
	if !ok {
		logger.Warn("Tools: Неизвестный инструмент", zap.String("tool", name))
		return Result{}, service.NewUnknownOperation("tool", name)
	}

	start := time.Now()
	res, err := t.handler(ctx, args)
	if err != nil {
		busErr, ok := service.AsBusinessError(err)
		if !ok {
			logger.Error("Tools: Ошибка выполнения инструмента", err, zap.String("tool", name))
			return Result{}, fmt.Errorf("инструмент %s: %w", name, err)
		}

		logger.Warn("Tools: Бизнес-ошибка",
			zap.String("tool", name),
			zap.String("error_code", busErr.Code),
			zap.String("message", busErr.Message))

		if busErr.Code == service.CodeNotFound {
			id, _ := busErr.Details["id"].(string)
			return notFoundResult(id), nil
		}
		return errorResult(t.action, err), nil
	}

	logger.Info("Tools: Инструмент выполнен",
		zap.String("tool", name),
		zap.Duration("ms", time.Since(start)))
	return res, nil
}

func (r *Registry) Resources() []ResourceDefinition {
	return []ResourceDefinition{
		{
			URI:         SummaryURI,
			Name:        "Task Summary",
			Description: "Overview of all tasks and statistics",
			MIMEType:    "application/json",
		},
	}
}

func (r *Registry) ReadResource(ctx context.Context, uri string) (ResourceContents, error) {
	if uri != SummaryURI {
		return ResourceContents{}, service.NewNotFound("resource", uri)
	}

	summary := r.service.GetSummary(ctx)
	body, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return ResourceContents{}, fmt.Errorf("сериализация сводки: %w", err)
	}
	return ResourceContents{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(body),
	}, nil
}

func errorMessage(err error) string {
	var busErr *service.BusinessError
	if errors.As(err, &busErr) {
		return busErr.Message
	}
	return err.Error()
}

func (r *Registry) createTask(ctx context.Context, args map[string]any) (Result, error) {
	req, err := ParseCreateTask(args)
	if err != nil {
		return Result{}, err
	}
	return presentCreated(r.service.CreateTask(ctx, req)), nil
}

func (r *Registry) listTasks(ctx context.Context, args map[string]any) (Result, error) {
	filter, err := ParseListTasks(args)
	if err != nil {
		return Result{}, err
	}
	return presentList(r.service.ListTasks(ctx, filter)), nil
}

func (r *Registry) updateTaskStatus(ctx context.Context, args map[string]any) (Result, error) {
	req, err := ParseUpdateStatus(args)
	if err != nil {
		return Result{}, err
	}
	updated, err := r.service.UpdateTaskStatus(ctx, req.TaskID, req.Status)
	if err != nil {
		return Result{}, err
	}
	return presentStatusUpdated(updated), nil
}

func (r *Registry) deleteTask(ctx context.Context, args map[string]any) (Result, error) {
	req, err := ParseDeleteTask(args)
	if err != nil {
		return Result{}, err
	}
	if err := r.service.DeleteTask(ctx, req.TaskID); err != nil {
		return Result{}, err
	}
	return presentDeleted(req.TaskID), nil
}

func (r *Registry) getTaskStats(ctx context.Context, _ map[string]any) (Result, error) {
	return presentStats(r.service.GetStats(ctx)), nil
}

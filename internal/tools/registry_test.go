package tools_test

import (
	"context"
	"encoding/json"
	"testing"

	"taskManager/internal/models/task"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/service"
	"taskManager/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(opts ...inmemory.Option) (*tools.Registry, *inmemory.TaskStorage) {
	storage := inmemory.NewTaskStorage(opts...)
	return tools.NewRegistry(service.NewTaskService(storage)), storage
}

// TestRegistry_Tools тестирует список инструментов и их схемы
func TestRegistry_Tools(t *testing.T) {
	registry, _ := newRegistry()

	defs := registry.Tools()
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
		assert.NotEmpty(t, d.Description)

		var schema map[string]any
		require.NoError(t, json.Unmarshal(d.InputSchema, &schema), d.Name)
		assert.Equal(t, "object", schema["type"])
	}
	assert.Equal(t, []string{
		tools.ToolCreateTask,
		tools.ToolListTasks,
		tools.ToolUpdateTaskStatus,
		tools.ToolDeleteTask,
		tools.ToolGetTaskStats,
	}, names)
}

// TestRegistry_UnknownTool тестирует неизвестный инструмент
func TestRegistry_UnknownTool(t *testing.T) {
	registry, storage := newRegistry()

	_, err := registry.Call(context.Background(), "archive_task", map[string]any{"taskId": "task-1"})
	require.Error(t, err)
	assert.True(t, service.IsCode(err, service.CodeUnknownOperation))
	assert.Equal(t, 0, storage.Stats(context.Background()).Total)
}

// TestRegistry_CreateTask тестирует create_task
func TestRegistry_CreateTask(t *testing.T) {
	ctx := context.Background()
	registry, storage := newRegistry()

	res, err := registry.Call(ctx, tools.ToolCreateTask, map[string]any{
		"title":       "Write release notes",
		"description": "x",
		"dueDate":     "2025-01-15",
		"tags":        []any{"docs", "api"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "✅ Created task \"Write release notes\" (ID: task-1)\nPriority: medium\nDue: 1/15/2025\nTags: docs, api", res.Text())

	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	created, ok := data["task"].(task.Task)
	require.True(t, ok)
	assert.Equal(t, "task-1", created.ID)
	assert.Equal(t, 1, storage.Stats(ctx).Total)

	res, err = registry.Call(ctx, tools.ToolCreateTask, map[string]any{"title": "t", "description": "d"})
	require.NoError(t, err)
	assert.Contains(t, res.Text(), "Due: No due date\nTags: None")
}

// TestRegistry_CreateTaskValidation тестирует, что ошибки проверки не доходят до хранилища
func TestRegistry_CreateTaskValidation(t *testing.T) {
	ctx := context.Background()
	registry, storage := newRegistry()

	res, err := registry.Call(ctx, tools.ToolCreateTask, map[string]any{"title": "", "description": "d"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "❌ Error creating task: invalid value for field 'title': Title is required", res.Text())
	assert.Equal(t, 0, storage.Stats(ctx).Total)
}

// TestRegistry_ListTasks тестирует list_tasks с фильтрами и пустым результатом
func TestRegistry_ListTasks(t *testing.T) {
	ctx := context.Background()
	registry, _ := newRegistry(inmemory.WithSampleTasks())

	res, err := registry.Call(ctx, tools.ToolListTasks, nil)
	require.NoError(t, err)
	assert.Equal(t,
		"📋 Found 2 task(s):\n\n"+
			"📝 🔴 Set up CI/CD pipeline (task-1)\n"+
			"   Configure GitHub Actions for automated testing and deployment\n"+
			"   No due date [devops, automation]\n\n"+
			"📝 🟡 Write API documentation (task-2)\n"+
			"   Document all REST endpoints with examples\n"+
			"   No due date [docs, api]",
		res.Text())

	res, err = registry.Call(ctx, tools.ToolListTasks, map[string]any{"status": "completed"})
	require.NoError(t, err)
	assert.Equal(t, "📋 No tasks found matching your criteria.", res.Text())

	res, err = registry.Call(ctx, tools.ToolListTasks, map[string]any{"priority": "high"})
	require.NoError(t, err)
	data := res.Data.(map[string]any)
	listed := data["tasks"].([]task.Task)
	require.Len(t, listed, 1)
	assert.Equal(t, "task-1", listed[0].ID)

	res, err = registry.Call(ctx, tools.ToolListTasks, map[string]any{"status": "done"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "❌ Error listing tasks:")
}

// TestRegistry_UpdateTaskStatus тестирует update_task_status
func TestRegistry_UpdateTaskStatus(t *testing.T) {
	ctx := context.Background()
	registry, storage := newRegistry(inmemory.WithSampleTasks())

	res, err := registry.Call(ctx, tools.ToolUpdateTaskStatus, map[string]any{"taskId": "task-2", "status": "in-progress"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "🔄 Updated \"Write API documentation\" to in progress", res.Text())
	assert.Equal(t, 1, storage.Stats(ctx).InProgress)

	before := storage.List(ctx, task.ListFilter{})
	res, err = registry.Call(ctx, tools.ToolUpdateTaskStatus, map[string]any{"taskId": "task-42", "status": "completed"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "❌ Task \"task-42\" not found.", res.Text())
	assert.Equal(t, before, storage.List(ctx, task.ListFilter{}))
}

// TestRegistry_DeleteTask тестирует delete_task
func TestRegistry_DeleteTask(t *testing.T) {
	ctx := context.Background()
	registry, storage := newRegistry(inmemory.WithSampleTasks())

	res, err := registry.Call(ctx, tools.ToolDeleteTask, map[string]any{"taskId": "task-1"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, 1, storage.Stats(ctx).Total)

	res, err = registry.Call(ctx, tools.ToolDeleteTask, map[string]any{"taskId": "task-1"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "❌ Task \"task-1\" not found.", res.Text())
}

// TestRegistry_GetTaskStats тестирует get_task_stats
func TestRegistry_GetTaskStats(t *testing.T) {
	ctx := context.Background()
	registry, _ := newRegistry(inmemory.WithSampleTasks())

	_, err := registry.Call(ctx, tools.ToolUpdateTaskStatus, map[string]any{"taskId": "task-1", "status": "completed"})
	require.NoError(t, err)

	res, err := registry.Call(ctx, tools.ToolGetTaskStats, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t,
		"📊 Task Statistics:\n\n📋 Total Tasks: 2\n📝 Todo: 1\n🔄 In Progress: 0\n✅ Completed: 1\n⏰ Overdue: 0",
		res.Text())
	assert.Equal(t, task.Stats{Total: 2, Todo: 1, Completed: 1}, res.Data.(map[string]any)["stats"])
}

// TestRegistry_ReadResource тестирует ресурс tasks://summary
func TestRegistry_ReadResource(t *testing.T) {
	ctx := context.Background()
	registry, _ := newRegistry(inmemory.WithSampleTasks())

	resources := registry.Resources()
	require.Len(t, resources, 1)
	assert.Equal(t, tools.SummaryURI, resources[0].URI)

	contents, err := registry.ReadResource(ctx, tools.SummaryURI)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contents.MIMEType)

	var summary task.Summary
	require.NoError(t, json.Unmarshal([]byte(contents.Text), &summary))
	assert.Equal(t, 2, summary.Statistics.Total)
	assert.Len(t, summary.RecentTasks, 2)

	_, err = registry.ReadResource(ctx, "tasks://nope")
	assert.True(t, service.IsCode(err, service.CodeNotFound))
}

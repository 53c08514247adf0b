package service

import (
	"context"

	"taskManager/internal/models/task"
)

// TaskRepository - контракт хранилища задач. Отсутствие задачи передаётся
// через bool, а не через ошибку.
type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, task.CreateRequest) task.Task
	List(context.Context, task.ListFilter) []task.Task
	UpdateStatus(context.Context, string, task.Status) (task.Task, bool)
	Delete(context.Context, string) bool
	Stats(context.Context) task.Stats
}

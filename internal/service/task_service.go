package service

import (
	"context"
	"fmt"
	"sort"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"

	"go.uber.org/zap"
)

const resourceTask = "task"

// размер списка последних задач в сводке
const RecentTasksLimit = 5

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка хранилища: %w", err)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, req task.CreateRequest) task.Task {
	created := s.repo.Create(ctx, req)
	logger.Info("Service: Задача создана",
		zap.String("task_id", created.ID),
		zap.String("priority", string(created.Priority)))
	return created
}

func (s *TaskService) ListTasks(ctx context.Context, filter task.ListFilter) []task.Task {
	return s.repo.List(ctx, filter)
}

func (s *TaskService) UpdateTaskStatus(ctx context.Context, id string, status task.Status) (task.Task, error) {
	updated, ok := s.repo.UpdateStatus(ctx, id, status)
	if !ok {
		logger.Info("Service: Задача не найдена", zap.String("target_id", id))
		return task.Task{}, NewNotFound(resourceTask, id)
	}
	logger.Info("Service: Статус задачи обновлён",
		zap.String("task_id", id),
		zap.String("status", string(status)))
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if !s.repo.Delete(ctx, id) {
		logger.Info("Service: Задача не найдена", zap.String("target_id", id))
		return NewNotFound(resourceTask, id)
	}
	logger.Info("Service: Задача удалена", zap.String("task_id", id))
	return nil
}

func (s *TaskService) GetStats(ctx context.Context) task.Stats {
	return s.repo.Stats(ctx)
}

// GetSummary собирает сводку из статистики и пяти последних созданных задач.
// Берётся канонический список и переупорядочивается по createdAt.
func (s *TaskService) GetSummary(ctx context.Context) task.Summary {
	stats := s.repo.Stats(ctx)
	tasks := s.repo.List(ctx, task.ListFilter{})

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	if len(tasks) > RecentTasksLimit {
		tasks = tasks[:RecentTasksLimit]
	}

	recent := make([]task.SummaryTask, 0, len(tasks))
	for _, t := range tasks {
		recent = append(recent, task.ToSummaryTask(t))
	}
	return task.Summary{
		Statistics:  stats,
		RecentTasks: recent,
	}
}

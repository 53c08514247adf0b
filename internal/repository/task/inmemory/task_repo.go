package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"

	"go.uber.org/zap"
)

const idPrefix = "task-"

type TaskStorage struct {
	storage map[string]*task.Task
	mtx     *sync.RWMutex
	// порядок вставки, нужен для стабильной сортировки при равных createdAt
	ids    []string
	nextID int
	now    func() time.Time
}

type Option func(*TaskStorage)

// WithClock подменяет источник текущего времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *TaskStorage) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSampleTasks добавляет две демонстрационные задачи при создании хранилища
func WithSampleTasks() Option {
	return func(s *TaskStorage) {
		for _, req := range sampleTasks() {
			s.create(req)
		}
	}
}

func sampleTasks() []task.CreateRequest {
	return []task.CreateRequest{
		task.NewCreateRequest(
			"Set up CI/CD pipeline",
			"Configure GitHub Actions for automated testing and deployment",
			task.WithPriority(task.PriorityHigh),
			task.WithTags("devops", "automation"),
		),
		task.NewCreateRequest(
			"Write API documentation",
			"Document all REST endpoints with examples",
			task.WithPriority(task.PriorityMedium),
			task.WithTags("docs", "api"),
		),
	}
}

func NewTaskStorage(opts ...Option) *TaskStorage {
	s := &TaskStorage{
		storage: make(map[string]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []string{},
		nextID:  1,
		now:     time.Now,
	}
	// часы применяются раньше, чем сидирование
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Хранилище в памяти доступно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, req task.CreateRequest) task.Task {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.create(req).Clone()
}

// create вызывается под блокировкой записи (или из конструктора)
func (s *TaskStorage) create(req task.CreateRequest) *task.Task {
	priority := req.Priority
	if priority == "" {
		priority = task.PriorityMedium
	}

	tags := make([]string, 0, len(req.Tags))
	tags = append(tags, req.Tags...)

	var due *time.Time
	if req.DueDate != nil {
		d := *req.DueDate
		due = &d
	}

	newTask := &task.Task{
		ID:          fmt.Sprintf("%s%d", idPrefix, s.nextID),
		Title:       req.Title,
		Description: req.Description,
		Status:      task.StatusTodo,
		Priority:    priority,
		CreatedAt:   s.now(),
		DueDate:     due,
		Tags:        tags,
	}
	s.nextID++

	s.storage[newTask.ID] = newTask
	s.ids = append(s.ids, newTask.ID)
	return newTask
}

// List возвращает задачи, подходящие под фильтр: сначала по приоритету (high → low),
// затем самые новые. При одинаковом createdAt сохраняется порядок вставки.
func (s *TaskStorage) List(ctx context.Context, filter task.ListFilter) []task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		t := s.storage[id]
		if !filter.Match(*t) {
			continue
		}
		res = append(res, t.Clone())
	}

	sort.SliceStable(res, func(i, j int) bool {
		ri, rj := res[i].Priority.Rank(), res[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res
}

// UpdateStatus меняет только статус. false означает, что задачи с таким id нет.
func (s *TaskStorage) UpdateStatus(ctx context.Context, id string, status task.Status) (task.Task, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok {
		return task.Task{}, false
	}
	t.Status = status
	return t.Clone(), true
}

// полное удаление, без мягкого удаления и восстановления
func (s *TaskStorage) Delete(ctx context.Context, id string) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return false
	}
	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	logger.Debug("Repository: Задача удалена", zap.String("task_id", id))
	return true
}

func (s *TaskStorage) Stats(ctx context.Context) task.Stats {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	now := s.now()
	stats := task.Stats{Total: len(s.storage)}
	for _, t := range s.storage {
		switch t.Status {
		case task.StatusTodo:
			stats.Todo++
		case task.StatusInProgress:
			stats.InProgress++
		case task.StatusCompleted:
			stats.Completed++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}
	return stats
}

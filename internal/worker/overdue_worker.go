package worker

import (
	"context"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"

	"go.uber.org/zap"
)

const defaultInterval = 5 * time.Minute

type StatsProvider interface {
	GetStats(ctx context.Context) task.Stats
}

// OverdueWorker периодически пересчитывает статистику и сообщает о просроченных задачах.
// Задачи он не меняет: просрочка вычисляется, а не хранится в статусе.
type OverdueWorker struct {
	stats    StatsProvider
	interval time.Duration
	// последнее залогированное значение, чтобы не повторять предупреждение
	lastOverdue int
}

func NewOverdueWorker(stats StatsProvider, interval *time.Duration) *OverdueWorker {
	intervalToSet := defaultInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}
	return &OverdueWorker{
		stats:       stats,
		interval:    intervalToSet,
		lastOverdue: -1,
	}
}

func (w *OverdueWorker) Interval() time.Duration {
	return w.interval
}

func (w *OverdueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Фоновая проверка просроченных задач запущена", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *OverdueWorker) Check(ctx context.Context) task.Stats {
	start := time.Now()
	stats := w.stats.GetStats(ctx)

	fields := []zap.Field{
		zap.Duration("ms", time.Since(start)),
		zap.Int("total", stats.Total),
		zap.Int("overdue", stats.Overdue),
	}
	if stats.Overdue > 0 && stats.Overdue != w.lastOverdue {
		logger.Warn("Worker: Есть просроченные задачи", fields...)
	} else {
		logger.Debug("Worker: Завершение проверки задач", fields...)
	}
	w.lastOverdue = stats.Overdue
	return stats
}

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/mcpserver"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/service"
	"taskManager/internal/tools"
	"taskManager/internal/worker"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config     *config.Config
	server     *http.Server
	mcp        *mcpserver.Server
	repository service.TaskRepository
	service    *service.TaskService
	registry   *tools.Registry
	worker     *worker.OverdueWorker
	stdin      io.Reader
	stdout     io.Writer
	shutdowns  []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		shutdowns: make([]func(), 0),
	}
}

// WithStdio подменяет потоки транспорта MCP (для тестов)
func (a *App) WithStdio(in io.Reader, out io.Writer) *App {
	a.stdin = in
	a.stdout = out
	return a
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	var storeOpts []inmemory.Option
	if a.config.Store.SeedSamples {
		storeOpts = append(storeOpts, inmemory.WithSampleTasks())
	}
	a.repository = inmemory.NewTaskStorage(storeOpts...)
	a.service = service.NewTaskService(a.repository)
	a.registry = tools.NewRegistry(a.service)

	interval := a.config.Worker.OverdueInterval
	a.worker = worker.NewOverdueWorker(a.service, &interval)

	if a.config.HTTPEnabled() {
		handler := handlers.NewToolHandler(a.registry, a.service)
		a.server = &http.Server{
			Addr: a.config.GetServerAddr(),
			Handler: handlers.NewRouter(handler, handlers.RouterConfig{
				RateLimitRPM:   a.config.Server.RateLimitRPM,
				RequestTimeout: a.config.Server.RequestTimeout,
				AllowedOrigins: a.config.Server.AllowedOrigins,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	if a.config.StdioEnabled() {
		a.mcp = mcpserver.New(a.registry)
	}

	logger.Info("App: Инициализация завершена",
		zap.String("transport", a.config.Transport.Mode),
		zap.Bool("seed_samples", a.config.Store.SeedSamples))
	return a, nil
}

func (a *App) Handler() http.Handler {
	if a.server == nil {
		return nil
	}
	return a.server.Handler
}

// Run блокируется до отмены ctx или падения одного из транспортов.
// В режиме stdio закрытие входного потока тоже завершает работу,
// в режиме both останавливается только MCP, HTTP продолжает обслуживать запросы.
func (a *App) Run(ctx context.Context) error {
	defer a.shutdown()

	g, gctx := errgroup.WithContext(ctx)
	// отменяется, когда stdio завершился сам (EOF) и HTTP не запущен
	runCtx, stop := context.WithCancel(gctx)
	defer stop()

	g.Go(func() error {
		a.worker.Start(runCtx)
		return nil
	})

	if a.server != nil {
		g.Go(func() error {
			logger.Info("HTTP: Сервер запущен", zap.String("addr", a.server.Addr))
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http сервер: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-runCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
			defer cancel()
			logger.Info("HTTP: Остановка сервера")
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("остановка http сервера: %w", err)
			}
			return nil
		})
	}

	if a.mcp != nil {
		g.Go(func() error {
			err := a.mcp.Serve(runCtx, a.stdin, a.stdout)
			if a.server == nil {
				stop()
			} else if err == nil && runCtx.Err() == nil {
				logger.Info("MCP: Входной поток закрыт, HTTP продолжает работу")
			}
			return err
		})
	}

	return g.Wait()
}

func (a *App) shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

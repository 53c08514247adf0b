package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskManager/internal/app"
	"taskManager/internal/config"
	"taskManager/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yml", "путь к YAML-конфигу")
	transport := flag.String("transport", "", "транспорт: http, stdio или both (перекрывает конфиг)")
	flag.Parse()

	if *transport != "" {
		os.Setenv("TASKS_TRANSPORT", *transport)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "конфигурация: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg).Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "инициализация: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("App: Аварийное завершение", err)
		os.Exit(1)
	}
}

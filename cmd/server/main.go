package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"coderoom/internal/api"
	"coderoom/internal/exec"
	"coderoom/internal/pubsub"
	"coderoom/internal/routers"
	"coderoom/internal/session"
	"coderoom/internal/utils"
)

var (
	listenAndServe = http.ListenAndServe
	exitFunc       = func(err error) { log.Fatal(err) }
)

func run(_ context.Context) error {
	logger := utils.NewLogger()

	workDir := os.Getenv("WORK_DIR")
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "coderoom")
	}

	registry := session.NewRegistry()
	router := session.NewRouter(registry)
	orchestrator := exec.NewOrchestrator(logger, workDir)

	var events session.EventPublisher
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		events = pubsub.NewPublisher(redisAddr, os.Getenv("ROOM_EVENTS_CHANNEL"))
	}

	coordinator := session.NewCoordinator(logger, registry, router, orchestrator, events)
	handlers := api.NewHandlers(logger, coordinator, orchestrator)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)
	r.Mount("/", routers.New(handlers))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("coderoom listening", "addr", addr, "workDir", workDir)
	return listenAndServe(addr, r)
}

func main() {
	if err := run(context.Background()); err != nil {
		exitFunc(err)
	}
}

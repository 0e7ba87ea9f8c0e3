package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"solitaire-cipher/internal/config"
	"solitaire-cipher/internal/database"
	"solitaire-cipher/internal/handlers"
	"solitaire-cipher/internal/tracing"
	"solitaire-cipher/pkg/websocket"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	shutdownTracing, err := tracing.InitTracer(context.Background(), tracing.Config{
		ServiceName: handlers.ServiceName,
		Environment: cfg.AppEnv,
		PrettyPrint: cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown error: %v", err)
		}
	}()

	db, err := database.OpenAndMigrate(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("db open/migrate: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}()

	hubRef := websocket.NewHubRef(websocket.NewHub())
	go runHub(hubRef)

	handlers.SetWebSocketOriginPolicy(cfg.IsDevelopment(), cfg.DevWebSocketsAllowAll, cfg.WSAllowedOrigins)
	handlers.SetHubProvider(hubRef.Get)

	r := handlers.NewRouter(db, cfg, hubRef.Get)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %v", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	if h, ok := hubRef.Get(); ok {
		h.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}

// runHub runs the current hub and replaces it with a fresh one if Run
// panics. It returns once a hub stops normally.
func runHub(ref *websocket.HubRef) {
	for {
		current, ok := ref.Get()
		if !ok {
			ref.Set(websocket.NewHub())
			continue
		}

		panicked := false
		func() {
			defer func() {
				if r := recover(); r != nil {
					panicked = true
					log.Printf("hub.Run panic: %v\n%s", r, debug.Stack())
				}
			}()
			current.Run()
		}()
		if !panicked {
			return
		}

		// Callers still holding the dead hub must not block.
		current.Stop()
		ref.Set(websocket.NewHub())
		time.Sleep(1 * time.Second)
	}
}

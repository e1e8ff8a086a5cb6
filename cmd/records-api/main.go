// main is the entry point of the records API.
//
// STARTUP SEQUENCE:
//  1. Load a .env file, if one exists
//  2. Load configuration from a YAML file
//  3. Initialise the logger
//  4. Open the flat-file record store (creates/seeds the data dir)
//  5. Register all HTTP routes
//  6. Start the HTTP server in a separate goroutine
//  7. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  8. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/records-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/records-api
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/schoolhub/records-api/internal/config"
	"github.com/schoolhub/records-api/internal/http/handlers/alumni"
	"github.com/schoolhub/records-api/internal/http/handlers/auth"
	"github.com/schoolhub/records-api/internal/http/handlers/student"
	"github.com/schoolhub/records-api/internal/http/middleware"
	"github.com/schoolhub/records-api/internal/storage/jsonfile"
	"github.com/schoolhub/records-api/internal/utils/response"
)

func main() {
	// ── 1. Load .env ──────────────────────────────────────────────────────
	// godotenv populates the environment from a .env file when present,
	// so ENV / DATA_DIR / HTTP_SERVER_ADDR overrides work locally the
	// same way they do in a container. Missing file is fine.
	_ = godotenv.Load()

	// ── 2. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config and fatals if anything is wrong.
	// If this returns, config is guaranteed valid.
	cfg := config.MustLoad()

	// ── 3. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger (stdlib since Go 1.21).
	// SetDefault makes the configured handler available to every package
	// that logs via the top-level slog functions.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting records-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 4. Initialise Storage ─────────────────────────────────────────────
	// jsonfile.New creates the data directory and seeds students.json on
	// first run. *jsonfile.Store satisfies the storage.Store interface,
	// and the handlers only ever see the interface types — the flat-file
	// backend could be swapped without touching them.
	store, err := jsonfile.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storage initialised", slog.String("data_dir", cfg.DataDir))

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	// The handler functions (student.New, alumni.GetList, etc.) are
	// FACTORIES — they receive a collection and return the actual
	// handler. This is the dependency injection / closure pattern.
	//
	// Route table:
	//   GET    /api/students        → list all students
	//   GET    /api/students/{id}   → get one student
	//   POST   /api/students        → create a student
	//   PUT    /api/students/{id}   → replace a student
	//   DELETE /api/students/{id}   → delete a student
	//   (same five for /api/alumni)
	//   POST   /api/auth/login      → credential check
	//   GET    /health              → liveness probe
	router := http.NewServeMux()

	router.HandleFunc("GET /api/students", student.GetList(store.Students()))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(store.Students()))
	router.HandleFunc("POST /api/students", student.New(store.Students()))
	router.HandleFunc("PUT /api/students/{id}", student.Update(store.Students()))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(store.Students()))

	router.HandleFunc("GET /api/alumni", alumni.GetList(store.Alumni()))
	router.HandleFunc("GET /api/alumni/{id}", alumni.GetByID(store.Alumni()))
	router.HandleFunc("POST /api/alumni", alumni.New(store.Alumni()))
	router.HandleFunc("PUT /api/alumni/{id}", alumni.Update(store.Alumni()))
	router.HandleFunc("DELETE /api/alumni/{id}", alumni.Delete(store.Alumni()))

	router.HandleFunc("POST /api/auth/login", auth.Login(store))

	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})

	// The browser UI is served from a different origin, so CORS is
	// enabled for every route. Default() allows all origins with the
	// simple methods — same posture as the original deployment.
	handler := cors.Default().Handler(middleware.Recover(router))

	// ── 6. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr, // e.g. "localhost:5000"
		Handler: handler,

		// Timeouts prevent slow clients from pinning connections open.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 7. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks forever; running it here in main() would keep
	// the graceful-shutdown code below from ever executing.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected — not an error worth logging.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 8. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered so we don't miss the signal if main is briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	// Stop accepting new connections, give in-flight requests 5 seconds
	// to complete, then exit.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yeremiapane/waffle-wala/config"
	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/router"
	"github.com/yeremiapane/waffle-wala/utils"
)

func init() {
	utils.InitLogger()
}

func main() {
	cfg := config.Load()
	utils.SetLevel(cfg.LogLevel)

	// Set gin mode
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := config.InitStorage(ctx, cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to session storage: %v", err)
	}
	defer kv.Close()

	if cfg.JWTSecret != "" {
		utils.SetJWTSecret(cfg.JWTSecret)
	}

	store := database.NewGormStore(db)
	app := router.NewApp(cfg, store, kv)

	if err := app.Stock.Initialize(ctx); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed stock: %v", err)
	}

	// Monitor mulai dari perubahan terakhir, bukan dari awal log
	if err := app.Monitor.Prime(ctx); err != nil {
		utils.ErrorLogger.Errorf("Failed to prime change monitor: %v", err)
	}
	app.Monitor.Start()
	defer app.Monitor.Stop()

	app.Holds.Start(time.Minute)
	defer app.Holds.Stop()

	r, err := router.SetupRouter(app)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to set up router: %v", err)
	}
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Errorf("Failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, "waffle-wala"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}
}

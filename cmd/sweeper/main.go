package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"mavina/internal/config"
	"mavina/internal/database"
	"mavina/internal/jobs"
	"mavina/internal/modules/appointment"
	"mavina/internal/pkg/logger"
	"mavina/internal/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// sweeper cancels requests the provider never approved before their start time.
// With -once it runs a single pass and exits, for use from an external scheduler.
func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db, repository.Models()...); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	svc := appointment.NewService(appointment.Deps{
		Repo: repository.NewAppointmentRepository(db),
		Log:  zl,
	})
	sweeper := jobs.NewSweeper(svc, cfg.SweepSpec, zl)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		n, err := sweeper.RunOnce(ctx)
		if err != nil {
			zl.Fatal("sweep failed", zap.Error(err))
		}
		zl.Info("sweep completed", zap.Int("expired", n))
		return
	}

	if err := sweeper.Start(ctx); err != nil {
		zl.Fatal("sweeper stopped", zap.Error(err))
	}
}

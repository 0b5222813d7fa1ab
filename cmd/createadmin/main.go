// Command createadmin creates a staff user, or promotes an existing one.
//
//	createadmin -email admin@example.com -password secret123
package main

import (
	"context"
	"errors"
	"flag"
	stdlog "log"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/database"
	"github.com/iliyamo/cinema-booking/internal/logger"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (new users only)")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		stdlog.Fatalf("logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	if *email == "" {
		log.Fatal("-email is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	u, err := users.GetByEmail(ctx, *email)
	switch {
	case err == nil:
		if err := users.SetStaff(ctx, u.ID, true); err != nil {
			log.Fatal("promote user failed", zap.Error(err))
		}
		log.Info("user promoted to staff", zap.Uint64("user_id", u.ID))
	case errors.Is(err, repository.ErrNotFound):
		if *password == "" {
			log.Fatal("-password is required for a new user")
		}
		id, err := users.Create(ctx, *email, *password, true, cfg.BcryptCost)
		if err != nil {
			log.Fatal("create user failed", zap.Error(err))
		}
		log.Info("staff user created", zap.Uint64("user_id", id))
	default:
		log.Fatal("lookup user failed", zap.Error(err))
	}
}

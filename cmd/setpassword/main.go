// Command setpassword stores a bcrypt hash of the shared password used by
// POST /auth.
//
//	setpassword -password 's3cret'
//	POLL_PASSWORD='s3cret' setpassword
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"polling-backend/internal/config"
	"polling-backend/internal/domain/auth"
	"polling-backend/internal/platform/database"
	"polling-backend/internal/repository/mongodb"
	"polling-backend/internal/repository/postgres"
)

func main() {
	password := flag.String("password", os.Getenv("POLL_PASSWORD"), "shared password to store")
	flag.Parse()

	if err := run(*password); err != nil {
		fmt.Fprintln(os.Stderr, "setpassword:", err)
		os.Exit(1)
	}
	fmt.Println("shared password updated")
}

func run(password string) error {
	if password == "" {
		return fmt.Errorf("password is required (-password or POLL_PASSWORD)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var repo auth.Repository
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.DB_DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.CreateSchema(ctx, db); err != nil {
			return err
		}
		repo = postgres.NewPasswordRepo(db)
	default:
		client, err := database.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())
		repo = mongodb.NewPasswordRepo(client.Database(cfg.MongoDB))
	}

	return auth.NewService(repo).SetPassword(ctx, password)
}

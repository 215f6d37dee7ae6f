package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ironslayer/parking-management-system/config"
	"github.com/joho/godotenv"
)

var (
	configPath     = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	migrationsPath = flag.String("migrations-path", "migrations", "Path to the migrations directory")
)

// Applies database migrations. Usage:
//
//	migrate [flags] up|down
func main() {
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	dsn := fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
	)

	m, err := migrate.New("file://"+*migrationsPath, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init migrations: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	command := flag.Arg(0)
	switch command {
	case "", "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q, want up or down\n", command)
		os.Exit(1)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("migrations applied")
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/config"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"github.com/livecommerce/backend/internal/infrastructure/migration"
	"github.com/livecommerce/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if args[0] == "seed-admin" {
		if err := seedAdmin(cfg, log, args[1:]); err != nil {
			log.Fatal("Seeding admin failed", zap.Error(err))
		}
		return
	}

	cmd, err := migration.ParseCommand(args)
	if err != nil {
		log.Error("Invalid command", zap.Error(err))
		printUsage()
		os.Exit(1)
	}

	migrationsPath, err = resolveMigrationsPath(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}
	log.Info("Migration CLI started",
		zap.String("command", cmd.Name),
		zap.String("migrations_path", migrationsPath),
	)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	if cmd.Name == "force" {
		log.Warn("Forcing migration version - use with caution!")
	}
	out, err := migration.Execute(m, cmd)
	if err != nil {
		log.Fatal("Migration failed", zap.String("command", cmd.Name), zap.Error(err))
	}
	if out != "" {
		fmt.Println(out)
	}
}

// seedAdmin creates the first super admin: seed-admin <email> <password> [name]
func seedAdmin(cfg *config.Config, log *zap.Logger, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: migrate seed-admin <email> <password> [name]")
	}
	name := "Super Admin"
	if len(args) > 2 {
		name = args[2]
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, "warn")
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := persistence.NewGormAdminRepository(db.DB)
	admin, err := identity.NewAdmin(name, args[0], args[1], identity.RoleSuperAdmin)
	if err != nil {
		return err
	}
	exists, err := repo.ExistsByEmail(ctx, admin.Email)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "An admin with this email already exists")
	}
	if err := repo.Save(ctx, admin); err != nil {
		return err
	}
	log.Info("Super admin created", zap.String("admin_id", admin.ID.String()), zap.String("email", admin.Email))
	return nil
}

func resolveMigrationsPath(path string) (string, error) {
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if execPath, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(execPath), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	return filepath.Abs(path)
}

func printUsage() {
	fmt.Println(`Live Commerce Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                                Apply all pending migrations
  down                              Roll back all migrations
  steps <n>                         Apply n migrations (positive=up, negative=down)
  goto <version>                    Migrate to a specific version
  version                           Show current migration version
  force <version>                   Force set migration version (use with caution)
  seed-admin <email> <pass> [name]  Create the first super admin

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  LIVECOM_DATABASE_HOST, LIVECOM_DATABASE_PORT, LIVECOM_DATABASE_USER,
  LIVECOM_DATABASE_PASSWORD, LIVECOM_DATABASE_DBNAME, LIVECOM_DATABASE_SSLMODE

Examples:
  migrate up
  migrate steps -1
  migrate seed-admin owner@shop.id 'S3cure-pass' "Shop Owner"`)
}

// AngelaMos | 2026
// migrate.go

package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/condoview/api/internal/config"
)

// RunMigrations applies any pending file migrations before the pool opens.
// A no-change state is not an error.
func RunMigrations(cfg config.DatabaseConfig) error {
	if cfg.MigrationsPath == "" {
		return nil
	}

	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.URL)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			slog.Warn("close migration source", "error", srcErr)
		}
		if dbErr != nil {
			slog.Warn("close migration database", "error", dbErr)
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}

	slog.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}

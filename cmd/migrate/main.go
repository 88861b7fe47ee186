package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/hr-sync/internal/platform/config"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing per-store migration directories")
		store         = flag.String("store", "", "target store: hr, payroll, identity (all when empty)")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfgPath := effectiveConfigPath(*configPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	targets, err := resolveTargets(cfg, *store)
	if err != nil {
		log.Fatalf("%v", err)
	}

	for _, target := range targets {
		dir := filepath.Join(*migrationsDir, target.store)
		if err := runMigration(action, dir, target.url); err != nil {
			log.Fatalf("migration %s on %s failed: %v", action, target.store, err)
		}
		log.Printf("migration %s on %s completed", action, target.store)
	}
}

type migrationTarget struct {
	store string
	url   string
}

// resolveTargets はストア名から migrate 用の接続 URL を決定します。
func resolveTargets(cfg *config.Config, store string) ([]migrationTarget, error) {
	all := []migrationTarget{
		{store: "hr", url: cfg.HRDatabase.DSN()},
		{store: "payroll", url: cfg.PayrollDatabase.DSN()},
		{store: "identity", url: cfg.IdentityDatabase.MigrateURL()},
	}
	if store == "" {
		return all, nil
	}
	for _, t := range all {
		if t.store == store {
			return []migrationTarget{t}, nil
		}
	}
	return nil, fmt.Errorf("unknown store %q", store)
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func runMigration(action, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				log.Printf("no migration applied")
				return nil
			}
			return err
		}
		log.Printf("version=%d dirty=%t", version, dirty)
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}

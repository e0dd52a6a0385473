package main

import (
	"flag"
	"log"

	"ecommerce_api/internal/pkg/config"

	"github.com/go-faster/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	down := flag.Bool("down", false, "回滚全部迁移")
	force := flag.Int("force", -1, "强制设置版本（修复 dirty 状态）")
	source := flag.String("source", "file://migrations", "迁移文件目录")
	flag.Parse()

	config.LoadConfig()
	cfg := config.GlobalConfig.Database
	if cfg.Driver != config.DriverPostgres {
		log.Fatalf("migrations only apply to postgres, current driver: %s", cfg.Driver)
	}

	m, err := migrate.New(*source, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	switch {
	case *force >= 0:
		err = m.Force(*force)
	case *down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			log.Fatalf("database is dirty at version %d, fix it and rerun with -force %d", dirty.Version, dirty.Version-1)
		}
		log.Fatal(err)
	}

	version, isDirty, _ := m.Version()
	log.Printf("Migration successful, version=%d dirty=%v", version, isDirty)
}

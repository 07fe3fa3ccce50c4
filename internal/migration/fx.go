package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/lunelaser/lunebill/internal/config"
	invoicedomain "github.com/lunelaser/lunebill/internal/invoice/domain"
	machinedomain "github.com/lunelaser/lunebill/internal/machine/domain"
	officedomain "github.com/lunelaser/lunebill/internal/office/domain"
	"github.com/lunelaser/lunebill/internal/seed"
	usagedomain "github.com/lunelaser/lunebill/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if cfg.DBType == "sqlite" {
			// SQLite deployments are for local evaluation; gorm's
			// migrator is enough there and keeps the SQL files
			// Postgres-only.
			if err := conn.AutoMigrate(
				&officedomain.Office{},
				&machinedomain.Machine{},
				&usagedomain.UsageRecord{},
				&invoicedomain.Invoice{},
			); err != nil {
				return err
			}
		} else {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		}

		if cfg.SeedSampleData {
			return seed.EnsureSampleData(conn, node, log)
		}
		return nil
	}),
)

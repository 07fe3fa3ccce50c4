package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/lunelaser/lunebill/internal/clock"
	"github.com/lunelaser/lunebill/internal/config"
	"github.com/lunelaser/lunebill/internal/invoice"
	"github.com/lunelaser/lunebill/internal/logger"
	"github.com/lunelaser/lunebill/internal/machine"
	"github.com/lunelaser/lunebill/internal/migration"
	"github.com/lunelaser/lunebill/internal/observability/metrics"
	"github.com/lunelaser/lunebill/internal/office"
	"github.com/lunelaser/lunebill/internal/providers/email"
	"github.com/lunelaser/lunebill/internal/providers/pdf"
	"github.com/lunelaser/lunebill/internal/server"
	"github.com/lunelaser/lunebill/internal/usage"
	"github.com/lunelaser/lunebill/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		migration.Module,

		office.Module,
		machine.Module,
		usage.Module,
		invoice.Module,
		email.Module,
		pdf.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/reclamohq/reclamo/internal/clock"
	"github.com/reclamohq/reclamo/internal/config"
	"github.com/reclamohq/reclamo/internal/migration"
	"github.com/reclamohq/reclamo/internal/observability"
	"github.com/reclamohq/reclamo/internal/server"
	"github.com/reclamohq/reclamo/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) *snowflake.Node {
	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		panic(err)
	}
	return node
}

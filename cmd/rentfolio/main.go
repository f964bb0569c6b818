package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentfolio/internal/clock"
	"github.com/smallbiznis/rentfolio/internal/config"
	"github.com/smallbiznis/rentfolio/internal/migration"
	"github.com/smallbiznis/rentfolio/internal/observability"
	"github.com/smallbiznis/rentfolio/internal/server"
	"github.com/smallbiznis/rentfolio/pkg/db"
	"github.com/smallbiznis/rentfolio/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// HTTP surface plus the domain modules and scheduler it wires in
		server.Module,
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

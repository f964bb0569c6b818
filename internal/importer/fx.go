package importer

import (
	"github.com/smallbiznis/rentfolio/internal/importer/repository"
	"github.com/smallbiznis/rentfolio/internal/importer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("importer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package delinquency

import (
	"github.com/smallbiznis/rentfolio/internal/delinquency/repository"
	"github.com/smallbiznis/rentfolio/internal/delinquency/service"
	"go.uber.org/fx"
)

var Module = fx.Module("delinquency.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

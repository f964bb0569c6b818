package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/rentfolio/internal/config"
	"github.com/smallbiznis/rentfolio/internal/delinquency"
	delinquencydomain "github.com/smallbiznis/rentfolio/internal/delinquency/domain"
	"github.com/smallbiznis/rentfolio/internal/importer"
	importerdomain "github.com/smallbiznis/rentfolio/internal/importer/domain"
	"github.com/smallbiznis/rentfolio/internal/lock"
	obslogger "github.com/smallbiznis/rentfolio/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/rentfolio/internal/observability/metrics"
	obstracing "github.com/smallbiznis/rentfolio/internal/observability/tracing"
	"github.com/smallbiznis/rentfolio/internal/portfolio"
	"github.com/smallbiznis/rentfolio/internal/providers"
	"github.com/smallbiznis/rentfolio/internal/scheduler"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	lock.Module,
	providers.Module,
	portfolio.Module,
	importer.Module,
	delinquency.Module,
	scheduler.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.HTTP().GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	genID          *snowflake.Node
	importSvc      importerdomain.Service
	delinquencySvc delinquencydomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	GenID          *snowflake.Node
	ImportSvc      importerdomain.Service
	DelinquencySvc delinquencydomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		importSvc:      p.ImportSvc,
		delinquencySvc: p.DelinquencySvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1", s.OrgContext())

	imports := v1.Group("/import")
	{
		imports.POST("/upload", s.UploadImportFile)
		imports.GET("", s.ListImportJobs)
		imports.GET("/:id", s.GetImportJob)
		imports.PUT("/:id/mapping", s.UpdateImportMapping)
		imports.POST("/:id/execute", s.ExecuteImportJob)
		imports.POST("/:id/rollback", s.RollbackImportJob)
	}

	delinquency := v1.Group("/delinquency")
	{
		delinquency.POST("/playbooks", s.CreatePlaybook)
		delinquency.GET("/playbooks", s.ListPlaybooks)
		delinquency.GET("/playbooks/:id", s.GetPlaybook)
		delinquency.PUT("/playbooks/:id", s.UpdatePlaybook)
		delinquency.DELETE("/playbooks/:id", s.DeletePlaybook)
		delinquency.GET("/actions", s.ListDelinquencyActions)
		delinquency.POST("/sweep", s.TriggerDelinquencySweep)
	}
}

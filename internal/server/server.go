package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/geodata/internal/cache"
	"github.com/smallbiznis/geodata/internal/config"
	"github.com/smallbiznis/geodata/internal/exporter"
	exporterdomain "github.com/smallbiznis/geodata/internal/exporter/domain"
	"github.com/smallbiznis/geodata/internal/geo"
	"github.com/smallbiznis/geodata/internal/importer"
	importerdomain "github.com/smallbiznis/geodata/internal/importer/domain"
	"github.com/smallbiznis/geodata/internal/observability"
	obsmiddleware "github.com/smallbiznis/geodata/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/geodata/internal/observability/metrics"
	obstracing "github.com/smallbiznis/geodata/internal/observability/tracing"
	"github.com/smallbiznis/geodata/internal/ratelimit"
	"github.com/smallbiznis/geodata/internal/search"
	searchdomain "github.com/smallbiznis/geodata/internal/search/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	geo.Module,
	cache.Module,
	search.Module,
	importer.Module,
	exporter.Module,
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())
	r.Use(Localizer())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
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
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	searchSvc   searchdomain.Service
	importerSvc importerdomain.Service
	exporterSvc exporterdomain.Service
	limiter     *ratelimit.UploadLimiter
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	SearchSvc   searchdomain.Service
	ImporterSvc importerdomain.Service
	ExporterSvc exporterdomain.Service
	Limiter     *ratelimit.UploadLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		searchSvc:   p.SearchSvc,
		importerSvc: p.ImporterSvc,
		exporterSvc: p.ExporterSvc,
		limiter:     p.Limiter,
	}

	svc.engine.SetHTMLTemplate(uploadTemplate)
	svc.registerAPIRoutes()
	svc.registerTransferRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/cities/:language", s.SearchCities)
	api.GET("/cities/:language/", s.SearchCities)
	api.GET("/languages", s.ListLanguages)
	api.GET("/currencies", s.ListCurrencies)
}

// registerTransferRoutes mounts the spreadsheet upload and download pages.
func (s *Server) registerTransferRoutes() {
	for _, entity := range []importerdomain.Entity{
		importerdomain.EntityCountries,
		importerdomain.EntityRegions,
		importerdomain.EntityCities,
	} {
		s.engine.GET("/upload-"+string(entity)+"/", s.UploadForm(entity))
		s.engine.POST("/upload-"+string(entity)+"/", s.Upload(entity))
		s.engine.GET("/download-"+string(entity)+"/:empty/", s.Download(entity))
	}
}

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reclamohq/reclamo/internal/billing"
	billingdomain "github.com/reclamohq/reclamo/internal/billing/domain"
	"github.com/reclamohq/reclamo/internal/claim"
	claimdomain "github.com/reclamohq/reclamo/internal/claim/domain"
	"github.com/reclamohq/reclamo/internal/config"
	"github.com/reclamohq/reclamo/internal/credit"
	creditdomain "github.com/reclamohq/reclamo/internal/credit/domain"
	"github.com/reclamohq/reclamo/internal/entitlement"
	entitlementdomain "github.com/reclamohq/reclamo/internal/entitlement/domain"
	"github.com/reclamohq/reclamo/internal/observability"
	obsmiddleware "github.com/reclamohq/reclamo/internal/observability/logger"
	obsmetrics "github.com/reclamohq/reclamo/internal/observability/metrics"
	obstracing "github.com/reclamohq/reclamo/internal/observability/tracing"
	"github.com/reclamohq/reclamo/internal/organization"
	orgdomain "github.com/reclamohq/reclamo/internal/organization/domain"
	"github.com/reclamohq/reclamo/internal/plan"
	plandomain "github.com/reclamohq/reclamo/internal/plan/domain"
	"github.com/reclamohq/reclamo/internal/quota"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	plan.Module,
	organization.Module,
	claim.Module,
	credit.Module,
	quota.Module,
	billing.Module,
	entitlement.Module,
	fx.Invoke(NewServer),
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

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
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
	claimSvc       claimdomain.Service
	creditSvc      creditdomain.Service
	entitlementSvc entitlementdomain.Service
	billingSvc     billingdomain.Service
	orgSvc         orgdomain.Service
	catalog        plandomain.Catalog
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	GenID          *snowflake.Node
	ClaimSvc       claimdomain.Service
	CreditSvc      creditdomain.Service
	EntitlementSvc entitlementdomain.Service
	BillingSvc     billingdomain.Service
	OrgSvc         orgdomain.Service
	Catalog        plandomain.Catalog
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		claimSvc:       p.ClaimSvc,
		creditSvc:      p.CreditSvc,
		entitlementSvc: p.EntitlementSvc,
		billingSvc:     p.BillingSvc,
		orgSvc:         p.OrgSvc,
		catalog:        p.Catalog,
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.POST("/webhooks/billing", s.HandleBillingWebhook)

	api.POST("/claims", s.SubmitClaim)

	api.GET("/businesses/:id/entitlement", s.GetEntitlement)
	api.POST("/businesses/:id/replies", s.PostReply)

	api.POST("/billing/checkout", s.StartCheckout)
	api.POST("/billing/portal", s.OpenPortal)

	api.GET("/plans", s.ListPlans)

	api.POST("/organizations", s.CreateOrganization)
	api.GET("/organizations/:id", s.GetOrganization)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/v1/admin")

	admin.POST("/claims/:id/decision", s.DecideClaim)
	admin.POST("/credits", s.GrantCredits)
}

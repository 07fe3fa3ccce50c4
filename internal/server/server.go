package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lunelaser/lunebill/internal/config"
	invoicedomain "github.com/lunelaser/lunebill/internal/invoice/domain"
	machinedomain "github.com/lunelaser/lunebill/internal/machine/domain"
	"github.com/lunelaser/lunebill/internal/observability/logger"
	obsmetrics "github.com/lunelaser/lunebill/internal/observability/metrics"
	officedomain "github.com/lunelaser/lunebill/internal/office/domain"
	"github.com/lunelaser/lunebill/internal/providers/pdf"
	usagedomain "github.com/lunelaser/lunebill/internal/usage/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewEngine assembles the gin engine with the shared middleware chain.
func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(log, logger.MiddlewareConfig{
		Debug:           !cfg.IsProduction(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	officeSvc      officedomain.Service
	machineSvc     machinedomain.Service
	usageSvc       usagedomain.Service
	invoiceSvc     invoicedomain.Service
	pdf            pdf.Provider
	billingMetrics *obsmetrics.BillingMetrics
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	OfficeSvc      officedomain.Service
	MachineSvc     machinedomain.Service
	UsageSvc       usagedomain.Service
	InvoiceSvc     invoicedomain.Service
	PDF            pdf.Provider
	BillingMetrics *obsmetrics.BillingMetrics
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		officeSvc:      p.OfficeSvc,
		machineSvc:     p.MachineSvc,
		usageSvc:       p.UsageSvc,
		invoiceSvc:     p.InvoiceSvc,
		pdf:            p.PDF,
		billingMetrics: p.BillingMetrics,
	}

	svc.registerAPIRoutes()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	offices := api.Group("/offices")
	offices.GET("", s.ListOffices)
	offices.POST("", s.CreateOffice)
	offices.GET("/:id", s.GetOfficeByID)
	offices.PUT("/:id", s.UpdateOffice)
	offices.DELETE("/:id", s.DeleteOffice)

	machines := api.Group("/machines")
	machines.GET("", s.ListMachines)
	machines.POST("", s.CreateMachine)
	machines.GET("/serial/:serial", s.GetMachineBySerial)
	machines.GET("/:id", s.GetMachineByID)
	machines.PUT("/:id", s.UpdateMachine)
	machines.DELETE("/:id", s.DeleteMachine)
	machines.GET("/:id/usage-months", s.AvailableUsageMonths)
	machines.GET("/:id/usage/:year/:month", s.MonthlyUsageStats)

	usage := api.Group("/usage")
	usage.GET("", s.ListUsage)
	usage.POST("", s.RecordUsage)
	usage.PUT("/:id", s.UpdateUsage)
	usage.DELETE("/:id", s.DeleteUsage)

	invoices := api.Group("/invoices")
	invoices.GET("", s.ListInvoices)
	invoices.POST("/generate", s.GenerateInvoice)
	invoices.GET("/:id", s.GetInvoiceByID)
	invoices.PATCH("/:id/status", s.UpdateInvoiceStatus)
	invoices.GET("/:id/pdf", s.DownloadInvoicePDF)
	invoices.GET("/:id/csv", s.DownloadInvoiceCSV)
	invoices.POST("/:id/send", s.SendInvoice)
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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

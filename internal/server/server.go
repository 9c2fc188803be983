package server

import (
	"context"
	"net/http"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/booking"
	bookingdomain "github.com/DuongHuynhTrung/CamCrew/internal/booking/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/catalog"
	catalogdomain "github.com/DuongHuynhTrung/CamCrew/internal/catalog/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/config"
	"github.com/DuongHuynhTrung/CamCrew/internal/gateway"
	"github.com/DuongHuynhTrung/CamCrew/internal/membership"
	membershipdomain "github.com/DuongHuynhTrung/CamCrew/internal/membership/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/notification"
	notificationdomain "github.com/DuongHuynhTrung/CamCrew/internal/notification/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/observability"
	obsmiddleware "github.com/DuongHuynhTrung/CamCrew/internal/observability/logger"
	obsmetrics "github.com/DuongHuynhTrung/CamCrew/internal/observability/metrics"
	obstracing "github.com/DuongHuynhTrung/CamCrew/internal/observability/tracing"
	"github.com/DuongHuynhTrung/CamCrew/internal/payment"
	paymentdomain "github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/pending"
	"github.com/DuongHuynhTrung/CamCrew/internal/purchase"
	purchasedomain "github.com/DuongHuynhTrung/CamCrew/internal/purchase/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/reconciler"
	"github.com/DuongHuynhTrung/CamCrew/internal/schedule"
	"github.com/DuongHuynhTrung/CamCrew/internal/scheduler"
	"github.com/DuongHuynhTrung/CamCrew/internal/user"
	userdomain "github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	user.Module,
	catalog.Module,
	booking.Module,
	payment.Module,
	pending.Module,
	notification.Module,
	membership.Module,
	purchase.Module,
	schedule.Module,
	gateway.Module,
	reconciler.Module,
	scheduler.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(obsmetrics.Handler(reg)))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, reg *prometheus.Registry) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, reg)
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
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	userSvc         userdomain.Service
	catalogSvc      catalogdomain.Catalog
	bookingSvc      bookingdomain.Service
	paymentSvc      paymentdomain.Service
	membershipSvc   membershipdomain.Service
	purchaseSvc     purchasedomain.Service
	notificationSvc notificationdomain.Service
	reconcilerSvc   *reconciler.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	UserSvc         userdomain.Service
	CatalogSvc      catalogdomain.Catalog
	BookingSvc      bookingdomain.Service
	PaymentSvc      paymentdomain.Service
	MembershipSvc   membershipdomain.Service
	PurchaseSvc     purchasedomain.Service
	NotificationSvc notificationdomain.Service
	ReconcilerSvc   *reconciler.Service

	Scheduler *scheduler.Scheduler
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		userSvc:         p.UserSvc,
		catalogSvc:      p.CatalogSvc,
		bookingSvc:      p.BookingSvc,
		paymentSvc:      p.PaymentSvc,
		membershipSvc:   p.MembershipSvc,
		purchaseSvc:     p.PurchaseSvc,
		notificationSvc: p.NotificationSvc,
		reconcilerSvc:   p.ReconcilerSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Users --------
	api.GET("/users/me", s.AuthRequired(), s.Me)

	// -------- Services (catalog) --------
	api.GET("/services", s.ListServices)
	api.GET("/services/:id", s.GetServiceByID)
	api.POST("/services/free-slots", s.FreeSlots)

	// -------- Bookings --------
	api.POST("/bookings", s.AuthRequired(), s.RequireRole(userdomain.RoleCustomer), s.CreateBooking)
	api.GET("/bookings", s.AuthRequired(), s.ListBookings)
	api.GET("/bookings/:id", s.AuthRequired(), s.GetBookingByID)
	api.PATCH("/bookings/:id/complete", s.AuthRequired(), s.CompleteBooking)

	// -------- Payments --------
	api.GET("/payments", s.AuthRequired(), s.ListPayments)
	api.GET("/payments/:id", s.AuthRequired(), s.GetPaymentByID)

	// -------- Gateway callback --------
	// No auth: the gateway posts here. Unknown order codes are absorbed.
	api.POST("/payments/webhook", s.HandlePaymentWebhook)

	// -------- Memberships --------
	api.POST("/memberships/subscribe", s.AuthRequired(), s.RequireRole(userdomain.RoleCameraman), s.Subscribe)

	// -------- Purchases --------
	api.POST("/purchases/buy-services", s.AuthRequired(), s.RequireRole(userdomain.RoleCustomer), s.BuyServices)
	api.GET("/purchases", s.AuthRequired(), s.ListPurchases)

	// -------- Notifications --------
	api.GET("/notifications", s.AuthRequired(), s.ListNotifications)
	api.PATCH("/notifications/:id/read", s.AuthRequired(), s.MarkNotificationRead)
}

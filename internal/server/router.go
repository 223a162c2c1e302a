package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trekmarket/internal/config"
	"trekmarket/internal/database"
	"trekmarket/internal/domain/booking"
	"trekmarket/internal/domain/coupon"
	"trekmarket/internal/domain/dashboard"
	"trekmarket/internal/domain/favorite"
	"trekmarket/internal/domain/feed"
	"trekmarket/internal/domain/identity"
	"trekmarket/internal/domain/invoice"
	"trekmarket/internal/domain/lead"
	"trekmarket/internal/domain/notification"
	"trekmarket/internal/domain/payment"
	"trekmarket/internal/domain/reference"
	"trekmarket/internal/domain/review"
	"trekmarket/internal/domain/traveler"
	"trekmarket/internal/domain/trek"
	"trekmarket/internal/middleware"
	"trekmarket/internal/pkg/jwt"
	"trekmarket/internal/pkg/response"
)

// Deps carries what the router needs. SMS, Gateway and RatingCache are
// optional; nil values fall back to the console sender, the HTTP gateway
// client built from Config.Gateway and the Redis cache when RedisURL is set.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Log         logrus.FieldLogger
	SMS         identity.SMSSender
	Gateway     payment.Gateway
	RatingCache review.SummaryCache
}

// Server is the assembled HTTP application.
type Server struct {
	Engine *gin.Engine
	Hub    *feed.Hub
	Tokens *jwt.Service
}

func New(d Deps) (*Server, error) {
	cfg := d.Config
	log := d.Log

	tokens := jwt.New(cfg.JWTSecret, cfg.StaffTTL, cfg.CustomerTTL)
	hub := feed.NewHub(log)

	sms := d.SMS
	if sms == nil {
		sms = identity.NewDevConsoleSender(log, cfg.OTPDevConsole)
	}
	identityService := identity.NewService(identity.NewRepository(d.DB), tokens, sms, identity.OTPConfig{
		Pepper:         cfg.OTPPepper,
		TTL:            cfg.OTPTTL,
		ResendCooldown: cfg.OTPResendCooldown,
	}, log)
	identityHandler := identity.NewHandler(identityService)

	referenceService := reference.NewService(d.DB)
	referenceHandler := reference.NewHandler(referenceService)

	trekHandler := trek.NewHandler(trek.NewService(d.DB, referenceService, log))
	travelerHandler := traveler.NewHandler(traveler.NewService(d.DB, log))
	couponHandler := coupon.NewHandler(coupon.NewService(d.DB, log))

	inbox := notification.NewService(d.DB, log)
	notificationHandler := notification.NewHandler(inbox)
	favoriteHandler := favorite.NewHandler(favorite.NewService(d.DB, log))

	bookingService := booking.NewService(d.DB, booking.Notifiers{hub, inbox}, log)
	bookingHandler := booking.NewHandler(bookingService)

	gateway := d.Gateway
	if gateway == nil {
		gateway = payment.NewClient(payment.ClientConfig{
			BaseURL:   cfg.Gateway.BaseURL,
			KeyID:     cfg.Gateway.KeyID,
			KeySecret: cfg.Gateway.KeySecret,
			Timeout:   cfg.Gateway.Timeout,
		})
	}
	paymentHandler := payment.NewHandler(payment.NewService(bookingService, gateway, payment.Config{
		KeyID:     cfg.Gateway.KeyID,
		KeySecret: cfg.Gateway.KeySecret,
		Currency:  cfg.Gateway.Currency,
	}, log))

	cache := d.RatingCache
	if cache == nil && cfg.RedisURL != "" {
		client, err := review.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		cache = review.NewRedisCache(client, cfg.RatingCacheTTL)
	}
	reviewHandler := review.NewHandler(review.NewService(d.DB, cache, log))

	invoiceHandler := invoice.NewHandler(bookingService)

	sqlxDB, err := database.SQLX(d.DB)
	if err != nil {
		return nil, fmt.Errorf("sqlx: %w", err)
	}
	dashboardHandler := dashboard.NewHandler(dashboard.NewRepository(sqlxDB))
	leadHandler := lead.NewHandler(lead.NewService(lead.NewRepository(sqlxDB), identityService, log))

	feedHandler := feed.NewHandler(hub, tokens, cfg.CORSAllowedOrigins)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", health(d.DB))

	v1 := r.Group("/api/v1")
	{
		identityHandler.RegisterCustomerAuthRoutes(v1)
		referenceHandler.RegisterPublicRoutes(v1)
		trekHandler.RegisterPublicRoutes(v1)
		reviewHandler.RegisterPublicRoutes(v1)
		lead.RegisterPublicRoutes(v1, leadHandler)

		customer := v1.Group("")
		customer.Use(middleware.CustomerAuth(tokens, identityService))
		{
			identityHandler.RegisterCustomerRoutes(customer)
			travelerHandler.RegisterCustomerRoutes(customer)
			couponHandler.RegisterCustomerRoutes(customer)
			bookingHandler.RegisterCustomerRoutes(customer)
			paymentHandler.RegisterCustomerRoutes(customer)
			reviewHandler.RegisterCustomerRoutes(customer)
			invoiceHandler.RegisterCustomerRoutes(customer)
			notificationHandler.RegisterCustomerRoutes(customer)
			favoriteHandler.RegisterCustomerRoutes(customer)
		}
	}

	vendorAPI := r.Group("/api/vendor")
	{
		identityHandler.RegisterStaffLoginRoute(vendorAPI, identity.RoleVendor)
		feedHandler.RegisterRoutes(vendorAPI)

		vendor := vendorAPI.Group("")
		vendor.Use(middleware.StaffAuth(tokens), middleware.VendorOnly())
		{
			identityHandler.RegisterVendorRoutes(vendor)
			trekHandler.RegisterVendorRoutes(vendor)
			bookingHandler.RegisterVendorRoutes(vendor)
			paymentHandler.RegisterVendorRoutes(vendor)
			invoiceHandler.RegisterVendorRoutes(vendor)
			dashboardHandler.RegisterVendorRoutes(vendor)
		}
	}

	adminAPI := r.Group("/api/admin")
	{
		identityHandler.RegisterStaffLoginRoute(adminAPI, identity.RoleAdmin)

		admin := adminAPI.Group("")
		admin.Use(middleware.StaffAuth(tokens), middleware.AdminOnly())
		{
			identityHandler.RegisterAdminRoutes(admin)
			referenceHandler.RegisterAdminRoutes(admin)
			couponHandler.RegisterAdminRoutes(admin)
			bookingHandler.RegisterAdminRoutes(admin)
			reviewHandler.RegisterAdminRoutes(admin)
			dashboardHandler.RegisterAdminRoutes(admin)
			lead.RegisterAdminRoutes(admin, leadHandler)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	return &Server{Engine: r, Hub: hub, Tokens: tokens}, nil
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vacaplan/config"
	"vacaplan/database"
	auditRepo "vacaplan/database/repository/audit"
	"vacaplan/handlers"
	"vacaplan/middleware"
	"vacaplan/routes"
	"vacaplan/services/booking"
	"vacaplan/services/intelligence"
	"vacaplan/services/planner"
	"vacaplan/services/providers"
	"vacaplan/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	// Load configuration.
	config.LoadConfig()

	// Initialize the logger.
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	logger.Sugar().Infof("Starting VacaPlan server in %s mode (mock providers: %v)",
		config.GetEnv(), config.AppConfig.UseMockProviders)

	registry := planner.NewRegistry()

	var (
		reasoner intelligence.ReasoningService
		calendar providers.CalendarProvider
		flights  providers.FlightProvider
		hotels   providers.HotelProvider

		tokenStore booking.TokenStore
		otpVerify  booking.OTPVerifier
		payments   booking.PaymentService
		audit      auditRepo.Repository
		issueOTP   func(ctx context.Context, sessionID string) (string, error)
	)

	if config.AppConfig.UseMockProviders {
		reasoner = intelligence.NewOfflineService()
		calendar = providers.MockCalendar{}
		flights = providers.MockFlights{}
		hotels = providers.MockHotels{}

		tokenStore = booking.NewMemoryTokenStore()
		otpVerify = booking.StaticOTPVerifier{Code: config.AppConfig.DevOTP}
		payments = booking.MockPayments{}
		audit = auditRepo.NewMemoryAuditRepo()
		issueOTP = func(ctx context.Context, sessionID string) (string, error) {
			return config.AppConfig.DevOTP, nil
		}
	} else {
		ctx := context.Background()
		gemini, err := intelligence.NewGeminiService(ctx, config.AppConfig.GeminiAPIKey)
		if err != nil {
			logger.Fatal("Failed to initialize Gemini service", zap.Error(err))
		}
		reasoner = gemini
		calendar = &providers.GoogleCalendar{AccessToken: config.AppConfig.GoogleAccessToken}
		flights = &providers.AmadeusFlights{
			APIKey:    config.AppConfig.AmadeusAPIKey,
			APISecret: config.AppConfig.AmadeusAPISecret,
		}
		hotels = &providers.BookingComHotels{
			Username: config.AppConfig.BookingComUsername,
			Password: config.AppConfig.BookingComPassword,
		}

		database.InitDB()
		utils.InitOTPCache()
		utils.InitTokenCache()
		stripe.Key = config.AppConfig.StripeKey

		tokenStore = &booking.RedisTokenStore{Client: utils.GetTokenCacheClient()}
		otpVerify = booking.RedisOTPVerifier{Client: utils.GetOTPCacheClient()}
		payments = booking.StripePayments{}
		audit = auditRepo.NewMongoAuditRepo()
		issueOTP = func(ctx context.Context, sessionID string) (string, error) {
			return utils.IssueSessionOTP(ctx, utils.GetOTPCacheClient(), sessionID)
		}
	}

	orchestrator := &planner.Orchestrator{
		Registry:      registry,
		Reasoner:      reasoner,
		Calendar:      calendar,
		Flights:       flights,
		Hotels:        hotels,
		Activities:    providers.CatalogActivities{},
		DefaultOrigin: config.AppConfig.DefaultOriginAirport,
		Logger:        logger,
	}

	tokens := &booking.TokenAuthority{
		Secret: config.AppConfig.BookingHMACSecret,
		TTL:    time.Duration(config.AppConfig.BookingTokenTTLSeconds) * time.Second,
		Store:  tokenStore,
	}

	bookingService := &booking.DefaultBookingService{
		Tokens: tokens,
		OTP:    otpVerify,
		Executor: &booking.Executor{
			Registry: registry,
			Payments: payments,
			Flights:  booking.ReferenceFlightOrders{},
			Hotels:   booking.ReferenceHotelOrders{},
			Audit:    audit,
			Logger:   logger,
		},
	}

	if hours := config.AppConfig.SessionRetentionHours; hours > 0 {
		retention := time.Duration(hours) * time.Hour
		go func() {
			for range time.Tick(retention / 2) {
				if n := registry.EvictCompletedBefore(time.Now().Add(-retention)); n > 0 {
					logger.Sugar().Infof("Evicted %d completed planning sessions", n)
				}
			}
		}()
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(utils.ErrorHandler())
	r.Use(routes.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	planHandler := handlers.NewPlanHandler(registry, orchestrator, tokens)
	bookingHandler := handlers.NewBookingHandler(registry, bookingService, issueOTP)

	routes.RegisterHealthRoute(r)
	routes.RegisterPlanningRoutes(r, planHandler)
	routes.RegisterBookingRoutes(r, bookingHandler)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: r,
	}

	go func() {
		logger.Sugar().Infof("Listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown: let in-flight requests (and SSE streams) drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

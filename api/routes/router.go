package routes

import (
	"net/http"
	"time"

	"ticketly/internal/auth"
	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/notifications"
	"ticketly/internal/seats"
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/database"
	"ticketly/internal/shared/middleware"
	"ticketly/internal/shared/utils/response"
	"ticketly/pkg/cache"
	"ticketly/pkg/logger"
	"ticketly/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies bundles everything the HTTP layer needs.
type Dependencies struct {
	Config    *config.Config
	DB        *database.DB
	Logger    *logger.Logger
	Publisher notifications.Publisher
}

// SetupRouter wires every module and returns the engine plus the background
// sweeper, which the caller owns the lifecycle of.
func SetupRouter(deps Dependencies) (*gin.Engine, *bookings.Sweeper) {
	cfg := deps.Config
	gin.SetMode(cfg.GinMode)

	events.RegisterValidations()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Shared infrastructure
	cacheService := cache.NewService(deps.DB.GetRedis())
	limiter := ratelimit.NewLimiter(deps.DB.GetRedis(), cfg.RateLimit.WindowDuration)
	limitFor := func(class string) gin.HandlerFunc {
		return ratelimit.Middleware(limiter, cfg.RateLimit, class)
	}

	// Module wiring
	authRepo := auth.NewRepository(deps.DB.GetPostgreSQL())
	authService := auth.NewService(authRepo, cfg.JWT, deps.Logger)
	authController := auth.NewController(authService)

	seatRepo := seats.NewRepository(deps.DB.GetPostgreSQL())
	seatService := seats.NewService(seatRepo, cacheService, cfg.Redis.SeatCacheTTL)
	seatController := seats.NewController(seatService)

	eventRepo := events.NewRepository(deps.DB.GetPostgreSQL())
	eventService := events.NewService(eventRepo, cacheService, cfg.Redis.CacheTTL)
	eventController := events.NewController(eventService)

	bookingRepo := bookings.NewRepository(deps.DB.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, seatService, deps.Publisher, deps.Logger, cfg.Booking.HoldTTL)
	bookingController := bookings.NewController(bookingService)

	sweeper := bookings.NewSweeper(bookingService, cfg.Booking.SweepInterval, deps.Logger)

	// Health endpoints
	router.GET("/health", limitFor(ratelimit.ClassHealth), func(c *gin.Context) {
		if err := deps.DB.HealthCheck(c.Request.Context()); err != nil {
			response.RespondJSON(c, "error", http.StatusServiceUnavailable, "Service unhealthy", gin.H{
				"time": time.Now().UTC(),
			}, err.Error())
			return
		}
		response.RespondJSON(c, "success", http.StatusOK, "Service healthy", gin.H{
			"time": time.Now().UTC(),
		}, nil)
	})

	// Every group carries its own rate class; the public class covers the
	// unauthenticated read surface.
	api := router.Group(cfg.GetAPIBasePath())
	api.Use(limitFor(ratelimit.ClassPublic))

	auth.RegisterRoutes(api, authController, limitFor(ratelimit.ClassAuth))
	events.RegisterRoutes(api, eventController, limitFor(ratelimit.ClassAdmin))
	seats.RegisterRoutes(api, seatController, limitFor(ratelimit.ClassAdmin))
	bookings.RegisterRoutes(api, bookingController,
		limitFor(ratelimit.ClassBooking), limitFor(ratelimit.ClassBookingCritical))

	return router, sweeper
}

package ratelimit

import (
	"fmt"
	"net/http"

	"ticketly/internal/shared/config"
	"ticketly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Route classes with separate budgets. The booking critical class covers the
// hold and confirm paths where a retry storm can starve the seat locks.
const (
	ClassPublic          = "public"
	ClassAuth            = "auth"
	ClassBooking         = "booking"
	ClassBookingCritical = "booking_critical"
	ClassAdmin           = "admin"
	ClassHealth          = "health"
)

// Middleware limits requests per client IP for the given class.
func Middleware(limiter *Limiter, cfg config.RateLimitConfig, class string) gin.HandlerFunc {
	limit := limitForClass(cfg, class)

	whitelist := make(map[string]struct{}, len(cfg.WhitelistedIPs))
	for _, ip := range cfg.WhitelistedIPs {
		whitelist[ip] = struct{}{}
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if _, ok := whitelist[ip]; ok {
			c.Next()
			return
		}

		result, err := limiter.Allow(c.Request.Context(), ip, class, limit)
		if err != nil {
			// Degraded redis must not take the API down with it.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))

		if !result.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%.0f", result.RetryAfter.Seconds()))
			response.RespondJSON(c, "error", http.StatusTooManyRequests, "Too many requests, please try again later", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func limitForClass(cfg config.RateLimitConfig, class string) int {
	switch class {
	case ClassPublic:
		return cfg.PublicRequests
	case ClassAuth:
		return cfg.AuthRequests
	case ClassBooking:
		return cfg.BookingRequests
	case ClassBookingCritical:
		return cfg.BookingCriticalRequests
	case ClassAdmin:
		return cfg.AdminRequests
	case ClassHealth:
		return cfg.HealthRequests
	default:
		return cfg.DefaultRequests
	}
}

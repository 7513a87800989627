package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitMiddleware creates a Gin middleware limiting requests per client
// IP using an in-memory store.
func RateLimitMiddleware(formatted string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		slog.Error("Invalid rate limit format, rate limiting disabled", slog.String("rate", formatted), slog.String("error", err.Error()))
		return func(c *gin.Context) { c.Next() }
	}

	store := memory.NewStore()
	instance := limiter.New(store, rate)

	return mgin.NewMiddleware(instance, mgin.WithErrorHandler(func(c *gin.Context, err error) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "rate limiter failure"})
	}))
}
